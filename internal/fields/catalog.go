// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fields holds the dynamic field catalog: the categories and keys a
// template can reference through {{category.key}} placeholder tokens, and
// the helpers that build, parse and resolve those tokens.
package fields

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownField is returned when a category/key pair is not in the catalog.
var ErrUnknownField = errors.New("fields: unknown category or key")

// Field is one bindable key within a category.
type Field struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
}

// Category is a named, ordered group of fields.
type Category struct {
	Name   string  `yaml:"name" json:"name"`
	Label  string  `yaml:"label" json:"label"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Catalog is read-only once built. Order of categories and of fields within
// a category is preserved.
type Catalog struct {
	categories []Category
	index      map[string]map[string]string // category -> key -> label
}

// NewCatalog builds a catalog from categories. Duplicate categories or keys
// are rejected.
func NewCatalog(categories []Category) (*Catalog, error) {
	c := &Catalog{index: make(map[string]map[string]string)}
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("fields: category without name")
		}
		if _, dup := c.index[cat.Name]; dup {
			return nil, fmt.Errorf("fields: duplicate category %q", cat.Name)
		}
		keys := make(map[string]string, len(cat.Fields))
		for _, f := range cat.Fields {
			if f.Key == "" {
				return nil, fmt.Errorf("fields: empty key in category %q", cat.Name)
			}
			if _, dup := keys[f.Key]; dup {
				return nil, fmt.Errorf("fields: duplicate key %q in category %q", f.Key, cat.Name)
			}
			keys[f.Key] = f.Label
		}
		c.index[cat.Name] = keys
		c.categories = append(c.categories, cat)
	}
	return c, nil
}

// LoadYAML reads a catalog document of the form
//
//	categories:
//	  - name: cliente
//	    label: Cliente
//	    fields:
//	      - {key: nome, label: Nome}
func LoadYAML(r io.Reader) (*Catalog, error) {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("fields: decode yaml: %w", err)
	}
	return NewCatalog(doc.Categories)
}

// LoadFile reads a YAML catalog from path. An empty path yields Default().
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fields: open catalog: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// Categories returns the categories in catalog order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Fields returns the ordered fields of a category, or nil.
func (c *Catalog) Fields(category string) []Field {
	for _, cat := range c.categories {
		if cat.Name == category {
			out := make([]Field, len(cat.Fields))
			copy(out, cat.Fields)
			return out
		}
	}
	return nil
}

// HasCategory reports whether the catalog knows category.
func (c *Catalog) HasCategory(category string) bool {
	_, ok := c.index[category]
	return ok
}

// Label looks up the display label of category.key.
func (c *Catalog) Label(category, key string) (string, error) {
	keys, ok := c.index[category]
	if !ok {
		return "", ErrUnknownField
	}
	label, ok := keys[key]
	if !ok {
		return "", ErrUnknownField
	}
	return label, nil
}
