// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Orientation is the page orientation of a template.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// Valid reports whether o is one of the known orientations.
func (o Orientation) Valid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}

// EditorKind selects which editor a template is authored with.
type EditorKind string

const (
	// EditorFreeform templates hold a single rich-content blob in Content.
	EditorFreeform EditorKind = "freeform"
	// EditorStructured templates hold an ordered element list in Elements.
	EditorStructured EditorKind = "structured"
)

// Template is a multi-page document definition. Pages are implicit vertical
// bands of the same height stacked on one canvas, not separate documents.
type Template struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Orientation Orientation       `json:"orientation"`
	TotalPages  int               `json:"total_pages"`
	Editor      EditorKind        `json:"editor"`
	Elements    []TemplateElement `json:"elements,omitempty"`
	Content     string            `json:"content,omitempty"`
	Version     int               `json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Normalize fills defaults and enforces TotalPages >= 1.
func (t *Template) Normalize() {
	if !t.Orientation.Valid() {
		t.Orientation = OrientationPortrait
	}
	if t.Editor != EditorFreeform && t.Editor != EditorStructured {
		t.Editor = EditorStructured
	}
	if t.TotalPages < 1 {
		t.TotalPages = 1
	}
}

// AddPage appends one page to the template.
func (t *Template) AddPage() int {
	t.TotalPages++
	return t.TotalPages
}

// RemovePage drops the last page. The page count never goes below 1.
func (t *Template) RemovePage() int {
	if t.TotalPages > 1 {
		t.TotalPages--
	} else {
		t.TotalPages = 1
	}
	return t.TotalPages
}
