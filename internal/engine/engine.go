// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders stored templates for output: an HTML preview with
// page breaks and a printable PDF. Field placeholders are filled from
// supplied values.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"docstudio/internal/fields"
	"docstudio/internal/models"
)

// ErrNotFound is returned when the template does not exist.
var ErrNotFound = errors.New("engine: template not found")

// TemplateSource loads templates. *store.TemplateStore implements it.
type TemplateSource interface {
	FindByID(id uuid.UUID) (*models.Template, error)
}

// Engine renders templates loaded from a TemplateSource. Renderings
// without field values are kept in an in-memory cache (L1) keyed by
// ID+version, so repeated previews skip parsing and layout.
type Engine struct {
	templates TemplateSource
	cache     *renderCache

	mu      sync.RWMutex
	catalog *fields.Catalog
}

// New creates an engine. A nil catalog selects fields.Default.
func New(templates TemplateSource, catalog *fields.Catalog) *Engine {
	if catalog == nil {
		catalog = fields.Default()
	}
	return &Engine{
		templates: templates,
		cache:     newRenderCache(),
		catalog:   catalog,
	}
}

// Catalog returns the field catalog used for labels.
func (e *Engine) Catalog() *fields.Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

// SetCatalog swaps the field catalog and drops every cached rendering.
func (e *Engine) SetCatalog(c *fields.Catalog) {
	e.mu.Lock()
	e.catalog = c
	e.mu.Unlock()
	e.cache.invalidateAll()
}

// InvalidateTemplate removes a template's renderings from the cache.
// Called by handlers after a template is deleted.
func (e *Engine) InvalidateTemplate(id uuid.UUID) {
	e.cache.invalidate(id.String())
}

func (e *Engine) load(id uuid.UUID) (*models.Template, error) {
	tpl, err := e.templates.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("engine: load template: %w", err)
	}
	if tpl == nil {
		return nil, ErrNotFound
	}
	return tpl, nil
}

// Preview renders the HTML preview of a stored template.
func (e *Engine) Preview(id uuid.UUID, values fields.Values) ([]byte, error) {
	tpl, err := e.load(id)
	if err != nil {
		return nil, err
	}
	return e.cached(tpl, "html", values, func() ([]byte, error) {
		return RenderPreview(*tpl, e.Catalog(), values)
	})
}

// PDF renders a stored template as a PDF. It also returns the template so
// callers can name the download.
func (e *Engine) PDF(id uuid.UUID, values fields.Values) ([]byte, *models.Template, error) {
	tpl, err := e.load(id)
	if err != nil {
		return nil, nil, err
	}
	data, err := e.cached(tpl, "pdf", values, func() ([]byte, error) {
		data, pages, err := RenderPDF(*tpl, e.Catalog(), values)
		if err == nil {
			slog.Info("template pdf rendered", "id", tpl.ID, "version", tpl.Version, "pages", pages)
		}
		return data, err
	})
	return data, tpl, err
}

// cached serves renderings without values from the L1 cache.
func (e *Engine) cached(tpl *models.Template, format string, values fields.Values, render func() ([]byte, error)) ([]byte, error) {
	if len(values) > 0 {
		return render()
	}
	key := cacheKey{id: tpl.ID.String(), version: tpl.Version, format: format}
	if data := e.cache.get(key); data != nil {
		return data, nil
	}
	data, err := render()
	if err != nil {
		return nil, err
	}
	e.cache.put(key, data)
	return data, nil
}
