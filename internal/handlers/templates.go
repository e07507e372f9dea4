// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"docstudio/internal/engine"
	"docstudio/internal/fields"
	"docstudio/internal/freeform"
	"docstudio/internal/layout"
	"docstudio/internal/models"
)

// Templates groups the template handlers: CRUD, layout, editing, preview
// and PDF export.
type Templates struct {
	templates TemplateRepository
	engine    *engine.Engine
	documents DocumentLog
}

// NewTemplates creates the template handler group. documents may be nil.
func NewTemplates(templates TemplateRepository, eng *engine.Engine, documents DocumentLog) *Templates {
	return &Templates{templates: templates, engine: eng, documents: documents}
}

// templateRequest is the body of create and update calls. Update applies
// only the fields that are present.
type templateRequest struct {
	Name        *string                   `json:"name"`
	Orientation *models.Orientation       `json:"orientation"`
	Editor      *models.EditorKind        `json:"editor"`
	TotalPages  *int                      `json:"total_pages"`
	Elements    *[]models.TemplateElement `json:"elements"`
	Content     *string                   `json:"content"`
	// Markdown replaces Content with its conversion (free-form only).
	Markdown *string `json:"markdown"`
}

// apply copies the present fields onto t.
func (req *templateRequest) apply(t *models.Template) error {
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Orientation != nil {
		t.Orientation = *req.Orientation
	}
	if req.TotalPages != nil {
		t.TotalPages = *req.TotalPages
	}
	if req.Elements != nil {
		t.Elements = *req.Elements
	}
	if req.Content != nil {
		t.Content = *req.Content
	}
	if req.Markdown != nil {
		doc, err := freeform.FromMarkdown(*req.Markdown)
		if err != nil {
			return err
		}
		t.Content = doc.HTML()
	}
	return nil
}

// List returns every template, most recently updated first.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.templates.List()
	if err != nil {
		slog.Error("list templates failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list templates.")
		return
	}
	if items == nil {
		items = []models.Template{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one template.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// Create stores a new template at version 1.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := &models.Template{}
	if req.Editor != nil {
		t.Editor = *req.Editor
	}
	if err := req.apply(t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Markdown != nil && t.Editor == "" {
		t.Editor = models.EditorFreeform
	}
	if msg := validateTemplate(t); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.templates.Create(t)
	if err != nil {
		slog.Error("create template failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create template.")
		return
	}
	slog.Info("template created", "id", created.ID, "editor", created.Editor)
	writeJSON(w, http.StatusCreated, created)
}

// Update saves changed fields and bumps the version. The editor kind
// cannot change.
func (h *Templates) Update(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.load(w, r)
	if !ok {
		return
	}

	var req templateRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Editor != nil && *req.Editor != tpl.Editor {
		writeError(w, http.StatusConflict, "The editor of a template cannot be changed.")
		return
	}
	if err := req.apply(tpl); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTemplate(tpl); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	h.save(w, tpl, http.StatusOK, func(saved *models.Template) any { return saved })
}

// Delete removes a template and its cached renderings.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := templateID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.templates.Delete(id)
	if err != nil {
		slog.Error("delete template failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete template.")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}
	h.engine.InvalidateTemplate(id)
	slog.Info("template deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// layoutResponse is the page geometry of a template on a given container.
type layoutResponse struct {
	Orientation  models.Orientation `json:"orientation"`
	TotalPages   int                `json:"total_pages"`
	Dimensions   layout.Dimensions  `json:"dimensions"`
	CanvasHeight int                `json:"canvas_height"`
	PageBreaks   []layout.PageBreak `json:"page_breaks"`
	PageOffsets  []float64          `json:"page_offsets"`
}

// Layout returns page dimensions, canvas height and page-break separators
// for the container_width and zoom query parameters.
func (h *Templates) Layout(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.load(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	width := 0
	if s := q.Get("container_width"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "container_width must be a non-negative integer.")
			return
		}
		width = n
	}
	zoom := 1.0
	if s := q.Get("zoom"); s != "" {
		z, err := strconv.ParseFloat(s, 64)
		if err != nil || z <= 0 {
			writeError(w, http.StatusBadRequest, "zoom must be a positive number.")
			return
		}
		zoom = z
	}

	vp := layout.NewViewport(tpl.Orientation, tpl.TotalPages)
	vp.SetContainerWidth(width)
	dims := vp.Dimensions()
	offsets := make([]float64, vp.TotalPages())
	for i := range offsets {
		offsets[i] = layout.PageOffset(dims, i+1, zoom)
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		Orientation:  tpl.Orientation,
		TotalPages:   vp.TotalPages(),
		Dimensions:   dims,
		CanvasHeight: vp.CanvasHeight(),
		PageBreaks:   vp.PageBreaks(),
		PageOffsets:  offsets,
	})
}

// Fields returns the dynamic field catalog.
func (h *Templates) Fields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"placeholder": fields.Placeholder,
		"categories":  h.engine.Catalog().Categories(),
	})
}

// load fetches the template named by the {id} URL parameter, writing the
// error response itself when it cannot.
func (h *Templates) load(w http.ResponseWriter, r *http.Request) (*models.Template, bool) {
	id, err := templateID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	tpl, err := h.templates.FindByID(id)
	if err != nil {
		slog.Error("find template failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load template.")
		return nil, false
	}
	if tpl == nil {
		writeError(w, http.StatusNotFound, "Template not found.")
		return nil, false
	}
	tpl.Normalize()
	return tpl, true
}

// save stores tpl and writes body(saved) with status.
func (h *Templates) save(w http.ResponseWriter, tpl *models.Template, status int, body func(saved *models.Template) any) {
	saved, err := h.templates.Update(tpl)
	if err != nil {
		slog.Error("update template failed", "id", tpl.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save template.")
		return
	}
	if saved == nil {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}
	slog.Debug("template saved", "id", saved.ID, "version", saved.Version)
	writeJSON(w, status, body(saved))
}
