// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"docstudio/internal/freeform"
	"docstudio/internal/imaging"
	"docstudio/internal/layout"
	"docstudio/internal/models"
	"docstudio/internal/structured"
)

// editorEvent is a host notification raised while a command batch ran.
type editorEvent struct {
	Type    string             `json:"type"`
	ID      string             `json:"id,omitempty"`
	Update  *structured.Update `json:"update,omitempty"`
	Content string             `json:"content,omitempty"`
}

type structuredOpsRequest struct {
	ContainerWidth int             `json:"container_width"`
	Ops            []structured.Op `json:"ops"`
}

type structuredResponse struct {
	Template models.Template `json:"template"`
	IDs      []string        `json:"ids,omitempty"`
	Selected string          `json:"selected"`
	Zoom     float64         `json:"zoom"`
	Events   []editorEvent   `json:"events"`
}

// structuredEditor opens a structured editor over tpl that records every
// host notification into events.
func (h *Templates) structuredEditor(tpl *models.Template, containerWidth int, events *[]editorEvent) *structured.Editor {
	cb := structured.Callbacks{
		OnSelectionChange: func(id string) {
			*events = append(*events, editorEvent{Type: "selection", ID: id})
		},
		OnElementUpdate: func(id string, u structured.Update) {
			*events = append(*events, editorEvent{Type: "element_update", ID: id, Update: &u})
		},
		OnTextDoubleClick: func(content string) {
			*events = append(*events, editorEvent{Type: "text_double_click", Content: content})
		},
	}
	opts := []structured.Option{structured.WithCallbacks(cb)}
	if containerWidth > 0 {
		opts = append(opts, structured.WithContainerWidth(containerWidth))
	}
	return structured.New(*tpl, h.engine.Catalog(), opts...)
}

// requireEditor rejects templates authored with another editor.
func requireEditor(w http.ResponseWriter, tpl *models.Template, kind models.EditorKind) bool {
	if tpl.Editor != kind {
		writeError(w, http.StatusConflict, "Template uses the "+string(tpl.Editor)+" editor.")
		return false
	}
	return true
}

// StructuredOps applies a batch of structured editor commands and saves
// the result. A failing command rejects the whole batch.
func (h *Templates) StructuredOps(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.load(w, r)
	if !ok || !requireEditor(w, tpl, models.EditorStructured) {
		return
	}

	var req structuredOpsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var events []editorEvent
	ed := h.structuredEditor(tpl, req.ContainerWidth, &events)
	ids, err := ed.Run(r.Context(), req.Ops)
	if err != nil {
		slog.Warn("structured ops rejected", "id", tpl.ID, "error", err)
		writeError(w, editorErrorStatus(err), err.Error())
		return
	}

	next := ed.Template()
	h.save(w, &next, http.StatusOK, func(saved *models.Template) any {
		return structuredResponse{Template: *saved, IDs: ids, Selected: ed.Selected(), Zoom: ed.ZoomLevel(), Events: events}
	})
}

// StructuredImage adds an uploaded image as a new element. The optional x
// and y form values give the drop point in canvas coordinates.
func (h *Templates) StructuredImage(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.load(w, r)
	if !ok || !requireEditor(w, tpl, models.EditorStructured) {
		return
	}

	f, ok := readUpload(w, r)
	if !ok {
		return
	}

	var at *models.Position
	if xs, ys := r.FormValue("x"), r.FormValue("y"); xs != "" || ys != "" {
		x, errX := strconv.ParseFloat(xs, 64)
		y, errY := strconv.ParseFloat(ys, 64)
		if errX != nil || errY != nil {
			writeError(w, http.StatusBadRequest, "x and y must be numbers.")
			return
		}
		at = &models.Position{X: x, Y: y}
	}

	var events []editorEvent
	ed := h.structuredEditor(tpl, 0, &events)
	id, err := ed.HandleImageUpload(f, at)
	if err != nil {
		writeError(w, editorErrorStatus(err), err.Error())
		return
	}

	next := ed.Template()
	h.save(w, &next, http.StatusCreated, func(saved *models.Template) any {
		return structuredResponse{Template: *saved, IDs: []string{id}, Selected: ed.Selected(), Zoom: ed.ZoomLevel(), Events: events}
	})
}

type freeformOpsRequest struct {
	Ops []freeform.Op `json:"ops"`
}

type freeformResponse struct {
	Template      models.Template `json:"template"`
	ImageID       string          `json:"image_id,omitempty"`
	ImageState    string          `json:"image_state"`
	SelectedImage string          `json:"selected_image,omitempty"`
	Signals       int             `json:"signals"`
}

// freeformEditor opens a free-form editor over tpl's content. Inserted
// images are scaled to the page width.
func freeformEditor(tpl *models.Template, signals *int) (*freeform.Editor, error) {
	return freeform.New(tpl.Content,
		freeform.WithNotifier(func(string) { *signals++ }),
		freeform.WithMaxImageWidth(float64(layout.DefaultDimensions(tpl.Orientation).Width)),
	)
}

func (h *Templates) saveFreeform(w http.ResponseWriter, tpl *models.Template, ed *freeform.Editor, status int, imageID string, signals int) {
	tpl.Content = ed.Content()
	state, selected := ed.ImageState()
	h.save(w, tpl, status, func(saved *models.Template) any {
		return freeformResponse{
			Template:      *saved,
			ImageID:       imageID,
			ImageState:    state.String(),
			SelectedImage: selected,
			Signals:       signals,
		}
	})
}

// FreeformOps applies a batch of free-form editor commands and saves the
// resulting content.
func (h *Templates) FreeformOps(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.load(w, r)
	if !ok || !requireEditor(w, tpl, models.EditorFreeform) {
		return
	}

	var req freeformOpsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	signals := 0
	ed, err := freeformEditor(tpl, &signals)
	if err != nil {
		slog.Error("open freeform content failed", "id", tpl.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to open template content.")
		return
	}
	if err := ed.Run(r.Context(), req.Ops); err != nil {
		slog.Warn("freeform ops rejected", "id", tpl.ID, "error", err)
		writeError(w, editorErrorStatus(err), err.Error())
		return
	}
	h.saveFreeform(w, tpl, ed, http.StatusOK, "", signals)
}

// FreeformImage inserts an uploaded image at the block/offset form values,
// or at the end of the document when they are absent.
func (h *Templates) FreeformImage(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.load(w, r)
	if !ok || !requireEditor(w, tpl, models.EditorFreeform) {
		return
	}

	f, ok := readUpload(w, r)
	if !ok {
		return
	}

	signals := 0
	ed, err := freeformEditor(tpl, &signals)
	if err != nil {
		slog.Error("open freeform content failed", "id", tpl.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to open template content.")
		return
	}

	at := ed.Document().End()
	if bs := r.FormValue("block"); bs != "" {
		block, errB := strconv.Atoi(bs)
		offset, errO := strconv.Atoi(r.FormValue("offset"))
		if errB != nil || errO != nil {
			writeError(w, http.StatusBadRequest, "block and offset must be integers.")
			return
		}
		at = freeform.Pos{Block: block, Offset: offset}
	}
	ed.Select(at, at)

	id, err := ed.HandleImageUpload(f)
	if err != nil {
		writeError(w, editorErrorStatus(err), err.Error())
		return
	}
	h.saveFreeform(w, tpl, ed, http.StatusCreated, id, signals)
}

// readUpload reads the "file" part of a multipart request.
func readUpload(w http.ResponseWriter, r *http.Request) (imaging.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Upload too large or not multipart (max 10 MB).")
		return imaging.File{}, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided.")
		return imaging.File{}, false
	}
	file.Close()

	f, err := imaging.FromMultipart(header)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return imaging.File{}, false
	}
	return f, true
}

// editorErrorStatus maps editor errors to HTTP statuses.
func editorErrorStatus(err error) int {
	switch {
	case errors.Is(err, imaging.ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, structured.ErrNoElement):
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}
