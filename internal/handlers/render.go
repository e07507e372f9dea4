// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"docstudio/internal/engine"
	"docstudio/internal/fields"
	"docstudio/internal/models"
)

// renderRequest carries the values dynamic fields resolve against. Values
// from Contract are applied first and explicit Values override them.
type renderRequest struct {
	Values   fields.Values        `json:"values"`
	Contract *models.ContractData `json:"contract"`
}

func (req renderRequest) values() fields.Values {
	if req.Contract == nil {
		return req.Values
	}
	out := fields.FromContract(*req.Contract)
	for k, v := range req.Values {
		out[k] = v
	}
	return out
}

// renderTarget parses the template id and optional values of a render call.
func renderTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, fields.Values, bool) {
	id, err := templateID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return uuid.Nil, nil, false
	}
	var req renderRequest
	if r.Method != http.MethodGet {
		if err := decodeJSON(w, r, &req, true); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return uuid.Nil, nil, false
		}
	}
	return id, req.values(), true
}

// Preview renders the HTML preview of a template with page-break
// separators. GET previews show field labels; POST resolves the supplied
// values.
func (h *Templates) Preview(w http.ResponseWriter, r *http.Request) {
	id, values, ok := renderTarget(w, r)
	if !ok {
		return
	}

	out, err := h.engine.Preview(id, values)
	if err != nil {
		writeRenderError(w, id, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// PDF exports a template as an A4 PDF and logs the download.
func (h *Templates) PDF(w http.ResponseWriter, r *http.Request) {
	id, values, ok := renderTarget(w, r)
	if !ok {
		return
	}

	data, tpl, err := h.engine.PDF(id, values)
	if err != nil {
		writeRenderError(w, id, err)
		return
	}

	filename := templateFilename(tpl.Name)
	if h.documents != nil {
		tplID := tpl.ID
		if _, err := h.documents.Record(&models.GeneratedDocument{
			TemplateID: &tplID,
			ClientName: values["cliente.nome"],
			Filename:   filename,
			Variant:    "template",
			SizeBytes:  len(data),
		}); err != nil {
			slog.Warn("record document failed", "template", tpl.ID, "error", err)
		}
	}
	writePDF(w, filename, data)
}

func writeRenderError(w http.ResponseWriter, id uuid.UUID, err error) {
	if errors.Is(err, engine.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}
	slog.Error("render template failed", "id", id, "error", err)
	writeError(w, http.StatusInternalServerError, "Failed to render template.")
}

// templateFilename turns a template name into a safe download name.
func templateFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "documento.pdf"
	}
	return b.String() + ".pdf"
}
