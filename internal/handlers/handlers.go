// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the docstudio JSON API.
// Handlers are grouped by concern (templates, contracts, health) and
// receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docstudio/internal/models"
)

// maxJSONBody bounds request bodies that are not uploads. Templates carry
// images as data URIs, so this is generous.
const maxJSONBody = 32 << 20

// TemplateRepository persists templates. *store.TemplateStore implements it.
type TemplateRepository interface {
	List() ([]models.Template, error)
	FindByID(id uuid.UUID) (*models.Template, error)
	Create(t *models.Template) (*models.Template, error)
	Update(t *models.Template) (*models.Template, error)
	Delete(id uuid.UUID) (bool, error)
}

// DocumentLog records generated PDFs. *store.DocumentStore implements it.
type DocumentLog interface {
	Record(d *models.GeneratedDocument) (*models.GeneratedDocument, error)
	ListRecent(limit int) ([]models.GeneratedDocument, error)
}

// PDFCache holds rendered PDFs. *cache.DocumentCache implements it.
type PDFCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// Archive keeps a copy of every contract handed out. *storage.Archive
// implements it.
type Archive interface {
	Put(ctx context.Context, key string, data []byte) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// templateID parses the {id} URL parameter.
func templateID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid template id")
	}
	return id, nil
}

// writePDF sends a PDF as a download.
func writePDF(w http.ResponseWriter, filename string, data []byte) {
	filename = strings.NewReplacer(`"`, "", "\\", "", "\r", "", "\n", "").Replace(filename)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
