// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory fakes for the stores, cache and archive, and request helpers.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docstudio/internal/engine"
	"docstudio/internal/models"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// memTemplates is an in-memory TemplateRepository.
type memTemplates struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.Template
	err   error
}

func newMemTemplates() *memTemplates {
	return &memTemplates{items: make(map[uuid.UUID]models.Template)}
}

func (m *memTemplates) List() ([]models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Template
	for _, t := range m.items {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTemplates) FindByID(id uuid.UUID) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memTemplates) Create(t *models.Template) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	in := *t
	in.Normalize()
	in.ID = uuid.New()
	in.Version = 1
	in.CreatedAt = time.Now()
	in.UpdatedAt = in.CreatedAt
	m.items[in.ID] = in
	return &in, nil
}

func (m *memTemplates) Update(t *models.Template) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	old, ok := m.items[t.ID]
	if !ok {
		return nil, nil
	}
	in := *t
	in.Normalize()
	in.Editor = old.Editor
	in.Version = old.Version + 1
	in.UpdatedAt = time.Now()
	m.items[in.ID] = in
	return &in, nil
}

func (m *memTemplates) Delete(id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.items[id]
	delete(m.items, id)
	return ok, nil
}

// add stores a template directly and returns it.
func (m *memTemplates) add(t models.Template) models.Template {
	created, _ := m.Create(&t)
	return *created
}

// memDocuments is an in-memory DocumentLog.
type memDocuments struct {
	mu      sync.Mutex
	entries []models.GeneratedDocument
	err     error
}

func (m *memDocuments) Record(d *models.GeneratedDocument) (*models.GeneratedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := *d
	out.ID = uuid.New()
	out.CreatedAt = time.Now()
	m.entries = append(m.entries, out)
	return &out, nil
}

func (m *memDocuments) ListRecent(limit int) ([]models.GeneratedDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.GeneratedDocument
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// memCache is an in-memory PDFCache.
type memCache struct {
	data map[string][]byte
	hits int
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	d, ok := c.data[key]
	if ok {
		c.hits++
	}
	return d, ok
}

func (c *memCache) Set(_ context.Context, key string, data []byte) {
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	c.data[key] = data
}

// memArchive is an in-memory Archive.
type memArchive struct {
	objects map[string][]byte
	putErr  error
}

func (a *memArchive) Put(_ context.Context, key string, data []byte) error {
	if a.putErr != nil {
		return a.putErr
	}
	if a.objects == nil {
		a.objects = make(map[string][]byte)
	}
	a.objects[key] = data
	return nil
}

func (a *memArchive) PresignedURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://archive.test/%s?expires=%d", key, int(expires.Seconds())), nil
}

var errBoom = errors.New("connection refused")

// templateEnv is a Templates handler over in-memory fakes.
type templateEnv struct {
	repo *memTemplates
	docs *memDocuments
	h    *Templates
}

func newTemplateEnv() *templateEnv {
	repo := newMemTemplates()
	docs := &memDocuments{}
	return &templateEnv{repo: repo, docs: docs, h: NewTemplates(repo, engine.New(repo, nil), docs)}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// call runs handler for a request with an optional JSON body and {id}.
func call(t *testing.T, handler http.HandlerFunc, method, id string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/", rd)
	if id != "" {
		req = withChiURLParam(req, "id", id)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// decode unmarshals a JSON response.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

// errorOf returns the message of a JSON error response.
func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorBody](t, rr).Error
}

// pngBytes encodes a blank w x h PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// multipartRequest builds a request with one "file" part of the given type
// plus form fields.
func multipartRequest(t *testing.T, id, filename, contentType string, data []byte, form map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	for k, v := range form {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if id != "" {
		req = withChiURLParam(req, "id", id)
	}
	return req
}
