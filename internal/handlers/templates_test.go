// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"docstudio/internal/models"
)

func TestTemplateCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		check      func(t *testing.T, tpl models.Template)
	}{
		{
			name:       "structured defaults",
			body:       map[string]any{"name": "Proposta"},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, tpl models.Template) {
				if tpl.Editor != models.EditorStructured || tpl.Orientation != models.OrientationPortrait ||
					tpl.TotalPages != 1 || tpl.Version != 1 {
					t.Errorf("defaults not applied: %+v", tpl)
				}
			},
		},
		{
			name:       "freeform from markdown",
			body:       map[string]any{"name": "Contrato", "markdown": "Some **bold** text"},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, tpl models.Template) {
				if tpl.Editor != models.EditorFreeform {
					t.Errorf("editor = %q, want freeform", tpl.Editor)
				}
				if !strings.Contains(tpl.Content, "<b>bold</b>") {
					t.Errorf("content = %q", tpl.Content)
				}
			},
		},
		{
			name:       "landscape with pages",
			body:       map[string]any{"name": "Anexo", "orientation": "landscape", "total_pages": 3},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, tpl models.Template) {
				if tpl.Orientation != models.OrientationLandscape || tpl.TotalPages != 3 {
					t.Errorf("got %s with %d pages", tpl.Orientation, tpl.TotalPages)
				}
			},
		},
		{"missing name", map[string]any{"editor": "structured"}, http.StatusBadRequest, nil},
		{"bad orientation", map[string]any{"name": "x", "orientation": "sideways"}, http.StatusBadRequest, nil},
		{"unknown field", map[string]any{"name": "x", "colour": "red"}, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTemplateEnv()
			rr := call(t, env.h.Create, http.MethodPost, "", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.check != nil {
				tt.check(t, decode[models.Template](t, rr))
			}
			if tt.wantStatus >= 400 && errorOf(t, rr) == "" {
				t.Error("error body missing")
			}
		})
	}
}

func TestTemplateGetListDelete(t *testing.T) {
	env := newTemplateEnv()
	tpl := env.repo.add(models.Template{Name: "Proposta"})

	rr := call(t, env.h.Get, http.MethodGet, tpl.ID.String(), nil)
	if rr.Code != http.StatusOK || decode[models.Template](t, rr).Name != "Proposta" {
		t.Fatalf("get: %d %s", rr.Code, rr.Body.String())
	}

	rr = call(t, env.h.List, http.MethodGet, "", nil)
	if list := decode[[]models.Template](t, rr); len(list) != 1 {
		t.Errorf("list length = %d, want 1", len(list))
	}

	if rr := call(t, env.h.Get, http.MethodGet, "not-a-uuid", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("bad id: status %d", rr.Code)
	}
	if rr := call(t, env.h.Get, http.MethodGet, uuid.NewString(), nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown id: status %d", rr.Code)
	}

	if rr := call(t, env.h.Delete, http.MethodDelete, tpl.ID.String(), nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rr.Code)
	}
	if rr := call(t, env.h.Delete, http.MethodDelete, tpl.ID.String(), nil); rr.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d", rr.Code)
	}

	rr = call(t, env.h.List, http.MethodGet, "", nil)
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("empty list should encode as [], got %s", rr.Body.String())
	}
}

func TestTemplateStoreErrors(t *testing.T) {
	env := newTemplateEnv()
	env.repo.err = errBoom

	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		id      string
		body    any
	}{
		{"list", env.h.List, http.MethodGet, "", nil},
		{"get", env.h.Get, http.MethodGet, uuid.NewString(), nil},
		{"create", env.h.Create, http.MethodPost, "", map[string]any{"name": "x"}},
		{"delete", env.h.Delete, http.MethodDelete, uuid.NewString(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := call(t, tt.handler, tt.method, tt.id, tt.body)
			if rr.Code != http.StatusInternalServerError {
				t.Errorf("status %d, want 500", rr.Code)
			}
		})
	}
}

func TestTemplateUpdate(t *testing.T) {
	env := newTemplateEnv()
	tpl := env.repo.add(models.Template{Name: "Proposta", Editor: models.EditorStructured})

	rr := call(t, env.h.Update, http.MethodPut, tpl.ID.String(), map[string]any{"name": "Proposta 2026", "total_pages": 2})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rr.Code, rr.Body.String())
	}
	got := decode[models.Template](t, rr)
	if got.Name != "Proposta 2026" || got.TotalPages != 2 || got.Version != 2 {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Orientation != models.OrientationPortrait {
		t.Errorf("absent fields must be kept, orientation = %q", got.Orientation)
	}

	rr = call(t, env.h.Update, http.MethodPut, tpl.ID.String(), map[string]any{"editor": "freeform"})
	if rr.Code != http.StatusConflict {
		t.Errorf("editor change: status %d, want 409", rr.Code)
	}

	rr = call(t, env.h.Update, http.MethodPut, tpl.ID.String(), map[string]any{"content": "<p>x</p>"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("content on structured: status %d, want 400", rr.Code)
	}
}

func TestTemplateLayout(t *testing.T) {
	env := newTemplateEnv()
	tpl := env.repo.add(models.Template{Name: "Proposta", TotalPages: 3})

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/?container_width=842&zoom=0.5", nil), "id", tpl.ID.String())
	rr := httptest.NewRecorder()
	env.h.Layout(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("layout: %d %s", rr.Code, rr.Body.String())
	}
	got := decode[layoutResponse](t, rr)
	if got.Dimensions.Width != 794 || got.Dimensions.Height != 1123 {
		t.Errorf("dimensions = %+v, want 794x1123", got.Dimensions)
	}
	if got.CanvasHeight != 3369 {
		t.Errorf("canvas height = %d, want 3369", got.CanvasHeight)
	}
	if len(got.PageBreaks) != 2 || got.PageBreaks[0].Offset != 1123 || got.PageBreaks[1].Label != "PAGE 3" {
		t.Errorf("page breaks = %+v", got.PageBreaks)
	}
	if want := []float64{0, 561.5, 1123}; len(got.PageOffsets) != 3 || got.PageOffsets[1] != want[1] || got.PageOffsets[2] != want[2] {
		t.Errorf("page offsets = %v, want %v", got.PageOffsets, want)
	}

	for _, query := range []string{"/?container_width=-1", "/?container_width=wide", "/?zoom=0"} {
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, query, nil), "id", tpl.ID.String())
		rr := httptest.NewRecorder()
		env.h.Layout(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", query, rr.Code)
		}
	}
}

func TestFieldsCatalog(t *testing.T) {
	env := newTemplateEnv()
	rr := call(t, env.h.Fields, http.MethodGet, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	got := decode[struct {
		Placeholder string `json:"placeholder"`
		Categories  []struct {
			Name string `json:"name"`
		} `json:"categories"`
	}](t, rr)
	if got.Placeholder != "{{campo.dinamico}}" || len(got.Categories) == 0 {
		t.Errorf("catalog = %+v", got)
	}
}

func TestTemplatePreview(t *testing.T) {
	env := newTemplateEnv()
	style := models.DefaultStyle()
	tpl := env.repo.add(models.Template{
		Name:       "Proposta",
		TotalPages: 2,
		Elements: []models.TemplateElement{{
			ID: "f1", Type: models.ElementField, Content: "{{cliente.nome}}", FieldType: "cliente", FieldKey: "nome",
			Style: style, Position: models.Position{X: 10, Y: 10}, Size: &models.Size{Width: 180, Height: 32},
		}},
	})

	rr := call(t, env.h.Preview, http.MethodGet, tpl.ID.String(), nil)
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("preview: %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Body.String(), "PAGE 2") {
		t.Error("page break missing")
	}

	rr = call(t, env.h.Preview, http.MethodPost, tpl.ID.String(), map[string]any{
		"contract": map[string]any{"client_name": "Acme Ltda"},
		"values":   map[string]string{"cliente.cnpj": "00.000.000/0001-00"},
	})
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Acme Ltda") {
		t.Errorf("contract values not resolved: %d %s", rr.Code, rr.Body.String())
	}

	if rr := call(t, env.h.Preview, http.MethodGet, uuid.NewString(), nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown template: status %d", rr.Code)
	}
}

func TestTemplatePDF(t *testing.T) {
	env := newTemplateEnv()
	tpl := env.repo.add(models.Template{Name: "Proposta Comercial", Editor: models.EditorFreeform, Content: "<p>{{cliente.nome}}</p>"})

	rr := call(t, env.h.PDF, http.MethodPost, tpl.ID.String(), map[string]any{"values": map[string]string{"cliente.nome": "Acme"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("pdf: %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("content type = %q", rr.Header().Get("Content-Type"))
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="Proposta_Comercial.pdf"` {
		t.Errorf("disposition = %q", got)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}

	if len(env.docs.entries) != 1 {
		t.Fatalf("documents recorded = %d, want 1", len(env.docs.entries))
	}
	entry := env.docs.entries[0]
	if entry.ClientName != "Acme" || entry.TemplateID == nil || *entry.TemplateID != tpl.ID || entry.Variant != "template" {
		t.Errorf("entry = %+v", entry)
	}

	env.docs.err = errBoom
	if rr := call(t, env.h.PDF, http.MethodGet, tpl.ID.String(), nil); rr.Code != http.StatusOK {
		t.Errorf("log failure must not fail the download: status %d", rr.Code)
	}
}

func TestTemplateFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Proposta Comercial", "Proposta_Comercial.pdf"},
		{"  Ação/2026  ", "Ação2026.pdf"},
		{`../"evil"`, "evil.pdf"},
		{"", "documento.pdf"},
	}
	for _, tt := range tests {
		if got := templateFilename(tt.in); got != tt.want {
			t.Errorf("templateFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
