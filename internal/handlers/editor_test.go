package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docstudio/internal/models"
)

func TestStructuredOps(t *testing.T) {
	env := newTemplateEnv()
	tpl := env.repo.add(models.Template{Name: "Proposta", Editor: models.EditorStructured})

	rr := call(t, env.h.StructuredOps, http.MethodPost, tpl.ID.String(), map[string]any{
		"ops": []map[string]any{
			{"op": "add_text"},
			{"op": "add_field"},
			{"op": "add_page"},
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("ops: %d %s", rr.Code, rr.Body.String())
	}
	got := decode[structuredResponse](t, rr)
	if len(got.Template.Elements) != 2 {
		t.Fatalf("elements = %d, want 2", len(got.Template.Elements))
	}
	if got.Template.TotalPages != 2 || got.Template.Version != 2 {
		t.Errorf("pages = %d version = %d", got.Template.TotalPages, got.Template.Version)
	}
	if got.IDs[0] == "" || got.IDs[1] == "" || got.Selected != got.IDs[1] {
		t.Errorf("ids = %v selected = %q", got.IDs, got.Selected)
	}
	selections := 0
	for _, ev := range got.Events {
		if ev.Type == "selection" {
			selections++
		}
	}
	if selections != 2 {
		t.Errorf("selection events = %d, want 2", selections)
	}

	stored, _ := env.repo.FindByID(tpl.ID)
	if len(stored.Elements) != 2 {
		t.Errorf("stored elements = %d, want 2", len(stored.Elements))
	}
}

func TestStructuredOpsRejected(t *testing.T) {
	env := newTemplateEnv()
	tpl := env.repo.add(models.Template{Name: "Proposta", Editor: models.EditorStructured})

	rr := call(t, env.h.StructuredOps, http.MethodPost, tpl.ID.String(), map[string]any{
		"ops": []map[string]any{{"op": "add_text"}, {"op": "explode"}},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", rr.Code)
	}
	if !strings.Contains(errorOf(t, rr), "op 1") {
		t.Errorf("error should name the failing op: %s", rr.Body.String())
	}
	stored, _ := env.repo.FindByID(tpl.ID)
	if stored.Version != 1 || len(stored.Elements) != 0 {
		t.Error("a rejected batch must not be saved")
	}
}

func TestEditorKindMismatch(t *testing.T) {
	env := newTemplateEnv()
	structured := env.repo.add(models.Template{Name: "S", Editor: models.EditorStructured})
	freeform := env.repo.add(models.Template{Name: "F", Editor: models.EditorFreeform})

	if rr := call(t, env.h.FreeformOps, http.MethodPost, structured.ID.String(), map[string]any{"ops": []any{}}); rr.Code != http.StatusConflict {
		t.Errorf("freeform ops on structured: status %d", rr.Code)
	}
	if rr := call(t, env.h.StructuredOps, http.MethodPost, freeform.ID.String(), map[string]any{"ops": []any{}}); rr.Code != http.StatusConflict {
		t.Errorf("structured ops on freeform: status %d", rr.Code)
	}
}

func TestStructuredImage(t *testing.T) {
	env := newTemplateEnv()
	tpl := env.repo.add(models.Template{Name: "Proposta", Editor: models.EditorStructured})

	req := multipartRequest(t, tpl.ID.String(), "logo.png", "image/png", pngBytes(t, 400, 200), map[string]string{"x": "30", "y": "40"})
	rr := httptest.NewRecorder()
	env.h.StructuredImage(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rr.Code, rr.Body.String())
	}
	got := decode[structuredResponse](t, rr)
	if len(got.Template.Elements) != 1 {
		t.Fatalf("elements = %d", len(got.Template.Elements))
	}
	el := got.Template.Elements[0]
	if el.Type != models.ElementImage || !strings.HasPrefix(el.Content, "data:image/png;base64,") {
		t.Errorf("element = %s %.30s", el.Type, el.Content)
	}
	if el.Position.X != 30 || el.Position.Y != 40 {
		t.Errorf("position = %+v", el.Position)
	}
	if el.Size == nil || el.Size.Width != 200 || el.Size.Height != 100 {
		t.Errorf("size = %+v, want half the native size", el.Size)
	}
}

func TestStructuredImageRejected(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		data        []byte
		form        map[string]string
		wantStatus  int
	}{
		{"not an image", "application/pdf", []byte("%PDF-1.4"), nil, http.StatusUnsupportedMediaType},
		{"bad coordinates", "image/png", nil, map[string]string{"x": "left", "y": "1"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTemplateEnv()
			tpl := env.repo.add(models.Template{Name: "Proposta", Editor: models.EditorStructured})
			data := tt.data
			if data == nil {
				data = pngBytes(t, 2, 2)
			}
			req := multipartRequest(t, tpl.ID.String(), "upload", tt.contentType, data, tt.form)
			rr := httptest.NewRecorder()
			env.h.StructuredImage(rr, req)
			if rr.Code != tt.wantStatus {
				t.Errorf("status %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			stored, _ := env.repo.FindByID(tpl.ID)
			if len(stored.Elements) != 0 {
				t.Error("template must not change")
			}
		})
	}

	t.Run("no file", func(t *testing.T) {
		env := newTemplateEnv()
		tpl := env.repo.add(models.Template{Name: "Proposta", Editor: models.EditorStructured})
		rr := call(t, env.h.StructuredImage, http.MethodPost, tpl.ID.String(), map[string]any{})
		if rr.Code != http.StatusRequestEntityTooLarge && rr.Code != http.StatusBadRequest {
			t.Errorf("status %d", rr.Code)
		}
	})
}

func TestFreeformOps(t *testing.T) {
	env := newTemplateEnv()
	tpl := env.repo.add(models.Template{Name: "Contrato", Editor: models.EditorFreeform})

	rr := call(t, env.h.FreeformOps, http.MethodPost, tpl.ID.String(), map[string]any{
		"ops": []map[string]any{
			{"op": "insert_text", "text": "Olá mundo"},
			{"op": "select", "anchor": map[string]int{"block": 0, "offset": 0}, "focus": map[string]int{"block": 0, "offset": 3}},
			{"op": "format", "command": "bold"},
			{"op": "format", "command": "justifyCenter"},
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("ops: %d %s", rr.Code, rr.Body.String())
	}
	got := decode[freeformResponse](t, rr)
	for _, want := range []string{"<b>Olá</b>", "text-align:center", "mundo"} {
		if !strings.Contains(got.Template.Content, want) {
			t.Errorf("content %q missing %q", got.Template.Content, want)
		}
	}
	if got.Signals == 0 {
		t.Error("no host signals recorded")
	}
	if got.ImageState != "unselected" {
		t.Errorf("image state = %q", got.ImageState)
	}

	rr = call(t, env.h.FreeformOps, http.MethodPost, tpl.ID.String(), map[string]any{
		"ops": []map[string]any{{"op": "format", "command": "strikeThrough"}},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown command: status %d, want 422", rr.Code)
	}
}

func TestFreeformImage(t *testing.T) {
	env := newTemplateEnv()
	tpl := env.repo.add(models.Template{Name: "Contrato", Editor: models.EditorFreeform, Content: "<p>antes depois</p>"})

	req := multipartRequest(t, tpl.ID.String(), "foto.png", "image/png", pngBytes(t, 1600, 800),
		map[string]string{"block": "0", "offset": "6"})
	rr := httptest.NewRecorder()
	env.h.FreeformImage(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rr.Code, rr.Body.String())
	}
	got := decode[freeformResponse](t, rr)
	if got.ImageID == "" || got.SelectedImage != got.ImageID || got.ImageState != "selected" {
		t.Errorf("image = %q selected = %q state = %q", got.ImageID, got.SelectedImage, got.ImageState)
	}
	content := got.Template.Content
	if !strings.Contains(content, `width="794"`) {
		t.Errorf("image should be scaled to the page width: %.200s", content)
	}
	if strings.Index(content, "antes") > strings.Index(content, "<img") {
		t.Errorf("image inserted before the caret: %.200s", content)
	}

	req = multipartRequest(t, tpl.ID.String(), "notes.txt", "text/plain", []byte("hello"), nil)
	rr = httptest.NewRecorder()
	env.h.FreeformImage(rr, req)
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("text upload: status %d, want 415", rr.Code)
	}
}
