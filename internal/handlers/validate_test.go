package handlers

import (
	"strings"
	"testing"

	"docstudio/internal/models"
)

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name      string
		tpl       models.Template
		wantError bool
	}{
		{"valid structured", models.Template{Name: "Proposta", Editor: models.EditorStructured}, false},
		{"valid freeform", models.Template{Name: "Contrato", Editor: models.EditorFreeform, Content: "<p>x</p>"}, false},
		{"defaults allowed", models.Template{Name: "Sem editor"}, false},
		{"empty name", models.Template{Name: ""}, true},
		{"whitespace name", models.Template{Name: "   "}, true},
		{"name too long", models.Template{Name: strings.Repeat("a", 201)}, true},
		{"bad orientation", models.Template{Name: "x", Orientation: "diagonal"}, true},
		{"bad editor", models.Template{Name: "x", Editor: "wysiwyg"}, true},
		{"too many pages", models.Template{Name: "x", TotalPages: 101}, true},
		{"freeform with elements", models.Template{Name: "x", Editor: models.EditorFreeform,
			Elements: []models.TemplateElement{{ID: "a"}}}, true},
		{"structured with content", models.Template{Name: "x", Editor: models.EditorStructured, Content: "<p>x</p>"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateTemplate(&tt.tpl)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateContract(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		client    string
		wantError bool
	}{
		{"valid", "Contratada: Acme", "Cliente", false},
		{"empty client allowed", "texto", "", false},
		{"empty text", "", "Cliente", true},
		{"whitespace text", " \n ", "Cliente", true},
		{"text too long", strings.Repeat("a", 500_001), "Cliente", true},
		{"client too long", "texto", strings.Repeat("a", 301), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateContract(tt.text, tt.client)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
