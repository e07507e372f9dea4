package handlers

import (
	"strings"
	"unicode/utf8"

	"docstudio/internal/models"
)

// Validation limits for templates and contract requests.
const (
	maxTemplateNameLen = 200
	maxTemplatePages   = 100
	maxTemplateContent = 20_000_000
	maxElements        = 2_000
	maxClientNameLen   = 300
	maxContractTextLen = 500_000
)

// validateTemplateName checks a template name and returns the first error found.
func validateTemplateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	return ""
}

// validateTemplate checks a template about to be stored.
func validateTemplate(t *models.Template) string {
	if msg := validateTemplateName(t.Name); msg != "" {
		return msg
	}
	if t.Orientation != "" && !t.Orientation.Valid() {
		return "Orientation must be portrait or landscape."
	}
	if t.Editor != "" && t.Editor != models.EditorFreeform && t.Editor != models.EditorStructured {
		return "Editor must be freeform or structured."
	}
	if t.TotalPages > maxTemplatePages {
		return "Too many pages (max 100)."
	}
	if len(t.Elements) > maxElements {
		return "Too many elements (max 2000)."
	}
	if len(t.Content) > maxTemplateContent {
		return "Template content is too long."
	}
	if t.Editor == models.EditorFreeform && len(t.Elements) > 0 {
		return "Free-form templates have no elements."
	}
	if t.Editor != models.EditorFreeform && t.Content != "" {
		return "Structured templates have no content."
	}
	return ""
}

// validateContract checks a contract text request.
func validateContract(text, client string) string {
	if strings.TrimSpace(text) == "" {
		return "Contract text is required."
	}
	if utf8.RuneCountInString(text) > maxContractTextLen {
		return "Contract text is too long (max 500,000 characters)."
	}
	if utf8.RuneCountInString(client) > maxClientNameLen {
		return "Client name is too long (max 300 characters)."
	}
	return ""
}
