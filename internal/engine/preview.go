// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"docstudio/internal/fields"
	"docstudio/internal/freeform"
	"docstudio/internal/imaging"
	"docstudio/internal/layout"
	"docstudio/internal/models"
	"docstudio/internal/pdf"
	"docstudio/internal/structured"
)

var previewTmpl = template.Must(template.New("preview").Parse(`<div class="document document-{{.Editor}}" data-pages="{{.Pages}}" style="{{.Style}}">
{{- if .Body}}{{.Body}}{{end}}
{{- range .Objects}}
<div class="element element-{{.Kind}}" data-id="{{.ID}}" style="{{.Style}}">
{{- if .Src}}<img src="{{.Src}}" alt="" width="{{.Width}}" height="{{.Height}}">{{else}}{{.Text}}{{end -}}
</div>
{{- end}}
{{- range .Breaks}}
<div class="page-break" style="position:absolute;left:0;right:0;top:{{.Offset}}px;border-top:1px dashed #94a3b8"><span>{{.Label}}</span></div>
{{- end}}
</div>
`))

type previewData struct {
	Editor  models.EditorKind
	Pages   int
	Style   template.CSS
	Body    template.HTML
	Objects []previewObject
	Breaks  []layout.PageBreak
}

type previewObject struct {
	ID     string
	Kind   structured.Kind
	Style  template.CSS
	Text   string
	Src    template.URL
	Width  string
	Height string
}

// RenderPreview renders tpl as an HTML fragment. Field placeholders with a
// value are replaced; the rest show their catalog label. Pages are stacked
// and separated by labelled page breaks.
func RenderPreview(tpl models.Template, catalog *fields.Catalog, values fields.Values) ([]byte, error) {
	tpl.Normalize()
	if catalog == nil {
		catalog = fields.Default()
	}
	dims := layout.DefaultDimensions(tpl.Orientation)
	data := previewData{
		Editor: tpl.Editor,
		Pages:  tpl.TotalPages,
		Breaks: layout.PageBreaks(dims, tpl.TotalPages),
	}

	if tpl.Editor == models.EditorFreeform {
		doc, err := freeform.Parse(tpl.Content)
		if err != nil {
			return nil, fmt.Errorf("engine: parse content: %w", err)
		}
		resolveDocument(doc, values)
		data.Style = template.CSS(fmt.Sprintf("position:relative;width:%dpx;min-height:%dpx",
			dims.Width, layout.TotalCanvasHeight(dims, tpl.TotalPages)))
		// Document.HTML escapes text and attributes itself.
		data.Body = template.HTML(doc.HTML())
	} else {
		data.Style = template.CSS(fmt.Sprintf("position:relative;width:%dpx;height:%dpx",
			dims.Width, layout.TotalCanvasHeight(dims, tpl.TotalPages)))
		for _, o := range structured.Scene(tpl.Elements) {
			data.Objects = append(data.Objects, previewObjectFor(o, catalog, values))
		}
	}

	var buf bytes.Buffer
	if err := previewTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("engine: render preview: %w", err)
	}
	return buf.Bytes(), nil
}

func previewObjectFor(o structured.Object, catalog *fields.Catalog, values fields.Values) previewObject {
	p := previewObject{ID: o.ElementID, Kind: o.Kind}
	css := []string{
		"position:absolute",
		"left:" + px(o.Left),
		"top:" + px(o.Top),
	}
	if o.Width > 0 {
		css = append(css, "width:"+px(o.Width), "height:"+px(o.Height))
	}

	switch o.Kind {
	case structured.KindImage:
		if mimeType, _, err := imaging.ParseDataURI(o.Src); err == nil && imaging.IsImageType(mimeType) {
			p.Src = template.URL(o.Src)
		}
		p.Width, p.Height = fmtNum(o.Width), fmtNum(o.Height)
	case structured.KindGroup:
		if o.Label == structured.PlaceholderLabel {
			p.Text = o.Label
		} else {
			p.Text = fieldText(o.Text, catalog, values)
		}
		if o.Stroke != "" {
			border := "solid"
			if len(o.StrokeDash) > 0 {
				border = "dashed"
			}
			css = append(css, "border:1px "+border+" "+colour(o.Stroke, "#94a3b8"))
		}
		if o.Radius > 0 {
			css = append(css, "border-radius:"+px(o.Radius))
		}
	default:
		p.Text = fields.Resolve(o.Text, values)
	}

	if o.Kind != structured.KindImage {
		css = append(css, textCSS(o)...)
	}
	p.Style = template.CSS(strings.Join(css, ";"))
	return p
}

// fieldText is what a field chip shows: its value when known, otherwise
// the catalog label of the placeholder.
func fieldText(content string, catalog *fields.Catalog, values fields.Values) string {
	if resolved := fields.Resolve(content, values); resolved != content {
		return resolved
	}
	category, key, ok := fields.ParseToken(content)
	if !ok {
		return content
	}
	if label, err := catalog.Label(category, key); err == nil {
		return label
	}
	return content
}

func textCSS(o structured.Object) []string {
	var css []string
	if o.FontSize > 0 {
		css = append(css, "font-size:"+px(o.FontSize))
	}
	css = append(css, "color:"+colour(o.Fill, "#000000"))
	if o.FontWeight == models.FontWeightBold {
		css = append(css, "font-weight:bold")
	}
	if o.FontStyle == models.FontStyleItalic {
		css = append(css, "font-style:italic")
	}
	if o.Underline {
		css = append(css, "text-decoration:underline")
	}
	switch o.TextAlign {
	case models.AlignCenter, models.AlignRight:
		css = append(css, "text-align:"+o.TextAlign)
	}
	if o.BackgroundColor != "" {
		css = append(css, "background-color:"+colour(o.BackgroundColor, "transparent"))
	}
	return css
}

// resolveDocument substitutes field values inside every text run.
func resolveDocument(doc *freeform.Document, values fields.Values) {
	if len(values) == 0 {
		return
	}
	for _, b := range doc.Blocks {
		for i := range b.Inlines {
			if b.Inlines[i].Image == nil {
				b.Inlines[i].Text = fields.Resolve(b.Inlines[i].Text, values)
			}
		}
	}
}

// colour passes through valid hex colours and substitutes fallback for
// anything else, so stored styles cannot inject CSS.
func colour(s, fallback string) string {
	if _, _, _, ok := pdf.ParseHexColor(s); ok && strings.HasPrefix(s, "#") {
		return s
	}
	return fallback
}

func px(v float64) string { return fmtNum(v) + "px" }

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
