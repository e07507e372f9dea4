// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package structured

import (
	"unicode/utf8"

	"docstudio/internal/models"
)

// Kind is the shape of a rendered object.
type Kind string

const (
	KindText  Kind = "text"
	KindGroup Kind = "group"
	KindImage Kind = "image"
)

// PlaceholderLabel is the instruction drawn inside empty image slots.
const PlaceholderLabel = "Solte uma imagem aqui"

// Colours used for the placeholder and field decorations.
const (
	placeholderStroke = "#94a3b8"
	fieldFill         = "#e0f2fe"
	fieldStroke       = "#0284c7"
)

// Object is what the canvas draws for one element. ElementID is a lookup
// key back to the element; the element model stays authoritative.
type Object struct {
	Kind      Kind   `json:"kind"`
	ElementID string `json:"element_id"`

	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Text            string  `json:"text,omitempty"`
	FontSize        float64 `json:"font_size,omitempty"`
	Fill            string  `json:"fill,omitempty"`
	FontWeight      string  `json:"font_weight,omitempty"`
	FontStyle       string  `json:"font_style,omitempty"`
	Underline       bool    `json:"underline,omitempty"`
	TextAlign       string  `json:"text_align,omitempty"`
	BackgroundColor string  `json:"background_color,omitempty"`

	Src        string    `json:"src,omitempty"`
	Label      string    `json:"label,omitempty"`
	Stroke     string    `json:"stroke,omitempty"`
	StrokeDash []float64 `json:"stroke_dash,omitempty"`
	Radius     float64   `json:"radius,omitempty"`
}

// newObject builds the rendered form of an element.
func newObject(el *models.TemplateElement) *Object {
	o := &Object{
		ElementID: el.ID,
		Left:      el.Position.X,
		Top:       el.Position.Y,
	}
	if el.Size != nil {
		o.Width, o.Height = el.Size.Width, el.Size.Height
	}

	switch el.Type {
	case models.ElementImage:
		if el.Content == "" {
			o.Kind = KindGroup
			o.Label = PlaceholderLabel
			o.Stroke = placeholderStroke
			o.StrokeDash = []float64{6, 4}
		} else {
			o.Kind = KindImage
			o.Src = el.Content
		}
	case models.ElementField:
		o.Kind = KindGroup
		o.Text = el.Content
		o.Stroke = fieldStroke
		o.Radius = o.Height / 2
		if el.Style.BackgroundColor == "" {
			o.BackgroundColor = fieldFill
		}
	default:
		o.Kind = KindText
		o.Text = el.Content
	}
	o.reflectStyle(el.Style)
	return o
}

// Scene returns the rendered objects for elements in drawing order.
func Scene(elements []models.TemplateElement) []Object {
	out := make([]Object, 0, len(elements))
	for i := range elements {
		out = append(out, *newObject(&elements[i]))
	}
	return out
}

// reflectStyle copies the style properties the object can show.
func (o *Object) reflectStyle(s models.ElementStyle) {
	if o.Kind == KindImage {
		return
	}
	o.FontSize = s.FontSize
	o.Fill = s.Color
	o.FontWeight = s.FontWeight
	o.FontStyle = s.FontStyle
	o.Underline = s.TextDecoration == models.DecorationUnderline
	o.TextAlign = s.TextAlign
	if s.BackgroundColor != "" {
		o.BackgroundColor = s.BackgroundColor
	}
}

// Bounds returns the object's box. Text objects have no stored size, so
// their box is estimated from the font size.
func (o *Object) Bounds() (w, h float64) {
	if o.Kind != KindText || o.Width > 0 {
		return o.Width, o.Height
	}
	return float64(utf8.RuneCountInString(o.Text)) * o.FontSize * 0.6, o.FontSize * 1.2
}

func (o *Object) contains(x, y float64) bool {
	w, h := o.Bounds()
	return x >= o.Left && x <= o.Left+w && y >= o.Top && y <= o.Top+h
}
