// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ElementType categorizes structured template elements.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
	ElementField ElementType = "field"
)

const (
	FontWeightNormal = "normal"
	FontWeightBold   = "bold"

	FontStyleNormal = "normal"
	FontStyleItalic = "italic"

	DecorationNone      = "none"
	DecorationUnderline = "underline"

	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// ElementStyle is the visual style of one element.
type ElementStyle struct {
	FontSize        float64 `json:"font_size"`
	Color           string  `json:"color"`
	FontWeight      string  `json:"font_weight"`
	FontStyle       string  `json:"font_style"`
	TextDecoration  string  `json:"text_decoration"`
	TextAlign       string  `json:"text_align"`
	BackgroundColor string  `json:"background_color,omitempty"`
}

// DefaultStyle returns the style new text elements start with.
func DefaultStyle() ElementStyle {
	return ElementStyle{
		FontSize:       16,
		Color:          "#000000",
		FontWeight:     FontWeightNormal,
		FontStyle:      FontStyleNormal,
		TextDecoration: DecorationNone,
		TextAlign:      AlignLeft,
	}
}

// StylePatch is a partial style update. Nil fields are left untouched.
type StylePatch struct {
	FontSize        *float64 `json:"font_size,omitempty"`
	Color           *string  `json:"color,omitempty"`
	FontWeight      *string  `json:"font_weight,omitempty"`
	FontStyle       *string  `json:"font_style,omitempty"`
	TextDecoration  *string  `json:"text_decoration,omitempty"`
	TextAlign       *string  `json:"text_align,omitempty"`
	BackgroundColor *string  `json:"background_color,omitempty"`
}

// Apply merges p into s. Values outside their enumerations and non-positive
// font sizes are ignored.
func (p StylePatch) Apply(s *ElementStyle) {
	if p.FontSize != nil && *p.FontSize > 0 {
		s.FontSize = *p.FontSize
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.FontWeight != nil && oneOf(*p.FontWeight, FontWeightNormal, FontWeightBold) {
		s.FontWeight = *p.FontWeight
	}
	if p.FontStyle != nil && oneOf(*p.FontStyle, FontStyleNormal, FontStyleItalic) {
		s.FontStyle = *p.FontStyle
	}
	if p.TextDecoration != nil && oneOf(*p.TextDecoration, DecorationNone, DecorationUnderline) {
		s.TextDecoration = *p.TextDecoration
	}
	if p.TextAlign != nil && oneOf(*p.TextAlign, AlignLeft, AlignCenter, AlignRight) {
		s.TextAlign = *p.TextAlign
	}
	if p.BackgroundColor != nil {
		s.BackgroundColor = *p.BackgroundColor
	}
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Position is a point in canvas pixels. Y spans all pages:
// y = localY + pageHeight*pageIndex.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in canvas pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TemplateElement is one selectable unit of a structured template.
type TemplateElement struct {
	ID        string       `json:"id"`
	Type      ElementType  `json:"type"`
	Content   string       `json:"content"`
	Style     ElementStyle `json:"style"`
	Position  Position     `json:"position"`
	Size      *Size        `json:"size,omitempty"`
	FieldType string       `json:"field_type,omitempty"`
	FieldKey  string       `json:"field_key,omitempty"`
}

// PageIndex returns the zero-based page the element starts on.
func (e *TemplateElement) PageIndex(pageHeight float64) int {
	if pageHeight <= 0 || e.Position.Y < 0 {
		return 0
	}
	return int(e.Position.Y / pageHeight)
}
