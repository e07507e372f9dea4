// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"log/slog"
	"strings"
	"unicode"

	"docstudio/internal/fields"
	"docstudio/internal/freeform"
	"docstudio/internal/layout"
	"docstudio/internal/models"
	"docstudio/internal/pdf"
	"docstudio/internal/structured"
)

const (
	// flowMargin is the page margin for flowed free-form content, in mm.
	flowMargin = 20.0

	// defaultFontPx is the size of text without an explicit size.
	defaultFontPx = 16.0

	lineFactor = 1.4
)

// RenderPDF renders tpl on A4 paper in the template's orientation and
// returns the document with its page count. Structured templates keep one
// PDF page per canvas page; free-form content flows over as many pages as
// it needs. Images that cannot be embedded are skipped and logged.
func RenderPDF(tpl models.Template, catalog *fields.Catalog, values fields.Values) ([]byte, int, error) {
	tpl.Normalize()
	if catalog == nil {
		catalog = fields.Default()
	}
	paper := pdf.A4.Oriented(tpl.Orientation)
	w := pdf.New(paper)
	w.SetTitle(tpl.Name)

	var pages int
	if tpl.Editor == models.EditorFreeform {
		doc, err := freeform.Parse(tpl.Content)
		if err != nil {
			return nil, 0, err
		}
		resolveDocument(doc, values)
		pages = flowDocument(w, paper, doc)
	} else {
		pages = drawScene(w, paper, tpl, catalog, values)
	}

	data, err := w.Bytes()
	if err != nil {
		return nil, 0, err
	}
	return data, pages, nil
}

// drawScene places every structured element on the page its top edge
// falls on. Elements below the last page are dropped.
func drawScene(w *pdf.Writer, paper pdf.PaperSize, tpl models.Template, catalog *fields.Catalog, values fields.Values) int {
	dims := layout.DefaultDimensions(tpl.Orientation)
	scale := paper.Width / float64(dims.Width) // mm per canvas pixel

	byPage := make([][]structured.Object, tpl.TotalPages)
	for _, o := range structured.Scene(tpl.Elements) {
		page := layout.PageOf(dims, o.Top)
		if page > tpl.TotalPages {
			slog.Warn("element beyond last page", "template", tpl.ID, "element", o.ElementID, "page", page)
			continue
		}
		o.Top -= float64(dims.Height * (page - 1))
		byPage[page-1] = append(byPage[page-1], o)
	}

	for _, objects := range byPage {
		w.AddPage()
		for _, o := range objects {
			drawObject(w, o, scale, catalog, values)
		}
	}
	return tpl.TotalPages
}

func drawObject(w *pdf.Writer, o structured.Object, scale float64, catalog *fields.Catalog, values fields.Values) {
	x, y := o.Left*scale, o.Top*scale
	width, height := o.Width*scale, o.Height*scale

	switch o.Kind {
	case structured.KindImage:
		if err := w.Image(o.Src, x, y, width, height); err != nil {
			slog.Warn("image skipped", "element", o.ElementID, "error", err)
		}
		return
	case structured.KindGroup:
		text := o.Label
		if text != structured.PlaceholderLabel {
			text = fieldText(o.Text, catalog, values)
		}
		fill := ""
		if o.BackgroundColor != "" {
			fill = colour(o.BackgroundColor, "")
		}
		w.Box(x, y, width, height, fill, colour(o.Stroke, ""), o.Radius*scale, len(o.StrokeDash) > 0)
		setTextFont(w, o, scale)
		size := fontMM(o.FontSize, scale)
		baseline := y + height/2 + size*0.35
		pad := 2.0
		tx := x + pad
		switch o.TextAlign {
		case models.AlignCenter:
			tx = x + (width-w.Width(text))/2
		case models.AlignRight:
			tx = x + width - pad - w.Width(text)
		}
		w.Text(tx, baseline, text)
		return
	}

	// Plain text: one PDF line per source line.
	if o.BackgroundColor != "" {
		bw, bh := o.Bounds()
		w.Box(x, y, bw*scale, bh*scale, colour(o.BackgroundColor, ""), "", 0, false)
	}
	setTextFont(w, o, scale)
	size := fontMM(o.FontSize, scale)
	for i, line := range strings.Split(fields.Resolve(o.Text, values), "\n") {
		w.Text(x, y+size*0.9+float64(i)*size*1.2, line)
	}
}

func setTextFont(w *pdf.Writer, o structured.Object, scale float64) {
	style := ""
	if o.FontWeight == models.FontWeightBold {
		style += "B"
	}
	if o.FontStyle == models.FontStyleItalic {
		style += "I"
	}
	if o.Underline {
		style += "U"
	}
	w.SetFont(pdf.Font{Family: "Helvetica", Style: style, Size: fontMM(o.FontSize, scale) / pdf.PointsToMM})
	w.SetTextColor(colour(o.Fill, "#000000"))
}

// fontMM converts a pixel font size to millimetres at scale.
func fontMM(px, scale float64) float64 {
	if px <= 0 {
		px = defaultFontPx
	}
	return px * scale
}

// piece is a word or image placed on a flowed line.
type piece struct {
	text   string
	style  freeform.RunStyle
	image  *freeform.Image
	space  bool // preceded by a space
	width  float64
	height float64 // line height the piece needs
	size   float64 // font size in mm, 0 for images
}

// flowDocument lays free-form blocks out as wrapped paragraphs between
// fixed margins and returns the number of pages written.
func flowDocument(w *pdf.Writer, paper pdf.PaperSize, doc *freeform.Document) int {
	f := &flow{
		w:      w,
		scale:  paper.Width / layout.MaxWidth,
		width:  paper.Width - 2*flowMargin,
		bottom: paper.Height - flowMargin,
	}
	f.newPage()
	for _, b := range doc.Blocks {
		f.block(b)
	}
	return f.pages
}

type flow struct {
	w      *pdf.Writer
	scale  float64
	width  float64
	bottom float64
	pages  int
	y      float64
}

func (f *flow) newPage() {
	f.w.AddPage()
	f.pages++
	f.y = flowMargin
}

func (f *flow) setFont(s freeform.RunStyle) float64 {
	style := ""
	if s.Bold {
		style += "B"
	}
	if s.Italic {
		style += "I"
	}
	if s.Underline {
		style += "U"
	}
	size := fontMM(s.FontSize, f.scale)
	f.w.SetFont(pdf.Font{Family: s.FontFamily, Style: style, Size: size / pdf.PointsToMM})
	return size
}

// pieces splits a block into words and images, measuring each.
func (f *flow) pieces(b *freeform.Block) []piece {
	var out []piece
	space := false
	for _, in := range b.Inlines {
		if in.Image != nil {
			iw, ih := in.Image.Width*f.scale, in.Image.Height*f.scale
			if iw > f.width {
				ih, iw = ih*f.width/iw, f.width
			}
			if limit := f.bottom - flowMargin; ih > limit {
				iw, ih = iw*limit/ih, limit
			}
			out = append(out, piece{image: in.Image, space: space, width: iw, height: ih})
			space = false
			continue
		}
		size := f.setFont(in.Style)
		var word strings.Builder
		emit := func() {
			if word.Len() == 0 {
				return
			}
			s := word.String()
			out = append(out, piece{text: s, style: in.Style, space: space,
				width: f.w.Width(s), height: size * lineFactor, size: size})
			word.Reset()
			space = false
		}
		for _, r := range in.Text {
			if unicode.IsSpace(r) {
				emit()
				space = true
				continue
			}
			word.WriteRune(r)
		}
		emit()
	}
	return out
}

func (f *flow) block(b *freeform.Block) {
	ps := f.pieces(b)
	if len(ps) == 0 {
		f.advance(fontMM(0, f.scale) * lineFactor)
		return
	}

	spaceWidth := func(p piece) float64 {
		if !p.space {
			return 0
		}
		f.setFont(p.style)
		return f.w.Width(" ")
	}

	var line []piece
	lineWidth := 0.0
	for _, p := range ps {
		gap := 0.0
		if len(line) > 0 {
			gap = spaceWidth(p)
		}
		if len(line) > 0 && lineWidth+gap+p.width > f.width {
			f.line(line, b.Align, false)
			line, lineWidth, gap = nil, 0, 0
		}
		line = append(line, p)
		lineWidth += gap + p.width
	}
	f.line(line, b.Align, true)
}

// advance moves the cursor down by h, breaking the page when h would not
// fit. It returns the top of the reserved band.
func (f *flow) advance(h float64) float64 {
	if f.y+h > f.bottom && f.y > flowMargin {
		f.newPage()
	}
	top := f.y
	f.y += h
	return top
}

// line draws one wrapped line. Justified lines spread the extra width
// over the word gaps, except on the last line of the paragraph.
func (f *flow) line(line []piece, align string, last bool) {
	height, textSize := 0.0, 0.0
	natural := 0.0
	gaps := 0
	spaces := make([]float64, len(line))
	for i, p := range line {
		height = max(height, p.height)
		textSize = max(textSize, p.size)
		if i > 0 && p.space {
			f.setFont(p.style)
			spaces[i] = f.w.Width(" ")
			gaps++
		}
		natural += spaces[i] + p.width
	}

	top := f.advance(height)
	baseline := top + height - textSize*0.3

	x := flowMargin
	extra := 0.0
	switch align {
	case "center":
		x += (f.width - natural) / 2
	case "right":
		x += f.width - natural
	case "justify":
		if !last && gaps > 0 {
			extra = (f.width - natural) / float64(gaps)
		}
	}

	for i, p := range line {
		x += spaces[i]
		if i > 0 && p.space {
			x += extra
		}
		if p.image != nil {
			if err := f.w.Image(p.image.Src, x, baseline-p.height, p.width, p.height); err != nil {
				slog.Warn("image skipped", "image", p.image.ID, "error", err)
			}
		} else {
			f.setFont(p.style)
			if p.style.BackColor != "" {
				if back := colour(p.style.BackColor, ""); back != "" {
					f.w.Box(x, top, p.width, height, back, "", 0, false)
				}
			}
			f.w.SetTextColor(colour(p.style.Color, "#000000"))
			f.w.Text(x, baseline, p.text)
		}
		x += p.width
	}
}
