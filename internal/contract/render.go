// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contract

import (
	"fmt"
	"strconv"

	"docstudio/internal/pdf"
)

// Canvas is the drawing surface the renderer writes to. *pdf.Writer
// implements it.
type Canvas interface {
	Measurer
	AddPage()
	SetFont(f pdf.Font)
	Text(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
}

// Variant controls the formality of the rendered contract.
type Variant struct {
	Name   string
	Margin float64 // mm on every side
	Header []string

	// Formal adds blank identification lines and witnesses to the
	// signature block and rules off the header.
	Formal bool
}

var (
	// Standard is the contract as downloaded from the proposal screen.
	Standard = Variant{
		Name:   "standard",
		Margin: 20,
		Header: []string{"CONTRATO DE PRESTAÇÃO DE SERVIÇOS"},
	}
	// Formal is the contract as printed for physical signing.
	Formal = Variant{
		Name:   "formal",
		Margin: 25,
		Header: []string{"INSTRUMENTO PARTICULAR DE", "CONTRATO DE PRESTAÇÃO DE SERVIÇOS"},
		Formal: true,
	}
)

// VariantByName returns the variant called name.
func VariantByName(name string) (Variant, error) {
	switch name {
	case "", Standard.Name:
		return Standard, nil
	case Formal.Name:
		return Formal, nil
	}
	return Variant{}, fmt.Errorf("contract: unknown variant %q", name)
}

// Fonts.
var (
	bodyFont    = pdf.Font{Family: "Helvetica", Size: 11}
	boldFont    = pdf.Font{Family: "Helvetica", Style: "B", Size: 11}
	titleFont   = pdf.Font{Family: "Helvetica", Style: "B", Size: 14}
	sectionFont = pdf.Font{Family: "Helvetica", Style: "B", Size: 12}
	footerFont  = pdf.Font{Family: "Helvetica", Size: 9}
)

const (
	lineSpacing    = 1.5
	signatureWidth = 80.0
)

// Render draws doc onto c, starting with a new page. It returns the number
// of pages written.
func Render(c Canvas, paper pdf.PaperSize, doc Document, v Variant) int {
	r := &renderer{c: c, paper: paper, v: v}
	r.width = paper.Width - 2*v.Margin
	r.newPage()

	r.header()
	for _, p := range doc.Body {
		r.paragraph(p)
	}
	for _, s := range doc.Sections {
		r.section(s)
	}
	r.signatures(doc)

	r.footer()
	return r.page
}

type renderer struct {
	c     Canvas
	paper pdf.PaperSize
	v     Variant
	width float64

	font pdf.Font
	page int
	y    float64
}

func lineHeight(f pdf.Font) float64 {
	return f.Size * pdf.PointsToMM * lineSpacing
}

func (r *renderer) setFont(f pdf.Font) {
	r.font = f
	r.c.SetFont(f)
}

func (r *renderer) bottom() float64 { return r.paper.Height - r.v.Margin }

func (r *renderer) newPage() {
	r.c.AddPage()
	r.page++
	r.y = r.v.Margin
}

// ensure starts a new page when h more millimetres would not fit.
func (r *renderer) ensure(h float64) {
	if r.y+h <= r.bottom() {
		return
	}
	r.footer()
	r.newPage()
}

// footer prints the page number centred in the bottom margin.
func (r *renderer) footer() {
	font := r.font
	r.c.SetFont(footerFont)
	n := strconv.Itoa(r.page)
	r.c.Text((r.paper.Width-r.c.Width(n))/2, r.paper.Height-r.v.Margin/2, n)
	if font != (pdf.Font{}) {
		r.c.SetFont(font)
	}
}

// text draws one line at x and advances the cursor.
func (r *renderer) text(x float64, s string) {
	lh := lineHeight(r.font)
	r.ensure(lh)
	r.c.Text(x, r.y+lh*0.7, s)
	r.y += lh
}

func (r *renderer) centred(s string) {
	r.text(r.v.Margin+(r.width-r.c.Width(s))/2, s)
}

func (r *renderer) gap(lines float64) {
	r.y += lineHeight(r.font) * lines
}

func (r *renderer) header() {
	if len(r.v.Header) == 0 && !r.v.Formal {
		return
	}
	r.setFont(titleFont)
	for _, line := range r.v.Header {
		r.centred(line)
	}
	if r.v.Formal {
		r.y += 2
		r.c.Line(r.v.Margin, r.y, r.v.Margin+r.width, r.y)
	}
	r.gap(1)
}

// paragraph draws justified lines; the last line keeps normal spacing.
func (r *renderer) paragraph(text string) {
	r.setFont(bodyFont)
	lh := lineHeight(r.font)
	lines := Wrap(text, r.c, r.width)
	for i, words := range lines {
		r.ensure(lh)
		var xs []float64
		if i == len(lines)-1 {
			xs = Flush(words, r.c)
		} else {
			xs = Justify(words, r.c, r.width)
		}
		for j, w := range words {
			r.c.Text(r.v.Margin+xs[j], r.y+lh*0.7, w)
		}
		r.y += lh
	}
	r.gap(0.5)
}

func (r *renderer) section(s Section) {
	r.setFont(sectionFont)
	// Keep the title with the first line of its body.
	r.ensure(lineHeight(sectionFont) + lineHeight(bodyFont))
	r.text(r.v.Margin, s.Title)
	for _, p := range s.Paragraphs {
		r.paragraph(p)
	}
}

func (r *renderer) signatures(doc Document) {
	if len(doc.Parties) == 0 && doc.DateLine() == "" {
		return
	}
	r.setFont(bodyFont)
	lh := lineHeight(bodyFont)

	if line := doc.DateLine(); line != "" {
		r.gap(1)
		x := r.v.Margin
		if r.v.Formal {
			x = r.v.Margin + r.width - r.c.Width(line)
		}
		r.text(x, line)
	}

	for _, p := range doc.Parties {
		lines := 4.0
		if r.v.Formal {
			lines = 5
		}
		r.ensure(lh * lines)
		r.gap(2)
		r.rule()
		r.setFont(boldFont)
		r.text(r.v.Margin, p.Role)
		r.setFont(bodyFont)
		r.text(r.v.Margin, p.Name)
		if r.v.Formal {
			tax := p.TaxID
			if tax == "" {
				tax = "______________________________"
			}
			r.text(r.v.Margin, "CPF/CNPJ: "+tax)
		}
	}

	if r.v.Formal {
		r.witnesses()
	}
}

func (r *renderer) rule() {
	r.c.Line(r.v.Margin, r.y, r.v.Margin+signatureWidth, r.y)
	r.y += 1
}

func (r *renderer) witnesses() {
	lh := lineHeight(bodyFont)
	r.ensure(lh * 3)
	r.gap(1)
	r.setFont(boldFont)
	r.text(r.v.Margin, "TESTEMUNHAS")
	r.setFont(bodyFont)
	for i := 1; i <= 2; i++ {
		r.ensure(lh * 4)
		r.gap(2)
		r.rule()
		r.text(r.v.Margin, strconv.Itoa(i)+". Nome: ______________________________")
		r.text(r.v.Margin, "CPF: ______________________________")
	}
}
