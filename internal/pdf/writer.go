// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pdf is a small append-only PDF writer on top of fpdf. All
// coordinates are millimetres from the top-left corner of the page; text
// is positioned by its baseline.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"docstudio/internal/imaging"
	"docstudio/internal/models"
)

// PaperSize is a page size in millimetres.
type PaperSize struct {
	Name   string
	Width  float64
	Height float64
}

// A4 is ISO A4 in portrait.
var A4 = PaperSize{Name: "A4", Width: 210, Height: 297}

// Oriented returns the paper turned to orientation o.
func (p PaperSize) Oriented(o models.Orientation) PaperSize {
	if o == models.OrientationLandscape {
		p.Width, p.Height = p.Height, p.Width
	}
	return p
}

// Font selects a core font. Style is any combination of "B", "I" and "U";
// Size is in points.
type Font struct {
	Family string
	Style  string
	Size   float64
}

// PointsToMM converts a font size in points to millimetres.
const PointsToMM = 25.4 / 72

// Writer produces one PDF document.
type Writer struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	paper  PaperSize
	images map[string]string
}

// New starts an empty document.
func New(paper PaperSize) *Writer {
	orientation := "P"
	if paper.Width > paper.Height {
		orientation = "L"
	}
	f := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: paper.Width, Ht: paper.Height},
	})
	f.SetMargins(0, 0, 0)
	f.SetAutoPageBreak(false, 0)
	f.SetCreator("docstudio", true)
	f.SetFont("Helvetica", "", 11)
	return &Writer{
		pdf:    f,
		tr:     f.UnicodeTranslatorFromDescriptor(""),
		paper:  paper,
		images: make(map[string]string),
	}
}

// PaperSize returns the page size.
func (w *Writer) PaperSize() PaperSize { return w.paper }

// SetTitle sets the document title metadata.
func (w *Writer) SetTitle(title string) { w.pdf.SetTitle(title, true) }

// AddPage starts a new page.
func (w *Writer) AddPage() { w.pdf.AddPage() }

// PageCount returns the number of pages so far.
func (w *Writer) PageCount() int { return w.pdf.PageNo() }

// SetFont selects the font for following text.
func (w *Writer) SetFont(f Font) {
	w.pdf.SetFont(CoreFamily(f.Family), strings.ToUpper(f.Style), f.Size)
}

// SetTextColor sets the text colour from a #rrggbb string. Invalid values
// select black.
func (w *Writer) SetTextColor(hex string) {
	r, g, b, _ := ParseHexColor(hex)
	w.pdf.SetTextColor(r, g, b)
}

// Width measures s in the current font.
func (w *Writer) Width(s string) float64 {
	return w.pdf.GetStringWidth(w.tr(s))
}

// Text draws s with its baseline at y.
func (w *Writer) Text(x, y float64, s string) {
	w.pdf.Text(x, y, w.tr(s))
}

// Line draws a thin black line.
func (w *Writer) Line(x1, y1, x2, y2 float64) {
	w.pdf.SetDrawColor(0, 0, 0)
	w.pdf.SetLineWidth(0.2)
	w.pdf.Line(x1, y1, x2, y2)
}

// Box draws a rectangle. fill and stroke are #rrggbb colours; empty means
// none. radius > 0 rounds every corner; dashed strokes alternate 2mm/1mm.
func (w *Writer) Box(x, y, width, height float64, fill, stroke string, radius float64, dashed bool) {
	style := ""
	if fill != "" {
		r, g, b, _ := ParseHexColor(fill)
		w.pdf.SetFillColor(r, g, b)
		style += "F"
	}
	if stroke != "" {
		r, g, b, _ := ParseHexColor(stroke)
		w.pdf.SetDrawColor(r, g, b)
		w.pdf.SetLineWidth(0.3)
		style += "D"
	}
	if style == "" {
		return
	}
	if dashed {
		w.pdf.SetDashPattern([]float64{2, 1}, 0)
		defer w.pdf.SetDashPattern([]float64{}, 0)
	}
	if radius > 0 {
		w.pdf.RoundedRect(x, y, width, height, radius, "1234", style)
		return
	}
	w.pdf.Rect(x, y, width, height, style)
}

// Image draws an image given as a data URI. Formats PDF cannot embed
// directly are converted to PNG first. The same URI is embedded once.
func (w *Writer) Image(dataURI string, x, y, width, height float64) error {
	name, ok := w.images[dataURI]
	if !ok {
		mimeType, data, err := imaging.ParseDataURI(dataURI)
		if err != nil {
			return err
		}
		if !imaging.IsImageType(mimeType) {
			return fmt.Errorf("pdf: %w: %q", imaging.ErrNotImage, mimeType)
		}
		// fpdf errors are sticky, so reject undecodable data before it sees it.
		if _, _, err := imaging.NativeSize(data); err != nil {
			return fmt.Errorf("pdf: %w", err)
		}
		format := imaging.Format(mimeType)
		if format == "" {
			if data, err = imaging.ToPNG(data); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
			format = "PNG"
		}
		name = "img" + strconv.Itoa(len(w.images)+1)
		w.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: format}, bytes.NewReader(data))
		if err := w.pdf.Error(); err != nil {
			return fmt.Errorf("pdf: register image: %w", err)
		}
		w.images[dataURI] = name
	}
	w.pdf.ImageOptions(name, x, y, width, height, false, fpdf.ImageOptions{}, 0, "")
	return nil
}

// Bytes renders the document.
func (w *Writer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pageTreeCount = regexp.MustCompile(`/Type /Pages\s[^>]*?/Count (\d+)`)

// CountPages reads the page count from the page tree of a rendered
// document. It returns 0 when data holds no page tree.
func CountPages(data []byte) int {
	m := pageTreeCount.FindSubmatch(data)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(string(m[1]))
	return n
}

// WriteTo renders the document to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	cw := &countingWriter{w: out}
	if err := w.pdf.Output(cw); err != nil {
		return cw.n, fmt.Errorf("pdf: output: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// CoreFamily maps a CSS-style font family to one of the PDF core fonts.
func CoreFamily(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	case strings.Contains(f, "times"), strings.Contains(f, "georgia"),
		strings.Contains(f, "serif") && !strings.Contains(f, "sans"):
		return "Times"
	}
	return "Helvetica"
}

// ParseHexColor parses #rgb or #rrggbb.
func ParseHexColor(s string) (r, g, b int, ok bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff), true
}
