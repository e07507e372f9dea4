// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package freeform

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"docstudio/internal/markdown"
)

// fontSizes maps the legacy <font size="1..7"> scale to pixels.
var fontSizes = [...]float64{10, 13, 16, 18, 24, 32, 48}

// headingSizes are the pixel sizes given to h1..h6.
var headingSizes = [...]float64{32, 24, 20, 16, 14, 12}

var spaceRe = regexp.MustCompile(`\s+`)

// nbsp keeps a space that HTML whitespace collapsing would otherwise drop.
const nbsp = '\u00a0'

// HTML serializes the document as a sequence of <p> elements.
func (d *Document) HTML() string {
	var buf bytes.Buffer
	for _, b := range d.Blocks {
		p := element(atom.P)
		if b.Align != "" && b.Align != "left" {
			p.Attr = append(p.Attr, html.Attribute{Key: "style", Val: "text-align:" + b.Align})
		}
		for _, in := range preserveSpaces(b.Inlines) {
			p.AppendChild(inlineNode(in))
		}
		// Render only fails on writer errors; bytes.Buffer never returns one.
		_ = html.Render(&buf, p)
	}
	return buf.String()
}

// preserveSpaces returns a copy of a paragraph's inlines in which every
// space a browser would collapse is a no-break space: spaces at the start
// or end of the paragraph and all but the first of a run of spaces.
func preserveSpaces(inlines []Inline) []Inline {
	out := make([]Inline, len(inlines))
	copy(out, inlines)
	afterSpace := true
	for i := range out {
		if !out[i].isText() {
			afterSpace = false
			continue
		}
		rs := []rune(out[i].Text)
		for j, r := range rs {
			if r == ' ' && afterSpace {
				rs[j] = nbsp
			}
			afterSpace = r == ' ' || r == nbsp
		}
		out[i].Text = string(rs)
	}
	if n := len(out); n > 0 && out[n-1].isText() && strings.HasSuffix(out[n-1].Text, " ") {
		out[n-1].Text = strings.TrimSuffix(out[n-1].Text, " ") + string(nbsp)
	}
	return out
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

func inlineNode(in Inline) *html.Node {
	if in.Image != nil {
		img := element(atom.Img)
		img.Attr = []html.Attribute{
			{Key: "data-id", Val: in.Image.ID},
			{Key: "src", Val: in.Image.Src},
			{Key: "width", Val: formatPx(in.Image.Width)},
			{Key: "height", Val: formatPx(in.Image.Height)},
		}
		return img
	}

	n := &html.Node{Type: html.TextNode, Data: in.Text}
	if css := spanStyle(in.Style); css != "" {
		span := element(atom.Span)
		span.Attr = []html.Attribute{{Key: "style", Val: css}}
		span.AppendChild(n)
		n = span
	}
	wrap := func(a atom.Atom) {
		w := element(a)
		w.AppendChild(n)
		n = w
	}
	if in.Style.Underline {
		wrap(atom.U)
	}
	if in.Style.Italic {
		wrap(atom.I)
	}
	if in.Style.Bold {
		wrap(atom.B)
	}
	return n
}

func spanStyle(s RunStyle) string {
	var parts []string
	if s.FontSize > 0 {
		parts = append(parts, "font-size:"+formatPx(s.FontSize)+"px")
	}
	if s.FontFamily != "" {
		parts = append(parts, "font-family:"+s.FontFamily)
	}
	if s.Color != "" {
		parts = append(parts, "color:"+s.Color)
	}
	if s.BackColor != "" {
		parts = append(parts, "background-color:"+s.BackColor)
	}
	return strings.Join(parts, ";")
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Parse reads stored content. Content without markup is treated as plain
// text with one paragraph per line.
func Parse(content string) (*Document, error) {
	if !strings.Contains(content, "<") {
		doc := &Document{}
		for _, line := range strings.Split(content, "\n") {
			b := &Block{}
			if line != "" {
				b.Inlines = []Inline{{Text: line}}
			}
			doc.Blocks = append(doc.Blocks, b)
		}
		return doc, nil
	}
	return ParseHTML(content)
}

// ParseHTML builds a document from an HTML fragment. Unknown elements are
// unwrapped; scripts and styles are dropped.
func ParseHTML(src string) (*Document, error) {
	ctx := element(atom.Body)
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return nil, fmt.Errorf("freeform: parse html: %w", err)
	}

	p := &htmlParser{doc: &Document{}}
	for _, n := range nodes {
		p.walk(n, RunStyle{})
	}
	p.flush()
	if len(p.doc.Blocks) == 0 {
		p.doc.Blocks = []*Block{{}}
	}
	p.doc.normalize()
	return p.doc, nil
}

// FromMarkdown converts Markdown into a document.
func FromMarkdown(src string) (*Document, error) {
	out, err := markdown.ToHTML(src)
	if err != nil {
		return nil, err
	}
	return ParseHTML(out)
}

type htmlParser struct {
	doc   *Document
	cur   *Block
	align string
}

// block returns the open paragraph, starting one if needed.
func (p *htmlParser) block() *Block {
	if p.cur == nil {
		p.cur = &Block{Align: p.align}
		p.doc.Blocks = append(p.doc.Blocks, p.cur)
	}
	return p.cur
}

// flush closes the open paragraph, trimming trailing collapsible
// whitespace. No-break spaces become plain spaces again.
func (p *htmlParser) flush() {
	if p.cur == nil {
		return
	}
	if n := len(p.cur.Inlines); n > 0 && p.cur.Inlines[n-1].isText() {
		p.cur.Inlines[n-1].Text = strings.TrimRight(p.cur.Inlines[n-1].Text, " ")
	}
	for i := range p.cur.Inlines {
		p.cur.Inlines[i].Text = strings.ReplaceAll(p.cur.Inlines[i].Text, string(nbsp), " ")
	}
	p.cur = nil
}

func (p *htmlParser) walk(n *html.Node, style RunStyle) {
	switch n.Type {
	case html.TextNode:
		p.text(n.Data, style)
		return
	case html.ElementNode:
	default:
		p.children(n, style)
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title:
		return
	case atom.Br:
		p.block()
		p.flush()
		return
	case atom.Img:
		p.image(n)
		return
	case atom.B, atom.Strong:
		style.Bold = true
	case atom.I, atom.Em:
		style.Italic = true
	case atom.U, atom.Ins:
		style.Underline = true
	case atom.Font:
		if v, err := strconv.Atoi(attr(n, "size")); err == nil && v >= 1 && v <= len(fontSizes) {
			style.FontSize = fontSizes[v-1]
		}
		if v := attr(n, "face"); v != "" {
			style.FontFamily = v
		}
		if v := attr(n, "color"); v != "" {
			style.Color = v
		}
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		style.Bold = true
		style.FontSize = headingSizes[int(n.Data[1]-'1')]
	}

	align := ""
	style = applyCSS(attr(n, "style"), style, &align)

	if isBlock(n.DataAtom) {
		p.flush()
		saved := p.align
		if align != "" {
			p.align = align
		}
		p.block()
		p.children(n, style)
		p.flush()
		p.align = saved
		return
	}
	p.children(n, style)
}

func (p *htmlParser) children(n *html.Node, style RunStyle) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, style)
	}
}

func (p *htmlParser) text(s string, style RunStyle) {
	s = spaceRe.ReplaceAllString(s, " ")
	if p.cur == nil || p.cur.Len() == 0 {
		s = strings.TrimLeft(s, " ")
	}
	if s == "" {
		return
	}
	b := p.block()
	b.Inlines = append(b.Inlines, Inline{Text: s, Style: style})
}

func (p *htmlParser) image(n *html.Node) {
	src := attr(n, "src")
	if src == "" {
		return
	}
	img := &Image{ID: attr(n, "data-id"), Src: src}
	img.Width, _ = strconv.ParseFloat(strings.TrimSuffix(attr(n, "width"), "px"), 64)
	img.Height, _ = strconv.ParseFloat(strings.TrimSuffix(attr(n, "height"), "px"), 64)
	b := p.block()
	b.Inlines = append(b.Inlines, Inline{Image: img})
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Blockquote, atom.Pre, atom.Tr,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// applyCSS folds an inline style attribute into style. text-align is
// reported through align since it belongs to the paragraph.
func applyCSS(css string, style RunStyle, align *string) RunStyle {
	for _, decl := range strings.Split(css, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		switch prop {
		case "font-size":
			if v, err := strconv.ParseFloat(strings.TrimSuffix(val, "px"), 64); err == nil && v > 0 {
				style.FontSize = v
			}
		case "font-family":
			style.FontFamily = strings.Trim(val, `"'`)
		case "color":
			style.Color = val
		case "background-color":
			style.BackColor = val
		case "font-weight":
			if val == "bold" || val == "bolder" {
				style.Bold = true
			} else if w, err := strconv.Atoi(val); err == nil {
				style.Bold = w >= 600
			}
		case "font-style":
			style.Italic = val == "italic"
		case "text-decoration", "text-decoration-line":
			style.Underline = strings.Contains(val, "underline")
		case "text-align":
			switch val {
			case "left", "center", "right", "justify":
				*align = val
			}
		}
	}
	return style
}
