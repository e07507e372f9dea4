// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package freeform

import (
	"strings"
	"unicode/utf8"
)

// RunStyle is the inline formatting of a text run. Zero values inherit.
type RunStyle struct {
	Bold       bool    `json:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Underline  bool    `json:"underline,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"` // px
	Color      string  `json:"color,omitempty"`
	BackColor  string  `json:"back_color,omitempty"`
}

// Image is an inline image. It is shared by pointer so that splitting and
// moving runs never copies its size.
type Image struct {
	ID     string  `json:"id"`
	Src    string  `json:"src"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Inline is a text run or, when Image is set, a single inline image.
type Inline struct {
	Text  string   `json:"text,omitempty"`
	Style RunStyle `json:"style"`
	Image *Image   `json:"image,omitempty"`
}

// Len is the inline's length in positions: runes for text, 1 for an image.
func (in Inline) Len() int {
	if in.Image != nil {
		return 1
	}
	return utf8.RuneCountInString(in.Text)
}

func (in Inline) isText() bool { return in.Image == nil }

// Block is a paragraph.
type Block struct {
	Align   string   `json:"align,omitempty"` // left, center, right, justify
	Inlines []Inline `json:"inlines"`
}

// Len is the number of positions in the block.
func (b *Block) Len() int {
	n := 0
	for _, in := range b.Inlines {
		n += in.Len()
	}
	return n
}

// Document is the editable rich-content buffer.
type Document struct {
	Blocks []*Block `json:"blocks"`
}

// NewDocument returns a document with one empty paragraph.
func NewDocument() *Document {
	return &Document{Blocks: []*Block{{}}}
}

// Pos addresses a gap between positions: Offset runes/images into Block.
type Pos struct {
	Block  int `json:"block"`
	Offset int `json:"offset"`
}

func (p Pos) before(q Pos) bool {
	return p.Block < q.Block || (p.Block == q.Block && p.Offset < q.Offset)
}

// End returns the position after the last inline of the document.
func (d *Document) End() Pos {
	last := len(d.Blocks) - 1
	return Pos{Block: last, Offset: d.Blocks[last].Len()}
}

// clamp moves p inside the document.
func (d *Document) clamp(p Pos) Pos {
	if p.Block < 0 {
		return Pos{}
	}
	if p.Block >= len(d.Blocks) {
		return d.End()
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if n := d.Blocks[p.Block].Len(); p.Offset > n {
		p.Offset = n
	}
	return p
}

// Text returns the plain text, one line per block.
func (d *Document) Text() string {
	lines := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		var sb strings.Builder
		for _, in := range b.Inlines {
			if in.isText() {
				sb.WriteString(in.Text)
			}
		}
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// Images returns every inline image in document order.
func (d *Document) Images() []*Image {
	var out []*Image
	for _, b := range d.Blocks {
		for _, in := range b.Inlines {
			if in.Image != nil {
				out = append(out, in.Image)
			}
		}
	}
	return out
}

func (d *Document) findImage(id string) *Image {
	for _, img := range d.Images() {
		if img.ID == id {
			return img
		}
	}
	return nil
}

// splitAt makes sure an inline boundary exists at offset in block bi and
// returns the index of the first inline at or after it.
func (d *Document) splitAt(bi, offset int) int {
	b := d.Blocks[bi]
	pos := 0
	for i, in := range b.Inlines {
		if offset == pos {
			return i
		}
		n := in.Len()
		if offset < pos+n {
			// Strictly inside a text run; images have length 1 and never get here.
			runes := []rune(in.Text)
			cut := offset - pos
			head := Inline{Text: string(runes[:cut]), Style: in.Style}
			tail := Inline{Text: string(runes[cut:]), Style: in.Style}
			b.Inlines = append(b.Inlines[:i], append([]Inline{head, tail}, b.Inlines[i+1:]...)...)
			return i + 1
		}
		pos += n
	}
	return len(b.Inlines)
}

// locate finds the inline containing the gap at offset without splitting.
// preferNext picks the following inline when the offset sits on a boundary.
func (d *Document) locate(bi, offset int, preferNext bool) (idx, local int) {
	b := d.Blocks[bi]
	pos := 0
	for i, in := range b.Inlines {
		n := in.Len()
		if offset < pos+n || (offset == pos+n && !preferNext) {
			if offset >= pos {
				return i, offset - pos
			}
		}
		pos += n
	}
	return len(b.Inlines), 0
}

// Fragment is content lifted out of a document. Blocks[0] continues the
// paragraph the range started in; the last block is merged into the
// paragraph the range ended in.
type Fragment struct {
	Blocks []Block
}

// eachText calls fn for every text run in the fragment.
func (f *Fragment) eachText(fn func(*Inline)) {
	for bi := range f.Blocks {
		for ii := range f.Blocks[bi].Inlines {
			if f.Blocks[bi].Inlines[ii].isText() {
				fn(&f.Blocks[bi].Inlines[ii])
			}
		}
	}
}

// extract removes [start, end) and returns it. Paragraphs spanned by the
// range are merged, as deleting across a paragraph break does.
func (d *Document) extract(start, end Pos) Fragment {
	if !start.before(end) {
		return Fragment{Blocks: []Block{{}}}
	}

	if start.Block == end.Block {
		b := d.Blocks[start.Block]
		i := d.splitAt(start.Block, start.Offset)
		j := d.splitAt(start.Block, end.Offset)
		cut := append([]Inline(nil), b.Inlines[i:j]...)
		b.Inlines = append(b.Inlines[:i], b.Inlines[j:]...)
		return Fragment{Blocks: []Block{{Align: b.Align, Inlines: cut}}}
	}

	first := d.Blocks[start.Block]
	last := d.Blocks[end.Block]

	i := d.splitAt(start.Block, start.Offset)
	j := d.splitAt(end.Block, end.Offset)

	frag := Fragment{}
	frag.Blocks = append(frag.Blocks, Block{Align: first.Align, Inlines: append([]Inline(nil), first.Inlines[i:]...)})
	for bi := start.Block + 1; bi < end.Block; bi++ {
		mid := d.Blocks[bi]
		frag.Blocks = append(frag.Blocks, Block{Align: mid.Align, Inlines: append([]Inline(nil), mid.Inlines...)})
	}
	frag.Blocks = append(frag.Blocks, Block{Align: last.Align, Inlines: append([]Inline(nil), last.Inlines[:j]...)})

	first.Inlines = append(first.Inlines[:i], last.Inlines[j:]...)
	d.Blocks = append(d.Blocks[:start.Block+1], d.Blocks[end.Block+1:]...)
	return frag
}

// insert places a fragment at p and returns the position right after it.
func (d *Document) insert(p Pos, frag Fragment) Pos {
	if len(frag.Blocks) == 0 {
		return p
	}
	b := d.Blocks[p.Block]
	i := d.splitAt(p.Block, p.Offset)

	if len(frag.Blocks) == 1 {
		ins := frag.Blocks[0].Inlines
		b.Inlines = append(b.Inlines[:i], append(append([]Inline(nil), ins...), b.Inlines[i:]...)...)
		return Pos{Block: p.Block, Offset: p.Offset + (&Block{Inlines: ins}).Len()}
	}

	tail := append([]Inline(nil), b.Inlines[i:]...)
	b.Inlines = append(b.Inlines[:i], frag.Blocks[0].Inlines...)

	n := len(frag.Blocks)
	added := make([]*Block, 0, n-1)
	for k := 1; k < n-1; k++ {
		fb := frag.Blocks[k]
		added = append(added, &Block{Align: fb.Align, Inlines: append([]Inline(nil), fb.Inlines...)})
	}
	lastFrag := frag.Blocks[n-1]
	lastBlock := &Block{Align: lastFrag.Align, Inlines: append(append([]Inline(nil), lastFrag.Inlines...), tail...)}
	added = append(added, lastBlock)

	rest := append([]*Block(nil), d.Blocks[p.Block+1:]...)
	d.Blocks = append(append(d.Blocks[:p.Block+1], added...), rest...)

	return Pos{Block: p.Block + n - 1, Offset: (&Block{Inlines: lastFrag.Inlines}).Len()}
}

// splitBlock breaks the paragraph at p, returning the start of the new one.
func (d *Document) splitBlock(p Pos) Pos {
	b := d.Blocks[p.Block]
	i := d.splitAt(p.Block, p.Offset)
	tail := &Block{Align: b.Align, Inlines: append([]Inline(nil), b.Inlines[i:]...)}
	b.Inlines = b.Inlines[:i]

	rest := append([]*Block(nil), d.Blocks[p.Block+1:]...)
	d.Blocks = append(append(d.Blocks[:p.Block+1], tail), rest...)
	return Pos{Block: p.Block + 1}
}

// styleAt returns the style a character typed at p inherits.
func (d *Document) styleAt(p Pos) RunStyle {
	idx, _ := d.locate(p.Block, p.Offset, false)
	b := d.Blocks[p.Block]
	if idx < len(b.Inlines) && b.Inlines[idx].isText() {
		return b.Inlines[idx].Style
	}
	return RunStyle{}
}

// normalize merges neighbouring runs with equal styles and drops empty runs.
func (d *Document) normalize() {
	for _, b := range d.Blocks {
		out := b.Inlines[:0]
		for _, in := range b.Inlines {
			if in.isText() && in.Text == "" {
				continue
			}
			if n := len(out); n > 0 && in.isText() && out[n-1].isText() && out[n-1].Style == in.Style {
				out[n-1].Text += in.Text
				continue
			}
			out = append(out, in)
		}
		b.Inlines = out
	}
	if len(d.Blocks) == 0 {
		d.Blocks = []*Block{{}}
	}
}
