// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package freeform implements the free-form template editor: an owned
// rich-text buffer of paragraphs, styled runs and inline images, driven
// through a small command interface. At most one image is selected at a
// time and a selected image can be resized through eight handles.
//
// An Editor is not safe for concurrent use.
package freeform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"docstudio/internal/imaging"
	"docstudio/internal/resize"
)

// Signal is the opaque notification sent to the host on typing, selection
// changes and clicks.
const Signal = "text-editor"

// Fallback size for uploads whose header cannot be probed.
const (
	fallbackImageWidth  = 200
	fallbackImageHeight = 150
)

var (
	// ErrNotImage is returned when an upload is not an image.
	ErrNotImage = imaging.ErrNotImage
	// ErrNoImageSelected is returned by resize operations without a selected image.
	ErrNoImageSelected = errors.New("freeform: no image selected")
	// ErrUnknownCommand is returned by Apply for unsupported commands.
	ErrUnknownCommand = errors.New("freeform: unknown command")
)

// ImageState is the selection state of the image under the pointer.
type ImageState int

const (
	ImageUnselected ImageState = iota
	ImageSelected
	ImageResizing
)

func (s ImageState) String() string {
	switch s {
	case ImageSelected:
		return "selected"
	case ImageResizing:
		return "resizing"
	}
	return "unselected"
}

// Selection is a text range. Anchor and Focus may be in either order.
type Selection struct {
	Anchor Pos `json:"anchor"`
	Focus  Pos `json:"focus"`
}

// Collapsed reports whether the selection is a caret.
func (s Selection) Collapsed() bool { return s.Anchor == s.Focus }

func (s Selection) ordered() (start, end Pos) {
	if s.Focus.before(s.Anchor) {
		return s.Focus, s.Anchor
	}
	return s.Anchor, s.Focus
}

// Editor owns a document and the selection state over it.
type Editor struct {
	doc *Document
	sel *Selection

	imageID string
	state   ImageState
	session *resize.Session

	notify        func(signal string)
	maxImageWidth float64
	newID         func() string
}

// Option configures an Editor.
type Option func(*Editor)

// WithNotifier sets the host callback that receives Signal.
func WithNotifier(fn func(signal string)) Option {
	return func(e *Editor) { e.notify = fn }
}

// WithMaxImageWidth scales inserted images down to at most w pixels wide.
func WithMaxImageWidth(w float64) Option {
	return func(e *Editor) { e.maxImageWidth = w }
}

// WithIDFunc replaces the image id generator.
func WithIDFunc(fn func() string) Option {
	return func(e *Editor) { e.newID = fn }
}

// New opens an editor over stored content (HTML or plain text).
func New(content string, opts ...Option) (*Editor, error) {
	doc, err := Parse(content)
	if err != nil {
		return nil, err
	}
	e := &Editor{
		doc:   doc,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, img := range doc.Images() {
		if img.ID == "" {
			img.ID = e.newID()
		}
	}
	return e, nil
}

// Document returns the live buffer.
func (e *Editor) Document() *Document { return e.doc }

// Content returns the buffer serialized as HTML.
func (e *Editor) Content() string { return e.doc.HTML() }

func (e *Editor) changed() {
	if e.notify != nil {
		e.notify(Signal)
	}
}

// Select sets the text selection.
func (e *Editor) Select(anchor, focus Pos) {
	e.sel = &Selection{Anchor: e.doc.clamp(anchor), Focus: e.doc.clamp(focus)}
	e.changed()
}

// ClearSelection drops the text selection.
func (e *Editor) ClearSelection() {
	e.sel = nil
	e.changed()
}

// Selection returns the current text selection.
func (e *Editor) Selection() (Selection, bool) {
	if e.sel == nil {
		return Selection{}, false
	}
	return *e.sel, true
}

// caret removes any selected range and returns where new content goes.
func (e *Editor) caret() (Pos, bool) {
	if e.sel == nil {
		return Pos{}, false
	}
	start, end := e.sel.ordered()
	if start != end {
		e.doc.extract(start, end)
	}
	return start, true
}

// InsertText types s at the caret, replacing any selected range. Newlines
// start new paragraphs. Without a selection the text is appended.
func (e *Editor) InsertText(s string) {
	at, ok := e.caret()
	if !ok {
		at = e.doc.End()
	}
	style := e.doc.styleAt(at)
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			at = e.doc.splitBlock(at)
		}
		if line != "" {
			at = e.doc.insert(at, Fragment{Blocks: []Block{{Inlines: []Inline{{Text: line, Style: style}}}}})
		}
	}
	e.doc.normalize()
	e.sel = &Selection{Anchor: at, Focus: at}
	e.changed()
}

// DeleteSelection removes the selected range, or the selected image when
// there is no range, and clears image handles.
func (e *Editor) DeleteSelection() {
	if e.sel != nil && !e.sel.Collapsed() {
		start, end := e.sel.ordered()
		e.doc.extract(start, end)
		e.sel = &Selection{Anchor: start, Focus: start}
	} else if e.imageID != "" {
		e.removeImage(e.imageID)
		if e.sel != nil {
			e.sel = &Selection{Anchor: e.doc.clamp(e.sel.Anchor), Focus: e.doc.clamp(e.sel.Focus)}
		}
	}
	e.doc.normalize()
	e.ClearImageSelection()
	e.changed()
}

func (e *Editor) removeImage(id string) {
	for _, b := range e.doc.Blocks {
		for i, in := range b.Inlines {
			if in.Image != nil && in.Image.ID == id {
				b.Inlines = append(b.Inlines[:i], b.Inlines[i+1:]...)
				return
			}
		}
	}
}

// Command is a text formatting command.
type Command string

const (
	CmdBold          Command = "bold"
	CmdItalic        Command = "italic"
	CmdUnderline     Command = "underline"
	CmdFontName      Command = "fontName"
	CmdFontSize      Command = "fontSize"
	CmdForeColor     Command = "foreColor"
	CmdBackColor     Command = "backColor"
	CmdJustifyLeft   Command = "justifyLeft"
	CmdJustifyCenter Command = "justifyCenter"
	CmdJustifyRight  Command = "justifyRight"
	CmdJustifyFull   Command = "justifyFull"
)

// Apply runs a formatting command over the current selection. Inline
// commands need a non-empty range; alignment applies to every paragraph
// the selection touches.
func (e *Editor) Apply(cmd Command, value string) error {
	switch cmd {
	case CmdBold:
		e.toggle(func(s *RunStyle) *bool { return &s.Bold })
	case CmdItalic:
		e.toggle(func(s *RunStyle) *bool { return &s.Italic })
	case CmdUnderline:
		e.toggle(func(s *RunStyle) *bool { return &s.Underline })
	case CmdFontName:
		e.styleRange(func(s *RunStyle) { s.FontFamily = value })
	case CmdForeColor:
		e.styleRange(func(s *RunStyle) { s.Color = value })
	case CmdBackColor:
		e.styleRange(func(s *RunStyle) { s.BackColor = value })
	case CmdFontSize:
		px, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(value), "px"), 64)
		if err != nil || px <= 0 {
			return fmt.Errorf("freeform: invalid font size %q", value)
		}
		e.SetFontSize(px)
	case CmdJustifyLeft:
		e.align("left")
	case CmdJustifyCenter:
		e.align("center")
	case CmdJustifyRight:
		e.align("right")
	case CmdJustifyFull:
		e.align("justify")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	return nil
}

// styleRange lifts the selected range out, restyles its text runs and puts
// it back in place.
func (e *Editor) styleRange(fn func(*RunStyle)) {
	if e.sel == nil || e.sel.Collapsed() {
		return
	}
	start, end := e.sel.ordered()
	frag := e.doc.extract(start, end)
	frag.eachText(func(in *Inline) { fn(&in.Style) })
	end = e.doc.insert(start, frag)
	e.doc.normalize()
	e.sel = &Selection{Anchor: start, Focus: end}
	e.changed()
}

// toggle sets a flag on the whole range, or clears it when every run
// already has it.
func (e *Editor) toggle(flag func(*RunStyle) *bool) {
	if e.sel == nil || e.sel.Collapsed() {
		return
	}
	start, end := e.sel.ordered()
	frag := e.doc.extract(start, end)
	all := true
	frag.eachText(func(in *Inline) {
		if !*flag(&in.Style) {
			all = false
		}
	})
	frag.eachText(func(in *Inline) { *flag(&in.Style) = !all })
	end = e.doc.insert(start, frag)
	e.doc.normalize()
	e.sel = &Selection{Anchor: start, Focus: end}
	e.changed()
}

func (e *Editor) align(a string) {
	if e.sel == nil {
		return
	}
	start, end := e.sel.ordered()
	for bi := start.Block; bi <= end.Block; bi++ {
		e.doc.Blocks[bi].Align = a
	}
	e.changed()
}

// SetFontSize gives the selected text an explicit pixel size. A range
// inside a single run is wrapped in place; any other range is extracted
// and re-inserted with the size applied to every run. The host is notified
// once the buffer has settled.
func (e *Editor) SetFontSize(px float64) {
	if e.sel == nil || e.sel.Collapsed() || px <= 0 {
		return
	}
	start, end := e.sel.ordered()
	if !e.wrapInPlace(start, end, px) {
		slog.Debug("freeform: font size range spans runs, re-inserting", "start", start, "end", end)
		frag := e.doc.extract(start, end)
		frag.eachText(func(in *Inline) { in.Style.FontSize = px })
		end = e.doc.insert(start, frag)
	}
	e.doc.normalize()
	e.sel = &Selection{Anchor: start, Focus: end}
	e.changed()
}

func (e *Editor) wrapInPlace(start, end Pos, px float64) bool {
	if start.Block != end.Block {
		return false
	}
	b := e.doc.Blocks[start.Block]
	i, _ := e.doc.locate(start.Block, start.Offset, true)
	j, _ := e.doc.locate(end.Block, end.Offset, false)
	if i != j || i >= len(b.Inlines) || !b.Inlines[i].isText() {
		return false
	}
	first := e.doc.splitAt(start.Block, start.Offset)
	e.doc.splitAt(start.Block, end.Offset)
	b.Inlines[first].Style.FontSize = px
	return true
}

// InsertImage places an image at the caret (replacing any selected range)
// or, without a selection, at the end of the document. The new image is
// selected. It returns the image id.
func (e *Editor) InsertImage(src string, width, height float64) string {
	if e.maxImageWidth > 0 && width > e.maxImageWidth {
		height = height * e.maxImageWidth / width
		width = e.maxImageWidth
	}
	img := &Image{ID: e.newID(), Src: src, Width: width, Height: height}

	at, ok := e.caret()
	if !ok {
		at = e.doc.End()
	}
	at = e.doc.insert(at, Fragment{Blocks: []Block{{Inlines: []Inline{{Image: img}}}}})
	e.doc.normalize()
	e.sel = &Selection{Anchor: at, Focus: at}
	e.SelectImage(img.ID)
	e.changed()
	return img.ID
}

// HandleImageUpload validates an uploaded file and inserts it as an image.
// Non-image files are logged and rejected without touching the document.
func (e *Editor) HandleImageUpload(f imaging.File) (string, error) {
	if !imaging.IsImageType(f.Type) {
		slog.Warn("freeform: rejected non-image upload", "name", f.Name, "type", f.Type)
		return "", fmt.Errorf("%w: %q", ErrNotImage, f.Type)
	}
	uri, err := imaging.ToDataURI(f)
	if err != nil {
		return "", err
	}
	w, h, err := imaging.NativeSize(f.Data)
	if err != nil {
		slog.Debug("freeform: using fallback image size", "name", f.Name, "error", err)
		w, h = fallbackImageWidth, fallbackImageHeight
	}
	return e.InsertImage(uri, float64(w), float64(h)), nil
}

// Click handles a click inside the surface. imageID is the image under the
// pointer, or "" for text or empty space.
func (e *Editor) Click(imageID string) {
	if imageID == "" || !e.SelectImage(imageID) {
		e.ClearImageSelection()
	}
	e.changed()
}

// SelectImage selects an image, evicting any previous selection.
func (e *Editor) SelectImage(id string) bool {
	if e.doc.findImage(id) == nil {
		return false
	}
	e.endResize()
	e.imageID = id
	e.state = ImageSelected
	return true
}

// ClearImageSelection removes the handles from the selected image.
func (e *Editor) ClearImageSelection() {
	e.endResize()
	e.imageID = ""
	e.state = ImageUnselected
}

func (e *Editor) endResize() {
	if e.session != nil {
		e.session.End()
	}
}

// ImageState returns the selection state and the selected image id.
func (e *Editor) ImageState() (ImageState, string) { return e.state, e.imageID }

// SelectedImage returns a copy of the selected image.
func (e *Editor) SelectedImage() (Image, bool) {
	if e.imageID == "" {
		return Image{}, false
	}
	img := e.doc.findImage(e.imageID)
	if img == nil {
		return Image{}, false
	}
	return *img, true
}

// HandleView is a resize handle as drawn around the selected image, in
// coordinates relative to the image's top-left corner.
type HandleView struct {
	Handle resize.Handle `json:"handle"`
	Cursor string        `json:"cursor"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
}

// Handles returns the eight handles of the selected image, or nil.
func (e *Editor) Handles() []HandleView {
	img, ok := e.SelectedImage()
	if !ok {
		return nil
	}
	views := make([]HandleView, 0, len(resize.Handles))
	for _, h := range resize.Handles {
		v := HandleView{Handle: h, Cursor: h.Cursor(), X: img.Width / 2, Y: img.Height / 2}
		switch {
		case strings.Contains(string(h), "w"):
			v.X = 0
		case strings.Contains(string(h), "e"):
			v.X = img.Width
		}
		switch {
		case strings.Contains(string(h), "n"):
			v.Y = 0
		case strings.Contains(string(h), "s"):
			v.Y = img.Height
		}
		views = append(views, v)
	}
	return views
}

// BeginResize presses a handle of the selected image at pointer (x, y).
func (e *Editor) BeginResize(h resize.Handle, x, y float64) (*resize.Session, error) {
	if e.state == ImageUnselected {
		return nil, ErrNoImageSelected
	}
	img := e.doc.findImage(e.imageID)
	if img == nil {
		return nil, ErrNoImageSelected
	}
	e.endResize()

	var s *resize.Session
	s = resize.Begin(resize.NewStart(h, x, y, img.Width, img.Height),
		func(w, hh float64) {
			img.Width, img.Height = w, hh
		},
		func() {
			if e.session == s {
				e.session = nil
				if e.state == ImageResizing {
					e.state = ImageSelected
				}
			}
		})
	e.session = s
	e.state = ImageResizing
	return s, nil
}

// ResizeImage runs a whole resize gesture on the selected image using the
// pointer events delivered by c. The capture is released however the
// gesture ends.
func (e *Editor) ResizeImage(ctx context.Context, h resize.Handle, x, y float64, c resize.Capture) error {
	s, err := e.BeginResize(h, x, y)
	if err != nil {
		return err
	}
	defer e.changed()
	return resize.Drag(ctx, c, s)
}
