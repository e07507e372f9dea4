// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package structured implements the structured template editor: a set of
// independently selectable text, image and field elements placed on a
// paginated canvas.
//
// Every element has a model record (models.TemplateElement) and a rendered
// Object. Both are reached through an id-keyed table; the model is the
// source of truth and objects are rebuilt from it when needed.
package structured

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"docstudio/internal/fields"
	"docstudio/internal/imaging"
	"docstudio/internal/layout"
	"docstudio/internal/models"
	"docstudio/internal/resize"
)

// DefaultText is the content of a freshly added text element.
const DefaultText = "double-click to edit"

// Zoom bounds.
const (
	MinZoom = 0.1
	MaxZoom = 3.0
)

// Default placement, relative to the top-left of the current page.
const (
	defaultOffset   = 50
	placeholderSize = 200
	fieldWidth      = 180
	fieldHeight     = 32
	fieldFontSize   = 14
)

var (
	// ErrNotImage is returned when an upload is not an image.
	ErrNotImage = imaging.ErrNotImage
	// ErrNoElement is returned when an id does not name an element.
	ErrNoElement = errors.New("structured: no such element")
	// ErrNotResizable is returned for resize requests on text elements.
	ErrNotResizable = errors.New("structured: element has no size")
	// ErrNotField is returned for field bindings on non-field elements.
	ErrNotField = errors.New("structured: element is not a field")
)

// Update describes a change the canvas made to an element.
type Update struct {
	Content  *string          `json:"content,omitempty"`
	Position *models.Position `json:"position,omitempty"`
	Size     *models.Size     `json:"size,omitempty"`
}

// Callbacks are the host notifications. Any of them may be nil.
type Callbacks struct {
	// OnSelectionChange receives the selected element id, or "" when the
	// selection is cleared.
	OnSelectionChange func(id string)
	OnElementUpdate   func(id string, u Update)
	OnTextDoubleClick func(content string)
}

// Scroller moves the hosting scroll container.
type Scroller interface {
	ScrollTo(offset float64, smooth bool)
}

type binding struct {
	element *models.TemplateElement
	object  *Object
}

type textEdit struct {
	id       string
	buffer   string
	original string
}

// Editor edits one structured template. It is not safe for concurrent use.
type Editor struct {
	tpl      models.Template
	elements []*models.TemplateElement
	objects  []*Object
	index    map[string]binding

	catalog  *fields.Catalog
	viewport *layout.Viewport

	selected    string
	zoom        float64
	currentPage int
	edit        *textEdit
	session     *resize.Session

	cb       Callbacks
	scroller Scroller
	newID    func() string
}

// Option configures an Editor.
type Option func(*Editor)

// WithCallbacks sets the host notifications.
func WithCallbacks(cb Callbacks) Option {
	return func(e *Editor) { e.cb = cb }
}

// WithScroller sets the scroll container driven by ScrollToPage.
func WithScroller(s Scroller) Option {
	return func(e *Editor) { e.scroller = s }
}

// WithIDFunc replaces the element id generator.
func WithIDFunc(fn func() string) Option {
	return func(e *Editor) { e.newID = fn }
}

// WithContainerWidth sizes the pages for a measured container.
func WithContainerWidth(w int) Option {
	return func(e *Editor) { e.viewport.SetContainerWidth(w) }
}

// New opens an editor over tpl. A nil catalog means the built-in one.
func New(tpl models.Template, catalog *fields.Catalog, opts ...Option) *Editor {
	tpl.Normalize()
	if catalog == nil {
		catalog = fields.Default()
	}
	e := &Editor{
		tpl:         tpl,
		index:       make(map[string]binding),
		catalog:     catalog,
		viewport:    layout.NewViewport(tpl.Orientation, tpl.TotalPages),
		zoom:        1,
		currentPage: 1,
		newID:       func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	for i := range tpl.Elements {
		el := cloneElement(tpl.Elements[i])
		if el.ID == "" {
			el.ID = e.newID()
		}
		e.attach(&el)
	}
	e.tpl.Elements = nil
	return e
}

func cloneElement(el models.TemplateElement) models.TemplateElement {
	if el.Size != nil {
		sz := *el.Size
		el.Size = &sz
	}
	return el
}

func (e *Editor) attach(el *models.TemplateElement) {
	obj := newObject(el)
	e.elements = append(e.elements, el)
	e.objects = append(e.objects, obj)
	e.index[el.ID] = binding{element: el, object: obj}
}

// Template returns a snapshot of the template with its elements in order.
func (e *Editor) Template() models.Template {
	t := e.tpl
	t.Elements = make([]models.TemplateElement, 0, len(e.elements))
	for _, el := range e.elements {
		t.Elements = append(t.Elements, cloneElement(*el))
	}
	return t
}

// Element returns a copy of one element.
func (e *Editor) Element(id string) (models.TemplateElement, bool) {
	b, ok := e.index[id]
	if !ok {
		return models.TemplateElement{}, false
	}
	return cloneElement(*b.element), true
}

// Objects returns the rendered objects in drawing order.
func (e *Editor) Objects() []Object {
	out := make([]Object, len(e.objects))
	for i, o := range e.objects {
		out[i] = *o
	}
	return out
}

// Viewport returns the page geometry.
func (e *Editor) Viewport() *layout.Viewport { return e.viewport }

// Selected returns the selected element id, or "".
func (e *Editor) Selected() string { return e.selected }

// ZoomLevel returns the current zoom factor.
func (e *Editor) ZoomLevel() float64 { return e.zoom }

// CurrentPage returns the page new elements are added to.
func (e *Editor) CurrentPage() int { return e.currentPage }

// Element positions and sizes live on the default page; the measured
// viewport only maps them to the screen.
func (e *Editor) pageHeight() float64 {
	return float64(layout.DefaultDimensions(e.tpl.Orientation).Height)
}

// screenScale is the number of screen pixels per canvas pixel at the
// current viewport width and zoom.
func (e *Editor) screenScale() float64 {
	model := layout.DefaultDimensions(e.tpl.Orientation).Width
	return e.zoom * float64(e.viewport.Dimensions().Width) / float64(model)
}

// pageOrigin is the y of the current page's top edge.
func (e *Editor) pageOrigin() float64 {
	return e.pageHeight() * float64(e.currentPage-1)
}

// Select makes id the selection; "" or an unknown id clears it.
func (e *Editor) Select(id string) {
	if _, ok := e.index[id]; !ok {
		id = ""
	}
	e.selected = id
	if e.cb.OnSelectionChange != nil {
		e.cb.OnSelectionChange(id)
	}
}

// ClickAt selects the topmost element under a pointer at screen
// coordinates (x, y), or clears the selection over empty canvas.
func (e *Editor) ClickAt(x, y float64) string {
	k := e.screenScale()
	cx, cy := x/k, y/k
	for i := len(e.objects) - 1; i >= 0; i-- {
		if e.objects[i].contains(cx, cy) {
			e.Select(e.objects[i].ElementID)
			return e.selected
		}
	}
	e.Select("")
	return ""
}

func (e *Editor) add(el models.TemplateElement) string {
	el.ID = e.newID()
	e.attach(&el)
	e.Select(el.ID)
	return el.ID
}

// AddTextElement adds a text element on the current page and selects it.
func (e *Editor) AddTextElement() string {
	return e.add(models.TemplateElement{
		Type:     models.ElementText,
		Content:  DefaultText,
		Style:    models.DefaultStyle(),
		Position: models.Position{X: defaultOffset, Y: defaultOffset + e.pageOrigin()},
	})
}

// AddImagePlaceholder adds an empty image slot, drawn as a dashed box with
// a centred label, and selects it.
func (e *Editor) AddImagePlaceholder() string {
	return e.add(models.TemplateElement{
		Type:     models.ElementImage,
		Style:    models.DefaultStyle(),
		Position: models.Position{X: defaultOffset * 2, Y: defaultOffset*2 + e.pageOrigin()},
		Size:     &models.Size{Width: placeholderSize, Height: placeholderSize * 3 / 4},
	})
}

// AddFieldElement adds a dynamic field with the generic placeholder token
// and selects it.
func (e *Editor) AddFieldElement() string {
	style := models.DefaultStyle()
	style.FontSize = fieldFontSize
	return e.add(models.TemplateElement{
		Type:     models.ElementField,
		Content:  fields.Placeholder,
		Style:    style,
		Position: models.Position{X: defaultOffset, Y: defaultOffset*3 + e.pageOrigin()},
		Size:     &models.Size{Width: fieldWidth, Height: fieldHeight},
	})
}

// HandleImageUpload adds an image element at half its native size. at is
// the drop point in canvas coordinates; nil places it at the default offset
// on the current page. Non-image files are logged and rejected.
func (e *Editor) HandleImageUpload(f imaging.File, at *models.Position) (string, error) {
	if !imaging.IsImageType(f.Type) {
		slog.Warn("structured: rejected non-image upload", "name", f.Name, "type", f.Type)
		return "", fmt.Errorf("%w: %q", ErrNotImage, f.Type)
	}
	uri, err := imaging.ToDataURI(f)
	if err != nil {
		return "", err
	}
	w, h, err := imaging.NativeSize(f.Data)
	if err != nil {
		return "", fmt.Errorf("structured: %w", err)
	}

	pos := models.Position{X: defaultOffset * 2, Y: defaultOffset*2 + e.pageOrigin()}
	if at != nil {
		pos = *at
	}
	return e.add(models.TemplateElement{
		Type:     models.ElementImage,
		Content:  uri,
		Style:    models.DefaultStyle(),
		Position: pos,
		Size:     &models.Size{Width: float64(w) / 2, Height: float64(h) / 2},
	}), nil
}

// UpdateElementStyle merges patch into the selected element's style. It
// does nothing unless id is the current selection.
func (e *Editor) UpdateElementStyle(id string, patch models.StylePatch) {
	if id == "" || id != e.selected {
		return
	}
	b, ok := e.index[id]
	if !ok {
		return
	}
	patch.Apply(&b.element.Style)
	b.object.reflectStyle(b.element.Style)
}

// UpdateTextContent replaces the text of the selected text element.
func (e *Editor) UpdateTextContent(content string) {
	b, ok := e.index[e.selected]
	if !ok || b.element.Type != models.ElementText {
		return
	}
	b.element.Content = content
	b.object.Text = content
	if e.edit != nil && e.edit.id == e.selected {
		e.edit.buffer = content
		e.edit.original = content
	}
}

// DeleteSelectedElement removes the selected element and its object.
func (e *Editor) DeleteSelectedElement() {
	b, ok := e.index[e.selected]
	if !ok {
		return
	}
	if e.edit != nil && e.edit.id == e.selected {
		e.edit = nil
	}
	delete(e.index, e.selected)
	for i, el := range e.elements {
		if el == b.element {
			e.elements = append(e.elements[:i], e.elements[i+1:]...)
			break
		}
	}
	for i, o := range e.objects {
		if o == b.object {
			e.objects = append(e.objects[:i], e.objects[i+1:]...)
			break
		}
	}
	e.Select("")
}

// Zoom multiplies the zoom by factor, clamped to [MinZoom, MaxZoom].
func (e *Editor) Zoom(factor float64) float64 {
	if factor > 0 {
		e.zoom = math.Min(MaxZoom, math.Max(MinZoom, e.zoom*factor))
	}
	return e.zoom
}

// DoubleClick starts inline editing of a text element.
func (e *Editor) DoubleClick(id string) bool {
	b, ok := e.index[id]
	if !ok || b.element.Type != models.ElementText {
		return false
	}
	if e.selected != id {
		e.Select(id)
	}
	e.edit = &textEdit{id: id, buffer: b.element.Content, original: b.object.Text}
	if e.cb.OnTextDoubleClick != nil {
		e.cb.OnTextDoubleClick(b.element.Content)
	}
	return true
}

// Editing reports the element being edited and its buffer.
func (e *Editor) Editing() (id, buffer string, ok bool) {
	if e.edit == nil {
		return "", "", false
	}
	return e.edit.id, e.edit.buffer, true
}

// SetEditBuffer replaces the inline edit buffer. The object shows the
// buffer while editing; the model is untouched until commit.
func (e *Editor) SetEditBuffer(s string) {
	if e.edit == nil {
		return
	}
	e.edit.buffer = s
	if b, ok := e.index[e.edit.id]; ok {
		b.object.Text = s
	}
}

// CommitTextEdit writes the buffer to the element and its object.
func (e *Editor) CommitTextEdit() {
	if e.edit == nil {
		return
	}
	ed := e.edit
	e.edit = nil
	b, ok := e.index[ed.id]
	if !ok {
		return
	}
	b.element.Content = ed.buffer
	b.object.Text = ed.buffer
	e.updated(ed.id, Update{Content: &ed.buffer})
}

// CancelTextEdit discards the buffer and restores the object's text.
func (e *Editor) CancelTextEdit() {
	if e.edit == nil {
		return
	}
	if b, ok := e.index[e.edit.id]; ok {
		b.object.Text = e.edit.original
	}
	e.edit = nil
}

func (e *Editor) updated(id string, u Update) {
	if e.cb.OnElementUpdate != nil {
		e.cb.OnElementUpdate(id, u)
	}
}

// SetFieldType binds a field element to a catalog category. The key is
// cleared and the element shows the generic placeholder again.
func (e *Editor) SetFieldType(id, category string) error {
	b, ok := e.index[id]
	if !ok {
		return nil
	}
	if b.element.Type != models.ElementField {
		return ErrNotField
	}
	if !e.catalog.HasCategory(category) {
		return fmt.Errorf("%w: %s", fields.ErrUnknownField, category)
	}
	b.element.FieldType = category
	b.element.FieldKey = ""
	b.element.Content = fields.Placeholder
	b.object.Text = fields.Placeholder
	b.object.Label = ""
	return nil
}

// SetFieldKey binds a field element to a key of its category. The content
// becomes the {{category.key}} token.
func (e *Editor) SetFieldKey(id, key string) error {
	b, ok := e.index[id]
	if !ok {
		return nil
	}
	if b.element.Type != models.ElementField {
		return ErrNotField
	}
	label, err := e.catalog.Label(b.element.FieldType, key)
	if err != nil {
		return err
	}
	b.element.FieldKey = key
	b.element.Content = fields.Token(b.element.FieldType, key)
	b.object.Text = b.element.Content
	b.object.Label = label
	return nil
}

// AddPage appends a page and returns the new page count.
func (e *Editor) AddPage() int {
	n := e.tpl.AddPage()
	e.viewport.SetTotalPages(n)
	return n
}

// RemovePage drops the last page. The count never goes below 1.
func (e *Editor) RemovePage() int {
	n := e.tpl.RemovePage()
	e.viewport.SetTotalPages(n)
	if e.currentPage > n {
		e.currentPage = n
	}
	return n
}

// ScrollToPage makes page n current and scrolls the container to it. It
// returns the scroll offset.
func (e *Editor) ScrollToPage(n int) float64 {
	n = max(1, min(n, e.tpl.TotalPages))
	e.currentPage = n
	offset := layout.PageOffset(e.viewport.Dimensions(), n, e.zoom)
	if e.scroller != nil {
		e.scroller.ScrollTo(offset, true)
	}
	return offset
}

// SetOrientation changes the page orientation.
func (e *Editor) SetOrientation(o models.Orientation) {
	if !o.Valid() {
		return
	}
	e.tpl.Orientation = o
	e.viewport.SetOrientation(o)
}

// MoveElement places an element at canvas coordinates (x, y), measured on
// the default page whatever the viewport width.
func (e *Editor) MoveElement(id string, x, y float64) {
	b, ok := e.index[id]
	if !ok {
		return
	}
	b.element.Position = models.Position{X: x, Y: y}
	b.object.Left, b.object.Top = x, y
	pos := b.element.Position
	e.updated(id, Update{Position: &pos})
}

// BeginResize presses a handle of a sized element at pointer (x, y) in
// screen coordinates. The element and its object follow every move; the
// final size is reported through OnElementUpdate when the session ends.
func (e *Editor) BeginResize(id string, h resize.Handle, x, y float64) (*resize.Session, error) {
	b, ok := e.index[id]
	if !ok {
		return nil, ErrNoElement
	}
	if b.element.Size == nil {
		return nil, ErrNotResizable
	}
	if e.session != nil {
		e.session.End()
	}

	el, obj := b.element, b.object
	k := e.screenScale()
	var s *resize.Session
	s = resize.Begin(resize.NewStart(h, x, y, el.Size.Width*k, el.Size.Height*k),
		func(w, hh float64) {
			w, hh = w/k, hh/k
			el.Size.Width, el.Size.Height = w, hh
			obj.Width, obj.Height = w, hh
			if el.Type == models.ElementField {
				obj.Radius = hh / 2
			}
		},
		func() {
			if e.session == s {
				e.session = nil
			}
			size := *el.Size
			e.updated(el.ID, Update{Size: &size})
		})
	e.session = s
	return s, nil
}

// ResizeElement runs a whole resize gesture using the pointer events
// delivered by c. The capture is released however the gesture ends.
func (e *Editor) ResizeElement(ctx context.Context, id string, h resize.Handle, x, y float64, c resize.Capture) error {
	s, err := e.BeginResize(id, h, x, y)
	if err != nil {
		return err
	}
	return resize.Drag(ctx, c, s)
}
