package freeform

import (
	"context"
	"fmt"

	"docstudio/internal/imaging"
	"docstudio/internal/resize"
)

// Op is one editor command as sent by a remote host.
type Op struct {
	Op      string                `json:"op"`
	Anchor  Pos                   `json:"anchor"`
	Focus   Pos                   `json:"focus"`
	Text    string                `json:"text,omitempty"`
	Command Command               `json:"command,omitempty"`
	Value   string                `json:"value,omitempty"`
	ImageID string                `json:"image_id,omitempty"`
	Src     string                `json:"src,omitempty"`
	Width   float64               `json:"width,omitempty"`
	Height  float64               `json:"height,omitempty"`
	Handle  string                `json:"handle,omitempty"`
	X       float64               `json:"x,omitempty"`
	Y       float64               `json:"y,omitempty"`
	Events  []resize.PointerEvent `json:"events,omitempty"`
}

// Run applies ops in order and stops at the first failure.
func (e *Editor) Run(ctx context.Context, ops []Op) error {
	for i, op := range ops {
		if err := e.run(ctx, op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
	}
	return nil
}

func (e *Editor) run(ctx context.Context, op Op) error {
	switch op.Op {
	case "select":
		e.Select(op.Anchor, op.Focus)
	case "clear_selection":
		e.ClearSelection()
	case "insert_text":
		e.InsertText(op.Text)
	case "delete":
		e.DeleteSelection()
	case "format":
		return e.Apply(op.Command, op.Value)
	case "click":
		e.Click(op.ImageID)
	case "insert_image":
		mimeType, _, err := imaging.ParseDataURI(op.Src)
		if err != nil {
			return err
		}
		if !imaging.IsImageType(mimeType) {
			return fmt.Errorf("%w: %q", ErrNotImage, mimeType)
		}
		e.InsertImage(op.Src, op.Width, op.Height)
	case "resize":
		h, err := resize.ParseHandle(op.Handle)
		if err != nil {
			return err
		}
		return e.ResizeImage(ctx, h, op.X, op.Y, resize.NewReplay(op.Events))
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
	return nil
}
