package structured

import (
	"context"
	"fmt"

	"docstudio/internal/models"
	"docstudio/internal/resize"
)

// Op is one editor command as sent by a remote host.
type Op struct {
	Op          string                `json:"op"`
	ID          string                `json:"id,omitempty"`
	X           float64               `json:"x,omitempty"`
	Y           float64               `json:"y,omitempty"`
	Factor      float64               `json:"factor,omitempty"`
	Page        int                   `json:"page,omitempty"`
	Style       *models.StylePatch    `json:"style,omitempty"`
	Content     string                `json:"content,omitempty"`
	FieldType   string                `json:"field_type,omitempty"`
	FieldKey    string                `json:"field_key,omitempty"`
	Orientation models.Orientation    `json:"orientation,omitempty"`
	Handle      string                `json:"handle,omitempty"`
	Events      []resize.PointerEvent `json:"events,omitempty"`
}

// Run applies ops in order and stops at the first failure. ids[i] is the
// element op i created or selected, if any.
func (e *Editor) Run(ctx context.Context, ops []Op) (ids []string, err error) {
	ids = make([]string, len(ops))
	for i, op := range ops {
		id, err := e.run(ctx, op)
		if err != nil {
			return ids, fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func (e *Editor) run(ctx context.Context, op Op) (string, error) {
	switch op.Op {
	case "add_text":
		return e.AddTextElement(), nil
	case "add_image_placeholder":
		return e.AddImagePlaceholder(), nil
	case "add_field":
		return e.AddFieldElement(), nil
	case "select":
		e.Select(op.ID)
		return e.selected, nil
	case "click":
		return e.ClickAt(op.X, op.Y), nil
	case "update_style":
		if op.Style != nil {
			e.UpdateElementStyle(op.ID, *op.Style)
		}
	case "update_text":
		e.UpdateTextContent(op.Content)
	case "delete":
		e.DeleteSelectedElement()
	case "zoom":
		e.Zoom(op.Factor)
	case "double_click":
		e.DoubleClick(op.ID)
	case "edit_buffer":
		e.SetEditBuffer(op.Content)
	case "commit_edit":
		e.CommitTextEdit()
	case "cancel_edit":
		e.CancelTextEdit()
	case "set_field_type":
		return "", e.SetFieldType(op.ID, op.FieldType)
	case "set_field_key":
		return "", e.SetFieldKey(op.ID, op.FieldKey)
	case "add_page":
		e.AddPage()
	case "remove_page":
		e.RemovePage()
	case "scroll_to_page":
		e.ScrollToPage(op.Page)
	case "set_orientation":
		e.SetOrientation(op.Orientation)
	case "move":
		e.MoveElement(op.ID, op.X, op.Y)
	case "resize":
		h, err := resize.ParseHandle(op.Handle)
		if err != nil {
			return "", err
		}
		return "", e.ResizeElement(ctx, op.ID, h, op.X, op.Y, resize.NewReplay(op.Events))
	default:
		return "", fmt.Errorf("unknown op %q", op.Op)
	}
	return "", nil
}
