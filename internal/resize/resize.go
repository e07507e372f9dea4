// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package resize implements the eight-handle resize interaction shared by
// both editors. Corner handles keep the aspect ratio; edge handles change a
// single axis. Pointer capture for a drag is modelled as a scoped resource
// that is always released when the drag ends, however it ends.
package resize

import (
	"fmt"
	"math"
)

// MinSize is the smallest width or height a resize can produce.
const MinSize = 20

// Handle identifies a resize handle. Corner handles have two letters.
type Handle string

const (
	NW Handle = "nw"
	NE Handle = "ne"
	SW Handle = "sw"
	SE Handle = "se"
	N  Handle = "n"
	S  Handle = "s"
	E  Handle = "e"
	W  Handle = "w"
)

// Handles lists every supported handle in drawing order.
var Handles = []Handle{NW, N, NE, E, SE, S, SW, W}

// ParseHandle validates a handle id.
func ParseHandle(s string) (Handle, error) {
	for _, h := range Handles {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("resize: unknown handle %q", s)
}

// IsCorner reports whether h is an aspect-locked corner handle.
func (h Handle) IsCorner() bool { return len(h) == 2 }

// Cursor returns the CSS cursor conventionally shown over the handle.
func (h Handle) Cursor() string {
	switch h {
	case NW, SE:
		return "nwse-resize"
	case NE, SW:
		return "nesw-resize"
	case N, S:
		return "ns-resize"
	case E, W:
		return "ew-resize"
	}
	return "default"
}

func (h Handle) has(axis byte) bool {
	for i := 0; i < len(h); i++ {
		if h[i] == axis {
			return true
		}
	}
	return false
}

// Start is the state recorded when a drag begins.
type Start struct {
	PointerX    float64
	PointerY    float64
	Width       float64
	Height      float64
	AspectRatio float64
	Handle      Handle
}

// NewStart records a drag start for an element of the given size.
func NewStart(h Handle, pointerX, pointerY, width, height float64) Start {
	ratio := 1.0
	if height > 0 {
		ratio = width / height
	}
	return Start{
		PointerX:    pointerX,
		PointerY:    pointerY,
		Width:       width,
		Height:      height,
		AspectRatio: ratio,
		Handle:      h,
	}
}

// Compute returns the size for a pointer at (x, y).
//
// Corner handles follow whichever axis moved more and derive the other from
// the aspect ratio; ties follow the horizontal axis. Both results are
// floored at MinSize.
func Compute(s Start, x, y float64) (width, height float64) {
	dx := x - s.PointerX
	dy := y - s.PointerY

	width, height = s.Width, s.Height
	switch {
	case s.Handle.has('e'):
		width = s.Width + dx
	case s.Handle.has('w'):
		width = s.Width - dx
	}
	switch {
	case s.Handle.has('s'):
		height = s.Height + dy
	case s.Handle.has('n'):
		height = s.Height - dy
	}

	if s.Handle.IsCorner() && s.AspectRatio > 0 {
		if math.Abs(dx) >= math.Abs(dy) {
			height = width / s.AspectRatio
		} else {
			width = height * s.AspectRatio
		}
	}

	return math.Max(width, MinSize), math.Max(height, MinSize)
}
