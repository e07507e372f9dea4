// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import "docstudio/internal/models"

// Viewport keeps page geometry current as its inputs change. Every setter
// recomputes the dimensions and reports whether they changed.
type Viewport struct {
	containerWidth int
	orientation    models.Orientation
	totalPages     int
	dims           Dimensions
}

// NewViewport creates a viewport for an unmeasured container.
func NewViewport(o models.Orientation, totalPages int) *Viewport {
	v := &Viewport{orientation: o, totalPages: clampPages(totalPages)}
	v.recompute()
	return v
}

func (v *Viewport) recompute() bool {
	next := ComputeDimensions(v.containerWidth, v.orientation)
	changed := next != v.dims
	v.dims = next
	return changed
}

// SetContainerWidth records a new container measurement.
func (v *Viewport) SetContainerWidth(w int) bool {
	v.containerWidth = w
	return v.recompute()
}

// SetOrientation switches between portrait and landscape.
func (v *Viewport) SetOrientation(o models.Orientation) bool {
	v.orientation = o
	return v.recompute()
}

// SetTotalPages updates the page count (floor 1). Page dimensions do not
// depend on it, but the canvas height and breaks do.
func (v *Viewport) SetTotalPages(n int) bool {
	n = clampPages(n)
	changed := n != v.totalPages
	v.totalPages = n
	return v.recompute() || changed
}

// Dimensions returns the current page size.
func (v *Viewport) Dimensions() Dimensions { return v.dims }

// TotalPages returns the current page count.
func (v *Viewport) TotalPages() int { return v.totalPages }

// CanvasHeight returns the height of all stacked pages.
func (v *Viewport) CanvasHeight() int { return TotalCanvasHeight(v.dims, v.totalPages) }

// PageBreaks returns the separators for the current geometry.
func (v *Viewport) PageBreaks() []PageBreak { return PageBreaks(v.dims, v.totalPages) }
