// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package layout derives on-screen page geometry for templates: A4 page
// dimensions for a given container width and orientation, the height of the
// stacked multi-page canvas, and where page-break separators go. Both editors
// and the preview engine use it so that preview and export agree on offsets.
package layout

import (
	"fmt"
	"math"

	"docstudio/internal/models"
)

const (
	// A4Ratio is the ISO A-series long/short side ratio (297mm / 210mm).
	A4Ratio = 297.0 / 210.0

	// Padding is subtracted from the container width before sizing a page.
	Padding = 48

	// MaxWidth caps the page width (A4 width at 96 dpi).
	MaxWidth = 794

	// BreakLabel prefixes the page number drawn at each separator.
	BreakLabel = "PAGE"
)

// Dimensions is the pixel size of one page.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultDimensions returns the dimensions used before the hosting container
// has been measured.
func DefaultDimensions(o models.Orientation) Dimensions {
	return fromWidth(MaxWidth, o)
}

// ComputeDimensions sizes a page to fit containerWidth. A container that is
// not measured yet (no room left after padding) yields DefaultDimensions.
func ComputeDimensions(containerWidth int, o models.Orientation) Dimensions {
	width := containerWidth - Padding
	if width <= 0 {
		return DefaultDimensions(o)
	}
	if width > MaxWidth {
		width = MaxWidth
	}
	return fromWidth(width, o)
}

func fromWidth(width int, o models.Orientation) Dimensions {
	ratio := A4Ratio
	if o == models.OrientationLandscape {
		ratio = 1 / A4Ratio
	}
	return Dimensions{Width: width, Height: int(math.Round(float64(width) * ratio))}
}

// TotalCanvasHeight is the height of totalPages stacked pages.
func TotalCanvasHeight(d Dimensions, totalPages int) int {
	return d.Height * clampPages(totalPages)
}

// PageBreak is a separator drawn between two pages.
type PageBreak struct {
	Offset int    `json:"offset"`
	Label  string `json:"label"`
}

// PageBreaks returns the totalPages-1 separators at height*k, k = 1..n-1.
// The separator at height*k introduces page k+1.
func PageBreaks(d Dimensions, totalPages int) []PageBreak {
	n := clampPages(totalPages)
	breaks := make([]PageBreak, 0, n-1)
	for k := 1; k < n; k++ {
		breaks = append(breaks, PageBreak{
			Offset: d.Height * k,
			Label:  fmt.Sprintf("%s %d", BreakLabel, k+1),
		})
	}
	return breaks
}

// PageOffset returns the vertical scroll offset of page n (1-based) at the
// given zoom factor.
func PageOffset(d Dimensions, n int, zoom float64) float64 {
	if n < 1 {
		n = 1
	}
	return float64(d.Height) * float64(n-1) * zoom
}

// PageOf returns the 1-based page a canvas y coordinate falls on.
func PageOf(d Dimensions, y float64) int {
	if d.Height <= 0 || y < 0 {
		return 1
	}
	return int(y/float64(d.Height)) + 1
}

func clampPages(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
