// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contract

import "strings"

// Measurer returns the width of a string in the current font.
type Measurer interface {
	Width(s string) float64
}

// Wrap breaks text into lines of words no wider than maxWidth. A word wider
// than maxWidth gets a line of its own.
func Wrap(text string, m Measurer, maxWidth float64) [][]string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	space := m.Width(" ")

	var lines [][]string
	var cur []string
	width := 0.0
	for _, w := range words {
		ww := m.Width(w)
		if len(cur) > 0 && width+space+ww > maxWidth {
			lines = append(lines, cur)
			cur, width = nil, 0
		}
		if len(cur) > 0 {
			width += space
		}
		cur = append(cur, w)
		width += ww
	}
	return append(lines, cur)
}

// Justify returns the x offset of every word so the line spans exactly
// maxWidth. The gap between words is (maxWidth - sum of word widths) /
// (words - 1). A single word stays at 0.
func Justify(words []string, m Measurer, maxWidth float64) []float64 {
	xs := make([]float64, len(words))
	if len(words) < 2 {
		return xs
	}
	sum := 0.0
	widths := make([]float64, len(words))
	for i, w := range words {
		widths[i] = m.Width(w)
		sum += widths[i]
	}
	gap := (maxWidth - sum) / float64(len(words)-1)
	x := 0.0
	for i := range words {
		xs[i] = x
		x += widths[i] + gap
	}
	return xs
}

// Flush returns the x offsets of words set with normal spacing, as used
// for the last line of a paragraph.
func Flush(words []string, m Measurer) []float64 {
	xs := make([]float64, len(words))
	space := m.Width(" ")
	x := 0.0
	for i, w := range words {
		xs[i] = x
		x += m.Width(w) + space
	}
	return xs
}
