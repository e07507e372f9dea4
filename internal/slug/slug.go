// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns client and template names into ASCII file names that
// are safe as object-storage keys and on any file system.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// unsafe matches anything that isn't an ASCII letter, digit, dot,
	// hyphen or underscore.
	unsafe = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	// repeated collapses runs of underscores into one.
	repeated = regexp.MustCompile(`_{2,}`)
)

// Fold removes diacritics: "Contrato São João" becomes "Contrato Sao Joao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Filename makes s safe to use as a file name. Diacritics are folded,
// whitespace becomes an underscore and anything else outside
// [A-Za-z0-9._-] is dropped. Leading dots are trimmed so the result is
// never hidden or a parent reference. Returns "" when nothing survives.
func Filename(s string) string {
	s = Fold(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "_")
	s = unsafe.ReplaceAllString(s, "")
	s = repeated.ReplaceAllString(s, "_")
	return strings.Trim(s, "._")
}
