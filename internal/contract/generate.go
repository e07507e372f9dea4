// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contract

import (
	"time"

	"docstudio/internal/pdf"
)

// Options tune Generate. The zero value renders the standard variant dated
// today with no city.
type Options struct {
	Variant Variant
	City    string
	Now     func() time.Time
}

// File is a rendered contract ready for download.
type File struct {
	Name  string
	Data  []byte
	Pages int
}

// Generate renders contract text for client as a PDF.
func Generate(text, client string, opts Options) (File, error) {
	v := opts.Variant
	if v.Name == "" {
		v = Standard
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	doc := Outline(text, client, opts.City, now())
	w := pdf.New(pdf.A4)
	w.SetTitle(Filename(client))
	pages := Render(w, pdf.A4, doc, v)

	data, err := w.Bytes()
	if err != nil {
		return File{}, err
	}
	return File{Name: Filename(client), Data: data, Pages: pages}, nil
}
