// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package contract turns contract text into a paginated PDF: the text is
// split into a main body and titled sections, paragraphs are justified to
// the page width, and a signature block is generated at the end.
package contract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Party roles used in the signature block.
const (
	RoleContratante = "CONTRATANTE"
	RoleContratada  = "CONTRATADA"
)

// header is a recognised section header keyword.
type header struct {
	keyword string // upper case; matched anywhere in the line
	title   string // title printed in the PDF; "" ends the content
}

var headers = []header{
	{keyword: "OBRIGAÇÕES", title: "Obrigações da Contratante"},
	{keyword: "OBRIGACOES", title: "Obrigações da Contratante"},
	{keyword: "FINANCEIRO", title: "Financeiro"},
	{keyword: "ASSINATURA", title: ""},
}

var contratadaRe = regexp.MustCompile(`(?im)^\s*contratada\s*:\s*([^,\n]+)`)

var months = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Section is a titled part of the contract.
type Section struct {
	Title      string
	Paragraphs []string
}

// Party is one signer.
type Party struct {
	Role  string
	Name  string
	TaxID string
}

// Document is everything the renderer draws, in order.
type Document struct {
	Body     []string
	Sections []Section
	City     string
	Date     time.Time // zero: no date line
	Parties  []Party
}

// Outline splits contract text into body and sections and prepares the
// signature block for client and the contractor named in the text. Text
// after an ASSINATURA header is dropped; the block is generated instead.
func Outline(text, client, city string, date time.Time) Document {
	doc := Document{City: city, Date: date}

	var cur *Section
	var lines []string
	emit := func() {
		paras := paragraphs(lines)
		lines = nil
		if cur == nil {
			doc.Body = append(doc.Body, paras...)
			return
		}
		cur.Paragraphs = append(cur.Paragraphs, paras...)
		if len(cur.Paragraphs) > 0 {
			doc.Sections = append(doc.Sections, *cur)
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		h, ok := matchHeader(line)
		if !ok {
			lines = append(lines, line)
			continue
		}
		emit()
		if h.title == "" {
			cur = nil
			lines = nil
			break
		}
		cur = &Section{Title: h.title}
	}
	if cur != nil || lines != nil {
		emit()
	}

	if client == "" {
		client = RoleContratante
	}
	doc.Parties = []Party{
		{Role: RoleContratante, Name: client},
		{Role: RoleContratada, Name: ContractorName(text)},
	}
	return doc
}

// matchHeader reports whether line is a section header: any line holding
// one of the keywords, in any case, starts that section. Prose mentioning
// a keyword is classified as a header too.
func matchHeader(line string) (header, bool) {
	s := strings.ToUpper(line)
	for _, h := range headers {
		if strings.Contains(s, h.keyword) {
			return h, true
		}
	}
	return header{}, false
}

// paragraphs groups lines into blank-line separated paragraphs, joining the
// lines of each with single spaces.
func paragraphs(lines []string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			flush()
			continue
		}
		cur = append(cur, l)
	}
	flush()
	return out
}

// ContractorName extracts the name after a "Contratada:" label, up to the
// first comma. It falls back to "CONTRATADA".
func ContractorName(text string) string {
	m := contratadaRe.FindStringSubmatch(text)
	if m == nil {
		return RoleContratada
	}
	if name := strings.TrimSpace(m[1]); name != "" {
		return name
	}
	return RoleContratada
}

// LongDate formats a date the way contracts spell it, e.g.
// "15 de outubro de 2026".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

// DateLine is the place-and-date line above the signatures.
func (d Document) DateLine() string {
	if d.Date.IsZero() {
		return ""
	}
	if d.City == "" {
		return LongDate(d.Date)
	}
	return d.City + ", " + LongDate(d.Date)
}

// Filename is the download name for a client's contract.
func Filename(client string) string {
	client = strings.TrimSpace(client)
	if client == "" {
		return "Contrato.pdf"
	}
	return "Contrato_" + strings.ReplaceAll(client, " ", "_") + ".pdf"
}
