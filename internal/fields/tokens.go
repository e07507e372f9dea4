// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fields

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"docstudio/internal/models"
)

// Placeholder is the token new field elements start with.
const Placeholder = "{{campo.dinamico}}"

var tokenRe = regexp.MustCompile(`\{\{\s*([a-z0-9_]+)\.([a-z0-9_]+)\s*\}\}`)

// Token builds the placeholder for category.key.
func Token(category, key string) string {
	return "{{" + category + "." + key + "}}"
}

// ParseToken splits a placeholder into category and key.
func ParseToken(s string) (category, key string, ok bool) {
	m := tokenRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil || m[0] != strings.TrimSpace(s) {
		return "", "", false
	}
	return m[1], m[2], true
}

// Refs returns the distinct "category.key" references in content, in order
// of first appearance.
func Refs(content string) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, m := range tokenRe.FindAllStringSubmatch(content, -1) {
		ref := m[1] + "." + m[2]
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

// Values maps "category.key" to the text a placeholder resolves to.
type Values map[string]string

// Resolve replaces every known placeholder in content. Placeholders without
// a value are left as they are.
func Resolve(content string, values Values) string {
	if len(values) == 0 {
		return content
	}
	return tokenRe.ReplaceAllStringFunc(content, func(tok string) string {
		m := tokenRe.FindStringSubmatch(tok)
		if v, ok := values[m[1]+"."+m[2]]; ok {
			return v
		}
		return tok
	})
}

// ReplaceTokens rewrites every placeholder through fn, which receives the
// "category.key" reference.
func ReplaceTokens(content string, fn func(ref string) string) string {
	return tokenRe.ReplaceAllStringFunc(content, func(tok string) string {
		m := tokenRe.FindStringSubmatch(tok)
		return fn(m[1] + "." + m[2])
	})
}

// FromContract derives catalog values from contract data.
func FromContract(c models.ContractData) Values {
	v := Values{
		"empresa.razao_social":       c.CompanyName,
		"empresa.cnpj":               c.CompanyTaxID,
		"empresa.endereco":           c.CompanyAddress,
		"empresa.representante":      c.CompanyRepresentative,
		"empresa.representante_cpf":  c.CompanyRepresentativeDoc,
		"cliente.nome":               c.ClientName,
		"cliente.cnpj":               c.ClientTaxID,
		"cliente.endereco":           c.ClientAddress,
		"cliente.representante":      c.ClientRepresentative,
		"cliente.representante_cpf":  c.ClientRepresentativeDoc,
		"proposta.servico":           c.ServiceDescription,
		"proposta.turno":             c.Shift,
		"proposta.horario":           c.Hours,
		"proposta.regime":            c.Regime,
		"proposta.quantidade":        strconv.Itoa(c.Quantity),
		"proposta.valor_unitario":    FormatBRL(c.UnitValue),
		"proposta.valor_mensal":      FormatBRL(c.TotalMonthly()),
		"contrato.vigencia_meses":    strconv.Itoa(c.DurationMonths),
		"contrato.aviso_previo_dias": strconv.Itoa(c.NoticeDays),
		"contrato.cidade":            c.City,
	}
	if !c.StartDate.IsZero() {
		v["contrato.data_inicio"] = FormatDate(c.StartDate)
	}
	if !c.SignatureDate.IsZero() {
		v["contrato.data_assinatura"] = FormatDate(c.SignatureDate)
	}
	return v
}

// FormatDate renders a date as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatBRL renders an amount in Brazilian reais, e.g. "R$ 12.345,67".
func FormatBRL(amount float64) string {
	neg := amount < 0
	cents := int64(math.Round(math.Abs(amount) * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	s := fmt.Sprintf("R$ %s,%02d", b.String(), cents%100)
	if neg {
		return "-" + s
	}
	return s
}
