// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contract

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"docstudio/internal/fields"
	"docstudio/internal/models"
)

const contractText = `Contratante: {{or .ClientName "__________"}}, inscrita no CNPJ sob o nº {{or .ClientTaxID "__________"}}, com sede em {{or .ClientAddress "__________"}}{{with .ClientRepresentative}}, neste ato representada por {{.}}{{end}}{{with .ClientRepresentativeDoc}}, CPF {{.}}{{end}}.

Contratada: {{or .CompanyName "__________"}}, inscrita no CNPJ sob o nº {{or .CompanyTaxID "__________"}}, com sede em {{or .CompanyAddress "__________"}}{{with .CompanyRepresentative}}, neste ato representada por {{.}}{{end}}{{with .CompanyRepresentativeDoc}}, CPF {{.}}{{end}}.

As partes acima identificadas celebram o presente contrato de prestação de serviços, que se regerá pelas cláusulas seguintes.

Cláusula 1ª. O presente contrato tem por objeto a prestação de serviços de {{or .ServiceDescription "__________"}}{{with .Quantity}}, com {{.}} posto(s) de trabalho{{end}}{{with .Shift}}, no turno {{.}}{{end}}{{with .Hours}}, no horário das {{.}}{{end}}{{with .Regime}}, em regime {{.}}{{end}}.

Cláusula 2ª. O contrato vigorará por {{.DurationMonths}} meses{{if not .StartDate.IsZero}} a partir de {{date .StartDate}}{{end}}, podendo ser rescindido por qualquer das partes mediante aviso prévio de {{.NoticeDays}} dias.

OBRIGAÇÕES
Fornecer à CONTRATADA as informações e o acesso necessários à execução dos serviços.

Efetuar os pagamentos nas datas e condições ajustadas neste instrumento.

Comunicar por escrito qualquer irregularidade observada na prestação dos serviços.

FINANCEIRO
Pelos serviços prestados a CONTRATANTE pagará o valor unitário de {{brl .UnitValue}}, totalizando {{brl .TotalMonthly}} por mês, com vencimento no quinto dia útil do mês subsequente ao da prestação.

Os valores serão reajustados anualmente pela variação do índice oficial de inflação acumulado no período.

ASSINATURA
`

var contractTmpl = template.Must(template.New("contrato").Funcs(template.FuncMap{
	"brl":  fields.FormatBRL,
	"date": fields.FormatDate,
}).Parse(contractText))

// Compose writes the contract text for data. The result carries the
// "Contratada:" label and the section headers Outline recognises.
func Compose(data models.ContractData) (string, error) {
	var buf bytes.Buffer
	if err := contractTmpl.Execute(&buf, composeView{data}); err != nil {
		return "", fmt.Errorf("contract: compose: %w", err)
	}
	return buf.String(), nil
}

// composeView exposes TotalMonthly to the template.
type composeView struct {
	models.ContractData
}

func (v composeView) TotalMonthly() float64 { return v.ContractData.TotalMonthly() }

// GenerateFromData composes and renders a contract. The signature date
// and city come from data when present.
func GenerateFromData(data models.ContractData, opts Options) (File, error) {
	text, err := Compose(data)
	if err != nil {
		return File{}, err
	}
	if !data.SignatureDate.IsZero() {
		date := data.SignatureDate
		opts.Now = func() time.Time { return date }
	}
	if strings.TrimSpace(data.City) != "" {
		opts.City = data.City
	}
	return Generate(text, data.ClientName, opts)
}
