package models

import (
	"time"

	"github.com/google/uuid"
)

// ContractData (contrato) is the flat record a service contract is composed
// from. It is produced per render call and never stored.
type ContractData struct {
	// Contratante (the client).
	ClientName              string `json:"client_name"`
	ClientTaxID             string `json:"client_tax_id"`
	ClientAddress           string `json:"client_address"`
	ClientRepresentative    string `json:"client_representative"`
	ClientRepresentativeDoc string `json:"client_representative_doc"`

	// Contratada (the provider).
	CompanyName              string `json:"company_name"`
	CompanyTaxID             string `json:"company_tax_id"`
	CompanyAddress           string `json:"company_address"`
	CompanyRepresentative    string `json:"company_representative"`
	CompanyRepresentativeDoc string `json:"company_representative_doc"`

	// Service terms.
	ServiceDescription string  `json:"service_description"`
	Shift              string  `json:"shift"`
	Hours              string  `json:"hours"`
	Regime             string  `json:"regime"`
	UnitValue          float64 `json:"unit_value"`
	MonthlyValue       float64 `json:"monthly_value"`
	Quantity           int     `json:"quantity"`

	// Contract terms.
	StartDate      time.Time `json:"start_date"`
	DurationMonths int       `json:"duration_months"`
	NoticeDays     int       `json:"notice_days"`
	SignatureDate  time.Time `json:"signature_date"`
	City           string    `json:"city,omitempty"`
}

// TotalMonthly returns the monthly value, deriving it from unit value and
// quantity when it was not supplied.
func (c *ContractData) TotalMonthly() float64 {
	if c.MonthlyValue > 0 {
		return c.MonthlyValue
	}
	return c.UnitValue * float64(c.Quantity)
}

// GeneratedDocument is the log entry written for every rendered PDF.
type GeneratedDocument struct {
	ID         uuid.UUID  `json:"id"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	ClientName string     `json:"client_name"`
	Filename   string     `json:"filename"`
	Variant    string     `json:"variant"`
	SizeBytes  int        `json:"size_bytes"`
	ArchiveKey *string    `json:"archive_key,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
