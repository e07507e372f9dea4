package contract

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"docstudio/internal/models"
)

// columns maps normalised spreadsheet headers to ContractData setters.
var columns = map[string]func(*models.ContractData, string) error{
	"cliente":               func(d *models.ContractData, v string) error { d.ClientName = v; return nil },
	"cliente_cnpj":          func(d *models.ContractData, v string) error { d.ClientTaxID = v; return nil },
	"cliente_endereco":      func(d *models.ContractData, v string) error { d.ClientAddress = v; return nil },
	"cliente_representante": func(d *models.ContractData, v string) error { d.ClientRepresentative = v; return nil },
	"cliente_cpf":           func(d *models.ContractData, v string) error { d.ClientRepresentativeDoc = v; return nil },
	"empresa":               func(d *models.ContractData, v string) error { d.CompanyName = v; return nil },
	"empresa_cnpj":          func(d *models.ContractData, v string) error { d.CompanyTaxID = v; return nil },
	"empresa_endereco":      func(d *models.ContractData, v string) error { d.CompanyAddress = v; return nil },
	"empresa_representante": func(d *models.ContractData, v string) error { d.CompanyRepresentative = v; return nil },
	"empresa_cpf":           func(d *models.ContractData, v string) error { d.CompanyRepresentativeDoc = v; return nil },
	"servico":               func(d *models.ContractData, v string) error { d.ServiceDescription = v; return nil },
	"turno":                 func(d *models.ContractData, v string) error { d.Shift = v; return nil },
	"horario":               func(d *models.ContractData, v string) error { d.Hours = v; return nil },
	"regime":                func(d *models.ContractData, v string) error { d.Regime = v; return nil },
	"cidade":                func(d *models.ContractData, v string) error { d.City = v; return nil },
	"valor_unitario":        func(d *models.ContractData, v string) (err error) { d.UnitValue, err = parseAmount(v); return },
	"valor_mensal":          func(d *models.ContractData, v string) (err error) { d.MonthlyValue, err = parseAmount(v); return },
	"quantidade":            func(d *models.ContractData, v string) (err error) { d.Quantity, err = strconv.Atoi(v); return },
	"vigencia_meses":        func(d *models.ContractData, v string) (err error) { d.DurationMonths, err = strconv.Atoi(v); return },
	"aviso_previo_dias":     func(d *models.ContractData, v string) (err error) { d.NoticeDays, err = strconv.Atoi(v); return },
	"data_inicio":           func(d *models.ContractData, v string) (err error) { d.StartDate, err = parseDate(v); return },
	"data_assinatura":       func(d *models.ContractData, v string) (err error) { d.SignatureDate, err = parseDate(v); return },
}

// ImportXLSX reads one ContractData per row from the first sheet of a
// workbook. The first row holds the headers; unknown columns are ignored
// and empty rows skipped.
func ImportXLSX(r io.Reader) ([]models.ContractData, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("contract: open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("contract: no worksheet found")
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("contract: read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("contract: worksheet is empty")
	}

	setters := make([]func(*models.ContractData, string) error, len(rows[0]))
	names := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		names[i] = normalizeHeader(h)
		setters[i] = columns[names[i]]
	}

	var out []models.ContractData
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		var d models.ContractData
		for i, set := range setters {
			v := cellValue(row, i)
			if set == nil || v == "" {
				continue
			}
			if err := set(&d, v); err != nil {
				return nil, fmt.Errorf("contract: row %d column %s: %w", n+2, names[i], err)
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// normalizeHeader lower-cases a header and folds accents and spaces so that
// "Valor Unitário" matches valor_unitario.
func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a",
		"é", "e", "ê", "e", "í", "i",
		"ó", "o", "ô", "o", "õ", "o", "ú", "u", "ç", "c",
		" ", "_", "-", "_", "(", "", ")", "",
	).Replace(h)
	return h
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseAmount accepts "1234.5", "1.234,50" and "R$ 1.234,50".
func parseAmount(v string) (float64, error) {
	v = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "R$"))
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.ReplaceAll(v, ",", ".")
	}
	return strconv.ParseFloat(v, 64)
}

// parseDate accepts dd/mm/yyyy, yyyy-mm-dd and Excel serial dates.
func parseDate(v string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	for _, layout := range []string{"02/01/2006", "2006-01-02", "2/1/2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", v)
}
