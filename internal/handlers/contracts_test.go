// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"docstudio/internal/models"
)

const sampleContract = `Contratada: Vigilância Sul Ltda, inscrita no CNPJ sob o nº 11.111.111/0001-11.

As partes celebram o presente contrato.

OBRIGAÇÕES
Fornecer acesso ao local.

FINANCEIRO
Pagamento mensal.

ASSINATURA
`

type contractEnv struct {
	docs    *memDocuments
	cache   *memCache
	archive *memArchive
	h       *Contracts
}

func newContractEnv() *contractEnv {
	env := &contractEnv{docs: &memDocuments{}, cache: &memCache{}, archive: &memArchive{}}
	env.h = NewContracts(env.docs, env.cache, env.archive, "Curitiba")
	env.h.now = func() time.Time { return time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC) }
	return env
}

func TestContractPDFFromText(t *testing.T) {
	env := newContractEnv()

	rr := call(t, env.h.PDF, http.MethodPost, "", map[string]any{"text": sampleContract, "client": "Acme Corp"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="Contrato_Acme_Corp.pdf"` {
		t.Errorf("disposition = %q", got)
	}
	if rr.Header().Get("X-Page-Count") == "" {
		t.Error("page count missing")
	}

	key := rr.Header().Get("X-Archive-Key")
	if !strings.HasPrefix(key, "contracts/2026/03/") || !strings.HasSuffix(key, "/Contrato_Acme_Corp.pdf") {
		t.Errorf("archive key = %q", key)
	}
	if _, ok := env.archive.objects[key]; !ok {
		t.Error("contract not archived")
	}
	if !strings.Contains(rr.Header().Get("X-Archive-URL"), "expires=900") {
		t.Errorf("archive url = %q", rr.Header().Get("X-Archive-URL"))
	}

	if len(env.docs.entries) != 1 {
		t.Fatalf("documents = %d, want 1", len(env.docs.entries))
	}
	entry := env.docs.entries[0]
	if entry.ClientName != "Acme Corp" || entry.Variant != "standard" || entry.ArchiveKey == nil || *entry.ArchiveKey != key {
		t.Errorf("entry = %+v", entry)
	}
	if rr.Header().Get("X-Document-ID") != entry.ID.String() {
		t.Error("document id header mismatch")
	}
}

func TestContractPDFCached(t *testing.T) {
	env := newContractEnv()
	body := map[string]any{"text": sampleContract, "client": "Acme Corp", "variant": "formal"}

	first := call(t, env.h.PDF, http.MethodPost, "", body)
	second := call(t, env.h.PDF, http.MethodPost, "", body)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status %d / %d", first.Code, second.Code)
	}
	if env.cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", env.cache.hits)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached PDF differs")
	}
	if got, want := second.Header().Get("X-Page-Count"), first.Header().Get("X-Page-Count"); want == "" || got != want {
		t.Errorf("cached X-Page-Count = %q, want %q", got, want)
	}
	if len(env.docs.entries) != 2 {
		t.Errorf("every download is logged, entries = %d", len(env.docs.entries))
	}

	body["client"] = "Beta SA"
	call(t, env.h.PDF, http.MethodPost, "", body)
	if env.cache.hits != 1 {
		t.Error("a different client must not hit the cache")
	}
}

func TestContractPDFFromData(t *testing.T) {
	env := newContractEnv()
	data := models.ContractData{
		ClientName:         "Beta SA",
		CompanyName:        "Vigilância Sul Ltda",
		ServiceDescription: "vigilância patrimonial",
		UnitValue:          1500,
		Quantity:           2,
		DurationMonths:     12,
		NoticeDays:         30,
		StartDate:          time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	rr := call(t, env.h.PDF, http.MethodPost, "", map[string]any{"data": data, "variant": "formal"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Disposition"); !strings.Contains(got, "Contrato_Beta_SA.pdf") {
		t.Errorf("disposition = %q", got)
	}
	if env.docs.entries[0].Variant != "formal" {
		t.Errorf("variant = %q", env.docs.entries[0].Variant)
	}
}

func TestContractPDFRejected(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"empty text", map[string]any{"text": " ", "client": "Acme"}},
		{"unknown variant", map[string]any{"text": sampleContract, "variant": "casual"}},
		{"not json", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newContractEnv()
			rr := call(t, env.h.PDF, http.MethodPost, "", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", rr.Code)
			}
			if len(env.docs.entries) != 0 {
				t.Error("nothing should be logged")
			}
		})
	}
}

func TestContractPDFOptionalServices(t *testing.T) {
	env := newContractEnv()
	env.archive.putErr = errors.New("bucket missing")
	env.docs.err = errBoom

	rr := call(t, env.h.PDF, http.MethodPost, "", map[string]any{"text": sampleContract})
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Header().Get("X-Archive-Key") != "" || rr.Header().Get("X-Document-ID") != "" {
		t.Error("failed archive or log must not be reported")
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), `"Contrato.pdf"`) {
		t.Errorf("disposition = %q", rr.Header().Get("Content-Disposition"))
	}

	bare := NewContracts(nil, nil, nil, "")
	if rr := call(t, bare.PDF, http.MethodPost, "", map[string]any{"text": sampleContract}); rr.Code != http.StatusOK {
		t.Errorf("without services: status %d", rr.Code)
	}
}

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := wb.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestContractImport(t *testing.T) {
	data := workbook(t, [][]any{
		{"Cliente", "Serviço", "Valor Unitário", "Quantidade", "Vigência (meses)"},
		{"Acme Corp", "portaria", "R$ 2.000,00", 3, 12},
		{"Beta SA", "limpeza", "1500", 1, 6},
	})
	const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	t.Run("review only", func(t *testing.T) {
		env := newContractEnv()
		rr := httptest.NewRecorder()
		env.h.Import(rr, multipartRequest(t, "", "lote.xlsx", xlsxType, data, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
		}
		got := decode[struct {
			Rows    int            `json:"rows"`
			Results []importResult `json:"results"`
		}](t, rr)
		if got.Rows != 2 || got.Results[0].Contract.UnitValue != 2000 || got.Results[1].Filename != "Contrato_Beta_SA.pdf" {
			t.Errorf("results = %+v", got)
		}
		if len(env.docs.entries) != 0 || len(env.archive.objects) != 0 {
			t.Error("review must not render")
		}
	})

	t.Run("render", func(t *testing.T) {
		env := newContractEnv()
		rr := httptest.NewRecorder()
		env.h.Import(rr, multipartRequest(t, "", "lote.xlsx", xlsxType, data, map[string]string{"render": "true", "variant": "formal"}))
		if rr.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
		}
		got := decode[struct {
			Results []importResult `json:"results"`
		}](t, rr)
		for _, res := range got.Results {
			if res.Error != "" || res.Pages == 0 || res.ArchiveKey == "" {
				t.Errorf("result = %+v", res)
			}
		}
		if len(env.archive.objects) != 2 || len(env.docs.entries) != 2 {
			t.Errorf("archived = %d logged = %d, want 2", len(env.archive.objects), len(env.docs.entries))
		}
	})

	t.Run("not a workbook", func(t *testing.T) {
		env := newContractEnv()
		rr := httptest.NewRecorder()
		env.h.Import(rr, multipartRequest(t, "", "lote.xlsx", xlsxType, []byte("not a zip"), nil))
		if rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("status %d, want 422", rr.Code)
		}
	})
}

func TestDocuments(t *testing.T) {
	env := newContractEnv()
	env.docs.Record(&models.GeneratedDocument{Filename: "Contrato_A.pdf"})
	env.docs.Record(&models.GeneratedDocument{Filename: "Contrato_B.pdf"})

	rr := httptest.NewRecorder()
	env.h.Documents(rr, httptest.NewRequest(http.MethodGet, "/?limit=1", nil))
	got := decode[[]models.GeneratedDocument](t, rr)
	if len(got) != 1 || got[0].Filename != "Contrato_B.pdf" {
		t.Errorf("documents = %+v", got)
	}

	rr = httptest.NewRecorder()
	env.h.Documents(rr, httptest.NewRequest(http.MethodGet, "/?limit=0", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("limit=0: status %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	NewContracts(nil, nil, nil, "").Documents(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("without a log: %s", rr.Body.String())
	}
}
