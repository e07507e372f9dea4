// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"docstudio/internal/cache"
	"docstudio/internal/contract"
	"docstudio/internal/models"
	"docstudio/internal/pdf"
	"docstudio/internal/storage"
)

const (
	// maxWorkbookSize bounds an uploaded XLSX batch (10 MB).
	maxWorkbookSize = 10 << 20

	// maxBatchRows caps how many rows one import may render.
	maxBatchRows = 500

	// archiveLinkExpiry is how long a presigned archive link is valid.
	archiveLinkExpiry = 15 * time.Minute
)

// Contracts groups the contract PDF handlers. documents, pdfCache and
// archive may be nil.
type Contracts struct {
	documents DocumentLog
	pdfCache  PDFCache
	archive   Archive
	city      string
	now       func() time.Time
}

// NewContracts creates the contract handler group. city is the default
// city printed on the date line.
func NewContracts(documents DocumentLog, pdfCache PDFCache, archive Archive, city string) *Contracts {
	return &Contracts{
		documents: documents,
		pdfCache:  pdfCache,
		archive:   archive,
		city:      city,
		now:       time.Now,
	}
}

// contractRequest renders either free contract text or structured data.
type contractRequest struct {
	Text    string               `json:"text"`
	Client  string               `json:"client"`
	Data    *models.ContractData `json:"data"`
	Variant string               `json:"variant"`
	City    string               `json:"city"`
}

// rendered is a generated contract with its archive location, if any.
type rendered struct {
	contract.File
	DocumentID string
	ArchiveKey string
	ArchiveURL string
}

// PDF renders a contract and returns it as a download. The archive key and
// a temporary link are returned in X-Archive-Key and X-Archive-URL when
// archiving is configured.
func (h *Contracts) PDF(w http.ResponseWriter, r *http.Request) {
	var req contractRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	variant, err := contract.VariantByName(req.Variant)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Data == nil {
		if msg := validateContract(req.Text, req.Client); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
	}

	out, err := h.render(r.Context(), req, variant)
	if err != nil {
		slog.Error("render contract failed", "client", req.Client, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render contract.")
		return
	}

	if out.Pages > 0 {
		w.Header().Set("X-Page-Count", strconv.Itoa(out.Pages))
	}
	if out.DocumentID != "" {
		w.Header().Set("X-Document-ID", out.DocumentID)
	}
	if out.ArchiveKey != "" {
		w.Header().Set("X-Archive-Key", out.ArchiveKey)
	}
	if out.ArchiveURL != "" {
		w.Header().Set("X-Archive-URL", out.ArchiveURL)
	}
	writePDF(w, out.Name, out.Data)
}

// render generates (or fetches from cache) one contract, archives it and
// logs it.
func (h *Contracts) render(ctx context.Context, req contractRequest, variant contract.Variant) (rendered, error) {
	now := h.now()
	opts := contract.Options{Variant: variant, City: h.city, Now: func() time.Time { return now }}
	if req.City != "" {
		opts.City = req.City
	}

	client := req.Client
	var source string
	if req.Data != nil {
		client = req.Data.ClientName
		raw, err := json.Marshal(req.Data)
		if err != nil {
			return rendered{}, err
		}
		source = string(raw)
	} else {
		source = req.Text
	}

	key := cache.Key("contract", variant.Name, opts.City, now.Format(time.DateOnly), client, source)
	var out rendered
	if h.pdfCache != nil {
		if data, ok := h.pdfCache.Get(ctx, key); ok {
			out.File = contract.File{Name: contract.Filename(client), Data: data, Pages: pdf.CountPages(data)}
		}
	}

	if out.Data == nil {
		var (
			f   contract.File
			err error
		)
		if req.Data != nil {
			f, err = contract.GenerateFromData(*req.Data, opts)
		} else {
			f, err = contract.Generate(req.Text, client, opts)
		}
		if err != nil {
			return rendered{}, err
		}
		out.File = f
		if h.pdfCache != nil {
			h.pdfCache.Set(ctx, key, f.Data)
		}
		slog.Info("contract rendered", "file", f.Name, "pages", f.Pages, "variant", variant.Name)
	}

	if h.archive != nil {
		objectKey := storage.ContractKey(now, uuid.New(), out.Name)
		if err := h.archive.Put(ctx, objectKey, out.Data); err != nil {
			slog.Warn("archive contract failed", "key", objectKey, "error", err)
		} else {
			out.ArchiveKey = objectKey
			if link, err := h.archive.PresignedURL(ctx, objectKey, archiveLinkExpiry); err != nil {
				slog.Warn("presign contract failed", "key", objectKey, "error", err)
			} else {
				out.ArchiveURL = link
			}
		}
	}

	if h.documents != nil {
		entry := &models.GeneratedDocument{
			ClientName: client,
			Filename:   out.Name,
			Variant:    variant.Name,
			SizeBytes:  len(out.Data),
		}
		if out.ArchiveKey != "" {
			k := out.ArchiveKey
			entry.ArchiveKey = &k
		}
		if doc, err := h.documents.Record(entry); err != nil {
			slog.Warn("record document failed", "file", out.Name, "error", err)
		} else {
			out.DocumentID = doc.ID.String()
		}
	}
	return out, nil
}

// importResult is one contract of an XLSX batch, in sheet order.
type importResult struct {
	Index      int                 `json:"index"`
	Contract   models.ContractData `json:"contract"`
	Filename   string              `json:"filename"`
	Pages      int                 `json:"pages,omitempty"`
	ArchiveKey string              `json:"archive_key,omitempty"`
	ArchiveURL string              `json:"archive_url,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// Import reads an XLSX workbook of contract rows. With render=true every
// row is rendered, archived and logged; otherwise the parsed rows are
// returned for review.
func (h *Contracts) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWorkbookSize+1<<20)
	if err := r.ParseMultipartForm(maxWorkbookSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Upload too large or not multipart (max 10 MB).")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	rows, err := contract.ImportXLSX(file)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if len(rows) > maxBatchRows {
		writeError(w, http.StatusRequestEntityTooLarge, "Too many rows (max 500).")
		return
	}

	renderRows, _ := strconv.ParseBool(r.FormValue("render"))
	variant, err := contract.VariantByName(r.FormValue("variant"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := make([]importResult, len(rows))
	for i, data := range rows {
		res := importResult{Index: i, Contract: data, Filename: contract.Filename(data.ClientName)}
		if renderRows {
			d := data
			out, err := h.render(r.Context(), contractRequest{Data: &d}, variant)
			if err != nil {
				slog.Warn("batch contract failed", "index", i, "error", err)
				res.Error = err.Error()
			} else {
				res.Pages = out.Pages
				res.ArchiveKey = out.ArchiveKey
				res.ArchiveURL = out.ArchiveURL
			}
		}
		results[i] = res
	}

	slog.Info("contract batch imported", "rows", len(rows), "rendered", renderRows)
	writeJSON(w, http.StatusOK, map[string]any{"rows": len(rows), "results": results})
}

// Documents lists recently generated PDFs.
func (h *Contracts) Documents(w http.ResponseWriter, r *http.Request) {
	if h.documents == nil {
		writeJSON(w, http.StatusOK, []models.GeneratedDocument{})
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500.")
			return
		}
		limit = n
	}
	docs, err := h.documents.ListRecent(limit)
	if err != nil {
		slog.Error("list documents failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents.")
		return
	}
	if docs == nil {
		docs = []models.GeneratedDocument{}
	}
	writeJSON(w, http.StatusOK, docs)
}
