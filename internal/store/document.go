// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"docstudio/internal/models"
)

// DocumentStore records every PDF handed out.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore creates a new DocumentStore.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Record inserts a log entry and returns it with its ID and timestamp.
func (s *DocumentStore) Record(d *models.GeneratedDocument) (*models.GeneratedDocument, error) {
	out := *d
	err := s.db.QueryRow(`
		INSERT INTO generated_documents (template_id, client_name, filename, variant, size_bytes, archive_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, d.TemplateID, d.ClientName, d.Filename, d.Variant, d.SizeBytes, d.ArchiveKey).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("record document: %w", err)
	}
	return &out, nil
}

// ListRecent returns the latest entries, newest first.
func (s *DocumentStore) ListRecent(limit int) ([]models.GeneratedDocument, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, template_id, client_name, filename, variant, size_bytes, archive_key, created_at
		FROM generated_documents
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.GeneratedDocument
	for rows.Next() {
		var d models.GeneratedDocument
		if err := rows.Scan(
			&d.ID, &d.TemplateID, &d.ClientName, &d.Filename, &d.Variant,
			&d.SizeBytes, &d.ArchiveKey, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
