// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"docstudio/internal/models"
)

const templateColumns = `id, name, orientation, total_pages, editor, elements, content, version, created_at, updated_at`

// TemplateStore handles all template-related database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	t := &models.Template{}
	var elements []byte
	if err := row.Scan(
		&t.ID, &t.Name, &t.Orientation, &t.TotalPages, &t.Editor,
		&elements, &t.Content, &t.Version, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(elements) > 0 {
		if err := json.Unmarshal(elements, &t.Elements); err != nil {
			return nil, fmt.Errorf("decode elements: %w", err)
		}
	}
	return t, nil
}

func encodeElements(els []models.TemplateElement) ([]byte, error) {
	if els == nil {
		els = []models.TemplateElement{}
	}
	data, err := json.Marshal(els)
	if err != nil {
		return nil, fmt.Errorf("encode elements: %w", err)
	}
	return data, nil
}

// List returns all templates, most recently updated first. Elements and
// content are included.
func (s *TemplateStore) List() ([]models.Template, error) {
	rows, err := s.db.Query(`SELECT ` + templateColumns + ` FROM templates ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(id uuid.UUID) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// Create inserts a new template at version 1. Orientation, editor and
// page count are normalised first.
func (s *TemplateStore) Create(t *models.Template) (*models.Template, error) {
	in := *t
	in.Normalize()
	elements, err := encodeElements(in.Elements)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	created, err := scanTemplate(s.db.QueryRow(`
		INSERT INTO templates (name, orientation, total_pages, editor, elements, content, version)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		RETURNING `+templateColumns,
		in.Name, in.Orientation, in.TotalPages, in.Editor, elements, in.Content,
	))
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return created, nil
}

// Update saves a template and increments its version. The editor kind is
// fixed at creation. Returns nil if the template does not exist.
func (s *TemplateStore) Update(t *models.Template) (*models.Template, error) {
	in := *t
	in.Normalize()
	elements, err := encodeElements(in.Elements)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	updated, err := scanTemplate(s.db.QueryRow(`
		UPDATE templates SET
			name = $1, orientation = $2, total_pages = $3, elements = $4, content = $5,
			version = version + 1, updated_at = NOW()
		WHERE id = $6
		RETURNING `+templateColumns,
		in.Name, in.Orientation, in.TotalPages, elements, in.Content, in.ID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return updated, nil
}

// Delete removes a template by ID. It reports whether a row was removed.
func (s *TemplateStore) Delete(id uuid.UUID) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Count returns the total number of templates.
func (s *TemplateStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return count, nil
}
