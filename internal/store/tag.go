// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// TagStore manages tags in the database.
type TagStore struct {
	db DBTX
}

// NewTagStore returns a new TagStore.
func NewTagStore(db DBTX) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name, slug, description, color, created_at, updated_at`

func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.Color,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all tags ordered by name.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a tag by ID. Returns nil if not found.
func (s *TagStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// Create inserts a new tag. The name is stored normalized; a name or
// slug collision comes back as the domain conflict error, never
// auto-suffixed.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (name, slug, description, color)
		VALUES ($1, $2, $3, $4)
		RETURNING `+tagColumns,
		models.NormalizeTagName(t.Name), t.Slug, t.Description, t.Color,
	)
	result, err := scanTag(row)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", conflictErr(err, "tag name or slug"))
	}
	return result, nil
}

// Update modifies an existing tag.
func (s *TagStore) Update(ctx context.Context, t *models.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = $1, slug = $2, description = $3, color = $4, updated_at = NOW()
		WHERE id = $5
	`, models.NormalizeTagName(t.Name), t.Slug, t.Description, t.Color, t.ID)
	if err != nil {
		return fmt.Errorf("update tag: %w", conflictErr(err, "tag name or slug"))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update tag %s: %w", t.ID, models.ErrNotFound)
	}
	return nil
}

// Delete removes a tag. Join rows go with it (ON DELETE CASCADE);
// tag deletion is deliberately unguarded.
func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete tag %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// ExistingIDs returns which of the given tag IDs exist. Used to
// validate a post's tag set before writing it.
func (s *TagStore) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT id FROM tags WHERE id IN (` + placeholders(1, len(ids)) + `)`
	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("existing tag ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tag id: %w", err)
		}
		result[id] = true
	}
	return result, rows.Err()
}
