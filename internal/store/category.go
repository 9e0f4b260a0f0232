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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db DBTX
}

// NewCategoryStore returns a new CategoryStore running on db, which
// may be the pool or an open transaction.
func NewCategoryStore(db DBTX) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, sort_order, is_active, color, icon, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
		&c.SortOrder, &c.IsActive, &c.Color, &c.Icon,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// List returns categories ordered by sort_order with post counts.
// Inactive categories are excluded unless includeInactive is set.
func (s *CategoryStore) List(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.sort_order,
		       c.is_active, c.color, c.icon, c.created_at, c.updated_at,
		       COUNT(p.id) FILTER (WHERE p.status = 'published' AND NOT p.is_deleted) AS post_count
		FROM categories c
		LEFT JOIN post_categories pc ON pc.category_id = c.id
		LEFT JOIN posts p ON p.id = pc.post_id
	`
	if !includeInactive {
		query += ` WHERE c.is_active`
	}
	query += `
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
			&c.SortOrder, &c.IsActive, &c.Color, &c.Icon,
			&c.CreatedAt, &c.UpdatedAt, &c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested forest with Level set.
func (s *CategoryStore) Tree(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	flat, err := s.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// buildTree recursively builds a forest from a flat list.
func buildTree(flat []models.Category, parentID *uuid.UUID, level int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Level = level
			c.Children = buildTree(flat, &c.ID, level+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// Create inserts a new category and returns it. A name or slug hit on
// the unique indexes comes back as the domain conflict error.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, parent_id, sort_order, is_active, color, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.IsActive, c.Color, c.Icon,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", conflictErr(err, "category name or slug"))
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			sort_order = $5, is_active = $6, color = $7, icon = $8,
			updated_at = NOW()
		WHERE id = $9
	`, c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.IsActive, c.Color, c.Icon, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", conflictErr(err, "category name or slug"))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update category %s: %w", c.ID, models.ErrNotFound)
	}
	return nil
}

// Delete removes a category row. Callers run the deletion guard first,
// inside the same transaction.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete category %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// NextSortOrder returns the next sort_order value among the siblings
// under parentID.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// SlugExists reports whether another category already uses slug.
func (s *CategoryStore) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`,
		slug, exclude,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category slug exists: %w", err)
	}
	return exists, nil
}

// NameExists reports whether another active category already uses name.
func (s *CategoryStore) NameExists(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name) = lower($1) AND is_active AND id <> $2)`,
		name, exclude,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category name exists: %w", err)
	}
	return exists, nil
}

// CountChildren counts the categories whose parent is id.
func (s *CategoryStore) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count children: %w", err)
	}
	return n, nil
}

// CountPosts counts non-deleted posts referencing the category.
func (s *CategoryStore) CountPosts(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM post_categories pc
		JOIN posts p ON p.id = pc.post_id
		WHERE pc.category_id = $1 AND NOT p.is_deleted
	`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// ActiveIDs returns which of the given category IDs exist and are
// active. Used to validate a post's category set before writing it.
func (s *CategoryStore) ActiveIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT id FROM categories WHERE is_active AND id IN (` + placeholders(1, len(ids)) + `)`
	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("active category ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		result[id] = true
	}
	return result, rows.Err()
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id"`
	Order    int        `json:"order"`
}

// Reorder updates sort_order and parent_id for multiple categories.
// Callers validate each parent assignment and provide a transaction.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem) error {
	for _, item := range items {
		_, err := s.db.ExecContext(ctx, `
			UPDATE categories SET parent_id = $1, sort_order = $2, updated_at = NOW()
			WHERE id = $3`,
			item.ParentID, item.Order, item.ID,
		)
		if err != nil {
			return fmt.Errorf("reorder category %s: %w", item.ID, err)
		}
	}
	return nil
}

// CategoriesByIDs is the batch-read primitive behind the category
// loader. Missing IDs are absent from the result map.
func (s *CategoryStore) CategoriesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Category, error) {
	result := make(map[uuid.UUID]*models.Category, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id IN (` + placeholders(1, len(ids)) + `)`
	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("categories by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result[c.ID] = c
	}
	return result, rows.Err()
}

// ChildrenByParentIDs returns the active children of each given parent,
// ordered by sort_order within each parent.
func (s *CategoryStore) ChildrenByParentIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	result := make(map[uuid.UUID][]models.Category, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + categoryColumns + ` FROM categories
		WHERE is_active AND parent_id IN (` + placeholders(1, len(ids)) + `)
		ORDER BY sort_order, name`
	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("children by parent ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result[*c.ParentID] = append(result[*c.ParentID], *c)
	}
	return result, rows.Err()
}

// PostCountsByCategoryIDs counts active published posts per category.
// Categories with no posts are absent from the map; the loader turns
// that into a zero for the caller.
func (s *CategoryStore) PostCountsByCategoryIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	result := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT pc.category_id, COUNT(*)
		FROM post_categories pc
		JOIN posts p ON p.id = pc.post_id
		WHERE p.status = 'published' AND NOT p.is_deleted
		  AND pc.category_id IN (` + placeholders(1, len(ids)) + `)
		GROUP BY pc.category_id`
	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("post counts by category ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan post count: %w", err)
		}
		result[id] = n
	}
	return result, rows.Err()
}
