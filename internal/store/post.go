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

// PostStore handles all post-related database operations. All reads
// exclude soft-deleted rows; deletion only ever flips is_deleted.
type PostStore struct {
	db DBTX
}

// NewPostStore creates a new PostStore with the given database handle.
func NewPostStore(db DBTX) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, content, excerpt, slug, status, author_id,
	published_at, version, is_deleted, deleted_at, created_at, updated_at`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.Slug, &p.Status,
		&p.AuthorID, &p.PublishedAt, &p.Version, &p.IsDeleted,
		&p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID retrieves a non-deleted post by ID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE id = $1 AND NOT is_deleted`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a non-deleted post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE slug = $1 AND NOT is_deleted`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// List returns one page of non-deleted posts matching the filter,
// newest first, along with the total match count for pagination.
func (s *PostStore) List(ctx context.Context, filter *models.PostFilter, limit, offset int) ([]models.Post, int, error) {
	where, args := compileFilter(filter, 1)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts p `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+postColumns+`
		FROM posts p
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// Create inserts a new post at version 1. published_at is set in the
// same statement exactly when the status is published; a slug hit on
// the partial unique index surfaces as the domain conflict error.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, content, excerpt, slug, status, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6,
		        CASE WHEN $5 = 'published' THEN NOW() ELSE NULL END)
		RETURNING `+postColumns,
		p.Title, p.Content, p.Excerpt, p.Slug, p.Status, p.AuthorID,
	)
	result, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", conflictErr(err, "post slug"))
	}
	return result, nil
}

// Update modifies a post, bumping its version. published_at is
// recomputed from the status transition in the same statement: set
// when entering published (preserved if already set), cleared when
// leaving it. Returns the updated row, or nil if the post is gone.
func (s *PostStore) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			title = $1, content = $2, excerpt = $3, slug = $4, status = $5,
			published_at = CASE
				WHEN $5 = 'published' THEN COALESCE(published_at, NOW())
				ELSE NULL
			END,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $6 AND NOT is_deleted
		RETURNING `+postColumns,
		p.Title, p.Content, p.Excerpt, p.Slug, p.Status, p.ID,
	)
	result, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", conflictErr(err, "post slug"))
	}
	return result, nil
}

// SoftDelete marks a post deleted. The row stays for historical
// references; every default read filters it out.
func (s *PostStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("soft delete post %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// SlugExists reports whether a non-deleted post other than exclude
// already uses slug. Fast-path check for the uniqueness resolver; the
// partial unique index is the backstop.
func (s *PostStore) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND NOT is_deleted AND id <> $2)`,
		slug, exclude,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("post slug exists: %w", err)
	}
	return exists, nil
}

// ReplaceCategories rewrites the post's category set.
func (s *PostStore) ReplaceCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}
	for _, cid := range categoryIDs {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`,
			postID, cid); err != nil {
			return fmt.Errorf("attach category %s: %w", cid, err)
		}
	}
	return nil
}

// ReplaceTags rewrites the post's tag set.
func (s *PostStore) ReplaceTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	for _, tid := range tagIDs {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`,
			postID, tid); err != nil {
			return fmt.Errorf("attach tag %s: %w", tid, err)
		}
	}
	return nil
}

// CategoriesByPostIDs is the batch-read primitive behind the
// post→categories loader. Posts with no categories are absent from the
// result map.
func (s *PostStore) CategoriesByPostIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	result := make(map[uuid.UUID][]models.Category, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT pc.post_id, c.id, c.name, c.slug, c.description, c.parent_id,
		       c.sort_order, c.is_active, c.color, c.icon, c.created_at, c.updated_at
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id IN (` + placeholders(1, len(ids)) + `)
		ORDER BY c.sort_order, c.name`
	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("categories by post ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var c models.Category
		err := rows.Scan(
			&postID, &c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
			&c.SortOrder, &c.IsActive, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan post category: %w", err)
		}
		result[postID] = append(result[postID], c)
	}
	return result, rows.Err()
}

// TagsByPostIDs is the batch-read primitive behind the post→tags loader.
func (s *PostStore) TagsByPostIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Tag, error) {
	result := make(map[uuid.UUID][]models.Tag, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT pt.post_id, t.id, t.name, t.slug, t.description, t.color, t.created_at, t.updated_at
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id IN (` + placeholders(1, len(ids)) + `)
		ORDER BY t.name`
	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("tags by post ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var t models.Tag
		err := rows.Scan(
			&postID, &t.ID, &t.Name, &t.Slug, &t.Description, &t.Color,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan post tag: %w", err)
		}
		result[postID] = append(result[postID], t)
	}
	return result, rows.Err()
}
