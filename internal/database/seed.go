// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a small
// category tree with a couple of tags and posts. It is a no-op if any
// category already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var techID, goID, newsID string
	if err := tx.QueryRow(`
		INSERT INTO categories (name, slug, description, sort_order)
		VALUES ('Technology', 'technology', 'Technical articles', 0)
		RETURNING id`).Scan(&techID); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	if err := tx.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id, sort_order)
		VALUES ('Go', 'go', 'Go language posts', $1, 0)
		RETURNING id`, techID).Scan(&goID); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	if err := tx.QueryRow(`
		INSERT INTO categories (name, slug, description, sort_order)
		VALUES ('News', 'news', 'Site announcements', 1)
		RETURNING id`).Scan(&newsID); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	var tutorialTagID string
	if err := tx.QueryRow(`
		INSERT INTO tags (name, slug, description)
		VALUES ('tutorial', 'tutorial', 'Step-by-step guides')
		RETURNING id`).Scan(&tutorialTagID); err != nil {
		return fmt.Errorf("seed tag: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO tags (name, slug) VALUES ('release-notes', 'release-notes')`); err != nil {
		return fmt.Errorf("seed tag: %w", err)
	}

	var postID string
	if err := tx.QueryRow(`
		INSERT INTO posts (title, content, slug, status, author_id, published_at)
		VALUES ('Welcome to Inkpress', 'This is your first post. Edit or delete it to get started.',
		        'welcome-to-inkpress', 'published', gen_random_uuid(), NOW())
		RETURNING id`).Scan(&postID); err != nil {
		return fmt.Errorf("seed post: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`,
		postID, newsID); err != nil {
		return fmt.Errorf("seed post category: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`,
		postID, tutorialTagID); err != nil {
		return fmt.Errorf("seed post tag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with starter categories, tags, and post")
	return nil
}
