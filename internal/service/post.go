// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// PostInput is the full writable representation of a post. Slug is
// derived from Title when empty and auto-suffixed on collision —
// posts are the one entity whose slug conflicts resolve silently.
type PostInput struct {
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Excerpt     *string           `json:"excerpt"`
	Slug        string            `json:"slug"`
	Status      models.PostStatus `json:"status"`
	AuthorID    uuid.UUID         `json:"author_id"`
	CategoryIDs []uuid.UUID       `json:"category_ids"`
	TagIDs      []uuid.UUID       `json:"tag_ids"`
}

// CreatePost derives and de-conflicts the slug, checks that every
// referenced category is active and every tag exists, then writes the
// post and its relation rows in one transaction.
func (s *Service) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	if in.Status == "" {
		in.Status = models.PostStatusDraft
	}
	if !models.ValidStatus(in.Status) {
		return nil, fmt.Errorf("post status %q: %w", in.Status, models.ErrValidation)
	}

	var created *models.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		posts := store.NewPostStore(tx)

		resolved, err := s.resolvePostSlug(ctx, posts, in, uuid.Nil)
		if err != nil {
			return err
		}

		if err := s.checkPostRelations(ctx, tx, in); err != nil {
			return err
		}

		created, err = posts.Create(ctx, &models.Post{
			Title:    in.Title,
			Content:  in.Content,
			Excerpt:  in.Excerpt,
			Slug:     resolved,
			Status:   in.Status,
			AuthorID: in.AuthorID,
		})
		if err != nil {
			return err
		}

		if err := posts.ReplaceCategories(ctx, created.ID, in.CategoryIDs); err != nil {
			return err
		}
		return posts.ReplaceTags(ctx, created.ID, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePost rewrites a post's fields and relation sets, bumping its
// version. When the title changes and no explicit slug is given, the
// slug is re-derived and de-conflicted with the post itself excluded,
// so an unchanged title keeps its slug.
func (s *Service) UpdatePost(ctx context.Context, id uuid.UUID, in PostInput) (*models.Post, error) {
	if in.Status == "" {
		in.Status = models.PostStatusDraft
	}
	if !models.ValidStatus(in.Status) {
		return nil, fmt.Errorf("post status %q: %w", in.Status, models.ErrValidation)
	}

	var updated *models.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		posts := store.NewPostStore(tx)

		existing, err := posts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("post %s: %w", id, models.ErrNotFound)
		}

		resolved := existing.Slug
		if in.Slug != "" || in.Title != existing.Title {
			resolved, err = s.resolvePostSlug(ctx, posts, in, id)
			if err != nil {
				return err
			}
		}

		if err := s.checkPostRelations(ctx, tx, in); err != nil {
			return err
		}

		updated, err = posts.Update(ctx, &models.Post{
			ID:      id,
			Title:   in.Title,
			Content: in.Content,
			Excerpt: in.Excerpt,
			Slug:    resolved,
			Status:  in.Status,
		})
		if err != nil {
			return err
		}
		if updated == nil {
			return fmt.Errorf("post %s: %w", id, models.ErrNotFound)
		}

		if err := posts.ReplaceCategories(ctx, id, in.CategoryIDs); err != nil {
			return err
		}
		return posts.ReplaceTags(ctx, id, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePost soft-deletes a post. The row survives for historical
// references; its slug is immediately reusable.
func (s *Service) DeletePost(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return store.NewPostStore(tx).SoftDelete(ctx, id)
	})
}

// resolvePostSlug derives the candidate from the explicit slug or the
// title and probes for the first free variant.
func (s *Service) resolvePostSlug(ctx context.Context, posts *store.PostStore, in PostInput, exclude uuid.UUID) (string, error) {
	source := in.Slug
	if source == "" {
		source = in.Title
	}
	candidate, err := slug.Generate(source)
	if err != nil {
		return "", fmt.Errorf("post slug: %w", err)
	}
	return slug.Unique(ctx, candidate, posts.SlugExists, exclude)
}

// checkPostRelations verifies every referenced category is active and
// every referenced tag exists, naming the first missing ID.
func (s *Service) checkPostRelations(ctx context.Context, tx *sql.Tx, in PostInput) error {
	active, err := store.NewCategoryStore(tx).ActiveIDs(ctx, in.CategoryIDs)
	if err != nil {
		return err
	}
	for _, cid := range in.CategoryIDs {
		if !active[cid] {
			return fmt.Errorf("category %s is missing or inactive: %w", cid, models.ErrNotFound)
		}
	}

	existing, err := store.NewTagStore(tx).ExistingIDs(ctx, in.TagIDs)
	if err != nil {
		return err
	}
	for _, tid := range in.TagIDs {
		if !existing[tid] {
			return fmt.Errorf("tag %s: %w", tid, models.ErrNotFound)
		}
	}
	return nil
}
