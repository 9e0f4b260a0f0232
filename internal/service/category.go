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
	"inkpress/internal/taxonomy"
)

// CategoryInput is the full writable representation of a category.
// Slug is derived from Name when empty; SortOrder defaults to the next
// slot among the new siblings; IsActive defaults to true.
type CategoryInput struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   *int       `json:"sort_order"`
	IsActive    *bool      `json:"is_active"`
	Color       string     `json:"color"`
	Icon        string     `json:"icon"`
}

// CreateCategory validates the parent assignment and inserts the
// category. Name and slug collisions fail hard with a conflict error;
// categories never get an auto-suffixed slug.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c, err := s.buildCategory(ctx, uuid.Nil, in)
	if err != nil {
		return nil, err
	}

	var created *models.Category
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		cats := store.NewCategoryStore(tx)

		if err := s.checkCategoryCollisions(ctx, cats, c, uuid.Nil); err != nil {
			return err
		}
		if err := taxonomy.ValidateParent(ctx, uuid.Nil, c.ParentID, cats.FindByID); err != nil {
			return err
		}

		if in.SortOrder == nil {
			next, err := cats.NextSortOrder(ctx, c.ParentID)
			if err != nil {
				return err
			}
			c.SortOrder = next
		}

		created, err = cats.Create(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateCategory replaces a category's writable fields. The hierarchy
// validator runs against the proposed parent whenever one is set, so a
// reparenting that would create a cycle is rejected before any write.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	c, err := s.buildCategory(ctx, id, in)
	if err != nil {
		return nil, err
	}
	c.ID = id

	var updated *models.Category
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		cats := store.NewCategoryStore(tx)

		existing, err := cats.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("category %s: %w", id, models.ErrNotFound)
		}

		if err := s.checkCategoryCollisions(ctx, cats, c, id); err != nil {
			return err
		}
		if err := taxonomy.ValidateParent(ctx, id, c.ParentID, cats.FindByID); err != nil {
			return err
		}

		if in.SortOrder == nil {
			c.SortOrder = existing.SortOrder
		}

		if err := cats.Update(ctx, c); err != nil {
			return err
		}
		updated, err = cats.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCategory removes a category after the deletion guard clears
// it. Guard counts and the delete share one transaction, which narrows
// the window against a concurrent create under the same parent.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		cats := store.NewCategoryStore(tx)

		if err := taxonomy.GuardDeletion(ctx, id, cats.CountPosts, cats.CountChildren); err != nil {
			return err
		}
		return cats.Delete(ctx, id)
	})
}

// ReorderCategories applies a batch of parent/sort changes. Every
// parent assignment is validated before any row is touched.
func (s *Service) ReorderCategories(ctx context.Context, items []store.ReorderItem) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		cats := store.NewCategoryStore(tx)

		for _, item := range items {
			if err := taxonomy.ValidateParent(ctx, item.ID, item.ParentID, cats.FindByID); err != nil {
				return fmt.Errorf("reorder category %s: %w", item.ID, err)
			}
		}
		return cats.Reorder(ctx, items)
	})
}

// buildCategory normalizes the input into a category row, deriving the
// slug from the name when none is given.
func (s *Service) buildCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	c := &models.Category{
		Name:        in.Name,
		Description: in.Description,
		ParentID:    in.ParentID,
		IsActive:    true,
		Color:       in.Color,
		Icon:        in.Icon,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}

	source := in.Slug
	if source == "" {
		source = in.Name
	}
	derived, err := slug.Generate(source)
	if err != nil {
		return nil, fmt.Errorf("category slug: %w", err)
	}
	c.Slug = derived
	return c, nil
}

// checkCategoryCollisions is the fast-path name/slug check. The unique
// indexes remain the authority when two writers race past it.
func (s *Service) checkCategoryCollisions(ctx context.Context, cats *store.CategoryStore, c *models.Category, exclude uuid.UUID) error {
	taken, err := cats.NameExists(ctx, c.Name, exclude)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("category name %q: %w", c.Name, models.ErrConflict)
	}

	taken, err = cats.SlugExists(ctx, c.Slug, exclude)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("category slug %q: %w", c.Slug, models.ErrConflict)
	}
	return nil
}
