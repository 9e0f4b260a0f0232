// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy enforces the relational invariants of the category
// tree: acyclic parent chains bounded to MaxCategoryDepth hops, and
// reference-counted deletion. Both checks are pure functions over
// injected storage capabilities so they can run inside whatever
// transaction the caller holds.
package taxonomy

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// FetchFunc retrieves a category by ID, returning (nil, nil) when no
// such row exists.
type FetchFunc func(ctx context.Context, id uuid.UUID) (*models.Category, error)

// CountFunc counts rows referencing the given category.
type CountFunc func(ctx context.Context, id uuid.UUID) (int, error)

// ValidateParent checks a proposed parent assignment for the category
// target. Pass uuid.Nil as target when the category is being created.
// A nil parentID is always valid (the category becomes a root).
//
// The walk starts at the proposed parent and follows parent links
// upward with a visited set seeded with target. It succeeds when a
// root is reached and rejects on a revisited node (cycle) or after
// MaxCategoryDepth hops (corrupt or pathologically deep data).
func ValidateParent(ctx context.Context, target uuid.UUID, parentID *uuid.UUID, fetch FetchFunc) error {
	if parentID == nil {
		return nil
	}
	if target != uuid.Nil && *parentID == target {
		return &models.HierarchyError{Reason: models.HierarchySelfReference}
	}

	visited := make(map[uuid.UUID]struct{}, models.MaxCategoryDepth)
	if target != uuid.Nil {
		visited[target] = struct{}{}
	}

	current := *parentID
	for hops := 0; hops < models.MaxCategoryDepth; hops++ {
		if _, seen := visited[current]; seen {
			return &models.HierarchyError{Reason: models.HierarchyCycle}
		}

		cat, err := fetch(ctx, current)
		if err != nil {
			return fmt.Errorf("fetch category %s: %w", current, err)
		}
		if cat == nil {
			if hops == 0 {
				// The proposed parent itself must exist.
				return &models.HierarchyError{Reason: models.HierarchyParentMissing}
			}
			// A dangling ancestor reference terminates the chain; no
			// cycle can pass through a missing row.
			return nil
		}

		visited[current] = struct{}{}
		if cat.ParentID == nil {
			return nil
		}
		current = *cat.ParentID
	}

	return &models.HierarchyError{Reason: models.HierarchyDepthExceeded}
}

// GuardDeletion rejects deleting a category that is still referenced
// by active posts or by child categories. The returned DependencyError
// names the blocking resource and its exact count.
//
// The count-then-delete sequence is racy against concurrent writers;
// callers run it inside the same transaction as the delete.
func GuardDeletion(ctx context.Context, id uuid.UUID, countPosts, countChildren CountFunc) error {
	n, err := countPosts(ctx, id)
	if err != nil {
		return fmt.Errorf("count posts for category %s: %w", id, err)
	}
	if n > 0 {
		return &models.DependencyError{Resource: "posts", Count: n}
	}

	n, err = countChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("count subcategories for category %s: %w", id, err)
	}
	if n > 0 {
		return &models.DependencyError{Resource: "subcategories", Count: n}
	}

	return nil
}
