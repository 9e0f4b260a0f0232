// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"inkpress/internal/cache"
	"inkpress/internal/loader"
	"inkpress/internal/models"
	"inkpress/internal/service"
	"inkpress/internal/store"
)

// Categories groups the category HTTP handlers and their dependencies.
type Categories struct {
	store     *store.CategoryStore
	svc       *service.Service
	treeCache *cache.TreeCache
}

// NewCategories creates the category handler group. treeCache may be
// nil when Valkey is not configured.
func NewCategories(s *store.CategoryStore, svc *service.Service, treeCache *cache.TreeCache) *Categories {
	return &Categories{store: s, svc: svc, treeCache: treeCache}
}

// List returns the category tree, or a flat list with ?flat=1.
// Inactive categories are excluded unless ?include_inactive=1.
// The default tree view is served from the Valkey cache when warm.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flat := r.URL.Query().Get("flat") == "1"
	includeInactive := r.URL.Query().Get("include_inactive") == "1"

	if flat {
		items, err := h.store.List(ctx, includeInactive)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"categories": items})
		return
	}

	cacheable := !includeInactive && h.treeCache != nil
	if cacheable {
		if tree, ok := h.treeCache.Get(ctx); ok {
			respondJSON(w, http.StatusOK, map[string]any{"categories": tree})
			return
		}
	}

	tree, err := h.store.Tree(ctx, includeInactive)
	if err != nil {
		respondError(w, err)
		return
	}
	if cacheable {
		h.treeCache.Set(ctx, tree)
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": tree})
}

// Get returns one category with its children and post count, resolved
// through the request's relation loaders so sibling lookups in the
// same request share the underlying fetches.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		respondValidation(w, "Invalid category ID.")
		return
	}

	loaders := loader.FromContext(ctx)
	if loaders == nil {
		// Mounted without the loader middleware; hit the store directly.
		h.getFromStore(w, r, id)
		return
	}
	c, err := loaders.Category.Load(ctx, id)
	if err != nil {
		respondError(w, err)
		return
	}
	if c == nil {
		respondError(w, fmt.Errorf("category %s: %w", id, models.ErrNotFound))
		return
	}

	children, err := loaders.CategoryChildren.Load(ctx, id)
	if err != nil {
		respondError(w, err)
		return
	}
	count, err := loaders.CategoryPostCount.Load(ctx, id)
	if err != nil {
		respondError(w, err)
		return
	}

	c.Children = children
	c.PostCount = count
	respondJSON(w, http.StatusOK, map[string]any{"category": c})
}

// getFromStore resolves a category and its relations without loaders,
// using the same batch queries with a single-element key set.
func (h *Categories) getFromStore(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	ctx := r.Context()
	found, err := h.store.CategoriesByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		respondError(w, err)
		return
	}
	c := found[id]
	if c == nil {
		respondError(w, fmt.Errorf("category %s: %w", id, models.ErrNotFound))
		return
	}

	children, err := h.store.ChildrenByParentIDs(ctx, []uuid.UUID{id})
	if err != nil {
		respondError(w, err)
		return
	}
	counts, err := h.store.PostCountsByCategoryIDs(ctx, []uuid.UUID{id})
	if err != nil {
		respondError(w, err)
		return
	}

	c.Children = children[id]
	c.PostCount = counts[id]
	respondJSON(w, http.StatusOK, map[string]any{"category": c})
}

// Create adds a category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		respondValidation(w, "Invalid JSON body.")
		return
	}
	if msg := validateCategory(in.Name, in.Slug, in.Description); msg != "" {
		respondValidation(w, msg)
		return
	}

	created, err := h.svc.CreateCategory(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}

	h.invalidateTree(r)
	respondJSON(w, http.StatusCreated, map[string]any{"category": created})
}

// Update replaces a category's writable fields.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondValidation(w, "Invalid category ID.")
		return
	}

	var in service.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		respondValidation(w, "Invalid JSON body.")
		return
	}
	if msg := validateCategory(in.Name, in.Slug, in.Description); msg != "" {
		respondValidation(w, msg)
		return
	}

	updated, err := h.svc.UpdateCategory(r.Context(), id, in)
	if err != nil {
		respondError(w, err)
		return
	}

	h.invalidateTree(r)
	respondJSON(w, http.StatusOK, map[string]any{"category": updated})
}

// Delete removes a category if nothing references it.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondValidation(w, "Invalid category ID.")
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	h.invalidateTree(r)
	respondJSON(w, http.StatusNoContent, nil)
}

// Reorder applies a batch of parent/sort changes.
func (h *Categories) Reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []store.ReorderItem `json:"items"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondValidation(w, "Invalid JSON body.")
		return
	}

	if err := h.svc.ReorderCategories(r.Context(), body.Items); err != nil {
		respondError(w, err)
		return
	}

	h.invalidateTree(r)
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *Categories) invalidateTree(r *http.Request) {
	if h.treeCache != nil {
		h.treeCache.Invalidate(r.Context())
	}
}
