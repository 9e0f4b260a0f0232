// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/loader"
	"inkpress/internal/markdown"
	"inkpress/internal/models"
	"inkpress/internal/service"
	"inkpress/internal/store"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Posts groups the post HTTP handlers and their dependencies.
type Posts struct {
	store *store.PostStore
	svc   *service.Service
}

func NewPosts(s *store.PostStore, svc *service.Service) *Posts {
	return &Posts{store: s, svc: svc}
}

// List returns a filtered, paginated page of posts. Each post carries
// its categories and tags, resolved through the request's batchers so
// the whole page costs two relation queries regardless of size.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parsePostFilter(r)
	if err != nil {
		respondError(w, err)
		return
	}
	page, perPage := parsePagination(r)

	items, total, err := h.store.List(ctx, filter, perPage, (page-1)*perPage)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := attachRelations(r, items); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"posts":    items,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// Get returns one post by ID with rendered HTML and its relations.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondValidation(w, "Invalid post ID.")
		return
	}

	p, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	h.respondDetail(w, r, p)
}

// GetBySlug returns one post by slug with rendered HTML and its
// relations. Soft-deleted posts are invisible here.
func (h *Posts) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := pathSlug(r)

	p, err := h.store.FindBySlug(r.Context(), slug)
	if err != nil {
		respondError(w, err)
		return
	}
	h.respondDetail(w, r, p)
}

func (h *Posts) respondDetail(w http.ResponseWriter, r *http.Request, p *models.Post) {
	if p == nil {
		respondError(w, fmt.Errorf("post: %w", models.ErrNotFound))
		return
	}

	html, err := markdown.ToHTML(p.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	p.ContentHTML = html

	page := []models.Post{*p}
	if err := attachRelations(r, page); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"post": &page[0]})
}

// Create adds a post.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if err := decodeJSON(r, &in); err != nil {
		respondValidation(w, "Invalid JSON body.")
		return
	}
	if msg := validatePost(in.Title, in.Slug, in.Content); msg != "" {
		respondValidation(w, msg)
		return
	}

	created, err := h.svc.CreatePost(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"post": created})
}

// Update replaces a post's writable fields and relation sets.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondValidation(w, "Invalid post ID.")
		return
	}

	var in service.PostInput
	if err := decodeJSON(r, &in); err != nil {
		respondValidation(w, "Invalid JSON body.")
		return
	}
	if msg := validatePost(in.Title, in.Slug, in.Content); msg != "" {
		respondValidation(w, msg)
		return
	}

	updated, err := h.svc.UpdatePost(r.Context(), id, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"post": updated})
}

// Delete soft-deletes a post.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondValidation(w, "Invalid post ID.")
		return
	}

	if err := h.svc.DeletePost(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// attachRelations fills Categories and Tags on every post in the slice
// through the request's loaders, one batched fetch per relation.
func attachRelations(r *http.Request, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	loaders := loader.FromContext(r.Context())
	if loaders == nil {
		return nil
	}

	ids := make([]uuid.UUID, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	cats, err := loaders.PostCategories.LoadMany(r.Context(), ids)
	if err != nil {
		return err
	}
	tags, err := loaders.PostTags.LoadMany(r.Context(), ids)
	if err != nil {
		return err
	}

	for i := range posts {
		posts[i].Categories = cats[i]
		posts[i].Tags = tags[i]
	}
	return nil
}

// parsePostFilter builds a PostFilter from the request's query string.
// Unknown statuses and malformed IDs or timestamps are rejected rather
// than silently ignored.
func parsePostFilter(r *http.Request) (*models.PostFilter, error) {
	q := r.URL.Query()
	f := &models.PostFilter{Search: strings.TrimSpace(q.Get("search"))}

	if v := q.Get("status"); v != "" {
		status := models.PostStatus(v)
		if !models.ValidStatus(status) {
			return nil, fmt.Errorf("unknown status %q: %w", v, models.ErrValidation)
		}
		f.Status = status
	}

	if v := q.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid category_id: %w", models.ErrValidation)
		}
		f.CategoryID = &id
	}

	if v := q.Get("tag_ids"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("invalid tag_ids entry %q: %w", raw, models.ErrValidation)
			}
			f.TagIDs = append(f.TagIDs, id)
		}
	}

	if v := q.Get("author_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid author_id: %w", models.ErrValidation)
		}
		f.AuthorID = &id
	}

	var err error
	if f.PublishedAfter, err = parseTimeParam(q.Get("published_after"), "published_after"); err != nil {
		return nil, err
	}
	if f.PublishedBefore, err = parseTimeParam(q.Get("published_before"), "published_before"); err != nil {
		return nil, err
	}

	return f, nil
}

func parseTimeParam(v, name string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s, want RFC 3339: %w", name, models.ErrValidation)
	}
	return &t, nil
}

func parsePagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = defaultPerPage

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = min(v, maxPerPage)
	}
	return page, perPage
}
