// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"inkpress/internal/models"
	"inkpress/internal/service"
	"inkpress/internal/store"
)

// Tags groups the tag HTTP handlers.
type Tags struct {
	store *store.TagStore
	svc   *service.Service
}

func NewTags(s *store.TagStore, svc *service.Service) *Tags {
	return &Tags{store: s, svc: svc}
}

// List returns all tags ordered by name.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tags": items})
}

// Get returns one tag by ID.
func (h *Tags) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondValidation(w, "Invalid tag ID.")
		return
	}

	t, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	if t == nil {
		respondError(w, fmt.Errorf("tag %s: %w", id, models.ErrNotFound))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tag": t})
}

// Create adds a tag. Names are normalized to lowercase before writing.
func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	var in service.TagInput
	if err := decodeJSON(r, &in); err != nil {
		respondValidation(w, "Invalid JSON body.")
		return
	}
	if msg := validateTag(in.Name, in.Slug); msg != "" {
		respondValidation(w, msg)
		return
	}

	created, err := h.svc.CreateTag(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"tag": created})
}

// Update replaces a tag's name and slug.
func (h *Tags) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondValidation(w, "Invalid tag ID.")
		return
	}

	var in service.TagInput
	if err := decodeJSON(r, &in); err != nil {
		respondValidation(w, "Invalid JSON body.")
		return
	}
	if msg := validateTag(in.Name, in.Slug); msg != "" {
		respondValidation(w, msg)
		return
	}

	updated, err := h.svc.UpdateTag(r.Context(), id, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tag": updated})
}

// Delete removes a tag. Posts keep their other tags; the join rows go
// with the tag.
func (h *Tags) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondValidation(w, "Invalid tag ID.")
		return
	}

	if err := h.svc.DeleteTag(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
