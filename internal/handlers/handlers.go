// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Inkpress API.
// Handlers are grouped by resource (categories, posts, tags) and
// receive their dependencies through the handler struct. They perform
// shape validation only; semantic checks live in the service layer and
// come back as domain errors mapped onto status codes here.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/models"
)

// apiError is the machine-readable error body. Code identifies the
// failure class; Resource and Count carry the blocking reference
// details for guarded deletions.
type apiError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Resource string `json:"resource,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response", "error", err)
		}
	}
}

// respondError maps a domain error onto an HTTP status and a
// machine-readable body. Nothing is ever reduced to a bare
// "operation failed".
func respondError(w http.ResponseWriter, err error) {
	var herr *models.HierarchyError
	if errors.As(err, &herr) {
		status := http.StatusUnprocessableEntity
		if herr.Reason == models.HierarchyParentMissing {
			status = http.StatusNotFound
		}
		respondJSON(w, status, map[string]apiError{"error": {
			Code:    string(herr.Reason),
			Message: herr.Error(),
		}})
		return
	}

	var dep *models.DependencyError
	if errors.As(err, &dep) {
		respondJSON(w, http.StatusConflict, map[string]apiError{"error": {
			Code:     "dependency",
			Message:  dep.Error(),
			Resource: dep.Resource,
			Count:    dep.Count,
		}})
		return
	}

	var berr *models.BatchError
	if errors.As(err, &berr) {
		slog.Error("batch fetch failed", "relation", berr.Relation, "error", berr.Err)
		respondJSON(w, http.StatusInternalServerError, map[string]apiError{"error": {
			Code:    "batch_fetch_failed",
			Message: "failed to resolve related records",
		}})
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]apiError{"error": {
			Code:    "not_found",
			Message: err.Error(),
		}})
	case errors.Is(err, models.ErrConflict):
		respondJSON(w, http.StatusConflict, map[string]apiError{"error": {
			Code:    "conflict",
			Message: err.Error(),
		}})
	case errors.Is(err, models.ErrValidation):
		respondJSON(w, http.StatusBadRequest, map[string]apiError{"error": {
			Code:    "validation_failed",
			Message: err.Error(),
		}})
	default:
		slog.Error("request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]apiError{"error": {
			Code:    "internal",
			Message: "internal server error",
		}})
	}
}

// respondValidation writes a shape-validation failure.
func respondValidation(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, map[string]apiError{"error": {
		Code:    "validation_failed",
		Message: message,
	}})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// pathSlug returns the {slug} URL parameter.
func pathSlug(r *http.Request) string {
	return chi.URLParam(r, "slug")
}
