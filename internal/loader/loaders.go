// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package loader

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// Storage is the set of batch-read primitives the loaders run on.
// The store package implements it with one SQL statement per method.
type Storage interface {
	CategoriesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Category, error)
	ChildrenByParentIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Category, error)
	PostCountsByCategoryIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	CategoriesByPostIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Category, error)
	TagsByPostIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Tag, error)
}

// Loaders holds one batcher per relation. A set is scoped to exactly
// one request: build it when the request starts, drop it when the
// request ends.
type Loaders struct {
	Category          *Batcher[uuid.UUID, *models.Category]
	CategoryChildren  *Batcher[uuid.UUID, []models.Category]
	CategoryPostCount *Batcher[uuid.UUID, int]
	PostCategories    *Batcher[uuid.UUID, []models.Category]
	PostTags          *Batcher[uuid.UUID, []models.Tag]
}

// New builds a fresh per-request loader set over the given storage.
func New(s Storage) *Loaders {
	return &Loaders{
		Category:          NewBatcher("category", s.CategoriesByIDs),
		CategoryChildren:  NewBatcher("category_children", s.ChildrenByParentIDs),
		CategoryPostCount: NewBatcher("category_post_count", s.PostCountsByCategoryIDs),
		PostCategories:    NewBatcher("post_categories", s.CategoriesByPostIDs),
		PostTags:          NewBatcher("post_tags", s.TagsByPostIDs),
	}
}

type ctxKey struct{}

// Middleware attaches a fresh Loaders set to every request context.
// Keeping construction here, not in a singleton, is what guarantees
// concurrent requests never share a batch or a cached value.
func Middleware(s Storage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxKey{}, New(s))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request's loader set, or nil if the
// middleware did not run.
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(ctxKey{}).(*Loaders)
	return l
}
