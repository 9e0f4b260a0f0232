// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// stubStorage satisfies Storage with canned data.
type stubStorage struct {
	categories map[uuid.UUID]*models.Category
}

func (s *stubStorage) CategoriesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Category, error) {
	result := make(map[uuid.UUID]*models.Category)
	for _, id := range ids {
		if c, ok := s.categories[id]; ok {
			result[id] = c
		}
	}
	return result, nil
}

func (s *stubStorage) ChildrenByParentIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	return map[uuid.UUID][]models.Category{}, nil
}

func (s *stubStorage) PostCountsByCategoryIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	return map[uuid.UUID]int{}, nil
}

func (s *stubStorage) CategoriesByPostIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	return map[uuid.UUID][]models.Category{}, nil
}

func (s *stubStorage) TagsByPostIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Tag, error) {
	return map[uuid.UUID][]models.Tag{}, nil
}

func TestMiddlewareInjectsLoaders(t *testing.T) {
	id := uuid.New()
	storage := &stubStorage{categories: map[uuid.UUID]*models.Category{
		id: {ID: id, Name: "Tech", Slug: "tech"},
	}}

	var inner http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		loaders := FromContext(r.Context())
		if loaders == nil {
			t.Fatal("no loaders in request context")
		}

		c, err := loaders.Category.Load(r.Context(), id)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if c == nil || c.Slug != "tech" {
			t.Errorf("category: got %+v", c)
		}
	}

	h := Middleware(storage)(inner)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}

func TestMiddlewareFreshPerRequest(t *testing.T) {
	storage := &stubStorage{}

	var first, second *Loaders
	h := Middleware(storage)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if first == nil {
			first = FromContext(r.Context())
		} else {
			second = FromContext(r.Context())
		}
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if first == nil || second == nil {
		t.Fatal("loaders missing on a request")
	}
	if first == second {
		t.Error("loader set shared across requests")
	}
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("expected nil without middleware")
	}
}
