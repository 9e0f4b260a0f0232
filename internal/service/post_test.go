// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/store"
)

func TestCreatePostSlugAutoSuffix(t *testing.T) {
	db := testDB(t)
	svc := New(db)
	ctx := context.Background()

	title := "svc-suffix-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPostSlugs(t, db, title) })

	first, err := svc.CreatePost(ctx, PostInput{Title: title, AuthorID: uuid.New()})
	if err != nil {
		t.Fatalf("CreatePost (first): %v", err)
	}
	if first.Slug != title {
		t.Errorf("first slug: got %q, want %q", first.Slug, title)
	}
	if first.Status != models.PostStatusDraft {
		t.Errorf("status should default to draft, got %q", first.Status)
	}

	// Same title again: the slug gets a numeric suffix instead of
	// failing.
	second, err := svc.CreatePost(ctx, PostInput{Title: title, AuthorID: uuid.New()})
	if err != nil {
		t.Fatalf("CreatePost (second): %v", err)
	}
	if second.Slug != title+"-1" {
		t.Errorf("second slug: got %q, want %q", second.Slug, title+"-1")
	}

	third, err := svc.CreatePost(ctx, PostInput{Title: title, AuthorID: uuid.New()})
	if err != nil {
		t.Fatalf("CreatePost (third): %v", err)
	}
	if third.Slug != title+"-2" {
		t.Errorf("third slug: got %q, want %q", third.Slug, title+"-2")
	}
}

func TestCreatePostInvalidStatus(t *testing.T) {
	db := testDB(t)
	svc := New(db)

	_, err := svc.CreatePost(context.Background(), PostInput{
		Title:    "svc-bad-status",
		Status:   "scheduled",
		AuthorID: uuid.New(),
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("unknown status: want ErrValidation, got %v", err)
	}
}

func TestCreatePostUnknownRelations(t *testing.T) {
	db := testDB(t)
	svc := New(db)
	ctx := context.Background()

	ghost := uuid.New()
	_, err := svc.CreatePost(ctx, PostInput{
		Title:       "svc-ghost-cat-" + uuid.NewString()[:8],
		AuthorID:    uuid.New(),
		CategoryIDs: []uuid.UUID{ghost},
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ghost category: want ErrNotFound, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), ghost.String()) {
		t.Errorf("error should name the missing ID: %v", err)
	}

	_, err = svc.CreatePost(ctx, PostInput{
		Title:    "svc-ghost-tag-" + uuid.NewString()[:8],
		AuthorID: uuid.New(),
		TagIDs:   []uuid.UUID{ghost},
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ghost tag: want ErrNotFound, got %v", err)
	}
}

func TestCreatePostInactiveCategoryRejected(t *testing.T) {
	db := testDB(t)
	svc := New(db)
	ctx := context.Background()

	inactive := false
	name := "svc inactive " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCategoryNames(t, db, name) })
	c, err := svc.CreateCategory(ctx, CategoryInput{Name: name, IsActive: &inactive})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	_, err = svc.CreatePost(ctx, PostInput{
		Title:       "svc-inactive-" + uuid.NewString()[:8],
		AuthorID:    uuid.New(),
		CategoryIDs: []uuid.UUID{c.ID},
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("inactive category: want ErrNotFound, got %v", err)
	}
}

func TestUpdatePostSlugStability(t *testing.T) {
	db := testDB(t)
	svc := New(db)
	ctx := context.Background()

	title := "svc-stable-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPostSlugs(t, db, "svc-stable-") })
	t.Cleanup(func() { cleanPostSlugs(t, db, "svc-renamed-") })

	p, err := svc.CreatePost(ctx, PostInput{Title: title, AuthorID: uuid.New()})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	// Content-only edit keeps the slug.
	updated, err := svc.UpdatePost(ctx, p.ID, PostInput{
		Title:   title,
		Content: "new body",
	})
	if err != nil {
		t.Fatalf("UpdatePost (content): %v", err)
	}
	if updated.Slug != p.Slug {
		t.Errorf("slug changed on content edit: %q -> %q", p.Slug, updated.Slug)
	}
	if updated.Version != p.Version+1 {
		t.Errorf("version: got %d, want %d", updated.Version, p.Version+1)
	}

	// Title change re-derives the slug.
	newTitle := "svc-renamed-" + uuid.NewString()[:8]
	updated, err = svc.UpdatePost(ctx, p.ID, PostInput{Title: newTitle})
	if err != nil {
		t.Fatalf("UpdatePost (rename): %v", err)
	}
	if updated.Slug != newTitle {
		t.Errorf("slug after rename: got %q, want %q", updated.Slug, newTitle)
	}
}

func TestUpdatePostMissing(t *testing.T) {
	db := testDB(t)
	svc := New(db)

	_, err := svc.UpdatePost(context.Background(), uuid.New(), PostInput{Title: "ghost"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestDeletePostSoft(t *testing.T) {
	db := testDB(t)
	svc := New(db)
	ctx := context.Background()

	title := "svc-delete-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPostSlugs(t, db, title) })

	p, err := svc.CreatePost(ctx, PostInput{Title: title, AuthorID: uuid.New()})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := svc.DeletePost(ctx, p.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	found, err := store.NewPostStore(db).FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found != nil {
		t.Error("post still visible after delete")
	}

	if err := svc.DeletePost(ctx, p.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("repeat delete: want ErrNotFound, got %v", err)
	}
}

func TestCreateAndUpdateTag(t *testing.T) {
	db := testDB(t)
	svc := New(db)
	ctx := context.Background()

	raw := "SVC Tag " + uuid.NewString()[:8]
	normalized := strings.ToLower(raw)
	t.Cleanup(func() { cleanTagNames(t, db, normalized) })

	tag, err := svc.CreateTag(ctx, TagInput{Name: raw})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if tag.Name != normalized {
		t.Errorf("name: got %q, want %q", tag.Name, normalized)
	}
	if tag.Slug == "" {
		t.Error("expected derived slug")
	}

	// Duplicate with different casing conflicts.
	_, err = svc.CreateTag(ctx, TagInput{Name: strings.ToUpper(raw)})
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate tag: want ErrConflict, got %v", err)
	}

	// Empty normalized name is invalid.
	_, err = svc.CreateTag(ctx, TagInput{Name: "   "})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("blank tag: want ErrValidation, got %v", err)
	}
}
