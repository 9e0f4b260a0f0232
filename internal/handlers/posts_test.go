// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

func TestParsePostFilter_Empty(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/posts", nil)

	f, err := parsePostFilter(r)
	if err != nil {
		t.Fatalf("parsePostFilter: %v", err)
	}
	if !f.IsZero() {
		t.Errorf("expected zero filter, got %+v", f)
	}
}

func TestParsePostFilter_AllParams(t *testing.T) {
	cat := uuid.New()
	tag1, tag2 := uuid.New(), uuid.New()
	author := uuid.New()

	url := "/api/v1/posts?search=go+generics" +
		"&status=published" +
		"&category_id=" + cat.String() +
		"&tag_ids=" + tag1.String() + "," + tag2.String() +
		"&author_id=" + author.String() +
		"&published_after=2026-01-01T00:00:00Z" +
		"&published_before=2026-06-30T23:59:59Z"
	r := httptest.NewRequest("GET", url, nil)

	f, err := parsePostFilter(r)
	if err != nil {
		t.Fatalf("parsePostFilter: %v", err)
	}

	if f.Search != "go generics" {
		t.Errorf("Search: got %q", f.Search)
	}
	if f.Status != models.PostStatusPublished {
		t.Errorf("Status: got %q", f.Status)
	}
	if f.CategoryID == nil || *f.CategoryID != cat {
		t.Errorf("CategoryID: got %v", f.CategoryID)
	}
	if len(f.TagIDs) != 2 || f.TagIDs[0] != tag1 || f.TagIDs[1] != tag2 {
		t.Errorf("TagIDs: got %v", f.TagIDs)
	}
	if f.AuthorID == nil || *f.AuthorID != author {
		t.Errorf("AuthorID: got %v", f.AuthorID)
	}
	wantAfter := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if f.PublishedAfter == nil || !f.PublishedAfter.Equal(wantAfter) {
		t.Errorf("PublishedAfter: got %v", f.PublishedAfter)
	}
	if f.PublishedBefore == nil {
		t.Error("PublishedBefore: got nil")
	}
}

func TestParsePostFilter_Invalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"unknown status", "/api/v1/posts?status=bogus"},
		{"bad category id", "/api/v1/posts?category_id=not-a-uuid"},
		{"bad tag id", "/api/v1/posts?tag_ids=not-a-uuid"},
		{"bad author id", "/api/v1/posts?author_id=12345"},
		{"bad timestamp", "/api/v1/posts?published_after=yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			_, err := parsePostFilter(r)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "/api/v1/posts", 1, defaultPerPage},
		{"explicit", "/api/v1/posts?page=3&per_page=50", 3, 50},
		{"per_page capped", "/api/v1/posts?per_page=5000", 1, maxPerPage},
		{"zero page ignored", "/api/v1/posts?page=0", 1, defaultPerPage},
		{"negative ignored", "/api/v1/posts?page=-2&per_page=-5", 1, defaultPerPage},
		{"garbage ignored", "/api/v1/posts?page=abc", 1, defaultPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, perPage := parsePagination(r)
			if page != tt.wantPage || perPage != tt.wantPerPage {
				t.Errorf("got page=%d per_page=%d, want %d/%d",
					page, perPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}
