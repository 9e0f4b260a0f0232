// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"testing"
)

func TestValidatePost(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		slug      string
		content   string
		wantError bool
	}{
		{"valid", "My Title", "my-title", "Body text", false},
		{"empty title", "", "slug", "body", true},
		{"whitespace title", "   ", "slug", "body", true},
		{"title too long", strings.Repeat("a", 301), "slug", "body", true},
		{"slug too long", "title", strings.Repeat("a", 301), "body", true},
		{"content too long", "title", "slug", strings.Repeat("a", 100_001), true},
		{"empty content allowed", "title", "slug", "", false},
		{"empty slug allowed", "title", "", "body", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validatePost(tt.title, tt.slug, tt.content)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name      string
		catName   string
		slug      string
		desc      string
		wantError bool
	}{
		{"valid", "Technology", "technology", "All tech posts", false},
		{"empty name", "", "slug", "", true},
		{"whitespace name", "  ", "slug", "", true},
		{"name too long", strings.Repeat("a", 121), "slug", "", true},
		{"slug too long", "name", strings.Repeat("a", 301), "", true},
		{"description too long", "name", "slug", strings.Repeat("a", 1_001), true},
		{"empty slug allowed", "name", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateCategory(tt.catName, tt.slug, tt.desc)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateTag(t *testing.T) {
	tests := []struct {
		name      string
		tagName   string
		slug      string
		wantError bool
	}{
		{"valid", "golang", "golang", false},
		{"empty name", "", "", true},
		{"name too long", strings.Repeat("a", 121), "", true},
		{"slug too long", "name", strings.Repeat("a", 301), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateTag(tt.tagName, tt.slug)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
