// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusPending   PostStatus = "pending"
	PostStatusArchived  PostStatus = "archived"
)

// ValidStatus reports whether s is one of the known post statuses.
func ValidStatus(s PostStatus) bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusPending, PostStatusArchived:
		return true
	}
	return false
}

// Post is a content item. Posts are soft-deleted: IsDeleted hides them
// from every default read but the row is never physically removed.
// PublishedAt is non-nil exactly when Status is published; the store
// enforces this inside the same statement that writes the status.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ContentHTML string     `json:"content_html,omitempty"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Slug        string     `json:"slug"`
	Status      PostStatus `json:"status"`
	AuthorID    uuid.UUID  `json:"author_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Version     int        `json:"version"`
	IsDeleted   bool       `json:"-"`
	DeletedAt   *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields resolved through the relation loaders.
	Categories []Category `json:"categories,omitempty"`
	Tags       []Tag      `json:"tags,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
