// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostFilter is a sparse set of optional post query predicates.
// Nil / zero fields contribute no clause. The store compiles a filter
// into a single conjunctive WHERE clause; soft-deleted posts are always
// excluded regardless of what is set here.
type PostFilter struct {
	Search          string
	Status          PostStatus
	CategoryID      *uuid.UUID
	TagIDs          []uuid.UUID
	PublishedAfter  *time.Time // inclusive lower bound
	PublishedBefore *time.Time // inclusive upper bound
	AuthorID        *uuid.UUID
}

// IsZero reports whether no optional predicate is set.
func (f *PostFilter) IsZero() bool {
	return f.Search == "" && f.Status == "" && f.CategoryID == nil &&
		len(f.TagIDs) == 0 && f.PublishedAfter == nil &&
		f.PublishedBefore == nil && f.AuthorID == nil
}
