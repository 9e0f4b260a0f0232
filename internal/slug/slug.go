// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly identifiers from arbitrary strings
// and resolves collisions against existing rows.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit,
	// whitespace, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRun collapses consecutive whitespace into one hyphen.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// ErrEmpty is returned when the input strips down to nothing.
var ErrEmpty = fmt.Errorf("%w: text produces an empty slug", models.ErrValidation)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
// An input with no usable characters is an error, never a silent "".
func Generate(s string) (string, error) {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if result == "" {
		return "", ErrEmpty
	}
	return result, nil
}

// ExistsFunc reports whether a slug is already taken by a row other
// than exclude. Passing the row's own ID as exclude makes re-saving
// an unchanged slug idempotent.
type ExistsFunc func(ctx context.Context, candidate string, exclude uuid.UUID) (bool, error)

// Unique returns the first free slug starting from candidate, probing
// candidate, candidate-1, candidate-2, ... against exists. The loop has
// no fixed upper bound; it terminates once the counter passes the
// number of existing collisions.
//
// The check is not atomic against concurrent writers; the posts table
// carries a unique index as the backstop and the caller maps the
// resulting constraint violation to a conflict error.
func Unique(ctx context.Context, candidate string, exists ExistsFunc, exclude uuid.UUID) (string, error) {
	taken, err := exists(ctx, candidate, exclude)
	if err != nil {
		return "", fmt.Errorf("slug exists check: %w", err)
	}
	if !taken {
		return candidate, nil
	}

	for i := 1; ; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		taken, err := exists(ctx, next, exclude)
		if err != nil {
			return "", fmt.Errorf("slug exists check: %w", err)
		}
		if !taken {
			return next, nil
		}
	}
}
