// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// errors.go defines the domain error taxonomy shared by the stores,
// services, and handlers. Handlers map these onto HTTP status codes
// with errors.Is / errors.As; nothing below carries transport concerns.
package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the broad failure classes.
var (
	// ErrValidation marks semantically invalid input, e.g. a title that
	// derives to an empty slug or an unknown post status.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing referenced record.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a name or slug collision on categories and tags.
	// These fail hard; only post slugs are auto-suffixed.
	ErrConflict = errors.New("conflict")
)

// HierarchyReason identifies why a parent assignment was rejected.
type HierarchyReason string

const (
	HierarchySelfReference HierarchyReason = "self_reference"
	HierarchyParentMissing HierarchyReason = "parent_not_found"
	HierarchyCycle         HierarchyReason = "cycle"
	HierarchyDepthExceeded HierarchyReason = "depth_exceeded"
)

// HierarchyError reports an invalid category parent assignment.
// It matches ErrValidation via errors.Is, except for a missing parent
// which also matches ErrNotFound.
type HierarchyError struct {
	Reason HierarchyReason
}

func (e *HierarchyError) Error() string {
	switch e.Reason {
	case HierarchySelfReference:
		return "category cannot be its own parent"
	case HierarchyParentMissing:
		return "parent category does not exist"
	case HierarchyCycle:
		return "parent assignment would create a cycle"
	case HierarchyDepthExceeded:
		return fmt.Sprintf("category tree exceeds %d levels", MaxCategoryDepth)
	}
	return "invalid parent assignment"
}

// Is makes HierarchyError a subtype of ErrValidation, and of
// ErrNotFound when the parent is missing.
func (e *HierarchyError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	return target == ErrNotFound && e.Reason == HierarchyParentMissing
}

// DependencyError reports a deletion blocked by existing references.
// Resource names the blocking resource type and Count is the exact
// number of blocking rows, so the caller never sees a bare "failed".
type DependencyError struct {
	Resource string // "posts" or "subcategories"
	Count    int
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("cannot delete category: %d %s still reference it", e.Count, e.Resource)
}

func (e *DependencyError) Is(target error) bool {
	return target == ErrConflict
}

// BatchError wraps a storage failure during a batched relation fetch.
// Every caller waiting on the same batch receives the same BatchError.
type BatchError struct {
	Relation string
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch load %s: %v", e.Relation, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
