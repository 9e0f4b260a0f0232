// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the raw-SQL data access layer. Stores accept
// a DBTX so the same methods run on the pool or inside a transaction,
// return (nil, nil) for missing single rows, and surface Postgres
// unique violations as the domain conflict error.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"inkpress/internal/models"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BatchReader bundles the category and post batch-read primitives the
// relation loaders run on.
type BatchReader struct {
	*CategoryStore
	*PostStore
}

func NewBatchReader(db DBTX) *BatchReader {
	return &BatchReader{NewCategoryStore(db), NewPostStore(db)}
}

// uniqueViolation is the Postgres error code for a unique index hit.
const uniqueViolation = "23505"

// conflictErr maps a unique violation onto ErrConflict and leaves any
// other error untouched. The unique indexes are the authoritative
// answer for the check-then-write races; application-level existence
// checks are only a fast path.
func conflictErr(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s already exists: %w", what, models.ErrConflict)
	}
	return err
}

// placeholders renders "$start, $start+1, ..." for n values.
func placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", start+i)
	}
	return b.String()
}

// idArgs converts a uuid slice into query args.
func idArgs(ids []uuid.UUID) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
