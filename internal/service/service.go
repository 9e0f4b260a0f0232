// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service orchestrates mutations: identifier derivation, slug
// resolution, tree validation, and the deletion guard all run inside a
// single transaction with the write they protect. Reads stay in the
// store layer; handlers call services only to mutate.
package service

import (
	"context"
	"database/sql"
	"fmt"
)

// Service carries the shared database pool. Each mutation opens its
// own transaction and builds tx-scoped stores, so every
// validate-then-write sequence commits or rolls back as one unit.
type Service struct {
	db *sql.DB
}

// New creates the service layer over the given pool.
func New(db *sql.DB) *Service {
	return &Service{db: db}
}

// withTx runs fn inside a transaction, committing on success.
func (s *Service) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
