// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// TagInput is the writable representation of a tag. The name is
// normalized to lowercase; the slug is derived from it when empty.
type TagInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// CreateTag inserts a tag. Collisions on the normalized name or the
// slug fail hard with a conflict error.
func (s *Service) CreateTag(ctx context.Context, in TagInput) (*models.Tag, error) {
	t, err := buildTag(in)
	if err != nil {
		return nil, err
	}

	var created *models.Tag
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		created, err = store.NewTagStore(tx).Create(ctx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTag replaces a tag's fields.
func (s *Service) UpdateTag(ctx context.Context, id uuid.UUID, in TagInput) (*models.Tag, error) {
	t, err := buildTag(in)
	if err != nil {
		return nil, err
	}
	t.ID = id

	var updated *models.Tag
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		tags := store.NewTagStore(tx)
		if err := tags.Update(ctx, t); err != nil {
			return err
		}
		updated, err = tags.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTag removes a tag and its post associations.
func (s *Service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return store.NewTagStore(tx).Delete(ctx, id)
	})
}

func buildTag(in TagInput) (*models.Tag, error) {
	name := models.NormalizeTagName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("tag name is empty: %w", models.ErrValidation)
	}

	source := in.Slug
	if source == "" {
		source = name
	}
	derived, err := slug.Generate(source)
	if err != nil {
		return nil, fmt.Errorf("tag slug: %w", err)
	}

	return &models.Tag{
		Name:        name,
		Slug:        derived,
		Description: in.Description,
		Color:       in.Color,
	}, nil
}
