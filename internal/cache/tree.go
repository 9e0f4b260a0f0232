// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go provides a Valkey-backed cache for the assembled category
// tree. Building the tree joins post counts over every category, so
// the public tree endpoint serves the cached JSON and every category
// mutation drops it.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"inkpress/internal/models"
)

const (
	// treeKey is the Valkey key holding the serialized tree.
	treeKey = "category_tree"

	// DefaultTreeTTL bounds staleness if an invalidation is lost.
	DefaultTreeTTL = 5 * time.Minute
)

// TreeCache stores the rendered category forest in Valkey.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// Get retrieves the cached tree. Returns (nil, false) on a miss or any
// cache error; the caller falls through to the database.
func (tc *TreeCache) Get(ctx context.Context) ([]models.Category, bool) {
	val, err := tc.client.Get(ctx, treeKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get error", "error", err)
		return nil, false
	}

	var tree []models.Category
	if err := json.Unmarshal(val, &tree); err != nil {
		slog.Warn("tree cache decode error", "error", err)
		return nil, false
	}
	slog.Debug("tree cache hit")
	return tree, true
}

// Set stores the tree with the configured TTL. Failures are logged and
// swallowed; the cache is never load-bearing.
func (tc *TreeCache) Set(ctx context.Context, tree []models.Category) {
	val, err := json.Marshal(tree)
	if err != nil {
		slog.Warn("tree cache encode error", "error", err)
		return
	}
	if err := tc.client.Set(ctx, treeKey, val, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "error", err)
	}
}

// Invalidate drops the cached tree. Called after every category
// create, update, reorder, or delete.
func (tc *TreeCache) Invalidate(ctx context.Context) {
	if err := tc.client.Del(ctx, treeKey).Err(); err != nil {
		slog.Warn("tree cache invalidate error", "error", err)
	}
	slog.Debug("tree cache invalidated")
}
