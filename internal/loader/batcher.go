// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package loader batches the individual relation lookups issued while
// serving one request into single storage round trips and memoizes
// the results for the rest of the request. A fresh Loaders set is
// built per request and discarded with it, so nothing here is ever
// shared across requests and no invalidation is needed.
package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"inkpress/internal/models"
)

const (
	// defaultWindow is how long the first Load in a batch waits for
	// more keys before dispatching.
	defaultWindow = 2 * time.Millisecond

	// defaultMaxBatch dispatches immediately once this many distinct
	// keys are pending.
	defaultMaxBatch = 100
)

// BatchFunc performs the underlying fetch for a deduplicated key set.
// Keys with no matching row are simply absent from the result map.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

// result is delivered to each waiting caller after a dispatch.
type result[V any] struct {
	value V
	err   error
}

// Batcher coalesces Load calls for one relation during the batch
// window, demultiplexes the fetched values back to the callers, and
// memoizes every fetched key for the lifetime of the batcher, so a
// repeat Load later in the same request never touches storage again.
// A key with no matching row yields the zero value, never an error;
// a failed fetch delivers the same BatchError to every waiting caller
// and is not memoized, so a later Load retries.
type Batcher[K comparable, V any] struct {
	relation string
	fetch    BatchFunc[K, V]
	window   time.Duration
	maxBatch int

	mu      sync.Mutex
	cache   map[K]V
	pending map[K][]chan result[V]
	timer   *time.Timer
}

// NewBatcher creates a batcher for one relation. relation names the
// relation in logs and errors (e.g. "post_categories").
func NewBatcher[K comparable, V any](relation string, fetch BatchFunc[K, V]) *Batcher[K, V] {
	return &Batcher[K, V]{
		relation: relation,
		fetch:    fetch,
		window:   defaultWindow,
		maxBatch: defaultMaxBatch,
		cache:    make(map[K]V),
		pending:  make(map[K][]chan result[V]),
	}
}

// Load returns the value for key. A key fetched earlier in this
// batcher's lifetime is served from the memo without a storage call;
// otherwise the load joins any batch currently collecting, and
// duplicate keys within one window share a single slot in the
// underlying fetch.
func (b *Batcher[K, V]) Load(ctx context.Context, key K) (V, error) {
	ch := make(chan result[V], 1)

	b.mu.Lock()
	if v, ok := b.cache[key]; ok {
		b.mu.Unlock()
		return v, nil
	}
	b.pending[key] = append(b.pending[key], ch)
	if len(b.pending) >= b.maxBatch {
		if b.timer != nil {
			b.timer.Stop()
			b.timer = nil
		}
		go b.dispatch()
	} else if b.timer == nil {
		b.timer = time.AfterFunc(b.window, b.dispatch)
	}
	b.mu.Unlock()

	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case res := <-ch:
		return res.value, res.err
	}
}

// LoadMany returns the values for keys in the order requested. Keys
// with no matching row yield zero values at their positions.
func (b *Batcher[K, V]) LoadMany(ctx context.Context, keys []K) ([]V, error) {
	values := make([]V, len(keys))
	errs := make([]error, len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key K) {
			defer wg.Done()
			values[i], errs[i] = b.Load(ctx, key)
		}(i, key)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return values, nil
}

// dispatch fetches all pending keys in one storage call and fans the
// results back out to the waiting callers.
func (b *Batcher[K, V]) dispatch() {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.timer = nil
		b.mu.Unlock()
		return
	}
	waiting := b.pending
	b.pending = make(map[K][]chan result[V])
	b.timer = nil
	b.mu.Unlock()

	keys := make([]K, 0, len(waiting))
	for key := range waiting {
		keys = append(keys, key)
	}

	start := time.Now()
	values, err := b.fetch(context.Background(), keys)
	if err != nil {
		slog.Warn("batch fetch failed",
			"relation", b.relation,
			"keys", len(keys),
			"error", err,
		)
		batchErr := &models.BatchError{Relation: b.relation, Err: err}
		for _, chans := range waiting {
			for _, ch := range chans {
				ch <- result[V]{err: batchErr}
			}
		}
		return
	}

	slog.Debug("batch fetch",
		"relation", b.relation,
		"keys", len(keys),
		"hits", len(values),
		"duration", time.Since(start).String(),
	)

	b.mu.Lock()
	for key := range waiting {
		// Absent keys memoize the zero value too, so a repeat load of
		// a missing row does not re-query.
		b.cache[key] = values[key]
	}
	b.mu.Unlock()

	for key, chans := range waiting {
		res := result[V]{value: values[key]}
		for _, ch := range chans {
			ch <- res
		}
	}
}
