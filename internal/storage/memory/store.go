// Package memory provides the in-memory key-value store for Samus.
package memory

import (
	"context"
	"fmt"

	"github.com/yndnr/samus-go/internal/core/domain"
	"github.com/yndnr/samus-go/pkg/cmap"
)

// Store is an in-memory mapping from key to entry.
//
// A key present in the map has exactly one entry; absence is the only
// "not found" signal.
type Store struct {
	entries *cmap.Map[string, domain.Entry]

	// strictDelete makes Delete of a missing key fail like Get does.
	strictDelete bool
}

// Option configures the Store.
type Option func(*storeOptions)

type storeOptions struct {
	shardCount   int
	strictDelete bool
}

// WithShardCount sets the number of shards (power of two).
func WithShardCount(n int) Option {
	return func(o *storeOptions) {
		o.shardCount = n
	}
}

// WithStrictDelete makes Delete return domain.ErrKeyNotFound for a
// missing key instead of an empty value.
func WithStrictDelete(strict bool) Option {
	return func(o *storeOptions) {
		o.strictDelete = strict
	}
}

// New creates a new in-memory store.
func New(opts ...Option) *Store {
	o := storeOptions{shardCount: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		entries:      cmap.NewWithShards[string, domain.Entry](o.shardCount),
		strictDelete: o.strictDelete,
	}
}

// Get returns the value stored under key, or domain.ErrKeyNotFound.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	e, ok := s.entries.Get(key)
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return e.Value, nil
}

// Set inserts or overwrites the entry for key and returns the value
// just written.
func (s *Store) Set(_ context.Context, key, value string, ttl int64) (string, error) {
	s.entries.Set(key, domain.NewEntry(value, ttl))
	return value, nil
}

// Delete removes the entry for key and returns the removed value.
//
// A missing key yields an empty value and no error, unless the store
// was built WithStrictDelete.
func (s *Store) Delete(_ context.Context, key string) (string, error) {
	e, ok := s.entries.Pop(key)
	if !ok {
		if s.strictDelete {
			return "", domain.ErrKeyNotFound
		}
		return "", nil
	}
	return e.Value, nil
}

// Lookup returns the full entry for key, TTL included.
func (s *Store) Lookup(key string) (domain.Entry, bool) {
	return s.entries.Get(key)
}

// Len returns the number of keys in the store.
func (s *Store) Len() int {
	return s.entries.Count()
}

// StrictDelete reports whether Delete fails on a missing key.
func (s *Store) StrictDelete() bool {
	return s.strictDelete
}

// Load writes a startup entry after checking it can be served over the
// line protocol. Unlike Set, it rejects keys and values that would break
// response framing.
func (s *Store) Load(ctx context.Context, key, value string, ttl int64) error {
	if err := domain.ValidateKey(key); err != nil {
		return err
	}
	if err := domain.ValidateValue(value); err != nil {
		return err
	}
	_, err := s.Set(ctx, key, value, ttl)
	return err
}

// SeedEntry is one entry loaded at startup.
type SeedEntry struct {
	Key   string
	Value string
	TTL   int64
}

// Seed loads entries in order. Later entries overwrite earlier ones with
// the same key. It stops at the first entry that fails Load.
func (s *Store) Seed(ctx context.Context, entries []SeedEntry) error {
	for i, e := range entries {
		if err := s.Load(ctx, e.Key, e.Value, e.TTL); err != nil {
			return fmt.Errorf("seed entry %d: %w", i, err)
		}
	}
	return nil
}
