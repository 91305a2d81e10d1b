package store

import (
	"context"
	"sync"
	"time"
)

// inMemoryItem is a persisted artifact with its write time.
type inMemoryItem struct {
	content []byte
	modTime time.Time
}

// InMemoryStore is a thread-safe in-memory artifact store. It keeps the same
// write-time freshness semantics as the persistent stores, which makes it a
// drop-in stand-in for tests and short-lived processes.
type InMemoryStore struct {
	items sync.Map // map[string]*inMemoryItem
	opts  *Options
}

// NewInMemoryStore creates a new in-memory artifact store.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	return &InMemoryStore{opts: NewOptions(opts...)}
}

// Exists reports whether a usable artifact is held for key.
func (s *InMemoryStore) Exists(_ context.Context, key string, ignoreFreshness bool) (bool, error) {
	value, ok := s.items.Load(artifactName(key))
	if !ok {
		return false, nil
	}

	item, ok := value.(*inMemoryItem)
	if !ok {
		return false, nil
	}

	return s.opts.Usable(item.modTime, ignoreFreshness), nil
}

// Read returns the raw content held for key.
func (s *InMemoryStore) Read(_ context.Context, key string) ([]byte, error) {
	value, ok := s.items.Load(artifactName(key))
	if !ok {
		return nil, ErrNotCached
	}

	item, ok := value.(*inMemoryItem)
	if !ok {
		return nil, ErrNotCached
	}

	return item.content, nil
}

// Write stores content for key, overwriting any prior artifact.
func (s *InMemoryStore) Write(_ context.Context, key string, content []byte) error {
	s.items.Store(artifactName(key), &inMemoryItem{
		content: content,
		modTime: s.opts.nowFunc(),
	})
	return nil
}

// WriteAt stores content for key with an explicit write time, for tests that
// need to place an artifact in the past.
func (s *InMemoryStore) WriteAt(_ context.Context, key string, content []byte, modTime time.Time) error {
	s.items.Store(artifactName(key), &inMemoryItem{
		content: content,
		modTime: modTime,
	})
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
