// Package store persists translation artifacts between runs and answers the
// two questions the resolution chain asks of a cache: is there a usable copy,
// and what does it contain. Checking usability is deliberately separate from
// reading so callers never consume a stale or missing artifact blindly.
package store

import (
	"context"
	"errors"
)

// ErrNotCached is returned by Read when no artifact exists for the key.
// Callers are expected to check Exists first; a direct read on a missing
// entry is a programming error surfaced loudly rather than an empty result.
var ErrNotCached = errors.New("translation artifact not cached")

// Store is the persistence contract for translation artifacts.
//
// Freshness of an artifact is derived from its last write time. With no
// authoritative origin timestamp configured an artifact is fresh while
// now − writeTime ≤ the configured max age, and ignoreFreshness accepts any
// existing artifact. When an authoritative origin timestamp is configured it
// takes precedence over both: the artifact is usable only if written strictly
// after that timestamp, whatever ignoreFreshness says.
type Store interface {
	// Exists reports whether a usable artifact is persisted for key.
	Exists(ctx context.Context, key string, ignoreFreshness bool) (bool, error)

	// Read returns the raw persisted content for key.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write persists content for key, overwriting any prior artifact.
	// Concurrent writes to the same key are last write wins.
	Write(ctx context.Context, key string, content []byte) error

	// Close releases any resources held by the store.
	Close() error
}

// artifactName maps a locale key to its persisted artifact name.
func artifactName(key string) string {
	return key + ".json"
}
