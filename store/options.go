package store

import (
	"os"
	"path/filepath"
	"time"
)

const defaultMaxAge = 12 * time.Hour

// Option configures a store.
type Option func(*Options)

// Options holds store configuration shared by all implementations.
type Options struct {
	// URL selects the blob bucket backing the store, e.g. file:// or mem://.
	URL string

	// MaxAge bounds how long an artifact counts as fresh.
	MaxAge time.Duration

	// ModifiedAfter is the optional authoritative origin timestamp. When set
	// it overrides duration based freshness entirely: only artifacts written
	// strictly after it are usable.
	ModifiedAfter time.Time

	nowFunc func() time.Time
}

// DefaultURL resolves the standard cache location under the host temporary
// directory. It is resolved once at store construction, not per call.
func DefaultURL() string {
	dir := filepath.Join(os.TempDir(), "translations")
	return "file://" + filepath.ToSlash(dir) + "?create_dir=true"
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) *Options {
	options := &Options{
		MaxAge:  defaultMaxAge,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithURL sets the bucket URL backing the store.
func WithURL(url string) Option {
	return func(o *Options) {
		o.URL = url
	}
}

// WithMaxAge sets the freshness window for cached artifacts.
func WithMaxAge(maxAge time.Duration) Option {
	return func(o *Options) {
		o.MaxAge = maxAge
	}
}

// WithModifiedAfter sets the authoritative origin timestamp artifacts must
// postdate to be usable.
func WithModifiedAfter(t time.Time) Option {
	return func(o *Options) {
		o.ModifiedAfter = t
	}
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(o *Options) {
		o.nowFunc = now
	}
}

// Usable reports whether an artifact written at modTime may serve a read.
func (o *Options) Usable(modTime time.Time, ignoreFreshness bool) bool {
	if !o.ModifiedAfter.IsZero() {
		// The origin timestamp is authoritative for both freshness flavours.
		return modTime.After(o.ModifiedAfter)
	}
	if ignoreFreshness {
		return true
	}
	return o.nowFunc().Sub(modTime) <= o.MaxAge
}
