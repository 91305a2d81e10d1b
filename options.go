package lingo

import (
	"io/fs"
	"time"

	"github.com/pitabwire/lingo/client"
	"github.com/pitabwire/lingo/store"
)

// Option configures a Loader during construction.
type Option func(*loaderConfig)

type loaderConfig struct {
	resolver     client.Resolver
	bundledPath  string
	bundledFS    fs.FS
	priority     Priority
	timeout      time.Duration
	cacheMaxAge  time.Duration
	cacheURL     string
	modifiedAt   time.Time
	store        store.Store
	fetcher      client.Fetcher
	httpOptions  []client.HTTPOption
	storeOptions []store.Option
}

// WithOrigin sets the resolver mapping a locale key to its origin base address.
func WithOrigin(resolver client.Resolver) Option {
	return func(c *loaderConfig) {
		c.resolver = resolver
	}
}

// WithOriginURL sets a single origin base address for all locale keys.
func WithOriginURL(baseURL string) Option {
	return func(c *loaderConfig) {
		c.resolver = func(_ string) string { return baseURL }
	}
}

// WithBundledPath sets the directory holding the bundled default payloads.
func WithBundledPath(path string) Option {
	return func(c *loaderConfig) {
		c.bundledPath = path
	}
}

// WithBundledFS sets the filesystem holding the bundled default payloads,
// allowing defaults to be embedded into the binary.
func WithBundledFS(fsys fs.FS) Option {
	return func(c *loaderConfig) {
		c.bundledFS = fsys
	}
}

// WithPriority sets the chain step loads enter at.
func WithPriority(priority Priority) Option {
	return func(c *loaderConfig) {
		c.priority = priority
	}
}

// WithTimeout bounds each origin fetch.
func WithTimeout(timeout time.Duration) Option {
	return func(c *loaderConfig) {
		c.timeout = timeout
	}
}

// WithCacheMaxAge sets how long cached artifacts count as fresh.
func WithCacheMaxAge(maxAge time.Duration) Option {
	return func(c *loaderConfig) {
		c.cacheMaxAge = maxAge
	}
}

// WithCacheURL sets the bucket URL backing the default artifact store.
func WithCacheURL(url string) Option {
	return func(c *loaderConfig) {
		c.cacheURL = url
	}
}

// WithOriginModifiedAt supplies the authoritative timestamp of the files on
// the origin. When set, cached artifacts are usable only if written strictly
// after it, overriding the max age rule entirely.
func WithOriginModifiedAt(t time.Time) Option {
	return func(c *loaderConfig) {
		c.modifiedAt = t
	}
}

// WithStore replaces the default file-backed artifact store.
func WithStore(s store.Store) Option {
	return func(c *loaderConfig) {
		c.store = s
	}
}

// WithStoreOptions passes extra options to the default artifact store.
func WithStoreOptions(opts ...store.Option) Option {
	return func(c *loaderConfig) {
		c.storeOptions = append(c.storeOptions, opts...)
	}
}

// WithFetcher replaces the default origin fetcher.
func WithFetcher(f client.Fetcher) Option {
	return func(c *loaderConfig) {
		c.fetcher = f
	}
}

// WithHTTPOptions passes extra options to the default origin fetcher.
func WithHTTPOptions(opts ...client.HTTPOption) Option {
	return func(c *loaderConfig) {
		c.httpOptions = append(c.httpOptions, opts...)
	}
}
