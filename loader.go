package lingo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pitabwire/util"

	"github.com/pitabwire/lingo/client"
	"github.com/pitabwire/lingo/store"
)

// Loader resolves translation message sets through the prioritized source
// chain. A Loader is immutable once constructed and safe for concurrent use;
// concurrent loads for the same key are not deduplicated, each walks the
// chain independently and cache writes are last write wins.
type Loader struct {
	store    store.Store
	fetcher  client.Fetcher
	bundled  *bundledSource
	priority Priority
}

// New creates a Loader. An origin resolver (or explicit fetcher) and a
// bundled defaults location are required; everything else has defaults.
func New(ctx context.Context, opts ...Option) (*Loader, error) {
	cfg := &loaderConfig{priority: PriorityCache}
	for _, opt := range opts {
		opt(cfg)
	}

	var bundled *bundledSource
	switch {
	case cfg.bundledFS != nil:
		bundled = newBundledSourceFS(cfg.bundledFS)
	case cfg.bundledPath != "":
		bundled = newBundledSource(cfg.bundledPath)
	default:
		return nil, errors.New("a bundled defaults path or filesystem is required")
	}

	fetcher := cfg.fetcher
	if fetcher == nil {
		if cfg.resolver == nil {
			return nil, errors.New("an origin resolver is required")
		}

		httpOpts := cfg.httpOptions
		if cfg.timeout > 0 {
			httpOpts = append(httpOpts, client.WithHTTPTimeout(cfg.timeout))
		}
		fetcher = client.NewFetcher(cfg.resolver, httpOpts...)
	}

	artifacts := cfg.store
	if artifacts == nil {
		storeOpts := cfg.storeOptions
		if cfg.cacheURL != "" {
			storeOpts = append(storeOpts, store.WithURL(cfg.cacheURL))
		}
		if cfg.cacheMaxAge > 0 {
			storeOpts = append(storeOpts, store.WithMaxAge(cfg.cacheMaxAge))
		}
		if !cfg.modifiedAt.IsZero() {
			storeOpts = append(storeOpts, store.WithModifiedAfter(cfg.modifiedAt))
		}

		var err error
		artifacts, err = store.NewBlobStore(ctx, storeOpts...)
		if err != nil {
			return nil, err
		}
	}

	return &Loader{
		store:    artifacts,
		fetcher:  fetcher,
		bundled:  bundled,
		priority: cfg.priority,
	}, nil
}

// Close releases the artifact store.
func (l *Loader) Close() error {
	return l.store.Close()
}

// Load resolves the message set for key starting at the configured priority.
func (l *Loader) Load(ctx context.Context, key string) (Messages, error) {
	return l.LoadWithPriority(ctx, key, l.priority)
}

// step is one strategy in the resolution chain. attempt reports the content
// it produced and whether it succeeded; an error is returned only for hard
// failures that must abort the whole load.
type step struct {
	priority Priority
	attempt  func(ctx context.Context, key string) ([]byte, bool, error)
}

// LoadWithPriority resolves the message set for key, entering the chain at
// the given priority and falling through forward until a step produces
// content. The Default step cannot fail, so the chain always terminates.
// A priority outside the known set is rejected.
func (l *Loader) LoadWithPriority(ctx context.Context, key string, priority Priority) (Messages, error) {
	start, known := priority.chainIndex()
	if !known {
		return nil, fmt.Errorf("unknown load priority %q", priority)
	}

	steps := []step{
		{PriorityCache, l.cachedAttempt(false)},
		{PriorityNetwork, l.networkAttempt},
		{PriorityCacheIgnoringFreshness, l.cachedAttempt(true)},
		{PriorityDefault, l.bundledAttempt},
	}

	var content []byte
	satisfiedBy := PriorityDefault

	for _, s := range steps[start:] {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load %q cancelled: %w", key, err)
		}

		fetched, ok, err := s.attempt(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			content = fetched
			satisfiedBy = s.priority
			break
		}
	}

	chosen, err := decodeMessages(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload for %q: %s", ErrMalformedContent, satisfiedBy, key, err)
	}

	// The Default step already is the baseline, nothing to validate against.
	if satisfiedBy == PriorityDefault {
		return chosen, nil
	}

	return l.validate(ctx, key, satisfiedBy, chosen)
}

// validate compares the chosen content against the bundled baseline and
// keeps whichever carries more keys. A payload smaller than the baseline is
// treated as incomplete and silently replaced, never returned.
func (l *Loader) validate(ctx context.Context, key string, satisfiedBy Priority, chosen Messages) (Messages, error) {
	baselineRaw, err := l.bundled.load(key)
	if err != nil {
		return nil, err
	}

	baseline, err := decodeMessages(baselineRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: bundled baseline for %q: %s", ErrMalformedContent, key, err)
	}

	if len(baseline) > len(chosen) {
		util.Log(ctx).
			WithField("locale", key).
			WithField("source", satisfiedBy.String()).
			WithField("resolved_keys", len(chosen)).
			WithField("baseline_keys", len(baseline)).
			Warn("resolved translations smaller than bundled baseline, serving baseline")
		return baseline, nil
	}

	return chosen, nil
}

// cachedAttempt builds the cache chain step, fresh or freshness-ignoring.
// Every cache problem short of cancellation is a soft failure.
func (l *Loader) cachedAttempt(ignoreFreshness bool) func(ctx context.Context, key string) ([]byte, bool, error) {
	return func(ctx context.Context, key string) ([]byte, bool, error) {
		logger := util.Log(ctx).WithField("locale", key).WithField("ignore_freshness", ignoreFreshness)

		usable, err := l.store.Exists(ctx, key, ignoreFreshness)
		if err != nil {
			if ctx.Err() != nil {
				return nil, false, fmt.Errorf("load %q cancelled: %w", key, ctx.Err())
			}
			logger.WithError(err).Warn("artifact store lookup failed")
			return nil, false, nil
		}
		if !usable {
			logger.Debug("no usable cached translations")
			return nil, false, nil
		}

		content, err := l.store.Read(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return nil, false, fmt.Errorf("load %q cancelled: %w", key, ctx.Err())
			}
			logger.WithError(err).Warn("cached translations could not be read")
			return nil, false, nil
		}

		if len(bytes.TrimSpace(content)) == 0 {
			logger.Debug("cached translations are empty")
			return nil, false, nil
		}

		return content, true, nil
	}
}

// networkAttempt fetches from the origin and, on success, persists the
// payload. A failed persist is reported but never invalidates the fetch.
func (l *Loader) networkAttempt(ctx context.Context, key string) ([]byte, bool, error) {
	content, err := l.fetcher.Fetch(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("load %q cancelled: %w", key, ctx.Err())
		}
		util.Log(ctx).WithError(err).WithField("locale", key).Warn("translation fetch failed")
		return nil, false, nil
	}

	if len(content) == 0 {
		return nil, false, nil
	}

	if err = l.store.Write(ctx, key, content); err != nil {
		util.Log(ctx).WithError(err).WithField("locale", key).Warn("fetched translations could not be cached")
	}

	return content, true, nil
}

// bundledAttempt is the terminal step. Its only failure mode is a locale
// outside the bundled set, which is a hard error.
func (l *Loader) bundledAttempt(_ context.Context, key string) ([]byte, bool, error) {
	content, err := l.bundled.load(key)
	if err != nil {
		return nil, false, err
	}
	return content, true, nil
}

func decodeMessages(content []byte) (Messages, error) {
	var decoded Messages
	if err := json.Unmarshal(content, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}
