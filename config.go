package lingo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ConfigurationTranslations is the environment-driven configuration surface
// of the loader. Only the origin URL and bundled path are mandatory; the
// rest carry the documented defaults.
type ConfigurationTranslations struct {
	OriginURL   string `env:"TRANSLATIONS_ORIGIN_URL"                          yaml:"translations_origin_url"`
	BundledPath string `env:"TRANSLATIONS_BUNDLED_PATH" envDefault:"localization" yaml:"translations_bundled_path"`
	CacheURL    string `env:"TRANSLATIONS_CACHE_URL"                           yaml:"translations_cache_url"`

	HTTPTimeout time.Duration `env:"TRANSLATIONS_HTTP_TIMEOUT" envDefault:"30s" yaml:"translations_http_timeout"`
	CacheMaxAge time.Duration `env:"TRANSLATIONS_CACHE_MAX_AGE" envDefault:"12h" yaml:"translations_cache_max_age"`

	LoadPriority string `env:"TRANSLATIONS_LOAD_PRIORITY" envDefault:"cache" yaml:"translations_load_priority"`

	// OriginModifiedAt optionally carries the RFC3339 timestamp of the files
	// on the origin. When set it becomes the authoritative freshness bound
	// for cached artifacts.
	OriginModifiedAt string `env:"TRANSLATIONS_ORIGIN_MODIFIED_AT" yaml:"translations_origin_modified_at"`
}

// FromEnv convenience method to process configs.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

// NewFromConfig creates a Loader from an environment configuration. Options
// supplied here are applied after the configuration and may override it.
func NewFromConfig(ctx context.Context, cfg ConfigurationTranslations, opts ...Option) (*Loader, error) {
	if cfg.OriginURL == "" {
		return nil, errors.New("TRANSLATIONS_ORIGIN_URL is required")
	}

	priority, err := ParsePriority(cfg.LoadPriority)
	if err != nil {
		return nil, err
	}

	cfgOpts := []Option{
		WithOriginURL(cfg.OriginURL),
		WithBundledPath(cfg.BundledPath),
		WithPriority(priority),
		WithTimeout(cfg.HTTPTimeout),
		WithCacheMaxAge(cfg.CacheMaxAge),
	}

	if cfg.CacheURL != "" {
		cfgOpts = append(cfgOpts, WithCacheURL(cfg.CacheURL))
	}

	if cfg.OriginModifiedAt != "" {
		modifiedAt, parseErr := time.Parse(time.RFC3339, cfg.OriginModifiedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid TRANSLATIONS_ORIGIN_MODIFIED_AT: %w", parseErr)
		}
		cfgOpts = append(cfgOpts, WithOriginModifiedAt(modifiedAt))
	}

	return New(ctx, append(cfgOpts, opts...)...)
}
