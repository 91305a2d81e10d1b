// Package redis provides a redis-backed translation artifact store, for
// deployments that already run redis and want cached translations shared
// across instances instead of sitting on local disk.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pitabwire/lingo/store"
)

const (
	defaultNamespace  = "translations"
	connectionTimeout = 5 * time.Second
)

// Options contains configuration for the redis artifact store.
type Options struct {
	Addr     string
	Password string
	DB       int

	// Namespace prefixes every artifact key, defaulting to "translations".
	Namespace string
}

// Store is a redis-backed artifact store. The payload lives at the artifact
// key and the write time at a companion key, so freshness semantics match
// the file-backed store exactly.
type Store struct {
	client    *redis.Client
	namespace string
	opts      *store.Options
}

// New creates a redis artifact store and verifies the connection.
func New(opts Options, storeOpts ...store.Option) (*Store, error) {
	// Accept redis:// URLs as well as bare host:port addresses.
	addr := opts.Addr
	if parsedURL, err := url.Parse(opts.Addr); err == nil && parsedURL.Scheme == "redis" {
		addr = parsedURL.Host
	}

	namespace := opts.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{
		client:    client,
		namespace: namespace,
		opts:      store.NewOptions(storeOpts...),
	}, nil
}

func (s *Store) payloadKey(key string) string {
	return fmt.Sprintf("%s:%s.json", s.namespace, key)
}

func (s *Store) modTimeKey(key string) string {
	return s.payloadKey(key) + ":modified_at"
}

// Exists reports whether a usable artifact is persisted for key.
func (s *Store) Exists(ctx context.Context, key string, ignoreFreshness bool) (bool, error) {
	raw, err := s.client.Get(ctx, s.modTimeKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	modTime, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return false, fmt.Errorf("corrupt artifact timestamp for %q: %w", key, err)
	}

	return s.opts.Usable(modTime, ignoreFreshness), nil
}

// Read returns the raw persisted content for key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.payloadKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotCached
		}
		return nil, err
	}
	return data, nil
}

// Write persists content for key, overwriting any prior artifact.
func (s *Store) Write(ctx context.Context, key string, content []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.payloadKey(key), content, 0)
		pipe.Set(ctx, s.modTimeKey(key), now, 0)
		return nil
	})
	return err
}

// Close closes the redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
