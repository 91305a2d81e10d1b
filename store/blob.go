package store

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Bucket drivers resolvable by URL.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// BlobStore persists artifacts in a gocloud blob bucket selected by URL.
// The default file:// bucket keeps artifacts under the host temporary
// directory; mem:// is handy for tests. Blob modification time is the
// freshness timestamp, and fileblob's write-then-rename makes concurrent
// writes to the same key last write wins.
type BlobStore struct {
	bucket *blob.Bucket
	opts   *Options
}

// NewBlobStore opens the bucket backing the store. With no URL configured it
// resolves the standard temporary directory location once, here.
func NewBlobStore(ctx context.Context, opts ...Option) (*BlobStore, error) {
	options := NewOptions(opts...)
	if options.URL == "" {
		options.URL = DefaultURL()
	}

	bucket, err := blob.OpenBucket(ctx, options.URL)
	if err != nil {
		return nil, fmt.Errorf("open artifact bucket %q: %w", options.URL, err)
	}

	return &BlobStore{bucket: bucket, opts: options}, nil
}

// Exists reports whether a usable artifact is persisted for key.
func (s *BlobStore) Exists(ctx context.Context, key string, ignoreFreshness bool) (bool, error) {
	attrs, err := s.bucket.Attributes(ctx, artifactName(key))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return false, nil
		}
		return false, err
	}

	return s.opts.Usable(attrs.ModTime, ignoreFreshness), nil
}

// Read returns the raw persisted content for key.
func (s *BlobStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, artifactName(key))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotCached
		}
		return nil, err
	}
	return data, nil
}

// Write persists content for key, overwriting any prior artifact.
func (s *BlobStore) Write(ctx context.Context, key string, content []byte) error {
	return s.bucket.WriteAll(ctx, artifactName(key), content, nil)
}

// Close releases the bucket.
func (s *BlobStore) Close() error {
	return s.bucket.Close()
}
