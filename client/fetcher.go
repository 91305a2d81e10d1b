// Package client fetches translation payloads from a remote origin. A fetch
// is bounded in time, retried on transient server errors and re-serialized
// into a canonical JSON encoding before being handed back, so that every
// other part of the system sees one stable text form.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pitabwire/util"
)

// Response bodies larger than this are refused rather than buffered.
const maxResponseBodyLen = 10 << 20

// Resolver maps a locale key to the base address of the origin serving it.
// The final fetch address is always base + key + ".json"; deployed origins
// rely on that suffix convention.
type Resolver func(key string) string

// Fetcher retrieves the translation payload for a locale key.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

type fetcher struct {
	client      *http.Client
	resolver    Resolver
	timeout     time.Duration
	maxAttempts int
}

// NewFetcher creates a fetcher for the given origin resolver.
func NewFetcher(resolver Resolver, opts ...HTTPOption) Fetcher {
	cfg := newHTTPConfig(opts...)

	return &fetcher{
		client:      NewHTTPClient(opts...),
		resolver:    resolver,
		timeout:     cfg.timeout,
		maxAttempts: cfg.maxAttempts,
	}
}

// isRetryableStatus returns true for HTTP status codes that indicate a
// temporary server-side issue worth retrying.
func isRetryableStatus(code int) bool {
	return code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable ||
		code == http.StatusGatewayTimeout
}

// backoff returns the wait before the next attempt, doubling each time.
func backoff(attempt int) time.Duration {
	return defaultRetryBackoff << (attempt - 1)
}

// Fetch retrieves and canonicalizes the payload for key. Any failure is
// returned with an empty result; callers decide whether that is fatal.
func (f *fetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	endpointURL := f.resolver(key) + key + ".json"

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	body, err := f.execute(ctx, endpointURL)
	if err != nil {
		return nil, err
	}

	// Re-encode through a map so the persisted and returned form is one
	// stable JSON encoding regardless of how the origin formats it.
	var decoded map[string]any
	if err = json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode payload from %s: %w", endpointURL, err)
	}

	canonical, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("re-encode payload from %s: %w", endpointURL, err)
	}

	return canonical, nil
}

func (f *fetcher) execute(ctx context.Context, endpointURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := f.client.Do(req)
		switch {
		case err != nil:
			lastErr = err
		case isRetryableStatus(resp.StatusCode) && attempt < f.maxAttempts:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("origin unavailable: HTTP %d", resp.StatusCode)
			util.Log(ctx).WithField("url", endpointURL).
				WithField("status", resp.StatusCode).
				WithField("attempt", attempt).
				Debug("retrying translation fetch")
		case resp.StatusCode != http.StatusOK:
			_ = resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: HTTP %d", endpointURL, resp.StatusCode)
		default:
			return readBody(resp)
		}

		if attempt == f.maxAttempts {
			break
		}

		// Respect context cancellation during backoff.
		t := time.NewTimer(backoff(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	return nil, lastErr
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyLen+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxResponseBodyLen {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxResponseBodyLen)
	}
	return data, nil
}
