package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pitabwire/lingo/client"
)

func staticResolver(base string) client.Resolver {
	return func(_ string) string { return base }
}

func TestFetchAppendsKeySuffix(t *testing.T) {
	var gotPath atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		_, _ = w.Write([]byte(`{"a":"1"}`))
	}))
	t.Cleanup(srv.Close)

	f := client.NewFetcher(staticResolver(srv.URL + "/translations/"))

	_, err := f.Fetch(t.Context(), "en-US")
	require.NoError(t, err)
	require.Equal(t, "/translations/en-US.json", gotPath.Load())
}

func TestFetchCanonicalizesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{\n  \"b\" : \"2\",\n  \"a\" : \"1\"\n}"))
	}))
	t.Cleanup(srv.Close)

	f := client.NewFetcher(staticResolver(srv.URL + "/"))

	content, err := f.Fetch(t.Context(), "en")
	require.NoError(t, err)
	require.Equal(t, `{"a":"1","b":"2"}`, string(content))
}

func TestFetchRetriesTransientServerErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"a":"1"}`))
	}))
	t.Cleanup(srv.Close)

	f := client.NewFetcher(staticResolver(srv.URL+"/"), client.WithHTTPMaxAttempts(3))

	content, err := f.Fetch(t.Context(), "en")
	require.NoError(t, err)
	require.Equal(t, `{"a":"1"}`, string(content))
	require.EqualValues(t, 2, calls.Load())
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	f := client.NewFetcher(staticResolver(srv.URL+"/"), client.WithHTTPMaxAttempts(2))

	_, err := f.Fetch(t.Context(), "en")
	require.Error(t, err)
	require.EqualValues(t, 2, calls.Load())
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	f := client.NewFetcher(staticResolver(srv.URL + "/"))

	_, err := f.Fetch(t.Context(), "en")
	require.Error(t, err)
	require.EqualValues(t, 1, calls.Load())
}

func TestFetchTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"a":"1"}`))
	}))
	t.Cleanup(srv.Close)

	f := client.NewFetcher(staticResolver(srv.URL+"/"),
		client.WithHTTPTimeout(30*time.Millisecond),
		client.WithHTTPMaxAttempts(1))

	_, err := f.Fetch(t.Context(), "en")
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestFetchRejectsUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	t.Cleanup(srv.Close)

	f := client.NewFetcher(staticResolver(srv.URL + "/"))

	_, err := f.Fetch(t.Context(), "en")
	require.Error(t, err)
}

func TestFetchCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	f := client.NewFetcher(staticResolver(srv.URL+"/"), client.WithHTTPMaxAttempts(5))

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := f.Fetch(ctx, "en")
	require.Error(t, err)
}
