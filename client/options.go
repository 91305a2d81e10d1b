package client

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultIdleTimeout  = 90 * time.Second
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 200 * time.Millisecond
)

// HTTPOption configures origin fetch behaviour.
type HTTPOption func(*httpConfig)

// httpConfig holds HTTP client configuration.
type httpConfig struct {
	timeout     time.Duration
	transport   http.RoundTripper
	idleTimeout time.Duration
	maxAttempts int

	traceRequests       bool
	traceRequestHeaders bool
}

func newHTTPConfig(opts ...HTTPOption) *httpConfig {
	cfg := &httpConfig{
		timeout:     defaultTimeout,
		idleTimeout: defaultIdleTimeout,
		transport:   otelhttp.NewTransport(http.DefaultTransport),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithHTTPTimeout sets the per-fetch timeout.
func WithHTTPTimeout(timeout time.Duration) HTTPOption {
	return func(c *httpConfig) {
		c.timeout = timeout
	}
}

// WithHTTPTransport sets the HTTP transport.
func WithHTTPTransport(transport http.RoundTripper) HTTPOption {
	return func(c *httpConfig) {
		c.transport = transport
	}
}

// WithHTTPIdleTimeout sets the idle connection timeout.
func WithHTTPIdleTimeout(timeout time.Duration) HTTPOption {
	return func(c *httpConfig) {
		c.idleTimeout = timeout
	}
}

// WithHTTPMaxAttempts sets how many times a fetch is attempted before the
// failure is reported. Only transient server errors are retried.
func WithHTTPMaxAttempts(attempts int) HTTPOption {
	return func(c *httpConfig) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithHTTPTraceRequests enables request and response logging.
func WithHTTPTraceRequests() HTTPOption {
	return func(c *httpConfig) {
		c.traceRequests = true
	}
}

// WithHTTPTraceRequestHeaders enables header logging alongside request logging.
// Note: headers may contain sensitive information.
func WithHTTPTraceRequestHeaders() HTTPOption {
	return func(c *httpConfig) {
		c.traceRequestHeaders = true
	}
}

// NewHTTPClient creates an HTTP client with the provided options.
// If no transport is specified it defaults to otelhttp.NewTransport(http.DefaultTransport).
func NewHTTPClient(opts ...HTTPOption) *http.Client {
	cfg := newHTTPConfig(opts...)

	if t, ok := cfg.transport.(*http.Transport); ok && cfg.idleTimeout > 0 {
		t.IdleConnTimeout = cfg.idleTimeout
	}

	transport := cfg.transport
	if cfg.traceRequests {
		transport = NewLoggingTransport(transport,
			WithTransportLogHeaders(cfg.traceRequestHeaders))
	}

	return &http.Client{
		Transport: transport,
	}
}
