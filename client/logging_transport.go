package client

import (
	"net/http"
	"time"

	"github.com/pitabwire/util"
)

// LoggingTransportOption configures the logging HTTP transport.
type LoggingTransportOption func(*loggingTransport)

// loggingTransport is an HTTP transport that logs requests and responses.
type loggingTransport struct {
	transport  http.RoundTripper
	logHeaders bool
}

// NewLoggingTransport wraps transport with request and response logging.
// Headers are not logged unless explicitly enabled.
func NewLoggingTransport(transport http.RoundTripper, opts ...LoggingTransportOption) http.RoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}

	t := &loggingTransport{
		transport: transport,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithTransportLogHeaders enables or disables header logging.
// Note: headers may contain sensitive information.
func WithTransportLogHeaders(enabled bool) LoggingTransportOption {
	return func(t *loggingTransport) {
		t.logHeaders = enabled
	}
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	ctx := req.Context()

	logger := util.Log(ctx).
		WithField("method", req.Method).
		WithField("url", req.URL.String())

	if t.logHeaders {
		logger = logger.WithField("headers", req.Header)
	}

	logger.Debug("outgoing request")

	resp, err := t.transport.RoundTrip(req)

	logger = logger.WithField("duration", time.Since(start).String())

	if err != nil {
		logger.WithError(err).Debug("request failed")
		return resp, err
	}

	logger.WithField("status", resp.StatusCode).Debug("request completed")

	return resp, nil
}
