// Package robusthttp builds HTTP clients with retries, used for fetching
// remote API reference documents.
package robusthttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultMaxBodySize caps documents read by Fetch.
const DefaultMaxBodySize = 64 << 20

var ErrTooLarge = errors.New("response body exceeds size limit")

type LeveledSlog struct {
	inner *slog.Logger
}

// re-writes HTTP client ERROR to WARN level (because of retries)
func (l LeveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l LeveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l LeveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Info(msg, keysAndValues...)
}

func (l LeveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

type config struct {
	retry   *retryablehttp.Client
	timeout time.Duration
}

type Option func(*config)

// WithMaxRetries sets the maximum number of retries for the HTTP client.
func WithMaxRetries(maxRetries int) Option {
	return func(c *config) {
		c.retry.RetryMax = maxRetries
	}
}

// WithRetryWait sets the bounds of the backoff between retries.
func WithRetryWait(waitMin, waitMax time.Duration) Option {
	return func(c *config) {
		c.retry.RetryWaitMin = waitMin
		c.retry.RetryWaitMax = waitMax
	}
}

// WithLogger sets a custom logger for the HTTP client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.retry.Logger = retryablehttp.LeveledLogger(LeveledSlog{inner: logger})
	}
}

// WithTransport sets a custom transport for the HTTP client.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *config) {
		c.retry.HTTPClient.Transport = transport
	}
}

// WithTimeout sets the overall per-request timeout, retries included.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// NewClient returns an HTTP client with the stdlib http.Client interface and
// Hashicorp retryablehttp logic internally.
//
// It retries on connection errors and 5xx status (except 501), logging
// intermediate failures at WARN level. Defaults are tuned for a CLI: few
// retries and a short overall timeout.
func NewClient(options ...Option) *http.Client {
	logger := LeveledSlog{inner: slog.Default().With("subsystem", "robusthttp")}
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Transport = otelhttp.NewTransport(cleanhttp.DefaultPooledTransport())
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(logger)
	retryClient.CheckRetry = DefaultRetryPolicy

	cfg := &config{
		retry:   retryClient,
		timeout: 30 * time.Second,
	}
	for _, option := range options {
		option(cfg)
	}

	client := retryClient.StandardClient()
	client.Timeout = cfg.timeout
	return client
}

// DefaultRetryPolicy is a custom wrapper around retryablehttp.DefaultRetryPolicy.
// It treats `429 Too Many Requests` as non-retryable.
func DefaultRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// Fetch GETs url and returns the body and its Content-Type. Non-2xx responses
// are errors. Bodies larger than maxBytes fail with ErrTooLarge; zero means
// DefaultMaxBodySize.
func Fetch(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("fetching %s: HTTP status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", url, err)
	}
	if int64(len(body)) > maxBytes {
		return nil, "", fmt.Errorf("fetching %s: %w (%d bytes)", url, ErrTooLarge, maxBytes)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
