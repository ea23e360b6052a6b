// Package api is the HTTP client for the remote bookmark REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/linkshelf/linkshelf/internal/errors"
	"github.com/linkshelf/linkshelf/internal/id"
	"github.com/linkshelf/linkshelf/internal/ratelimit"
)

const (
	defaultTimeout         = 15 * time.Second
	defaultRPS             = 10.0
	defaultBurst           = 20
	defaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second

	userAgent = "linkshelf/1.0"

	// Headers attached to outbound requests.
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// TokenSource returns the current bearer token, or "" when signed out.
type TokenSource func() string

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	BreakerFailures   int
	BreakerCooldown   time.Duration

	// HTTPClient replaces the default client, mostly for tests.
	HTTPClient *http.Client
}

// Client is a rate-limited client for the bookmark API.
// Requests that fail at the transport level or with a 5xx trip a circuit
// breaker; while it is open calls fail fast with an unavailable error.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	breaker *gobreaker.CircuitBreaker
	token   TokenSource
	logger  *slog.Logger
}

// New creates a new API client. token may be nil for anonymous use.
func New(opts Options, token TokenSource, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.BreakerFailures <= 0 {
		opts.BreakerFailures = defaultBreakerFailures
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = defaultBreakerCooldown
	}
	if token == nil {
		token = func() string { return "" }
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	failures := uint32(opts.BreakerFailures)
	c := &Client{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		http:    httpClient,
		limiter: ratelimit.New(opts.RequestsPerSecond, opts.Burst),
		token:   token,
		logger:  logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "bookmark-api",
		Timeout: opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return c
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// countsAsSuccess keeps client-side rejections (4xx, cancelled contexts)
// out of the breaker's failure count.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var e *errors.Error
	if errors.As(err, &e) {
		return e.Code != errors.CodeTransport && e.Status < 500
	}
	return false
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// idempotent adds an Idempotency-Key so a retried create is not applied twice.
	idempotent bool
}

// do executes req and decodes a successful body into out (which may be nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	resource := resourceOf(req.path)
	if err := c.limiter.Wait(ctx, resource); err != nil {
		return errors.Wrap(err, errors.CodeTransport, "rate limit wait")
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.roundTrip(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return errors.Unavailable("bookmark API temporarily unavailable").WithCause(err)
		}
		return err
	}

	body, _ := result.([]byte)
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, errors.CodeInternal, "decode %s %s response", req.method, req.path)
	}
	return nil
}

// roundTrip performs the HTTP exchange and maps non-2xx responses to errors.
func (c *Client) roundTrip(ctx context.Context, req request) ([]byte, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeInternal, "encode %s %s body", req.method, req.path)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create request")
	}

	requestID := id.MustGenerate("req")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set(HeaderRequestID, requestID)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.idempotent {
		httpReq.Header.Set(HeaderIdempotencyKey, uuid.NewString())
	}
	if token := c.token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrapf(err, errors.CodeTransport, "%s %s", req.method, req.path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeTransport, "read response")
	}

	c.logger.Debug("api request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}
	return nil, parseErrorResponse(resp.StatusCode, data)
}

// resourceOf returns the first path segment, used as the rate limit key.
func resourceOf(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

func idPath(resource string, id int64, suffix ...string) string {
	p := fmt.Sprintf("/%s/%d", resource, id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
