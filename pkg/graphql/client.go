// Package graphql implements the authenticated, retrying GraphQL client
// used by every GitHub Projects operation. It owns transport, rate-limit
// detection, and the translation of remote error shapes into a uniform
// Failure classification.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	DefaultEndpoint       = "https://api.github.com/graphql"
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = 60 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// ErrMissingToken is returned by New when no auth token is configured.
// This is a startup error, not a per-call failure: the client refuses to
// exist rather than send an unauthenticated request.
var ErrMissingToken = errors.New("github token is required")

// Config holds the immutable execution settings for a Client. It is read
// once at construction; the client never consults ambient state afterwards.
type Config struct {
	// Token is the GitHub personal access token. Required.
	Token string
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// RetryDelay is the fixed wait between attempts. GitHub's rate-limit
	// windows are coarse, so a fixed delay beats exponential backoff here.
	RetryDelay time.Duration
	// RequestTimeout bounds each individual attempt so a hung connection
	// cannot consume the whole retry budget.
	RequestTimeout time.Duration
	// Endpoint overrides the GraphQL URL. Defaults to the public API.
	Endpoint string
	// RateLimit overrides throttle detection. Defaults to
	// DefaultRateLimitSignal.
	RateLimit RateLimitSignal
	// Logger receives per-attempt diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// Request is a single GraphQL operation. Immutable per call.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Response is the raw GraphQL response envelope.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []RemoteError   `json:"errors"`
}

// Client executes GraphQL operations with bounded, rate-limit-aware retry.
// It holds no mutable state between calls and is safe for concurrent use.
type Client struct {
	http           *http.Client
	endpoint       string
	maxRetries     int
	retryDelay     time.Duration
	requestTimeout time.Duration
	rateLimit      RateLimitSignal
	logger         *slog.Logger
}

// New builds a Client from cfg. It fails fast on a missing token, before
// any network call is possible.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries must be non-negative, got %d", cfg.MaxRetries)
	}
	if cfg.RetryDelay < 0 {
		return nil, fmt.Errorf("retry delay must be non-negative, got %s", cfg.RetryDelay)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = DefaultRateLimitSignal
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	return &Client{
		http:           oauth2.NewClient(context.Background(), src),
		endpoint:       cfg.Endpoint,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
		requestTimeout: cfg.RequestTimeout,
		rateLimit:      cfg.RateLimit,
		logger:         cfg.Logger,
	}, nil
}

// HTTPClient exposes the authenticated transport so collaborators (the
// REST content resolver) can share the connection pool and credentials.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Execute runs one GraphQL operation and returns the decoded data payload.
// Every failure path returns a *Failure; no raw transport or parse error
// escapes this boundary.
//
// Attempts are bounded by MaxRetries+1. Rate-limited and transient
// outcomes wait RetryDelay and retry; an empty response (no data, no
// errors) is retried once; everything else terminates immediately.
func (c *Client) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, &Failure{Kind: KindInvalid, Message: "empty query document"}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &Failure{Kind: KindInvalid, Message: fmt.Sprintf("encode request: %v", err)}
	}

	requestID := uuid.NewString()
	attempts := c.maxRetries + 1
	unknownRetried := false

	var last *Failure
	for attempt := 1; attempt <= attempts; attempt++ {
		t := timeout.New[*attemptResult](timeout.Config{DefaultTimeout: c.requestTimeout})
		res, err := t.Execute(ctx, c.requestTimeout, func(ctx context.Context) (*attemptResult, error) {
			return c.attempt(ctx, body)
		})

		fail, data := c.evaluate(res, err)
		if fail == nil {
			c.logger.Debug("graphql request succeeded",
				"request_id", requestID, "attempt", attempt)
			return data, nil
		}

		last = fail
		if !fail.Retriable {
			c.logger.Debug("graphql request failed",
				"request_id", requestID, "attempt", attempt, "kind", fail.Kind, "error", fail.Message)
			return nil, fail
		}
		if fail.Kind == KindUnknown {
			if unknownRetried {
				return nil, fail
			}
			unknownRetried = true
		}
		if attempt == attempts {
			break
		}

		c.logger.Warn("graphql request failed, retrying",
			"request_id", requestID, "attempt", attempt, "kind", fail.Kind,
			"delay", c.retryDelay, "error", fail.Message)
		if cancelFail := c.wait(ctx); cancelFail != nil {
			return nil, cancelFail
		}
	}
	return nil, last
}

// attemptResult carries one attempt's HTTP status and parsed body.
type attemptResult struct {
	status int
	resp   Response
}

func (c *Client) attempt(ctx context.Context, body []byte) (*attemptResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "ghprojects/1.0")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	res := &attemptResult{status: httpResp.StatusCode}
	if httpResp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(raw, &res.resp); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return res, nil
	}

	// Non-200 bodies are best effort: GitHub returns either a GraphQL
	// envelope or a plain {"message": ...} object. Keep whatever parses.
	var rejected struct {
		Message string        `json:"message"`
		Errors  []RemoteError `json:"errors"`
	}
	if err := json.Unmarshal(raw, &rejected); err == nil {
		res.resp.Errors = rejected.Errors
		if len(res.resp.Errors) == 0 && rejected.Message != "" {
			res.resp.Errors = []RemoteError{{Message: rejected.Message}}
		}
	}
	return res, nil
}

// evaluate classifies one attempt's outcome. A nil Failure means success
// and data carries the payload.
func (c *Client) evaluate(res *attemptResult, err error) (*Failure, json.RawMessage) {
	if err != nil {
		return &Failure{Kind: KindTransient, Message: err.Error(), Retriable: true}, nil
	}
	if res.status != http.StatusOK {
		return classifyStatus(res.status, res.resp.Errors, c.rateLimit), nil
	}
	if len(res.resp.Errors) > 0 {
		fail := ClassifyErrors(res.status, res.resp.Errors)
		if fail.Kind != KindUnauthorized && fail.Kind != KindRateLimited &&
			c.rateLimit(res.status, res.resp.Errors) {
			fail = &Failure{
				Kind:       KindRateLimited,
				Message:    "rate limit exceeded",
				Retriable:  true,
				StatusCode: res.status,
				Errors:     res.resp.Errors,
			}
		}
		return fail, nil
	}
	if len(res.resp.Data) == 0 || bytes.Equal(res.resp.Data, []byte("null")) {
		return &Failure{
			Kind:      KindUnknown,
			Message:   "response carried neither data nor errors",
			Retriable: true,
		}, nil
	}
	return nil, res.resp.Data
}

// wait sleeps for the configured retry delay, aborting promptly if the
// caller cancels. Callers never wait out the retry budget after cancel.
func (c *Client) wait(ctx context.Context) *Failure {
	if c.retryDelay <= 0 {
		if err := ctx.Err(); err != nil {
			return &Failure{Kind: KindTransient, Message: fmt.Sprintf("canceled before retry: %v", err)}
		}
		return nil
	}
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return &Failure{Kind: KindTransient, Message: fmt.Sprintf("canceled while waiting to retry: %v", ctx.Err())}
	case <-timer.C:
		return nil
	}
}
