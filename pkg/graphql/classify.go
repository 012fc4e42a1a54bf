package graphql

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FailureKind is the uniform category assigned to a failed execution.
type FailureKind string

const (
	KindRateLimited  FailureKind = "rate_limited"
	KindUnauthorized FailureKind = "unauthorized"
	KindNotFound     FailureKind = "not_found"
	KindInvalid      FailureKind = "invalid"
	KindTransient    FailureKind = "transient"
	KindUnknown      FailureKind = "unknown"
)

// RemoteError is a single error entry from a GraphQL response body.
type RemoteError struct {
	Message    string         `json:"message"`
	Type       string         `json:"type,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Failure is the classified outcome of a failed execution. It carries the
// original remote errors so callers can log full diagnostics even when they
// surface only the summary message.
type Failure struct {
	Kind       FailureKind
	Message    string
	Retriable  bool
	StatusCode int
	Errors     []RemoteError
}

func (f *Failure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("github graphql: %s (%s, status %d)", f.Message, f.Kind, f.StatusCode)
	}
	return fmt.Sprintf("github graphql: %s (%s)", f.Message, f.Kind)
}

// KindOf extracts the failure kind from any error returned by Execute.
// Non-Failure errors report KindUnknown.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}

// RateLimitSignal reports whether an HTTP status or remote error list
// indicates throttling. It is a swappable predicate because GitHub signals
// rate limits two ways: a RATE_LIMITED error type in a 200 response, and
// an HTTP 429 (or secondary-limit 403 with Retry-After) rejection.
type RateLimitSignal func(statusCode int, errs []RemoteError) bool

// DefaultRateLimitSignal detects HTTP 429 and RATE_LIMITED error entries.
func DefaultRateLimitSignal(statusCode int, errs []RemoteError) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	for _, e := range errs {
		if classifyOne(e) == KindRateLimited {
			return true
		}
	}
	return false
}

// precedence orders kinds from most to least severe. An auth failure makes
// every other error in the same response uninformative, so it wins.
var precedence = map[FailureKind]int{
	KindUnauthorized: 5,
	KindRateLimited:  4,
	KindNotFound:     3,
	KindInvalid:      2,
	KindUnknown:      1,
}

// classifyOne maps a single remote error to a kind using its type marker,
// falling back to message sniffing for untyped rate-limit rejections.
func classifyOne(e RemoteError) FailureKind {
	switch strings.ToUpper(e.Type) {
	case "RATE_LIMITED":
		return KindRateLimited
	case "FORBIDDEN", "INSUFFICIENT_SCOPES":
		return KindUnauthorized
	case "NOT_FOUND":
		return KindNotFound
	}
	msg := strings.ToLower(e.Message)
	switch {
	case strings.Contains(msg, "rate limit"):
		return KindRateLimited
	case strings.Contains(msg, "bad credentials"), strings.Contains(msg, "must be logged in"):
		return KindUnauthorized
	case e.Message == "":
		return KindUnknown
	}
	return KindInvalid
}

// ClassifyErrors reduces a remote error list to a single Failure using the
// severity precedence Unauthorized > RateLimited > NotFound > Invalid >
// Unknown. Only a rate-limit classification is retriable.
func ClassifyErrors(statusCode int, errs []RemoteError) *Failure {
	kind := KindUnknown
	for _, e := range errs {
		if k := classifyOne(e); precedence[k] > precedence[kind] {
			kind = k
		}
	}
	message := "remote returned errors"
	for _, e := range errs {
		if classifyOne(e) == kind && e.Message != "" {
			message = e.Message
			break
		}
	}
	return &Failure{
		Kind:       kind,
		Message:    message,
		Retriable:  kind == KindRateLimited,
		StatusCode: statusCode,
		Errors:     errs,
	}
}

// classifyStatus maps a non-200 HTTP response to a Failure. Remote errors
// parsed from the body, if any, are preserved for diagnostics.
func classifyStatus(statusCode int, errs []RemoteError, signal RateLimitSignal) *Failure {
	if signal(statusCode, errs) {
		return &Failure{
			Kind:       KindRateLimited,
			Message:    "rate limit exceeded",
			Retriable:  true,
			StatusCode: statusCode,
			Errors:     errs,
		}
	}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &Failure{
			Kind:       KindUnauthorized,
			Message:    fmt.Sprintf("authentication rejected (status %d)", statusCode),
			StatusCode: statusCode,
			Errors:     errs,
		}
	case statusCode == http.StatusNotFound:
		return &Failure{
			Kind:       KindNotFound,
			Message:    "endpoint not found",
			StatusCode: statusCode,
			Errors:     errs,
		}
	case statusCode >= 500:
		return &Failure{
			Kind:       KindTransient,
			Message:    fmt.Sprintf("server error (status %d)", statusCode),
			Retriable:  true,
			StatusCode: statusCode,
			Errors:     errs,
		}
	}
	return &Failure{
		Kind:       KindUnknown,
		Message:    fmt.Sprintf("unexpected status %d", statusCode),
		Retriable:  true,
		StatusCode: statusCode,
		Errors:     errs,
	}
}
