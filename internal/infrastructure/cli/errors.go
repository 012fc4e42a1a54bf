package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/ghprojects/pkg/domain/projects"
	"github.com/felixgeelhaar/ghprojects/pkg/graphql"
)

// CLIError wraps failures with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s\nHint: %s", e.Message, e.Hint)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known failures into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, graphql.ErrMissingToken) {
		return NewCLIError(
			"no GitHub token configured",
			"Set GITHUB_TOKEN to a personal access token with project scopes",
			err,
		)
	}
	if errors.Is(err, projects.ErrForbiddenKeyword) {
		return NewCLIError(
			"query contains a forbidden keyword",
			"Custom queries must be read-only: no mutations, subscriptions, or introspection",
			err,
		)
	}

	var f *graphql.Failure
	if errors.As(err, &f) {
		switch f.Kind {
		case graphql.KindRateLimited:
			return NewCLIError(
				"GitHub rate limit exceeded",
				"Wait for the limit window to reset, or lower request volume",
				err,
			)
		case graphql.KindUnauthorized:
			return NewCLIError(
				"GitHub rejected the token",
				"Check that GITHUB_TOKEN is valid and has read:project / project scopes",
				err,
			)
		case graphql.KindNotFound:
			return NewCLIError(
				f.Message,
				"Check the ID or login, and that the token can see the resource",
				err,
			)
		case graphql.KindTransient:
			return NewCLIError(
				"GitHub is unreachable",
				"Check network connectivity and retry",
				err,
			)
		}
	}

	return err
}
