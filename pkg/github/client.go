// Package github exposes the GitHub Projects v2 operation catalog: typed
// queries and mutations executed through the retrying GraphQL client.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	gogithub "github.com/google/go-github/v69/github"

	"github.com/felixgeelhaar/ghprojects/pkg/graphql"
)

// maxPageSize is GitHub's hard pagination limit.
const maxPageSize = 100

// Config extends the GraphQL client settings with the REST base URL used
// for content ID resolution. RESTEndpoint is only overridden in tests and
// GitHub Enterprise deployments.
type Config struct {
	graphql.Config
	RESTEndpoint string
}

// Client is the GitHub Projects v2 API client. All operations go through
// the retrying GraphQL core; the embedded REST client shares its
// authenticated transport.
type Client struct {
	gql    *graphql.Client
	rest   *gogithub.Client
	logger *slog.Logger
}

// NewClient builds a Projects client. Fails fast when no token is
// configured, before any request can be issued.
func NewClient(cfg Config) (*Client, error) {
	gql, err := graphql.New(cfg.Config)
	if err != nil {
		return nil, err
	}

	rest := gogithub.NewClient(gql.HTTPClient())
	if cfg.RESTEndpoint != "" {
		rest, err = rest.WithEnterpriseURLs(cfg.RESTEndpoint, cfg.RESTEndpoint)
		if err != nil {
			return nil, fmt.Errorf("configure REST endpoint: %w", err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{gql: gql, rest: rest, logger: logger}, nil
}

// clampPageSize enforces GitHub's pagination bounds.
func clampPageSize(first int) int {
	if first > maxPageSize {
		return maxPageSize
	}
	if first < 1 {
		return 1
	}
	return first
}

// execute runs a catalog operation and decodes the data payload into out.
func (c *Client) execute(ctx context.Context, req graphql.Request, out any) error {
	data, err := c.gql.Execute(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.OperationName, err)
	}
	return nil
}
