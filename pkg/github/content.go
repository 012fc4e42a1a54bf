package github

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/ghprojects/pkg/domain/projects"
	"github.com/felixgeelhaar/ghprojects/pkg/graphql"
)

// RateLimit reports the authenticated token's GraphQL quota together with
// the viewer login. Used by the doctor command and the get_rate_limit tool.
func (c *Client) RateLimit(ctx context.Context) (*projects.Viewer, *projects.RateLimitInfo, error) {
	var resp struct {
		Viewer    projects.Viewer        `json:"viewer"`
		RateLimit projects.RateLimitInfo `json:"rateLimit"`
	}
	if err := c.execute(ctx, graphql.Request{
		Query:         queryRateLimit,
		OperationName: "GetRateLimit",
	}, &resp); err != nil {
		return nil, nil, err
	}
	return &resp.Viewer, &resp.RateLimit, nil
}

// ResolveIssueID returns the GraphQL node ID for an issue, so agents can
// pass human-friendly coordinates (owner, repo, number) to AddItem.
func (c *Client) ResolveIssueID(ctx context.Context, owner, repo string, number int) (string, error) {
	issue, _, err := c.rest.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return "", fmt.Errorf("resolve issue %s/%s#%d: %w", owner, repo, number, err)
	}
	return issue.GetNodeID(), nil
}

// ResolvePullRequestID returns the GraphQL node ID for a pull request.
func (c *Client) ResolvePullRequestID(ctx context.Context, owner, repo string, number int) (string, error) {
	pr, _, err := c.rest.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return "", fmt.Errorf("resolve pull request %s/%s#%d: %w", owner, repo, number, err)
	}
	return pr.GetNodeID(), nil
}
