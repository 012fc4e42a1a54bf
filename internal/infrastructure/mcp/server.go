// Package mcp exposes the GitHub Projects client as MCP tools over the
// stdio, HTTP, and WebSocket transports.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	mcp "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/ghprojects/internal/infrastructure/config"
	"github.com/felixgeelhaar/ghprojects/pkg/domain/projects"
	"github.com/felixgeelhaar/ghprojects/pkg/github"
	"github.com/felixgeelhaar/ghprojects/pkg/graphql"
)

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// Server wires the Projects client into an MCP tool surface.
type Server struct {
	mcpServer *mcp.Server
	client    *github.Client
	logger    *slog.Logger
}

// NewServer builds the MCP server. Construction fails when the config has
// no token, before any network call is attempted.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	client, err := github.NewClient(github.Config{Config: cfg.ClientConfig(logger)})
	if err != nil {
		return nil, fmt.Errorf("build github client: %w", err)
	}
	return newServerWithClient(client, logger), nil
}

// newServerWithClient wires a prebuilt client; the test seam.
func newServerWithClient(client *github.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	info := mcp.ServerInfo{
		Name:    "ghprojects",
		Version: Version,
	}
	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("GitHub Projects MCP Server"),
			mcp.WithDescription("Exposes GitHub Projects v2 boards, items, and fields to MCP clients."),
			mcp.WithWebsiteURL("https://github.com/felixgeelhaar/ghprojects"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Use tools to list projects, inspect items and fields, and manage boards. Project and item arguments take GraphQL node IDs; use resolve_content_id to turn owner/repo/number into one."),
		),
		client: client,
		logger: logger,
	}
	s.registerTools()
	s.registerSchemaResource()
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("get_organization_projects").
		Description("List projects for an organization (paginated, max 100 per page)").
		Handler(s.handleGetOrganizationProjects)

	s.mcpServer.Tool("get_user_projects").
		Description("List projects for a user (paginated, max 100 per page)").
		Handler(s.handleGetUserProjects)

	s.mcpServer.Tool("get_project").
		Description("Get a specific project by its node ID").
		Handler(s.handleGetProject)

	s.mcpServer.Tool("get_project_items").
		Description("List items in a project with their content and field values").
		Handler(s.handleGetProjectItems)

	s.mcpServer.Tool("get_project_items_advanced").
		Description("List project items with custom GraphQL field selections and filters").
		Handler(s.handleGetProjectItemsAdvanced)

	s.mcpServer.Tool("get_project_fields").
		Description("List fields in a project, including single-select options and iterations").
		Handler(s.handleGetProjectFields)

	s.mcpServer.Tool("execute_custom_query").
		Description("Execute a custom read-only GraphQL query (mutations and introspection are rejected)").
		Handler(s.handleExecuteCustomQuery)

	s.mcpServer.Tool("add_item_to_project").
		Description("Add an issue or pull request to a project by content node ID").
		Handler(s.handleAddItemToProject)

	s.mcpServer.Tool("update_item_field_value").
		Description("Update a field value for a project item").
		Handler(s.handleUpdateItemFieldValue)

	s.mcpServer.Tool("remove_item_from_project").
		Description("Remove an item from a project").
		Handler(s.handleRemoveItemFromProject)

	s.mcpServer.Tool("archive_item").
		Description("Archive an item in a project").
		Handler(s.handleArchiveItem)

	s.mcpServer.Tool("create_project").
		Description("Create a new project under an organization or user").
		Handler(s.handleCreateProject)

	s.mcpServer.Tool("update_project").
		Description("Update a project's title, description, readme, or visibility").
		Handler(s.handleUpdateProject)

	s.mcpServer.Tool("delete_project").
		Description("Delete a project").
		Handler(s.handleDeleteProject)

	s.mcpServer.Tool("get_rate_limit").
		Description("Get the authenticated token's GraphQL rate limit status").
		Handler(s.handleGetRateLimit)

	s.mcpServer.Tool("resolve_content_id").
		Description("Resolve an issue or pull request to its GraphQL node ID for add_item_to_project").
		Handler(s.handleResolveContentID)
}

// toolError logs the full failure and returns a friendly message for the
// MCP client. Raw remote detail stays in the server log.
func (s *Server) toolError(tool string, err error) error {
	s.logger.Error("tool failed", "tool", tool, "error", err)

	switch {
	case errors.Is(err, projects.ErrForbiddenKeyword):
		return fmt.Errorf("query rejected: only read-only queries without introspection are allowed")
	case errors.Is(err, projects.ErrEmptyQuery):
		return fmt.Errorf("query rejected: the query document is empty")
	}

	var f *graphql.Failure
	if !errors.As(err, &f) {
		return fmt.Errorf("GitHub request failed: %v", err)
	}
	switch f.Kind {
	case graphql.KindRateLimited:
		return fmt.Errorf("GitHub rate limit exceeded, wait for the window to reset and try again")
	case graphql.KindUnauthorized:
		return fmt.Errorf("GitHub rejected the token, check GITHUB_TOKEN and its project scopes")
	case graphql.KindNotFound:
		return fmt.Errorf("not found, check that the ID exists and the token can see it")
	case graphql.KindInvalid:
		return fmt.Errorf("GitHub rejected the request: %s", f.Message)
	case graphql.KindTransient:
		return fmt.Errorf("GitHub is unreachable right now, try again shortly")
	}
	return fmt.Errorf("GitHub request failed: %s", f.Message)
}

func (s *Server) Start() error {
	return s.StartStdio()
}

func (s *Server) StartStdio() error {
	return s.ServeStdio(context.Background())
}

func (s *Server) StartHTTP(addr string) error {
	return s.ServeHTTP(context.Background(), addr)
}

func (s *Server) StartWebSocket(addr string) error {
	return s.ServeWebSocket(context.Background(), addr)
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
