// Package mcp exposes the GitHub Projects MCP server for programmatic
// embedding, without reaching into the internal infrastructure layer.
package mcp

import (
	"log/slog"

	"github.com/felixgeelhaar/ghprojects/internal/infrastructure/config"
	infra "github.com/felixgeelhaar/ghprojects/internal/infrastructure/mcp"
)

// Server exposes the MCP server implementation from the infrastructure layer.
type Server = infra.Server

// NewServer constructs an MCP server from a loaded configuration.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	return infra.NewServer(cfg, logger)
}
