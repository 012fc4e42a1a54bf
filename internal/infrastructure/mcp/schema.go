package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"
)

// SchemaVersion is the current MCP tool schema version (semver).
const SchemaVersion = "1.0.0"

type schemaResponse struct {
	SchemaVersion string `json:"schema_version"`
	ServerVersion string `json:"server_version"`
	Endpoint      string `json:"endpoint"`
}

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource("ghprojects://schema").
		Name("ghprojects://schema").
		Description("MCP tool schema version info").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			resp := schemaResponse{
				SchemaVersion: SchemaVersion,
				ServerVersion: Version,
				Endpoint:      "https://api.github.com/graphql",
			}
			data, err := json.Marshal(resp)
			if err != nil {
				return nil, err
			}
			return &mcplib.ResourceContent{
				URI:      "ghprojects://schema",
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}
