package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	inframcp "github.com/felixgeelhaar/ghprojects/internal/infrastructure/mcp"
)

var (
	mcpTransport string
	mcpAddr      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the GitHub Projects MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("GHPROJECTS_SKIP_MCP_START") == "true" {
			return nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("transport") {
			cfg.Transport = strings.ToLower(mcpTransport)
		}
		logger := newLogger(cfg)

		server, err := inframcp.NewServer(cfg, logger)
		if err != nil {
			return MapError(err)
		}

		addr := cfg.Addr()
		if cmd.Flags().Changed("addr") {
			addr = mcpAddr
		}

		switch cfg.Transport {
		case "stdio":
			err = server.StartStdio()
		case "http":
			logger.Info("serving MCP over HTTP", "addr", addr)
			err = server.StartHTTP(addr)
		case "ws", "websocket":
			logger.Info("serving MCP over WebSocket", "addr", addr)
			err = server.StartWebSocket(addr)
		default:
			err = fmt.Errorf("unsupported transport: %s", cfg.Transport)
		}
		return MapError(err)
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport to use (stdio, http, ws)")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", "", "Listen address for http/ws transports (overrides MCP_HOST/MCP_PORT)")
	RootCmd.AddCommand(mcpCmd)
}
