// Package cli wires the ghprojects commands.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ghprojects/internal/infrastructure/config"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "ghprojects",
	Version: Version,
	Short:   "GitHub Projects v2 over the Model Context Protocol",
	Long: `ghprojects exposes the GitHub Projects v2 GraphQL API as MCP tools.
It lets agents list boards, inspect items and fields, and manage projects
through a single authenticated, rate-limit-aware client.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a ghprojects.yaml config file")
}

// loadConfig loads and validates configuration for a command run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, MapError(err)
	}
	return cfg, nil
}

// newLogger builds the process logger. Output goes to stderr because
// stdout carries the stdio MCP transport.
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}
