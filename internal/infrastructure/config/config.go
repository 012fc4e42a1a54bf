// Package config loads server configuration from defaults, an optional
// ghprojects.yaml file, and environment variables. Env vars win over the
// file, which wins over defaults.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/felixgeelhaar/ghprojects/pkg/graphql"
)

const (
	DefaultTransport = "stdio"
	DefaultHost      = "localhost"
	DefaultPort      = 8000
)

// envKeys maps the supported environment variables to config keys. Every
// other variable is ignored by the env provider.
var envKeys = map[string]string{
	"GITHUB_TOKEN":               "token",
	"GITHUB_API_MAX_RETRIES":     "max_retries",
	"GITHUB_API_RETRY_DELAY":     "retry_delay",
	"GITHUB_API_REQUEST_TIMEOUT": "request_timeout",
	"GITHUB_GRAPHQL_ENDPOINT":    "endpoint",
	"MCP_TRANSPORT":              "transport",
	"MCP_HOST":                   "host",
	"MCP_PORT":                   "port",
	"LOG_LEVEL":                  "log_level",
}

// Config is the process-wide configuration. Loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Token          string `koanf:"token"`
	MaxRetries     int    `koanf:"max_retries"`
	RetryDelay     int    `koanf:"retry_delay"`     // seconds
	RequestTimeout int    `koanf:"request_timeout"` // seconds
	Endpoint       string `koanf:"endpoint"`
	Transport      string `koanf:"transport"`
	Host           string `koanf:"host"`
	Port           int    `koanf:"port"`
	LogLevel       string `koanf:"log_level"`
}

// Load reads configuration. cfgFile may be empty; when it is, ghprojects.yaml
// in the working directory is used if present.
func Load(cfgFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"max_retries":     graphql.DefaultMaxRetries,
		"retry_delay":     int(graphql.DefaultRetryDelay / time.Second),
		"request_timeout": int(graphql.DefaultRequestTimeout / time.Second),
		"endpoint":        graphql.DefaultEndpoint,
		"transport":       DefaultTransport,
		"host":            DefaultHost,
		"port":            DefaultPort,
		"log_level":       "info",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat("ghprojects.yaml"); err == nil {
			cfgFile = "ghprojects.yaml"
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Transport = strings.ToLower(cfg.Transport)
	return &cfg, nil
}

// Validate checks the loaded configuration. A missing token refuses
// startup before any client is constructed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return graphql.ErrMissingToken
	}
	switch c.Transport {
	case "stdio", "http", "ws":
	default:
		return fmt.Errorf("invalid transport %q: must be stdio, http, or ws", c.Transport)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be non-negative, got %d", c.RetryDelay)
	}
	return nil
}

// Addr is the listen address for the http and ws transports.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ClientConfig translates the loaded settings into the GraphQL client's
// execution config.
func (c *Config) ClientConfig(logger *slog.Logger) graphql.Config {
	return graphql.Config{
		Token:          c.Token,
		MaxRetries:     c.MaxRetries,
		RetryDelay:     time.Duration(c.RetryDelay) * time.Second,
		RequestTimeout: time.Duration(c.RequestTimeout) * time.Second,
		Endpoint:       c.Endpoint,
		Logger:         logger,
	}
}

// SlogLevel maps the configured log level to a slog.Level. Unknown values
// fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
