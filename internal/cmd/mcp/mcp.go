// Package mcp parses MCP command flags and composes the stdio entrypoint.
package mcp

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/threepoint/internal/platform/cmd"
	"github.com/louisbranch/threepoint/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	EstimatorURL string `env:"THREEPOINT_ESTIMATOR_URL" envDefault:"http://localhost:8080"`
	Transport    string `env:"THREEPOINT_MCP_TRANSPORT" envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.EstimatorURL, "estimator-url", cfg.EstimatorURL, "estimator API base URL")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport type: stdio (http reserved)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(context.Context) error {
		if err := service.Run(ctx, service.Config{
			EstimatorBaseURL: cfg.EstimatorURL,
			Transport:        service.TransportKind(cfg.Transport),
		}); err != nil {
			return fmt.Errorf("serve MCP: %w", err)
		}
		return nil
	})
}
