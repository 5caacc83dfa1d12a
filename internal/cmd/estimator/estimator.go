// Package estimator parses estimator command flags and composes the HTTP
// entrypoint.
package estimator

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/threepoint/internal/platform/cmd"
	server "github.com/louisbranch/threepoint/internal/services/estimator/app"
)

// Config holds estimator command configuration.
type Config struct {
	HTTPAddr string `env:"THREEPOINT_ESTIMATOR_HTTP_ADDR" envDefault:":8080"`
	DBDriver string `env:"THREEPOINT_ESTIMATOR_DB_DRIVER" envDefault:"sqlite"`
	DBPath   string `env:"THREEPOINT_ESTIMATOR_DB_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "estimator HTTP listen address")
	fs.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "history store driver: sqlite or bolt")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "history store file path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the estimator app and serves HTTP until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceEstimator, func(context.Context) error {
		if err := server.Run(ctx, server.Config{
			HTTPAddr: cfg.HTTPAddr,
			DBDriver: cfg.DBDriver,
			DBPath:   cfg.DBPath,
		}); err != nil {
			return fmt.Errorf("serve estimator: %w", err)
		}
		return nil
	})
}
