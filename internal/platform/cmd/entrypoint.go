package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/threepoint/internal/platform/config"
	"github.com/louisbranch/threepoint/internal/platform/otel"
)

// otelShutdownTimeout bounds the flush of buffered spans after a run loop
// returns.
const otelShutdownTimeout = 5 * time.Second

// Service identifiers recorded on startup telemetry.
const (
	ServiceEstimator = "estimator"
	ServiceMCP       = "mcp"
)

// ParseConfig loads environment defaults into cfg. Commands register flags
// against the populated struct afterwards so flag values win.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags once env defaults are in place.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry sets up tracing for the named service, executes its run
// loop, and flushes telemetry once the loop returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
