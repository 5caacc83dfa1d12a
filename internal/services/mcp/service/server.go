package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/threepoint/internal/platform/branding"
	"github.com/louisbranch/threepoint/internal/platform/timeouts"
	"github.com/louisbranch/threepoint/internal/services/estimator/api"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

const (
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
	// estimatorURLEnvVar overrides the estimator API base URL.
	estimatorURLEnvVar = branding.EnvPrefix + "_ESTIMATOR_URL"
	// defaultEstimatorBaseURL targets a locally running estimator service.
	defaultEstimatorBaseURL = "http://localhost:8080"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP is reserved for future HTTP transport support.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	EstimatorBaseURL string
	Transport        TransportKind
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	client    *api.Client
}

// New creates a configured MCP server backed by the estimator API.
func New(baseURL string) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		CompletionHandler: completionHandler,
	})

	client := api.NewClient(estimatorBaseURL(baseURL), nil)

	registerEstimatorTools(mcpServer, client)
	registerEstimatorResources(mcpServer, client)

	return &Server{mcpServer: mcpServer, client: client}
}

// completionHandler handles completion/complete requests with empty results.
func completionHandler(ctx context.Context, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return &mcp.CompleteResult{
		Completion: mcp.CompletionResultDetails{
			Values: []string{},
		},
	}, nil
}

// Run creates and serves the MCP server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg.EstimatorBaseURL, &mcp.StdioTransport{})
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, baseURL string, transport mcp.Transport) error {
	server := New(baseURL)
	if err := server.waitForHealth(ctx); err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// waitForHealth blocks until the estimator API answers its health endpoint.
func (s *Server) waitForHealth(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("estimator client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	backoff := timeouts.HealthPoll
	for {
		callCtx, cancel := context.WithTimeout(ctx, time.Second)
		err := s.client.Health(callCtx)
		cancel()
		if err == nil {
			log.Printf("estimator health check is ok")
			return nil
		}
		log.Printf("waiting for estimator health: %v", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for estimator health: %w", ctx.Err())
		case <-time.After(backoff):
		}

		if backoff < time.Second {
			backoff *= 2
			if backoff > time.Second {
				backoff = time.Second
			}
		}
	}
}

// estimatorBaseURL resolves the estimator API base URL from the explicit
// fallback or env when empty.
func estimatorBaseURL(fallback string) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	if value := strings.TrimSpace(os.Getenv(estimatorURLEnvVar)); value != "" {
		return value
	}
	return defaultEstimatorBaseURL
}
