package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/threepoint/internal/services/estimator"
	"github.com/louisbranch/threepoint/internal/services/estimator/api"
	"github.com/louisbranch/threepoint/internal/testkit/estimatorfakes"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// failingTransport returns a connection error for tests.
type failingTransport struct{}

// Connect returns the configured error for tests.
func (f failingTransport) Connect(context.Context) (mcp.Connection, error) {
	return nil, errors.New("transport failure")
}

// startEstimatorBackend serves the estimator API for tests.
func startEstimatorBackend(t *testing.T) *httptest.Server {
	t.Helper()
	service := estimator.NewService(estimatorfakes.NewHistoryStore(), nil, nil)
	mux := http.NewServeMux()
	api.Register(mux, service)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestEstimatorBaseURLPrefersExplicit ensures an explicit address overrides env.
func TestEstimatorBaseURLPrefersExplicit(t *testing.T) {
	t.Setenv(estimatorURLEnvVar, "http://env.example:1")
	if got := estimatorBaseURL("http://explicit.example:1"); got != "http://explicit.example:1" {
		t.Fatalf("expected explicit address, got %q", got)
	}
}

// TestEstimatorBaseURLFallsBackToEnv ensures env configuration is used when no
// explicit address is set.
func TestEstimatorBaseURLFallsBackToEnv(t *testing.T) {
	t.Setenv(estimatorURLEnvVar, "http://env.example:1")
	if got := estimatorBaseURL(""); got != "http://env.example:1" {
		t.Fatalf("expected env address, got %q", got)
	}
}

// TestEstimatorBaseURLDefault ensures the local default applies last.
func TestEstimatorBaseURLDefault(t *testing.T) {
	t.Setenv(estimatorURLEnvVar, "")
	if got := estimatorBaseURL(""); got != defaultEstimatorBaseURL {
		t.Fatalf("expected default address, got %q", got)
	}
}

// TestNewConfiguresServer ensures New returns a configured server.
func TestNewConfiguresServer(t *testing.T) {
	server := New("http://localhost:8080")
	if server == nil || server.mcpServer == nil || server.client == nil {
		t.Fatal("expected configured server")
	}
}

// TestServeRequiresConfiguredServer ensures Serve returns an error when
// unconfigured.
func TestServeRequiresConfiguredServer(t *testing.T) {
	tests := []struct {
		name   string
		server *Server
	}{
		{name: "nil server", server: nil},
		{name: "missing mcp server", server: &Server{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.server.Serve(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

// TestRunRejectsUnknownTransport ensures unsupported transports fail fast.
func TestRunRejectsUnknownTransport(t *testing.T) {
	err := Run(context.Background(), Config{Transport: TransportKind("carrier-pigeon")})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Fatalf("error = %q, want not supported", err)
	}
}

// TestRunRejectsHTTPTransport ensures the reserved HTTP transport is not yet
// served.
func TestRunRejectsHTTPTransport(t *testing.T) {
	if err := Run(context.Background(), Config{Transport: TransportHTTP}); err == nil {
		t.Fatal("expected transport error")
	}
}

// TestServeStopsOnContext ensures serving exits when the context is cancelled.
func TestServeStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := startEstimatorBackend(t)
	server := New(backend.URL)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), time.Second)
	defer clientCancel()
	clientSession, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer clientSession.Close()

	cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

// TestRunStopsOnContext ensures the run path waits for health and exits when
// the context is cancelled.
func TestRunStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := startEstimatorBackend(t)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- runWithTransport(ctx, backend.URL, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), time.Second)
	defer clientCancel()
	clientSession, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer clientSession.Close()

	cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

// TestRunReturnsTransportError ensures transport failures surface.
func TestRunReturnsTransportError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	backend := startEstimatorBackend(t)

	if err := runWithTransport(ctx, backend.URL, failingTransport{}); err == nil {
		t.Fatal("expected transport error")
	}
}

// TestWaitForHealthReturnsWhenServing ensures a healthy backend unblocks.
func TestWaitForHealthReturnsWhenServing(t *testing.T) {
	backend := startEstimatorBackend(t)
	server := New(backend.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.waitForHealth(ctx); err != nil {
		t.Fatalf("wait for health: %v", err)
	}
}

// TestWaitForHealthStopsWhenContextEnds ensures an unhealthy backend does not
// block forever.
func TestWaitForHealthStopsWhenContextEnds(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(backend.Close)
	server := New(backend.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := server.waitForHealth(ctx)
	if err == nil {
		t.Fatal("expected health wait error")
	}
	if !strings.Contains(err.Error(), "wait for estimator health") {
		t.Fatalf("error = %q, want wait for estimator health wrap", err)
	}
}
