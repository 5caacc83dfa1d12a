// Package server wires the estimator runtime: the history store, the
// domain service, the JSON API, and the web UI behind one HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/threepoint/internal/platform/timeouts"
	"github.com/louisbranch/threepoint/internal/services/estimator"
	"github.com/louisbranch/threepoint/internal/services/estimator/api"
	"github.com/louisbranch/threepoint/internal/services/estimator/platform/httpx"
	"github.com/louisbranch/threepoint/internal/services/estimator/storage"
	estimatorbolt "github.com/louisbranch/threepoint/internal/services/estimator/storage/bolt"
	estimatorsqlite "github.com/louisbranch/threepoint/internal/services/estimator/storage/sqlite"
	"github.com/louisbranch/threepoint/internal/services/estimator/web"
)

// History store drivers accepted by Config.DBDriver.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Config defines the inputs for the estimator process.
type Config struct {
	HTTPAddr          string
	DBDriver          string
	DBPath            string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server hosts the estimator HTTP process and owns the history store
// lifecycle.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
	store           storage.HistoryStore
}

// NewServer builds a configured estimator server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = timeouts.Shutdown
	}

	store, err := openHistoryStore(config.DBDriver, config.DBPath)
	if err != nil {
		return nil, err
	}

	service := estimator.NewService(store, nil, nil)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           NewHandler(service),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	return &Server{
		httpAddr:        httpAddr,
		shutdownTimeout: config.ShutdownTimeout,
		httpServer:      httpServer,
		store:           store,
	}, nil
}

// NewHandler mounts the JSON API and the web UI on one mux wrapped with the
// shared middleware chain.
func NewHandler(service *estimator.Service) http.Handler {
	mux := http.NewServeMux()
	api.Register(mux, service)
	web.Register(mux, service)
	return httpx.Chain(
		mux,
		httpx.RequestID(),
		httpx.RecoverPanic(),
		httpx.LogRequests("estimator"),
	)
}

// Run creates and serves an estimator server until the context ends.
func Run(ctx context.Context, config Config) error {
	server, err := NewServer(config)
	if err != nil {
		return fmt.Errorf("init estimator server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve estimator: %w", err)
	}
	return nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("estimator server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	log.Printf("estimator listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the history store held by the server.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close history store: %v", err)
		}
	}
}

func openHistoryStore(driver, path string) (storage.HistoryStore, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = DriverSQLite
	}
	if strings.TrimSpace(path) == "" {
		path = filepath.Join("data", "estimator.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	switch driver {
	case DriverSQLite:
		store, err := estimatorsqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite history store: %w", err)
		}
		return store, nil
	case DriverBolt:
		store, err := estimatorbolt.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bolt history store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown history store driver %q", driver)
	}
}
