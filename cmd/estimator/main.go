// Package main starts the estimator HTTP service and handles termination.
//
// The process owns the history store and serves the JSON API and web UI; the
// MCP bridge and the estimate CLI are separate processes that reach it over
// HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	estimatorcmd "github.com/louisbranch/threepoint/internal/cmd/estimator"
)

func main() {
	cfg, err := estimatorcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ESTIMATOR] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := estimatorcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
