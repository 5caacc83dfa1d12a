// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// HTTPRequest caps the time allowed for a single request from the MCP
// bridge or CLI to the estimator service.
const HTTPRequest = 5 * time.Second

// HealthPoll is the interval between readiness probes while waiting for a
// dependency to come up.
const HealthPoll = 250 * time.Millisecond
