// Package domain translates MCP tool and resource calls into estimator API
// requests and surfaces structured outputs that MCP clients can render.
package domain
