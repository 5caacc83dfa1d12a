// Package service wires protocol transport to the estimator MCP bridge.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio and delegates business meaning to domain handlers.
package service
