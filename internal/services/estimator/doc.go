// Package estimator implements three-point estimate orchestration over the
// pure pert core.
//
// It owns input validation, unit labels, defaults, history persistence, and
// aggregate insights so the HTTP, MCP, and CLI surfaces share one set of
// domain rules while the pert package stays total and arithmetic-only.
package estimator
