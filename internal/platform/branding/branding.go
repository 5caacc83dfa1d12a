// Package branding centralizes user-facing product naming.
package branding

// AppName is the product name shown in page titles, CLI output, and the
// MCP server identity.
const AppName = "Threepoint"

// EnvPrefix is the prefix shared by every configuration environment
// variable.
const EnvPrefix = "THREEPOINT"
