package static

import "embed"

// FS exposes estimator page assets for HTTP serving.
//
//go:embed *.css *.js
var FS embed.FS
