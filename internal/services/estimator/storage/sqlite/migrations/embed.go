package migrations

import "embed"

// FS contains embedded SQLite migrations for estimator history storage.
//
//go:embed *.sql
var FS embed.FS
