package migrations

import "embed"

// FS contains the embedded PostgreSQL migrations for the catalog.
//
//go:embed *.sql
var FS embed.FS
