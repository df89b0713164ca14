package migrations

import "embed"

// FS contains embedded SQLite migrations for classfund storage.
//
//go:embed *.sql
var FS embed.FS
