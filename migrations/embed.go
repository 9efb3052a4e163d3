// Package migrations embeds the snapshot store schema into the binary.
package migrations

import "embed"

// FS holds the *.sql migration files, passed to database.DB.Migrate.
//
//go:embed *.sql
var FS embed.FS
