// Package database provides SQLite connectivity for the dashboard snapshot
// store.
//
// This package manages:
//   - Database connection with WAL mode for concurrent reads
//   - Versioned schema migrations read from an fs.FS
//
// Usage:
//
//	db, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    log.Fatal(err)
//	}
package database
