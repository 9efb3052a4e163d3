// Package store persists the last Lovelace documents and registry payloads
// in SQLite so the service can build a dashboard before the broker has
// delivered anything.
package store
