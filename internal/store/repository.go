package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Document is a stored raw Lovelace document.
type Document struct {
	URLPath   string
	Body      []byte
	UpdatedAt time.Time
}

// Repository defines snapshot persistence operations.
type Repository interface {
	SaveDocument(ctx context.Context, urlPath string, body []byte) error
	GetDocument(ctx context.Context, urlPath string) (*Document, error)
	DeleteDocument(ctx context.Context, urlPath string) error

	SaveRegistry(ctx context.Context, kind string, payload []byte) error
	LoadRegistry(ctx context.Context) (map[string][]byte, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a repository over a migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// SaveDocument stores or replaces the document for a dashboard path.
func (r *SQLiteRepository) SaveDocument(ctx context.Context, urlPath string, body []byte) error {
	const query = `INSERT INTO dashboard_documents (url_path, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(url_path) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, urlPath, string(body), r.timestamp())
	if err != nil {
		return fmt.Errorf("saving dashboard document %q: %w", urlPath, err)
	}
	return nil
}

// GetDocument returns the stored document for a dashboard path.
func (r *SQLiteRepository) GetDocument(ctx context.Context, urlPath string) (*Document, error) {
	const query = `SELECT url_path, document, updated_at FROM dashboard_documents WHERE url_path = ?`

	var (
		doc       Document
		body      string
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx, query, urlPath).Scan(&doc.URLPath, &body, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading dashboard document %q: %w", urlPath, err)
	}
	doc.Body = []byte(body)
	doc.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt) //nolint:errcheck // Format is controlled
	return &doc, nil
}

// DeleteDocument removes a stored document.
func (r *SQLiteRepository) DeleteDocument(ctx context.Context, urlPath string) error {
	const query = `DELETE FROM dashboard_documents WHERE url_path = ?`
	res, err := r.db.ExecContext(ctx, query, urlPath)
	if err != nil {
		return fmt.Errorf("deleting dashboard document %q: %w", urlPath, err)
	}
	if n, _ := res.RowsAffected(); n == 0 { //nolint:errcheck // sqlite3 always reports rows affected
		return ErrNotFound
	}
	return nil
}

// SaveRegistry stores or replaces the payload for one registry kind.
func (r *SQLiteRepository) SaveRegistry(ctx context.Context, kind string, payload []byte) error {
	const query = `INSERT INTO registry_snapshots (kind, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, kind, string(payload), r.timestamp())
	if err != nil {
		return fmt.Errorf("saving registry %s: %w", kind, err)
	}
	return nil
}

// LoadRegistry returns every stored registry payload keyed by kind.
func (r *SQLiteRepository) LoadRegistry(ctx context.Context) (map[string][]byte, error) {
	const query = `SELECT kind, payload FROM registry_snapshots`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading registry snapshots: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("scanning registry snapshot: %w", err)
		}
		out[kind] = []byte(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registry snapshots: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}
