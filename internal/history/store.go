package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"airlift/internal/release"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Entry records one completed publish.
type Entry struct {
	ID              int64
	AppID           string
	ReleaseID       int64
	Version         string
	Platform        release.Platform
	FlutterRevision string
	PublishedAt     time.Time
}

// Store keeps a local record of completed publishes, backed by SQLite. It is
// an audit convenience only; the remote service stays authoritative.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record appends a publish entry.
func (s *Store) Record(ctx context.Context, entry Entry) (*Entry, error) {
	publishedAt := entry.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO publishes (app_id, release_id, version, platform, flutter_revision, published_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		entry.AppID,
		entry.ReleaseID,
		entry.Version,
		string(entry.Platform),
		entry.FlutterRevision,
		publishedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert publish record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read insert id: %w", err)
	}
	entry.ID = id
	entry.PublishedAt = publishedAt
	return &entry, nil
}

// List returns publish entries for the app, newest first. Limit bounds the
// result size (0 means unlimited).
func (s *Store) List(ctx context.Context, appID string, limit int) ([]Entry, error) {
	query := `SELECT id, app_id, release_id, version, platform, flutter_revision, published_at
              FROM publishes WHERE app_id = ? ORDER BY published_at DESC, id DESC`
	args := []any{appID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query publishes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var platform, publishedAt string
		if err := rows.Scan(&entry.ID, &entry.AppID, &entry.ReleaseID, &entry.Version, &platform, &entry.FlutterRevision, &publishedAt); err != nil {
			return nil, fmt.Errorf("scan publish row: %w", err)
		}
		entry.Platform = release.Platform(platform)
		ts, err := time.Parse(time.RFC3339Nano, publishedAt)
		if err != nil {
			return nil, fmt.Errorf("parse published_at %q: %w", publishedAt, err)
		}
		entry.PublishedAt = ts
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return tx.Commit()
}
