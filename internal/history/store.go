// Package history records completed subtitle downloads in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded subtitle download.
type Entry struct {
	ID         int64
	MediaID    string
	Title      string
	Scraper    string
	Language   string
	Special    string
	Path       string
	DownloadAt time.Time
}

// Store manages download history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    media_id TEXT NOT NULL,
    title TEXT NOT NULL,
    scraper TEXT NOT NULL,
    language TEXT NOT NULL,
    special TEXT NOT NULL DEFAULT '',
    path TEXT NOT NULL,
    downloaded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_downloads_media ON downloads(media_id);
`

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
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

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a completed download and returns it with its assigned ID.
func (s *Store) Record(ctx context.Context, entry Entry) (*Entry, error) {
	if entry.DownloadAt.IsZero() {
		entry.DownloadAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO downloads (media_id, title, scraper, language, special, path, downloaded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.MediaID,
		entry.Title,
		entry.Scraper,
		entry.Language,
		entry.Special,
		entry.Path,
		entry.DownloadAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert download: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return &entry, nil
}

// List returns the most recent downloads, newest first, up to limit.
// A non-positive limit returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, media_id, title, scraper, language, special, path, downloaded_at
              FROM downloads ORDER BY downloaded_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query downloads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate downloads: %w", err)
	}
	return entries, nil
}

// Seen reports whether a media ID already has a download for the given
// language and special type.
func (s *Store) Seen(ctx context.Context, mediaID, lang, special string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM downloads WHERE media_id = ? AND language = ? AND special = ?`,
		mediaID, lang, special,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query seen: %w", err)
	}
	return count > 0, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var entry Entry
	var downloadedAt string
	if err := rows.Scan(
		&entry.ID,
		&entry.MediaID,
		&entry.Title,
		&entry.Scraper,
		&entry.Language,
		&entry.Special,
		&entry.Path,
		&downloadedAt,
	); err != nil {
		return Entry{}, fmt.Errorf("scan download: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, downloadedAt); err == nil {
		entry.DownloadAt = ts
	}
	return entry, nil
}
