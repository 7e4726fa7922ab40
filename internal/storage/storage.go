package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"dupfinder/internal/models"
)

// Storage persists one ImageRecord per tracked file in SQLite. It doubles as
// the hash cache: a path that Exists is never fingerprinted again.
type Storage struct {
	db     *sql.DB
	dbPath string
}

// NewStorage opens (creating if necessary) the database at dbPath.
func NewStorage(dbPath string) (*Storage, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Storage{db: db, dbPath: dbPath}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

const schemaVersion = 1

// init creates the database schema
func (s *Storage) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS images (
		path TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		file_size INTEGER NOT NULL DEFAULT 0,
		image_size TEXT NOT NULL DEFAULT '',
		capture_time TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_images_fingerprint ON images(fingerprint);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	_, err := s.db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, schemaVersion)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Insert stores a new record. Inserting a path that is already tracked is a
// logged no-op reported as AlreadyExists: the stored fingerprint is never
// overwritten.
func (s *Storage) Insert(rec *models.ImageRecord) (models.InsertOutcome, error) {
	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO images (path, fingerprint, file_size, image_size, capture_time)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Path, rec.Fingerprint, rec.FileSize, rec.ImageSize, rec.CaptureTime)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s: %w", rec.Path, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s: %w", rec.Path, err)
	}
	if n == 0 {
		slog.Debug("record already tracked", "path", rec.Path)
		return models.AlreadyExists, nil
	}
	return models.Inserted, nil
}

// Exists reports whether a record for path is tracked.
func (s *Storage) Exists(path string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM images WHERE path = ?`, path).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", path, err)
	}
	return count > 0, nil
}

// Delete removes the record for path. Deleting an untracked path is a no-op.
func (s *Storage) Delete(path string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE path = ?`, path)
	return err
}

// DeleteUnder removes every record whose path is dir itself or lies under it,
// returning the number of records removed. Files that no longer exist on disk
// are untracked along with the rest.
func (s *Storage) DeleteUnder(dir string) (int64, error) {
	prefix := filepath.Clean(dir)
	pattern := likeEscape(prefix) + string(filepath.Separator) + "%"
	res, err := s.db.Exec(`DELETE FROM images WHERE path = ? OR path LIKE ? ESCAPE '\'`,
		prefix, pattern)
	if err != nil {
		return 0, fmt.Errorf("failed to delete under %s: %w", dir, err)
	}
	return res.RowsAffected()
}

// likeEscape escapes LIKE wildcards so directory names containing _ or %
// match literally instead of acting as patterns.
func likeEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Clear drops all records.
func (s *Storage) Clear() error {
	_, err := s.db.Exec(`DELETE FROM images`)
	return err
}

// Count returns the number of tracked records.
func (s *Storage) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM images`).Scan(&count)
	return count, err
}

// ListAll returns all tracked records ordered by path.
func (s *Storage) ListAll() ([]*models.ImageRecord, error) {
	rows, err := s.db.Query(`
		SELECT path, fingerprint, file_size, image_size, capture_time
		FROM images
		ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GroupByFingerprint returns one group per distinct fingerprint, including
// singletons; filtering by count is the caller's concern. Items within a
// group come back in insertion order (rowid), so the first item of a group
// is the earliest-added record.
func (s *Storage) GroupByFingerprint() ([]*models.DuplicateGroup, error) {
	rows, err := s.db.Query(`
		SELECT path, fingerprint, file_size, image_size, capture_time
		FROM images
		ORDER BY fingerprint, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	var groups []*models.DuplicateGroup
	var current *models.DuplicateGroup
	for _, rec := range records {
		if current == nil || current.Fingerprint != rec.Fingerprint {
			current = &models.DuplicateGroup{Fingerprint: rec.Fingerprint}
			groups = append(groups, current)
		}
		current.Items = append(current.Items, rec)
		current.Count++
	}

	return groups, nil
}

func scanRecords(rows *sql.Rows) ([]*models.ImageRecord, error) {
	var records []*models.ImageRecord
	for rows.Next() {
		rec := &models.ImageRecord{}
		err := rows.Scan(&rec.Path, &rec.Fingerprint, &rec.FileSize, &rec.ImageSize, &rec.CaptureTime)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
