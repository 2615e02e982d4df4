package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSlot stores the payload as a single row in an embedded SQLite
// database, one row per slot name. Expiry is judged from the row's
// updated_at column.
type SQLiteSlot struct {
	db        *sql.DB
	name      string
	retention time.Duration
	maxBytes  int
}

// NewSQLiteSlot opens or creates the database at dbPath and prepares the
// slot table.
func NewSQLiteSlot(dbPath, name string, retention time.Duration, maxBytes int) (*SQLiteSlot, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteSlot{db: db, name: name, retention: retention, maxBytes: maxBytes}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteSlot) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS slots (
		name       TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteSlot) Name() string { return s.name }

func (s *SQLiteSlot) Load() ([]byte, bool, error) {
	var payload []byte
	var updatedAt string
	err := s.db.QueryRow(
		`SELECT payload, updated_at FROM slots WHERE name = ?`, s.name,
	).Scan(&payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if s.retention > 0 {
		t, err := time.Parse(time.RFC3339, updatedAt)
		if err != nil || time.Since(t) > s.retention {
			return nil, false, nil
		}
	}
	return payload, true, nil
}

func (s *SQLiteSlot) Save(data []byte) error {
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return ErrTooLarge
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO slots (name, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		s.name, data, now)
	return err
}

// Close closes the underlying database.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
