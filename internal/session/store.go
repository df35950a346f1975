// Package session tracks uploaded packages across the analyze, convert, and
// download steps of the web service, and expires them after a configured
// age. Session state lives in a local SQLite database next to the uploaded
// files themselves.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrNotFound is returned when a session id has no row, typically because
// the cleanup sweep already removed it.
var ErrNotFound = errors.New("session not found")

// Session lifecycle states.
const (
	StateAnalyzed  = "analyzed"
	StateConverted = "converted"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id            TEXT PRIMARY KEY,
    original_name TEXT NOT NULL DEFAULT '',
    filaments     INTEGER NOT NULL DEFAULT 0,
    state         TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Session is one uploaded package and its conversion progress.
type Session struct {
	ID           string
	OriginalName string
	Filaments    int
	State        string
	CreatedAt    time.Time
}

// Store persists sessions in SQLite and owns the uploads directory where
// each session's input and output packages live.
type Store struct {
	db  *sql.DB
	dir string
}

// NewID returns a fresh session identifier: the first eight hex characters
// of a random UUID.
func NewID() string {
	return uuid.NewString()[:8]
}

// Open creates the uploads directory if needed, opens (or creates) the
// SQLite database at dbPath, enables WAL mode and busy timeout, and creates
// the schema.
func Open(ctx context.Context, dbPath, uploadsDir string) (*Store, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create uploads dir: %w", err)
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("session: create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("session: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer; one
	// connection avoids SQLITE_BUSY contention between pooled connections
	// that each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: create schema: %w", err)
	}

	return &Store{db: db, dir: uploadsDir}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the uploads directory the store owns.
func (s *Store) Dir() string { return s.dir }

// InputPath returns where the session's uploaded package is stored.
func (s *Store) InputPath(id string) string {
	return filepath.Join(s.dir, id+"_input.3mf")
}

// OutputPath returns where the session's converted package is stored.
func (s *Store) OutputPath(id string) string {
	return filepath.Join(s.dir, OutputName(id))
}

// OutputName is the file name of a session's converted package, as exposed
// by download URLs.
func OutputName(id string) string {
	return id + "_U1_Ready.3mf"
}

// Create registers a session in the analyzed state.
func (s *Store) Create(ctx context.Context, id, originalName string, filaments int) (Session, error) {
	const q = `INSERT INTO sessions (id, original_name, filaments, state) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, id, originalName, filaments, StateAnalyzed); err != nil {
		return Session{}, fmt.Errorf("session: create %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Get returns the session with the given id.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	const q = `SELECT id, original_name, filaments, state, created_at FROM sessions WHERE id = ?`
	var sess Session
	var ts string
	err := s.db.QueryRowContext(ctx, q, id).Scan(&sess.ID, &sess.OriginalName, &sess.Filaments, &sess.State, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("session: %w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Session{}, fmt.Errorf("session: get %s: %w", id, err)
	}
	createdAt, err := parseTimestamp(ts)
	if err != nil {
		return Session{}, fmt.Errorf("session: parse timestamp: %w", err)
	}
	sess.CreatedAt = createdAt
	return sess, nil
}

// SetState updates the session's lifecycle state.
func (s *Store) SetState(ctx context.Context, id, state string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET state = ? WHERE id = ?`, state, id)
	if err != nil {
		return fmt.Errorf("session: set state %s=%s: %w", id, state, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session: %w: %s", ErrNotFound, id)
	}
	return nil
}

// Delete removes the session row and both of its on-disk packages. Deleting
// an unknown session is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.removeFiles(id); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("session: delete %s: %w", id, err)
	}
	return nil
}

// RemoveOlderThan deletes every session created before now minus age, along
// with its files, and returns how many sessions were removed.
func (s *Store) RemoveOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-age).Format(time.DateTime)
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("session: query expired: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("session: scan expired: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("session: iterate expired: %w", err)
	}
	rows.Close()

	removed := 0
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *Store) removeFiles(id string) error {
	for _, p := range []string{s.InputPath(id), s.OutputPath(id)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("session: remove %s: %w", p, err)
		}
	}
	return nil
}

// timestampFormats lists the formats SQLite drivers may produce for
// CURRENT_TIMESTAMP. modernc.org/sqlite typically returns RFC 3339, while
// canonical SQLite returns the space-separated DateTime format.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}
