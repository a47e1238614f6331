// Package recent persists recently used emoji so the picker can offer a
// "Recently Used" category across runs.
package recent

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// defaultLimit caps the history when the caller passes a non-positive
// limit.
const defaultLimit = 24

// Store handles SQLite operations for the recently-used history.
type Store struct {
	db    *sql.DB
	limit int
}

// Open opens (creating if needed) the history database at dbPath.
func Open(dbPath string, limit int) (*Store, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db, limit: limit}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS recent_emoji (
    name TEXT PRIMARY KEY,
    uses INTEGER NOT NULL DEFAULT 1,
    last_used TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recent_last_used ON recent_emoji(last_used DESC);
`
	_, err := s.db.Exec(schema)
	return err
}

// Touch records a use of the named emoji, bumping it to the front of the
// history and pruning entries beyond the limit.
func (s *Store) Touch(name string) error {
	if name == "" {
		return fmt.Errorf("empty emoji name")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.Exec(`
		INSERT INTO recent_emoji (name, uses, last_used) VALUES (?, 1, ?)
		ON CONFLICT(name) DO UPDATE SET uses = uses + 1, last_used = excluded.last_used
	`, name, now)
	if err != nil {
		return fmt.Errorf("record use of %q: %w", name, err)
	}

	_, err = s.db.Exec(`
		DELETE FROM recent_emoji WHERE name NOT IN (
			SELECT name FROM recent_emoji ORDER BY last_used DESC LIMIT ?
		)
	`, s.limit)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// List returns up to n emoji names, most recently used first. n <= 0
// means the store limit.
func (s *Store) List(n int) ([]string, error) {
	if n <= 0 || n > s.limit {
		n = s.limit
	}

	rows, err := s.db.Query(`SELECT name FROM recent_emoji ORDER BY last_used DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
