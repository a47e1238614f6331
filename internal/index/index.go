// Package index adapts the bundled emoji dataset to a queryable SQLite
// database. It isolates the rest of the program from the concrete search
// technology: callers see LoadGroup and Search over emoji.Record values.
package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"

	"github.com/marcus/glyphpick/internal/emoji"
)

// ErrDataUnavailable is returned when the backing database cannot be
// loaded or queried. Callers must treat it as "zero results", never as a
// fatal condition.
var ErrDataUnavailable = errors.New("emoji index unavailable")

// schemaVersion is baked into the materialized filename so schema changes
// force a re-import instead of failing on stale tables.
const schemaVersion = 1

// GroupInfo describes a category known to the index.
type GroupInfo struct {
	Title string
	Icon  string
}

// Index is a handle to the materialized emoji database. It owns the
// backing resource; Close releases it exactly once.
type Index struct {
	db        *sql.DB
	path      string
	closeOnce sync.Once
	closeErr  error
}

// Open materializes the bundled dataset into a SQLite file under dir and
// returns a handle to it. The file is keyed by an xxhash fingerprint of
// the dataset plus the schema version, so an unchanged dataset reuses the
// existing file without re-importing.
func Open(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create index dir: %v", ErrDataUnavailable, err)
	}

	sum := xxhash.Sum64(emoji.DatasetBytes())
	fingerprint := fmt.Sprintf("%016x", sum)
	path := filepath.Join(dir, fmt.Sprintf("emoji-%s-v%d.db", fingerprint, schemaVersion))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrDataUnavailable, err)
	}

	ix := &Index{db: db, path: path}
	if ix.fingerprintMatches(fingerprint) {
		return ix, nil
	}

	if err := ix.materialize(fingerprint); err != nil {
		db.Close()
		return nil, err
	}
	return ix, nil
}

// Path returns the location of the materialized database file.
func (ix *Index) Path() string {
	return ix.path
}

// Close releases the backing database handle. Safe to call more than
// once; only the first call does anything. The materialized file is left
// in place as a cache for the next run.
func (ix *Index) Close() error {
	ix.closeOnce.Do(func() {
		ix.closeErr = ix.db.Close()
	})
	return ix.closeErr
}

// fingerprintMatches reports whether the database already holds a
// completed import of the current dataset.
func (ix *Index) fingerprintMatches(fingerprint string) bool {
	var got string
	err := ix.db.QueryRow(`SELECT value FROM meta WHERE key = 'fingerprint'`).Scan(&got)
	return err == nil && got == fingerprint
}

// materialize imports the bundled dataset in a single transaction. The
// fingerprint row is written last so a crashed import is retried on the
// next open.
func (ix *Index) materialize(fingerprint string) error {
	groups, err := emoji.ParseDataset()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin import: %v", ErrDataUnavailable, err)
	}
	defer tx.Rollback()

	schema := `
DROP TABLE IF EXISTS meta;
DROP TABLE IF EXISTS grp;
DROP TABLE IF EXISTS emoji;
DROP TABLE IF EXISTS keyword;
CREATE TABLE meta (key TEXT PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE grp (
    title TEXT PRIMARY KEY,
    icon TEXT NOT NULL,
    ord INTEGER NOT NULL
);
CREATE TABLE emoji (
    name TEXT PRIMARY KEY,
    glyph TEXT NOT NULL,
    group_title TEXT NOT NULL,
    grp_ord INTEGER NOT NULL,
    ord INTEGER NOT NULL,
    tones TEXT NOT NULL,
    keywords TEXT NOT NULL
);
CREATE INDEX idx_emoji_group ON emoji(group_title, ord);
CREATE TABLE keyword (
    keyword TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (keyword, name)
);
`
	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("%w: create schema: %v", ErrDataUnavailable, err)
	}

	for gi, g := range groups {
		if _, err := tx.Exec(`INSERT INTO grp (title, icon, ord) VALUES (?, ?, ?)`,
			g.Title, g.Icon, gi); err != nil {
			return fmt.Errorf("%w: insert group %q: %v", ErrDataUnavailable, g.Title, err)
		}
		for ri, r := range g.Records {
			tones, err := json.Marshal(r.Tones)
			if err != nil {
				return fmt.Errorf("%w: encode tones for %q: %v", ErrDataUnavailable, r.Name, err)
			}
			keywords, err := json.Marshal(r.Keywords)
			if err != nil {
				return fmt.Errorf("%w: encode keywords for %q: %v", ErrDataUnavailable, r.Name, err)
			}
			if _, err := tx.Exec(`
				INSERT INTO emoji (name, glyph, group_title, grp_ord, ord, tones, keywords)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, r.Name, r.Glyph, g.Title, gi, ri, string(tones), string(keywords)); err != nil {
				return fmt.Errorf("%w: insert emoji %q: %v", ErrDataUnavailable, r.Name, err)
			}
			for _, term := range searchTerms(r) {
				if _, err := tx.Exec(`INSERT OR IGNORE INTO keyword (keyword, name) VALUES (?, ?)`,
					term, r.Name); err != nil {
					return fmt.Errorf("%w: insert keyword %q: %v", ErrDataUnavailable, term, err)
				}
			}
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('fingerprint', ?)`, fingerprint); err != nil {
		return fmt.Errorf("%w: write fingerprint: %v", ErrDataUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit import: %v", ErrDataUnavailable, err)
	}
	return nil
}

// searchTerms returns the indexable terms for a record: its keywords plus
// the individual words of its display name.
func searchTerms(r emoji.Record) []string {
	terms := make([]string, 0, len(r.Keywords)+2)
	terms = append(terms, r.Keywords...)
	terms = append(terms, strings.Fields(r.Name)...)
	return terms
}

// Groups lists all categories in display order.
func (ix *Index) Groups() ([]GroupInfo, error) {
	rows, err := ix.db.Query(`SELECT title, icon FROM grp ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("%w: list groups: %v", ErrDataUnavailable, err)
	}
	defer rows.Close()

	var groups []GroupInfo
	for rows.Next() {
		var g GroupInfo
		if err := rows.Scan(&g.Title, &g.Icon); err != nil {
			return nil, fmt.Errorf("%w: scan group: %v", ErrDataUnavailable, err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list groups: %v", ErrDataUnavailable, err)
	}
	return groups, nil
}

// LoadGroup fetches all records of a category in stable display order.
// Tone variants arrive sorted ascending by rank (import preserves the
// normalized dataset order). An unknown title yields an empty result.
func (ix *Index) LoadGroup(title string) ([]emoji.Record, error) {
	rows, err := ix.db.Query(`
		SELECT name, glyph, group_title, tones, keywords
		FROM emoji WHERE group_title = ? ORDER BY ord
	`, title)
	if err != nil {
		return nil, fmt.Errorf("%w: load group %q: %v", ErrDataUnavailable, title, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// minQueryLen is the shortest query Search accepts. Shorter queries are
// rejected by the controller before Search is invoked; if one slips
// through, the defined result is empty.
const minQueryLen = 2

// Search returns records whose indexed terms match the query, most
// relevant first: exact keyword, then keyword prefix, then name prefix,
// then any substring. Ties keep catalog display order.
func (ix *Index) Search(query string) ([]emoji.Record, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < minQueryLen {
		return nil, nil
	}
	like := escapeLike(q)

	rows, err := ix.db.Query(`
		SELECT e.name, e.glyph, e.group_title, e.tones, e.keywords,
		       MIN(CASE
		           WHEN k.keyword = ? THEN 0
		           WHEN k.keyword LIKE ? || '%' ESCAPE '\' THEN 1
		           WHEN e.name LIKE ? || '%' ESCAPE '\' THEN 2
		           ELSE 3
		       END) AS rank
		FROM emoji e
		JOIN keyword k ON k.name = e.name
		WHERE k.keyword LIKE '%' || ? || '%' ESCAPE '\'
		   OR e.name LIKE '%' || ? || '%' ESCAPE '\'
		GROUP BY e.name
		ORDER BY rank, e.grp_ord, e.ord
	`, q, like, like, like, like)
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", ErrDataUnavailable, query, err)
	}
	defer rows.Close()

	var records []emoji.Record
	for rows.Next() {
		var r emoji.Record
		var tones, keywords string
		var rank int
		if err := rows.Scan(&r.Name, &r.Glyph, &r.Group, &tones, &keywords, &rank); err != nil {
			return nil, fmt.Errorf("%w: scan search result: %v", ErrDataUnavailable, err)
		}
		if err := decodeRecord(&r, tones, keywords); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", ErrDataUnavailable, query, err)
	}
	return records, nil
}

func scanRecords(rows *sql.Rows) ([]emoji.Record, error) {
	var records []emoji.Record
	for rows.Next() {
		var r emoji.Record
		var tones, keywords string
		if err := rows.Scan(&r.Name, &r.Glyph, &r.Group, &tones, &keywords); err != nil {
			return nil, fmt.Errorf("%w: scan record: %v", ErrDataUnavailable, err)
		}
		if err := decodeRecord(&r, tones, keywords); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read records: %v", ErrDataUnavailable, err)
	}
	return records, nil
}

func decodeRecord(r *emoji.Record, tones, keywords string) error {
	if err := json.Unmarshal([]byte(tones), &r.Tones); err != nil {
		return fmt.Errorf("%w: decode tones for %q: %v", ErrDataUnavailable, r.Name, err)
	}
	if err := json.Unmarshal([]byte(keywords), &r.Keywords); err != nil {
		return fmt.Errorf("%w: decode keywords for %q: %v", ErrDataUnavailable, r.Name, err)
	}
	return nil
}

// escapeLike escapes SQL LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
