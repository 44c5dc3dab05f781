// Package cache stores computed surprisal vectors keyed by a content hash
// of the source text, so a parameter change never forces re-scoring.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"pacereader/internal/item"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pacing_results (
    content_hash TEXT PRIMARY KEY,
    content_length INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    items TEXT NOT NULL,
    surprisal TEXT NOT NULL
);
`

// Entry is one cached run: the items and raw surprisal vector for a text.
// Durations are cheap to recompute and are never cached.
type Entry struct {
	ContentLength int
	CreatedAt     time.Time
	Items         []item.Item
	Surprisal     []float64
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Hash is the content address of a text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached entry for text, or nil on a miss. A stored row
// whose content length disagrees with the text is treated as a miss, not an
// error; the stale row is removed.
func (s *Store) Get(text string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT content_length, created_at, items, surprisal FROM pacing_results WHERE content_hash = ?`,
		Hash(text),
	)

	var (
		length        int
		createdAt     string
		itemsJSON     string
		surprisalJSON string
	)
	if err := row.Scan(&length, &createdAt, &itemsJSON, &surprisalJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan cache row: %w", err)
	}

	if length != len(text) {
		_, _ = s.db.Exec(`DELETE FROM pacing_results WHERE content_hash = ?`, Hash(text))
		return nil, nil
	}

	entry := &Entry{ContentLength: length}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		entry.CreatedAt = ts
	}
	if err := json.Unmarshal([]byte(itemsJSON), &entry.Items); err != nil {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(surprisalJSON), &entry.Surprisal); err != nil {
		return nil, nil
	}
	if len(entry.Surprisal) != len(entry.Items) {
		return nil, nil
	}
	return entry, nil
}

// Put stores (or replaces) the run result for text.
func (s *Store) Put(text string, items []item.Item, surprisal []float64) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	surprisalJSON, err := json.Marshal(surprisal)
	if err != nil {
		return fmt.Errorf("marshal surprisal: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO pacing_results(content_hash, content_length, created_at, items, surprisal) VALUES(?,?,?,?,?)`,
		Hash(text),
		len(text),
		time.Now().UTC().Format(time.RFC3339),
		string(itemsJSON),
		string(surprisalJSON),
	)
	if err != nil {
		return fmt.Errorf("insert cache row: %w", err)
	}
	return nil
}

// Purge drops every cached result.
func (s *Store) Purge() (int, error) {
	res, err := s.db.Exec(`DELETE FROM pacing_results`)
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
