// Package journal keeps a local audit trail of control actions the
// operator dispatched to the bot: cancels, closes, shutdowns, and their
// outcomes. The bot's own persistence lives server-side; this file is the
// client's record of who asked for what and what came back.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// Action kinds.
const (
	KindCancelOrder   = "cancel_order"
	KindClosePosition = "close_position"
	KindShutdown      = "shutdown"
)

const schema = `
CREATE TABLE IF NOT EXISTS actions (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	target     TEXT NOT NULL,
	ok         INTEGER NOT NULL,
	detail     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_actions_created ON actions(created_at);
`

// Entry is one journaled control action. ID is a ULID, so entries sort
// lexicographically by dispatch time.
type Entry struct {
	ID        string
	Kind      string
	Target    string
	OK        bool
	Detail    string
	CreatedAt time.Time
}

// Journal is an append-only action log backed by SQLite.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Record appends one action. Detail carries the server's acknowledgment
// or its error message verbatim.
func (j *Journal) Record(kind, target string, ok bool, detail string) error {
	entry := Entry{
		ID:        ulid.Make().String(),
		Kind:      kind,
		Target:    target,
		OK:        ok,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	_, err := j.db.Exec(`
		INSERT INTO actions (id, kind, target, ok, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Kind, entry.Target, entry.OK, entry.Detail, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record action: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	rows, err := j.db.Query(`
		SELECT id, kind, target, ok, detail, created_at
		FROM actions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Target, &e.OK, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
