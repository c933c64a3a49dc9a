// Package history records generation runs in an append-only SQLite log.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
)

// MemoryPath opens a throwaway in-process store.
const MemoryPath = ":memory:"

// Store is the run log.
type Store interface {
	Append(ctx context.Context, e Event) error
	ForRun(ctx context.Context, runID string) ([]Event, error)
	Since(ctx context.Context, since time.Time) ([]Event, error)
	Close() error
}

const schema = `
CREATE TABLE IF NOT EXISTS run_events (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id  TEXT    NOT NULL,
	kind    TEXT    NOT NULL,
	at_ms   INTEGER NOT NULL,
	payload TEXT    NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS run_events_run ON run_events(run_id);
CREATE INDEX IF NOT EXISTS run_events_at  ON run_events(at_ms);
`

const selectEvents = `SELECT seq, run_id, kind, at_ms, payload FROM run_events`

// SQLiteStore is the modernc.org/sqlite backed Store. The pool is capped at
// one connection, which serializes writers and keeps MemoryPath databases
// alive for the lifetime of the store.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens or creates the log at path, creating parent
// directories as needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, storeError(err, "create history directory").WithPath(path).Build()
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storeError(err, "open history database").WithPath(path).Build()
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, storeError(err, "initialize history schema").WithPath(path).Build()
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Append stores e. A zero timestamp is stamped with the current time and a
// nil payload is stored as an empty object.
func (s *SQLiteStore) Append(ctx context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	payload := string(e.Payload)
	if payload == "" {
		payload = "{}"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_events (run_id, kind, at_ms, payload) VALUES (?, ?, ?, ?)`,
		e.RunID, string(e.Type), e.Timestamp.UnixMilli(), payload)
	if err != nil {
		return storeError(err, "append run event").
			WithContext("run_id", e.RunID).
			WithContext("event_type", string(e.Type)).
			Build()
	}
	return nil
}

// ForRun returns one run's events in append order.
func (s *SQLiteStore) ForRun(ctx context.Context, runID string) ([]Event, error) {
	return s.query(ctx, selectEvents+` WHERE run_id = ? ORDER BY seq`, runID)
}

// Since returns every event stamped at or after since, in append order.
func (s *SQLiteStore) Since(ctx context.Context, since time.Time) ([]Event, error) {
	return s.query(ctx, selectEvents+` WHERE at_ms >= ? ORDER BY seq`, since.UnixMilli())
}

func (s *SQLiteStore) query(ctx context.Context, q string, arg any) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, storeError(err, "query run events").Build()
	}
	defer func() { _ = rows.Close() }()

	var out []Event
	for rows.Next() {
		var (
			e       Event
			kind    string
			atMS    int64
			payload string
		)
		if err := rows.Scan(&e.Seq, &e.RunID, &kind, &atMS, &payload); err != nil {
			return nil, storeError(err, "scan run event").Build()
		}
		e.Type = EventType(kind)
		e.Timestamp = time.UnixMilli(atMS)
		e.Payload = []byte(payload)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "read run events").Build()
	}
	return out, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func storeError(err error, msg string) *foundation.ErrorBuilder {
	return foundation.WrapError(err, foundation.CategoryHistory, msg).Warning()
}
