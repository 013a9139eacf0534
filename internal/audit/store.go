// Package audit records broker events (routing decisions, token refresh
// outcomes) in a local SQLite database for later inspection.
//
// Recording is best-effort: failures are logged and never propagate into the
// code paths being audited.
package audit

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration

	"github.com/datalab/drawbridge/internal/log"
	"github.com/datalab/drawbridge/internal/target"
)

// Kind identifies the kind of recorded event.
type Kind string

const (
	// KindDecision is a routing decision made at client construction.
	KindDecision Kind = "decision"
	// KindRefresh is a delegated token refresh attempt.
	KindRefresh Kind = "refresh"
)

// Event is one recorded broker event.
type Event struct {
	Seq    int64
	Time   time.Time
	Kind   Kind
	Target string
	Detail string
}

// Store persists events in SQLite.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens or creates an event store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			seq    INTEGER PRIMARY KEY AUTOINCREMENT,
			ts     TEXT NOT NULL,
			kind   TEXT NOT NULL,
			target TEXT NOT NULL,
			detail TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating audit schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) append(kind Kind, tgt target.Target, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO events (ts, kind, target, detail) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), string(kind), tgt.Name(), detail,
	)
	if err != nil {
		log.Error("recording audit event", "kind", string(kind), "error", err)
	}
}

// RecordDecision records a routing decision for a target.
func (s *Store) RecordDecision(tgt target.Target, mode, project string) {
	detail := "mode=" + mode
	if project != "" {
		detail += " project=" + project
	}
	s.append(KindDecision, tgt, detail)
}

// RecordRefresh records a token refresh outcome. Implements the credential
// package's Recorder interface.
func (s *Store) RecordRefresh(tgt target.Target, err error) {
	detail := "ok"
	if err != nil {
		detail = "error: " + err.Error()
	}
	s.append(KindRefresh, tgt, detail)
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(limit int) ([]Event, error) {
	rows, err := s.db.Query(
		`SELECT seq, ts, kind, target, detail FROM events ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts string
		if err := rows.Scan(&e.Seq, &ts, &e.Kind, &e.Target, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}
		e.Time, _ = time.Parse(time.RFC3339Nano, ts)
		events = append(events, e)
	}
	return events, rows.Err()
}
