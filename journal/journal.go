// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package journal

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/danielhkuo/ballotbox/ledger"
)

// Driver type constants, matching cliparse.Config.DatabaseType.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Election is the metadata row for the single election this journal records.
type Election struct {
	ID        string
	Admin     string
	CreatedAt time.Time
}

// Journal is the append-only durable record of accepted ledger mutations.
// It implements ledger.Recorder.
type Journal struct {
	db       *sql.DB
	postgres bool
}

// Open prepares a journal over the given connection, creating the schema.
// Safe to call multiple times - uses IF NOT EXISTS.
func Open(db *sql.DB, driver string) (*Journal, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported journal driver %q", driver)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}
	return &Journal{db: db, postgres: driver == DriverPostgres}, nil
}

const schema = `
-- Election metadata (one row)
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    admin_identity TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Accepted mutations, in total order
CREATE TABLE IF NOT EXISTS ledger_event (
    id TEXT PRIMARY KEY,
    seq INTEGER NOT NULL UNIQUE,
    type TEXT NOT NULL,
    actor TEXT NOT NULL,
    identity TEXT NOT NULL DEFAULT '',
    candidate_id INTEGER NOT NULL DEFAULT 0,
    name TEXT NOT NULL DEFAULT '',
    ip_hash TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_event_type ON ledger_event(type);
`

// ph returns the n-th query placeholder for the active driver. lib/pq wants
// $1-style, the sqlite driver wants ?.
func (j *Journal) ph(n int) string {
	if j.postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Election returns the stored election metadata, with found=false on a fresh
// database.
func (j *Journal) Election() (Election, bool, error) {
	var e Election
	err := j.db.QueryRow(`
		SELECT id, admin_identity, created_at FROM election
	`).Scan(&e.ID, &e.Admin, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return Election{}, false, nil
	}
	if err != nil {
		return Election{}, false, fmt.Errorf("failed to load election: %w", err)
	}
	return e, true, nil
}

// CreateElection bootstraps a fresh journal with its election metadata.
func (j *Journal) CreateElection(e Election) error {
	_, err := j.db.Exec(fmt.Sprintf(`
		INSERT INTO election (id, admin_identity, created_at)
		VALUES (%s, %s, %s)
	`, j.ph(1), j.ph(2), j.ph(3)), e.ID, e.Admin, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create election: %w", err)
	}
	return nil
}

// Record appends one accepted mutation. Called by the ledger inside its
// critical section; an error here aborts the mutation.
func (j *Journal) Record(ev ledger.Event) error {
	_, err := j.db.Exec(fmt.Sprintf(`
		INSERT INTO ledger_event (id, seq, type, actor, identity, candidate_id, name, ip_hash, user_agent, recorded_at)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
	`, j.ph(1), j.ph(2), j.ph(3), j.ph(4), j.ph(5), j.ph(6), j.ph(7), j.ph(8), j.ph(9), j.ph(10)),
		ev.ID, ev.Seq, ev.Type, ev.Actor, ev.Identity, ev.CandidateID, ev.Name, ev.IPHash, ev.UserAgent, ev.At)
	if err != nil {
		return fmt.Errorf("failed to append event %d: %w", ev.Seq, err)
	}
	return nil
}

// Events returns the full recorded history in sequence order, ready for
// ledger.Restore.
func (j *Journal) Events() ([]ledger.Event, error) {
	rows, err := j.db.Query(`
		SELECT id, seq, type, actor, identity, candidate_id, name, ip_hash, user_agent, recorded_at
		FROM ledger_event
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []ledger.Event
	for rows.Next() {
		var ev ledger.Event
		if err := rows.Scan(&ev.ID, &ev.Seq, &ev.Type, &ev.Actor, &ev.Identity,
			&ev.CandidateID, &ev.Name, &ev.IPHash, &ev.UserAgent, &ev.At); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// EventCount returns the number of recorded mutations.
func (j *Journal) EventCount() (int, error) {
	var n int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM ledger_event`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}
