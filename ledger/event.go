// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "time"

// Event type constants. One event is emitted per accepted mutation.
const (
	EventCandidateAdded  = "candidate_added"
	EventVoterRegistered = "voter_registered"
	EventElectionStarted = "election_started"
	EventElectionEnded   = "election_ended"
	EventVoteCast        = "vote_cast"
)

// Event is the record of one accepted mutation. Seq is assigned by the
// ledger and is strictly increasing; replaying events in Seq order through
// Restore reproduces the ledger state exactly.
type Event struct {
	ID          string    `json:"id"`
	Seq         int       `json:"seq"`
	Type        string    `json:"type"`
	Actor       string    `json:"-"` // caller identity, never exposed in JSON
	Identity    string    `json:"-"` // subject voter identity, never exposed
	CandidateID int       `json:"candidate_id,omitempty"`
	Name        string    `json:"name,omitempty"`
	IPHash      string    `json:"-"`
	UserAgent   string    `json:"-"`
	At          time.Time `json:"at"`
}

// Recorder persists events durably. Record is called inside the ledger's
// critical section, before the in-memory state is updated; returning an
// error aborts the mutation with no state change.
type Recorder interface {
	Record(Event) error
}
