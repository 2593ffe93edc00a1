// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"crypto/hmac"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Election phase constants
const (
	PhaseClosed = "closed"
	PhaseOpen   = "open"
)

// Candidate is one roster entry. Ids are dense and sequential starting at 1,
// assigned in registration order and never reused.
type Candidate struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	VoteCount int    `json:"vote_count"`
}

// Voter is one voter-roll record. The zero value is the normal answer for an
// identity that has never been registered. HasVoted transitions exactly once,
// from (false, 0) to (true, chosen id).
type Voter struct {
	Registered       bool `json:"registered"`
	HasVoted         bool `json:"has_voted"`
	VotedCandidateID int  `json:"voted_candidate_id"`
}

// CastAudit carries the submission-layer audit fields recorded alongside a
// cast ballot. Both fields are optional.
type CastAudit struct {
	IPHash    string
	UserAgent string
}

// Ledger is the single authoritative store of candidates, voters, and phase.
// All mutations are serialized under one mutex; reads observe a consistent
// snapshot.
type Ledger struct {
	mu sync.RWMutex

	admin      string
	phase      string
	candidates []Candidate
	voters     map[string]Voter
	ballots    int
	seq        int
	openedAt   time.Time
	closedAt   time.Time

	recorder  Recorder
	observers []func(Event)
}

// New creates a closed, empty ledger owned by the given administrator
// identity. The administrator is fixed for the lifetime of the ledger.
func New(admin string) *Ledger {
	return &Ledger{
		admin:  admin,
		phase:  PhaseClosed,
		voters: make(map[string]Voter),
	}
}

// Restore rebuilds a ledger by replaying recorded events in order. The
// events must be a prefix-complete history produced by this package;
// an event that does not fit the state built so far is a corrupt journal.
func Restore(admin string, events []Event) (*Ledger, error) {
	l := New(admin)
	for _, ev := range events {
		if err := l.check(ev); err != nil {
			return nil, fmt.Errorf("replaying event %d (%s): %w", ev.Seq, ev.Type, err)
		}
		l.apply(ev)
	}
	return l, nil
}

// SetRecorder attaches the durable event recorder. Must be called before the
// ledger starts accepting operations.
func (l *Ledger) SetRecorder(r Recorder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recorder = r
}

// Subscribe registers an observer for accepted mutations. Observers run
// synchronously inside the ledger's critical section, in event order, and
// must not call back into the ledger.
func (l *Ledger) Subscribe(fn func(Event)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// AddCandidate registers a candidate under the next sequential id.
// Administrator only, closed phase only.
func (l *Ledger) AddCandidate(caller, name string) (Candidate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isAdmin(caller) {
		return Candidate{}, fmt.Errorf("only the administrator registers candidates: %w", ErrUnauthorized)
	}
	if l.phase != PhaseClosed {
		return Candidate{}, fmt.Errorf("candidate registration requires a closed election: %w", ErrForbidden)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Candidate{}, fmt.Errorf("candidate name must not be empty: %w", ErrInvalidInput)
	}

	ev := Event{
		Type:        EventCandidateAdded,
		Actor:       caller,
		CandidateID: len(l.candidates) + 1,
		Name:        name,
		At:          time.Now(),
	}
	if err := l.commit(ev); err != nil {
		return Candidate{}, err
	}
	return l.candidates[ev.CandidateID-1], nil
}

// RegisterVoter adds an identity to the voter roll. Administrator only,
// allowed in any phase: registration stays open after the election starts.
func (l *Ledger) RegisterVoter(caller, identity string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isAdmin(caller) {
		return fmt.Errorf("only the administrator registers voters: %w", ErrUnauthorized)
	}
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return fmt.Errorf("voter identity must not be empty: %w", ErrInvalidInput)
	}
	if l.voters[identity].Registered {
		return fmt.Errorf("identity is already on the voter roll: %w", ErrConflict)
	}

	return l.commit(Event{
		Type:     EventVoterRegistered,
		Actor:    caller,
		Identity: identity,
		At:       time.Now(),
	})
}

// OpenElection flips the phase from closed to open. Administrator only;
// requires at least one candidate on the roster.
func (l *Ledger) OpenElection(caller string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isAdmin(caller) {
		return fmt.Errorf("only the administrator opens the election: %w", ErrUnauthorized)
	}
	if l.phase == PhaseOpen {
		return fmt.Errorf("election is already open: %w", ErrForbidden)
	}
	if len(l.candidates) == 0 {
		return fmt.Errorf("cannot open an election with an empty roster: %w", ErrPrecondition)
	}

	return l.commit(Event{Type: EventElectionStarted, Actor: caller, At: time.Now()})
}

// CloseElection flips the phase from open back to closed. Administrator
// only. Candidates and cast votes persist.
func (l *Ledger) CloseElection(caller string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isAdmin(caller) {
		return fmt.Errorf("only the administrator closes the election: %w", ErrUnauthorized)
	}
	if l.phase != PhaseOpen {
		return fmt.Errorf("election is already closed: %w", ErrForbidden)
	}

	return l.commit(Event{Type: EventElectionEnded, Actor: caller, At: time.Now()})
}

// CastVote records the caller's one-time ballot for the given candidate.
// Preconditions are checked in order: open phase, registered voter, not yet
// voted, candidate id in range. The voter record update and the candidate
// tally increment apply as one atomic unit.
func (l *Ledger) CastVote(caller string, candidateID int, audit CastAudit) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != PhaseOpen {
		return fmt.Errorf("ballots may only be cast while the election is open: %w", ErrForbidden)
	}
	v := l.voters[caller]
	if !v.Registered {
		return fmt.Errorf("identity is not on the voter roll: %w", ErrUnauthorized)
	}
	if v.HasVoted {
		return fmt.Errorf("identity has already voted: %w", ErrConflict)
	}
	if candidateID < 1 || candidateID > len(l.candidates) {
		return fmt.Errorf("candidate id %d is out of range: %w", candidateID, ErrInvalidInput)
	}

	return l.commit(Event{
		Type:        EventVoteCast,
		Actor:       caller,
		CandidateID: candidateID,
		IPHash:      audit.IPHash,
		UserAgent:   audit.UserAgent,
		At:          time.Now(),
	})
}

// Candidates returns the roster in ascending id order.
func (l *Ledger) Candidates() []Candidate {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Candidate, len(l.candidates))
	copy(out, l.candidates)
	return out
}

// Voter returns the roll record for an identity. A never-registered identity
// yields the zero record, not an error.
func (l *Ledger) Voter(identity string) Voter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.voters[identity]
}

// Winner returns the candidate leading the tally. Ties keep the earlier,
// lower-id candidate: a later candidate must strictly exceed the running
// maximum to replace the leader. Fails with ErrNotFound while no candidate
// has any votes. Defined in any phase; while open it reports the live leader.
func (l *Ledger) Winner() (Candidate, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var leader Candidate
	best := 0
	for _, c := range l.candidates {
		if c.VoteCount > best {
			best = c.VoteCount
			leader = c
		}
	}
	if best == 0 {
		return Candidate{}, fmt.Errorf("no ballots counted yet: %w", ErrNotFound)
	}
	return leader, nil
}

// IsAdministrator reports whether an identity is the fixed administrator.
func (l *Ledger) IsAdministrator(identity string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.isAdmin(identity)
}

// Phase returns the current phase flag.
func (l *Ledger) Phase() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase
}

// CandidateCount returns the highest assigned candidate id.
func (l *Ledger) CandidateCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.candidates)
}

// BallotsCast returns the number of voters with a recorded ballot.
func (l *Ledger) BallotsCast() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ballots
}

// OpenedAt returns when the election last opened, zero if never opened.
func (l *Ledger) OpenedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.openedAt
}

// ClosedAt returns when the election last ended, zero if never ended.
func (l *Ledger) ClosedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closedAt
}

// isAdmin compares in constant time. Caller must hold the lock.
func (l *Ledger) isAdmin(identity string) bool {
	return identity != "" && hmac.Equal([]byte(identity), []byte(l.admin))
}

// commit assigns the event id and sequence, records durably, then applies
// and notifies. Caller must hold the write lock and have fully validated.
func (l *Ledger) commit(ev Event) error {
	ev.ID = uuid.NewString()
	ev.Seq = l.seq + 1

	if l.recorder != nil {
		if err := l.recorder.Record(ev); err != nil {
			return fmt.Errorf("recording %s event: %w", ev.Type, err)
		}
	}

	l.apply(ev)
	for _, fn := range l.observers {
		fn(ev)
	}
	return nil
}

// check verifies that a replayed event fits the state built so far.
func (l *Ledger) check(ev Event) error {
	if ev.Seq != l.seq+1 {
		return fmt.Errorf("sequence gap: have %d, event is %d", l.seq, ev.Seq)
	}
	switch ev.Type {
	case EventCandidateAdded:
		if ev.CandidateID != len(l.candidates)+1 {
			return fmt.Errorf("candidate id %d breaks the sequence", ev.CandidateID)
		}
	case EventVoterRegistered:
		if l.voters[ev.Identity].Registered {
			return fmt.Errorf("identity registered twice")
		}
	case EventVoteCast:
		if !l.voters[ev.Actor].Registered {
			return fmt.Errorf("vote from unregistered identity")
		}
		if ev.CandidateID < 1 || ev.CandidateID > len(l.candidates) {
			return fmt.Errorf("vote for unknown candidate %d", ev.CandidateID)
		}
		if l.voters[ev.Actor].HasVoted {
			return fmt.Errorf("identity voted twice")
		}
	case EventElectionStarted, EventElectionEnded:
		// Phase edges are always replayable.
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

// apply folds one event into state. Shared by live commits and replay.
// Caller must hold the write lock.
func (l *Ledger) apply(ev Event) {
	l.seq = ev.Seq
	switch ev.Type {
	case EventCandidateAdded:
		l.candidates = append(l.candidates, Candidate{ID: ev.CandidateID, Name: ev.Name})
	case EventVoterRegistered:
		l.voters[ev.Identity] = Voter{Registered: true}
	case EventElectionStarted:
		l.phase = PhaseOpen
		l.openedAt = ev.At
	case EventElectionEnded:
		l.phase = PhaseClosed
		l.closedAt = ev.At
	case EventVoteCast:
		l.voters[ev.Actor] = Voter{Registered: true, HasVoted: true, VotedCandidateID: ev.CandidateID}
		l.candidates[ev.CandidateID-1].VoteCount++
		l.ballots++
	}
}
