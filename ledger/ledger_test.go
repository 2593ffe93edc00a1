// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

const testAdmin = "test-admin-key"

// newOpenLedger builds a ledger with the given candidates and registered
// voters, already opened.
func newOpenLedger(t *testing.T, candidates []string, voters []string) *Ledger {
	t.Helper()

	l := New(testAdmin)
	for _, name := range candidates {
		if _, err := l.AddCandidate(testAdmin, name); err != nil {
			t.Fatalf("Failed to add candidate %q: %v", name, err)
		}
	}
	for _, v := range voters {
		if err := l.RegisterVoter(testAdmin, v); err != nil {
			t.Fatalf("Failed to register voter %q: %v", v, err)
		}
	}
	if err := l.OpenElection(testAdmin); err != nil {
		t.Fatalf("Failed to open election: %v", err)
	}
	return l
}

func TestAddCandidate(t *testing.T) {
	tests := []struct {
		name      string
		caller    string
		candidate string
		phase     string // phase to put the ledger in first
		wantErr   error
	}{
		{"valid", testAdmin, "Alice", PhaseClosed, nil},
		{"trims whitespace", testAdmin, "  Bob  ", PhaseClosed, nil},
		{"empty name", testAdmin, "", PhaseClosed, ErrInvalidInput},
		{"whitespace-only name", testAdmin, "   ", PhaseClosed, ErrInvalidInput},
		{"non-admin caller", "somebody-else", "Carol", PhaseClosed, ErrUnauthorized},
		{"empty caller", "", "Carol", PhaseClosed, ErrUnauthorized},
		{"open phase", testAdmin, "Carol", PhaseOpen, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(testAdmin)
			if tt.phase == PhaseOpen {
				if _, err := l.AddCandidate(testAdmin, "Seed"); err != nil {
					t.Fatalf("Failed to seed candidate: %v", err)
				}
				if err := l.OpenElection(testAdmin); err != nil {
					t.Fatalf("Failed to open election: %v", err)
				}
			}
			before := l.CandidateCount()

			c, err := l.AddCandidate(tt.caller, tt.candidate)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				if l.CandidateCount() != before {
					t.Error("Failed call mutated the roster")
				}
				return
			}
			if err != nil {
				t.Fatalf("AddCandidate() error = %v", err)
			}
			if c.ID != before+1 {
				t.Errorf("Expected id %d, got %d", before+1, c.ID)
			}
			if c.VoteCount != 0 {
				t.Errorf("New candidate should have 0 votes, got %d", c.VoteCount)
			}
		})
	}
}

// Candidate ids stay dense and sequential regardless of interleaved failed
// calls.
func TestCandidateIDsSequential(t *testing.T) {
	l := New(testAdmin)

	names := []string{"Alice", "Bob", "Carol", "Dave"}
	for i, name := range names {
		// A failed call between successes must not burn an id.
		if _, err := l.AddCandidate(testAdmin, ""); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Expected invalid input error, got %v", err)
		}
		if _, err := l.AddCandidate("intruder", "Mallory"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("Expected unauthorized error, got %v", err)
		}

		c, err := l.AddCandidate(testAdmin, name)
		if err != nil {
			t.Fatalf("Failed to add %q: %v", name, err)
		}
		if c.ID != i+1 {
			t.Errorf("Expected id %d for %q, got %d", i+1, name, c.ID)
		}
	}

	roster := l.Candidates()
	if len(roster) != len(names) {
		t.Fatalf("Expected %d candidates, got %d", len(names), len(roster))
	}
	for i, c := range roster {
		if c.ID != i+1 {
			t.Errorf("Roster position %d has id %d", i, c.ID)
		}
	}
}

func TestRegisterVoter(t *testing.T) {
	l := New(testAdmin)

	tests := []struct {
		name     string
		caller   string
		identity string
		wantErr  error
	}{
		{"valid", testAdmin, "voter-1", nil},
		{"duplicate", testAdmin, "voter-1", ErrConflict},
		{"non-admin caller", "voter-1", "voter-2", ErrUnauthorized},
		{"empty identity", testAdmin, "", ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.RegisterVoter(tt.caller, tt.identity)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RegisterVoter() error = %v", err)
			}
			v := l.Voter(tt.identity)
			if !v.Registered || v.HasVoted || v.VotedCandidateID != 0 {
				t.Errorf("Fresh voter record = %+v, want {true false 0}", v)
			}
		})
	}
}

// A rejected duplicate registration leaves the record exactly as the first
// registration left it.
func TestRegisterVoterRejectionIdempotent(t *testing.T) {
	l := New(testAdmin)
	if err := l.RegisterVoter(testAdmin, "v1"); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	first := l.Voter("v1")

	if err := l.RegisterVoter(testAdmin, "v1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("Expected conflict, got %v", err)
	}
	if l.Voter("v1") != first {
		t.Errorf("Record changed after rejected call: %+v vs %+v", l.Voter("v1"), first)
	}
}

// Registration is allowed even while the election is open.
func TestRegisterVoterWhileOpen(t *testing.T) {
	l := newOpenLedger(t, []string{"Alice"}, nil)

	if err := l.RegisterVoter(testAdmin, "late-voter"); err != nil {
		t.Fatalf("Registration while open should succeed, got %v", err)
	}
	if err := l.CastVote("late-voter", 1, CastAudit{}); err != nil {
		t.Fatalf("Late-registered voter should be able to vote, got %v", err)
	}
}

func TestVoterZeroValue(t *testing.T) {
	l := New(testAdmin)
	v := l.Voter("never-seen")
	if v.Registered || v.HasVoted || v.VotedCandidateID != 0 {
		t.Errorf("Unregistered identity should yield the zero record, got %+v", v)
	}
}

func TestOpenElection(t *testing.T) {
	t.Run("empty roster fails precondition", func(t *testing.T) {
		l := New(testAdmin)
		if err := l.OpenElection(testAdmin); !errors.Is(err, ErrPrecondition) {
			t.Fatalf("Expected precondition error, got %v", err)
		}
		if l.Phase() != PhaseClosed {
			t.Errorf("Failed open changed phase to %q", l.Phase())
		}
	})

	t.Run("non-admin fails", func(t *testing.T) {
		l := New(testAdmin)
		if _, err := l.AddCandidate(testAdmin, "Alice"); err != nil {
			t.Fatal(err)
		}
		if err := l.OpenElection("intruder"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("Expected unauthorized, got %v", err)
		}
	})

	t.Run("succeeds with one candidate", func(t *testing.T) {
		l := New(testAdmin)
		if _, err := l.AddCandidate(testAdmin, "Alice"); err != nil {
			t.Fatal(err)
		}
		if err := l.OpenElection(testAdmin); err != nil {
			t.Fatalf("OpenElection() error = %v", err)
		}
		if l.Phase() != PhaseOpen {
			t.Errorf("Expected phase open, got %q", l.Phase())
		}
		if l.OpenedAt().IsZero() {
			t.Error("Expected opened-at timestamp to be set")
		}
	})

	t.Run("double open fails forbidden", func(t *testing.T) {
		l := newOpenLedger(t, []string{"Alice"}, nil)
		if err := l.OpenElection(testAdmin); !errors.Is(err, ErrForbidden) {
			t.Fatalf("Expected forbidden, got %v", err)
		}
	})
}

func TestCloseElection(t *testing.T) {
	t.Run("close while closed fails forbidden", func(t *testing.T) {
		l := New(testAdmin)
		if err := l.CloseElection(testAdmin); !errors.Is(err, ErrForbidden) {
			t.Fatalf("Expected forbidden, got %v", err)
		}
	})

	t.Run("non-admin fails", func(t *testing.T) {
		l := newOpenLedger(t, []string{"Alice"}, nil)
		if err := l.CloseElection("intruder"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("Expected unauthorized, got %v", err)
		}
	})

	t.Run("close preserves votes and allows reopen", func(t *testing.T) {
		l := newOpenLedger(t, []string{"Alice"}, []string{"v1"})
		if err := l.CastVote("v1", 1, CastAudit{}); err != nil {
			t.Fatal(err)
		}
		if err := l.CloseElection(testAdmin); err != nil {
			t.Fatalf("CloseElection() error = %v", err)
		}
		if l.Phase() != PhaseClosed {
			t.Errorf("Expected phase closed, got %q", l.Phase())
		}
		if l.BallotsCast() != 1 {
			t.Errorf("Votes should persist across close, got %d ballots", l.BallotsCast())
		}
		// Ending returns the ledger to closed; opening again is legal.
		if err := l.OpenElection(testAdmin); err != nil {
			t.Fatalf("Reopen after close should succeed, got %v", err)
		}
	})
}

func TestCastVote(t *testing.T) {
	tests := []struct {
		name        string
		caller      string
		candidateID int
		wantErr     error
	}{
		{"valid", "v1", 1, nil},
		{"unregistered identity", "stranger", 1, ErrUnauthorized},
		{"candidate id zero", "v2", 0, ErrInvalidInput},
		{"candidate id negative", "v2", -3, ErrInvalidInput},
		{"candidate id too large", "v2", 3, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newOpenLedger(t, []string{"Alice", "Bob"}, []string{"v1", "v2"})

			err := l.CastVote(tt.caller, tt.candidateID, CastAudit{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
				}
				if l.BallotsCast() != 0 {
					t.Error("Failed cast incremented the ballot count")
				}
				return
			}
			if err != nil {
				t.Fatalf("CastVote() error = %v", err)
			}

			v := l.Voter(tt.caller)
			if !v.HasVoted || v.VotedCandidateID != tt.candidateID {
				t.Errorf("Voter record = %+v, want voted for %d", v, tt.candidateID)
			}
			if got := l.Candidates()[tt.candidateID-1].VoteCount; got != 1 {
				t.Errorf("Expected tally 1, got %d", got)
			}
		})
	}
}

func TestCastVoteTwiceConflicts(t *testing.T) {
	l := newOpenLedger(t, []string{"Alice", "Bob"}, []string{"v1"})

	if err := l.CastVote("v1", 1, CastAudit{}); err != nil {
		t.Fatalf("First vote failed: %v", err)
	}
	if err := l.CastVote("v1", 2, CastAudit{}); !errors.Is(err, ErrConflict) {
		t.Fatalf("Expected conflict on second vote, got %v", err)
	}

	// The first ballot stands untouched.
	v := l.Voter("v1")
	if v.VotedCandidateID != 1 {
		t.Errorf("Ballot changed by rejected second vote: %+v", v)
	}
	if l.BallotsCast() != 1 {
		t.Errorf("Expected 1 ballot, got %d", l.BallotsCast())
	}
}

// Casting while closed always fails Forbidden, even when voter and candidate
// are otherwise valid. The phase guard runs before voter validation.
func TestCastVoteWhileClosed(t *testing.T) {
	l := New(testAdmin)
	if _, err := l.AddCandidate(testAdmin, "Alice"); err != nil {
		t.Fatal(err)
	}
	if err := l.RegisterVoter(testAdmin, "v1"); err != nil {
		t.Fatal(err)
	}

	for _, caller := range []string{"v1", "stranger"} {
		if err := l.CastVote(caller, 1, CastAudit{}); !errors.Is(err, ErrForbidden) {
			t.Errorf("Caller %q: expected forbidden while closed, got %v", caller, err)
		}
	}
}

func TestWinner(t *testing.T) {
	t.Run("no votes yet", func(t *testing.T) {
		l := newOpenLedger(t, []string{"Alice", "Bob"}, nil)
		if _, err := l.Winner(); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Expected not found, got %v", err)
		}
	})

	t.Run("empty roster", func(t *testing.T) {
		l := New(testAdmin)
		if _, err := l.Winner(); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Expected not found, got %v", err)
		}
	})

	t.Run("simple majority", func(t *testing.T) {
		l := newOpenLedger(t, []string{"Alice", "Bob"}, []string{"v1", "v2", "v3"})
		for voter, choice := range map[string]int{"v1": 1, "v2": 2, "v3": 1} {
			if err := l.CastVote(voter, choice, CastAudit{}); err != nil {
				t.Fatal(err)
			}
		}
		w, err := l.Winner()
		if err != nil {
			t.Fatalf("Winner() error = %v", err)
		}
		if w.ID != 1 || w.Name != "Alice" || w.VoteCount != 2 {
			t.Errorf("Winner = %+v, want {1 Alice 2}", w)
		}
	})

	t.Run("live leader while open", func(t *testing.T) {
		l := newOpenLedger(t, []string{"Alice", "Bob"}, []string{"v1"})
		if err := l.CastVote("v1", 2, CastAudit{}); err != nil {
			t.Fatal(err)
		}
		w, err := l.Winner()
		if err != nil {
			t.Fatalf("Winner() while open error = %v", err)
		}
		if w.ID != 2 {
			t.Errorf("Expected live leader 2, got %d", w.ID)
		}
	})
}

// Ties keep the earliest (lowest-id) candidate regardless of the order votes
// were cast.
func TestWinnerTieBreak(t *testing.T) {
	orders := [][]struct {
		voter  string
		choice int
	}{
		{{"v1", 1}, {"v2", 2}, {"v3", 3}, {"v4", 1}, {"v5", 2}, {"v6", 3}},
		{{"v1", 3}, {"v2", 3}, {"v3", 2}, {"v4", 2}, {"v5", 1}, {"v6", 1}},
		{{"v1", 2}, {"v2", 1}, {"v3", 3}, {"v4", 3}, {"v5", 2}, {"v6", 1}},
	}

	for i, order := range orders {
		l := newOpenLedger(t,
			[]string{"A", "B", "C"},
			[]string{"v1", "v2", "v3", "v4", "v5", "v6"})

		for _, cast := range order {
			if err := l.CastVote(cast.voter, cast.choice, CastAudit{}); err != nil {
				t.Fatalf("Order %d: vote failed: %v", i, err)
			}
		}

		w, err := l.Winner()
		if err != nil {
			t.Fatalf("Order %d: Winner() error = %v", i, err)
		}
		if w.ID != 1 {
			t.Errorf("Order %d: expected lowest-id winner 1, got %d", i, w.ID)
		}
		if w.VoteCount != 2 {
			t.Errorf("Order %d: expected 2 votes, got %d", i, w.VoteCount)
		}
	}
}

// Total tallied votes always equals the count of voters with a recorded
// ballot.
func TestTallyMatchesBallots(t *testing.T) {
	l := newOpenLedger(t,
		[]string{"A", "B", "C"},
		[]string{"v1", "v2", "v3", "v4", "v5"})

	casts := []struct {
		voter  string
		choice int
		ok     bool
	}{
		{"v1", 1, true},
		{"v1", 2, false}, // double vote
		{"v2", 3, true},
		{"stranger", 1, false},
		{"v3", 9, false}, // out of range
		{"v3", 2, true},
	}
	for _, c := range casts {
		err := l.CastVote(c.voter, c.choice, CastAudit{})
		if c.ok && err != nil {
			t.Fatalf("Vote by %q failed: %v", c.voter, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("Vote by %q for %d should have failed", c.voter, c.choice)
		}
	}

	total := 0
	for _, c := range l.Candidates() {
		total += c.VoteCount
	}
	if total != l.BallotsCast() {
		t.Errorf("Tally sum %d != ballots cast %d", total, l.BallotsCast())
	}
	if total != 3 {
		t.Errorf("Expected 3 counted votes, got %d", total)
	}
}

func TestIsAdministrator(t *testing.T) {
	l := New(testAdmin)
	if !l.IsAdministrator(testAdmin) {
		t.Error("Administrator identity not recognized")
	}
	for _, id := range []string{"", "other", testAdmin + "x"} {
		if l.IsAdministrator(id) {
			t.Errorf("Identity %q wrongly recognized as administrator", id)
		}
	}
}

// End-to-end scenario: two candidates, three voters, 2-1 result.
func TestElectionScenario(t *testing.T) {
	l := New(testAdmin)

	for _, name := range []string{"Alice", "Bob"} {
		if _, err := l.AddCandidate(testAdmin, name); err != nil {
			t.Fatalf("Failed to add %q: %v", name, err)
		}
	}
	for _, v := range []string{"V1", "V2", "V3"} {
		if err := l.RegisterVoter(testAdmin, v); err != nil {
			t.Fatalf("Failed to register %q: %v", v, err)
		}
	}
	if err := l.OpenElection(testAdmin); err != nil {
		t.Fatalf("Failed to open: %v", err)
	}

	for _, cast := range []struct {
		voter  string
		choice int
	}{{"V1", 1}, {"V2", 2}, {"V3", 1}} {
		if err := l.CastVote(cast.voter, cast.choice, CastAudit{}); err != nil {
			t.Fatalf("Vote by %q failed: %v", cast.voter, err)
		}
	}

	if err := l.CloseElection(testAdmin); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	w, err := l.Winner()
	if err != nil {
		t.Fatalf("Winner() error = %v", err)
	}
	if w.ID != 1 || w.Name != "Alice" || w.VoteCount != 2 {
		t.Errorf("Winner = %+v, want {1 Alice 2}", w)
	}
}

// Concurrent casts from the same identity must count at most once.
func TestConcurrentDuplicateCast(t *testing.T) {
	l := newOpenLedger(t, []string{"Alice"}, []string{"v1"})

	attempts := 16
	var success, conflict atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.CastVote("v1", 1, CastAudit{})
			switch {
			case err == nil:
				success.Add(1)
			case errors.Is(err, ErrConflict):
				conflict.Add(1)
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if success.Load() != 1 {
		t.Errorf("Expected exactly 1 successful cast, got %d", success.Load())
	}
	if conflict.Load() != int32(attempts-1) {
		t.Errorf("Expected %d conflicts, got %d", attempts-1, conflict.Load())
	}
	if got := l.Candidates()[0].VoteCount; got != 1 {
		t.Errorf("Expected tally 1, got %d", got)
	}
}

// Casts racing a close must never leave a half-applied state: every vote
// either fully counts or fully fails, and the tally sum always matches the
// ballot count.
func TestCastRacingClose(t *testing.T) {
	voters := make([]string, 32)
	for i := range voters {
		voters[i] = "v" + string(rune('A'+i))
	}
	l := newOpenLedger(t, []string{"Alice", "Bob"}, voters)

	var wg sync.WaitGroup
	for i, v := range voters {
		wg.Add(1)
		go func(voter string, choice int) {
			defer wg.Done()
			err := l.CastVote(voter, choice, CastAudit{})
			if err != nil && !errors.Is(err, ErrForbidden) {
				t.Errorf("Vote by %q: unexpected error %v", voter, err)
			}
		}(v, i%2+1)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := l.CloseElection(testAdmin); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	}()
	wg.Wait()

	if l.Phase() != PhaseClosed {
		t.Errorf("Expected closed after race, got %q", l.Phase())
	}
	total := 0
	for _, c := range l.Candidates() {
		total += c.VoteCount
	}
	if total != l.BallotsCast() {
		t.Errorf("Tally sum %d != ballots cast %d after race", total, l.BallotsCast())
	}
	voted := 0
	for _, v := range voters {
		if l.Voter(v).HasVoted {
			voted++
		}
	}
	if voted != l.BallotsCast() {
		t.Errorf("Voters marked voted %d != ballots cast %d", voted, l.BallotsCast())
	}
}

type failingRecorder struct{ calls int }

func (r *failingRecorder) Record(Event) error {
	r.calls++
	return errors.New("disk full")
}

// A recorder failure aborts the mutation with no observable state change.
func TestRecorderFailureLeavesStateUnchanged(t *testing.T) {
	l := New(testAdmin)
	rec := &failingRecorder{}
	l.SetRecorder(rec)

	if _, err := l.AddCandidate(testAdmin, "Alice"); err == nil {
		t.Fatal("Expected recorder failure to surface")
	}
	if l.CandidateCount() != 0 {
		t.Error("Failed commit left a candidate behind")
	}
	if err := l.RegisterVoter(testAdmin, "v1"); err == nil {
		t.Fatal("Expected recorder failure to surface")
	}
	if l.Voter("v1").Registered {
		t.Error("Failed commit left a voter behind")
	}
	if rec.calls != 2 {
		t.Errorf("Expected 2 record attempts, got %d", rec.calls)
	}
}

// Events replayed through Restore rebuild an identical ledger.
func TestRestoreReproducesState(t *testing.T) {
	var history []Event
	l := New(testAdmin)
	l.Subscribe(func(ev Event) { history = append(history, ev) })

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if _, err := l.AddCandidate(testAdmin, name); err != nil {
			t.Fatal(err)
		}
	}
	for _, v := range []string{"v1", "v2", "v3"} {
		if err := l.RegisterVoter(testAdmin, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.OpenElection(testAdmin); err != nil {
		t.Fatal(err)
	}
	for voter, choice := range map[string]int{"v1": 2, "v2": 2, "v3": 1} {
		if err := l.CastVote(voter, choice, CastAudit{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.CloseElection(testAdmin); err != nil {
		t.Fatal(err)
	}

	restored, err := Restore(testAdmin, history)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if restored.Phase() != l.Phase() {
		t.Errorf("Phase mismatch: %q vs %q", restored.Phase(), l.Phase())
	}
	if restored.BallotsCast() != l.BallotsCast() {
		t.Errorf("Ballot count mismatch: %d vs %d", restored.BallotsCast(), l.BallotsCast())
	}
	want := l.Candidates()
	got := restored.Candidates()
	if len(got) != len(want) {
		t.Fatalf("Roster length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidate %d mismatch: %+v vs %+v", i+1, got[i], want[i])
		}
	}
	w1, err1 := l.Winner()
	w2, err2 := restored.Winner()
	if err1 != nil || err2 != nil {
		t.Fatalf("Winner errors: %v, %v", err1, err2)
	}
	if w1 != w2 {
		t.Errorf("Winner mismatch: %+v vs %+v", w1, w2)
	}
}

func TestRestoreRejectsCorruptHistory(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
	}{
		{"sequence gap", []Event{{Seq: 2, Type: EventCandidateAdded, CandidateID: 1, Name: "A"}}},
		{"candidate id gap", []Event{{Seq: 1, Type: EventCandidateAdded, CandidateID: 5, Name: "A"}}},
		{"unknown type", []Event{{Seq: 1, Type: "mystery"}}},
		{
			"vote from unregistered identity",
			[]Event{
				{Seq: 1, Type: EventCandidateAdded, CandidateID: 1, Name: "A"},
				{Seq: 2, Type: EventVoteCast, Actor: "ghost", CandidateID: 1},
			},
		},
		{
			"vote for unknown candidate",
			[]Event{
				{Seq: 1, Type: EventCandidateAdded, CandidateID: 1, Name: "A"},
				{Seq: 2, Type: EventVoterRegistered, Identity: "v1"},
				{Seq: 3, Type: EventVoteCast, Actor: "v1", CandidateID: 2},
			},
		},
		{
			"double vote",
			[]Event{
				{Seq: 1, Type: EventCandidateAdded, CandidateID: 1, Name: "A"},
				{Seq: 2, Type: EventVoterRegistered, Identity: "v1"},
				{Seq: 3, Type: EventVoteCast, Actor: "v1", CandidateID: 1},
				{Seq: 4, Type: EventVoteCast, Actor: "v1", CandidateID: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Restore(testAdmin, tt.events); err == nil {
				t.Error("Expected corrupt history to be rejected")
			}
		})
	}
}

// Observers see every accepted mutation, in order, and none of the rejected
// ones.
func TestSubscribeSeesAcceptedMutationsOnly(t *testing.T) {
	l := New(testAdmin)
	var seen []string
	l.Subscribe(func(ev Event) { seen = append(seen, ev.Type) })

	if _, err := l.AddCandidate(testAdmin, "Alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddCandidate("intruder", "Mallory"); err == nil {
		t.Fatal("Expected rejection")
	}
	if err := l.RegisterVoter(testAdmin, "v1"); err != nil {
		t.Fatal(err)
	}
	if err := l.OpenElection(testAdmin); err != nil {
		t.Fatal(err)
	}
	if err := l.CastVote("v1", 1, CastAudit{}); err != nil {
		t.Fatal(err)
	}
	if err := l.CloseElection(testAdmin); err != nil {
		t.Fatal(err)
	}

	want := []string{
		EventCandidateAdded,
		EventVoterRegistered,
		EventElectionStarted,
		EventVoteCast,
		EventElectionEnded,
	}
	if len(seen) != len(want) {
		t.Fatalf("Expected %d events, got %d: %v", len(want), len(seen), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Event %d = %q, want %q", i, seen[i], want[i])
		}
	}
}
