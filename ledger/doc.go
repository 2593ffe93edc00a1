// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger implements the election ledger state machine.

A Ledger owns all election state: the administrator identity fixed at
creation, the closed/open phase flag, the candidate roster, and the voter
roll. Every mutating operation validates fully before applying, holds one
mutex across its whole check-then-act sequence, and emits an Event on
success. Failed calls leave the ledger untouched.

Candidate ids are dense and sequential starting at 1. Each registered voter
casts at most one ballot, ever. The winner scan is deterministic: candidates
are walked in ascending id order and a candidate must strictly exceed the
running maximum to take the lead, so ties keep the lowest id.

Durable history is delegated to a Recorder. When one is attached, the event
for a mutation is recorded before in-memory state changes; a failed record
aborts the mutation. Replaying the recorded events through Restore rebuilds
an identical ledger.
*/
package ledger
