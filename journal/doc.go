// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package journal persists the election's append-only mutation history.

The journal stores one election metadata row plus one row per accepted
ledger event, in total order. It backs onto database/sql with either the
pure-Go sqlite driver (default, also used by the tests via :memory:) or
Postgres via lib/pq; the two differ only in placeholder style.

At startup the server replays Events through ledger.Restore to rebuild the
in-memory state, so the recorded history is the source of truth and the
winner is reproducible from it alone.
*/
package journal
