// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers of the election API.

Handlers translate HTTP requests into ledger operations and map ledger error
kinds onto HTTP statuses via middleware.LedgerError. They hold no election
state of their own; the ledger is the single source of truth.

The administrator authenticates with the X-Admin-Key header, voters with the
X-Voter-Identity header. Read endpoints are public.
*/
package handlers
