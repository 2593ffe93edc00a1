// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package models defines the JSON request and response types of the
// election API. Domain types (Candidate, Voter) live in the ledger package
// and serialize directly.
package models
