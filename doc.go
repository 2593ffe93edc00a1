// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

Ballotbox runs a single election as a phase-gated state machine: one fixed
administrator builds the candidate roster and voter roll while the election
is closed, opens it for voting, and closes it again. Every accepted mutation
is appended to a durable journal before it takes effect, so the full election
state is reproducible by replay.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:ballotbox.db go run main.go

Or with flags:

	go run main.go -p 3319 -d "file:ballotbox.db" -admin-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3319)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"

On first start the server creates the election, derives its administrator
key, and logs the key once. The key is the administrator's identity; there is
no way to recover it other than re-deriving from the election ID and salt.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - ledger: In-memory election state machine, the single source of truth
  - journal: Append-only event record backing the ledger
  - handlers: HTTP request handlers (election admin, voting, results, events)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, error kind mapping
  - models: Request/response types
  - auth: Key and identity generation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
