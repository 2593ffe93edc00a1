// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

Includes request logging, JSON response/error helpers, the ledger error kind
to HTTP status mapping, CORS support, and client IP extraction for audit
hashing.
*/
package middleware
