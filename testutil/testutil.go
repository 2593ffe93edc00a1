// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/journal"
	"github.com/danielhkuo/ballotbox/ledger"
)

// TestElectionID is the fixed election ID used across handler tests.
const TestElectionID = "test-election"

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3319,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AdminKeySalt: "test-admin-salt",
	}
}

// SetupTestDB opens a fresh in-memory SQLite database
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// :memory: is per-connection; a second connection would see an empty db
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}

// SetupTestLedger creates a journal-backed ledger over an in-memory database
// and returns it with the administrator key.
func SetupTestLedger(t *testing.T, cfg cliparse.Config) (*ledger.Ledger, string) {
	t.Helper()

	db := SetupTestDB(t)
	j, err := journal.Open(db, journal.DriverSQLite)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}

	adminKey := auth.GenerateAdminKey(TestElectionID, cfg.AdminKeySalt)
	if err := j.CreateElection(journal.Election{
		ID:        TestElectionID,
		Admin:     adminKey,
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	l := ledger.New(adminKey)
	l.SetRecorder(j)
	return l, adminKey
}

// SeedCandidates registers the given candidate names
func SeedCandidates(t *testing.T, l *ledger.Ledger, adminKey string, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := l.AddCandidate(adminKey, name); err != nil {
			t.Fatalf("Failed to seed candidate %q: %v", name, err)
		}
	}
}

// SeedVoters registers n voters and returns their identities
func SeedVoters(t *testing.T, l *ledger.Ledger, adminKey string, n int) []string {
	t.Helper()
	identities := make([]string, n)
	for i := range identities {
		identity := uuid.NewString()
		if err := l.RegisterVoter(adminKey, identity); err != nil {
			t.Fatalf("Failed to seed voter: %v", err)
		}
		identities[i] = identity
	}
	return identities
}

// OpenElection transitions a seeded ledger to the open phase
func OpenElection(t *testing.T, l *ledger.Ledger, adminKey string) {
	t.Helper()
	if err := l.OpenElection(adminKey); err != nil {
		t.Fatalf("Failed to open election: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
