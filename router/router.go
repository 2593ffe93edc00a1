// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/ledger"
	"github.com/danielhkuo/ballotbox/middleware"
)

func NewRouter(l *ledger.Ledger, electionID string, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(l, electionID, cfg)
	votingHandler := handlers.NewVotingHandler(l, cfg)
	resultsHandler := handlers.NewResultsHandler(l, electionID, cfg)
	observerHandler := handlers.NewObserverHandler(l)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election administration
	mux.HandleFunc("POST /election/candidates", middleware.WithLogging(electionHandler.AddCandidate))
	mux.HandleFunc("POST /election/voters", middleware.WithLogging(electionHandler.RegisterVoter))
	mux.HandleFunc("POST /election/open", middleware.WithLogging(electionHandler.Open))
	mux.HandleFunc("POST /election/close", middleware.WithLogging(electionHandler.Close))

	// Voting
	mux.HandleFunc("POST /election/votes", middleware.WithLogging(votingHandler.CastVote))

	// Results and status (public)
	mux.HandleFunc("GET /election", middleware.WithLogging(resultsHandler.GetStatus))
	mux.HandleFunc("GET /election/candidates", middleware.WithLogging(resultsHandler.ListCandidates))
	mux.HandleFunc("GET /election/winner", middleware.WithLogging(resultsHandler.GetWinner))
	mux.HandleFunc("GET /election/voters/{identity}", middleware.WithLogging(resultsHandler.GetVoter))
	mux.HandleFunc("GET /election/admin-check/{identity}", middleware.WithLogging(resultsHandler.AdminCheck))

	// Event stream (no logging wrapper: the connection is long-lived)
	mux.HandleFunc("GET /election/events", observerHandler.Stream)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
