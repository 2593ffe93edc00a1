// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/ledger"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type VotingHandler struct {
	ledger *ledger.Ledger
	cfg    cliparse.Config
}

func NewVotingHandler(l *ledger.Ledger, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{ledger: l, cfg: cfg}
}

// CastVote handles POST /election/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	identity := r.Header.Get("X-Voter-Identity")
	if identity == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Identity header required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Hash the client IP for audit; never store the raw address
	clientIP := middleware.GetClientIP(r)
	audit := ledger.CastAudit{
		IPHash:    auth.HashIP(clientIP, h.cfg.AdminKeySalt),
		UserAgent: r.UserAgent(),
	}

	if err := h.ledger.CastVote(identity, req.CandidateID, audit); err != nil {
		middleware.LedgerError(w, err)
		return
	}

	slog.Info("ballot cast", "candidate_id", req.CandidateID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		CandidateID: req.CandidateID,
		Message:     "Ballot recorded",
	})
}
