// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/ledger"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type ResultsHandler struct {
	ledger     *ledger.Ledger
	electionID string
	cfg        cliparse.Config
}

func NewResultsHandler(l *ledger.Ledger, electionID string, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{ledger: l, electionID: electionID, cfg: cfg}
}

// GetStatus handles GET /election
func (h *ResultsHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := models.StatusResponse{
		ElectionID:     h.electionID,
		Phase:          h.ledger.Phase(),
		CandidateCount: h.ledger.CandidateCount(),
		BallotsCast:    h.ledger.BallotsCast(),
	}
	if t := h.ledger.OpenedAt(); !t.IsZero() {
		resp.OpenedAgo = humanize.Time(t)
	}
	if t := h.ledger.ClosedAt(); !t.IsZero() {
		resp.ClosedAgo = humanize.Time(t)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// ListCandidates handles GET /election/candidates
// The roster with live tallies is public in any phase.
func (h *ResultsHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.ledger.Candidates())
}

// GetWinner handles GET /election/winner
func (h *ResultsHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	winner, err := h.ledger.Winner()
	if err != nil {
		middleware.LedgerError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, winner)
}

// GetVoter handles GET /election/voters/{identity}
// An unknown identity is answered with the zero record, not an error.
func (h *ResultsHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	identity := r.PathValue("identity")
	if identity == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "identity is required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.ledger.Voter(identity))
}

// AdminCheck handles GET /election/admin-check/{identity}
func (h *ResultsHandler) AdminCheck(w http.ResponseWriter, r *http.Request) {
	identity := r.PathValue("identity")
	if identity == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "identity is required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdminCheckResponse{
		IsAdministrator: h.ledger.IsAdministrator(identity),
	})
}
