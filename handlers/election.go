// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/ledger"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type ElectionHandler struct {
	ledger     *ledger.Ledger
	electionID string
	cfg        cliparse.Config
}

func NewElectionHandler(l *ledger.Ledger, electionID string, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{ledger: l, electionID: electionID, cfg: cfg}
}

// adminCaller validates the X-Admin-Key header against the election's derived
// key and returns it as the caller identity. On failure it writes the 401 and
// returns ok=false.
func (h *ElectionHandler) adminCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(h.electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.LedgerError(w, fmt.Errorf("invalid admin key: %w", ledger.ErrUnauthorized))
		return "", false
	}
	return adminKey, true
}

// AddCandidate handles POST /election/candidates
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.adminCaller(w, r)
	if !ok {
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	candidate, err := h.ledger.AddCandidate(caller, req.Name)
	if err != nil {
		middleware.LedgerError(w, err)
		return
	}

	slog.Info("candidate added", "candidate_id", candidate.ID, "name", candidate.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidateID: candidate.ID,
	})
}

// RegisterVoter handles POST /election/voters
// The administrator may supply the voter's identity; when omitted the server
// generates an opaque one and returns it for hand-off.
func (h *ElectionHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.adminCaller(w, r)
	if !ok {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	identity := req.Identity
	generated := false
	if identity == "" {
		var err error
		identity, err = auth.GenerateVoterIdentity()
		if err != nil {
			slog.Error("failed to generate voter identity", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
			return
		}
		generated = true
	}

	if err := h.ledger.RegisterVoter(caller, identity); err != nil {
		middleware.LedgerError(w, err)
		return
	}

	slog.Info("voter registered", "generated", generated)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		Identity:  identity,
		Generated: generated,
	})
}

// Open handles POST /election/open
func (h *ElectionHandler) Open(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.adminCaller(w, r)
	if !ok {
		return
	}

	if err := h.ledger.OpenElection(caller); err != nil {
		middleware.LedgerError(w, err)
		return
	}

	slog.Info("election opened", "candidates", h.ledger.CandidateCount())

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"phase": h.ledger.Phase(),
	})
}

// Close handles POST /election/close
func (h *ElectionHandler) Close(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.adminCaller(w, r)
	if !ok {
		return
	}

	if err := h.ledger.CloseElection(caller); err != nil {
		middleware.LedgerError(w, err)
		return
	}

	slog.Info("election closed", "ballots_cast", h.ledger.BallotsCast())

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"phase": h.ledger.Phase(),
	})
}
