package models

// Request types

type AddCandidateRequest struct {
	Name string `json:"name"`
}

// Identity may be empty, in which case the server generates one and returns
// it for the administrator to hand to the voter.
type RegisterVoterRequest struct {
	Identity string `json:"identity"`
}

type CastVoteRequest struct {
	CandidateID int `json:"candidate_id"`
}

// Response types

type AddCandidateResponse struct {
	CandidateID int `json:"candidate_id"`
}

type RegisterVoterResponse struct {
	Identity  string `json:"identity"`
	Generated bool   `json:"generated"`
}

type CastVoteResponse struct {
	CandidateID int    `json:"candidate_id"`
	Message     string `json:"message"`
}

type StatusResponse struct {
	ElectionID     string `json:"election_id"`
	Phase          string `json:"phase"`
	CandidateCount int    `json:"candidate_count"`
	BallotsCast    int    `json:"ballots_cast"`
	OpenedAgo      string `json:"opened_ago,omitempty"`
	ClosedAgo      string `json:"closed_ago,omitempty"`
}

type AdminCheckResponse struct {
	IsAdministrator bool `json:"is_administrator"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}
