package models

import (
	"encoding/json"
	"time"
)

// Organization member roles
const (
	RoleChairman     = "chairman"
	RoleViceChairman = "vice_chairman"
)

// Request types

// StudentID and OrganizationPairIDs accept numbers or numeric strings, and
// OrganizationPairIDs also accepts an array. They are kept raw and parsed by
// the voting package so every violation can be reported at once.
type SubmitVoteRequest struct {
	StudentID           json.RawMessage `json:"studentId"`
	OrganizationPairIDs json.RawMessage `json:"organizationPairIds"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StudentLoginRequest struct {
	StudentID json.RawMessage `json:"studentId"`
	Password  string          `json:"password"`
}

// Response types

type SubmitVoteResponse struct {
	Message  string `json:"message"`
	Recorded int    `json:"recorded"`
}

type LoginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type VoteStatusResponse struct {
	StudentID                int64   `json:"studentId"`
	HasVoted                 bool    `json:"hasVoted"`
	VotedOrganizationIDs     []int64 `json:"votedOrganizationIds"`
	RemainingOrganizationIDs []int64 `json:"remainingOrganizationIds"`
}

// Domain types

type Organization struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Pairs []Pair `json:"pairs"`
}

type Pair struct {
	ID             int64                `json:"id"`
	OrganizationID int64                `json:"organizationId"`
	Members        []OrganizationMember `json:"members"`
}

type OrganizationMember struct {
	ID             int64   `json:"id"`
	OrganizationID int64   `json:"organizationId"`
	PairID         int64   `json:"pairId"`
	Nickname       string  `json:"nickname"`
	FullName       *string `json:"fullName,omitempty"`
	Role           string  `json:"role"`
	ImageFileName  *string `json:"imageFileName,omitempty"`
}

type Vote struct {
	ID             int64 `json:"id"`
	StudentID      int64 `json:"studentId"`
	OrganizationID int64 `json:"organizationId"`
	PairID         int64 `json:"pairId"`
}

// PairVoteCount is one row of the grouped vote count
type PairVoteCount struct {
	OrganizationID int64
	PairID         int64
	Count          int
}

// Tally types

// VotingResult is derived on every request and never stored.
// Percentage is nil when the organization has no votes yet.
type VotingResult struct {
	Name           string   `json:"name"`
	OrganizationID int64    `json:"organizationId"`
	PairID         int64    `json:"pairId"`
	Percentage     *float64 `json:"percentage,omitempty"`
	VoteCount      int      `json:"voteCount"`
	TotalVoteCount int      `json:"totalVoteCount"`
	ImageFileName  *string  `json:"imageFileName,omitempty"`
}

// VotingResults maps organization name to its pairs' results
type VotingResults map[string][]VotingResult

// Events

type VoteCastEvent struct {
	VoteID         int64     `json:"voteId"`
	StudentID      int64     `json:"studentId"`
	OrganizationID int64     `json:"organizationId"`
	PairID         int64     `json:"pairId"`
	CastAt         time.Time `json:"castAt"`
}

// Error response

// Issue is a single validation failure; Path names the offending field,
// e.g. "organizationPairIds[1]".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string  `json:"error"`
	Message string  `json:"message,omitempty"`
	Issues  []Issue `json:"issues,omitempty"`
}
