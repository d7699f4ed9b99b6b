// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/student-vote/middleware"
	"github.com/danielhkuo/student-vote/models"
	"github.com/danielhkuo/student-vote/store"
	"github.com/danielhkuo/student-vote/voting"
)

type VotingHandler struct {
	submitter *voting.Submitter
	repo      store.Reader
}

func NewVotingHandler(submitter *voting.Submitter, repo store.Reader) *VotingHandler {
	return &VotingHandler{submitter: submitter, repo: repo}
}

// SubmitVote handles POST /vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	// Parse request
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sub, err := voting.ParseSubmission(req)
	if err != nil {
		writeVotingError(w, err, "failed to parse vote")
		return
	}

	votes, err := h.submitter.Submit(r.Context(), sub)
	if err != nil {
		writeVotingError(w, err, "failed to submit vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVoteResponse{
		Message:  "Vote submitted successfully",
		Recorded: len(votes),
	})
}

// GetVoteStatus handles GET /students/{id}/vote-status
func (h *VotingHandler) GetVoteStatus(w http.ResponseWriter, r *http.Request) {
	studentID, err := voting.ParseStudentIDString(r.PathValue("id"))
	if err != nil {
		writeVotingError(w, err, "failed to parse student id")
		return
	}

	status, err := voting.VoteStatus(r.Context(), h.repo, studentID)
	if err != nil {
		writeVotingError(w, err, "failed to load vote status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, status)
}

// writeVotingError maps voting errors to responses. Storage details are
// logged and never sent to the client.
func writeVotingError(w http.ResponseWriter, err error, logMsg string) {
	var validationErr *voting.ValidationError
	var votedErr *voting.AlreadyVotedError

	switch {
	case errors.As(err, &validationErr):
		middleware.ValidationErrorResponse(w, validationErr.Issues)
	case errors.As(err, &votedErr):
		slog.Info("rejected repeat vote", "student_id", votedErr.StudentID, "organization_ids", votedErr.OrganizationIDs)
		middleware.ErrorResponse(w, http.StatusConflict, "Student has already voted in this organization")
	default:
		slog.Error(logMsg, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
