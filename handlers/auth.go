// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/student-vote/auth"
	"github.com/danielhkuo/student-vote/middleware"
	"github.com/danielhkuo/student-vote/models"
	"github.com/danielhkuo/student-vote/store"
	"github.com/danielhkuo/student-vote/voting"
)

type AuthHandler struct {
	creds    auth.CredentialStore
	sessions auth.SessionStore
	repo     store.Reader
}

func NewAuthHandler(creds auth.CredentialStore, sessions auth.SessionStore, repo store.Reader) *AuthHandler {
	return &AuthHandler{creds: creds, sessions: sessions, repo: repo}
}

// Login handles POST /login
// Verifies admin credentials and issues a session token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var issues []models.Issue
	if req.Username == "" {
		issues = append(issues, models.Issue{Path: "username", Message: "is required"})
	}
	if req.Password == "" {
		issues = append(issues, models.Issue{Path: "password", Message: "is required"})
	}
	if len(issues) > 0 {
		middleware.ValidationErrorResponse(w, issues)
		return
	}

	adminID, err := h.creds.VerifyAdmin(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		slog.Info("admin login rejected", "username", req.Username, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid username or password")
		return
	}
	if err != nil {
		slog.Error("failed to verify admin", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error, something went wrong")
		return
	}

	session, err := h.sessions.Create(r.Context(), adminID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "admin_id", adminID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error, something went wrong")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("admin logged in", "admin_id", adminID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Message:   "OK",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		if err := h.sessions.Delete(r.Context(), token); err != nil {
			slog.Error("failed to delete session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error, something went wrong")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// StudentLogin handles POST /students/login
// Verifies a student id/password and returns the student's vote status
func (h *AuthHandler) StudentLogin(w http.ResponseWriter, r *http.Request) {
	var req models.StudentLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	studentID, err := voting.ParseStudentID(req.StudentID)
	if err != nil {
		writeVotingError(w, err, "failed to parse student id")
		return
	}
	if req.Password == "" {
		middleware.ValidationErrorResponse(w, []models.Issue{{Path: "password", Message: "is required"}})
		return
	}

	err = h.creds.VerifyStudent(r.Context(), studentID, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid student ID or password")
		return
	}
	if err != nil {
		slog.Error("failed to verify student", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error, something went wrong")
		return
	}

	status, err := voting.VoteStatus(r.Context(), h.repo, studentID)
	if err != nil {
		writeVotingError(w, err, "failed to load vote status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, status)
}
