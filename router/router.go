// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/student-vote/auth"
	"github.com/danielhkuo/student-vote/handlers"
	"github.com/danielhkuo/student-vote/hub"
	"github.com/danielhkuo/student-vote/middleware"
	"github.com/danielhkuo/student-vote/store"
	"github.com/danielhkuo/student-vote/voting"
)

// Deps are the collaborators shared by all handlers
type Deps struct {
	Repo        store.Repository
	Credentials auth.CredentialStore
	Sessions    auth.SessionStore
	// Hub must be running; nil disables GET /results/live
	Hub *hub.Hub
	// Notifiers run after each committed submission, before the live feed
	Notifiers []voting.Notifier
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize services and handlers
	tallier := voting.NewTallier(deps.Repo)
	resultsHandler := handlers.NewResultsHandler(tallier, deps.Repo, deps.Hub)
	notifiers := append(append([]voting.Notifier{}, deps.Notifiers...), resultsHandler)
	submitter := voting.NewSubmitter(deps.Repo, notifiers...)
	votingHandler := handlers.NewVotingHandler(submitter, deps.Repo)
	authHandler := handlers.NewAuthHandler(deps.Credentials, deps.Sessions, deps.Repo)

	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(deps.Sessions, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /logout", middleware.WithLogging(authHandler.Logout))
	mux.HandleFunc("POST /students/login", middleware.WithLogging(authHandler.StudentLogin))

	// Voting (public)
	mux.HandleFunc("GET /organizations", middleware.WithLogging(resultsHandler.GetOrganizations))
	mux.HandleFunc("GET /students/{id}/vote-status", middleware.WithLogging(votingHandler.GetVoteStatus))
	mux.HandleFunc("POST /vote", middleware.WithLogging(votingHandler.SubmitVote))

	// Results (admin)
	mux.HandleFunc("GET /results", admin(resultsHandler.GetResults))
	mux.HandleFunc("GET /results/live", admin(resultsHandler.LiveResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("student-vote API v1"))
	})

	return mux
}
