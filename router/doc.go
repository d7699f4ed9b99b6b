// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the student vote API.

# Route Registration

NewRouter wires services and handlers and returns a configured ServeMux:

	mux := router.NewRouter(router.Deps{
		Repo:        store.NewSQLRepository(conn, dialect),
		Credentials: auth.NewSQLCredentials(conn),
		Sessions:    auth.NewSQLSessions(conn, 12*time.Hour),
		Hub:         liveHub,
		Notifiers:   []voting.Notifier{publisher},
	})

# Endpoints

Health:

	GET /health

Authentication:

	POST /login          - Admin login, returns session token
	POST /logout         - Drop admin session
	POST /students/login - Student credential check, returns vote status

Voting (public):

	GET  /organizations              - Organizations, pairs, members
	GET  /students/{id}/vote-status  - Organizations voted / remaining
	POST /vote                       - Submit selections

Results (admin, requires session):

	GET /results       - Tally per organization
	GET /results/live  - Websocket stream of tallies
*/
package router
