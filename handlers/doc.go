// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the student vote API.

# Handler Types

Each handler is a struct holding the services it needs:

  - VotingHandler: vote submission and per-student vote status
  - ResultsHandler: tally, live tally websocket, organization listing
  - AuthHandler: admin login/logout and student credential check

Handlers are created via constructor functions:

	votingHandler := handlers.NewVotingHandler(submitter, repo)

# Voting Flow

	GET  /organizations             → GetOrganizations
	POST /students/login            → StudentLogin
	POST /vote                      → SubmitVote

SubmitVote answers 400 with an issue list for malformed input, 409 when the
student already voted in one of the selected organizations, and 500 when
storage fails. A rejected submission writes nothing.

# Results

	GET /results       → GetResults
	GET /results/live  → LiveResults

ResultsHandler also implements voting.Notifier, so every committed
submission pushes a fresh tally to live viewers.
*/
package handlers
