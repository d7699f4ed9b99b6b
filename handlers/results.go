// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/student-vote/hub"
	"github.com/danielhkuo/student-vote/middleware"
	"github.com/danielhkuo/student-vote/models"
	"github.com/danielhkuo/student-vote/store"
	"github.com/danielhkuo/student-vote/voting"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ResultsHandler struct {
	tallier *voting.Tallier
	repo    store.Reader
	hub     *hub.Hub
}

// NewResultsHandler builds the results endpoints. A nil hub disables live
// results.
func NewResultsHandler(tallier *voting.Tallier, repo store.Reader, h *hub.Hub) *ResultsHandler {
	return &ResultsHandler{tallier: tallier, repo: repo, hub: h}
}

// GetResults handles GET /results (admin)
// Recomputes the tally from all votes on every call
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.tallier.Tally(r.Context())
	if err != nil {
		writeVotingError(w, err, "failed to tally votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetOrganizations handles GET /organizations
// Returns organizations with their pairs and members
func (h *ResultsHandler) GetOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.repo.ListOrganizations(r.Context())
	if err != nil {
		slog.Error("failed to list organizations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, orgs)
}

// LiveResults handles GET /results/live (admin)
// Upgrades to a websocket, sends the current tally, then pushes a new tally
// after every committed submission. The viewer joins the hub only after the
// snapshot is written, so a broadcast never arrives ahead of an older
// snapshot. A tally that moved while joining is resent once.
func (h *ResultsHandler) LiveResults(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Live results unavailable")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := hub.NewWebsocketClient(conn)

	snapshot, err := h.tallyJSON(r.Context())
	if err != nil {
		slog.Error("failed to tally votes for live results", "error", err)
		client.Close()
		return
	}
	if err := client.WriteMessage(websocket.TextMessage, snapshot); err != nil {
		client.Close()
		return
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	// Submissions committed before Register were broadcast without us
	if latest, err := h.tallyJSON(r.Context()); err == nil && !bytes.Equal(latest, snapshot) {
		if err := client.WriteMessage(websocket.TextMessage, latest); err != nil {
			return
		}
	}

	// Keep the connection open until the viewer leaves
	for {
		if _, _, err := client.ReadMessage(); err != nil {
			break
		}
	}
}

// VotesRecorded broadcasts a fresh tally to live viewers.
// ResultsHandler is registered as a voting.Notifier. Without a hub it does
// nothing.
func (h *ResultsHandler) VotesRecorded(ctx context.Context, votes []models.Vote) error {
	if h.hub == nil {
		return nil
	}
	payload, err := h.tallyJSON(ctx)
	if err != nil {
		return err
	}
	h.hub.Broadcast(payload)
	return nil
}

func (h *ResultsHandler) tallyJSON(ctx context.Context) ([]byte, error) {
	results, err := h.tallier.Tally(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to encode results: %w", err)
	}
	return payload, nil
}
