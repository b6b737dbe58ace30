// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sebas-ib/polling-app/middleware"
	"github.com/sebas-ib/polling-app/models"
	"github.com/sebas-ib/polling-app/store"
)

type PollHandler struct {
	store *store.PollStore
}

func NewPollHandler(st *store.PollStore) *PollHandler {
	return &PollHandler{store: st}
}

// writeStoreError maps store sentinels to HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the poll owner may do that")
	case errors.Is(err, store.ErrVotingLocked):
		middleware.ErrorResponse(w, http.StatusLocked, "Voting is locked")
	default:
		slog.Error("store operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.ClientID(r)
	if clientID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "No client identity")
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Questions) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one question is required")
		return
	}
	for _, q := range req.Questions {
		if q.Title == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "question title is required")
			return
		}
		if len(q.Options) < 2 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "each question needs at least 2 options")
			return
		}
		for _, text := range q.Options {
			if text == "" {
				middleware.ErrorResponse(w, http.StatusBadRequest, "option text is required")
				return
			}
		}
	}

	poll, err := h.store.CreatePoll(r.Context(), clientID, req.Title, req.Questions)
	if err != nil {
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "code", poll.Code, "owner", clientID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{Poll: *poll})
}

// ListMyPolls handles GET /polls
// Lists the polls owned by the requesting client, newest first.
func (h *PollHandler) ListMyPolls(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.ClientID(r)
	if clientID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "No client identity")
		return
	}

	polls, err := h.store.PollsByOwner(r.Context(), clientID)
	if err != nil {
		slog.Error("failed to list polls", "error", err, "owner", clientID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollListResponse{Polls: polls})
}

// GetPoll handles GET /polls/{code}
// Returns the full authoritative poll state plus the requesting client's
// saved selections, the recovery path for clients that missed broadcasts.
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.ClientID(r)
	if clientID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "No client identity")
		return
	}

	poll, err := h.store.GetPollByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	selections, err := h.store.Selections(r.Context(), poll.ID, clientID)
	if err != nil {
		slog.Error("failed to query selections", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollStateResponse{
		Poll:         *poll,
		MySelections: selections,
	})
}

// ToggleResults handles POST /polls/{code}/toggle-results
func (h *PollHandler) ToggleResults(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.store.ToggleResults)
}

// ToggleLock handles POST /polls/{code}/toggle-lock
func (h *PollHandler) ToggleLock(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.store.ToggleLock)
}

func (h *PollHandler) toggle(w http.ResponseWriter, r *http.Request, flip func(ctx context.Context, pollID, requesterID string) (bool, error)) {
	clientID := middleware.ClientID(r)
	if clientID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "No client identity")
		return
	}

	pollID, err := h.store.PollIDByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	value, err := flip(r.Context(), pollID, clientID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ToggleResponse{Value: value})
}
