// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/sebas-ib/polling-app/middleware"
	"github.com/sebas-ib/polling-app/models"
	"github.com/sebas-ib/polling-app/store"
)

type VotingHandler struct {
	store *store.PollStore
}

func NewVotingHandler(st *store.PollStore) *VotingHandler {
	return &VotingHandler{store: st}
}

// CastVote handles POST /polls/{code}/votes
//
// The response carries the authoritative delta for the caller's own
// request/response path; the same delta reaches every room subscriber
// (including the caller's other tabs) as a vote_event. A null delta means
// the vote was an idempotent resubmission and nothing was broadcast.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.ClientID(r)
	if clientID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "No client identity")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.QuestionID == "" || req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_id and option_id are required")
		return
	}

	pollID, err := h.store.PollIDByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	delta, err := h.store.SetVote(r.Context(), pollID, req.QuestionID, clientID, req.OptionID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{Delta: delta})
}
