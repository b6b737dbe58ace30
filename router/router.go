// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/sebas-ib/polling-app/handlers"
	"github.com/sebas-ib/polling-app/middleware"
	"github.com/sebas-ib/polling-app/realtime"
	"github.com/sebas-ib/polling-app/store"
)

func NewRouter(db *sql.DB, st *store.PollStore, hub *realtime.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	clientHandler := handlers.NewClientHandler(db)
	pollHandler := handlers.NewPollHandler(st)
	votingHandler := handlers.NewVotingHandler(st)
	wsHandler := handlers.NewWSHandler(st, hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Client identity
	mux.HandleFunc("POST /clients/name", middleware.WithLogging(clientHandler.SetName))
	mux.HandleFunc("GET /clients/me", middleware.WithLogging(clientHandler.GetMe))

	// Poll lifecycle and state
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListMyPolls))
	mux.HandleFunc("GET /polls/{code}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls/{code}/toggle-results", middleware.WithLogging(pollHandler.ToggleResults))
	mux.HandleFunc("POST /polls/{code}/toggle-lock", middleware.WithLogging(pollHandler.ToggleLock))

	// Voting
	mux.HandleFunc("POST /polls/{code}/votes", middleware.WithLogging(votingHandler.CastVote))

	// Realtime room subscription (no logging wrapper: long-lived connection)
	mux.HandleFunc("GET /polls/{code}/ws", wsHandler.JoinRoom)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("polling-app API v1"))
	})

	return mux
}
