// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sebas-ib/polling-app/middleware"
	"github.com/sebas-ib/polling-app/realtime"
	"github.com/sebas-ib/polling-app/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The identity cookie, not the origin, is what authenticates a client.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	store *store.PollStore
	hub   *realtime.Hub
}

func NewWSHandler(st *store.PollStore, hub *realtime.Hub) *WSHandler {
	return &WSHandler{store: st, hub: hub}
}

// JoinRoom handles GET /polls/{code}/ws
// Upgrades the connection and subscribes it to the poll's room. Everything
// published to the poll after the join reaches this connection until it
// drops; state missed before the join comes from GET /polls/{code}.
func (h *WSHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
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

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err, "remote", middleware.GetClientIP(r))
		return
	}

	conn := realtime.NewConn(ws, clientID)
	h.hub.Join(pollID, conn)

	go conn.WritePump()
	go conn.ReadPump(h.hub)
}
