// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/sebas-ib/polling-app/auth"
	"github.com/sebas-ib/polling-app/middleware"
	"github.com/sebas-ib/polling-app/models"
)

type ClientHandler struct {
	db *sql.DB
}

func NewClientHandler(db *sql.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// SetName handles POST /clients/name
// Assigns a display name to the client, issuing a fresh client_id cookie for
// first-time visitors. The id is the opaque key every vote and ownership
// check uses; the name only decorates broadcasts.
func (h *ClientHandler) SetName(w http.ResponseWriter, r *http.Request) {
	var req models.SetNameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := req.ClientName
	if name == "" {
		name = "Anonymous"
	}
	if len(name) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "client_name must be at most 50 characters")
		return
	}

	clientID := middleware.ClientID(r)
	isNew := clientID == ""
	if isNew {
		clientID = auth.NewClientID()
	}

	// Upsert: first write creates the client row, later ones rename it.
	res, err := h.db.Exec(`
		UPDATE client SET name = $1 WHERE id = $2
	`, name, clientID)
	if err == nil {
		if n, _ := res.RowsAffected(); n == 0 {
			_, err = h.db.Exec(`
				INSERT INTO client (id, name, created_at)
				VALUES ($1, $2, $3)
			`, clientID, name, time.Now().UTC())
		}
	}
	if err != nil {
		slog.Error("failed to save client", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save client")
		return
	}

	if isNew {
		middleware.SetClientCookie(w, clientID)
	}

	slog.Info("client name set", "client_id", clientID, "name", name, "new", isNew)

	middleware.JSONResponse(w, http.StatusOK, models.ClientResponse{
		ClientID:   clientID,
		ClientName: name,
	})
}

// GetMe handles GET /clients/me
func (h *ClientHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.ClientID(r)
	if clientID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "No client identity")
		return
	}

	var name string
	err := h.db.QueryRow(`SELECT name FROM client WHERE id = $1`, clientID).Scan(&name)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Client not found")
		return
	}
	if err != nil {
		slog.Error("failed to query client", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ClientResponse{
		ClientID:   clientID,
		ClientName: name,
	})
}
