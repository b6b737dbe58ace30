// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"log/slog"
	"sync"

	"github.com/sebas-ib/polling-app/models"
)

// Hub maps each poll id to the set of connections currently subscribed to
// that poll's room. Membership is ephemeral: it is rebuilt from scratch as
// connections come and go and is never persisted.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Conn]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Conn]bool)}
}

// Join subscribes a connection to a poll's room. Re-joining the same room is
// idempotent.
func (h *Hub) Join(pollID string, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[pollID]
	if !ok {
		room = make(map[*Conn]bool)
		h.rooms[pollID] = room
	}
	room[c] = true

	slog.Info("room joined", "poll_id", pollID, "client_id", c.ClientID, "members", len(room))
}

// Leave removes a connection from every room it belongs to. The websocket
// read loop calls this synchronously on transport disconnect, so stale
// membership never outlives the connection by more than one failed write.
func (h *Hub) Leave(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Conn) {
	for pollID, room := range h.rooms {
		if room[c] {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, pollID)
			}
			slog.Info("room left", "poll_id", pollID, "client_id", c.ClientID, "members", len(room))
		}
	}
}

// Members returns a snapshot of a room's current connections.
func (h *Hub) Members(pollID string) []*Conn {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[pollID]
	members := make([]*Conn, 0, len(room))
	for c := range room {
		members = append(members, c)
	}
	return members
}

// Publish wraps the payload in an envelope and enqueues it to every member
// of the poll's room. A member whose send buffer is full is dropped from all
// rooms and its connection closed; the publish continues to the rest and
// never aborts. Publishes are serialized by the hub lock, so all members of
// a room observe events in the same relative order.
func (h *Hub) Publish(pollID, eventType string, payload any) {
	env := models.Envelope{Type: eventType, PollID: pollID, Payload: payload}

	h.mu.Lock()
	defer h.mu.Unlock()

	var dead []*Conn
	for c := range h.rooms[pollID] {
		if !c.enqueue(env) {
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		slog.Warn("dropping unreachable room member", "poll_id", pollID, "client_id", c.ClientID)
		h.removeLocked(c)
		c.shutdown()
	}
}
