// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sebas-ib/polling-app/models"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum size of inbound control messages; clients never send data.
	maxMessageSize = 512

	// Events buffered per connection before the member is considered
	// unreachable and dropped.
	sendBuffer = 32
)

// Conn is one live subscriber connection. Events are enqueued to a buffered
// channel and written by a dedicated pump goroutine, so a publish never
// blocks on a slow peer.
type Conn struct {
	ClientID string

	ws   *websocket.Conn
	send chan models.Envelope
	once sync.Once
}

func NewConn(ws *websocket.Conn, clientID string) *Conn {
	return &Conn{
		ClientID: clientID,
		ws:       ws,
		send:     make(chan models.Envelope, sendBuffer),
	}
}

// enqueue hands an event to the write pump. Returns false when the buffer is
// full, which the hub treats as an unreachable member.
func (c *Conn) enqueue(env models.Envelope) bool {
	select {
	case c.send <- env:
		return true
	default:
		return false
	}
}

// shutdown closes the send channel exactly once, which terminates the write
// pump and closes the underlying socket.
func (c *Conn) shutdown() {
	c.once.Do(func() { close(c.send) })
}

// WritePump drains the send channel onto the websocket and keeps the
// connection alive with periodic pings. Runs as a goroutine per connection.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump consumes the connection until the peer goes away, then removes
// the membership synchronously. Subscribers push nothing of interest to the
// server; the read side exists to detect disconnects and answer pings.
func (c *Conn) ReadPump(h *Hub) {
	defer func() {
		h.Leave(c)
		c.shutdown()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}
