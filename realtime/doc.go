// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime fans poll events out to live websocket subscribers.

# Rooms

The Hub keys rooms by poll id. A connection joins exactly one room per poll
(re-join is idempotent) and is removed from every room synchronously when its
read pump observes the transport close:

	hub := realtime.NewHub()
	conn := realtime.NewConn(ws, clientID)
	hub.Join(pollID, conn)
	go conn.WritePump()
	conn.ReadPump(hub) // blocks until disconnect, then leaves the room

# Delivery Contract

Publish delivers to the members present at the moment of publish. A
connection joining mid-publish may or may not receive that event but
receives everything published after its Join returns. All members of a room
observe events in the same relative order. Members with a full send buffer
are dropped and their sockets closed; a publish never aborts because one
member is unreachable.

Undelivered events are not persisted anywhere; clients that reconnect
refetch the full poll state over HTTP instead of replaying an event log.
*/
package realtime
