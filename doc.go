// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the live polling server.

Participants join a poll by a short code, vote on its questions, and watch
results change in real time: every applied vote is broadcast to all
connections subscribed to the poll's room, and each client reconciles its
optimistic local view against those authoritative events.

# Starting the Server

	go run main.go                          # sqlite file database
	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3001 -t postgres -d "postgres://..."

A .env file is loaded if present.

# Architecture

  - store: authoritative poll state, vote resolution, mutation serialization
  - realtime: rooms keyed by poll id, websocket fan-out of events
  - reconciler: client-side optimistic view (used by Go clients and tests)
  - handlers: HTTP boundary (identity, poll state, votes, toggles, ws join)
  - router: Go 1.22+ route table
  - middleware: logging, JSON helpers, CORS, identity cookie
  - models: shared request/response/event types
  - auth: client ids and join codes
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
