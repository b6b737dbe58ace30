// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the polling API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

  - ClientHandler: display-name assignment and identity lookup (*sql.DB)
  - PollHandler: poll creation, listing, state fetch, owner toggles (store)
  - VotingHandler: vote casting (store)
  - WSHandler: room subscription over websocket (store + hub)

# Voting Flow

A client needs an identity cookie first, then joins by code:

	POST /clients/name           → SetName (issues client_id cookie)
	GET  /polls/{code}           → GetPoll (state + my_selections)
	GET  /polls/{code}/ws        → JoinRoom (push events)
	POST /polls/{code}/votes     → CastVote (returns the VoteDelta)

# Owner Controls

The poll's creator, identified by the same cookie, may flip the two poll
flags; everyone else gets 403:

	POST /polls/{code}/toggle-results
	POST /polls/{code}/toggle-lock

While voting_locked is set, CastVote returns 423 Locked for non-owners.

# Error Mapping

store.ErrNotFound → 404, store.ErrForbidden → 403, store.ErrVotingLocked →
423. An idempotent vote resubmission is a 200 with a null delta.
*/
package handlers
