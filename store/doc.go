// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds the authoritative poll state and applies every mutation.

# Poll Store

PollStore wraps the SQL database and exposes the engine's operations:

	st := store.New(db, hub)
	poll, err := st.GetPollByCode(ctx, "QK7M2X")
	delta, err := st.SetVote(ctx, pollID, questionID, clientID, optionID)
	locked, err := st.ToggleLock(ctx, pollID, requesterID)

Errors are sentinels: ErrNotFound, ErrForbidden, ErrVotingLocked. Handlers
map them to HTTP status codes.

# Vote Semantics

A client holds at most one live vote per question. Resolve (the vote
resolver) decides between three outcomes: first vote, switch, or idempotent
no-op. SetVote applies the outcome in one transaction: decrement the old
option floored at zero, increment the new one, upsert the vote record,
so counts always equal the number of vote records pointing at each option.

# Serialization and Ordering

Three layers of serialization:

  - a keyed mutex per (poll, question, client) prevents interleaving of
    two SetVote calls on the same key; different keys proceed in parallel
  - shared option counters are mutated with relative UPDATEs inside the
    transaction, so concurrent votes on the same option serialize at the row
  - a per-poll sequence mutex spans commit and publish, giving every room
    subscriber the same relative order of events per poll

Publication happens strictly after commit: a mutation that fails or is
cancelled never broadcasts.

Mutations acquire their database resources before the sequence mutex and
never wait on the connection pool while holding it. SetVote does all reads
on its open transaction; toggles pin a dedicated connection first. A
saturated pool therefore delays mutations but cannot wedge them against
each other.
*/
package store
