// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reconciler implements the client side of the poll engine: an
optimistic local view of one poll that reconciles itself against the
server's authoritative broadcasts.

# State Machine

A PollView moves Loading → Ready ⇄ Voting:

	view := reconciler.NewPollView(clientID)
	view.Load(state)                      // Loading → Ready
	req, ok := view.Submit(qID, optID)    // Ready → Voting (optimistic apply)
	view.ApplyVote(ev)                    // Voting → Ready on own echo

Submit applies the local count changes immediately (increment the chosen
option, decrement the previous one floored at zero) and suppresses
resubmissions of the current selection before they reach the network.

ApplyVote overwrites the affected counts with the authoritative values from
the broadcast, never merges. When the event's voting client is the local
client, the recorded selection is overwritten too; this corrects races
between two tabs of the same client.

# Session

Session wires a PollView to a running server: HTTP fetch of full state on
connect (and every reconnect; missed events are superseded, not replayed),
a gorilla/websocket subscription for pushes, and Vote for submissions.
*/
package reconciler
