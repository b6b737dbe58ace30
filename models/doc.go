// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the shared types for the polling API.

# Type Categories

Request types are the JSON bodies the API accepts:

  - SetNameRequest: display-name assignment
  - CreatePollRequest: poll aggregate with questions and options
  - CastVoteRequest: one (question, option) vote

Response types are the JSON bodies the API returns:

  - PollStateResponse: full poll state plus the caller's saved selections
  - CastVoteResponse: the resulting VoteDelta (null on a no-op resubmission)
  - PollListResponse: the caller's own polls as PollSummary entries

Domain types model the poll aggregate: a Poll holds an ordered list of
Questions, each holding an ordered list of Options with live vote counts.

# Push Events

Events published to a poll's room travel in an Envelope carrying the event
type, the poll id, and a typed payload (VoteEvent, ToggleResultsEvent,
LockPollEvent). Event payloads contain authoritative values only; clients
overwrite, never merge.
*/
package models
