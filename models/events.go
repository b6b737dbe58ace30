// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Push event type names, as they appear in Envelope.Type.
const (
	EventVote          = "vote_event"
	EventToggleResults = "toggle_results_event"
	EventLockPoll      = "lock_poll_event"
)

// Envelope wraps every server→client push message.
type Envelope struct {
	Type    string `json:"type"`
	PollID  string `json:"poll_id"`
	Payload any    `json:"payload"`
}

// VoteEvent carries the delta of one applied vote plus the identity of the
// voting client, so every receiver, the voter's own other tabs included,
// can reconcile its local view against the authoritative counts.
type VoteEvent struct {
	ClientID   string    `json:"client_id"`
	ClientName string    `json:"client_name,omitempty"`
	Delta      VoteDelta `json:"delta"`
}

// ToggleResultsEvent announces the new results-visibility flag.
type ToggleResultsEvent struct {
	ShowResults bool `json:"show_results"`
}

// LockPollEvent announces the new voting-lock flag.
type LockPollEvent struct {
	VotingLocked bool `json:"voting_locked"`
}
