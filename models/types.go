package models

import "time"

// Request types

type SetNameRequest struct {
	ClientName string `json:"client_name"`
}

type CreatePollRequest struct {
	Title     string                  `json:"title"`
	Questions []CreateQuestionRequest `json:"questions"`
}

type CreateQuestionRequest struct {
	Title   string   `json:"title"`
	Options []string `json:"options"`
}

type CastVoteRequest struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// Response types

type ClientResponse struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
}

type CreatePollResponse struct {
	Poll Poll `json:"poll"`
}

// PollStateResponse is the full authoritative poll state plus the requesting
// client's saved selection per question. Reconnecting clients rebuild their
// local view from this instead of replaying missed events.
type PollStateResponse struct {
	Poll         Poll              `json:"poll"`
	MySelections map[string]string `json:"my_selections"`
}

type CastVoteResponse struct {
	// Delta is null when the vote was an idempotent resubmission.
	Delta *VoteDelta `json:"delta"`
}

type ToggleResponse struct {
	Value bool `json:"value"`
}

type PollListResponse struct {
	Polls []PollSummary `json:"polls"`
}

// Domain types

type Poll struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	Title        string     `json:"title"`
	OwnerID      string     `json:"owner_id"`
	ShowResults  bool       `json:"show_results"`
	VotingLocked bool       `json:"voting_locked"`
	Questions    []Question `json:"questions"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Question struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Options []Option `json:"options"`
}

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount int    `json:"vote_count"`
}

// PollSummary is the listing view of a poll: flags and code without the
// question aggregate.
type PollSummary struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	ShowResults  bool      `json:"show_results"`
	VotingLocked bool      `json:"voting_locked"`
	CreatedAt    time.Time `json:"created_at"`
}

// OptionCount is one option's authoritative count after a mutation.
type OptionCount struct {
	OptionID  string `json:"option_id"`
	VoteCount int    `json:"new_vote_count"`
}

// VoteDelta describes the count changes produced by one vote mutation:
// the newly selected option's resulting count and, when the client switched
// from a previous option, that option's resulting count after decrement.
type VoteDelta struct {
	QuestionID string       `json:"question_id"`
	NewVote    OptionCount  `json:"new_vote"`
	OldVote    *OptionCount `json:"old_vote"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
