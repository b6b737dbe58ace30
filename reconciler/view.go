// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconciler

import (
	"github.com/sebas-ib/polling-app/models"
)

// State is the lifecycle of one open poll view.
type State int

const (
	// StateLoading: no poll state fetched yet; votes are not accepted.
	StateLoading State = iota
	// StateReady: local view matches the last authoritative state seen.
	StateReady
	// StateVoting: an optimistic update is applied and awaiting its echo.
	StateVoting
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateVoting:
		return "voting"
	}
	return "unknown"
}

// PollView is one client's local view of a poll. Vote submissions mutate it
// optimistically so the UI updates instantly; every authoritative broadcast
// overwrites the affected values, correcting any drift, including drift
// caused by this client's own echo or by another tab of the same client.
type PollView struct {
	clientID string
	state    State

	title        string
	ownerID      string
	showResults  bool
	votingLocked bool

	questions  []models.Question  // order preserved from the server
	counts     map[string]int     // option id -> displayed count
	selections map[string]string  // question id -> selected option id
	questionOf map[string]string  // option id -> owning question id
}

func NewPollView(clientID string) *PollView {
	return &PollView{
		clientID:   clientID,
		state:      StateLoading,
		counts:     make(map[string]int),
		selections: make(map[string]string),
		questionOf: make(map[string]string),
	}
}

// Load replaces the entire local view with authoritative server state, as
// returned by the fetch-poll-by-code endpoint. Called on first load and on
// every reconnect: missed events are never replayed, only superseded.
func (v *PollView) Load(state models.PollStateResponse) {
	v.title = state.Poll.Title
	v.ownerID = state.Poll.OwnerID
	v.showResults = state.Poll.ShowResults
	v.votingLocked = state.Poll.VotingLocked
	v.questions = state.Poll.Questions

	v.counts = make(map[string]int)
	v.questionOf = make(map[string]string)
	for _, q := range state.Poll.Questions {
		for _, o := range q.Options {
			v.counts[o.ID] = o.VoteCount
			v.questionOf[o.ID] = q.ID
		}
	}

	v.selections = make(map[string]string)
	for questionID, optionID := range state.MySelections {
		v.selections[questionID] = optionID
	}

	v.state = StateReady
}

func (v *PollView) State() State        { return v.state }
func (v *PollView) Title() string       { return v.title }
func (v *PollView) ShowResults() bool   { return v.showResults }
func (v *PollView) VotingLocked() bool  { return v.votingLocked }
func (v *PollView) IsOwner() bool       { return v.ownerID == v.clientID }

// Count returns the currently displayed count for an option.
func (v *PollView) Count(optionID string) int { return v.counts[optionID] }

// Selection returns the locally recorded selection for a question.
func (v *PollView) Selection(questionID string) (string, bool) {
	optionID, ok := v.selections[questionID]
	return optionID, ok
}

// Submit applies the optimistic local update for a vote and returns the
// request to send. Returns ok=false when nothing should be sent: the view is
// still loading, the option is unknown, or the option already is the current
// selection (duplicate submissions are suppressed before reaching the
// network).
func (v *PollView) Submit(questionID, optionID string) (models.CastVoteRequest, bool) {
	if v.state == StateLoading {
		return models.CastVoteRequest{}, false
	}
	if v.questionOf[optionID] != questionID {
		return models.CastVoteRequest{}, false
	}
	if current, ok := v.selections[questionID]; ok && current == optionID {
		return models.CastVoteRequest{}, false
	}

	// Optimistic update: indistinguishable from a confirmed vote until the
	// authoritative echo arrives and overwrites it.
	if previous, ok := v.selections[questionID]; ok && v.counts[previous] > 0 {
		v.counts[previous]--
	}
	v.counts[optionID]++
	v.selections[questionID] = optionID
	v.state = StateVoting

	return models.CastVoteRequest{QuestionID: questionID, OptionID: optionID}, true
}

// ApplyVote reconciles an authoritative vote event into the view. Counts are
// overwritten, never merged. When the event was caused by this client (any
// of its tabs), the recorded selection is overwritten too and the view
// returns to Ready.
func (v *PollView) ApplyVote(ev models.VoteEvent) {
	v.counts[ev.Delta.NewVote.OptionID] = ev.Delta.NewVote.VoteCount
	if ev.Delta.OldVote != nil {
		v.counts[ev.Delta.OldVote.OptionID] = ev.Delta.OldVote.VoteCount
	}

	if ev.ClientID == v.clientID {
		v.selections[ev.Delta.QuestionID] = ev.Delta.NewVote.OptionID
		if v.state == StateVoting {
			v.state = StateReady
		}
	}
}

// ApplyToggleResults overwrites the results-visibility flag.
func (v *PollView) ApplyToggleResults(ev models.ToggleResultsEvent) {
	v.showResults = ev.ShowResults
}

// ApplyLock overwrites the voting-lock flag.
func (v *PollView) ApplyLock(ev models.LockPollEvent) {
	v.votingLocked = ev.VotingLocked
}
