// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/sebas-ib/polling-app/models"
)

// SetVote records the client's current selection for a question, switching
// from any previous selection, and returns the resulting count delta.
//
// A nil delta with a nil error means the request was an idempotent
// resubmission of the current selection: nothing changed, nothing was
// broadcast.
//
// Mutation of one (poll, question, client) key is serialized by a keyed
// mutex; the count changes themselves run inside a single transaction, so
// either the whole (decrement old, increment new, upsert record) step is
// applied or none of it is. The vote_event is published only after the
// transaction commits, under the poll's sequence lock, so every subscriber
// observes vote events in the order the mutations were applied.
func (s *PollStore) SetVote(ctx context.Context, pollID, questionID, clientID, optionID string) (*models.VoteDelta, error) {
	key := pollID + "/" + questionID + "/" + clientID
	mu := s.lockFor(s.voteKeys, key)
	mu.Lock()
	defer mu.Unlock()

	var ownerID string
	var votingLocked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT owner_id, voting_locked FROM poll WHERE id = $1
	`, pollID).Scan(&ownerID, &votingLocked)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll: %w", err)
	}
	if votingLocked && clientID != ownerID {
		return nil, ErrVotingLocked
	}

	// The question must belong to the poll and the option to the question.
	var questionPollID string
	err = s.db.QueryRowContext(ctx, `
		SELECT poll_id FROM question WHERE id = $1
	`, questionID).Scan(&questionPollID)
	if err == sql.ErrNoRows || (err == nil && questionPollID != pollID) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query question: %w", err)
	}

	var optionQuestionID string
	err = s.db.QueryRowContext(ctx, `
		SELECT question_id FROM option WHERE id = $1
	`, optionID).Scan(&optionQuestionID)
	if err == sql.ErrNoRows || (err == nil && optionQuestionID != questionID) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query option: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var previousOptionID string
	hasPrevious := true
	err = tx.QueryRowContext(ctx, `
		SELECT option_id FROM vote WHERE question_id = $1 AND client_id = $2
	`, questionID, clientID).Scan(&previousOptionID)
	if err == sql.ErrNoRows {
		hasPrevious = false
	} else if err != nil {
		return nil, fmt.Errorf("failed to query existing vote: %w", err)
	}

	res := Resolve(previousOptionID, hasPrevious, optionID)
	if res.NoOp {
		return nil, nil
	}

	if res.Switch {
		// Floored at zero defensively; under the count invariant the old
		// option always has at least this client's own vote.
		_, err = tx.ExecContext(ctx, `
			UPDATE option SET vote_count = vote_count - 1
			WHERE id = $1 AND vote_count > 0
		`, res.PreviousOptionID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement old option: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE option SET vote_count = vote_count + 1 WHERE id = $1
	`, optionID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment option: %w", err)
	}

	now := time.Now().UTC()
	if res.Switch {
		_, err = tx.ExecContext(ctx, `
			UPDATE vote SET option_id = $1, updated_at = $2
			WHERE question_id = $3 AND client_id = $4
		`, optionID, now, questionID, clientID)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote (poll_id, question_id, client_id, option_id, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, pollID, questionID, clientID, optionID, now)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write vote record: %w", err)
	}

	delta := &models.VoteDelta{QuestionID: questionID}
	err = tx.QueryRowContext(ctx, `
		SELECT vote_count FROM option WHERE id = $1
	`, optionID).Scan(&delta.NewVote.VoteCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read new vote count: %w", err)
	}
	delta.NewVote.OptionID = optionID

	if res.Switch {
		old := models.OptionCount{OptionID: res.PreviousOptionID}
		err = tx.QueryRowContext(ctx, `
			SELECT vote_count FROM option WHERE id = $1
		`, res.PreviousOptionID).Scan(&old.VoteCount)
		if err != nil {
			return nil, fmt.Errorf("failed to read old vote count: %w", err)
		}
		delta.OldVote = &old
	}

	// Read the display name on the transaction's own connection. No query
	// may wait on the pool once the sequence lock is held: another mutation
	// could hold the last pool connection while waiting for this lock.
	var clientName string
	err = tx.QueryRowContext(ctx, `
		SELECT name FROM client WHERE id = $1
	`, clientID).Scan(&clientName)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read client name: %w", err)
	}

	// Commit and publish under the poll's sequence lock so subscribers see
	// deltas in apply order. A request cancelled before this point rolls
	// back via the deferred Rollback and broadcasts nothing.
	seq := s.lockFor(s.pollSeqs, pollID)
	seq.Lock()
	defer seq.Unlock()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	s.pub.Publish(pollID, models.EventVote, models.VoteEvent{
		ClientID:   clientID,
		ClientName: clientName,
		Delta:      *delta,
	})

	slog.Info("vote applied",
		"poll_id", pollID,
		"question_id", questionID,
		"option_id", optionID,
		"switched", res.Switch,
	)

	return delta, nil
}
