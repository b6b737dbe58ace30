// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sebas-ib/polling-app/auth"
	"github.com/sebas-ib/polling-app/models"
)

// Publisher delivers an event to every live subscriber of a poll's room.
// The store invokes it only after the mutation has been committed.
type Publisher interface {
	Publish(pollID, eventType string, payload any)
}

// NopPublisher discards events. Useful when no realtime hub is attached.
type NopPublisher struct{}

func (NopPublisher) Publish(pollID, eventType string, payload any) {}

// PollStore is the authoritative holder of poll state. All vote and flag
// mutations go through it; it serializes conflicting writers and publishes
// each applied change to the poll's room.
type PollStore struct {
	db  *sql.DB
	pub Publisher

	mu       sync.Mutex
	voteKeys map[string]*sync.Mutex // one per (poll, question, client)
	pollSeqs map[string]*sync.Mutex // one per poll: commit+publish ordering
}

func New(db *sql.DB, pub Publisher) *PollStore {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &PollStore{
		db:       db,
		pub:      pub,
		voteKeys: make(map[string]*sync.Mutex),
		pollSeqs: make(map[string]*sync.Mutex),
	}
}

// lockFor returns the named mutex from m, creating it on first use.
func (s *PollStore) lockFor(m map[string]*sync.Mutex, key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := m[key]
	if !ok {
		mu = &sync.Mutex{}
		m[key] = mu
	}
	return mu
}

// GetPoll loads the full poll aggregate: questions in creation order, each
// with its options in creation order and live vote counts.
func (s *PollStore) GetPoll(ctx context.Context, pollID string) (*models.Poll, error) {
	var poll models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, title, owner_id, show_results, voting_locked, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(
		&poll.ID, &poll.Code, &poll.Title, &poll.OwnerID,
		&poll.ShowResults, &poll.VotingLocked, &poll.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.title, o.id, o.text, o.vote_count
		FROM question q
		JOIN option o ON o.question_id = q.id
		WHERE q.poll_id = $1
		ORDER BY q.position, o.position
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var qID, qTitle string
		var opt models.Option
		if err := rows.Scan(&qID, &qTitle, &opt.ID, &opt.Text, &opt.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		n := len(poll.Questions)
		if n == 0 || poll.Questions[n-1].ID != qID {
			poll.Questions = append(poll.Questions, models.Question{ID: qID, Title: qTitle})
			n++
		}
		q := &poll.Questions[n-1]
		q.Options = append(q.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read question rows: %w", err)
	}

	return &poll, nil
}

// PollIDByCode resolves a user-entered join code (case-insensitive) to the
// poll's id.
func (s *PollStore) PollIDByCode(ctx context.Context, code string) (string, error) {
	normalized, err := auth.NormalizeJoinCode(code)
	if err != nil {
		return "", ErrNotFound
	}

	var pollID string
	err = s.db.QueryRowContext(ctx, `
		SELECT id FROM poll WHERE code = $1
	`, normalized).Scan(&pollID)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query poll by code: %w", err)
	}
	return pollID, nil
}

// GetPollByCode resolves a user-entered join code (case-insensitive) to the
// full poll aggregate.
func (s *PollStore) GetPollByCode(ctx context.Context, code string) (*models.Poll, error) {
	pollID, err := s.PollIDByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.GetPoll(ctx, pollID)
}

// CreatePoll persists a new poll aggregate with zeroed vote counts and a
// freshly generated unique join code. Questions and options are immutable
// afterwards.
func (s *PollStore) CreatePoll(ctx context.Context, ownerID, title string, questions []models.CreateQuestionRequest) (*models.Poll, error) {
	pollID, err := auth.GenerateID(16)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	poll := models.Poll{
		ID:        pollID,
		Title:     title,
		OwnerID:   ownerID,
		CreatedAt: now,
	}
	for _, qr := range questions {
		questionID, err := auth.GenerateID(12)
		if err != nil {
			return nil, err
		}
		q := models.Question{ID: questionID, Title: qr.Title}
		for _, text := range qr.Options {
			optionID, err := auth.GenerateID(12)
			if err != nil {
				return nil, err
			}
			q.Options = append(q.Options, models.Option{ID: optionID, Text: text})
		}
		poll.Questions = append(poll.Questions, q)
	}

	// Random codes can collide; the UNIQUE constraint arbitrates and we
	// retry with a fresh code.
	for attempt := 0; attempt < 5; attempt++ {
		code, err := auth.GenerateJoinCode()
		if err != nil {
			return nil, err
		}
		poll.Code = code

		err = s.insertPoll(ctx, &poll)
		if err == nil {
			return &poll, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("failed to allocate a unique join code")
}

func (s *PollStore) insertPoll(ctx context.Context, poll *models.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, code, title, owner_id, show_results, voting_locked, created_at)
		VALUES ($1, $2, $3, $4, FALSE, FALSE, $5)
	`, poll.ID, poll.Code, poll.Title, poll.OwnerID, poll.CreatedAt)
	if err != nil {
		return err
	}

	for qi, q := range poll.Questions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO question (id, poll_id, title, position)
			VALUES ($1, $2, $3, $4)
		`, q.ID, poll.ID, q.Title, qi)
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
		for oi, o := range q.Options {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO option (id, question_id, text, vote_count, position)
				VALUES ($1, $2, $3, 0, $4)
			`, o.ID, q.ID, o.Text, oi)
			if err != nil {
				return fmt.Errorf("failed to insert option: %w", err)
			}
		}
	}

	return tx.Commit()
}

// PollsByOwner lists the polls a client owns, newest first. Questions are
// not loaded; the listing is for navigation, GetPollByCode serves the rest.
func (s *PollStore) PollsByOwner(ctx context.Context, ownerID string) ([]models.PollSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, title, show_results, voting_locked, created_at
		FROM poll
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls by owner: %w", err)
	}
	defer rows.Close()

	polls := []models.PollSummary{}
	for rows.Next() {
		var p models.PollSummary
		if err := rows.Scan(&p.ID, &p.Code, &p.Title, &p.ShowResults, &p.VotingLocked, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll summary: %w", err)
		}
		polls = append(polls, p)
	}
	return polls, rows.Err()
}

// Selections returns the client's current option per question for a poll.
func (s *PollStore) Selections(ctx context.Context, pollID, clientID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, option_id
		FROM vote
		WHERE poll_id = $1 AND client_id = $2
	`, pollID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	selections := make(map[string]string)
	for rows.Next() {
		var questionID, optionID string
		if err := rows.Scan(&questionID, &optionID); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections[questionID] = optionID
	}
	return selections, rows.Err()
}

// ToggleResults flips the poll's show_results flag. Owner only. The new
// value is broadcast to the poll's room as a toggle_results_event.
func (s *PollStore) ToggleResults(ctx context.Context, pollID, requesterID string) (bool, error) {
	return s.toggleFlag(ctx, pollID, requesterID, "show_results")
}

// ToggleLock flips the poll's voting_locked flag. Owner only. The new value
// is broadcast to the poll's room as a lock_poll_event.
func (s *PollStore) ToggleLock(ctx context.Context, pollID, requesterID string) (bool, error) {
	return s.toggleFlag(ctx, pollID, requesterID, "voting_locked")
}

func (s *PollStore) toggleFlag(ctx context.Context, pollID, requesterID, column string) (bool, error) {
	// Pin a connection before taking the sequence lock. A vote holds its
	// transaction's connection while waiting for this lock, so waiting on
	// the pool after acquiring it would deadlock on a saturated pool.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	// The per-poll sequence lock covers read, write, and publish so that two
	// racing toggles cannot broadcast out of order with their updates.
	seq := s.lockFor(s.pollSeqs, pollID)
	seq.Lock()
	defer seq.Unlock()

	var ownerID string
	var showResults, votingLocked bool
	err = conn.QueryRowContext(ctx, `
		SELECT owner_id, show_results, voting_locked FROM poll WHERE id = $1
	`, pollID).Scan(&ownerID, &showResults, &votingLocked)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to query poll: %w", err)
	}
	if requesterID != ownerID {
		return false, ErrForbidden
	}

	var newValue bool
	switch column {
	case "show_results":
		newValue = !showResults
		_, err = conn.ExecContext(ctx, `UPDATE poll SET show_results = $1 WHERE id = $2`, newValue, pollID)
	case "voting_locked":
		newValue = !votingLocked
		_, err = conn.ExecContext(ctx, `UPDATE poll SET voting_locked = $1 WHERE id = $2`, newValue, pollID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update poll flag: %w", err)
	}

	if column == "show_results" {
		s.pub.Publish(pollID, models.EventToggleResults, models.ToggleResultsEvent{ShowResults: newValue})
	} else {
		s.pub.Publish(pollID, models.EventLockPoll, models.LockPollEvent{VotingLocked: newValue})
	}
	return newValue, nil
}

// isUniqueViolation matches the unique-constraint error text of both
// supported drivers (lib/pq and modernc sqlite).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
