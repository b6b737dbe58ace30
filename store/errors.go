// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "errors"

var (
	// ErrNotFound is returned when a poll, question, or option id is unknown
	// or does not belong to the addressed poll.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a non-owner attempts an owner-only toggle.
	ErrForbidden = errors.New("forbidden")

	// ErrVotingLocked is returned when a non-owner votes while the poll's
	// voting_locked flag is set. No state changes and nothing is broadcast.
	ErrVotingLocked = errors.New("voting locked")
)
