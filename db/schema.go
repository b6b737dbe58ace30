// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL is restricted to the dialect both supported drivers accept
// (postgres and sqlite): no server-side timestamp defaults, no JSONB.
// Timestamps are always written from Go.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Clients (opaque identity plus display name)
CREATE TABLE IF NOT EXISTS client (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    show_results BOOLEAN NOT NULL DEFAULT FALSE,
    voting_locked BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_code ON poll(code);
CREATE INDEX IF NOT EXISTS idx_poll_owner ON poll(owner_id);

-- Questions (immutable after poll creation, ordered by position)
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_question_poll_id ON question(poll_id);

-- Options (vote_count mutated only through the vote transaction)
CREATE TABLE IF NOT EXISTS option (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_option_question_id ON option(question_id);

-- Votes: at most one row per (question, client), overwritten on switch
CREATE TABLE IF NOT EXISTS vote (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    client_id TEXT NOT NULL,
    option_id TEXT NOT NULL REFERENCES option(id) ON DELETE CASCADE,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (question_id, client_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_client ON vote(poll_id, client_id);
CREATE INDEX IF NOT EXISTS idx_vote_option_id ON vote(option_id);
`
