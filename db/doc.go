// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db creates the database schema.

# Schema

Five tables back the poll engine:

  - client: opaque client id and display name
  - poll: title, join code, owner, show_results / voting_locked flags
  - question: ordered questions of a poll
  - option: ordered options of a question with a live vote_count
  - vote: the single current selection per (question, client)

The vote table's composite primary key (question_id, client_id) enforces
"one live vote per client per question" at the storage layer; switching a
vote updates the row in place. The CHECK on option.vote_count keeps counts
from ever going negative even under a misbehaving mutation.

# Portability

The server runs on either postgres (lib/pq) or sqlite (modernc.org/sqlite),
selected by configuration. The DDL and all queries stick to the common
dialect: $N placeholders (each used once, in order), explicit timestamps,
and no server-side defaults beyond constants.

	if err := db.CreateSchema(dbConn); err != nil {
		// handle
	}
*/
package db
