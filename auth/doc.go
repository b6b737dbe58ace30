// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth generates the identifiers the polling service hands out.

# Client Identity

Clients are identified by an opaque UUID issued on first contact and carried
in an HttpOnly cookie:

	clientID := auth.NewClientID()

The server attaches no meaning to the value beyond equality; ownership checks
and vote records key on it directly.

# Join Codes

Polls are shared by a short, fixed-length, case-insensitive join code drawn
from an unambiguous alphabet (no 0/O or 1/I/L):

	code, err := auth.GenerateJoinCode()

Codes are random rather than derived, so uniqueness is the database's job:
the poll table has a UNIQUE constraint and creation retries on collision.
User-entered codes go through NormalizeJoinCode before lookup.

# Entity IDs

Poll, question, and option ids are random hex strings:

	id, err := auth.GenerateID(16)
*/
package auth
