// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sebas-ib/polling-app/auth"
	"github.com/sebas-ib/polling-app/db"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full
// schema. A single connection keeps the memory database alive and makes
// concurrent test transactions serialize the same way the production
// store's locks already guarantee.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// CreateTestClient inserts a client row and returns its id.
func CreateTestClient(t *testing.T, db *sql.DB, name string) string {
	t.Helper()

	clientID := auth.NewClientID()
	_, err := db.Exec(`
		INSERT INTO client (id, name, created_at)
		VALUES ($1, $2, $3)
	`, clientID, name, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}

	return clientID
}

// CreateTestPoll inserts a poll owned by ownerID and returns its id and
// join code.
func CreateTestPoll(t *testing.T, db *sql.DB, ownerID, title string) (pollID, code string) {
	t.Helper()

	pollID, _ = auth.GenerateID(16)
	code, err := auth.GenerateJoinCode()
	if err != nil {
		t.Fatalf("Failed to generate join code: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO poll (id, code, title, owner_id, show_results, voting_locked, created_at)
		VALUES ($1, $2, $3, $4, FALSE, FALSE, $5)
	`, pollID, code, title, ownerID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID, code
}

// AddTestQuestion inserts a question and returns its id.
func AddTestQuestion(t *testing.T, db *sql.DB, pollID, title string, position int) string {
	t.Helper()

	questionID, _ := auth.GenerateID(12)
	_, err := db.Exec(`
		INSERT INTO question (id, poll_id, title, position)
		VALUES ($1, $2, $3, $4)
	`, questionID, pollID, title, position)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return questionID
}

// AddTestOption inserts an option with a zero vote count and returns its id.
func AddTestOption(t *testing.T, db *sql.DB, questionID, text string, position int) string {
	t.Helper()

	optionID, _ := auth.GenerateID(12)
	_, err := db.Exec(`
		INSERT INTO option (id, question_id, text, vote_count, position)
		VALUES ($1, $2, $3, 0, $4)
	`, optionID, questionID, text, position)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// OptionCount reads an option's current vote count.
func OptionCount(t *testing.T, db *sql.DB, optionID string) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT vote_count FROM option WHERE id = $1`, optionID).Scan(&count); err != nil {
		t.Fatalf("Failed to read vote count: %v", err)
	}
	return count
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
