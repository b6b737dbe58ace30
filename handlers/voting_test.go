// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebas-ib/polling-app/models"
	"github.com/sebas-ib/polling-app/store"
	"github.com/sebas-ib/polling-app/testutil"
)

func TestCastVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	st := store.New(db, nil)
	handler := NewVotingHandler(st)

	ownerID := testutil.CreateTestClient(t, db, "Alice")
	pollID, code := testutil.CreateTestPoll(t, db, ownerID, "Lunch?")
	questionID := testutil.AddTestQuestion(t, db, pollID, "Pick one", 0)
	optA := testutil.AddTestOption(t, db, questionID, "A", 0)
	optB := testutil.AddTestOption(t, db, questionID, "B", 1)

	voter := testutil.CreateTestClient(t, db, "Bob")

	cast := func(clientID, questionID, optionID string) *httptest.ResponseRecorder {
		body := models.CastVoteRequest{QuestionID: questionID, OptionID: optionID}
		req := withClient(testutil.MakeRequest("POST", "/polls/"+code+"/votes", body, nil), clientID)
		req.SetPathValue("code", code)
		w := httptest.NewRecorder()
		handler.CastVote(w, req)
		return w
	}

	t.Run("first vote", func(t *testing.T) {
		w := cast(voter, questionID, optA)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.CastVoteResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Delta == nil {
			t.Fatal("Expected a delta")
		}
		if resp.Delta.NewVote.OptionID != optA || resp.Delta.NewVote.VoteCount != 1 {
			t.Errorf("Unexpected new_vote %+v", resp.Delta.NewVote)
		}
		if resp.Delta.OldVote != nil {
			t.Errorf("Expected null old_vote, got %+v", resp.Delta.OldVote)
		}
	})

	t.Run("resubmission returns null delta", func(t *testing.T) {
		w := cast(voter, questionID, optA)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.CastVoteResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Delta != nil {
			t.Errorf("Expected null delta, got %+v", resp.Delta)
		}
		if got := testutil.OptionCount(t, db, optA); got != 1 {
			t.Errorf("Count must be unchanged, got %d", got)
		}
	})

	t.Run("switch", func(t *testing.T) {
		w := cast(voter, questionID, optB)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.CastVoteResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Delta == nil || resp.Delta.OldVote == nil {
			t.Fatalf("Expected a switch delta, got %+v", resp.Delta)
		}
		if resp.Delta.OldVote.OptionID != optA || resp.Delta.OldVote.VoteCount != 0 {
			t.Errorf("Unexpected old_vote %+v", resp.Delta.OldVote)
		}
	})

	t.Run("no identity", func(t *testing.T) {
		body := models.CastVoteRequest{QuestionID: questionID, OptionID: optA}
		req := testutil.MakeRequest("POST", "/polls/"+code+"/votes", body, nil)
		req.SetPathValue("code", code)
		w := httptest.NewRecorder()

		handler.CastVote(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := cast(voter, "", optA)
		testutil.AssertStatus(t, w, http.StatusBadRequest)

		w = cast(voter, questionID, "")
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown poll code", func(t *testing.T) {
		body := models.CastVoteRequest{QuestionID: questionID, OptionID: optA}
		req := withClient(testutil.MakeRequest("POST", "/polls/ZZZZZZ/votes", body, nil), voter)
		req.SetPathValue("code", "ZZZZZZ")
		w := httptest.NewRecorder()

		handler.CastVote(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("unknown option", func(t *testing.T) {
		w := cast(voter, questionID, "no-such-option")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("locked poll", func(t *testing.T) {
		if _, err := st.ToggleLock(context.Background(), pollID, ownerID); err != nil {
			t.Fatalf("ToggleLock failed: %v", err)
		}

		w := cast(voter, questionID, optA)
		testutil.AssertStatus(t, w, http.StatusLocked)

		// The owner may keep voting.
		w = cast(ownerID, questionID, optA)
		testutil.AssertStatus(t, w, http.StatusOK)
	})
}

// TestFetchAfterEventsMatchesBroadcastState simulates a client that missed
// broadcasts: the state returned by GetPoll must equal what the events would
// have produced.
func TestFetchAfterEventsMatchesBroadcastState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	st := store.New(db, nil)
	ctx := context.Background()

	ownerID := testutil.CreateTestClient(t, db, "Alice")
	pollID, code := testutil.CreateTestPoll(t, db, ownerID, "Lunch?")
	questionID := testutil.AddTestQuestion(t, db, pollID, "Pick one", 0)
	optA := testutil.AddTestOption(t, db, questionID, "A", 0)
	optB := testutil.AddTestOption(t, db, questionID, "B", 1)

	x := testutil.CreateTestClient(t, db, "X")
	y := testutil.CreateTestClient(t, db, "Y")

	// Mutations the disconnected client never saw.
	if _, err := st.SetVote(ctx, pollID, questionID, x, optA); err != nil {
		t.Fatalf("SetVote failed: %v", err)
	}
	if _, err := st.SetVote(ctx, pollID, questionID, x, optB); err != nil {
		t.Fatalf("SetVote failed: %v", err)
	}
	if _, err := st.SetVote(ctx, pollID, questionID, y, optB); err != nil {
		t.Fatalf("SetVote failed: %v", err)
	}
	if _, err := st.ToggleLock(ctx, pollID, ownerID); err != nil {
		t.Fatalf("ToggleLock failed: %v", err)
	}

	handler := NewPollHandler(st)
	req := withClient(testutil.MakeRequest("GET", "/polls/"+code, nil, nil), x)
	req.SetPathValue("code", code)
	w := httptest.NewRecorder()

	handler.GetPoll(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PollStateResponse
	testutil.AssertJSON(t, w, &resp)

	counts := map[string]int{}
	for _, q := range resp.Poll.Questions {
		for _, o := range q.Options {
			counts[o.ID] = o.VoteCount
		}
	}
	if counts[optA] != 0 || counts[optB] != 2 {
		t.Errorf("Expected A=0 B=2, got A=%d B=%d", counts[optA], counts[optB])
	}
	if !resp.Poll.VotingLocked {
		t.Error("Expected voting_locked=true")
	}
	if resp.MySelections[questionID] != optB {
		t.Errorf("Expected my selection %q, got %+v", optB, resp.MySelections)
	}
}
