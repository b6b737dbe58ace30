// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"testing"

	"github.com/sebas-ib/polling-app/models"
)

// testConn builds a connection without a websocket behind it; tests read
// directly from the send channel instead of running the write pump.
func testConn(clientID string) *Conn {
	return NewConn(nil, clientID)
}

func drain(t *testing.T, c *Conn) []models.Envelope {
	t.Helper()
	var out []models.Envelope
	for {
		select {
		case env := <-c.send:
			out = append(out, env)
		default:
			return out
		}
	}
}

func TestJoinAndMembers(t *testing.T) {
	h := NewHub()

	a := testConn("client-a")
	b := testConn("client-b")

	h.Join("poll-1", a)
	h.Join("poll-1", b)
	h.Join("poll-2", a)

	if got := len(h.Members("poll-1")); got != 2 {
		t.Errorf("Expected 2 members in poll-1, got %d", got)
	}
	if got := len(h.Members("poll-2")); got != 1 {
		t.Errorf("Expected 1 member in poll-2, got %d", got)
	}
	if got := len(h.Members("poll-3")); got != 0 {
		t.Errorf("Expected empty room, got %d members", got)
	}

	// Re-joining is idempotent.
	h.Join("poll-1", a)
	if got := len(h.Members("poll-1")); got != 2 {
		t.Errorf("Re-join must not duplicate membership, got %d", got)
	}
}

func TestLeaveRemovesFromAllRooms(t *testing.T) {
	h := NewHub()

	a := testConn("client-a")
	b := testConn("client-b")

	h.Join("poll-1", a)
	h.Join("poll-2", a)
	h.Join("poll-1", b)

	h.Leave(a)

	if got := len(h.Members("poll-1")); got != 1 {
		t.Errorf("Expected 1 member left in poll-1, got %d", got)
	}
	if got := len(h.Members("poll-2")); got != 0 {
		t.Errorf("Expected poll-2 emptied, got %d members", got)
	}

	// Leaving twice is harmless.
	h.Leave(a)
}

func TestPublishFanOut(t *testing.T) {
	h := NewHub()

	a := testConn("client-a")
	b := testConn("client-b")
	other := testConn("client-c")

	h.Join("poll-1", a)
	h.Join("poll-1", b)
	h.Join("poll-2", other)

	h.Publish("poll-1", models.EventVote, models.VoteEvent{ClientID: "client-a"})
	h.Publish("poll-1", models.EventLockPoll, models.LockPollEvent{VotingLocked: true})

	for _, c := range []*Conn{a, b} {
		events := drain(t, c)
		if len(events) != 2 {
			t.Fatalf("Expected 2 events for %s, got %d", c.ClientID, len(events))
		}
		// Same relative order for every member.
		if events[0].Type != models.EventVote || events[1].Type != models.EventLockPoll {
			t.Errorf("Wrong event order for %s: %s, %s", c.ClientID, events[0].Type, events[1].Type)
		}
		if events[0].PollID != "poll-1" {
			t.Errorf("Wrong poll id: %s", events[0].PollID)
		}
	}

	if events := drain(t, other); len(events) != 0 {
		t.Errorf("Member of another room must receive nothing, got %d events", len(events))
	}
}

func TestPublishDropsUnreachableMember(t *testing.T) {
	h := NewHub()

	stuck := testConn("client-stuck")
	healthy := testConn("client-healthy")

	h.Join("poll-1", stuck)
	h.Join("poll-1", healthy)

	// Fill the stuck member's buffer so the next publish cannot enqueue.
	for i := 0; i < sendBuffer; i++ {
		if !stuck.enqueue(models.Envelope{Type: models.EventVote}) {
			t.Fatalf("Buffer filled early at %d", i)
		}
	}

	h.Publish("poll-1", models.EventLockPoll, models.LockPollEvent{VotingLocked: true})

	members := h.Members("poll-1")
	if len(members) != 1 || members[0] != healthy {
		t.Errorf("Expected only the healthy member to remain, got %d members", len(members))
	}

	// The healthy member still got the event.
	events := drain(t, healthy)
	if len(events) != 1 || events[0].Type != models.EventLockPoll {
		t.Fatalf("Healthy member should have received the publish, got %v", events)
	}

	// The dropped connection's channel is closed after its buffer drains.
	for i := 0; i < sendBuffer; i++ {
		<-stuck.send
	}
	if _, ok := <-stuck.send; ok {
		t.Error("Expected dropped member's send channel to be closed")
	}
}
