// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconciler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/sebas-ib/polling-app/models"
)

// Session drives a PollView from a live server: it fetches the full poll
// state over HTTP, subscribes to the poll's room over websocket, and feeds
// authoritative events into the view.
type Session struct {
	BaseURL  string // e.g. http://localhost:3001
	Code     string // poll join code
	ClientID string

	HTTPClient *http.Client

	view *PollView
	ws   *websocket.Conn
}

func NewSession(baseURL, code, clientID string) *Session {
	return &Session{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Code:       code,
		ClientID:   clientID,
		HTTPClient: http.DefaultClient,
		view:       NewPollView(clientID),
	}
}

func (s *Session) View() *PollView { return s.view }

// Connect fetches the authoritative poll state and joins the poll's room.
// Safe to call again after a disconnect: the fresh fetch supersedes any
// events missed while offline.
func (s *Session) Connect(ctx context.Context) error {
	state, err := s.fetchState(ctx)
	if err != nil {
		return err
	}
	s.view.Load(*state)

	wsURL := "ws" + strings.TrimPrefix(s.BaseURL, "http") + "/polls/" + s.Code + "/ws"
	header := http.Header{}
	header.Set("Cookie", "client_id="+s.ClientID)

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}
	s.ws = ws
	return nil
}

// Listen consumes push events until the connection drops or ctx is done.
func (s *Session) Listen(ctx context.Context) error {
	if s.ws == nil {
		return fmt.Errorf("not connected")
	}
	defer s.ws.Close()

	go func() {
		<-ctx.Done()
		s.ws.Close()
	}()

	for {
		var env struct {
			Type    string          `json:"type"`
			PollID  string          `json:"poll_id"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := s.ws.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		switch env.Type {
		case models.EventVote:
			var ev models.VoteEvent
			if err := json.Unmarshal(env.Payload, &ev); err != nil {
				slog.Warn("bad vote event payload", "error", err)
				continue
			}
			s.view.ApplyVote(ev)
		case models.EventToggleResults:
			var ev models.ToggleResultsEvent
			if err := json.Unmarshal(env.Payload, &ev); err != nil {
				slog.Warn("bad toggle event payload", "error", err)
				continue
			}
			s.view.ApplyToggleResults(ev)
		case models.EventLockPoll:
			var ev models.LockPollEvent
			if err := json.Unmarshal(env.Payload, &ev); err != nil {
				slog.Warn("bad lock event payload", "error", err)
				continue
			}
			s.view.ApplyLock(ev)
		default:
			slog.Warn("unknown event type", "type", env.Type)
		}
	}
}

// Vote submits a vote through the view's optimistic path. Duplicate
// submissions for the already-selected option never reach the network.
func (s *Session) Vote(ctx context.Context, questionID, optionID string) error {
	req, ok := s.view.Submit(questionID, optionID)
	if !ok {
		return nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	resp, err := s.post(ctx, "/polls/"+s.Code+"/votes", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		// The optimistic update stays until the next authoritative event or
		// refetch corrects it.
		return fmt.Errorf("vote rejected: %s", resp.Status)
	}
	return nil
}

func (s *Session) fetchState(ctx context.Context) (*models.PollStateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/polls/"+s.Code, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", "client_id="+s.ClientID)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch poll: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch poll: %s", resp.Status)
	}

	var state models.PollStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode poll state: %w", err)
	}
	return &state, nil
}

func (s *Session) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", "client_id="+s.ClientID)
	return s.HTTPClient.Do(req)
}
