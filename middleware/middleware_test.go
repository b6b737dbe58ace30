// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sebas-ib/polling-app/models"
)

func TestWithLogging(t *testing.T) {
	// Create a simple handler that returns OK
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	wrappedHandler := WithLogging(testHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	wrappedHandler(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestWithLogging_PreservesResponse(t *testing.T) {
	// Test that logging doesn't interfere with various response codes
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"Created", http.StatusCreated, `{"id":"123"}`},
		{"BadRequest", http.StatusBadRequest, `{"error":"bad request"}`},
		{"Locked", http.StatusLocked, `{"error":"locked"}`},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			})

			req := httptest.NewRequest("POST", "/api/test", nil)
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body %q, got %q", tc.body, w.Body.String())
			}
		})
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()

	JSONResponse(w, http.StatusCreated, map[string]string{"poll_id": "p1"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["poll_id"] != "p1" {
		t.Errorf("Unexpected body %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	ErrorResponse(w, http.StatusForbidden, "Only the poll owner may do that")

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != http.StatusText(http.StatusForbidden) {
		t.Errorf("Unexpected error field %q", body.Error)
	}
	if body.Message != "Only the poll owner may do that" {
		t.Errorf("Unexpected message %q", body.Message)
	}
}

func TestParseJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"question_id":"q1","option_id":"o1"}`))

	var body models.CastVoteRequest
	if err := ParseJSONBody(req, &body); err != nil {
		t.Fatalf("ParseJSONBody failed: %v", err)
	}
	if body.QuestionID != "q1" || body.OptionID != "o1" {
		t.Errorf("Unexpected body %+v", body)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(`not json`))
	if err := ParseJSONBody(req, &body); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}

func TestClientID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := ClientID(req); got != "" {
		t.Errorf("Expected empty id without cookie, got %q", got)
	}

	req.AddCookie(&http.Cookie{Name: ClientCookieName, Value: "client-123"})
	if got := ClientID(req); got != "client-123" {
		t.Errorf("Expected client-123, got %q", got)
	}
}

func TestSetClientCookie(t *testing.T) {
	w := httptest.NewRecorder()

	SetClientCookie(w, "client-123")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != ClientCookieName || c.Value != "client-123" {
		t.Errorf("Unexpected cookie %v", c)
	}
	if !c.HttpOnly {
		t.Error("Cookie must be HttpOnly")
	}
	if c.Path != "/" {
		t.Errorf("Expected path /, got %q", c.Path)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("passes origin through", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Unexpected allow-origin %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("Expected credentials allowed, got %q", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 on preflight, got %d", w.Code)
		}
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		expected   string
	}{
		{"X-Forwarded-For single", "10.0.0.1", "", "127.0.0.1:1234", "10.0.0.1"},
		{"X-Forwarded-For chain", "10.0.0.1, 10.0.0.2", "", "127.0.0.1:1234", "10.0.0.1"},
		{"X-Real-IP", "", "10.0.0.3", "127.0.0.1:1234", "10.0.0.3"},
		{"RemoteAddr fallback", "", "", "192.168.1.5:9999", "192.168.1.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				req.Header.Set("X-Real-IP", tc.xri)
			}

			if got := GetClientIP(req); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
