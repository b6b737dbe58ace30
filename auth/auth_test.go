// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id, err := GenerateID(16)
	if err != nil {
		t.Fatalf("GenerateID failed: %v", err)
	}
	if len(id) != 32 {
		t.Errorf("Expected 32 hex chars for 16 bytes, got %d", len(id))
	}

	other, _ := GenerateID(16)
	if id == other {
		t.Error("Two generated IDs should not collide")
	}
}

func TestNewClientID(t *testing.T) {
	id := NewClientID()
	if id == "" {
		t.Fatal("Expected a client id")
	}
	if id == NewClientID() {
		t.Error("Client ids must be unique")
	}
}

func TestGenerateJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateJoinCode()
		if err != nil {
			t.Fatalf("GenerateJoinCode failed: %v", err)
		}
		if len(code) != JoinCodeLength {
			t.Fatalf("Expected %d chars, got %q", JoinCodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(joinCodeAlphabet, r) {
				t.Fatalf("Code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Errorf("Suspiciously many collisions: %d unique of 100", len(seen))
	}
}

func TestNormalizeJoinCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"already normal", "ABC234", "ABC234", false},
		{"lowercase", "abc234", "ABC234", false},
		{"surrounding whitespace", "  abc234 ", "ABC234", false},
		{"too short", "ABC23", "", true},
		{"too long", "ABC2345", "", true},
		{"ambiguous character", "ABC230", "", true},
		{"punctuation", "ABC23!", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeJoinCode(tt.input)
			if tt.wantErr {
				if err != ErrInvalidJoinCode {
					t.Errorf("Expected ErrInvalidJoinCode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
