// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidJoinCode = errors.New("invalid join code")

// JoinCodeLength is the fixed length of human-enterable poll join codes.
const JoinCodeLength = 6

// joinCodeAlphabet avoids characters that read ambiguously when spoken or
// written down (no 0/O, 1/I/L).
const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewClientID issues an opaque client identifier.
func NewClientID() string {
	return uuid.NewString()
}

// GenerateJoinCode creates a random fixed-length join code.
// Uniqueness is enforced by the poll table's UNIQUE constraint; callers
// retry on collision.
func GenerateJoinCode() (string, error) {
	b := make([]byte, JoinCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	code := make([]byte, JoinCodeLength)
	for i, v := range b {
		code[i] = joinCodeAlphabet[int(v)%len(joinCodeAlphabet)]
	}
	return string(code), nil
}

// NormalizeJoinCode upper-cases a user-entered code and validates its shape.
// Join codes are case-insensitive on entry but stored upper-case.
func NormalizeJoinCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != JoinCodeLength {
		return "", ErrInvalidJoinCode
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(joinCodeAlphabet, rune(code[i])) {
			return "", ErrInvalidJoinCode
		}
	}
	return code, nil
}
