// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

// Resolution is the outcome of deciding one vote request against the
// client's existing selection for the question.
type Resolution struct {
	// NoOp means the requested option already is the client's current
	// selection: no counts change and no event is emitted.
	NoOp bool

	// Switch means a previous selection exists and must be decremented.
	Switch bool

	// PreviousOptionID is the option to decrement when Switch is true.
	PreviousOptionID string
}

// Resolve computes the state transition for a requested vote given the
// previous selection, if any. It is pure decision logic; the caller applies
// the resulting count changes atomically.
func Resolve(previousOptionID string, hasPrevious bool, requestedOptionID string) Resolution {
	if hasPrevious && previousOptionID == requestedOptionID {
		return Resolution{NoOp: true}
	}
	if hasPrevious {
		return Resolution{Switch: true, PreviousOptionID: previousOptionID}
	}
	return Resolution{}
}
