package domain

import (
	"errors"
	"strings"
)

var (
	// ErrAccountNotFound covers both an absent record and a malformed
	// identifier; callers are deliberately unable to tell the two apart.
	ErrAccountNotFound = errors.New("account not found or invalid id")

	// ErrEmptyUpdate is returned when an update carries no field
	// overwrites and no balance delta.
	ErrEmptyUpdate = errors.New("at least one field or an amount must be provided")

	// ErrBalanceBelowZero is returned when a balance delta would leave
	// the account negative.
	ErrBalanceBelowZero = errors.New("balance cannot go below zero")
)

// ValidationError aggregates every violated constraint of a request so the
// caller sees the full list in one response instead of the first failure.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Add records a violation message.
func (e *ValidationError) Add(msg string) {
	e.Violations = append(e.Violations, msg)
}

// AsError returns the receiver when at least one violation was recorded,
// nil otherwise.
func (e *ValidationError) AsError() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
