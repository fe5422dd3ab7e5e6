// Package apperrors defines the taxonomy of errors the simulation engine
// surfaces to callers. Every error the engine returns wraps one of the
// sentinels below so callers can branch with errors.Is while still getting
// a structured, field-level message via Error().
package apperrors

import (
	"errors"
	"fmt"

	"github.com/SscSPs/fiscalsim/internal/core/domain"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvariantViolation indicates the aggregator failed an I1-I4 check.
// A failure here is an engine bug, not a user error.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrCancelled indicates the run's cancellation signal fired.
var ErrCancelled = errors.New("simulation cancelled")

// ErrInternal indicates an unexpected failure from a collaborator (e.g. a
// sink rejected a write). It does not by itself abort a computation.
var ErrInternal = errors.New("internal error")

// ValidationError carries the field that failed and why, so a caller can
// render a precise message without parsing strings.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a *ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError names the missing id and the kind of resource it was.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError builds a *NotFoundError for the given kind/id.
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// InvariantViolation names the account, the two sides of the failing
// comparison and their delta, per spec §4.6/§7.
type InvariantViolation struct {
	Invariant string // "I1", "I2", "I3", or "I4"
	Account   domain.Account
	Month     int // calendar month, 0 if not account/month scoped (e.g. I4)
	Expected  domain.Money
	Actual    domain.Money
	Delta     domain.Money
	Detail    string
}

func (e *InvariantViolation) Error() string {
	if e.Month != 0 {
		return fmt.Sprintf("%s violated for account %s, month %d: expected %s, got %s (delta %s): %s",
			e.Invariant, e.Account, e.Month, e.Expected, e.Actual, e.Delta, e.Detail)
	}
	return fmt.Sprintf("%s violated: expected %s, got %s (delta %s): %s",
		e.Invariant, e.Expected, e.Actual, e.Delta, e.Detail)
}

func (e *InvariantViolation) Unwrap() error { return ErrInvariantViolation }

// MultiInvariantViolation collects every invariant failure found during one
// check pass so a failing run's error names every violation, not just the
// first one encountered.
type MultiInvariantViolation struct {
	Violations []*InvariantViolation
}

func (e *MultiInvariantViolation) Error() string {
	if len(e.Violations) == 1 {
		return e.Violations[0].Error()
	}
	msg := fmt.Sprintf("%d invariants violated:", len(e.Violations))
	for _, v := range e.Violations {
		msg += "\n  - " + v.Error()
	}
	return msg
}

func (e *MultiInvariantViolation) Unwrap() error { return ErrInvariantViolation }

// CancelledError wraps ErrCancelled with the stage the run was in.
type CancelledError struct {
	Stage string
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("simulation cancelled during %s", e.Stage)
}

func (e *CancelledError) Unwrap() error { return ErrCancelled }

// InternalError wraps an unexpected collaborator failure (e.g. a sink
// rejecting a write) with the operation that triggered it.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error during %s: %s", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return errors.Join(ErrInternal, e.Err) }
