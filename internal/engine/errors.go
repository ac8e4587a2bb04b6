package engine

import (
	"errors"
	"fmt"

	"github.com/saikumarakula/HVM/internal/ir"
)

// RuntimeError represents a fatal fault detected while reducing a net.
//
// Runtime errors include:
//   - Capacity exhausted: a node or variable arena has no room left
//   - Illegal active pair: a redex no rule can rewrite, usually a sign
//     of a malformed Book
//   - Missing entry: the Book has no definition named "main"
//
// Any RuntimeError aborts the whole run. There is no partial result.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Worker is the id of the worker that detected the fault, or -1.
	Worker int

	// A and B are the ports of the offending redex, when there is one.
	A, B ir.Port

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeCapacityExhausted indicates an arena ran out of slots.
	ErrCodeCapacityExhausted RuntimeErrorCode = "CAPACITY_EXHAUSTED"

	// ErrCodeIllegalActivePair indicates a redex with no valid rewrite.
	ErrCodeIllegalActivePair RuntimeErrorCode = "ILLEGAL_ACTIVE_PAIR"

	// ErrCodeMissingEntry indicates the Book has no entry definition.
	ErrCodeMissingEntry RuntimeErrorCode = "MISSING_ENTRY"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Worker >= 0 {
		return fmt.Sprintf("%s: %s (worker=%d)", e.Code, e.Message, e.Worker)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCapacityError returns true if the error is an arena exhaustion error.
// Uses errors.As to handle wrapped errors.
func IsCapacityError(err error) bool {
	return hasCode(err, ErrCodeCapacityExhausted)
}

// IsIllegalPairError returns true if the error is an illegal active pair.
func IsIllegalPairError(err error) bool {
	return hasCode(err, ErrCodeIllegalActivePair)
}

// IsMissingEntryError returns true if the Book lacked an entry definition.
func IsMissingEntryError(err error) bool {
	return hasCode(err, ErrCodeMissingEntry)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewCapacityError creates a RuntimeError for arena exhaustion.
func NewCapacityError(arena string, want, used, capacity uint32) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeCapacityExhausted,
		Message: fmt.Sprintf("%s arena exhausted (want %d, used %d of %d)", arena, want, used, capacity),
		Worker:  -1,
		Details: map[string]string{
			"arena":    arena,
			"want":     fmt.Sprintf("%d", want),
			"used":     fmt.Sprintf("%d", used),
			"capacity": fmt.Sprintf("%d", capacity),
		},
	}
}

// NewIllegalPairError creates a RuntimeError for a redex that cannot fire.
func NewIllegalPairError(worker int, a, b ir.Port, reason string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeIllegalActivePair,
		Message: fmt.Sprintf("%s ~ %s: %s", a, b, reason),
		Worker:  worker,
		A:       a,
		B:       b,
		Details: map[string]string{
			"rule": ir.RuleOf(a.Tag(), b.Tag()).String(),
		},
	}
}

// NewMissingEntryError creates a RuntimeError for a Book without "main".
func NewMissingEntryError(name string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeMissingEntry,
		Message: fmt.Sprintf("book has no definition named %q", name),
		Worker:  -1,
	}
}
