package game

import (
	"errors"
	"fmt"
)

// Player-facing errors. Respond returns them without touching match state
// so the caller can resubmit.
var (
	ErrMatchNotStarted  = errors.New("match not started")
	ErrMatchEnded       = errors.New("match has ended")
	ErrInvalidState     = errors.New("invalid match state")
	ErrNoRequest        = errors.New("player has no live request")
	ErrRequestMismatch  = errors.New("response does not match any live request")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrInvalidPlayer    = errors.New("invalid player index")
)

// ErrInvariantViolation marks a bug in the engine or in content: a handler
// referencing a missing object, a modifier called in an unknown mode, or
// the dispatcher exceeding its iteration ceiling.
var ErrInvariantViolation = errors.New("engine invariant violated")

// InvariantError describes a fatal invariant violation.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvariantViolation.Error(), e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

// invariantf aborts the current dispatch. The public entry points recover
// the panic and fail the match.
func invariantf(format string, args ...any) {
	panic(&InvariantError{Reason: fmt.Sprintf(format, args...)})
}
