package calculator

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the calculator's mode.
type Status int

const (
	// StatusIdle is the fresh state: nothing entered, nothing evaluated.
	StatusIdle Status = iota
	// StatusInput means an expression is being entered.
	StatusInput
	// StatusEvaluated means the last CALCULATE succeeded.
	StatusEvaluated
	// StatusError means the last CALCULATE failed.
	StatusError
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusInput:
		return "INPUT"
	case StatusEvaluated:
		return "EVALUATED"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus parses the string form of a Status.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToUpper(s) {
	case "IDLE":
		return StatusIdle, true
	case "INPUT":
		return StatusInput, true
	case "EVALUATED":
		return StatusEvaluated, true
	case "ERROR":
		return StatusError, true
	default:
		return StatusIdle, false
	}
}

// State is a snapshot of the calculator. It is a plain value; the
// calculator replaces its snapshot wholesale on every accepted event.
type State struct {
	// Expression is everything entered so far, exactly as typed.
	Expression string
	Status     Status
	// Result is the last successful evaluation, or "" if there was none.
	Result string
	// ErrorMessage describes the last failed evaluation. It is non-empty
	// exactly when Status is StatusError.
	ErrorMessage string
}

// ErrInvalidState is returned when restoring a snapshot that breaks the
// State invariants.
var ErrInvalidState = errors.New("invalid calculator state")

// Validate checks the State invariants.
func (s State) Validate() error {
	if s.Status < StatusIdle || s.Status > StatusError {
		return fmt.Errorf("%w: status %d", ErrInvalidState, int(s.Status))
	}
	if (s.ErrorMessage != "") != (s.Status == StatusError) {
		return fmt.Errorf("%w: status %s with error message %q", ErrInvalidState, s.Status, s.ErrorMessage)
	}
	if s.Status == StatusEvaluated && s.Result == "" {
		return fmt.Errorf("%w: evaluated without a result", ErrInvalidState)
	}
	return nil
}
