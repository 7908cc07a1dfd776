package eval

import (
	"errors"
	"fmt"
)

// Kind classifies an evaluation failure.
type Kind int

const (
	// KindNone means no error.
	KindNone Kind = iota
	// KindDivisionByZero is a division whose divisor is exactly zero.
	KindDivisionByZero
	// KindUnbalancedParentheses is a ')' without a matching '(' or an unclosed '('.
	KindUnbalancedParentheses
	// KindMalformedExpression covers empty input, dangling operators and
	// tokens out of place.
	KindMalformedExpression
	// KindOverflow is a value outside the float64 range.
	KindOverflow
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindDivisionByZero:
		return "DivisionByZero"
	case KindUnbalancedParentheses:
		return "UnbalancedParentheses"
	case KindMalformedExpression:
		return "MalformedExpression"
	case KindOverflow:
		return "Overflow"
	default:
		return "Unknown"
	}
}

// Error is an evaluation failure. Pos is the byte offset in the expression
// where the failure was detected, or -1 when it has no position.
type Error struct {
	Kind Kind
	Pos  int
	Err  error
}

// Sentinel errors for errors.Is. Matching compares Kind only.
var (
	ErrDivisionByZero        = &Error{Kind: KindDivisionByZero, Pos: -1}
	ErrUnbalancedParentheses = &Error{Kind: KindUnbalancedParentheses, Pos: -1}
	ErrMalformedExpression   = &Error{Kind: KindMalformedExpression, Pos: -1}
	ErrOverflow              = &Error{Kind: KindOverflow, Pos: -1}
)

func (e *Error) Error() string {
	msg := describe(e.Kind)
	if e.Pos >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Pos)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of err, KindNone for nil, and
// KindMalformedExpression for errors that did not come from the evaluator.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindMalformedExpression
}

func describe(k Kind) string {
	switch k {
	case KindDivisionByZero:
		return "division by zero"
	case KindUnbalancedParentheses:
		return "unbalanced parentheses"
	case KindMalformedExpression:
		return "malformed expression"
	case KindOverflow:
		return "result out of range"
	}
	return "no error"
}

func newError(k Kind, pos int, err error) *Error {
	return &Error{Kind: k, Pos: pos, Err: err}
}
