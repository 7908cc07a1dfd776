package calculator

import (
	"errors"
	"fmt"
)

// EventKind names an event variant.
type EventKind string

// Event kinds.
const (
	KindDigitInput       EventKind = "DIGIT_INPUT"
	KindOperatorInput    EventKind = "OPERATOR_INPUT"
	KindParenthesisInput EventKind = "PARENTHESIS_INPUT"
	KindCalculate        EventKind = "CALCULATE"
)

// ErrInvalidEvent is returned by Apply for an event whose payload is not
// in the vocabulary. ErrUnknownEvent is returned for event types this
// package does not define.
var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrUnknownEvent = errors.New("unknown event")
)

// Event is one calculator input. The set of variants is closed: DigitInput,
// OperatorInput, ParenthesisInput and Calculate.
type Event interface {
	Kind() EventKind
	validate() error
}

// DigitInput enters one digit, "0" through "9".
type DigitInput struct {
	Digit string
}

// OperatorInput enters one of "+", "-", "*", "/".
type OperatorInput struct {
	Operator string
}

// ParenthesisInput enters "(" or ")".
type ParenthesisInput struct {
	Parenthesis string
}

// Calculate evaluates the current expression.
type Calculate struct{}

func (DigitInput) Kind() EventKind       { return KindDigitInput }
func (OperatorInput) Kind() EventKind    { return KindOperatorInput }
func (ParenthesisInput) Kind() EventKind { return KindParenthesisInput }
func (Calculate) Kind() EventKind        { return KindCalculate }

func (e DigitInput) validate() error {
	if len(e.Digit) != 1 || e.Digit[0] < '0' || e.Digit[0] > '9' {
		return fmt.Errorf("%w: digit %q", ErrInvalidEvent, e.Digit)
	}
	return nil
}

func (e OperatorInput) validate() error {
	switch e.Operator {
	case "+", "-", "*", "/":
		return nil
	}
	return fmt.Errorf("%w: operator %q", ErrInvalidEvent, e.Operator)
}

func (e ParenthesisInput) validate() error {
	switch e.Parenthesis {
	case "(", ")":
		return nil
	}
	return fmt.Errorf("%w: parenthesis %q", ErrInvalidEvent, e.Parenthesis)
}

func (Calculate) validate() error { return nil }

// text returns the characters an input event adds to the expression.
func text(ev Event) string {
	switch ev := ev.(type) {
	case DigitInput:
		return ev.Digit
	case OperatorInput:
		return ev.Operator
	case ParenthesisInput:
		return ev.Parenthesis
	}
	return ""
}
