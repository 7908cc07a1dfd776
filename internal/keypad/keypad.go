// Package keypad translates typed keys into calculator events.
package keypad

import (
	"errors"
	"fmt"

	"nickandperla.net/calc/pkg/calculator"
)

// ErrUnknownKey is returned for characters that are not calculator keys.
var ErrUnknownKey = errors.New("unknown key")

// KeyError reports an unknown key and its byte offset.
type KeyError struct {
	Key rune
	Pos int
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%v %q at offset %d", ErrUnknownKey, e.Key, e.Pos)
}

func (e *KeyError) Unwrap() error { return ErrUnknownKey }

// Parse maps each key in s to an event. Digits, "+-*/" and parentheses map
// to input events; 'x', 'X' and '×' are multiplication, '÷' is division;
// '=' and newline are CALCULATE. Other whitespace is ignored.
func Parse(s string) ([]calculator.Event, error) {
	var events []calculator.Event
	for i, r := range s {
		ev, ok, err := event(r)
		if err != nil {
			return nil, &KeyError{Key: r, Pos: i}
		}
		if ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

func event(r rune) (calculator.Event, bool, error) {
	switch r {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return calculator.DigitInput{Digit: string(r)}, true, nil
	case '+', '-', '*', '/':
		return calculator.OperatorInput{Operator: string(r)}, true, nil
	case 'x', 'X', '×':
		return calculator.OperatorInput{Operator: "*"}, true, nil
	case '÷':
		return calculator.OperatorInput{Operator: "/"}, true, nil
	case '(', ')':
		return calculator.ParenthesisInput{Parenthesis: string(r)}, true, nil
	case '=', '\n':
		return calculator.Calculate{}, true, nil
	case ' ', '\t', '\r':
		return nil, false, nil
	}
	return nil, false, ErrUnknownKey
}
