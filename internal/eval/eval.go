// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the calculator's expression evaluator.
package eval

import (
	"errors"
	"log/slog"
	"math"
	"strconv"

	"github.com/emirpasic/gods/stacks/arraystack"

	"nickandperla.net/calc/internal/scanner"
	"nickandperla.net/calc/internal/token"
)

// Evaluator parses and evaluates arithmetic expressions. It holds no state
// between calls and is safe for concurrent use.
type Evaluator struct {
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval evaluates input and returns the formatted result.
func (e *Evaluator) Eval(input string) (string, error) {
	v, err := e.Evaluate(input)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}

// Evaluate evaluates input and returns its numeric value. Failures are
// always *Error values.
func (e *Evaluator) Evaluate(input string) (float64, error) {
	items, err := Tokenize(input)
	if err != nil {
		e.logger.Debug("scan failed", "expression", input, "error", err)
		return 0, err
	}
	if err := validate(items, len(input)); err != nil {
		e.logger.Debug("invalid expression", "expression", input, "error", err)
		return 0, err
	}
	v, err := reduce(items)
	if err != nil {
		e.logger.Debug("evaluation failed", "expression", input, "error", err)
		return 0, err
	}
	e.logger.Debug("evaluated", "expression", input, "tokens", len(items), "value", v)
	return v, nil
}

// Tokenize scans input into items, mapping scan failures onto evaluation
// errors. Implicit multiplications appear as STAR items with Implicit set.
func Tokenize(input string) ([]scanner.Item, error) {
	items, err := scanner.NewFromString(input).All()
	if err == nil {
		return items, nil
	}
	pos := -1
	var pe *scanner.PosError
	if errors.As(err, &pe) {
		pos = pe.Pos
	}
	if errors.Is(err, scanner.ErrUnbalanced) {
		return nil, newError(KindUnbalancedParentheses, pos, nil)
	}
	return nil, newError(KindMalformedExpression, pos, err)
}

// validate checks that operands and operators alternate. The scanner has
// already guaranteed balanced parentheses.
func validate(items []scanner.Item, end int) error {
	expectOperand := true
	for _, it := range items {
		switch it.Token {
		case token.NUMBER:
			if !expectOperand {
				return newError(KindMalformedExpression, it.Pos, nil)
			}
			expectOperand = false
		case token.LPAREN, token.NEG:
			if !expectOperand {
				return newError(KindMalformedExpression, it.Pos, nil)
			}
		case token.RPAREN:
			if expectOperand {
				return newError(KindMalformedExpression, it.Pos, nil)
			}
		default:
			if !it.Token.IsBinary() || expectOperand {
				return newError(KindMalformedExpression, it.Pos, nil)
			}
			expectOperand = true
		}
	}
	if expectOperand {
		return newError(KindMalformedExpression, end, nil)
	}
	return nil
}

// reduce runs the shunting-yard algorithm over validated items, applying
// operators as soon as they are popped.
func reduce(items []scanner.Item) (float64, error) {
	ops := arraystack.New()
	vals := arraystack.New()

	for _, it := range items {
		switch it.Token {
		case token.NUMBER:
			v, err := strconv.ParseFloat(it.Value, 64)
			if err != nil {
				if errors.Is(err, strconv.ErrRange) {
					return 0, newError(KindOverflow, it.Pos, nil)
				}
				return 0, newError(KindMalformedExpression, it.Pos, err)
			}
			vals.Push(v)

		case token.LPAREN, token.NEG:
			ops.Push(it)

		case token.RPAREN:
			for {
				top, ok := ops.Pop()
				if !ok {
					return 0, newError(KindUnbalancedParentheses, it.Pos, nil)
				}
				op := top.(scanner.Item)
				if op.Token == token.LPAREN {
					break
				}
				if err := apply(vals, op); err != nil {
					return 0, err
				}
			}

		default:
			for {
				top, ok := ops.Peek()
				if !ok {
					break
				}
				op := top.(scanner.Item)
				if op.Token == token.LPAREN {
					break
				}
				p, q := op.Token.Precedence(), it.Token.Precedence()
				if p < q || (p == q && it.Token.RightAssoc()) {
					break
				}
				ops.Pop()
				if err := apply(vals, op); err != nil {
					return 0, err
				}
			}
			ops.Push(it)
		}
	}

	for !ops.Empty() {
		top, _ := ops.Pop()
		op := top.(scanner.Item)
		if op.Token == token.LPAREN {
			return 0, newError(KindUnbalancedParentheses, op.Pos, nil)
		}
		if err := apply(vals, op); err != nil {
			return 0, err
		}
	}

	if vals.Size() != 1 {
		return 0, newError(KindMalformedExpression, -1, nil)
	}
	v, _ := vals.Pop()
	return v.(float64), nil
}

// apply pops the operands of op, computes, and pushes the result.
func apply(vals *arraystack.Stack, op scanner.Item) error {
	if op.Token == token.NEG {
		a, ok := vals.Pop()
		if !ok {
			return newError(KindMalformedExpression, op.Pos, nil)
		}
		vals.Push(-a.(float64))
		return nil
	}

	bv, ok := vals.Pop()
	if !ok {
		return newError(KindMalformedExpression, op.Pos, nil)
	}
	av, ok := vals.Pop()
	if !ok {
		return newError(KindMalformedExpression, op.Pos, nil)
	}
	a, b := av.(float64), bv.(float64)

	var r float64
	switch op.Token {
	case token.PLUS:
		r = a + b
	case token.MINUS:
		r = a - b
	case token.STAR:
		r = a * b
	case token.SLASH:
		if b == 0 {
			return newError(KindDivisionByZero, op.Pos, nil)
		}
		r = a / b
	default:
		return newError(KindMalformedExpression, op.Pos, nil)
	}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return newError(KindOverflow, op.Pos, nil)
	}
	vals.Push(r)
	return nil
}

// Format renders v as the shortest decimal string that round-trips, without
// an exponent. Integral values have no decimal point; negative zero is "0".
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
