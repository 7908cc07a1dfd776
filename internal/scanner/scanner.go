// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming lexer for calculator expressions.
//
// The scanner is where the two context-sensitive rules of the input
// language live: a minus in operand position is unary, and an opening
// parenthesis directly after a number or a closing parenthesis is preceded
// by a synthetic multiplication. Parenthesis balance is checked on the fly.
package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"nickandperla.net/calc/internal/token"
)

// Scan errors. They are returned wrapped in a *PosError.
var (
	ErrUnbalanced = errors.New("unbalanced parentheses")
	ErrUnexpected = errors.New("unexpected character")
	ErrBadNumber  = errors.New("malformed number")
)

// PosError records the byte offset at which scanning failed.
type PosError struct {
	Pos int
	Err error
}

func (e *PosError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Pos, e.Err)
}

func (e *PosError) Unwrap() error { return e.Err }

// Scanner tokenizes an expression rune-by-rune.
type Scanner struct {
	reader   *bufio.Reader
	buf      strings.Builder
	pending  *Item // real token queued behind a synthetic one
	pos      int   // Byte offset of the next unread rune
	lastSize int
	prev     token.Token
	started  bool
	depth    int
}

// Item represents a scanned token with its value.
type Item struct {
	Token    token.Token
	Value    string
	Pos      int  // Byte offset where this token started
	Implicit bool // Inserted by the scanner, not present in the source
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Next returns the next token from the input.
func (s *Scanner) Next() (*Item, error) {
	if s.pending != nil {
		item := s.pending
		s.pending = nil
		return s.emit(item), nil
	}

	if err := s.skipWhitespace(); err != nil {
		return nil, err
	}

	start := s.pos
	r, err := s.readRune()
	if err == io.EOF {
		if s.depth > 0 {
			return nil, &PosError{Pos: start, Err: ErrUnbalanced}
		}
		return &Item{Token: token.EOF, Pos: start}, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case token.IsDigit(r) || r == token.RunePoint:
		s.unreadRune()
		return s.scanNumber(start, "")

	case r == token.RuneMinus && s.operandExpected():
		next, err := s.readRune()
		if err != nil && err != io.EOF {
			return nil, err
		}
		if err == nil {
			s.unreadRune()
			if token.IsDigit(next) || next == token.RunePoint {
				return s.scanNumber(start, string(r))
			}
		}
		return s.emit(&Item{Token: token.NEG, Value: string(r), Pos: start}), nil

	case r == token.RuneLParen:
		s.depth++
		item := &Item{Token: token.LPAREN, Value: string(r), Pos: start}
		if s.started && (s.prev == token.NUMBER || s.prev == token.RPAREN) {
			s.pending = item
			return s.emit(&Item{Token: token.STAR, Value: string(token.RuneStar), Pos: start, Implicit: true}), nil
		}
		return s.emit(item), nil

	case r == token.RuneRParen:
		if s.depth == 0 {
			return nil, &PosError{Pos: start, Err: ErrUnbalanced}
		}
		s.depth--
		return s.emit(&Item{Token: token.RPAREN, Value: string(r), Pos: start}), nil

	case token.IsOperator(r):
		return s.emit(&Item{Token: token.TokenFromRune(r), Value: string(r), Pos: start}), nil
	}

	return nil, &PosError{Pos: start, Err: ErrUnexpected}
}

// All scans the remaining input and returns every item up to, but not
// including, EOF.
func (s *Scanner) All() ([]Item, error) {
	var items []Item
	for {
		item, err := s.Next()
		if err != nil {
			return nil, err
		}
		if item.Token == token.EOF {
			return items, nil
		}
		items = append(items, *item)
	}
}

// operandExpected reports whether the next token starts an operand, which
// is where a minus sign is unary.
func (s *Scanner) operandExpected() bool {
	if !s.started {
		return true
	}
	return s.prev.IsBinary() || s.prev == token.NEG || s.prev == token.LPAREN
}

// scanNumber reads digits with at most one decimal point. prefix is
// prepended to the literal (a folded unary minus).
func (s *Scanner) scanNumber(start int, prefix string) (*Item, error) {
	s.buf.Reset()
	s.buf.WriteString(prefix)
	digits := 0
	point := false

	for {
		r, err := s.readRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if token.IsDigit(r) {
			digits++
			s.buf.WriteRune(r)
			continue
		}
		if r == token.RunePoint && !point {
			point = true
			s.buf.WriteRune(r)
			continue
		}
		s.unreadRune()
		break
	}

	if digits == 0 {
		return nil, &PosError{Pos: start, Err: ErrBadNumber}
	}
	return s.emit(&Item{Token: token.NUMBER, Value: s.buf.String(), Pos: start}), nil
}

// emit records item as the previous token and returns it.
func (s *Scanner) emit(item *Item) *Item {
	s.prev = item.Token
	s.started = true
	return item
}

// skipWhitespace consumes and discards whitespace.
func (s *Scanner) skipWhitespace() error {
	for {
		r, err := s.readRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			s.unreadRune()
			return nil
		}
	}
}

func (s *Scanner) readRune() (rune, error) {
	r, size, err := s.reader.ReadRune()
	if err != nil {
		s.lastSize = 0
		return 0, err
	}
	s.pos += size
	s.lastSize = size
	return r, nil
}

// unreadRune puts back the rune returned by the last readRune call.
func (s *Scanner) unreadRune() {
	if s.lastSize == 0 {
		return
	}
	if err := s.reader.UnreadRune(); err == nil {
		s.pos -= s.lastSize
	}
	s.lastSize = 0
}
