// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines calculator token types and their source characters.
package token

// Token represents a calculator token type.
type Token int

const (
	EOF Token = iota
	NUMBER

	// Operators
	PLUS  // + binary addition
	MINUS // - binary subtraction
	STAR  // * multiplication (typed or implicit)
	SLASH // / division
	NEG   // - prefix negation of a group or another negation

	// Grouping
	LPAREN // (
	RPAREN // )
)

// Source characters for each operator and grouping mark.
const (
	RunePlus   = '+'
	RuneMinus  = '-'
	RuneStar   = '*'
	RuneSlash  = '/'
	RuneLParen = '('
	RuneRParen = ')'
	RunePoint  = '.'
)

// IsOperator returns true if the rune is a binary operator character.
func IsOperator(r rune) bool {
	switch r {
	case RunePlus, RuneMinus, RuneStar, RuneSlash:
		return true
	}
	return false
}

// IsDigit returns true for the ASCII digits 0-9.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// TokenFromRune returns the token type for an operator or grouping rune.
// A minus always maps to MINUS; the scanner decides whether it is unary.
func TokenFromRune(r rune) Token {
	switch r {
	case RunePlus:
		return PLUS
	case RuneMinus:
		return MINUS
	case RuneStar:
		return STAR
	case RuneSlash:
		return SLASH
	case RuneLParen:
		return LPAREN
	case RuneRParen:
		return RPAREN
	}
	return EOF
}

// String returns the string representation of a token.
func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case NUMBER:
		return "NUMBER"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case STAR:
		return "STAR"
	case SLASH:
		return "SLASH"
	case NEG:
		return "NEG"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	}
	return "UNKNOWN"
}

// IsBinary returns true if the token is a two-operand operator.
func (t Token) IsBinary() bool {
	switch t {
	case PLUS, MINUS, STAR, SLASH:
		return true
	}
	return false
}

// Precedence returns the binding strength of an operator token.
// Non-operators return 0.
func (t Token) Precedence() int {
	switch t {
	case PLUS, MINUS:
		return 1
	case STAR, SLASH:
		return 2
	case NEG:
		return 3
	}
	return 0
}

// RightAssoc returns true if operators of equal precedence group to the right.
func (t Token) RightAssoc() bool {
	return t == NEG
}
