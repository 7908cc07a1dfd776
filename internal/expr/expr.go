// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines the calculator's expression buffer.
package expr

import "strings"

// Buffer holds the raw text of an expression exactly as it was entered.
// It is a value type; every mutation returns a new Buffer.
type Buffer struct {
	text string
}

// New creates a Buffer holding s.
func New(s string) Buffer {
	return Buffer{text: s}
}

// FromResult creates the buffer a chained calculation continues from.
func FromResult(result string) Buffer {
	return Buffer{text: strings.TrimSpace(result)}
}

// String returns the raw expression text.
func (b Buffer) String() string { return b.text }

// Append returns a new Buffer with s added to the end.
func (b Buffer) Append(s string) Buffer {
	if s == "" {
		return b
	}
	var sb strings.Builder
	sb.Grow(len(b.text) + len(s))
	sb.WriteString(b.text)
	sb.WriteString(s)
	return Buffer{text: sb.String()}
}
