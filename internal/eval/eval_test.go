package eval

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalResults(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1+2", "3"},
		{"12+34", "46"},
		{"5-3", "2"},
		{"4*5", "20"},
		{"8/4", "2"},
		{"1+2*3", "7"},
		{"(1+2)*3", "9"},
		{"(1+(2*3))", "7"},
		{"2(3+4)", "14"},
		{"123(123)", "15129"},
		{"(1+2)(3+4)", "21"},
		{"2(3)(4)", "24"},
		{"-123+1", "-122"},
		{"-123-1", "-124"},
		{"-123*2", "-246"},
		{"-123/3", "-41"},
		{"-(2+3)", "-5"},
		{"2*-3", "-6"},
		{"2*(-3)", "-6"},
		{"1--3", "4"},
		{"--3", "3"},
		{"7-2-1", "4"},
		{"8/4/2", "1"},
		{"2+3*4-6/2", "11"},
		{"10/4", "2.5"},
		{"1/3", "0.3333333333333333"},
		{"0.1+0.2", "0.30000000000000004"},
		{"-0.5*2", "-1"},
		{"-1*0", "0"},
		{" 1 + 2 ", "3"},
		{"((((7))))", "7"},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := e.Eval(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		pos   int
	}{
		{"5/0", KindDivisionByZero, 1},
		{"5/(2-2)", KindDivisionByZero, 1},
		{"1+2/0*3", KindDivisionByZero, 3},
		{"", KindMalformedExpression, 0},
		{"1+", KindMalformedExpression, 2},
		{"1+*2", KindMalformedExpression, 2},
		{"()", KindMalformedExpression, 1},
		{"(2)3", KindMalformedExpression, 3},
		{"1.2.3", KindMalformedExpression, 3},
		{".", KindMalformedExpression, 0},
		{"2a", KindMalformedExpression, 1},
		{"(1+2", KindUnbalancedParentheses, 4},
		{"1+2)", KindUnbalancedParentheses, 3},
		{")(", KindUnbalancedParentheses, 0},
		{"((1)", KindUnbalancedParentheses, 4},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := e.Eval(tt.input)
			require.Error(t, err)

			var evalErr *Error
			require.True(t, errors.As(err, &evalErr), "expected *Error, got %T", err)
			assert.Equal(t, tt.kind, evalErr.Kind)
			assert.Equal(t, tt.pos, evalErr.Pos)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestEvalOverflow(t *testing.T) {
	e := New()

	_, err := e.Eval(strings.Repeat("9", 310))
	assert.ErrorIs(t, err, ErrOverflow)

	big := strings.Repeat("9", 300)
	_, err = e.Eval(big + "*" + big)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestSentinelMatching(t *testing.T) {
	e := New()

	_, err := e.Eval("1/0")
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.NotErrorIs(t, err, ErrMalformedExpression)

	_, err = e.Eval("(")
	assert.ErrorIs(t, err, ErrUnbalancedParentheses)

	_, err = e.Eval("+")
	assert.ErrorIs(t, err, ErrMalformedExpression)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindMalformedExpression, KindOf(errors.New("other")))
	assert.Equal(t, KindOverflow, KindOf(ErrOverflow))
}

func TestErrorString(t *testing.T) {
	_, err := New().Eval("5/0")
	require.Error(t, err)
	assert.Equal(t, "division by zero at offset 1", err.Error())
	assert.Equal(t, "DivisionByZero", KindDivisionByZero.String())
	assert.Equal(t, "result out of range", ErrOverflow.Error())
}

func TestTokenizeMarksImplicitMultiplication(t *testing.T) {
	items, err := Tokenize("2(3)")
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.True(t, items[1].Implicit)
	assert.Equal(t, "*", items[1].Value)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{3, "3"},
		{-3, "-3"},
		{2.5, "2.5"},
		{0.1, "0.1"},
		{1e21, "1000000000000000000000"},
		{0.000001, "0.000001"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.in))
		})
	}
}
