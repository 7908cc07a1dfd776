package keypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickandperla.net/calc/pkg/calculator"
)

func TestParse(t *testing.T) {
	got, err := Parse("12 + (3x4)=")
	require.NoError(t, err)

	want := []calculator.Event{
		calculator.DigitInput{Digit: "1"},
		calculator.DigitInput{Digit: "2"},
		calculator.OperatorInput{Operator: "+"},
		calculator.ParenthesisInput{Parenthesis: "("},
		calculator.DigitInput{Digit: "3"},
		calculator.OperatorInput{Operator: "*"},
		calculator.DigitInput{Digit: "4"},
		calculator.ParenthesisInput{Parenthesis: ")"},
		calculator.Calculate{},
	}
	assert.Equal(t, want, got)
}

func TestParseAliases(t *testing.T) {
	got, err := Parse("6÷2×3\n")
	require.NoError(t, err)

	want := []calculator.Event{
		calculator.DigitInput{Digit: "6"},
		calculator.OperatorInput{Operator: "/"},
		calculator.DigitInput{Digit: "2"},
		calculator.OperatorInput{Operator: "*"},
		calculator.DigitInput{Digit: "3"},
		calculator.Calculate{},
	}
	assert.Equal(t, want, got)
}

func TestParseEmpty(t *testing.T) {
	got, err := Parse("  \t")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse("1+a")
	require.ErrorIs(t, err, ErrUnknownKey)

	var ke *KeyError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, 'a', ke.Key)
	assert.Equal(t, 2, ke.Pos)
	assert.Contains(t, err.Error(), "offset 2")
}

func TestParsedEventsDriveCalculator(t *testing.T) {
	events, err := Parse("2(3+4)=")
	require.NoError(t, err)

	c := calculator.New()
	for _, ev := range events {
		require.NoError(t, c.Apply(ev))
	}
	assert.Equal(t, "14", c.State().Result)
}
