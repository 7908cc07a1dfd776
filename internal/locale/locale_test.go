package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"nickandperla.net/calc/internal/eval"
)

func TestMessagesEnglish(t *testing.T) {
	p := NewPrinter(language.English)

	assert.Equal(t, "cannot divide by 0", p.Message(eval.KindDivisionByZero))
	assert.Equal(t, "parentheses are not balanced", p.Message(eval.KindUnbalancedParentheses))
	assert.Equal(t, "malformed expression", p.Message(eval.KindMalformedExpression))
	assert.Equal(t, "result is out of range", p.Message(eval.KindOverflow))
	assert.Empty(t, p.Message(eval.KindNone))
}

func TestMessagesKorean(t *testing.T) {
	p := NewPrinter(language.Korean)

	assert.Equal(t, "0으로 나눌 수 없습니다", p.Message(eval.KindDivisionByZero))
	assert.Equal(t, "괄호의 짝이 맞지 않습니다", p.Message(eval.KindUnbalancedParentheses))
}

func TestMessagesAreDistinct(t *testing.T) {
	kinds := []eval.Kind{
		eval.KindDivisionByZero,
		eval.KindUnbalancedParentheses,
		eval.KindMalformedExpression,
		eval.KindOverflow,
	}
	for _, tag := range Supported {
		p := NewPrinter(tag)
		seen := make(map[string]eval.Kind)
		for _, k := range kinds {
			msg := p.Message(k)
			require.NotEmpty(t, msg, "%v has no %v message", tag, k)
			_, dup := seen[msg]
			assert.False(t, dup, "%v: %q used twice", tag, msg)
			seen[msg] = k
		}
	}
}

func TestDescribe(t *testing.T) {
	p := NewPrinter(language.English)
	_, err := eval.New().Eval("1/0")

	assert.Equal(t, "cannot divide by 0", p.Describe(err))
	assert.Empty(t, p.Describe(nil))
}

func TestCatalogBuilds(t *testing.T) {
	assert.NotPanics(t, func() { buildCatalog() })
}

func TestMatchFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, language.English, Match(language.Japanese))
	assert.Equal(t, language.Korean, Match(language.MustParse("ko-KR")))
	assert.Equal(t, language.English, Match(language.MustParse("en-GB")))
}

func TestParse(t *testing.T) {
	tag, err := Parse("ko")
	require.NoError(t, err)
	assert.Equal(t, language.Korean, tag)

	_, err = Parse("not a tag!")
	assert.Error(t, err)
}

func TestFromEnvironment(t *testing.T) {
	tag := FromEnvironment()
	assert.Contains(t, Supported, tag)
}
