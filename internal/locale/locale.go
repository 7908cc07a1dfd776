// Package locale provides the user-facing messages for evaluation failures
// in each supported display language.
package locale

import (
	"fmt"

	jj "github.com/cloudfoundry/jibber_jabber"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"nickandperla.net/calc/internal/eval"
)

// Message keys.
const (
	keyDivisionByZero        = "error.division_by_zero"
	keyUnbalancedParentheses = "error.unbalanced_parentheses"
	keyMalformedExpression   = "error.malformed_expression"
	keyOverflow              = "error.overflow"
)

// Supported lists the display languages. The first one is the fallback.
var Supported = []language.Tag{
	language.English,
	language.Korean,
}

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyDivisionByZero:        "cannot divide by 0",
		keyUnbalancedParentheses: "parentheses are not balanced",
		keyMalformedExpression:   "malformed expression",
		keyOverflow:              "result is out of range",
	},
	language.Korean: {
		keyDivisionByZero:        "0으로 나눌 수 없습니다",
		keyUnbalancedParentheses: "괄호의 짝이 맞지 않습니다",
		keyMalformedExpression:   "올바르지 않은 수식입니다",
		keyOverflow:              "계산 범위를 벗어났습니다",
	},
}

var (
	matcher  = language.NewMatcher(Supported)
	messages = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Supported[0]))
	for tag, set := range translations {
		for key, msg := range set {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("locale: message %s for %v: %v", key, tag, err))
			}
		}
	}
	return b
}

// Match returns the supported language closest to tag.
func Match(tag language.Tag) language.Tag {
	_, idx, _ := matcher.Match(tag)
	return Supported[idx]
}

// Parse parses an IETF language tag such as "ko" or "en-US" and returns the
// closest supported language.
func Parse(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return Supported[0], err
	}
	return Match(tag), nil
}

// FromEnvironment returns the supported language closest to the user's
// locale as reported by the operating system.
func FromEnvironment() language.Tag {
	userLocale, err := jj.DetectIETF()
	if err != nil {
		return Supported[0]
	}
	tag, err := Parse(userLocale)
	if err != nil {
		return Supported[0]
	}
	return tag
}

// Printer renders evaluation failures in one language.
type Printer struct {
	p *message.Printer
}

// NewPrinter creates a Printer for the supported language closest to tag.
func NewPrinter(tag language.Tag) *Printer {
	return &Printer{
		p: message.NewPrinter(Match(tag), message.Catalog(messages)),
	}
}

// Message returns the text for an error kind, or "" for KindNone.
func (p *Printer) Message(k eval.Kind) string {
	key := keyFor(k)
	if key == "" {
		return ""
	}
	return p.p.Sprintf(key)
}

// Describe returns the text for err, or "" when err is nil.
func (p *Printer) Describe(err error) string {
	return p.Message(eval.KindOf(err))
}

func keyFor(k eval.Kind) string {
	switch k {
	case eval.KindDivisionByZero:
		return keyDivisionByZero
	case eval.KindUnbalancedParentheses:
		return keyUnbalancedParentheses
	case eval.KindMalformedExpression:
		return keyMalformedExpression
	case eval.KindOverflow:
		return keyOverflow
	}
	return ""
}
