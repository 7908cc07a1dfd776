package calculator

import (
	"log/slog"

	"golang.org/x/text/language"

	"nickandperla.net/calc/internal/locale"
)

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger sets the logger. Transitions are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLanguage sets the language of error messages. Unsupported languages
// fall back to the closest supported one.
func WithLanguage(tag language.Tag) Option {
	return func(c *Calculator) {
		c.printer = locale.NewPrinter(tag)
	}
}

// WithTransitionHook registers a function called after every status
// transition, including reentries.
func WithTransitionHook(fn func(Transition)) Option {
	return func(c *Calculator) {
		if fn != nil {
			c.hooks = append(c.hooks, fn)
		}
	}
}
