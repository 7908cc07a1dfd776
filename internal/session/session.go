// Package session keeps named calculators in a store so that a calculation
// survives between invocations of the CLI and between MCP tool calls.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"

	"nickandperla.net/calc/internal/keypad"
	"nickandperla.net/calc/internal/store"
	"nickandperla.net/calc/pkg/calculator"
)

// ErrEmptyID is returned for an empty session id.
var ErrEmptyID = errors.New("session id must not be empty")

// Manager opens, updates and saves calculator sessions. Press and Reset
// are serialized.
type Manager struct {
	mu     sync.Mutex
	store  store.Store
	logger *slog.Logger
	lang   language.Tag
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by the manager and its calculators.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithLanguage sets the language of error messages.
func WithLanguage(tag language.Tag) Option {
	return func(m *Manager) {
		m.lang = tag
	}
}

// NewManager creates a Manager backed by s.
func NewManager(s store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  s,
		logger: slog.New(slog.DiscardHandler),
		lang:   language.English,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open returns the calculator saved under id, or a fresh one.
func (m *Manager) Open(id string) (*calculator.Calculator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open(id)
}

func (m *Manager) options(id string) []calculator.Option {
	return []calculator.Option{
		calculator.WithLogger(m.logger.With("session", id)),
		calculator.WithLanguage(m.lang),
	}
}

func (m *Manager) open(id string) (*calculator.Calculator, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	opts := m.options(id)

	rec, err := m.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if rec == nil {
		return calculator.New(opts...), nil
	}

	status, ok := calculator.ParseStatus(rec.Status)
	if !ok {
		return nil, fmt.Errorf("load session %s: unknown status %q", id, rec.Status)
	}
	c, err := calculator.Restore(calculator.State{
		Expression:   rec.Expression,
		Status:       status,
		Result:       rec.Result,
		ErrorMessage: rec.ErrorMessage,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return c, nil
}

func (m *Manager) save(id string, s calculator.State) error {
	if id == "" {
		return ErrEmptyID
	}
	err := m.store.Put(id, store.Record{
		Expression:   s.Expression,
		Status:       s.Status.String(),
		Result:       s.Result,
		ErrorMessage: s.ErrorMessage,
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

// Press applies the keys to the session exactly as pressed and saves the
// outcome. Nothing is applied when keys contains an unknown key.
func (m *Manager) Press(id, keys string) (calculator.State, error) {
	return m.apply(id, keys, false)
}

// Enter applies one typed line to the session. After a result, a line that
// starts with an operator continues from it; any other line starts a new
// calculation.
func (m *Manager) Enter(id, line string) (calculator.State, error) {
	return m.apply(id, line, true)
}

func (m *Manager) apply(id, keys string, fresh bool) (calculator.State, error) {
	events, err := keypad.Parse(keys)
	if err != nil {
		return calculator.State{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.open(id)
	if err != nil {
		return calculator.State{}, err
	}
	if fresh && startsOver(c.State(), events) {
		m.logger.Debug("new calculation", "session", id, "previous", c.State().Result)
		c = calculator.New(m.options(id)...)
	}
	for _, ev := range events {
		if err := c.Apply(ev); err != nil {
			return calculator.State{}, err
		}
	}

	s := c.State()
	if err := m.save(id, s); err != nil {
		return calculator.State{}, err
	}
	m.logger.Debug("press", "session", id, "keys", keys, "status", s.Status)
	return s, nil
}

// startsOver reports whether events begin a new calculation rather than
// continue from the evaluated result.
func startsOver(s calculator.State, events []calculator.Event) bool {
	if s.Status != calculator.StatusEvaluated || len(events) == 0 {
		return false
	}
	_, chained := events[0].(calculator.OperatorInput)
	return !chained
}

// State returns the saved state of a session without changing it.
func (m *Manager) State(id string) (calculator.State, error) {
	c, err := m.Open(id)
	if err != nil {
		return calculator.State{}, err
	}
	return c.State(), nil
}

// Reset discards a session. The next Open returns a fresh calculator.
func (m *Manager) Reset(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Delete(id); err != nil {
		return fmt.Errorf("reset session %s: %w", id, err)
	}
	m.logger.Debug("reset", "session", id)
	return nil
}

// List returns the ids of all saved sessions.
func (m *Manager) List() ([]string, error) {
	return m.store.List()
}

// Render formats a state for display: the expression, then "= result" or
// "! message" on a second line once it has been calculated.
func Render(s calculator.State) string {
	switch s.Status {
	case calculator.StatusEvaluated:
		return s.Expression + "\n= " + s.Result
	case calculator.StatusError:
		return s.Expression + "\n! " + s.ErrorMessage
	default:
		return s.Expression
	}
}
