// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package calculator provides the event-driven calculator core.
//
// A Calculator accepts one Event at a time through Apply and exposes the
// resulting snapshot through State. Evaluation failures never surface as Go
// errors; they put the calculator into StatusError with a message. Apply
// only returns an error for events outside the vocabulary.
//
// A Calculator is not safe for concurrent use; callers serialize Apply.
package calculator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qmuntal/stateless"
	"golang.org/x/text/language"

	"nickandperla.net/calc/internal/eval"
	"nickandperla.net/calc/internal/expr"
	"nickandperla.net/calc/internal/locale"
)

// Transition describes one status change.
type Transition struct {
	From  Status
	To    Status
	Event EventKind
}

// Calculator is the calculator state machine.
type Calculator struct {
	machine   *stateless.StateMachine
	evaluator *eval.Evaluator
	printer   *locale.Printer
	logger    *slog.Logger
	hooks     []func(Transition)

	state   State // committed snapshot
	next    State // working copy while an event is applied
	pending outcome
}

// outcome carries an evaluation from the destination selector to the
// entry action that commits it.
type outcome struct {
	result string
	err    error
}

// New creates a Calculator in the fresh state.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		logger:  slog.New(slog.DiscardHandler),
		printer: locale.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.evaluator = eval.New(eval.WithLogger(c.logger))
	c.configure()
	return c
}

// Restore creates a Calculator that continues from a saved snapshot.
func Restore(s State, opts ...Option) (*Calculator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c := New(opts...)
	c.state = s
	c.next = s
	return c, nil
}

// State returns the current snapshot.
func (c *Calculator) State() State {
	return c.state
}

// Apply advances the calculator by one event.
func (c *Calculator) Apply(ev Event) error {
	switch ev.(type) {
	case DigitInput, OperatorInput, ParenthesisInput, Calculate:
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
	if err := ev.validate(); err != nil {
		return err
	}

	c.next = c.state
	c.pending = outcome{}
	if err := c.machine.Fire(ev.Kind(), ev); err != nil {
		c.next = c.state
		return fmt.Errorf("apply %s: %w", ev.Kind(), err)
	}
	c.state = c.next
	return nil
}

// Graph returns the status machine in DOT format.
func (c *Calculator) Graph() string {
	return c.machine.ToGraph()
}

func (c *Calculator) configure() {
	sm := stateless.NewStateMachineWithExternalStorage(
		func(_ context.Context) (stateless.State, error) {
			return c.next.Status, nil
		},
		func(_ context.Context, s stateless.State) error {
			c.next.Status = s.(Status)
			return nil
		},
		stateless.FiringImmediate,
	)

	idle := sm.Configure(StatusIdle).
		PermitDynamic(KindCalculate, c.evaluate)

	input := sm.Configure(StatusInput).
		PermitDynamic(KindCalculate, c.evaluate)

	evaluated := sm.Configure(StatusEvaluated).
		PermitDynamic(KindCalculate, c.evaluate).
		OnEntryFrom(KindCalculate, c.commit).
		OnExit(c.chain)

	failed := sm.Configure(StatusError).
		Ignore(KindCalculate).
		OnEntryFrom(KindCalculate, c.commit).
		OnExit(c.clear)

	for _, k := range []EventKind{KindDigitInput, KindOperatorInput, KindParenthesisInput} {
		idle.Permit(k, StatusInput)
		input.PermitReentry(k)
		input.OnEntryFrom(k, c.append)
		evaluated.Permit(k, StatusInput)
		failed.Permit(k, StatusInput)
	}

	sm.OnTransitioned(c.transitioned)
	c.machine = sm
}

// evaluate picks the destination of CALCULATE by evaluating the expression.
func (c *Calculator) evaluate(_ context.Context, _ ...any) (stateless.State, error) {
	result, err := c.evaluator.Eval(c.next.Expression)
	c.pending = outcome{result: result, err: err}
	if err != nil {
		return StatusError, nil
	}
	return StatusEvaluated, nil
}

// commit writes the pending evaluation into the working state.
func (c *Calculator) commit(_ context.Context, _ ...any) error {
	if c.pending.err != nil {
		c.next.ErrorMessage = c.printer.Describe(c.pending.err)
		return nil
	}
	c.next.Result = c.pending.result
	c.next.ErrorMessage = ""
	return nil
}

// append adds the event's characters to the expression.
func (c *Calculator) append(_ context.Context, args ...any) error {
	if len(args) == 0 {
		return nil
	}
	ev, ok := args[0].(Event)
	if !ok {
		return nil
	}
	c.next.Expression = expr.New(c.next.Expression).Append(text(ev)).String()
	return nil
}

// chain restarts the expression from the last result when an operator
// follows a successful evaluation.
func (c *Calculator) chain(_ context.Context, args ...any) error {
	if len(args) == 0 {
		return nil
	}
	if _, ok := args[0].(OperatorInput); ok {
		c.next.Expression = expr.FromResult(c.next.Result).String()
	}
	return nil
}

// clear discards the failed expression and its message.
func (c *Calculator) clear(_ context.Context, _ ...any) error {
	c.next.Expression = expr.Buffer{}.String()
	c.next.ErrorMessage = ""
	return nil
}

func (c *Calculator) transitioned(_ context.Context, t stateless.Transition) {
	tr := Transition{
		From:  t.Source.(Status),
		To:    t.Destination.(Status),
		Event: t.Trigger.(EventKind),
	}
	c.logger.Debug("transition",
		"from", tr.From,
		"to", tr.To,
		"event", tr.Event,
		"expression", c.next.Expression,
	)
	for _, hook := range c.hooks {
		hook(tr)
	}
}
