// Package fallback runs an ordered list of providers and returns the first
// successful result. Failures are values: a provider reports them through its
// error return and the chain moves on to the next one.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrExhausted is returned by Run when no enabled provider succeeded.
var ErrExhausted = errors.New("all providers failed")

// Provider is a single attempt in a fallback chain.
type Provider[I, O any] interface {
	Name() string
	IsEnabled() bool
	Disable(reason string)
	Attempt(ctx context.Context, in I) (O, error)
}

// Attempt records what happened to one provider during a run.
type Attempt struct {
	Provider string
	Skipped  bool
	Err      error
}

// Outcome describes a finished run. Provider is empty when nothing succeeded.
type Outcome struct {
	Provider string
	Attempts []Attempt
}

// Status represents runtime information about a provider.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
}

type statusProvider interface {
	Status() Status
}

// Run tries the enabled providers in order and stops at the first success.
func Run[I, O any](ctx context.Context, logger *zap.Logger, providers []Provider[I, O], in I) (O, Outcome, error) {
	var zero O
	outcome := Outcome{Attempts: make([]Attempt, 0, len(providers))}

	for _, p := range providers {
		if p == nil {
			continue
		}

		if !p.IsEnabled() {
			outcome.Attempts = append(outcome.Attempts, Attempt{Provider: p.Name(), Skipped: true})
			continue
		}

		if err := ctx.Err(); err != nil {
			outcome.Attempts = append(outcome.Attempts, Attempt{Provider: p.Name(), Err: err})
			break
		}

		out, err := p.Attempt(ctx, in)
		outcome.Attempts = append(outcome.Attempts, Attempt{Provider: p.Name(), Err: err})
		if err != nil {
			if logger != nil {
				logger.Debug("provider attempt failed",
					zap.String("provider", p.Name()),
					zap.Error(err),
				)
			}
			continue
		}

		outcome.Provider = p.Name()
		return out, outcome, nil
	}

	return zero, outcome, fmt.Errorf("%w (%d attempted)", ErrExhausted, outcome.attempted())
}

func (o Outcome) attempted() int {
	n := 0
	for _, a := range o.Attempts {
		if !a.Skipped {
			n++
		}
	}
	return n
}

// Describe returns status entries for the provided chain.
func Describe[I, O any](providers []Provider[I, O]) []Status {
	statuses := make([]Status, 0, len(providers))
	for _, p := range providers {
		if p == nil {
			continue
		}
		if reporter, ok := p.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}
		statuses = append(statuses, Status{Name: p.Name(), Enabled: p.IsEnabled()})
	}
	return statuses
}

// DisableByName marks the provider with the given name as disabled while keeping it in the chain.
func DisableByName[I, O any](providers []Provider[I, O], name, reason string) {
	for _, p := range providers {
		if p != nil && p.Name() == name {
			p.Disable(reason)
		}
	}
}

// Func adapts a plain function into a Provider.
type Func[I, O any] struct {
	name     string
	disabled bool
	reason   string
	fn       func(ctx context.Context, in I) (O, error)
}

// New wraps fn as a provider called name. A nil fn yields a disabled provider.
func New[I, O any](name string, fn func(ctx context.Context, in I) (O, error)) *Func[I, O] {
	f := &Func[I, O]{name: name, fn: fn}
	if fn == nil {
		f.Disable("not configured")
	}
	return f
}

func (f *Func[I, O]) Name() string { return f.name }

func (f *Func[I, O]) IsEnabled() bool { return !f.disabled }

func (f *Func[I, O]) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *Func[I, O]) Attempt(ctx context.Context, in I) (O, error) {
	return f.fn(ctx, in)
}

func (f *Func[I, O]) Status() Status {
	return Status{Name: f.name, Enabled: !f.disabled, Reason: f.reason}
}
