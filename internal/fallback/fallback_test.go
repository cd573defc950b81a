package fallback

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func failing(err error) func(context.Context, string) (string, error) {
	return func(context.Context, string) (string, error) { return "", err }
}

func echo(prefix string) func(context.Context, string) (string, error) {
	return func(_ context.Context, in string) (string, error) { return prefix + in, nil }
}

func TestRunReturnsFirstSuccess(t *testing.T) {
	t.Parallel()

	calledThird := false
	chain := []Provider[string, string]{
		New("primary", failing(errors.New("engine missing"))),
		New("secondary", echo("b:")),
		New("third", func(context.Context, string) (string, error) {
			calledThird = true
			return "c", nil
		}),
	}

	out, outcome, err := Run(context.Background(), zap.NewNop(), chain, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "b:x" {
		t.Fatalf("unexpected output %q", out)
	}
	if outcome.Provider != "secondary" {
		t.Fatalf("expected secondary provider, got %q", outcome.Provider)
	}
	if len(outcome.Attempts) != 2 || outcome.Attempts[0].Err == nil {
		t.Fatalf("unexpected attempts: %+v", outcome.Attempts)
	}
	if calledThird {
		t.Fatalf("chain must short-circuit after the first success")
	}
}

func TestRunSkipsDisabledProviders(t *testing.T) {
	t.Parallel()

	chain := []Provider[string, string]{
		New[string, string]("llm", nil),
		New("heuristic", echo("h:")),
	}

	out, outcome, err := Run(context.Background(), nil, chain, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "h:x" || outcome.Provider != "heuristic" {
		t.Fatalf("unexpected result %q from %q", out, outcome.Provider)
	}
	if !outcome.Attempts[0].Skipped {
		t.Fatalf("expected disabled provider to be recorded as skipped")
	}
}

func TestRunExhausted(t *testing.T) {
	t.Parallel()

	chain := []Provider[string, string]{
		New("a", failing(errors.New("boom"))),
		New("b", failing(errors.New("bang"))),
	}

	out, outcome, err := Run(context.Background(), zap.NewNop(), chain, "x")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if out != "" || outcome.Provider != "" {
		t.Fatalf("expected zero output, got %q from %q", out, outcome.Provider)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := []Provider[string, string]{New("a", echo("a:"))}
	if _, _, err := Run(ctx, nil, chain, "x"); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestDescribeAndDisableByName(t *testing.T) {
	t.Parallel()

	chain := []Provider[string, string]{
		New("tesseract", echo("t:")),
		New("gemini-vision", echo("g:")),
	}

	DisableByName(chain, "gemini-vision", "no api key")

	statuses := Describe(chain)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Enabled {
		t.Fatalf("expected tesseract enabled")
	}
	if statuses[1].Enabled || statuses[1].Reason != "no api key" {
		t.Fatalf("unexpected status: %+v", statuses[1])
	}
}
