package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spigell/careerfit/internal/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	response    string
	err         error
	lastSystem  string
	lastMessage string
	deadline    bool
}

func (s *stubGenerator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastMessage = message
	_, s.deadline = ctx.Deadline()
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestNewAnalyzerWithoutGenerator(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer("openai", nil, zap.NewNop(), AnalyzerOptions{})
	if a != nil {
		t.Fatalf("expected nil analyzer")
	}
	if got := a.Analyze(context.Background(), "cv", domain.UserContext{}, domain.ResearchResult{}); got != nil {
		t.Fatalf("nil analyzer must return nil analysis")
	}
	if a.Name() != "" {
		t.Fatalf("nil analyzer must have empty name")
	}
}

func TestAnalyzerAnalyze(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{"summary":["Backend focus"],"recommended_professions":["Software Engineer"],"profession_scores":[{"name":"Software Engineer","score":88,"reason":"Go"}]}`}
	a := NewAnalyzer("openai", stub, zap.NewNop(), AnalyzerOptions{Timeout: time.Second})

	research := domain.ResearchResult{Query: "Backend Developer", Summary: "Builds server software."}
	user := domain.UserContext{Interests: "distributed systems", TargetJobTitle: "Backend Developer"}

	got := a.Analyze(context.Background(), "Go developer with PostgreSQL", user, research)
	if got == nil {
		t.Fatalf("expected analysis")
	}
	if got.Summary != "- Backend focus" || got.Professions[0].Score != 88 {
		t.Fatalf("unexpected analysis: %+v", got)
	}
	if got.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}
	if a.Name() != "openai" {
		t.Fatalf("unexpected name %q", a.Name())
	}

	if !strings.Contains(stub.lastSystem, "Respond with a single JSON object") {
		t.Fatalf("expected embedded system instruction, got %q", stub.lastSystem)
	}
	if !stub.deadline {
		t.Fatalf("expected request context to carry a deadline")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(stub.lastMessage), &payload); err != nil {
		t.Fatalf("message must be JSON: %v", err)
	}
	if payload["cv_text"] != "Go developer with PostgreSQL" {
		t.Fatalf("unexpected cv_text: %v", payload["cv_text"])
	}
	userCtx, _ := payload["user_context"].(map[string]any)
	if userCtx["profession"] != "distributed systems" {
		t.Fatalf("expected profession to fall back to interests, got %v", userCtx["profession"])
	}
	if _, ok := payload["research"]; !ok {
		t.Fatalf("expected research to be included")
	}
}

func TestAnalyzerOmitsEmptyResearch(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{"summary":"ok"}`}
	a := NewAnalyzer("gemini", stub, nil, AnalyzerOptions{})

	if got := a.Analyze(context.Background(), "text", domain.UserContext{}, domain.ResearchResult{}); got == nil {
		t.Fatalf("expected analysis")
	}
	if strings.Contains(stub.lastMessage, `"research"`) {
		t.Fatalf("empty research must be omitted: %s", stub.lastMessage)
	}
}

func TestAnalyzerFailuresResolveToNil(t *testing.T) {
	t.Parallel()

	cases := map[string]*stubGenerator{
		"network":      {err: errors.New("connection reset")},
		"invalid json": {response: "Sorry, I can't do that."},
		"no summary":   {response: `{"recommended_professions":["A"]}`},
	}

	for name, stub := range cases {
		core, logs := observer.New(zapcore.DebugLevel)
		a := NewAnalyzer("openai", stub, zap.New(core), AnalyzerOptions{})

		if got := a.Analyze(context.Background(), "some cv", domain.UserContext{}, domain.ResearchResult{}); got != nil {
			t.Fatalf("%s: expected nil analysis, got %+v", name, got)
		}

		warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
		if len(warns) != 1 {
			t.Fatalf("%s: expected one warning, got %d", name, len(warns))
		}
		fields := warns[0].ContextMap()
		if fields["ai_provider"] != "openai" || fields["ai_model"] != "stub-model" {
			t.Fatalf("%s: expected common ai fields, got %v", name, fields)
		}
	}
}

func TestAnalyzerEmptyTextIsNotSent(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{"summary":"x"}`}
	a := NewAnalyzer("openai", stub, zap.NewNop(), AnalyzerOptions{})
	if got := a.Analyze(context.Background(), "   ", domain.UserContext{}, domain.ResearchResult{}); got != nil {
		t.Fatalf("expected nil for empty text")
	}
	if stub.lastMessage != "" {
		t.Fatalf("generator must not be called for empty text")
	}
}
