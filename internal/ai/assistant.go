// Package ai asks a remote chat model for a structured career-fit analysis and
// normalises whatever it answers. Every failure resolves to a nil analysis so
// callers can fall back to the heuristic path.
package ai

import (
	"context"
	"errors"

	"github.com/spigell/careerfit/internal/domain"
)

// ErrNoAnalysis marks a model response that could not be turned into an Analysis.
var ErrNoAnalysis = errors.New("no structured analysis")

// Analysis is the normalised model output.
type Analysis struct {
	Classification     string
	Summary            string
	TargetAlignment    string
	StrengthsForTarget []string
	GapsForTarget      []string
	Professions        []domain.ScoredRole
	Raw                string
}

// RecommendedProfessions returns the profession names in rank order.
func (a *Analysis) RecommendedProfessions() []string {
	if a == nil {
		return nil
	}
	names := make([]string, 0, len(a.Professions))
	for _, p := range a.Professions {
		names = append(names, p.Name)
	}
	return names
}

// Generator sends one system instruction plus one user message to a chat model.
type Generator interface {
	GenerateContent(ctx context.Context, systemInstruction, message string) (string, error)
	Model() string
}

// StructuredAnalyzer is the contract the analysis engine depends on.
type StructuredAnalyzer interface {
	Name() string
	Analyze(ctx context.Context, cvText string, user domain.UserContext, research domain.ResearchResult) *Analysis
}
