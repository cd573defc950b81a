// Package analysis turns extracted document text into a career-fit result. It
// classifies the text, scans contact entities, optionally enriches the input
// with role research and a remote model, and falls back to keyword scoring
// whenever the model is unavailable.
package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/careerfit/internal/ai"
	"github.com/spigell/careerfit/internal/catalog"
	"github.com/spigell/careerfit/internal/domain"
	"github.com/spigell/careerfit/internal/fallback"
	"github.com/spigell/careerfit/internal/logger"
	"go.uber.org/zap"
)

const (
	emptySummary = "No readable text detected."
	emptyReason  = "No readable text detected in the document."
)

// Researcher fetches external role descriptions.
type Researcher interface {
	Research(ctx context.Context, user domain.UserContext) domain.ResearchResult
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Options are fixed at construction time.
type Options struct {
	// FastMode skips research, the remote model and embeddings.
	FastMode bool
}

// Dependencies are the optional collaborators of the Engine. Nil members disable the feature.
type Dependencies struct {
	Researcher Researcher
	Analyzer   ai.StructuredAnalyzer
	Embedder   Embedder
}

// Engine sequences the analysis pipeline. It holds no per-call state and is
// safe for concurrent use when its dependencies are.
type Engine struct {
	opts       Options
	researcher Researcher
	analyzer   ai.StructuredAnalyzer
	embedder   Embedder
	logger     *zap.Logger
	newID      func() string
}

// NewEngine creates an Engine.
func NewEngine(opts Options, deps Dependencies, log *zap.Logger) *Engine {
	e := &Engine{
		opts:       opts,
		researcher: deps.Researcher,
		embedder:   deps.Embedder,
		logger:     logger.ForComponent(log, "analysis"),
		newID:      uuid.NewString,
	}
	if deps.Analyzer != nil && deps.Analyzer.Name() != "" {
		e.analyzer = deps.Analyzer
	}
	return e
}

type pathInput struct {
	text     string
	user     domain.UserContext
	research domain.ResearchResult
}

type pathOutput struct {
	summary        string
	classification string
	insights       Insights
}

// Analyze never fails. Empty text yields a fixed placeholder result.
func (e *Engine) Analyze(ctx context.Context, text string, user domain.UserContext) Result {
	id := e.newID()
	log := logger.WithAnalysisID(e.logger, id)
	started := time.Now()

	if strings.TrimSpace(text) == "" {
		log.Info("no readable text, returning placeholder result")
		return emptyResult(id)
	}

	user = user.Normalized()
	classification := Classify(text)
	entities := ScanEntities(text)

	var research domain.ResearchResult
	if !e.opts.FastMode && e.researcher != nil {
		research = e.researcher.Research(ctx, user)
	}

	in := pathInput{text: text, user: user, research: research}
	out, outcome, err := fallback.Run(ctx, log, e.paths(), in)
	if err != nil {
		// Heuristic scoring has no failure mode; this only triggers on a cancelled context.
		out, _ = e.heuristicPath(ctx, in)
		outcome.Provider = ProviderHeuristic
	}

	if out.classification == "" {
		out.classification = classification
	}

	insights := out.insights
	insights.WordCount = len(strings.Fields(text))
	insights.EntityCount = len(entities)
	insights.ContainsFinancialSignals = containsFinancialSignals(text)
	insights.AnalysisProvider = outcome.Provider
	insights.AnalysisID = id
	insights.setResearch(research)

	result := Result{
		Summary:        out.summary,
		Classification: out.classification,
		Entities:       entities,
		Embeddings:     e.embed(ctx, log, out.summary),
		Insights:       insights,
	}

	if err := ValidateResult(result); err != nil {
		log.Warn("analysis result does not match schema", zap.Error(err))
	}

	log.Info("analysis finished",
		zap.String("provider", outcome.Provider),
		zap.String("classification", result.Classification),
		zap.Strings("recommended_professions", insights.RecommendedProfessions),
		zap.Duration("took", time.Since(started)),
	)

	return result
}

func (e *Engine) paths() []fallback.Provider[pathInput, pathOutput] {
	var model *fallback.Func[pathInput, pathOutput]
	if e.analyzer == nil {
		model = fallback.New[pathInput, pathOutput]("llm", nil)
	} else {
		model = fallback.New(e.analyzer.Name(), e.modelPath)
		if e.opts.FastMode {
			model.Disable("fast mode")
		}
	}

	return []fallback.Provider[pathInput, pathOutput]{
		model,
		fallback.New(ProviderHeuristic, e.heuristicPath),
	}
}

func (e *Engine) modelPath(ctx context.Context, in pathInput) (pathOutput, error) {
	analysis := e.analyzer.Analyze(ctx, in.text, in.user, in.research)
	if analysis == nil {
		return pathOutput{}, ai.ErrNoAnalysis
	}

	roles := analysis.Professions
	if len(roles) == 0 {
		roles = []domain.ScoredRole{placeholderRole()}
	}

	insights := Insights{
		AlignmentNotes:       analysis.TargetAlignment,
		CVStrengthsForTarget: analysis.StrengthsForTarget,
		CVGapsForTarget:      analysis.GapsForTarget,
	}
	insights.setProfessions(roles)

	if profile, ok := catalog.Lookup(roles[0].Name); ok {
		insights.MissingForTop = missingKeywords(roleMatch{
			profile:   profile,
			cvHits:    profile.Matches(strings.ToLower(in.text)),
			skillHits: profile.Matches(strings.ToLower(in.user.Skills)),
		})
	}

	return pathOutput{
		summary:        analysis.Summary,
		classification: normalizeClass(analysis.Classification),
		insights:       insights,
	}, nil
}

func (e *Engine) heuristicPath(_ context.Context, in pathInput) (pathOutput, error) {
	scoring := Score(in.text, in.user)

	insights := Insights{
		TransferableStrengths: scoring.TransferableStrengths,
		MissingForTop:         scoring.MissingForTop,
		DetectedSkills:        scoring.DetectedSkills,
		ImprovementAreas:      scoring.ImprovementAreas,
	}
	insights.setProfessions(scoring.Ranked)

	if scoring.HasTarget {
		alignment := scoring.TargetAlignment
		insights.TargetAlignment = &alignment
		insights.CVStrengthsForTarget = scoring.CVStrengthsForTarget
		insights.CVGapsForTarget = scoring.CVGapsForTarget
	}

	return pathOutput{
		summary:  Compose(scoring, in.user, in.research),
		insights: insights,
	}, nil
}

func (e *Engine) embed(ctx context.Context, log *zap.Logger, text string) []float64 {
	if e.opts.FastMode || e.embedder == nil || strings.TrimSpace(text) == "" {
		return []float64{}
	}

	vector, err := e.embedder.Embed(ctx, text)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn("embedding failed", zap.Error(err))
		}
		return []float64{}
	}
	return vector
}

func emptyResult(id string) Result {
	insights := Insights{
		AnalysisProvider: ProviderHeuristic,
		AnalysisID:       id,
	}
	insights.setProfessions([]domain.ScoredRole{{
		Name:   catalog.GeneralRole,
		Score:  placeholderScore,
		Reason: emptyReason,
	}})

	return Result{
		Summary:        emptySummary,
		Classification: ClassUnknown,
		Entities:       []domain.Entity{},
		Embeddings:     []float64{},
		Insights:       insights,
	}
}
