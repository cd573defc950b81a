package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/spigell/careerfit/internal/ai"
	"github.com/spigell/careerfit/internal/catalog"
	"github.com/spigell/careerfit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubResearcher struct {
	result domain.ResearchResult
	calls  int
	last   domain.UserContext
}

func (s *stubResearcher) Research(_ context.Context, user domain.UserContext) domain.ResearchResult {
	s.calls++
	s.last = user
	return s.result
}

type stubAnalyzer struct {
	name     string
	analysis *ai.Analysis
	calls    int
	research domain.ResearchResult
}

func (s *stubAnalyzer) Name() string { return s.name }

func (s *stubAnalyzer) Analyze(_ context.Context, _ string, _ domain.UserContext, research domain.ResearchResult) *ai.Analysis {
	s.calls++
	s.research = research
	return s.analysis
}

type stubEmbedder struct {
	vector []float64
	err    error
	calls  int
}

func (s *stubEmbedder) Embed(context.Context, string) ([]float64, error) {
	s.calls++
	return s.vector, s.err
}

func newTestEngine(opts Options, deps Dependencies) *Engine {
	e := NewEngine(opts, deps, zap.NewNop())
	e.newID = func() string { return "analysis-1" }
	return e
}

func TestAnalyzeEmptyText(t *testing.T) {
	t.Parallel()

	researcher := &stubResearcher{}
	analyzer := &stubAnalyzer{name: "openai"}
	e := newTestEngine(Options{}, Dependencies{Researcher: researcher, Analyzer: analyzer})

	for _, text := range []string{"", "   \n\t"} {
		res := e.Analyze(context.Background(), text, domain.UserContext{TargetJobTitle: "Nurse"})

		assert.Equal(t, "No readable text detected.", res.Summary)
		assert.Equal(t, ClassUnknown, res.Classification)
		assert.Empty(t, res.Entities)
		assert.NotNil(t, res.Embeddings)
		assert.Zero(t, res.Insights.WordCount)
		assert.Equal(t, []string{catalog.GeneralRole}, res.Insights.RecommendedProfessions)
		assert.Equal(t, 58, res.Insights.ProfessionScores[0].Score)
		assert.Equal(t, ProviderHeuristic, res.Insights.AnalysisProvider)
		require.NoError(t, ValidateResult(res))
	}

	assert.Zero(t, researcher.calls)
	assert.Zero(t, analyzer.calls)
}

func TestAnalyzeHeuristicScenario(t *testing.T) {
	t.Parallel()

	e := newTestEngine(Options{}, Dependencies{})
	res := e.Analyze(context.Background(), backendCV, domain.UserContext{})

	assert.Equal(t, ClassCV, res.Classification)
	assert.Equal(t, ProviderHeuristic, res.Insights.AnalysisProvider)
	assert.Equal(t, "analysis-1", res.Insights.AnalysisID)
	assert.Equal(t, []string{"Software Engineer", "Data Analyst"}, res.Insights.RecommendedProfessions)
	assert.Contains(t, res.Insights.MissingForTop, "javascript")
	assert.Equal(t, 12, res.Insights.WordCount)
	assert.False(t, res.Insights.ContainsFinancialSignals)
	assert.Nil(t, res.Insights.TargetAlignment)
	assert.Empty(t, res.Insights.ResearchQuery)
	assert.Equal(t, []float64{}, res.Embeddings)
	require.NoError(t, ValidateResult(res))
}

func TestAnalyzeFailingModelFallsBackToHeuristic(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{name: "openai"}
	researcher := &stubResearcher{result: domain.ResearchResult{
		Query:           "Data Analyst",
		Summary:         "Analysts interpret data.",
		Source:          "https://example.org/da",
		KeyExpectations: []string{"Interpret data for stakeholders"},
	}}
	e := newTestEngine(Options{}, Dependencies{Researcher: researcher, Analyzer: analyzer})

	user := domain.UserContext{TargetJobTitle: "Data Analyst", Interests: "dashboards"}
	res := e.Analyze(context.Background(), "Invoice reconciliation with SQL, costs in $ and €", user)

	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, "Data Analyst", analyzer.research.Query)
	assert.Equal(t, "dashboards", researcher.last.Profession)

	assert.Equal(t, ProviderHeuristic, res.Insights.AnalysisProvider)
	assert.Equal(t, ClassInvoice, res.Classification)
	assert.True(t, res.Insights.ContainsFinancialSignals)
	require.NotNil(t, res.Insights.TargetAlignment)
	assert.Equal(t, "Data Analyst", res.Insights.ResearchQuery)
	assert.Equal(t, "https://example.org/da", res.Insights.ResearchSource)
	assert.Equal(t, []string{"Interpret data for stakeholders"}, res.Insights.KeyExpectations)
	assert.Contains(t, res.Summary, "- External research: Analysts interpret data.")
	require.NoError(t, ValidateResult(res))
}

func TestAnalyzeModelResultWins(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{name: "gemini", analysis: &ai.Analysis{
		Classification:     "cv",
		Summary:            "- Strong backend engineer",
		TargetAlignment:    "Close match for platform work.",
		StrengthsForTarget: []string{"Go"},
		GapsForTarget:      []string{"Kubernetes"},
		Professions: []domain.ScoredRole{
			{Name: "Platform Engineer", Score: 100, Reason: "Go services"},
			{Name: "SRE", Score: 10, Reason: "On-call"},
		},
	}}
	embedder := &stubEmbedder{vector: []float64{0.1, 0.2}}
	e := newTestEngine(Options{}, Dependencies{Analyzer: analyzer, Embedder: embedder})

	res := e.Analyze(context.Background(), "Lorem ipsum dolor", domain.UserContext{})

	assert.Equal(t, "gemini", res.Insights.AnalysisProvider)
	assert.Equal(t, ClassCV, res.Classification)
	assert.Equal(t, "- Strong backend engineer", res.Summary)
	assert.Equal(t, []string{"Platform Engineer", "SRE"}, res.Insights.RecommendedProfessions)
	assert.Equal(t, 98, res.Insights.ProfessionScores[0].Score)
	assert.Equal(t, 55, res.Insights.ProfessionScores[1].Score)
	assert.Equal(t, "Close match for platform work.", res.Insights.AlignmentNotes)
	assert.Equal(t, []string{"Kubernetes"}, res.Insights.CVGapsForTarget)
	assert.Nil(t, res.Insights.TargetAlignment)
	assert.Empty(t, res.Insights.MissingForTop)
	assert.Equal(t, []float64{0.1, 0.2}, res.Embeddings)
	require.NoError(t, ValidateResult(res))
}

func TestAnalyzeModelWithoutProfessionsUsesPlaceholder(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{name: "openai", analysis: &ai.Analysis{Classification: "brochure", Summary: "- Not much here"}}
	e := newTestEngine(Options{}, Dependencies{Analyzer: analyzer})

	res := e.Analyze(context.Background(), backendCV, domain.UserContext{})

	assert.Equal(t, "openai", res.Insights.AnalysisProvider)
	assert.Equal(t, ClassCV, res.Classification)
	assert.Equal(t, []string{catalog.GeneralRole}, res.Insights.RecommendedProfessions)
	assert.Equal(t, 58, res.Insights.ProfessionScores[0].Score)
}

func TestAnalyzeModelCatalogRoleGetsMissingKeywords(t *testing.T) {
	t.Parallel()

	analyzer := &stubAnalyzer{name: "openai", analysis: &ai.Analysis{
		Summary:     "- Strong reporting background",
		Professions: []domain.ScoredRole{{Name: "Data Analyst", Score: 90, Reason: "SQL reporting"}},
	}}
	e := newTestEngine(Options{}, Dependencies{Analyzer: analyzer})

	res := e.Analyze(context.Background(), backendCV, domain.UserContext{Skills: "Excel"})

	assert.Equal(t, "openai", res.Insights.AnalysisProvider)
	assert.Equal(t, []string{"power bi", "tableau", "analytics", "data visualization"}, res.Insights.MissingForTop)
	require.NoError(t, ValidateResult(res))
}

func TestAnalyzeFastModeSkipsRemoteWork(t *testing.T) {
	t.Parallel()

	researcher := &stubResearcher{result: domain.ResearchResult{Query: "x", Summary: "y"}}
	analyzer := &stubAnalyzer{name: "openai", analysis: &ai.Analysis{Summary: "model"}}
	embedder := &stubEmbedder{vector: []float64{1}}
	e := newTestEngine(Options{FastMode: true}, Dependencies{Researcher: researcher, Analyzer: analyzer, Embedder: embedder})

	res := e.Analyze(context.Background(), backendCV, domain.UserContext{TargetJobTitle: "Backend"})

	assert.Zero(t, researcher.calls)
	assert.Zero(t, analyzer.calls)
	assert.Zero(t, embedder.calls)
	assert.Equal(t, ProviderHeuristic, res.Insights.AnalysisProvider)
	assert.Equal(t, []float64{}, res.Embeddings)
}

func TestAnalyzeEmbeddingFailureLeavesEmptyVector(t *testing.T) {
	t.Parallel()

	embedder := &stubEmbedder{err: errors.New("quota")}
	e := newTestEngine(Options{}, Dependencies{Embedder: embedder})

	res := e.Analyze(context.Background(), backendCV, domain.UserContext{})
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, []float64{}, res.Embeddings)
}

func TestAnalyzeIgnoresNilAnalyzer(t *testing.T) {
	t.Parallel()

	var analyzer *ai.Analyzer
	e := NewEngine(Options{}, Dependencies{Analyzer: analyzer}, nil)

	res := e.Analyze(context.Background(), backendCV, domain.UserContext{})
	assert.Equal(t, ProviderHeuristic, res.Insights.AnalysisProvider)
	_, err := uuid.Parse(res.Insights.AnalysisID)
	assert.NoError(t, err)
}

func TestAnalyzeCancelledContextStillReturnsResult(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := &stubAnalyzer{name: "openai", analysis: &ai.Analysis{Summary: "model"}}
	e := newTestEngine(Options{}, Dependencies{Analyzer: analyzer})

	res := e.Analyze(ctx, backendCV, domain.UserContext{})
	assert.Equal(t, ProviderHeuristic, res.Insights.AnalysisProvider)
	assert.Equal(t, "Software Engineer", res.Insights.RecommendedProfessions[0])
	assert.Zero(t, analyzer.calls)
}

func TestValidateResultReportsViolations(t *testing.T) {
	t.Parallel()

	err := ValidateResult(Result{Classification: "Poem"})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}
