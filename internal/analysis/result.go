package analysis

import (
	"strings"

	"github.com/spigell/careerfit/internal/domain"
)

// ProviderHeuristic tags results produced by keyword scoring.
const ProviderHeuristic = "heuristic"

// Result is the complete analysis of one document. The caller owns persisting it.
type Result struct {
	Summary        string          `json:"summary"`
	Classification string          `json:"classification"`
	Entities       []domain.Entity `json:"entities"`
	Embeddings     []float64       `json:"embeddings"`
	Insights       Insights        `json:"insights"`
}

// Insights carries the derived signals. The first five fields and
// AnalysisProvider are always set; the rest depend on the path that ran.
type Insights struct {
	WordCount                int                 `json:"word_count"`
	EntityCount              int                 `json:"entity_count"`
	ContainsFinancialSignals bool                `json:"contains_financial_signals"`
	RecommendedProfessions   []string            `json:"recommended_professions"`
	ProfessionScores         []domain.ScoredRole `json:"profession_scores"`

	TargetAlignment       *int     `json:"target_alignment,omitempty"`
	AlignmentNotes        string   `json:"alignment_notes,omitempty"`
	CVStrengthsForTarget  []string `json:"cv_strengths_for_target,omitempty"`
	CVGapsForTarget       []string `json:"cv_gaps_for_target,omitempty"`
	TransferableStrengths []string `json:"transferable_strengths,omitempty"`
	MissingForTop         []string `json:"missing_for_top,omitempty"`
	DetectedSkills        []string `json:"detected_skills,omitempty"`
	ImprovementAreas      []string `json:"improvement_areas,omitempty"`

	ResearchQuery   string   `json:"research_query,omitempty"`
	ResearchSource  string   `json:"research_source,omitempty"`
	KeyExpectations []string `json:"key_expectations,omitempty"`

	AnalysisProvider string `json:"analysis_provider"`
	AnalysisID       string `json:"analysis_id,omitempty"`
}

func (i *Insights) setProfessions(roles []domain.ScoredRole) {
	if len(roles) > maxRanked {
		roles = roles[:maxRanked]
	}
	i.ProfessionScores = make([]domain.ScoredRole, 0, len(roles))
	i.RecommendedProfessions = make([]string, 0, len(roles))
	for _, r := range roles {
		r.Score = clampDisplay(r.Score)
		i.ProfessionScores = append(i.ProfessionScores, r)
		i.RecommendedProfessions = append(i.RecommendedProfessions, r.Name)
	}
}

func (i *Insights) setResearch(r domain.ResearchResult) {
	if r.IsEmpty() {
		return
	}
	i.ResearchQuery = r.Query
	i.ResearchSource = r.Source
	i.KeyExpectations = r.KeyExpectations
}

var currencyMarks = []string{"$", "€", "£"}

func containsFinancialSignals(text string) bool {
	for _, token := range strings.Fields(text) {
		for _, mark := range currencyMarks {
			if strings.Contains(token, mark) {
				return true
			}
		}
	}
	return false
}
