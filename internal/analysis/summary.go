package analysis

import (
	"fmt"
	"strings"

	"github.com/spigell/careerfit/internal/domain"
	"github.com/spigell/careerfit/internal/utils"
)

// Readiness tiers.
const (
	ReadinessHigh     = "High"
	ReadinessModerate = "Moderate"
	ReadinessEarly    = "Early-stage"
)

const maxResearchSummaryRunes = 280

// Readiness maps a display score to a readiness tier.
func Readiness(score int) string {
	switch {
	case score >= 85:
		return ReadinessHigh
	case score >= 70:
		return ReadinessModerate
	default:
		return ReadinessEarly
	}
}

// Compose renders the heuristic scoring as bullet lines. The output is never empty.
func Compose(s Scoring, user domain.UserContext, research domain.ResearchResult) string {
	user = user.Normalized()
	top := s.Top()

	lines := []string{
		fmt.Sprintf("Top match: %s (%d%%). Readiness: %s.", top.Name, top.Score, Readiness(top.Score)),
		fmt.Sprintf("Why: %s", top.Reason),
	}

	if len(s.Ranked) > 1 {
		others := make([]string, 0, len(s.Ranked)-1)
		for _, r := range s.Ranked[1:] {
			others = append(others, fmt.Sprintf("%s (%d%%)", r.Name, r.Score))
		}
		lines = append(lines, "Other matches: "+strings.Join(others, ", ")+".")
	} else {
		lines = append(lines, "Other matches: none with clear signals.")
	}

	if len(s.TransferableStrengths) > 0 {
		lines = append(lines, "Transferable strengths: "+strings.Join(s.TransferableStrengths, ", ")+".")
	} else {
		lines = append(lines, "Transferable strengths: none evidenced yet; describe how you delivered results with others.")
	}

	if len(s.MissingForTop) > 0 {
		lines = append(lines, "Missing for top role: "+strings.Join(s.MissingForTop, ", ")+".")
	} else {
		lines = append(lines, "Missing for top role: no obvious keyword gaps.")
	}

	lines = append(lines, alignmentLine(s, user))

	if len(s.ImprovementAreas) > 0 {
		lines = append(lines, "Next step: "+s.ImprovementAreas[0]+".")
	}

	if summary := strings.TrimSpace(research.Summary); summary != "" {
		lines = append(lines, "External research: "+utils.TruncateForLog(summary, maxResearchSummaryRunes))
	}
	if len(research.KeyExpectations) > 0 {
		lines = append(lines, "Key expectations: "+strings.Join(research.KeyExpectations, "; ")+".")
	}
	if source := strings.TrimSpace(research.Source); source != "" {
		lines = append(lines, "Sources: "+source)
	}

	for i, line := range lines {
		lines[i] = "- " + line
	}
	return strings.Join(lines, "\n")
}

func alignmentLine(s Scoring, user domain.UserContext) string {
	if !s.HasTarget {
		return "Target alignment: no target role provided."
	}

	label := "Target alignment"
	if user.TargetJobTitle != "" {
		label = fmt.Sprintf("Target alignment (%s)", user.TargetJobTitle)
	}

	line := fmt.Sprintf("%s: %d%% of target signals are evidenced in the CV", label, s.TargetAlignment)
	if len(s.CVGapsForTarget) > 0 {
		line += "; not yet shown: " + strings.Join(s.CVGapsForTarget, ", ")
	}
	return line + "."
}
