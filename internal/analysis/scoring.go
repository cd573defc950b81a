package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spigell/careerfit/internal/catalog"
	"github.com/spigell/careerfit/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Keyword weights. Stated intent outweighs incidental CV phrasing.
const (
	cvWeight     = 14
	targetWeight = 16
	skillWeight  = 12
)

const (
	maxRanked           = 3
	placeholderScore    = 58
	displayBase         = 58
	displaySpan         = 39
	displayMin          = 55
	displayMax          = 98
	maxMissing          = 6
	maxImprovementAreas = 4
	maxReasonSignals    = 4
)

const placeholderReason = "Insufficient explicit domain signals in the CV text."

var defaultImprovementAreas = []string{
	"Add measurable project outcomes to the CV",
	"Include certifications or proof of practical experience",
	"Highlight role-specific tools and responsibilities",
}

// Scoring is the heuristic role ranking for one document.
type Scoring struct {
	Ranked                []domain.ScoredRole
	MissingForTop         []string
	TransferableStrengths []string
	DetectedSkills        []string
	ImprovementAreas      []string

	// Target fields are meaningful only when HasTarget is set.
	HasTarget            bool
	TargetAlignment      int
	CVStrengthsForTarget []string
	CVGapsForTarget      []string
}

// Top returns the best ranked role. Ranked is never empty for a Scoring built by Score.
func (s Scoring) Top() domain.ScoredRole {
	if len(s.Ranked) == 0 {
		return placeholderRole()
	}
	return s.Ranked[0]
}

type roleMatch struct {
	profile    catalog.Profile
	cvHits     []string
	targetHits []string
	skillHits  []string
	raw        int
}

// Score ranks the catalog roles against cvText and the user's context.
func Score(cvText string, user domain.UserContext) Scoring {
	cv := strings.ToLower(cvText)
	user = user.Normalized()

	result := Scoring{
		TransferableStrengths: transferableStrengths(cv),
		DetectedSkills:        detectedSkills(cv),
		HasTarget:             user.HasTarget(),
	}

	matches := matchRoles(cv, user)
	if len(matches) == 0 {
		result.Ranked = []domain.ScoredRole{placeholderRole()}
		result.ImprovementAreas = append([]string(nil), defaultImprovementAreas...)
		return result
	}

	top := matches
	if len(top) > maxRanked {
		top = top[:maxRanked]
	}

	maxRaw := top[0].raw
	for _, m := range top {
		result.Ranked = append(result.Ranked, domain.ScoredRole{
			Name:   m.profile.Name,
			Score:  displayScore(m.raw, maxRaw),
			Reason: reason(m),
		})
	}

	best := top[0]
	result.MissingForTop = missingKeywords(best)
	result.ImprovementAreas = improvementAreas(result.MissingForTop)

	if result.HasTarget {
		result.CVStrengthsForTarget = intersect(best.targetHits, best.cvHits)
		result.CVGapsForTarget = subtract(best.targetHits, best.cvHits)
		if len(best.targetHits) > 0 {
			ratio := float64(len(result.CVStrengthsForTarget)) / float64(len(best.targetHits))
			result.TargetAlignment = int(math.Round(ratio * 100))
		}
	}

	return result
}

// matchRoles returns every role with a positive raw score, best first. Ties
// keep catalog order.
func matchRoles(cv string, user domain.UserContext) []roleMatch {
	target := user.TargetBlob()
	skills := strings.ToLower(user.Skills)

	var matches []roleMatch
	for _, p := range catalog.Profiles() {
		m := roleMatch{
			profile:    p,
			cvHits:     p.Matches(cv),
			targetHits: p.Matches(target),
			skillHits:  p.Matches(skills),
		}
		m.raw = cvWeight*len(m.cvHits) + targetWeight*len(m.targetHits) + skillWeight*len(m.skillHits)
		if m.raw > 0 {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].raw > matches[j].raw
	})
	return matches
}

// displayScore maps a raw score onto the bounded display range relative to the best raw score.
func displayScore(raw, maxRaw int) int {
	if maxRaw <= 0 {
		return placeholderScore
	}
	return clampDisplay(int(displayBase + float64(raw)/float64(maxRaw)*displaySpan))
}

func clampDisplay(score int) int {
	if score < displayMin {
		return displayMin
	}
	if score > displayMax {
		return displayMax
	}
	return score
}

func placeholderRole() domain.ScoredRole {
	return domain.ScoredRole{Name: catalog.GeneralRole, Score: placeholderScore, Reason: placeholderReason}
}

func reason(m roleMatch) string {
	var parts []string
	if len(m.cvHits) > 0 {
		parts = append(parts, "Matched CV signals: "+strings.Join(head(m.cvHits, maxReasonSignals), ", "))
	} else {
		parts = append(parts, "No direct CV evidence")
	}
	if len(m.targetHits) > 0 {
		parts = append(parts, "target signals: "+strings.Join(head(m.targetHits, maxReasonSignals), ", "))
	}
	if len(m.skillHits) > 0 {
		parts = append(parts, "declared skills: "+strings.Join(head(m.skillHits, maxReasonSignals), ", "))
	}
	return strings.Join(parts, "; ")
}

func missingKeywords(m roleMatch) []string {
	have := make(map[string]struct{}, len(m.cvHits)+len(m.skillHits))
	for _, kw := range m.cvHits {
		have[kw] = struct{}{}
	}
	for _, kw := range m.skillHits {
		have[kw] = struct{}{}
	}

	missing := []string{}
	for _, kw := range m.profile.Keywords {
		if _, ok := have[kw]; ok {
			continue
		}
		missing = append(missing, kw)
		if len(missing) == maxMissing {
			break
		}
	}
	return missing
}

func improvementAreas(missing []string) []string {
	if len(missing) == 0 {
		return append([]string(nil), defaultImprovementAreas...)
	}

	title := cases.Title(language.English)
	areas := make([]string, 0, maxImprovementAreas)
	for _, kw := range head(missing, maxImprovementAreas) {
		areas = append(areas, fmt.Sprintf("Build evidence of %s", title.String(kw)))
	}
	return areas
}

func transferableStrengths(cv string) []string {
	strengths := []string{}
	for _, skill := range catalog.SoftSkills() {
		for _, indicator := range skill.Indicators {
			if strings.Contains(cv, indicator) {
				strengths = append(strengths, skill.Label)
				break
			}
		}
	}
	return strengths
}

func detectedSkills(cv string) []string {
	found := []string{}
	for _, kw := range catalog.Keywords() {
		if strings.Contains(cv, kw) {
			found = append(found, kw)
		}
	}
	sort.Strings(found)
	return found
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := []string{}
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func subtract(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := []string{}
	for _, v := range a {
		if _, ok := set[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
