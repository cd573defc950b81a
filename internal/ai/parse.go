package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/careerfit/internal/domain"
)

const (
	maxProfessions    = 3
	fallbackScoreTop  = 85
	fallbackScoreStep = 8
	fallbackScoreMin  = 55
	fallbackReason    = "Fallback score derived from the model's ranking."
)

// ExtractJSON returns the first JSON object found in raw. Markdown code fences
// are stripped; when the remainder is not a JSON object on its own, the text is
// scanned for the first balanced, valid brace-delimited object.
func ExtractJSON(raw string) (string, error) {
	cleaned := stripFences(raw)

	if strings.HasPrefix(cleaned, "{") && json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	for start := strings.IndexByte(cleaned, '{'); start != -1; {
		if end := matchBrace(cleaned, start); end != -1 {
			candidate := cleaned[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}
		next := strings.IndexByte(cleaned[start+1:], '{')
		if next == -1 {
			break
		}
		start += next + 1
	}

	return "", errors.New("no json object found in model response")
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// matchBrace returns the index of the brace closing the one at start, or -1.
// Braces inside JSON strings are ignored.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

type professionEntry struct {
	Name   string `mapstructure:"name"`
	Score  any    `mapstructure:"score"`
	Reason string `mapstructure:"reason"`
}

// ParseAnalysis turns a raw model answer into a normalised Analysis.
func ParseAnalysis(raw string) (*Analysis, error) {
	cleaned, err := ExtractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAnalysis, err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: parse model response: %v", ErrNoAnalysis, err)
	}

	analysis := &Analysis{
		Classification:     coerceString(data["classification"]),
		Summary:            coerceSummary(data["summary"]),
		TargetAlignment:    coerceString(data["target_alignment"]),
		StrengthsForTarget: coerceStringList(data["cv_strengths_for_target"]),
		GapsForTarget:      coerceStringList(data["cv_gaps_for_target"]),
	}

	analysis.Professions = normalizeProfessions(
		coerceStringList(data["recommended_professions"]),
		decodeProfessionScores(data["profession_scores"]),
	)

	if analysis.Summary == "" {
		return nil, fmt.Errorf("%w: model response has no summary", ErrNoAnalysis)
	}

	return analysis, nil
}

func decodeProfessionScores(v any) []domain.ScoredRole {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	roles := make([]domain.ScoredRole, 0, len(items))
	for _, item := range items {
		var entry professionEntry
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &entry,
		})
		if err != nil {
			continue
		}
		if err := decoder.Decode(item); err != nil {
			continue
		}

		name := strings.TrimSpace(entry.Name)
		score := coerceFloat(entry.Score)
		if name == "" || math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}

		roles = append(roles, domain.ScoredRole{
			Name:   name,
			Score:  clampScore(score),
			Reason: strings.TrimSpace(entry.Reason),
		})
	}
	return roles
}

func normalizeProfessions(names []string, scored []domain.ScoredRole) []domain.ScoredRole {
	if len(scored) > 0 {
		if len(scored) > maxProfessions {
			scored = scored[:maxProfessions]
		}
		return scored
	}

	if len(names) > maxProfessions {
		names = names[:maxProfessions]
	}

	roles := make([]domain.ScoredRole, 0, len(names))
	for i, name := range names {
		score := fallbackScoreTop - i*fallbackScoreStep
		if score < fallbackScoreMin {
			score = fallbackScoreMin
		}
		roles = append(roles, domain.ScoredRole{Name: name, Score: score, Reason: fallbackReason})
	}
	return roles
}

func clampScore(v float64) int {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

func coerceSummary(v any) string {
	if list, ok := v.([]any); ok {
		lines := make([]string, 0, len(list))
		for _, item := range coerceStringList(list) {
			if !strings.HasPrefix(item, "-") && !strings.HasPrefix(item, "•") {
				item = "- " + item
			}
			lines = append(lines, item)
		}
		return strings.Join(lines, "\n")
	}
	return coerceString(v)
}

func coerceStringList(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
	}
	return []string{}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
