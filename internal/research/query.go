package research

import (
	"strings"

	"github.com/spigell/careerfit/internal/domain"
	"github.com/spigell/careerfit/internal/utils"
)

const maxQueryRunes = 80

// Query returns the lookup query for user: the target job title when set,
// otherwise the start of the target job description cut at a word boundary.
func Query(user domain.UserContext) string {
	if title := utils.CollapseSpaces(user.TargetJobTitle); title != "" {
		return title
	}

	desc := utils.CollapseSpaces(user.TargetJobDescription)
	if desc == "" {
		return ""
	}

	runes := []rune(desc)
	if len(runes) <= maxQueryRunes {
		return desc
	}

	cut := string(runes[:maxQueryRunes])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:-")
}
