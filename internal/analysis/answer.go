package analysis

import (
	"strings"

	"github.com/spigell/careerfit/internal/utils"
)

const (
	answerPrefix = "Contextual answer (baseline): "
	answerWords  = 120
)

// Answer returns the baseline answer to a question about a document: the
// opening words of its text. The question does not influence the answer yet.
func Answer(text, _ string) string {
	excerpt := utils.FirstWords(text, answerWords)
	if strings.TrimSpace(excerpt) == "" {
		excerpt = emptySummary
	}
	return answerPrefix + excerpt
}
