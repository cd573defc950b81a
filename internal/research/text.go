package research

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spigell/careerfit/internal/utils"
)

var sentenceBreak = regexp.MustCompile(`(?:[.!?;])\s+|\n+|\s+[•·]\s+`)

// sentences splits free text into trimmed sentence-like phrases.
func sentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	parts := sentenceBreak.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = utils.CollapseSpaces(strings.TrimLeft(part, "-*• "))
		part = strings.TrimRight(part, ".!?;")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// htmlText returns the visible text of an HTML fragment.
func htmlText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	return utils.CollapseSpaces(doc.Text())
}
