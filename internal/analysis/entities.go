package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spigell/careerfit/internal/domain"
)

const (
	patternScore   = 0.95
	minPhoneDigits = 8
	maxPhoneDigits = 15
)

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?\(?\d[\d \t().-]{6,}\d`)
	profilePattern  = regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/in/[A-Za-z0-9_%-]+/?`)
	yearSpanPattern = regexp.MustCompile(`^(?:19|20)\d{2}\s*[-.]\s*(?:19|20)\d{2}$`)
	datePattern     = regexp.MustCompile(`^\d{1,2}[./-]\d{1,2}[./-]\d{4}$`)
)

// ScanEntities returns at most one email, phone and profile link, in that order.
func ScanEntities(text string) []domain.Entity {
	entities := make([]domain.Entity, 0, 3)

	if email := emailPattern.FindString(text); email != "" {
		entities = append(entities, domain.Entity{Text: email, Type: domain.EntityEmail, Score: patternScore})
	}

	if phone := findPhone(withoutAddresses(text)); phone != "" {
		entities = append(entities, domain.Entity{Text: phone, Type: domain.EntityPhone, Score: patternScore})
	}

	if link := profilePattern.FindString(text); link != "" {
		entities = append(entities, domain.Entity{Text: link, Type: domain.EntityLink, Score: patternScore})
	}

	return entities
}

// withoutAddresses blanks out emails and profile links so their digits are not read as phone numbers.
func withoutAddresses(text string) string {
	text = emailPattern.ReplaceAllString(text, " ")
	return profilePattern.ReplaceAllString(text, " ")
}

func findPhone(text string) string {
	for _, candidate := range phonePattern.FindAllString(text, -1) {
		candidate = strings.TrimSpace(candidate)
		digits := countDigits(candidate)
		if digits < minPhoneDigits || digits > maxPhoneDigits {
			continue
		}
		if yearSpanPattern.MatchString(candidate) || datePattern.MatchString(candidate) {
			continue
		}
		return candidate
	}
	return ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
