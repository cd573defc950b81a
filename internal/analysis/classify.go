package analysis

import (
	"strings"

	"github.com/spigell/careerfit/internal/catalog"
)

// Document classes.
const (
	ClassInvoice   = "Invoice"
	ClassCV        = "CV"
	ClassContract  = "Contract"
	ClassReport    = "Report"
	ClassFinancial = "Financial document"
	ClassUnknown   = "Unknown"
)

// Classes lists every label Classify can return.
var Classes = []string{ClassInvoice, ClassCV, ClassContract, ClassReport, ClassFinancial, ClassUnknown}

const cvKeywordThreshold = 3

type marker struct {
	class   string
	phrases []string
}

// Evaluated in order; the first class with a matching phrase wins.
var markers = []marker{
	{class: ClassCV, phrases: []string{"curriculum vitae", "resume", "résumé"}},
	{class: ClassInvoice, phrases: []string{"invoice", "amount due", "bill to"}},
	{class: ClassContract, phrases: []string{"agreement", "contract", "hereinafter"}},
	{class: ClassFinancial, phrases: []string{"financial", "balance sheet", "balance", "income statement"}},
	{class: ClassReport, phrases: []string{"executive summary", "findings", "quarterly report", "annual report"}},
}

// Classify labels text with one of Classes using a keyword cascade.
func Classify(text string) string {
	content := strings.ToLower(text)
	if strings.TrimSpace(content) == "" {
		return ClassUnknown
	}

	if catalog.CountDistinct(content) >= cvKeywordThreshold {
		return ClassCV
	}

	for _, m := range markers {
		for _, phrase := range m.phrases {
			if strings.Contains(content, phrase) {
				return m.class
			}
		}
	}

	return ClassUnknown
}

// normalizeClass maps a free-form label onto Classes, or returns "".
func normalizeClass(label string) string {
	label = strings.TrimSpace(label)
	for _, c := range Classes {
		if strings.EqualFold(c, label) {
			return c
		}
	}
	return ""
}
