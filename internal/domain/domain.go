// Package domain holds the value types shared by the analysis pipeline.
package domain

import "strings"

// Entity types emitted by the pattern scanner.
const (
	EntityEmail = "EMAIL"
	EntityPhone = "PHONE"
	EntityLink  = "LINK"
)

// UserContext is optional free text describing what the user wants. Every field may be empty.
type UserContext struct {
	Skills               string `json:"skills,omitempty" mapstructure:"skills"`
	Profession           string `json:"profession,omitempty" mapstructure:"profession"`
	Interests            string `json:"interests,omitempty" mapstructure:"interests"`
	TargetJobTitle       string `json:"target_job_title,omitempty" mapstructure:"target-job-title"`
	TargetJobDescription string `json:"target_job_description,omitempty" mapstructure:"target-job-description"`
}

// Normalized trims every field and lets Profession fall back to Interests.
func (u UserContext) Normalized() UserContext {
	out := UserContext{
		Skills:               strings.TrimSpace(u.Skills),
		Profession:           strings.TrimSpace(u.Profession),
		Interests:            strings.TrimSpace(u.Interests),
		TargetJobTitle:       strings.TrimSpace(u.TargetJobTitle),
		TargetJobDescription: strings.TrimSpace(u.TargetJobDescription),
	}
	if out.Profession == "" {
		out.Profession = out.Interests
	}
	return out
}

// TargetBlob concatenates all context fields into one lowercase matching text.
func (u UserContext) TargetBlob() string {
	n := u.Normalized()
	parts := []string{n.Skills, n.Profession, n.Interests, n.TargetJobTitle, n.TargetJobDescription}
	return strings.ToLower(strings.Join(parts, " "))
}

// HasTarget reports whether any context text was supplied.
func (u UserContext) HasTarget() bool {
	return strings.TrimSpace(u.TargetBlob()) != ""
}

// Entity is a piece of contact or identity text found in a document.
type Entity struct {
	Text  string  `json:"text"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// ScoredRole is one ranked role recommendation.
type ScoredRole struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// ResearchResult carries externally fetched role-description text.
type ResearchResult struct {
	Query           string   `json:"query"`
	Summary         string   `json:"summary"`
	Source          string   `json:"source"`
	KeyExpectations []string `json:"key_expectations"`
}

// IsEmpty reports whether the research produced nothing usable.
func (r ResearchResult) IsEmpty() bool {
	return strings.TrimSpace(r.Summary) == "" && len(r.KeyExpectations) == 0
}
