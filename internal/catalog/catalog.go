// Package catalog contains the static role profiles used for keyword scoring.
// The data is built once at package init and never mutated; accessors hand out
// copies so callers cannot change it.
package catalog

import "strings"

// GeneralRole is the placeholder recommended when no profile matches.
const GeneralRole = "General Professional Role"

// Profile is a named role with its lowercase indicator phrases.
type Profile struct {
	Name     string
	Keywords []string
}

// SoftSkill is a transferable strength category and the phrases that evidence it.
type SoftSkill struct {
	Label      string
	Indicators []string
}

var profiles = []Profile{
	{Name: "Software Engineer", Keywords: []string{"python", "java", "javascript", "typescript", "react", "node", "api", "git", "backend", "c++", "microservices", "golang"}},
	{Name: "Data Analyst", Keywords: []string{"sql", "excel", "power bi", "tableau", "analytics", "reporting", "dashboard", "data visualization"}},
	{Name: "Data Scientist", Keywords: []string{"machine learning", "tensorflow", "pytorch", "statistics", "pandas", "scikit-learn", "deep learning", "nlp"}},
	{Name: "DevOps Engineer", Keywords: []string{"kubernetes", "terraform", "ci/cd", "aws", "docker", "linux", "monitoring", "ansible"}},
	{Name: "Electrical Engineer", Keywords: []string{"electrical", "circuit", "power systems", "autocad", "plc", "renewable"}},
	{Name: "Mechanical Engineer", Keywords: []string{"mechanical", "solidworks", "manufacturing", "thermodynamics", "cad design"}},
	{Name: "Civil Engineer", Keywords: []string{"civil", "structural", "construction", "surveying", "autocad", "infrastructure"}},
	{Name: "Project Manager", Keywords: []string{"project management", "pmp", "scrum", "stakeholder", "risk management", "roadmap"}},
	{Name: "Marketing Specialist", Keywords: []string{"marketing", "seo", "campaign", "branding", "social media", "content strategy"}},
	{Name: "Financial Analyst", Keywords: []string{"finance", "accounting", "budget", "forecast", "valuation", "financial modeling"}},
	{Name: "Healthcare Professional", Keywords: []string{"patient", "clinical", "healthcare", "nursing", "medical"}},
	{Name: "Teacher / Educator", Keywords: []string{"teaching", "curriculum", "classroom", "education", "lesson planning"}},
	{Name: "Operations Specialist", Keywords: []string{"operations", "supply chain", "logistics", "process improvement", "inventory"}},
	{Name: "UX/UI Designer", Keywords: []string{"figma", "wireframe", "prototyping", "user research", "usability", "sketch"}},
	{Name: "Sales Representative", Keywords: []string{"sales", "crm", "lead generation", "negotiation", "quota", "account management"}},
	{Name: "Human Resources Specialist", Keywords: []string{"recruitment", "onboarding", "talent acquisition", "employee relations", "payroll", "human resources"}},
	{Name: "Cybersecurity Analyst", Keywords: []string{"security", "penetration testing", "siem", "firewall", "vulnerability", "incident response"}},
}

var softSkills = []SoftSkill{
	{Label: "Communication", Indicators: []string{"communication", "presentation", "presented", "public speaking", "documentation"}},
	{Label: "Leadership", Indicators: []string{"leadership", "mentored", "mentoring", "team lead", "supervised", "managed a team"}},
	{Label: "Delivery", Indicators: []string{"delivered", "built", "launched", "shipped", "implemented"}},
	{Label: "Analytics", Indicators: []string{"analyzed", "analysis", "data-driven", "metrics", "insights"}},
	{Label: "Collaboration", Indicators: []string{"collaborated", "cross-functional", "teamwork", "partnered", "collaboration"}},
}

var (
	byName      = indexProfiles(profiles)
	allKeywords = distinctKeywords(profiles)
)

func indexProfiles(list []Profile) map[string]int {
	idx := make(map[string]int, len(list))
	for i, p := range list {
		idx[p.Name] = i
	}
	return idx
}

func distinctKeywords(list []Profile) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range list {
		for _, kw := range p.Keywords {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}

// Profiles returns the catalog in its fixed order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = Profile{Name: p.Name, Keywords: append([]string(nil), p.Keywords...)}
	}
	return out
}

// Lookup returns the profile with the given name.
func Lookup(name string) (Profile, bool) {
	i, ok := byName[name]
	if !ok {
		return Profile{}, false
	}
	p := profiles[i]
	return Profile{Name: p.Name, Keywords: append([]string(nil), p.Keywords...)}, true
}

// Keywords returns every distinct keyword of the catalog in first-seen order.
func Keywords() []string {
	return append([]string(nil), allKeywords...)
}

// SoftSkills returns the transferable strength categories in their fixed order.
func SoftSkills() []SoftSkill {
	out := make([]SoftSkill, len(softSkills))
	for i, s := range softSkills {
		out[i] = SoftSkill{Label: s.Label, Indicators: append([]string(nil), s.Indicators...)}
	}
	return out
}

// Matches returns the keywords of p that occur in text. text must already be lowercase.
func (p Profile) Matches(text string) []string {
	return matchAll(p.Keywords, text)
}

// CountDistinct reports how many catalog keywords occur in text. text must already be lowercase.
func CountDistinct(text string) int {
	return len(matchAll(allKeywords, text))
}

func matchAll(keywords []string, text string) []string {
	if text == "" {
		return nil
	}
	var hits []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}
