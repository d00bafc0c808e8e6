package profile

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// SkillProfile is a student's accumulated skills and career suggestions.
type SkillProfile struct {
	OwnerID        uuid.UUID `json:"owner_id"`
	Skills         []string  `json:"skills"`
	Summary        string    `json:"summary"`
	JobSuggestions []string  `json:"job_suggestions"`
}

// NormalizeSkill trims s and collapses inner whitespace runs.
func NormalizeSkill(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SkillKey is the identity two skills are deduplicated by.
func SkillKey(s string) string {
	return cases.Fold().String(NormalizeSkill(s))
}

// Merge folds a fresh extraction into existing, which may be nil.
//
// Skills are a union: every existing entry is kept verbatim and in order,
// and a fresh skill is appended, normalized, only when no skill with the
// same key is present yet. A fresh summary or job list replaces the stored
// one only when it is non-empty.
func Merge(existing *SkillProfile, freshSkills []string, freshSummary string, freshJobs []string) SkillProfile {
	var out SkillProfile
	var prior []string
	if existing != nil {
		out.OwnerID = existing.OwnerID
		out.Summary = existing.Summary
		out.JobSuggestions = existing.JobSuggestions
		prior = existing.Skills
	}

	folder := cases.Fold() // Casers are not safe for concurrent use
	seen := make(map[string]bool, len(prior)+len(freshSkills))
	out.Skills = make([]string, 0, len(prior)+len(freshSkills))
	for _, s := range prior {
		seen[folder.String(NormalizeSkill(s))] = true
		out.Skills = append(out.Skills, s)
	}
	for _, s := range freshSkills {
		norm := NormalizeSkill(s)
		if norm == "" {
			continue
		}
		key := folder.String(norm)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Skills = append(out.Skills, norm)
	}

	if summary := strings.TrimSpace(freshSummary); summary != "" {
		out.Summary = summary
	}
	if len(freshJobs) > 0 {
		out.JobSuggestions = append([]string{}, freshJobs...)
	}
	if out.JobSuggestions == nil {
		out.JobSuggestions = []string{}
	}
	return out
}
