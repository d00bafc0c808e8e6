package profile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMerge_NormalizesAndDedupes(t *testing.T) {
	got := Merge(nil, []string{"Python", " python ", "PYTHON"}, "", nil)

	assert.Equal(t, []string{"Python"}, got.Skills)
}

func TestMerge_Table(t *testing.T) {
	owner := uuid.New()
	existing := &SkillProfile{
		OwnerID:        owner,
		Skills:         []string{"Go", "Machine Learning"},
		Summary:        "Backend focused.",
		JobSuggestions: []string{"Backend Engineer"},
	}

	tests := []struct {
		name     string
		existing *SkillProfile
		skills   []string
		summary  string
		jobs     []string
		expected SkillProfile
	}{
		{
			name:     "first extraction",
			existing: nil,
			skills:   []string{" SQL", "", "   ", "Docker  Compose"},
			summary:  " Data person. ",
			jobs:     []string{"Analyst"},
			expected: SkillProfile{Skills: []string{"SQL", "Docker Compose"}, Summary: "Data person.", JobSuggestions: []string{"Analyst"}},
		},
		{
			name:     "union keeps existing spelling first",
			existing: existing,
			skills:   []string{"GO", "machine   learning", "Kubernetes"},
			summary:  "Cloud focused.",
			jobs:     []string{"SRE", "Platform Engineer"},
			expected: SkillProfile{
				OwnerID:        owner,
				Skills:         []string{"Go", "Machine Learning", "Kubernetes"},
				Summary:        "Cloud focused.",
				JobSuggestions: []string{"SRE", "Platform Engineer"},
			},
		},
		{
			name:     "empty extraction never shrinks",
			existing: existing,
			expected: SkillProfile{
				OwnerID:        owner,
				Skills:         []string{"Go", "Machine Learning"},
				Summary:        "Backend focused.",
				JobSuggestions: []string{"Backend Engineer"},
			},
		},
		{
			name:     "nothing anywhere",
			existing: nil,
			expected: SkillProfile{Skills: []string{}, JobSuggestions: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Merge(tt.existing, tt.skills, tt.summary, tt.jobs))
		})
	}
}

func TestMerge_Monotonic(t *testing.T) {
	priors := [][]string{
		{},
		{"Go"},
		{"Go", "SQL", "Docker", "Communication"},
		{"Python", "python", " ", "Machine  Learning"},
	}
	freshes := [][]string{
		nil,
		{"go"},
		{"OCR n0ise", "Docker"},
		{"Rust", "Zig", "sql"},
	}

	for _, prior := range priors {
		for _, fresh := range freshes {
			p := &SkillProfile{Skills: prior}
			got := Merge(p, fresh, "", nil)
			assert.GreaterOrEqual(t, len(got.Skills), len(prior), "prior=%v fresh=%v", prior, fresh)
			for _, s := range prior {
				assert.Contains(t, got.Skills, s)
			}
		}
	}
}

func TestMerge_KeepsExistingEntries(t *testing.T) {
	p := &SkillProfile{Skills: []string{"Python", "python", " "}}

	got := Merge(p, nil, "", nil)
	assert.Equal(t, []string{"Python", "python", " "}, got.Skills)

	got = Merge(p, []string{"PYTHON", "", "Go"}, "", nil)
	assert.Equal(t, []string{"Python", "python", " ", "Go"}, got.Skills)
}

func TestMerge_Idempotent(t *testing.T) {
	fresh := []string{"Go", "Kubernetes", " kubernetes", "Terraform"}
	start := &SkillProfile{Skills: []string{"Go", "SQL"}}

	once := Merge(start, fresh, "s", []string{"SRE"})
	twice := Merge(&once, fresh, "s", []string{"SRE"})

	assert.Equal(t, once.Skills, twice.Skills)
	assert.Equal(t, []string{"Go", "SQL", "Kubernetes", "Terraform"}, twice.Skills)
}

func TestSkillKey(t *testing.T) {
	assert.Equal(t, SkillKey("Machine Learning"), SkillKey("  machine\tLEARNING "))
	assert.NotEqual(t, SkillKey("Go"), SkillKey("Golang"))
}
