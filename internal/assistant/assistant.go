// Package assistant turns model completions into structured answers.
//
// Every exported method is total: when the model is unavailable, fails, or
// answers with something that does not decode, the method logs the reason
// and returns a fixed offline answer of the same shape.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/muhammadolammi/profiletracer/internal/ai"
	"github.com/muhammadolammi/profiletracer/internal/logger"
)

// MaxCertificateText bounds how much of one certificate enters a prompt.
const MaxCertificateText = 6000

// MaxJobRoles caps JobRoles results.
const MaxJobRoles = 6

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Replier produces free-text conversational replies, optionally keeping
// per-user conversation state.
type Replier interface {
	Reply(ctx context.Context, userID, prompt string) (string, error)
}

type Assistant struct {
	completer Completer
	replier   Replier
}

// New returns an Assistant. replier may be nil, in which case replies go
// through completer like every other task.
func New(completer Completer, replier Replier) *Assistant {
	return &Assistant{completer: completer, replier: replier}
}

func (a *Assistant) ExtractSkills(ctx context.Context, certs []CertificateText) SkillExtraction {
	chunks := make([]string, 0, len(certs))
	for _, c := range certs {
		chunks = append(chunks, fmt.Sprintf("# Certificate: %s\n%s", c.Name, Truncate(c.Text, MaxCertificateText)))
	}
	prompt := fmt.Sprintf(skillExtractionPrompt, strings.Join(chunks, "\n\n"))

	var out SkillExtraction
	if err := a.completeObject(ctx, "skill_extraction", prompt, &out); err != nil {
		return offlineSkillExtraction()
	}
	return out
}

// ResumeContent drafts resume sections. skills is nil when the user has no
// stored profile. Sections the model leaves empty are filled from the
// offline draft.
func (a *Assistant) ResumeContent(ctx context.Context, skills []string, user UserIdentity) ResumeContent {
	fallback := offlineResume(skills, user)

	userJSON, _ := json.Marshal(user)
	skillsJSON, _ := json.Marshal(nonNil(skills))
	prompt := fmt.Sprintf(resumePrompt, userJSON, skillsJSON)

	var out ResumeContent
	if err := a.completeObject(ctx, "resume_content", prompt, &out); err != nil {
		return fallback
	}
	if strings.TrimSpace(out.Objective) == "" {
		out.Objective = fallback.Objective
	}
	if strings.TrimSpace(out.Education) == "" {
		out.Education = fallback.Education
	}
	if len(out.Skills) == 0 {
		out.Skills = fallback.Skills
	}
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	if out.Experience == nil {
		out.Experience = []Experience{}
	}
	return out
}

// JobSuggestions returns plain job titles for skills.
func (a *Assistant) JobSuggestions(ctx context.Context, skills []string) []string {
	prompt := fmt.Sprintf(jobSuggestionsPrompt, strings.Join(skills, ", "))

	var out []string
	if err := a.completeArray(ctx, "job_suggestions", prompt, &out); err != nil || len(out) == 0 {
		return offlineJobSuggestions()
	}
	return out
}

// JobRoles returns up to MaxJobRoles described roles for skills, which may
// be empty. Entries without a title are dropped; if none remain the offline
// roles are returned.
func (a *Assistant) JobRoles(ctx context.Context, skills []string) []JobRole {
	prompt := fmt.Sprintf(jobRolesPrompt, strings.Join(skills, ", "))

	var decoded []JobRole
	if err := a.completeArray(ctx, "job_roles", prompt, &decoded); err != nil {
		return offlineJobRoles()
	}

	roles := make([]JobRole, 0, MaxJobRoles)
	for _, r := range decoded {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		roles = append(roles, r)
		if len(roles) == MaxJobRoles {
			break
		}
	}
	if len(roles) == 0 {
		return offlineJobRoles()
	}
	return roles
}

type commandAnswer struct {
	Action          *string    `json:"action"`
	Title           string     `json:"title"`
	Subject         string     `json:"subject"`
	DueDate         string     `json:"dueDate"`
	Sections        stringList `json:"sections"`
	Description     string     `json:"description"`
	AssignmentTitle string     `json:"assignmentTitle"`
}

// ParseCommand classifies message. The result is only a request; the
// dispatcher decides whether the sender may act on it.
func (a *Assistant) ParseCommand(ctx context.Context, message string) ParsedCommand {
	var ans commandAnswer
	if err := a.completeObject(ctx, "command_parse", fmt.Sprintf(commandPrompt, message), &ans); err != nil {
		return NoAction{}
	}
	if ans.Action == nil {
		return NoAction{}
	}

	switch strings.ToLower(strings.TrimSpace(*ans.Action)) {
	case "create_assignment":
		return CreateAssignment{
			Title:       strings.TrimSpace(ans.Title),
			Subject:     strings.TrimSpace(ans.Subject),
			Description: strings.TrimSpace(ans.Description),
			DueDate:     strings.TrimSpace(ans.DueDate),
			Sections:    []string(ans.Sections),
		}
	case "query_missing":
		title := strings.TrimSpace(ans.AssignmentTitle)
		if title == "" {
			return NoAction{}
		}
		return QueryMissing{AssignmentTitle: title}
	}
	return NoAction{}
}

// Reply answers message conversationally with uc embedded in the prompt.
func (a *Assistant) Reply(ctx context.Context, uc UserContext, message string) string {
	ucJSON, _ := json.Marshal(uc)
	prompt := fmt.Sprintf(chatPrompt, ucJSON, message)

	var (
		raw string
		err error
	)
	if a.replier != nil {
		raw, err = a.replier.Reply(ctx, uc.UserID, prompt)
	} else {
		raw, err = a.completer.Complete(ctx, prompt)
	}
	if err != nil {
		logFailure(ctx, "chat_reply", err)
		return offlineReply
	}
	if raw = strings.TrimSpace(raw); raw == "" {
		return offlineReply
	}
	return raw
}

func (a *Assistant) completeObject(ctx context.Context, task, prompt string, v any) error {
	raw, err := a.completer.Complete(ctx, prompt)
	if err == nil {
		err = ai.DecodeObject(raw, v)
	}
	if err != nil {
		logFailure(ctx, task, err)
	}
	return err
}

func (a *Assistant) completeArray(ctx context.Context, task, prompt string, v any) error {
	raw, err := a.completer.Complete(ctx, prompt)
	if err == nil {
		err = ai.DecodeArray(raw, v)
	}
	if err != nil {
		logFailure(ctx, task, err)
	}
	return err
}

func logFailure(ctx context.Context, task string, err error) {
	log := logger.G(ctx).WithError(err).WithField("task", task)
	if errors.Is(err, ai.ErrModelUnavailable) {
		log.Debug("model unavailable, using offline answer")
		return
	}
	log.Warn("model task failed, using offline answer")
}

// Truncate returns at most n runes of the trimmed text.
func Truncate(text string, n int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
