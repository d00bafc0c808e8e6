package assistant

import (
	"encoding/json"
	"strings"
)

// CertificateText is one certificate's extracted text, labelled with the
// name it was uploaded under.
type CertificateText struct {
	Name string
	Text string
}

type SkillExtraction struct {
	Skills  []string `json:"skills"`
	Summary string   `json:"summary"`
	Jobs    []string `json:"jobs"`
}

// UserIdentity is the part of a user record that goes into resume prompts.
type UserIdentity struct {
	Name    string `json:"name"`
	Course  string `json:"course"`
	Branch  string `json:"branch"`
	Section string `json:"section"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Experience struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

type ResumeContent struct {
	Objective  string       `json:"objective"`
	Skills     []string     `json:"skills"`
	Education  string       `json:"education"`
	Projects   []Project    `json:"projects"`
	Experience []Experience `json:"experience"`
}

// JobRole is an advisory suggestion; it is regenerated on every request.
type JobRole struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// CertificateMeta describes an uploaded certificate without its contents.
type CertificateMeta struct {
	Name            string `json:"originalName"`
	MimeType        string `json:"mimeType"`
	SkillsExtracted bool   `json:"skillsExtracted"`
	UploadedAt      string `json:"createdAt"`
}

// UserSummary is the identity block of a chat context.
type UserSummary struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	Course             string `json:"course,omitempty"`
	Branch             string `json:"branch,omitempty"`
	Section            string `json:"section,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
}

// UserContext is everything the conversational reply may personalize with.
type UserContext struct {
	UserID         string            `json:"-"`
	User           UserSummary       `json:"user"`
	Skills         []string          `json:"skills"`
	Summary        string            `json:"summary"`
	JobSuggestions []string          `json:"jobSuggestions"`
	Certificates   []CertificateMeta `json:"certificates"`
}

// ParsedCommand is the action a chat message asks for. Exactly one of
// CreateAssignment, QueryMissing and NoAction.
type ParsedCommand interface {
	isCommand()
}

type CreateAssignment struct {
	Title       string
	Subject     string
	Description string
	DueDate     string
	Sections    []string
}

type QueryMissing struct {
	AssignmentTitle string
}

type NoAction struct{}

func (CreateAssignment) isCommand() {}
func (QueryMissing) isCommand()     {}
func (NoAction) isCommand()         {}

// stringList accepts either a JSON array of strings or one comma separated
// string, which models produce interchangeably for section lists.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		items = strings.Split(joined, ",")
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	*l = out
	return nil
}
