package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Assignment struct {
	ID          uuid.UUID
	TeacherID   uuid.UUID
	Title       string
	Description string
	Subject     string
	DueDate     sql.NullTime
	Sections    []string
	CreatedAt   time.Time
}

type Certificate struct {
	ID              uuid.UUID
	StudentID       uuid.UUID
	OriginalName    string
	MimeType        string
	Path            string
	SkillsExtracted bool
	CreatedAt       time.Time
}

type SkillProfile struct {
	ID             uuid.UUID
	StudentID      uuid.UUID
	Skills         []string
	Summary        string
	JobSuggestions []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Submission struct {
	ID           uuid.UUID
	AssignmentID uuid.UUID
	StudentID    uuid.UUID
	FilePath     string
	OriginalName string
	TextContent  string
	CreatedAt    time.Time
}

type User struct {
	ID                 uuid.UUID
	Role               string
	Name               string
	Email              string
	Phone              string
	RegistrationNumber string
	Course             string
	Branch             string
	Section            string
	TeacherID          string
	Subject            string
	CreatedAt          time.Time
}
