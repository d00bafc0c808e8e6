package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/profiletracer/internal/assistant"
	"github.com/muhammadolammi/profiletracer/internal/command"
	"github.com/muhammadolammi/profiletracer/internal/database"
	"github.com/muhammadolammi/profiletracer/internal/profile"
)

const (
	jobsQueue      = "profile_jobs"
	updateExchange = "profile_updates"
)

const (
	JobExtractProfile = "extract_profile"
	JobChat           = "chat"
	JobRoles          = "job_roles"
	JobSuggestions    = "job_suggestions"
	JobResumeContent  = "resume_content"
	JobModelStatus    = "model_status"
	JobResetChat      = "reset_chat"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type ProfileBuilder interface {
	Rebuild(ctx context.Context, ownerID uuid.UUID) (profile.SkillProfile, error)
}

type ChatDispatcher interface {
	Chat(ctx context.Context, userID uuid.UUID, message string) (command.Result, error)
}

type Advisor interface {
	JobRoles(ctx context.Context, skills []string) []assistant.JobRole
	JobSuggestions(ctx context.Context, skills []string) []string
	ResumeContent(ctx context.Context, skills []string, user assistant.UserIdentity) assistant.ResumeContent
}

type ModelChecker interface {
	Available(ctx context.Context, timeout time.Duration) bool
}

type ConversationResetter interface {
	Reset(ctx context.Context, userID string) error
}

type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (database.User, error)
	GetSkillProfile(ctx context.Context, studentID uuid.UUID) (database.SkillProfile, error)
}

type WorkerConfig struct {
	DB                UserStore
	Profiles          ProfileBuilder
	Dispatcher        ChatDispatcher
	Advisor           Advisor
	Models            ModelChecker
	Mascot            ConversationResetter // nil without a model credential
	ModelCheckTimeout time.Duration

	RabbitConn  *amqp.Connection
	RABBITMQUrl string
	// Publish overrides how updates are sent; nil publishes on RabbitConn.
	Publish func(JobUpdate) error
}

// Job is one request read from the jobs queue.
type Job struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	UserID    uuid.UUID `json:"user_id"`
	Message   string    `json:"message,omitempty"`
	Skills    []string  `json:"skills,omitempty"`
	TimeoutMS int       `json:"timeout_ms,omitempty"`
}

// JobUpdate is published for every status change of a job.
type JobUpdate struct {
	JobID     uuid.UUID `json:"job_id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Result    any       `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type JobRolesResult struct {
	Jobs []assistant.JobRole `json:"jobs"`
}

type JobSuggestionsResult struct {
	JobSuggestions []string `json:"jobSuggestions"`
}

type ModelStatusResult struct {
	AIAvailable bool `json:"aiAvailable"`
}
