// Package command executes the actions a chat message asks for.
package command

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/muhammadolammi/profiletracer/internal/assistant"
	"github.com/muhammadolammi/profiletracer/internal/database"
	"github.com/muhammadolammi/profiletracer/internal/logger"
)

const (
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"

	defaultTitle   = "Untitled Assignment"
	defaultSubject = "General"
)

var (
	ErrForbidden    = errors.New("only teachers can create assignments")
	ErrEmptyMessage = errors.New("message required")
)

// Actor is the user a command runs as. Role is asserted by the caller.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsTeacher() bool {
	return a.Role == RoleTeacher
}

type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (database.User, error)
	GetSkillProfile(ctx context.Context, studentID uuid.UUID) (database.SkillProfile, error)
	GetCertificatesByStudent(ctx context.Context, studentID uuid.UUID) ([]database.Certificate, error)
	CreateAssignment(ctx context.Context, arg database.CreateAssignmentParams) (database.Assignment, error)
	FindTeacherAssignmentByTitle(ctx context.Context, arg database.FindTeacherAssignmentByTitleParams) (database.Assignment, error)
	ListStudents(ctx context.Context) ([]database.User, error)
	ListStudentsInSections(ctx context.Context, sections []string) ([]database.User, error)
	ListSubmittedStudentIDs(ctx context.Context, assignmentID uuid.UUID) ([]uuid.UUID, error)
}

type Assistant interface {
	ParseCommand(ctx context.Context, message string) assistant.ParsedCommand
	Reply(ctx context.Context, uc assistant.UserContext, message string) string
}

type Assignment struct {
	ID          uuid.UUID  `json:"id"`
	TeacherID   uuid.UUID  `json:"teacher"`
	Title       string     `json:"title"`
	Subject     string     `json:"subject"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Sections    []string   `json:"sections"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type MissingStudent struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	RegNo string    `json:"regNo"`
}

// Result is what a chat message produced. Only Reply is always set.
type Result struct {
	Reply             string           `json:"reply"`
	CreatedAssignment *Assignment      `json:"createdAssignment,omitempty"`
	Missing           []MissingStudent `json:"missing,omitempty"`
	AssignmentID      *uuid.UUID       `json:"assignmentId,omitempty"`
}

// MarshalJSON always writes missing on a missing-submissions answer, as an
// empty list when everyone submitted.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	if r.AssignmentID == nil {
		return json.Marshal(plain(r))
	}
	missing := r.Missing
	if missing == nil {
		missing = []MissingStudent{}
	}
	return json.Marshal(struct {
		plain
		Missing []MissingStudent `json:"missing"`
	}{plain(r), missing})
}

type Dispatcher struct {
	store     Store
	assistant Assistant
}

func NewDispatcher(store Store, a Assistant) *Dispatcher {
	return &Dispatcher{store: store, assistant: a}
}

// Chat parses message on behalf of userID and dispatches the result.
func (d *Dispatcher) Chat(ctx context.Context, userID uuid.UUID, message string) (Result, error) {
	if strings.TrimSpace(message) == "" {
		return Result{}, ErrEmptyMessage
	}

	actor := Actor{ID: userID}
	user, err := d.store.GetUser(ctx, userID)
	switch {
	case err == nil:
		actor.Role = user.Role
	case errors.Is(err, sql.ErrNoRows):
		logger.G(ctx).WithField("user_id", userID).Warn("chat from unknown user")
	default:
		return Result{}, errors.Wrapf(err, "error getting user %s", userID)
	}

	cmd := d.assistant.ParseCommand(ctx, message)
	return d.dispatch(ctx, actor, &user, cmd, message)
}

// Dispatch runs cmd as actor. message is only used for conversational
// replies.
func (d *Dispatcher) Dispatch(ctx context.Context, actor Actor, cmd assistant.ParsedCommand, message string) (Result, error) {
	return d.dispatch(ctx, actor, nil, cmd, message)
}

// dispatch takes the actor's already loaded user record, if any.
func (d *Dispatcher) dispatch(ctx context.Context, actor Actor, user *database.User, cmd assistant.ParsedCommand, message string) (Result, error) {
	ctx = logger.WithFields(ctx, logrus.Fields{"actor_id": actor.ID, "role": actor.Role})

	switch c := cmd.(type) {
	case assistant.CreateAssignment:
		return d.createAssignment(ctx, actor, c)
	case assistant.QueryMissing:
		return d.queryMissing(ctx, actor, c)
	default:
		uc, err := d.userContext(ctx, actor.ID, user)
		if err != nil {
			return Result{}, err
		}
		return Result{Reply: d.assistant.Reply(ctx, uc, message)}, nil
	}
}

func (d *Dispatcher) createAssignment(ctx context.Context, actor Actor, c assistant.CreateAssignment) (Result, error) {
	if !actor.IsTeacher() {
		logger.G(ctx).Warn("rejected create_assignment from non-teacher")
		return Result{}, ErrForbidden
	}

	params := database.CreateAssignmentParams{
		TeacherID:   actor.ID,
		Title:       orDefault(c.Title, defaultTitle),
		Subject:     orDefault(c.Subject, defaultSubject),
		Description: strings.TrimSpace(c.Description),
		DueDate:     parseDueDate(c.DueDate),
		Sections:    c.Sections,
	}
	if params.Sections == nil {
		params.Sections = []string{}
	}

	created, err := d.store.CreateAssignment(ctx, params)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to create assignment")
	}
	logger.G(ctx).WithField("assignment_id", created.ID).Info("assignment created from chat")

	view := toAssignment(created)
	return Result{
		Reply:             fmt.Sprintf("Assignment \"%s\" created successfully.", created.Title),
		CreatedAssignment: &view,
	}, nil
}

func (d *Dispatcher) queryMissing(ctx context.Context, actor Actor, c assistant.QueryMissing) (Result, error) {
	assignment, err := d.store.FindTeacherAssignmentByTitle(ctx, database.FindTeacherAssignmentByTitleParams{
		TeacherID: actor.ID,
		Title:     database.EscapeLike(c.AssignmentTitle),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Result{Reply: fmt.Sprintf("I couldn't find an assignment matching \"%s\".", c.AssignmentTitle)}, nil
	}
	if err != nil {
		return Result{}, errors.Wrap(err, "error finding assignment")
	}

	var students []database.User
	if len(assignment.Sections) > 0 {
		students, err = d.store.ListStudentsInSections(ctx, assignment.Sections)
	} else {
		students, err = d.store.ListStudents(ctx)
	}
	if err != nil {
		return Result{}, errors.Wrap(err, "error listing students")
	}

	submitted, err := d.store.ListSubmittedStudentIDs(ctx, assignment.ID)
	if err != nil {
		return Result{}, errors.Wrap(err, "error listing submissions")
	}

	missing := MissingStudents(students, submitted)
	logger.G(ctx).WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"students":      len(students),
		"missing":       len(missing),
	}).Info("computed missing submissions")

	id := assignment.ID
	return Result{
		Reply:        fmt.Sprintf("Found %d students who have not submitted \"%s\".", len(missing), assignment.Title),
		Missing:      missing,
		AssignmentID: &id,
	}, nil
}

// MissingStudents returns the students whose id is not in submitted, in
// the order given.
func MissingStudents(students []database.User, submitted []uuid.UUID) []MissingStudent {
	done := make(map[uuid.UUID]struct{}, len(submitted))
	for _, id := range submitted {
		done[id] = struct{}{}
	}

	missing := make([]MissingStudent, 0, len(students))
	for _, s := range students {
		if _, ok := done[s.ID]; ok {
			continue
		}
		missing = append(missing, MissingStudent{
			ID:    s.ID,
			Name:  s.Name,
			Email: s.Email,
			RegNo: s.RegistrationNumber,
		})
	}
	return missing
}

// userContext loads the user record itself when user is nil.
func (d *Dispatcher) userContext(ctx context.Context, userID uuid.UUID, user *database.User) (assistant.UserContext, error) {
	uc := assistant.UserContext{
		UserID:         userID.String(),
		Skills:         []string{},
		JobSuggestions: []string{},
		Certificates:   []assistant.CertificateMeta{},
	}

	if user == nil {
		loaded, err := d.store.GetUser(ctx, userID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return uc, errors.Wrap(err, "error getting user")
		}
		user = &loaded
	}
	uc.User = assistant.UserSummary{
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role,
		Course:             user.Course,
		Branch:             user.Branch,
		Section:            user.Section,
		RegistrationNumber: user.RegistrationNumber,
	}

	profile, err := d.store.GetSkillProfile(ctx, userID)
	switch {
	case err == nil:
		if profile.Skills != nil {
			uc.Skills = profile.Skills
		}
		if profile.JobSuggestions != nil {
			uc.JobSuggestions = profile.JobSuggestions
		}
		uc.Summary = profile.Summary
	case !errors.Is(err, sql.ErrNoRows):
		return uc, errors.Wrap(err, "error getting skill profile")
	}

	certs, err := d.store.GetCertificatesByStudent(ctx, userID)
	if err != nil {
		return uc, errors.Wrap(err, "error getting certificates")
	}
	for _, c := range certs {
		uc.Certificates = append(uc.Certificates, assistant.CertificateMeta{
			Name:            c.OriginalName,
			MimeType:        c.MimeType,
			SkillsExtracted: c.SkillsExtracted,
			UploadedAt:      c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return uc, nil
}

// parseDueDate accepts a calendar date or an RFC 3339 timestamp. Anything
// else means no due date.
func parseDueDate(s string) sql.NullTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullTime{}
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: t, Valid: true}
		}
	}
	return sql.NullTime{}
}

func toAssignment(a database.Assignment) Assignment {
	out := Assignment{
		ID:          a.ID,
		TeacherID:   a.TeacherID,
		Title:       a.Title,
		Subject:     a.Subject,
		Description: a.Description,
		Sections:    a.Sections,
		CreatedAt:   a.CreatedAt,
	}
	if out.Sections == nil {
		out.Sections = []string{}
	}
	if a.DueDate.Valid {
		due := a.DueDate.Time
		out.DueDate = &due
	}
	return out
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
