package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/profiletracer/internal/assistant"
	"github.com/muhammadolammi/profiletracer/internal/command"
	"github.com/muhammadolammi/profiletracer/internal/database"
	"github.com/muhammadolammi/profiletracer/internal/profile"
)

type fakeDB struct {
	users    map[uuid.UUID]database.User
	profiles map[uuid.UUID]database.SkillProfile
}

func (f *fakeDB) GetUser(ctx context.Context, id uuid.UUID) (database.User, error) {
	u, ok := f.users[id]
	if !ok {
		return database.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeDB) GetSkillProfile(ctx context.Context, studentID uuid.UUID) (database.SkillProfile, error) {
	p, ok := f.profiles[studentID]
	if !ok {
		return database.SkillProfile{}, sql.ErrNoRows
	}
	return p, nil
}

type fakeProfiles struct{ owner uuid.UUID }

func (f *fakeProfiles) Rebuild(ctx context.Context, ownerID uuid.UUID) (profile.SkillProfile, error) {
	f.owner = ownerID
	return profile.SkillProfile{OwnerID: ownerID, Skills: []string{"Go"}, JobSuggestions: []string{}}, nil
}

type fakeDispatcher struct{ err error }

func (f *fakeDispatcher) Chat(ctx context.Context, userID uuid.UUID, message string) (command.Result, error) {
	if f.err != nil {
		return command.Result{}, f.err
	}
	return command.Result{Reply: "echo: " + message}, nil
}

type fakeAdvisor struct {
	skills []string
	user   assistant.UserIdentity
}

func (f *fakeAdvisor) JobRoles(ctx context.Context, skills []string) []assistant.JobRole {
	f.skills = skills
	return []assistant.JobRole{{Title: "Intern"}}
}

func (f *fakeAdvisor) JobSuggestions(ctx context.Context, skills []string) []string {
	f.skills = skills
	return []string{"Backend Engineer"}
}

func (f *fakeAdvisor) ResumeContent(ctx context.Context, skills []string, user assistant.UserIdentity) assistant.ResumeContent {
	f.skills = skills
	f.user = user
	return assistant.ResumeContent{Objective: "o", Skills: skills}
}

type fakeModelCheck struct{ timeout time.Duration }

func (f *fakeModelCheck) Available(ctx context.Context, timeout time.Duration) bool {
	f.timeout = timeout
	return timeout > time.Second
}

type fakeResetter struct{ user string }

func (f *fakeResetter) Reset(ctx context.Context, userID string) error {
	f.user = userID
	return nil
}

type harness struct {
	cfg      *WorkerConfig
	db       *fakeDB
	advisor  *fakeAdvisor
	models   *fakeModelCheck
	resetter *fakeResetter
	updates  []JobUpdate
}

func newHarness() *harness {
	h := &harness{
		db:       &fakeDB{users: map[uuid.UUID]database.User{}, profiles: map[uuid.UUID]database.SkillProfile{}},
		advisor:  &fakeAdvisor{},
		models:   &fakeModelCheck{},
		resetter: &fakeResetter{},
	}
	h.cfg = &WorkerConfig{
		DB:                h.db,
		Profiles:          &fakeProfiles{},
		Dispatcher:        &fakeDispatcher{},
		Advisor:           h.advisor,
		Models:            h.models,
		Mascot:            h.resetter,
		ModelCheckTimeout: 2500 * time.Millisecond,
		Publish: func(u JobUpdate) error {
			h.updates = append(h.updates, u)
			return nil
		},
	}
	return h
}

func TestDecodeJob(t *testing.T) {
	id, user := uuid.New(), uuid.New()
	body := `{"id":"` + id.String() + `","type":" Chat ","user_id":"` + user.String() + `","message":"hi"}`

	job, err := decodeJob([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, Job{ID: id, Type: JobChat, UserID: user, Message: "hi"}, job)

	_, err = decodeJob([]byte(`{"user_id":"` + user.String() + `"}`))
	assert.Error(t, err)

	_, err = decodeJob([]byte(`not json`))
	assert.Error(t, err)
}

func TestHandleJob_JobRoles(t *testing.T) {
	h := newHarness()
	user := uuid.New()
	h.db.profiles[user] = database.SkillProfile{Skills: []string{"SQL"}}

	t.Run("explicit skills", func(t *testing.T) {
		got, err := h.cfg.handleJob(context.Background(), Job{Type: JobRoles, UserID: user, Skills: []string{" Go ", ""}})
		require.NoError(t, err)
		assert.Equal(t, JobRolesResult{Jobs: []assistant.JobRole{{Title: "Intern"}}}, got)
		assert.Equal(t, []string{"Go"}, h.advisor.skills)
	})

	t.Run("stored skills", func(t *testing.T) {
		_, err := h.cfg.handleJob(context.Background(), Job{Type: JobRoles, UserID: user})
		require.NoError(t, err)
		assert.Equal(t, []string{"SQL"}, h.advisor.skills)
	})

	t.Run("no profile", func(t *testing.T) {
		_, err := h.cfg.handleJob(context.Background(), Job{Type: JobRoles, UserID: uuid.New()})
		require.NoError(t, err)
		assert.Empty(t, h.advisor.skills)
	})
}

func TestHandleJob_JobSuggestions(t *testing.T) {
	h := newHarness()
	user := uuid.New()
	h.db.profiles[user] = database.SkillProfile{Skills: []string{"Go", "SQL"}}

	got, err := h.cfg.handleJob(context.Background(), Job{Type: JobSuggestions, UserID: user})
	require.NoError(t, err)
	assert.Equal(t, JobSuggestionsResult{JobSuggestions: []string{"Backend Engineer"}}, got)
	assert.Equal(t, []string{"Go", "SQL"}, h.advisor.skills)
}

func TestHandleJob_ResumeContent(t *testing.T) {
	h := newHarness()
	user := uuid.New()
	h.db.users[user] = database.User{ID: user, Name: "Ada", Course: "B.Tech", Branch: "CSE", Section: "A"}

	got, err := h.cfg.handleJob(context.Background(), Job{Type: JobResumeContent, UserID: user})
	require.NoError(t, err)

	assert.Equal(t, assistant.UserIdentity{Name: "Ada", Course: "B.Tech", Branch: "CSE", Section: "A"}, h.advisor.user)
	assert.Nil(t, h.advisor.skills)
	assert.IsType(t, assistant.ResumeContent{}, got)

	_, err = h.cfg.handleJob(context.Background(), Job{Type: JobResumeContent, UserID: uuid.New()})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestHandleJob_ModelStatus(t *testing.T) {
	h := newHarness()

	got, err := h.cfg.handleJob(context.Background(), Job{Type: JobModelStatus})
	require.NoError(t, err)
	assert.Equal(t, ModelStatusResult{AIAvailable: true}, got)
	assert.Equal(t, 2500*time.Millisecond, h.models.timeout)

	got, err = h.cfg.handleJob(context.Background(), Job{Type: JobModelStatus, TimeoutMS: 10})
	require.NoError(t, err)
	assert.Equal(t, ModelStatusResult{AIAvailable: false}, got)
	assert.Equal(t, 10*time.Millisecond, h.models.timeout)
}

func TestHandleJob_ResetChat(t *testing.T) {
	h := newHarness()
	user := uuid.New()

	_, err := h.cfg.handleJob(context.Background(), Job{Type: JobResetChat, UserID: user})
	require.NoError(t, err)
	assert.Equal(t, user.String(), h.resetter.user)

	h.cfg.Mascot = nil
	_, err = h.cfg.handleJob(context.Background(), Job{Type: JobResetChat, UserID: user})
	assert.NoError(t, err)
}

func TestHandleJob_UnknownType(t *testing.T) {
	_, err := newHarness().cfg.handleJob(context.Background(), Job{Type: "render_pdf"})
	assert.ErrorIs(t, err, errUnknownJobType)
}

func TestProcessMessage_Updates(t *testing.T) {
	h := newHarness()
	job := Job{ID: uuid.New(), Type: JobExtractProfile, UserID: uuid.New()}
	body, err := json.Marshal(job)
	require.NoError(t, err)

	h.cfg.processMessage(context.Background(), body)

	require.Len(t, h.updates, 2)
	assert.Equal(t, StatusProcessing, h.updates[0].Status)
	assert.Equal(t, "skill extraction started", h.updates[0].Message)
	assert.Equal(t, StatusCompleted, h.updates[1].Status)
	assert.Equal(t, job.ID, h.updates[1].JobID)
	assert.Equal(t, job.UserID, h.updates[1].UserID)
	assert.Equal(t, profile.SkillProfile{OwnerID: job.UserID, Skills: []string{"Go"}, JobSuggestions: []string{}}, h.updates[1].Result)
}

func TestProcessMessage_Forbidden(t *testing.T) {
	h := newHarness()
	h.cfg.Dispatcher = &fakeDispatcher{err: command.ErrForbidden}
	body, err := json.Marshal(Job{ID: uuid.New(), Type: JobChat, UserID: uuid.New(), Message: "Create assignment: Title=Lab1"})
	require.NoError(t, err)

	h.cfg.processMessage(context.Background(), body)

	require.Len(t, h.updates, 2)
	assert.Equal(t, StatusFailed, h.updates[1].Status)
	assert.Equal(t, command.ErrForbidden.Error(), h.updates[1].Error)
	assert.Nil(t, h.updates[1].Result)
}

func TestProcessMessage_Malformed(t *testing.T) {
	h := newHarness()

	h.cfg.processMessage(context.Background(), []byte(`{`))
	assert.Empty(t, h.updates)

	user := uuid.New()
	h.cfg.processMessage(context.Background(), []byte(`{"user_id":"`+user.String()+`"}`))
	require.Len(t, h.updates, 1)
	assert.Equal(t, StatusFailed, h.updates[0].Status)
	assert.Equal(t, user, h.updates[0].UserID)
}
