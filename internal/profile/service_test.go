package profile

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/profiletracer/internal/assistant"
	"github.com/muhammadolammi/profiletracer/internal/database"
)

type fakeStore struct {
	certs    []database.Certificate
	profile  database.SkillProfile
	mergeErr error
	marked   bool
	merges   int
}

func (f *fakeStore) GetCertificatesByStudent(ctx context.Context, studentID uuid.UUID) ([]database.Certificate, error) {
	return f.certs, nil
}

func (f *fakeStore) MarkCertificatesExtracted(ctx context.Context, studentID uuid.UUID) error {
	f.marked = true
	return nil
}

func (f *fakeStore) MergeSkillProfile(ctx context.Context, studentID uuid.UUID, merge func(database.SkillProfile) database.SkillProfile) (database.SkillProfile, error) {
	f.merges++
	if f.mergeErr != nil {
		return database.SkillProfile{}, f.mergeErr
	}
	f.profile.StudentID = studentID
	f.profile = merge(f.profile)
	return f.profile, nil
}

type fakeExtractor struct {
	mu    sync.Mutex
	texts map[string]string
	paths []string
}

func (f *fakeExtractor) Extract(ctx context.Context, path, mimeType string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	return f.texts[path]
}

type fakeSkills struct {
	result assistant.SkillExtraction
	got    []assistant.CertificateText
	calls  int
}

func (f *fakeSkills) ExtractSkills(ctx context.Context, certs []assistant.CertificateText) assistant.SkillExtraction {
	f.calls++
	f.got = certs
	return f.result
}

func TestExtractProfile_NoCertificates(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{}
	skills := &fakeSkills{result: assistant.SkillExtraction{Skills: []string{"Fabricated"}}}
	owner := uuid.New()

	got, err := NewService(store, extractor, skills).Rebuild(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, SkillProfile{OwnerID: owner, Skills: []string{}, JobSuggestions: []string{}}, got)
	assert.Zero(t, skills.calls)
	assert.Empty(t, extractor.paths)
	assert.Zero(t, store.merges)
	assert.False(t, store.marked)
}

func TestExtractProfile_MergesIntoStoredProfile(t *testing.T) {
	owner := uuid.New()
	store := &fakeStore{
		certs: []database.Certificate{
			{OriginalName: "aws.pdf", Path: "certs/aws.pdf", MimeType: "application/pdf"},
			{OriginalName: "missing.png", Path: "certs/missing.png", MimeType: "image/png"},
			{OriginalName: "go.png", Path: "certs/go.png", MimeType: "image/png"},
		},
		profile: database.SkillProfile{
			Skills:         []string{"Python", "Communication"},
			Summary:        "Old summary.",
			JobSuggestions: []string{"Analyst"},
		},
	}
	extractor := &fakeExtractor{texts: map[string]string{
		"certs/aws.pdf": "AWS Cloud Practitioner",
		"certs/go.png":  "Go Programming",
	}}
	skills := &fakeSkills{result: assistant.SkillExtraction{
		Skills:  []string{"AWS", "go", "PYTHON", "Go"},
		Summary: "Cloud and Go.",
	}}

	got, err := NewService(store, extractor, skills).Rebuild(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, owner, got.OwnerID)
	assert.Equal(t, []string{"Python", "Communication", "AWS", "go"}, got.Skills)
	assert.Equal(t, "Cloud and Go.", got.Summary)
	assert.Equal(t, []string{"Analyst"}, got.JobSuggestions)
	assert.True(t, store.marked)

	require.Len(t, skills.got, 3)
	assert.Equal(t, assistant.CertificateText{Name: "aws.pdf", Text: "AWS Cloud Practitioner"}, skills.got[0])
	assert.Equal(t, assistant.CertificateText{Name: "missing.png", Text: ""}, skills.got[1])
	assert.Equal(t, assistant.CertificateText{Name: "go.png", Text: "Go Programming"}, skills.got[2])
	assert.ElementsMatch(t, []string{"certs/aws.pdf", "certs/missing.png", "certs/go.png"}, extractor.paths)
}

func TestExtractProfile_StoreFailure(t *testing.T) {
	store := &fakeStore{
		certs:    []database.Certificate{{OriginalName: "a.pdf", Path: "a.pdf"}},
		mergeErr: errors.New("connection reset"),
	}
	svc := NewService(store, &fakeExtractor{}, &fakeSkills{})

	_, err := svc.Rebuild(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save skill profile")
	assert.False(t, store.marked)
}
