package profile

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/muhammadolammi/profiletracer/internal/assistant"
	"github.com/muhammadolammi/profiletracer/internal/database"
	"github.com/muhammadolammi/profiletracer/internal/logger"
)

// maxParallelExtractions bounds concurrent OCR/PDF work for one profile.
const maxParallelExtractions = 4

type Store interface {
	GetCertificatesByStudent(ctx context.Context, studentID uuid.UUID) ([]database.Certificate, error)
	MarkCertificatesExtracted(ctx context.Context, studentID uuid.UUID) error
	MergeSkillProfile(ctx context.Context, studentID uuid.UUID, merge func(existing database.SkillProfile) database.SkillProfile) (database.SkillProfile, error)
}

type TextExtractor interface {
	Extract(ctx context.Context, path, mimeType string) string
}

type SkillExtractor interface {
	ExtractSkills(ctx context.Context, certs []assistant.CertificateText) assistant.SkillExtraction
}

type Service struct {
	store     Store
	extractor TextExtractor
	skills    SkillExtractor
}

func NewService(store Store, extractor TextExtractor, skills SkillExtractor) *Service {
	return &Service{store: store, extractor: extractor, skills: skills}
}

// Rebuild re-extracts the profile of ownerID from all stored certificates.
func (s *Service) Rebuild(ctx context.Context, ownerID uuid.UUID) (SkillProfile, error) {
	certs, err := s.store.GetCertificatesByStudent(ctx, ownerID)
	if err != nil {
		return SkillProfile{}, errors.Wrapf(err, "error getting certificates for student %s", ownerID)
	}
	return s.ExtractProfile(ctx, ownerID, certs)
}

// ExtractProfile infers skills from certs and merges them into the stored
// profile. With no certificates nothing is inferred, stored or sent to the
// model, and an empty profile is returned.
func (s *Service) ExtractProfile(ctx context.Context, ownerID uuid.UUID, certs []database.Certificate) (SkillProfile, error) {
	if len(certs) == 0 {
		return SkillProfile{OwnerID: ownerID, Skills: []string{}, JobSuggestions: []string{}}, nil
	}
	ctx = logger.WithFields(ctx, logrus.Fields{"owner_id": ownerID, "certificates": len(certs)})

	texts := s.extractAll(ctx, certs)
	fresh := s.skills.ExtractSkills(ctx, texts)

	saved, err := s.store.MergeSkillProfile(ctx, ownerID, func(existing database.SkillProfile) database.SkillProfile {
		prior := fromRecord(existing)
		merged := Merge(&prior, fresh.Skills, fresh.Summary, fresh.Jobs)
		existing.Skills = merged.Skills
		existing.Summary = merged.Summary
		existing.JobSuggestions = merged.JobSuggestions
		return existing
	})
	if err != nil {
		return SkillProfile{}, errors.Wrap(err, "failed to save skill profile")
	}

	err = retry.Do(
		func() error { return s.store.MarkCertificatesExtracted(ctx, ownerID) },
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to mark certificates as extracted")
	}

	p := fromRecord(saved)
	logger.G(ctx).WithField("skills", len(p.Skills)).Info("skill profile updated")
	return p, nil
}

// extractAll reads every certificate concurrently. Order of the result
// follows certs; a failed extraction leaves an empty text in its slot.
func (s *Service) extractAll(ctx context.Context, certs []database.Certificate) []assistant.CertificateText {
	texts := make([]assistant.CertificateText, len(certs))
	var g errgroup.Group
	g.SetLimit(maxParallelExtractions)
	for i, c := range certs {
		g.Go(func() error {
			texts[i] = assistant.CertificateText{
				Name: c.OriginalName,
				Text: s.extractor.Extract(ctx, c.Path, c.MimeType),
			}
			return nil
		})
	}
	_ = g.Wait()
	return texts
}

func fromRecord(r database.SkillProfile) SkillProfile {
	return SkillProfile{
		OwnerID:        r.StudentID,
		Skills:         nonNil(r.Skills),
		Summary:        r.Summary,
		JobSuggestions: nonNil(r.JobSuggestions),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
