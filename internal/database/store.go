package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store adds transactions on top of Queries.
type Store struct {
	*Queries
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		Queries: New(db),
		db:      db,
	}
}

func (s *Store) execTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // no-op after commit

	if err := fn(s.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// MergeSkillProfile applies merge to the student's profile under a row lock,
// so concurrent extractions for one student cannot lose each other's skills.
// merge receives the stored profile (empty on first extraction) and returns
// the values to keep.
func (s *Store) MergeSkillProfile(ctx context.Context, studentID uuid.UUID, merge func(existing SkillProfile) SkillProfile) (SkillProfile, error) {
	var result SkillProfile
	err := s.execTx(ctx, func(q *Queries) error {
		if err := q.EnsureSkillProfile(ctx, studentID); err != nil {
			return errors.Wrap(err, "failed to create skill profile")
		}
		existing, err := q.GetSkillProfileForUpdate(ctx, studentID)
		if err != nil {
			return errors.Wrap(err, "failed to lock skill profile")
		}

		merged := merge(existing)
		result, err = q.UpdateSkillProfile(ctx, UpdateSkillProfileParams{
			StudentID:      studentID,
			Skills:         nonNil(merged.Skills),
			Summary:        merged.Summary,
			JobSuggestions: nonNil(merged.JobSuggestions),
		})
		return errors.Wrap(err, "failed to update skill profile")
	})
	return result, err
}

// EscapeLike escapes LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
