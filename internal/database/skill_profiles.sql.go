package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const ensureSkillProfile = `-- name: EnsureSkillProfile :exec
INSERT INTO skill_profiles (student_id)
VALUES ($1)
ON CONFLICT (student_id) DO NOTHING
`

func (q *Queries) EnsureSkillProfile(ctx context.Context, studentID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, ensureSkillProfile, studentID)
	return err
}

const getSkillProfile = `-- name: GetSkillProfile :one
SELECT id, student_id, skills, summary, job_suggestions, created_at, updated_at FROM skill_profiles
WHERE student_id = $1
`

func (q *Queries) GetSkillProfile(ctx context.Context, studentID uuid.UUID) (SkillProfile, error) {
	row := q.db.QueryRowContext(ctx, getSkillProfile, studentID)
	var i SkillProfile
	err := row.Scan(
		&i.ID,
		&i.StudentID,
		pq.Array(&i.Skills),
		&i.Summary,
		pq.Array(&i.JobSuggestions),
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getSkillProfileForUpdate = `-- name: GetSkillProfileForUpdate :one
SELECT id, student_id, skills, summary, job_suggestions, created_at, updated_at FROM skill_profiles
WHERE student_id = $1
FOR UPDATE
`

func (q *Queries) GetSkillProfileForUpdate(ctx context.Context, studentID uuid.UUID) (SkillProfile, error) {
	row := q.db.QueryRowContext(ctx, getSkillProfileForUpdate, studentID)
	var i SkillProfile
	err := row.Scan(
		&i.ID,
		&i.StudentID,
		pq.Array(&i.Skills),
		&i.Summary,
		pq.Array(&i.JobSuggestions),
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateSkillProfile = `-- name: UpdateSkillProfile :one
UPDATE skill_profiles
SET skills = $2,
    summary = $3,
    job_suggestions = $4,
    updated_at = CURRENT_TIMESTAMP
WHERE student_id = $1
RETURNING id, student_id, skills, summary, job_suggestions, created_at, updated_at
`

type UpdateSkillProfileParams struct {
	StudentID      uuid.UUID
	Skills         []string
	Summary        string
	JobSuggestions []string
}

func (q *Queries) UpdateSkillProfile(ctx context.Context, arg UpdateSkillProfileParams) (SkillProfile, error) {
	row := q.db.QueryRowContext(ctx, updateSkillProfile,
		arg.StudentID,
		pq.Array(arg.Skills),
		arg.Summary,
		pq.Array(arg.JobSuggestions),
	)
	var i SkillProfile
	err := row.Scan(
		&i.ID,
		&i.StudentID,
		pq.Array(&i.Skills),
		&i.Summary,
		pq.Array(&i.JobSuggestions),
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
