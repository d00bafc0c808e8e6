package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const createAssignment = `-- name: CreateAssignment :one
INSERT INTO assignments (teacher_id, title, description, subject, due_date, sections)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, teacher_id, title, description, subject, due_date, sections, created_at
`

type CreateAssignmentParams struct {
	TeacherID   uuid.UUID
	Title       string
	Description string
	Subject     string
	DueDate     sql.NullTime
	Sections    []string
}

func (q *Queries) CreateAssignment(ctx context.Context, arg CreateAssignmentParams) (Assignment, error) {
	row := q.db.QueryRowContext(ctx, createAssignment,
		arg.TeacherID,
		arg.Title,
		arg.Description,
		arg.Subject,
		arg.DueDate,
		pq.Array(arg.Sections),
	)
	var i Assignment
	err := row.Scan(
		&i.ID,
		&i.TeacherID,
		&i.Title,
		&i.Description,
		&i.Subject,
		&i.DueDate,
		pq.Array(&i.Sections),
		&i.CreatedAt,
	)
	return i, err
}

const findTeacherAssignmentByTitle = `-- name: FindTeacherAssignmentByTitle :one
SELECT id, teacher_id, title, description, subject, due_date, sections, created_at FROM assignments
WHERE teacher_id = $1 AND title ILIKE '%' || $2::text || '%'
ORDER BY created_at DESC
LIMIT 1
`

type FindTeacherAssignmentByTitleParams struct {
	TeacherID uuid.UUID
	// Title is a LIKE pattern fragment; escape user input with EscapeLike.
	Title string
}

func (q *Queries) FindTeacherAssignmentByTitle(ctx context.Context, arg FindTeacherAssignmentByTitleParams) (Assignment, error) {
	row := q.db.QueryRowContext(ctx, findTeacherAssignmentByTitle, arg.TeacherID, arg.Title)
	var i Assignment
	err := row.Scan(
		&i.ID,
		&i.TeacherID,
		&i.Title,
		&i.Description,
		&i.Subject,
		&i.DueDate,
		pq.Array(&i.Sections),
		&i.CreatedAt,
	)
	return i, err
}
