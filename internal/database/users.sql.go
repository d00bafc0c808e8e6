package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const getUser = `-- name: GetUser :one
SELECT id, role, name, email, phone, registration_number, course, branch, section, teacher_id, subject, created_at FROM users
WHERE id = $1
`

func (q *Queries) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Role,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.RegistrationNumber,
		&i.Course,
		&i.Branch,
		&i.Section,
		&i.TeacherID,
		&i.Subject,
		&i.CreatedAt,
	)
	return i, err
}

const listStudents = `-- name: ListStudents :many
SELECT id, role, name, email, phone, registration_number, course, branch, section, teacher_id, subject, created_at FROM users
WHERE role = 'STUDENT'
ORDER BY name
`

func (q *Queries) ListStudents(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listStudents)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

const listStudentsInSections = `-- name: ListStudentsInSections :many
SELECT id, role, name, email, phone, registration_number, course, branch, section, teacher_id, subject, created_at FROM users
WHERE role = 'STUDENT' AND section = ANY($1::text[])
ORDER BY name
`

func (q *Queries) ListStudentsInSections(ctx context.Context, sections []string) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listStudentsInSections, pq.Array(sections))
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Err() error
}

func scanUsers(rows rowsScanner) ([]User, error) {
	defer rows.Close()
	var items []User
	for rows.Next() {
		var i User
		if err := rows.Scan(
			&i.ID,
			&i.Role,
			&i.Name,
			&i.Email,
			&i.Phone,
			&i.RegistrationNumber,
			&i.Course,
			&i.Branch,
			&i.Section,
			&i.TeacherID,
			&i.Subject,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
