package database

import (
	"context"

	"github.com/google/uuid"
)

const listSubmittedStudentIDs = `-- name: ListSubmittedStudentIDs :many
SELECT DISTINCT student_id FROM submissions
WHERE assignment_id = $1
`

func (q *Queries) ListSubmittedStudentIDs(ctx context.Context, assignmentID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.db.QueryContext(ctx, listSubmittedStudentIDs, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []uuid.UUID
	for rows.Next() {
		var student_id uuid.UUID
		if err := rows.Scan(&student_id); err != nil {
			return nil, err
		}
		items = append(items, student_id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
