package database

import (
	"context"

	"github.com/google/uuid"
)

const getCertificatesByStudent = `-- name: GetCertificatesByStudent :many
SELECT id, student_id, original_name, mime_type, path, skills_extracted, created_at FROM certificates
WHERE student_id = $1
ORDER BY created_at
`

func (q *Queries) GetCertificatesByStudent(ctx context.Context, studentID uuid.UUID) ([]Certificate, error) {
	rows, err := q.db.QueryContext(ctx, getCertificatesByStudent, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Certificate
	for rows.Next() {
		var i Certificate
		if err := rows.Scan(
			&i.ID,
			&i.StudentID,
			&i.OriginalName,
			&i.MimeType,
			&i.Path,
			&i.SkillsExtracted,
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

const markCertificatesExtracted = `-- name: MarkCertificatesExtracted :exec
UPDATE certificates
SET skills_extracted = TRUE
WHERE student_id = $1
`

func (q *Queries) MarkCertificatesExtracted(ctx context.Context, studentID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, markCertificatesExtracted, studentID)
	return err
}
