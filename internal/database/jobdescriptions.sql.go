package database

import (
	"context"

	"github.com/google/uuid"
)

const getJobDescription = `-- name: GetJobDescription :one
SELECT id, user_id, title, description, created_at FROM job_descriptions WHERE id=$1
`

func (q *Queries) GetJobDescription(ctx context.Context, id uuid.UUID) (JobDescription, error) {
	row := q.db.QueryRowContext(ctx, getJobDescription, id)
	var i JobDescription
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Title,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}
