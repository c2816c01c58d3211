package database

import (
	"context"

	"github.com/google/uuid"
)

const upsertPipelineStatus = `-- name: UpsertPipelineStatus :exec
INSERT INTO pipeline_jobs (job_id, status, error)
VALUES ($1, $2, $3)
ON CONFLICT (job_id)
DO UPDATE SET
    status = EXCLUDED.status,
    error = EXCLUDED.error,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertPipelineStatusParams struct {
	JobID  uuid.UUID
	Status string
	Error  string
}

func (q *Queries) UpsertPipelineStatus(ctx context.Context, arg UpsertPipelineStatusParams) error {
	_, err := q.db.ExecContext(ctx, upsertPipelineStatus, arg.JobID, arg.Status, arg.Error)
	return err
}
