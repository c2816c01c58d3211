package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type InsertScreeningParams struct {
	Jd            uuid.UUID
	Candidate     uuid.UUID
	Rank          int32
	IsShortlisted bool
}

// InsertScreenings inserts one screening row per ranked candidate in a single
// statement. The batch either commits as a whole or fails as a whole.
func (q *Queries) InsertScreenings(ctx context.Context, screenings []InsertScreeningParams) error {
	if len(screenings) == 0 {
		return nil
	}

	const fields = 4
	placeholders := make([]string, 0, len(screenings))
	args := make([]interface{}, 0, len(screenings)*fields)
	for i, s := range screenings {
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d)",
			i*fields+1, i*fields+2, i*fields+3, i*fields+4))
		args = append(args, s.Jd, s.Candidate, s.Rank, s.IsShortlisted)
	}

	query := fmt.Sprintf(
		"INSERT INTO screenings (jd, candidate, rank, is_shortlisted) VALUES %s",
		strings.Join(placeholders, ", "),
	)

	_, err := q.db.ExecContext(ctx, query, args...)
	return err
}
