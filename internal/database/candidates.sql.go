package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type InsertCandidateParams struct {
	ResumeURL           string
	ResumeHash          string
	Name                string
	ContactDetails      json.RawMessage
	ProfessionalTitle   sql.NullString
	ProfessionalSummary sql.NullString
	SocialLinks         json.RawMessage
	ProjectLinks        json.RawMessage
	Experience          string
	Education           string
	TotalExperience     sql.NullFloat64
	ExceptionalAbility  string
	TechStack           []string
	Skills              string
	Embedding           []float32
}

const insertCandidatesColumns = `resume_url, resume_hash, name, contact_details, professional_title, professional_summary, social_links, project_links, experience, education, total_experience, exceptional_ability, tech_stack, skills, embedding`

// InsertCandidates inserts the whole batch in one statement and returns the
// generated ids in insert order.
func (q *Queries) InsertCandidates(ctx context.Context, candidates []InsertCandidateParams) ([]uuid.UUID, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	const fields = 15
	placeholders := make([]string, 0, len(candidates))
	args := make([]interface{}, 0, len(candidates)*fields)
	for i, c := range candidates {
		marks := make([]string, fields)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", i*fields+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
		args = append(args,
			c.ResumeURL,
			c.ResumeHash,
			c.Name,
			c.ContactDetails,
			c.ProfessionalTitle,
			c.ProfessionalSummary,
			c.SocialLinks,
			c.ProjectLinks,
			c.Experience,
			c.Education,
			c.TotalExperience,
			c.ExceptionalAbility,
			pq.Array(c.TechStack),
			c.Skills,
			pq.Float32Array(c.Embedding),
		)
	}

	query := fmt.Sprintf(
		"INSERT INTO candidates (%s) VALUES %s RETURNING id",
		insertCandidatesColumns,
		strings.Join(placeholders, ", "),
	)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

const getCandidatesByResumePrefix = `-- name: GetCandidatesByResumePrefix :many
SELECT id, resume_url, resume_hash, name, contact_details, professional_title, professional_summary, social_links, project_links, experience, education, total_experience, exceptional_ability, tech_stack, skills, embedding, created_at
FROM candidates
WHERE resume_url LIKE $1 || '%'
ORDER BY created_at, id
`

// GetCandidatesByResumePrefix selects every candidate whose resume key starts
// with the given prefix. The fixed ordering keeps ranking deterministic for an
// unchanged candidate set.
func (q *Queries) GetCandidatesByResumePrefix(ctx context.Context, prefix string) ([]Candidate, error) {
	rows, err := q.db.QueryContext(ctx, getCandidatesByResumePrefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Candidate
	for rows.Next() {
		var i Candidate
		if err := rows.Scan(
			&i.ID,
			&i.ResumeURL,
			&i.ResumeHash,
			&i.Name,
			&i.ContactDetails,
			&i.ProfessionalTitle,
			&i.ProfessionalSummary,
			&i.SocialLinks,
			&i.ProjectLinks,
			&i.Experience,
			&i.Education,
			&i.TotalExperience,
			&i.ExceptionalAbility,
			pq.Array(&i.TechStack),
			&i.Skills,
			(*pq.Float32Array)(&i.Embedding),
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
