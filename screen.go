package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireloop/screeningworker/internal/database"
)

type scoredCandidate struct {
	id         uuid.UUID
	similarity float64
}

// ScreenJob is the screening stage: it embeds the job description, ranks every
// ingested candidate for the job by descending cosine similarity, and persists
// the ranking as one batch of screening rows. The stage is independently
// callable and revalidates the job description itself.
func (p *Pipeline) ScreenJob(ctx context.Context, jobID uuid.UUID) error {
	jd, err := p.repo.GetJobDescription(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("job %s: %w", jobID, ErrJobDescriptionNotFound)
		}
		return fmt.Errorf("load job description: %w", err)
	}

	jdEmbedding, err := p.embedder.Embed(ctx, jd.Title+"\n"+jd.Description)
	if err != nil {
		return fmt.Errorf("embed job description %s: %w", jobID, err)
	}

	candidates, err := p.repo.GetCandidatesByResumePrefix(ctx, jobID.String()+"-")
	if err != nil {
		return fmt.Errorf("load candidates for job %s: %w", jobID, err)
	}
	if len(candidates) == 0 {
		p.log.Info("no candidates to screen", zap.String("job_id", jobID.String()))
		return nil
	}

	scored := make([]scoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = scoredCandidate{
			id:         c.ID,
			similarity: cosineSimilarity(c.Embedding, jdEmbedding),
		}
	}
	// Stable sort keeps ties deterministic for a fixed candidate set.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	screenings := make([]database.InsertScreeningParams, len(scored))
	for i, s := range scored {
		screenings[i] = database.InsertScreeningParams{
			Jd:            jobID,
			Candidate:     s.id,
			Rank:          int32(i + 1),
			IsShortlisted: false,
		}
	}

	_, err = retry(3, func() (any, error) {
		return nil, p.repo.InsertScreenings(ctx, screenings)
	})
	if err != nil {
		return fmt.Errorf("insert screenings for job %s: %w", jobID, err)
	}

	p.log.Info("candidates ranked",
		zap.String("job_id", jobID.String()),
		zap.Int("candidates", len(screenings)))
	return nil
}

// cosineSimilarity is 1 - cosineDistance. A missing or degenerate vector
// scores -1 so such candidates always rank below every comparable one.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return -1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return -1
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
