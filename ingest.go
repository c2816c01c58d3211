package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireloop/screeningworker/internal/database"
)

type fileResult struct {
	key    string
	params database.InsertCandidateParams
	err    error
}

// ProcessJob is the ingestion stage: it locates every uploaded file for the
// job, extracts a profile per file concurrently, and batch-inserts the
// assembled candidates. A file that fails extraction is logged and dropped
// from the batch; it never fails the job. Returns the generated candidate ids.
func (p *Pipeline) ProcessJob(ctx context.Context, jobID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := p.repo.GetJobDescription(ctx, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", jobID, ErrJobDescriptionNotFound)
		}
		return nil, fmt.Errorf("load job description: %w", err)
	}

	prefix := jobID.String() + "-"
	keys, err := p.store.ListByPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list files for job %s: %w", jobID, err)
	}
	if len(keys) == 0 {
		p.log.Info("no files uploaded for job", zap.String("job_id", jobID.String()))
		return nil, nil
	}

	// Fan out one goroutine per file, bounded by a semaphore, and gather
	// results over a channel. Batch order is resolution order.
	sem := make(chan struct{}, p.fileConcurrency)
	results := make(chan fileResult, len(keys))
	for _, key := range keys {
		go func(key string) {
			sem <- struct{}{}
			defer func() { <-sem }()
			params, err := p.processFile(ctx, key)
			results <- fileResult{key: key, params: params, err: err}
		}(key)
	}

	batch := make([]database.InsertCandidateParams, 0, len(keys))
	for range keys {
		res := <-results
		if res.err != nil {
			p.log.Warn("skipping resume",
				zap.String("job_id", jobID.String()),
				zap.String("key", res.key),
				zap.Error(res.err))
			continue
		}
		batch = append(batch, res.params)
	}
	if len(batch) == 0 {
		p.log.Warn("no resumes survived extraction", zap.String("job_id", jobID.String()))
		return nil, nil
	}

	ids, err := retry(3, func() ([]uuid.UUID, error) {
		return p.repo.InsertCandidates(ctx, batch)
	})
	if err != nil {
		return nil, fmt.Errorf("insert candidates for job %s: %w", jobID, err)
	}

	p.log.Info("candidates ingested",
		zap.String("job_id", jobID.String()),
		zap.Int("files", len(keys)),
		zap.Int("candidates", len(ids)))
	return ids, nil
}

// processFile runs the full per-file extraction pipeline: download, text
// extraction, structured extraction, embedding, candidate assembly.
func (p *Pipeline) processFile(ctx context.Context, key string) (database.InsertCandidateParams, error) {
	var zero database.InsertCandidateParams

	data, err := retry(3, func() ([]byte, error) {
		return p.store.GetObject(ctx, key)
	})
	if err != nil {
		return zero, fmt.Errorf("download %s: %w", key, err)
	}

	text, err := ExtractText(key, data)
	if err != nil {
		return zero, fmt.Errorf("extract text from %s: %w", key, err)
	}

	profile, err := p.extractor.Extract(ctx, text, time.Now())
	if err != nil {
		return zero, fmt.Errorf("extract profile from %s: %w", key, err)
	}

	embedding, err := p.embedder.Embed(ctx, buildSearchText(profile))
	if err != nil {
		return zero, fmt.Errorf("embed %s: %w", key, err)
	}

	return assembleCandidate(key, profile, embedding)
}

// buildSearchText concatenates the ranking-relevant fields into the text the
// candidate embedding is generated from.
func buildSearchText(profile *ResumeData) string {
	return profile.Experience + "\n" + profile.Skills + "\n" + strings.Join(profile.TechStack, ", ")
}

func assembleCandidate(key string, profile *ResumeData, embedding []float32) (database.InsertCandidateParams, error) {
	var zero database.InsertCandidateParams

	contact, err := json.Marshal(profile.ContactDetails)
	if err != nil {
		return zero, fmt.Errorf("marshal contact details: %w", err)
	}
	social, err := json.Marshal(profile.SocialLinks)
	if err != nil {
		return zero, fmt.Errorf("marshal social links: %w", err)
	}
	projects, err := json.Marshal(profile.ProjectLinks)
	if err != nil {
		return zero, fmt.Errorf("marshal project links: %w", err)
	}

	var totalExperience sql.NullFloat64
	if profile.TotalExperience != nil {
		totalExperience = sql.NullFloat64{Float64: *profile.TotalExperience, Valid: true}
	}

	return database.InsertCandidateParams{
		ResumeURL: key,
		// Content hashing is an extension point, persisted empty for now.
		ResumeHash:          "",
		Name:                profile.Name,
		ContactDetails:      contact,
		ProfessionalTitle:   nullString(profile.ProfessionalTitle),
		ProfessionalSummary: nullString(profile.ProfessionalSummary),
		SocialLinks:         social,
		ProjectLinks:        projects,
		Experience:          profile.Experience,
		Education:           profile.Education,
		TotalExperience:     totalExperience,
		ExceptionalAbility:  profile.ExceptionalAbility,
		TechStack:           profile.TechStack,
		Skills:              profile.Skills,
		Embedding:           embedding,
	}, nil
}

func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
