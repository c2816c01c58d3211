package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireloop/screeningworker/internal/database"
)

// ErrJobDescriptionNotFound is returned by both stages when the job id does
// not resolve to a stored job description.
var ErrJobDescriptionNotFound = errors.New("job description not found")

// ObjectStore lists and fetches uploaded resume files.
type ObjectStore interface {
	ListByPrefix(ctx context.Context, prefix string) ([]string, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// ProfileExtractor turns extracted resume text into a validated profile. The
// current timestamp anchors any relative experience-duration reasoning.
type ProfileExtractor interface {
	Extract(ctx context.Context, resumeText string, now time.Time) (*ResumeData, error)
}

// Embedder generates a fixed-dimension vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Repository is the candidate/screening persistence contract, satisfied by
// *database.Queries.
type Repository interface {
	GetJobDescription(ctx context.Context, id uuid.UUID) (database.JobDescription, error)
	InsertCandidates(ctx context.Context, candidates []database.InsertCandidateParams) ([]uuid.UUID, error)
	GetCandidatesByResumePrefix(ctx context.Context, prefix string) ([]database.Candidate, error)
	InsertScreenings(ctx context.Context, screenings []database.InsertScreeningParams) error
	UpsertPipelineStatus(ctx context.Context, arg database.UpsertPipelineStatusParams) error
}

// TaskQueue enqueues pipeline tasks.
type TaskQueue interface {
	Enqueue(ctx context.Context, kind string, jobID uuid.UUID) error
}

// Broadcaster fans an event out to all connected listeners, best effort.
type Broadcaster interface {
	Broadcast(event string, payload any) error
}

// Pipeline runs both processing stages for queued jobs.
type Pipeline struct {
	store     ObjectStore
	extractor ProfileExtractor
	embedder  Embedder
	repo      Repository
	queue     TaskQueue
	notifier  Broadcaster
	log       *zap.Logger

	// fileConcurrency bounds the per-job fan-out so a large upload batch
	// does not overwhelm the extraction and embedding services.
	fileConcurrency int
}

func NewPipeline(store ObjectStore, extractor ProfileExtractor, embedder Embedder, repo Repository, queue TaskQueue, notifier Broadcaster, log *zap.Logger, fileConcurrency int) *Pipeline {
	if fileConcurrency < 1 {
		fileConcurrency = 1
	}
	return &Pipeline{
		store:           store,
		extractor:       extractor,
		embedder:        embedder,
		repo:            repo,
		queue:           queue,
		notifier:        notifier,
		log:             log,
		fileConcurrency: fileConcurrency,
	}
}

// setStatus records a pipeline state transition. Status writes are best
// effort and never mask the stage result.
func (p *Pipeline) setStatus(ctx context.Context, jobID uuid.UUID, status, errMsg string) {
	err := p.repo.UpsertPipelineStatus(ctx, database.UpsertPipelineStatusParams{
		JobID:  jobID,
		Status: status,
		Error:  errMsg,
	})
	if err != nil {
		p.log.Error("failed to record pipeline status",
			zap.String("job_id", jobID.String()),
			zap.String("status", status),
			zap.Error(err))
	}
}

// notify broadcasts an event, dropping it with a logged error when the
// notification channel was never initialized. Delivery failures are swallowed:
// screening success is not contingent on notification delivery.
func (p *Pipeline) notify(event string, payload any) {
	if p.notifier == nil {
		p.log.Error("notification channel not initialized, dropping event", zap.String("event", event))
		return
	}
	if err := p.notifier.Broadcast(event, payload); err != nil {
		p.log.Error("failed to broadcast event", zap.String("event", event), zap.Error(err))
	}
}
