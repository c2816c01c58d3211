package main

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireloop/screeningworker/internal/database"
)

type fakeStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	listErr   error
	listCalls int
	getCalls  int
}

func (s *fakeStore) ListByPrefix(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var keys []string
	for k := range s.files {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *fakeStore) GetObject(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	data, ok := s.files[key]
	if !ok {
		return nil, fmt.Errorf("no such key %s", key)
	}
	return data, nil
}

type fakeExtractor struct {
	mu    sync.Mutex
	calls int
	fn    func(text string) (*ResumeData, error)
}

func (e *fakeExtractor) Extract(_ context.Context, text string, _ time.Time) (*ResumeData, error) {
	e.mu.Lock()
	e.calls++
	fn := e.fn
	e.mu.Unlock()
	if fn != nil {
		return fn(text)
	}
	return defaultProfile(), nil
}

type fakeEmbedder struct {
	mu     sync.Mutex
	calls  int
	inputs []string
	fn     func(text string) ([]float32, error)
}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.inputs = append(e.inputs, text)
	fn := e.fn
	e.mu.Unlock()
	if fn != nil {
		return fn(text)
	}
	return []float32{1, 0, 0}, nil
}

type fakeRepo struct {
	mu         sync.Mutex
	jds        map[uuid.UUID]database.JobDescription
	candidates []database.Candidate
	inserts    [][]database.InsertCandidateParams
	screenings [][]database.InsertScreeningParams
	statuses   []string
	insertErr  error
	screenErr  error
}

func (r *fakeRepo) GetJobDescription(_ context.Context, id uuid.UUID) (database.JobDescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jd, ok := r.jds[id]
	if !ok {
		return database.JobDescription{}, sql.ErrNoRows
	}
	return jd, nil
}

func (r *fakeRepo) InsertCandidates(_ context.Context, candidates []database.InsertCandidateParams) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.inserts = append(r.inserts, candidates)
	ids := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		ids[i] = uuid.New()
		r.candidates = append(r.candidates, database.Candidate{
			ID:        ids[i],
			ResumeURL: c.ResumeURL,
			Name:      c.Name,
			Skills:    c.Skills,
			Embedding: c.Embedding,
		})
	}
	return ids, nil
}

func (r *fakeRepo) GetCandidatesByResumePrefix(_ context.Context, prefix string) ([]database.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []database.Candidate
	for _, c := range r.candidates {
		if strings.HasPrefix(c.ResumeURL, prefix) {
			items = append(items, c)
		}
	}
	return items, nil
}

func (r *fakeRepo) InsertScreenings(_ context.Context, screenings []database.InsertScreeningParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.screenErr != nil {
		return r.screenErr
	}
	r.screenings = append(r.screenings, screenings)
	return nil
}

func (r *fakeRepo) UpsertPipelineStatus(_ context.Context, arg database.UpsertPipelineStatusParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, arg.Status)
	return nil
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []Task
	err   error
}

func (q *fakeQueue) Enqueue(_ context.Context, kind string, jobID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, Task{Kind: kind, JobID: jobID})
	return nil
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	events   []string
	payloads []any
	err      error
}

func (b *fakeBroadcaster) Broadcast(event string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	b.payloads = append(b.payloads, payload)
	return b.err
}

func defaultProfile() *ResumeData {
	years := 6.5
	return &ResumeData{
		Name: "Jane Doe",
		ContactDetails: ContactDetails{
			Email: "jane@example.com",
		},
		Experience:         "Backend engineer at Example Corp since 2019.",
		Education:          "BSc Computer Science",
		TotalExperience:    &years,
		ExceptionalAbility: noExceptionalAbility,
		TechStack:          []string{"Go", "Postgres"},
		Skills:             "Go, Postgres, distributed systems",
	}
}

func newJobDescription(id uuid.UUID) database.JobDescription {
	return database.JobDescription{
		ID:          id,
		UserID:      "user-1",
		Title:       "Senior Backend Engineer",
		Description: "Senior backend engineer, Go and Postgres",
	}
}

func newTestPipeline(store *fakeStore, extractor *fakeExtractor, embedder *fakeEmbedder, repo *fakeRepo, queue TaskQueue, notifier Broadcaster) *Pipeline {
	return NewPipeline(store, extractor, embedder, repo, queue, notifier, zap.NewNop(), 4)
}
