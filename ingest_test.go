package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hireloop/screeningworker/internal/database"
)

func newRepoWithJob(jobID uuid.UUID) *fakeRepo {
	return &fakeRepo{
		jds: map[uuid.UUID]database.JobDescription{
			jobID: newJobDescription(jobID),
		},
	}
}

func TestProcessJobMissingJobDescriptionFailsFast(t *testing.T) {
	store := &fakeStore{files: map[string][]byte{}}
	repo := &fakeRepo{}
	p := newTestPipeline(store, &fakeExtractor{}, &fakeEmbedder{}, repo, &fakeQueue{}, &fakeBroadcaster{})

	_, err := p.ProcessJob(context.Background(), uuid.New())
	if !errors.Is(err, ErrJobDescriptionNotFound) {
		t.Fatalf("expected ErrJobDescriptionNotFound, got %v", err)
	}
	if store.listCalls != 0 {
		t.Fatalf("expected no storage calls, got %d", store.listCalls)
	}
}

func TestProcessJobNoFiles(t *testing.T) {
	jobID := uuid.New()
	store := &fakeStore{files: map[string][]byte{
		"other-job-resume.txt": []byte("not ours"),
	}}
	repo := newRepoWithJob(jobID)
	p := newTestPipeline(store, &fakeExtractor{}, &fakeEmbedder{}, repo, &fakeQueue{}, &fakeBroadcaster{})

	ids, err := p.ProcessJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no candidate ids, got %d", len(ids))
	}
	if len(repo.inserts) != 0 {
		t.Fatalf("expected no insert, got %d batches", len(repo.inserts))
	}
}

func TestProcessJobIngestsAllFiles(t *testing.T) {
	jobID := uuid.New()
	store := &fakeStore{files: map[string][]byte{
		jobID.String() + "-alice.txt": []byte("alice resume"),
		jobID.String() + "-bob.txt":   []byte("bob resume"),
		jobID.String() + "-carol.txt": []byte("carol resume"),
		"unrelated-key.txt":           []byte("someone else"),
	}}
	repo := newRepoWithJob(jobID)
	embedder := &fakeEmbedder{}
	extractor := &fakeExtractor{}
	p := newTestPipeline(store, extractor, embedder, repo, &fakeQueue{}, &fakeBroadcaster{})

	ids, err := p.ProcessJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 candidate ids, got %d", len(ids))
	}
	if len(repo.inserts) != 1 {
		t.Fatalf("expected exactly one batch insert, got %d", len(repo.inserts))
	}
	if len(repo.inserts[0]) != 3 {
		t.Fatalf("expected batch of 3, got %d", len(repo.inserts[0]))
	}
	if extractor.calls != 3 || embedder.calls != 3 {
		t.Fatalf("expected 3 extractor and embedder calls, got %d and %d", extractor.calls, embedder.calls)
	}

	for _, c := range repo.inserts[0] {
		if !strings.HasPrefix(c.ResumeURL, jobID.String()+"-") {
			t.Fatalf("candidate resume url %q missing job prefix", c.ResumeURL)
		}
		if c.ResumeHash != "" {
			t.Fatalf("expected empty resume hash placeholder, got %q", c.ResumeHash)
		}
		if len(c.Embedding) == 0 {
			t.Fatalf("expected candidate embedding to be populated")
		}
	}
}

func TestProcessJobSkipsFailedFiles(t *testing.T) {
	jobID := uuid.New()
	store := &fakeStore{files: map[string][]byte{
		jobID.String() + "-good.txt":   []byte("good resume"),
		jobID.String() + "-broken.txt": []byte("broken resume"),
	}}
	repo := newRepoWithJob(jobID)
	extractor := &fakeExtractor{fn: func(text string) (*ResumeData, error) {
		if strings.Contains(text, "broken") {
			return nil, errors.New("malformed generation output")
		}
		return defaultProfile(), nil
	}}
	p := newTestPipeline(store, extractor, &fakeEmbedder{}, repo, &fakeQueue{}, &fakeBroadcaster{})

	ids, err := p.ProcessJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("expected failed file to be skipped, got error: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 candidate id, got %d", len(ids))
	}
	if len(repo.inserts) != 1 || len(repo.inserts[0]) != 1 {
		t.Fatalf("expected a batch of 1 surviving candidate")
	}
	if repo.inserts[0][0].ResumeURL != jobID.String()+"-good.txt" {
		t.Fatalf("wrong candidate survived: %q", repo.inserts[0][0].ResumeURL)
	}
}

func TestProcessJobAllFilesFailed(t *testing.T) {
	jobID := uuid.New()
	store := &fakeStore{files: map[string][]byte{
		jobID.String() + "-a.txt": []byte("a"),
		jobID.String() + "-b.txt": []byte("b"),
	}}
	repo := newRepoWithJob(jobID)
	extractor := &fakeExtractor{fn: func(string) (*ResumeData, error) {
		return nil, errors.New("generation error")
	}}
	p := newTestPipeline(store, extractor, &fakeEmbedder{}, repo, &fakeQueue{}, &fakeBroadcaster{})

	ids, err := p.ProcessJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %d", len(ids))
	}
	if len(repo.inserts) != 0 {
		t.Fatalf("expected no insert for an empty batch")
	}
}

func TestProcessJobSearchTextIncludesRankingFields(t *testing.T) {
	jobID := uuid.New()
	store := &fakeStore{files: map[string][]byte{
		jobID.String() + "-jane.txt": []byte("jane resume"),
	}}
	repo := newRepoWithJob(jobID)
	embedder := &fakeEmbedder{}
	p := newTestPipeline(store, &fakeExtractor{}, embedder, repo, &fakeQueue{}, &fakeBroadcaster{})

	if _, err := p.ProcessJob(context.Background(), jobID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embedder.inputs) != 1 {
		t.Fatalf("expected one embedding call, got %d", len(embedder.inputs))
	}

	input := embedder.inputs[0]
	profile := defaultProfile()
	for _, want := range []string{profile.Experience, profile.Skills, "Go, Postgres"} {
		if !strings.Contains(input, want) {
			t.Fatalf("embedding input missing %q: %s", want, input)
		}
	}
}

func TestBuildSearchText(t *testing.T) {
	profile := &ResumeData{
		Experience: "exp",
		Skills:     "skills",
		TechStack:  []string{"Go", "Redis"},
	}
	got := buildSearchText(profile)
	want := "exp\nskills\nGo, Redis"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
