package service

import (
	"context"
	"errors"
	"sync"

	"github.com/liliang-cn/askclinic/internal/domain"
	"github.com/liliang-cn/askclinic/internal/llm"
)

type fakeEmbedder struct {
	mu    sync.Mutex
	calls [][]string
	tasks []llm.EmbedTask
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string, task llm.EmbedTask) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, texts)
	f.tasks = append(f.tasks, task)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeGenerator struct {
	prompts []string
	reply   string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeStore struct {
	mu        sync.Mutex
	exists    bool
	segments  []domain.Segment
	results   []domain.ScoredSegment
	searchErr error
	countErr  error
	searches  []string
	closed    int
}

func (f *fakeStore) EnsureCollection(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exists = true
	return nil
}

func (f *fakeStore) Upsert(_ context.Context, segments []domain.Segment, vectors [][]float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(segments) != len(vectors) {
		return errors.New("mismatch")
	}
	f.segments = append(f.segments, segments...)
	return nil
}

func (f *fakeStore) Search(_ context.Context, _ []float32, lang string, k int) ([]domain.ScoredSegment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, lang)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []domain.ScoredSegment
	for _, r := range f.results {
		if r.Lang == lang && len(out) < k {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	if !f.exists {
		return 0, domain.ErrNotFound
	}
	return int64(len(f.segments) + len(f.results)), nil
}

func (f *fakeStore) Close(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

type fakeClassifier struct {
	lang string
}

func (f fakeClassifier) Classify(string) string { return f.lang }

type fakeAudit struct {
	mu      sync.Mutex
	queries []*domain.QueryRecord
	logs    []*domain.ClientLog
	err     error
}

func (f *fakeAudit) RecordQuery(_ context.Context, rec *domain.QueryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, rec)
	return f.err
}

func (f *fakeAudit) RecordClientLog(_ context.Context, entry *domain.ClientLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, entry)
	return f.err
}

func (f *fakeAudit) ListQueries(_ context.Context, limit int, outcome domain.Outcome) ([]*domain.QueryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.QueryRecord
	for _, q := range f.queries {
		if outcome != "" && q.Outcome != outcome {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, q)
	}
	return out, f.err
}

func (f *fakeAudit) Stats(context.Context) (*domain.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Stats{
		TotalQueries: len(f.queries),
		ByOutcome:    map[domain.Outcome]int{},
		ByLanguage:   map[string]int{},
		ClientLogs:   len(f.logs),
	}, nil
}

type fakeExtractor struct {
	mu    sync.Mutex
	pages map[string]string
	seen  []string
}

func (f *fakeExtractor) Extract(_ context.Context, url string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, url)
	return f.pages[url]
}

func seg(id, text, source, lang string, score float32) domain.ScoredSegment {
	return domain.ScoredSegment{
		Segment: domain.Segment{ID: id, Text: text, Source: source, Lang: lang},
		Score:   score,
	}
}
