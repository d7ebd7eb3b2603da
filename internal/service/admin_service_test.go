package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/domain"
)

func TestAdminListQueries(t *testing.T) {
	audit := &fakeAudit{}
	for i := 0; i < 60; i++ {
		outcome := domain.OutcomeAnswered
		if i%2 == 0 {
			outcome = domain.OutcomeNoContext
		}
		audit.queries = append(audit.queries, &domain.QueryRecord{Query: "q", Outcome: outcome})
	}
	svc := NewAdminService(audit, nil, zap.NewNop())

	all, err := svc.ListQueries(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Len(t, all, defaultQueryLimit)

	noContext, err := svc.ListQueries(context.Background(), 1000, domain.OutcomeNoContext)
	require.NoError(t, err)
	assert.Len(t, noContext, 30)
}

func TestAdminStats(t *testing.T) {
	audit := &fakeAudit{queries: []*domain.QueryRecord{{Query: "q"}}}
	vs := &fakeStore{exists: true, segments: make([]domain.Segment, 7)}
	open := func(context.Context) (*Components, error) {
		return &Components{Embedder: &fakeEmbedder{}, Generator: &fakeGenerator{}, Store: vs}, nil
	}
	system := NewRAGSystem(open, RetrievalSettings{TopK: 3}, zap.NewNop())

	stats, err := NewAdminService(audit, system, zap.NewNop()).GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalQueries)
	assert.Equal(t, int64(7), stats.Segments)
}

func TestAdminStatsWithoutCollection(t *testing.T) {
	open := func(context.Context) (*Components, error) {
		return nil, errors.New("no key")
	}
	system := NewRAGSystem(open, RetrievalSettings{TopK: 3}, zap.NewNop())

	stats, err := NewAdminService(&fakeAudit{}, system, zap.NewNop()).GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Segments)
}
