package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/domain"
	"github.com/liliang-cn/askclinic/internal/llm"
)

func TestAssemble(t *testing.T) {
	tests := []struct {
		name        string
		results     []domain.ScoredSegment
		wantText    string
		wantSources []domain.Source
	}{
		{
			name:        "nothing",
			wantSources: []domain.Source{},
		},
		{
			name: "all below threshold",
			results: []domain.ScoredSegment{
				seg("1", "a", "https://c/1", "en", 0.64),
				seg("2", "b", "https://c/2", "en", 0.10),
			},
			wantSources: []domain.Source{},
		},
		{
			name: "threshold is inclusive",
			results: []domain.ScoredSegment{
				seg("1", "a", "https://c/1", "en", 0.65),
			},
			wantText:    "a",
			wantSources: []domain.Source{{URL: "https://c/1"}},
		},
		{
			name: "duplicate urls collapse in order",
			results: []domain.ScoredSegment{
				seg("1", "first", "https://c/implants", "en", 0.91),
				seg("2", "second", "https://c/veneers", "en", 0.85),
				seg("3", "third", "https://c/implants", "en", 0.80),
			},
			wantText:    "first" + ContextSeparator + "second" + ContextSeparator + "third",
			wantSources: []domain.Source{{URL: "https://c/implants"}, {URL: "https://c/veneers"}},
		},
		{
			name: "low scores dropped between kept ones",
			results: []domain.ScoredSegment{
				seg("1", "kept", "https://c/1", "en", 0.9),
				seg("2", "dropped", "https://c/2", "en", 0.3),
			},
			wantText:    "kept",
			wantSources: []domain.Source{{URL: "https://c/1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := assemble(tt.results, 0.65)
			assert.Equal(t, tt.wantText, rc.Text)
			assert.Equal(t, tt.wantSources, rc.Sources)
			assert.Equal(t, tt.wantText == "", rc.Empty())
		})
	}
}

func TestRetrieve(t *testing.T) {
	embedder := &fakeEmbedder{}
	vs := &fakeStore{exists: true, results: []domain.ScoredSegment{
		seg("1", "Implants", "https://c/en/implants", "en", 0.9),
		seg("2", "Implantes", "https://c/es/implantes", "es", 0.9),
	}}
	r := NewRetriever(embedder, vs, 3, 0.65, zap.NewNop())

	rc, err := r.Retrieve(context.Background(), "implants?", "es")
	require.NoError(t, err)
	assert.Equal(t, "Implantes", rc.Text)
	assert.Equal(t, []string{"es"}, vs.searches)
	assert.Equal(t, []llm.EmbedTask{llm.TaskQuery}, embedder.tasks)
}

func TestRetrieveErrors(t *testing.T) {
	t.Run("embed failure", func(t *testing.T) {
		r := NewRetriever(&fakeEmbedder{err: errors.New("bad key")}, &fakeStore{exists: true}, 3, 0.65, zap.NewNop())
		_, err := r.Retrieve(context.Background(), "q", "en")

		var se *domain.StageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, domain.StageEmbed, se.Stage)
	})

	t.Run("search timeout", func(t *testing.T) {
		vs := &fakeStore{exists: true, searchErr: fmt.Errorf("query: %w", context.DeadlineExceeded)}
		r := NewRetriever(&fakeEmbedder{}, vs, 3, 0.65, zap.NewNop())
		_, err := r.Retrieve(context.Background(), "q", "en")

		var se *domain.StageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, domain.StageRetrieve, se.Stage)
		assert.Equal(t, domain.KindTimeout, se.Kind)
		assert.False(t, IsNotReady(err))
	})

	t.Run("missing collection", func(t *testing.T) {
		vs := &fakeStore{searchErr: fmt.Errorf("collection x: %w", domain.ErrNotFound)}
		r := NewRetriever(&fakeEmbedder{}, vs, 3, 0.65, zap.NewNop())
		_, err := r.Retrieve(context.Background(), "q", "en")

		assert.True(t, IsNotReady(err))
	})
}
