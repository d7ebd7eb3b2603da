package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/domain"
	"github.com/liliang-cn/askclinic/internal/llm"
	"github.com/liliang-cn/askclinic/internal/store"
)

// ContextSeparator is placed between segments in the assembled context.
const ContextSeparator = "\n\n---\n\n"

// Retriever finds language-scoped context for a query
type Retriever struct {
	embedder  llm.Embedder
	store     store.VectorStore
	topK      int
	threshold float32
	logger    *zap.Logger
}

// NewRetriever creates a new retriever
func NewRetriever(embedder llm.Embedder, vs store.VectorStore, topK int, threshold float32, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder:  embedder,
		store:     vs,
		topK:      topK,
		threshold: threshold,
		logger:    logger,
	}
}

// Retrieve returns the segments tagged lang that clear the similarity
// threshold. An empty context is a normal result; errors are infrastructure
// faults.
func (r *Retriever) Retrieve(ctx context.Context, query, lang string) (*domain.RetrievedContext, error) {
	vectors, err := r.embedder.Embed(ctx, []string{query}, llm.TaskQuery)
	if err != nil {
		return nil, domain.NewStageError(domain.StageEmbed, err)
	}
	if len(vectors) != 1 {
		return nil, domain.NewStageError(domain.StageEmbed, fmt.Errorf("expected 1 query vector, got %d", len(vectors)))
	}

	results, err := r.store.Search(ctx, vectors[0], lang, r.topK)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrNotInitialized, err)
		}
		return nil, domain.NewStageError(domain.StageRetrieve, err)
	}

	rc := assemble(results, r.threshold)
	r.logger.Info("Context retrieved",
		zap.String("lang", lang),
		zap.Int("candidates", len(results)),
		zap.Int("sources", len(rc.Sources)),
		zap.Bool("empty", rc.Empty()),
	)
	return rc, nil
}

// assemble drops results under threshold, joins the rest and collects
// their source URLs once each in first-seen order.
func assemble(results []domain.ScoredSegment, threshold float32) *domain.RetrievedContext {
	rc := &domain.RetrievedContext{Sources: []domain.Source{}}

	var texts []string
	seen := make(map[string]struct{})
	for _, r := range results {
		if r.Score < threshold {
			continue
		}
		texts = append(texts, r.Text)
		if r.Source == "" {
			continue
		}
		if _, ok := seen[r.Source]; ok {
			continue
		}
		seen[r.Source] = struct{}{}
		rc.Sources = append(rc.Sources, domain.Source{URL: r.Source})
	}

	rc.Text = strings.Join(texts, ContextSeparator)
	return rc
}
