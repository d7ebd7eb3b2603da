package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/domain"
	"github.com/liliang-cn/askclinic/internal/llm"
	"github.com/liliang-cn/askclinic/internal/store"
)

// IndexBuilder embeds segments and writes them to the vector collection
type IndexBuilder struct {
	embedder  llm.Embedder
	store     store.VectorStore
	batchSize int
	logger    *zap.Logger
}

// NewIndexBuilder creates a new index builder
func NewIndexBuilder(embedder llm.Embedder, vs store.VectorStore, batchSize int, logger *zap.Logger) *IndexBuilder {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &IndexBuilder{
		embedder:  embedder,
		store:     vs,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Build creates the collection if needed and upserts segments batch by batch.
// A failure aborts the build; batches already written stay written.
func (b *IndexBuilder) Build(ctx context.Context, segments []domain.Segment) error {
	if len(segments) == 0 {
		return errors.New("no segments to index")
	}

	if err := b.store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to prepare collection: %w", err)
	}

	for start := 0; start < len(segments); start += b.batchSize {
		end := min(start+b.batchSize, len(segments))
		batch := segments[start:end]

		texts := make([]string, len(batch))
		for i, seg := range batch {
			texts[i] = seg.Text
		}

		vectors, err := b.embedder.Embed(ctx, texts, llm.TaskDocument)
		if err != nil {
			return domain.NewStageError(domain.StageEmbed, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedder returned %d vectors for %d segments", len(vectors), len(batch))
		}

		if err := b.store.Upsert(ctx, batch, vectors); err != nil {
			return fmt.Errorf("failed to write segments: %w", err)
		}

		b.logger.Info("Indexed batch",
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int("total", len(segments)),
		)
	}

	return nil
}
