// Package store defines the vector collection the RAG pipeline reads and
// the ingestion job writes.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/config"
	"github.com/liliang-cn/askclinic/internal/domain"
	"github.com/liliang-cn/askclinic/internal/store/chromem"
	"github.com/liliang-cn/askclinic/internal/store/milvus"
)

// VectorStore is a named collection of embedded segments.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context) error

	// Upsert writes segments with their vectors. Existing IDs are replaced.
	Upsert(ctx context.Context, segments []domain.Segment, vectors [][]float32) error

	// Search returns up to k segments tagged with lang, most similar first.
	// Scores are cosine similarities, higher is closer.
	Search(ctx context.Context, vector []float32, lang string, k int) ([]domain.ScoredSegment, error)

	// Count returns the number of stored segments, or domain.ErrNotFound
	// when the collection does not exist.
	Count(ctx context.Context) (int64, error)

	Close(ctx context.Context) error
}

var (
	_ VectorStore = (*chromem.Store)(nil)
	_ VectorStore = (*milvus.Store)(nil)
)

// Open connects to the configured backend.
func Open(ctx context.Context, cfg config.StoreConfig, dim int, logger *zap.Logger) (VectorStore, error) {
	switch cfg.Backend {
	case config.StoreChromem:
		return chromem.Open(chromem.Config{
			Path:       cfg.Path,
			Collection: cfg.Collection,
			Compress:   cfg.Compress,
		}, logger)
	case config.StoreMilvus:
		return milvus.Open(ctx, milvus.Config{
			Address:    cfg.Milvus.Address,
			Username:   cfg.Milvus.Username,
			Password:   cfg.Milvus.Password,
			Database:   cfg.Milvus.Database,
			Collection: cfg.Collection,
			Dimension:  dim,
			Timeout:    cfg.Timeout,
		}, logger)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
