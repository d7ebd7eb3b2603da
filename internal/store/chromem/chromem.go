// Package chromem stores segments in an embedded, file-persisted chromem-go
// database.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/domain"
)

// Config holds chromem settings
type Config struct {
	Path       string
	Collection string
	Compress   bool
}

// Store is a chromem-backed vector store.
type Store struct {
	cfg    Config
	db     *chromem.DB
	logger *zap.Logger

	mu   sync.RWMutex
	coll *chromem.Collection
}

// errNoEmbedder is returned if chromem is ever asked to embed text itself;
// every document and query arrives with its vector precomputed.
var errNoEmbedder = errors.New("chromem: embeddings must be supplied by the caller")

func noEmbed(context.Context, string) ([]float32, error) {
	return nil, errNoEmbedder
}

// Open loads (or creates) the database directory at cfg.Path.
func Open(cfg Config, logger *zap.Logger) (*Store, error) {
	db, err := chromem.NewPersistentDB(cfg.Path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector database at %s: %w", cfg.Path, err)
	}

	s := &Store{cfg: cfg, db: db, logger: logger}
	s.coll = db.GetCollection(cfg.Collection, noEmbed)

	logger.Info("Vector store opened",
		zap.String("backend", "chromem"),
		zap.String("path", cfg.Path),
		zap.String("collection", cfg.Collection),
		zap.Bool("collection_exists", s.coll != nil),
	)
	return s, nil
}

// EnsureCollection creates the collection if absent.
func (s *Store) EnsureCollection(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.coll != nil {
		return nil
	}
	coll, err := s.db.GetOrCreateCollection(s.cfg.Collection, nil, noEmbed)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	s.coll = coll
	return nil
}

func (s *Store) collection() (*chromem.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.coll == nil {
		return nil, fmt.Errorf("collection %s: %w", s.cfg.Collection, domain.ErrNotFound)
	}
	return s.coll, nil
}

// Upsert adds segments. chromem overwrites documents with an existing ID.
func (s *Store) Upsert(ctx context.Context, segments []domain.Segment, vectors [][]float32) error {
	if len(segments) != len(vectors) {
		return fmt.Errorf("segment/vector count mismatch: %d vs %d", len(segments), len(vectors))
	}
	if len(segments) == 0 {
		return nil
	}
	coll, err := s.collection()
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(segments))
	for i, seg := range segments {
		docs[i] = chromem.Document{
			ID:        seg.ID,
			Metadata:  seg.Metadata(),
			Embedding: vectors[i],
			Content:   seg.Text,
		}
	}
	if err := coll.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

// Search queries the collection filtered on the lang tag.
func (s *Store) Search(ctx context.Context, vector []float32, lang string, k int) ([]domain.ScoredSegment, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}

	// chromem rejects k larger than the collection.
	k = min(k, coll.Count())
	if k <= 0 {
		return nil, nil
	}

	var where map[string]string
	if lang != "" {
		where = map[string]string{domain.MetadataKeyLang: lang}
	}

	results, err := coll.QueryEmbedding(ctx, vector, k, where, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	out := make([]domain.ScoredSegment, 0, len(results))
	for _, r := range results {
		out = append(out, domain.ScoredSegment{
			Segment: domain.Segment{
				ID:     r.ID,
				Text:   r.Content,
				Source: r.Metadata[domain.MetadataKeySource],
				Lang:   r.Metadata[domain.MetadataKeyLang],
			},
			Score: r.Similarity,
		})
	}
	return out, nil
}

// Count returns the number of documents in the collection.
func (s *Store) Count(_ context.Context) (int64, error) {
	coll, err := s.collection()
	if err != nil {
		return 0, err
	}
	return int64(coll.Count()), nil
}

// Close is a no-op; every write is persisted as it happens.
func (s *Store) Close(_ context.Context) error {
	return nil
}
