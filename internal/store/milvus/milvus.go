// Package milvus stores segments in a Milvus collection.
package milvus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/domain"
)

const (
	fieldID        = "id"
	fieldEmbedding = "embedding"
	fieldText      = "text"
	fieldSource    = domain.MetadataKeySource
	fieldLang      = domain.MetadataKeyLang
)

var outputFields = []string{fieldID, fieldText, fieldSource, fieldLang}

// Config holds milvus connection settings
type Config struct {
	Address    string
	Username   string
	Password   string
	Database   string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

// Store is a milvus-backed vector store.
type Store struct {
	cfg    Config
	client *milvusclient.Client
	logger *zap.Logger
}

// Open connects to milvus.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	c, err := milvusclient.New(dialCtx, &milvusclient.ClientConfig{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	logger.Info("Vector store opened",
		zap.String("backend", "milvus"),
		zap.String("address", cfg.Address),
		zap.String("collection", cfg.Collection),
	)
	return &Store{cfg: cfg, client: c, logger: logger}, nil
}

// EnsureCollection creates, indexes and loads the collection if absent.
func (s *Store) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(s.cfg.Collection))
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return s.load(ctx)
	}
	if s.cfg.Dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", s.cfg.Dimension)
	}

	schema := entity.NewSchema().
		WithName(s.cfg.Collection).
		WithDescription("clinic knowledge segments").
		WithField(entity.NewField().
			WithName(fieldID).
			WithDataType(entity.FieldTypeVarChar).
			WithIsPrimaryKey(true).
			WithMaxLength(64)).
		WithField(entity.NewField().
			WithName(fieldEmbedding).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(s.cfg.Dimension))).
		WithField(entity.NewField().
			WithName(fieldText).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(65535)).
		WithField(entity.NewField().
			WithName(fieldSource).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(2048)).
		WithField(entity.NewField().
			WithName(fieldLang).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(16))

	if err := s.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(s.cfg.Collection, schema)); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	idx := index.NewIvfFlatIndex(entity.COSINE, 128)
	idxTask, err := s.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(s.cfg.Collection, fieldEmbedding, idx))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if err := idxTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for index creation: %w", err)
	}

	s.logger.Info("Milvus collection created",
		zap.String("collection", s.cfg.Collection),
		zap.Int("dimension", s.cfg.Dimension),
	)
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) error {
	loadTask, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(s.cfg.Collection))
	if err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for collection loading: %w", err)
	}
	return nil
}

// Upsert writes segments keyed by ID and flushes them.
func (s *Store) Upsert(ctx context.Context, segments []domain.Segment, vectors [][]float32) error {
	if len(segments) != len(vectors) {
		return fmt.Errorf("segment/vector count mismatch: %d vs %d", len(segments), len(vectors))
	}
	if len(segments) == 0 {
		return nil
	}

	n := len(segments)
	ids := make([]string, n)
	texts := make([]string, n)
	sources := make([]string, n)
	langs := make([]string, n)
	for i, seg := range segments {
		ids[i] = seg.ID
		texts[i] = seg.Text
		sources[i] = seg.Source
		langs[i] = seg.Lang
	}

	opt := milvusclient.NewColumnBasedInsertOption(s.cfg.Collection,
		column.NewColumnVarChar(fieldID, ids),
		column.NewColumnFloatVector(fieldEmbedding, len(vectors[0]), vectors),
		column.NewColumnVarChar(fieldText, texts),
		column.NewColumnVarChar(fieldSource, sources),
		column.NewColumnVarChar(fieldLang, langs),
	)
	if _, err := s.client.Upsert(ctx, opt); err != nil {
		return fmt.Errorf("failed to upsert into milvus: %w", err)
	}

	flushTask, err := s.client.Flush(ctx, milvusclient.NewFlushOption(s.cfg.Collection))
	if err != nil {
		return fmt.Errorf("failed to flush collection: %w", err)
	}
	if err := flushTask.Await(ctx); err != nil {
		return fmt.Errorf("failed to wait for flush: %w", err)
	}
	return nil
}

// Search runs a filtered ANN search.
func (s *Store) Search(ctx context.Context, vector []float32, lang string, k int) ([]domain.ScoredSegment, error) {
	if k <= 0 {
		return nil, nil
	}

	opt := milvusclient.NewSearchOption(s.cfg.Collection, k, []entity.Vector{entity.FloatVector(vector)}).
		WithANNSField(fieldEmbedding).
		WithSearchParam("nprobe", "16").
		WithOutputFields(outputFields...)
	if lang != "" {
		opt = opt.WithFilter(langFilter(lang))
	}

	results, err := s.client.Search(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return parseResults(results[0].ResultCount, results[0].Scores, results[0].Fields), nil
}

// Count returns the collection row count.
func (s *Store) Count(ctx context.Context) (int64, error) {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(s.cfg.Collection))
	if err != nil {
		return 0, fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("collection %s: %w", s.cfg.Collection, domain.ErrNotFound)
	}

	stats, err := s.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(s.cfg.Collection))
	if err != nil {
		return 0, fmt.Errorf("failed to get collection stats: %w", err)
	}
	if val, ok := stats["row_count"]; ok {
		return strconv.ParseInt(val, 10, 64)
	}
	return 0, nil
}

// Close closes the client connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func langFilter(lang string) string {
	return fmt.Sprintf("%s == %s", fieldLang, strconv.Quote(lang))
}

func parseResults(count int, scores []float32, fields []column.Column) []domain.ScoredSegment {
	out := make([]domain.ScoredSegment, 0, count)
	for i := 0; i < count && i < len(scores); i++ {
		seg := domain.ScoredSegment{Score: scores[i]}
		for _, field := range fields {
			col, ok := field.(*column.ColumnVarChar)
			if !ok || i >= len(col.Data()) {
				continue
			}
			v := col.Data()[i]
			switch col.Name() {
			case fieldID:
				seg.ID = v
			case fieldText:
				seg.Text = v
			case fieldSource:
				seg.Source = v
			case fieldLang:
				seg.Lang = v
			}
		}
		out = append(out, seg)
	}
	return out
}
