package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/liliang-cn/askclinic/internal/chunker"
	"github.com/liliang-cn/askclinic/internal/domain"
)

// ErrNoDocuments is returned when no page yielded usable content.
var ErrNoDocuments = errors.New("no documents were extracted from any source")

// PageExtractor returns the cleaned text of a page, or "" to skip it
type PageExtractor interface {
	Extract(ctx context.Context, url string) string
}

// IngestOptions controls fetch parallelism
type IngestOptions struct {
	Concurrency       int
	RequestsPerSecond float64
}

// IngestSummary reports what an ingestion run produced
type IngestSummary struct {
	Pages        int            `json:"pages"`
	PagesSkipped int            `json:"pages_skipped"`
	Segments     int            `json:"segments"`
	ByLanguage   map[string]int `json:"by_language"`
	Duration     time.Duration  `json:"duration"`
}

// IngestService runs the offline scrape, chunk and index job
type IngestService struct {
	extractor PageExtractor
	splitter  *chunker.Splitter
	builder   *IndexBuilder
	opts      IngestOptions
	logger    *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(
	extractor PageExtractor,
	splitter *chunker.Splitter,
	builder *IndexBuilder,
	opts IngestOptions,
	logger *zap.Logger,
) *IngestService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &IngestService{
		extractor: extractor,
		splitter:  splitter,
		builder:   builder,
		opts:      opts,
		logger:    logger,
	}
}

type page struct {
	url  string
	lang string
	text string
}

// Run fetches every source, splits the pages into segments and indexes them.
// Nothing is written when no page produced content.
func (s *IngestService) Run(ctx context.Context, sources map[string][]string) (*IngestSummary, error) {
	start := time.Now()
	summary := &IngestSummary{ByLanguage: map[string]int{}}

	pages := s.fetch(ctx, sources)
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	var segments []domain.Segment
	for _, p := range pages {
		if p.text == "" {
			summary.PagesSkipped++
			continue
		}
		summary.Pages++
		segs := s.splitter.Chunk(p.text, p.url, p.lang)
		summary.ByLanguage[p.lang] += len(segs)
		segments = append(segments, segs...)
	}
	summary.Segments = len(segments)

	if len(segments) == 0 {
		summary.Duration = time.Since(start)
		s.logger.Error("Ingestion produced no documents",
			zap.Int("pages_skipped", summary.PagesSkipped))
		return summary, ErrNoDocuments
	}

	s.logger.Info("Pages split into segments",
		zap.Int("pages", summary.Pages),
		zap.Int("pages_skipped", summary.PagesSkipped),
		zap.Int("segments", summary.Segments),
	)

	if err := s.builder.Build(ctx, segments); err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}

	summary.Duration = time.Since(start)
	s.logger.Info("Ingestion completed",
		zap.Int("segments", summary.Segments),
		zap.Any("by_language", summary.ByLanguage),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// fetch downloads every source with bounded parallelism. The result keeps
// the input order: languages sorted, URLs as listed.
func (s *IngestService) fetch(ctx context.Context, sources map[string][]string) []page {
	var pages []page
	for _, lang := range slices.Sorted(maps.Keys(sources)) {
		for _, url := range sources[lang] {
			pages = append(pages, page{url: url, lang: lang})
		}
	}

	limit := rate.Inf
	if s.opts.RequestsPerSecond > 0 {
		limit = rate.Limit(s.opts.RequestsPerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i := range pages {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			s.logger.Info("Fetching page",
				zap.String("lang", pages[i].lang),
				zap.String("url", pages[i].url),
			)
			pages[i].text = s.extractor.Extract(gctx, pages[i].url)
			return nil
		})
	}
	// Only context cancellation surfaces here; the caller checks ctx.
	_ = g.Wait()

	return pages
}
