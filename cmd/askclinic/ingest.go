package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/chunker"
	"github.com/liliang-cn/askclinic/internal/extractor"
	"github.com/liliang-cn/askclinic/internal/llm/gemini"
	"github.com/liliang-cn/askclinic/internal/service"
	"github.com/liliang-cn/askclinic/internal/store"
)

func newIngestCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Scrape the clinic pages and build the vector collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runIngest(ctx, *configPath)
		},
	}
}

func runIngest(ctx context.Context, configPath string) error {
	cfg, logger, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, err := gemini.New(ctx, geminiConfig(cfg), logger)
	if err != nil {
		logger.Error("Failed to create embedding client", zap.Error(err))
		return err
	}

	vs, err := store.Open(ctx, cfg.Store, cfg.LLM.EmbedDimension, logger)
	if err != nil {
		logger.Error("Failed to open vector store", zap.Error(err))
		return err
	}
	defer vs.Close(context.WithoutCancel(ctx))

	pages := extractor.New(extractor.Config{
		Timeout:          cfg.Ingest.Timeout,
		UserAgent:        cfg.Ingest.UserAgent,
		MinContentLength: cfg.Ingest.MinContentLength,
	}, logger)

	svc := service.NewIngestService(
		pages,
		chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap),
		service.NewIndexBuilder(client, vs, cfg.LLM.BatchSize, logger),
		service.IngestOptions{
			Concurrency:       cfg.Ingest.Concurrency,
			RequestsPerSecond: cfg.Ingest.RequestsPerSecond,
		},
		logger,
	)

	summary, err := svc.Run(ctx, cfg.Ingest.Sources)
	if err != nil {
		logger.Error("Ingestion failed", zap.Error(err))
		return err
	}

	logger.Info("Vector collection written",
		zap.String("backend", cfg.Store.Backend),
		zap.String("collection", cfg.Store.Collection),
		zap.Int("pages", summary.Pages),
		zap.Int("segments", summary.Segments),
	)
	return nil
}
