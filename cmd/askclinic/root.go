package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/config"
	"github.com/liliang-cn/askclinic/internal/llm/gemini"
	"github.com/liliang-cn/askclinic/internal/logger"
	"github.com/liliang-cn/askclinic/internal/service"
	"github.com/liliang-cn/askclinic/internal/store"
)

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "askclinic",
		Short:        "Multilingual RAG assistant for the clinic website",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	cmd.AddCommand(
		newServeCommand(&configPath),
		newIngestCommand(&configPath),
	)
	return cmd
}

// bootstrap loads and validates the configuration and builds the logger.
func bootstrap(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func geminiConfig(cfg *config.Config) gemini.Config {
	return gemini.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		EmbedDimension: cfg.LLM.EmbedDimension,
		ChatModel:      cfg.LLM.ChatModel,
		Temperature:    cfg.LLM.Temperature,
		Timeout:        cfg.LLM.Timeout,
		BatchSize:      cfg.LLM.BatchSize,
	}
}

// newOpener returns the collaborator factory used by the serving path.
func newOpener(cfg *config.Config, log *zap.Logger) service.Opener {
	return func(ctx context.Context) (*service.Components, error) {
		client, err := gemini.New(ctx, geminiConfig(cfg), log)
		if err != nil {
			return nil, err
		}
		vs, err := store.Open(ctx, cfg.Store, cfg.LLM.EmbedDimension, log)
		if err != nil {
			return nil, err
		}
		return &service.Components{Embedder: client, Generator: client, Store: vs}, nil
	}
}
