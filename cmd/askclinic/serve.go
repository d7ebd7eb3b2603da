package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/api"
	"github.com/liliang-cn/askclinic/internal/api/middleware"
	"github.com/liliang-cn/askclinic/internal/config"
	"github.com/liliang-cn/askclinic/internal/language"
	"github.com/liliang-cn/askclinic/internal/repository"
	"github.com/liliang-cn/askclinic/internal/service"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the chat server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	cfg, logger, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Store.Backend == config.StoreChromem {
		if _, err := os.Stat(cfg.Store.Path); err != nil {
			logger.Error("Vector store path is not available; run ingest first", zap.String("path", cfg.Store.Path), zap.Error(err))
			return fmt.Errorf("vector store path: %w", err)
		}
	}

	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Error("Failed to initialize database", zap.Error(err))
		return err
	}
	defer db.Close()
	queryRepo := repository.NewQueryRepository(db)

	system := service.NewRAGSystem(newOpener(cfg, logger), service.RetrievalSettings{
		TopK:      cfg.RAG.TopK,
		Threshold: cfg.RAG.ScoreThreshold,
	}, logger)
	// Warm up eagerly; a failure here is retried on the first request.
	if _, err := system.EnsureReady(ctx); err != nil {
		logger.Warn("RAG system not ready at startup", zap.Error(err))
	}

	classifier := language.NewClassifier(
		language.NewLinguaDetector(language.LinguaOptions{
			LowAccuracy: cfg.RAG.DetectorLowAccuracy,
			Preload:     cfg.RAG.DetectorPreload,
		}),
		cfg.RAG.SupportedLanguages,
		cfg.RAG.FallbackLanguage,
		logger,
	)

	chatService := service.NewChatService(system, classifier, queryRepo, logger)
	adminService := service.NewAdminService(queryRepo, system, logger)

	routerCfg := api.RouterConfig{
		APIKey:       cfg.Admin.APIKey,
		AllowOrigins: cfg.Server.AllowOrigins,
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerHour, cfg.RateLimit.Burst)
		sweepCtx, stopSweep := context.WithCancel(ctx)
		defer stopSweep()
		go limiter.Run(sweepCtx, time.Minute)
		routerCfg.RateLimit = limiter
	}
	if cfg.Admin.APIKey == "" {
		logger.Warn("Admin API key not set; /api/admin is open")
	}

	ready := func(ctx context.Context) error {
		_, err := system.EnsureReady(ctx)
		return err
	}
	router := api.SetupRouter(chatService, adminService, ready, logger, routerCfg)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting AskClinic server",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Backend),
			zap.String("collection", cfg.Store.Collection),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("Failed to start server", zap.Error(err))
		return err
	case <-quit:
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := system.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to close vector store", zap.Error(err))
	}

	logger.Info("Server exited")
	return nil
}
