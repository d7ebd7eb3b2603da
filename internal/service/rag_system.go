package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/domain"
	"github.com/liliang-cn/askclinic/internal/llm"
	"github.com/liliang-cn/askclinic/internal/store"
)

// Components are the long-lived collaborator handles of the serving path
type Components struct {
	Embedder  llm.Embedder
	Generator llm.Generator
	Store     store.VectorStore
}

// Opener builds the collaborator handles. It is called again after a failed
// attempt.
type Opener func(ctx context.Context) (*Components, error)

// Pipeline is a ready retrieval and generation path
type Pipeline struct {
	Retriever *Retriever
	Answerer  *AnswerGenerator
	Store     store.VectorStore
}

// RetrievalSettings configures the retriever built by RAGSystem
type RetrievalSettings struct {
	TopK      int
	Threshold float32
}

// RAGSystem owns the collaborator handles and initializes them at most once
// successfully. A failed initialization is retried on the next call.
type RAGSystem struct {
	open     Opener
	settings RetrievalSettings
	logger   *zap.Logger

	mu       sync.Mutex
	pipeline *Pipeline
	lastErr  error
}

// NewRAGSystem creates an uninitialized system
func NewRAGSystem(open Opener, settings RetrievalSettings, logger *zap.Logger) *RAGSystem {
	return &RAGSystem{open: open, settings: settings, logger: logger}
}

// EnsureReady returns the pipeline, initializing it if needed. Concurrent
// callers wait for a single attempt. Failures wrap domain.ErrNotInitialized.
func (s *RAGSystem) EnsureReady(ctx context.Context) (*Pipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipeline != nil {
		return s.pipeline, nil
	}

	p, err := s.initialize(ctx)
	if err != nil {
		s.lastErr = err
		s.logger.Error("RAG system initialization failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrNotInitialized, err)
	}

	s.pipeline = p
	s.lastErr = nil
	s.logger.Info("RAG system initialized")
	return p, nil
}

func (s *RAGSystem) initialize(ctx context.Context) (*Pipeline, error) {
	c, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	n, err := c.Store.Count(ctx)
	if err == nil && n == 0 {
		err = domain.ErrEmptyCollection
	}
	if err != nil {
		if cerr := c.Store.Close(ctx); cerr != nil {
			s.logger.Warn("Failed to close vector store", zap.Error(cerr))
		}
		return nil, fmt.Errorf("vector collection unavailable: %w", err)
	}

	s.logger.Info("Vector collection loaded", zap.Int64("segments", n))
	return &Pipeline{
		Retriever: NewRetriever(c.Embedder, c.Store, s.settings.TopK, s.settings.Threshold, s.logger),
		Answerer:  NewAnswerGenerator(c.Generator),
		Store:     c.Store,
	}, nil
}

// Invalidate drops p so the next EnsureReady initializes again. It is a no-op
// when p is no longer the cached pipeline.
func (s *RAGSystem) Invalidate(ctx context.Context, p *Pipeline, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil || s.pipeline != p {
		return
	}
	if err := p.Store.Close(ctx); err != nil {
		s.logger.Warn("Failed to close vector store", zap.Error(err))
	}
	s.pipeline = nil
	s.lastErr = cause
	s.logger.Warn("RAG system invalidated", zap.Error(cause))
}

// Ready reports whether initialization has succeeded.
func (s *RAGSystem) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline != nil
}

// LastError returns the error of the most recent failed initialization.
func (s *RAGSystem) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close releases the vector store handle if one is open.
func (s *RAGSystem) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipeline == nil {
		return nil
	}
	err := s.pipeline.Store.Close(ctx)
	s.pipeline = nil
	return err
}

// IsNotReady reports whether err is an initialization failure.
func IsNotReady(err error) bool {
	return errors.Is(err, domain.ErrNotInitialized)
}
