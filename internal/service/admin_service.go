package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/domain"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 500
)

// AuditReader reads the serving-path audit trail
type AuditReader interface {
	ListQueries(ctx context.Context, limit int, outcome domain.Outcome) ([]*domain.QueryRecord, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

// AdminService handles admin operations
type AdminService struct {
	audit  AuditReader
	system *RAGSystem
	logger *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(audit AuditReader, system *RAGSystem, logger *zap.Logger) *AdminService {
	return &AdminService{audit: audit, system: system, logger: logger}
}

// ListQueries returns recent queries, newest first
func (s *AdminService) ListQueries(ctx context.Context, limit int, outcome domain.Outcome) ([]*domain.QueryRecord, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	limit = min(limit, maxQueryLimit)
	return s.audit.ListQueries(ctx, limit, outcome)
}

// GetStats aggregates the audit trail and the collection size.
func (s *AdminService) GetStats(ctx context.Context) (*domain.Stats, error) {
	stats, err := s.audit.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.system == nil {
		return stats, nil
	}
	p, err := s.system.EnsureReady(ctx)
	if err != nil {
		// Stats stay useful without the collection.
		s.logger.Warn("Collection size unavailable", zap.Error(err))
		return stats, nil
	}
	n, err := p.Store.Count(ctx)
	if err != nil {
		s.logger.Warn("Failed to count segments", zap.Error(err))
		return stats, nil
	}
	stats.Segments = n
	return stats, nil
}
