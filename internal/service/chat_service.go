package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/liliang-cn/askclinic/internal/domain"
)

// LanguageClassifier maps a query to a supported language code
type LanguageClassifier interface {
	Classify(query string) string
}

// AuditRecorder persists the serving-path audit trail
type AuditRecorder interface {
	RecordQuery(ctx context.Context, rec *domain.QueryRecord) error
	RecordClientLog(ctx context.Context, entry *domain.ClientLog) error
}

// ChatService answers clinic questions from the vector collection
type ChatService struct {
	system     *RAGSystem
	classifier LanguageClassifier
	audit      AuditRecorder
	logger     *zap.Logger
}

// NewChatService creates a new chat service. audit may be nil.
func NewChatService(system *RAGSystem, classifier LanguageClassifier, audit AuditRecorder, logger *zap.Logger) *ChatService {
	return &ChatService{
		system:     system,
		classifier: classifier,
		audit:      audit,
		logger:     logger,
	}
}

// Chat runs one request through the pipeline. Expected outcomes (answered,
// no context) come back as a result; everything else is an error:
// domain.ErrNotInitialized, domain.ErrEmptyQuery or a *domain.StageError.
func (s *ChatService) Chat(ctx context.Context, query string) (*domain.ChatResult, error) {
	start := time.Now()
	rec := &domain.QueryRecord{Query: query}
	defer func() {
		rec.Latency = time.Since(start)
		s.record(ctx, rec)
	}()

	pipeline, err := s.system.EnsureReady(ctx)
	if err != nil {
		rec.Outcome, rec.Error = domain.OutcomeFailed, err.Error()
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		rec.Outcome = domain.OutcomeRejected
		return nil, domain.ErrEmptyQuery
	}

	s.logger.Info("New query", zap.String("query", query))

	lang := s.classifier.Classify(query)
	rec.Lang = lang

	rc, err := pipeline.Retriever.Retrieve(ctx, query, lang)
	if err != nil {
		rec.Outcome, rec.Error = domain.OutcomeFailed, err.Error()
		s.logger.Error("Retrieval failed", zap.String("lang", lang), zap.Error(err))
		if IsNotReady(err) {
			s.system.Invalidate(context.WithoutCancel(ctx), pipeline, err)
		}
		return nil, err
	}

	result := &domain.ChatResult{Lang: lang, Sources: rc.Sources}
	if rc.Empty() {
		result.Outcome = domain.OutcomeNoContext
		result.Text = domain.Refusal(lang)
	} else {
		text, err := pipeline.Answerer.Answer(ctx, query, rc.Text, lang)
		if err != nil {
			rec.Outcome, rec.Error = domain.OutcomeFailed, err.Error()
			s.logger.Error("Generation failed", zap.String("lang", lang), zap.Error(err))
			return nil, err
		}
		result.Outcome = domain.OutcomeAnswered
		result.Text = text
		if text == "" {
			result.Outcome = domain.OutcomeNoContext
			result.Text = domain.Refusal(lang)
		}
	}

	rec.Outcome = result.Outcome
	rec.Response = result.Text
	rec.Sources = result.Sources

	s.logger.Info("Query answered",
		zap.String("lang", lang),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("sources", len(result.Sources)),
		zap.Duration("latency", time.Since(start)),
	)
	return result, nil
}

// LogClient writes a front-end log line to the server log and the audit
// trail. It never fails.
func (s *ChatService) LogClient(ctx context.Context, query, status string) {
	if status == "" {
		status = "INFO"
	}
	if status == "ERROR" {
		s.logger.Error("Client log", zap.String("query", query))
	} else {
		s.logger.Info("Client log", zap.String("query", query), zap.String("status", status))
	}

	if s.audit == nil {
		return
	}
	if err := s.audit.RecordClientLog(ctx, &domain.ClientLog{Query: query, Status: status}); err != nil {
		s.logger.Warn("Failed to record client log", zap.Error(err))
	}
}

func (s *ChatService) record(ctx context.Context, rec *domain.QueryRecord) {
	if s.audit == nil {
		return
	}
	// Record even when the client has gone away.
	ctx = context.WithoutCancel(ctx)
	if err := s.audit.RecordQuery(ctx, rec); err != nil {
		s.logger.Warn("Failed to record query", zap.Error(err))
	}
}
