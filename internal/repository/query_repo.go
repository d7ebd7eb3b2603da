package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/liliang-cn/askclinic/internal/domain"
)

// QueryRepository persists the chat audit trail
type QueryRepository struct {
	db *DB
}

// NewQueryRepository creates a new query repository
func NewQueryRepository(db *DB) *QueryRepository {
	return &QueryRepository{db: db}
}

// RecordQuery stores one chat request and how it ended
func (r *QueryRepository) RecordQuery(ctx context.Context, rec *domain.QueryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	sourcesJSON, err := json.Marshal(rec.Sources)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO queries (id, query, lang, outcome, response, sources, error, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Query, rec.Lang, string(rec.Outcome), rec.Response,
		string(sourcesJSON), rec.Error, rec.Latency.Milliseconds(), rec.CreatedAt)

	return err
}

// RecordClientLog stores a log line reported by the front-end
func (r *QueryRepository) RecordClientLog(ctx context.Context, entry *domain.ClientLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO client_logs (id, query, status, created_at)
		VALUES (?, ?, ?, ?)
	`, entry.ID, entry.Query, entry.Status, entry.CreatedAt)

	return err
}

// ListQueries returns the newest queries first, optionally filtered by outcome
func (r *QueryRepository) ListQueries(ctx context.Context, limit int, outcome domain.Outcome) ([]*domain.QueryRecord, error) {
	query := `
		SELECT id, query, lang, outcome, response, sources, error, latency_ms, created_at
		FROM queries`
	args := []any{}
	if outcome != "" {
		query += ` WHERE outcome = ?`
		args = append(args, string(outcome))
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*domain.QueryRecord{}
	for rows.Next() {
		rec := &domain.QueryRecord{}
		var (
			lang, response, sourcesJSON, errText sql.NullString
			outcomeText                          string
			latencyMS                            int64
		)

		if err := rows.Scan(&rec.ID, &rec.Query, &lang, &outcomeText, &response,
			&sourcesJSON, &errText, &latencyMS, &rec.CreatedAt); err != nil {
			return nil, err
		}

		rec.Lang = lang.String
		rec.Outcome = domain.Outcome(outcomeText)
		rec.Response = response.String
		rec.Error = errText.String
		rec.Latency = time.Duration(latencyMS) * time.Millisecond
		if sourcesJSON.Valid && sourcesJSON.String != "" {
			if err := json.Unmarshal([]byte(sourcesJSON.String), &rec.Sources); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Stats aggregates the audit trail. Segments is left for the caller.
func (r *QueryRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{
		ByOutcome:  map[domain.Outcome]int{},
		ByLanguage: map[string]int{},
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queries`).Scan(&stats.TotalQueries); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM client_logs`).Scan(&stats.ClientLogs); err != nil {
		return nil, err
	}

	if err := r.groupCount(ctx, `SELECT outcome, COUNT(*) FROM queries GROUP BY outcome`, func(k string, n int) {
		stats.ByOutcome[domain.Outcome(k)] = n
	}); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, `SELECT lang, COUNT(*) FROM queries WHERE lang != '' GROUP BY lang`, func(k string, n int) {
		stats.ByLanguage[k] = n
	}); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *QueryRepository) groupCount(ctx context.Context, query string, fn func(string, int)) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		fn(key, count)
	}
	return rows.Err()
}
