package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/domain/repository"
	"docsign-client/internal/infrastructure/database"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

type apiLogRepository struct {
	db     *database.Database
	logger *zap.Logger
}

// NewAPILogRepository creates a new API log repository
func NewAPILogRepository(db *database.Database, logger *zap.Logger) repository.APILogRepository {
	return &apiLogRepository{
		db:     db,
		logger: logger,
	}
}

// Save saves an API log entry to the database
func (r *apiLogRepository) Save(ctx context.Context, log *entity.APILog) error {
	if !r.db.Enabled() {
		return nil
	}

	query := `
		INSERT INTO api_logs (endpoint, method, request_body, response_body, status_code, duration_ms, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		log.Endpoint,
		log.Method,
		log.RequestBody,
		log.ResponseBody,
		log.StatusCode,
		log.Duration,
		log.UserID,
		log.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to save API log",
			zap.String("endpoint", log.Endpoint),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save API log: %w", err)
	}

	return nil
}

// FindRecent returns the newest entries first
func (r *apiLogRepository) FindRecent(ctx context.Context, limit int) ([]entity.APILog, error) {
	if !r.db.Enabled() {
		return []entity.APILog{}, nil
	}

	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	query := `
		SELECT id, endpoint, method, request_body, response_body, status_code, duration_ms, user_id, created_at
		FROM api_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query API logs: %w", err)
	}
	defer rows.Close()

	logs := make([]entity.APILog, 0, limit)
	for rows.Next() {
		var l entity.APILog
		if err := rows.Scan(
			&l.ID,
			&l.Endpoint,
			&l.Method,
			&l.RequestBody,
			&l.ResponseBody,
			&l.StatusCode,
			&l.Duration,
			&l.UserID,
			&l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan API log: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate API logs: %w", err)
	}

	return logs, nil
}
