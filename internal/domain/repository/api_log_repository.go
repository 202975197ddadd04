package repository

import (
	"context"

	"docsign-client/internal/domain/entity"
)

// APILogRepository persists and lists outbound request logs
type APILogRepository interface {
	Save(ctx context.Context, log *entity.APILog) error
	FindRecent(ctx context.Context, limit int) ([]entity.APILog, error)
}
