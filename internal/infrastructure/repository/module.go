package repository

import (
	"go.uber.org/fx"

	"docsign-client/internal/domain/repository"
	"docsign-client/internal/infrastructure/httpclient"
)

var Module = fx.Module("repository",
	fx.Provide(NewAuthRepository),
	fx.Provide(NewDocumentRepository),
	fx.Provide(NewKeyRepository),
	fx.Provide(NewAPILogRepository),
	fx.Provide(func(logs repository.APILogRepository) httpclient.APILogSaver {
		return logs
	}),
)
