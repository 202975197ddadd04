package repository

import (
	"context"

	"docsign-client/internal/domain/entity"
)

type KeyRepository interface {
	PublicCertificate(ctx context.Context, sess *entity.Session) (entity.CertificateMaterial, error)
	PrivateKey(ctx context.Context, sess *entity.Session) (string, error)
}
