package usecase

import (
	"context"

	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/domain/repository"
)

// KeyUsecase fetches key material for the signed-in user
type KeyUsecase interface {
	PublicCertificate(ctx context.Context) (entity.CertificateMaterial, error)
	PrivateKey(ctx context.Context) (string, error)
}

type keyUsecase struct {
	keys   repository.KeyRepository
	auth   AuthUsecase
	logger *zap.Logger
}

func NewKeyUsecase(keys repository.KeyRepository, auth AuthUsecase, logger *zap.Logger) KeyUsecase {
	return &keyUsecase{
		keys:   keys,
		auth:   auth,
		logger: logger,
	}
}

func (u *keyUsecase) session() (*entity.Session, error) {
	sess := u.auth.Current()
	if !sess.Valid() {
		return nil, &entity.AuthError{Message: entity.ErrNoSession.Error()}
	}
	return sess, nil
}

func (u *keyUsecase) PublicCertificate(ctx context.Context) (entity.CertificateMaterial, error) {
	sess, err := u.session()
	if err != nil {
		return "", err
	}
	material, err := u.keys.PublicCertificate(ctx, sess)
	if err != nil {
		return "", err
	}
	u.logger.Debug("Public certificate fetched", zap.Int("length", len(material)))
	return material, nil
}

func (u *keyUsecase) PrivateKey(ctx context.Context) (string, error) {
	sess, err := u.session()
	if err != nil {
		return "", err
	}
	return u.keys.PrivateKey(ctx, sess)
}
