package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/domain/repository"
)

type VerificationUsecase interface {
	// Verify asks the service to check content against cert. Remote failures
	// are reported in the result, not as an error; only missing input and
	// cancellation return an error.
	Verify(ctx context.Context, sess *entity.Session, content []byte, filename string, cert entity.CertificateMaterial) (*entity.VerificationResult, error)
}

type verificationUsecase struct {
	docs   repository.DocumentRepository
	logger *zap.Logger
}

func NewVerificationUsecase(docs repository.DocumentRepository, logger *zap.Logger) VerificationUsecase {
	return &verificationUsecase{
		docs:   docs,
		logger: logger,
	}
}

func (u *verificationUsecase) Verify(ctx context.Context, sess *entity.Session, content []byte, filename string, cert entity.CertificateMaterial) (*entity.VerificationResult, error) {
	if len(content) == 0 {
		return nil, entity.NewValidationError("file", entity.ErrMissingInput)
	}
	if cert.IsEmpty() {
		return nil, entity.NewValidationError("certificate", entity.ErrMissingInput)
	}

	resp, err := u.docs.Verify(ctx, sess, filename, content, cert)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		kind, message := entity.Classify(err)
		u.logger.Warn("Verification request failed",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return &entity.VerificationResult{Success: false, IsValid: false, Message: message, FailureKind: kind}, nil
	}

	if !resp.Succeeded() {
		message := resp.Message
		if message == "" {
			message = "verification failed"
		}
		return &entity.VerificationResult{Success: false, IsValid: false, Message: message, FailureKind: entity.NoticeServer}, nil
	}

	result := &entity.VerificationResult{
		Success: true,
		IsValid: resp.Data.IsValid,
		Message: resp.Message,
	}
	if t := entity.ParseTimestamp(resp.Data.VerificationTime); !t.IsZero() {
		result.VerificationTime = &t
	}

	u.logger.Info("Verification completed",
		zap.String("filename", filename),
		zap.Bool("is_valid", result.IsValid),
	)

	return result, nil
}
