package usecase

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/domain/repository"
)

type SigningUsecase interface {
	// Sign sends the document and the anchor position to the signing service.
	// A nil anchor fails locally with ErrMissingAnchor.
	Sign(ctx context.Context, sess *entity.Session, content []byte, filename string, anchor *entity.SignatureAnchor) (*entity.SigningResult, error)
}

type signingUsecase struct {
	docs   repository.DocumentRepository
	logger *zap.Logger
}

func NewSigningUsecase(docs repository.DocumentRepository, logger *zap.Logger) SigningUsecase {
	return &signingUsecase{
		docs:   docs,
		logger: logger,
	}
}

func (u *signingUsecase) Sign(ctx context.Context, sess *entity.Session, content []byte, filename string, anchor *entity.SignatureAnchor) (*entity.SigningResult, error) {
	if anchor == nil {
		return nil, entity.NewValidationError("anchor", entity.ErrMissingAnchor)
	}
	if len(content) == 0 {
		return nil, entity.NewValidationError("file", entity.ErrMissingFile)
	}

	position := anchor.Position()
	u.logger.Info("Requesting signature",
		zap.String("filename", filename),
		zap.Int("page", position.Page),
		zap.Float64("x", position.X),
		zap.Float64("y", position.Y),
	)

	resp, err := u.docs.Sign(ctx, sess, filename, content, position)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		_, message := entity.Classify(err)
		u.logger.Error("Signing failed", zap.String("filename", filename), zap.Error(err))
		return nil, &entity.SigningFailedError{Message: message, Err: err}
	}

	if resp.Data == nil {
		message := "the signing service returned no result"
		return nil, &entity.SigningFailedError{
			Message: message,
			Err:     &entity.ServerError{StatusCode: http.StatusOK, Message: message},
		}
	}

	result := &entity.SigningResult{
		SignatureID: string(resp.Data.SignatureID),
		SignedAt:    entity.ParseTimestamp(resp.Data.SignedAt),
		DocumentID:  string(resp.Data.DocumentID),
		Filename:    resp.Data.Filename,
	}

	u.logger.Info("Document signed",
		zap.String("signature_id", result.SignatureID),
		zap.String("document_id", result.DocumentID),
	)

	return result, nil
}
