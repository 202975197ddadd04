package repository

import (
	"context"

	"docsign-client/internal/domain/entity"
)

// DocumentRepository is the client for the remote document endpoints. It never
// caches anything beyond a single call.
type DocumentRepository interface {
	List(ctx context.Context, sess *entity.Session) ([]entity.DocumentSummary, error)
	Upload(ctx context.Context, sess *entity.Session, filename string, content []byte) error
	Content(ctx context.Context, sess *entity.Session, documentID string) (*entity.DocumentContent, error)
	Delete(ctx context.Context, sess *entity.Session, documentID string) (string, error)
	Sign(ctx context.Context, sess *entity.Session, filename string, content []byte, position entity.SignPosition) (*entity.SignResponse, error)
	Verify(ctx context.Context, sess *entity.Session, filename string, content []byte, cert entity.CertificateMaterial) (*entity.VerifyResponse, error)
}
