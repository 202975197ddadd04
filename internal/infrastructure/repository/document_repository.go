package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"docsign-client/internal/config"
	"docsign-client/internal/domain/entity"
	"docsign-client/internal/domain/repository"
	"docsign-client/internal/infrastructure/httpclient"
)

type documentRepository struct {
	config *config.Config
	client httpclient.HTTPClient
	logger *zap.Logger
}

func NewDocumentRepository(cfg *config.Config, client httpclient.HTTPClient, logger *zap.Logger) repository.DocumentRepository {
	return &documentRepository{
		config: cfg,
		client: client,
		logger: logger,
	}
}

func (r *documentRepository) url(segments ...string) string {
	base := r.config.Signing.DocumentURL()
	if len(segments) == 0 {
		return base + "/"
	}
	return base + "/" + strings.Join(segments, "/")
}

func (r *documentRepository) List(ctx context.Context, sess *entity.Session) ([]entity.DocumentSummary, error) {
	var records []entity.DocumentRecord
	if err := r.client.Get(ctx, sess, r.url(), &records); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	summaries := make([]entity.DocumentSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, r.toSummary(rec))
	}

	r.logger.Debug("Documents listed", zap.Int("count", len(summaries)))
	return summaries, nil
}

func (r *documentRepository) toSummary(rec entity.DocumentRecord) entity.DocumentSummary {
	status, known := entity.ParseDocumentStatus(rec.Status)
	if !known {
		r.logger.Warn("Unknown document status, treating as uploaded",
			zap.String("document_id", string(rec.DocumentID)),
			zap.String("status", rec.Status),
		)
	}

	name, format := entity.SplitFilename(rec.Filename)
	return entity.DocumentSummary{
		ID:          string(rec.DocumentID),
		DisplayName: name,
		Format:      format,
		Filename:    rec.Filename,
		CreatedAt:   entity.ParseTimestamp(rec.CreatedAt),
		Status:      status,
	}
}

func (r *documentRepository) Upload(ctx context.Context, sess *entity.Session, filename string, content []byte) error {
	files := map[string]httpclient.FileUpload{
		"file": {Filename: filename, Content: content},
	}
	if err := r.client.PostMultipart(ctx, sess, r.url("upload"), nil, files, nil); err != nil {
		return fmt.Errorf("failed to upload document: %w", err)
	}

	r.logger.Info("Document uploaded",
		zap.String("filename", filename),
		zap.Int("size", len(content)),
	)
	return nil
}

func (r *documentRepository) Content(ctx context.Context, sess *entity.Session, documentID string) (*entity.DocumentContent, error) {
	var response entity.DocumentContentResponse
	if err := r.client.Get(ctx, sess, r.url(url.PathEscape(documentID), "content"), &response); err != nil {
		return nil, fmt.Errorf("failed to get document content: %w", err)
	}

	data, err := decodeContent(response.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", documentID, err)
	}

	return &entity.DocumentContent{
		Bytes:    data,
		MimeType: response.MimeType,
		Filename: response.Filename,
	}, nil
}

// decodeContent accepts plain base64 as well as a data URL
func decodeContent(content string) ([]byte, error) {
	if i := strings.Index(content, ";base64,"); i >= 0 && strings.HasPrefix(content, "data:") {
		content = content[i+len(";base64,"):]
	}
	content = strings.TrimSpace(content)

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(content, "="))
	}
	return data, nil
}

func (r *documentRepository) Delete(ctx context.Context, sess *entity.Session, documentID string) (string, error) {
	var response entity.MessageResponse
	if err := r.client.Delete(ctx, sess, r.url(url.PathEscape(documentID)), &response); err != nil {
		return "", fmt.Errorf("failed to delete document: %w", err)
	}

	r.logger.Info("Document deleted", zap.String("document_id", documentID))
	return response.Message, nil
}

func (r *documentRepository) Sign(ctx context.Context, sess *entity.Session, filename string, content []byte, position entity.SignPosition) (*entity.SignResponse, error) {
	positionJSON, err := json.Marshal(position)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal position: %w", err)
	}

	fields := map[string]string{"position": string(positionJSON)}
	files := map[string]httpclient.FileUpload{
		"file": {Filename: filename, Content: content},
	}

	var response entity.SignResponse
	if err := r.client.PostMultipart(ctx, sess, r.url("sign-pdf"), fields, files, &response); err != nil {
		return nil, fmt.Errorf("failed to sign document: %w", err)
	}
	return &response, nil
}

func (r *documentRepository) Verify(ctx context.Context, sess *entity.Session, filename string, content []byte, cert entity.CertificateMaterial) (*entity.VerifyResponse, error) {
	fields := map[string]string{"public_key": string(cert)}
	files := map[string]httpclient.FileUpload{
		"file": {Filename: filename, Content: content},
	}

	var response entity.VerifyResponse
	if err := r.client.PostMultipart(ctx, sess, r.url("verify-pdf"), fields, files, &response); err != nil {
		return nil, fmt.Errorf("failed to verify document: %w", err)
	}
	return &response, nil
}
