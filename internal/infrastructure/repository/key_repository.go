package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"docsign-client/internal/config"
	"docsign-client/internal/domain/entity"
	"docsign-client/internal/domain/repository"
	"docsign-client/internal/infrastructure/httpclient"
)

type keyRepository struct {
	config *config.Config
	client httpclient.HTTPClient
}

func NewKeyRepository(cfg *config.Config, client httpclient.HTTPClient) repository.KeyRepository {
	return &keyRepository{
		config: cfg,
		client: client,
	}
}

func (r *keyRepository) PublicCertificate(ctx context.Context, sess *entity.Session) (entity.CertificateMaterial, error) {
	text, err := r.fetch(ctx, sess, "public")
	if err != nil {
		return "", fmt.Errorf("failed to get public certificate: %w", err)
	}
	return entity.CertificateMaterial(text), nil
}

func (r *keyRepository) PrivateKey(ctx context.Context, sess *entity.Session) (string, error) {
	text, err := r.fetch(ctx, sess, "private")
	if err != nil {
		return "", fmt.Errorf("failed to get private key: %w", err)
	}
	return text, nil
}

// fetch returns key material as text. The service answers with a JSON string;
// anything else is taken verbatim.
func (r *keyRepository) fetch(ctx context.Context, sess *entity.Session, segment string) (string, error) {
	body, err := r.client.GetText(ctx, sess, r.config.Signing.KeyURL()+"/"+segment)
	if err != nil {
		return "", err
	}
	return unquoteMaterial(body), nil
}

func unquoteMaterial(body string) string {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return s
		}
	}
	return body
}
