package repository

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"docsign-client/internal/config"
	"docsign-client/internal/domain/entity"
	"docsign-client/internal/domain/repository"
	"docsign-client/internal/infrastructure/httpclient"
)

type authRepository struct {
	config *config.Config
	client httpclient.HTTPClient
	logger *zap.Logger
}

func NewAuthRepository(cfg *config.Config, client httpclient.HTTPClient, logger *zap.Logger) repository.AuthRepository {
	return &authRepository{
		config: cfg,
		client: client,
		logger: logger,
	}
}

func (r *authRepository) url(segment string) string {
	return r.config.Signing.AuthURL() + "/" + segment
}

func (r *authRepository) Login(ctx context.Context, creds entity.Credentials) (*entity.TokenResponse, error) {
	var response entity.TokenResponse
	if err := r.client.Post(ctx, nil, r.url("login"), creds, &response); err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if response.AccessToken == "" {
		return nil, &entity.AuthError{Message: "login response carried no access token"}
	}
	return &response, nil
}

func (r *authRepository) Signup(ctx context.Context, req entity.SignupRequest) (*entity.TokenResponse, error) {
	var response entity.TokenResponse
	if err := r.client.Post(ctx, nil, r.url("signup"), req, &response); err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	if response.AccessToken == "" {
		return nil, &entity.AuthError{Message: "signup response carried no access token"}
	}
	return &response, nil
}

func (r *authRepository) Logout(ctx context.Context, sess *entity.Session) error {
	if err := r.client.Post(ctx, sess, r.url("logout"), nil, nil); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

func (r *authRepository) Me(ctx context.Context, sess *entity.Session) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.client.Get(ctx, sess, r.url("me"), &profile); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *authRepository) UpdateProfile(ctx context.Context, sess *entity.Session, update entity.ProfileUpdate) (*entity.Profile, error) {
	if !sess.Valid() || sess.UserID == "" {
		return nil, entity.NewValidationError("session", entity.ErrNoSession)
	}

	var profile entity.Profile
	if err := r.client.Put(ctx, sess, r.url(url.PathEscape(sess.UserID)), update, &profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &profile, nil
}
