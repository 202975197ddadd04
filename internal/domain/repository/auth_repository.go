package repository

import (
	"context"

	"docsign-client/internal/domain/entity"
)

type AuthRepository interface {
	Login(ctx context.Context, creds entity.Credentials) (*entity.TokenResponse, error)
	Signup(ctx context.Context, req entity.SignupRequest) (*entity.TokenResponse, error)
	// Logout is best-effort; callers clear local credentials regardless of the result
	Logout(ctx context.Context, sess *entity.Session) error
	Me(ctx context.Context, sess *entity.Session) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, sess *entity.Session, update entity.ProfileUpdate) (*entity.Profile, error)
}
