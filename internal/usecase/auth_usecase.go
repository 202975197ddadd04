package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/domain/repository"
	"docsign-client/internal/infrastructure/session"
)

// SessionListener is told about every session change; nil means signed out
type SessionListener func(sess *entity.Session)

type AuthUsecase interface {
	Login(ctx context.Context, email, password string) (*entity.Session, error)
	Signup(ctx context.Context, username, email, password string) (*entity.Session, error)
	// Logout is best-effort remotely; local credentials are always cleared
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, update entity.ProfileUpdate) (*entity.Profile, error)
	// Restore loads a persisted session, returning ErrNoSession when there is none
	Restore(ctx context.Context) (*entity.Session, error)
	Current() *entity.Session
	Subscribe(listener SessionListener)
}

type authUsecase struct {
	repo   repository.AuthRepository
	store  session.Store
	logger *zap.Logger

	mu        sync.Mutex
	current   *entity.Session
	listeners []SessionListener
}

func NewAuthUsecase(repo repository.AuthRepository, store session.Store, logger *zap.Logger) AuthUsecase {
	return &authUsecase{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

func validateCredentials(email, password string) error {
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.Email),
		"password": validation.Validate(password, validation.Required),
	}.Filter()
	return asValidationError(err)
}

func validateSignup(username, email, password string) error {
	err := validation.Errors{
		"username": validation.Validate(username, validation.Required, validation.Length(3, 50)),
		"email":    validation.Validate(email, validation.Required, is.Email),
		"password": validation.Validate(password, validation.Required, validation.Length(6, 128)),
	}.Filter()
	return asValidationError(err)
}

func validateProfileUpdate(update entity.ProfileUpdate) error {
	if update == (entity.ProfileUpdate{}) {
		return entity.NewValidationError("profile", errors.New("nothing to update"))
	}
	err := validation.Errors{
		"username":  validation.Validate(update.Username, validation.Length(3, 50)),
		"email":     validation.Validate(update.Email, is.Email),
		"full_name": validation.Validate(update.FullName, validation.Length(1, 120)),
		"phone":     validation.Validate(update.Phone, validation.Length(6, 20), is.Digit),
	}.Filter()
	return asValidationError(err)
}

// asValidationError reports the first failing field of an ozzo result
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) && len(errs) > 0 {
		fields := make([]string, 0, len(errs))
		for field := range errs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		return entity.NewValidationError(fields[0], errs[fields[0]])
	}
	return entity.NewValidationError("", err)
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.Session, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	u.logger.Info("Logging in", zap.String("email", email))

	tokens, err := u.repo.Login(ctx, entity.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return u.establish(ctx, tokens)
}

func (u *authUsecase) Signup(ctx context.Context, username, email, password string) (*entity.Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := validateSignup(username, email, password); err != nil {
		return nil, err
	}

	u.logger.Info("Signing up", zap.String("email", email), zap.String("username", username))

	tokens, err := u.repo.Signup(ctx, entity.SignupRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return u.establish(ctx, tokens)
}

// establish turns a token pair into the active session
func (u *authUsecase) establish(ctx context.Context, tokens *entity.TokenResponse) (*entity.Session, error) {
	userID, err := session.SubjectFromToken(tokens.AccessToken)
	if err != nil {
		u.logger.Warn("Access token has no readable subject", zap.Error(err))
	}

	sess := &entity.Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		UserID:       userID,
	}

	if err := u.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	u.setCurrent(sess)
	u.logger.Info("Session established", zap.String("user_id", userID))
	return sess, nil
}

func (u *authUsecase) Logout(ctx context.Context) error {
	sess := u.Current()

	if sess.Valid() {
		if err := u.repo.Logout(ctx, sess); err != nil {
			u.logger.Warn("Remote logout failed, clearing local credentials anyway", zap.Error(err))
		}
	}

	u.setCurrent(nil)

	if err := u.store.Clear(ctx); err != nil {
		return err
	}

	u.logger.Info("Logged out")
	return nil
}

func (u *authUsecase) Me(ctx context.Context) (*entity.Profile, error) {
	sess, err := u.requireSession()
	if err != nil {
		return nil, err
	}
	return u.repo.Me(ctx, sess)
}

func (u *authUsecase) UpdateProfile(ctx context.Context, update entity.ProfileUpdate) (*entity.Profile, error) {
	sess, err := u.requireSession()
	if err != nil {
		return nil, err
	}
	if err := validateProfileUpdate(update); err != nil {
		return nil, err
	}
	return u.repo.UpdateProfile(ctx, sess, update)
}

func (u *authUsecase) Restore(ctx context.Context) (*entity.Session, error) {
	sess, err := u.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if sess.UserID == "" {
		if sub, err := session.SubjectFromToken(sess.AccessToken); err == nil {
			sess.UserID = sub
		}
	}

	u.setCurrent(sess)
	u.logger.Info("Session restored", zap.String("user_id", sess.UserID))
	return sess, nil
}

func (u *authUsecase) Current() *entity.Session {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.current
}

func (u *authUsecase) Subscribe(listener SessionListener) {
	u.mu.Lock()
	u.listeners = append(u.listeners, listener)
	sess := u.current
	u.mu.Unlock()

	listener(sess)
}

func (u *authUsecase) requireSession() (*entity.Session, error) {
	sess := u.Current()
	if !sess.Valid() {
		return nil, &entity.AuthError{Message: entity.ErrNoSession.Error()}
	}
	return sess, nil
}

func (u *authUsecase) setCurrent(sess *entity.Session) {
	u.mu.Lock()
	u.current = sess
	listeners := make([]SessionListener, len(u.listeners))
	copy(listeners, u.listeners)
	u.mu.Unlock()

	for _, l := range listeners {
		l(sess)
	}
}

// RestoreOnStart loads a persisted session if one exists
func RestoreOnStart(ctx context.Context, auth AuthUsecase, logger *zap.Logger) {
	if _, err := auth.Restore(ctx); err != nil {
		if errors.Is(err, entity.ErrNoSession) {
			logger.Info("No stored session, sign in required")
			return
		}
		logger.Warn("Failed to restore session", zap.Error(fmt.Errorf("restore: %w", err)))
	}
}
