package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
)

func tokenFor(t *testing.T, sub string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

func TestLoginValidatesBeforeNetwork(t *testing.T) {
	repo := new(MockAuthRepository)
	uc := NewAuthUsecase(repo, &memoryStore{}, zap.NewNop())

	_, err := uc.Login(context.Background(), "not-an-email", "secret")
	var validationErr *entity.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "email", validationErr.Field)

	_, err = uc.Login(context.Background(), "a@b.co", "")
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "password", validationErr.Field)

	assert.Empty(t, repo.Calls)
}

func TestLoginEstablishesSession(t *testing.T) {
	repo := new(MockAuthRepository)
	store := &memoryStore{}
	uc := NewAuthUsecase(repo, store, zap.NewNop())

	token := tokenFor(t, "user-42")
	repo.On("Login", mock.Anything, entity.Credentials{Email: "a@b.co", Password: "secret"}).
		Return(&entity.TokenResponse{AccessToken: token, RefreshToken: "r"}, nil)

	var seen []*entity.Session
	uc.Subscribe(func(sess *entity.Session) { seen = append(seen, sess) })

	sess, err := uc.Login(context.Background(), " a@b.co ", "secret")
	require.NoError(t, err)

	assert.Equal(t, "user-42", sess.UserID)
	assert.Equal(t, token, store.stored.AccessToken)
	assert.Same(t, sess, uc.Current())
	require.Len(t, seen, 2)
	assert.Nil(t, seen[0])
	assert.Same(t, sess, seen[1])
}

func TestLogoutClearsEvenWhenRemoteFails(t *testing.T) {
	repo := new(MockAuthRepository)
	store := &memoryStore{}
	uc := NewAuthUsecase(repo, store, zap.NewNop())

	repo.On("Login", mock.Anything, mock.Anything).Return(&entity.TokenResponse{AccessToken: tokenFor(t, "u")}, nil)
	repo.On("Logout", mock.Anything, mock.Anything).Return(&entity.TransportError{Op: "POST", Err: errors.New("down")})

	_, err := uc.Login(context.Background(), "a@b.co", "secret")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background()))
	assert.Nil(t, uc.Current())
	assert.Nil(t, store.stored)
	assert.Equal(t, 1, store.cleared)
	repo.AssertCalled(t, "Logout", mock.Anything, mock.Anything)
}

func TestLogoutWithoutSessionSkipsRemote(t *testing.T) {
	repo := new(MockAuthRepository)
	store := &memoryStore{}
	uc := NewAuthUsecase(repo, store, zap.NewNop())

	require.NoError(t, uc.Logout(context.Background()))
	assert.Equal(t, 1, store.cleared)
	assert.Empty(t, repo.Calls)
}

func TestMeRequiresSession(t *testing.T) {
	uc := NewAuthUsecase(new(MockAuthRepository), &memoryStore{}, zap.NewNop())

	_, err := uc.Me(context.Background())
	var authErr *entity.AuthError
	assert.True(t, errors.As(err, &authErr))
}

func TestRestore(t *testing.T) {
	token := tokenFor(t, "user-7")
	store := &memoryStore{stored: &entity.Session{AccessToken: token}}
	uc := NewAuthUsecase(new(MockAuthRepository), store, zap.NewNop())

	sess, err := uc.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-7", sess.UserID)
	assert.Same(t, sess, uc.Current())

	empty := NewAuthUsecase(new(MockAuthRepository), &memoryStore{}, zap.NewNop())
	_, err = empty.Restore(context.Background())
	assert.True(t, errors.Is(err, entity.ErrNoSession))
}

func TestUpdateProfileValidation(t *testing.T) {
	repo := new(MockAuthRepository)
	store := &memoryStore{stored: &entity.Session{AccessToken: tokenFor(t, "u"), UserID: "u"}}
	uc := NewAuthUsecase(repo, store, zap.NewNop())
	_, err := uc.Restore(context.Background())
	require.NoError(t, err)

	_, err = uc.UpdateProfile(context.Background(), entity.ProfileUpdate{})
	var validationErr *entity.ValidationError
	require.True(t, errors.As(err, &validationErr))

	_, err = uc.UpdateProfile(context.Background(), entity.ProfileUpdate{Email: "nope"})
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "email", validationErr.Field)
	assert.Empty(t, repo.Calls)

	update := entity.ProfileUpdate{FullName: "Ada Signer"}
	repo.On("UpdateProfile", mock.Anything, mock.Anything, update).Return(&entity.Profile{FullName: "Ada Signer"}, nil)
	profile, err := uc.UpdateProfile(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, "Ada Signer", profile.FullName)
}
