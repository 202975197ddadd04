package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docsign-client/internal/config"
	"docsign-client/internal/domain/entity"
	"docsign-client/internal/infrastructure/redis"
)

type memoryKV struct {
	values map[string]string
	ttl    time.Duration
	delErr error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}}
}

func (m *memoryKV) MSet(ctx context.Context, values map[string]string, expiration time.Duration) error {
	for k, v := range values {
		m.values[k] = v
	}
	m.ttl = expiration
	return nil
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redis.ErrNil
	}
	return v, nil
}

func (m *memoryKV) Del(ctx context.Context, keys ...string) error {
	if m.delErr != nil {
		return m.delErr
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newTestStore(kv KeyValue) *store {
	cfg := &config.Config{Session: config.SessionConfig{KeyPrefix: "test:"}}
	return NewStore(kv, cfg, zap.NewNop()).(*store)
}

func TestSubjectFromToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "42"})

	sub, err := SubjectFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", sub)

	_, err = SubjectFromToken(signedToken(t, jwt.MapClaims{"name": "x"}))
	assert.Error(t, err)

	_, err = SubjectFromToken("not-a-token")
	assert.Error(t, err)
}

func TestExpiryFromToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"sub": "1", "exp": exp.Unix()})

	assert.True(t, exp.Equal(ExpiryFromToken(token)))
	assert.True(t, ExpiryFromToken("garbage").IsZero())
}

func TestStoreRoundTrip(t *testing.T) {
	kv := newMemoryKV()
	s := newTestStore(kv)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }
	token := signedToken(t, jwt.MapClaims{"sub": "7", "exp": now.Add(30 * time.Minute).Unix()})

	require.NoError(t, s.Save(ctx, &entity.Session{AccessToken: token, RefreshToken: "r", UserID: "7"}))
	assert.Equal(t, token, kv.values["test:access_token"])
	assert.Equal(t, "r", kv.values["test:refresh_token"])
	assert.Equal(t, "7", kv.values["test:user_id"])
	assert.InDelta(t, (30 * time.Minute).Seconds(), kv.ttl.Seconds(), 1)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7", loaded.UserID)
	assert.Equal(t, token, loaded.AccessToken)

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, kv.values)

	_, err = s.Load(ctx)
	assert.True(t, errors.Is(err, entity.ErrNoSession))
}

func TestStoreRejectsEmptyAndExpiredSessions(t *testing.T) {
	s := newTestStore(newMemoryKV())
	ctx := context.Background()

	err := s.Save(ctx, &entity.Session{})
	assert.True(t, errors.Is(err, entity.ErrNoSession))

	expired := signedToken(t, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(-time.Minute).Unix()})
	err = s.Save(ctx, &entity.Session{AccessToken: expired})
	var authErr *entity.AuthError
	assert.True(t, errors.As(err, &authErr))
}

func TestClearPropagatesStorageFailure(t *testing.T) {
	kv := newMemoryKV()
	kv.delErr = errors.New("connection reset")
	s := newTestStore(kv)

	assert.Error(t, s.Clear(context.Background()))
}
