package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"docsign-client/internal/config"
	"docsign-client/internal/domain/entity"
	"docsign-client/internal/infrastructure/redis"
)

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
	userIDKey       = "user_id"
)

// KeyValue is the durable storage the session is persisted in
type KeyValue interface {
	MSet(ctx context.Context, values map[string]string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Store persists the one session of this client under fixed key names
type Store interface {
	Save(ctx context.Context, sess *entity.Session) error
	// Load returns ErrNoSession when nothing is stored
	Load(ctx context.Context) (*entity.Session, error)
	Clear(ctx context.Context) error
}

type store struct {
	kv     KeyValue
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

func NewStore(kv KeyValue, cfg *config.Config, logger *zap.Logger) Store {
	return &store{
		kv:     kv,
		prefix: cfg.Session.KeyPrefix,
		logger: logger,
		now:    time.Now,
	}
}

// NewRedisStore binds the store to the redis client
func NewRedisStore(client *redis.RedisClient, cfg *config.Config, logger *zap.Logger) Store {
	return NewStore(client, cfg, logger)
}

func (s *store) key(name string) string {
	return s.prefix + name
}

func (s *store) Save(ctx context.Context, sess *entity.Session) error {
	if !sess.Valid() {
		return entity.NewValidationError("session", entity.ErrNoSession)
	}

	// Keys expire together with the access token
	var ttl time.Duration
	if exp := ExpiryFromToken(sess.AccessToken); !exp.IsZero() {
		ttl = exp.Sub(s.now())
		if ttl <= 0 {
			return &entity.AuthError{Message: "access token already expired"}
		}
	}

	values := map[string]string{
		s.key(accessTokenKey):  sess.AccessToken,
		s.key(refreshTokenKey): sess.RefreshToken,
		s.key(userIDKey):       sess.UserID,
	}
	if err := s.kv.MSet(ctx, values, ttl); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("Session stored",
		zap.String("user_id", sess.UserID),
		zap.Duration("ttl", ttl),
	)
	return nil
}

func (s *store) Load(ctx context.Context) (*entity.Session, error) {
	accessToken, err := s.get(ctx, accessTokenKey)
	if err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, entity.ErrNoSession
	}

	refreshToken, err := s.get(ctx, refreshTokenKey)
	if err != nil {
		return nil, err
	}
	userID, err := s.get(ctx, userIDKey)
	if err != nil {
		return nil, err
	}

	return &entity.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       userID,
	}, nil
}

func (s *store) get(ctx context.Context, name string) (string, error) {
	value, err := s.kv.Get(ctx, s.key(name))
	if errors.Is(err, redis.ErrNil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return value, nil
}

func (s *store) Clear(ctx context.Context) error {
	if err := s.kv.Del(ctx, s.key(accessTokenKey), s.key(refreshTokenKey), s.key(userIDKey)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("Session cleared")
	return nil
}
