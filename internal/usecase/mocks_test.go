package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"docsign-client/internal/domain/entity"
)

// MockDocumentRepository is a mock implementation of repository.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) List(ctx context.Context, sess *entity.Session) ([]entity.DocumentSummary, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DocumentSummary), args.Error(1)
}

func (m *MockDocumentRepository) Upload(ctx context.Context, sess *entity.Session, filename string, content []byte) error {
	args := m.Called(ctx, sess, filename, content)
	return args.Error(0)
}

func (m *MockDocumentRepository) Content(ctx context.Context, sess *entity.Session, documentID string) (*entity.DocumentContent, error) {
	args := m.Called(ctx, sess, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DocumentContent), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, sess *entity.Session, documentID string) (string, error) {
	args := m.Called(ctx, sess, documentID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) Sign(ctx context.Context, sess *entity.Session, filename string, content []byte, position entity.SignPosition) (*entity.SignResponse, error) {
	args := m.Called(ctx, sess, filename, content, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SignResponse), args.Error(1)
}

func (m *MockDocumentRepository) Verify(ctx context.Context, sess *entity.Session, filename string, content []byte, cert entity.CertificateMaterial) (*entity.VerifyResponse, error) {
	args := m.Called(ctx, sess, filename, content, cert)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VerifyResponse), args.Error(1)
}

// MockAuthRepository is a mock implementation of repository.AuthRepository
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) Login(ctx context.Context, creds entity.Credentials) (*entity.TokenResponse, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenResponse), args.Error(1)
}

func (m *MockAuthRepository) Signup(ctx context.Context, req entity.SignupRequest) (*entity.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TokenResponse), args.Error(1)
}

func (m *MockAuthRepository) Logout(ctx context.Context, sess *entity.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *MockAuthRepository) Me(ctx context.Context, sess *entity.Session) (*entity.Profile, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockAuthRepository) UpdateProfile(ctx context.Context, sess *entity.Session, update entity.ProfileUpdate) (*entity.Profile, error) {
	args := m.Called(ctx, sess, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

// memoryStore is an in-memory session.Store
type memoryStore struct {
	mu      sync.Mutex
	stored  *entity.Session
	cleared int
}

func (s *memoryStore) Save(ctx context.Context, sess *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	s.stored = &copied
	return nil
}

func (s *memoryStore) Load(ctx context.Context) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stored == nil {
		return nil, entity.ErrNoSession
	}
	copied := *s.stored
	return &copied, nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = nil
	s.cleared++
	return nil
}
