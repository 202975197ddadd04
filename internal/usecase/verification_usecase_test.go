package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
)

func TestVerifyWithMissingInputMakesNoNetworkCall(t *testing.T) {
	repo := new(MockDocumentRepository)
	uc := NewVerificationUsecase(repo, zap.NewNop())

	for _, cert := range []entity.CertificateMaterial{"", "   \n"} {
		_, err := uc.Verify(context.Background(), testSession, []byte("%PDF"), "a.pdf", cert)
		assert.True(t, errors.Is(err, entity.ErrMissingInput))
	}

	_, err := uc.Verify(context.Background(), testSession, nil, "a.pdf", "cert")
	assert.True(t, errors.Is(err, entity.ErrMissingInput))

	assert.Empty(t, repo.Calls)
}

func TestVerifyErrorEnvelope(t *testing.T) {
	repo := new(MockDocumentRepository)
	repo.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, entity.CertificateMaterial("cert")).
		Return(&entity.VerifyResponse{Status: "error", Message: "signature mismatch"}, nil)

	result, err := NewVerificationUsecase(repo, zap.NewNop()).Verify(context.Background(), testSession, []byte("%PDF"), "a.pdf", "cert")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.False(t, result.IsValid)
	assert.Equal(t, "signature mismatch", result.Message)
	assert.Equal(t, entity.NoticeServer, result.FailureKind)
}

func TestVerifyTransportFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", &entity.TransportError{Op: "POST", Timeout: true, Err: context.DeadlineExceeded}, "The signing service did not respond in time"},
		{"unreachable", &entity.TransportError{Op: "POST", Err: errors.New("connection refused")}, "Unable to reach the signing service"},
		{"rejected", &entity.ServerError{StatusCode: 400, Message: "Invalid signature"}, "Invalid signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDocumentRepository)
			repo.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			result, err := NewVerificationUsecase(repo, zap.NewNop()).Verify(context.Background(), testSession, []byte("%PDF"), "a.pdf", "cert")
			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.False(t, result.IsValid)
			assert.Equal(t, tt.want, result.Message)
		})
	}
}

func TestVerifyTakesVerdictVerbatim(t *testing.T) {
	for _, valid := range []bool{true, false} {
		repo := new(MockDocumentRepository)
		repo.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&entity.VerifyResponse{
				Status:  "success",
				Message: "checked",
				Data:    &entity.VerifyData{IsValid: valid, VerificationTime: "2026-05-01T08:00:00Z"},
			}, nil)

		result, err := NewVerificationUsecase(repo, zap.NewNop()).Verify(context.Background(), testSession, []byte("%PDF"), "a.pdf", "cert")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, valid, result.IsValid)
		require.NotNil(t, result.VerificationTime)
	}
}

func TestVerifyIsStatelessAcrossCertificates(t *testing.T) {
	repo := new(MockDocumentRepository)
	repo.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, entity.CertificateMaterial("good")).
		Return(&entity.VerifyResponse{Status: "success", Data: &entity.VerifyData{IsValid: true}}, nil)
	repo.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, entity.CertificateMaterial("bad")).
		Return(&entity.VerifyResponse{Status: "error", Message: "signature mismatch"}, nil)

	uc := NewVerificationUsecase(repo, zap.NewNop())

	first, err := uc.Verify(context.Background(), testSession, []byte("%PDF"), "a.pdf", "bad")
	require.NoError(t, err)
	second, err := uc.Verify(context.Background(), testSession, []byte("%PDF"), "a.pdf", "good")
	require.NoError(t, err)

	assert.False(t, first.Success)
	assert.True(t, second.IsValid)
	repo.AssertNumberOfCalls(t, "Verify", 2)
}
