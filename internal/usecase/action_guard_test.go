package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsign-client/internal/domain/entity"
)

func TestActionGuardRejectsDuplicateSubmission(t *testing.T) {
	g := NewActionGuard()
	assert.Equal(t, entity.PhaseIdle, g.State(entity.ActionSign).Phase)

	require.NoError(t, g.Begin(entity.ActionSign))
	assert.Equal(t, entity.PhaseInFlight, g.State(entity.ActionSign).Phase)

	err := g.Begin(entity.ActionSign)
	assert.True(t, errors.Is(err, entity.ErrActionInFlight))

	// other kinds are independent
	require.NoError(t, g.Begin(entity.ActionVerify))
}

func TestActionGuardFinish(t *testing.T) {
	g := NewActionGuard()

	require.NoError(t, g.Begin(entity.ActionUpload))
	g.Finish(entity.ActionUpload, "contract.pdf", nil)
	state := g.State(entity.ActionUpload)
	assert.Equal(t, entity.PhaseDone, state.Phase)
	assert.Equal(t, "contract.pdf", state.Result)

	require.NoError(t, g.Begin(entity.ActionUpload))
	g.Finish(entity.ActionUpload, nil, &entity.ServerError{StatusCode: 500, Message: "disk full"})
	state = g.State(entity.ActionUpload)
	assert.Equal(t, entity.PhaseFailed, state.Phase)
	assert.Equal(t, "disk full", state.ErrorMessage())

	g.Reset(entity.ActionUpload)
	assert.Equal(t, entity.PhaseIdle, g.State(entity.ActionUpload).Phase)
	assert.Empty(t, g.Snapshot())
}
