package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPointDividesByScale(t *testing.T) {
	tests := []struct {
		px, py, scale float64
	}{
		{120, 340, 1},
		{120, 340, 2},
		{0, 0, 0.5},
		{595, 842, 1.5},
		{33.3, 77.7, 3},
	}

	s := NewSelector()
	for _, tt := range tests {
		anchor := s.SelectPoint(tt.px, tt.py, 1, tt.scale, 800, 1000)
		assert.InDelta(t, tt.px/tt.scale, anchor.X, 1e-9)
		assert.InDelta(t, tt.py/tt.scale, anchor.Y, 1e-9)
		assert.Equal(t, tt.scale, anchor.Scale)
	}
}

func TestSelectPointKeepsOnlyLatest(t *testing.T) {
	s := NewSelector()

	s.SelectPoint(10, 20, 1, 1, 100, 100)
	s.SelectPoint(30, 40, 2, 2, 100, 100)

	current := s.CurrentAnchor()
	require.NotNil(t, current)
	assert.Equal(t, 2, current.PageIndex)
	assert.Equal(t, 15.0, current.X)
	assert.Equal(t, 20.0, current.Y)
}

func TestSelectPointTreatsNonPositiveScaleAsOne(t *testing.T) {
	anchor := NewSelector().SelectPoint(50, 60, 1, 0, 100, 100)
	assert.Equal(t, 50.0, anchor.X)
	assert.Equal(t, 1.0, anchor.Scale)
}

func TestClearIsIdempotent(t *testing.T) {
	s := NewSelector()
	s.SelectPoint(1, 1, 1, 1, 10, 10)

	s.Clear()
	assert.Nil(t, s.CurrentAnchor())
	s.Clear()
	assert.Nil(t, s.CurrentAnchor())
}

func TestCurrentAnchorIsACopy(t *testing.T) {
	s := NewSelector()
	s.SelectPoint(10, 10, 1, 1, 10, 10)

	a := s.CurrentAnchor()
	a.X = 999

	assert.Equal(t, 10.0, s.CurrentAnchor().X)
}

func TestInvalidate(t *testing.T) {
	s := NewSelector()
	assert.False(t, s.Invalidate(1, 1))

	s.SelectPoint(10, 10, 2, 1, 10, 10)
	assert.False(t, s.Invalidate(1, 3))
	assert.NotNil(t, s.CurrentAnchor())

	assert.True(t, s.Invalidate(1.5, 3))
	assert.Nil(t, s.CurrentAnchor())

	s.SelectPoint(10, 10, 3, 1, 10, 10)
	assert.True(t, s.Invalidate(1, 2))
	assert.Nil(t, s.CurrentAnchor())
}
