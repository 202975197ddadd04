package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoomPolicyClamp(t *testing.T) {
	z := ZoomPolicy{Min: 0.5, Max: 3.0, Step: 0.1, Default: 1.0}

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below range", 0.25, 0.5},
		{"above range", 5, 3.0},
		{"snapped", 1.23, 1.2},
		{"exact", 1.5, 1.5},
		{"zero uses default", 0, 1.0},
		{"negative uses default", -2, 1.0},
		{"nan uses default", math.NaN(), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, z.Clamp(tt.in))
		})
	}
}

func TestZoomInOut(t *testing.T) {
	z := ZoomPolicy{Min: 0.5, Max: 3.0, Step: 0.1, Default: 1.0}

	assert.Equal(t, 1.1, z.In(1.0))
	assert.Equal(t, 0.9, z.Out(1.0))
	assert.Equal(t, 3.0, z.In(3.0))
	assert.Equal(t, 0.5, z.Out(0.5))

	scale := 1.0
	for i := 0; i < 50; i++ {
		scale = z.In(scale)
	}
	assert.Equal(t, 3.0, scale)
}
