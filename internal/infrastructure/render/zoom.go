package render

import (
	"math"

	"docsign-client/internal/config"
)

// ZoomPolicy bounds render scales. Out-of-range requests are clamped, never rejected.
type ZoomPolicy struct {
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

func NewZoomPolicy(cfg *config.Config) ZoomPolicy {
	return ZoomPolicy{
		Min:     cfg.Render.MinZoom,
		Max:     cfg.Render.MaxZoom,
		Step:    cfg.Render.ZoomStep,
		Default: cfg.Render.DefaultZoom,
	}
}

// Clamp snaps scale to the nearest increment and bounds it to [Min, Max]
func (z ZoomPolicy) Clamp(scale float64) float64 {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		scale = z.Default
	}

	if z.Step > 0 {
		scale = math.Round(scale/z.Step) * z.Step
	}
	// drop float noise such as 1.2000000000000002
	scale = math.Round(scale*1e6) / 1e6

	if scale < z.Min {
		return z.Min
	}
	if scale > z.Max {
		return z.Max
	}
	return scale
}

func (z ZoomPolicy) In(scale float64) float64 {
	return z.Clamp(scale + z.Step)
}

func (z ZoomPolicy) Out(scale float64) float64 {
	return z.Clamp(scale - z.Step)
}
