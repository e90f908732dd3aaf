package game

import (
	"github.com/pthm-cable/splash/config"
	"github.com/pthm-cable/splash/systems"
)

// emitterParamsFromConfig maps the loaded configuration onto the emitter's
// parameter struct. The systems package stays config-free so tests and
// parallel experiment runs can construct parameters directly.
func emitterParamsFromConfig(cfg *config.Config) systems.EmitterParams {
	e := cfg.Emitter
	return systems.EmitterParams{
		Rate:            float32(e.Rate),
		Lifetime:        float32(e.Lifetime),
		InitialSpeed:    float32(e.InitialSpeed),
		PressBoost:      float32(e.PressBoost),
		ConeAngle:       float32(e.ConeAngle),
		Gravity:         float32(e.Gravity),
		BaseSize:        float32(e.BaseSize),
		MaxParticles:    e.MaxParticles,
		AttractRadius:   float32(e.AttractRadius),
		AttractStrength: float32(e.AttractStrength),
		PoolInitial:     e.PoolInitial,
		PoolBatch:       e.PoolBatch,
	}
}

// fluidParamsFromConfig maps the loaded configuration onto the fluid's
// parameter struct.
func fluidParamsFromConfig(cfg *config.Config) systems.FluidParams {
	f := cfg.Fluid
	return systems.FluidParams{
		Count:               f.Count,
		SmoothingRadius:     float32(f.SmoothingRadius),
		RestDensity:         float32(f.RestDensity),
		PressureMultiplier:  float32(f.PressureMultiplier),
		Viscosity:           float32(f.Viscosity),
		Gravity:             float32(f.Gravity),
		MaxVelocity:         float32(f.MaxVelocity),
		BoundaryDamping:     float32(f.BoundaryDamping),
		Bounds:              systems.Vec3{X: float32(f.BoundsX), Y: float32(f.BoundsY), Z: float32(f.BoundsZ)},
		InteractionRadius:   float32(f.InteractionRadius),
		InteractionStrength: float32(f.InteractionStrength),
		UpwardBias:          float32(f.UpwardBias),
		SeedHeight:          float32(f.SeedHeight),
		SeedJitter:          float32(f.SeedJitter),
		SeedSpacing:         float32(f.SeedSpacing),
	}
}
