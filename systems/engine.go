package systems

import "log/slog"

// Engine bundles the emitter and the fluid behind the lifecycle and tuning
// surface the host drives: one Update per frame, Start/Stop/Reset/Dispose,
// and clamped SetParameter routing. The engine owns no rendering state; the
// host reads the instance and transform buffers after each Update.
type Engine struct {
	emitter *Emitter
	fluid   *Fluid
}

// NewEngine creates an engine from explicit parameter sets. Both subsystems
// derive their RNG streams from the same seed so a run replays end to end.
func NewEngine(eParams EmitterParams, fParams FluidParams, seed int64) *Engine {
	return &Engine{
		emitter: NewEmitter(eParams, seed),
		fluid:   NewFluid(fParams, seed+1),
	}
}

// Emitter returns the particle emission system.
func (g *Engine) Emitter() *Emitter {
	return g.emitter
}

// Fluid returns the fluid simulation engine.
func (g *Engine) Fluid() *Fluid {
	return g.fluid
}

// Update runs one simulation step for both systems. Synchronous and
// single-threaded: both buffers are stable once this returns, until the next
// call.
func (g *Engine) Update(dt float32, in InputState) {
	g.emitter.Update(dt, in)
	g.fluid.Update(dt, in)
}

// Start enables emission and fluid integration.
func (g *Engine) Start() {
	g.emitter.Start()
	g.fluid.Start()
}

// Stop disables new emission and fluid integration. In-flight state stays.
func (g *Engine) Stop() {
	g.emitter.Stop()
	g.fluid.Stop()
}

// Reset empties the emitter and re-seeds the fluid grid.
func (g *Engine) Reset() {
	g.emitter.Reset()
	g.fluid.Reset()
}

// Dispose releases all pooled storage in both systems.
func (g *Engine) Dispose() {
	g.emitter.Dispose()
	g.fluid.Dispose()
}

// SetParameter applies a runtime tuning value. Out-of-range values are
// clamped to the schema bounds, unknown keys are ignored; the frame loop
// never sees an error from here. Changing the fluid count is structural and
// reinitializes the whole population.
func (g *Engine) SetParameter(key string, value float32) {
	spec, ok := specFor(key)
	if !ok {
		slog.Warn("ignoring unknown parameter", "key", key)
		return
	}
	value = clampFloat(value, spec.Min, spec.Max)

	switch key {
	case ParamEmissionRate, ParamEmissionLife, ParamEmissionSpeed,
		ParamEmissionGravity, ParamAttractStrength:
		p := g.emitter.Params()
		switch key {
		case ParamEmissionRate:
			p.Rate = value
		case ParamEmissionLife:
			p.Lifetime = value
		case ParamEmissionSpeed:
			p.InitialSpeed = value
		case ParamEmissionGravity:
			p.Gravity = value
		case ParamAttractStrength:
			p.AttractStrength = value
		}
		g.emitter.SetParams(p)

	default:
		p := g.fluid.Params()
		switch key {
		case ParamFluidCount:
			p.Count = int(value)
		case ParamSmoothingRadius:
			p.SmoothingRadius = value
		case ParamPressureMult:
			p.PressureMultiplier = value
		case ParamRestDensity:
			p.RestDensity = value
		case ParamViscosity:
			p.Viscosity = value
		case ParamFluidGravity:
			p.Gravity = value
		case ParamMaxVelocity:
			p.MaxVelocity = value
		case ParamBoundaryDamping:
			p.BoundaryDamping = value
		case ParamPushStrength:
			p.InteractionStrength = value
		}
		g.fluid.SetParams(p)
	}
}

// Parameter returns the current value for a schema key, or the schema default
// for unknown keys (keeps UI binding total).
func (g *Engine) Parameter(key string) float32 {
	switch key {
	case ParamEmissionRate:
		return g.emitter.Params().Rate
	case ParamEmissionLife:
		return g.emitter.Params().Lifetime
	case ParamEmissionSpeed:
		return g.emitter.Params().InitialSpeed
	case ParamEmissionGravity:
		return g.emitter.Params().Gravity
	case ParamAttractStrength:
		return g.emitter.Params().AttractStrength
	case ParamFluidCount:
		return float32(g.fluid.Params().Count)
	case ParamSmoothingRadius:
		return g.fluid.Params().SmoothingRadius
	case ParamPressureMult:
		return g.fluid.Params().PressureMultiplier
	case ParamRestDensity:
		return g.fluid.Params().RestDensity
	case ParamViscosity:
		return g.fluid.Params().Viscosity
	case ParamFluidGravity:
		return g.fluid.Params().Gravity
	case ParamMaxVelocity:
		return g.fluid.Params().MaxVelocity
	case ParamBoundaryDamping:
		return g.fluid.Params().BoundaryDamping
	case ParamPushStrength:
		return g.fluid.Params().InteractionStrength
	}
	if spec, ok := specFor(key); ok {
		return spec.Default
	}
	return 0
}
