package systems

import (
	"math"
	"math/rand"
)

// MaxStepDT bounds the integration step. Frame-rate drops stretch the host
// dt; integrating a huge step with explicit Euler would explode, so the step
// is clamped here (never stretched upward).
const MaxStepDT = 1.0 / 30.0

// FluidParticle is one member of the fixed fluid population. Particles are
// never individually created or destroyed after initialization; Reset
// re-seeds the whole set. SlotIndex ties the particle to its slot in the
// externally-visible transform buffer and stays stable for its lifetime.
type FluidParticle struct {
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3 // zeroed at the start of every force pass
	Density      float32
	Pressure     float32
	SlotIndex    int32
}

// resetFluidParticle is the pool reset hook for fluid particles.
func resetFluidParticle(p *FluidParticle) {
	*p = FluidParticle{SlotIndex: -1}
}

// FluidParams holds the tunable fluid configuration. The pressure multiplier
// and viscosity blend are calibrated by eye, not derived from a physical
// model; see defaults.yaml for the values that look right.
type FluidParams struct {
	Count               int
	SmoothingRadius     float32 // interaction distance between particles
	RestDensity         float32 // density at which net pressure is zero
	PressureMultiplier  float32
	Viscosity           float32
	Gravity             float32
	MaxVelocity         float32 // magnitude clamp keeping Euler stable
	BoundaryDamping     float32 // (0,1]; 1 bounces without energy loss
	Bounds              Vec3    // container half-extents around the origin
	InteractionRadius   float32 // pointer push reach
	InteractionStrength float32
	UpwardBias          float32 // constant lift added inside the push radius
	SeedHeight          float32 // seed grid center height
	SeedJitter          float32 // positional jitter of the seed grid
	SeedSpacing         float32 // seed grid lattice spacing
}

// Fluid simulates a fixed population of particles interacting through
// density, pressure, and viscosity forces, with a linear falloff kernel
// standing in for a full SPH kernel. The simplification is deliberate: the
// engine trades kernel accuracy for speed and readability, and leans on the
// dt and velocity clamps for stability instead of a higher-order integrator.
type Fluid struct {
	params FluidParams

	pool      *Pool[FluidParticle]
	particles []*FluidParticle
	hash      *SpatialHash

	// positions mirrors particle positions for hash queries; transforms is
	// the render-facing buffer indexed by SlotIndex.
	positions  []Vec3
	transforms []Vec3

	// neighborLists caches each particle's query results between the
	// density and force passes, so the hash is queried once per particle
	// per step.
	neighborLists [][]Neighbor

	running bool
	seed    int64
	rng     *rand.Rand
}

// NewFluid creates a fluid with the given parameters and RNG seed. A
// non-positive count yields an empty (but valid) fluid.
func NewFluid(params FluidParams, seed int64) *Fluid {
	if params.Count < 0 {
		params.Count = 0
	}
	f := &Fluid{
		params: params,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
	}
	f.initPopulation()
	return f
}

// initPopulation builds the pool, acquires the full population, and seeds it.
func (f *Fluid) initPopulation() {
	n := f.params.Count

	poolSize := n
	if poolSize < 1 {
		poolSize = 1
	}
	f.pool = NewPool(poolSize, 64, resetFluidParticle)

	f.particles = make([]*FluidParticle, n)
	f.positions = make([]Vec3, n)
	f.transforms = make([]Vec3, n)
	f.neighborLists = make([][]Neighbor, n)
	for i := 0; i < n; i++ {
		p := f.pool.Acquire()
		p.SlotIndex = int32(i)
		f.particles[i] = p
		f.neighborLists[i] = make([]Neighbor, 0, 32)
	}

	f.hash = NewSpatialHash(2 * f.params.SmoothingRadius)
	f.Reset()
}

// Start enables integration.
func (f *Fluid) Start() {
	f.running = true
}

// Stop disables integration without touching particle state.
func (f *Fluid) Stop() {
	f.running = false
}

// Running reports whether steps integrate.
func (f *Fluid) Running() bool {
	return f.running
}

// Count returns the configured population size.
func (f *Fluid) Count() int {
	return len(f.particles)
}

// Positions returns the externally-visible transform buffer. Entry i always
// belongs to the particle with SlotIndex i; the buffer is stable from the end
// of one Update until the next.
func (f *Fluid) Positions() []Vec3 {
	return f.transforms
}

// Particle returns the particle occupying slot i, for inspection.
func (f *Fluid) Particle(i int) *FluidParticle {
	return f.particles[i]
}

// Params returns the current parameter set.
func (f *Fluid) Params() FluidParams {
	return f.params
}

// SetParams replaces the tunable parameters. A count change is structural: it
// releases the whole population and reinitializes from scratch, because slot
// indices held by the render buffer would otherwise go stale. Everything else
// applies in place.
func (f *Fluid) SetParams(params FluidParams) {
	if params.Count < 0 {
		params.Count = 0
	}

	countChanged := params.Count != f.params.Count
	radiusChanged := params.SmoothingRadius != f.params.SmoothingRadius
	f.params = params

	if countChanged {
		f.releasePopulation()
		f.initPopulation()
		return
	}
	if radiusChanged {
		f.hash = NewSpatialHash(2 * params.SmoothingRadius)
	}
}

// releasePopulation returns every particle to the pool and drops the pool.
func (f *Fluid) releasePopulation() {
	for _, p := range f.particles {
		f.pool.Release(p)
	}
	f.pool.Dispose()
	f.particles = nil
	f.positions = nil
	f.transforms = nil
	f.neighborLists = nil
}

// Dispose releases all pooled storage. The fluid must not be used after.
func (f *Fluid) Dispose() {
	f.releasePopulation()
	f.hash = nil
}

// Reset re-seeds the population into a jittered grid above the container
// center with small random velocities. Valid whether or not the fluid is
// running; the RNG is re-seeded so consecutive resets produce the same grid.
func (f *Fluid) Reset() {
	f.rng = rand.New(rand.NewSource(f.seed))

	n := len(f.particles)
	if n == 0 {
		return
	}

	side := int(math.Ceil(math.Cbrt(float64(n))))
	spacing := f.params.SeedSpacing
	jitter := f.params.SeedJitter
	half := float32(side-1) * spacing * 0.5

	for i, p := range f.particles {
		col := i % side
		row := (i / side) % side
		layer := i / (side * side)

		p.Position = Vec3{
			X: float32(col)*spacing - half + (f.rng.Float32()-0.5)*jitter,
			Y: f.params.SeedHeight + float32(layer)*spacing + (f.rng.Float32()-0.5)*jitter,
			Z: float32(row)*spacing - half + (f.rng.Float32()-0.5)*jitter,
		}
		p.Velocity = Vec3{
			X: (f.rng.Float32() - 0.5) * 0.1,
			Y: (f.rng.Float32() - 0.5) * 0.1,
			Z: (f.rng.Float32() - 0.5) * 0.1,
		}
		p.Acceleration = Vec3{}
		p.Density = 0
		p.Pressure = 0
		f.transforms[p.SlotIndex] = p.Position
	}
}

// Update advances the fluid by one step. Skipped entirely when stopped or
// empty. All force contributions accumulate into per-particle acceleration
// before any integration happens; density and pressure are recomputed in
// full before any force reads them.
func (f *Fluid) Update(dt float32, in InputState) {
	if !f.running || len(f.particles) == 0 || dt <= 0 {
		return
	}
	if dt > MaxStepDT {
		dt = MaxStepDT
	}

	f.rebuildHash()
	f.computeDensity()
	f.computePressure()
	f.applyForces()
	f.applyInteraction(in)
	f.integrate(dt)
	f.handleBoundaries()
	f.writeTransforms()
}

// rebuildHash clears and refills the spatial index from current positions.
func (f *Fluid) rebuildHash() {
	f.hash.Clear()
	for i, p := range f.particles {
		f.positions[i] = p.Position
		f.hash.Insert(int32(i), p.Position)
	}
}

// computeDensity runs the neighbor query for every particle, caching the
// result for the force pass, and accumulates the linear falloff kernel.
// Self is excluded: a zero-distance self term would dominate the sum.
func (f *Fluid) computeDensity() {
	h := f.params.SmoothingRadius
	for i, p := range f.particles {
		list := f.hash.QueryInto(f.neighborLists[i][:0], p.Position, h, int32(i), f.positions)
		f.neighborLists[i] = list

		var density float32
		for _, n := range list {
			density += 1 - sqrtf(n.DistSq)/h
		}
		p.Density = density
	}
}

// computePressure derives pressure from the density error. Below rest
// density the pressure goes negative and pulls particles together.
func (f *Fluid) computePressure() {
	k := f.params.PressureMultiplier
	rest := f.params.RestDensity
	for _, p := range f.particles {
		p.Pressure = k * (p.Density - rest)
	}
}

// applyForces accumulates gravity, pressure, and viscosity into each
// particle's acceleration using the neighbor lists cached by computeDensity.
func (f *Fluid) applyForces() {
	h := f.params.SmoothingRadius
	mu := f.params.Viscosity

	for i, p := range f.particles {
		p.Acceleration = Vec3{Y: -f.params.Gravity}

		for _, n := range f.neighborLists[i] {
			o := f.particles[n.Index]
			dist := sqrtf(n.DistSq)
			weight := 1 - dist/h

			// Pressure pushes along the neighbor->particle direction,
			// weighted by the averaged pressures of the pair. Coincident
			// particles have no usable direction; viscosity still applies.
			if dist > 1e-6 {
				dir := p.Position.Sub(o.Position).Scale(1 / dist)
				shared := (p.Pressure + o.Pressure) * 0.5 * weight
				p.Acceleration = p.Acceleration.Add(dir.Scale(shared))
			}

			// Viscosity blends the pair's velocities, simulating internal
			// friction.
			dv := o.Velocity.Sub(p.Velocity)
			p.Acceleration = p.Acceleration.Add(dv.Scale(mu * weight))
		}
	}
}

// applyInteraction pushes particles away from the pointer while pressed,
// with linear falloff and a small constant upward bias inside the radius.
func (f *Fluid) applyInteraction(in InputState) {
	if !in.Pressed {
		return
	}
	radius := f.params.InteractionRadius
	if radius <= 0 {
		return
	}
	radiusSq := radius * radius

	for _, p := range f.particles {
		d := p.Position.Sub(in.Pointer)
		distSq := d.LengthSq()
		if distSq > radiusSq {
			continue
		}
		dist := sqrtf(distSq)
		weight := 1 - dist/radius

		outward := d.Normalized()
		if dist <= 1e-6 {
			outward = Vec3{Y: 1}
		}
		p.Acceleration = p.Acceleration.Add(outward.Scale(f.params.InteractionStrength * weight))
		p.Acceleration.Y += f.params.UpwardBias
	}
}

// integrate advances velocities and positions with explicit Euler. The
// velocity clamp is the stability backstop for the simplified scheme.
func (f *Fluid) integrate(dt float32) {
	maxVel := f.params.MaxVelocity
	for _, p := range f.particles {
		p.Velocity = p.Velocity.Add(p.Acceleration.Scale(dt))
		if maxVel > 0 {
			p.Velocity = p.Velocity.ClampLength(maxVel)
		}
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
	}
}

// handleBoundaries clamps each axis independently to the container and
// reflects the corresponding velocity component with damping.
func (f *Fluid) handleBoundaries() {
	b := f.params.Bounds
	damp := f.params.BoundaryDamping

	for _, p := range f.particles {
		if p.Position.X > b.X {
			p.Position.X = b.X
			p.Velocity.X *= -damp
		} else if p.Position.X < -b.X {
			p.Position.X = -b.X
			p.Velocity.X *= -damp
		}
		if p.Position.Y > b.Y {
			p.Position.Y = b.Y
			p.Velocity.Y *= -damp
		} else if p.Position.Y < -b.Y {
			p.Position.Y = -b.Y
			p.Velocity.Y *= -damp
		}
		if p.Position.Z > b.Z {
			p.Position.Z = b.Z
			p.Velocity.Z *= -damp
		} else if p.Position.Z < -b.Z {
			p.Position.Z = -b.Z
			p.Velocity.Z *= -damp
		}
	}
}

// writeTransforms publishes positions to the render-facing buffer. Each
// particle writes its own stable slot, keeping the buffer index-consistent
// for the renderer.
func (f *Fluid) writeTransforms() {
	for _, p := range f.particles {
		f.transforms[p.SlotIndex] = p.Position
	}
}
