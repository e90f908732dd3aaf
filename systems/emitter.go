package systems

import (
	"math"
	"math/rand"
)

// EmissionParticle is a pooled short-lived particle. Instances are owned by
// the emitter while Alive and by the pool otherwise; they are only ever
// created through pool acquisition at emission time.
type EmissionParticle struct {
	Position Vec3
	Velocity Vec3
	Age      float32
	Lifetime float32
	Alive    bool
}

// resetEmissionParticle is the pool reset hook for emission particles.
func resetEmissionParticle(p *EmissionParticle) {
	*p = EmissionParticle{}
}

// ParticleInstance is one render-facing particle: position plus the derived
// visual attributes the external renderer consumes. Alpha and size are pure
// functions of particle state, recomputed every step.
type ParticleInstance struct {
	Position Vec3
	Alpha    float32
	Size     float32
}

// EmitterParams holds the tunable emitter configuration.
type EmitterParams struct {
	Rate            float32 // particles emitted per second
	Lifetime        float32 // seconds, jittered +-20% per particle
	InitialSpeed    float32 // emission speed along the cone direction
	PressBoost      float32 // speed multiplier while the pointer is pressed
	ConeAngle       float32 // max polar angle of the emission cone, radians
	Gravity         float32 // downward acceleration
	BaseSize        float32 // instance size at full alpha is 1.0x base
	MaxParticles    int     // hard cap on the active set
	AttractRadius   float32 // pointer attraction reach while pressed
	AttractStrength float32 // pointer attraction magnitude
	PoolInitial     int
	PoolBatch       int
}

// Emitter maintains a variable-size set of short-lived particles spawned from
// a moving emission point. All transient instances come from an internal
// pool, and pointer attraction is resolved through the spatial hash so its
// cost stays proportional to the particles actually in reach.
type Emitter struct {
	params EmitterParams

	pool   *Pool[EmissionParticle]
	active []*EmissionParticle
	hash   *SpatialHash

	// Reused per-step buffers (index-aligned with active).
	positions []Vec3
	instances []ParticleInstance
	queryBuf  []Neighbor

	running     bool
	accumulator float32
	emitPoint   Vec3

	seed int64
	rng  *rand.Rand

	// Window counters read and reset by telemetry.
	emittedCount int
	diedCount    int
}

// NewEmitter creates an emitter with the given parameters and RNG seed.
func NewEmitter(params EmitterParams, seed int64) *Emitter {
	if params.PoolInitial < 1 {
		params.PoolInitial = 256
	}
	if params.PoolBatch < 1 {
		params.PoolBatch = 64
	}
	e := &Emitter{
		params:    params,
		pool:      NewPool(params.PoolInitial, params.PoolBatch, resetEmissionParticle),
		active:    make([]*EmissionParticle, 0, params.PoolInitial),
		hash:      NewSpatialHash(2 * params.AttractRadius),
		positions: make([]Vec3, 0, params.PoolInitial),
		instances: make([]ParticleInstance, 0, params.PoolInitial),
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
	}
	return e
}

// Start enables emission. Existing particles are unaffected.
func (e *Emitter) Start() {
	e.running = true
}

// Stop disables emission. Existing particles keep aging and integrating.
func (e *Emitter) Stop() {
	e.running = false
}

// Running reports whether new particles are being emitted.
func (e *Emitter) Running() bool {
	return e.running
}

// Reset releases every active particle back to the pool and zeroes the
// emission accumulator. The RNG is re-seeded so a reset run replays exactly.
func (e *Emitter) Reset() {
	for i := len(e.active) - 1; i >= 0; i-- {
		e.active[i].Alive = false
		e.pool.Release(e.active[i])
	}
	e.active = e.active[:0]
	e.positions = e.positions[:0]
	e.instances = e.instances[:0]
	e.accumulator = 0
	e.rng = rand.New(rand.NewSource(e.seed))
}

// Dispose releases all pooled storage. The emitter must not be used after.
func (e *Emitter) Dispose() {
	e.Reset()
	e.pool.Dispose()
	e.active = nil
	e.positions = nil
	e.instances = nil
	e.queryBuf = nil
}

// SetEmitPoint moves the emission origin.
func (e *Emitter) SetEmitPoint(p Vec3) {
	e.emitPoint = p
}

// SetParams replaces the tunable parameters. Pool sizing fields only apply at
// construction; the cap takes effect at the next emission check.
func (e *Emitter) SetParams(params EmitterParams) {
	if params.AttractRadius != e.params.AttractRadius {
		e.hash = NewSpatialHash(2 * params.AttractRadius)
	}
	params.PoolInitial = e.params.PoolInitial
	params.PoolBatch = e.params.PoolBatch
	e.params = params
}

// Params returns the current parameter set.
func (e *Emitter) Params() EmitterParams {
	return e.params
}

// Count returns the number of active particles.
func (e *Emitter) Count() int {
	return len(e.active)
}

// PoolAllocated returns the total instances allocated by the backing pool.
func (e *Emitter) PoolAllocated() int {
	return e.pool.Allocated()
}

// Instances returns the render-facing instance buffer for the current step.
// The slice is reused across steps; callers must consume it before the next
// Update.
func (e *Emitter) Instances() []ParticleInstance {
	return e.instances
}

// DrainCounters returns and resets the emitted/died counters for telemetry.
func (e *Emitter) DrainCounters() (emitted, died int) {
	emitted, died = e.emittedCount, e.diedCount
	e.emittedCount, e.diedCount = 0, 0
	return emitted, died
}

// Update advances the emitter by dt seconds.
func (e *Emitter) Update(dt float32, in InputState) {
	if dt <= 0 {
		return
	}

	if e.running {
		e.emit(dt, in)
	}

	e.integrate(dt, in)
	e.removeDead()
	e.writeInstances()
}

// emit converts the continuous emission rate into a whole particle count via
// the carried-over accumulator, then spawns from the pool up to the cap.
func (e *Emitter) emit(dt float32, in InputState) {
	rate := e.params.Rate
	if rate <= 0 {
		return
	}

	e.accumulator += dt
	count := int(e.accumulator * rate)
	if count == 0 {
		return
	}
	// Subtract the exact time-cost of the emitted particles, not the whole
	// accumulator, so fractional remainders carry over and the effective
	// rate stays accurate at inconsistent frame steps.
	e.accumulator -= float32(count) / rate

	for i := 0; i < count; i++ {
		if len(e.active) >= e.params.MaxParticles {
			// Hard cap: drop, never queue.
			break
		}
		e.spawnOne(in)
	}
}

// spawnOne acquires a particle and launches it into a narrow upward cone.
func (e *Emitter) spawnOne(in InputState) {
	p := e.pool.Acquire()

	azimuth := e.rng.Float32() * 2 * math.Pi
	polar := e.rng.Float32() * e.params.ConeAngle

	dir := Vec3{
		X: sinf(polar) * cosf(azimuth),
		Y: cosf(polar),
		Z: sinf(polar) * sinf(azimuth),
	}

	speed := e.params.InitialSpeed
	if in.Pressed {
		speed *= e.params.PressBoost
	}

	p.Position = e.emitPoint
	p.Velocity = dir.Scale(speed)
	p.Age = 0
	p.Lifetime = e.params.Lifetime * (0.8 + 0.4*e.rng.Float32())
	p.Alive = true

	e.active = append(e.active, p)
	e.emittedCount++
}

// integrate applies gravity and pointer attraction, then advances positions
// and ages. Runs for every active particle regardless of running state.
func (e *Emitter) integrate(dt float32, in InputState) {
	gravity := e.params.Gravity

	for _, p := range e.active {
		p.Velocity.Y -= gravity * dt
	}

	if in.Pressed && e.params.AttractStrength > 0 {
		e.attractToPointer(dt, in.Pointer)
	}

	for _, p := range e.active {
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Age += dt
	}
}

// attractToPointer pulls particles near the pointer with an inverse-square
// force. The hash keeps the work bounded by the particles actually in reach.
func (e *Emitter) attractToPointer(dt float32, pointer Vec3) {
	e.positions = e.positions[:0]
	for _, p := range e.active {
		e.positions = append(e.positions, p.Position)
	}

	e.hash.Clear()
	for i := range e.positions {
		e.hash.Insert(int32(i), e.positions[i])
	}

	e.queryBuf = e.hash.QueryInto(e.queryBuf[:0], pointer, e.params.AttractRadius, -1, e.positions)

	// Magnitude is capped below half a unit of separation; a true 1/d^2
	// would blow up as a particle crosses the pointer.
	const minDistSq = 0.25
	for _, n := range e.queryBuf {
		p := e.active[n.Index]
		toward := pointer.Sub(p.Position).Normalized()
		mag := e.params.AttractStrength / max(n.DistSq, minDistSq)
		p.Velocity = p.Velocity.Add(toward.Scale(mag * dt))
	}
}

// removeDead releases expired particles. Iterating backward with swap-and-pop
// keeps surviving indices stable relative to the instance writes that follow.
func (e *Emitter) removeDead() {
	for i := len(e.active) - 1; i >= 0; i-- {
		p := e.active[i]
		if p.Age < p.Lifetime {
			continue
		}
		p.Alive = false
		e.pool.Release(p)
		last := len(e.active) - 1
		e.active[i] = e.active[last]
		e.active = e.active[:last]
		e.diedCount++
	}
}

// writeInstances derives the visual attributes the renderer consumes.
func (e *Emitter) writeInstances() {
	e.instances = e.instances[:0]
	for _, p := range e.active {
		alpha := clamp01(1 - p.Age/p.Lifetime)
		e.instances = append(e.instances, ParticleInstance{
			Position: p.Position,
			Alpha:    alpha,
			Size:     e.params.BaseSize * (0.5 + 0.5*alpha),
		})
	}
}
