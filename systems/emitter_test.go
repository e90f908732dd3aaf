package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmitterParams() EmitterParams {
	return EmitterParams{
		Rate:            100,
		Lifetime:        3.0,
		InitialSpeed:    5,
		PressBoost:      1.5,
		ConeAngle:       0.35,
		Gravity:         9.8,
		BaseSize:        0.1,
		MaxParticles:    10000,
		AttractRadius:   5,
		AttractStrength: 20,
		PoolInitial:     64,
		PoolBatch:       32,
	}
}

// runEmitter advances the emitter for the given duration at fixed dt.
func runEmitter(e *Emitter, seconds, dt float32) {
	steps := int(seconds/dt + 0.5)
	for i := 0; i < steps; i++ {
		e.Update(dt, InputState{})
	}
}

func TestEmitterEmissionAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		rate    float32
		dt      float32
		seconds float32
	}{
		{"60fps", 100, 1.0 / 60.0, 2.0},
		{"uneven dt", 100, 0.017, 2.0},
		{"low rate", 7, 1.0 / 60.0, 2.0},
		{"30fps", 250, 1.0 / 30.0, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testEmitterParams()
			params.Rate = tt.rate
			params.Lifetime = 100 // nothing dies during the run
			e := NewEmitter(params, 1)
			e.Start()

			runEmitter(e, tt.seconds, tt.dt)

			steps := int(tt.seconds/tt.dt + 0.5)
			simTime := float32(steps) * tt.dt
			want := float64(tt.rate * simTime)
			// Accumulator carry-over keeps the total within one particle of
			// rate x time.
			assert.InDelta(t, want, float64(e.Count()), 1.001)
		})
	}
}

func TestEmitterHardCap(t *testing.T) {
	params := testEmitterParams()
	params.Rate = 10000
	params.MaxParticles = 50
	params.Lifetime = 100
	e := NewEmitter(params, 1)
	e.Start()

	runEmitter(e, 1.0, 1.0/60.0)

	assert.Equal(t, 50, e.Count(), "cap must hold regardless of accumulator state")
}

func TestEmitterDrainsAfterStop(t *testing.T) {
	e := NewEmitter(testEmitterParams(), 1)
	e.Start()

	// Emit for 3 simulated seconds.
	runEmitter(e, 3.0, 1.0/60.0)
	require.Greater(t, e.Count(), 0)

	// Stop emitting; lifetimes are jittered up to 1.2x, so 3.7s drains all.
	e.Stop()
	runEmitter(e, 3.7, 1.0/60.0)

	assert.Equal(t, 0, e.Count(), "all particles must die after lifetime elapses")

	emitted, died := e.DrainCounters()
	assert.Equal(t, emitted, died, "every emitted particle must be released")
}

func TestEmitterStopKeepsExisting(t *testing.T) {
	e := NewEmitter(testEmitterParams(), 1)
	e.Start()
	runEmitter(e, 0.5, 1.0/60.0)
	before := e.Count()
	require.Greater(t, before, 0)

	e.Stop()
	e.Update(1.0/60.0, InputState{})

	// Stop blocks new emission; survivors keep integrating and aging.
	assert.LessOrEqual(t, e.Count(), before)
	assert.Greater(t, e.Count(), 0)
}

func TestEmitterResetIdempotent(t *testing.T) {
	e := NewEmitter(testEmitterParams(), 1)
	e.Start()
	runEmitter(e, 1.0, 1.0/60.0)
	require.Greater(t, e.Count(), 0)

	e.Reset()
	assert.Equal(t, 0, e.Count())
	assert.Empty(t, e.Instances())

	e.Reset()
	assert.Equal(t, 0, e.Count(), "second reset must be a no-op")
}

func TestEmitterResetReplaysDeterministically(t *testing.T) {
	e := NewEmitter(testEmitterParams(), 42)
	e.Start()

	runEmitter(e, 0.5, 1.0/60.0)
	first := make([]ParticleInstance, len(e.Instances()))
	copy(first, e.Instances())

	e.Reset()
	e.Start()
	runEmitter(e, 0.5, 1.0/60.0)

	require.Equal(t, len(first), len(e.Instances()))
	assert.Equal(t, first, e.Instances(), "reset must replay the same RNG stream")
}

func TestEmitterVisualDerivation(t *testing.T) {
	params := testEmitterParams()
	e := NewEmitter(params, 1)
	e.Start()
	runEmitter(e, 1.0, 1.0/60.0)

	instances := e.Instances()
	require.Equal(t, e.Count(), len(instances))

	for i, inst := range instances {
		// alpha = 1 - age/lifetime stays in (0, 1] for living particles
		assert.Greater(t, inst.Alpha, float32(0), "instance %d", i)
		assert.LessOrEqual(t, inst.Alpha, float32(1), "instance %d", i)
		// size = base * (0.5 + 0.5*alpha)
		wantSize := params.BaseSize * (0.5 + 0.5*inst.Alpha)
		assert.InDelta(t, float64(wantSize), float64(inst.Size), 1e-6, "instance %d", i)
	}
}

func TestEmitterPoolGrowthBounded(t *testing.T) {
	params := testEmitterParams()
	params.PoolInitial = 16
	params.PoolBatch = 8
	params.Lifetime = 100
	e := NewEmitter(params, 1)
	e.Start()

	runEmitter(e, 1.0, 1.0/60.0) // ~100 particles

	// Allocation never overshoots by more than one batch past demand.
	assert.GreaterOrEqual(t, e.PoolAllocated(), e.Count())
	assert.LessOrEqual(t, e.PoolAllocated(), e.Count()+params.PoolBatch)
}

func TestEmitterAttractionPullsToward(t *testing.T) {
	params := testEmitterParams()
	params.Gravity = 0
	params.InitialSpeed = 0
	params.Rate = 60
	e := NewEmitter(params, 1)
	e.Start()

	pointer := Vec3{X: 2, Y: 1, Z: 0}
	in := InputState{Pointer: pointer, Pressed: true}

	// Emit a few particles, then measure their drift toward the pointer.
	for i := 0; i < 30; i++ {
		e.Update(1.0/60.0, in)
	}
	require.Greater(t, e.Count(), 0)

	var before float32
	for _, inst := range e.Instances() {
		before += inst.Position.Sub(pointer).Length()
	}
	before /= float32(len(e.Instances()))

	e.Stop() // freeze the population, keep integrating
	for i := 0; i < 30; i++ {
		e.Update(1.0/60.0, in)
	}

	var after float32
	for _, inst := range e.Instances() {
		after += inst.Position.Sub(pointer).Length()
	}
	after /= float32(len(e.Instances()))

	assert.Less(t, after, before, "mean distance to pointer must shrink under attraction")
}
