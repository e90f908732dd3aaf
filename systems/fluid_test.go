package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFluidParams(n int) FluidParams {
	return FluidParams{
		Count:               n,
		SmoothingRadius:     1.0,
		RestDensity:         1.0,
		PressureMultiplier:  30,
		Viscosity:           0.1,
		Gravity:             9.8,
		MaxVelocity:         25,
		BoundaryDamping:     0.6,
		Bounds:              Vec3{X: 4, Y: 4, Z: 4},
		InteractionRadius:   3,
		InteractionStrength: 45,
		UpwardBias:          6,
		SeedHeight:          1,
		SeedJitter:          0.2,
		SeedSpacing:         0.5,
	}
}

func runFluid(f *Fluid, steps int, dt float32) {
	for i := 0; i < steps; i++ {
		f.Update(dt, InputState{})
	}
}

func finite(v Vec3) bool {
	for _, c := range []float32{v.X, v.Y, v.Z} {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}

func TestFluidResetIdempotent(t *testing.T) {
	f := NewFluid(testFluidParams(27), 7)

	f.Reset()
	first := make([]Vec3, len(f.Positions()))
	copy(first, f.Positions())

	f.Reset()
	assert.Equal(t, first, f.Positions(), "reset must rebuild the identical seeded grid")
}

func TestFluidBoundaryContainment(t *testing.T) {
	params := testFluidParams(64)
	params.Gravity = 100
	params.MaxVelocity = 500
	params.Bounds = Vec3{X: 2, Y: 2, Z: 2}
	f := NewFluid(params, 3)
	f.Start()

	const eps = 1e-4
	for step := 0; step < 120; step++ {
		f.Update(1.0/60.0, InputState{})
		for i, pos := range f.Positions() {
			require.True(t, finite(pos), "step %d particle %d not finite", step, i)
			require.LessOrEqual(t, float64(pos.X), float64(params.Bounds.X)+eps)
			require.GreaterOrEqual(t, float64(pos.X), -float64(params.Bounds.X)-eps)
			require.LessOrEqual(t, float64(pos.Y), float64(params.Bounds.Y)+eps)
			require.GreaterOrEqual(t, float64(pos.Y), -float64(params.Bounds.Y)-eps)
			require.LessOrEqual(t, float64(pos.Z), float64(params.Bounds.Z)+eps)
			require.GreaterOrEqual(t, float64(pos.Z), -float64(params.Bounds.Z)-eps)
		}
	}
}

func TestFluidBounceDamping(t *testing.T) {
	params := testFluidParams(1)
	params.Gravity = 0
	f := NewFluid(params, 1)
	f.Start()

	p := f.Particle(0)
	p.Position = Vec3{X: 0, Y: -3.9, Z: 0}
	p.Velocity = Vec3{X: 0, Y: -10, Z: 0}

	f.Update(1.0/60.0, InputState{})

	// Crossing the floor clamps position and reflects velocity scaled by
	// the damping factor.
	assert.InDelta(t, -4.0, float64(p.Position.Y), 1e-5)
	assert.InDelta(t, 6.0, float64(p.Velocity.Y), 1e-4)
	assert.Less(t, float64(p.Velocity.LengthSq()), float64(100.0),
		"bounce with damping < 1 must not gain energy")
}

func TestFluidDensityExcludesSelf(t *testing.T) {
	params := testFluidParams(2)
	params.SeedSpacing = 10 // neighbors land outside the smoothing radius
	params.SeedJitter = 0
	f := NewFluid(params, 1)
	f.Start()

	f.Update(1.0/60.0, InputState{})

	for i := 0; i < f.Count(); i++ {
		p := f.Particle(i)
		assert.Zero(t, p.Density, "isolated particle %d must have zero density", i)
		assert.Less(t, float64(p.Pressure), 0.0,
			"below rest density pressure goes negative")
	}
}

func TestFluidSettlesUnderGravity(t *testing.T) {
	params := testFluidParams(200)
	f := NewFluid(params, 11)
	f.Start()

	var initial float32
	for _, pos := range f.Positions() {
		initial += pos.Y
	}
	initial /= float32(f.Count())

	runFluid(f, 300, 1.0/60.0) // 5 simulated seconds

	var final float32
	for i, pos := range f.Positions() {
		require.True(t, finite(pos), "particle %d position not finite", i)
		require.True(t, finite(f.Particle(i).Velocity), "particle %d velocity not finite", i)
		final += pos.Y
	}
	final /= float32(f.Count())

	assert.Less(t, float64(final), float64(initial),
		"mean height must drop as the fluid settles")
}

func TestFluidInteractionPush(t *testing.T) {
	params := testFluidParams(1)
	params.Gravity = 0
	f := NewFluid(params, 1)
	f.Start()

	p := f.Particle(0)
	p.Position = Vec3{}
	p.Velocity = Vec3{}

	in := InputState{Pointer: Vec3{X: 0.5, Y: 0, Z: 0}, Pressed: true}
	f.Update(1.0/60.0, in)

	assert.Less(t, float64(p.Velocity.X), 0.0, "particle must be pushed away from the pointer")
	assert.Greater(t, float64(p.Velocity.Y), 0.0, "interaction carries an upward bias")
}

func TestFluidSetCountReinit(t *testing.T) {
	f := NewFluid(testFluidParams(27), 5)
	f.Start()
	runFluid(f, 10, 1.0/60.0)

	params := f.Params()
	params.Count = 64
	f.SetParams(params)

	require.Equal(t, 64, f.Count())
	require.Len(t, f.Positions(), 64)

	seen := make(map[int32]bool)
	for i := 0; i < f.Count(); i++ {
		slot := f.Particle(i).SlotIndex
		require.GreaterOrEqual(t, slot, int32(0))
		require.Less(t, slot, int32(64))
		require.False(t, seen[slot], "slot index %d assigned twice", slot)
		seen[slot] = true
	}
}

func TestFluidStoppedSkipsUpdate(t *testing.T) {
	f := NewFluid(testFluidParams(27), 5)

	before := make([]Vec3, len(f.Positions()))
	copy(before, f.Positions())

	f.Update(1.0/60.0, InputState{})

	assert.Equal(t, before, f.Positions(), "stopped fluid must not integrate")
}

func TestFluidStepClamp(t *testing.T) {
	params := testFluidParams(1)
	params.Gravity = 0
	f := NewFluid(params, 1)
	f.Start()

	p := f.Particle(0)
	p.Position = Vec3{}
	p.Velocity = Vec3{X: 1, Y: 0, Z: 0}
	startX := p.Position.X

	// A one second frame must advance physics by at most MaxStepDT.
	f.Update(1.0, InputState{})

	moved := p.Position.X - startX
	assert.LessOrEqual(t, float64(moved), float64(MaxStepDT)+1e-4)
}
