// Package renderer draws the simulation's render-facing buffers with raylib.
// It consumes positions and instance attributes; it never mutates simulation
// state.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/splash/systems"
)

// FluidRenderer renders the fluid transform buffer as shaded spheres inside
// the container wireframe.
type FluidRenderer struct {
	particleRadius float32
	baseColor      rl.Color
	fastColor      rl.Color
}

// NewFluidRenderer creates a fluid renderer.
func NewFluidRenderer(particleRadius float32) *FluidRenderer {
	return &FluidRenderer{
		particleRadius: particleRadius,
		baseColor:      rl.Color{R: 60, G: 140, B: 235, A: 255},
		fastColor:      rl.Color{R: 190, G: 230, B: 255, A: 255},
	}
}

// Draw renders every fluid particle plus the container bounds. Must run
// inside BeginMode3D. speeds may be nil; when present it is indexed by slot
// and tints fast particles toward white.
func (r *FluidRenderer) Draw(positions []systems.Vec3, speeds []float32, maxSpeed float32, bounds systems.Vec3) {
	for i, pos := range positions {
		color := r.baseColor
		if speeds != nil && maxSpeed > 0 {
			t := speeds[i] / maxSpeed
			if t > 1 {
				t = 1
			}
			color = lerpColor(r.baseColor, r.fastColor, t)
		}
		rl.DrawSphereEx(toRL(pos), r.particleRadius, 6, 6, color)
	}

	rl.DrawCubeWires(
		rl.Vector3{},
		bounds.X*2, bounds.Y*2, bounds.Z*2,
		rl.Color{R: 200, G: 200, B: 200, A: 90},
	)
}

// EmitterRenderer renders the emitter instance buffer as fading billboards.
type EmitterRenderer struct {
	color rl.Color
}

// NewEmitterRenderer creates an emitter renderer.
func NewEmitterRenderer() *EmitterRenderer {
	return &EmitterRenderer{
		color: rl.Color{R: 255, G: 170, B: 80, A: 255},
	}
}

// Draw renders all emitter instances. Alpha and size arrive precomputed in
// the instance buffer; this layer only maps them onto raylib calls. Must run
// inside BeginMode3D.
func (r *EmitterRenderer) Draw(instances []systems.ParticleInstance) {
	for i := range instances {
		inst := &instances[i]
		color := r.color
		color.A = uint8(inst.Alpha * 255)
		rl.DrawSphereEx(toRL(inst.Position), inst.Size, 4, 4, color)
	}
}

// toRL converts a simulation vector to a raylib vector.
func toRL(v systems.Vec3) rl.Vector3 {
	return rl.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// lerpColor blends two colors by t in [0,1].
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
