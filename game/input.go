package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/splash/systems"
)

// Camera orbit limits.
const (
	minCamDistance  = 4.0
	maxCamDistance  = 60.0
	maxCamElevation = 1.45 // just shy of the pole
)

// handleInput processes keyboard and mouse input and refreshes the
// simulation-facing InputState.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.engine.Reset()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		if g.engine.Fluid().Running() {
			g.engine.Stop()
		} else {
			g.engine.Start()
		}
	}

	g.handleCameraInput()

	// The panel owns the mouse while it's open and hovered; otherwise the
	// left button drives the fluid/emitter interaction.
	mouse := rl.GetMousePosition()
	overPanel := g.panel.IsVisible() && mouse.X >= float32(rl.GetScreenWidth()-340)

	g.input.Pressed = rl.IsMouseButtonDown(rl.MouseButtonLeft) && !overPanel
	g.input.Pointer = g.projectPointer(mouse)
}

// handleCameraInput orbits and zooms the camera around the container.
func (g *Game) handleCameraInput() {
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		g.camDistance -= wheel * 1.5
		if g.camDistance < minCamDistance {
			g.camDistance = minCamDistance
		}
		if g.camDistance > maxCamDistance {
			g.camDistance = maxCamDistance
		}
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		g.camAzimuth += delta.X * 0.005
		g.camElevation += delta.Y * 0.005
		if g.camElevation > maxCamElevation {
			g.camElevation = maxCamElevation
		}
		if g.camElevation < -maxCamElevation {
			g.camElevation = -maxCamElevation
		}
	}

	g.updateCameraPosition()
}

// updateCameraPosition derives the camera position from the orbit state.
func (g *Game) updateCameraPosition() {
	cosE := float32(math.Cos(float64(g.camElevation)))
	g.camera.Position = rl.Vector3{
		X: float32(math.Cos(float64(g.camAzimuth))) * cosE * g.camDistance,
		Y: float32(math.Sin(float64(g.camElevation))) * g.camDistance,
		Z: float32(math.Sin(float64(g.camAzimuth))) * cosE * g.camDistance,
	}
}

// projectPointer intersects the mouse ray with the view-facing plane through
// the container center, yielding the world-space pointer the simulation
// consumes.
func (g *Game) projectPointer(mouse rl.Vector2) systems.Vec3 {
	ray := rl.GetScreenToWorldRay(mouse, g.camera)

	// Plane normal points from target back toward the camera.
	n := systems.Vec3{
		X: g.camera.Position.X - g.camera.Target.X,
		Y: g.camera.Position.Y - g.camera.Target.Y,
		Z: g.camera.Position.Z - g.camera.Target.Z,
	}.Normalized()

	dir := systems.Vec3{X: ray.Direction.X, Y: ray.Direction.Y, Z: ray.Direction.Z}
	origin := systems.Vec3{X: ray.Position.X, Y: ray.Position.Y, Z: ray.Position.Z}

	denom := dir.X*n.X + dir.Y*n.Y + dir.Z*n.Z
	if denom > -1e-5 && denom < 1e-5 {
		return g.input.Pointer // grazing ray; keep last pointer
	}

	t := -(origin.X*n.X + origin.Y*n.Y + origin.Z*n.Z) / denom
	return origin.Add(dir.Scale(t))
}
