// Package game hosts the simulation: it drives one engine step per frame,
// feeds it input and elapsed time, and hands the resulting buffers to the
// renderer and telemetry.
package game

import (
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/splash/config"
	"github.com/pthm-cable/splash/renderer"
	"github.com/pthm-cable/splash/systems"
	"github.com/pthm-cable/splash/telemetry"
	"github.com/pthm-cable/splash/ui"
)

// maxFrameDT bounds the host-supplied elapsed time before it ever reaches
// the engine, so a suspended tab or debugger pause doesn't spiral.
const maxFrameDT = 0.1

// Options configures game construction.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	StepsPerUpdate int
}

// Game holds the complete host state around the simulation engine.
type Game struct {
	engine *systems.Engine
	opts   Options

	// Rendering (nil in headless mode)
	camera        rl.Camera3D
	fluidRen      *renderer.FluidRenderer
	emitterRen    *renderer.EmitterRenderer
	panel         *ui.ParamsPanel
	speeds        []float32
	camAzimuth    float32
	camElevation  float32
	camDistance   float32

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	input    systems.InputState
	tick     int32
	paused   bool
	emitTime float32
}

// NewGameWithOptions creates a game instance from the global config.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		engine:       systems.NewEngine(emitterParamsFromConfig(cfg), fluidParamsFromConfig(cfg), opts.Seed),
		opts:         opts,
		collector:    telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		camAzimuth:   0.8,
		camElevation: 0.45,
		camDistance:  22,
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("telemetry output disabled", "error", err)
	} else {
		g.output = output
		if err := g.output.WriteConfig(cfg); err != nil {
			slog.Warn("failed to snapshot config", "error", err)
		}
	}

	if !opts.Headless {
		g.camera = rl.Camera3D{
			Target:     rl.Vector3{},
			Up:         rl.Vector3{Y: 1},
			Fovy:       45,
			Projection: rl.CameraPerspective,
		}
		g.updateCameraPosition()
		g.fluidRen = renderer.NewFluidRenderer(float32(cfg.Fluid.SmoothingRadius) * 0.3)
		g.emitterRen = renderer.NewEmitterRenderer()
		g.panel = ui.NewParamsPanel(int32(cfg.Screen.Width)-340, 10, 330)
	}

	g.engine.Start()
	return g
}

// Engine exposes the simulation engine (parameter routing, lifecycle).
func (g *Game) Engine() *systems.Engine {
	return g.engine
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Update runs input handling and one simulation step using the frame's real
// elapsed time. Graphical mode only.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}

	dt := rl.GetFrameTime()
	if dt > maxFrameDT {
		dt = maxFrameDT
	}
	g.step(dt, false)
}

// UpdateHeadless runs fixed-dt simulation steps without any input or
// rendering dependency.
func (g *Game) UpdateHeadless() {
	dt := config.Cfg().Derived.DT32
	for i := 0; i < g.opts.StepsPerUpdate; i++ {
		g.step(dt, true)
	}
}

// step advances the engine one tick. Phases are timed individually; in
// graphical mode the tick sample stays open so Draw can append its phase.
func (g *Game) step(dt float32, endTick bool) {
	g.perf.StartTick()

	g.moveEmitPoint(dt)

	g.perf.StartPhase(telemetry.PhaseEmitter)
	g.engine.Emitter().Update(dt, g.input)

	g.perf.StartPhase(telemetry.PhaseFluid)
	g.engine.Fluid().Update(dt, g.input)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.recordTelemetry()

	if endTick {
		g.perf.EndTick()
	}
	g.tick++
}

// moveEmitPoint orbits the emission origin slowly above the container floor.
func (g *Game) moveEmitPoint(dt float32) {
	g.emitTime += dt
	bounds := g.engine.Fluid().Params().Bounds
	radius := bounds.X * 0.5
	angle := float64(g.emitTime) * 0.4
	g.engine.Emitter().SetEmitPoint(systems.Vec3{
		X: float32(math.Cos(angle)) * radius,
		Y: -bounds.Y + 0.5,
		Z: float32(math.Sin(angle)) * radius,
	})
}

// recordTelemetry drains the emitter counters into the collector and flushes
// the window when due.
func (g *Game) recordTelemetry() {
	emitted, died := g.engine.Emitter().DrainCounters()
	g.collector.RecordEmitted(emitted)
	g.collector.RecordDied(died)

	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.engine.Emitter(), g.engine.Fluid())

	if g.opts.LogStats {
		slog.Info("window stats",
			"tick", stats.WindowEndTick,
			"sim_time", stats.SimTimeSec,
			"emitter_active", stats.EmitterActive,
			"emitted", stats.Emitted,
			"died", stats.Died,
			"fluid_density_mean", stats.DensityMean,
			"fluid_speed_mean", stats.SpeedMean,
			"fluid_height_mean", stats.HeightMean,
		)
		g.perf.LogStats(g.tick)
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Warn("telemetry write failed", "error", err)
	}
	if err := g.output.WritePerf(g.perf.ToRecord(g.tick)); err != nil {
		slog.Warn("perf write failed", "error", err)
	}
}

// Draw renders the scene. Graphical mode only.
func (g *Game) Draw() {
	g.perf.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 22, A: 255})

	rl.BeginMode3D(g.camera)

	fluid := g.engine.Fluid()
	g.refreshSpeeds(fluid)
	g.fluidRen.Draw(fluid.Positions(), g.speeds, fluid.Params().MaxVelocity, fluid.Params().Bounds)
	g.emitterRen.Draw(g.engine.Emitter().Instances())

	rl.EndMode3D()

	ui.DrawHUD(ui.HUDState{
		Tick:          g.tick,
		EmitterActive: g.engine.Emitter().Count(),
		FluidCount:    fluid.Count(),
		Paused:        g.paused,
		Running:       fluid.Running(),
	})
	g.panel.Draw(g.engine)

	rl.EndDrawing()

	g.perf.EndTick()
}

// refreshSpeeds rebuilds the per-slot speed scratch used for color tinting.
func (g *Game) refreshSpeeds(fluid *systems.Fluid) {
	n := fluid.Count()
	if cap(g.speeds) < n {
		g.speeds = make([]float32, n)
	}
	g.speeds = g.speeds[:n]
	for i := 0; i < n; i++ {
		g.speeds[i] = fluid.Particle(i).Velocity.Length()
	}
}

// Unload releases engine storage and closes telemetry outputs.
func (g *Game) Unload() {
	g.engine.Dispose()
	if err := g.output.Close(); err != nil {
		slog.Warn("closing telemetry output", "error", err)
	}
}
