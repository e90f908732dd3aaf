package telemetry

import (
	"math"

	"github.com/pthm-cable/splash/systems"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for the current window
	emitted int
	died    int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
// dt: seconds per tick (used for tick-to-time conversion).
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	// Round, don't truncate: 1.0/(1.0/60.0) lands just under 60 in floats
	// and truncation would shave a tick off every window.
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordEmitted adds emitted-particle events to the current window.
func (c *Collector) RecordEmitted(n int) {
	c.emitted += n
}

// RecordDied adds particle-death events to the current window.
func (c *Collector) RecordDied(n int) {
	c.died += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush samples the current simulation state, produces a WindowStats, and
// resets the counters for the next window.
func (c *Collector) Flush(currentTick int32, em *systems.Emitter, fl *systems.Fluid) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		EmitterActive:   em.Count(),
		Emitted:         c.emitted,
		Died:            c.died,
		PoolAllocated:   em.PoolAllocated(),
		FluidCount:      fl.Count(),
	}

	n := fl.Count()
	if n > 0 {
		densities := make([]float64, n)
		speeds := make([]float64, n)
		heights := make([]float64, n)
		var kinetic float64
		for i := 0; i < n; i++ {
			p := fl.Particle(i)
			speed := float64(p.Velocity.Length())
			densities[i] = float64(p.Density)
			speeds[i] = speed
			heights[i] = float64(p.Position.Y)
			kinetic += 0.5 * speed * speed
		}

		density := ComputeSampleStats(densities)
		speed := ComputeSampleStats(speeds)
		height := ComputeSampleStats(heights)

		stats.DensityMean = density.Mean
		stats.DensityStd = density.Std
		stats.DensityP50 = density.P50
		stats.DensityP90 = density.P90
		stats.SpeedMean = speed.Mean
		stats.SpeedMax = speed.Max
		stats.HeightMean = height.Mean
		stats.KineticEnergy = kinetic
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.emitted = 0
	c.died = 0

	return stats
}
