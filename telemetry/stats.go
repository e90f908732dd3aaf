// Package telemetry aggregates per-window simulation statistics and writes
// them to CSV for offline analysis.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Emitter activity during the window
	EmitterActive int `csv:"emitter_active"`
	Emitted       int `csv:"emitted"`
	Died          int `csv:"died"`
	PoolAllocated int `csv:"pool_allocated"`

	// Fluid state sampled at window end
	FluidCount  int     `csv:"fluid_count"`
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`
	SpeedMean   float64 `csv:"speed_mean"`
	SpeedMax    float64 `csv:"speed_max"`
	HeightMean  float64 `csv:"height_mean"`

	// Sum of 0.5*|v|^2 over the population; a cheap blow-up detector.
	KineticEnergy float64 `csv:"kinetic_energy"`
}

// SampleStats summarizes one sampled quantity across the fluid population.
type SampleStats struct {
	Mean float64
	Std  float64
	P50  float64
	P90  float64
	Max  float64
}

// ComputeSampleStats calculates mean, standard deviation, quantiles, and max
// of a sample set. Returns zeros for an empty input.
func ComputeSampleStats(values []float64) SampleStats {
	if len(values) == 0 {
		return SampleStats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var s SampleStats
	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.P50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	s.Max = sorted[len(sorted)-1]
	return s
}
