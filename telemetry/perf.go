package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the per-frame loop.
const (
	PhaseEmitter   = "emitter"
	PhaseFluid     = "fluid"
	PhaseTelemetry = "telemetry"
	PhaseDraw      = "draw"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string
	tickOpen      bool
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
	p.tickOpen = true
}

// StartPhase begins timing a specific phase, closing the previous one.
// Ignored outside an open tick, so a paused frame's draw never times
// against a stale tick start.
func (p *PerfCollector) StartPhase(phase string) {
	if !p.tickOpen {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample. Ignored
// when no tick is open.
func (p *PerfCollector) EndTick() {
	if !p.tickOpen {
		return
	}
	p.tickOpen = false
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// AvgTick returns the average tick duration over the window.
func (p *PerfCollector) AvgTick() time.Duration {
	if p.sampleCount == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < p.sampleCount; i++ {
		total += p.samples[i].TickDuration
	}
	return total / time.Duration(p.sampleCount)
}

// AvgPhase returns the average duration of the named phase over the window.
func (p *PerfCollector) AvgPhase(phase string) time.Duration {
	if p.sampleCount == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < p.sampleCount; i++ {
		total += p.samples[i].Phases[phase]
	}
	return total / time.Duration(p.sampleCount)
}

// PerfRecord is the flattened CSV row for one stats window.
type PerfRecord struct {
	WindowEnd   int32   `csv:"window_end"`
	AvgTickMs   float64 `csv:"avg_tick_ms"`
	EmitterMs   float64 `csv:"emitter_ms"`
	FluidMs     float64 `csv:"fluid_ms"`
	TelemetryMs float64 `csv:"telemetry_ms"`
	DrawMs      float64 `csv:"draw_ms"`
}

// ToRecord flattens the rolling averages into a CSV row.
func (p *PerfCollector) ToRecord(windowEnd int32) PerfRecord {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
	return PerfRecord{
		WindowEnd:   windowEnd,
		AvgTickMs:   ms(p.AvgTick()),
		EmitterMs:   ms(p.AvgPhase(PhaseEmitter)),
		FluidMs:     ms(p.AvgPhase(PhaseFluid)),
		TelemetryMs: ms(p.AvgPhase(PhaseTelemetry)),
		DrawMs:      ms(p.AvgPhase(PhaseDraw)),
	}
}

// LogStats writes the rolling averages through slog.
func (p *PerfCollector) LogStats(tick int32) {
	slog.Info("perf",
		"tick", tick,
		"avg_tick", p.AvgTick().Round(time.Microsecond),
		"emitter", p.AvgPhase(PhaseEmitter).Round(time.Microsecond),
		"fluid", p.AvgPhase(PhaseFluid).Round(time.Microsecond),
		"draw", p.AvgPhase(PhaseDraw).Round(time.Microsecond),
	)
}
