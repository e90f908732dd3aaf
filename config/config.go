// Package config provides configuration loading and access for the
// simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Emitter   EmitterConfig   `yaml:"emitter"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// EmitterConfig holds particle emission parameters.
type EmitterConfig struct {
	Rate            float64 `yaml:"rate"`             // particles per second
	Lifetime        float64 `yaml:"lifetime"`         // seconds, jittered ±20%
	InitialSpeed    float64 `yaml:"initial_speed"`    // cone launch speed
	PressBoost      float64 `yaml:"press_boost"`      // speed multiplier while pressed
	ConeAngle       float64 `yaml:"cone_angle"`       // max polar angle, radians
	Gravity         float64 `yaml:"gravity"`          // downward acceleration
	BaseSize        float64 `yaml:"base_size"`        // render size at birth
	MaxParticles    int     `yaml:"max_particles"`    // hard cap on the active set
	AttractRadius   float64 `yaml:"attract_radius"`   // pointer attraction reach
	AttractStrength float64 `yaml:"attract_strength"` // pointer attraction magnitude
	PoolInitial     int     `yaml:"pool_initial"`     // pool size at startup
	PoolBatch       int     `yaml:"pool_batch"`       // fixed growth batch
}

// FluidConfig holds fluid engine parameters. Pressure and viscosity values
// are visual calibrations, not physical constants.
type FluidConfig struct {
	Count               int     `yaml:"count"`
	SmoothingRadius     float64 `yaml:"smoothing_radius"`
	RestDensity         float64 `yaml:"rest_density"`
	PressureMultiplier  float64 `yaml:"pressure_multiplier"`
	Viscosity           float64 `yaml:"viscosity"`
	Gravity             float64 `yaml:"gravity"`
	MaxVelocity         float64 `yaml:"max_velocity"`
	BoundaryDamping     float64 `yaml:"boundary_damping"`
	BoundsX             float64 `yaml:"bounds_x"` // container half-extent
	BoundsY             float64 `yaml:"bounds_y"`
	BoundsZ             float64 `yaml:"bounds_z"`
	InteractionRadius   float64 `yaml:"interaction_radius"`
	InteractionStrength float64 `yaml:"interaction_strength"`
	UpwardBias          float64 `yaml:"upward_bias"`
	SeedHeight          float64 `yaml:"seed_height"`
	SeedJitter          float64 `yaml:"seed_jitter"`
	SeedSpacing         float64 `yaml:"seed_spacing"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // fixed step for headless runs (1/target_fps)
	ScreenW32 float32
	ScreenH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Screen.TargetFPS < 1 {
		c.Screen.TargetFPS = 60
	}
	c.Derived.DT32 = 1.0 / float32(c.Screen.TargetFPS)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
