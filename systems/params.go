package systems

// ParamSpec describes one runtime-tunable parameter for UI binding. The
// schema defines no behavior of its own; SetParameter uses Min/Max to clamp
// incoming values so the frame loop never sees an out-of-range setting.
type ParamSpec struct {
	Key     string
	Label   string
	Min     float32
	Max     float32
	Step    float32
	Default float32
}

// Parameter keys accepted by Engine.SetParameter.
const (
	ParamEmissionRate    = "emission_rate"
	ParamEmissionLife    = "emission_lifetime"
	ParamEmissionSpeed   = "emission_speed"
	ParamEmissionGravity = "emission_gravity"
	ParamAttractStrength = "attract_strength"

	ParamFluidCount      = "fluid_count"
	ParamSmoothingRadius = "smoothing_radius"
	ParamPressureMult    = "pressure_multiplier"
	ParamRestDensity     = "rest_density"
	ParamViscosity       = "viscosity"
	ParamFluidGravity    = "fluid_gravity"
	ParamMaxVelocity     = "max_velocity"
	ParamBoundaryDamping = "boundary_damping"
	ParamPushStrength    = "push_strength"
)

// paramSchema is the canonical tuning surface. Defaults mirror
// config/defaults.yaml.
var paramSchema = []ParamSpec{
	{Key: ParamEmissionRate, Label: "Emission rate", Min: 0, Max: 500, Step: 5, Default: 80},
	{Key: ParamEmissionLife, Label: "Particle lifetime", Min: 0.2, Max: 10, Step: 0.1, Default: 2.5},
	{Key: ParamEmissionSpeed, Label: "Emission speed", Min: 0, Max: 20, Step: 0.25, Default: 5},
	{Key: ParamEmissionGravity, Label: "Emitter gravity", Min: 0, Max: 30, Step: 0.1, Default: 9.8},
	{Key: ParamAttractStrength, Label: "Pointer attraction", Min: 0, Max: 100, Step: 1, Default: 30},

	{Key: ParamFluidCount, Label: "Fluid particles", Min: 0, Max: 4000, Step: 50, Default: 800},
	{Key: ParamSmoothingRadius, Label: "Smoothing radius", Min: 0.1, Max: 4, Step: 0.05, Default: 1.0},
	{Key: ParamPressureMult, Label: "Pressure multiplier", Min: 0, Max: 300, Step: 1, Default: 60},
	{Key: ParamRestDensity, Label: "Rest density", Min: 0, Max: 20, Step: 0.1, Default: 3},
	{Key: ParamViscosity, Label: "Viscosity", Min: 0, Max: 5, Step: 0.01, Default: 0.15},
	{Key: ParamFluidGravity, Label: "Fluid gravity", Min: 0, Max: 30, Step: 0.1, Default: 9.8},
	{Key: ParamMaxVelocity, Label: "Max velocity", Min: 1, Max: 100, Step: 1, Default: 25},
	{Key: ParamBoundaryDamping, Label: "Boundary damping", Min: 0.05, Max: 1, Step: 0.01, Default: 0.6},
	{Key: ParamPushStrength, Label: "Pointer push", Min: 0, Max: 200, Step: 1, Default: 45},
}

// ParamSchema returns the tuning schema in display order.
func ParamSchema() []ParamSpec {
	return paramSchema
}

// specFor looks up a schema entry by key.
func specFor(key string) (ParamSpec, bool) {
	for _, s := range paramSchema {
		if s.Key == key {
			return s, true
		}
	}
	return ParamSpec{}, false
}
