// Package systems provides the simulation core: object pooling, the spatial
// hash, the particle emitter, and the fluid engine.
package systems

import "math"

// Vec3 is a float32 3D vector. Simulation math stays in float32 to keep the
// per-frame working set small; conversions to float64 happen only at the
// telemetry boundary.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// LengthSq returns the squared magnitude (avoids sqrt in hot paths).
func (v Vec3) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return sqrtf(v.LengthSq())
}

// Normalized returns a unit vector, or the zero vector for zero input.
func (v Vec3) Normalized() Vec3 {
	mag := v.Length()
	if mag == 0 {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// ClampLength limits the magnitude of v to maxLen.
func (v Vec3) ClampLength(maxLen float32) Vec3 {
	lsq := v.LengthSq()
	if lsq <= maxLen*maxLen {
		return v
	}
	return v.Scale(maxLen / sqrtf(lsq))
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func cosf(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func floorf(x float32) int32 {
	return int32(math.Floor(float64(x)))
}
