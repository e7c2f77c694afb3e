package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Clamp restricts a value to the inclusive range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - T: v limited to [lo, hi]
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
//
// Parameters:
//   - a: the start value
//   - b: the end value
//   - t: the interpolation factor, 0 yields a and 1 yields b
//
// Returns:
//   - float32: the interpolated value
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// WrapF wraps v into the half-open range [lo, hi).
// If the range is empty lo is returned.
//
// Parameters:
//   - v: the value to wrap
//   - lo: the inclusive lower bound
//   - hi: the exclusive upper bound
//
// Returns:
//   - float32: the wrapped value
func WrapF(v, lo, hi float32) float32 {
	span := hi - lo
	if span <= 0 {
		return lo
	}
	r := float32(math.Mod(float64(v-lo), float64(span)))
	if r < 0 {
		r += span
	}
	return lo + r
}

// LerpVec3 interpolates two vectors componentwise.
//
// Parameters:
//   - a: the start vector
//   - b: the end vector
//   - t: the interpolation factor
//
// Returns:
//   - mgl32.Vec3: the interpolated vector
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		Lerp(a[0], b[0], t),
		Lerp(a[1], b[1], t),
		Lerp(a[2], b[2], t),
	}
}

// NegateQuat negates every component of q. The result represents the same orientation.
func NegateQuat(q mgl32.Quat) mgl32.Quat {
	return mgl32.Quat{W: -q.W, V: q.V.Mul(-1)}
}

// NlerpQuat performs a normalized linear interpolation between two rotations, flipping a when
// needed so the interpolation takes the shortest arc.
//
// Parameters:
//   - a: the start rotation
//   - b: the end rotation
//   - t: the interpolation factor
//
// Returns:
//   - mgl32.Quat: the interpolated unit quaternion
func NlerpQuat(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		a = NegateQuat(a)
	}
	return mgl32.QuatNlerp(a, b, t)
}

// SlerpQuat performs a spherical interpolation between two rotations along the shortest arc.
//
// Parameters:
//   - a: the start rotation
//   - b: the end rotation
//   - t: the interpolation factor
//
// Returns:
//   - mgl32.Quat: the interpolated unit quaternion
func SlerpQuat(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = NegateQuat(b)
	}
	return mgl32.QuatSlerp(a, b, t)
}
