/*
Package curves implements editable cubic Bézier splines in 3D space.

The root package holds the numeric and vector helpers shared by the
sub-packages:

	keyed   time-ordered key caches with smoothed or stepped evaluation
	bezier  immutable cubic Bézier curves with arc-length caches
	spline  knot-level editing of curve sequences, orientation blending
	world   transform-aware queries on top of a spline
	walker  moving along a spline at constant speed or over a fixed duration

Vectors and quaternions are those of package mgl64 (github.com/go-gl/mathgl).

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package curves

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// === Numeric Data Type =====================================================

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// SqrEpsilon is the threshold for squared magnitudes. Vectors with a squared
// length below it are treated as zero-length, e.g. for linear curves or for
// knots in manual handle mode.
var SqrEpsilon float64 = 0.00001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Round to ε.
func Round(n float64) float64 {
	return math.Round(n/Epsilon) * Epsilon
}

// Clamp restricts n to [lo, hi].
func Clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Clamp01 restricts n to [0, 1].
func Clamp01(n float64) float64 {
	return Clamp(n, 0, 1)
}

// InverseLerp returns where v lies between a and b, clamped to [0, 1].
// For a = b the result is 0.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// Repeat wraps t into [0, length). A non-positive length yields 0.
func Repeat(t, length float64) float64 {
	if length <= 0 {
		return 0
	}
	r := t - math.Floor(t/length)*length
	return Clamp(r, 0, length)
}

// === Vectors ===============================================================

// Up, Forward and Right are the axes of an unrotated frame: +Y is up,
// +Z is forward (travel direction) and +X is right.
var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
	Right   = mgl64.Vec3{1, 0, 0}
)

// IsZero is a predicate: is v a (near) zero-length vector?
func IsZero(v mgl64.Vec3) bool {
	return v.LenSqr() < SqrEpsilon*SqrEpsilon
}

// Normalized returns v scaled to unit length. Vectors too short to have a
// meaningful direction come back as the zero vector instead of NaNs.
func Normalized(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l <= SqrEpsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// ProjectOnPlane projects v onto the plane through the origin with normal n.
// A zero normal leaves v unchanged.
func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	sqr := n.LenSqr()
	if sqr < Epsilon*Epsilon {
		return v
	}
	return v.Sub(n.Mul(v.Dot(n) / sqr))
}

// VecEqual compares two vectors component-wise with tolerance Epsilon.
func VecEqual(a, b mgl64.Vec3) bool {
	return Is0(a[0]-b[0]) && Is0(a[1]-b[1]) && Is0(a[2]-b[2])
}

// LookRotation returns the rotation which maps Forward onto forward and keeps
// Up as close to up as possible. A zero forward yields the identity.
// If up is parallel to forward, an arbitrary perpendicular up is chosen.
func LookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	f := Normalized(forward)
	if IsZero(f) {
		return mgl64.QuatIdent()
	}
	r := up.Cross(f)
	if r.LenSqr() < SqrEpsilon*SqrEpsilon {
		r = Up.Cross(f)
		if r.LenSqr() < SqrEpsilon*SqrEpsilon {
			r = Right.Cross(f).Cross(f).Mul(-1)
		}
	}
	r = r.Normalize()
	u := f.Cross(r)
	m := mgl64.Mat3FromCols(r, u, f)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}
