/*
Package bezier implements immutable cubic Bézier curves in 3D.

A curve is defined by a start point, an end point and two handles. The first
handle is relative to the start point, the second handle is relative to the
end point. On construction a curve samples itself at a fixed number of steps
and caches

	- the accumulated arc length as a mapping distance → curve time,
	- the normalized tangent as a mapping curve time → direction.

Curves are never changed after construction; a changed knot results in a new
curve.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package bezier

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
	"github.com/npillmayer/curves/keyed"
)

// Curve is a cubic Bézier segment with arc-length and tangent caches.
type Curve struct {
	start        mgl64.Vec3
	firstHandle  mgl64.Vec3 // local to start
	secondHandle mgl64.Vec3 // local to end
	end          mgl64.Vec3
	steps        int
	length       float64
	linear       bool
	distance     *keyed.Curve        // distance → time
	tangents     *keyed.Vector3Curve // time → unit tangent
}

// New creates a curve from start, end and handles, where firstHandle is local
// to start and secondHandle is local to end. steps is the number of sampling
// intervals for the caches; values below 1 are treated as 1.
func New(start, firstHandle, secondHandle, end mgl64.Vec3, steps int) *Curve {
	if steps < 1 {
		steps = 1
	}
	c := &Curve{
		start:        start,
		firstHandle:  firstHandle,
		secondHandle: secondHandle,
		end:          end,
		steps:        steps,
	}
	c.linear = firstHandle.LenSqr() < curves.SqrEpsilon && secondHandle.LenSqr() < curves.SqrEpsilon
	p0, p1, p2, p3 := c.ControlPoints()
	c.distance = distanceCache(p0, p1, p2, p3, steps)
	c.tangents = tangentCache(p0, p1, p2, p3, steps)
	t, _ := c.distance.Key(c.distance.Len() - 1)
	c.length = t
	return c
}

// Start returns the start point.
func (c *Curve) Start() mgl64.Vec3 { return c.start }

// End returns the end point.
func (c *Curve) End() mgl64.Vec3 { return c.end }

// FirstHandle returns the first handle, local to the start point.
func (c *Curve) FirstHandle() mgl64.Vec3 { return c.firstHandle }

// SecondHandle returns the second handle, local to the end point.
func (c *Curve) SecondHandle() mgl64.Vec3 { return c.secondHandle }

// Length returns the arc length, as accumulated over the sampling steps.
func (c *Curve) Length() float64 { return c.length }

// IsLinear is a predicate: are both handles (near) zero, making the curve a
// straight line?
func (c *Curve) IsLinear() bool { return c.linear }

// Steps returns the number of sampling intervals of the caches.
func (c *Curve) Steps() int { return c.steps }

// ControlPoints returns the four absolute Bézier control points.
func (c *Curve) ControlPoints() (p0, p1, p2, p3 mgl64.Vec3) {
	return c.start, c.start.Add(c.firstHandle), c.end.Add(c.secondHandle), c.end
}

// WithSteps returns a curve of identical geometry with caches sampled at a
// different density.
func (c *Curve) WithSteps(steps int) *Curve {
	return New(c.start, c.firstHandle, c.secondHandle, c.end, steps)
}

// Reversed returns the curve traversed from end to start.
func (c *Curve) Reversed() *Curve {
	return New(c.end, c.secondHandle, c.firstHandle, c.start, c.steps)
}

// Position returns the point at curve time t. t is clamped to [0,1].
func (c *Curve) Position(t float64) mgl64.Vec3 {
	p0, p1, p2, p3 := c.ControlPoints()
	return position(p0, p1, p2, p3, curves.Clamp01(t))
}

// Tangent returns the first derivative at curve time t, not normalized.
// t is clamped to [0,1].
func (c *Curve) Tangent(t float64) mgl64.Vec3 {
	p0, p1, p2, p3 := c.ControlPoints()
	return tangent(p0, p1, p2, p3, curves.Clamp01(t))
}

// TangentFast returns the normalized tangent at curve time t, read from the
// tangent cache.
func (c *Curve) TangentFast(t float64) mgl64.Vec3 {
	return c.tangents.Evaluate(t)
}

// DistanceToTime converts an arc-length distance along the curve to curve
// time. Distances outside [0, Length] evaluate to the nearest end.
func (c *Curve) DistanceToTime(distance float64) float64 {
	return c.distance.Evaluate(distance)
}

// DistanceCache returns the arc-length table as parallel arrays of distances
// and curve times.
func (c *Curve) DistanceCache() (distances, times []float64) {
	return c.distance.Flatten()
}

// TangentCache returns the flattened tangent cache.
func (c *Curve) TangentCache() keyed.Vector3Arrays {
	return c.tangents.Flatten()
}

// String is a debug Stringer in MetaPost-like notation.
func (c *Curve) String() string {
	_, p1, p2, _ := c.ControlPoints()
	return fmt.Sprintf("%s .. controls %s and %s .. %s",
		vecstring(c.start), vecstring(p1), vecstring(p2), vecstring(c.end))
}

func vecstring(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.4g,%.4g,%.4g)", v[0], v[1], v[2])
}

// --- Polynomial ------------------------------------------------------------

func position(p0, p1, p2, p3 mgl64.Vec3, t float64) mgl64.Vec3 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return p0.Mul(a).Add(p1.Mul(b)).Add(p2.Mul(c)).Add(p3.Mul(d))
}

func tangent(p0, p1, p2, p3 mgl64.Vec3, t float64) mgl64.Vec3 {
	mt := 1 - t
	return p1.Sub(p0).Mul(3 * mt * mt).
		Add(p2.Sub(p1).Mul(6 * mt * t)).
		Add(p3.Sub(p2).Mul(3 * t * t))
}

// distanceCache samples the curve at steps+1 evenly spaced times and keys the
// accumulated distance to the time reached. The first key is (0,0).
// Samples still within Epsilon of the start point add no key, so a curve of
// zero length keeps the single key (0,0).
func distanceCache(p0, p1, p2, p3 mgl64.Vec3, steps int) *keyed.Curve {
	cache := keyed.New()
	cache.AddKey(0, 0)
	prev := position(p0, p1, p2, p3, 0)
	total := 0.0
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := position(p0, p1, p2, p3, t)
		step := p.Sub(prev).Len()
		if total == 0 && step < curves.Epsilon {
			continue
		}
		total += step
		prev = p
		cache.AddKey(total, t)
	}
	return cache
}

// tangentCache keys the normalized tangent at steps+1 evenly spaced times.
func tangentCache(p0, p1, p2, p3 mgl64.Vec3, steps int) *keyed.Vector3Curve {
	cache := keyed.NewVector3()
	delta := 1 / float64(steps)
	for i := 0; i <= steps; i++ {
		t := delta * float64(i)
		cache.AddKey(t, curves.Normalized(tangent(p0, p1, p2, p3, t)))
	}
	return cache
}
