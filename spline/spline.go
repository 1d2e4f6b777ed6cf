/*
Package spline implements editable cubic Bézier splines in 3D.

A spline is an ordered sequence of Bézier curves, where the end point of each
curve is the start point of the next one. A closed spline has an additional
curve connecting its last knot back to the first one.

Clients edit a spline knot by knot. A knot is a control point with a
position, two handles, an optional automatic handle amount and an optional
rotation anchor. Knots are not stored directly: they are assembled from the
curves adjacent to them and from per-knot settings, and every mutation keeps
the curves consistent with the knots between them.

Queries address points on the spline by spline distance, i.e., the arc length
from the start of the spline, or by a normalized value in [0,1] of the total
length. Out-of-range distances are clamped silently.

Orientation along the spline is derived from the tangent and an up vector.
The up vector is blended from the two nearest rotation anchors, wrapping
around for closed splines.

Usage

	s, err := spline.Skeleton().Knot(P(0,0,0)).AutoKnot(P(2,0,0), 0.3).Knot(P(2,2,0)).End()
	...
	pos := s.Position(1.5)
	rot := s.Rotation(1.5)

Splines are not safe for concurrent use. Exactly one owner may mutate a
spline at a time, and queries must not run concurrently with mutations.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package spline

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
	"github.com/npillmayer/curves/bezier"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'curves.spline'
func tracer() tracing.Trace {
	return tracing.Select("curves.spline")
}

// MinStepsPerCurve is the lowest sampling density for curve caches.
const MinStepsPerCurve = 10

// DefaultStepsPerCurve is the sampling density of new splines.
var DefaultStepsPerCurve = 60

var (
	// ErrIndexOutOfRange indicates a curve or knot index outside the spline.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrTooFewKnots indicates an attempt to create a spline from less than 2 knots.
	ErrTooFewKnots = errors.New("spline has too few knots")
	// ErrMalformedData indicates inconsistent persisted spline data.
	ErrMalformedData = errors.New("malformed spline data")
)

// Spline is a sequence of cubic Bézier curves with per-knot settings.
type Spline struct {
	curves    []*bezier.Curve
	closed    bool
	steps     int
	length    float64
	autos     []float64     // auto handle amount per knot
	rotations []*mgl64.Quat // optional rotation anchor per knot
}

// New creates the default spline: a single curve from (-2,0,0) to (2,0,0),
// bending towards +Z.
func New() *Spline {
	s := &Spline{}
	s.Reset()
	return s
}

// FromKnots creates a spline through knots. The handles of knots with
// automatic handle placement are computed, all others are taken as given.
func FromKnots(closed bool, steps int, knots ...Knot) (*Spline, error) {
	if len(knots) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 knots, got %d", ErrTooFewKnots, len(knots))
	}
	s := &Spline{closed: closed, steps: clampSteps(steps)}
	n := len(knots)
	count := n - 1
	if closed {
		count = n
	}
	for i := 0; i < count; i++ {
		a, b := knots[i], knots[(i+1)%n]
		s.curves = append(s.curves, bezier.New(a.Position, a.HandleOut, b.HandleIn, b.Position, s.steps))
	}
	for _, k := range knots {
		s.autos = append(s.autos, k.Auto)
		s.rotations = append(s.rotations, copyRotation(k.Rotation))
	}
	s.recalculate()
	return s, nil
}

// Reset sets the spline back to the default spline.
func (s *Spline) Reset() {
	s.steps = clampSteps(DefaultStepsPerCurve)
	s.closed = false
	s.curves = []*bezier.Curve{
		bezier.New(mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 0, -2}, mgl64.Vec3{2, 0, 0}, s.steps),
	}
	s.autos = []float64{0, 0}
	s.rotations = []*mgl64.Quat{nil, nil}
	s.recalculate()
}

func clampSteps(steps int) int {
	if steps < MinStepsPerCurve {
		tracer().Infof("steps per curve %d below minimum, using %d", steps, MinStepsPerCurve)
		return MinStepsPerCurve
	}
	return steps
}

// recalculate re-sets every knot, placing all automatic handles anew.
func (s *Spline) recalculate() {
	for i := 0; i < s.KnotCount(); i++ {
		s.setKnot(i, s.knot(i))
	}
	s.updateLength()
}

func (s *Spline) updateLength() {
	s.length = 0
	for _, c := range s.curves {
		s.length += c.Length()
	}
}

// === Properties ============================================================

// IsClosed is a predicate: is this spline a closed loop?
func (s *Spline) IsClosed() bool {
	return s.closed
}

// StepsPerCurve returns the sampling density of the curve caches.
func (s *Spline) StepsPerCurve() int {
	return s.steps
}

// CurveCount returns the number of curves.
func (s *Spline) CurveCount() int {
	return len(s.curves)
}

// KnotCount returns the number of knots. For closed splines it equals the
// number of curves, otherwise there is one knot more than curves.
func (s *Spline) KnotCount() int {
	if s.closed {
		return len(s.curves)
	}
	return len(s.curves) + 1
}

// TotalLength returns the sum of all curve lengths.
func (s *Spline) TotalLength() float64 {
	return s.length
}

// === Curves and knots ======================================================

// Curve returns the curve at index.
func (s *Spline) Curve(index int) (*bezier.Curve, error) {
	if index < 0 || index >= len(s.curves) {
		return nil, fmt.Errorf("%w: curve index %d, have %d curves", ErrIndexOutOfRange, index, len(s.curves))
	}
	return s.curves[index], nil
}

// MustCurve is like Curve, but panics on an invalid index.
func (s *Spline) MustCurve(index int) *bezier.Curve {
	c, err := s.Curve(index)
	if err != nil {
		panic(err)
	}
	return c
}

// Curves returns a snapshot of the curve sequence.
func (s *Spline) Curves() []*bezier.Curve {
	return append([]*bezier.Curve(nil), s.curves...)
}

// Knot returns the knot at index.
func (s *Spline) Knot(index int) (Knot, error) {
	if err := s.checkKnotIndex(index); err != nil {
		return Knot{}, err
	}
	return s.knot(index), nil
}

// MustKnot is like Knot, but panics on an invalid index.
func (s *Spline) MustKnot(index int) Knot {
	k, err := s.Knot(index)
	if err != nil {
		panic(err)
	}
	return k
}

// Knots returns all knots of the spline.
func (s *Spline) Knots() []Knot {
	knots := make([]Knot, s.KnotCount())
	for i := range knots {
		knots[i] = s.knot(i)
	}
	return knots
}

func (s *Spline) checkKnotIndex(index int) error {
	if index < 0 || index >= s.KnotCount() {
		return fmt.Errorf("%w: knot index %d, have %d knots", ErrIndexOutOfRange, index, s.KnotCount())
	}
	return nil
}

// knot assembles knot index from its adjacent curves and per-knot settings.
func (s *Spline) knot(index int) Knot {
	k := Knot{Auto: s.autos[index], Rotation: copyRotation(s.rotations[index])}
	n := len(s.curves)
	switch index {
	case 0:
		k.Position = s.curves[0].Start()
		k.HandleOut = s.curves[0].FirstHandle()
		if s.closed {
			k.HandleIn = s.curves[n-1].SecondHandle()
		}
	case n: // end of an open spline
		k.Position = s.curves[n-1].End()
		k.HandleIn = s.curves[n-1].SecondHandle()
	default:
		k.Position = s.curves[index].Start()
		k.HandleIn = s.curves[index-1].SecondHandle()
		k.HandleOut = s.curves[index].FirstHandle()
	}
	return k
}

// KnotIndicesAdjacentToKnot returns the indices of the knots before and after
// knot index. A missing neighbour at the end of an open spline is -1.
func (s *Spline) KnotIndicesAdjacentToKnot(index int) (pre, post int) {
	pre, post = -1, -1
	if index != 0 {
		pre = index - 1
	} else if s.closed {
		pre = s.KnotCount() - 1
	}
	if index != s.KnotCount()-1 {
		post = index + 1
	} else if s.closed {
		post = 0
	}
	return
}

// CurveIndicesAdjacentToKnot returns the indices of the curves ending and
// starting at knot index. A missing curve at the end of an open spline is -1.
func (s *Spline) CurveIndicesAdjacentToKnot(index int) (pre, post int) {
	pre, post = -1, -1
	if index != 0 {
		pre = index - 1
	} else if s.closed {
		pre = len(s.curves) - 1
	}
	if index != len(s.curves) {
		post = index
	} else if s.closed {
		post = 0
	}
	return
}

// === Distances =============================================================

// curveAt finds the curve a spline distance falls upon, and the distance
// along that curve. Distances beyond the end are clamped to the last curve's end.
func (s *Spline) curveAt(distance float64) (*bezier.Curve, float64) {
	for _, c := range s.curves {
		if c.Length() < distance {
			distance -= c.Length()
		} else {
			return c, distance
		}
	}
	last := s.curves[len(s.curves)-1]
	return last, last.Length()
}

// CurveIndexAndTime returns the curve a spline distance falls upon, its index
// and the curve time at that distance.
func (s *Spline) CurveIndexAndTime(distance float64) (*bezier.Curve, int, float64) {
	for i, c := range s.curves {
		if c.Length() < distance {
			distance -= c.Length()
		} else {
			return c, i, c.DistanceToTime(distance)
		}
	}
	i := len(s.curves) - 1
	return s.curves[i], i, 1
}

// CurveFractionForDistance maps a spline distance to [0,1], where each curve
// covers an equal share 1/CurveCount, independent of its length. Multiplied
// by CurveCount this is a continuous knot-space parameter.
func (s *Spline) CurveFractionForDistance(distance float64) float64 {
	n := float64(len(s.curves))
	f := 0.0
	for _, c := range s.curves {
		if c.Length() < distance {
			distance -= c.Length()
			f += 1 / n
		} else {
			return f + c.DistanceToTime(distance)/n
		}
	}
	return 1
}

// DistanceForCurveEnd returns the spline distance at the end of curve index.
func (s *Spline) DistanceForCurveEnd(index int) (float64, error) {
	if _, err := s.Curve(index); err != nil {
		return 0, err
	}
	d := 0.0
	for i := 0; i <= index; i++ {
		d += s.curves[i].Length()
	}
	return d, nil
}

// DistanceForKnot returns the spline distance at knot index. For the first
// knot it is 0, for the last knot of an open spline the total length.
func (s *Spline) DistanceForKnot(index int) (float64, error) {
	if err := s.checkKnotIndex(index); err != nil {
		return 0, err
	}
	if index == 0 {
		return 0, nil
	}
	return s.DistanceForCurveEnd(index - 1)
}

// NormalizedValueForDistance maps a spline distance to [0,1].
func (s *Spline) NormalizedValueForDistance(distance float64) float64 {
	if s.length <= 0 {
		return 0
	}
	return curves.Clamp01(distance / s.length)
}

// DistanceForNormalizedValue maps u in [0,1] to a spline distance. u is clamped.
func (s *Spline) DistanceForNormalizedValue(u float64) float64 {
	return curves.Clamp01(u) * s.length
}

// === Positions and directions ==============================================

// Position returns the point at a spline distance.
func (s *Spline) Position(distance float64) mgl64.Vec3 {
	c, d := s.curveAt(distance)
	return c.Position(c.DistanceToTime(d))
}

// NormalizedPosition returns the point at u in [0,1] of the total length.
func (s *Spline) NormalizedPosition(u float64) mgl64.Vec3 {
	return s.Position(s.DistanceForNormalizedValue(u))
}

// Forward returns the unit tangent at a spline distance, computed from the
// curve polynomial. At cusps and zero-length handles it may be zero.
func (s *Spline) Forward(distance float64) mgl64.Vec3 {
	c, d := s.curveAt(distance)
	return curves.Normalized(c.Tangent(c.DistanceToTime(d)))
}

// ForwardFast returns the unit tangent at a spline distance, read from the
// curve's tangent cache.
func (s *Spline) ForwardFast(distance float64) mgl64.Vec3 {
	c, d := s.curveAt(distance)
	return curves.Normalized(c.TangentFast(c.DistanceToTime(d)))
}
