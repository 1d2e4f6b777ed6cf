package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
	"github.com/npillmayer/curves/spline"
)

// Spline is a local spline placed into the world by a transform.
// It does not copy the local spline: edits through either one are visible
// in both.
type Spline struct {
	local     *spline.Spline
	transform Transform
}

// New places a local spline into the world. A zero Transform places it
// unchanged.
func New(local *spline.Spline, t Transform) *Spline {
	return &Spline{local: local, transform: t.sanitized()}
}

// Local returns the wrapped spline in local coordinates.
func (s *Spline) Local() *spline.Spline {
	return s.local
}

// Transform returns the local-to-world transform.
func (s *Spline) Transform() Transform {
	return s.transform
}

// SetTransform moves the spline to a new place in the world.
func (s *Spline) SetTransform(t Transform) {
	s.transform = t.sanitized()
}

// TotalLength returns the length of the spline in local units.
func (s *Spline) TotalLength() float64 {
	return s.local.TotalLength()
}

// KnotCount returns the number of knots.
func (s *Spline) KnotCount() int {
	return s.local.KnotCount()
}

// CurveCount returns the number of curves.
func (s *Spline) CurveCount() int {
	return s.local.CurveCount()
}

// NormalizedValueForDistance maps a spline distance to [0,1].
func (s *Spline) NormalizedValueForDistance(distance float64) float64 {
	return s.local.NormalizedValueForDistance(distance)
}

// DistanceForNormalizedValue maps u in [0,1] to a spline distance.
func (s *Spline) DistanceForNormalizedValue(u float64) float64 {
	return s.local.DistanceForNormalizedValue(u)
}

// Position returns the world point at a spline distance.
func (s *Spline) Position(distance float64) mgl64.Vec3 {
	return s.transform.Point(s.local.Position(distance))
}

// NormalizedPosition returns the world point at u in [0,1] of the total length.
func (s *Spline) NormalizedPosition(u float64) mgl64.Vec3 {
	return s.Position(s.local.DistanceForNormalizedValue(u))
}

// Forward returns the world tangent direction at a spline distance.
func (s *Spline) Forward(distance float64) mgl64.Vec3 {
	return curves.Normalized(s.transform.Vector(s.local.Forward(distance)))
}

// ForwardFast is like Forward, but uses the cached tangent.
func (s *Spline) ForwardFast(distance float64) mgl64.Vec3 {
	return curves.Normalized(s.transform.Vector(s.local.ForwardFast(distance)))
}

// Up returns the world up vector at a spline distance. Rotation anchors are
// rotated along with the transform.
func (s *Spline) Up(distance float64) mgl64.Vec3 {
	return s.local.UpFor(distance, s.Forward(distance), s.transform.Rotation)
}

// UpFast is like Up, but uses the cached tangent.
func (s *Spline) UpFast(distance float64) mgl64.Vec3 {
	return s.local.UpFor(distance, s.ForwardFast(distance), s.transform.Rotation)
}

// Left returns the world direction to the left of the spline.
func (s *Spline) Left(distance float64) mgl64.Vec3 {
	return s.Forward(distance).Cross(s.Up(distance))
}

// LeftFast is like Left, but uses the cached tangent.
func (s *Spline) LeftFast(distance float64) mgl64.Vec3 {
	return s.ForwardFast(distance).Cross(s.UpFast(distance))
}

// Right returns the world direction to the right of the spline.
func (s *Spline) Right(distance float64) mgl64.Vec3 {
	return s.Left(distance).Mul(-1)
}

// RightFast is like Right, but uses the cached tangent.
func (s *Spline) RightFast(distance float64) mgl64.Vec3 {
	return s.LeftFast(distance).Mul(-1)
}

// Rotation returns the world orientation at a spline distance.
func (s *Spline) Rotation(distance float64) mgl64.Quat {
	f := s.Forward(distance)
	return curves.LookRotation(f, s.local.UpFor(distance, f, s.transform.Rotation))
}

// RotationFast is like Rotation, but uses the cached tangent.
func (s *Spline) RotationFast(distance float64) mgl64.Quat {
	f := s.ForwardFast(distance)
	return curves.LookRotation(f, s.local.UpFor(distance, f, s.transform.Rotation))
}

// NormalizedRotation returns the world orientation at u in [0,1] of the
// total length.
func (s *Spline) NormalizedRotation(u float64) mgl64.Quat {
	return s.Rotation(s.local.DistanceForNormalizedValue(u))
}

// Knot returns knot index in world coordinates.
func (s *Spline) Knot(index int) (spline.Knot, error) {
	k, err := s.local.Knot(index)
	if err != nil {
		return k, err
	}
	return s.transform.KnotToWorld(k), nil
}

// SetKnot replaces knot index by a knot given in world coordinates.
func (s *Spline) SetKnot(index int, k spline.Knot) error {
	return s.local.SetKnot(index, s.transform.KnotToLocal(k))
}

// InsertKnot inserts a knot given in world coordinates before knot index.
func (s *Spline) InsertKnot(index int, k spline.Knot) error {
	return s.local.InsertKnot(index, s.transform.KnotToLocal(k))
}

// AddKnot appends a knot given in world coordinates.
func (s *Spline) AddKnot(k spline.Knot) {
	s.local.AddKnot(s.transform.KnotToLocal(k))
}
