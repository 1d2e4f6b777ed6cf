package spline

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
)

// AnchorRotation blends the rotation anchors at a spline distance.
//
// The distance is converted to knot space, where knot i sits at parameter i.
// The nearest anchors at or before and after that parameter are searched,
// wrapping around for closed splines, and interpolated spherically. Without
// anchors the result is the identity.
func (s *Spline) AnchorRotation(distance float64) mgl64.Quat {
	n := len(s.curves)
	t := s.CurveFractionForDistance(distance) * float64(n)
	knots := len(s.rotations)
	rotA, rotB := mgl64.QuatIdent(), mgl64.QuatIdent()
	tA, tB := 0.0, 0.0
	start := min(int(t), n)
	found := false
	for i := start; i >= 0 && !found; i-- {
		if r := s.rotations[i%knots]; r != nil {
			rotA, rotB = *r, *r
			tA, tB = float64(i), float64(i)
			found = true
		}
	}
	if !found && s.closed {
		for i := n - 1; i > start && !found; i-- {
			if r := s.rotations[i]; r != nil {
				rotA, rotB = *r, *r
				tA, tB = float64(i), float64(i)
				found = true
			}
		}
	}
	end := max(int(t)+1, 0)
	found = false
	for i := end; i < knots && !found; i++ {
		if r := s.rotations[i]; r != nil {
			rotB, tB = *r, float64(i)
			found = true
		}
	}
	if !found && s.closed {
		for i := 0; i < min(knots, end) && !found; i++ {
			if r := s.rotations[i]; r != nil {
				rotB, tB = *r, float64(i)
				found = true
			}
		}
	}
	if tA > tB { // anchor after a wrap-around
		tB = tA + 1
	}
	return slerp(rotA, rotB, curves.InverseLerp(tA, tB, t))
}

// slerp interpolates along the shorter arc between a and b.
func slerp(a, b mgl64.Quat, u float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, u)
}

// UpFor returns the up vector at a spline distance for a given unit tangent.
// The blended anchor rotation is applied to the world up axis, optionally
// rotated by frame first, and projected onto the plane orthogonal to tangent.
func (s *Spline) UpFor(distance float64, tangent mgl64.Vec3, frame mgl64.Quat) mgl64.Vec3 {
	rot := frame.Mul(s.AnchorRotation(distance))
	return curves.Normalized(curves.ProjectOnPlane(rot.Rotate(curves.Up), tangent))
}

// Up returns the up vector at a spline distance.
func (s *Spline) Up(distance float64) mgl64.Vec3 {
	return s.UpFor(distance, s.Forward(distance), mgl64.QuatIdent())
}

// UpFast is like Up, but uses the cached tangent.
func (s *Spline) UpFast(distance float64) mgl64.Vec3 {
	return s.UpFor(distance, s.ForwardFast(distance), mgl64.QuatIdent())
}

// Left returns the direction to the left of the spline at a distance.
func (s *Spline) Left(distance float64) mgl64.Vec3 {
	return s.Forward(distance).Cross(s.Up(distance))
}

// LeftFast is like Left, but uses the cached tangent.
func (s *Spline) LeftFast(distance float64) mgl64.Vec3 {
	return s.ForwardFast(distance).Cross(s.UpFast(distance))
}

// Right returns the direction to the right of the spline at a distance.
func (s *Spline) Right(distance float64) mgl64.Vec3 {
	return s.Left(distance).Mul(-1)
}

// RightFast is like Right, but uses the cached tangent.
func (s *Spline) RightFast(distance float64) mgl64.Vec3 {
	return s.LeftFast(distance).Mul(-1)
}

// Rotation returns the orientation at a spline distance: +Z along the
// tangent, +Y towards Up. Where the tangent vanishes the result is the
// identity.
func (s *Spline) Rotation(distance float64) mgl64.Quat {
	f := s.Forward(distance)
	return curves.LookRotation(f, s.UpFor(distance, f, mgl64.QuatIdent()))
}

// RotationFast is like Rotation, but uses the cached tangent.
func (s *Spline) RotationFast(distance float64) mgl64.Quat {
	f := s.ForwardFast(distance)
	return curves.LookRotation(f, s.UpFor(distance, f, mgl64.QuatIdent()))
}

// NormalizedRotation returns the orientation at u in [0,1] of the total length.
func (s *Spline) NormalizedRotation(u float64) mgl64.Quat {
	return s.Rotation(s.DistanceForNormalizedValue(u))
}
