package spline

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Builder collects knots for a new spline. Create one with Skeleton and
// finish it with End or Cycle:
//
//	s, err := Skeleton().Knot(p0).AutoKnot(p1, 0.3).Knot(p2).Cycle()
type Builder struct {
	knots []Knot
	steps int
}

// Skeleton starts a new spline builder.
func Skeleton() *Builder {
	return &Builder{steps: DefaultStepsPerCurve}
}

// Knot appends a knot with zero handles.
func (b *Builder) Knot(position mgl64.Vec3) *Builder {
	b.knots = append(b.knots, Knot{Position: position})
	return b
}

// HandleKnot appends a knot with manual handles.
func (b *Builder) HandleKnot(position, handleIn, handleOut mgl64.Vec3) *Builder {
	b.knots = append(b.knots, NewKnot(position, handleIn, handleOut))
	return b
}

// AutoKnot appends a knot with automatic handles.
func (b *Builder) AutoKnot(position mgl64.Vec3, amount float64) *Builder {
	b.knots = append(b.knots, AutoKnot(position, amount))
	return b
}

// RotatedKnot appends a knot with zero handles and a rotation anchor.
func (b *Builder) RotatedKnot(position mgl64.Vec3, rotation mgl64.Quat) *Builder {
	b.knots = append(b.knots, Knot{Position: position}.WithRotation(rotation))
	return b
}

// WithKnot appends k as is.
func (b *Builder) WithKnot(k Knot) *Builder {
	b.knots = append(b.knots, k)
	return b
}

// Steps sets the sampling density of the curve caches.
func (b *Builder) Steps(steps int) *Builder {
	b.steps = steps
	return b
}

// End creates an open spline from the collected knots.
func (b *Builder) End() (*Spline, error) {
	return FromKnots(false, b.steps, b.knots...)
}

// Cycle creates a closed spline from the collected knots.
func (b *Builder) Cycle() (*Spline, error) {
	return FromKnots(true, b.steps, b.knots...)
}
