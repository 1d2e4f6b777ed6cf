package spline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
)

// Knot is a view onto a control point of a spline. Knots are not stored by a
// spline; they are assembled from the curves adjacent to the knot and from
// per-knot settings, and they are disassembled again by SetKnot.
type Knot struct {
	Position  mgl64.Vec3 // position local to the spline
	HandleIn  mgl64.Vec3 // incoming handle, local to Position
	HandleOut mgl64.Vec3 // outgoing handle, local to Position
	// Auto > 0 turns on automatic handle placement, ignoring HandleIn and
	// HandleOut. The value is the fraction of the distance to the neighbour
	// knots used as handle length.
	Auto float64
	// Rotation is an optional orientation anchor; nil means the orientation at
	// this knot is interpolated from other anchors.
	Rotation *mgl64.Quat
}

// NewKnot creates a knot with manual handles and no rotation anchor.
func NewKnot(position, handleIn, handleOut mgl64.Vec3) Knot {
	return Knot{Position: position, HandleIn: handleIn, HandleOut: handleOut}
}

// AutoKnot creates a knot with automatic handles.
func AutoKnot(position mgl64.Vec3, amount float64) Knot {
	return Knot{Position: position, Auto: amount}
}

// IsUsingAutoHandles is a predicate: are the handles of k placed
// automatically?
func (k Knot) IsUsingAutoHandles() bool {
	return math.Abs(k.Auto) > curves.SqrEpsilon
}

// IsUsingRotation is a predicate: does k carry a rotation anchor?
func (k Knot) IsUsingRotation() bool {
	return k.Rotation != nil
}

// WithRotation returns a copy of k anchored at rotation q.
func (k Knot) WithRotation(q mgl64.Quat) Knot {
	k.Rotation = &q
	return k
}

// WithoutRotation returns a copy of k without a rotation anchor.
func (k Knot) WithoutRotation() Knot {
	k.Rotation = nil
	return k
}

// copyRotation decouples an optional rotation from the caller's variable.
func copyRotation(q *mgl64.Quat) *mgl64.Quat {
	if q == nil {
		return nil
	}
	r := *q
	return &r
}
