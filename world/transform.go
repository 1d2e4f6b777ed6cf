/*
Package world places splines into a world coordinate system.

A spline stores knots and curves in local coordinates. A Transform maps local
coordinates to world coordinates by scaling, rotating and translating, in
that order. Spline wraps a local spline together with a transform and answers
the queries of package spline in world coordinates.

Distances along a world spline are measured in local units. Scaling a spline
does not change the distance at which a knot is found.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
	"github.com/npillmayer/curves/spline"
)

// Transform maps local coordinates to world coordinates.
//
// The zero Transform has a zero rotation and collapses everything onto its
// position; create transforms with Identity or At. Spline accepts a zero
// rotation or scale and treats it as identity.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// Identity returns the transform which leaves coordinates unchanged.
func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1}}
}

// At returns an unscaled transform to position, rotated by rotation.
func At(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: mgl64.Vec3{1, 1, 1}}
}

// sanitized replaces a zero rotation by the identity rotation and an all-zero
// scale by unit scale.
func (t Transform) sanitized() Transform {
	if t.Rotation.Len() < curves.Epsilon {
		t.Rotation = mgl64.QuatIdent()
	}
	if t.Scale == (mgl64.Vec3{}) {
		t.Scale = mgl64.Vec3{1, 1, 1}
	}
	return t
}

// Point maps a local position to world coordinates.
func (t Transform) Point(p mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Vector(p))
}

// Vector maps a local offset, e.g. a handle, to world coordinates. It is
// scaled and rotated, but not translated.
func (t Transform) Vector(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{v[0] * t.Scale[0], v[1] * t.Scale[1], v[2] * t.Scale[2]})
}

// Direction maps a local direction to world coordinates. It is rotated only.
func (t Transform) Direction(d mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(d)
}

// InversePoint maps a world position to local coordinates.
func (t Transform) InversePoint(p mgl64.Vec3) mgl64.Vec3 {
	return t.InverseVector(p.Sub(t.Position))
}

// InverseVector maps a world offset to local coordinates.
// Zero scale components map to zero.
func (t Transform) InverseVector(v mgl64.Vec3) mgl64.Vec3 {
	r := t.Rotation.Inverse().Rotate(v)
	for i := range r {
		if curves.Is0(t.Scale[i]) {
			r[i] = 0
		} else {
			r[i] /= t.Scale[i]
		}
	}
	return r
}

// InverseDirection maps a world direction to local coordinates.
func (t Transform) InverseDirection(d mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Inverse().Rotate(d)
}

// Matrix returns the transform as a homogeneous matrix.
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// KnotToWorld maps a local knot to world coordinates. Handles are mapped as
// offsets, a rotation anchor is rotated along.
func (t Transform) KnotToWorld(k spline.Knot) spline.Knot {
	w := k
	w.Position = t.Point(k.Position)
	w.HandleIn = t.Vector(k.HandleIn)
	w.HandleOut = t.Vector(k.HandleOut)
	if k.Rotation != nil {
		w = w.WithRotation(t.Rotation.Mul(*k.Rotation))
	}
	return w
}

// KnotToLocal maps a world knot to local coordinates.
func (t Transform) KnotToLocal(k spline.Knot) spline.Knot {
	l := k
	l.Position = t.InversePoint(k.Position)
	l.HandleIn = t.InverseVector(k.HandleIn)
	l.HandleOut = t.InverseVector(k.HandleOut)
	if k.Rotation != nil {
		l = l.WithRotation(t.Rotation.Inverse().Mul(*k.Rotation))
	}
	return l
}
