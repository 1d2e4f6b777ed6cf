package spline

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
	"github.com/npillmayer/curves/bezier"
)

// SetKnot replaces knot index. The curves on both sides of the knot are
// rebuilt. If a neighbour knot uses automatic handles, its handles are placed
// anew and the curve on its far side is rebuilt as well.
//
// If k uses automatic handles, k.HandleIn and k.HandleOut are ignored.
func (s *Spline) SetKnot(index int, k Knot) error {
	if err := s.checkKnotIndex(index); err != nil {
		return err
	}
	s.setKnot(index, k)
	return nil
}

func (s *Spline) setKnot(index int, k Knot) {
	s.rotations[index] = copyRotation(k.Rotation)
	s.autos[index] = k.Auto
	if k.IsUsingAutoHandles() {
		prev, next := s.neighbourPositions(index)
		k = s.autoHandles(index, k, prev, next)
	}
	var pre, post Knot
	preKnot, postKnot := s.KnotIndicesAdjacentToKnot(index)
	if preKnot != -1 {
		pre = s.knot(preKnot)
		if pre.IsUsingAutoHandles() {
			if c, _ := s.CurveIndicesAdjacentToKnot(preKnot); c != -1 {
				pc := s.curves[c]
				from := pc.Start()
				if preKnot == postKnot { // closed 2-knot spline: pc starts at the old knot
					from = k.Position
				}
				pre = s.autoHandles(preKnot, pre, from, k.Position)
				s.curves[c] = bezier.New(pc.Start(), pc.FirstHandle(), pre.HandleIn, pre.Position, s.steps)
			} else {
				pre = s.autoHandles(preKnot, pre, mgl64.Vec3{}, k.Position)
			}
		}
	}
	if postKnot != -1 {
		post = s.knot(postKnot)
		if post.IsUsingAutoHandles() {
			if _, c := s.CurveIndicesAdjacentToKnot(postKnot); c != -1 {
				pc := s.curves[c]
				post = s.autoHandles(postKnot, post, k.Position, pc.End())
				s.curves[c] = bezier.New(post.Position, post.HandleOut, pc.SecondHandle(), pc.End(), s.steps)
			} else {
				post = s.autoHandles(postKnot, post, k.Position, mgl64.Vec3{})
			}
		}
	}
	preCurve, postCurve := s.CurveIndicesAdjacentToKnot(index)
	if preCurve != -1 {
		s.curves[preCurve] = bezier.New(pre.Position, pre.HandleOut, k.HandleIn, k.Position, s.steps)
	}
	if postCurve != -1 {
		s.curves[postCurve] = bezier.New(k.Position, k.HandleOut, post.HandleIn, post.Position, s.steps)
	}
	s.updateLength()
	tracer().Debugf("set knot %d at %v, total length now %.4g", index, k.Position, s.length)
}

// InsertKnot inserts k before knot index, splitting the curve leading to it.
// index may be KnotCount, which appends k after the last knot.
// Knots after index shift up by one.
func (s *Spline) InsertKnot(index int, k Knot) error {
	n := s.KnotCount()
	if index < 0 || index > n {
		return fmt.Errorf("%w: insert at knot index %d, have %d knots", ErrIndexOutOfRange, index, n)
	}
	if index == n && !s.closed {
		s.AddKnot(k)
		return nil
	}
	if index == 0 && !s.closed {
		first := s.curves[0]
		c := bezier.New(k.Position, k.HandleOut, first.FirstHandle().Mul(-1), first.Start(), s.steps)
		s.curves = slices.Insert(s.curves, 0, c)
	} else {
		prev, next := s.knot((index-1+n)%n), s.knot(index%n)
		seg := index - 1
		if index == 0 {
			seg = len(s.curves) - 1
		}
		s.curves[seg] = bezier.New(prev.Position, prev.HandleOut, k.HandleIn, k.Position, s.steps)
		c := bezier.New(k.Position, k.HandleOut, next.HandleIn, next.Position, s.steps)
		s.curves = slices.Insert(s.curves, index, c)
	}
	s.autos = slices.Insert(s.autos, index, k.Auto)
	s.rotations = slices.Insert(s.rotations, index, copyRotation(k.Rotation))
	s.setKnot(index, k)
	return nil
}

// AddKnot appends k after the last knot. For closed splines k is inserted
// into the closing curve.
func (s *Spline) AddKnot(k Knot) {
	if s.closed {
		_ = s.InsertKnot(s.KnotCount(), k)
		return
	}
	last := s.curves[len(s.curves)-1]
	c := bezier.New(last.End(), last.SecondHandle().Mul(-1), k.HandleIn, k.Position, s.steps)
	s.curves = append(s.curves, c)
	s.autos = append(s.autos, k.Auto)
	s.rotations = append(s.rotations, copyRotation(k.Rotation))
	s.setKnot(s.KnotCount()-1, k)
}

// RemoveKnot removes knot index, merging the curves on both sides of it.
// The outer handles of the merged curves are kept.
//
// Removing knots from a spline with 2 knots leaves it in an unusable state;
// clients have to check KnotCount beforehand.
func (s *Spline) RemoveKnot(index int) error {
	if err := s.checkKnotIndex(index); err != nil {
		return err
	}
	count := len(s.curves)
	switch {
	case index == 0:
		next := s.knot(1)
		s.curves = slices.Delete(s.curves, 0, 1)
		s.removeSettings(0)
		s.setKnot(0, next)
	case index == count: // last knot of an open spline
		s.curves = slices.Delete(s.curves, count-1, count)
		s.removeSettings(index)
		last := s.KnotCount() - 1
		if s.knot(last).IsUsingAutoHandles() {
			s.setKnot(last, s.knot(last))
		} else {
			s.updateLength()
		}
	default:
		preCurve, postCurve := s.CurveIndicesAdjacentToKnot(index)
		a, b := s.curves[preCurve], s.curves[postCurve]
		s.curves[preCurve] = bezier.New(a.Start(), a.FirstHandle(), b.SecondHandle(), b.End(), s.steps)
		s.curves = slices.Delete(s.curves, postCurve, postCurve+1)
		s.removeSettings(index)
		pre, post := index-1, index%s.KnotCount()
		if s.knot(pre).IsUsingAutoHandles() || s.knot(post).IsUsingAutoHandles() {
			s.setKnot(pre, s.knot(pre))
		} else {
			s.updateLength()
		}
	}
	tracer().Debugf("removed knot %d, %d knots left", index, s.KnotCount())
	return nil
}

func (s *Spline) removeSettings(index int) {
	s.autos = slices.Delete(s.autos, index, index+1)
	s.rotations = slices.Delete(s.rotations, index, index+1)
}

// SetClosed opens or closes the spline. Closing appends a curve from the last
// knot back to the first, opening removes it again. The knot count does not
// change. Afterwards all knots are re-set, placing automatic handles anew.
func (s *Spline) SetClosed(closed bool) {
	if closed == s.closed {
		return
	}
	s.closed = closed
	if closed {
		last, first := s.curves[len(s.curves)-1], s.curves[0]
		c := bezier.New(last.End(), last.SecondHandle().Mul(-1), first.FirstHandle().Mul(-1), first.Start(), s.steps)
		s.curves = append(s.curves, c)
	} else {
		s.curves = s.curves[:len(s.curves)-1]
	}
	s.recalculate()
}

// Flip reverses the direction of the spline. Knot i becomes knot
// KnotCount-1-i, keeping its automatic handle amount and rotation anchor.
// Flipping twice yields the original spline.
func (s *Spline) Flip() {
	n := len(s.curves)
	flipped := make([]*bezier.Curve, n)
	for j := range flipped {
		i := n - 1 - j
		if s.closed { // the closing curve stays last
			i = (2*n - 2 - j) % n
		}
		flipped[j] = s.curves[i].Reversed()
	}
	s.curves = flipped
	slices.Reverse(s.autos)
	slices.Reverse(s.rotations)
	s.updateLength()
}

// SetStepsPerCurve changes the sampling density of all curve caches.
// Values below MinStepsPerCurve are raised to MinStepsPerCurve.
func (s *Spline) SetStepsPerCurve(steps int) {
	s.steps = clampSteps(steps)
	for i, c := range s.curves {
		s.curves[i] = c.WithSteps(s.steps)
	}
	s.updateLength()
}

// neighbourPositions returns the positions of the knots before and after knot
// index, or the zero vector at the ends of an open spline.
func (s *Spline) neighbourPositions(index int) (prev, next mgl64.Vec3) {
	n := len(s.curves)
	if index != 0 {
		prev = s.curves[index-1].Start()
	} else if s.closed {
		prev = s.curves[n-1].Start()
	}
	if index != s.KnotCount()-1 {
		next = s.curves[index].End()
	} else if s.closed {
		next = s.curves[0].Start()
	}
	return
}

// autoHandles places the handles of knot k at index, given the positions of
// its neighbour knots. The handles point along the bisector of the angle
// between the neighbours, scaled by the distance to the respective
// neighbour times k.Auto.
//
// At the ends of an open spline the single handle points towards the
// neighbour, the missing one is set to zero.
func (s *Spline) autoHandles(index int, k Knot, prev, next mgl64.Vec3) Knot {
	amount := k.Auto
	ab := k.Position.Sub(prev)
	cb := k.Position.Sub(next)
	across := curves.Normalized(curves.Normalized(cb).Sub(curves.Normalized(ab)))
	switch {
	case !s.closed && index == 0:
		k.HandleIn = mgl64.Vec3{}
		k.HandleOut = cb.Mul(-amount)
	case !s.closed && index == len(s.curves):
		k.HandleIn = ab.Mul(-amount)
		k.HandleOut = mgl64.Vec3{}
	case s.closed && s.KnotCount() == 2:
		left := mgl64.Vec3{ab.Z(), 0, -ab.X()}.Mul(amount)
		k.HandleIn = left
		k.HandleOut = left.Mul(-1)
	default:
		k.HandleOut = across.Mul(-cb.Len() * amount)
		k.HandleIn = across.Mul(ab.Len() * amount)
	}
	return k
}
