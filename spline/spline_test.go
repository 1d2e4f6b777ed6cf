package spline

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v(x, y, z float64) mgl64.Vec3 {
	return mgl64.Vec3{x, y, z}
}

func near(a, b mgl64.Vec3, tolerance float64) bool {
	return a.Sub(b).Len() <= tolerance
}

// square is an open path along three sides of a square with side length 2.
func square(t *testing.T) *Spline {
	s, err := Skeleton().Knot(v(0, 0, 0)).Knot(v(2, 0, 0)).Knot(v(2, 2, 0)).Knot(v(0, 2, 0)).End()
	require.NoError(t, err)
	return s
}

// checkConsistency asserts continuity at every knot and additivity of lengths.
func checkConsistency(t *testing.T, s *Spline) {
	t.Helper()
	sum := 0.0
	for i, c := range s.curves {
		sum += c.Length()
		if i > 0 && s.curves[i-1].End() != c.Start() {
			t.Errorf("curves %d and %d do not meet: %v != %v", i-1, i, s.curves[i-1].End(), c.Start())
		}
	}
	if s.closed && s.curves[len(s.curves)-1].End() != s.curves[0].Start() {
		t.Errorf("closing curve does not end at first knot")
	}
	assert.InDelta(t, sum, s.TotalLength(), 1e-9, "total length is sum of curve lengths")
	assert.Equal(t, s.KnotCount(), len(s.autos))
	assert.Equal(t, s.KnotCount(), len(s.rotations))
	for i := 0; i < s.KnotCount(); i++ {
		k := s.MustKnot(i)
		if pre, _ := s.CurveIndicesAdjacentToKnot(i); pre != -1 {
			assert.Equal(t, k.Position, s.curves[pre].End(), "knot %d position", i)
		}
	}
}

func TestDefaultSpline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := New()
	assert.Equal(t, 2, s.KnotCount())
	assert.Equal(t, 1, s.CurveCount())
	assert.False(t, s.IsClosed())
	assert.Equal(t, DefaultStepsPerCurve, s.StepsPerCurve())
	k0, k1 := s.MustKnot(0), s.MustKnot(1)
	assert.Equal(t, v(-2, 0, 0), k0.Position)
	assert.Equal(t, v(0, 0, 2), k0.HandleOut)
	assert.Equal(t, v(0, 0, -2), k1.HandleIn)
	assert.Equal(t, v(2, 0, 0), k1.Position)
	assert.Greater(t, s.TotalLength(), 4.0)
	checkConsistency(t, s)
	s.AddKnot(AutoKnot(v(4, 0, 0), 0.3))
	s.Reset()
	assert.Equal(t, 2, s.KnotCount())
}

func TestSquareScenario(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := square(t)
	assert.Equal(t, 4, s.KnotCount())
	assert.Equal(t, 3, s.CurveCount())
	for _, c := range s.Curves() {
		assert.True(t, c.IsLinear())
	}
	assert.InDelta(t, 6.0, s.TotalLength(), 1e-9)
	if p := s.Position(1); !near(p, v(1, 0, 0), 1e-4) {
		t.Errorf("expected position(1) ≈ (1,0,0), is %v", p)
	}
	if p := s.Position(3); !near(p, v(2, 1, 0), 1e-4) {
		t.Errorf("expected position(3) ≈ (2,1,0), is %v", p)
	}
	checkConsistency(t, s)
}

func TestIndexErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := square(t)
	_, err := s.Curve(3)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = s.Knot(-1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.True(t, errors.Is(s.SetKnot(4, Knot{}), ErrIndexOutOfRange))
	assert.True(t, errors.Is(s.InsertKnot(5, Knot{}), ErrIndexOutOfRange))
	assert.True(t, errors.Is(s.RemoveKnot(4), ErrIndexOutOfRange))
	_, err = s.DistanceForKnot(7)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = s.DistanceForCurveEnd(-1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.Panics(t, func() { s.MustCurve(10) })
	assert.Panics(t, func() { s.MustKnot(10) })
	_, err = FromKnots(false, 60, Knot{})
	assert.True(t, errors.Is(err, ErrTooFewKnots))
	_, err = Skeleton().Cycle()
	assert.True(t, errors.Is(err, ErrTooFewKnots))
}

func TestAdjacency(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := square(t)
	pre, post := s.KnotIndicesAdjacentToKnot(0)
	assert.Equal(t, []int{-1, 1}, []int{pre, post})
	pre, post = s.KnotIndicesAdjacentToKnot(3)
	assert.Equal(t, []int{2, -1}, []int{pre, post})
	pre, post = s.CurveIndicesAdjacentToKnot(0)
	assert.Equal(t, []int{-1, 0}, []int{pre, post})
	pre, post = s.CurveIndicesAdjacentToKnot(3)
	assert.Equal(t, []int{2, -1}, []int{pre, post})
	pre, post = s.CurveIndicesAdjacentToKnot(1)
	assert.Equal(t, []int{0, 1}, []int{pre, post})
	s.SetClosed(true)
	pre, post = s.KnotIndicesAdjacentToKnot(0)
	assert.Equal(t, []int{3, 1}, []int{pre, post})
	pre, post = s.KnotIndicesAdjacentToKnot(3)
	assert.Equal(t, []int{2, 0}, []int{pre, post})
	pre, post = s.CurveIndicesAdjacentToKnot(0)
	assert.Equal(t, []int{3, 0}, []int{pre, post})
	pre, post = s.CurveIndicesAdjacentToKnot(3)
	assert.Equal(t, []int{2, 3}, []int{pre, post})
}

func TestDistanceQueries(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := square(t)
	for i, want := range []float64{0, 2, 4, 6} {
		d, err := s.DistanceForKnot(i)
		require.NoError(t, err)
		assert.InDelta(t, want, d, 1e-9, "distance for knot %d", i)
	}
	d, err := s.DistanceForCurveEnd(1)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, d, 1e-9)
	c, i, ct := s.CurveIndexAndTime(3)
	assert.Equal(t, 1, i)
	assert.Same(t, s.MustCurve(1), c)
	assert.InDelta(t, 0.5, ct, 1e-3)
	_, i, ct = s.CurveIndexAndTime(100)
	assert.Equal(t, 2, i)
	assert.Equal(t, 1.0, ct)
	assert.InDelta(t, 0.5, s.CurveFractionForDistance(3), 1e-3)
	assert.InDelta(t, 0.0, s.CurveFractionForDistance(-1), 1e-9)
	assert.Equal(t, 1.0, s.CurveFractionForDistance(17))
	assert.InDelta(t, 0.5, s.NormalizedValueForDistance(3), 1e-9)
	assert.Equal(t, 0.0, s.NormalizedValueForDistance(-2))
	assert.Equal(t, 1.0, s.NormalizedValueForDistance(12))
	assert.InDelta(t, 3.0, s.DistanceForNormalizedValue(0.5), 1e-9)
	assert.InDelta(t, 6.0, s.DistanceForNormalizedValue(2), 1e-9)
	if p := s.NormalizedPosition(0.5); !near(p, v(2, 1, 0), 1e-4) {
		t.Errorf("expected normalized position(0.5) ≈ (2,1,0), is %v", p)
	}
	if p := s.Position(-3); p != v(0, 0, 0) {
		t.Errorf("expected negative distance to clamp to start, is %v", p)
	}
	if p := s.Position(99); !near(p, v(0, 2, 0), 1e-9) {
		t.Errorf("expected distance beyond end to clamp to end, is %v", p)
	}
}

func TestForward(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := square(t)
	if f := s.Forward(1); !near(f, v(1, 0, 0), 1e-9) {
		t.Errorf("expected forward(1) = +X, is %v", f)
	}
	if f := s.Forward(3); !near(f, v(0, 1, 0), 1e-9) {
		t.Errorf("expected forward(3) = +Y, is %v", f)
	}
	if f := s.ForwardFast(5); !near(f, v(-1, 0, 0), 1e-6) {
		t.Errorf("expected fast forward(5) = -X, is %v", f)
	}
	// zero handles have a vanishing tangent at the knots
	assert.Equal(t, mgl64.Vec3{}, s.Forward(0))
}

func TestStepsPerCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelInfo)
	s := square(t)
	s.SetStepsPerCurve(5)
	assert.Equal(t, MinStepsPerCurve, s.StepsPerCurve())
	for _, c := range s.Curves() {
		assert.Equal(t, MinStepsPerCurve, c.Steps())
	}
	s.SetStepsPerCurve(100)
	assert.Equal(t, 100, s.MustCurve(2).Steps())
	checkConsistency(t, s)
	b, err := Skeleton().Steps(20).Knot(v(0, 0, 0)).Knot(v(1, 0, 0)).End()
	require.NoError(t, err)
	assert.Equal(t, 20, b.StepsPerCurve())
}

func TestAsString(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := Skeleton().Knot(v(0, 0, 0)).AutoKnot(v(2, 0, 0), 0.5).RotatedKnot(v(2, 2, 0), mgl64.QuatIdent()).Cycle()
	require.NoError(t, err)
	str := AsString(s)
	t.Logf("spline = %s", str)
	assert.Contains(t, str, "(0,0,0) .. controls")
	assert.Contains(t, str, "(2,0,0){auto 0.5}")
	assert.Contains(t, str, "(2,2,0)@")
	assert.Contains(t, str, ".. cycle")
	s, err = Skeleton().Knot(v(1e-12, -1e-12, 0)).Knot(v(2, 0, 0)).End()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(AsString(s), "(0,0,0) .. controls (0,0,0)"),
		"rounding noise is not printed, is %s", AsString(s))
}
