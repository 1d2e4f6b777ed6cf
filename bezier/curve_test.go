package bezier

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func arc() *Curve { // quarter-circle-like arc in the XZ plane
	return New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1.1}, mgl64.Vec3{-1.1, 0, 0}, mgl64.Vec3{2, 0, 2}, 60)
}

func TestLinearCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{2, 0, 0}, 60)
	if !c.IsLinear() {
		t.Errorf("expected curve with zero handles to be linear")
	}
	assert.InDelta(t, 2.0, c.Length(), 1e-9)
	if arc().IsLinear() {
		t.Errorf("expected arc not to be linear")
	}
}

func TestPositionEndsAndClamp(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := arc()
	if !curves.VecEqual(c.Position(0), c.Start()) {
		t.Errorf("expected position(0) = start, is %v", c.Position(0))
	}
	if !curves.VecEqual(c.Position(1), c.End()) {
		t.Errorf("expected position(1) = end, is %v", c.Position(1))
	}
	if c.Position(-3) != c.Position(0) || c.Position(7) != c.Position(1) {
		t.Errorf("expected out-of-range times to clamp")
	}
}

func TestTangentIsDerivative(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := arc()
	const delta = 1e-6
	for i := 0; i < 10; i++ {
		ts := float64(i) / 10
		approx := c.Position(ts + delta).Sub(c.Position(ts)).Mul(1 / delta)
		if l := c.Tangent(ts).Sub(approx).Len(); l > 1e-4 {
			t.Errorf("tangent at %g differs from finite difference by %g", ts, l)
		}
	}
}

func TestTangentFastIsNormalized(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := arc()
	for i := 0; i <= 20; i++ {
		ts := float64(i) / 20
		fast := c.TangentFast(ts)
		exact := curves.Normalized(c.Tangent(ts))
		assert.InDelta(t, 0, fast.Sub(exact).Len(), 1e-3, "at t=%g", ts)
	}
}

func TestArcLengthRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := arc()
	assert.InDelta(t, 0.0, c.DistanceToTime(0), 1e-9)
	assert.InDelta(t, 1.0, c.DistanceToTime(c.Length()), 1e-9)
	assert.InDelta(t, 1.0, c.DistanceToTime(c.Length()+5), 1e-9)
	assert.InDelta(t, 0.0, c.DistanceToTime(-1), 1e-9)
	// travelled distance grows with d
	prev := c.Start()
	travelled := 0.0
	for d := 0.0; d <= c.Length(); d += c.Length() / 200 {
		ct := c.DistanceToTime(d)
		p := c.Position(ct)
		travelled += p.Sub(prev).Len()
		prev = p
		assert.InDelta(t, d, travelled, 0.01*c.Length())
	}
}

func TestArcLengthMonotone(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := arc()
	prev := -1.0
	for d := 0.0; d <= c.Length(); d += c.Length() / 500 {
		ct := c.DistanceToTime(d)
		if ct < prev {
			t.Fatalf("distance to time not monotone at d=%g", d)
		}
		prev = ct
	}
}

func TestLengthApproachesTrueLength(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// a quarter circle of radius 1, approximated by the standard kappa handles
	k := 0.5522847498
	c := New(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, k, 0}, mgl64.Vec3{k, 0, 0}, mgl64.Vec3{0, 1, 0}, 100)
	assert.InDelta(t, math.Pi/2, c.Length(), 1e-3)
}

func TestDegenerateCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := mgl64.Vec3{1, 2, 3}
	c := New(p, mgl64.Vec3{}, mgl64.Vec3{}, p, 20)
	assert.Equal(t, 0.0, c.Length())
	distances, _ := c.DistanceCache()
	assert.Len(t, distances, 1, "zero-length curve keeps a single distance key")
	if !curves.VecEqual(c.Position(c.DistanceToTime(0)), p) {
		t.Errorf("expected degenerate curve to sit at %v", p)
	}
}

func TestReversedAndWithSteps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := arc()
	r := c.Reversed()
	for i := 0; i <= 10; i++ {
		ts := float64(i) / 10
		if !curves.VecEqual(c.Position(ts), r.Position(1-ts)) {
			t.Errorf("reversed curve differs at %g", ts)
		}
	}
	assert.InDelta(t, c.Length(), r.Length(), 1e-9)
	s := c.WithSteps(10)
	assert.Equal(t, 10, s.Steps())
	assert.Equal(t, c.FirstHandle(), s.FirstHandle())
	distances, times := s.DistanceCache()
	assert.Len(t, distances, 11)
	assert.Len(t, times, 11)
	assert.Len(t, s.TangentCache().XT, 11)
}

func TestCachesAreReproducible(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a, b := arc(), arc()
	da, ta := a.DistanceCache()
	db, tb := b.DistanceCache()
	assert.Equal(t, da, db)
	assert.Equal(t, ta, tb)
	assert.Equal(t, a.Length(), b.Length())
}
