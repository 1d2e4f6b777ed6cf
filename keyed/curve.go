/*
Package keyed implements time-ordered key caches.

A keyed curve holds (time, value) keys, sorted by time, and evaluates
values in between keys. Package bezier uses smoothed curves to cache the
mapping from arc length to curve time and the tangent along a curve.

Two evaluation policies are offered:

	Curve          smooth cubic interpolation between keys, flat outside
	ConstantCurve  step function: value of the last key at or before a time

Keys are stored in an ordered tree map. Adding a key at an already present
time replaces that key; there are never two keys with the same time.
Curves may be flattened to parallel time/value arrays and restored from
them.

Keyed curves are not safe for concurrent use.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package keyed

import (
	"math"
	"sort"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'curves.keyed'
func tracer() tracing.Trace {
	return tracing.Select("curves.keyed")
}

// Curve is a keyed curve with smoothed evaluation.
//
// Between two keys values follow a cubic Hermite segment. Slopes at keys are
// chosen to preserve monotonicity of the key data (Fritsch–Carlson), thus
// a curve built from ascending values never overshoots and stays ascending.
// Before the first key and after the last key the curve is flat.
type Curve struct {
	keys   *treemap.Map // time → value
	times  []float64    // flattened keys, valid if !dirty
	values []float64
	slopes []float64
	dirty  bool
}

// New creates an empty curve.
func New() *Curve {
	return &Curve{
		keys: treemap.NewWith(utils.Float64Comparator),
	}
}

// FromArrays reconstructs a curve from parallel time/value arrays, as
// produced by Flatten. If the arrays differ in length, the data is not
// trusted: a warning is traced and an empty curve is returned.
func FromArrays(times, values []float64) *Curve {
	c := New()
	if len(times) != len(values) {
		tracer().Errorf("keyed curve data lengths do not match: %d times, %d values; ignoring data",
			len(times), len(values))
		return c
	}
	for i := range times {
		c.AddKey(times[i], values[i])
	}
	return c
}

// AddKey inserts a key, keeping keys ordered by time. A key already present
// at time is replaced.
func (c *Curve) AddKey(time, value float64) {
	c.keys.Put(time, value)
	c.dirty = true
}

// Len returns the number of keys.
func (c *Curve) Len() int {
	return c.keys.Size()
}

// Key returns time and value of key i. Keys are ordered by time.
// Key panics if i is out of range.
func (c *Curve) Key(i int) (time, value float64) {
	c.flatten()
	return c.times[i], c.values[i]
}

// End returns the value of the last key, or 0 for an empty curve.
func (c *Curve) End() float64 {
	if c.keys.Size() == 0 {
		return 0
	}
	_, v := c.keys.Max()
	return v.(float64)
}

// Flatten returns copies of the key times and values as parallel arrays.
func (c *Curve) Flatten() (times, values []float64) {
	c.flatten()
	times = append([]float64(nil), c.times...)
	values = append([]float64(nil), c.values...)
	return
}

// Evaluate returns the smoothed value at time. Times outside the key range
// evaluate to the first or last key's value. An empty curve evaluates to 0.
func (c *Curve) Evaluate(time float64) float64 {
	c.flatten()
	n := len(c.times)
	switch {
	case n == 0:
		return 0
	case time <= c.times[0]:
		return c.values[0]
	case time >= c.times[n-1]:
		return c.values[n-1]
	}
	// index of first key with t > time; i ≥ 1 because time > times[0]
	i := sort.Search(n, func(k int) bool { return c.times[k] > time })
	return hermite(c.times[i-1], c.times[i], c.values[i-1], c.values[i],
		c.slopes[i-1], c.slopes[i], time)
}

// flatten materializes the tree map into slices and computes slopes.
// It is called lazily after keys have been added.
func (c *Curve) flatten() {
	if !c.dirty && c.times != nil {
		return
	}
	n := c.keys.Size()
	c.times = make([]float64, 0, n)
	c.values = make([]float64, 0, n)
	it := c.keys.Iterator()
	for it.Next() {
		c.times = append(c.times, it.Key().(float64))
		c.values = append(c.values, it.Value().(float64))
	}
	c.slopes = monotoneSlopes(c.times, c.values)
	c.dirty = false
}

// hermite evaluates the cubic Hermite segment between (t0,v0) and (t1,v1)
// with slopes m0 and m1 at time t.
func hermite(t0, t1, v0, v1, m0, m1, t float64) float64 {
	h := t1 - t0
	if h <= 0 {
		return v1
	}
	s := (t - t0) / h
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*v0 + h10*h*m0 + h01*v1 + h11*h*m1
}

// monotoneSlopes computes key slopes following Fritsch and Carlson.
func monotoneSlopes(times, values []float64) []float64 {
	n := len(times)
	slopes := make([]float64, n)
	if n < 2 {
		return slopes
	}
	delta := make([]float64, n-1)
	for k := 0; k < n-1; k++ {
		delta[k] = (values[k+1] - values[k]) / (times[k+1] - times[k])
	}
	slopes[0] = delta[0]
	slopes[n-1] = delta[n-2]
	for k := 1; k < n-1; k++ {
		if delta[k-1]*delta[k] <= 0 {
			slopes[k] = 0
		} else {
			slopes[k] = (delta[k-1] + delta[k]) / 2
		}
	}
	for k := 0; k < n-1; k++ {
		if delta[k] == 0 {
			slopes[k], slopes[k+1] = 0, 0
			continue
		}
		a := slopes[k] / delta[k]
		b := slopes[k+1] / delta[k]
		if a < 0 {
			slopes[k], a = 0, 0
		}
		if b < 0 {
			slopes[k+1], b = 0, 0
		}
		if r := a*a + b*b; r > 9 {
			tau := 3 / math.Sqrt(r)
			slopes[k] = tau * a * delta[k]
			slopes[k+1] = tau * b * delta[k]
		}
	}
	return slopes
}
