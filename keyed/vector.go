package keyed

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3Curve is a smoothed keyed curve of 3D vectors. Each component is kept
// in a curve of its own and interpolated independently.
type Vector3Curve struct {
	x, y, z *Curve
}

// Vector3Arrays is the flattened form of a Vector3Curve: one pair of parallel
// time/value arrays per component.
type Vector3Arrays struct {
	XT, XV []float64
	YT, YV []float64
	ZT, ZV []float64
}

// NewVector3 creates an empty vector curve.
func NewVector3() *Vector3Curve {
	return &Vector3Curve{x: New(), y: New(), z: New()}
}

// Vector3FromArrays restores a vector curve. If any component's arrays differ
// in length, or the components disagree on their key times, the data is not
// trusted: an error is traced and an empty curve is returned.
func Vector3FromArrays(a Vector3Arrays) *Vector3Curve {
	if !consistent([][2][]float64{{a.XT, a.XV}, {a.YT, a.YV}, {a.ZT, a.ZV}}) {
		return NewVector3()
	}
	return &Vector3Curve{
		x: FromArrays(a.XT, a.XV),
		y: FromArrays(a.YT, a.YV),
		z: FromArrays(a.ZT, a.ZV),
	}
}

// AddKey adds value at time.
func (c *Vector3Curve) AddKey(time float64, value mgl64.Vec3) {
	c.x.AddKey(time, value[0])
	c.y.AddKey(time, value[1])
	c.z.AddKey(time, value[2])
}

// Len returns the number of keys.
func (c *Vector3Curve) Len() int {
	return c.x.Len()
}

// Evaluate returns the smoothed vector at time.
func (c *Vector3Curve) Evaluate(time float64) mgl64.Vec3 {
	return mgl64.Vec3{c.x.Evaluate(time), c.y.Evaluate(time), c.z.Evaluate(time)}
}

// Key returns time and value of key i.
func (c *Vector3Curve) Key(i int) (float64, mgl64.Vec3) {
	t, x := c.x.Key(i)
	_, y := c.y.Key(i)
	_, z := c.z.Key(i)
	return t, mgl64.Vec3{x, y, z}
}

// End returns the vector of the last key.
func (c *Vector3Curve) End() mgl64.Vec3 {
	return mgl64.Vec3{c.x.End(), c.y.End(), c.z.End()}
}

// Flatten returns the per-component arrays.
func (c *Vector3Curve) Flatten() Vector3Arrays {
	var a Vector3Arrays
	a.XT, a.XV = c.x.Flatten()
	a.YT, a.YV = c.y.Flatten()
	a.ZT, a.ZV = c.z.Flatten()
	return a
}

// QuaternionCurve is a smoothed keyed curve of quaternions, stored and
// interpolated per component. Evaluated values are not re-normalized; callers
// needing unit rotations normalize the result.
type QuaternionCurve struct {
	x, y, z, w *Curve
}

// QuaternionArrays is the flattened form of a QuaternionCurve.
type QuaternionArrays struct {
	XT, XV []float64
	YT, YV []float64
	ZT, ZV []float64
	WT, WV []float64
}

// NewQuaternion creates an empty quaternion curve.
func NewQuaternion() *QuaternionCurve {
	return &QuaternionCurve{x: New(), y: New(), z: New(), w: New()}
}

// QuaternionFromArrays restores a quaternion curve. Inconsistent data yields
// an empty curve, as with Vector3FromArrays.
func QuaternionFromArrays(a QuaternionArrays) *QuaternionCurve {
	if !consistent([][2][]float64{{a.XT, a.XV}, {a.YT, a.YV}, {a.ZT, a.ZV}, {a.WT, a.WV}}) {
		return NewQuaternion()
	}
	return &QuaternionCurve{
		x: FromArrays(a.XT, a.XV),
		y: FromArrays(a.YT, a.YV),
		z: FromArrays(a.ZT, a.ZV),
		w: FromArrays(a.WT, a.WV),
	}
}

// AddKey adds rotation q at time.
func (c *QuaternionCurve) AddKey(time float64, q mgl64.Quat) {
	c.x.AddKey(time, q.V[0])
	c.y.AddKey(time, q.V[1])
	c.z.AddKey(time, q.V[2])
	c.w.AddKey(time, q.W)
}

// Len returns the number of keys.
func (c *QuaternionCurve) Len() int {
	return c.w.Len()
}

// Evaluate returns the component-wise smoothed quaternion at time.
func (c *QuaternionCurve) Evaluate(time float64) mgl64.Quat {
	return mgl64.Quat{
		W: c.w.Evaluate(time),
		V: mgl64.Vec3{c.x.Evaluate(time), c.y.Evaluate(time), c.z.Evaluate(time)},
	}
}

// Key returns time and rotation of key i.
func (c *QuaternionCurve) Key(i int) (float64, mgl64.Quat) {
	t, w := c.w.Key(i)
	_, x := c.x.Key(i)
	_, y := c.y.Key(i)
	_, z := c.z.Key(i)
	return t, mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}
}

// End returns the rotation of the last key.
func (c *QuaternionCurve) End() mgl64.Quat {
	return mgl64.Quat{W: c.w.End(), V: mgl64.Vec3{c.x.End(), c.y.End(), c.z.End()}}
}

// Flatten returns the per-component arrays.
func (c *QuaternionCurve) Flatten() QuaternionArrays {
	var a QuaternionArrays
	a.XT, a.XV = c.x.Flatten()
	a.YT, a.YV = c.y.Flatten()
	a.ZT, a.ZV = c.z.Flatten()
	a.WT, a.WV = c.w.Flatten()
	return a
}

// consistent checks per-component time/value arrays: every pair must match
// in length and all components must share the same key times.
func consistent(components [][2][]float64) bool {
	for i, c := range components {
		if len(c[0]) != len(c[1]) {
			tracer().Errorf("keyed component %d: %d times, %d values; ignoring data",
				i, len(c[0]), len(c[1]))
			return false
		}
		if !slices.Equal(c[0], components[0][0]) {
			tracer().Errorf("keyed component %d has other key times than component 0; ignoring data", i)
			return false
		}
	}
	return true
}
