package keyed

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// ConstantCurve is a keyed curve without smoothing. It evaluates to the value
// of the last key at or before a given time, i.e., a step function.
type ConstantCurve struct {
	keys *treemap.Map // time → value
}

// NewConstant creates an empty step curve.
func NewConstant() *ConstantCurve {
	return &ConstantCurve{
		keys: treemap.NewWith(utils.Float64Comparator),
	}
}

// ConstantFromArrays reconstructs a step curve from parallel time/value
// arrays. Mismatched lengths are traced and yield an empty curve.
func ConstantFromArrays(times, values []float64) *ConstantCurve {
	c := NewConstant()
	if len(times) != len(values) {
		tracer().Errorf("constant curve data lengths do not match: %d times, %d values; ignoring data",
			len(times), len(values))
		return c
	}
	for i := range times {
		c.AddKey(times[i], values[i])
	}
	return c
}

// AddKey inserts a key, replacing a key at the same time.
func (c *ConstantCurve) AddKey(time, value float64) {
	c.keys.Put(time, value)
}

// Len returns the number of keys.
func (c *ConstantCurve) Len() int {
	return c.keys.Size()
}

// Evaluate returns the value of the last key at or before time. Times before
// the first key evaluate to the first key's value, an empty curve to 0.
func (c *ConstantCurve) Evaluate(time float64) float64 {
	if c.keys.Size() == 0 {
		return 0
	}
	if k, v := c.keys.Floor(time); k != nil {
		return v.(float64)
	}
	_, v := c.keys.Min()
	return v.(float64)
}

// End returns the value of the last key, or 0 for an empty curve.
func (c *ConstantCurve) End() float64 {
	if c.keys.Size() == 0 {
		return 0
	}
	_, v := c.keys.Max()
	return v.(float64)
}

// Flatten returns the key times and values as parallel arrays.
func (c *ConstantCurve) Flatten() (times, values []float64) {
	times = make([]float64, 0, c.keys.Size())
	values = make([]float64, 0, c.keys.Size())
	it := c.keys.Iterator()
	for it.Next() {
		times = append(times, it.Key().(float64))
		values = append(values, it.Value().(float64))
	}
	return
}
