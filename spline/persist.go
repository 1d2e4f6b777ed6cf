package spline

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
	"github.com/npillmayer/curves/bezier"
	"gopkg.in/yaml.v3"
)

// Data is the persisted form of a spline. Curve caches are not persisted;
// they are rebuilt on load.
type Data struct {
	Closed          bool          `yaml:"isClosed" json:"isClosed"`
	Steps           int           `yaml:"interpolationStepsPerCurve" json:"interpolationStepsPerCurve"`
	Curves          []CurveData   `yaml:"curves" json:"curves"`
	AutoAmounts     []float64     `yaml:"autoAmounts,flow" json:"autoAmounts"`
	RotationAnchors []*Quaternion `yaml:"rotationAnchors" json:"rotationAnchors"`
}

// CurveData is the persisted form of a single curve. Handles are local to
// their respective end points.
type CurveData struct {
	Start        mgl64.Vec3 `yaml:"startPoint,flow" json:"startPoint"`
	FirstHandle  mgl64.Vec3 `yaml:"firstHandle,flow" json:"firstHandle"`
	SecondHandle mgl64.Vec3 `yaml:"secondHandle,flow" json:"secondHandle"`
	End          mgl64.Vec3 `yaml:"endPoint,flow" json:"endPoint"`
}

// Quaternion is the persisted form of a rotation, in x, y, z, w order.
type Quaternion [4]float64

// Quat converts a persisted rotation to a quaternion.
func (q Quaternion) Quat() mgl64.Quat {
	return mgl64.Quat{W: q[3], V: mgl64.Vec3{q[0], q[1], q[2]}}
}

func quaternion(q mgl64.Quat) Quaternion {
	return Quaternion{q.X(), q.Y(), q.Z(), q.W}
}

// Data returns the persisted form of s.
func (s *Spline) Data() Data {
	d := Data{
		Closed:          s.closed,
		Steps:           s.steps,
		Curves:          make([]CurveData, len(s.curves)),
		AutoAmounts:     append([]float64(nil), s.autos...),
		RotationAnchors: make([]*Quaternion, len(s.rotations)),
	}
	for i, c := range s.curves {
		d.Curves[i] = CurveData{
			Start:        c.Start(),
			FirstHandle:  c.FirstHandle(),
			SecondHandle: c.SecondHandle(),
			End:          c.End(),
		}
	}
	for i, r := range s.rotations {
		if r != nil {
			q := quaternion(*r)
			d.RotationAnchors[i] = &q
		}
	}
	return d
}

// FromData restores a spline from its persisted form. The curves are taken
// as stored; automatic handles are not placed anew.
func FromData(d Data) (*Spline, error) {
	knots := len(d.Curves) + 1
	if d.Closed {
		knots = len(d.Curves)
	}
	if len(d.Curves) == 0 || knots < 2 {
		return nil, fmt.Errorf("%w: %d curves make %d knots", ErrTooFewKnots, len(d.Curves), knots)
	}
	if len(d.AutoAmounts) != knots || len(d.RotationAnchors) != knots {
		tracer().Errorf("spline data has %d curves, %d auto amounts and %d rotation anchors",
			len(d.Curves), len(d.AutoAmounts), len(d.RotationAnchors))
		return nil, fmt.Errorf("%w: %d knots need %d auto amounts and rotation anchors, have %d and %d",
			ErrMalformedData, knots, knots, len(d.AutoAmounts), len(d.RotationAnchors))
	}
	for i := 1; i < len(d.Curves); i++ {
		if !curves.VecEqual(d.Curves[i-1].End, d.Curves[i].Start) {
			return nil, fmt.Errorf("%w: curves %d and %d do not meet", ErrMalformedData, i-1, i)
		}
	}
	if n := len(d.Curves); d.Closed && !curves.VecEqual(d.Curves[n-1].End, d.Curves[0].Start) {
		return nil, fmt.Errorf("%w: closing curve does not end at first knot", ErrMalformedData)
	}
	s := &Spline{
		closed: d.Closed,
		steps:  clampSteps(d.Steps),
		autos:  append([]float64(nil), d.AutoAmounts...),
	}
	for _, c := range d.Curves {
		s.curves = append(s.curves, bezier.New(c.Start, c.FirstHandle, c.SecondHandle, c.End, s.steps))
	}
	for _, q := range d.RotationAnchors {
		if q == nil {
			s.rotations = append(s.rotations, nil)
			continue
		}
		r := q.Quat()
		s.rotations = append(s.rotations, &r)
	}
	s.updateLength()
	return s, nil
}

// Encode writes s as YAML to w.
func Encode(w io.Writer, s *Spline) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.Data()); err != nil {
		return err
	}
	return enc.Close()
}

// Decode reads a spline in YAML format from r.
func Decode(r io.Reader) (*Spline, error) {
	var d Data
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	return FromData(d)
}

// MarshalYAML implements yaml.Marshaler.
func (s *Spline) MarshalYAML() (interface{}, error) {
	return s.Data(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Spline) UnmarshalYAML(value *yaml.Node) error {
	var d Data
	if err := value.Decode(&d); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	restored, err := FromData(d)
	if err != nil {
		return err
	}
	*s = *restored
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s *Spline) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Data())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Spline) UnmarshalJSON(b []byte) error {
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	restored, err := FromData(d)
	if err != nil {
		return err
	}
	*s = *restored
	return nil
}
