package spline

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func persistable(t *testing.T) *Spline {
	s, err := Skeleton().
		AutoKnot(v(0, 0, 0), 0.3).
		HandleKnot(v(2, 0, 1), v(-0.5, 0, 0), v(0.25, 0.5, 0)).
		RotatedKnot(v(2, 2, 0), mgl64.QuatRotate(0.7, v(0, 0, 1))).
		Knot(v(0, 2, -1)).
		Cycle()
	require.NoError(t, err)
	return s
}

func TestEncodeDecode(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := persistable(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s))
	t.Logf("encoded spline:\n%s", buf.String())
	assert.Contains(t, buf.String(), "isClosed: true")
	assert.Contains(t, buf.String(), "interpolationStepsPerCurve: 60")
	assert.Contains(t, buf.String(), "rotationAnchors:")
	r, err := Decode(&buf)
	require.NoError(t, err)
	if d := cmp.Diff(s.Data(), r.Data()); d != "" {
		t.Errorf("decoded spline differs: %s", d)
	}
	assert.Equal(t, s.TotalLength(), r.TotalLength())
	assert.Nil(t, r.MustKnot(0).Rotation)
	assert.NotNil(t, r.MustKnot(2).Rotation)
	// caches are rebuilt bit for bit
	for i := range s.curves {
		d1, t1 := s.curves[i].DistanceCache()
		d2, t2 := r.curves[i].DistanceCache()
		assert.Equal(t, d1, d2)
		assert.Equal(t, t1, t2)
	}
}

func TestYAMLAndJSONMarshalers(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := persistable(t)
	y, err := yaml.Marshal(s)
	require.NoError(t, err)
	var fromYAML Spline
	require.NoError(t, yaml.Unmarshal(y, &fromYAML))
	if d := cmp.Diff(s.Data(), fromYAML.Data()); d != "" {
		t.Errorf("YAML round trip differs: %s", d)
	}
	j, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(j), `"autoAmounts":[0.3,0,0,0]`)
	var fromJSON Spline
	require.NoError(t, json.Unmarshal(j, &fromJSON))
	if d := cmp.Diff(s.Data(), fromJSON.Data()); d != "" {
		t.Errorf("JSON round trip differs: %s", d)
	}
	assert.Equal(t, s.Position(2.5), fromJSON.Position(2.5))
}

func TestFromDataKeepsStoredHandles(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	d := Data{
		Steps: 30,
		Curves: []CurveData{
			{Start: v(0, 0, 0), FirstHandle: v(0, 1, 0), SecondHandle: v(0, 1, 0), End: v(2, 0, 0)},
		},
		AutoAmounts:     []float64{0.5, 0.5},
		RotationAnchors: []*Quaternion{nil, {0, 0, 0, 1}},
	}
	s, err := FromData(d)
	require.NoError(t, err)
	assert.Equal(t, 30, s.StepsPerCurve())
	assert.Equal(t, v(0, 1, 0), s.MustKnot(0).HandleOut, "auto handles are not placed on load")
	require.NotNil(t, s.MustKnot(1).Rotation)
	assert.True(t, s.MustKnot(1).Rotation.ApproxEqual(mgl64.QuatIdent()))
}

func TestMalformedData(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := FromData(Data{})
	assert.True(t, errors.Is(err, ErrTooFewKnots))
	curves := []CurveData{
		{Start: v(0, 0, 0), End: v(1, 0, 0)},
		{Start: v(1, 0, 0), End: v(2, 0, 0)},
	}
	_, err = FromData(Data{Curves: curves, AutoAmounts: []float64{0, 0}, RotationAnchors: make([]*Quaternion, 3)})
	assert.True(t, errors.Is(err, ErrMalformedData), "auto amounts too short")
	_, err = FromData(Data{Closed: true, Curves: curves, AutoAmounts: []float64{0, 0}, RotationAnchors: make([]*Quaternion, 2)})
	assert.True(t, errors.Is(err, ErrMalformedData), "closing curve missing")
	curves[1].Start = v(1, 1, 0)
	_, err = FromData(Data{Curves: curves, AutoAmounts: []float64{0, 0, 0}, RotationAnchors: make([]*Quaternion, 3)})
	assert.True(t, errors.Is(err, ErrMalformedData), "disconnected curves")
	_, err = Decode(strings.NewReader("curves: [oops"))
	assert.True(t, errors.Is(err, ErrMalformedData))
	_, err = FromData(Data{Closed: true, Curves: curves[:1], AutoAmounts: []float64{0}, RotationAnchors: make([]*Quaternion, 1)})
	assert.True(t, errors.Is(err, ErrTooFewKnots), "closed single curve has one knot")
	var s Spline
	assert.Error(t, json.Unmarshal([]byte(`{"curves":[]}`), &s))
	err = s.UnmarshalJSON([]byte(`{"curves": 17}`))
	assert.True(t, errors.Is(err, ErrMalformedData), "JSON decode errors are wrapped")
}
