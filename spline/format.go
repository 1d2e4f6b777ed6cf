package spline

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
)

// AsString is a debug helper, writing a spline in MetaPost-like notation
// with absolute control points, e.g.
//
//	(0,0,0) .. controls (1,0,0) and (1,1,0)
//	  .. (2,1,0) .. cycle
//
// Knots with automatic handles are marked with their amount, rotation
// anchors with an '@'.
func AsString(s *Spline) string {
	var b strings.Builder
	for i, c := range s.curves {
		if i == 0 {
			b.WriteString(knotstring(s, 0))
		}
		_, p1, p2, _ := c.ControlPoints()
		fmt.Fprintf(&b, " .. controls %s and %s\n  .. ", ptstring(p1), ptstring(p2))
		if s.closed && i == len(s.curves)-1 {
			b.WriteString("cycle")
		} else {
			b.WriteString(knotstring(s, i+1))
		}
	}
	return b.String()
}

func knotstring(s *Spline, i int) string {
	str := ptstring(s.knot(i).Position)
	if s.autos[i] != 0 {
		str += fmt.Sprintf("{auto %.3g}", s.autos[i])
	}
	if s.rotations[i] != nil {
		str += "@"
	}
	return str
}

func ptstring(v mgl64.Vec3) string {
	for i := range v {
		v[i] = curves.Zap(curves.Round(v[i]))
	}
	return fmt.Sprintf("(%.4g,%.4g,%.4g)", v[0], v[1], v[2])
}
