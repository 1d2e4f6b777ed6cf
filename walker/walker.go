/*
Package walker moves a pose along a path over time.

A walker advances either at a constant speed, measured in spline distance
per second, or across the whole path within a fixed duration. At the end of
the path it stops, starts over, or turns around, depending on its loop type.

Walkers work on anything satisfying Path, e.g. local splines of package
spline or world splines of package world.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package walker

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/curves"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'curves.walker'
func tracer() tracing.Trace {
	return tracing.Select("curves.walker")
}

var (
	// ErrNilPath is returned when creating a walker without a path.
	ErrNilPath = errors.New("walker needs a path")
	// ErrInvalidDuration is returned for fixed-duration walkers with a
	// non-positive duration.
	ErrInvalidDuration = errors.New("walker duration must be positive")
)

// Path is the query interface a walker needs.
type Path interface {
	TotalLength() float64
	Position(distance float64) mgl64.Vec3
	Rotation(distance float64) mgl64.Quat
	NormalizedPosition(u float64) mgl64.Vec3
	NormalizedRotation(u float64) mgl64.Quat
}

// Mode selects how a walker measures progress.
type Mode int

// Walker modes
const (
	ConstantSpeed Mode = iota // advance by Speed per second
	FixedDuration             // traverse the path within Duration
)

// LoopType selects what happens at the end of a path.
type LoopType int

// Loop types
const (
	Clamp    LoopType = iota // stop at the ends
	Loop                     // jump back to the start
	PingPong                 // reverse direction at either end
)

func (l LoopType) String() string {
	switch l {
	case Clamp:
		return "clamp"
	case Loop:
		return "loop"
	case PingPong:
		return "ping-pong"
	}
	return fmt.Sprintf("LoopType(%d)", int(l))
}

// Config holds the settings of a walker.
type Config struct {
	Mode          Mode
	Loop          LoopType
	StartDistance float64       // clamped to the path length
	Speed         float64       // spline distance per second, for ConstantSpeed
	Duration      time.Duration // for FixedDuration
}

// DefaultConfig returns a clamping walker at speed 1, starting at the
// beginning of the path.
func DefaultConfig() Config {
	return Config{Mode: ConstantSpeed, Loop: Clamp, Speed: 1}
}

// Walker is the state of a pose moving along a path.
type Walker struct {
	path     Path
	config   Config
	distance float64 // for ConstantSpeed
	elapsed  float64 // seconds, for FixedDuration
	forward  bool
	position mgl64.Vec3
	rotation mgl64.Quat
}

// New creates a walker on path, placed at the configured start distance.
func New(path Path, config Config) (*Walker, error) {
	if path == nil {
		return nil, ErrNilPath
	}
	if config.Mode == FixedDuration && config.Duration <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDuration, config.Duration)
	}
	total := path.TotalLength()
	config.StartDistance = curves.Clamp(config.StartDistance, 0, total)
	w := &Walker{path: path, config: config, forward: true}
	w.distance = config.StartDistance
	if total > 0 {
		w.elapsed = config.StartDistance / total * config.Duration.Seconds()
	}
	w.position = path.Position(w.distance)
	w.rotation = path.Rotation(w.distance)
	tracer().Debugf("walker starts at distance %.4g, loop type %s", w.distance, config.Loop)
	return w, nil
}

// Config returns the settings of w, with the start distance clamped.
func (w *Walker) Config() Config {
	return w.config
}

// Distance returns the current spline distance of a constant speed walker.
func (w *Walker) Distance() float64 {
	return w.distance
}

// Elapsed returns the time spent on the path by a fixed duration walker.
func (w *Walker) Elapsed() time.Duration {
	return time.Duration(w.elapsed * float64(time.Second))
}

// IsMovingForward is a predicate: is w moving towards the end of the path?
func (w *Walker) IsMovingForward() bool {
	return w.forward
}

// Position returns the current target position.
func (w *Walker) Position() mgl64.Vec3 {
	return w.position
}

// Rotation returns the current target rotation.
func (w *Walker) Rotation() mgl64.Quat {
	return w.rotation
}

// Step advances w by dt and returns the new target position and rotation.
func (w *Walker) Step(dt time.Duration) (mgl64.Vec3, mgl64.Quat) {
	switch w.config.Mode {
	case FixedDuration:
		limit := w.config.Duration.Seconds()
		w.elapsed = w.advance(w.elapsed, dt.Seconds(), limit)
		u := w.elapsed / limit
		w.position = w.path.NormalizedPosition(u)
		w.rotation = w.path.NormalizedRotation(u)
	default:
		w.distance = w.advance(w.distance, dt.Seconds()*w.config.Speed, w.path.TotalLength())
		w.position = w.path.Position(w.distance)
		w.rotation = w.path.Rotation(w.distance)
	}
	return w.position, w.rotation
}

// advance moves x by delta within [0, limit] according to the loop type.
func (w *Walker) advance(x, delta, limit float64) float64 {
	switch w.config.Loop {
	case Loop:
		return curves.Repeat(x+delta, limit)
	case PingPong:
		if w.forward {
			x += delta
		} else {
			x -= delta
		}
		x = curves.Clamp(x, 0, limit)
		if x <= 0 && !w.forward || x >= limit && w.forward {
			w.forward = !w.forward
			tracer().Debugf("walker turns around at %.4g", x)
		}
		return x
	}
	return curves.Clamp(x+delta, 0, limit)
}

// Smooth moves a pose towards a target pose, as a per-frame filter for
// walkers driven by a render loop. The fraction covered is dt in seconds
// times 25, capped at 1.
func Smooth(position mgl64.Vec3, rotation mgl64.Quat, targetPosition mgl64.Vec3,
	targetRotation mgl64.Quat, dt time.Duration) (mgl64.Vec3, mgl64.Quat) {
	f := curves.Clamp01(dt.Seconds() * 25)
	p := position.Add(targetPosition.Sub(position).Mul(f))
	if rotation.Dot(targetRotation) < 0 {
		targetRotation = targetRotation.Scale(-1)
	}
	return p, mgl64.QuatNlerp(rotation, targetRotation, f)
}
