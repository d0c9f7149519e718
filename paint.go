// seehuhn.de/go/diffvg - a differentiable 2D rendering library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package diffvg

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/vec"
)

// Paint determines the color of a filled or stroked shape at every point
// of the canvas.
//
// The implementations are [Constant], [LinearGradient] and
// [RadialGradient].  No other types implement Paint.
type Paint interface {
	// Evaluate returns the color at the canvas point p.
	Evaluate(p vec.Vec2) Color

	isPaint()
}

// Constant paints every point with the same color.
type Constant struct {
	Color Color
}

// ColorStop is one color of a gradient.  Offset is the position along the
// gradient, normally in [0, 1].
type ColorStop struct {
	Offset float64
	Color  Color
}

// LinearGradient interpolates between the color stops along the line from
// Start to End.  Points beyond the ends get the first or last stop color.
// Coordinates are in canvas space.
type LinearGradient struct {
	Start, End vec.Vec2
	Stops      []ColorStop
}

// RadialGradient interpolates between the color stops along the elliptic
// distance from Center, where the ellipse with the given radii has
// distance 1.  Coordinates are in canvas space.
type RadialGradient struct {
	Center vec.Vec2
	Radius vec.Vec2
	Stops  []ColorStop
}

func (Constant) isPaint()       {}
func (LinearGradient) isPaint() {}
func (RadialGradient) isPaint() {}

// Evaluate implements the [Paint] interface.
func (c Constant) Evaluate(vec.Vec2) Color {
	return c.Color
}

// Evaluate implements the [Paint] interface.
func (g LinearGradient) Evaluate(p vec.Vec2) Color {
	t, _, _ := g.position(p)
	return evalStops(g.Stops, t)
}

// Evaluate implements the [Paint] interface.
func (g RadialGradient) Evaluate(p vec.Vec2) Color {
	t, _, _ := g.position(p)
	return evalStops(g.Stops, t)
}

// position returns the gradient coordinate of p, and its derivatives with
// respect to Start and End.
func (g LinearGradient) position(p vec.Vec2) (t float64, dStart, dEnd vec.Vec2) {
	d := g.End.Sub(g.Start)
	q := p.Sub(g.Start)
	l2 := d.Dot(d)
	t = q.Dot(d) / l2
	dEnd = q.Sub(d.Mul(2 * t)).Mul(1 / l2)
	dStart = d.Mul(2 * t).Sub(d).Sub(q).Mul(1 / l2)
	return t, dStart, dEnd
}

// position returns the gradient coordinate of p, and its derivatives with
// respect to Center and Radius.
func (g RadialGradient) position(p vec.Vec2) (t float64, dCenter, dRadius vec.Vec2) {
	vx := (p.X - g.Center.X) / g.Radius.X
	vy := (p.Y - g.Center.Y) / g.Radius.Y
	t = math.Hypot(vx, vy)
	if t == 0 {
		return 0, vec.Vec2{}, vec.Vec2{}
	}
	dCenter = vec.Vec2{X: -vx / t / g.Radius.X, Y: -vy / t / g.Radius.Y}
	dRadius = vec.Vec2{X: -vx * vx / t / g.Radius.X, Y: -vy * vy / t / g.Radius.Y}
	return t, dCenter, dRadius
}

// stopSegment locates t in the stop list.  If t lies strictly inside the
// segment between stops i and i+1, the interpolation weight u of stop i+1
// is returned with inside set.  Otherwise i is the index of the stop whose
// color applies.
func stopSegment(stops []ColorStop, t float64) (i int, u float64, inside bool) {
	if t <= stops[0].Offset {
		return 0, 0, false
	}
	last := len(stops) - 1
	if t >= stops[last].Offset {
		return last, 0, false
	}
	for i = 0; i < last; i++ {
		o0, o1 := stops[i].Offset, stops[i+1].Offset
		if t >= o1 {
			continue
		}
		if o1 == o0 {
			return i + 1, 0, false
		}
		return i, (t - o0) / (o1 - o0), true
	}
	return last, 0, false
}

func evalStops(stops []ColorStop, t float64) Color {
	i, u, inside := stopSegment(stops, t)
	if !inside {
		return stops[i].Color
	}
	return stops[i].Color.Mul(1 - u).Add(stops[i+1].Color.Mul(u))
}

// stopsBackward accumulates the derivatives of the stop colors and offsets
// into grad, which uses the layout (offset r g b a) per stop.  The return
// value is the derivative with respect to the gradient coordinate t.
func stopsBackward(stops []ColorStop, t float64, dc Color, grad []float64) float64 {
	i, u, inside := stopSegment(stops, t)
	if !inside {
		addStopColor(grad, i, dc)
		return 0
	}
	addStopColor(grad, i, dc.Mul(1-u))
	addStopColor(grad, i+1, dc.Mul(u))

	o0, o1 := stops[i].Offset, stops[i+1].Offset
	du := dc.Dot(stops[i+1].Color.Sub(stops[i].Color))
	span := o1 - o0
	grad[5*i] += du * (t - o1) / (span * span)
	grad[5*(i+1)] -= du * (t - o0) / (span * span)
	return du / span
}

func addStopColor(grad []float64, i int, dc Color) {
	g := grad[5*i+1 : 5*i+5]
	g[0] += dc.R
	g[1] += dc.G
	g[2] += dc.B
	g[3] += dc.A
}

// paintBackward adds the derivative of a paint evaluation at p to grad,
// given the derivative dc of the loss with respect to the returned color.
// The layout of grad is the one of [PaintParams].
func paintBackward(pt Paint, p vec.Vec2, dc Color, grad []float64) {
	switch pt := pt.(type) {
	case Constant:
		grad[0] += dc.R
		grad[1] += dc.G
		grad[2] += dc.B
		grad[3] += dc.A
	case LinearGradient:
		t, dStart, dEnd := pt.position(p)
		dt := stopsBackward(pt.Stops, t, dc, grad[4:])
		grad[0] += dt * dStart.X
		grad[1] += dt * dStart.Y
		grad[2] += dt * dEnd.X
		grad[3] += dt * dEnd.Y
	case RadialGradient:
		t, dCenter, dRadius := pt.position(p)
		dt := stopsBackward(pt.Stops, t, dc, grad[4:])
		grad[0] += dt * dCenter.X
		grad[1] += dt * dCenter.Y
		grad[2] += dt * dRadius.X
		grad[3] += dt * dRadius.Y
	}
}

func validatePaint(pt Paint) error {
	switch pt := pt.(type) {
	case nil:
		return nil
	case Constant:
		if !pt.Color.isFinite() {
			return fmt.Errorf("constant paint: non-finite color: %w", ErrInvalidGeometry)
		}
	case LinearGradient:
		if !allFinite(pt.Start, pt.End) {
			return fmt.Errorf("linear gradient: non-finite end point: %w", ErrInvalidGeometry)
		}
		if pt.Start == pt.End {
			return fmt.Errorf("linear gradient: zero length: %w", ErrInvalidGeometry)
		}
		return validateStops("linear gradient", pt.Stops)
	case RadialGradient:
		if !allFinite(pt.Center, pt.Radius) {
			return fmt.Errorf("radial gradient: non-finite geometry: %w", ErrInvalidGeometry)
		}
		if pt.Radius.X <= 0 || pt.Radius.Y <= 0 {
			return fmt.Errorf("radial gradient: radius (%g, %g): %w",
				pt.Radius.X, pt.Radius.Y, ErrInvalidGeometry)
		}
		return validateStops("radial gradient", pt.Stops)
	default:
		return fmt.Errorf("unknown paint %T: %w", pt, ErrInvalidGeometry)
	}
	return nil
}

func validateStops(what string, stops []ColorStop) error {
	if len(stops) == 0 {
		return fmt.Errorf("%s: no color stops: %w", what, ErrInvalidGeometry)
	}
	for i, s := range stops {
		if !isFinite(s.Offset) || !s.Color.isFinite() {
			return fmt.Errorf("%s: stop %d not finite: %w", what, i, ErrInvalidGeometry)
		}
		if i > 0 && s.Offset < stops[i-1].Offset {
			return fmt.Errorf("%s: stop offsets not ascending: %w", what, ErrInvalidGeometry)
		}
	}
	return nil
}

func clonePaint(pt Paint) Paint {
	switch pt := pt.(type) {
	case LinearGradient:
		pt.Stops = append([]ColorStop(nil), pt.Stops...)
		return pt
	case RadialGradient:
		pt.Stops = append([]ColorStop(nil), pt.Stops...)
		return pt
	}
	return pt
}

// PaintParams returns the differentiable parameters of a paint, in the
// order used by [GroupGradient]:
//
//   - Constant: r, g, b, a
//   - LinearGradient: sx, sy, ex, ey, then offset, r, g, b, a per stop
//   - RadialGradient: cx, cy, rx, ry, then offset, r, g, b, a per stop
//
// A nil paint has no parameters.
func PaintParams(pt Paint) []float64 {
	switch pt := pt.(type) {
	case Constant:
		c := pt.Color
		return []float64{c.R, c.G, c.B, c.A}
	case LinearGradient:
		res := []float64{pt.Start.X, pt.Start.Y, pt.End.X, pt.End.Y}
		return appendStops(res, pt.Stops)
	case RadialGradient:
		res := []float64{pt.Center.X, pt.Center.Y, pt.Radius.X, pt.Radius.Y}
		return appendStops(res, pt.Stops)
	}
	return nil
}

func appendStops(res []float64, stops []ColorStop) []float64 {
	for _, s := range stops {
		c := s.Color
		res = append(res, s.Offset, c.R, c.G, c.B, c.A)
	}
	return res
}

// PaintFromParams returns a copy of pt with the parameters replaced by the
// values in params.  The layout is the one used by [PaintParams].
func PaintFromParams(pt Paint, params []float64) (Paint, error) {
	want := len(PaintParams(pt))
	if len(params) != want {
		return nil, fmt.Errorf("paint: %d parameters, expected %d: %w",
			len(params), want, ErrDimensionMismatch)
	}
	p := params
	switch pt.(type) {
	case nil:
		return nil, nil
	case Constant:
		return Constant{Color{p[0], p[1], p[2], p[3]}}, nil
	case LinearGradient:
		return LinearGradient{
			Start: vec.Vec2{X: p[0], Y: p[1]},
			End:   vec.Vec2{X: p[2], Y: p[3]},
			Stops: readStops(p[4:]),
		}, nil
	case RadialGradient:
		return RadialGradient{
			Center: vec.Vec2{X: p[0], Y: p[1]},
			Radius: vec.Vec2{X: p[2], Y: p[3]},
			Stops:  readStops(p[4:]),
		}, nil
	}
	return nil, fmt.Errorf("unknown paint %T: %w", pt, ErrInvalidGeometry)
}

func readStops(p []float64) []ColorStop {
	stops := make([]ColorStop, len(p)/5)
	for i := range stops {
		q := p[5*i : 5*i+5]
		stops[i] = ColorStop{Offset: q[0], Color: Color{q[1], q[2], q[3], q[4]}}
	}
	return stops
}
