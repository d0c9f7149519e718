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
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// curveKind identifies the type of a boundary curve.
type curveKind uint8

const (
	curveLine    curveKind = 1 // Bézier of degree 1
	curveQuad    curveKind = 2 // Bézier of degree 2
	curveCubic   curveKind = 3 // Bézier of degree 3
	curveEllipse curveKind = 4 // full axis-aligned ellipse
)

// curve is one piece of a shape boundary in group-local coordinates,
// parameterised over t ∈ [0, 1].
//
// For Bézier curves p[0..degree] are the control points.  For ellipses
// p[0] is the centre and p[1] holds the two radii; the curve is
// p[0] + (rx cos 2πt, ry sin 2πt).
//
// ix[i] and iy[i] give the index of the shape parameter which provides
// p[i].X and p[i].Y, or -1 if the value does not come from a parameter.
type curve struct {
	kind curveKind
	p    [4]vec.Vec2
	ix   [4]int
	iy   [4]int

	// implicit marks the closing line which a fill adds to an open
	// subpath.  Such lines bound the fill but are not stroked.
	implicit bool

	// capEnd marks the last stroked curve of an open subpath.
	capEnd bool
}

// jacEntry is the derivative of a curve point (and its tangent) with
// respect to a single shape parameter.
type jacEntry struct {
	param int
	dp    vec.Vec2 // ∂point/∂param
	dd    vec.Vec2 // ∂tangent/∂param
}

// Numerical tolerances for curve queries.
const (
	// closestSamplesPerDegree is the number of initial guesses per Bézier
	// degree used by the closest point search.
	closestSamplesPerDegree = 8

	// newtonSteps is the number of Newton refinement steps for closest
	// point and crossing searches.
	newtonSteps = 8

	// bisectSteps is the number of bisection steps used to locate a
	// crossing on a y-monotone curve piece.
	bisectSteps = 60

	// boundaryTolerance is the distance (in local units) below which a
	// point on a curved boundary is classified as lying on the boundary.
	boundaryTolerance = 1e-12

	// lengthSteps is the number of chords used to estimate curve lengths.
	lengthSteps = 16
)

func (c *curve) degree() int {
	if c.kind == curveEllipse {
		return 0
	}
	return int(c.kind)
}

// bernstein fills w with the Bernstein basis of the given degree at t, and
// dw with the derivatives of the basis functions.
func bernstein(degree int, t float64, w, dw *[4]float64) {
	s := 1 - t
	switch degree {
	case 1:
		w[0], w[1] = s, t
		dw[0], dw[1] = -1, 1
	case 2:
		w[0], w[1], w[2] = s*s, 2*s*t, t*t
		dw[0], dw[1], dw[2] = -2*s, 2*(s-t), 2*t
	case 3:
		w[0], w[1], w[2], w[3] = s*s*s, 3*s*s*t, 3*s*t*t, t*t*t
		dw[0], dw[1], dw[2], dw[3] = -3*s*s, 3*s*(s-2*t), 3*t*(2*s-t), 3*t*t
	}
}

// eval returns the point, first and second derivative at t.
func (c *curve) eval(t float64) (pt, d1, d2 vec.Vec2) {
	p := &c.p
	switch c.kind {
	case curveLine:
		d1 = p[1].Sub(p[0])
		pt = p[0].Add(d1.Mul(t))
	case curveQuad:
		s := 1 - t
		pt = p[0].Mul(s * s).Add(p[1].Mul(2 * s * t)).Add(p[2].Mul(t * t))
		d1 = p[1].Sub(p[0]).Mul(2 * s).Add(p[2].Sub(p[1]).Mul(2 * t))
		d2 = p[0].Sub(p[1].Mul(2)).Add(p[2]).Mul(2)
	case curveCubic:
		s := 1 - t
		pt = p[0].Mul(s * s * s).
			Add(p[1].Mul(3 * s * s * t)).
			Add(p[2].Mul(3 * s * t * t)).
			Add(p[3].Mul(t * t * t))
		d1 = p[1].Sub(p[0]).Mul(3 * s * s).
			Add(p[2].Sub(p[1]).Mul(6 * s * t)).
			Add(p[3].Sub(p[2]).Mul(3 * t * t))
		a := p[0].Sub(p[1].Mul(2)).Add(p[2])
		b := p[1].Sub(p[2].Mul(2)).Add(p[3])
		d2 = a.Mul(6 * s).Add(b.Mul(6 * t))
	case curveEllipse:
		phi := 2 * math.Pi * t
		cos, sin := math.Cos(phi), math.Sin(phi)
		rx, ry := p[1].X, p[1].Y
		pt = vec.Vec2{X: p[0].X + rx*cos, Y: p[0].Y + ry*sin}
		d1 = vec.Vec2{X: -2 * math.Pi * rx * sin, Y: 2 * math.Pi * ry * cos}
		d2 = vec.Vec2{X: -4 * math.Pi * math.Pi * rx * cos, Y: -4 * math.Pi * math.Pi * ry * sin}
	}
	return pt, d1, d2
}

// jacobian appends the derivatives of the point and the tangent at t with
// respect to the shape parameters to dst.  Parameters which contribute to
// several coordinates appear several times; callers sum the entries.
func (c *curve) jacobian(t float64, dst []jacEntry) []jacEntry {
	if c.kind == curveEllipse {
		phi := 2 * math.Pi * t
		cos, sin := math.Cos(phi), math.Sin(phi)
		if c.ix[0] >= 0 {
			dst = append(dst, jacEntry{param: c.ix[0], dp: vec.Vec2{X: 1}})
		}
		if c.iy[0] >= 0 {
			dst = append(dst, jacEntry{param: c.iy[0], dp: vec.Vec2{Y: 1}})
		}
		if c.ix[1] >= 0 {
			dst = append(dst, jacEntry{
				param: c.ix[1],
				dp:    vec.Vec2{X: cos},
				dd:    vec.Vec2{X: -2 * math.Pi * sin},
			})
		}
		if c.iy[1] >= 0 {
			dst = append(dst, jacEntry{
				param: c.iy[1],
				dp:    vec.Vec2{Y: sin},
				dd:    vec.Vec2{Y: 2 * math.Pi * cos},
			})
		}
		return dst
	}

	var w, dw [4]float64
	n := c.degree()
	bernstein(n, t, &w, &dw)
	for i := 0; i <= n; i++ {
		if c.ix[i] >= 0 {
			dst = append(dst, jacEntry{
				param: c.ix[i],
				dp:    vec.Vec2{X: w[i]},
				dd:    vec.Vec2{X: dw[i]},
			})
		}
		if c.iy[i] >= 0 {
			dst = append(dst, jacEntry{
				param: c.iy[i],
				dp:    vec.Vec2{Y: w[i]},
				dd:    vec.Vec2{Y: dw[i]},
			})
		}
	}
	return dst
}

// bbox returns a rectangle containing the curve.
func (c *curve) bbox() rect.Rect {
	if c.kind == curveEllipse {
		return rect.Rect{
			LLx: c.p[0].X - c.p[1].X,
			LLy: c.p[0].Y - c.p[1].Y,
			URx: c.p[0].X + c.p[1].X,
			URy: c.p[0].Y + c.p[1].Y,
		}
	}
	b := rect.Rect{LLx: c.p[0].X, LLy: c.p[0].Y, URx: c.p[0].X, URy: c.p[0].Y}
	for i := 1; i <= c.degree(); i++ {
		b = extendRect(b, c.p[i])
	}
	return b
}

// length estimates the arc length of the curve.
func (c *curve) length() float64 {
	switch c.kind {
	case curveLine:
		return c.p[1].Sub(c.p[0]).Length()
	case curveEllipse:
		rx, ry := c.p[1].X, c.p[1].Y
		// Ramanujan's approximation
		h := (rx - ry) * (rx - ry) / ((rx + ry) * (rx + ry))
		return math.Pi * (rx + ry) * (1 + 3*h/(10+math.Sqrt(4-3*h)))
	}
	var total float64
	prev, _, _ := c.eval(0)
	for i := 1; i <= lengthSteps; i++ {
		pt, _, _ := c.eval(float64(i) / lengthSteps)
		total += pt.Sub(prev).Length()
		prev = pt
	}
	return total
}

// winding returns the contribution of the curve to the winding number at
// p, using a ray from p towards +x.  Curve pieces where y increases count
// +1, pieces where y decreases count -1.  The second return value reports
// whether p lies on the curve.
//
// Ellipses are closed curves and contribute +1 for points inside or on the
// ellipse.
func (c *curve) winding(p vec.Vec2) (int, bool) {
	switch c.kind {
	case curveEllipse:
		dx := (p.X - c.p[0].X) / c.p[1].X
		dy := (p.Y - c.p[0].Y) / c.p[1].Y
		r2 := dx*dx + dy*dy
		if r2 <= 1 {
			return 1, r2 == 1
		}
		return 0, false

	case curveLine:
		a, b := c.p[0], c.p[1]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross == 0 &&
			p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) &&
			p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y) {
			return 0, true
		}
		// cross > 0 if the segment passes to the right of p going down
		if a.Y <= p.Y {
			if b.Y > p.Y && cross > 0 {
				return 1, false
			}
		} else if b.Y <= p.Y && cross < 0 {
			return -1, false
		}
		return 0, false
	}

	// Split the Bézier curve into y-monotone pieces and treat each piece
	// like a line segment.
	var splits [4]float64
	ts := splits[:0]
	ts = append(ts, 0)
	ts = c.appendYExtrema(ts)
	ts = append(ts, 1)

	w := 0
	for i := 0; i+1 < len(ts); i++ {
		t0, t1 := ts[i], ts[i+1]
		y0 := c.pointY(t0)
		y1 := c.pointY(t1)
		var dir int
		switch {
		case y0 <= p.Y && p.Y < y1:
			dir = 1
		case y1 <= p.Y && p.Y < y0:
			dir = -1
		default:
			continue
		}

		// bisection for the crossing
		lo, hi := t0, t1
		for range bisectSteps {
			mid := (lo + hi) / 2
			if (c.pointY(mid) < p.Y) == (y0 < y1) {
				lo = mid
			} else {
				hi = mid
			}
		}
		x, _, _ := c.eval((lo + hi) / 2)
		if math.Abs(x.X-p.X) <= boundaryTolerance {
			return 0, true
		}
		if x.X > p.X {
			w += dir
		}
	}
	return w, false
}

func (c *curve) pointY(t float64) float64 {
	pt, _, _ := c.eval(t)
	return pt.Y
}

// appendYExtrema appends the parameters in (0, 1) where the y-derivative
// of a quadratic or cubic Bézier curve vanishes, in increasing order.
func (c *curve) appendYExtrema(ts []float64) []float64 {
	y0, y1, y2 := c.p[0].Y, c.p[1].Y, c.p[2].Y
	switch c.kind {
	case curveQuad:
		den := y0 - 2*y1 + y2
		if den != 0 {
			t := (y0 - y1) / den
			if t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	case curveCubic:
		y3 := c.p[3].Y
		// y'(t)/3 = a t² + b t + c
		a := -y0 + 3*y1 - 3*y2 + y3
		b := 2 * (y0 - 2*y1 + y2)
		cc := y1 - y0
		var roots [2]float64
		for _, t := range solveQuadratic(a, b, cc, roots[:0]) {
			if t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
		if len(ts) == 3 && ts[1] > ts[2] {
			ts[1], ts[2] = ts[2], ts[1]
		}
	}
	return ts
}

// solveQuadratic appends the real roots of a t² + b t + c = 0 to dst.
func solveQuadratic(a, b, c float64, dst []float64) []float64 {
	if math.Abs(a) < 1e-12 {
		if b != 0 {
			dst = append(dst, -c/b)
		}
		return dst
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return dst
	}
	if disc == 0 {
		return append(dst, -b/(2*a))
	}
	// numerically stable form
	sq := math.Sqrt(disc)
	var q float64
	if b >= 0 {
		q = -(b + sq) / 2
	} else {
		q = -(b - sq) / 2
	}
	return append(dst, q/a, c/q)
}

// closest returns the curve parameter of the point closest to p and the
// distance to that point.
func (c *curve) closest(p vec.Vec2) (t, dist float64) {
	switch c.kind {
	case curveLine:
		a, b := c.p[0], c.p[1]
		d := b.Sub(a)
		l2 := d.Dot(d)
		if l2 > 0 {
			t = max(0, min(1, p.Sub(a).Dot(d)/l2))
		}
		return t, a.Add(d.Mul(t)).Sub(p).Length()

	case curveEllipse:
		rx, ry := c.p[1].X, c.p[1].Y
		q := p.Sub(c.p[0])
		if rx == ry {
			phi := math.Atan2(q.Y, q.X)
			if phi < 0 {
				phi += 2 * math.Pi
			}
			return phi / (2 * math.Pi), math.Abs(q.Length() - rx)
		}
	}

	// Sample initial guesses, then refine the best with Newton's method
	// on f(t) = (B(t) - p)·B'(t).
	n := closestSamplesPerDegree * 3
	if d := c.degree(); d > 0 {
		n = closestSamplesPerDegree * d
	}
	closed := c.kind == curveEllipse
	bestT, bestD := 0.0, math.Inf(1)
	for i := 0; i <= n; i++ {
		s := float64(i) / float64(n)
		pt, _, _ := c.eval(s)
		if d := pt.Sub(p).Length(); d < bestD {
			bestT, bestD = s, d
		}
	}
	t = bestT
	for range newtonSteps {
		pt, d1, d2 := c.eval(t)
		diff := pt.Sub(p)
		f := diff.Dot(d1)
		df := d1.Dot(d1) + diff.Dot(d2)
		if df <= 0 {
			break
		}
		next := t - f/df
		if closed {
			next -= math.Floor(next)
		} else {
			next = max(0, min(1, next))
		}
		if next == t {
			break
		}
		t = next
	}
	pt, _, _ := c.eval(t)
	if d := pt.Sub(p).Length(); d < bestD {
		return t, d
	}
	return bestT, bestD
}

// startPoint and endPoint return the curve end points.
func (c *curve) startPoint() vec.Vec2 {
	pt, _, _ := c.eval(0)
	return pt
}

func (c *curve) endPoint() vec.Vec2 {
	pt, _, _ := c.eval(1)
	return pt
}

// extendRect returns the smallest rectangle containing r and p.
func extendRect(r rect.Rect, p vec.Vec2) rect.Rect {
	r.LLx = min(r.LLx, p.X)
	r.LLy = min(r.LLy, p.Y)
	r.URx = max(r.URx, p.X)
	r.URy = max(r.URy, p.Y)
	return r
}

// unionRect returns the smallest rectangle containing a and b.
func unionRect(a, b rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: min(a.LLx, b.LLx),
		LLy: min(a.LLy, b.LLy),
		URx: max(a.URx, b.URx),
		URy: max(a.URy, b.URy),
	}
}

// growRect extends r by d on all sides.
func growRect(r rect.Rect, d float64) rect.Rect {
	return rect.Rect{LLx: r.LLx - d, LLy: r.LLy - d, URx: r.URx + d, URy: r.URy + d}
}

// rectContains reports whether p lies in the closed rectangle r.
func rectContains(r rect.Rect, p vec.Vec2) bool {
	return p.X >= r.LLx && p.X <= r.URx && p.Y >= r.LLy && p.Y <= r.URy
}
