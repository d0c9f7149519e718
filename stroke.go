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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// strokeSegment represents a line segment in user coordinates
type strokeSegment struct {
	A, B vec.Vec2 // endpoints in user space
	T    vec.Vec2 // unit tangent (A→B direction)
	N    vec.Vec2 // unit normal (90° CCW from T)
	L    float64  // length
}

func newStrokeSegment(a, b vec.Vec2) (strokeSegment, bool) {
	d := b.Sub(a)
	length := d.Length()
	if length < zeroLengthThreshold {
		return strokeSegment{}, false
	}
	t := d.Mul(1 / length)
	return strokeSegment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}, L: length}, true
}

// reversed returns the segment traversed from B to A.
func (s strokeSegment) reversed() strokeSegment {
	return strokeSegment{A: s.B, B: s.A, T: s.T.Mul(-1), N: s.N.Mul(-1), L: s.L}
}

// Stroke renders the set of all points within Width/2 of the path.  This
// corresponds to round caps and round joins.  The emit callback receives
// coverage row by row; its slice argument is valid only during the call.
func (r *Rasterizer) Stroke(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.edges = r.edges[:0]
	r.addStroke(p, r.Width)
	r.fillEdges(false, emit)
}

// addStroke appends the edges of a stroke of the given width to the edge
// list.  Every subpath contributes one outline: an open subpath gives a
// single polygon running forward along the +N side and back along the -N
// side, with round caps at both ends; a closed subpath gives two loops of
// opposite orientation.  Filling with the nonzero rule gives the stroke.
func (r *Rasterizer) addStroke(p *path.Data, width float64) {
	d := width / 2
	if !(d > 0) {
		return
	}
	r.walkPath(p, func(pts []vec.Vec2, closed bool) {
		closed = closed && len(pts) > 2

		r.segs = r.segs[:0]
		for i := 1; i < len(pts); i++ {
			if seg, ok := newStrokeSegment(pts[i-1], pts[i]); ok {
				r.segs = append(r.segs, seg)
			}
		}
		if closed {
			if seg, ok := newStrokeSegment(pts[len(pts)-1], pts[0]); ok {
				r.segs = append(r.segs, seg)
			}
		}
		n := len(r.segs)
		if n == 0 {
			// a single point strokes to a dot
			r.addDisc(pts[0], d)
			return
		}
		for i := n - 1; i >= 0; i-- {
			r.segs = append(r.segs, r.segs[i].reversed())
		}
		fwd, bwd := r.segs[:n], r.segs[n:]

		if closed && n > 2 {
			r.outline = r.outline[:0]
			r.addOffsetSide(fwd, true, d)
			r.addOutline()
			r.outline = r.outline[:0]
			r.addOffsetSide(bwd, true, d)
			r.addOutline()
			return
		}

		first, last := fwd[0], fwd[n-1]
		r.outline = r.outline[:0]
		r.addOffsetSide(fwd, false, d)
		r.addArc(last.B, d, last.N, -math.Pi)
		r.addOffsetSide(bwd, false, d)
		r.addArc(first.A, d, first.N.Mul(-1), -math.Pi)
		r.addOutline()
	})
}

// addOffsetSide appends the +N offset of segs to the outline.  For open
// chains the offset starts at the first segment's A and ends at the last
// segment's B.  For closed chains every vertex is a corner.
func (r *Rasterizer) addOffsetSide(segs []strokeSegment, closed bool, d float64) {
	n := len(segs)
	if !closed {
		r.outline = append(r.outline, segs[0].A.Add(segs[0].N.Mul(d)))
	}
	for i := range n {
		if i == n-1 && !closed {
			break
		}
		r.addCorner(&segs[i], &segs[(i+1)%n], d)
	}
	if !closed {
		r.outline = append(r.outline, segs[n-1].B.Add(segs[n-1].N.Mul(d)))
	}
}

// addCorner appends the +N side of the corner where in ends and out
// begins.  On the outer side of the turn a round join is added.  On the
// inner side the two offset lines are cut at their intersection, or, if
// the intersection lies beyond one of the segments, the outline passes
// through the corner itself.
func (r *Rasterizer) addCorner(in, out *strokeSegment, d float64) {
	P := in.B
	sinTheta := in.T.X*out.T.Y - in.T.Y*out.T.X
	cosTheta := in.T.Dot(out.T)

	if sinTheta > 0 {
		// +N is the inner side
		cut := d * sinTheta / (1 + cosTheta)
		if cosTheta > -1 && cut <= min(in.L, out.L) {
			r.outline = append(r.outline, P.Add(in.N.Mul(d)).Sub(in.T.Mul(cut)))
			return
		}
		r.outline = append(r.outline, P.Add(in.N.Mul(d)), P, P.Add(out.N.Mul(d)))
		return
	}

	r.outline = append(r.outline, P.Add(in.N.Mul(d)))
	r.addArc(P, d, in.N, -math.Atan2(-sinTheta, cosTheta))
}

// addArc appends the vertices of a circular arc to the outline, excluding
// the start point.  startDir is the unit vector from center to the start
// of the arc, and sweep is the sweep angle in radians (positive = CCW).
// The end points lie on the circle.  Intermediate vertices are moved
// outwards, so that the area enclosed by the polygon matches the area of
// the circular sector.
func (r *Rasterizer) addArc(center vec.Vec2, radius float64, startDir vec.Vec2, sweep float64) {
	n := int(math.Ceil(math.Abs(sweep) / r.arcStep(radius)))
	n = max(n, 1)
	dt := sweep / float64(n)

	// Solve sin(φ)/2 (2 r r' + (n-2) r'²) = n φ r² / 2 for r'.
	inner := radius
	phi := math.Abs(dt)
	if s := math.Sin(phi); n > 1 && s > 0 {
		q := float64(n) * phi / s
		if n == 2 {
			inner = radius * q / 2
		} else {
			m := float64(n - 2)
			inner = radius * (math.Sqrt(1+m*q) - 1) / m
		}
	}

	for i := 1; i <= n; i++ {
		sin, cos := math.Sincos(float64(i) * dt)
		dir := vec.Vec2{
			X: startDir.X*cos - startDir.Y*sin,
			Y: startDir.X*sin + startDir.Y*cos,
		}
		rr := inner
		if i == n {
			rr = radius
		}
		r.outline = append(r.outline, center.Add(dir.Mul(rr)))
	}
}

// arcStep returns the largest angle for which the chord of a circle of the
// given user-space radius stays within the flatness in device space.
func (r *Rasterizer) arcStep(radius float64) float64 {
	devRadius := max(
		r.transformLinear(vec.Vec2{X: radius}).Length(),
		r.transformLinear(vec.Vec2{Y: radius}).Length())
	if devRadius <= r.Flatness {
		return math.Pi / 4
	}
	// sagitta r(1 - cos(θ/2)) equals the flatness
	step := 2 * math.Acos(1-r.Flatness/devRadius)
	if !(step > 0) {
		return math.Pi / 4
	}
	return min(step, math.Pi/4)
}

// addOutline adds the closed polygon in r.outline to the edge list.
func (r *Rasterizer) addOutline() {
	pts := r.outline
	if len(pts) < 3 {
		return
	}
	for i := 1; i < len(pts); i++ {
		r.addEdge(pts[i-1], pts[i])
	}
	r.addEdge(pts[len(pts)-1], pts[0])
}

// addDisc adds a polygon approximating the disc of the given radius,
// traversed in the direction of increasing angle.  The polygon vertices
// lie slightly outside the circle, so that the polygon area matches the
// disc area.
func (r *Rasterizer) addDisc(center vec.Vec2, radius float64) {
	n := max(minDiscVertices, int(math.Ceil(2*math.Pi/r.arcStep(radius))))

	// area of the inscribed n-gon: n/2 r² sin(2π/n)
	scale := math.Sqrt(2 * math.Pi / (float64(n) * math.Sin(2*math.Pi/float64(n))))
	rr := radius * scale

	first := vec.Vec2{X: center.X + rr, Y: center.Y}
	prev := first
	for i := 1; i < n; i++ {
		phi := 2 * math.Pi * float64(i) / float64(n)
		pt := vec.Vec2{X: center.X + rr*math.Cos(phi), Y: center.Y + rr*math.Sin(phi)}
		r.addEdge(prev, pt)
		prev = pt
	}
	r.addEdge(prev, first)
}

// minDiscVertices is the smallest number of vertices used for a disc.
const minDiscVertices = 8
