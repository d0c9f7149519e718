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
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// edge is a non-horizontal line segment in device coordinates, stored
// with y0 < y1.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
	dir    float64 // +1 if the original segment ran towards larger y
}

// Rasterizer computes exact-area pixel coverage for filled and stroked
// paths.  Coverage is the fraction of each pixel's area inside the shape,
// between 0 and 1.  A Rasterizer can be reused for many paths; internal
// buffers grow as needed and are kept between calls.
//
// The prefiltered render mode uses one Rasterizer per band of rows.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM transforms from user space to device space.  Must be
	// non-singular.
	CTM matrix.Matrix

	// Clip bounds output to this device-coordinate rectangle.
	// Coordinates must be integer-aligned.
	Clip rect.Rect

	// Flatness controls curve approximation accuracy in device pixels.
	// Must be positive.
	Flatness float64

	// Width sets the stroke thickness in user-space units.
	Width float64

	cover   []float32
	area    []float32
	row     []float32
	edges   []edge
	active  []int
	poly    []vec.Vec2      // current flattened subpath, user space
	segs    []strokeSegment // stroke segments, forward then reversed
	outline []vec.Vec2      // current stroke outline, user space
}

// NewRasterizer returns a Rasterizer with the given clip rectangle, the
// identity transformation and a stroke width of 1.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:      matrix.Identity,
		Clip:     clip,
		Flatness: defaultFlatness,
		Width:    1,
	}
}

// Reset prepares the rasterizer for reuse with a new clip rectangle.
// CTM, Flatness and Width are restored to their defaults.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.edges = r.edges[:0]
}

// FillNonZero fills the path using the nonzero winding rule.  Open
// subpaths are closed implicitly.  The emit callback receives coverage
// row by row; its slice argument is valid only during the call.
func (r *Rasterizer) FillNonZero(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.edges = r.edges[:0]
	r.addFill(p)
	r.fillEdges(false, emit)
}

// FillEvenOdd fills the path using the even-odd rule.  Open subpaths are
// closed implicitly.  The emit callback receives coverage row by row; its
// slice argument is valid only during the call.
func (r *Rasterizer) FillEvenOdd(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.edges = r.edges[:0]
	r.addFill(p)
	r.fillEdges(true, emit)
}

// addFill appends the edges of all subpaths of p, each closed.
func (r *Rasterizer) addFill(p *path.Data) {
	r.walkPath(p, func(pts []vec.Vec2, _ bool) {
		if len(pts) < 2 {
			return
		}
		for i := 1; i < len(pts); i++ {
			r.addEdge(pts[i-1], pts[i])
		}
		r.addEdge(pts[len(pts)-1], pts[0])
	})
}

// walkPath flattens p subpath by subpath and calls fn with the vertices
// of each subpath in user space.  Consecutive duplicate vertices are
// removed, and closed subpaths do not repeat their first vertex.  Subpaths
// consisting of a lone MoveTo are skipped.  The slice passed to fn is only
// valid during the call.
func (r *Rasterizer) walkPath(p *path.Data, fn func(pts []vec.Vec2, closed bool)) {
	r.poly = r.poly[:0]
	drawn := false
	add := func(_, to vec.Vec2) {
		if to != r.poly[len(r.poly)-1] {
			r.poly = append(r.poly, to)
		}
	}
	finish := func(closed bool) {
		if drawn {
			pts := r.poly
			if closed && len(pts) > 1 && pts[len(pts)-1] == pts[0] {
				pts = pts[:len(pts)-1]
			}
			fn(pts, closed)
		}
		drawn = false
	}

	k := 0
	for _, cmd := range p.Cmds {
		if cmd != path.CmdMoveTo && len(r.poly) == 0 {
			// drawing without a current point
			switch cmd {
			case path.CmdLineTo:
				k++
			case path.CmdQuadTo:
				k += 2
			case path.CmdCubeTo:
				k += 3
			}
			continue
		}
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			r.poly = append(r.poly[:0], p.Coords[k])
			k++
		case path.CmdLineTo:
			drawn = true
			add(vec.Vec2{}, p.Coords[k])
			k++
		case path.CmdQuadTo:
			drawn = true
			r.flattenQuadratic(r.poly[len(r.poly)-1], p.Coords[k], p.Coords[k+1], add)
			k += 2
		case path.CmdCubeTo:
			drawn = true
			r.flattenCubic(r.poly[len(r.poly)-1], p.Coords[k], p.Coords[k+1], p.Coords[k+2], add)
			k += 3
		case path.CmdClose:
			start := r.poly[0]
			finish(true)
			r.poly = append(r.poly[:0], start)
		}
	}
	if len(r.poly) > 0 {
		finish(false)
	}
}

// transformLinear applies the 2×2 linear part of the CTM to a vector.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenQuadratic approximates the quadratic Bézier curve p0, p1, p2 by
// line segments.  The number of segments is chosen so that the deviation
// in device space stays below the flatness.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(from, to vec.Vec2)) {
	dev := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2)).Length() / 4
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}
	c := curve{kind: curveQuad, p: [4]vec.Vec2{p0, p1, p2}}
	r.emitFlattened(&c, n, emit)
}

// flattenCubic approximates the cubic Bézier curve p0, ..., p3 by line
// segments, using Wang's formula for the segment count.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	a := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	b := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(a, b); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}
	c := curve{kind: curveCubic, p: [4]vec.Vec2{p0, p1, p2, p3}}
	r.emitFlattened(&c, n, emit)
}

func (r *Rasterizer) emitFlattened(c *curve, n int, emit func(from, to vec.Vec2)) {
	prev := c.p[0]
	for i := 1; i <= n; i++ {
		pt, _, _ := c.eval(float64(i) / float64(n))
		if i == n {
			pt = c.p[c.degree()]
		}
		emit(prev, pt)
		prev = pt
	}
}

// addEdge adds the segment p0→p1, given in user space, to the edge list.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	x0 := r.CTM[0]*p0.X + r.CTM[2]*p0.Y + r.CTM[4]
	y0 := r.CTM[1]*p0.X + r.CTM[3]*p0.Y + r.CTM[5]
	x1 := r.CTM[0]*p1.X + r.CTM[2]*p1.Y + r.CTM[4]
	y1 := r.CTM[1]*p1.X + r.CTM[3]*p1.Y + r.CTM[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	e := edge{x0: x0, y0: y0, x1: x1, y1: y1, dir: 1}
	if dy < 0 {
		e = edge{x0: x1, y0: y1, x1: x0, y1: y0, dir: -1}
	}
	e.dxdy = (e.x1 - e.x0) / (e.y1 - e.y0)
	r.edges = append(r.edges, e)
}

// Coverage accumulation
//
// Every edge piece inside a pixel deposits two values:
//
//	cover: the signed height of the piece, positive for downward edges
//	area:  cover times the fraction of the pixel to the right of the piece
//
// Scanning a row from left to right, the coverage of pixel i is the sum of
// the cover of all pixels left of i plus area[i].  This is the signed area
// of the shape inside the pixel, which is then clamped (nonzero rule) or
// folded (even-odd rule) into [0, 1].
//
// Where parts of the shape overlap inside a partially covered pixel, the
// signed area counts the overlap more than once.  To keep this error small,
// every pixel row is processed as subRows horizontal strips, each clamped
// separately.  For shapes without overlap the result is exact either way.

// fillEdges scan converts the current edge list.
func (r *Rasterizer) fillEdges(evenOdd bool, emit func(y, xMin int, coverage []float32)) {
	if len(r.edges) == 0 {
		return
	}

	bx0, by0 := math.Inf(1), math.Inf(1)
	bx1, by1 := math.Inf(-1), math.Inf(-1)
	for i := range r.edges {
		e := &r.edges[i]
		bx0 = min(bx0, e.x0, e.x1)
		bx1 = max(bx1, e.x0, e.x1)
		by0 = min(by0, e.y0)
		by1 = max(by1, e.y1)
	}
	xMin := max(int(math.Floor(bx0)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(bx1))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(by0)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(by1))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]
	r.row = slices.Grow(r.row[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.y0, b.y0)
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top := float64(y)
		for next < len(r.edges) && r.edges[next].y0 < top+1 {
			r.active = append(r.active, next)
			next++
		}
		keep := r.active[:0]
		for _, i := range r.active {
			if r.edges[i].y1 > top {
				keep = append(keep, i)
			}
		}
		r.active = keep
		if len(r.active) == 0 {
			continue
		}

		clear(r.row)
		for k := range subRows {
			y0 := top + float64(k)/subRows
			y1 := top + float64(k+1)/subRows
			clear(r.cover)
			clear(r.area)
			for _, i := range r.active {
				r.accumulate(&r.edges[i], y0, y1, xMin)
			}
			integrate(r.cover, r.area, evenOdd)
			for i, v := range r.cover {
				r.row[i] += v / subRows
			}
		}

		if row, offset := trimZeros(r.row); row != nil {
			emit(y, xMin+offset, row)
		}
	}
}

// accumulate adds the part of e between y0 and y1 to the cover and area
// buffers, which start at device column xOff.  Heights are scaled so that
// a strip fully covered by the shape has coverage 1.
func (r *Rasterizer) accumulate(e *edge, y0, y1 float64, xOff int) {
	ya := max(y0, e.y0)
	yb := min(y1, e.y1)
	if yb <= ya {
		return
	}
	scale := 1 / (y1 - y0)
	h := (yb - ya) * scale
	xa := e.x0 + e.dxdy*(ya-e.y0)
	xb := e.x0 + e.dxdy*(yb-e.y0)
	if xa > xb {
		xa, xb = xb, xa
	}

	left := float64(xOff)
	right := float64(xOff + len(r.cover))
	switch {
	case xb <= left:
		r.deposit(-1, e.dir*h, 0)
		return
	case xa >= right:
		return
	case xa == xb:
		col := math.Floor(xa)
		r.deposit(int(col)-xOff, e.dir*h, xa-col)
		return
	}

	// walk the pixel columns crossed by the piece
	dydx := h / (xb - xa)
	x := xa
	if x < left {
		r.deposit(-1, e.dir*(left-x)*dydx, 0)
		x = left
	}
	end := min(xb, right)
	for x < end {
		col := math.Floor(x)
		next := min(col+1, end)
		r.deposit(int(col)-xOff, e.dir*(next-x)*dydx, (x+next)/2-col)
		x = next
	}
}

// deposit records a piece of signed height dy at horizontal position frac
// inside buffer column i.  Pieces left of the buffer (i < 0) count fully
// towards column 0.
func (r *Rasterizer) deposit(i int, dy, frac float64) {
	if i < 0 {
		r.cover[0] += float32(dy)
		r.area[0] += float32(dy)
		return
	}
	if i >= len(r.cover) {
		return
	}
	r.cover[i] += float32(dy)
	r.area[i] += float32(dy * (1 - frac))
}

// integrate converts cover and area values to coverage, in place in cover.
func integrate(cover, area []float32, evenOdd bool) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		if evenOdd {
			v -= 2 * float32(math.Floor(float64(v/2)))
			if v > 1 {
				v = 2 - v
			}
		} else if v > 1 {
			v = 1
		}
		cover[i] = v
	}
}

// trimZeros returns the non-zero portion of coverage and its starting
// offset, or nil if all values are zero.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

const (
	// defaultFlatness is the default curve flattening tolerance in device
	// pixels.
	defaultFlatness = 0.25

	// horizontalEdgeThreshold is the minimum vertical extent for an edge
	// to contribute to coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the minimum length of a stroked segment.
	zeroLengthThreshold = 1e-10

	// subRows is the number of strips each pixel row is divided into.
	subRows = 4
)
