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
	"sort"

	"seehuhn.de/go/geom/vec"
)

// boundaryEpsilon is the distance, in pixels, from a boundary sample to
// the two points where the scene is evaluated.
const boundaryEpsilon = 1e-5

// The derivative of a pixel value splits into two parts.  The interior
// part differentiates the colors of the samples taken by the forward pass
// through the compositing chain.  The boundary part accounts for samples
// which change sides when a boundary moves: for a pixel with filter k
// and normaliser K,
//
//	∂I/∂θ = ∫ k(b)/K · (f(b⁻) - f(b⁺)) · (∂b/∂θ · n) ds
//
// where the integral runs over all boundaries, n is the boundary normal
// and b⁻, b⁺ are points just behind and in front of b.  The integral is
// estimated by sampling boundary points with probability proportional to
// their approximate length.

// backward runs the backward pass.  grad is overwritten.
func (r *renderer) backward(grad *Gradient) error {
	grad.Reset()

	if len(r.cfg.EvalPositions) > 0 {
		r.evalBackward(grad)
	} else if r.buf.DOutput != nil {
		if err := r.interiorBackward(grad); err != nil {
			return err
		}
		if err := r.boundaryBackward(grad); err != nil {
			return err
		}
	}

	if r.buf.DSDF != nil {
		return r.distanceFieldBackward(grad)
	}
	return nil
}

// interiorBackward differentiates the sample colors of every pixel.
func (r *renderer) interiorBackward(grad *Gradient) error {
	s := r.scene
	w, h := r.cfg.Width, r.cfg.Height

	bands := min(numChunks, h)
	partial := make([]*Gradient, bands)
	err := forBands(h, bands, func(band, lo, hi int) {
		g := NewGradient(s)
		partial[band] = g
		var samples []pixelSample
		var frags []fragment
		for y := lo; y < hi; y++ {
			for x := range w {
				pixel := y*w + x
				adj := loadColor(r.buf.DOutput, pixel)
				if adj == Transparent {
					continue
				}
				bg := r.background(pixel)
				var dbg Color
				samples = r.pixelSamples(x, y, samples)
				for _, smp := range samples {
					frags = frags[:0]
					_, final := s.shade(smp.p, bg, &frags)
					dbg = dbg.Add(s.shadeBackward(smp.p, bg, frags, final, adj.Mul(smp.w), g))
				}
				if r.buf.DBackground != nil {
					addColor(r.buf.DBackground, pixel, dbg)
				}
			}
		}
	})
	if err != nil {
		return err
	}
	for _, g := range partial {
		grad.add(g)
	}
	return nil
}

// evalBackward differentiates the eval mode colors.
func (r *renderer) evalBackward(grad *Gradient) {
	if r.buf.DOutput == nil {
		return
	}
	s := r.scene
	var frags []fragment
	for i, p := range r.cfg.EvalPositions {
		adj := loadColor(r.buf.DOutput, i)
		if adj == Transparent {
			continue
		}
		bg, pixel := r.backgroundAt(p)
		frags = frags[:0]
		_, final := s.shade(p, bg, &frags)
		dbg := s.shadeBackward(p, bg, frags, final, adj, grad)
		if r.buf.DBackground != nil && pixel >= 0 {
			addColor(r.buf.DBackground, pixel, dbg)
		}
	}
}

// boundaryKind distinguishes the three kinds of boundary pieces.
type boundaryKind uint8

const (
	boundaryFill   boundaryKind = iota // boundary curve of a filled shape
	boundaryOffset                     // stroke edge, offset by half the width
	boundaryJoint                      // circle around a stroke vertex
)

// boundaryPiece is one curve which can be selected for boundary sampling.
type boundaryPiece struct {
	kind                boundaryKind
	group, shape, curve int

	// side is ±1 for offset curves, and selects the curve end (0 or 1)
	// for joints.
	side float64

	weight float64 // selection weight
	cdf    float64 // sum of the weights up to and including this piece
}

// boundaryPieces lists all boundaries which can affect the image.
func (s *Scene) boundaryPieces() ([]boundaryPiece, float64) {
	var pieces []boundaryPiece
	total := 0.0
	add := func(p boundaryPiece, w float64) {
		if !(w > 0) || !isFinite(w) {
			return
		}
		total += w
		p.weight = w
		p.cdf = total
		pieces = append(pieces, p)
	}

	for gi := range s.groups {
		g := &s.groups[gi]
		m := g.Transform
		scale := math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
		for _, id := range g.ShapeIDs {
			half := s.shapes[id].StrokeWidth / 2
			curves := s.shapeInfo[id].curves
			for ci := range curves {
				c := &curves[ci]
				l := c.length() * scale
				base := boundaryPiece{group: gi, shape: id, curve: ci}
				if g.Fill != nil {
					p := base
					p.kind = boundaryFill
					add(p, l)
				}
				if g.Stroke == nil || half <= 0 || c.implicit {
					continue
				}
				for _, side := range []float64{1, -1} {
					p := base
					p.kind = boundaryOffset
					p.side = side
					add(p, l)
				}
				if c.kind == curveEllipse {
					continue
				}
				circ := 2 * math.Pi * half * scale
				p := base
				p.kind = boundaryJoint
				add(p, circ)
				if c.capEnd {
					p.side = 1
					add(p, circ)
				}
			}
		}
	}
	return pieces, total
}

// boundaryPoint is a sampled boundary point in group-local coordinates.
type boundaryPoint struct {
	q   vec.Vec2   // the point
	dq  vec.Vec2   // derivative with respect to the sampling parameter
	jac []jacEntry // derivatives of q with respect to shape parameters (dp)
	dw  vec.Vec2   // derivative of q with respect to the stroke width
}

// perp rotates v by 90 degrees.
func perp(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -v.Y, Y: v.X}
}

// evalBoundary computes the boundary point of piece pc at parameter t.
// The jac slice of bp is reused.  The second return value is false for
// degenerate points without a tangent.
func (s *Scene) evalBoundary(pc *boundaryPiece, t float64, bp *boundaryPoint) bool {
	c := &s.shapeInfo[pc.shape].curves[pc.curve]
	half := s.shapes[pc.shape].StrokeWidth / 2

	switch pc.kind {
	case boundaryFill:
		bp.q, bp.dq, _ = c.eval(t)
		bp.jac = c.jacobian(t, bp.jac[:0])
		bp.dw = vec.Vec2{}

	case boundaryOffset:
		b, d1, d2 := c.eval(t)
		l := d1.Length()
		if l == 0 {
			return false
		}
		n := perp(d1).Mul(1 / l)
		h := pc.side * half
		// derivative of the unit normal for a change u of the tangent
		dn := func(u vec.Vec2) vec.Vec2 {
			pu := perp(u)
			return pu.Sub(n.Mul(n.Dot(pu))).Mul(1 / l)
		}
		bp.q = b.Add(n.Mul(h))
		bp.dq = d1.Add(dn(d2).Mul(h))
		bp.jac = c.jacobian(t, bp.jac[:0])
		for i := range bp.jac {
			e := &bp.jac[i]
			e.dp = e.dp.Add(dn(e.dd).Mul(h))
		}
		bp.dw = n.Mul(pc.side / 2)

	case boundaryJoint:
		v, _, _ := c.eval(pc.side)
		phi := 2 * math.Pi * t
		dir := vec.Vec2{X: math.Cos(phi), Y: math.Sin(phi)}
		bp.q = v.Add(dir.Mul(half))
		bp.dq = perp(dir).Mul(2 * math.Pi * half)
		bp.jac = c.jacobian(pc.side, bp.jac[:0])
		bp.dw = dir.Mul(0.5)
	}
	return bp.dq != vec.Vec2{}
}

// translationDelta is a contribution to the translation derivative of one
// pixel.
type translationDelta struct {
	pixel int
	d     vec.Vec2
}

// boundaryBackward estimates the boundary part of the derivative.
func (r *renderer) boundaryBackward(grad *Gradient) error {
	s := r.scene
	f := s.filter
	if f.Radius == 0 {
		// point sampling: boundary movement changes the image only on a
		// set of measure zero
		return nil
	}
	pieces, total := s.boundaryPieces()
	if len(pieces) == 0 {
		return nil
	}

	n := r.cfg.BoundarySamples
	if n == 0 {
		n = r.cfg.Width * r.cfg.Height * r.cfg.samplesPerPixel()
	}
	norm := 1 / (f.integral() * float64(n))
	w, h := r.cfg.Width, r.cfg.Height
	seed := r.seed ^ boundarySalt

	bands := min(numChunks, n)
	partial := make([]*Gradient, bands)
	deltas := make([][]translationDelta, bands)
	err := forBands(n, bands, func(band, lo, hi int) {
		g := NewGradient(s)
		partial[band] = g
		var bp boundaryPoint
		for i := lo; i < hi; i++ {
			u, t := jitter(seed, uint64(i)>>32, uint64(i))
			k := sort.Search(len(pieces), func(j int) bool { return pieces[j].cdf > u*total })
			if k == len(pieces) {
				k = len(pieces) - 1
			}
			pc := &pieces[k]
			if !s.evalBoundary(pc, t, &bp) {
				continue
			}

			grp := &s.groups[pc.group]
			m := grp.Transform
			p := apply(m, bp.q)
			tangent := applyLinear(m, bp.dq)
			speed := tangent.Length()
			normal := perp(tangent).Mul(1 / speed)
			// 1/pdf of the sample times the length element
			weight := speed * total / pc.weight * norm

			x0 := max(0, int(math.Ceil(p.X-f.Radius-0.5)))
			x1 := min(w-1, int(math.Floor(p.X+f.Radius-0.5)))
			y0 := max(0, int(math.Ceil(p.Y-f.Radius-0.5)))
			y1 := min(h-1, int(math.Floor(p.Y+f.Radius-0.5)))
			if x0 > x1 || y0 > y1 {
				continue
			}

			inner := p.Sub(normal.Mul(boundaryEpsilon))
			outer := p.Add(normal.Mul(boundaryEpsilon))
			var coef float64
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					pixel := y*w + x
					adj := loadColor(r.buf.DOutput, pixel)
					if adj == Transparent {
						continue
					}
					kw := f.Weight(p.X-float64(x)-0.5, p.Y-float64(y)-0.5)
					if kw == 0 {
						continue
					}
					bg := r.background(pixel)
					cIn, _ := s.shade(inner, bg, nil)
					cOut, _ := s.shade(outer, bg, nil)
					c := adj.Dot(cIn.Sub(cOut)) * kw * weight
					if c == 0 {
						continue
					}
					coef += c
					if r.buf.DTranslation != nil {
						deltas[band] = append(deltas[band], translationDelta{pixel, normal.Mul(c)})
					}
				}
			}
			if coef == 0 {
				continue
			}

			params := g.Shapes[pc.shape].Params
			for _, e := range bp.jac {
				params[e.param] += coef * applyLinear(m, e.dp).Dot(normal)
			}
			if pc.kind != boundaryFill {
				g.Shapes[pc.shape].StrokeWidth += coef * applyLinear(m, bp.dw).Dot(normal)
			}
			addTransformGrad(&g.Groups[pc.group].Transform, bp.q, normal, coef)
		}
	})
	if err != nil {
		return err
	}

	for band, g := range partial {
		grad.add(g)
		for _, d := range deltas[band] {
			r.buf.DTranslation[2*d.pixel] += float32(d.d.X)
			r.buf.DTranslation[2*d.pixel+1] += float32(d.d.Y)
		}
	}
	return nil
}
