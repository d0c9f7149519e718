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

	"seehuhn.de/go/geom/vec"
)

// boundaryHit describes the point of a shape boundary closest to a query
// point.
type boundaryHit struct {
	group, shape, curve int
	t                   float64
	local               vec.Vec2 // closest point, group-local coordinates
	point               vec.Vec2 // closest point, canvas coordinates
	dist                float64  // canvas distance to the query point
	sign                float64  // -1 if the query point is inside the shape
}

// closestBoundary finds the shape boundary closest to the canvas point p.
// The closest point is searched in group-local coordinates, and the
// distance is measured on the canvas.  The second return value is false if
// no group contains any shape.
func (s *Scene) closestBoundary(p vec.Vec2) (boundaryHit, bool) {
	best := boundaryHit{dist: math.Inf(1)}
	found := false
	for gi := range s.groups {
		g := &s.groups[gi]
		local := apply(s.groupInfo[gi].inverse, p)
		for _, id := range g.ShapeIDs {
			curves := s.shapeInfo[id].curves
			for ci := range curves {
				t, _ := curves[ci].closest(local)
				q, _, _ := curves[ci].eval(t)
				qc := apply(g.Transform, q)
				if d := qc.Sub(p).Length(); d < best.dist {
					best = boundaryHit{
						group: gi, shape: id, curve: ci,
						t: t, local: q, point: qc, dist: d,
					}
					found = true
				}
			}
		}
	}
	if !found {
		return best, false
	}
	best.sign = 1
	if s.insideShape(best.shape, apply(s.groupInfo[best.group].inverse, p)) {
		best.sign = -1
	}
	return best, true
}

// distanceAt returns the signed distance from p to the nearest shape
// boundary, or the canvas diagonal if the scene is empty.
func (s *Scene) distanceAt(p vec.Vec2) float64 {
	hit, ok := s.closestBoundary(p)
	if !ok {
		return s.diagonal()
	}
	return hit.sign * hit.dist
}

// distanceField fills the SDF buffer, either at the pixel centres or at
// the eval positions.
func (r *renderer) distanceField() error {
	if pos := r.cfg.EvalPositions; len(pos) > 0 {
		return forBands(len(pos), numChunks, func(_, lo, hi int) {
			for i := lo; i < hi; i++ {
				r.buf.SDF[i] = float32(r.scene.distanceAt(pos[i]))
			}
		})
	}
	w := r.cfg.Width
	return forBands(r.cfg.Height, r.cfg.Height, func(_, lo, hi int) {
		for y := lo; y < hi; y++ {
			for x := range w {
				p := vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
				r.buf.SDF[y*w+x] = float32(r.scene.distanceAt(p))
			}
		}
	})
}

// distanceBackward adds the derivative of adj·sdf(p) to grad.  The closest
// point moves with the shape parameters and the transform; its movement
// along the boundary does not change the distance to first order.
func (s *Scene) distanceBackward(p vec.Vec2, adj float64, grad *Gradient, jac []jacEntry) []jacEntry {
	if adj == 0 {
		return jac
	}
	hit, ok := s.closestBoundary(p)
	if !ok || hit.dist == 0 {
		return jac
	}
	dir := hit.point.Sub(p).Mul(1 / hit.dist)
	scale := adj * hit.sign

	m := s.groups[hit.group].Transform
	c := &s.shapeInfo[hit.shape].curves[hit.curve]
	jac = c.jacobian(hit.t, jac[:0])
	params := grad.Shapes[hit.shape].Params
	for _, e := range jac {
		params[e.param] += scale * applyLinear(m, e.dp).Dot(dir)
	}
	addTransformGrad(&grad.Groups[hit.group].Transform, hit.local, dir, scale)
	return jac
}

// addTransformGrad adds scale·(∂P/∂M)·n to the row-major transform
// gradient g, where P = M q.
func addTransformGrad(g *[9]float64, q, n vec.Vec2, scale float64) {
	g[0] += scale * q.X * n.X
	g[1] += scale * q.Y * n.X
	g[2] += scale * n.X
	g[3] += scale * q.X * n.Y
	g[4] += scale * q.Y * n.Y
	g[5] += scale * n.Y
}

// distanceFieldBackward runs distanceBackward for every pixel or eval
// position with a non-zero adjoint.
func (r *renderer) distanceFieldBackward(grad *Gradient) error {
	s := r.scene
	pos := r.cfg.EvalPositions
	n := len(pos)
	w := r.cfg.Width
	if n == 0 {
		n = w * r.cfg.Height
	}

	bands := min(numChunks, n)
	partial := make([]*Gradient, bands)
	err := forBands(n, bands, func(band, lo, hi int) {
		g := NewGradient(s)
		partial[band] = g
		var jac []jacEntry
		for i := lo; i < hi; i++ {
			var p vec.Vec2
			if len(pos) > 0 {
				p = pos[i]
			} else {
				p = vec.Vec2{X: float64(i%w) + 0.5, Y: float64(i/w) + 0.5}
			}
			jac = s.distanceBackward(p, float64(r.buf.DSDF[i]), g, jac)
		}
	})
	if err != nil {
		return err
	}
	for _, g := range partial {
		if g != nil {
			grad.add(g)
		}
	}
	return nil
}
