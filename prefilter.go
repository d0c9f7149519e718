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
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// prefilterFlatness is the curve flattening tolerance, in pixels, used by
// the prefiltered render mode.
var prefilterFlatness = 0.02

// prefiltered renders the image with exact-area coverage.  Every group
// contributes its fill and its stroke as coverage masks; the paint is
// evaluated at the pixel centre and composited with alpha scaled by the
// coverage.
func (r *renderer) prefiltered() error {
	s := r.scene
	w := r.cfg.Width

	outlines := make([]*path.Data, len(s.shapes))
	for i, sh := range s.shapes {
		outlines[i] = OutlinePath(sh.Geometry)
	}

	return forBands(r.cfg.Height, numChunks, func(_, lo, hi int) {
		acc := make([]premul, (hi-lo)*w)
		for i := range acc {
			acc[i] = premultiply(r.background(lo*w + i))
		}
		cov := make([]float32, len(acc))
		emit := func(y, xMin int, coverage []float32) {
			copy(cov[(y-lo)*w+xMin:], coverage)
		}

		rast := NewRasterizer(rect.Rect{LLx: 0, LLy: float64(lo), URx: float64(w), URy: float64(hi)})
		rast.Flatness = prefilterFlatness
		for gi := range s.groups {
			g := &s.groups[gi]
			if !overlapsRows(s.groupInfo[gi].bbox, lo, hi) {
				continue
			}
			rast.CTM = g.Transform

			if g.Fill != nil {
				clear(cov)
				rast.edges = rast.edges[:0]
				for _, id := range g.ShapeIDs {
					rast.addFill(outlines[id])
				}
				rast.fillEdges(g.EvenOdd, emit)
				compositeCoverage(acc, cov, g.Fill, lo, w)
			}
			if g.Stroke != nil {
				clear(cov)
				rast.edges = rast.edges[:0]
				for _, id := range g.ShapeIDs {
					rast.addStroke(outlines[id], s.shapes[id].StrokeWidth)
				}
				rast.fillEdges(false, emit)
				compositeCoverage(acc, cov, g.Stroke, lo, w)
			}
		}

		for i, a := range acc {
			storeColor(r.buf.Output, lo*w+i, a.straight())
		}
	})
}

// compositeCoverage composites a paint over the rows starting at row lo,
// using the coverage values as additional alpha.
func compositeCoverage(acc []premul, cov []float32, pt Paint, lo, w int) {
	for i, c := range cov {
		if c == 0 {
			continue
		}
		p := vec.Vec2{X: float64(i%w) + 0.5, Y: float64(lo+i/w) + 0.5}
		col := pt.Evaluate(p)
		col.A *= float64(c)
		acc[i] = acc[i].over(col)
	}
}

func overlapsRows(b rect.Rect, lo, hi int) bool {
	return b.URy >= float64(lo) && b.LLy <= float64(hi)
}
