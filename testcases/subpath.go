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

package testcases

import (
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/diffvg"
)

var subpathCases = []TestCase{
	single("two_triangles", twoTriangles(16, 32, 48, 32, 12), 0, fill(0)),
	single("ring_path", ringPath(32, 32, 25, 12), 0, fillEvenOdd(0)),
	single("ring_path_nonzero", ringPath(32, 32, 25, 12), 0, fill(0)),
	single("open_subpaths", openSubpaths(), 0, fill(0)),
	single("open_subpaths_stroked", openSubpaths(), 3, stroke(0)),
	{
		Name:   "overlapping_rect_nonzero",
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{
			{Geometry: square(10, 10, 30)},
			{Geometry: square(24, 24, 30)},
		},
		Groups: []diffvg.ShapeGroup{fill(0, 1)},
	},
	{
		Name:   "overlapping_rect_evenodd",
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{
			{Geometry: square(10, 10, 30)},
			{Geometry: square(24, 24, 30)},
		},
		Groups: []diffvg.ShapeGroup{fillEvenOdd(0, 1)},
	},
	{
		Name:   "concentric_circles",
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{
			{Geometry: diffvg.Circle{Center: pt(32, 32), Radius: 28}},
			{Geometry: diffvg.Circle{Center: pt(32, 32), Radius: 20}},
			{Geometry: diffvg.Circle{Center: pt(32, 32), Radius: 12}},
		},
		Groups: []diffvg.ShapeGroup{fillEvenOdd(0, 1, 2)},
	},
	manySmallShapes(8, 8),
}

// twoTriangles builds two separate, disjoint triangles.
func twoTriangles(cx1, cy1, cx2, cy2 float64, size float64) diffvg.Path {
	p := &path.Data{}
	for _, c := range [][2]float64{{cx1, cy1}, {cx2, cy2}} {
		p.MoveTo(pt(c[0], c[1]-size)).
			LineTo(pt(c[0]+size, c[1]+size)).
			LineTo(pt(c[0]-size, c[1]+size)).
			Close()
	}
	return diffvg.Path{Data: p}
}

// ringPath builds a square ring as two subpaths with the same orientation.
// Even-odd filling leaves a hole, nonzero filling does not.
func ringPath(cx, cy, outer, inner float64) diffvg.Path {
	p := &path.Data{}
	for _, r := range []float64{outer, inner} {
		p.MoveTo(pt(cx-r, cy-r)).
			LineTo(pt(cx+r, cy-r)).
			LineTo(pt(cx+r, cy+r)).
			LineTo(pt(cx-r, cy+r)).
			Close()
	}
	return diffvg.Path{Data: p}
}

// openSubpaths builds a path with two subpaths which are not closed.
// Fills close them implicitly, strokes do not.
func openSubpaths() diffvg.Path {
	p := (&path.Data{}).
		MoveTo(pt(8, 8)).
		LineTo(pt(40, 12)).
		LineTo(pt(16, 36)).
		MoveTo(pt(56, 28)).
		QuadTo(pt(60, 60), pt(28, 56)).
		LineTo(pt(40, 40))
	return diffvg.Path{Data: p}
}

// manySmallShapes builds a grid of small squares, one shape each.
func manySmallShapes(nx, ny int) TestCase {
	tc := TestCase{
		Name:   "many_small_shapes",
		Width:  128,
		Height: 128,
	}
	var ids []int
	for i := range nx {
		for j := range ny {
			x := 8 + float64(i)*14.3
			y := 8 + float64(j)*14.3
			ids = append(ids, len(tc.Shapes))
			tc.Shapes = append(tc.Shapes, diffvg.Shape{Geometry: square(x, y, 8.5)})
		}
	}
	tc.Groups = []diffvg.ShapeGroup{fill(ids...)}
	return tc
}
