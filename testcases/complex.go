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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/diffvg"
)

var complexCases = []TestCase{
	single("mixed_lines_curves", mixedLinesCurves(), 0, fill(0)),
	single("stroked_mixed", mixedLinesCurves(), 3, stroke(0)),
	single("glyph_like", glyphLikeShape(), 0, fill(0)),
	single("spiral_overlap", spiralPath(32, 32, 5, 25, 3), 4, stroke(0)),
	single("tight_curve_thick", tightCurve(32, 32, 12), 10, stroke(0)),
	{
		Name:   "large_concentric",
		Width:  256,
		Height: 256,
		Shapes: []diffvg.Shape{
			{Geometry: square(28, 28, 200)},
			{Geometry: diffvg.Circle{Center: pt(128, 128), Radius: 70}},
			{Geometry: fivePointStar(128, 128, 60)},
		},
		Groups: []diffvg.ShapeGroup{fillEvenOdd(0, 1, 2)},
	},
	{
		Name:   "layered",
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{
			{Geometry: square(4, 4, 56)},
			{Geometry: glyphLikeShape(), StrokeWidth: 2},
			{Geometry: diffvg.Ellipse{Center: pt(20, 14), Radius: pt(10, 6)}, StrokeWidth: 1.5},
		},
		Groups: []diffvg.ShapeGroup{
			{ShapeIDs: []int{0}, Fill: diffvg.Constant{Color: diffvg.Color{R: 0.1, G: 0.1, B: 0.3, A: 1}}, Transform: matrix.Identity},
			{ShapeIDs: []int{1}, Fill: red, Stroke: White, Transform: matrix.Identity},
			{
				ShapeIDs:  []int{2},
				Stroke:    green,
				Transform: matrix.RotateDeg(-20).Translate(-6, 10),
			},
		},
	},
}

// mixedLinesCurves builds a closed path from lines, a quadratic and a
// cubic curve.
func mixedLinesCurves() diffvg.Path {
	p := (&path.Data{}).
		MoveTo(pt(10, 50)).
		LineTo(pt(20, 30)).
		QuadTo(pt(32, 10), pt(44, 30)).
		LineTo(pt(54, 50)).
		CubeTo(pt(48, 60), pt(16, 60), pt(10, 50)).
		Close()
	return diffvg.Path{Data: p}
}

// glyphLikeShape builds a shape similar to a typographic glyph: a round
// bowl with a counter running in the opposite direction, and a stem.
func glyphLikeShape() diffvg.Path {
	const kappa = 0.5522847498307936
	cx, cy, r := 30.0, 38.0, 18.0
	k := r * kappa
	ri := 9.0
	ki := ri * kappa

	p := &path.Data{}

	// outer bowl
	p.MoveTo(pt(cx+r, cy)).
		CubeTo(pt(cx+r, cy-k), pt(cx+k, cy-r), pt(cx, cy-r)).
		CubeTo(pt(cx-k, cy-r), pt(cx-r, cy-k), pt(cx-r, cy)).
		CubeTo(pt(cx-r, cy+k), pt(cx-k, cy+r), pt(cx, cy+r)).
		CubeTo(pt(cx+k, cy+r), pt(cx+r, cy+k), pt(cx+r, cy)).
		Close()

	// counter, opposite direction
	p.MoveTo(pt(cx+ri, cy)).
		CubeTo(pt(cx+ri, cy+ki), pt(cx+ki, cy+ri), pt(cx, cy+ri)).
		CubeTo(pt(cx-ki, cy+ri), pt(cx-ri, cy+ki), pt(cx-ri, cy)).
		CubeTo(pt(cx-ri, cy-ki), pt(cx-ki, cy-ri), pt(cx, cy-ri)).
		CubeTo(pt(cx+ki, cy-ri), pt(cx+ri, cy-ki), pt(cx+ri, cy)).
		Close()

	// stem
	p.MoveTo(pt(cx+r-4, cy-r-8)).
		LineTo(pt(cx+r+4, cy-r-8)).
		LineTo(pt(cx+r+4, cy+r)).
		LineTo(pt(cx+r-4, cy+r)).
		Close()

	return diffvg.Path{Data: p}
}

// spiralPath builds an open spiral from line segments.
func spiralPath(cx, cy, rMin, rMax float64, turns float64) diffvg.Polygon {
	steps := max(int(turns*32), 8) // 32 segments per turn

	totalAngle := turns * 2 * math.Pi
	rGrowth := (rMax - rMin) / totalAngle

	spiral := diffvg.Polygon{Open: true}
	for i := 0; i <= steps; i++ {
		angle := float64(i) / float64(steps) * totalAngle
		r := rMin + rGrowth*angle
		spiral.Vertices = append(spiral.Vertices, pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle)))
	}
	return spiral
}

// tightCurve builds an open U-turn whose radius is close to the stroke
// width.
func tightCurve(cx, cy, r float64) diffvg.Path {
	const kappa = 0.5522847498307936
	k := r * kappa
	p := (&path.Data{}).
		MoveTo(pt(cx-r, cy-r)).
		LineTo(pt(cx-r, cy)).
		CubeTo(pt(cx-r, cy+k), pt(cx-k, cy+r), pt(cx, cy+r)).
		CubeTo(pt(cx+k, cy+r), pt(cx+r, cy+k), pt(cx+r, cy)).
		LineTo(pt(cx+r, cy-r))
	return diffvg.Path{Data: p}
}
