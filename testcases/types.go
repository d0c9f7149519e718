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

// Package testcases defines the scenes used by the rendering tests, the
// benchmarks and the reference image generator.
package testcases

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/diffvg"
)

// TestCase defines a single rendering test.
type TestCase struct {
	Name   string // lowercase a-z, 0-9 and _ only
	Width  int    // canvas width in pixels
	Height int    // canvas height in pixels
	Shapes []diffvg.Shape
	Groups []diffvg.ShapeGroup

	// Filter is the reconstruction filter.  If nil, DefaultFilter is used.
	Filter *diffvg.Filter
}

// DefaultFilter is the filter used by test cases which do not set one.
var DefaultFilter = diffvg.Filter{Type: diffvg.FilterBox, Radius: 0.5}

// Scene builds the scene described by the test case.
func (tc *TestCase) Scene() (*diffvg.Scene, error) {
	f := DefaultFilter
	if tc.Filter != nil {
		f = *tc.Filter
	}
	return diffvg.NewScene(tc.Width, tc.Height, tc.Shapes, tc.Groups, f, diffvg.SceneOptions{})
}

// IsCoverage reports whether the test case draws a single group in opaque
// white.  Rendered over a black background, such a scene gives a coverage
// mask which can be compared to the output of other renderers.
func (tc *TestCase) IsCoverage() bool {
	if len(tc.Groups) != 1 {
		return false
	}
	g := tc.Groups[0]
	return isWhite(g.Fill) && isWhite(g.Stroke) && (g.Fill != nil || g.Stroke != nil)
}

func isWhite(p diffvg.Paint) bool {
	if p == nil {
		return true
	}
	c, ok := p.(diffvg.Constant)
	return ok && c.Color == White.Color
}

// White is the paint used by coverage tests.
var White = diffvg.Constant{Color: diffvg.Color{R: 1, G: 1, B: 1, A: 1}}

// fill returns a group which fills the given shapes in white, using the
// nonzero winding rule.
func fill(ids ...int) diffvg.ShapeGroup {
	return diffvg.ShapeGroup{ShapeIDs: ids, Fill: White, Transform: matrix.Identity}
}

// fillEvenOdd is like fill, but uses the even-odd rule.
func fillEvenOdd(ids ...int) diffvg.ShapeGroup {
	g := fill(ids...)
	g.EvenOdd = true
	return g
}

// stroke returns a group which strokes the given shapes in white.
func stroke(ids ...int) diffvg.ShapeGroup {
	return diffvg.ShapeGroup{ShapeIDs: ids, Stroke: White, Transform: matrix.Identity}
}

// transformed returns g with the transformation m.
func transformed(g diffvg.ShapeGroup, m matrix.Matrix) diffvg.ShapeGroup {
	g.Transform = m
	return g
}

// single builds a 64×64 test case with one shape and one group.
func single(name string, g diffvg.Geometry, strokeWidth float64, grp diffvg.ShapeGroup) TestCase {
	return TestCase{
		Name:   name,
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{{Geometry: g, StrokeWidth: strokeWidth}},
		Groups: []diffvg.ShapeGroup{grp},
	}
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// pts converts a list of x, y coordinates into points.
func pts(xy ...float64) []vec.Vec2 {
	res := make([]vec.Vec2, len(xy)/2)
	for i := range res {
		res[i] = vec.Vec2{X: xy[2*i], Y: xy[2*i+1]}
	}
	return res
}
