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

	"seehuhn.de/go/diffvg"
)

var transformCases = []TestCase{
	transformCase("scale_2x", 128, 128, square(0, 0, 20), 0, fill(0), matrix.Scale(2, 2).Translate(24, 24)),
	transformCase("scale_half", 64, 64, square(0, 0, 80), 0, fill(0), matrix.Scale(0.5, 0.5).Translate(12, 12)),
	transformCase("scale_10x", 128, 128, square(0, 0, 4), 0, fill(0), matrix.Scale(10, 10).Translate(44, 44)),
	transformCase("rotate_45deg", 64, 64, square(-10, -10, 20), 0, fill(0), matrix.RotateDeg(45).Translate(32, 32)),
	transformCase("rotate_5deg", 64, 64, diffvg.Rect{Min: pt(-20, -10), Max: pt(20, 10)}, 0, fill(0), matrix.RotateDeg(5).Translate(32, 32)),
	transformCase("scale_2x_1y", 128, 64, square(-10, -10, 20), 0, fill(0), matrix.Scale(2, 1).Translate(64, 32)),
	transformCase("circle_to_ellipse", 128, 64, diffvg.Circle{Radius: 15}, 0, fill(0), matrix.Scale(2, 1).Translate(64, 32)),
	transformCase("shear_horizontal", 64, 64, square(-15, -15, 30), 0, fill(0), matrix.Matrix{1, 0, 0.5, 1, 0, 0}.Translate(32, 32)),
	transformCase("shear_and_rotate", 64, 64, square(-12, -12, 24), 0, fill(0), matrix.Matrix{1, 0, 0.3, 1, 0, 0}.RotateDeg(30).Translate(32, 32)),
	transformCase("mirror", 64, 64, triangle(-20, 15, 0, -15, 10, 15), 0, fill(0), matrix.Scale(-1, 1).Translate(32, 32)),

	// Strokes are defined in group-local coordinates, so the stroke width
	// is transformed together with the outline.
	transformCase("round_cap_nonuniform", 128, 64, openLine(-20, 0, 20, 0), 8, stroke(0), matrix.Scale(2, 1).Translate(64, 32)),
	transformCase("round_join_rotated", 64, 64, corner(0, 0, math.Pi/3), 6, stroke(0), matrix.RotateDeg(30).Translate(32, 32)),
	transformCase("stroke_scaled", 64, 64, diffvg.Circle{Radius: 10}, 2, stroke(0), matrix.Scale(2, 2).Translate(32, 32)),
}

func transformCase(name string, w, h int, g diffvg.Geometry, strokeWidth float64, grp diffvg.ShapeGroup, m matrix.Matrix) TestCase {
	return TestCase{
		Name:   name,
		Width:  w,
		Height: h,
		Shapes: []diffvg.Shape{{Geometry: g, StrokeWidth: strokeWidth}},
		Groups: []diffvg.ShapeGroup{transformed(grp, m)},
	}
}

// square builds an axis-aligned square with corner (x, y).
func square(x, y, size float64) diffvg.Rect {
	return diffvg.Rect{Min: pt(x, y), Max: pt(x+size, y+size)}
}
