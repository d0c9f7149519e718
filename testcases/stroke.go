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

var strokeCases = []TestCase{
	single("horizontal_line", openLine(10, 32, 54, 32), 4, stroke(0)),
	single("vertical_line", openLine(32, 10, 32, 54), 4, stroke(0)),
	single("diagonal_line", openLine(10, 10, 54, 54), 4, stroke(0)),
	single("thin_line_y_integer", openLine(5, 10, 59, 10), 1, stroke(0)),
	single("thin_line_y_half", openLine(5, 10.5, 59, 10.5), 1, stroke(0)),
	single("hairline", openLine(5, 20.25, 59, 40.75), 0.25, stroke(0)),
	single("thick_line", openLine(12, 32, 52, 32), 20, stroke(0)),
	single("corner_90", corner(32, 32, math.Pi/2), 6, stroke(0)),
	single("corner_sharp", corner(32, 32, math.Pi/8), 6, stroke(0)),
	single("triangle_closed", triangle(10, 50, 32, 10, 54, 50), 4, stroke(0)),
	single("rectangle_closed", diffvg.Rect{Min: pt(12, 16), Max: pt(52, 48)}, 5, stroke(0)),
	single("zigzag", diffvg.Polygon{Vertices: pts(10, 40, 20, 24, 30, 40, 40, 24, 50, 40), Open: true}, 3, stroke(0)),
	{
		Name:   "mixed_widths",
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{
			{Geometry: openLine(10, 16, 54, 16), StrokeWidth: 1},
			{Geometry: openLine(10, 32, 54, 32), StrokeWidth: 4},
			{Geometry: openLine(10, 48, 54, 48), StrokeWidth: 9},
		},
		Groups: []diffvg.ShapeGroup{stroke(0, 1, 2)},
	},
	single("fill_and_stroke", diffvg.Circle{Center: pt(32, 32), Radius: 20}, 6, diffvg.ShapeGroup{
		ShapeIDs:  []int{0},
		Fill:      White,
		Stroke:    White,
		Transform: matrix.Identity,
	}),
}

// openLine builds an open polyline with a single segment.
func openLine(x0, y0, x1, y1 float64) diffvg.Polygon {
	return diffvg.Polygon{Vertices: pts(x0, y0, x1, y1), Open: true}
}

// corner builds two segments of length 20 meeting at (cx, cy) at the given
// angle.
func corner(cx, cy, angle float64) diffvg.Polygon {
	const l = 20
	return diffvg.Polygon{
		Vertices: pts(
			cx-l, cy,
			cx, cy,
			cx-l*math.Cos(angle), cy-l*math.Sin(angle)),
		Open: true,
	}
}
