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

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/diffvg"
)

var fillCases = []TestCase{
	single("triangle_nonzero", triangle(10, 50, 32, 10, 54, 50), 0, fill(0)),
	single("triangle_evenodd", triangle(10, 50, 32, 10, 54, 50), 0, fillEvenOdd(0)),
	single("star_nonzero", fivePointStar(32, 32, 25), 0, fill(0)),
	single("star_evenodd", fivePointStar(32, 32, 25), 0, fillEvenOdd(0)),
	single("rectangle", diffvg.Rect{Min: pt(10, 10), Max: pt(44, 44)}, 0, fill(0)),
	single("rectangle_reversed", diffvg.Rect{Min: pt(44, 44), Max: pt(10, 10)}, 0, fill(0)),
	single("circle", diffvg.Circle{Center: pt(32, 32), Radius: 25}, 0, fill(0)),
	single("circle_small", diffvg.Circle{Center: pt(20.3, 40.7), Radius: 1.5}, 0, fill(0)),
	single("ellipse", diffvg.Ellipse{Center: pt(32, 32), Radius: pt(28, 12)}, 0, fill(0)),
	single("open_polygon", diffvg.Polygon{Vertices: pts(10, 10, 54, 20, 20, 54), Open: true}, 0, fill(0)),
	single("subpixel_offset_00", offsetRect(20, 20, 4, 0), 0, fill(0)),
	single("subpixel_offset_25", offsetRect(20, 20, 4, 0.25), 0, fill(0)),
	single("subpixel_offset_50", offsetRect(20, 20, 4, 0.5), 0, fill(0)),
	single("subpixel_offset_75", offsetRect(20, 20, 4, 0.75), 0, fill(0)),
	single("thin_sliver", diffvg.Polygon{Vertices: pts(5, 30, 59, 31, 5, 31.2)}, 0, fill(0)),
}

// triangle builds a triangular polygon.
func triangle(x1, y1, x2, y2, x3, y3 float64) diffvg.Polygon {
	return diffvg.Polygon{Vertices: pts(x1, y1, x2, y2, x3, y3)}
}

// fivePointStar builds a five-pointed star (self-intersecting).
func fivePointStar(cx, cy, r float64) diffvg.Polygon {
	corners := make([]vec.Vec2, 5)
	for i := range 5 {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		corners[i] = vec.Vec2{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}

	// draw star: 0 -> 2 -> 4 -> 1 -> 3 -> 0
	var star diffvg.Polygon
	for _, i := range []int{0, 2, 4, 1, 3} {
		star.Vertices = append(star.Vertices, corners[i])
	}
	return star
}

// offsetRect builds a square of the given size whose corner is shifted by
// a fraction of a pixel.
func offsetRect(x, y, size, offset float64) diffvg.Rect {
	return diffvg.Rect{
		Min: pt(x+offset, y+offset),
		Max: pt(x+offset+size, y+offset+size),
	}
}
