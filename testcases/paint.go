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
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/diffvg"
)

var (
	red   = diffvg.Constant{Color: diffvg.Color{R: 1, A: 1}}
	green = diffvg.Constant{Color: diffvg.Color{G: 1, A: 1}}
	blue  = diffvg.Constant{Color: diffvg.Color{B: 1, A: 0.5}}
)

var paintCases = []TestCase{
	{
		Name:   "overlap",
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{
			{Geometry: diffvg.Circle{Center: pt(24, 28), Radius: 16}},
			{Geometry: diffvg.Circle{Center: pt(40, 28), Radius: 16}},
			{Geometry: diffvg.Rect{Min: pt(16, 32), Max: pt(48, 56)}},
		},
		Groups: []diffvg.ShapeGroup{
			{ShapeIDs: []int{0}, Fill: red, Transform: matrix.Identity},
			{ShapeIDs: []int{1}, Fill: green, Transform: matrix.Identity},
			{ShapeIDs: []int{2}, Fill: blue, Transform: matrix.Identity},
		},
	},
	{
		Name:   "linear_gradient",
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{{Geometry: diffvg.Rect{Min: pt(4, 4), Max: pt(60, 60)}}},
		Groups: []diffvg.ShapeGroup{{
			ShapeIDs: []int{0},
			Fill: diffvg.LinearGradient{
				Start: pt(8, 8),
				End:   pt(56, 40),
				Stops: []diffvg.ColorStop{
					{Offset: 0, Color: diffvg.Color{R: 1, A: 1}},
					{Offset: 0.5, Color: diffvg.Color{G: 1, A: 0.5}},
					{Offset: 1, Color: diffvg.Color{B: 1, A: 1}},
				},
			},
			Transform: matrix.Identity,
		}},
	},
	{
		Name:   "radial_gradient",
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{{Geometry: diffvg.Ellipse{Center: pt(32, 32), Radius: pt(28, 20)}}},
		Groups: []diffvg.ShapeGroup{{
			ShapeIDs: []int{0},
			Fill: diffvg.RadialGradient{
				Center: pt(28, 28),
				Radius: pt(24, 16),
				Stops: []diffvg.ColorStop{
					{Offset: 0, Color: diffvg.Color{R: 1, G: 1, B: 1, A: 1}},
					{Offset: 1, Color: diffvg.Color{R: 0.2, B: 0.8, A: 1}},
				},
			},
			Transform: matrix.Identity,
		}},
	},
	{
		Name:   "gradient_stroke",
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{{Geometry: diffvg.Circle{Center: pt(32, 32), Radius: 20}, StrokeWidth: 8}},
		Groups: []diffvg.ShapeGroup{{
			ShapeIDs: []int{0},
			Fill:     diffvg.Constant{Color: diffvg.Color{R: 0.9, G: 0.9, B: 0.2, A: 1}},
			Stroke: diffvg.LinearGradient{
				Start: pt(12, 0),
				End:   pt(52, 0),
				Stops: []diffvg.ColorStop{
					{Offset: 0, Color: diffvg.Color{B: 1, A: 1}},
					{Offset: 1, Color: diffvg.Color{R: 1, A: 1}},
				},
			},
			Transform: matrix.Identity,
		}},
	},
	filterCase("filter_tent", diffvg.Filter{Type: diffvg.FilterTent, Radius: 1}),
	filterCase("filter_parabolic", diffvg.Filter{Type: diffvg.FilterParabolic, Radius: 1}),
	filterCase("filter_hann", diffvg.Filter{Type: diffvg.FilterHann, Radius: 1.5}),
	filterCase("filter_point", diffvg.Filter{Type: diffvg.FilterBox, Radius: 0}),
}

// filterCase builds a red triangle on a canvas using the given filter.
func filterCase(name string, f diffvg.Filter) TestCase {
	return TestCase{
		Name:   name,
		Width:  64,
		Height: 64,
		Shapes: []diffvg.Shape{{Geometry: triangle(10, 50, 32, 10, 54, 50)}},
		Groups: []diffvg.ShapeGroup{{ShapeIDs: []int{0}, Fill: red, Transform: matrix.Identity}},
		Filter: &f,
	}
}
