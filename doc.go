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

// Package diffvg implements a differentiable rasterizer for 2D vector
// scenes.
//
// A [Scene] consists of shapes (circles, ellipses, rectangles, polygons
// and paths), organised into shape groups.  Each [ShapeGroup] fills and
// strokes its shapes with a constant color or a gradient, after mapping
// them to the canvas with an affine transformation.  Groups are
// composited back to front over a background image.
//
// [Render] draws a scene by stratified Monte Carlo sampling with a
// reconstruction [Filter], or by exact-area antialiasing if
// [Config.Prefilter] is set.  Given the derivative of a loss with respect
// to the output image, Render also computes the derivatives with respect
// to all shape, paint and transform parameters.  Pixel-interior effects
// are differentiated directly; discontinuities at shape boundaries are
// handled by sampling points on the boundaries.
//
// Rendering the same scene with the same seed gives bit-identical results,
// independent of the number of threads used.
package diffvg

//go:generate go run ./testcases/export
//go:generate go run ./testcases/genpdf
