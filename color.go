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

import "math"

// Color is a straight (not premultiplied) RGBA color.
// Components are nominally in [0, 1] but are never clamped.
type Color struct {
	R, G, B, A float64
}

// Transparent is the zero color.
var Transparent = Color{}

// Add returns the componentwise sum c + d.
func (c Color) Add(d Color) Color {
	return Color{c.R + d.R, c.G + d.G, c.B + d.B, c.A + d.A}
}

// Sub returns the componentwise difference c - d.
func (c Color) Sub(d Color) Color {
	return Color{c.R - d.R, c.G - d.G, c.B - d.B, c.A - d.A}
}

// Mul scales all four components by s.
func (c Color) Mul(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A * s}
}

// Dot returns the sum of the componentwise products.
func (c Color) Dot(d Color) float64 {
	return c.R*d.R + c.G*d.G + c.B*d.B + c.A*d.A
}

func (c Color) isFinite() bool {
	return isFinite(c.R) && isFinite(c.G) && isFinite(c.B) && isFinite(c.A)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// loadColor reads an RGBA quadruple from buf at index i (in units of
// colors).
func loadColor(buf []float32, i int) Color {
	b := buf[4*i : 4*i+4]
	return Color{float64(b[0]), float64(b[1]), float64(b[2]), float64(b[3])}
}

// storeColor writes c into buf at index i (in units of colors).
func storeColor(buf []float32, i int, c Color) {
	b := buf[4*i : 4*i+4]
	b[0] = float32(c.R)
	b[1] = float32(c.G)
	b[2] = float32(c.B)
	b[3] = float32(c.A)
}

// addColor accumulates c into buf at index i (in units of colors).
func addColor(buf []float32, i int, c Color) {
	b := buf[4*i : 4*i+4]
	b[0] += float32(c.R)
	b[1] += float32(c.G)
	b[2] += float32(c.B)
	b[3] += float32(c.A)
}
