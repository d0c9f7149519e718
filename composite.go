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

import "seehuhn.de/go/geom/vec"

// alphaEpsilon is the accumulated alpha below which a sample is treated
// as fully transparent when converting back to straight alpha.
const alphaEpsilon = 1e-6

// premul is a color with premultiplied alpha.
type premul struct {
	R, G, B, A float64
}

func premultiply(c Color) premul {
	return premul{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

// over composites the straight color c on top of acc.
func (acc premul) over(c Color) premul {
	a := c.A
	return premul{
		R: c.R*a + acc.R*(1-a),
		G: c.G*a + acc.G*(1-a),
		B: c.B*a + acc.B*(1-a),
		A: a + acc.A*(1-a),
	}
}

// straight converts back to straight alpha.
func (acc premul) straight() Color {
	if acc.A <= alphaEpsilon {
		return Transparent
	}
	return Color{acc.R / acc.A, acc.G / acc.A, acc.B / acc.A, acc.A}
}

// fragment records one paint layer hit by a sample, for the backward pass.
type fragment struct {
	group  int
	stroke bool
	color  Color  // paint color, straight alpha
	before premul // accumulated color below this layer
}

// shade returns the straight-alpha color of the scene at canvas point p
// over the background bg.  Groups are composited in order, the fill of
// each group before its stroke.  If frags is not nil, the layers hit are
// appended to *frags and the premultiplied result is returned as well.
func (s *Scene) shade(p vec.Vec2, bg Color, frags *[]fragment) (Color, premul) {
	acc := premultiply(bg)
	for gi := range s.groups {
		info := &s.groupInfo[gi]
		if !rectContains(info.bbox, p) {
			continue
		}
		g := &s.groups[gi]
		local := apply(info.inverse, p)

		if g.Fill != nil && s.insideFill(g, local) {
			c := g.Fill.Evaluate(p)
			if frags != nil {
				*frags = append(*frags, fragment{group: gi, color: c, before: acc})
			}
			acc = acc.over(c)
		}
		if g.Stroke != nil && s.insideStroke(g, local) {
			c := g.Stroke.Evaluate(p)
			if frags != nil {
				*frags = append(*frags, fragment{group: gi, stroke: true, color: c, before: acc})
			}
			acc = acc.over(c)
		}
	}
	return acc.straight(), acc
}

// shadeBackward propagates the derivative dout of the loss with respect to
// the output of shade back to the paint parameters in grad, and returns
// the derivative with respect to the straight background color.
func (s *Scene) shadeBackward(p vec.Vec2, bg Color, frags []fragment, final premul, dout Color, grad *Gradient) Color {
	// straight alpha conversion
	var dC [3]float64
	var dA float64
	if final.A > alphaEpsilon {
		inv := 1 / final.A
		dC = [3]float64{dout.R * inv, dout.G * inv, dout.B * inv}
		dA = dout.A - inv*inv*(dout.R*final.R+dout.G*final.G+dout.B*final.B)
	}

	for k := len(frags) - 1; k >= 0; k-- {
		f := &frags[k]
		c, a := f.color, f.color.A
		b := f.before

		dc := Color{
			R: dC[0] * a,
			G: dC[1] * a,
			B: dC[2] * a,
			A: dC[0]*(c.R-b.R) + dC[1]*(c.G-b.G) + dC[2]*(c.B-b.B) + dA*(1-b.A),
		}
		g := &grad.Groups[f.group]
		if f.stroke {
			paintBackward(s.groups[f.group].Stroke, p, dc, g.Stroke)
		} else {
			paintBackward(s.groups[f.group].Fill, p, dc, g.Fill)
		}

		dC[0] *= 1 - a
		dC[1] *= 1 - a
		dC[2] *= 1 - a
		dA *= 1 - a
	}

	// premultiplied background
	return Color{
		R: dC[0] * bg.A,
		G: dC[1] * bg.A,
		B: dC[2] * bg.A,
		A: dC[0]*bg.R + dC[1]*bg.G + dC[2]*bg.B + dA,
	}
}
