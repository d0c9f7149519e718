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

var curveCases = []TestCase{
	single("quadratic", quadraticCurve(10, 50, 32, 10, 54, 50, true), 0, fill(0)),
	single("quadratic_shallow", quadraticCurve(10, 32, 32, 28, 54, 32, true), 0, fill(0)),
	single("quadratic_deep", quadraticCurve(10, 50, 32, 5, 54, 50, true), 0, fill(0)),
	single("quadratic_below", quadraticCurve(10, 20, 32, 55, 54, 20, true), 0, fill(0)),
	single("quadratic_s_shape", sCurveQuadratic(10, 32, 54, 32), 0, fill(0)),
	single("quadratic_stroked", quadraticCurve(10, 50, 32, 10, 54, 50, false), 4, stroke(0)),

	single("cubic", cubicCurve(10, 50, 20, 10, 44, 10, 54, 50, true), 0, fill(0)),
	single("cubic_deep", cubicCurve(10, 50, 15, 5, 49, 5, 54, 50, true), 0, fill(0)),
	single("cubic_scurve", cubicCurve(10, 50, 10, 10, 54, 54, 54, 14, true), 0, fill(0)),
	single("cubic_loop", cubicCurve(10, 32, 60, 5, 4, 59, 54, 32, true), 0, fill(0)),
	single("cubic_cusp", cubicCurve(10, 50, 54, 10, 10, 10, 54, 50, true), 0, fill(0)),
	single("cubic_nearly_straight", cubicCurve(10, 32, 24, 31, 40, 31, 54, 32, true), 0, fill(0)),
	single("cubic_stroked", cubicCurve(10, 50, 20, 10, 44, 10, 54, 50, false), 4, stroke(0)),
	single("cubic_scurve_stroked", cubicCurve(10, 50, 10, 10, 54, 54, 54, 14, false), 4, stroke(0)),

	single("circle_stroked", diffvg.Circle{Center: pt(32, 32), Radius: 25}, 3, stroke(0)),
	single("ellipse_stroked", diffvg.Ellipse{Center: pt(32, 32), Radius: pt(25, 12)}, 3, stroke(0)),
	single("circle_path", circlePath(32, 32, 25), 0, fill(0)),
}

// quadraticCurve builds a path from (x0, y0) to (x2, y2) with control
// point (x1, y1).  If closed is set, the curve is closed by a straight
// line.
func quadraticCurve(x0, y0, x1, y1, x2, y2 float64, closed bool) diffvg.Path {
	p := (&path.Data{}).MoveTo(pt(x0, y0)).QuadTo(pt(x1, y1), pt(x2, y2))
	if closed {
		p.Close()
	}
	return diffvg.Path{Data: p}
}

// sCurveQuadratic builds a closed S-shape from two quadratic curves.
func sCurveQuadratic(x0, y0, x1, y1 float64) diffvg.Path {
	mx, my := (x0+x1)/2, (y0+y1)/2
	p := (&path.Data{}).
		MoveTo(pt(x0, y0)).
		QuadTo(pt((x0+mx)/2, y0-20), pt(mx, my)).
		QuadTo(pt((mx+x1)/2, y1+20), pt(x1, y1)).
		Close()
	return diffvg.Path{Data: p}
}

// cubicCurve builds a path with a single cubic Bézier curve.
func cubicCurve(x0, y0, x1, y1, x2, y2, x3, y3 float64, closed bool) diffvg.Path {
	p := (&path.Data{}).MoveTo(pt(x0, y0)).CubeTo(pt(x1, y1), pt(x2, y2), pt(x3, y3))
	if closed {
		p.Close()
	}
	return diffvg.Path{Data: p}
}

// circlePath builds a circle from four cubic Bézier curves, running in
// the opposite direction to [diffvg.Circle].
func circlePath(cx, cy, r float64) diffvg.Path {
	const kappa = 0.5522847498307936
	k := kappa * r
	p := (&path.Data{}).
		MoveTo(pt(cx+r, cy)).
		CubeTo(pt(cx+r, cy-k), pt(cx+k, cy-r), pt(cx, cy-r)).
		CubeTo(pt(cx-k, cy-r), pt(cx-r, cy-k), pt(cx-r, cy)).
		CubeTo(pt(cx-r, cy+k), pt(cx-k, cy+r), pt(cx, cy+r)).
		CubeTo(pt(cx+k, cy+r), pt(cx+r, cy+k), pt(cx+r, cy)).
		Close()
	return diffvg.Path{Data: p}
}
