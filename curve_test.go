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

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// testGeometries returns one geometry of each kind, with curved segments
// that are gentle enough for the closest point search.
func testGeometries() map[string]Geometry {
	p := &path.Data{}
	p.MoveTo(vec.Vec2{X: 2, Y: 2}).
		QuadTo(vec.Vec2{X: 8, Y: 0}, vec.Vec2{X: 12, Y: 4}).
		CubeTo(vec.Vec2{X: 14, Y: 8}, vec.Vec2{X: 10, Y: 12}, vec.Vec2{X: 6, Y: 11}).
		LineTo(vec.Vec2{X: 3, Y: 9}).
		Close()
	return map[string]Geometry{
		"circle":  Circle{Center: vec.Vec2{X: 5, Y: 6}, Radius: 3},
		"ellipse": Ellipse{Center: vec.Vec2{X: 5, Y: 6}, Radius: vec.Vec2{X: 4, Y: 2}},
		"rect":    Rect{Min: vec.Vec2{X: 1, Y: 2}, Max: vec.Vec2{X: 7, Y: 5}},
		"polygon": Polygon{Vertices: []vec.Vec2{{X: 1, Y: 1}, {X: 9, Y: 2}, {X: 4, Y: 8}}},
		"path":    Path{Data: p},
	}
}

func windingAt(curves []curve, p vec.Vec2) int {
	w := 0
	for i := range curves {
		dw, _ := curves[i].winding(p)
		w += dw
	}
	return w
}

func TestWindingCircleOutline(t *testing.T) {
	circ := Circle{Center: vec.Vec2{X: 0, Y: 0}, Radius: 1}
	exact := buildCurves(circ)
	bezier := buildCurves(Path{Data: OutlinePath(circ)})

	for i := range 36 {
		phi := 2 * math.Pi * (float64(i) + 0.3) / 36
		dir := vec.Vec2{X: math.Cos(phi), Y: math.Sin(phi)}
		in := dir.Mul(0.95)
		out := dir.Mul(1.05)
		if w := windingAt(exact, in); w != 1 {
			t.Errorf("circle: winding %d at %v", w, in)
		}
		if w := windingAt(bezier, in); w != 1 {
			t.Errorf("outline: winding %d at %v", w, in)
		}
		if w := windingAt(exact, out); w != 0 {
			t.Errorf("circle: winding %d at %v", w, out)
		}
		if w := windingAt(bezier, out); w != 0 {
			t.Errorf("outline: winding %d at %v", w, out)
		}
	}
}

func TestWindingDegenerateCurves(t *testing.T) {
	// A quadratic and a cubic with collinear control points must wind
	// like the straight polygon edge they trace.
	a, b, c := vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 2}, vec.Vec2{X: 4, Y: 9}
	poly := buildCurves(Polygon{Vertices: []vec.Vec2{a, b, c}})

	p := &path.Data{}
	p.MoveTo(a).
		QuadTo(a.Add(b).Mul(0.5), b).
		CubeTo(b.Mul(2.0/3).Add(c.Mul(1.0/3)), b.Mul(1.0/3).Add(c.Mul(2.0/3)), c).
		Close()
	curved := buildCurves(Path{Data: p})

	for y := 0.25; y < 10; y += 0.5 {
		for x := -1.1; x < 12; x += 0.5 {
			q := vec.Vec2{X: x, Y: y}
			if w1, w2 := windingAt(poly, q), windingAt(curved, q); w1 != w2 {
				t.Errorf("winding at %v: polygon %d, curves %d", q, w1, w2)
			}
		}
	}
}

func TestWindingOnBoundary(t *testing.T) {
	curves := buildCurves(Rect{Min: vec.Vec2{X: 0, Y: 0}, Max: vec.Vec2{X: 4, Y: 4}})
	on := false
	for i := range curves {
		if _, b := curves[i].winding(vec.Vec2{X: 4, Y: 2}); b {
			on = true
		}
	}
	if !on {
		t.Error("point on the right edge not classified as boundary")
	}
}

func TestClosest(t *testing.T) {
	queries := []vec.Vec2{
		{X: 0, Y: 0}, {X: 5, Y: 6}, {X: 13, Y: 3}, {X: 7, Y: 14}, {X: 4.5, Y: 2.5},
	}
	for name, g := range testGeometries() {
		for ci, c := range buildCurves(g) {
			for _, q := range queries {
				t0, d := c.closest(q)
				pt, _, _ := c.eval(t0)
				if got := pt.Sub(q).Length(); math.Abs(got-d) > 1e-9 {
					t.Errorf("%s/%d: distance %g does not match point at t=%g (%g)",
						name, ci, d, t0, got)
				}

				best := math.Inf(1)
				const n = 20000
				for i := 0; i <= n; i++ {
					pt, _, _ := c.eval(float64(i) / n)
					best = min(best, pt.Sub(q).Length())
				}
				if d > best+1e-9 || d < best-1e-3 {
					t.Errorf("%s/%d: closest distance %g from %v, dense search %g",
						name, ci, d, q, best)
				}
			}
		}
	}
}

func TestJacobian(t *testing.T) {
	const h = 1e-6
	for name, g := range testGeometries() {
		params := GeometryParams(g)
		base := buildCurves(g)
		for ci := range base {
			for _, tt := range []float64{0, 0.3, 0.75} {
				// sum up the analytic derivatives per parameter
				dp := make([]vec.Vec2, len(params))
				dd := make([]vec.Vec2, len(params))
				for _, e := range base[ci].jacobian(tt, nil) {
					dp[e.param] = dp[e.param].Add(e.dp)
					dd[e.param] = dd[e.param].Add(e.dd)
				}

				for j := range params {
					plus := append([]float64(nil), params...)
					minus := append([]float64(nil), params...)
					plus[j] += h
					minus[j] -= h
					gp, err := GeometryFromParams(g, plus)
					if err != nil {
						t.Fatal(err)
					}
					gm, err := GeometryFromParams(g, minus)
					if err != nil {
						t.Fatal(err)
					}
					pp, tp, _ := buildCurves(gp)[ci].eval(tt)
					pm, tm, _ := buildCurves(gm)[ci].eval(tt)
					wantP := pp.Sub(pm).Mul(1 / (2 * h))
					wantD := tp.Sub(tm).Mul(1 / (2 * h))
					if wantP.Sub(dp[j]).Length() > 1e-5 {
						t.Errorf("%s/%d t=%g param %d: dP %v, finite difference %v",
							name, ci, tt, j, dp[j], wantP)
					}
					if wantD.Sub(dd[j]).Length() > 1e-4 {
						t.Errorf("%s/%d t=%g param %d: dTangent %v, finite difference %v",
							name, ci, tt, j, dd[j], wantD)
					}
				}
			}
		}
	}
}

func TestCurveLength(t *testing.T) {
	c := buildCurves(Circle{Radius: 2})[0]
	if l := c.length(); math.Abs(l-4*math.Pi) > 1e-9 {
		t.Errorf("circle length %g, expected %g", l, 4*math.Pi)
	}

	// quadratic with collinear control points is a straight segment
	q := curve{kind: curveQuad}
	q.p[0], q.p[1], q.p[2] = vec.Vec2{}, vec.Vec2{X: 1.5, Y: 2}, vec.Vec2{X: 3, Y: 4}
	if l := q.length(); math.Abs(l-5) > 1e-9 {
		t.Errorf("quadratic length %g, expected 5", l)
	}
}

func TestSolveQuadratic(t *testing.T) {
	cases := []struct {
		a, b, c float64
		want    []float64
	}{
		{1, -3, 2, []float64{1, 2}},
		{0, 2, -1, []float64{0.5}},
		{1, 0, 1, nil},
		{1, -2, 1, []float64{1}},
	}
	for _, tc := range cases {
		got := solveQuadratic(tc.a, tc.b, tc.c, nil)
		if len(got) != len(tc.want) {
			t.Errorf("%g t² + %g t + %g: roots %v, expected %v", tc.a, tc.b, tc.c, got, tc.want)
			continue
		}
		if len(got) == 2 && got[0] > got[1] {
			got[0], got[1] = got[1], got[0]
		}
		for i := range got {
			if math.Abs(got[i]-tc.want[i]) > 1e-12 {
				t.Errorf("%g t² + %g t + %g: roots %v, expected %v", tc.a, tc.b, tc.c, got, tc.want)
			}
		}
	}
}
