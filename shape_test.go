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
	"errors"
	"math"
	"slices"
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

func TestNewShapeInvalid(t *testing.T) {
	nan := math.NaN()
	noMove := &path.Data{
		Cmds:   []path.Command{path.CmdLineTo},
		Coords: []vec.Vec2{{X: 1, Y: 1}},
	}
	shortCoords := &path.Data{
		Cmds:   []path.Command{path.CmdMoveTo, path.CmdCubeTo},
		Coords: []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}},
	}
	point := &path.Data{}
	point.MoveTo(vec.Vec2{X: 3, Y: 3}).LineTo(vec.Vec2{X: 3, Y: 3})

	cases := []struct {
		name  string
		g     Geometry
		width float64
	}{
		{"zero radius", Circle{Radius: 0}, 0},
		{"negative radius", Circle{Radius: -1}, 0},
		{"NaN center", Circle{Center: vec.Vec2{X: nan}, Radius: 1}, 0},
		{"flat ellipse", Ellipse{Radius: vec.Vec2{X: 1, Y: 0}}, 0},
		{"empty rect", Rect{Min: vec.Vec2{X: 1, Y: 1}, Max: vec.Vec2{X: 1, Y: 5}}, 0},
		{"infinite rect", Rect{Max: vec.Vec2{X: math.Inf(1), Y: 1}}, 0},
		{"two vertices", Polygon{Vertices: []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}}, 0},
		{"one open vertex", Polygon{Vertices: []vec.Vec2{{X: 0, Y: 0}}, Open: true}, 0},
		{"collapsed polygon", Polygon{Vertices: []vec.Vec2{{X: 2, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 2}}}, 0},
		{"nil path", Path{}, 0},
		{"no MoveTo", Path{Data: noMove}, 0},
		{"missing coordinates", Path{Data: shortCoords}, 0},
		{"zero length path", Path{Data: point}, 0},
		{"negative stroke", Circle{Radius: 1}, -1},
		{"NaN stroke", Circle{Radius: 1}, nan},
		{"nil geometry", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewShape(tc.g, tc.width)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("got error %v, expected ErrInvalidGeometry", err)
			}
		})
	}
}

func TestNewShapeValid(t *testing.T) {
	for name, g := range testGeometries() {
		if _, err := NewShape(g, 1.5); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	open := Polygon{Vertices: []vec.Vec2{{X: 0, Y: 0}, {X: 4, Y: 1}}, Open: true}
	if _, err := NewShape(open, 1); err != nil {
		t.Errorf("open polyline: %v", err)
	}
}

func TestGeometryParamsRoundTrip(t *testing.T) {
	for name, g := range testGeometries() {
		params := GeometryParams(g)
		for i := range params {
			params[i] += 0.125
		}
		g2, err := GeometryFromParams(g, params)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got := GeometryParams(g2); !slices.Equal(got, params) {
			t.Errorf("%s: parameters %v, expected %v", name, got, params)
		}
		if _, err := GeometryFromParams(g, params[1:]); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("%s: short parameter list gave %v", name, err)
		}
	}
}

func TestGeometryFromParamsKeepsStructure(t *testing.T) {
	p := testGeometries()["path"].(Path)
	g, err := GeometryFromParams(p, GeometryParams(p))
	if err != nil {
		t.Fatal(err)
	}
	q := g.(Path)
	if !slices.Equal(q.Data.Cmds, p.Data.Cmds) {
		t.Errorf("commands %v, expected %v", q.Data.Cmds, p.Data.Cmds)
	}
	q.Data.Cmds[0] = path.CmdLineTo
	if p.Data.Cmds[0] != path.CmdMoveTo {
		t.Error("GeometryFromParams shares the command slice")
	}

	open := Polygon{Vertices: []vec.Vec2{{X: 0, Y: 0}, {X: 4, Y: 1}}, Open: true}
	g, err = GeometryFromParams(open, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if !g.(Polygon).Open {
		t.Error("open flag lost")
	}
}

func TestNewShapeCopies(t *testing.T) {
	verts := []vec.Vec2{{X: 1, Y: 1}, {X: 9, Y: 2}, {X: 4, Y: 8}}
	s, err := NewShape(Polygon{Vertices: verts}, 0)
	if err != nil {
		t.Fatal(err)
	}
	verts[0] = vec.Vec2{X: 100, Y: 100}
	if v := s.Geometry.(Polygon).Vertices[0]; v != (vec.Vec2{X: 1, Y: 1}) {
		t.Errorf("shape vertex changed to %v", v)
	}
}

func TestOutlinePathArea(t *testing.T) {
	// The signed area of the outline has the same sign for all geometry
	// kinds, so that shapes in one group wind consistently.
	for name, g := range testGeometries() {
		if name == "path" || name == "polygon" {
			// vertex order is given by the caller
			continue
		}
		var area float64
		for _, c := range buildCurves(Path{Data: OutlinePath(g)}) {
			const n = 64
			prev := c.startPoint()
			for i := 1; i <= n; i++ {
				pt, _, _ := c.eval(float64(i) / n)
				area += prev.X*pt.Y - pt.X*prev.Y
				prev = pt
			}
		}
		if area <= 0 {
			t.Errorf("%s: signed area %g", name, area/2)
		}
	}
}

func TestCurvesOpenPolygon(t *testing.T) {
	open := Polygon{Vertices: []vec.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}}, Open: true}
	curves := buildCurves(open)
	if len(curves) != 3 {
		t.Fatalf("%d curves, expected 3", len(curves))
	}
	if !curves[1].capEnd {
		t.Error("last stroked segment has no end cap")
	}
	if !curves[2].implicit {
		t.Error("closing segment is not implicit")
	}
}
