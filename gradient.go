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

// Gradient holds the derivatives of a loss with respect to all
// differentiable scene parameters.
type Gradient struct {
	Shapes []ShapeGradient
	Groups []GroupGradient
}

// ShapeGradient holds the derivatives for one shape.  Params uses the
// layout of [GeometryParams].
type ShapeGradient struct {
	Params      []float64
	StrokeWidth float64
}

// GroupGradient holds the derivatives for one shape group.  Transform is
// in the row-major layout of [TransformRows]; the last row is always
// zero.  Fill and Stroke use the layout of [PaintParams] and are empty if
// the group has no such paint.
type GroupGradient struct {
	Transform [9]float64
	Fill      []float64
	Stroke    []float64
}

// NewGradient allocates a zero gradient matching the scene.
func NewGradient(s *Scene) *Gradient {
	g := &Gradient{
		Shapes: make([]ShapeGradient, len(s.shapes)),
		Groups: make([]GroupGradient, len(s.groups)),
	}
	for i, sh := range s.shapes {
		g.Shapes[i].Params = make([]float64, len(GeometryParams(sh.Geometry)))
	}
	for i, grp := range s.groups {
		g.Groups[i].Fill = make([]float64, len(PaintParams(grp.Fill)))
		g.Groups[i].Stroke = make([]float64, len(PaintParams(grp.Stroke)))
	}
	return g
}

// Reset sets all derivatives to zero.
func (g *Gradient) Reset() {
	for i := range g.Shapes {
		clear(g.Shapes[i].Params)
		g.Shapes[i].StrokeWidth = 0
	}
	for i := range g.Groups {
		gg := &g.Groups[i]
		gg.Transform = [9]float64{}
		clear(gg.Fill)
		clear(gg.Stroke)
	}
}

// matches reports whether g has the layout NewGradient(s) would produce.
func (g *Gradient) matches(s *Scene) bool {
	if len(g.Shapes) != len(s.shapes) || len(g.Groups) != len(s.groups) {
		return false
	}
	for i, sh := range s.shapes {
		if len(g.Shapes[i].Params) != len(GeometryParams(sh.Geometry)) {
			return false
		}
	}
	for i, grp := range s.groups {
		if len(g.Groups[i].Fill) != len(PaintParams(grp.Fill)) ||
			len(g.Groups[i].Stroke) != len(PaintParams(grp.Stroke)) {
			return false
		}
	}
	return true
}

// add accumulates o into g.  Both must have the same layout.
func (g *Gradient) add(o *Gradient) {
	for i := range g.Shapes {
		addSlice(g.Shapes[i].Params, o.Shapes[i].Params)
		g.Shapes[i].StrokeWidth += o.Shapes[i].StrokeWidth
	}
	for i := range g.Groups {
		gg, og := &g.Groups[i], &o.Groups[i]
		for k := range gg.Transform {
			gg.Transform[k] += og.Transform[k]
		}
		addSlice(gg.Fill, og.Fill)
		addSlice(gg.Stroke, og.Stroke)
	}
}

func addSlice(dst, src []float64) {
	for i, x := range src {
		dst[i] += x
	}
}
