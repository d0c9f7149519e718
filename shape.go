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
	"fmt"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Geometry describes the outline of a shape in group-local coordinates.
//
// The implementations are [Circle], [Ellipse], [Rect], [Polygon] and
// [Path].  No other types implement Geometry.
type Geometry interface {
	isGeometry()
}

// Circle is a disc with the given centre and radius.
type Circle struct {
	Center vec.Vec2
	Radius float64
}

// Ellipse is an axis-aligned ellipse.  Radius.X and Radius.Y are the two
// semi-axes.
type Ellipse struct {
	Center vec.Vec2
	Radius vec.Vec2
}

// Rect is an axis-aligned rectangle with opposite corners Min and Max.
type Rect struct {
	Min, Max vec.Vec2
}

// Polygon is a polyline through the given vertices.  Unless Open is set,
// the last vertex is connected back to the first.  Fills always treat the
// polygon as closed.
type Polygon struct {
	Vertices []vec.Vec2
	Open     bool
}

// Path is a general outline made of lines and quadratic and cubic Bézier
// curves, possibly with several subpaths.  Fills implicitly close open
// subpaths.
type Path struct {
	Data *path.Data
}

func (Circle) isGeometry()  {}
func (Ellipse) isGeometry() {}
func (Rect) isGeometry()    {}
func (Polygon) isGeometry() {}
func (Path) isGeometry()    {}

// Shape is a geometry together with the width used when the shape is
// stroked.
type Shape struct {
	Geometry    Geometry
	StrokeWidth float64
}

// NewShape validates the geometry and returns the corresponding shape.
// Degenerate or non-finite input is reported as [ErrInvalidGeometry].
func NewShape(g Geometry, strokeWidth float64) (Shape, error) {
	if !isFinite(strokeWidth) || strokeWidth < 0 {
		return Shape{}, fmt.Errorf("stroke width %g: %w", strokeWidth, ErrInvalidGeometry)
	}
	if err := validateGeometry(g); err != nil {
		return Shape{}, err
	}
	return Shape{Geometry: cloneGeometry(g), StrokeWidth: strokeWidth}, nil
}

func validateGeometry(g Geometry) error {
	switch g := g.(type) {
	case Circle:
		if !isFinite(g.Center.X) || !isFinite(g.Center.Y) || !isFinite(g.Radius) {
			return fmt.Errorf("circle: non-finite parameters: %w", ErrInvalidGeometry)
		}
		if g.Radius <= 0 {
			return fmt.Errorf("circle: radius %g: %w", g.Radius, ErrInvalidGeometry)
		}
	case Ellipse:
		if !allFinite(g.Center, g.Radius) {
			return fmt.Errorf("ellipse: non-finite parameters: %w", ErrInvalidGeometry)
		}
		if g.Radius.X <= 0 || g.Radius.Y <= 0 {
			return fmt.Errorf("ellipse: radius (%g, %g): %w",
				g.Radius.X, g.Radius.Y, ErrInvalidGeometry)
		}
	case Rect:
		if !allFinite(g.Min, g.Max) {
			return fmt.Errorf("rect: non-finite parameters: %w", ErrInvalidGeometry)
		}
		if g.Min.X == g.Max.X || g.Min.Y == g.Max.Y {
			return fmt.Errorf("rect: zero extent: %w", ErrInvalidGeometry)
		}
	case Polygon:
		minVertices := 3
		if g.Open {
			minVertices = 2
		}
		if len(g.Vertices) < minVertices {
			return fmt.Errorf("polygon: %d vertices: %w", len(g.Vertices), ErrInvalidGeometry)
		}
		if !allFinite(g.Vertices...) {
			return fmt.Errorf("polygon: non-finite vertex: %w", ErrInvalidGeometry)
		}
	case Path:
		if err := validatePath(g.Data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown geometry %T: %w", g, ErrInvalidGeometry)
	}

	var total float64
	for _, c := range buildCurves(g) {
		total += c.length()
	}
	if !(total > 0) {
		return fmt.Errorf("%s: zero length outline: %w", geometryName(g), ErrInvalidGeometry)
	}
	return nil
}

func validatePath(p *path.Data) error {
	if p == nil || len(p.Cmds) == 0 {
		return fmt.Errorf("path: empty: %w", ErrInvalidGeometry)
	}
	if p.Cmds[0] != path.CmdMoveTo {
		return fmt.Errorf("path: does not start with MoveTo: %w", ErrInvalidGeometry)
	}
	need := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo, path.CmdLineTo:
			need++
		case path.CmdQuadTo:
			need += 2
		case path.CmdCubeTo:
			need += 3
		case path.CmdClose:
		default:
			return fmt.Errorf("path: unknown command %d: %w", cmd, ErrInvalidGeometry)
		}
	}
	if need != len(p.Coords) {
		return fmt.Errorf("path: %d coordinates for %d expected: %w",
			len(p.Coords), need, ErrInvalidGeometry)
	}
	if !allFinite(p.Coords...) {
		return fmt.Errorf("path: non-finite coordinate: %w", ErrInvalidGeometry)
	}
	return nil
}

func allFinite(pts ...vec.Vec2) bool {
	for _, p := range pts {
		if !isFinite(p.X) || !isFinite(p.Y) {
			return false
		}
	}
	return true
}

func geometryName(g Geometry) string {
	switch g.(type) {
	case Circle:
		return "circle"
	case Ellipse:
		return "ellipse"
	case Rect:
		return "rect"
	case Polygon:
		return "polygon"
	case Path:
		return "path"
	}
	return fmt.Sprintf("%T", g)
}

// cloneGeometry returns a deep copy of g.
func cloneGeometry(g Geometry) Geometry {
	switch g := g.(type) {
	case Polygon:
		g.Vertices = append([]vec.Vec2(nil), g.Vertices...)
		return g
	case Path:
		if g.Data == nil {
			return g
		}
		g.Data = &path.Data{
			Cmds:   append([]path.Command(nil), g.Data.Cmds...),
			Coords: append([]vec.Vec2(nil), g.Data.Coords...),
		}
		return g
	}
	return g
}

// GeometryParams returns the differentiable parameters of g, in the order
// used by [ShapeGradient]:
//
//   - Circle: cx, cy, r
//   - Ellipse: cx, cy, rx, ry
//   - Rect: x0, y0, x1, y1
//   - Polygon: x and y of every vertex
//   - Path: x and y of every entry in Data.Coords
func GeometryParams(g Geometry) []float64 {
	switch g := g.(type) {
	case Circle:
		return []float64{g.Center.X, g.Center.Y, g.Radius}
	case Ellipse:
		return []float64{g.Center.X, g.Center.Y, g.Radius.X, g.Radius.Y}
	case Rect:
		return []float64{g.Min.X, g.Min.Y, g.Max.X, g.Max.Y}
	case Polygon:
		return flattenPoints(g.Vertices)
	case Path:
		if g.Data == nil {
			return nil
		}
		return flattenPoints(g.Data.Coords)
	}
	return nil
}

// GeometryFromParams returns a copy of g with the parameters replaced by
// the values in params.  The layout is the one used by [GeometryParams].
func GeometryFromParams(g Geometry, params []float64) (Geometry, error) {
	want := len(GeometryParams(g))
	if len(params) != want {
		return nil, fmt.Errorf("%s: %d parameters, expected %d: %w",
			geometryName(g), len(params), want, ErrDimensionMismatch)
	}
	p := params
	switch g := g.(type) {
	case Circle:
		return Circle{Center: vec.Vec2{X: p[0], Y: p[1]}, Radius: p[2]}, nil
	case Ellipse:
		return Ellipse{
			Center: vec.Vec2{X: p[0], Y: p[1]},
			Radius: vec.Vec2{X: p[2], Y: p[3]},
		}, nil
	case Rect:
		return Rect{Min: vec.Vec2{X: p[0], Y: p[1]}, Max: vec.Vec2{X: p[2], Y: p[3]}}, nil
	case Polygon:
		return Polygon{Vertices: unflattenPoints(p), Open: g.Open}, nil
	case Path:
		return Path{Data: &path.Data{
			Cmds:   append([]path.Command(nil), g.Data.Cmds...),
			Coords: unflattenPoints(p),
		}}, nil
	}
	return nil, fmt.Errorf("unknown geometry %T: %w", g, ErrInvalidGeometry)
}

func flattenPoints(pts []vec.Vec2) []float64 {
	res := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		res = append(res, p.X, p.Y)
	}
	return res
}

func unflattenPoints(p []float64) []vec.Vec2 {
	res := make([]vec.Vec2, len(p)/2)
	for i := range res {
		res[i] = vec.Vec2{X: p[2*i], Y: p[2*i+1]}
	}
	return res
}

// buildCurves converts a geometry into boundary curves.  The parameter
// indices refer to the layout of [GeometryParams].
func buildCurves(g Geometry) []curve {
	switch g := g.(type) {
	case Circle:
		c := curve{kind: curveEllipse}
		c.p[0] = g.Center
		c.p[1] = vec.Vec2{X: g.Radius, Y: g.Radius}
		c.ix = [4]int{0, 2, -1, -1}
		c.iy = [4]int{1, 2, -1, -1}
		return []curve{c}

	case Ellipse:
		c := curve{kind: curveEllipse}
		c.p[0] = g.Center
		c.p[1] = g.Radius
		c.ix = [4]int{0, 2, -1, -1}
		c.iy = [4]int{1, 3, -1, -1}
		return []curve{c}

	case Rect:
		x0, y0, x1, y1 := g.Min.X, g.Min.Y, g.Max.X, g.Max.Y
		b := newCurveBuilder()
		b.moveTo(vec.Vec2{X: x0, Y: y0}, 0, 1)
		b.lineTo(vec.Vec2{X: x1, Y: y0}, 2, 1)
		b.lineTo(vec.Vec2{X: x1, Y: y1}, 2, 3)
		b.lineTo(vec.Vec2{X: x0, Y: y1}, 0, 3)
		b.closePath()
		return b.curves

	case Polygon:
		b := newCurveBuilder()
		for i, v := range g.Vertices {
			if i == 0 {
				b.moveTo(v, 0, 1)
			} else {
				b.lineTo(v, 2*i, 2*i+1)
			}
		}
		if g.Open {
			b.endSubpath()
		} else {
			b.closePath()
		}
		return b.curves

	case Path:
		b := newCurveBuilder()
		k := 0
		for _, cmd := range g.Data.Cmds {
			switch cmd {
			case path.CmdMoveTo:
				b.endSubpath()
				b.moveTo(g.Data.Coords[k], 2*k, 2*k+1)
				k++
			case path.CmdLineTo:
				b.lineTo(g.Data.Coords[k], 2*k, 2*k+1)
				k++
			case path.CmdQuadTo:
				b.bezierTo(curveQuad, g.Data.Coords[k:k+2], 2*k)
				k += 2
			case path.CmdCubeTo:
				b.bezierTo(curveCubic, g.Data.Coords[k:k+3], 2*k)
				k += 3
			case path.CmdClose:
				b.closePath()
			}
		}
		b.endSubpath()
		return b.curves
	}
	return nil
}

// curveBuilder assembles boundary curves subpath by subpath.
type curveBuilder struct {
	curves []curve

	start, cur     vec.Vec2
	startX, startY int
	curX, curY     int
	first          int // index of the first curve of the current subpath
	open           bool
}

func newCurveBuilder() *curveBuilder {
	return &curveBuilder{}
}

func (b *curveBuilder) moveTo(p vec.Vec2, ix, iy int) {
	b.start, b.cur = p, p
	b.startX, b.startY = ix, iy
	b.curX, b.curY = ix, iy
	b.first = len(b.curves)
	b.open = true
}

func (b *curveBuilder) lineTo(p vec.Vec2, ix, iy int) {
	c := curve{kind: curveLine}
	c.p[0], c.p[1] = b.cur, p
	c.ix = [4]int{b.curX, ix, -1, -1}
	c.iy = [4]int{b.curY, iy, -1, -1}
	b.curves = append(b.curves, c)
	b.cur, b.curX, b.curY = p, ix, iy
}

// bezierTo adds a quadratic or cubic segment.  pts are the control points
// after the current point; their x-coordinate of pts[i] has parameter
// index base+2i.
func (b *curveBuilder) bezierTo(kind curveKind, pts []vec.Vec2, base int) {
	c := curve{kind: kind, ix: [4]int{-1, -1, -1, -1}, iy: [4]int{-1, -1, -1, -1}}
	c.p[0] = b.cur
	c.ix[0], c.iy[0] = b.curX, b.curY
	for i, p := range pts {
		c.p[i+1] = p
		c.ix[i+1], c.iy[i+1] = base+2*i, base+2*i+1
	}
	b.curves = append(b.curves, c)
	b.cur = pts[len(pts)-1]
	b.curX, b.curY = base+2*(len(pts)-1), base+2*(len(pts)-1)+1
}

// closePath closes the current subpath with a stroked line.
func (b *curveBuilder) closePath() {
	if !b.open {
		return
	}
	if b.cur != b.start {
		b.lineTo(b.start, b.startX, b.startY)
	}
	b.cur, b.curX, b.curY = b.start, b.startX, b.startY
	b.open = false
}

// endSubpath finishes an open subpath: the last curve gets an end cap and
// the fill is closed by an implicit line.
func (b *curveBuilder) endSubpath() {
	if !b.open {
		return
	}
	b.open = false
	if len(b.curves) == b.first {
		return
	}
	b.curves[len(b.curves)-1].capEnd = true
	if b.cur != b.start {
		b.lineTo(b.start, b.startX, b.startY)
		b.curves[len(b.curves)-1].implicit = true
	}
}

// curvesBBox returns the bounding box of the given curves.
func curvesBBox(curves []curve) rect.Rect {
	if len(curves) == 0 {
		return rect.Rect{}
	}
	b := curves[0].bbox()
	for i := 1; i < len(curves); i++ {
		b = unionRect(b, curves[i].bbox())
	}
	return b
}

// circleKappa is the control point distance for approximating a quarter
// circle of radius 1 with a cubic Bézier curve.
const circleKappa = 0.5522847498

// OutlinePath returns the outline of g as path data.  Circles and ellipses
// are approximated by four cubic Bézier curves.  The path runs in the same
// direction as the boundary curves used for sampling, so that shapes
// combined in one group wind consistently in both render modes.
func OutlinePath(g Geometry) *path.Data {
	res := &path.Data{}
	switch g := g.(type) {
	case Circle:
		appendEllipse(res, g.Center, g.Radius, g.Radius)
	case Ellipse:
		appendEllipse(res, g.Center, g.Radius.X, g.Radius.Y)
	case Rect:
		res.MoveTo(g.Min).
			LineTo(vec.Vec2{X: g.Max.X, Y: g.Min.Y}).
			LineTo(g.Max).
			LineTo(vec.Vec2{X: g.Min.X, Y: g.Max.Y}).
			Close()
	case Polygon:
		for i, v := range g.Vertices {
			if i == 0 {
				res.MoveTo(v)
			} else {
				res.LineTo(v)
			}
		}
		if !g.Open {
			res.Close()
		}
	case Path:
		if g.Data != nil {
			res.Cmds = append(res.Cmds, g.Data.Cmds...)
			res.Coords = append(res.Coords, g.Data.Coords...)
		}
	}
	return res
}

// appendEllipse adds a closed ellipse starting at angle 0 and moving
// towards positive y.
func appendEllipse(p *path.Data, c vec.Vec2, rx, ry float64) {
	kx, ky := circleKappa*rx, circleKappa*ry
	pt := func(x, y float64) vec.Vec2 { return vec.Vec2{X: c.X + x, Y: c.Y + y} }
	p.MoveTo(pt(rx, 0)).
		CubeTo(pt(rx, ky), pt(kx, ry), pt(0, ry)).
		CubeTo(pt(-kx, ry), pt(-rx, ky), pt(-rx, 0)).
		CubeTo(pt(-rx, -ky), pt(-kx, -ry), pt(0, -ry)).
		CubeTo(pt(kx, -ry), pt(rx, -ky), pt(rx, 0)).
		Close()
}
