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

package scenefile

import (
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/diffvg"
)

// Default sampling parameters, used where the file leaves them unset.
const (
	DefaultSamples = 2
	DefaultRadius  = 0.5
)

// Scene builds the scene described by the file.
func (f *File) Scene() (*diffvg.Scene, error) {
	filter, err := f.filter()
	if err != nil {
		return nil, err
	}

	shapes := make([]diffvg.Shape, len(f.Shapes))
	for i, s := range f.Shapes {
		g, err := s.geometry()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes[i] = diffvg.Shape{Geometry: g, StrokeWidth: s.StrokeWidth}
	}

	groups := make([]diffvg.ShapeGroup, len(f.Groups))
	for i, g := range f.Groups {
		grp, err := g.group()
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		groups[i] = grp
	}

	return diffvg.NewScene(f.Width, f.Height, shapes, groups, filter, diffvg.SceneOptions{})
}

// Config returns the render configuration described by the file.
func (f *File) Config() diffvg.Config {
	cfg := diffvg.Config{
		Width:     f.Width,
		Height:    f.Height,
		SamplesX:  f.Render.SamplesX,
		SamplesY:  f.Render.SamplesY,
		Seed:      f.Render.Seed,
		Prefilter: f.Render.Prefilter,
	}
	if cfg.SamplesX == 0 {
		cfg.SamplesX = DefaultSamples
	}
	if cfg.SamplesY == 0 {
		cfg.SamplesY = DefaultSamples
	}
	return cfg
}

// BackgroundBuffer returns a background buffer filled with the uniform
// background color of the file, or nil if the file has no background.
func (f *File) BackgroundBuffer() ([]float32, error) {
	if f.Background == nil {
		return nil, nil
	}
	c, err := readColor(f.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	n := f.Width * f.Height
	if n <= 0 {
		return nil, fmt.Errorf("canvas size %d×%d: %w", f.Width, f.Height, diffvg.ErrDimensionMismatch)
	}
	buf := make([]float32, 4*n)
	for i := range n {
		buf[4*i] = float32(c.R)
		buf[4*i+1] = float32(c.G)
		buf[4*i+2] = float32(c.B)
		buf[4*i+3] = float32(c.A)
	}
	return buf, nil
}

func (f *File) filter() (diffvg.Filter, error) {
	res := diffvg.Filter{Type: diffvg.FilterBox, Radius: DefaultRadius}
	if f.Filter.Type != "" {
		tp, err := diffvg.ParseFilterType(f.Filter.Type)
		if err != nil {
			return res, err
		}
		res.Type = tp
		res.Radius = f.Filter.Radius
	}
	return res, nil
}

func (s *Shape) geometry() (diffvg.Geometry, error) {
	switch s.Type {
	case "circle":
		c, err := readVec("center", s.Center)
		if err != nil {
			return nil, err
		}
		if len(s.Radius) != 1 {
			return nil, fmt.Errorf("circle radius needs 1 value, got %d: %w",
				len(s.Radius), diffvg.ErrInvalidGeometry)
		}
		return diffvg.Circle{Center: c, Radius: s.Radius[0]}, nil

	case "ellipse":
		c, err := readVec("center", s.Center)
		if err != nil {
			return nil, err
		}
		r, err := readVec("radius", s.Radius)
		if err != nil {
			return nil, err
		}
		return diffvg.Ellipse{Center: c, Radius: r}, nil

	case "rect":
		lo, err := readVec("min", s.Min)
		if err != nil {
			return nil, err
		}
		hi, err := readVec("max", s.Max)
		if err != nil {
			return nil, err
		}
		return diffvg.Rect{Min: lo, Max: hi}, nil

	case "polygon":
		pts, err := readPoints(s.Points)
		if err != nil {
			return nil, err
		}
		return diffvg.Polygon{Vertices: pts, Open: s.Open}, nil

	case "path":
		p := &path.Data{}
		for i, seg := range s.Path {
			pts, err := readPoints(seg.Pts)
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
			n, ok := segmentPoints[seg.Cmd]
			if !ok {
				return nil, fmt.Errorf("segment %d: unknown command %q: %w", i, seg.Cmd, diffvg.ErrInvalidGeometry)
			}
			if len(pts) != n {
				return nil, fmt.Errorf("segment %d: %q needs %d points, got %d: %w",
					i, seg.Cmd, n, len(pts), diffvg.ErrInvalidGeometry)
			}
			switch seg.Cmd {
			case "M":
				p.MoveTo(pts[0])
			case "L":
				p.LineTo(pts[0])
			case "Q":
				p.QuadTo(pts[0], pts[1])
			case "C":
				p.CubeTo(pts[0], pts[1], pts[2])
			case "Z":
				p.Close()
			}
		}
		return diffvg.Path{Data: p}, nil
	}
	return nil, fmt.Errorf("unknown shape type %q: %w", s.Type, diffvg.ErrInvalidGeometry)
}

// segmentPoints gives the number of points of each path command.
var segmentPoints = map[string]int{"M": 1, "L": 1, "Q": 2, "C": 3, "Z": 0}

func (g *Group) group() (diffvg.ShapeGroup, error) {
	rows := diffvg.TransformRows(matrix.Identity)
	if g.Transform != nil {
		if len(g.Transform) != 9 {
			return diffvg.ShapeGroup{}, fmt.Errorf("transform needs 9 values, got %d: %w",
				len(g.Transform), diffvg.ErrInvalidGeometry)
		}
		copy(rows[:], g.Transform)
	}

	var fill, stroke diffvg.Paint
	var err error
	if g.Fill != nil {
		fill, err = g.Fill.paint()
		if err != nil {
			return diffvg.ShapeGroup{}, fmt.Errorf("fill: %w", err)
		}
	}
	if g.Stroke != nil {
		stroke, err = g.Stroke.paint()
		if err != nil {
			return diffvg.ShapeGroup{}, fmt.Errorf("stroke: %w", err)
		}
	}
	return diffvg.NewShapeGroup(g.Shapes, fill, stroke, g.EvenOdd, rows)
}

func (p *Paint) paint() (diffvg.Paint, error) {
	switch p.Type {
	case "constant":
		c, err := readColor(p.Color)
		if err != nil {
			return nil, err
		}
		return diffvg.Constant{Color: c}, nil

	case "linear":
		start, err := readVec("start", p.Start)
		if err != nil {
			return nil, err
		}
		end, err := readVec("end", p.End)
		if err != nil {
			return nil, err
		}
		stops, err := readStops(p.Stops)
		if err != nil {
			return nil, err
		}
		return diffvg.LinearGradient{Start: start, End: end, Stops: stops}, nil

	case "radial":
		center, err := readVec("center", p.Center)
		if err != nil {
			return nil, err
		}
		radius, err := readVec("radius", p.Radius)
		if err != nil {
			return nil, err
		}
		stops, err := readStops(p.Stops)
		if err != nil {
			return nil, err
		}
		return diffvg.RadialGradient{Center: center, Radius: radius, Stops: stops}, nil
	}
	return nil, fmt.Errorf("unknown paint type %q: %w", p.Type, diffvg.ErrInvalidGeometry)
}

func readVec(name string, v []float64) (vec.Vec2, error) {
	if len(v) != 2 {
		return vec.Vec2{}, fmt.Errorf("%s needs 2 values, got %d: %w", name, len(v), diffvg.ErrInvalidGeometry)
	}
	return vec.Vec2{X: v[0], Y: v[1]}, nil
}

func readPoints(pts [][]float64) ([]vec.Vec2, error) {
	res := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		v, err := readVec(fmt.Sprintf("point %d", i), p)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

// readColor reads an RGBA color.  An RGB triple gets alpha 1.
func readColor(c []float64) (diffvg.Color, error) {
	switch len(c) {
	case 3:
		return diffvg.Color{R: c[0], G: c[1], B: c[2], A: 1}, nil
	case 4:
		return diffvg.Color{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
	}
	return diffvg.Color{}, fmt.Errorf("color needs 3 or 4 values, got %d: %w", len(c), diffvg.ErrInvalidGeometry)
}

func readStops(stops []Stop) ([]diffvg.ColorStop, error) {
	res := make([]diffvg.ColorStop, len(stops))
	for i, s := range stops {
		c, err := readColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		res[i] = diffvg.ColorStop{Offset: s.Offset, Color: c}
	}
	return res, nil
}

// FromScene converts a scene into its file representation.  The render
// section is set from cfg.
func FromScene(s *diffvg.Scene, cfg diffvg.Config) *File {
	f := &File{
		Width:  s.Width(),
		Height: s.Height(),
		Filter: Filter{Type: s.Filter().Type.String(), Radius: s.Filter().Radius},
		Render: Render{
			SamplesX:  cfg.SamplesX,
			SamplesY:  cfg.SamplesY,
			Seed:      cfg.Seed,
			Prefilter: cfg.Prefilter,
		},
		Shapes: make([]Shape, s.NumShapes()),
		Groups: make([]Group, s.NumGroups()),
	}
	for i := range f.Shapes {
		f.Shapes[i] = shapeToFile(s.Shape(i))
	}
	for i := range f.Groups {
		g := s.Group(i)
		fg := Group{
			Shapes:  g.ShapeIDs,
			EvenOdd: g.EvenOdd,
			Fill:    paintToFile(g.Fill),
			Stroke:  paintToFile(g.Stroke),
		}
		if g.Transform != matrix.Identity {
			rows := diffvg.TransformRows(g.Transform)
			fg.Transform = rows[:]
		}
		f.Groups[i] = fg
	}
	return f
}

func shapeToFile(sh diffvg.Shape) Shape {
	res := Shape{StrokeWidth: sh.StrokeWidth}
	switch g := sh.Geometry.(type) {
	case diffvg.Circle:
		res.Type = "circle"
		res.Center = vecToFile(g.Center)
		res.Radius = []float64{g.Radius}
	case diffvg.Ellipse:
		res.Type = "ellipse"
		res.Center = vecToFile(g.Center)
		res.Radius = vecToFile(g.Radius)
	case diffvg.Rect:
		res.Type = "rect"
		res.Min = vecToFile(g.Min)
		res.Max = vecToFile(g.Max)
	case diffvg.Polygon:
		res.Type = "polygon"
		res.Points = pointsToFile(g.Vertices)
		res.Open = g.Open
	case diffvg.Path:
		res.Type = "path"
		k := 0
		for _, cmd := range g.Data.Cmds {
			var seg Segment
			n := 0
			switch cmd {
			case path.CmdMoveTo:
				seg.Cmd, n = "M", 1
			case path.CmdLineTo:
				seg.Cmd, n = "L", 1
			case path.CmdQuadTo:
				seg.Cmd, n = "Q", 2
			case path.CmdCubeTo:
				seg.Cmd, n = "C", 3
			case path.CmdClose:
				seg.Cmd = "Z"
			}
			seg.Pts = pointsToFile(g.Data.Coords[k : k+n])
			k += n
			res.Path = append(res.Path, seg)
		}
	}
	return res
}

func paintToFile(p diffvg.Paint) *Paint {
	switch p := p.(type) {
	case diffvg.Constant:
		return &Paint{Type: "constant", Color: colorToFile(p.Color)}
	case diffvg.LinearGradient:
		return &Paint{
			Type:  "linear",
			Start: vecToFile(p.Start),
			End:   vecToFile(p.End),
			Stops: stopsToFile(p.Stops),
		}
	case diffvg.RadialGradient:
		return &Paint{
			Type:   "radial",
			Center: vecToFile(p.Center),
			Radius: vecToFile(p.Radius),
			Stops:  stopsToFile(p.Stops),
		}
	}
	return nil
}

func vecToFile(v vec.Vec2) []float64 {
	return []float64{v.X, v.Y}
}

func pointsToFile(pts []vec.Vec2) [][]float64 {
	if len(pts) == 0 {
		return nil
	}
	res := make([][]float64, len(pts))
	for i, p := range pts {
		res[i] = vecToFile(p)
	}
	return res
}

func colorToFile(c diffvg.Color) []float64 {
	return []float64{c.R, c.G, c.B, c.A}
}

func stopsToFile(stops []diffvg.ColorStop) []Stop {
	res := make([]Stop, len(stops))
	for i, s := range stops {
		res[i] = Stop{Offset: s.Offset, Color: colorToFile(s.Color)}
	}
	return res
}
