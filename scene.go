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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// SceneOptions holds the scene flags which do not describe content.
type SceneOptions struct {
	// UseGPU requests a GPU backend.  Only the CPU renderer is available,
	// so Render rejects scenes with this flag set.
	UseGPU bool

	// DeviceIndex selects a GPU device.  It is ignored unless UseGPU is
	// set.  By convention -1 selects the default device.
	DeviceIndex int

	// Seed, if not nil, overrides the seed passed to Render.
	Seed *uint64
}

// Scene is an immutable collection of shapes and shape groups on a canvas
// of fixed size.  A Scene can be rendered any number of times, also
// concurrently.
type Scene struct {
	width, height int
	shapes        []Shape
	groups        []ShapeGroup
	filter        Filter
	opts          SceneOptions

	shapeInfo []shapeInfo
	groupInfo []groupInfo
}

// shapeInfo holds per-shape data precomputed by NewScene.
type shapeInfo struct {
	curves []curve
	bbox   rect.Rect // of the boundary curves, local coordinates
}

// groupInfo holds per-group data precomputed by NewScene.
type groupInfo struct {
	inverse matrix.Matrix
	bbox    rect.Rect // canvas coordinates, including strokes
}

// NewScene validates its arguments and returns a new scene.  The scene
// keeps copies of shapes and groups, so the caller may modify them
// afterwards.
//
// Errors wrap [ErrDimensionMismatch] for a canvas which is not positive in
// size, [ErrIndexOutOfRange] for groups referring to missing shapes,
// [ErrInvalidGeometry] for invalid shapes, paints or transforms, and
// [ErrUnsupportedConfiguration] for an invalid filter.
func NewScene(width, height int, shapes []Shape, groups []ShapeGroup, filter Filter, opts SceneOptions) (*Scene, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size %d×%d: %w", width, height, ErrDimensionMismatch)
	}
	if err := filter.validate(); err != nil {
		return nil, err
	}

	s := &Scene{
		width:     width,
		height:    height,
		shapes:    make([]Shape, len(shapes)),
		groups:    make([]ShapeGroup, len(groups)),
		filter:    filter,
		opts:      opts,
		shapeInfo: make([]shapeInfo, len(shapes)),
		groupInfo: make([]groupInfo, len(groups)),
	}
	if opts.Seed != nil {
		seed := *opts.Seed
		s.opts.Seed = &seed
	}

	for i, sh := range shapes {
		if !isFinite(sh.StrokeWidth) || sh.StrokeWidth < 0 {
			return nil, fmt.Errorf("shape %d: stroke width %g: %w", i, sh.StrokeWidth, ErrInvalidGeometry)
		}
		if err := validateGeometry(sh.Geometry); err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		s.shapes[i] = Shape{Geometry: cloneGeometry(sh.Geometry), StrokeWidth: sh.StrokeWidth}
		curves := buildCurves(s.shapes[i].Geometry)
		s.shapeInfo[i] = shapeInfo{curves: curves, bbox: curvesBBox(curves)}
	}

	for i, g := range groups {
		for _, id := range g.ShapeIDs {
			if id < 0 || id >= len(shapes) {
				return nil, fmt.Errorf("group %d: shape %d of %d: %w",
					i, id, len(shapes), ErrIndexOutOfRange)
			}
		}
		if err := g.validate(); err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		s.groups[i] = ShapeGroup{
			ShapeIDs:  append([]int(nil), g.ShapeIDs...),
			Fill:      clonePaint(g.Fill),
			Stroke:    clonePaint(g.Stroke),
			EvenOdd:   g.EvenOdd,
			Transform: g.Transform,
		}
		s.groupInfo[i] = groupInfo{
			inverse: invert(g.Transform),
			bbox:    s.groupBBox(&s.groups[i]),
		}
	}

	return s, nil
}

// groupBBox computes the canvas bounding box of everything a group can
// paint.
func (s *Scene) groupBBox(g *ShapeGroup) rect.Rect {
	var local rect.Rect
	for k, id := range g.ShapeIDs {
		b := s.shapeInfo[id].bbox
		if g.Stroke != nil {
			b = growRect(b, s.shapes[id].StrokeWidth/2)
		}
		if k == 0 {
			local = b
		} else {
			local = unionRect(local, b)
		}
	}

	corners := [4]vec.Vec2{
		{X: local.LLx, Y: local.LLy},
		{X: local.URx, Y: local.LLy},
		{X: local.URx, Y: local.URy},
		{X: local.LLx, Y: local.URy},
	}
	p := apply(g.Transform, corners[0])
	res := rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
	for _, c := range corners[1:] {
		res = extendRect(res, apply(g.Transform, c))
	}
	return res
}

// Width returns the canvas width in pixels.
func (s *Scene) Width() int { return s.width }

// Height returns the canvas height in pixels.
func (s *Scene) Height() int { return s.height }

// Filter returns the reconstruction filter.
func (s *Scene) Filter() Filter { return s.filter }

// Options returns the scene flags.
func (s *Scene) Options() SceneOptions { return s.opts }

// NumShapes returns the number of shapes in the scene.
func (s *Scene) NumShapes() int { return len(s.shapes) }

// Shape returns a copy of shape i.
func (s *Scene) Shape(i int) Shape {
	sh := s.shapes[i]
	sh.Geometry = cloneGeometry(sh.Geometry)
	return sh
}

// NumGroups returns the number of shape groups in the scene.
func (s *Scene) NumGroups() int { return len(s.groups) }

// Group returns a copy of shape group i.
func (s *Scene) Group(i int) ShapeGroup {
	g := s.groups[i]
	g.ShapeIDs = append([]int(nil), g.ShapeIDs...)
	g.Fill = clonePaint(g.Fill)
	g.Stroke = clonePaint(g.Stroke)
	return g
}

// diagonal returns the length of the canvas diagonal.
func (s *Scene) diagonal() float64 {
	return math.Hypot(float64(s.width), float64(s.height))
}

// insideFill reports whether the local point p lies in the fill region of
// group g.  Points on the boundary count as inside.
func (s *Scene) insideFill(g *ShapeGroup, p vec.Vec2) bool {
	w := 0
	for _, id := range g.ShapeIDs {
		info := &s.shapeInfo[id]
		if !rectContains(info.bbox, p) {
			continue
		}
		for i := range info.curves {
			dw, on := info.curves[i].winding(p)
			if on {
				return true
			}
			w += dw
		}
	}
	if g.EvenOdd {
		return w%2 != 0
	}
	return w != 0
}

// insideStroke reports whether the local point p lies within half the
// stroke width of the outline of one of the shapes of g.
func (s *Scene) insideStroke(g *ShapeGroup, p vec.Vec2) bool {
	for _, id := range g.ShapeIDs {
		half := s.shapes[id].StrokeWidth / 2
		if half <= 0 {
			continue
		}
		info := &s.shapeInfo[id]
		if !rectContains(growRect(info.bbox, half), p) {
			continue
		}
		for i := range info.curves {
			c := &info.curves[i]
			if c.implicit {
				continue
			}
			if _, d := c.closest(p); d <= half {
				return true
			}
		}
	}
	return false
}

// insideShape reports whether the local point p lies inside shape id on
// its own, using the nonzero rule.
func (s *Scene) insideShape(id int, p vec.Vec2) bool {
	info := &s.shapeInfo[id]
	if !rectContains(info.bbox, p) {
		return false
	}
	w := 0
	for i := range info.curves {
		dw, on := info.curves[i].winding(p)
		if on {
			return true
		}
		w += dw
	}
	return w != 0
}
