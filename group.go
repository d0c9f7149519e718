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

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// ShapeGroup binds a set of shapes to a fill paint, a stroke paint and a
// transformation.  The fill covers the union of all shapes, combined by
// the nonzero or even-odd winding rule.  The stroke is applied to every
// shape with its own stroke width.
type ShapeGroup struct {
	// ShapeIDs are indices into the shape list of the scene.
	ShapeIDs []int

	// Fill and Stroke are the paints used for the interior and the
	// outline.  A nil paint disables the corresponding operation.
	Fill   Paint
	Stroke Paint

	// EvenOdd selects the even-odd rule instead of the nonzero rule.
	EvenOdd bool

	// Transform maps group-local coordinates to canvas coordinates.
	Transform matrix.Matrix
}

// NewShapeGroup constructs a shape group from an explicit 3×3 transform
// matrix, given in row-major order and acting on column vectors (x, y, 1).
// The last row must be (0, 0, 1) and the matrix must be invertible.
func NewShapeGroup(ids []int, fill, stroke Paint, evenOdd bool, rows [9]float64) (ShapeGroup, error) {
	m, err := TransformFromRows(rows)
	if err != nil {
		return ShapeGroup{}, err
	}
	g := ShapeGroup{
		ShapeIDs:  append([]int(nil), ids...),
		Fill:      clonePaint(fill),
		Stroke:    clonePaint(stroke),
		EvenOdd:   evenOdd,
		Transform: m,
	}
	if err := g.validate(); err != nil {
		return ShapeGroup{}, err
	}
	return g, nil
}

func (g *ShapeGroup) validate() error {
	if len(g.ShapeIDs) == 0 {
		return fmt.Errorf("shape group without shapes: %w", ErrInvalidGeometry)
	}
	if err := validatePaint(g.Fill); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	if err := validatePaint(g.Stroke); err != nil {
		return fmt.Errorf("stroke: %w", err)
	}
	for _, x := range g.Transform {
		if !isFinite(x) {
			return fmt.Errorf("non-finite transform: %w", ErrInvalidGeometry)
		}
	}
	if det := g.Transform[0]*g.Transform[3] - g.Transform[1]*g.Transform[2]; det == 0 || !isFinite(1/det) {
		return fmt.Errorf("singular transform: %w", ErrInvalidGeometry)
	}
	return nil
}

// TransformFromRows converts a row-major 3×3 affine matrix into a
// [matrix.Matrix].
func TransformFromRows(rows [9]float64) (matrix.Matrix, error) {
	if rows[6] != 0 || rows[7] != 0 || rows[8] != 1 {
		return matrix.Matrix{}, fmt.Errorf("transform last row (%g %g %g) is not (0 0 1): %w",
			rows[6], rows[7], rows[8], ErrInvalidGeometry)
	}
	return matrix.Matrix{rows[0], rows[3], rows[1], rows[4], rows[2], rows[5]}, nil
}

// TransformRows returns the row-major 3×3 form of m.  This is the layout
// of [GroupGradient.Transform].
func TransformRows(m matrix.Matrix) [9]float64 {
	return [9]float64{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
		0, 0, 1,
	}
}

// invert returns the inverse of an affine transformation.  The matrix
// must be non-singular.
func invert(m matrix.Matrix) matrix.Matrix {
	det := m[0]*m[3] - m[1]*m[2]
	return matrix.Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}
}

// apply maps the point p through m.
func apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// applyLinear maps the vector v through the linear part of m.
func applyLinear(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
	}
}
