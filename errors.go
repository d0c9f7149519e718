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

import "errors"

// Errors reported by scene construction and rendering. The returned errors
// wrap one of these values with context; use [errors.Is] to test for them.
// All of them are detected before any output buffer is written.
var (
	// ErrInvalidGeometry reports degenerate or non-finite shape, paint or
	// transform parameters.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrDimensionMismatch reports a canvas size which is not positive, or
	// a buffer whose length does not match the canvas.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrIndexOutOfRange reports a shape group which refers to a
	// nonexistent shape.
	ErrIndexOutOfRange = errors.New("shape index out of range")

	// ErrUnsupportedConfiguration reports a filter or sampling setup which
	// the renderer does not implement.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
)
