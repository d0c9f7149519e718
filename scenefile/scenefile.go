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

// Package scenefile reads and writes scene descriptions in TOML format.
//
// A scene file describes the canvas, the reconstruction filter, the shapes
// and the shape groups of a scene, together with the sampling parameters
// used to render it:
//
//	width = 64
//	height = 64
//
//	[filter]
//	type = "box"
//	radius = 0.5
//
//	[render]
//	samples_x = 2
//	samples_y = 2
//
//	[[shapes]]
//	type = "circle"
//	center = [32.0, 32.0]
//	radius = [20.0]
//
//	[[groups]]
//	shapes = [0]
//	fill = { type = "constant", color = [1.0, 0.0, 0.0, 1.0] }
package scenefile

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// File is the top-level structure of a scene file.
type File struct {
	Width      int       `toml:"width"`
	Height     int       `toml:"height"`
	Background []float64 `toml:"background,omitempty"` // uniform RGBA background
	Filter     Filter    `toml:"filter"`
	Render     Render    `toml:"render"`
	Shapes     []Shape   `toml:"shapes"`
	Groups     []Group   `toml:"groups"`
}

// Filter describes the reconstruction filter.
type Filter struct {
	Type   string  `toml:"type"`
	Radius float64 `toml:"radius"`
}

// Render holds the sampling parameters.
type Render struct {
	SamplesX  int    `toml:"samples_x"`
	SamplesY  int    `toml:"samples_y"`
	Seed      uint64 `toml:"seed"`
	Prefilter bool   `toml:"prefilter,omitempty"`
}

// Shape describes one geometric primitive.  Which of the fields are used
// depends on Type:
//
//   - "circle": Center and Radius (one value)
//   - "ellipse": Center and Radius (two values)
//   - "rect": Min and Max
//   - "polygon": Points and Open
//   - "path": Path
type Shape struct {
	Type        string      `toml:"type"`
	Center      []float64   `toml:"center,omitempty"`
	Radius      []float64   `toml:"radius,omitempty"`
	Min         []float64   `toml:"min,omitempty"`
	Max         []float64   `toml:"max,omitempty"`
	Points      [][]float64 `toml:"points,omitempty"`
	Open        bool        `toml:"open,omitempty"`
	Path        []Segment   `toml:"path,omitempty"`
	StrokeWidth float64     `toml:"stroke_width,omitempty"`
}

// Segment is one path command.  Cmd is one of "M", "L", "Q", "C" and "Z".
type Segment struct {
	Cmd string      `toml:"cmd"`
	Pts [][]float64 `toml:"pts,omitempty"`
}

// Group describes a shape group.  Transform holds the 3×3 transformation
// matrix in row-major order; if it is empty, the identity is used.
type Group struct {
	Shapes    []int     `toml:"shapes"`
	EvenOdd   bool      `toml:"even_odd,omitempty"`
	Transform []float64 `toml:"transform,omitempty"`
	Fill      *Paint    `toml:"fill,omitempty"`
	Stroke    *Paint    `toml:"stroke,omitempty"`
}

// Paint describes a constant color or a gradient.  Type is one of
// "constant", "linear" and "radial".
type Paint struct {
	Type   string    `toml:"type"`
	Color  []float64 `toml:"color,omitempty"`
	Start  []float64 `toml:"start,omitempty"`
	End    []float64 `toml:"end,omitempty"`
	Center []float64 `toml:"center,omitempty"`
	Radius []float64 `toml:"radius,omitempty"`
	Stops  []Stop    `toml:"stops,omitempty"`
}

// Stop is a gradient color stop.
type Stop struct {
	Offset float64   `toml:"offset"`
	Color  []float64 `toml:"color"`
}

// Load reads a scene file from disk.
func Load(path string) (*File, error) {
	f := &File{}
	md, err := toml.DecodeFile(path, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode reads a scene file from r.
func Decode(r io.Reader) (*File, error) {
	f := &File{}
	md, err := toml.NewDecoder(r).Decode(f)
	if err != nil {
		return nil, err
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	return f, nil
}

// Encode writes the scene file to w.
func (f *File) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(f)
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("unknown keys: %s", strings.Join(names, ", "))
}
