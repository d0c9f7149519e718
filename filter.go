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
)

// FilterType selects the reconstruction filter kernel.
type FilterType int

// These are the supported filter kernels.
const (
	FilterBox FilterType = iota
	FilterTent
	FilterParabolic
	FilterHann
)

func (t FilterType) String() string {
	switch t {
	case FilterBox:
		return "box"
	case FilterTent:
		return "tent"
	case FilterParabolic:
		return "parabolic"
	case FilterHann:
		return "hann"
	}
	return fmt.Sprintf("FilterType(%d)", int(t))
}

// ParseFilterType converts a filter name, as returned by the String
// method, back into a FilterType.
func ParseFilterType(name string) (FilterType, error) {
	for t := FilterBox; t <= FilterHann; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("filter %q: %w", name, ErrUnsupportedConfiguration)
}

// Filter is the reconstruction filter used to turn samples into pixel
// values.  Samples are taken from the square of half-width Radius around
// the pixel centre.  A radius of 0 samples the pixel centre only.
type Filter struct {
	Type   FilterType
	Radius float64
}

func (f Filter) validate() error {
	if f.Type < FilterBox || f.Type > FilterHann {
		return fmt.Errorf("filter type %d: %w", int(f.Type), ErrUnsupportedConfiguration)
	}
	if !isFinite(f.Radius) || f.Radius < 0 {
		return fmt.Errorf("filter radius %g: %w", f.Radius, ErrUnsupportedConfiguration)
	}
	return nil
}

// Weight returns the (unnormalised) filter weight for a sample at offset
// (dx, dy) from the pixel centre.
func (f Filter) Weight(dx, dy float64) float64 {
	r := f.Radius
	if r == 0 {
		if dx == 0 && dy == 0 {
			return 1
		}
		return 0
	}
	ax, ay := math.Abs(dx), math.Abs(dy)
	if ax > r || ay > r {
		return 0
	}
	switch f.Type {
	case FilterBox:
		return 1
	case FilterTent:
		return (1 - ax/r) * (1 - ay/r)
	case FilterParabolic:
		return max(0, 1-(dx*dx+dy*dy)/(r*r))
	case FilterHann:
		return 0.25 * (1 + math.Cos(math.Pi*ax/r)) * (1 + math.Cos(math.Pi*ay/r))
	}
	return 0
}

// integral returns the integral of the filter weight over the plane.
func (f Filter) integral() float64 {
	r := f.Radius
	switch f.Type {
	case FilterBox:
		return 4 * r * r
	case FilterParabolic:
		return math.Pi * r * r / 2
	default:
		// tent and Hann: separable, each factor integrates to r
		return r * r
	}
}
