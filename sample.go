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
	"math/rand/v2"

	"seehuhn.de/go/geom/vec"
)

// boundarySalt separates the random streams of the boundary samples from
// the streams of the pixel samples.
const boundarySalt = 0x9e3779b97f4a7c15

// jitter returns two uniform random numbers in [0, 1).  The values only
// depend on the arguments, so that every sample can be regenerated
// independently of the order in which samples are processed.
func jitter(seed, stream, index uint64) (float64, float64) {
	var g rand.PCG
	g.Seed(seed, stream<<32|index&0xffffffff)
	return unitFloat(g.Uint64()), unitFloat(g.Uint64())
}

func unitFloat(u uint64) float64 {
	return float64(u>>11) * 0x1p-53
}

// pixelSample is a sample position together with its normalised filter
// weight.
type pixelSample struct {
	p vec.Vec2
	w float64
}

// pixelSamples returns the samples of pixel (x, y).  The samples are
// stratified over the filter support: the square of half-width radius
// around the pixel centre is divided into SamplesX×SamplesY cells, and
// each cell gets one uniformly jittered sample.  Weights are normalised to
// sum to one.  If no sample has positive weight, the pixel centre is used.
func (r *renderer) pixelSamples(x, y int, dst []pixelSample) []pixelSample {
	dst = dst[:0]
	f := r.scene.filter
	center := vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
	if f.Radius == 0 {
		return append(dst, pixelSample{p: center, w: 1})
	}

	pixel := uint64(y*r.cfg.Width + x)
	nx, ny := r.cfg.SamplesX, r.cfg.SamplesY
	var total float64
	for j := range nx * ny {
		u, v := jitter(r.seed, pixel, uint64(j))
		sx := (float64(j%nx) + u) / float64(nx)
		sy := (float64(j/nx) + v) / float64(ny)
		off := vec.Vec2{X: (2*sx - 1) * f.Radius, Y: (2*sy - 1) * f.Radius}
		w := f.Weight(off.X, off.Y)
		if w <= 0 {
			continue
		}
		dst = append(dst, pixelSample{p: center.Add(off), w: w})
		total += w
	}
	if total == 0 {
		return append(dst, pixelSample{p: center, w: 1})
	}
	for i := range dst {
		dst[i].w /= total
	}
	return dst
}
