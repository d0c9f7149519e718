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

package diffvg_test

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/diffvg"
	"seehuhn.de/go/diffvg/testcases"
)

// BenchmarkRasterizerRing measures the exact-area rasterizer on a ring
// filled with the even-odd rule.
func BenchmarkRasterizerRing(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			clip := rect.Rect{URx: float64(size), URy: float64(size)}
			r := diffvg.NewRasterizer(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))

			c := vec.Vec2{X: float64(size) / 2, Y: float64(size) / 2}
			ring := diffvg.OutlinePath(diffvg.Circle{Center: c, Radius: float64(size) * 0.45})
			inner := diffvg.OutlinePath(diffvg.Circle{Center: c, Radius: float64(size) * 0.30})
			ring.Cmds = append(ring.Cmds, inner.Cmds...)
			ring.Coords = append(ring.Coords, inner.Coords...)

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(clip)
				r.FillEvenOdd(ring, func(y, xMin int, coverage []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, v := range coverage {
						row[i] = uint8(v * 255)
					}
				})
			}
		})
	}
}

// BenchmarkVectorRing draws the same ring with x/image/vector, for
// comparison.
func BenchmarkVectorRing(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			r := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{255})

			ring := ringPath(float64(size)/2, float64(size)*0.45, float64(size)*0.30)

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(size, size)
				addToVector(r, ring)
				r.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// ringPath returns an outer circle and a reversed inner circle, so that the
// ring is also correct under the nonzero rule.
func ringPath(center, outer, inner float64) *path.Data {
	c := vec.Vec2{X: center, Y: center}
	p := diffvg.OutlinePath(diffvg.Circle{Center: c, Radius: outer})
	q := diffvg.OutlinePath(diffvg.Circle{Center: c, Radius: inner})
	// mirror the inner circle at the horizontal axis through c
	p.Cmds = append(p.Cmds, q.Cmds...)
	for _, v := range q.Coords {
		p.Coords = append(p.Coords, vec.Vec2{X: v.X, Y: 2*center - v.Y})
	}
	return p
}

// addToVector replays path data into a vector.Rasterizer.
func addToVector(r *vector.Rasterizer, p *path.Data) {
	k := 0
	pt := func() (float32, float32) {
		v := p.Coords[k]
		k++
		return float32(v.X), float32(v.Y)
	}
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			r.MoveTo(pt())
		case path.CmdLineTo:
			r.LineTo(pt())
		case path.CmdQuadTo:
			x1, y1 := pt()
			x2, y2 := pt()
			r.QuadTo(x1, y1, x2, y2)
		case path.CmdCubeTo:
			x1, y1 := pt()
			x2, y2 := pt()
			x3, y3 := pt()
			r.CubeTo(x1, y1, x2, y2, x3, y3)
		case path.CmdClose:
			r.ClosePath()
		}
	}
}

// BenchmarkRender measures the forward pass of both render modes on the
// complex test cases.
func BenchmarkRender(b *testing.B) {
	for _, tc := range testcases.All["complex"] {
		scene, err := tc.Scene()
		if err != nil {
			b.Fatal(err)
		}
		out := make([]float32, 4*tc.Width*tc.Height)
		for _, spp := range []int{1, 2, 4} {
			b.Run(fmt.Sprintf("%s/spp=%d", tc.Name, spp*spp), func(b *testing.B) {
				cfg := diffvg.Config{
					Width: tc.Width, Height: tc.Height,
					SamplesX: spp, SamplesY: spp,
					Seed: 1,
				}
				for b.Loop() {
					if err := diffvg.Render(scene, diffvg.Buffers{Output: out}, cfg, nil); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
		if tc.Filter != nil {
			continue
		}
		b.Run(tc.Name+"/prefilter", func(b *testing.B) {
			cfg := diffvg.Config{
				Width: tc.Width, Height: tc.Height,
				SamplesX: 1, SamplesY: 1,
				Prefilter: true,
			}
			for b.Loop() {
				if err := diffvg.Render(scene, diffvg.Buffers{Output: out}, cfg, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkBackward measures a forward and backward pass with gradients
// for all parameters.
func BenchmarkBackward(b *testing.B) {
	const size = 64
	s := circleScene(b, size, size, vec.Vec2{X: 30, Y: 33}, 17, red)
	out := make([]float32, 4*size*size)
	dOut := make([]float32, 4*size*size)
	for i := range dOut {
		dOut[i] = 1
	}
	grad := diffvg.NewGradient(s)
	cfg := diffvg.Config{Width: size, Height: size, SamplesX: 2, SamplesY: 2, Seed: 1}

	b.ReportAllocs()
	for b.Loop() {
		buf := diffvg.Buffers{Output: out, DOutput: dOut}
		if err := diffvg.Render(s, buf, cfg, grad); err != nil {
			b.Fatal(err)
		}
	}
}
