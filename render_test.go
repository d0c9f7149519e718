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
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"maps"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/diffvg"
	"seehuhn.de/go/diffvg/testcases"
)

var red = diffvg.Constant{Color: diffvg.Color{R: 1, A: 1}}

var boxFilter = diffvg.Filter{Type: diffvg.FilterBox, Radius: 0.5}

// circleScene returns a w×h scene with one circle, filled with the given
// paint.
func circleScene(t testing.TB, w, h int, c vec.Vec2, radius float64, fill diffvg.Paint) *diffvg.Scene {
	t.Helper()
	shapes := []diffvg.Shape{{Geometry: diffvg.Circle{Center: c, Radius: radius}}}
	groups := []diffvg.ShapeGroup{{ShapeIDs: []int{0}, Fill: fill, Transform: matrix.Identity}}
	s, err := diffvg.NewScene(w, h, shapes, groups, boxFilter, diffvg.SceneOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func render(t testing.TB, s *diffvg.Scene, spp int, seed uint64) []float32 {
	t.Helper()
	out := make([]float32, 4*s.Width()*s.Height())
	cfg := diffvg.Config{
		Width:    s.Width(),
		Height:   s.Height(),
		SamplesX: spp,
		SamplesY: spp,
		Seed:     seed,
	}
	if err := diffvg.Render(s, diffvg.Buffers{Output: out}, cfg, nil); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestAgainstReference(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			if !tc.IsCoverage() {
				continue
			}
			name := category + "_" + tc.Name
			t.Run(name, func(t *testing.T) {
				refPath := filepath.Join("testdata", "reference", name+".png")
				ref, err := loadGray(refPath)
				if errors.Is(err, os.ErrNotExist) {
					t.Skip("no reference image, run go generate")
				} else if err != nil {
					t.Fatalf("loading reference: %v", err)
				}

				scene, err := tc.Scene()
				if err != nil {
					t.Fatal(err)
				}
				w, h := tc.Width, tc.Height
				out := make([]float32, 4*w*h)
				cfg := diffvg.Config{Width: w, Height: h, SamplesX: 1, SamplesY: 1, Prefilter: true}
				if err := diffvg.Render(scene, diffvg.Buffers{Output: out}, cfg, nil); err != nil {
					t.Fatal(err)
				}

				// coverage is the alpha channel
				actual := make([]byte, w*h)
				for i := range actual {
					actual[i] = byte(max(0, min(255, int(out[4*i+3]*256))))
				}

				if err := compareImages(name, ref, actual, w, h); err != nil {
					t.Error(err)
				}
			})
		}
	}
}

// TestAllCasesRender checks that every test case gives a valid scene and
// finite output in both render modes.
func TestAllCasesRender(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			t.Run(category+"_"+tc.Name, func(t *testing.T) {
				scene, err := tc.Scene()
				if err != nil {
					t.Fatal(err)
				}
				out := render(t, scene, 1, 1)
				for i, v := range out {
					if math.IsNaN(float64(v)) || v < 0 || v > 1+1e-6 {
						t.Fatalf("output[%d] = %g", i, v)
					}
				}
				if tc.Filter != nil {
					return
				}
				cfg := diffvg.Config{Width: tc.Width, Height: tc.Height, SamplesX: 1, SamplesY: 1, Prefilter: true}
				if err := diffvg.Render(scene, diffvg.Buffers{Output: out}, cfg, nil); err != nil {
					t.Fatal(err)
				}
				for i, v := range out {
					if math.IsNaN(float64(v)) || v < 0 || v > 1+1e-6 {
						t.Fatalf("prefiltered output[%d] = %g", i, v)
					}
				}
			})
		}
	}
}

func loadGray(path string) (gray []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	gray = make([]byte, w*h)

	for y := range h {
		for x := range w {
			c := color.GrayModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray)
			gray[y*w+x] = c.Y
		}
	}
	return gray, nil
}

func compareImages(name string, expected, actual []byte, w, h int) error {
	total := w * h

	diffs := make([]int, total)
	for i := range total {
		e, a := int(expected[i]), int(actual[i])
		diff := e - a
		if diff < 0 {
			diff = -diff
		}
		diffs[i] = diff
	}
	sort.Ints(diffs)

	p80 := diffs[int(math.Round(0.80*float64(total-1)))]
	p95 := diffs[int(math.Round(0.95*float64(total-1)))]
	p99 := diffs[int(math.Round(0.99*float64(total-1)))]

	// Check criteria:
	// - at least 80% of pixels are identical (p80 == 0)
	// - at least 95% of differences are < 64 (p95 < 64)
	// - at least 99% of differences are < 128 (p99 < 128)
	var failures []string
	if p80 > 0 {
		failures = append(failures, fmt.Sprintf("80th percentile diff is %d (want 0)", p80))
	}
	if p95 >= 64 {
		failures = append(failures, fmt.Sprintf("95th percentile diff is %d (want <64)", p95))
	}
	if p99 >= 128 {
		failures = append(failures, fmt.Sprintf("99th percentile diff is %d (want <128)", p99))
	}

	if len(failures) > 0 {
		_ = writeDiffImage(name, expected, actual, w, h)
		return fmt.Errorf("%s", strings.Join(failures, "; "))
	}
	return nil
}

func writeDiffImage(name string, expected, actual []byte, w, h int) (err error) {
	if err := os.MkdirAll("debug", 0755); err != nil {
		return err
	}

	// actual (left), diff (middle), reference (right)
	img := image.NewRGBA(image.Rect(0, 0, w*3, h))
	for y := range h {
		for x := range w {
			i := y*w + x

			a := actual[i]
			img.Set(x, y, color.RGBA{R: a, G: a, B: a, A: 255})

			// green=under, red=over, black=match
			diff := int(expected[i]) - int(actual[i])
			diffColor := color.RGBA{A: 255}
			if diff > 0 {
				diffColor.G = uint8(diff)
			} else if diff < 0 {
				diffColor.R = uint8(-diff)
			}
			img.Set(x+w, y, diffColor)

			e := expected[i]
			img.Set(x+w*2, y, color.RGBA{R: e, G: e, B: e, A: 255})
		}
	}

	f, err := os.Create(filepath.Join("debug", name+".png"))
	if err != nil {
		return err
	}
	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func TestFullCover(t *testing.T) {
	col := diffvg.Color{R: 0.2, G: 0.4, B: 0.6, A: 1}
	shapes := []diffvg.Shape{{Geometry: diffvg.Rect{Min: vec.Vec2{X: -10, Y: -10}, Max: vec.Vec2{X: 42, Y: 42}}}}
	groups := []diffvg.ShapeGroup{{ShapeIDs: []int{0}, Fill: diffvg.Constant{Color: col}, Transform: matrix.Identity}}
	s, err := diffvg.NewScene(32, 32, shapes, groups, boxFilter, diffvg.SceneOptions{})
	if err != nil {
		t.Fatal(err)
	}

	for _, prefilter := range []bool{false, true} {
		out := make([]float32, 4*32*32)
		cfg := diffvg.Config{Width: 32, Height: 32, SamplesX: 3, SamplesY: 2, Seed: 5, Prefilter: prefilter}
		if err := diffvg.Render(s, diffvg.Buffers{Output: out}, cfg, nil); err != nil {
			t.Fatal(err)
		}
		want := []float64{col.R, col.G, col.B, col.A}
		for i, v := range out {
			if math.Abs(float64(v)-want[i%4]) > 1e-6 {
				t.Fatalf("prefilter=%t: output[%d] = %g, want %g", prefilter, i, v, want[i%4])
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	s := circleScene(t, 32, 32, vec.Vec2{X: 15.3, Y: 16.7}, 9.2, red)

	a := render(t, s, 2, 7)
	b := render(t, s, 2, 7)
	if !slices.Equal(a, b) {
		t.Error("same seed gives different output")
	}

	c := render(t, s, 2, 8)
	if slices.Equal(a, c) {
		t.Error("different seeds give identical output")
	}
}

func TestSceneSeedOverride(t *testing.T) {
	seed := uint64(3)
	shapes := []diffvg.Shape{{Geometry: diffvg.Circle{Center: vec.Vec2{X: 8, Y: 8}, Radius: 5.1}}}
	groups := []diffvg.ShapeGroup{{ShapeIDs: []int{0}, Fill: red, Transform: matrix.Identity}}
	s, err := diffvg.NewScene(16, 16, shapes, groups, boxFilter, diffvg.SceneOptions{Seed: &seed})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(render(t, s, 1, 1), render(t, s, 1, 2)) {
		t.Error("scene seed does not override render seed")
	}
}

func TestVarianceDecreases(t *testing.T) {
	// the circle edge crosses pixel (12, 8) at x ≈ 12.3
	s := circleScene(t, 16, 16, vec.Vec2{X: 8, Y: 8.5}, 4.3, red)
	const x, y = 12, 8
	const runs = 100

	prev := math.Inf(1)
	for _, spp := range []int{1, 2, 4} {
		var sum, sumSq float64
		for seed := range uint64(runs) {
			v := float64(render(t, s, spp, seed)[4*(y*16+x)+3])
			sum += v
			sumSq += v * v
		}
		mean := sum / runs
		variance := sumSq/runs - mean*mean
		if variance >= prev {
			t.Errorf("%d×%d samples: variance %g, not below %g", spp, spp, variance, prev)
		}
		prev = variance
	}
}

func TestEmptyScene(t *testing.T) {
	s, err := diffvg.NewScene(8, 4, nil, nil, boxFilter, diffvg.SceneOptions{})
	if err != nil {
		t.Fatal(err)
	}

	out := render(t, s, 2, 0)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("output[%d] = %g, want 0", i, v)
		}
	}

	bg := make([]float32, 4*8*4)
	for i := range bg {
		bg[i] = float32(i%7) / 7
	}
	cfg := diffvg.Config{Width: 8, Height: 4, SamplesX: 2, SamplesY: 2}
	if err := diffvg.Render(s, diffvg.Buffers{Background: bg, Output: out}, cfg, nil); err != nil {
		t.Fatal(err)
	}
	for i := range out {
		if math.Abs(float64(out[i]-bg[i])) > 1e-6 {
			t.Fatalf("output[%d] = %g, want %g", i, out[i], bg[i])
		}
	}
}

func TestRedCircle(t *testing.T) {
	s := circleScene(t, 64, 64, vec.Vec2{X: 32, Y: 32}, 10, red)
	out := render(t, s, 1, 0)

	pixel := func(x, y int) []float32 { return out[4*(y*64+x) : 4*(y*64+x)+4] }
	if got := pixel(32, 32); !slices.Equal(got, []float32{1, 0, 0, 1}) {
		t.Errorf("pixel (32,32) = %v, want [1 0 0 1]", got)
	}
	if got := pixel(0, 0); !slices.Equal(got, []float32{0, 0, 0, 0}) {
		t.Errorf("pixel (0,0) = %v, want [0 0 0 0]", got)
	}
}

func TestBackgroundComposite(t *testing.T) {
	half := diffvg.Constant{Color: diffvg.Color{R: 1, A: 0.5}}
	shapes := []diffvg.Shape{{Geometry: diffvg.Rect{Min: vec.Vec2{X: -1, Y: -1}, Max: vec.Vec2{X: 5, Y: 5}}}}
	groups := []diffvg.ShapeGroup{{ShapeIDs: []int{0}, Fill: half, Transform: matrix.Identity}}
	s, err := diffvg.NewScene(4, 4, shapes, groups, boxFilter, diffvg.SceneOptions{})
	if err != nil {
		t.Fatal(err)
	}

	bg := make([]float32, 4*16)
	for i := range 16 {
		bg[4*i+2] = 1
		bg[4*i+3] = 1
	}
	out := make([]float32, 4*16)
	cfg := diffvg.Config{Width: 4, Height: 4, SamplesX: 1, SamplesY: 1}
	if err := diffvg.Render(s, diffvg.Buffers{Background: bg, Output: out}, cfg, nil); err != nil {
		t.Fatal(err)
	}
	want := []float32{0.5, 0, 0.5, 1}
	for i, v := range out {
		if math.Abs(float64(v-want[i%4])) > 1e-6 {
			t.Fatalf("output[%d] = %g, want %g", i, v, want[i%4])
		}
	}
}

func TestIndexOutOfRange(t *testing.T) {
	shapes := []diffvg.Shape{{Geometry: diffvg.Circle{Center: vec.Vec2{X: 32, Y: 32}, Radius: 10}}}
	groups := []diffvg.ShapeGroup{{ShapeIDs: []int{5}, Fill: red, Transform: matrix.Identity}}
	s, err := diffvg.NewScene(64, 64, shapes, groups, boxFilter, diffvg.SceneOptions{})
	if !errors.Is(err, diffvg.ErrIndexOutOfRange) {
		t.Errorf("got error %v, want ErrIndexOutOfRange", err)
	}
	if s != nil {
		t.Error("scene returned despite error")
	}
}

func TestRenderErrors(t *testing.T) {
	s := circleScene(t, 8, 8, vec.Vec2{X: 4, Y: 4}, 2, red)
	grad := diffvg.NewGradient(s)
	ok := diffvg.Config{Width: 8, Height: 8, SamplesX: 1, SamplesY: 1}

	tent, err := diffvg.NewScene(8, 8, nil, nil, diffvg.Filter{Type: diffvg.FilterTent, Radius: 1}, diffvg.SceneOptions{})
	if err != nil {
		t.Fatal(err)
	}
	gpu, err := diffvg.NewScene(8, 8, nil, nil, boxFilter, diffvg.SceneOptions{UseGPU: true})
	if err != nil {
		t.Fatal(err)
	}

	with := func(f func(*diffvg.Config)) diffvg.Config {
		cfg := ok
		f(&cfg)
		return cfg
	}

	cases := []struct {
		name  string
		scene *diffvg.Scene
		cfg   diffvg.Config
		buf   func(out []float32) diffvg.Buffers
		grad  *diffvg.Gradient
		want  error
	}{
		{"zero width", s, with(func(c *diffvg.Config) { c.Width = 0 }), nil, nil, diffvg.ErrDimensionMismatch},
		{"size mismatch", s, with(func(c *diffvg.Config) { c.Height = 9 }), nil, nil, diffvg.ErrDimensionMismatch},
		{"short output", s, ok, func(out []float32) diffvg.Buffers {
			return diffvg.Buffers{Output: out[:10]}
		}, nil, diffvg.ErrDimensionMismatch},
		{"no output", s, ok, func([]float32) diffvg.Buffers {
			return diffvg.Buffers{}
		}, nil, diffvg.ErrDimensionMismatch},
		{"short sdf", s, ok, func(out []float32) diffvg.Buffers {
			return diffvg.Buffers{Output: out, SDF: make([]float32, 63)}
		}, nil, diffvg.ErrDimensionMismatch},
		{"backward without gradient", s, ok, func(out []float32) diffvg.Buffers {
			return diffvg.Buffers{Output: out, DOutput: make([]float32, len(out))}
		}, nil, diffvg.ErrDimensionMismatch},
		{"no samples", s, with(func(c *diffvg.Config) { c.SamplesY = 0 }), nil, nil, diffvg.ErrUnsupportedConfiguration},
		{"prefilter with tent", tent, with(func(c *diffvg.Config) { c.Prefilter = true }), nil, nil, diffvg.ErrUnsupportedConfiguration},
		{"prefilter with gradient", s, with(func(c *diffvg.Config) { c.Prefilter = true }), func(out []float32) diffvg.Buffers {
			return diffvg.Buffers{Output: out, DOutput: make([]float32, len(out))}
		}, grad, diffvg.ErrUnsupportedConfiguration},
		{"gpu", gpu, ok, nil, nil, diffvg.ErrUnsupportedConfiguration},
		{"translation in eval mode", s, with(func(c *diffvg.Config) {
			c.EvalPositions = []vec.Vec2{{X: 1, Y: 1}}
		}), func(out []float32) diffvg.Buffers {
			return diffvg.Buffers{Output: out[:4], DTranslation: make([]float32, 2*64)}
		}, nil, diffvg.ErrUnsupportedConfiguration},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := make([]float32, 4*64)
			for i := range out {
				out[i] = -1
			}
			b := diffvg.Buffers{Output: out}
			if c.buf != nil {
				b = c.buf(out)
			}
			err := diffvg.Render(c.scene, b, c.cfg, c.grad)
			if !errors.Is(err, c.want) {
				t.Fatalf("got error %v, want %v", err, c.want)
			}
			for i, v := range out {
				if v != -1 {
					t.Fatalf("output[%d] was written", i)
				}
			}
		})
	}
}

// TestPrefilterMatchesSampling compares the analytic coverage of the
// prefiltered mode with densely sampled renders, for every test case which
// uses the default box filter.  For coverage scenes the comparison is done
// pixel by pixel.
func TestPrefilterMatchesSampling(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			if tc.Filter != nil {
				continue
			}
			t.Run(category+"_"+tc.Name, func(t *testing.T) {
				s, err := tc.Scene()
				if err != nil {
					t.Fatal(err)
				}
				sampled := render(t, s, 8, 1)

				exact := make([]float32, len(sampled))
				cfg := diffvg.Config{Width: tc.Width, Height: tc.Height, SamplesX: 1, SamplesY: 1, Prefilter: true}
				if err := diffvg.Render(s, diffvg.Buffers{Output: exact}, cfg, nil); err != nil {
					t.Fatal(err)
				}

				perPixel := tc.IsCoverage()
				var areaSampled, areaExact float64
				bad := 0
				for i := 3; i < len(exact); i += 4 {
					areaSampled += float64(sampled[i])
					areaExact += float64(exact[i])
					if !perPixel {
						continue
					}
					if d := math.Abs(float64(sampled[i] - exact[i])); d > 0.15 {
						if bad++; bad <= 5 {
							t.Errorf("pixel (%d,%d): sampled %g, exact %g",
								(i/4)%tc.Width, (i/4)/tc.Width, sampled[i], exact[i])
						}
					}
				}
				if bad > 5 {
					t.Errorf("%d pixels differ", bad)
				}

				tol := 0.01*areaSampled + 0.5
				if !perPixel {
					tol = 0.02*areaSampled + 1
				}
				if math.Abs(areaSampled-areaExact) > tol {
					t.Errorf("covered area: sampled %g, exact %g", areaSampled, areaExact)
				}
			})
		}
	}
}

// TestPrefilterStrokeArea renders an open cubic stroke and compares the
// covered area with the area of a tube around the curve, which is exact as
// long as the curvature radius exceeds half the stroke width.
func TestPrefilterStrokeArea(t *testing.T) {
	const width = 2.3
	p0 := vec.Vec2{X: 5.2, Y: 6.3}
	p1 := vec.Vec2{X: 15.1, Y: 0.7}
	p2 := vec.Vec2{X: 30.3, Y: 10.2}
	p3 := vec.Vec2{X: 25.6, Y: 20.4}
	geom := diffvg.Path{Data: (&path.Data{}).MoveTo(p0).CubeTo(p1, p2, p3)}

	// arc length by dense chords
	const n = 20000
	var length float64
	prev := p0
	for i := 1; i <= n; i++ {
		u := float64(i) / n
		v := 1 - u
		pt := p0.Mul(v * v * v).
			Add(p1.Mul(3 * v * v * u)).
			Add(p2.Mul(3 * v * u * u)).
			Add(p3.Mul(u * u * u))
		length += pt.Sub(prev).Length()
		prev = pt
	}
	want := length*width + math.Pi*width*width/4

	shapes := []diffvg.Shape{{Geometry: geom, StrokeWidth: width}}
	groups := []diffvg.ShapeGroup{{ShapeIDs: []int{0}, Stroke: testcases.White, Transform: matrix.Identity}}
	s, err := diffvg.NewScene(32, 32, shapes, groups, boxFilter, diffvg.SceneOptions{})
	if err != nil {
		t.Fatal(err)
	}

	exact := make([]float32, 4*32*32)
	cfg := diffvg.Config{Width: 32, Height: 32, SamplesX: 1, SamplesY: 1, Prefilter: true}
	if err := diffvg.Render(s, diffvg.Buffers{Output: exact}, cfg, nil); err != nil {
		t.Fatal(err)
	}
	sampled := render(t, s, 16, 3)

	var areaExact, areaSampled float64
	for i := 3; i < len(exact); i += 4 {
		areaExact += float64(exact[i])
		areaSampled += float64(sampled[i])
	}
	if math.Abs(areaExact-want) > 0.005*want {
		t.Errorf("prefiltered area %g, want %g", areaExact, want)
	}
	if math.Abs(areaSampled-want) > 0.01*want {
		t.Errorf("sampled area %g, want %g", areaSampled, want)
	}
}

func TestThreadIndependence(t *testing.T) {
	tc := testcases.All["complex"][0]
	s, err := tc.Scene()
	if err != nil {
		t.Fatal(err)
	}
	n := tc.Width * tc.Height

	run := func(procs int) ([]float32, *diffvg.Gradient) {
		old := runtime.GOMAXPROCS(procs)
		defer runtime.GOMAXPROCS(old)

		out := make([]float32, 4*n)
		dOut := make([]float32, 4*n)
		for i := range dOut {
			dOut[i] = float32(i%5) - 2
		}
		grad := diffvg.NewGradient(s)
		cfg := diffvg.Config{Width: tc.Width, Height: tc.Height, SamplesX: 2, SamplesY: 2, Seed: 11}
		b := diffvg.Buffers{Output: out, DOutput: dOut}
		if err := diffvg.Render(s, b, cfg, grad); err != nil {
			t.Fatal(err)
		}
		return out, grad
	}

	out1, grad1 := run(1)
	out4, grad4 := run(4)
	if !slices.Equal(out1, out4) {
		t.Error("output depends on GOMAXPROCS")
	}
	for i := range grad1.Shapes {
		if !slices.Equal(grad1.Shapes[i].Params, grad4.Shapes[i].Params) {
			t.Errorf("shape %d: gradient depends on GOMAXPROCS", i)
		}
	}
	for i := range grad1.Groups {
		if grad1.Groups[i].Transform != grad4.Groups[i].Transform ||
			!slices.Equal(grad1.Groups[i].Fill, grad4.Groups[i].Fill) {
			t.Errorf("group %d: gradient depends on GOMAXPROCS", i)
		}
	}
}

func TestEvalPositions(t *testing.T) {
	c := vec.Vec2{X: 10, Y: 10}
	s := circleScene(t, 20, 20, c, 5, red)
	pos := []vec.Vec2{{X: 10, Y: 10}, {X: 13, Y: 11}, {X: 1, Y: 1}, {X: 30, Y: -4}}
	out := make([]float32, 4*len(pos))
	sdf := make([]float32, len(pos))
	cfg := diffvg.Config{Width: 20, Height: 20, SamplesX: 1, SamplesY: 1, EvalPositions: pos}
	if err := diffvg.Render(s, diffvg.Buffers{Output: out, SDF: sdf}, cfg, nil); err != nil {
		t.Fatal(err)
	}

	for i, p := range pos {
		dist := p.Sub(c).Length() - 5
		wantA := float32(0)
		if dist < 0 {
			wantA = 1
		}
		if out[4*i+3] != wantA {
			t.Errorf("position %v: alpha %g, want %g", p, out[4*i+3], wantA)
		}
		if math.Abs(float64(sdf[i])-dist) > 1e-4 {
			t.Errorf("position %v: distance %g, want %g", p, sdf[i], dist)
		}
	}
}
