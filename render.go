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
	"time"

	"seehuhn.de/go/geom/vec"
)

// Buffers holds the caller-owned arrays read and written by [Render].
// All color buffers store RGBA quadruples with straight alpha, row by
// row.  A nil buffer disables the corresponding computation.
//
// In eval mode (see [Config.EvalPositions]) Output, SDF, DOutput and DSDF
// have one entry per position instead of one per pixel.
type Buffers struct {
	// Background is the color below all shapes, Width·Height·4 values.
	// If nil, the background is transparent.
	Background []float32

	// Output receives the rendered image, Width·Height·4 values.
	// It is required.
	Output []float32

	// SDF receives the signed distance to the nearest shape boundary,
	// Width·Height values.
	SDF []float32

	// DBackground receives the derivative of the loss with respect to
	// Background, Width·Height·4 values.
	DBackground []float32

	// DOutput is the derivative of the loss with respect to Output.
	// If present, Render runs the backward pass.
	DOutput []float32

	// DSDF is the derivative of the loss with respect to SDF.  If present,
	// Render runs the backward pass for the distance field.
	DSDF []float32

	// DTranslation receives, for every pixel, the derivative of the loss
	// with respect to a translation of the whole scene, as seen through
	// that pixel.  Width·Height·2 values.
	DTranslation []float32
}

// Config holds the sampling parameters of a render call.
type Config struct {
	// Width and Height must equal the scene dimensions.
	Width, Height int

	// SamplesX and SamplesY give the number of stratified samples per
	// pixel in each direction.  Both must be at least 1.
	SamplesX, SamplesY int

	// Seed selects the random sample positions.  Rendering the same scene
	// with the same seed gives bit-identical results.
	Seed uint64

	// Prefilter selects analytic antialiasing instead of Monte Carlo
	// sampling.  It requires a box filter of radius 0.5 and does not
	// support gradients.
	Prefilter bool

	// EvalPositions, if not empty, selects eval mode: the scene is
	// evaluated once at each of these canvas positions, without filtering.
	EvalPositions []vec.Vec2

	// BoundarySamples is the number of boundary samples used by the
	// backward pass.  Zero selects Width·Height·SamplesX·SamplesY.
	BoundarySamples int
}

func (cfg *Config) samplesPerPixel() int {
	return cfg.SamplesX * cfg.SamplesY
}

// renderer holds the state of a single Render call.
type renderer struct {
	scene *Scene
	buf   Buffers
	cfg   Config
	seed  uint64
}

// Render draws the scene into b.Output, and optionally computes the signed
// distance field and the backward pass.
//
// If b.DOutput or b.DSDF is present, grad must be a gradient allocated by
// [NewGradient] for s.  Render overwrites grad, b.DBackground and
// b.DTranslation with the derivatives of the loss whose derivatives with
// respect to the output are given by b.DOutput and b.DSDF.
//
// All arguments are checked before any buffer is written.  Errors wrap
// [ErrDimensionMismatch] or [ErrUnsupportedConfiguration].
func Render(s *Scene, b Buffers, cfg Config, grad *Gradient) error {
	if err := checkRender(s, &b, &cfg, grad); err != nil {
		return err
	}
	start := time.Now()

	r := &renderer{scene: s, buf: b, cfg: cfg, seed: cfg.Seed}
	if s.opts.Seed != nil {
		r.seed = *s.opts.Seed
	}

	var err error
	var mode string
	switch {
	case len(cfg.EvalPositions) > 0:
		mode = "eval"
		err = r.evalForward()
	case cfg.Prefilter:
		mode = "prefilter"
		err = r.prefiltered()
	default:
		mode = "sampled"
		err = r.sampled()
	}
	if err == nil && b.SDF != nil {
		err = r.distanceField()
	}

	backward := b.DOutput != nil || b.DSDF != nil
	if err == nil {
		if b.DBackground != nil {
			clear(b.DBackground)
		}
		if b.DTranslation != nil {
			clear(b.DTranslation)
		}
		if backward {
			err = r.backward(grad)
		}
	}
	if err != nil {
		return err
	}

	Logger().Debug("render",
		"width", cfg.Width,
		"height", cfg.Height,
		"spp", cfg.samplesPerPixel(),
		"mode", mode,
		"groups", len(s.groups),
		"backward", backward,
		"duration", time.Since(start))
	return nil
}

// checkRender validates the arguments of Render.
func checkRender(s *Scene, b *Buffers, cfg *Config, grad *Gradient) error {
	if s == nil {
		return fmt.Errorf("render: no scene: %w", ErrInvalidGeometry)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("render: canvas size %d×%d: %w", cfg.Width, cfg.Height, ErrDimensionMismatch)
	}
	if cfg.Width != s.width || cfg.Height != s.height {
		return fmt.Errorf("render: canvas size %d×%d for scene of size %d×%d: %w",
			cfg.Width, cfg.Height, s.width, s.height, ErrDimensionMismatch)
	}
	if cfg.SamplesX < 1 || cfg.SamplesY < 1 {
		return fmt.Errorf("render: %d×%d samples per pixel: %w",
			cfg.SamplesX, cfg.SamplesY, ErrUnsupportedConfiguration)
	}
	if cfg.BoundarySamples < 0 {
		return fmt.Errorf("render: %d boundary samples: %w", cfg.BoundarySamples, ErrUnsupportedConfiguration)
	}
	if s.opts.UseGPU {
		return fmt.Errorf("render: GPU backend (device %d): %w", s.opts.DeviceIndex, ErrUnsupportedConfiguration)
	}

	pixels := cfg.Width * cfg.Height
	eval := len(cfg.EvalPositions) > 0
	n := pixels
	if eval {
		n = len(cfg.EvalPositions)
		if !allFinite(cfg.EvalPositions...) {
			return fmt.Errorf("render: non-finite eval position: %w", ErrInvalidGeometry)
		}
	}

	if b.Output == nil {
		return fmt.Errorf("render: no output buffer: %w", ErrDimensionMismatch)
	}
	checks := []struct {
		name string
		buf  []float32
		want int
	}{
		{"background", b.Background, 4 * pixels},
		{"output", b.Output, 4 * n},
		{"sdf", b.SDF, n},
		{"d_background", b.DBackground, 4 * pixels},
		{"d_output", b.DOutput, 4 * n},
		{"d_sdf", b.DSDF, n},
		{"d_translation", b.DTranslation, 2 * pixels},
	}
	for _, c := range checks {
		if c.buf != nil && len(c.buf) != c.want {
			return fmt.Errorf("render: %s buffer has length %d, expected %d: %w",
				c.name, len(c.buf), c.want, ErrDimensionMismatch)
		}
	}

	if eval && b.DTranslation != nil {
		return fmt.Errorf("render: translation derivative in eval mode: %w", ErrUnsupportedConfiguration)
	}
	backward := b.DOutput != nil || b.DSDF != nil
	if cfg.Prefilter {
		f := s.filter
		if f.Type != FilterBox || f.Radius != 0.5 {
			return fmt.Errorf("render: prefiltering with %s filter of radius %g: %w",
				f.Type, f.Radius, ErrUnsupportedConfiguration)
		}
		if backward || b.DBackground != nil || b.DTranslation != nil {
			return fmt.Errorf("render: prefiltering with gradients: %w", ErrUnsupportedConfiguration)
		}
		if eval {
			return fmt.Errorf("render: prefiltering in eval mode: %w", ErrUnsupportedConfiguration)
		}
	}
	if backward {
		if grad == nil {
			return fmt.Errorf("render: backward pass without gradient: %w", ErrDimensionMismatch)
		}
		if !grad.matches(s) {
			return fmt.Errorf("render: gradient does not match scene: %w", ErrDimensionMismatch)
		}
	}
	return nil
}

// background returns the background color of the given pixel.
func (r *renderer) background(pixel int) Color {
	if r.buf.Background == nil {
		return Transparent
	}
	return loadColor(r.buf.Background, pixel)
}

// backgroundAt returns the background color below the canvas point p, and
// the index of the pixel containing p (or -1 outside the canvas).
func (r *renderer) backgroundAt(p vec.Vec2) (Color, int) {
	x, y := int(p.X), int(p.Y)
	if p.X < 0 || p.Y < 0 || x >= r.cfg.Width || y >= r.cfg.Height {
		return Transparent, -1
	}
	pixel := y*r.cfg.Width + x
	return r.background(pixel), pixel
}

// sampled renders the image by Monte Carlo sampling.
func (r *renderer) sampled() error {
	w := r.cfg.Width
	return forBands(r.cfg.Height, r.cfg.Height, func(_, lo, hi int) {
		var samples []pixelSample
		for y := lo; y < hi; y++ {
			for x := range w {
				pixel := y*w + x
				bg := r.background(pixel)
				samples = r.pixelSamples(x, y, samples)
				var sum Color
				for _, smp := range samples {
					c, _ := r.scene.shade(smp.p, bg, nil)
					sum = sum.Add(c.Mul(smp.w))
				}
				storeColor(r.buf.Output, pixel, sum)
			}
		}
	})
}

// evalForward evaluates the scene at the eval positions.
func (r *renderer) evalForward() error {
	pos := r.cfg.EvalPositions
	return forBands(len(pos), numChunks, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			bg, _ := r.backgroundAt(pos[i])
			c, _ := r.scene.shade(pos[i], bg, nil)
			storeColor(r.buf.Output, i, c)
		}
	})
}
