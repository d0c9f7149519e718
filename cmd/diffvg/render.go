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

package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/image/tiff"

	"seehuhn.de/go/diffvg"
	"seehuhn.de/go/diffvg/scenefile"
)

type renderOptions struct {
	output    string
	sdfOutput string
	sdfScale  float64
	samples   int
	seed      int64
	prefilter bool
}

func renderCommand() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <scene.toml>",
		Short: "Render a scene file to PNG or TIFF",
		Long: `Examples:
  diffvg render scene.toml -o scene.png
  diffvg render scene.toml -o scene.tiff --samples 4 --sdf dist.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "output image (.png, .tif or .tiff)")
	flags.StringVar(&opts.sdfOutput, "sdf", "", "also write the signed distance field to this image")
	flags.Float64Var(&opts.sdfScale, "sdf-scale", 8, "gray levels per unit of distance in the SDF image")
	flags.IntVarP(&opts.samples, "samples", "s", 0, "samples per pixel in each direction (overrides the scene file)")
	flags.Int64Var(&opts.seed, "seed", -1, "random seed (overrides the scene file)")
	flags.BoolVar(&opts.prefilter, "prefilter", false, "use analytic prefiltering")
	if err := cmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}
	return cmd
}

func runRender(cmd *cobra.Command, fname string, opts *renderOptions) error {
	f, err := scenefile.Load(fname)
	if err != nil {
		return err
	}
	scene, err := f.Scene()
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	bg, err := f.BackgroundBuffer()
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}

	cfg := f.Config()
	if opts.samples > 0 {
		cfg.SamplesX, cfg.SamplesY = opts.samples, opts.samples
	}
	if opts.seed >= 0 {
		cfg.Seed = uint64(opts.seed)
	}
	if opts.prefilter {
		cfg.Prefilter = true
	}

	w, h := cfg.Width, cfg.Height
	buf := diffvg.Buffers{
		Background: bg,
		Output:     make([]float32, 4*w*h),
	}
	if opts.sdfOutput != "" {
		buf.SDF = make([]float32, w*h)
	}
	if err := diffvg.Render(scene, buf, cfg, nil); err != nil {
		return err
	}

	if err := writeImage(opts.output, colorImage(buf.Output, w, h)); err != nil {
		return err
	}
	if buf.SDF != nil {
		if err := writeImage(opts.sdfOutput, distanceImage(buf.SDF, w, h, opts.sdfScale)); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %s (%dx%d, %dx%d samples)\n",
		opts.output, w, h, cfg.SamplesX, cfg.SamplesY)
	return nil
}

// colorImage converts a straight-alpha RGBA buffer into an image.
func colorImage(buf []float32, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range w * h {
		for c := range 4 {
			img.Pix[4*i+c] = toByte(float64(buf[4*i+c]))
		}
	}
	return img
}

// distanceImage maps signed distances to gray levels.  Zero distance is
// mid-gray, the inside of shapes is brighter.
func distanceImage(sdf []float32, w, h int, scale float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, d := range sdf {
		img.Pix[i] = toByte(0.5 - float64(d)*scale/255)
	}
	return img
}

func toByte(v float64) uint8 {
	return uint8(math.Round(255 * max(0, min(1, v))))
}

func writeImage(fname string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".png":
		encode = png.Encode
	case ".tif", ".tiff":
		encode = func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("%s: unsupported image format", fname)
	}

	out, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
