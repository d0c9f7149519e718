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
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSmoke(t *testing.T) {
	cmd := smokeCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "min/max: 0.000 1.000") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.toml")
	err := os.WriteFile(scene, []byte(`
width = 16
height = 12

[[shapes]]
type = "rect"
min = [2.0, 2.0]
max = [10.0, 8.0]

[[groups]]
shapes = [0]
fill = { type = "constant", color = [0.0, 0.0, 1.0, 1.0] }
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	imgName := filepath.Join(dir, "out.png")
	sdfName := filepath.Join(dir, "sdf.tiff")
	cmd := renderCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{scene, "-o", imgName, "--sdf", sdfName, "--prefilter"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	r, err := os.Open(imgName)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	img, err := png.Decode(r)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Errorf("image size %v", b)
	}
	if _, _, b, a := img.At(5, 5).RGBA(); b != 0xffff || a != 0xffff {
		t.Errorf("pixel (5, 5) is %v", img.At(5, 5))
	}
	if _, _, _, a := img.At(14, 10).RGBA(); a != 0 {
		t.Errorf("pixel (14, 10) is %v", img.At(14, 10))
	}
	if _, err := os.Stat(sdfName); err != nil {
		t.Error(err)
	}
}

func TestRenderRequiresOutput(t *testing.T) {
	cmd := renderCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"scene.toml"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "output") {
		t.Errorf("missing --output: got error %v", err)
	}
}

func TestWriteImageFormat(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "out.jpg")
	if err := writeImage(fname, colorImage(make([]float32, 4), 1, 1)); err == nil {
		t.Error("unsupported format accepted")
	}
}
