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

package testcases

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/diffvg"
	"seehuhn.de/go/diffvg/scenefile"
)

// File returns the scene file representation of the test case.  Coverage
// cases with the default filter are marked for prefiltered rendering.
func (tc *TestCase) File() (*scenefile.File, error) {
	scene, err := tc.Scene()
	if err != nil {
		return nil, err
	}
	cfg := diffvg.Config{
		Width:     tc.Width,
		Height:    tc.Height,
		SamplesX:  scenefile.DefaultSamples,
		SamplesY:  scenefile.DefaultSamples,
		Prefilter: tc.IsCoverage() && tc.Filter == nil,
	}
	return scenefile.FromScene(scene, cfg), nil
}

// WriteScenes writes every test case to dir, as a file named
// <category>_<name>.toml.  It returns the number of files written.
func WriteScenes(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	n := 0
	for _, category := range slices.Sorted(maps.Keys(All)) {
		for _, tc := range All[category] {
			name := category + "_" + tc.Name
			if err := writeScene(&tc, filepath.Join(dir, name+".toml")); err != nil {
				return n, fmt.Errorf("%s: %w", name, err)
			}
			n++
		}
	}
	return n, nil
}

func writeScene(tc *TestCase, fname string) error {
	f, err := tc.File()
	if err != nil {
		return err
	}
	out, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := f.Encode(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
