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
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/diffvg"
)

func smokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Render a red circle on a 64x64 canvas and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const w, h = 64, 64

			shape, err := diffvg.NewShape(diffvg.Circle{Center: vec.Vec2{X: w / 2, Y: h / 2}, Radius: 10}, 0)
			if err != nil {
				return &exitError{code: 2, err: fmt.Errorf("failed to build shape: %w", err)}
			}
			fill := diffvg.Constant{Color: diffvg.Color{R: 1, A: 1}}
			identity := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
			group, err := diffvg.NewShapeGroup([]int{0}, fill, nil, false, identity)
			if err != nil {
				return &exitError{code: 2, err: fmt.Errorf("failed to build group: %w", err)}
			}
			filter := diffvg.Filter{Type: diffvg.FilterBox, Radius: 0.5}
			scene, err := diffvg.NewScene(w, h, []diffvg.Shape{shape}, []diffvg.ShapeGroup{group}, filter, diffvg.SceneOptions{})
			if err != nil {
				return &exitError{code: 2, err: fmt.Errorf("failed to build scene: %w", err)}
			}

			img := make([]float32, w*h*4)
			cfg := diffvg.Config{Width: w, Height: h, SamplesX: 1, SamplesY: 1}
			if err := diffvg.Render(scene, diffvg.Buffers{Output: img}, cfg, nil); err != nil {
				return err
			}

			first := make([]string, 16)
			for i, v := range img[:16] {
				first[i] = fmt.Sprintf("%.3f", v)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok; first values: %s\n", strings.Join(first, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "min/max: %.3f %.3f\n", slices.Min(img), slices.Max(img))
			return nil
		},
	}
}
