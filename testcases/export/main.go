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

// Command export writes all test cases as TOML scene files, so that they
// can be rendered with other implementations or with the diffvg command.
package main

import (
	"fmt"

	"seehuhn.de/go/diffvg/testcases"
)

const sceneDir = "testdata/scenes"

func main() {
	n, err := testcases.WriteScenes(sceneDir)
	if err != nil {
		panic(err)
	}
	fmt.Printf("wrote %d scene files to %s\n", n, sceneDir)
}
