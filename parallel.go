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
	"runtime"

	"golang.org/x/sync/errgroup"
)

// numChunks is the number of work units used for reductions.  It is a
// constant, so that floating point sums are formed in the same order on
// every machine.
const numChunks = 16

// forBands splits [0, n) into the given number of contiguous bands and
// calls fn once per band.  Bands run concurrently, at most GOMAXPROCS at
// a time.  forBands returns after all calls have finished.
func forBands(n, bands int, fn func(band, lo, hi int)) error {
	bands = max(1, min(bands, n))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for b := range bands {
		lo, hi := n*b/bands, n*(b+1)/bands
		g.Go(func() error {
			fn(b, lo, hi)
			return nil
		})
	}
	return g.Wait()
}
