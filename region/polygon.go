// seehuhn.de/go/mosaic - raster mosaic aggregation
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

package region

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// FillConvex sets the bits of all pixels whose centre lies inside the
// convex polygon with vertices pts. Pixel (x, y) covers the square
// [x, x+1] × [y, y+1], so its centre is (x+0.5, y+0.5). Centres on the
// boundary, or within tol of it along a scanline, count as inside.
// Pixels outside the grid are ignored.
func (t *Tracker) FillConvex(pts []vec.Vec2, tol float64) {
	n := len(pts)
	if n == 0 || t.width == 0 || t.height == 0 {
		return
	}

	yMin, yMax := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		yMin = min(yMin, p.Y)
		yMax = max(yMax, p.Y)
	}
	row0, row1, ok := span(yMin-tol, yMax+tol, t.height)
	if !ok {
		return
	}

	for y := row0; y <= row1; y++ {
		yc := float64(y) + 0.5

		// A horizontal line meets a convex polygon in one interval; its
		// ends are the extreme crossings with the edges.
		xl, xr := math.Inf(1), math.Inf(-1)
		for i, p := range pts {
			q := pts[(i+1)%n]
			lo, hi := min(p.Y, q.Y), max(p.Y, q.Y)
			if yc < lo-tol || yc > hi+tol {
				continue
			}
			if hi-lo <= tol {
				xl = min(xl, p.X, q.X)
				xr = max(xr, p.X, q.X)
				continue
			}
			yy := min(max(yc, lo), hi)
			x := p.X + (yy-p.Y)*(q.X-p.X)/(q.Y-p.Y)
			xl = min(xl, x)
			xr = max(xr, x)
		}
		if xl > xr {
			continue
		}
		if x0, x1, ok := span(xl-tol, xr+tol, t.width); ok {
			t.SetRect(x0, y, x1-x0+1, 1, true)
		}
	}
}

// span returns the first and last index i in 0, ..., n-1 with
// lo <= i+0.5 <= hi. The last return value is false if there is no such
// index.
func span(lo, hi float64, n int) (first, last int, ok bool) {
	a := math.Ceil(lo - 0.5)
	b := math.Floor(hi - 0.5)
	if a > b || b < 0 || a > float64(n-1) {
		return 0, 0, false
	}
	return int(max(a, 0)), int(min(b, float64(n-1))), true
}
