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

// Package grid describes discrete pixel grids and their placement in a
// continuous world coordinate system.
//
// A [Window] is a rectangle of integer pixel indices. A [Transform] maps
// grid coordinates to world coordinates and back. Pixel (i, j) covers the
// grid-space square [i, i+1) × [j, j+1); its centre is at (i+0.5, j+0.5).
package grid

import "fmt"

// Window identifies a rectangular region of a pixel grid.
// Pixels with X0 <= x < X0+Width and Y0 <= y < Y0+Height belong
// to the window. A window with a non-positive width or height is empty.
type Window struct {
	X0, Y0        int
	Width, Height int
}

// Empty reports whether the window contains no pixels.
func (w Window) Empty() bool {
	return w.Width <= 0 || w.Height <= 0
}

// MaxX returns the first column to the right of the window.
func (w Window) MaxX() int { return w.X0 + w.Width }

// MaxY returns the first row below the window.
func (w Window) MaxY() int { return w.Y0 + w.Height }

// Pixels returns the number of pixels in the window.
func (w Window) Pixels() int {
	if w.Empty() {
		return 0
	}
	return w.Width * w.Height
}

// Contains reports whether pixel (x, y) lies inside the window.
func (w Window) Contains(x, y int) bool {
	return x >= w.X0 && x < w.X0+w.Width && y >= w.Y0 && y < w.Y0+w.Height
}

// Intersect returns the largest window contained in both w and v.
// If the two windows do not overlap, the result is the zero Window.
func (w Window) Intersect(v Window) Window {
	x0 := max(w.X0, v.X0)
	y0 := max(w.Y0, v.Y0)
	x1 := min(w.MaxX(), v.MaxX())
	y1 := min(w.MaxY(), v.MaxY())
	if x0 >= x1 || y0 >= y1 {
		return Window{}
	}
	return Window{X0: x0, Y0: y0, Width: x1 - x0, Height: y1 - y0}
}

// Offset returns the position of pixel (x, y) relative to the window origin.
func (w Window) Offset(x, y int) (dx, dy int) {
	return x - w.X0, y - w.Y0
}

func (w Window) String() string {
	return fmt.Sprintf("%dx%d%+d%+d", w.Width, w.Height, w.X0, w.Y0)
}
