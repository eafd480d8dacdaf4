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

package grid

import "seehuhn.de/go/geom/rect"

// Union returns the smallest rectangle containing both a and b.
func Union(a, b rect.Rect) rect.Rect {
	return rect.Rect{
		LLx: min(a.LLx, b.LLx),
		LLy: min(a.LLy, b.LLy),
		URx: max(a.URx, b.URx),
		URy: max(a.URy, b.URy),
	}
}

// Intersects reports whether a and b share a region of positive area.
// Rectangles which only touch along an edge do not intersect.
func Intersects(a, b rect.Rect) bool {
	return a.LLx < b.URx && b.LLx < a.URx && a.LLy < b.URy && b.LLy < a.URy
}
