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

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Geometry pairs a pixel window with its placement in world space.
type Geometry struct {
	Window    Window
	Transform Transform
}

// Envelope returns the world-space bounding box of the geometry.
func (g Geometry) Envelope() rect.Rect {
	return g.Transform.Bounds(g.Window)
}

// Footprint returns the outline of the geometry in world coordinates, as a
// closed quadrilateral. For rotated grids the footprint is tighter than
// the envelope.
func (g Geometry) Footprint() path.Path {
	w := g.Window
	corners := [4]vec.Vec2{
		g.Transform.ToWorld(float64(w.X0), float64(w.Y0)),
		g.Transform.ToWorld(float64(w.MaxX()), float64(w.Y0)),
		g.Transform.ToWorld(float64(w.MaxX()), float64(w.MaxY())),
		g.Transform.ToWorld(float64(w.X0), float64(w.MaxY())),
	}
	return func(yield func(path.Command, []vec.Vec2) bool) {
		if !yield(path.CmdMoveTo, corners[:1]) {
			return
		}
		for i := 1; i < 4; i++ {
			if !yield(path.CmdLineTo, corners[i:i+1]) {
				return
			}
		}
		yield(path.CmdClose, nil)
	}
}

// Span returns the window of all pixels touched by the grid-space
// rectangle r, grown by margin pixels on every side.
func Span(r rect.Rect, margin int) Window {
	x0 := int(math.Floor(r.LLx)) - margin
	y0 := int(math.Floor(r.LLy)) - margin
	x1 := int(math.Ceil(r.URx)) + margin
	y1 := int(math.Ceil(r.URy)) + margin
	if x1 <= x0 || y1 <= y0 {
		return Window{}
	}
	return Window{X0: x0, Y0: y0, Width: x1 - x0, Height: y1 - y0}
}
