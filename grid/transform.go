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
	"errors"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// ErrSingular is returned when a grid-to-world matrix cannot be inverted.
var ErrSingular = errors.New("grid: singular transform")

// Transform is an affine map from grid coordinates to world coordinates,
// stored together with its inverse.
//
// The matrix uses the same layout as the rest of seehuhn.de/go/geom:
// a grid point (x, y) maps to (M[0]*x + M[2]*y + M[4], M[1]*x + M[3]*y + M[5]).
//
// The zero Transform is singular. Use [NewTransform] to obtain a usable
// value.
type Transform struct {
	m   matrix.Matrix // grid → world
	inv matrix.Matrix // world → grid
}

// NewTransform returns the Transform with grid-to-world matrix m.
// If m is not invertible, or has non-finite coefficients, ErrSingular is
// returned.
func NewTransform(m matrix.Matrix) (Transform, error) {
	if err := checkMatrix(m); err != nil {
		return Transform{}, err
	}
	return Transform{m: m, inv: m.Inv()}, nil
}

// FromGeoTransform converts a GDAL style geotransform to a Transform.
// The coefficients are, in order: the x coordinate of the upper-left
// corner, the pixel width, the row rotation, the y coordinate of the
// upper-left corner, the column rotation, and the pixel height (usually
// negative).
func FromGeoTransform(gt [6]float64) (Transform, error) {
	return NewTransform(matrix.Matrix{gt[1], gt[4], gt[2], gt[5], gt[0], gt[3]})
}

// NorthUp returns the transform of a north-up grid whose upper-left
// corner is at (ulx, uly), with square-or-rectangular pixels of size
// xRes by yRes world units. Rows grow southwards.
func NorthUp(ulx, uly, xRes, yRes float64) (Transform, error) {
	return NewTransform(matrix.Matrix{xRes, 0, 0, -yRes, ulx, uly})
}

// Must is a helper that wraps a call returning (Transform, error) and
// panics if the error is non-nil. It is intended for fixtures and
// package-level variables.
func Must(t Transform, err error) Transform {
	if err != nil {
		panic(err)
	}
	return t
}

// Check returns ErrSingular if t cannot be inverted. This is the case for
// the zero Transform.
func (t Transform) Check() error {
	return checkMatrix(t.m)
}

// Matrix returns the grid-to-world matrix.
func (t Transform) Matrix() matrix.Matrix { return t.m }

// Inverse returns the world-to-grid transform.
func (t Transform) Inverse() Transform {
	return Transform{m: t.inv, inv: t.m}
}

// Then returns the transform which first applies t and then u.
func (t Transform) Then(u Transform) Transform {
	return Transform{
		m:   t.m.Mul(u.m),
		inv: u.inv.Mul(t.inv),
	}
}

// ToWorld maps grid coordinates to world coordinates.
func (t Transform) ToWorld(x, y float64) vec.Vec2 {
	return t.m.Apply(vec.Vec2{X: x, Y: y})
}

// ToGrid maps a world point to (fractional) grid coordinates.
func (t Transform) ToGrid(p vec.Vec2) (x, y float64) {
	q := t.inv.Apply(p)
	return q.X, q.Y
}

// PixelCenter returns the world coordinates of the centre of pixel (i, j).
func (t Transform) PixelCenter(i, j int) vec.Vec2 {
	return t.m.Apply(vec.Vec2{X: float64(i) + 0.5, Y: float64(j) + 0.5})
}

// PixelSize returns the edge length, in world units, of a square with the
// same area as one pixel.
func (t Transform) PixelSize() float64 {
	return math.Sqrt(math.Abs(t.m[0]*t.m[3] - t.m[1]*t.m[2]))
}

// Bounds returns the smallest axis-aligned rectangle containing the image
// of the window w under t.
//
// The corners are folded by hand: a rectangle collapsed onto the origin
// is a valid intermediate result here, not an empty one.
func (t Transform) Bounds(w Window) rect.Rect {
	x0, y0 := float64(w.X0), float64(w.Y0)
	x1, y1 := float64(w.MaxX()), float64(w.MaxY())

	p := t.m.Apply(vec.Vec2{X: x0, Y: y0})
	r := rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
	for _, c := range [3]vec.Vec2{{X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}} {
		p = t.m.Apply(c)
		r.LLx = min(r.LLx, p.X)
		r.LLy = min(r.LLy, p.Y)
		r.URx = max(r.URx, p.X)
		r.URy = max(r.URy, p.Y)
	}
	return r
}

func checkMatrix(m matrix.Matrix) error {
	for _, c := range m {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ErrSingular
		}
	}

	// The threshold is relative to the size of the linear part, so that
	// grids in degrees and grids in metres are treated alike.
	scale := max(math.Abs(m[0]), math.Abs(m[1]), math.Abs(m[2]), math.Abs(m[3]))
	det := m[0]*m[3] - m[1]*m[2]
	if scale == 0 || math.Abs(det) <= singularThreshold*scale*scale {
		return ErrSingular
	}
	return nil
}

// singularThreshold is the smallest ratio |det| / scale² for which a matrix
// is considered invertible.
const singularThreshold = 1e-12
