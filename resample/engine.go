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

// Package resample computes raster values on a pixel grid different from
// the one the data was stored on.
package resample

import (
	"math"
	"reflect"

	"seehuhn.de/go/mosaic/grid"
	"seehuhn.de/go/mosaic/sample"
)

// Engine maps source samples onto a target grid.
//
// For every target pixel, the centre is mapped to world coordinates using
// the target transform and from there to source grid coordinates using
// the inverse of the source transform. The sample value is then taken
// from the source pixels around that point, as selected by Mode.
// A target sample is no-data whenever one of the source samples it
// depends on is missing; the engine never interpolates across gaps.
//
// Create one Engine and reuse it for many calls. The output buffer grows
// as needed but never shrinks. An Engine is not safe for concurrent use.
type Engine[T sample.Number] struct {
	// Mode selects the interpolation method.
	Mode Mode

	out sample.Buffer[T]

	// Value range of T, used to round and clamp interpolated values.
	limitsKnown bool
	integer     bool
	lo, hi      float64
}

// NewEngine returns an Engine using the given interpolation mode.
func NewEngine[T sample.Number](mode Mode) *Engine[T] {
	return &Engine[T]{Mode: mode}
}

// Resample computes the samples of src, whose grid is placed in world
// space by srcTr, on the target geometry dst. The result has the shape
// of dst.Window and the same number of bands as src.
//
// The returned buffer belongs to the Engine and is only valid until the
// next call to Resample.
func (e *Engine[T]) Resample(dst grid.Geometry, src *sample.Buffer[T], srcTr grid.Transform) *sample.Buffer[T] {
	e.out.Reset(dst.Window, src.Bands)
	if dst.Window.Empty() || src.Window.Empty() || src.Bands == 0 {
		return &e.out
	}
	if !e.limitsKnown {
		e.integer, e.lo, e.hi = limits[T]()
		e.limitsKnown = true
	}

	// target grid → world → source grid, as one affine map
	m := dst.Transform.Then(srcTr.Inverse()).Matrix()

	w := dst.Window
	for ty := w.Y0; ty < w.MaxY(); ty++ {
		cy := float64(ty) + 0.5
		for tx := w.X0; tx < w.MaxX(); tx++ {
			cx := float64(tx) + 0.5
			sx := m[0]*cx + m[2]*cy + m[4]
			sy := m[1]*cx + m[3]*cy + m[5]
			if !inRange(sx, sy, src.Window, e.Mode.Margin()) {
				continue
			}
			if e.Mode == Nearest {
				e.nearest(src, tx, ty, sx, sy)
			} else {
				e.interpolate(src, tx, ty, sx, sy)
			}
		}
	}
	return &e.out
}

// nearest copies the values of the source pixel containing (sx, sy).
// Values are copied without conversion, so that no precision is lost for
// wide integer types.
func (e *Engine[T]) nearest(src *sample.Buffer[T], tx, ty int, sx, sy float64) {
	ix := int(math.Floor(sx))
	iy := int(math.Floor(sy))
	for band := range src.Bands {
		if v, ok := src.At(band, ix, iy); ok {
			e.out.Set(band, tx, ty, v)
		}
	}
}

// interpolate computes a weighted sum over the kernel taps around
// (sx, sy). A band is left as no-data if any tap is missing.
func (e *Engine[T]) interpolate(src *sample.Buffer[T], tx, ty int, sx, sy float64) {
	kx := e.Mode.kernel(sx)
	ky := e.Mode.kernel(sy)

bands:
	for band := range src.Bands {
		sum := 0.0
		for j := range ky.n {
			row := 0.0
			for i := range kx.n {
				v, ok := src.At(band, kx.base+i, ky.base+j)
				if !ok {
					continue bands
				}
				row += kx.w[i] * float64(v)
			}
			sum += ky.w[j] * row
		}
		e.out.Set(band, tx, ty, e.convert(sum))
	}
}

// convert turns an interpolated value into an element of T, rounding and
// clamping for integer types.
func (e *Engine[T]) convert(v float64) T {
	if e.integer {
		v = math.Round(v)
		v = min(max(v, e.lo), e.hi)
	}
	return T(v)
}

// inRange reports whether the point (sx, sy) is close enough to the
// source window for the kernel to reach at least one source pixel.
// This also rejects coordinates too large to convert to int.
func inRange(sx, sy float64, w grid.Window, margin int) bool {
	m := float64(margin)
	return sx >= float64(w.X0)-m && sx < float64(w.MaxX())+m &&
		sy >= float64(w.Y0)-m && sy < float64(w.MaxY())+m
}

// limits returns whether T is an integer type and the range of values
// T can hold. The range of uint64 and int64 is rounded to float64.
func limits[T sample.Number]() (integer bool, lo, hi float64) {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int8:
		return true, math.MinInt8, math.MaxInt8
	case reflect.Int16:
		return true, math.MinInt16, math.MaxInt16
	case reflect.Int32:
		return true, math.MinInt32, math.MaxInt32
	case reflect.Int, reflect.Int64:
		return true, math.MinInt64, math.MaxInt64
	case reflect.Uint8:
		return true, 0, math.MaxUint8
	case reflect.Uint16:
		return true, 0, math.MaxUint16
	case reflect.Uint32:
		return true, 0, math.MaxUint32
	case reflect.Uint, reflect.Uint64:
		return true, 0, math.MaxUint64
	default:
		return false, math.Inf(-1), math.Inf(1)
	}
}

// SourceWindow returns the window of the source grid which a resampling
// pass onto dst needs to read, including the pixels the interpolation
// kernel reaches around the mapped target pixel centres. The window is
// clipped to src.Window. The second return value is false if the source
// cannot contribute to any target pixel.
func SourceWindow(dst grid.Geometry, src grid.Geometry, mode Mode) (grid.Window, bool) {
	if dst.Window.Empty() || src.Window.Empty() {
		return grid.Window{}, false
	}
	toSrc := dst.Transform.Then(src.Transform.Inverse())
	r := toSrc.Bounds(dst.Window)
	w := grid.Span(r, mode.Margin()).Intersect(src.Window)
	return w, !w.Empty()
}
