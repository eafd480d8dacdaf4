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

// Package sample implements band-major buffers of raster sample values.
//
// No-data is represented by a validity flag next to every sample, rather
// than by a reserved value, so that integer rasters can use their full
// value range. [FromSentinel] and [Buffer.Sentinel] convert to and from
// the sentinel representation used by most file formats.
package sample

import (
	"slices"

	"seehuhn.de/go/mosaic/grid"
)

// Number is the set of element types a Buffer can hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Buffer holds the samples of all bands for a window of a pixel grid.
//
// Samples are stored band-major: the value of band b at pixel (x, y) is
// Data[(b*H + y-Y0)*W + x-X0], where W, H, X0 and Y0 describe Window.
// Valid has the same layout as Data; a false entry marks no-data, and the
// corresponding entry of Data is meaningless.
type Buffer[T Number] struct {
	Window grid.Window
	Bands  int
	Data   []T
	Valid  []bool
}

// New allocates a buffer for the given window with all samples set to
// no-data.
func New[T Number](win grid.Window, bands int) *Buffer[T] {
	b := &Buffer[T]{}
	b.Reset(win, bands)
	return b
}

// Reset changes the shape of the buffer and marks every sample as no-data.
// Storage is reused where possible; it grows as needed but never shrinks.
func (b *Buffer[T]) Reset(win grid.Window, bands int) {
	n := win.Pixels() * max(bands, 0)
	b.Data = slices.Grow(b.Data[:0], n)[:n]
	b.Valid = slices.Grow(b.Valid[:0], n)[:n]
	clear(b.Data)
	clear(b.Valid)
	b.Window = win
	b.Bands = bands
}

func (b *Buffer[T]) index(band, x, y int) (int, bool) {
	w := b.Window
	if band < 0 || band >= b.Bands || !w.Contains(x, y) {
		return 0, false
	}
	return (band*w.Height+y-w.Y0)*w.Width + x - w.X0, true
}

// At returns the sample of the given band at pixel (x, y), in the grid
// coordinates of Window. The second return value is false if the sample
// is no-data or lies outside the buffer.
func (b *Buffer[T]) At(band, x, y int) (T, bool) {
	i, ok := b.index(band, x, y)
	if !ok || !b.Valid[i] {
		var zero T
		return zero, false
	}
	return b.Data[i], true
}

// Set stores a valid sample. Pixels outside the buffer are ignored.
func (b *Buffer[T]) Set(band, x, y int, v T) {
	if i, ok := b.index(band, x, y); ok {
		b.Data[i] = v
		b.Valid[i] = true
	}
}

// Invalidate marks a sample as no-data.
func (b *Buffer[T]) Invalidate(band, x, y int) {
	if i, ok := b.index(band, x, y); ok {
		var zero T
		b.Data[i] = zero
		b.Valid[i] = false
	}
}

// PixelValid reports whether at least one band has a valid sample at
// pixel (x, y).
func (b *Buffer[T]) PixelValid(x, y int) bool {
	i, ok := b.index(0, x, y)
	if !ok {
		return false
	}
	plane := b.Window.Pixels()
	for range b.Bands {
		if b.Valid[i] {
			return true
		}
		i += plane
	}
	return false
}

// CopyPixel copies all bands of pixel (x, y) from src to dst, including
// their validity. Bands which dst has but src lacks become no-data.
// Both buffers must contain the pixel.
func CopyPixel[T Number](dst, src *Buffer[T], x, y int) {
	di, ok := dst.index(0, x, y)
	if !ok {
		return
	}
	si, ok := src.index(0, x, y)
	if !ok {
		return
	}
	dPlane := dst.Window.Pixels()
	sPlane := src.Window.Pixels()
	var zero T
	for band := range dst.Bands {
		if band < src.Bands {
			dst.Data[di] = src.Data[si]
			dst.Valid[di] = src.Valid[si]
			si += sPlane
		} else {
			dst.Data[di] = zero
			dst.Valid[di] = false
		}
		di += dPlane
	}
}

// Subset returns a new buffer for the window win, holding a copy of the
// samples of b. Pixels of win outside b are no-data.
func (b *Buffer[T]) Subset(win grid.Window) *Buffer[T] {
	res := New[T](win, b.Bands)
	common := win.Intersect(b.Window)
	if common.Empty() {
		return res
	}
	for band := range b.Bands {
		for y := common.Y0; y < common.MaxY(); y++ {
			si, _ := b.index(band, common.X0, y)
			di, _ := res.index(band, common.X0, y)
			copy(res.Data[di:di+common.Width], b.Data[si:si+common.Width])
			copy(res.Valid[di:di+common.Width], b.Valid[si:si+common.Width])
		}
	}
	return res
}

// FromSentinel builds a buffer from band-major sample values, treating
// every occurrence of nodata as missing. For floating point types NaN is
// always treated as missing, whatever the value of nodata.
// The data slice is copied.
func FromSentinel[T Number](win grid.Window, bands int, data []T, nodata T) *Buffer[T] {
	b := New[T](win, bands)
	n := min(len(data), len(b.Data))
	for i, v := range data[:n] {
		if v == nodata || isNaN(v) {
			continue
		}
		b.Data[i] = v
		b.Valid[i] = true
	}
	return b
}

// Sentinel returns the samples of b in band-major order, with nodata
// stored in place of every missing sample.
func (b *Buffer[T]) Sentinel(nodata T) []T {
	res := make([]T, len(b.Data))
	for i, v := range b.Data {
		if b.Valid[i] {
			res[i] = v
		} else {
			res[i] = nodata
		}
	}
	return res
}

func isNaN[T Number](v T) bool {
	return v != v
}
