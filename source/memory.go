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

// Package source implements mosaic sources backed by memory, by decoded
// images and by ESRI ASCII grid files.
//
// All sources in this package hold their data in memory and are safe for
// concurrent reads, provided the underlying data is not modified.
package source

import (
	"context"

	"seehuhn.de/go/mosaic/grid"
	"seehuhn.de/go/mosaic/sample"
)

// Memory serves samples from a buffer.
type Memory[T sample.Number] struct {
	tr  grid.Transform
	buf *sample.Buffer[T]
}

// NewMemory returns a source for the samples in buf, placed in world
// space by tr. The native window of the source is buf.Window.
// The buffer is not copied.
func NewMemory[T sample.Number](tr grid.Transform, buf *sample.Buffer[T]) *Memory[T] {
	return &Memory[T]{tr: tr, buf: buf}
}

// Geometry returns the window of the buffer together with its transform.
func (m *Memory[T]) Geometry() grid.Geometry {
	return grid.Geometry{Window: m.buf.Window, Transform: m.tr}
}

// Bands returns the number of bands of the buffer.
func (m *Memory[T]) Bands() int {
	return m.buf.Bands
}

// Buffer returns the underlying buffer.
func (m *Memory[T]) Buffer() *sample.Buffer[T] {
	return m.buf
}

// Read returns a copy of the samples in win. Pixels outside the buffer
// are no-data.
func (m *Memory[T]) Read(ctx context.Context, win grid.Window) (*sample.Buffer[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.buf.Subset(win), nil
}
