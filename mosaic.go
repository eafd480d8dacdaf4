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

// Package mosaic combines independently stored, georeferenced rasters into
// one virtual raster which can be read at any window and resolution.
//
// Sources are added to a [Registry]. A [Compositor] answers read requests
// by resampling the registered sources onto the requested grid, one after
// the other in the order given by a [MergePolicy]. Every output pixel
// takes the values of the first source which has data there; sources
// later in the order never overwrite it. Pixels which no source covers
// are returned as no-data.
package mosaic

import (
	"context"
	"fmt"

	"seehuhn.de/go/mosaic/grid"
	"seehuhn.de/go/mosaic/sample"
)

// Source is a raster which can take part in a mosaic.
//
// The samples of a Source must already be expressed in the world
// coordinate system of the mosaic; reprojection is the responsibility of
// the Source implementation.
type Source[T sample.Number] interface {
	// Geometry returns the native pixel window of the raster, together
	// with the transform from its grid to world coordinates.
	Geometry() grid.Geometry

	// Bands returns the number of bands of the raster.
	Bands() int

	// Read returns the samples for the given window of the native grid.
	// Pixels of win outside the native window must be reported as
	// no-data; this is not an error. A non-nil error means that the
	// source could not provide any data for this read.
	//
	// Read may block. It must be safe to call Read concurrently.
	Read(ctx context.Context, win grid.Window) (*sample.Buffer[T], error)
}

// MergePolicy determines the order in which overlapping sources are
// consulted. The first source with data at a pixel wins.
type MergePolicy uint8

const (
	// Order consults sources in registration order.
	Order MergePolicy = iota

	// Scale consults sources in order of increasing native pixel size, so
	// that finer data is preferred over coarser data. Sources with equal
	// pixel size, up to [Compositor.ScaleTolerance], are consulted in
	// registration order.
	Scale
)

func (p MergePolicy) String() string {
	switch p {
	case Order:
		return "order"
	case Scale:
		return "scale"
	default:
		return fmt.Sprintf("MergePolicy(%d)", uint8(p))
	}
}
