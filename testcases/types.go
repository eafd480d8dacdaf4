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

// Package testcases defines compositing scenarios shared by the tests and
// by the export tool.
package testcases

import (
	"math"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/mosaic/grid"
	"seehuhn.de/go/mosaic/sample"
	"seehuhn.de/go/mosaic/source"
)

// Scenario defines a single compositing test.
type Scenario struct {
	Name    string        // lowercase a-z, 0-9 and _ only
	Sources []Raster      // in registration order
	Target  grid.Geometry // the grid to read
	Policy  Policy
	Want    []float64 // expected composite, band-major; NaN marks no-data
}

// Policy mirrors the merge policies of the mosaic package.
type Policy int

const (
	Order Policy = iota
	Scale
)

func (p Policy) String() string {
	if p == Scale {
		return "scale"
	}
	return "order"
}

// Raster is an in-memory source of a scenario.
type Raster struct {
	Window    grid.Window
	Transform matrix.Matrix // grid → world
	Bands     int           // zero means one band
	Values    []float64     // band-major; NaN marks no-data
}

// Geometry returns the native geometry of r.
func (r Raster) Geometry() grid.Geometry {
	return grid.Geometry{
		Window:    r.Window,
		Transform: grid.Must(grid.NewTransform(r.Transform)),
	}
}

// Source returns a source serving the values of r.
func (r Raster) Source() *source.Memory[float64] {
	bands := max(r.Bands, 1)
	buf := sample.FromSentinel(r.Window, bands, r.Values, math.NaN())
	return source.NewMemory(r.Geometry().Transform, buf)
}

var nan = math.NaN()

// fill returns n copies of v.
func fill(n int, v float64) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = v
	}
	return res
}

// repeat concatenates n copies of row.
func repeat(n int, row ...float64) []float64 {
	var res []float64
	for range n {
		res = append(res, row...)
	}
	return res
}

// unit returns an identity geometry for the given window.
func unit(x0, y0, w, h int) grid.Geometry {
	return grid.Geometry{
		Window:    grid.Window{X0: x0, Y0: y0, Width: w, Height: h},
		Transform: grid.Must(grid.NewTransform(matrix.Identity)),
	}
}
