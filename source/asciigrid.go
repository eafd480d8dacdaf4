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

package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"seehuhn.de/go/mosaic/grid"
	"seehuhn.de/go/mosaic/sample"
)

// ErrFormat is wrapped by the errors returned for malformed input files.
var ErrFormat = errors.New("source: malformed input")

// DefaultASCIINoData is the no-data value of ESRI ASCII grids which do
// not declare one.
const DefaultASCIINoData = -9999

// MaxASCIICells is the largest number of cells ReadASCIIGrid accepts.
const MaxASCIICells = 1 << 30

// ASCIIGrid is the header of an ESRI ASCII grid file.
type ASCIIGrid struct {
	Cols, Rows int

	// XLL and YLL give the lower-left corner of the grid. If Center is
	// set, they give the centre of the lower-left cell instead.
	XLL, YLL float64
	Center   bool

	CellSize float64
	NoData   float64
}

// Transform returns the north-up transform of the grid, with pixel (0, 0)
// in the upper-left corner.
func (g *ASCIIGrid) Transform() (grid.Transform, error) {
	x0, y0 := g.XLL, g.YLL
	if g.Center {
		x0 -= g.CellSize / 2
		y0 -= g.CellSize / 2
	}
	return grid.NorthUp(x0, y0+float64(g.Rows)*g.CellSize, g.CellSize, g.CellSize)
}

// ReadASCIIGrid parses an ESRI ASCII grid and returns it as a single band
// source. Cells holding the no-data value of the file are no-data.
func ReadASCIIGrid(r io.Reader) (*Memory[float64], *ASCIIGrid, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	hdr := &ASCIIGrid{NoData: DefaultASCIINoData}
	seen := make(map[string]bool)
	var centered []bool // one entry per xll/yll key
	var first string // first data token, read while looking for header keys
	for sc.Scan() {
		key := strings.ToLower(sc.Text())
		if !isHeaderKey(key) {
			first = sc.Text()
			break
		}
		if !sc.Scan() {
			return nil, nil, fmt.Errorf("%w: missing value for %q", ErrFormat, key)
		}
		val := sc.Text()
		if err := hdr.set(key, val); err != nil {
			return nil, nil, err
		}
		seen[strings.TrimSuffix(strings.TrimSuffix(key, "corner"), "center")] = true
		if strings.HasPrefix(key, "xll") || strings.HasPrefix(key, "yll") {
			centered = append(centered, strings.HasSuffix(key, "center"))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	for _, key := range []string{"ncols", "nrows", "xll", "yll", "cellsize"} {
		if !seen[key] {
			return nil, nil, fmt.Errorf("%w: missing header field %q", ErrFormat, key)
		}
	}
	for _, c := range centered {
		if c != centered[0] {
			return nil, nil, fmt.Errorf("%w: mixed corner and center origin", ErrFormat)
		}
	}
	if hdr.Cols <= 0 || hdr.Rows <= 0 || !(hdr.CellSize > 0) {
		return nil, nil, fmt.Errorf("%w: invalid grid size %dx%d, cell size %g",
			ErrFormat, hdr.Cols, hdr.Rows, hdr.CellSize)
	}
	if hdr.Cols > MaxASCIICells/hdr.Rows {
		return nil, nil, fmt.Errorf("%w: grid size %dx%d exceeds %d cells",
			ErrFormat, hdr.Cols, hdr.Rows, MaxASCIICells)
	}
	tr, err := hdr.Transform()
	if err != nil {
		return nil, nil, err
	}

	// storage grows with the cells actually read
	n := hdr.Cols * hdr.Rows
	var data []float64
	tok := first
	for tok != "" {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: cell %d: %w", ErrFormat, len(data), err)
		}
		if len(data) == n {
			return nil, nil, fmt.Errorf("%w: more than %d cells", ErrFormat, n)
		}
		data = append(data, v)

		tok = ""
		if sc.Scan() {
			tok = sc.Text()
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if len(data) < n {
		return nil, nil, fmt.Errorf("%w: expected %d cells, got %d", ErrFormat, n, len(data))
	}

	win := grid.Window{Width: hdr.Cols, Height: hdr.Rows}
	buf := sample.FromSentinel(win, 1, data, hdr.NoData)
	return NewMemory(tr, buf), hdr, nil
}

func isHeaderKey(key string) bool {
	switch key {
	case "ncols", "nrows", "xllcorner", "xllcenter", "yllcorner", "yllcenter",
		"cellsize", "nodata_value":
		return true
	}
	return false
}

func (g *ASCIIGrid) set(key, val string) error {
	var err error
	switch key {
	case "ncols":
		g.Cols, err = strconv.Atoi(val)
	case "nrows":
		g.Rows, err = strconv.Atoi(val)
	case "xllcorner", "xllcenter":
		g.XLL, err = strconv.ParseFloat(val, 64)
		g.Center = key == "xllcenter"
	case "yllcorner", "yllcenter":
		g.YLL, err = strconv.ParseFloat(val, 64)
		g.Center = key == "yllcenter"
	case "cellsize":
		g.CellSize, err = strconv.ParseFloat(val, 64)
	case "nodata_value":
		g.NoData, err = strconv.ParseFloat(val, 64)
	}
	if err != nil {
		return fmt.Errorf("%w: header field %q: %w", ErrFormat, key, err)
	}
	return nil
}
