package testcases

import (
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/mosaic/grid"
)

var bandCases = []Scenario{
	{
		// Bands are never mixed across sources. The second pixel of the
		// first source has no valid band, so the second source provides
		// it, and its missing second band stays no-data.
		Name: "mixed_bands",
		Sources: []Raster{
			{Window: wnd(0, 0, 2, 1), Transform: matrix.Identity, Bands: 2, Values: []float64{1, nan, nan, nan}},
			{Window: wnd(0, 0, 2, 1), Transform: matrix.Identity, Values: []float64{5, 6}},
		},
		Target: unit(0, 0, 2, 1),
		Policy: Order,
		Want:   []float64{1, 6, nan, nan},
	},
	{
		Name: "three_bands",
		Sources: []Raster{
			{Window: wnd(0, 0, 2, 1), Transform: matrix.Identity, Bands: 3, Values: []float64{1, nan, 2, 3, 4, nan}},
			{Window: wnd(0, 0, 2, 1), Transform: matrix.Identity, Bands: 3, Values: []float64{7, 7, 8, 8, 9, 9}},
		},
		Target: unit(0, 0, 2, 1),
		Policy: Order,
		Want:   []float64{1, nan, 2, 3, 4, nan},
	},
}

var strip3 = wnd(0, 0, 3, 1)

func wnd(x0, y0, w, h int) grid.Window {
	return grid.Window{X0: x0, Y0: y0, Width: w, Height: h}
}
