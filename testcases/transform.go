package testcases

import "seehuhn.de/go/geom/matrix"

// ramp2 holds the value x + 10*y at pixel (x, y) of a 2×2 grid.
var ramp2 = []float64{0, 1, 10, 11}

var transformCases = []Scenario{
	{
		// grid (x, y) ↦ world (2-y, x)
		Name: "rotated",
		Sources: []Raster{
			{Window: wnd(0, 0, 2, 2), Transform: matrix.Matrix{0, 1, -1, 0, 2, 0}, Values: ramp2},
		},
		Target: unit(0, 0, 2, 2),
		Policy: Order,
		Want:   []float64{10, 0, 11, 1},
	},
	{
		// rows grow southwards, as in most geospatial formats
		Name: "north_up",
		Sources: []Raster{
			{Window: wnd(0, 0, 2, 2), Transform: matrix.Matrix{1, 0, 0, -1, 0, 2}, Values: ramp2},
		},
		Target: unit(0, 0, 2, 2),
		Policy: Order,
		Want:   []float64{10, 11, 0, 1},
	},
	{
		Name: "offset_target",
		Sources: []Raster{
			{Window: wnd(0, 0, 4, 1), Transform: matrix.Identity, Values: []float64{0, 1, 2, 3}},
		},
		Target: unit(2, 0, 2, 1),
		Policy: Order,
		Want:   []float64{2, 3},
	},
	{
		Name: "offset_source_window",
		Sources: []Raster{
			{Window: wnd(10, 0, 3, 1), Transform: matrix.Matrix{1, 0, 0, 1, -10, 0}, Values: []float64{4, 5, 6}},
		},
		Target: unit(0, 0, 4, 1),
		Policy: Order,
		Want:   []float64{4, 5, 6, nan},
	},
}
