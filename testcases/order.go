package testcases

import "seehuhn.de/go/geom/matrix"

var orderCases = []Scenario{
	{
		// three 3×1 sources on the same grid, each with a longer run of data
		Name: "three_strips",
		Sources: []Raster{
			{Window: strip3, Transform: matrix.Identity, Values: []float64{1, nan, nan}},
			{Window: strip3, Transform: matrix.Identity, Values: []float64{2, 2, nan}},
			{Window: strip3, Transform: matrix.Identity, Values: []float64{3, 3, 3}},
		},
		Target: unit(0, 0, 3, 1),
		Policy: Order,
		Want:   []float64{1, 2, 3},
	},
	{
		// the later source is finer, but Order ignores resolution
		Name: "first_wins",
		Sources: []Raster{
			{Window: strip3, Transform: matrix.Identity, Values: []float64{4, 4, 4}},
			{
				Window:    wnd(0, 0, 6, 2),
				Transform: matrix.Matrix{0.5, 0, 0, 0.5, 0, 0},
				Values:    fill(12, 9),
			},
		},
		Target: unit(0, 0, 3, 1),
		Policy: Order,
		Want:   []float64{4, 4, 4},
	},
	{
		// a later source fills only the pixels left open
		Name: "fill_holes",
		Sources: []Raster{
			{Window: wnd(0, 0, 2, 2), Transform: matrix.Identity, Values: []float64{1, nan, nan, 1}},
			{Window: wnd(0, 0, 2, 2), Transform: matrix.Identity, Values: []float64{2, 2, 2, 2}},
		},
		Target: unit(0, 0, 2, 2),
		Policy: Order,
		Want:   []float64{1, 2, 2, 1},
	},
}
