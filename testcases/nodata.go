package testcases

import "seehuhn.de/go/geom/matrix"

var nodataCases = []Scenario{
	{
		Name: "uncovered",
		Sources: []Raster{
			{Window: wnd(0, 0, 2, 1), Transform: matrix.Identity, Values: []float64{1, 1}},
		},
		Target: unit(0, 0, 4, 1),
		Policy: Order,
		Want:   []float64{1, 1, nan, nan},
	},
	{
		Name: "only_nodata",
		Sources: []Raster{
			{Window: strip3, Transform: matrix.Identity, Values: fill(3, nan)},
			{Window: strip3, Transform: matrix.Identity, Values: []float64{nan, 8, nan}},
		},
		Target: unit(0, 0, 3, 1),
		Policy: Scale,
		Want:   []float64{nan, 8, nan},
	},
	{
		Name: "disjoint",
		Sources: []Raster{
			{Window: strip3, Transform: matrix.Matrix{1, 0, 0, 1, 100, 100}, Values: fill(3, 1)},
		},
		Target: unit(0, 0, 3, 1),
		Policy: Order,
		Want:   fill(3, nan),
	},
}
