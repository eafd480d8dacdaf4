package testcases

import "seehuhn.de/go/geom/matrix"

// Three sources at 2, 1 and 0.5 world units per pixel. Their footprints
// cover x ∈ [0,8], [2,6] and [4,8] respectively, all for y ∈ [0,2].
var threeResolutions = []Raster{
	{
		Window:    wnd(0, 0, 4, 1),
		Transform: matrix.Matrix{2, 0, 0, 2, 0, 0},
		Values:    fill(4, 1),
	},
	{
		Window:    wnd(0, 0, 4, 2),
		Transform: matrix.Matrix{1, 0, 0, 1, 2, 0},
		Values:    fill(8, 2),
	},
	{
		Window:    wnd(0, 0, 8, 4),
		Transform: matrix.Matrix{0.5, 0, 0, 0.5, 4, 0},
		Values:    fill(32, 3),
	},
}

var scaleCases = []Scenario{
	{
		Name:    "three_resolutions",
		Sources: threeResolutions,
		Target:  unit(0, 0, 8, 2),
		Policy:  Scale,
		Want:    repeat(2, 1, 1, 2, 2, 3, 3, 3, 3),
	},
	{
		Name:    "three_resolutions_order",
		Sources: threeResolutions,
		Target:  unit(0, 0, 8, 2),
		Policy:  Order,
		Want:    fill(16, 1),
	},
	{
		// pixel sizes differ by 1e-10 relative; registration order decides
		Name: "near_equal_resolution",
		Sources: []Raster{
			{Window: wnd(0, 0, 4, 1), Transform: matrix.Identity, Values: fill(4, 1)},
			{
				Window:    wnd(0, 0, 4, 1),
				Transform: matrix.Matrix{1 - 1e-10, 0, 0, 1 - 1e-10, 0, 0},
				Values:    fill(4, 2),
			},
		},
		Target: unit(0, 0, 4, 1),
		Policy: Scale,
		Want:   fill(4, 1),
	},
	{
		// the coarse source fills a hole in the fine one
		Name: "coarse_fills_gap",
		Sources: []Raster{
			{
				Window:    wnd(0, 0, 2, 1),
				Transform: matrix.Matrix{2, 0, 0, 2, 0, 0},
				Values:    fill(2, 5),
			},
			{
				Window:    wnd(0, 0, 8, 2),
				Transform: matrix.Matrix{0.5, 0, 0, 0.5, 0, 0},
				Values: []float64{
					7, 7, 7, 7, 7, 7, 7, 7,
					7, 7, 7, nan, 7, 7, 7, 7,
				},
			},
		},
		Target: unit(0, 0, 4, 1),
		Policy: Scale,
		Want:   []float64{7, 5, 7, 7},
	},
}
