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

package resample

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/mosaic/grid"
	"seehuhn.de/go/mosaic/sample"
)

var (
	unit = grid.Must(grid.NewTransform(matrix.Identity))
	nan  = math.NaN()
)

// ramp returns a single band w×h buffer with value x + 10*y at pixel (x, y).
func ramp(w, h int) *sample.Buffer[float64] {
	win := grid.Window{Width: w, Height: h}
	b := sample.New[float64](win, 1)
	for y := range h {
		for x := range w {
			b.Set(0, x, y, float64(x+10*y))
		}
	}
	return b
}

func values(b *sample.Buffer[float64]) []float64 {
	return b.Sentinel(nan)
}

func TestNearestIdentity(t *testing.T) {
	src := ramp(4, 3)
	e := NewEngine[float64](Nearest)

	dst := grid.Geometry{Window: src.Window, Transform: unit}
	out := e.Resample(dst, src, unit)
	if d := cmp.Diff(values(src), values(out)); d != "" {
		t.Errorf("identity resampling changed the data (-want +got):\n%s", d)
	}
}

func TestNearestDownsample(t *testing.T) {
	src := ramp(4, 4)
	e := NewEngine[float64](Nearest)

	// target pixels are 2×2 source pixels; centres fall on (1,1), (3,1), ...
	dst := grid.Geometry{
		Window:    grid.Window{Width: 2, Height: 2},
		Transform: grid.Must(grid.NewTransform(matrix.Matrix{2, 0, 0, 2, 0, 0})),
	}
	out := e.Resample(dst, src, unit)
	want := []float64{11, 13, 31, 33}
	if d := cmp.Diff(want, values(out)); d != "" {
		t.Errorf("unexpected samples (-want +got):\n%s", d)
	}
}

func TestNearestOutside(t *testing.T) {
	src := ramp(2, 2)
	e := NewEngine[float64](Nearest)

	// target extends one pixel beyond the source on each side
	dst := grid.Geometry{
		Window:    grid.Window{X0: -1, Y0: 0, Width: 4, Height: 1},
		Transform: unit,
	}
	out := e.Resample(dst, src, unit)
	want := []float64{nan, 0, 1, nan}
	if d := cmp.Diff(want, values(out), cmpopts.EquateNaNs()); d != "" {
		t.Errorf("unexpected samples (-want +got):\n%s", d)
	}
}

func TestNearestOffsetSource(t *testing.T) {
	// The source grid is shifted by (10, 20) in world space.
	src := ramp(3, 3)
	srcTr := grid.Must(grid.NewTransform(matrix.Matrix{1, 0, 0, 1, 10, 20}))
	e := NewEngine[float64](Nearest)

	dst := grid.Geometry{
		Window:    grid.Window{X0: 11, Y0: 21, Width: 2, Height: 1},
		Transform: unit,
	}
	out := e.Resample(dst, src, srcTr)
	want := []float64{11, 12}
	if d := cmp.Diff(want, values(out)); d != "" {
		t.Errorf("unexpected samples (-want +got):\n%s", d)
	}
}

func TestBilinear(t *testing.T) {
	src := ramp(3, 3)
	e := NewEngine[float64](Bilinear)

	// Half-pixel shift: every target centre sits between four source
	// centres. The ramp is linear, so bilinear reproduces it exactly.
	dst := grid.Geometry{
		Window:    grid.Window{Width: 2, Height: 2},
		Transform: grid.Must(grid.NewTransform(matrix.Matrix{1, 0, 0, 1, 0.5, 0.5})),
	}
	out := e.Resample(dst, src, unit)
	want := []float64{5.5, 6.5, 15.5, 16.5}
	if d := cmp.Diff(want, values(out), cmpopts.EquateApprox(0, 1e-12)); d != "" {
		t.Errorf("unexpected samples (-want +got):\n%s", d)
	}
}

func TestBilinearOnCentres(t *testing.T) {
	// When target and source grids coincide, no neighbour is needed and
	// the edge pixels stay valid.
	src := ramp(3, 2)
	e := NewEngine[float64](Bilinear)
	out := e.Resample(grid.Geometry{Window: src.Window, Transform: unit}, src, unit)
	if d := cmp.Diff(values(src), values(out)); d != "" {
		t.Errorf("unexpected samples (-want +got):\n%s", d)
	}
}

func TestInterpolationSkipsMissing(t *testing.T) {
	for _, mode := range []Mode{Bilinear, Bicubic} {
		t.Run(mode.String(), func(t *testing.T) {
			src := ramp(6, 6)
			src.Invalidate(0, 2, 2)
			e := NewEngine[float64](mode)

			dst := grid.Geometry{
				Window:    grid.Window{Width: 5, Height: 5},
				Transform: grid.Must(grid.NewTransform(matrix.Matrix{1, 0, 0, 1, 0.5, 0.5})),
			}
			out := e.Resample(dst, src, unit)

			// target pixel (1,1) maps to the point between source
			// pixels (1..2, 1..2), which needs the missing pixel.
			if _, ok := out.At(0, 1, 1); ok {
				t.Error("interpolated across a missing sample")
			}
			// far away from the hole, values are defined
			if mode == Bilinear {
				if _, ok := out.At(0, 4, 4); !ok {
					t.Error("pixel away from the hole should be valid")
				}
			} else if _, ok := out.At(0, 3, 3); ok {
				t.Error("bicubic kernel at (3,3) reaches the hole")
			}
		})
	}
}

func TestBicubicLinearField(t *testing.T) {
	src := ramp(8, 8)
	e := NewEngine[float64](Bicubic)

	dst := grid.Geometry{
		Window:    grid.Window{X0: 2, Y0: 2, Width: 3, Height: 3},
		Transform: grid.Must(grid.NewTransform(matrix.Matrix{1, 0, 0, 1, 0.25, 0.25})),
	}
	out := e.Resample(dst, src, unit)
	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			v, ok := out.At(0, x, y)
			if !ok {
				t.Fatalf("pixel (%d, %d) is missing", x, y)
			}
			want := float64(x) + 0.25 + 10*(float64(y)+0.25)
			if math.Abs(v-want) > 1e-9 {
				t.Errorf("pixel (%d, %d): expected %g, got %g", x, y, want, v)
			}
		}
	}
}

func TestIntegerRounding(t *testing.T) {
	win := grid.Window{Width: 2, Height: 1}
	src := sample.FromSentinel(win, 1, []uint8{250, 255}, 0)
	e := NewEngine[uint8](Bilinear)

	dst := grid.Geometry{
		Window:    grid.Window{Width: 1, Height: 1},
		Transform: grid.Must(grid.NewTransform(matrix.Matrix{1, 0, 0, 1, 0.5, 0})),
	}
	out := e.Resample(dst, src, unit)
	if v, ok := out.At(0, 0, 0); !ok || v != 253 {
		t.Errorf("expected (253, true), got (%d, %t)", v, ok)
	}

	// Catmull-Rom overshoots at a step; the result must be clamped.
	step := sample.FromSentinel(grid.Window{Width: 4, Height: 1}, 1, []uint8{1, 255, 255, 255}, 0)
	ec := NewEngine[uint8](Bicubic)
	dst = grid.Geometry{
		Window:    grid.Window{X0: 1, Width: 1, Height: 1},
		Transform: grid.Must(grid.NewTransform(matrix.Matrix{1, 0, 0, 1, 0.25, 0})),
	}
	out = ec.Resample(dst, step, unit)
	if v, ok := out.At(0, 1, 0); !ok || v != 255 {
		t.Errorf("expected clamped (255, true), got (%d, %t)", v, ok)
	}
}

func TestMultiBand(t *testing.T) {
	win := grid.Window{Width: 2, Height: 1}
	src := sample.FromSentinel(win, 2, []int32{1, 2, -1, 20}, -1)
	e := NewEngine[int32](Nearest)

	out := e.Resample(grid.Geometry{Window: win, Transform: unit}, src, unit)
	if out.Bands != 2 {
		t.Fatalf("expected 2 bands, got %d", out.Bands)
	}
	if _, ok := out.At(1, 0, 0); ok {
		t.Error("band 1 of pixel 0 should stay no-data")
	}
	if v, ok := out.At(1, 1, 0); !ok || v != 20 {
		t.Errorf("expected (20, true), got (%d, %t)", v, ok)
	}
}

func TestSourceWindow(t *testing.T) {
	src := grid.Geometry{
		Window:    grid.Window{Width: 100, Height: 100},
		Transform: grid.Must(grid.NewTransform(matrix.Matrix{0.5, 0, 0, 0.5, 0, 0})),
	}
	dst := grid.Geometry{
		Window:    grid.Window{X0: 10, Y0: 10, Width: 5, Height: 5},
		Transform: unit,
	}

	w, ok := SourceWindow(dst, src, Nearest)
	if !ok || w != (grid.Window{X0: 20, Y0: 20, Width: 10, Height: 10}) {
		t.Errorf("nearest: unexpected window %v/%t", w, ok)
	}

	w, ok = SourceWindow(dst, src, Bicubic)
	if !ok || w != (grid.Window{X0: 18, Y0: 18, Width: 14, Height: 14}) {
		t.Errorf("bicubic: unexpected window %v/%t", w, ok)
	}

	far := grid.Geometry{Window: grid.Window{X0: 500, Width: 5, Height: 5}, Transform: unit}
	if _, ok := SourceWindow(far, src, Nearest); ok {
		t.Error("disjoint geometries should not need a window")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Nearest, Bilinear, Bicubic} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("%s: got %v, %v", m, got, err)
		}
	}
	if _, err := ParseMode("lanczos"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func BenchmarkResample(b *testing.B) {
	src := ramp(512, 512)
	dst := grid.Geometry{
		Window:    grid.Window{Width: 700, Height: 700},
		Transform: grid.Must(grid.NewTransform(matrix.Matrix{0.7, 0.1, -0.1, 0.7, 3, 5})),
	}
	for _, mode := range []Mode{Nearest, Bilinear, Bicubic} {
		b.Run(mode.String(), func(b *testing.B) {
			e := NewEngine[float64](mode)
			b.ReportAllocs()
			for b.Loop() {
				e.Resample(dst, src, unit)
			}
		})
	}
}
