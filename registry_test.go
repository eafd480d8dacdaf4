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

package mosaic

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/mosaic/grid"
	"seehuhn.de/go/mosaic/sample"
	"seehuhn.de/go/mosaic/source"
)

func memSource(t *testing.T, m matrix.Matrix, w, h, bands int) *source.Memory[float64] {
	t.Helper()
	tr, err := grid.NewTransform(m)
	require.NoError(t, err)
	return source.NewMemory(tr, sample.New[float64](grid.Window{Width: w, Height: h}, bands))
}

func TestRegistryEnvelopeLaw(t *testing.T) {
	reg := NewRegistry[float64]()
	_, ok := reg.Envelope()
	assert.False(t, ok, "an empty registry has no envelope")

	a := memSource(t, matrix.Matrix{1, 0, 0, 1, 0, 0}, 10, 10, 1)
	b := memSource(t, matrix.Matrix{0.5, 0, 0, 0.5, 3, 4}, 4, 2, 1)

	ma, err := reg.Add(a)
	require.NoError(t, err)
	mb, err := reg.Add(b)
	require.NoError(t, err)

	env, ok := reg.Envelope()
	require.True(t, ok)
	assert.Equal(t, rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 10}, env)

	require.True(t, reg.Remove(a))
	env, ok = reg.Envelope()
	require.True(t, ok)
	assert.Equal(t, b.Geometry().Envelope(), env)
	assert.Equal(t, rect.Rect{LLx: 3, LLy: 4, URx: 5, URy: 5}, env)

	assert.False(t, reg.Remove(a), "a removed source is no longer registered")
	assert.True(t, reg.RemoveID(mb.ID))
	_, ok = reg.Envelope()
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
	assert.NotEqual(t, ma.ID, mb.ID)
}

func TestRegistryPriorities(t *testing.T) {
	reg := NewRegistry[float64]()
	var srcs []*source.Memory[float64]
	for i := range 4 {
		src := memSource(t, matrix.Identity, 2, 2, i+1)
		srcs = append(srcs, src)
		m, err := reg.Add(src)
		require.NoError(t, err)
		assert.Equal(t, i, m.Priority)
		assert.Equal(t, i+1, m.Bands)
		assert.InDelta(t, 1.0, m.PixelSize, 1e-12)
	}
	assert.Equal(t, 4, reg.Bands())

	require.True(t, reg.Remove(srcs[3]))
	assert.Equal(t, 3, reg.Bands(), "band count is recomputed on removal")

	// new members always get a fresh, larger priority
	m, err := reg.Add(srcs[3])
	require.NoError(t, err)
	assert.Equal(t, 4, m.Priority)

	var prios []int
	for _, m := range reg.Members() {
		prios = append(prios, m.Priority)
	}
	assert.Equal(t, []int{0, 1, 2, 4}, prios)
}

// valueSource is not comparable, because it contains a slice.
type valueSource struct {
	data []float64
}

func (valueSource) Geometry() grid.Geometry {
	return grid.Geometry{Window: grid.Window{Width: 1, Height: 1}, Transform: unit}
}
func (valueSource) Bands() int { return 1 }
func (valueSource) Read(context.Context, grid.Window) (*sample.Buffer[float64], error) {
	return nil, nil
}

// boxSource has a comparable type, but its values are only comparable
// if payload holds a comparable value.
type boxSource struct {
	payload any
}

func (boxSource) Geometry() grid.Geometry {
	return grid.Geometry{Window: grid.Window{Width: 1, Height: 1}, Transform: unit}
}
func (boxSource) Bands() int { return 1 }
func (boxSource) Read(context.Context, grid.Window) (*sample.Buffer[float64], error) {
	return nil, nil
}

func TestRegistryRejects(t *testing.T) {
	reg := NewRegistry[float64]()

	singular := source.NewMemory(grid.Transform{}, sample.New[float64](grid.Window{Width: 2, Height: 2}, 1))
	noBands := memSource(t, matrix.Identity, 2, 2, 0)
	empty := memSource(t, matrix.Identity, 0, 5, 1)
	dup := memSource(t, matrix.Identity, 1, 1, 1)
	_, err := reg.Add(dup)
	require.NoError(t, err)

	cases := []struct {
		name string
		src  Source[float64]
		want error
	}{
		{"singular", singular, grid.ErrSingular},
		{"no bands", noBands, ErrNoBands},
		{"empty", empty, ErrEmptyGrid},
		{"duplicate", dup, ErrDuplicate},
		{"not comparable", valueSource{}, ErrNotComparable},
		{"slice in interface", boxSource{payload: []int{1}}, ErrNotComparable},
		{"nil", nil, ErrNotComparable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := reg.Add(c.src)
			var cfg *ConfigurationError
			require.True(t, errors.As(err, &cfg), "expected a ConfigurationError, got %v", err)
			assert.ErrorIs(t, err, c.want)
		})
	}
	assert.Equal(t, 1, reg.Len())
	assert.False(t, reg.Remove(valueSource{}))

	// comparable values of the same type coexist with non-comparable ones
	_, err = reg.Add(boxSource{payload: 1})
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		assert.False(t, reg.Remove(boxSource{payload: []int{2}}))
	})
	assert.True(t, reg.Remove(boxSource{payload: 1}))
}

func TestMembersIntersecting(t *testing.T) {
	reg := NewRegistry[float64]()
	left := memSource(t, matrix.Identity, 4, 4, 1)
	right := memSource(t, matrix.Matrix{1, 0, 0, 1, 10, 0}, 4, 4, 1)
	_, err := reg.Add(left)
	require.NoError(t, err)
	_, err = reg.Add(right)
	require.NoError(t, err)

	collect := func(seq func(func(Member[float64]) bool)) []Source[float64] {
		var res []Source[float64]
		for m := range seq {
			res = append(res, m.Source)
		}
		return res
	}

	seq := reg.MembersIntersecting(rect.Rect{LLx: 2, LLy: 2, URx: 12, URy: 3})
	assert.Equal(t, []Source[float64]{left, right}, collect(seq))

	// restartable, and each iteration sees the current members
	require.True(t, reg.Remove(left))
	assert.Equal(t, []Source[float64]{right}, collect(seq))

	// touching edges do not count
	edge := reg.MembersIntersecting(rect.Rect{LLx: 14, LLy: 0, URx: 20, URy: 4})
	assert.Empty(t, collect(edge))

	// early exit
	_, err = reg.Add(left)
	require.NoError(t, err)
	n := 0
	for range reg.MembersIntersecting(rect.Rect{LLx: -100, LLy: -100, URx: 100, URy: 100}) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestSortMembers(t *testing.T) {
	mk := func(prio int, size float64) Member[float64] {
		return Member[float64]{Priority: prio, PixelSize: size}
	}
	prios := func(ms []Member[float64]) []int {
		var res []int
		for _, m := range ms {
			res = append(res, m.Priority)
		}
		return res
	}

	ms := []Member[float64]{mk(0, 2), mk(1, 0.5), mk(2, 1), mk(3, 0.5)}
	sortMembers(ms, Order, DefaultScaleTolerance)
	assert.Equal(t, []int{0, 1, 2, 3}, prios(ms))
	sortMembers(ms, Scale, DefaultScaleTolerance)
	assert.Equal(t, []int{1, 3, 2, 0}, prios(ms))

	// A chain of near-equal sizes is grouped relative to the finest one.
	chain := []Member[float64]{mk(0, 1+1.2e-6), mk(1, 1+0.6e-6), mk(2, 1)}
	sortMembers(chain, Scale, 1e-6)
	assert.Equal(t, []int{1, 2, 0}, prios(chain))

	// zero tolerance orders strictly by size
	chain = []Member[float64]{mk(0, 1+1.2e-6), mk(1, 1+0.6e-6), mk(2, 1)}
	sortMembers(chain, Scale, 0)
	assert.Equal(t, []int{2, 1, 0}, prios(chain))

	assert.True(t, slices.IsSortedFunc(ms, func(a, b Member[float64]) int {
		switch {
		case a.PixelSize < b.PixelSize:
			return -1
		case a.PixelSize > b.PixelSize:
			return 1
		}
		return 0
	}))
}

func TestMergePolicyString(t *testing.T) {
	assert.Equal(t, "order", Order.String())
	assert.Equal(t, "scale", Scale.String())
	assert.Equal(t, "MergePolicy(7)", MergePolicy(7).String())
}
