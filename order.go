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
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats/scalar"

	"seehuhn.de/go/mosaic/sample"
)

// DefaultScaleTolerance is the default relative tolerance below which two
// native pixel sizes count as equal for the [Scale] policy.
const DefaultScaleTolerance = 1e-6

// sortMembers puts ms into the order in which the sources are consulted.
//
// For Scale, members are grouped into resolution classes: starting from
// the finest remaining member, every member whose pixel size is equal to
// that of the first one up to the relative tolerance tol joins the class.
// Classes are ordered from fine to coarse, and members inside a class by
// priority. Grouping relative to the first member of a class keeps the
// order well defined when near-equal sizes form a chain.
func sortMembers[T sample.Number](ms []Member[T], policy MergePolicy, tol float64) {
	byPriority := func(a, b Member[T]) int {
		return cmp.Compare(a.Priority, b.Priority)
	}
	if policy != Scale {
		slices.SortFunc(ms, byPriority)
		return
	}

	slices.SortFunc(ms, func(a, b Member[T]) int {
		return cmp.Or(cmp.Compare(a.PixelSize, b.PixelSize), byPriority(a, b))
	})
	for i := 0; i < len(ms); {
		j := i + 1
		for j < len(ms) && scalar.EqualWithinRel(ms[i].PixelSize, ms[j].PixelSize, tol) {
			j++
		}
		if j-i > 1 {
			slices.SortFunc(ms[i:j], byPriority)
		}
		i = j
	}
}
