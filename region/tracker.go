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

// Package region tracks which pixels of a grid have been filled.
package region

import (
	"math/bits"
)

// Rect is a half-open rectangle of pixel indices: X0 <= x < X1 and
// Y0 <= y < Y1.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Dx returns the width of r.
func (r Rect) Dx() int { return r.X1 - r.X0 }

// Dy returns the height of r.
func (r Rect) Dy() int { return r.Y1 - r.Y0 }

// Empty reports whether r contains no pixels.
func (r Rect) Empty() bool { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }

// Intersect returns the largest rectangle contained in both r and s.
func (r Rect) Intersect(s Rect) Rect {
	res := Rect{
		X0: max(r.X0, s.X0),
		Y0: max(r.Y0, s.Y0),
		X1: min(r.X1, s.X1),
		Y1: min(r.Y1, s.Y1),
	}
	if res.Empty() {
		return Rect{}
	}
	return res
}

// Tracker is a dense bit mask over a width × height grid, one bit per
// pixel in row-major order.
//
// Besides the bits themselves, the Tracker maintains the bounding
// rectangles of the set bits and of the clear bits. Setting bits can only
// grow the first and clearing bits can only grow the second; both updates
// are O(1). When a change removes a bit from the edge of a bounding
// rectangle, the rectangle is marked as stale and is shrunk on the next
// query by rescanning its edge rows and columns only.
//
// Because queries may update the cached rectangles, a Tracker is not safe
// for concurrent use, even by readers.
type Tracker struct {
	width, height int
	stride        int // words per row
	words         []uint64
	count         int // number of set bits

	set   box // bounding box of the set bits, valid if count > 0
	clear box // bounding box of the clear bits, valid if count < total
}

// box is an inclusive bounding box. If stale is true, the box contains
// all relevant bits but may not be tight.
type box struct {
	x0, y0, x1, y1 int
	stale          bool
}

// New returns a tracker for a width × height grid with all bits clear.
// Negative sizes are treated as zero.
func New(width, height int) *Tracker {
	width = max(width, 0)
	height = max(height, 0)
	stride := (width + 63) / 64
	t := &Tracker{
		width:  width,
		height: height,
		stride: stride,
		words:  make([]uint64, stride*height),
	}
	t.clear = box{x0: 0, y0: 0, x1: width - 1, y1: height - 1}
	return t
}

// Width returns the number of columns of the grid.
func (t *Tracker) Width() int { return t.width }

// Height returns the number of rows of the grid.
func (t *Tracker) Height() int { return t.height }

// Count returns the number of set bits.
func (t *Tracker) Count() int { return t.count }

// Full reports whether every bit is set. A tracker for an empty grid is
// always full.
func (t *Tracker) Full() bool { return t.count == t.width*t.height }

// Reset clears all bits.
func (t *Tracker) Reset() {
	clear(t.words)
	t.count = 0
	t.set = box{}
	t.clear = box{x0: 0, y0: 0, x1: t.width - 1, y1: t.height - 1}
}

// Get reports whether the bit for pixel (x, y) is set.
// Pixels outside the grid read as clear.
func (t *Tracker) Get(x, y int) bool {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return false
	}
	return t.words[y*t.stride+x/64]&(1<<(x%64)) != 0
}

// Set sets the bit for pixel (x, y) to v. Pixels outside the grid are
// ignored.
func (t *Tracker) Set(x, y int, v bool) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	idx := y*t.stride + x/64
	mask := uint64(1) << (x % 64)
	if (t.words[idx]&mask != 0) == v {
		return
	}

	total := t.width * t.height
	if v {
		t.set.grow(t.count > 0, x, y, x, y)
		t.words[idx] |= mask
		t.count++
		if t.count < total {
			t.clear.removed(x, y, x, y)
		}
	} else {
		t.clear.grow(t.count < total, x, y, x, y)
		t.words[idx] &^= mask
		t.count--
		if t.count > 0 {
			t.set.removed(x, y, x, y)
		}
	}
}

// SetRect sets all bits in the w × h rectangle with upper-left corner
// (x0, y0) to v. The rectangle is clipped to the grid. The result is the
// same as calling Set for every pixel, but whole words are written at a
// time and the bounding rectangles are updated once.
func (t *Tracker) SetRect(x0, y0, w, h int, v bool) {
	x1 := min(x0+w, t.width)
	y1 := min(y0+h, t.height)
	x0 = max(x0, 0)
	y0 = max(y0, 0)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	hadSet := t.count > 0
	total := t.width * t.height
	hadClear := t.count < total

	changed := 0
	for y := y0; y < y1; y++ {
		row := t.words[y*t.stride : (y+1)*t.stride]
		for i := x0 / 64; i <= (x1-1)/64; i++ {
			m := rangeMask(i, x0, x1)
			old := row[i]
			if v {
				row[i] |= m
			} else {
				row[i] &^= m
			}
			changed += bits.OnesCount64(old ^ row[i])
		}
	}
	if changed == 0 {
		return
	}

	if v {
		t.count += changed
		t.set.grow(hadSet, x0, y0, x1-1, y1-1)
		if t.count < total {
			t.clear.removed(x0, y0, x1-1, y1-1)
		}
	} else {
		t.count -= changed
		t.clear.grow(hadClear, x0, y0, x1-1, y1-1)
		if t.count > 0 {
			t.set.removed(x0, y0, x1-1, y1-1)
		}
	}
}

// BoundsOfSet returns the tightest rectangle containing all set bits.
// The second return value is false if no bit is set.
func (t *Tracker) BoundsOfSet() (Rect, bool) {
	if t.count == 0 {
		return Rect{}, false
	}
	if t.set.stale {
		t.shrink(&t.set, true)
	}
	return t.set.rect(), true
}

// BoundsOfClear returns the tightest rectangle containing all clear bits.
// The second return value is false if every bit is set.
func (t *Tracker) BoundsOfClear() (Rect, bool) {
	if t.Full() {
		return Rect{}, false
	}
	if t.clear.stale {
		t.shrink(&t.clear, false)
	}
	return t.clear.rect(), true
}

// IntersectBoundsOfSet returns the tightest rectangle containing all
// pixels whose bit is set in both t and other. The second return value
// is false if there are no such pixels.
//
// If the bounding rectangles of the two trackers do not overlap, no bits
// are examined. Otherwise only the overlap of the two rectangles is
// scanned, one 64-bit word at a time.
func (t *Tracker) IntersectBoundsOfSet(other *Tracker) (Rect, bool) {
	a, ok := t.BoundsOfSet()
	if !ok {
		return Rect{}, false
	}
	b, ok := other.BoundsOfSet()
	if !ok {
		return Rect{}, false
	}
	r := a.Intersect(b)
	if r.Empty() {
		return Rect{}, false
	}

	res := box{x0: r.X1, y0: r.Y1, x1: r.X0 - 1, y1: r.Y0 - 1}
	found := false
	for y := r.Y0; y < r.Y1; y++ {
		rowA := t.words[y*t.stride : (y+1)*t.stride]
		rowB := other.words[y*other.stride : (y+1)*other.stride]
		first, last := r.X0/64, (r.X1-1)/64

		lo := -1
		for i := first; i <= last; i++ {
			if w := rowA[i] & rowB[i] & rangeMask(i, r.X0, r.X1); w != 0 {
				lo = i*64 + bits.TrailingZeros64(w)
				break
			}
		}
		if lo < 0 {
			continue
		}
		hi := lo
		for i := last; i >= lo/64; i-- {
			if w := rowA[i] & rowB[i] & rangeMask(i, r.X0, r.X1); w != 0 {
				hi = i*64 + 63 - bits.LeadingZeros64(w)
				break
			}
		}

		found = true
		res.x0 = min(res.x0, lo)
		res.x1 = max(res.x1, hi)
		res.y0 = min(res.y0, y)
		res.y1 = y
	}
	if !found {
		return Rect{}, false
	}
	return res.rect(), true
}

// shrink makes a stale box tight again. Only bits equal to want count as
// members. The box must contain at least one member.
func (t *Tracker) shrink(b *box, want bool) {
	for b.y0 < b.y1 && !t.rowHas(b.y0, b.x0, b.x1, want) {
		b.y0++
	}
	for b.y1 > b.y0 && !t.rowHas(b.y1, b.x0, b.x1, want) {
		b.y1--
	}
	for b.x0 < b.x1 && !t.colHas(b.x0, b.y0, b.y1, want) {
		b.x0++
	}
	for b.x1 > b.x0 && !t.colHas(b.x1, b.y0, b.y1, want) {
		b.x1--
	}
	b.stale = false
}

// rowHas reports whether row y has a bit equal to want in columns
// x0, ..., x1.
func (t *Tracker) rowHas(y, x0, x1 int, want bool) bool {
	row := t.words[y*t.stride : (y+1)*t.stride]
	for i := x0 / 64; i <= x1/64; i++ {
		w := row[i]
		if !want {
			w = ^w
		}
		if w&rangeMask(i, x0, x1+1) != 0 {
			return true
		}
	}
	return false
}

// colHas reports whether column x has a bit equal to want in rows
// y0, ..., y1.
func (t *Tracker) colHas(x, y0, y1 int, want bool) bool {
	idx := y0*t.stride + x/64
	mask := uint64(1) << (x % 64)
	for y := y0; y <= y1; y++ {
		if (t.words[idx]&mask != 0) == want {
			return true
		}
		idx += t.stride
	}
	return false
}

// rangeMask returns the bits of word i which correspond to columns
// x0 <= x < x1.
func rangeMask(i, x0, x1 int) uint64 {
	lo := max(x0-i*64, 0)
	hi := min(x1-i*64, 64)
	if lo >= hi {
		return 0
	}
	m := ^uint64(0) << lo
	if hi < 64 {
		m &= (uint64(1) << hi) - 1
	}
	return m
}

// grow extends the box to include the given inclusive rectangle. If the
// box held no members before, it is replaced.
func (b *box) grow(had bool, x0, y0, x1, y1 int) {
	if !had {
		*b = box{x0: x0, y0: y0, x1: x1, y1: y1}
		return
	}
	b.x0 = min(b.x0, x0)
	b.y0 = min(b.y0, y0)
	b.x1 = max(b.x1, x1)
	b.y1 = max(b.y1, y1)
}

// removed records that members inside the given inclusive rectangle have
// gone away. The box becomes stale if the rectangle reaches one of its
// edges; removals strictly inside cannot change the bounds.
func (b *box) removed(x0, y0, x1, y1 int) {
	if x1 < b.x0 || x0 > b.x1 || y1 < b.y0 || y0 > b.y1 {
		return
	}
	if x0 <= b.x0 || x1 >= b.x1 || y0 <= b.y0 || y1 >= b.y1 {
		b.stale = true
	}
}

func (b box) rect() Rect {
	return Rect{X0: b.x0, Y0: b.y0, X1: b.x1 + 1, Y1: b.y1 + 1}
}
