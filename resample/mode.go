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
	"fmt"
	"math"
	"strings"
)

// Mode selects how sample values are computed from the source pixels
// around a mapped point.
type Mode uint8

const (
	// Nearest copies the source pixel containing the mapped point.
	Nearest Mode = iota

	// Bilinear interpolates linearly between the 2×2 source pixels whose
	// centres surround the mapped point.
	Bilinear

	// Bicubic uses Catmull-Rom splines over a 4×4 neighbourhood.
	Bicubic
)

func (m Mode) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	case Bicubic:
		return "bicubic"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode converts the name of an interpolation mode, as returned by
// [Mode.String], back to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "nearest":
		return Nearest, nil
	case "bilinear":
		return Bilinear, nil
	case "bicubic":
		return Bicubic, nil
	}
	return 0, fmt.Errorf("resample: unknown interpolation mode %q", s)
}

// Margin returns the number of source pixels the kernel reaches beyond the
// pixel containing the mapped point.
func (m Mode) Margin() int {
	switch m {
	case Bilinear:
		return 1
	case Bicubic:
		return 2
	default:
		return 0
	}
}

// kernel describes the source pixels which contribute to one mapped
// coordinate along one axis: pixels base, base+1, ..., base+n-1 with the
// given weights. Taps with negligible weight are dropped, so that a point
// exactly on a pixel centre only needs that pixel.
type kernel struct {
	base int
	n    int
	w    [4]float64
}

// kernel computes the taps along one axis for grid coordinate s.
func (m Mode) kernel(s float64) kernel {
	var k kernel
	switch m {
	case Bilinear:
		f := s - 0.5
		fl := math.Floor(f)
		t := f - fl
		k.base = int(fl)
		k.w = [4]float64{1 - t, t}
		k.n = 2
	case Bicubic:
		f := s - 0.5
		fl := math.Floor(f)
		t := f - fl
		k.base = int(fl) - 1
		k.w = [4]float64{
			((-0.5*t+1)*t - 0.5) * t,
			(1.5*t-2.5)*t*t + 1,
			((-1.5*t+2)*t + 0.5) * t,
			(0.5*t - 0.5) * t * t,
		}
		k.n = 4
	default:
		k.base = int(math.Floor(s))
		k.w[0] = 1
		k.n = 1
		return k
	}

	// Trim zero-weight taps from both ends.
	for k.n > 1 && math.Abs(k.w[0]) < weightThreshold {
		copy(k.w[:], k.w[1:])
		k.w[3] = 0
		k.base++
		k.n--
	}
	for k.n > 1 && math.Abs(k.w[k.n-1]) < weightThreshold {
		k.w[k.n-1] = 0
		k.n--
	}
	return k
}

// weightThreshold is the weight below which a kernel tap is ignored.
// A source pixel with a smaller weight is not required to be valid.
const weightThreshold = 1e-9
