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

package source

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/tiff"

	"seehuhn.de/go/mosaic/grid"
	"seehuhn.de/go/mosaic/sample"
)

// Image serves the pixels of an [image.Image] as 16-bit samples.
//
// Gray and Gray16 images have one band holding the gray value, at the
// bit depth of the image. All other images have three bands holding the
// red, green and blue components at 16 bits, not premultiplied by alpha;
// fully transparent pixels are no-data.
//
// The pixel grid of the source is the coordinate system of the image:
// the native window is img.Bounds().
type Image struct {
	// NoData, if not nil, is a sample value which marks missing data.
	// It applies to every band.
	NoData *uint16

	img   image.Image
	tr    grid.Transform
	bands int
}

// NewImage returns a source for img, placed in world space by tr.
func NewImage(img image.Image, tr grid.Transform) *Image {
	bands := 3
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		bands = 1
	}
	return &Image{img: img, tr: tr, bands: bands}
}

// DecodeTIFF reads a TIFF image from r and returns it as a source placed
// in world space by tr.
func DecodeTIFF(r io.Reader, tr grid.Transform) (*Image, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("source: decoding TIFF: %w", err)
	}
	return NewImage(img, tr), nil
}

// Geometry returns the bounds of the image together with its transform.
func (s *Image) Geometry() grid.Geometry {
	b := s.img.Bounds()
	return grid.Geometry{
		Window:    grid.Window{X0: b.Min.X, Y0: b.Min.Y, Width: b.Dx(), Height: b.Dy()},
		Transform: s.tr,
	}
}

// Bands returns 1 for gray images and 3 otherwise.
func (s *Image) Bands() int {
	return s.bands
}

// Read converts the pixels in win to samples.
func (s *Image) Read(ctx context.Context, win grid.Window) (*sample.Buffer[uint16], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := sample.New[uint16](win, s.bands)
	common := win.Intersect(s.Geometry().Window)
	for y := common.Y0; y < common.MaxY(); y++ {
		for x := common.X0; x < common.MaxX(); x++ {
			switch img := s.img.(type) {
			case *image.Gray:
				s.set(buf, 0, x, y, uint16(img.GrayAt(x, y).Y))
			case *image.Gray16:
				s.set(buf, 0, x, y, img.Gray16At(x, y).Y)
			default:
				c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
				if c.A == 0 {
					continue
				}
				s.set(buf, 0, x, y, c.R)
				s.set(buf, 1, x, y, c.G)
				s.set(buf, 2, x, y, c.B)
			}
		}
	}
	return buf, nil
}

func (s *Image) set(buf *sample.Buffer[uint16], band, x, y int, v uint16) {
	if s.NoData != nil && v == *s.NoData {
		return
	}
	buf.Set(band, x, y, v)
}

// Gray16 returns one band of buf as a 16-bit gray image, with nodata
// stored in place of missing samples. The image bounds equal the buffer
// window.
func Gray16(buf *sample.Buffer[uint16], band int, nodata uint16) *image.Gray16 {
	w := buf.Window
	img := image.NewGray16(image.Rect(w.X0, w.Y0, w.MaxX(), w.MaxY()))
	for y := w.Y0; y < w.MaxY(); y++ {
		for x := w.X0; x < w.MaxX(); x++ {
			v, ok := buf.At(band, x, y)
			if !ok {
				v = nodata
			}
			img.SetGray16(x, y, color.Gray16{Y: v})
		}
	}
	return img
}
