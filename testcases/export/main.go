// Command export writes the compositing scenarios to JSON, together with
// a 16-bit TIFF image of every composite, for inspection in GIS tools.
// Run from the module root directory.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/image/tiff"
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/mosaic"
	"seehuhn.de/go/mosaic/sample"
	"seehuhn.de/go/mosaic/source"
	"seehuhn.de/go/mosaic/testcases"
)

func main() {
	var out struct {
		Scenarios []jsonScenario `json:"scenarios"`
	}

	imgDir := filepath.Join("testdata", "composite")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name
			buf, err := composite(sc)
			if err != nil {
				panic(fmt.Sprintf("%s: %v", name, err))
			}
			if err := writeTIFF(filepath.Join(imgDir, name+".tiff"), buf); err != nil {
				panic(err)
			}
			out.Scenarios = append(out.Scenarios, toJSON(name, sc, buf))
		}
	}

	f, err := os.Create(filepath.Join("testdata", "scenarios.json"))
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

func composite(sc testcases.Scenario) (*sample.Buffer[float64], error) {
	reg := mosaic.NewRegistry[float64]()
	for _, r := range sc.Sources {
		if _, err := reg.Add(r.Source()); err != nil {
			return nil, err
		}
	}
	policy := mosaic.Order
	if sc.Policy == testcases.Scale {
		policy = mosaic.Scale
	}
	c := mosaic.NewCompositor(reg)
	return c.Read(context.Background(), sc.Target.Window, sc.Target.Transform, policy)
}

// writeTIFF stores the first band of buf as a 16-bit gray image. Values
// are rounded and clamped to 1, ..., 65535; no-data is written as 0.
func writeTIFF(fname string, buf *sample.Buffer[float64]) error {
	gray := sample.New[uint16](buf.Window, 1)
	w := buf.Window
	for y := w.Y0; y < w.MaxY(); y++ {
		for x := w.X0; x < w.MaxX(); x++ {
			if v, ok := buf.At(0, x, y); ok {
				gray.Set(0, x, y, uint16(min(max(math.Round(v), 1), math.MaxUint16)))
			}
		}
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := tiff.Encode(f, source.Gray16(gray, 0, 0), nil); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// jsonScenario describes one scenario. Sample values are band-major,
// with null for no-data.
type jsonScenario struct {
	Name       string          `json:"name"`
	Policy     string          `json:"policy"`
	Target     jsonGrid        `json:"target"`
	Sources    []jsonGrid      `json:"sources"`
	Footprints [][]jsonSegment `json:"footprints"`
	Want       []*float64      `json:"want"`
	Composite  []*float64      `json:"composite"`
}

type jsonGrid struct {
	Window    [4]int     `json:"window"` // x0, y0, width, height
	Transform [6]float64 `json:"transform"`
	Bands     int        `json:"bands,omitempty"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

func toJSON(name string, sc testcases.Scenario, buf *sample.Buffer[float64]) jsonScenario {
	t := sc.Target
	js := jsonScenario{
		Name:   name,
		Policy: sc.Policy.String(),
		Target: jsonGrid{
			Window:    [4]int{t.Window.X0, t.Window.Y0, t.Window.Width, t.Window.Height},
			Transform: t.Transform.Matrix(),
		},
		Want:      samples(sc.Want),
		Composite: samples(buf.Sentinel(math.NaN())),
	}
	for _, r := range sc.Sources {
		g := r.Geometry()
		js.Sources = append(js.Sources, jsonGrid{
			Window:    [4]int{g.Window.X0, g.Window.Y0, g.Window.Width, g.Window.Height},
			Transform: r.Transform,
			Bands:     max(r.Bands, 1),
		})
		js.Footprints = append(js.Footprints, pathToJSON(g.Footprint()))
	}
	return js
}

func samples(vals []float64) []*float64 {
	res := make([]*float64, len(vals))
	for i, v := range vals {
		if !math.IsNaN(v) {
			res[i] = &v
		}
	}
	return res
}

func pathToJSON(p path.Path) []jsonSegment {
	var segs []jsonSegment
	for cmd, pts := range p {
		seg := jsonSegment{Pts: make([][]float64, len(pts))}
		switch cmd {
		case path.CmdMoveTo:
			seg.Cmd = "M"
		case path.CmdLineTo:
			seg.Cmd = "L"
		case path.CmdClose:
			seg.Cmd = "Z"
		}
		for i, pt := range pts {
			seg.Pts[i] = []float64{pt.X, pt.Y}
		}
		segs = append(segs, seg)
	}
	return segs
}
