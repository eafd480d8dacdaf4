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
	"sync"

	"golang.org/x/sync/errgroup"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/mosaic/grid"
	"seehuhn.de/go/mosaic/region"
	"seehuhn.de/go/mosaic/resample"
	"seehuhn.de/go/mosaic/sample"
)

// Compositor reads composite rasters from the sources of a [Registry].
//
// A read allocates an output buffer for the requested window, filled with
// no-data, and a [region.Tracker] of the same size. The candidate sources,
// those whose envelope overlaps the requested area, are then visited in
// the order given by the merge policy. Each source is resampled onto the
// whole target grid, and its values are copied into every pixel which is
// still unfilled and where the source has at least one valid band. All
// bands of such a pixel come from the same source. The read stops once
// every pixel is filled or all candidates have been visited.
//
// Before a source is read, its footprint is scan converted onto the
// target grid. Sources whose footprint contains no unfilled pixel centre
// are not read at all.
//
// The configuration fields must not be changed while a read is in
// progress. Apart from that, a Compositor is safe for concurrent use.
type Compositor[T sample.Number] struct {
	// Registry holds the sources. It may be modified concurrently with
	// reads; each read works on a snapshot taken when it starts.
	Registry *Registry[T]

	// Interpolation selects the resampling method.
	Interpolation resample.Mode

	// Workers is the number of sources which are resampled concurrently.
	// Values below 2 select sequential processing. Results are always
	// merged in policy order, so the output does not depend on Workers.
	Workers int

	// ScaleTolerance is the relative tolerance used by the [Scale] policy
	// to decide whether two sources have the same resolution.
	ScaleTolerance float64

	// OnSourceError, if set, is called for every source which fails to
	// provide data during a read. Calls are made in candidate order from
	// the goroutine which called the read method, also when Workers > 1.
	OnSourceError func(*SourceError)

	engines sync.Pool
}

// NewCompositor returns a Compositor for the given registry, using
// nearest neighbour resampling and sequential processing.
func NewCompositor[T sample.Number](reg *Registry[T]) *Compositor[T] {
	return &Compositor[T]{
		Registry:       reg,
		Interpolation:  resample.Nearest,
		Workers:        1,
		ScaleTolerance: DefaultScaleTolerance,
	}
}

// Stats summarises a composite read.
type Stats struct {
	Candidates int  // sources whose envelope overlaps the target
	Visited    int  // sources which were resampled
	Failed     int  // visited sources which returned an error
	Culled     int  // candidates which could not reach an unfilled pixel
	Skipped    int  // candidates left out because the target was full
	Filled     int  // target pixels with data
	Complete   bool // whether every target pixel has data
}

// Read returns the composite of all registered sources for window win of
// the grid described by tr. The result has one band for each band of the
// widest registered source. Pixels not covered by any source are
// no-data.
//
// Failing sources are reported through OnSourceError and the log, and
// otherwise ignored. If ctx is cancelled before all candidate sources
// are visited, the error wraps both [ErrCancelled] and the context's
// error and no buffer is returned. A singular tr results in a
// [*ConfigurationError].
func (c *Compositor[T]) Read(ctx context.Context, win grid.Window, tr grid.Transform, policy MergePolicy) (*sample.Buffer[T], error) {
	buf, _, err := c.ReadWithStats(ctx, win, tr, policy)
	return buf, err
}

// ReadWithStats is like [Compositor.Read], but also returns statistics
// about the read.
func (c *Compositor[T]) ReadWithStats(ctx context.Context, win grid.Window, tr grid.Transform, policy MergePolicy) (*sample.Buffer[T], Stats, error) {
	dst := &sample.Buffer[T]{}
	stats, err := c.ReadInto(ctx, dst, win, tr, policy)
	if err != nil {
		return nil, stats, err
	}
	return dst, stats, nil
}

// ReadInto is like [Compositor.ReadWithStats], but stores the result in
// dst, reusing its storage. If an error is returned, the contents of dst
// are unspecified.
func (c *Compositor[T]) ReadInto(ctx context.Context, dst *sample.Buffer[T], win grid.Window, tr grid.Transform, policy MergePolicy) (Stats, error) {
	if err := tr.Check(); err != nil {
		return Stats{}, &ConfigurationError{Source: "target transform", Err: err}
	}
	win.Width = max(win.Width, 0)
	win.Height = max(win.Height, 0)

	target := grid.Geometry{Window: win, Transform: tr}
	cands, bands := c.Registry.snapshot(target.Envelope())
	sortMembers(cands, policy, c.ScaleTolerance)

	dst.Reset(win, bands)
	rd := &read[T]{
		dst:     dst,
		target:  target,
		tracker: region.New(win.Width, win.Height),
		pending: region.New(win.Width, win.Height),
		mask:    region.New(win.Width, win.Height),
	}
	rd.pending.SetRect(0, 0, win.Width, win.Height, true)
	rd.stats.Candidates = len(cands)

	Logger().Debug("mosaic read",
		"window", win,
		"policy", policy,
		"candidates", len(cands),
		"bands", bands)

	var err error
	if c.Workers > 1 && len(cands) > 1 {
		err = c.runParallel(ctx, rd, cands)
	} else {
		err = c.runSequential(ctx, rd, cands)
	}

	rd.stats.Filled = rd.tracker.Count()
	rd.stats.Complete = rd.tracker.Full()
	if rd.stats.Skipped > 0 {
		Logger().Debug("mosaic read complete early",
			"window", win,
			"visited", rd.stats.Visited,
			"skipped", rd.stats.Skipped)
	}
	return rd.stats, err
}

// read holds the state of one composite read. Pixel (0, 0) of the
// trackers is target pixel (X0, Y0).
type read[T sample.Number] struct {
	dst     *sample.Buffer[T]
	target  grid.Geometry
	tracker *region.Tracker // filled pixels
	pending *region.Tracker // complement of tracker
	mask    *region.Tracker // footprint of the current source
	corners []vec.Vec2
	stats   Stats
}

// runSequential visits the candidates one after the other.
func (c *Compositor[T]) runSequential(ctx context.Context, rd *read[T], cands []Member[T]) error {
	e := c.getEngine()
	defer c.engines.Put(e)

	for i, m := range cands {
		if rd.tracker.Full() {
			rd.stats.Skipped = len(cands) - i
			break
		}
		if err := ctx.Err(); err != nil {
			return cancelled(i, len(cands), err)
		}
		r, ok := rd.reach(m)
		if !ok {
			rd.stats.Culled++
			continue
		}

		res, srcWin, err := c.resampleMember(ctx, e, rd.target, m)
		rd.stats.Visited++
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return cancelled(i, len(cands), ctxErr)
			}
			c.reportFailure(rd, m, srcWin, err)
			continue
		}
		if res != nil {
			rd.merge(res, r)
		}
	}
	return nil
}

// slot holds the result of resampling one candidate in parallel mode.
// The fields are written before done is closed.
type slot[T sample.Number] struct {
	done   chan struct{}
	held   bool // the slot occupies one of the Workers result places
	ran    bool
	engine *resample.Engine[T]
	res    *sample.Buffer[T]
	srcWin grid.Window
	err    error
}

// runParallel resamples up to c.Workers candidates at a time. Results are
// merged strictly in candidate order, each as soon as it and all its
// predecessors are available. Once the target is full, outstanding work
// is cancelled.
//
// A candidate is only started once fewer than c.Workers results are
// running or waiting to be merged. If an early candidate is slow, later
// ones therefore queue up instead of holding finished target-sized
// buffers.
//
// Footprints are tested at merge time, so that the statistics match
// those of a sequential read, even though culled sources may have been
// read already.
func (c *Compositor[T]) runParallel(ctx context.Context, rd *read[T], cands []Member[T]) error {
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]slot[T], len(cands))
	for i := range slots {
		slots[i].done = make(chan struct{})
	}

	// One token per running or unmerged result, returned by the merge loop.
	places := make(chan struct{}, c.Workers)

	g, gctx := errgroup.WithContext(workCtx)
	g.SetLimit(c.Workers)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := range slots {
			s := &slots[i]
			select {
			case places <- struct{}{}:
				s.held = true
			case <-gctx.Done():
			}
			if gctx.Err() != nil {
				close(s.done)
				continue
			}
			g.Go(func() error {
				defer close(s.done)
				if gctx.Err() != nil {
					return nil
				}
				s.ran = true
				s.engine = c.getEngine()
				s.res, s.srcWin, s.err = c.resampleMember(gctx, s.engine, rd.target, cands[i])
				return nil
			})
		}
		g.Wait()
	}()

	var err error
loop:
	for i := range slots {
		if rd.tracker.Full() {
			rd.stats.Skipped = len(cands) - i
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = cancelled(i, len(cands), ctxErr)
			break
		}

		s := &slots[i]
		select {
		case <-s.done:
		case <-ctx.Done():
			err = cancelled(i, len(cands), ctx.Err())
			break loop
		}
		if !s.ran || (s.err != nil && ctx.Err() != nil) {
			err = cancelled(i, len(cands), ctx.Err())
			break
		}

		if r, ok := rd.reach(cands[i]); !ok {
			rd.stats.Culled++
		} else {
			rd.stats.Visited++
			if s.err != nil {
				c.reportFailure(rd, cands[i], s.srcWin, s.err)
			} else if s.res != nil {
				rd.merge(s.res, r)
			}
		}
		c.engines.Put(s.engine)
		s.engine, s.res = nil, nil
		if s.held {
			<-places
		}
	}

	cancel()
	<-finished
	for i := range slots {
		if slots[i].engine != nil {
			c.engines.Put(slots[i].engine)
		}
	}
	return err
}

// resampleMember reads the part of m needed for the target grid and
// resamples it. A nil buffer without an error means that the source
// cannot contribute. The returned window is the native window which was
// requested.
func (c *Compositor[T]) resampleMember(ctx context.Context, e *resample.Engine[T], target grid.Geometry, m Member[T]) (*sample.Buffer[T], grid.Window, error) {
	srcWin, ok := resample.SourceWindow(target, m.Geometry, e.Mode)
	if !ok {
		return nil, srcWin, nil
	}
	src, err := m.Source.Read(ctx, srcWin)
	if err != nil {
		return nil, srcWin, err
	}
	if src == nil {
		return nil, srcWin, nil
	}
	return e.Resample(target, src, m.Geometry.Transform), srcWin, nil
}

// footprintTolerance is the distance, in target pixels, by which a pixel
// centre may lie outside a source footprint and still be considered
// reachable. It absorbs rounding errors in the transforms.
const footprintTolerance = 1e-6

// reach scan converts the footprint of m onto the target grid and returns
// the bounding box of the unfilled pixels inside it. The second return
// value is false if m cannot provide data for any unfilled pixel.
func (rd *read[T]) reach(m Member[T]) (region.Rect, bool) {
	open, ok := rd.tracker.BoundsOfClear()
	if !ok {
		return region.Rect{}, false
	}

	win := rd.target.Window
	tr := rd.target.Transform
	pts := rd.corners[:0]
	for cmd, seg := range m.Geometry.Footprint() {
		if cmd != path.CmdMoveTo && cmd != path.CmdLineTo {
			continue
		}
		x, y := tr.ToGrid(seg[0])
		pts = append(pts, vec.Vec2{X: x - float64(win.X0), Y: y - float64(win.Y0)})
	}
	rd.corners = pts

	rd.mask.Reset()
	rd.mask.FillConvex(pts, footprintTolerance)
	r, ok := rd.mask.IntersectBoundsOfSet(rd.pending)
	if !ok {
		return region.Rect{}, false
	}
	return r.Intersect(open), true
}

// merge copies the pixels of res inside r into the unfilled pixels of the
// target and marks them as filled.
func (rd *read[T]) merge(res *sample.Buffer[T], r region.Rect) {
	win := rd.target.Window
	for y := r.Y0; y < r.Y1; y++ {
		gy := win.Y0 + y
		for x := r.X0; x < r.X1; x++ {
			if rd.tracker.Get(x, y) {
				continue
			}
			gx := win.X0 + x
			if !res.PixelValid(gx, gy) {
				continue
			}
			sample.CopyPixel(rd.dst, res, gx, gy)
			rd.tracker.Set(x, y, true)
			rd.pending.Set(x, y, false)
		}
	}
}

func (c *Compositor[T]) reportFailure(rd *read[T], m Member[T], srcWin grid.Window, err error) {
	rd.stats.Failed++
	se := &SourceError{
		ID:       m.ID,
		Priority: m.Priority,
		Window:   srcWin,
		Err:      err,
	}
	Logger().Warn("mosaic source failed",
		"id", m.ID,
		"priority", m.Priority,
		"window", srcWin,
		"error", err)
	if c.OnSourceError != nil {
		c.OnSourceError(se)
	}
}

// getEngine returns a resampling engine from the pool, configured for the
// current interpolation mode.
func (c *Compositor[T]) getEngine() *resample.Engine[T] {
	if e, ok := c.engines.Get().(*resample.Engine[T]); ok {
		e.Mode = c.Interpolation
		return e
	}
	return resample.NewEngine[T](c.Interpolation)
}
