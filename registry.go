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
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/mosaic/grid"
	"seehuhn.de/go/mosaic/sample"
)

// Member is the registration record of a source. The geometry related
// fields are captured when the source is added.
type Member[T sample.Number] struct {
	ID       uuid.UUID
	Source   Source[T]
	Priority int // registration order, lower values were added earlier

	Geometry  grid.Geometry
	Envelope  rect.Rect // world bounding box of Geometry
	PixelSize float64   // native resolution in world units per pixel
	Bands     int
}

// Registry is an ordered collection of sources.
//
// The union of the member envelopes is maintained incrementally. Adding a
// source extends the union, removing a source recomputes it from the
// envelopes of the remaining members.
//
// A Registry is safe for concurrent use. Readers obtain snapshots of the
// member list and never hold the lock while a source is being read.
type Registry[T sample.Number] struct {
	mu      sync.RWMutex
	members []Member[T] // in order of increasing Priority
	next    int
	env     rect.Rect // union of member envelopes, if len(members) > 0
	bands   int       // maximum band count of the members
}

// NewRegistry returns an empty registry.
func NewRegistry[T sample.Number]() *Registry[T] {
	return &Registry[T]{}
}

// Add appends src to the registry, with lower priority than all sources
// added before.
//
// Sources with an empty pixel window, a singular transform or no bands
// are rejected with a [*ConfigurationError]. Sources are identified by
// value, so src must be comparable (usually a pointer) and must not be
// registered twice. Comparability is checked on the value, so a struct
// holding an interface field with a slice or map inside is rejected.
func (r *Registry[T]) Add(src Source[T]) (Member[T], error) {
	desc := fmt.Sprintf("source %T", src)
	if src == nil || !reflect.ValueOf(src).Comparable() {
		return Member[T]{}, &ConfigurationError{Source: desc, Err: ErrNotComparable}
	}
	g := src.Geometry()
	if g.Window.Empty() {
		return Member[T]{}, &ConfigurationError{Source: desc, Err: ErrEmptyGrid}
	}
	if err := g.Transform.Check(); err != nil {
		return Member[T]{}, &ConfigurationError{Source: desc, Err: err}
	}
	bands := src.Bands()
	if bands <= 0 {
		return Member[T]{}, &ConfigurationError{Source: desc, Err: ErrNoBands}
	}

	m := Member[T]{
		ID:        uuid.New(),
		Source:    src,
		Geometry:  g,
		Envelope:  g.Envelope(),
		PixelSize: g.Transform.PixelSize(),
		Bands:     bands,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(src) >= 0 {
		return Member[T]{}, &ConfigurationError{Source: desc, Err: ErrDuplicate}
	}
	m.Priority = r.next
	r.next++
	if len(r.members) == 0 {
		r.env = m.Envelope
	} else {
		r.env = grid.Union(r.env, m.Envelope)
	}
	r.bands = max(r.bands, bands)
	r.members = append(r.members, m)
	return m, nil
}

// Remove removes src from the registry. The return value reports whether
// src was registered.
func (r *Registry[T]) Remove(src Source[T]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeAt(r.indexOf(src))
}

// RemoveID removes the member with the given ID.
func (r *Registry[T]) RemoveID(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := slices.IndexFunc(r.members, func(m Member[T]) bool { return m.ID == id })
	return r.removeAt(idx)
}

// removeAt removes member idx and recomputes the envelope and band count
// of the remaining members. The caller must hold the write lock.
func (r *Registry[T]) removeAt(idx int) bool {
	if idx < 0 {
		return false
	}
	r.members = slices.Delete(r.members, idx, idx+1)

	r.env = rect.Rect{}
	r.bands = 0
	for i, m := range r.members {
		if i == 0 {
			r.env = m.Envelope
		} else {
			r.env = grid.Union(r.env, m.Envelope)
		}
		r.bands = max(r.bands, m.Bands)
	}
	return true
}

func (r *Registry[T]) indexOf(src Source[T]) int {
	if src == nil || !reflect.ValueOf(src).Comparable() {
		return -1
	}
	return slices.IndexFunc(r.members, func(m Member[T]) bool { return m.Source == src })
}

// Envelope returns the union of the world bounding boxes of all members.
// The second return value is false if the registry is empty.
func (r *Registry[T]) Envelope() (rect.Rect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.members) == 0 {
		return rect.Rect{}, false
	}
	return r.env, true
}

// Len returns the number of members.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Bands returns the largest band count of any member, or 0 if the
// registry is empty.
func (r *Registry[T]) Bands() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bands
}

// Members returns a snapshot of the members in registration order.
func (r *Registry[T]) Members() []Member[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.members)
}

// MembersIntersecting returns the members, in registration order, whose
// envelope overlaps bounds. Envelopes which only touch bounds along an
// edge do not count as overlapping.
//
// The sequence is evaluated lazily. Every iteration works on a fresh
// snapshot of the registry, so the sequence can be iterated more than
// once and reflects changes made in between.
func (r *Registry[T]) MembersIntersecting(bounds rect.Rect) iter.Seq[Member[T]] {
	return func(yield func(Member[T]) bool) {
		for _, m := range r.Members() {
			if grid.Intersects(m.Envelope, bounds) && !yield(m) {
				return
			}
		}
	}
}

// snapshot returns the members intersecting bounds, together with the
// band count of the whole registry, as one consistent view.
func (r *Registry[T]) snapshot(bounds rect.Rect) ([]Member[T], int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []Member[T]
	for _, m := range r.members {
		if grid.Intersects(m.Envelope, bounds) {
			res = append(res, m)
		}
	}
	return res, r.bands
}
