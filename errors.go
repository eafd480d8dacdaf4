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
	"errors"
	"fmt"

	"github.com/google/uuid"

	"seehuhn.de/go/mosaic/grid"
)

var (
	// ErrCancelled is returned by the read methods of [Compositor] when the
	// context is cancelled before all sources have been visited. The
	// returned error also wraps the context's error.
	ErrCancelled = errors.New("mosaic: read cancelled")

	// ErrEmptyGrid indicates a source without any pixels.
	ErrEmptyGrid = errors.New("empty pixel grid")

	// ErrNoBands indicates a source without any bands.
	ErrNoBands = errors.New("no bands")

	// ErrDuplicate indicates that a source is already registered.
	ErrDuplicate = errors.New("source already registered")

	// ErrNotComparable indicates a source value which cannot be compared
	// for identity, including values whose type is comparable but which
	// hold a non-comparable value in an interface field. Use a pointer
	// type for sources.
	ErrNotComparable = errors.New("source type is not comparable")
)

// ConfigurationError reports a source, or a target grid, which cannot take
// part in compositing at all. The most common cause is a singular
// transform, in which case Err wraps [grid.ErrSingular].
type ConfigurationError struct {
	// Source describes the offending source or grid.
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("mosaic: invalid %s: %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// SourceError reports that reading a single source failed during a
// composite read. Such failures are not fatal: the source contributes no
// data and the remaining sources are still consulted. SourceErrors are
// passed to [Compositor.OnSourceError] and logged at warning level.
type SourceError struct {
	ID       uuid.UUID   // member ID assigned by the registry
	Priority int         // registration priority of the member
	Window   grid.Window // native window which was requested
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("mosaic: source %d (%s) failed to read %v: %v",
		e.Priority, e.ID, e.Window, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// cancelled builds the error returned when ctx is cancelled after
// visited of total candidate sources.
func cancelled(visited, total int, cause error) error {
	return fmt.Errorf("%w after %d of %d sources: %w", ErrCancelled, visited, total, cause)
}
