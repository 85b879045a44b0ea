////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"github.com/cznic/mathutil"
	"github.com/pkg/errors"
	"math"
	"sync"
)

// Unrestricted is the ceiling for callers that may claim up to the end of the
// range.
const Unrestricted uint64 = math.MaxUint64

// ErrInvalidRange is returned when a Dispatcher cannot be built over the
// requested range.
var ErrInvalidRange = errors.New("invalid dispatch range")

// Dispatcher hands out disjoint chunks of [start, stop) to any number of
// concurrent callers. Chunks issued by one Dispatcher never overlap and,
// in issuance order, cover the range with no gaps.
//
// One Dispatcher is built per run and passed to every worker of that run.
type Dispatcher struct {
	mux sync.Mutex

	// next unclaimed index
	current uint64
	// exclusive end of the range
	stop uint64
	// preferred number of indices per claim
	chunkSize uint64
}

// NewDispatcher builds a Dispatcher over [start, stop) that hands out chunks
// of chunkSize indices.
func NewDispatcher(start, stop, chunkSize uint64) (*Dispatcher, error) {
	if start > stop {
		return nil, errors.Wrapf(ErrInvalidRange,
			"start %d is past stop %d", start, stop)
	}
	if chunkSize == 0 {
		return nil, errors.Wrap(ErrInvalidRange, "chunk size must be at least 1")
	}

	return &Dispatcher{
		current:   start,
		stop:      stop,
		chunkSize: chunkSize,
	}, nil
}

// Claim returns the next chunk of the range, or false when the caller has no
// more work. A caller will not be handed a chunk starting at or beyond its
// ceiling; the chunk it is handed may still run past the ceiling. Pass
// Unrestricted to claim up to the end of the range.
func (d *Dispatcher) Claim(ceiling uint64) (Chunk, bool) {
	d.mux.Lock()
	defer d.mux.Unlock()

	if d.current >= mathutil.MinUint64(d.stop, ceiling) {
		return Chunk{}, false
	}

	begin := d.current
	// compare against the distance to stop so current+chunkSize cannot wrap
	end := d.stop
	if d.stop-d.current > d.chunkSize {
		end = d.current + d.chunkSize
	}
	d.current = end

	return NewChunk(begin, end), true
}

// Remaining is the number of indices not yet claimed.
func (d *Dispatcher) Remaining() uint64 {
	d.mux.Lock()
	defer d.mux.Unlock()
	return d.stop - d.current
}

// Stop is the exclusive end of the range.
func (d *Dispatcher) Stop() uint64 {
	return d.stop
}

// ChunkSize is the largest number of indices handed out per claim.
func (d *Dispatcher) ChunkSize() uint64 {
	return d.chunkSize
}
