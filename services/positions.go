////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gitlab.com/elixxir/prism/globals"
)

// PositionResolver hands out the probe positions of one run. The run's
// partition is fixed when the resolver is built: later changes to the
// parameters it was built from have no effect.
type PositionResolver struct {
	pars       globals.Parameters
	dispatcher *Dispatcher
}

// NewPositionResolver snapshots pars and builds the dispatcher for the run.
func NewPositionResolver(pars *globals.Parameters) (*PositionResolver, error) {
	if pars == nil {
		return nil, errors.New("cannot resolve positions without parameters")
	}

	pr := &PositionResolver{}
	if err := copier.Copy(&pr.pars, pars); err != nil {
		return nil, errors.Wrap(err, "failed to snapshot parameters")
	}

	d, err := NewDispatcher(0, pr.pars.NumPositions(), pr.pars.BatchSize)
	if err != nil {
		return nil, errors.WithMessagef(err, "cannot dispatch %s", &pr.pars)
	}
	pr.dispatcher = d

	return pr, nil
}

// NextPositions claims the next batch of position indices for a worker
// limited to ceiling. False means the worker is done with this run.
func (pr *PositionResolver) NextPositions(ceiling uint64) (Chunk, bool) {
	return pr.dispatcher.Claim(ceiling)
}

// Position maps a linear position index onto the scan grid, or onto a tilt
// index for plane-wave runs.
func (pr *PositionResolver) Position(index uint64) globals.ProbePosition {
	if pr.pars.Mode == globals.PlaneWaveTilts || pr.pars.ProbesY == 0 {
		return globals.ProbePosition{Tilt: index}
	}
	return globals.ProbePosition{
		X: index / pr.pars.ProbesY,
		Y: index % pr.pars.ProbesY,
	}
}

// Positions expands a claimed chunk into its probe positions.
func (pr *PositionResolver) Positions(c Chunk) []globals.ProbePosition {
	out := make([]globals.ProbePosition, 0, c.Len())
	for i := c.Begin(); i < c.End(); i++ {
		out = append(out, pr.Position(i))
	}
	return out
}

// Total is the number of positions in the run.
func (pr *PositionResolver) Total() uint64 {
	return pr.dispatcher.Stop()
}

// Remaining is the number of positions not yet claimed by any worker.
func (pr *PositionResolver) Remaining() uint64 {
	return pr.dispatcher.Remaining()
}

// Parameters returns the snapshot the run was built from.
func (pr *PositionResolver) Parameters() globals.Parameters {
	return pr.pars
}
