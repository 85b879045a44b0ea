///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

// Handles the high level storage API.
// This layer merges the business logic layer and the database layer

package storage

import (
	"github.com/pkg/errors"
	"gitlab.com/elixxir/prism/services"
	"sort"
	"time"
)

// ErrCoverage is returned when a run's recorded chunks do not partition its
// positions exactly once.
var ErrCoverage = errors.New("chunks do not cover the run")

// Storage API for the storage layer
type Storage struct {
	// Stored database interface
	database
}

// NewStorage Create a new Storage object wrapping a database interface
// Returns a Storage object, close function, and error
func NewStorage(username, password, dbName, address, port string, devMode bool) (*Storage, error) {
	db, err := newDatabase(username, password, dbName, address, port, devMode)
	storage := &Storage{db}
	return storage, err
}

// StartRun records the beginning of a run
func (s *Storage) StartRun(r *services.Run) error {
	pars := r.GetResolver().Parameters()
	return s.InsertRun(&RunRecord{
		Id:         r.GetID(),
		Parameters: pars.String(),
		Policy:     r.GetPolicy(),
		Total:      r.GetResolver().Total(),
		ChunkSize:  pars.BatchSize,
		Status:     services.StatusRunning,
		StartedAt:  time.Now(),
	})
}

// EndRun records the outcome of a run from its summary
func (s *Storage) EndRun(summary *services.Summary) error {
	return s.FinishRun(summary.RunID, summary.Status, summary.Completed,
		summary.Started.Add(summary.Wall))
}

// ChunkHook returns a hook recording every computed chunk of the run
func (s *Storage) ChunkHook(runID string) services.ChunkHook {
	return func(st services.Stream, c services.Chunk, elapsed time.Duration) error {
		return s.InsertChunk(&ChunkRecord{
			RunId:       runID,
			Begin:       c.Begin(),
			End:         c.End(),
			Worker:      st.GetName(),
			Class:       st.Class.String(),
			Elapsed:     elapsed,
			CompletedAt: time.Now(),
		})
	}
}

// Coverage checks that the chunks recorded for a run tile [0, total) with
// no gap and no overlap
func (s *Storage) Coverage(runID string) error {
	run, err := s.GetRun(runID)
	if err != nil {
		return err
	}
	chunks, err := s.GetChunks(runID)
	if err != nil {
		return err
	}
	return checkCoverage(chunks, run.Total)
}

func checkCoverage(chunks []*ChunkRecord, total uint64) error {
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Begin < chunks[j].Begin
	})

	next := uint64(0)
	for _, c := range chunks {
		if c.End <= c.Begin {
			return errors.Wrapf(ErrCoverage, "empty chunk [%d, %d)",
				c.Begin, c.End)
		}
		if c.Begin != next {
			return errors.Wrapf(ErrCoverage, "expected a chunk at %d, "+
				"got [%d, %d)", next, c.Begin, c.End)
		}
		next = c.End
	}
	if next != total {
		return errors.Wrapf(ErrCoverage, "covered %d of %d positions",
			next, total)
	}
	return nil
}
