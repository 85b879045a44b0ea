///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

// Handles the Map backend for the run ledger

package storage

import (
	"github.com/pkg/errors"
	"time"
)

// InsertRun adds a new RunRecord to the Map
// Or returns an error if a run with the same ID exists
func (m *MapImpl) InsertRun(run *RunRecord) error {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.runs[run.Id]; ok {
		return errors.Errorf("Run %s already exists", run.Id)
	}
	r := *run
	m.runs[run.Id] = &r
	return nil
}

// FinishRun sets the outcome of a RunRecord in the Map
func (m *MapImpl) FinishRun(id, status string, completed uint64, finished time.Time) error {
	m.Lock()
	defer m.Unlock()

	r, ok := m.runs[id]
	if !ok {
		return errors.Errorf("Unable to locate Run %s", id)
	}
	r.Status = status
	r.Completed = completed
	r.FinishedAt = finished
	return nil
}

// GetRun returns a RunRecord from Map with the given ID
// Or an error if a matching RunRecord does not exist
func (m *MapImpl) GetRun(id string) (*RunRecord, error) {
	m.Lock()
	defer m.Unlock()

	if val, ok := m.runs[id]; ok {
		r := *val
		return &r, nil
	}
	return nil, errors.Errorf("Unable to locate Run %s", id)
}

// InsertChunk adds a ChunkRecord to its run in the Map
func (m *MapImpl) InsertChunk(chunk *ChunkRecord) error {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.runs[chunk.RunId]; !ok {
		return errors.Errorf("Unable to locate Run %s for chunk [%d, %d)",
			chunk.RunId, chunk.Begin, chunk.End)
	}

	m.nextId++
	c := *chunk
	c.Id = m.nextId
	chunk.Id = c.Id
	m.chunks[chunk.RunId] = append(m.chunks[chunk.RunId], &c)
	return nil
}

// GetChunks returns every ChunkRecord of a run in insertion order
func (m *MapImpl) GetChunks(runID string) ([]*ChunkRecord, error) {
	m.Lock()
	defer m.Unlock()

	if _, ok := m.runs[runID]; !ok {
		return nil, errors.Errorf("Unable to locate Run %s", runID)
	}

	out := make([]*ChunkRecord, 0, len(m.chunks[runID]))
	for _, c := range m.chunks[runID] {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}
