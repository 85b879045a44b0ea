///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package storage

import (
	"context"
	"github.com/pkg/errors"
	"gitlab.com/elixxir/prism/globals"
	"gitlab.com/elixxir/prism/services"
	"testing"
)

func TestCheckCoverage(t *testing.T) {
	tests := []struct {
		name   string
		chunks []*ChunkRecord
		total  uint64
		ok     bool
	}{
		{"empty run", nil, 0, true},
		{"exact", []*ChunkRecord{{Begin: 3, End: 6}, {Begin: 0, End: 3},
			{Begin: 6, End: 7}}, 7, true},
		{"gap", []*ChunkRecord{{Begin: 0, End: 3}, {Begin: 4, End: 7}}, 7, false},
		{"overlap", []*ChunkRecord{{Begin: 0, End: 4}, {Begin: 3, End: 7}}, 7, false},
		{"duplicate", []*ChunkRecord{{Begin: 0, End: 7}, {Begin: 0, End: 7}}, 7, false},
		{"short", []*ChunkRecord{{Begin: 0, End: 5}}, 7, false},
		{"missing", nil, 7, false},
		{"empty chunk", []*ChunkRecord{{Begin: 0, End: 0}, {Begin: 0, End: 7}}, 7, false},
	}

	for _, tt := range tests {
		err := checkCoverage(tt.chunks, tt.total)
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error: %+v", tt.name, err)
		} else if !tt.ok && !errors.Is(err, ErrCoverage) {
			t.Errorf("%s: expected a coverage error, got %v", tt.name, err)
		}
	}
}

// A run recorded through the chunk hook covers every position exactly once.
func TestStorage_RunLedger(t *testing.T) {
	s, err := NewStorage("", "", "", "", "", true)
	if err != nil {
		t.Fatalf("NewStorage() failed: %+v", err)
	}

	pars := &globals.Parameters{ProbesX: 9, ProbesY: 7, BatchSize: 4,
		Devices: globals.Devices{NumThreads: 3, NumGPUs: 1,
			NumStreamsPerGPU: 2, AlsoDoCPUWork: true}}

	r, err := services.NewRun(&services.Definition{
		ID:     "ledger",
		Params: pars,
		Kernel: services.KernelFunc(func(context.Context, services.Stream,
			services.Chunk) error {
			return nil
		}),
		Policy: services.TailReservePolicy{Reserve: 20},
		Hook:   s.ChunkHook("ledger"),
	})
	if err != nil {
		t.Fatalf("NewRun() failed: %+v", err)
	}

	if err = s.StartRun(r); err != nil {
		t.Fatalf("StartRun() failed: %+v", err)
	}
	summary, err := r.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() failed: %+v", err)
	}
	if err = s.EndRun(summary); err != nil {
		t.Fatalf("EndRun() failed: %+v", err)
	}

	if err = s.Coverage("ledger"); err != nil {
		t.Errorf("Coverage() failed: %+v", err)
	}

	run, err := s.GetRun("ledger")
	if err != nil {
		t.Fatalf("GetRun() failed: %+v", err)
	}
	if run.Status != services.StatusComplete || run.Completed != 63 ||
		run.Total != 63 || run.ChunkSize != 4 {
		t.Errorf("Unexpected run record: %+v", run)
	}

	chunks, err := s.GetChunks("ledger")
	if err != nil {
		t.Fatalf("GetChunks() failed: %+v", err)
	}
	for _, c := range chunks {
		if c.Class == services.CPU.String() && c.Begin >= 63-20 {
			t.Errorf("CPU worker %s started past its ceiling: [%d, %d)",
				c.Worker, c.Begin, c.End)
		}
	}
}

// A hook against a run that was never recorded aborts the run.
func TestStorage_ChunkHook_MissingRun(t *testing.T) {
	s, err := NewStorage("", "", "", "", "", true)
	if err != nil {
		t.Fatalf("NewStorage() failed: %+v", err)
	}

	hook := s.ChunkHook("Zezima")
	err = hook(services.Stream{}, services.NewChunk(0, 1), 0)
	if err == nil {
		t.Errorf("Expected an error recording a chunk of a missing run")
	}
}
