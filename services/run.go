////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"context"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/elixxir/prism/globals"
	"gitlab.com/elixxir/prism/internal/measure"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"time"
)

// ErrRunIncomplete is returned when a run ends with positions that were never
// computed.
var ErrRunIncomplete = errors.New("run did not compute every position")

// Definition is everything needed to build a Run.
type Definition struct {
	// Identifies the run in logs and the ledger
	ID     string
	Params *globals.Parameters
	Kernel Kernel

	// Early-stop heuristic for CPU workers; nil leaves everyone unrestricted
	Policy CeilingPolicy

	// Optional observers
	Reporter   Reporter
	Hook       ChunkHook
	Collectors *measure.Collectors
}

// classCount tallies the work done by one device class.
type classCount struct {
	workers   uint32
	chunks    atomic.Uint64
	positions atomic.Uint64
}

// Run is one simulation's worth of positions spread across a pool of CPU
// threads and GPU streams. A Run executes once.
type Run struct {
	id       string
	resolver *PositionResolver
	kernel   Kernel
	streams  []Stream
	policy   CeilingPolicy
	ceilings [NumDeviceClasses]uint64

	reporter   Reporter
	hook       ChunkHook
	collectors *measure.Collectors

	metrics   *measure.Metrics
	resources *measure.ResourceMonitor

	completed atomic.Uint64
	counts    [NumDeviceClasses]classCount
	started   atomic.Bool
}

// NewRun validates def and lays out the worker pool.
func NewRun(def *Definition) (*Run, error) {
	if def == nil || def.Params == nil {
		return nil, errors.New("cannot build a run without parameters")
	}
	if def.Kernel == nil {
		return nil, errors.New("cannot build a run without a kernel")
	}
	if err := def.Params.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid run parameters")
	}

	resolver, err := NewPositionResolver(def.Params)
	if err != nil {
		return nil, err
	}

	pars := resolver.Parameters()
	devices := pars.Devices

	policy := def.Policy
	if policy == nil {
		policy = UnrestrictedPolicy{}
	}

	reporter := def.Reporter
	if reporter == nil {
		reporter = ReporterFunc(func(uint64, uint64) {})
	}

	r := &Run{
		id:       def.ID,
		resolver: resolver,
		kernel:   def.Kernel,
		streams: buildStreams(devices.NumCPUWorkers(), devices.NumGPUs,
			devices.NumStreamsPerGPU),
		policy: policy,
		ceilings: ceilings(policy, resolver.Total(),
			devices.NumGPUStreams()),
		reporter:   reporter,
		hook:       def.Hook,
		collectors: def.Collectors,
		metrics:    &measure.Metrics{RunID: def.ID},
		resources:  &measure.ResourceMonitor{},
	}
	r.counts[CPU].workers = devices.NumCPUWorkers()
	r.counts[GPU].workers = devices.NumGPUStreams()

	return r, nil
}

func (r *Run) GetID() string {
	return r.id
}

// GetStreams returns the workers of the run.
func (r *Run) GetStreams() []Stream {
	return append([]Stream(nil), r.streams...)
}

// GetCeiling returns the early-stop ceiling applied to a device class.
func (r *Run) GetCeiling(class DeviceClass) uint64 {
	return r.ceilings[class]
}

// GetPolicy names the early-stop policy of the run.
func (r *Run) GetPolicy() string {
	return r.policy.String()
}

func (r *Run) GetResolver() *PositionResolver {
	return r.resolver
}

// GetResources returns the process sample taken for the run.
func (r *Run) GetResources() *measure.ResourceMonitor {
	return r.resources
}

// GetMetrics returns the per-worker timing events of the run.
func (r *Run) GetMetrics() *measure.Metrics {
	return r.metrics
}

// Execute runs every worker of the pool to completion and blocks until all of
// them have stopped. The first worker to fail cancels the others; the run is
// then reported as failed rather than partially complete.
func (r *Run) Execute(ctx context.Context) (*Summary, error) {
	if !r.started.CompareAndSwap(false, true) {
		return nil, errors.Errorf("run %s has already been executed", r.id)
	}

	start := time.Now()
	jww.INFO.Printf("Run %s starting: %d positions in chunks of %d over "+
		"%d workers, early stop %s", r.id, r.resolver.Total(),
		r.resolver.Parameters().BatchSize, len(r.streams), r.policy)
	if r.ceilings[CPU] != Unrestricted {
		jww.INFO.Printf("Run %s: CPU workers stop claiming at position %d",
			r.id, r.ceilings[CPU])
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range r.streams {
		s := s
		g.Go(func() error {
			return work(gctx, r, s)
		})
	}
	err := g.Wait()

	summary := r.summarize(start, err)

	if err != nil {
		jww.ERROR.Printf("Run %s aborted after %s with %d of %d positions "+
			"computed: %+v", r.id, summary.Wall, summary.Completed,
			summary.Total, err)
		return summary, errors.WithMessagef(err, "run %s aborted", r.id)
	}

	if summary.Completed != summary.Total {
		jww.ERROR.Printf("Run %s ended with %d of %d positions computed",
			r.id, summary.Completed, summary.Total)
		return summary, errors.Wrapf(ErrRunIncomplete,
			"run %s computed %d of %d positions", r.id, summary.Completed,
			summary.Total)
	}

	jww.INFO.Printf("Run %s complete in %s", r.id, summary.Wall)
	return summary, nil
}

// Start executes the run in the background and returns a controller for it.
func (r *Run) Start(ctx context.Context) *ThreadController {
	ctx, cancel := context.WithCancel(ctx)
	tc := &ThreadController{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	tc.alive.Store(true)

	go func() {
		tc.summary, tc.err = r.Execute(ctx)
		cancel()
		tc.alive.Store(false)
		close(tc.done)
	}()

	return tc
}
