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
	"gitlab.com/elixxir/prism/internal/measure"
)

// work is the loop of one worker: claim the next chunk under the worker's
// ceiling, compute it, report it, repeat until the resolver runs dry or the
// run is cancelled.
func work(ctx context.Context, r *Run, s Stream) error {
	name := s.GetName()
	class := s.Class.String()
	ceiling := r.ceilings[s.Class]
	total := r.resolver.Total()

	// The kernel and the hook are measured separately so the summary can
	// split compute time from bookkeeping
	kernelTag := measure.WorkerTag(measure.TagKernel, name)
	hookTag := measure.WorkerTag(measure.TagHook, name)

	numChunks := 0
	for {
		if err := ctx.Err(); err != nil {
			jww.DEBUG.Printf("Run %s worker %s stopping after %d chunks: %v",
				r.id, name, numChunks, err)
			return err
		}

		chunk, ok := r.resolver.NextPositions(ceiling)
		if !ok {
			jww.DEBUG.Printf("Run %s worker %s done after %d chunks",
				r.id, name, numChunks)
			return nil
		}
		if r.collectors != nil {
			r.collectors.ObserveClaim(class)
		}

		start := r.metrics.Measure(kernelTag)
		err := r.kernel.Compute(ctx, s, chunk)
		end := r.metrics.Measure(kernelTag)
		elapsed := end.Sub(start)

		if err != nil {
			return errors.WithMessagef(err, "worker %s failed on positions %s",
				name, chunk)
		}

		if r.hook != nil {
			r.metrics.Measure(hookTag)
			err = r.hook(s, chunk, elapsed)
			r.metrics.Measure(hookTag)
			if err != nil {
				return errors.WithMessagef(err,
					"worker %s could not record positions %s", name, chunk)
			}
		}

		numChunks++
		r.counts[s.Class].chunks.Inc()
		r.counts[s.Class].positions.Add(chunk.Len())
		if r.collectors != nil {
			r.collectors.ObserveChunk(class, chunk.Len(), elapsed)
		}

		r.reporter.Report(r.completed.Add(chunk.Len()), total)
	}
}
