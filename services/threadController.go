////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"context"
	"go.uber.org/atomic"
)

// ThreadController is used to externally control a run started with
// Run.Start.
// To check on it do ThreadController.IsAlive()
// To collect the result do ThreadController.Wait()
// To abort it do ThreadController.Kill(true)
type ThreadController struct {
	noCopy noCopy

	alive  atomic.Bool
	cancel context.CancelFunc
	done   chan struct{}

	// Set before done is closed
	summary *Summary
	err     error
}

// Determines whether the run is still going
func (tc *ThreadController) IsAlive() bool {
	return tc.alive.Load()
}

// Aborts the run. Every worker stops polling for work; positions left
// unclaimed leave the run failed.
// Blocks until all workers have stopped if you pass true, doesn't block if
// you pass false.
func (tc *ThreadController) Kill(blockUntilDeath bool) {
	tc.cancel()
	if blockUntilDeath {
		<-tc.done
	}
}

// Done is closed once every worker has stopped.
func (tc *ThreadController) Done() <-chan struct{} {
	return tc.done
}

// Wait blocks until the run is over and returns its outcome.
func (tc *ThreadController) Wait() (*Summary, error) {
	<-tc.done
	return tc.summary, tc.err
}

// noCopy may be embedded into structs which must not be copied
// after the first use.
//
// See https://github.com/golang/go/issues/8005#issuecomment-190753527
// for details.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
