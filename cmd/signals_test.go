////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package cmd

import (
	"context"
	"syscall"
	"testing"
	"time"
)

// A received signal cancels the run context.
func TestReceiveSignals_Cancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := receiveSignals(ctx, cancel, syscall.SIGUSR1)
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("Could not signal the test process: %+v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Errorf("Signal did not cancel the run")
	}
}

// Finishing the run releases the listener without cancelling anything else.
func TestReceiveSignals_RunDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan struct{})

	stop := receiveSignals(ctx, func() { close(cancelled) }, syscall.SIGUSR2)
	cancel()
	stop()

	select {
	case <-cancelled:
		t.Errorf("Listener cancelled the run without a signal")
	case <-time.After(20 * time.Millisecond):
	}
}
