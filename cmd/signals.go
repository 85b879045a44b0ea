///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

// signals.go cancels the running simulation on SIGTERM/SIGINT.

package cmd

import (
	"context"
	jww "github.com/spf13/jwalterweatherman"
	"os"
	"os/signal"
	"syscall"
)

// ReceiveExitSignal cancels the run through cancelRun when the process
// receives SIGTERM or SIGINT. It stops listening once ctx is done and returns
// a function releasing the signal handler.
func ReceiveExitSignal(ctx context.Context, cancelRun context.CancelFunc) func() {
	return receiveSignals(ctx, cancelRun, syscall.SIGINT, syscall.SIGTERM)
}

func receiveSignals(ctx context.Context, cancelRun context.CancelFunc,
	sigs ...os.Signal) func() {
	// We must use a buffered channel or risk missing the signal
	// if we're not ready to receive when the signal is sent.
	c := make(chan os.Signal, 1)
	signal.Notify(c, sigs...)

	go func() {
		select {
		case sig := <-c:
			jww.INFO.Printf("Received %s signal, cancelling run...", sig)
			cancelRun()
		case <-ctx.Done():
		}
	}()

	return func() { signal.Stop(c) }
}
