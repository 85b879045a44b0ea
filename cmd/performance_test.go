////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package cmd

import (
	"context"
	"gitlab.com/elixxir/prism/internal/measure"
	"testing"
	"time"
)

func TestMonitorMemoryUsage(t *testing.T) {
	period := 10 * time.Millisecond
	rm := &measure.ResourceMonitor{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		monitorMemoryUsage(ctx, rm, period, 0)
		close(done)
	}()

	time.Sleep(period)
	t0 := rm.Get().Time

	time.Sleep(period * 5)
	t1 := rm.Get().Time

	if !t1.After(t0) {
		t.Errorf("Resource metric not being updated in monitorMemoryUsage")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Errorf("monitorMemoryUsage did not stop with its context")
	}
}

func TestConvertToReadableBytes(t *testing.T) {
	tests := map[uint64]string{
		0:                  "0B",
		1023:               "1023B",
		2048:               "2KiB",
		5 * 1024 * 1024:    "5MiB",
		3 << 30:            "3GiB",
		2048 * 1024 * 1024: "2GiB",
	}

	for b, expected := range tests {
		if received := convertToReadableBytes(b); received != expected {
			t.Errorf("convertToReadableBytes(%d) incorrect"+
				"\n\texpected: %s\n\treceived: %s", b, expected, received)
		}
	}
}
