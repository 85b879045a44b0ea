///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package cmd

import (
	"context"
	"fmt"
	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/elixxir/prism/internal/measure"
	"time"
)

// Amount of memory allocation growth required before the system triggers a
// performance alert
const deltaMemoryThreshold = uint64(100000000)

// Time between performance checks
const performanceCheckPeriod = time.Duration(2) * time.Second

// monitorMemoryUsage samples the process into rm every period until ctx is
// done, printing a warning every time memory usage jumps by deltaMem
func monitorMemoryUsage(ctx context.Context, rm *measure.ResourceMonitor,
	period time.Duration, deltaMem uint64) {

	defer func() {
		if r := recover(); r != nil {
			jww.ERROR.Printf("Performance monitoring failed due to errors"+
				": %v", r)
		}
	}()

	last := rm.Sample()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		current := rm.Sample()

		//check if the change in memory usage warrants an update
		if current.MemAllocBytes > last.MemAllocBytes &&
			current.MemAllocBytes-last.MemAllocBytes > deltaMem {
			jww.WARN.Printf("Performance warning triggered after %s",
				current.Time.Sub(last.Time))
			jww.WARN.Printf("Allocated Memory %s exceeded threshold of %s",
				convertToReadableBytes(current.MemAllocBytes),
				convertToReadableBytes(last.MemAllocBytes+deltaMem))
			jww.WARN.Printf("Number of goroutines: %v", current.NumGoroutines)
			last = current
		}
	}
}

var sizeLookup = []string{"B", "KiB", "MiB", "GiB"}

func convertToReadableBytes(b uint64) string {

	for i := 0; i < len(sizeLookup)-1; i++ {
		if b < 1024 {
			return fmt.Sprintf("%v%v", b, sizeLookup[i])
		}
		b = b / 1024
	}

	return fmt.Sprintf("%v%v", b, sizeLookup[len(sizeLookup)-1])

}
