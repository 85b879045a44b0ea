////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package measure

import (
	"runtime"
	"sync"
	"time"
)

// ResourceMetric is a snapshot of the process while a run is going.
type ResourceMetric struct {
	Time          time.Time `yaml:"time"`
	MemAllocBytes uint64    `yaml:"memAllocBytes"`
	NumGoroutines int       `yaml:"numGoroutines"`
	NumCPU        int       `yaml:"numCPU"`
}

// ResourceMonitor holds the most recent ResourceMetric.
type ResourceMonitor struct {
	lastMetric ResourceMetric
	sync.RWMutex
}

func (rm *ResourceMonitor) Get() ResourceMetric {
	rm.RLock()
	defer rm.RUnlock()

	return rm.lastMetric
}

func (rm *ResourceMonitor) Set(b ResourceMetric) {
	rm.Lock()
	defer rm.Unlock()

	rm.lastMetric = b
}

// Sample reads the current process state into the monitor and returns it.
func (rm *ResourceMonitor) Sample() ResourceMetric {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m := ResourceMetric{
		Time:          time.Now(),
		MemAllocBytes: mem.Alloc,
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
	}
	rm.Set(m)
	return m
}
