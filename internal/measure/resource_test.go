////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package measure

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

// Tests that Set() stores a ResourceMetric that Get() returns.
func TestResourceMonitor_SetGet(t *testing.T) {
	expected := ResourceMetric{
		Time:          time.Now(),
		MemAllocBytes: uint64(rand.Int63n(100)),
		NumGoroutines: rand.Intn(100),
		NumCPU:        rand.Intn(100),
	}

	rm := ResourceMonitor{}
	rm.Set(expected)

	if !reflect.DeepEqual(expected, rm.Get()) {
		t.Errorf("Get() returned an incorrect ResourceMetric"+
			"\n\texpected: %v\n\treceived: %v", expected, rm.Get())
	}
}

// Tests that Sample() reads the live process and stores the result.
func TestResourceMonitor_Sample(t *testing.T) {
	rm := ResourceMonitor{}
	before := time.Now()
	m := rm.Sample()

	if m.Time.Before(before) {
		t.Errorf("Sample() timestamp %s is before the call %s", m.Time, before)
	}
	if m.NumGoroutines < 1 || m.NumCPU < 1 || m.MemAllocBytes == 0 {
		t.Errorf("Sample() returned an implausible metric: %+v", m)
	}
	if !reflect.DeepEqual(m, rm.Get()) {
		t.Errorf("Sample() did not store its metric")
	}
}

// Test that Set() is thread safe by checking if it correctly locks the
// ResourceMonitor.
func TestResourceMonitor_Set_Lock(t *testing.T) {
	rm := ResourceMonitor{}
	rm.Lock()

	result := make(chan bool)
	go func() {
		rm.Set(ResourceMetric{})
		result <- true
	}()

	select {
	case <-result:
		t.Error("Set() did not correctly lock the thread when expected")
	case <-time.After(100 * time.Millisecond):
		return
	}
}

func TestWorkerTag(t *testing.T) {
	tag := WorkerTag(TagKernel, "gpu1.s0")
	if tag != "Kernel:gpu1.s0" {
		t.Errorf("WorkerTag() returned %q", tag)
	}

	base, worker := SplitTag(tag)
	if base != TagKernel || worker != "gpu1.s0" {
		t.Errorf("SplitTag(%q) returned %q, %q", tag, base, worker)
	}

	base, worker = SplitTag("Hook")
	if base != "Hook" || worker != "" {
		t.Errorf("SplitTag(Hook) returned %q, %q", base, worker)
	}
}
