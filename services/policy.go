////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"fmt"
	"math"
)

// CeilingPolicy decides the early-stop ceiling for each class of worker in a
// run of total positions. Workers of a class stop claiming once the shared
// cursor reaches their ceiling, leaving the tail to the other classes.
type CeilingPolicy interface {
	Ceiling(class DeviceClass, total uint64) uint64
	String() string
}

// UnrestrictedPolicy lets every worker claim up to the end of the range.
type UnrestrictedPolicy struct{}

func (UnrestrictedPolicy) Ceiling(DeviceClass, uint64) uint64 {
	return Unrestricted
}

func (UnrestrictedPolicy) String() string {
	return "none"
}

// TailReservePolicy keeps the last Reserve positions of a run away from CPU
// workers.
type TailReservePolicy struct {
	Reserve uint64
}

func (p TailReservePolicy) Ceiling(class DeviceClass, total uint64) uint64 {
	if class != CPU {
		return Unrestricted
	}
	if p.Reserve >= total {
		return 0
	}
	return total - p.Reserve
}

func (p TailReservePolicy) String() string {
	return fmt.Sprintf("tailReserve(%d)", p.Reserve)
}

// ThroughputPolicy reserves for the GPU streams the positions they can finish
// in the time one CPU worker spends on one chunk, so no CPU chunk is still
// running after the GPUs have drained the range.
type ThroughputPolicy struct {
	// Positions per second for one CPU thread
	CPURate float64
	// Positions per second for one GPU stream
	GPURate float64
	// Total GPU streams in the pool
	NumGPUStreams uint32
	// Positions per claim
	ChunkSize uint64
}

// Reserve is the size of the tail kept for the GPU streams.
func (p ThroughputPolicy) Reserve() uint64 {
	if p.CPURate <= 0 || p.GPURate <= 0 || p.NumGPUStreams == 0 {
		return 0
	}
	cpuChunkSeconds := float64(p.ChunkSize) / p.CPURate
	reserve := math.Ceil(cpuChunkSeconds * p.GPURate * float64(p.NumGPUStreams))
	if reserve >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(reserve)
}

func (p ThroughputPolicy) Ceiling(class DeviceClass, total uint64) uint64 {
	return TailReservePolicy{Reserve: p.Reserve()}.Ceiling(class, total)
}

func (p ThroughputPolicy) String() string {
	return fmt.Sprintf("throughput(cpu=%g/s, gpu=%g/s x%d)",
		p.CPURate, p.GPURate, p.NumGPUStreams)
}

// ceilings resolves a policy into one ceiling per device class. A restricted
// ceiling only applies when some worker of another class is left to drain the
// tail; a pool with no GPU streams is always unrestricted.
func ceilings(policy CeilingPolicy, total uint64, numGPUStreams uint32) [NumDeviceClasses]uint64 {
	var out [NumDeviceClasses]uint64
	for class := DeviceClass(0); class < NumDeviceClasses; class++ {
		out[class] = Unrestricted
	}
	if policy == nil || numGPUStreams == 0 {
		return out
	}
	out[CPU] = policy.Ceiling(CPU, total)
	return out
}
