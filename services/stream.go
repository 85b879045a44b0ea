////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import "fmt"

// DeviceClass is the category of compute device a worker is bound to.
type DeviceClass uint8

const (
	CPU DeviceClass = iota
	GPU

	NumDeviceClasses
)

func (dc DeviceClass) String() string {
	switch dc {
	case CPU:
		return "cpu"
	case GPU:
		return "gpu"
	default:
		return fmt.Sprintf("DeviceClass(%d)", uint8(dc))
	}
}

// Stream identifies one worker of a run: a CPU thread, or one stream on one
// GPU.
type Stream struct {
	Class DeviceClass
	// GPU ordinal, always zero for CPU threads
	Device uint32
	// Thread index for CPU, stream index on the device for GPU
	Index uint32
}

func (s Stream) GetName() string {
	if s.Class == GPU {
		return fmt.Sprintf("gpu%d.s%d", s.Device, s.Index)
	}
	return fmt.Sprintf("cpu%d", s.Index)
}

// buildStreams lays out numThreads CPU workers followed by numStreams
// streams on each of numGPUs devices.
func buildStreams(numThreads, numGPUs, numStreams uint32) []Stream {
	streams := make([]Stream, 0, numThreads+numGPUs*numStreams)
	for i := uint32(0); i < numThreads; i++ {
		streams = append(streams, Stream{Class: CPU, Index: i})
	}
	for g := uint32(0); g < numGPUs; g++ {
		for s := uint32(0); s < numStreams; s++ {
			streams = append(streams, Stream{Class: GPU, Device: g, Index: s})
		}
	}
	return streams
}
