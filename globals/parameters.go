////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package globals

import (
	"fmt"
	"github.com/pkg/errors"
)

// Devices describes the compute pool a run is spread across.
type Devices struct {
	// Number of CPU worker threads
	NumThreads uint32 `yaml:"numThreads"`
	// Number of GPUs; zero runs on the CPU pool only
	NumGPUs uint32 `yaml:"numGPUs"`
	// Number of concurrent streams per GPU
	NumStreamsPerGPU uint32 `yaml:"numStreamsPerGPU"`
	// When GPUs are present, also put the CPU threads to work
	AlsoDoCPUWork bool `yaml:"alsoDoCPUWork"`
}

// NumGPUStreams is the total number of GPU workers in the pool.
func (d Devices) NumGPUStreams() uint32 {
	return d.NumGPUs * d.NumStreamsPerGPU
}

// NumCPUWorkers is the number of CPU workers that will draw from a run.
func (d Devices) NumCPUWorkers() uint32 {
	if d.NumGPUStreams() == 0 || d.AlsoDoCPUWork {
		return d.NumThreads
	}
	return 0
}

// Parameters is the read-only snapshot of a simulation that the dispatch
// layer needs. Everything about the physics lives with the kernels.
type Parameters struct {
	Mode      Mode      `yaml:"mode"`
	Algorithm Algorithm `yaml:"algorithm"`

	// Scan grid dimensions, used in ProbeScan mode
	ProbesX uint64 `yaml:"probesX"`
	ProbesY uint64 `yaml:"probesY"`

	// Number of tilts, used in PlaneWaveTilts mode
	NumTilts uint64 `yaml:"numTilts"`

	// Preferred number of positions handed out per claim
	BatchSize uint64 `yaml:"batchSize"`

	Devices Devices `yaml:"devices"`
}

// NumPositions is the size of the global index range of the run.
func (p *Parameters) NumPositions() uint64 {
	if p.Mode == PlaneWaveTilts {
		return p.NumTilts
	}
	return p.ProbesX * p.ProbesY
}

// Validate checks the parameters can drive a run.
func (p *Parameters) Validate() error {
	if p.Mode >= numModes {
		return errors.Errorf("invalid simulation mode %d", p.Mode)
	}
	if p.BatchSize == 0 {
		return errors.New("batch size must be at least 1")
	}
	if p.Mode == ProbeScan && p.ProbesX != 0 &&
		p.ProbesX*p.ProbesY/p.ProbesX != p.ProbesY {
		return errors.Errorf("scan grid %dx%d overflows the position range",
			p.ProbesX, p.ProbesY)
	}
	if p.NumPositions() == 0 {
		return errors.Errorf("%s run has no positions to compute", p.Mode)
	}
	if p.Devices.NumCPUWorkers() == 0 && p.Devices.NumGPUStreams() == 0 {
		return errors.New("no CPU threads or GPU streams configured")
	}
	return nil
}

func (p *Parameters) String() string {
	return fmt.Sprintf("%s/%s positions=%d batch=%d cpu=%d gpu=%dx%d",
		p.Mode, p.Algorithm, p.NumPositions(), p.BatchSize,
		p.Devices.NumCPUWorkers(), p.Devices.NumGPUs,
		p.Devices.NumStreamsPerGPU)
}

// ProbePosition locates one unit of work. In ProbeScan mode X and Y index the
// scan grid; in PlaneWaveTilts mode Tilt is the tilt index.
type ProbePosition struct {
	X, Y uint64
	Tilt uint64
}
