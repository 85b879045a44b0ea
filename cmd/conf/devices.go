////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package conf

import (
	"github.com/pkg/errors"
	"gitlab.com/elixxir/prism/globals"
	"gitlab.com/elixxir/prism/services"
	"strings"
)

// Names of the early-stop policies accepted in devices.earlyStop.policy
const (
	PolicyNone        = "none"
	PolicyTailReserve = "tailReserve"
	PolicyThroughput  = "throughput"
)

// Contains worker pool config params
type Devices struct {
	globals.Devices `yaml:",inline"`
	EarlyStop       EarlyStop `yaml:"earlyStop"`
}

// EarlyStop selects how soon CPU workers stop claiming positions when GPU
// streams are present.
type EarlyStop struct {
	Policy string `yaml:"policy"`
	// Positions kept for GPU streams by tailReserve
	Reserve uint64 `yaml:"reserve"`
	// Positions per second of one worker, used by throughput
	CPURate float64 `yaml:"cpuRate"`
	GPURate float64 `yaml:"gpuRate"`
}

// NewPolicy builds the ceiling policy described by the config. chunkSize is
// the batch size of the run.
func (e EarlyStop) NewPolicy(d globals.Devices, chunkSize uint64) (services.CeilingPolicy, error) {
	switch {
	case e.Policy == "" || strings.EqualFold(e.Policy, PolicyNone):
		return services.UnrestrictedPolicy{}, nil
	case strings.EqualFold(e.Policy, PolicyTailReserve):
		return services.TailReservePolicy{Reserve: e.Reserve}, nil
	case strings.EqualFold(e.Policy, PolicyThroughput):
		if e.CPURate <= 0 || e.GPURate <= 0 {
			return nil, errors.Errorf("throughput policy needs positive "+
				"rates, got cpu %v and gpu %v", e.CPURate, e.GPURate)
		}
		return services.ThroughputPolicy{
			CPURate:       e.CPURate,
			GPURate:       e.GPURate,
			NumGPUStreams: d.NumGPUStreams(),
			ChunkSize:     chunkSize,
		}, nil
	default:
		return nil, errors.Errorf("unknown early stop policy %q", e.Policy)
	}
}
