////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"gitlab.com/elixxir/prism/internal/measure"
	"gopkg.in/yaml.v2"
	"time"
)

const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// ClassSummary is the work done by one device class in a run.
type ClassSummary struct {
	Workers   uint32 `yaml:"workers"`
	Chunks    uint64 `yaml:"chunks"`
	Positions uint64 `yaml:"positions"`
	// Absent when the class was unrestricted
	Ceiling *uint64 `yaml:"ceiling,omitempty"`
}

// Summary is the outcome of a run.
type Summary struct {
	RunID      string                   `yaml:"runID"`
	Parameters string                   `yaml:"parameters"`
	Policy     string                   `yaml:"policy"`
	Status     string                   `yaml:"status"`
	Error      string                   `yaml:"error,omitempty"`
	Total      uint64                   `yaml:"total"`
	Completed  uint64                   `yaml:"completed"`
	Unclaimed  uint64                   `yaml:"unclaimed"`
	Classes    map[string]ClassSummary  `yaml:"classes"`
	KernelTime map[string]time.Duration `yaml:"kernelTime"`
	HookTime   map[string]time.Duration `yaml:"hookTime,omitempty"`
	Started    time.Time                `yaml:"started"`
	Wall       time.Duration            `yaml:"wall"`
	Resources  measure.ResourceMetric   `yaml:"resources"`
}

// Marshal renders the summary as YAML.
func (s *Summary) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// summarize collects the state of the run once every worker has stopped.
func (r *Run) summarize(start time.Time, err error) *Summary {
	pars := r.resolver.Parameters()

	s := &Summary{
		RunID:      r.id,
		Parameters: pars.String(),
		Policy:     r.policy.String(),
		Status:     StatusComplete,
		Total:      r.resolver.Total(),
		Completed:  r.completed.Load(),
		Unclaimed:  r.resolver.Remaining(),
		Classes:    make(map[string]ClassSummary, NumDeviceClasses),
		KernelTime: make(map[string]time.Duration),
		HookTime:   make(map[string]time.Duration),
		Started:    start,
		Wall:       time.Since(start),
		Resources:  r.resources.Sample(),
	}

	for class := DeviceClass(0); class < NumDeviceClasses; class++ {
		cs := ClassSummary{
			Workers:   r.counts[class].workers,
			Chunks:    r.counts[class].chunks.Load(),
			Positions: r.counts[class].positions.Load(),
		}
		if r.ceilings[class] != Unrestricted {
			ceiling := r.ceilings[class]
			cs.Ceiling = &ceiling
		}
		s.Classes[class.String()] = cs
	}

	for tag, d := range r.metrics.Deltas() {
		base, worker := measure.SplitTag(tag)
		switch base {
		case measure.TagKernel:
			s.KernelTime[worker] += d
		case measure.TagHook:
			s.HookTime[worker] += d
		}
	}

	if err != nil || s.Completed != s.Total {
		s.Status = StatusFailed
	}
	if err != nil {
		s.Error = err.Error()
	}

	return s
}
