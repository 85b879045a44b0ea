////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	jww "github.com/spf13/jwalterweatherman"
	"go.uber.org/atomic"
	"math/bits"
)

// Reporter receives run progress. Workers call Report after every completed
// chunk, concurrently, so implementations must be thread safe.
type Reporter interface {
	Report(completed, total uint64)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(completed, total uint64)

func (f ReporterFunc) Report(completed, total uint64) {
	f(completed, total)
}

// multiReporter fans progress out to several reporters.
type multiReporter []Reporter

func (m multiReporter) Report(completed, total uint64) {
	for _, r := range m {
		r.Report(completed, total)
	}
}

// MultiReporter returns a Reporter that forwards to every non-nil reporter.
func MultiReporter(reporters ...Reporter) Reporter {
	var m multiReporter
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

// LogReporter logs progress to jww.INFO each time the run crosses another
// Step percent.
type LogReporter struct {
	Name string
	Step uint64

	last atomic.Uint64
}

func NewLogReporter(name string, step uint64) *LogReporter {
	if step == 0 || step > 100 {
		step = 10
	}
	return &LogReporter{Name: name, Step: step}
}

func (lr *LogReporter) Report(completed, total uint64) {
	if total == 0 {
		return
	}
	percent := percentOf(completed, total)
	mark := percent - percent%lr.Step

	for {
		last := lr.last.Load()
		if mark <= last {
			return
		}
		if lr.last.CompareAndSwap(last, mark) {
			break
		}
	}
	jww.INFO.Printf("%s: %d%% (%d/%d positions)", lr.Name, percent,
		completed, total)
}

// percentOf returns completed*100/total rounded down without overflowing for
// totals near the top of the uint64 range.
func percentOf(completed, total uint64) uint64 {
	if completed >= total {
		return 100
	}
	hi, lo := bits.Mul64(completed, 100)
	percent, _ := bits.Div64(hi, lo, total)
	return percent
}
