////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package measure

// metrics.go contains the metrics object and its methods

import (
	"sync"
	"time"
)

// Metrics structure holds the list of timing events of a run. The RWMutex
// prevents two workers from writing to the list at the same time.
type Metrics struct {
	Events []Metric
	RunID  string
	sync.RWMutex
}

// Metric structure holds a single measurement, which contains a tag and a
// timestamp from when the measurement was taken.
type Metric struct {
	Tag       string
	Timestamp time.Time
}

// Measure creates a new Metric object and appends it to the Metrics's event
// list. The Metric object is created from the specified tag and a timestamp
// created at the time of function call. The timestamp is returned.
func (ms *Metrics) Measure(tag string) time.Time {
	metric := Metric{
		Tag:       tag,
		Timestamp: time.Now(),
	}

	ms.Lock()
	ms.Events = append(ms.Events, metric)
	ms.Unlock()

	return metric.Timestamp
}

// GetEvents returns a copy of the Events array.
func (ms *Metrics) GetEvents() []Metric {
	ms.RLock()
	defer ms.RUnlock()
	metricsEvents := make([]Metric, len(ms.Events))

	copy(metricsEvents, ms.Events)

	return metricsEvents
}

// Deltas pairs up events by tag and sums the time between each pair. Events
// of one tag are expected to come in start/stop pairs, interleaved with the
// events of other tags, so
//   A1, B1, A2, A3, B2
// folds to Delta(A1, A2) for A and Delta(B1, B2) for B. The unpaired A3 is
// ignored.
func (ms *Metrics) Deltas() map[string]time.Duration {
	events := ms.GetEvents()
	starts := make(map[string]time.Time)
	deltas := make(map[string]time.Duration)

	for _, e := range events {
		if start, ok := starts[e.Tag]; ok {
			deltas[e.Tag] += e.Timestamp.Sub(start)
			delete(starts, e.Tag)
		} else {
			starts[e.Tag] = e.Timestamp
		}
	}

	return deltas
}
