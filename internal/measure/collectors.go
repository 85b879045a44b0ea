////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package measure

import (
	"github.com/prometheus/client_golang/prometheus"
	"time"
)

// Collectors are the Prometheus metrics exported for dispatch. Build them with
// NewCollectors and register them once per process.
type Collectors struct {
	ChunksClaimed      *prometheus.CounterVec
	PositionsCompleted *prometheus.CounterVec
	ChunkSeconds       *prometheus.HistogramVec
	Progress           prometheus.Gauge
}

func NewCollectors() *Collectors {
	return &Collectors{
		ChunksClaimed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prism_chunks_claimed_total",
				Help: "Chunks of positions claimed, by device class",
			},
			[]string{"class"},
		),
		PositionsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prism_positions_completed_total",
				Help: "Positions computed, by device class",
			},
			[]string{"class"},
		),
		ChunkSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prism_chunk_seconds",
				Help:    "Time spent computing one chunk, by device class",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"class"},
		),
		Progress: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "prism_run_progress_ratio",
				Help: "Fraction of the current run's positions computed",
			},
		),
	}
}

// Register adds every collector to reg.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.ChunksClaimed,
		c.PositionsCompleted, c.ChunkSeconds, c.Progress} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// ObserveClaim counts one chunk claimed by a worker of class.
func (c *Collectors) ObserveClaim(class string) {
	c.ChunksClaimed.WithLabelValues(class).Inc()
}

// ObserveChunk records a computed chunk of n positions.
func (c *Collectors) ObserveChunk(class string, n uint64, elapsed time.Duration) {
	c.PositionsCompleted.WithLabelValues(class).Add(float64(n))
	c.ChunkSeconds.WithLabelValues(class).Observe(elapsed.Seconds())
}

// Report sets the progress gauge; it satisfies services.Reporter.
func (c *Collectors) Report(completed, total uint64) {
	if total == 0 {
		c.Progress.Set(1)
		return
	}
	c.Progress.Set(float64(completed) / float64(total))
}
