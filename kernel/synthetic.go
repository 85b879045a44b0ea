////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package kernel holds stand-in propagation kernels for exercising the
// dispatch layer without the numerical code.
package kernel

import (
	"context"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gitlab.com/elixxir/prism/services"
	"time"
)

// ErrInjected is returned by Synthetic when it reaches FailAt.
var ErrInjected = errors.New("injected kernel failure")

// Synthetic spends a fixed time per position, depending on the device class
// of the stream computing it.
type Synthetic struct {
	CPULatency time.Duration
	GPULatency time.Duration

	// When set, the chunk containing this position fails
	FailAt *uint64
}

// Compute implements services.Kernel.
func (k *Synthetic) Compute(ctx context.Context, s services.Stream,
	c services.Chunk) error {

	if k.FailAt != nil && c.Contains(*k.FailAt) {
		return errors.Wrapf(ErrInjected, "position %d on %s", *k.FailAt,
			s.GetName())
	}

	latency := k.CPULatency
	if s.Class == services.GPU {
		latency = k.GPULatency
	}

	cost := latency * time.Duration(c.Len())
	if cost <= 0 {
		return nil
	}

	timer := time.NewTimer(cost)
	defer timer.Stop()

	select {
	case <-timer.C:
		jww.TRACE.Printf("%s computed positions %s in %s", s.GetName(), c, cost)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
