////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import (
	"context"
	"time"
)

// Kernel computes the exit wavefunctions of a chunk of positions on the
// device the stream is bound to. Any error is fatal to the run.
type Kernel interface {
	Compute(ctx context.Context, s Stream, c Chunk) error
}

// KernelFunc adapts a function to the Kernel interface.
type KernelFunc func(ctx context.Context, s Stream, c Chunk) error

func (f KernelFunc) Compute(ctx context.Context, s Stream, c Chunk) error {
	return f(ctx, s, c)
}

// ChunkHook is called by a worker after its chunk has been computed and
// before progress is reported. An error aborts the run.
type ChunkHook func(s Stream, c Chunk, elapsed time.Duration) error
