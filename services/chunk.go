////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package services

import "fmt"

// Chunk is a contiguous run of position indices [begin, end) handed to
// exactly one worker. Once claimed it belongs to that worker; there is no way
// to give it back.
type Chunk struct {
	begin uint64
	end   uint64
}

func NewChunk(begin, end uint64) Chunk {
	return Chunk{begin, end}
}

func (c Chunk) Begin() uint64 {
	return c.begin
}

func (c Chunk) End() uint64 {
	return c.end
}

func (c Chunk) Len() uint64 {
	return c.end - c.begin
}

// Contains reports whether index i falls inside the chunk.
func (c Chunk) Contains(i uint64) bool {
	return i >= c.begin && i < c.end
}

func (c Chunk) String() string {
	return fmt.Sprintf("[%d, %d)", c.begin, c.end)
}
