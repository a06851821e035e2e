// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package filter

// ndWalk drives the n-dimensional delta/XOR traversal shared by every
// width and every transform in this file. For each outer dimension
// nDimOuter (all but the fastest-varying one — delta along the fastest
// dimension would need no transform of its own since adjacent elements are
// already contiguous and zigzag-friendly), it visits every element of the
// chunk in turn and, for elements not on the nDimOuter==0 face, calls apply
// with the flat write position and the flat position of its neighbor one
// step back along nDimOuter. decode walks forward (low to high write
// position); encode walks backward, so that each position is transformed
// using its neighbor's still-original value.
//
// This is a direct, shape-preserving translation of the original decoder's
// delta_nd_decode16/delta_nd_encode16 (and the xor_nd_* variants, which
// share the identical index arithmetic and differ only in the applied
// operation): dimension_count-1 outer passes, each walking every element of
// the chunk once. omshape.Grid.ChunkShape supplies the per-dimension
// extents that calcLengthInChunk recomputes inline in the original C.
func ndWalk(g grid, chunkIndex uint64, decode bool, apply func(writePos, readPos uint64)) {
	ndims := g.NDims()
	if ndims <= 1 {
		return
	}
	lengths := make([]uint64, ndims)
	g.ChunkShape(chunkIndex, lengths)

	lengthInChunk := uint64(1)
	for _, l := range lengths {
		lengthInChunk *= l
	}

	for nDimOuter := 0; nDimOuter < ndims-1; nDimOuter++ {
		var start, end uint64
		var step int64
		if decode {
			start, end, step = 0, lengthInChunk, 1
		} else {
			start, end, step = lengthInChunk, 0, -1
		}
		writePos := start
		for {
			if decode && writePos == end {
				break
			}
			rollingMultiplyChunkLength := uint64(1)
			readPos := uint64(0)
			skip := false
			for i := ndims - 1; i >= 0; i-- {
				length0 := lengths[i]
				x := (writePos / rollingMultiplyChunkLength) % length0
				if i == nDimOuter && x == 0 {
					skip = true
					break
				}
				if i == nDimOuter {
					readPos += (x - 1) * rollingMultiplyChunkLength
				} else {
					readPos += x * rollingMultiplyChunkLength
				}
				if i == 0 {
					apply(writePos, readPos)
				}
				rollingMultiplyChunkLength *= length0
			}
			_ = skip
			if decode {
				writePos++
				if writePos == lengthInChunk {
					break
				}
			} else {
				if writePos == 0 {
					break
				}
				writePos = uint64(int64(writePos) + step)
			}
		}
	}
}

// DeltaNDDecode16 reverses the n-dimensional delta transform for a chunk of
// int16 residuals, identified by chunkIndex within g. Dimension counts of 1
// are a no-op: with a single dimension there is no outer axis left to
// delta against once the fastest-varying one is excluded.
func DeltaNDDecode16(g grid, chunkIndex uint64, buf []int16) {
	ndWalk(g, chunkIndex, true, func(writePos, readPos uint64) {
		buf[writePos] += buf[readPos]
	})
}

// DeltaNDEncode16 is the mirror of DeltaNDDecode16.
func DeltaNDEncode16(g grid, chunkIndex uint64, buf []int16) {
	ndWalk(g, chunkIndex, false, func(writePos, readPos uint64) {
		buf[writePos] -= buf[readPos]
	})
}
