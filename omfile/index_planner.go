// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package omfile

// blockOf returns the LUT block index holding the entry for chunk index i.
func (d *Decoder) blockOf(i uint64) uint64 { return i / d.cfg.LUTChunkElementCount }

// blockByteRange returns the [lower, upper) file-byte range of LUT blocks
// [firstBlock, lastBlock] (inclusive), i.e. already aligned down/up to
// lut_chunk_length per spec.md §4.5 item 4.
func (d *Decoder) blockByteRange(firstBlock, lastBlock uint64) Range {
	return Range{
		Lower: d.cfg.LUTStart + firstBlock*d.cfg.LUTChunkLength,
		Upper: d.cfg.LUTStart + (lastBlock+1)*d.cfg.LUTChunkLength,
	}
}

// InitIndexRead returns the starting cursor for a new index-read sequence:
// the first chunk that intersects the requested rectangle, or a cursor
// already marked done if the rectangle has zero volume or lies entirely
// outside the array (spec.md §8 "Request of zero volume... planner emits
// zero instructions").
func (d *Decoder) InitIndexRead() IndexReadState {
	first, ok := d.grid.FirstIntersecting(d.cfg.ReadOffset, d.cfg.ReadCount)
	if !ok {
		return IndexReadState{done: true}
	}
	return IndexReadState{nextChunk: first, done: false}
}

// NextIndexRead advances state to the next coalesced LUT-block read
// instruction, implementing spec.md §4.5. It enumerates intersecting
// chunks starting at state's cursor, merging consecutive ones (and
// tolerating a run of non-intersecting chunks in between, up to
// io_size_merge of wasted LUT-block bytes) into one instruction, stopping
// when io_size_max would be exceeded or the chunk grid is exhausted. It
// returns false, leaving state in its terminal form, once every
// intersecting chunk has been covered.
func (d *Decoder) NextIndexRead(state *IndexReadState) bool {
	if state.done {
		return false
	}
	total := d.grid.TotalChunks()
	cursor := state.nextChunk
	if cursor >= total {
		state.done = true
		return false
	}

	// Find the first intersecting chunk at or after cursor.
	first, ok := d.nextIntersecting(cursor)
	if !ok {
		state.done = true
		return false
	}

	lower := first
	upper := first + 1
	firstBlock := d.blockOf(first)
	lastBlock := d.blockOf(first)

	for {
		next, ok := d.nextIntersecting(upper)
		if !ok {
			break
		}
		nextBlock := d.blockOf(next)
		if nextBlock == lastBlock {
			// Same LUT block as what's already covered: always merge, free.
			upper = next + 1
			continue
		}
		candidateRange := d.blockByteRange(firstBlock, nextBlock)
		// Wasted bytes are the blocks strictly between the covered range and
		// nextBlock; nextBlock itself is needed.
		gap := d.blockByteRange(lastBlock+1, nextBlock-1).Len()
		if gap <= d.cfg.IOSizeMerge && candidateRange.Len() <= d.cfg.IOSizeMax {
			upper = next + 1
			lastBlock = nextBlock
			continue
		}
		break
	}

	// The sentinel entry for `upper` must also be fetched (spec.md §4.5
	// item 4); it may live one block further on than the last included
	// chunk's own block.
	sentinelBlock := d.blockOf(upper)
	if sentinelBlock > lastBlock {
		lastBlock = sentinelBlock
	}

	state.ChunkRange = Range{Lower: lower, Upper: upper}
	state.ByteRange = d.blockByteRange(firstBlock, lastBlock)
	state.nextChunk = upper
	return true
}

// nextIntersecting returns the smallest chunk index >= from that
// intersects the requested rectangle.
func (d *Decoder) nextIntersecting(from uint64) (uint64, bool) {
	total := d.grid.TotalChunks()
	for i := from; i < total; i++ {
		if d.grid.Intersects(i, d.cfg.ReadOffset, d.cfg.ReadCount) {
			return i, true
		}
	}
	return 0, false
}
