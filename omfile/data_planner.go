// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package omfile

// InitDataRead seeds a data-read cursor from the index planner's current
// instruction (spec.md §4.6 "State... chunk_index is seeded from the index
// planner's current instruction"). baseBlock anchors lutBytes[0] at the LUT
// block containing indexRange.Lower — the same block the owning index-read
// instruction's ByteRange starts at — since lutBytes is fetched exactly
// once per index instruction and every subsequent NextDataRead call within
// that instruction must keep resolving offsets relative to that same base.
func (d *Decoder) InitDataRead(indexRange Range) DataReadState {
	return DataReadState{
		cursorChunk: indexRange.Lower,
		outerUpper:  indexRange.Upper,
		baseBlock:   d.blockOf(indexRange.Lower),
	}
}

// NextDataRead advances state to the next coalesced compressed-data read
// instruction within the chunk range the owning index-read instruction
// covers (spec.md §4.6). lutBytes must be the decoded-from-disk LUT region
// spanning exactly the index instruction's ByteRange; it is decoded here
// (bit-unpack, delta, optional block decompression — package omfile's
// lut.go) into the chunk_index.lower .. chunk_index.upper+1 inclusive
// sentinel entries needed to resolve every chunk's compressed byte range.
// lutBytes is anchored at state.baseBlock, not at state.cursorChunk's own
// block — cursorChunk advances across calls and may cross a LUT-block
// boundary within a single index instruction's inner loop, while lutBytes
// itself is fetched only once per index instruction.
func (d *Decoder) NextDataRead(state *DataReadState, lutBytes []byte) (ok bool, err error) {
	defer errRecover(&err)
	if state.done || state.cursorChunk >= state.outerUpper {
		state.done = true
		return false, nil
	}

	count := state.outerUpper - state.cursorChunk + 1 // + sentinel
	offsets, _, derr := decodeLUTRange(lutBytes, d.cfg.LUTChunkLength, d.cfg.LUTChunkElementCount, state.baseBlock, state.cursorChunk, count)
	if derr != nil {
		return false, derr
	}

	cursor := state.cursorChunk
	first, ok := d.nextIntersectingWithin(cursor, state.outerUpper)
	if !ok {
		state.done = true
		return false, nil
	}

	lower := first
	upper := first + 1
	byteLower := offsets[first-state.cursorChunk]
	byteUpper := offsets[first-state.cursorChunk+1]

	for {
		next, ok := d.nextIntersectingWithin(upper, state.outerUpper)
		if !ok {
			break
		}
		nextLower := offsets[next-state.cursorChunk]
		nextUpper := offsets[next-state.cursorChunk+1]
		gap := nextLower - byteUpper
		candidateLen := nextUpper - byteLower
		if gap <= d.cfg.IOSizeMerge && candidateLen <= d.cfg.IOSizeMax {
			upper = next + 1
			byteUpper = nextUpper
			continue
		}
		break
	}

	state.ChunkRange = Range{Lower: lower, Upper: upper}
	state.ByteRange = Range{Lower: byteLower, Upper: byteUpper}
	state.cursorChunk = upper
	return true, nil
}

// nextIntersectingWithin returns the smallest chunk index in [from, limit)
// that intersects the requested rectangle.
func (d *Decoder) nextIntersectingWithin(from, limit uint64) (uint64, bool) {
	for i := from; i < limit; i++ {
		if d.grid.Intersects(i, d.cfg.ReadOffset, d.cfg.ReadCount) {
			return i, true
		}
	}
	return 0, false
}
