// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package omfile

// Range is a half-open [Lower, Upper) interval, reused for both chunk-index
// ranges and file-byte ranges — the original decoder reuses a single
// om_range_t for both (SPEC_FULL.md §10); this module keeps that reuse
// since the shape is genuinely identical and a second type would be pure
// ceremony.
type Range struct {
	Lower uint64
	Upper uint64
}

// Len returns Upper - Lower.
func (r Range) Len() uint64 { return r.Upper - r.Lower }

// IndexReadState is the index read planner's cursor (spec.md §4.5): all
// fields are in chunk-index units except ByteRange, which is in bytes of
// the LUT file region.
type IndexReadState struct {
	ChunkRange Range
	ByteRange  Range
	nextChunk  uint64
	done       bool
}

// DataReadState is the data read planner's cursor (spec.md §4.6): shaped
// identically to IndexReadState but ByteRange indexes into the compressed
// data region, and ChunkRange is seeded from the current index-read
// instruction.
type DataReadState struct {
	ChunkRange  Range
	ByteRange   Range
	outerUpper  uint64 // the owning index-read instruction's ChunkRange.Upper
	baseBlock   uint64 // LUT block lutBytes[0] is anchored at (blockOf(ChunkRange.Lower) at Init time)
	cursorChunk uint64
	done        bool
}
