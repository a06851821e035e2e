// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package omfile

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/dsnet/golib/hashutil"

	"github.com/open-meteo/open-meteo-sub000/bitpack"
	"github.com/open-meteo/open-meteo-sub000/omfile/lutcodec"
)

// lutBlockHeaderLen is the fixed prefix every on-disk LUT block carries
// before its (possibly compressed) bit-packed, delta-coded payload: a
// compression tag, the delta bit width, and the accumulator the block's
// deltas resume from.
const lutBlockHeaderLen = 1 + 1 + 8

// decodeLUTBlock decodes one on-disk LUT block (spec.md §3, §6: "composed
// of blocks of lut_chunk_length bytes, each a bit-packed, delta-coded
// sequence of entries") into up to maxEntries absolute byte offsets, and
// returns the CRC-32 (IEEE) of the block's raw on-disk bytes so the caller
// can fold it into a running checksum across a multi-block index read.
func decodeLUTBlock(block []byte, maxEntries int) (offsets []uint64, crc uint32, err error) {
	defer errRecover(&err)
	if len(block) < lutBlockHeaderLen {
		panic(errf(KindFormat, "LUT block shorter than its header"))
	}
	tag := lutcodec.Tag(block[0])
	bits := uint(block[1])
	start := binary.LittleEndian.Uint64(block[2:10])
	payload := block[lutBlockHeaderLen:]

	decompressed, derr := lutcodec.Decompress(tag, payload, bitpackPayloadHint(maxEntries, bits))
	if derr != nil {
		panic(errf(KindFormat, derr.Error()))
	}

	offsets = make([]uint64, maxEntries)
	n, uerr := bitpack.UnpackDelta64(offsets, decompressed, maxEntries, bits, start)
	if uerr != nil {
		panic(errf(KindFormat, uerr.Error()))
	}
	_ = n

	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			panic(errf(KindFormat, "LUT entries are not monotonically non-decreasing"))
		}
	}

	return offsets, crc32.ChecksumIEEE(block), nil
}

// bitpackPayloadHint estimates the decompressed payload size in bytes for
// presizing a decompression buffer; an estimate is sufficient since the
// decompressor reports its own actual output length.
func bitpackPayloadHint(n int, bits uint) int {
	return (n*int(bits) + 7) / 8
}

// decodeLUTRange decodes every whole block in lutBytes (already aligned to
// block boundaries by the index planner) and returns the absolute byte
// offsets for chunk indices [firstChunk, firstChunk+count), plus the
// combined CRC-32 of the blocks touched, using the teacher's associative
// combine trick (dsnet/compress/bzip2.combineCRC) so verifying a multi-block
// read never requires re-hashing the concatenation of the blocks.
//
// baseBlock is the LUT block lutBytes[0] actually starts at. It is not
// necessarily blockOf(firstChunk): lutBytes is fetched once per index-read
// instruction, anchored at that instruction's own first chunk, while this
// function may be called again later with a firstChunk that has advanced
// into a later block of the same already-fetched lutBytes.
func decodeLUTRange(lutBytes []byte, blockLen uint64, elementsPerBlock uint64, baseBlock uint64, firstChunk uint64, count uint64) (offsets []uint64, combinedCRC uint32, err error) {
	defer errRecover(&err)

	firstBlock := firstChunk / elementsPerBlock
	withinFirst := firstChunk % elementsPerBlock
	lastEntry := firstChunk + count - 1
	lastBlock := lastEntry / elementsPerBlock

	offsets = make([]uint64, 0, count)
	for b := firstBlock; b <= lastBlock; b++ {
		start := (b - baseBlock) * blockLen
		end := start + blockLen
		if end > uint64(len(lutBytes)) {
			panic(errf(KindFormat, "LUT byte range shorter than expected block span"))
		}
		blockOffsets, crc, derr := decodeLUTBlock(lutBytes[start:end], int(elementsPerBlock))
		if derr != nil {
			return nil, 0, derr
		}
		offsets = append(offsets, blockOffsets...)
		if b == firstBlock {
			combinedCRC = crc
		} else {
			combinedCRC = hashutil.CombineCRC32(crc32.IEEE, combinedCRC, crc, int64(blockLen))
		}
	}

	lo := withinFirst
	hi := lo + count
	if hi > uint64(len(offsets)) {
		panic(errf(KindFormat, "decoded LUT range shorter than requested"))
	}
	return offsets[lo:hi], combinedCRC, nil
}
