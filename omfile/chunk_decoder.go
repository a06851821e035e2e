// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package omfile

import (
	"math"

	"github.com/open-meteo/open-meteo-sub000/bitpack"
	"github.com/open-meteo/open-meteo-sub000/filter"
	"github.com/open-meteo/open-meteo-sub000/scale"
)

// elementSink receives one decoded chunk element already bit-unpacked and
// filter-reversed (still in its raw stored representation — a sign-free
// uint32 lane) along with its destination index in the caller's output
// buffer; it is responsible for any further scale conversion or type cast
// before writing it.
type elementSink func(dst uint64, rawStored uint32)

// decodeChunks implements spec.md §4.4's per-chunk procedure (bit-unpack,
// inverse filter, shape/position bookkeeping) and hands every in-rectangle
// element to sink for the scale/cast step, which differs between
// DecodeChunks (always float64) and DecodeChunksInt16 (the stored-type
// passthrough spec.md §4.3 calls for). scratch must hold at least
// d.ReadBufferSize() uint32 lanes; it is reused across chunks.
//
// decodeChunks returns the number of chunks it decoded. A malformed stream
// (bit count exceeding the element width, a truncated chunk, a chunk index
// past the end of the grid) aborts the whole call per spec.md §4.4's error
// conditions — the engine does not attempt partial recovery within a
// chunk.
func (d *Decoder) decodeChunks(chunkRange Range, data []byte, scratch []uint32, sink elementSink) (decoded int, err error) {
	defer errRecover(&err)

	if chunkRange.Upper > d.grid.TotalChunks() {
		panic(errf(KindBounds, "chunk index range exceeds total chunk count"))
	}
	if uint64(len(scratch)) < d.maxChunkElements {
		panic(errf(KindBuffer, "scratch buffer smaller than max_chunk_elements"))
	}

	storedWidth := d.cfg.Compression.storedWidth()
	cursor := 0
	ndims := d.grid.NDims()

	for chunkIndex := chunkRange.Lower; chunkIndex < chunkRange.Upper; chunkIndex++ {
		if cursor >= len(data) {
			panic(errf(KindFormat, "truncated chunk stream"))
		}
		bits := uint(data[cursor])
		cursor++
		if bits > storedWidth {
			panic(errf(KindFormat, "bit count exceeds element width"))
		}

		n := int(d.grid.ChunkElementCount(chunkIndex))
		lanes := scratch[:n]

		var consumed int
		var uerr error
		if storedWidth == 32 {
			consumed, uerr = bitpack.Unpack32(lanes, data[cursor:], n, bits, bitpack.AutoLayout())
		} else {
			lanes16 := make([]uint16, n)
			consumed, uerr = bitpack.Unpack16(lanes16, data[cursor:], n, bits, bitpack.AutoLayout())
			for i, v := range lanes16 {
				lanes[i] = uint32(v)
			}
		}
		if uerr != nil {
			panic(errf(KindFormat, uerr.Error()))
		}
		cursor += consumed

		var shape [64]uint64
		shapeDst := shape[:ndims]
		if ndims > len(shape) {
			shapeDst = make([]uint64, ndims)
		}
		d.grid.ChunkShape(chunkIndex, shapeDst)

		d.applyInverseFilter(chunkIndex, ndims, shapeDst, lanes, storedWidth)
		d.scatterChunk(chunkIndex, shapeDst, lanes, sink)
		decoded++
	}
	return decoded, nil
}

// DecodeChunks is decodeChunks' float64 entry point: every in-rectangle
// element is scale-converted (or, for the lossless xor codec, simply
// widened) to its logical float64 value, regardless of Config.Datatype.
func (d *Decoder) DecodeChunks(chunkRange Range, data []byte, output []float64, scratch []uint32) (decoded int, err error) {
	isFloat := d.cfg.Compression.isFloatFilter()
	scaleKind := d.cfg.Compression.scaleKind()
	storedWidth := d.cfg.Compression.storedWidth()
	return d.decodeChunks(chunkRange, data, scratch, func(dst uint64, raw uint32) {
		if isFloat {
			output[dst] = float64(math.Float32frombits(raw))
			return
		}
		signed := scale.SignExtend(uint64(raw), storedWidth)
		output[dst] = scale.Decode(signed, storedWidth, d.cfg.Scalefactor, scaleKind)
	})
}

// DecodeChunksInt16 is decodeChunks' integer entry point: spec.md §4.3's
// "the user sees... integers, if the request type matches the stored
// type". It writes the raw stored int16 for every in-rectangle element,
// skipping the scale conversion entirely, and is only valid when
// Config.Datatype is I16 (checked by NewDecoder against Config.Compression,
// and re-checked here since the stored width this bypass assumes — 16 bits
// — only holds for the two integer compressions).
func (d *Decoder) DecodeChunksInt16(chunkRange Range, data []byte, output []int16, scratch []uint32) (decoded int, err error) {
	if d.cfg.Datatype != I16 {
		return 0, errf(KindConfig, "DecodeChunksInt16 requires Config.Datatype == I16")
	}
	storedWidth := d.cfg.Compression.storedWidth()
	return d.decodeChunks(chunkRange, data, scratch, func(dst uint64, raw uint32) {
		output[dst] = int16(scale.SignExtend(uint64(raw), storedWidth))
	})
}

// applyInverseFilter reverses the transform the chunk was stored under
// (spec.md §4.2), dispatching on d.cfg.Compression's filter.Kind: KindNone
// for a single dimension (there is no outer axis left once the innermost is
// excluded), and KindDelta/KindXOR otherwise — further split on dimension
// count into the 2-D functions for the common (and fastest) two-dimensional
// case versus the N-D generalization.
func (d *Decoder) applyInverseFilter(chunkIndex uint64, ndims int, shape []uint64, lanes []uint32, storedWidth uint) {
	switch d.cfg.Compression.filterKind(ndims) {
	case filter.KindNone:
		return
	case filter.KindXOR:
		buf := asFloat32Buf(lanes)
		if ndims == 2 {
			filter.XOR2DDecodeFloat32(int(shape[0]), int(shape[1]), buf)
		} else {
			filter.XORNDDecodeFloat32(d.grid, chunkIndex, buf)
		}
		putFloat32Buf(lanes, buf)
	case filter.KindDelta:
		buf := asInt16Buf(lanes)
		if ndims == 2 {
			filter.Delta2DDecode16(int(shape[0]), int(shape[1]), buf)
		} else {
			filter.DeltaNDDecode16(d.grid, chunkIndex, buf)
		}
		putInt16Buf(lanes, buf)
	}
}

// scatterChunk computes, for every element of the decoded chunk that lies
// inside the requested hyper-rectangle, its destination index in the
// caller's output buffer (spec.md §4.3 "Scatter", §4.4 step 5), handing the
// raw stored lane and that index to sink for the scale/cast step.
func (d *Decoder) scatterChunk(chunkIndex uint64, shape []uint64, lanes []uint32, sink elementSink) {
	ndims := d.grid.NDims()
	var coord [64]uint64
	base := coord[:ndims]
	if ndims > len(coord) {
		base = make([]uint64, ndims)
	}
	d.grid.MultiIndex(chunkIndex, base)

	chunkOrigin := make([]uint64, ndims)
	for i := range base {
		chunkOrigin[i] = base[i] * d.cfg.Chunks[i]
	}

	elemCoord := make([]uint64, ndims)
	n := 1
	for _, s := range shape {
		n *= int(s)
	}
	for flat := 0; flat < n; flat++ {
		rem := flat
		for i := ndims - 1; i >= 0; i-- {
			elemCoord[i] = uint64(rem) % shape[i]
			rem /= int(shape[i])
		}

		logical := make([]uint64, ndims)
		inRect := true
		for i := range logical {
			logical[i] = chunkOrigin[i] + elemCoord[i]
			if logical[i] < d.cfg.ReadOffset[i] || logical[i] >= d.cfg.ReadOffset[i]+d.cfg.ReadCount[i] {
				inRect = false
				break
			}
		}
		if !inRect {
			continue
		}

		dst := uint64(0)
		stride := uint64(1)
		for i := ndims - 1; i >= 0; i-- {
			destIdx := d.cfg.CubeOffset[i] + (logical[i] - d.cfg.ReadOffset[i])
			dst += destIdx * stride
			stride *= d.cfg.CubeDimensions[i]
		}
		sink(dst, lanes[flat])
	}
}

func asInt16Buf(lanes []uint32) []int16 {
	out := make([]int16, len(lanes))
	for i, v := range lanes {
		out[i] = int16(uint16(v))
	}
	return out
}

func putInt16Buf(lanes []uint32, buf []int16) {
	for i, v := range buf {
		lanes[i] = uint32(uint16(v))
	}
}

func asFloat32Buf(lanes []uint32) []float32 {
	out := make([]float32, len(lanes))
	for i, v := range lanes {
		out[i] = math.Float32frombits(v)
	}
	return out
}

func putFloat32Buf(lanes []uint32, buf []float32) {
	for i, v := range buf {
		lanes[i] = math.Float32bits(v)
	}
}
