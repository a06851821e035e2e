// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package omfile implements the decode pipeline at the center of this
// module: the chunk-addressing planners, the per-chunk bit-unpack/inverse-
// filter/inverse-scale/scatter decode, and the façade type, Decoder, that
// ties them together behind the iterator-style API spec.md §6 describes.
//
// A Decoder is constructed once per read request (spec.md §4.7) and is
// single-threaded; distinct Decoder instances are independent and may be
// driven concurrently by the caller. No goroutines are spawned internally
// and no I/O is performed by this package — callers execute the byte-range
// reads the planners request and feed the bytes back in.
package omfile

import "github.com/open-meteo/open-meteo-sub000/internal/omshape"

// padding is the number of extra scratch bytes spec.md §4.7 reserves past
// max_chunk_elements*bytes_per_element, to allow a SIMD-shaped decode loop
// to overread past the logical end of a chunk's lanes.
const padding = 16

// Decoder is the decode façade (spec.md §4.7): it holds the immutable
// request parameters and exposes the iterator-style planning and decode
// operations. Construct one with NewDecoder per logical read; it is not
// safe for concurrent use by multiple goroutines, though distinct
// instances never share state.
type Decoder struct {
	cfg Config

	grid omshape.Grid

	maxChunkElements uint64
}

// NewDecoder validates cfg and constructs a Decoder. It does not copy
// cfg.Dims/Chunks/ReadOffset/etc. defensively — matching spec.md §4.7's
// "copies pointers/handles (no deep copy)" — so the caller must keep those
// slices alive and unmodified for the decoder's lifetime.
func NewDecoder(cfg Config) (*Decoder, error) {
	if len(cfg.Dims) != len(cfg.Chunks) ||
		len(cfg.Dims) != len(cfg.ReadOffset) ||
		len(cfg.Dims) != len(cfg.ReadCount) ||
		len(cfg.Dims) != len(cfg.CubeOffset) ||
		len(cfg.Dims) != len(cfg.CubeDimensions) {
		return nil, errf(KindConfig, "dims/chunks/read/cube vectors must share the same dimension count")
	}
	if cfg.LUTChunkElementCount == 0 {
		return nil, errf(KindConfig, "lut_chunk_element_count must be non-zero")
	}
	if !cfg.Compression.validDatatype(cfg.Datatype) {
		return nil, errf(KindConfig, "datatype does not match an output representation this compression supports")
	}

	grid, err := omshape.NewGrid(cfg.Dims, cfg.Chunks)
	if err != nil {
		return nil, errf(KindConfig, err.Error())
	}

	for i := range cfg.Dims {
		if cfg.ReadOffset[i]+cfg.ReadCount[i] > cfg.Dims[i] {
			return nil, errf(KindConfig, "read_offset+read_count exceeds dims")
		}
		if cfg.CubeOffset[i]+cfg.ReadCount[i] > cfg.CubeDimensions[i] {
			return nil, errf(KindConfig, "cube_offset+read_count exceeds cube_dimensions")
		}
	}

	return &Decoder{
		cfg:              cfg,
		grid:             grid,
		maxChunkElements: grid.MaxChunkElements(),
	}, nil
}

// ReadBufferSize returns the minimum scratch buffer size, in uint32 lanes
// (one per chunk element, whatever the stored width), a caller must provide
// to DecodeChunks
// (spec.md §4.7: max_chunk_elements * bytes_per_element + padding, here
// expressed in uint32 lanes rather than bytes since DecodeChunks' scratch
// parameter is typed).
func (d *Decoder) ReadBufferSize() uint64 {
	return d.maxChunkElements + padding/4
}

// TotalChunks returns the total number of chunks in the logical array's
// chunk grid.
func (d *Decoder) TotalChunks() uint64 { return d.grid.TotalChunks() }
