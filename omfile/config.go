// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package omfile

import (
	"github.com/open-meteo/open-meteo-sub000/filter"
	"github.com/open-meteo/open-meteo-sub000/scale"
)

// CompressionType selects the per-chunk filter and scale pipeline a stream
// was encoded with (spec.md §6 "Configuration enumeration").
type CompressionType uint8

const (
	// LinearQuantized16 stores each value as i16 after a linear scale, with
	// a 2-D (or N-D) integer delta filter.
	LinearQuantized16 CompressionType = iota
	// XorFloat32 stores raw float32 bits with an XOR filter, losslessly.
	XorFloat32
	// LogQuantized16 stores each value as i16 after a logarithmic scale
	// (log1p on encode), with the same delta filter as LinearQuantized16.
	LogQuantized16
)

// storedWidth returns the element bit width a chunk is bit-packed at before
// any scale conversion, for each compression type.
func (c CompressionType) storedWidth() uint {
	switch c {
	case XorFloat32:
		return 32
	default:
		return 16
	}
}

func (c CompressionType) scaleKind() scale.Kind {
	if c == LogQuantized16 {
		return scale.KindLogarithmic
	}
	return scale.KindLinear
}

func (c CompressionType) isFloatFilter() bool { return c == XorFloat32 }

// filterKind returns which reversible transform a chunk of ndims dimensions
// was stored under: none for a single dimension (there is no outer axis
// left once the innermost is excluded), otherwise the delta or XOR
// transform this compression type's storage format uses.
func (c CompressionType) filterKind(ndims int) filter.Kind {
	if ndims <= 1 {
		return filter.KindNone
	}
	if c.isFloatFilter() {
		return filter.KindXOR
	}
	return filter.KindDelta
}

// validDatatype reports whether d is an output representation c can
// produce: the float widths are always available (scale-converted, or a
// straight widen/narrow for the lossless xor codec), and the stored
// integer width is available only for the compression that actually
// stores it — spec.md §4.3's "the user sees floats (or integers, if the
// request type matches the stored type)".
func (c CompressionType) validDatatype(d DataType) bool {
	if d.IsFloat() {
		return true
	}
	if d == I16 {
		return c == LinearQuantized16 || c == LogQuantized16
	}
	return false
}

// DataType is the decoder's requested output element type; re-exported from
// package scale so callers of omfile do not need to import it separately.
type DataType = scale.DataType

const (
	I8  = scale.I8
	U8  = scale.U8
	I16 = scale.I16
	U16 = scale.U16
	I32 = scale.I32
	U32 = scale.U32
	I64 = scale.I64
	U64 = scale.U64
	F32 = scale.F32
	F64 = scale.F64
)

// Config carries every immutable parameter a Decoder needs, corresponding
// to spec.md §6's decoder_init argument list.
type Config struct {
	Scalefactor float32
	Compression CompressionType
	Datatype    DataType

	Dims   []uint64
	Chunks []uint64

	ReadOffset []uint64
	ReadCount  []uint64

	CubeOffset     []uint64
	CubeDimensions []uint64

	LUTChunkLength       uint64
	LUTChunkElementCount uint64
	LUTStart             uint64

	IOSizeMerge uint64
	IOSizeMax   uint64

	// Blank field to prevent unkeyed struct literals, matching the
	// teacher's bzip2.ReaderConfig convention: adding a field later must
	// not silently reorder an unkeyed caller's positional arguments.
	_ struct{}
}
