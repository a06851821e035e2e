// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package filter implements the reversible delta and XOR transforms applied
// to a chunk between bit-packing and the scale stage: the decode functions
// run on the bit-unpacked lanes, as integers (delta) or reinterpreted as
// floating point (XOR), and the encode functions are their mirrors. Both
// transforms exploit spatial autocorrelation in gridded scientific data: a
// grid cell's value rarely differs much from its neighbor along the
// slowest-varying axis, so the residual compresses far better than the
// original value.
//
// Every transform here is its own inverse's mirror: Decode undoes what
// Encode did, operating in place on the same buffer. The 2-D functions do
// not allocate; the N-D ones allocate one shape slice per call.
package filter

import "github.com/open-meteo/open-meteo-sub000/internal/omshape"

// Kind selects which reversible transform, if any, a chunk was stored with.
type Kind uint8

const (
	// KindNone applies no transform.
	KindNone Kind = iota
	// KindDelta applies the integer delta transform (Delta2D/DeltaND).
	KindDelta
	// KindXOR applies the floating-point XOR transform (XOR2D/XORND),
	// operating on the IEEE-754 bit pattern rather than the numeric value.
	KindXOR
)

// String returns a human-readable name for k, used in log output and error
// messages.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindDelta:
		return "delta"
	case KindXOR:
		return "xor"
	default:
		return "unknown"
	}
}

// grid is the shape description every transform in this package needs to
// walk a chunk's dimensions; it is satisfied by *omshape.Grid.
type grid interface {
	NDims() int
	ChunkCounts() []uint64
	ChunkShape(chunkIndex uint64, dst []uint64)
}

var _ grid = omshape.Grid{}
