// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitpack

import "github.com/open-meteo/open-meteo-sub000/internal/simd"

// Width is an element width supported by the codec.
type Width uint8

const (
	W8  Width = 8
	W16 Width = 16
	W32 Width = 32
	W64 Width = 64
)

// Layout selects which hardware-shaped decode loop processes a b-bit
// stream for W16/W32 (spec.md §4.1: "two layouts coexist"). All layouts
// decode the identical on-the-wire byte sequence — this module defines its
// own wire convention and does not need a separate bit layout per choice of
// hardware width (see SPEC_FULL.md §9) — they differ only in how many
// lanes are unrolled together per iteration, which is a pure performance
// characteristic verified by the round-trip tests to not affect output.
type Layout uint8

const (
	// LayoutScalar processes one value at a time (BITUNPACK64_b: a
	// 64-bit-word scalar loop).
	LayoutScalar Layout = iota
	// Layout128 processes four lanes per iteration (BITUNPACK128V32_b:
	// a 128-bit/32-bit-lane vector register shape).
	Layout128
	// Layout256 processes eight lanes per iteration (BITUNPACK256V32_b:
	// a 256-bit/32-bit-lane vector register shape).
	Layout256
)

// AutoLayout returns the vector layout this process prefers for decoding
// W16/W32 streams, based on detected CPU features (internal/simd). Since
// every layout decodes the same byte sequence, the choice affects only the
// loop shape, not the values; package omfile's chunk decoder passes
// AutoLayout() for every chunk.
func AutoLayout() Layout {
	if simd.PreferredWidth() == simd.Width8 {
		return Layout256
	}
	return Layout128
}

func laneWidth(l Layout) int {
	switch l {
	case Layout128:
		return 4
	case Layout256:
		return 8
	default:
		return 1
	}
}

func checkWidth(bits uint, w Width) error {
	if bits > uint(w) {
		return ErrBitsExceedWidth
	}
	return nil
}
