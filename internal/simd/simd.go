// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package simd selects, at process start, the lane width used by the
// vector-layout bit-unpack kernels in package bitpack. It does not contain
// any assembly: this module emits plain Go, and what varies by detected CPU
// feature is the width of the pure-Go unrolled loop (4 lanes vs 8 lanes),
// matching the grouping that a real AVX2/SSE2 backend would process in one
// vector register. Detection uses github.com/klauspost/cpuid/v2, the same
// library klauspost/compress and klauspost/reedsolomon use to gate their
// own accelerated paths.
package simd

import "github.com/klauspost/cpuid/v2"

// Width is the number of 32-bit lanes processed per unrolled iteration of a
// vector-layout bit-unpack kernel.
type Width int

const (
	// Width4 is the 128-bit-register-equivalent grouping (4 lanes of
	// 32 bits), used as the portable baseline.
	Width4 Width = 4
	// Width8 is the 256-bit-register-equivalent grouping (8 lanes of
	// 32 bits), used when the host advertises AVX2.
	Width8 Width = 8
)

// preferredWidth is resolved once at init and never mutated afterward;
// tests may override it via SetPreferredWidthForTesting.
var preferredWidth = detectWidth()

func detectWidth() Width {
	if cpuid.CPU.Supports(cpuid.AVX2) {
		return Width8
	}
	return Width4
}

// PreferredWidth returns the lane width this process should use when
// decoding a chunk stored in the 128/256-bit vector layout (the file format
// itself fixes which vector layout was used at encode time; this only
// governs how quickly this process processes it).
func PreferredWidth() Width {
	return preferredWidth
}

// SetPreferredWidthForTesting overrides the detected width; it returns a
// restore function, so a test can force either width regardless of the
// host CPU.
func SetPreferredWidthForTesting(w Width) (restore func()) {
	prev := preferredWidth
	preferredWidth = w
	return func() { preferredWidth = prev }
}
