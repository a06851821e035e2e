// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testutil

import "math"

// NaNAwareFloat32Equal reports whether a and b are equal, treating any two
// NaN bit patterns as equal (NaN payload is not compared) — used where a
// test only needs "is it NaN", and exact bit-pattern equality is verified
// separately by NaNBitsEqual32/64 for the xor round-trip properties (§8
// property 3 demands payload-exact equality).
func NaNAwareFloat32Equal(a, b float32) bool {
	if math.IsNaN(float64(a)) && math.IsNaN(float64(b)) {
		return true
	}
	return a == b
}

// NaNBitsEqual32 reports whether a and b have identical IEEE-754 bit
// patterns, including the NaN payload and sign bit.
func NaNBitsEqual32(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}

// NaNBitsEqual64 reports whether a and b have identical IEEE-754 bit
// patterns, including the NaN payload and sign bit.
func NaNBitsEqual64(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}
