// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package scale implements the scale & type-cast stage: the conversion
// between a chunk's stored integer representation and the caller's
// floating-point values (spec.md §4.3), plus the DataType enumeration of the
// ten element data types a stream may be decoded as and the sign extension
// of raw bit-unpacked lanes. It does not convert values between DataTypes.
//
// Two scale functions are supported, selected by the stream's compression
// tag: Linear (a plain division by a per-array scale factor) and
// Logarithmic (an exp10-1 transform, used for quantities with a wide
// dynamic range such as precipitation, where a linear quantization step
// would waste precision on the common near-zero case). Both reserve one
// sentinel integer value, the minimum representable value for the element
// width, to mean "no data" and round-trip it as NaN.
package scale

import "math"

// Kind selects which scale transform a stream applies between its stored
// integer representation and the caller's float64 values.
type Kind uint8

const (
	// KindLinear applies value = int/scalefactor.
	KindLinear Kind = iota
	// KindLogarithmic applies value = exp10(int/scalefactor) - 1.
	KindLogarithmic
)

// Sentinel returns the raw integer value reserved to mean "no data" at the
// given element bit width: the minimum representable signed value, e.g.
// math.MinInt16 for width 16. Widths other than 8/16/32/64 are not valid
// stored element widths and Sentinel panics.
func Sentinel(width uint) int64 {
	switch width {
	case 8:
		return math.MinInt8
	case 16:
		return math.MinInt16
	case 32:
		return math.MinInt32
	case 64:
		return math.MinInt64
	default:
		panic(Error("unsupported element width for scale sentinel"))
	}
}

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "scale: " + string(e) }

// Decode converts a raw stored integer (already sign-extended to int64 by
// the caller, see SignExtend) into its logical float64 value, applying
// kind's transform and mapping the width's sentinel to NaN.
func Decode(raw int64, width uint, scalefactor float32, kind Kind) float64 {
	if raw == Sentinel(width) {
		return math.NaN()
	}
	switch kind {
	case KindLogarithmic:
		return math.Pow(10, float64(raw)/float64(scalefactor)) - 1
	default:
		return float64(raw) / float64(scalefactor)
	}
}

// Encode converts a logical value into the raw stored integer it should be
// quantized to, applying kind's inverse transform and saturating to the
// width's sentinel on NaN or on overflow of the width's representable
// range (excluding the sentinel itself, which is reserved).
func Encode(value float64, width uint, scalefactor float32, kind Kind) int64 {
	sentinel := Sentinel(width)
	if math.IsNaN(value) {
		return sentinel
	}

	var scaled float64
	switch kind {
	case KindLogarithmic:
		scaled = math.Log10(value+1) * float64(scalefactor)
	default:
		scaled = value * float64(scalefactor)
	}

	rounded := math.Round(scaled)
	lo, hi := rangeFor(width)
	if rounded < float64(lo) || rounded > float64(hi) || math.IsNaN(rounded) {
		return sentinel
	}
	return int64(rounded)
}

// rangeFor returns the inclusive range of non-sentinel values representable
// at the given signed element width: [min+1, max].
func rangeFor(width uint) (lo, hi int64) {
	switch width {
	case 8:
		return math.MinInt8 + 1, math.MaxInt8
	case 16:
		return math.MinInt16 + 1, math.MaxInt16
	case 32:
		return math.MinInt32 + 1, math.MaxInt32
	case 64:
		return math.MinInt64 + 1, math.MaxInt64
	default:
		panic(Error("unsupported element width for scale range"))
	}
}
