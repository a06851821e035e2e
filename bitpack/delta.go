// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitpack

// UnpackDelta64 decodes n delta-coded values: it bit-unpacks n raw b-bit
// deltas and then turns them into an absolute, monotonically non-decreasing
// sequence by running sum starting from start, writing
// start+sum(deltas[:i+1]) into dst[i]. This is the encoding package omfile's LUT uses for its chunk
// byte offsets (spec.md §4.5's "LUT" paragraph): offsets only ever increase,
// so their differences fit in far fewer bits than the offsets themselves.
func UnpackDelta64(dst []uint64, src []byte, n int, bits uint, start uint64) (consumed int, err error) {
	defer errRecover(&err)
	if len(dst) < n {
		panic(ErrBufferTooSmall)
	}
	consumed, err = unpackCore(dst[:n], src, n, bits)
	if err != nil {
		return 0, err
	}
	acc := start
	for i := 0; i < n; i++ {
		acc += dst[i]
		dst[i] = acc
	}
	return consumed, nil
}

// PackDelta64 is the mirror encoder for UnpackDelta64: values must already
// be monotonically non-decreasing starting logically from start (values[0]
// >= start). It returns the packed deltas and the bit width required to
// represent the largest delta, which the caller stores alongside the block.
func PackDelta64(values []uint64, start uint64) (packed []byte, bits uint) {
	deltas := make([]uint64, len(values))
	prev := start
	var maxDelta uint64
	for i, v := range values {
		d := v - prev
		deltas[i] = d
		if d > maxDelta {
			maxDelta = d
		}
		prev = v
	}
	bits = bitsNeeded(maxDelta)
	return packCore(deltas, bits), bits
}

// bitsNeeded returns the minimum number of bits needed to represent v,
// i.e. ⌈log2(v+1)⌉, with bitsNeeded(0) == 0.
func bitsNeeded(v uint64) uint {
	var n uint
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}
