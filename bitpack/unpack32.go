// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitpack

import "encoding/binary"

// Unpack32 decodes n values of bits <= 32 from src into dst[:n], using the
// given lane layout to shape the decode loop (see Layout). bits == 0 writes
// n zeros and consumes no input; bits == 32 is a plain little-endian copy.
func Unpack32(dst []uint32, src []byte, n int, bits uint, layout Layout) (consumed int, err error) {
	defer errRecover(&err)
	if err := checkWidth(bits, W32); err != nil {
		return 0, err
	}
	if len(dst) < n {
		panic(ErrBufferTooSmall)
	}
	if bits == 32 {
		need := n * 4
		if need > len(src) {
			panic(ErrTruncated)
		}
		for i := 0; i < n; i++ {
			dst[i] = binary.LittleEndian.Uint32(src[i*4:])
		}
		return need, nil
	}

	var wide [256]uint64
	buf := wide[:0]
	if n <= len(wide) {
		buf = wide[:n]
	} else {
		buf = make([]uint64, n)
	}
	consumed, err = unpackGrouped(buf, src, n, bits, laneWidth(layout))
	if err != nil {
		return 0, err
	}
	for i, v := range buf {
		dst[i] = uint32(v)
	}
	return consumed, nil
}

// Pack32 is the mirror encoder for Unpack32, used by round-trip tests.
func Pack32(values []uint32, bits uint) ([]byte, error) {
	if err := checkWidth(bits, W32); err != nil {
		return nil, err
	}
	wide := make([]uint64, len(values))
	for i, v := range values {
		wide[i] = uint64(v)
	}
	return packCore(wide, bits), nil
}
