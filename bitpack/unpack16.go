// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitpack

import "encoding/binary"

// Unpack16 decodes n values of bits <= 16 from src into dst[:n], using the
// given lane layout to shape the decode loop (see Layout). bits == 0 writes
// n zeros and consumes no input; bits == 16 is a plain little-endian copy.
func Unpack16(dst []uint16, src []byte, n int, bits uint, layout Layout) (consumed int, err error) {
	defer errRecover(&err)
	if err := checkWidth(bits, W16); err != nil {
		return 0, err
	}
	if len(dst) < n {
		panic(ErrBufferTooSmall)
	}
	if bits == 16 {
		need := n * 2
		if need > len(src) {
			panic(ErrTruncated)
		}
		for i := 0; i < n; i++ {
			dst[i] = binary.LittleEndian.Uint16(src[i*2:])
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
		dst[i] = uint16(v)
	}
	return consumed, nil
}

// Pack16 is the mirror encoder for Unpack16, used by round-trip tests. The
// layout has no bearing on the packed byte sequence (see Layout's doc) so
// Pack16 takes none.
func Pack16(values []uint16, bits uint) ([]byte, error) {
	if err := checkWidth(bits, W16); err != nil {
		return nil, err
	}
	wide := make([]uint64, len(values))
	for i, v := range values {
		wide[i] = uint64(v)
	}
	return packCore(wide, bits), nil
}
