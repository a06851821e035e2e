// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitpack

// Unpack8 decodes n values of bits <= 8 from src into dst[:n]. bits == 0
// writes n zeros and consumes no input; bits == 8 is a plain byte copy.
func Unpack8(dst []uint8, src []byte, n int, bits uint) (consumed int, err error) {
	defer errRecover(&err)
	if err := checkWidth(bits, W8); err != nil {
		return 0, err
	}
	if len(dst) < n {
		panic(ErrBufferTooSmall)
	}
	if bits == 8 {
		if n > len(src) {
			panic(ErrTruncated)
		}
		copy(dst[:n], src[:n])
		return n, nil
	}

	var wide [256]uint64
	buf := wide[:0]
	if n <= len(wide) {
		buf = wide[:n]
	} else {
		buf = make([]uint64, n)
	}
	consumed, err = unpackCore(buf, src, n, bits)
	if err != nil {
		return 0, err
	}
	for i, v := range buf {
		dst[i] = uint8(v)
	}
	return consumed, nil
}

// Pack8 is the mirror encoder for Unpack8, used by round-trip tests.
func Pack8(values []uint8, bits uint) ([]byte, error) {
	if err := checkWidth(bits, W8); err != nil {
		return nil, err
	}
	wide := make([]uint64, len(values))
	for i, v := range values {
		wide[i] = uint64(v)
	}
	return packCore(wide, bits), nil
}
