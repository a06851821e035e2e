// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitpack

import "encoding/binary"

// Unpack64 decodes n values of bits <= 64 from src into dst[:n]. Only the
// scalar layout exists at this width (spec.md §4.1 describes vector layouts
// for W16/W32 only); bits == 0 writes n zeros and consumes no input, bits ==
// 64 is a plain little-endian copy.
func Unpack64(dst []uint64, src []byte, n int, bits uint) (consumed int, err error) {
	defer errRecover(&err)
	if err := checkWidth(bits, W64); err != nil {
		return 0, err
	}
	if len(dst) < n {
		panic(ErrBufferTooSmall)
	}
	if bits == 64 {
		need := n * 8
		if need > len(src) {
			panic(ErrTruncated)
		}
		for i := 0; i < n; i++ {
			dst[i] = binary.LittleEndian.Uint64(src[i*8:])
		}
		return need, nil
	}
	return unpackCore(dst[:n], src, n, bits)
}

// Pack64 is the mirror encoder for Unpack64, used by round-trip tests.
func Pack64(values []uint64, bits uint) ([]byte, error) {
	if err := checkWidth(bits, W64); err != nil {
		return nil, err
	}
	return packCore(values, bits), nil
}
