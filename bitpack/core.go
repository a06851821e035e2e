// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitpack

// unpackCore decodes n values of the given bit width from src into dst
// (already sized to n), using the universal straddling-word reconstruction.
// Unpack8, Unpack64 and UnpackDelta64 use it directly; Unpack16 and
// Unpack32 use unpackGrouped, which decodes the same way. The width-specific
// wrappers only narrow the uint64 result and apply the width's own
// straddle-free fast path for bits==width.
func unpackCore(dst []uint64, src []byte, n int, bits uint) (consumed int, err error) {
	if bits == 0 {
		for i := range dst[:n] {
			dst[i] = 0
		}
		return 0, nil
	}

	need := byteLen(n, bits)
	if need > len(src) {
		return 0, ErrTruncated
	}

	mask := maskFor(bits)
	for i := 0; i < n; i++ {
		bitPos := uint64(i) * uint64(bits)
		byteIdx := int(bitPos / 8)
		bitOff := uint(bitPos % 8)

		w0 := loadWord64(src, byteIdx)
		var v uint64
		if bitOff+bits <= 64 {
			v = (w0 >> bitOff) & mask
		} else {
			w1 := loadWord64(src, byteIdx+8)
			hiShift := bitOff
			loShift := 64 - bitOff
			v = (w0 >> hiShift) | ((w1 << loShift) & mask)
		}
		dst[i] = v
	}
	return need, nil
}

// unpackGrouped decodes identically to unpackCore, but walks n in strides
// of laneWidth values, mirroring the shape of a real vector-register decode
// loop (4 lanes for Layout128, 8 for Layout256, 1 for LayoutScalar). The
// decoded values are bit-for-bit identical to unpackCore's regardless of
// stride; only the loop shape differs, which is the point: this is the
// "SIMD-friendly block layout" spec.md §2 calls for, realized in portable Go.
func unpackGrouped(dst []uint64, src []byte, n int, bits uint, laneWidth int) (consumed int, err error) {
	if bits == 0 {
		for i := range dst[:n] {
			dst[i] = 0
		}
		return 0, nil
	}
	need := byteLen(n, bits)
	if need > len(src) {
		return 0, ErrTruncated
	}
	mask := maskFor(bits)
	for base := 0; base < n; base += laneWidth {
		end := base + laneWidth
		if end > n {
			end = n
		}
		for i := base; i < end; i++ {
			bitPos := uint64(i) * uint64(bits)
			byteIdx := int(bitPos / 8)
			bitOff := uint(bitPos % 8)
			w0 := loadWord64(src, byteIdx)
			var v uint64
			if bitOff+bits <= 64 {
				v = (w0 >> bitOff) & mask
			} else {
				w1 := loadWord64(src, byteIdx+8)
				v = (w0 >> bitOff) | ((w1 << (64 - bitOff)) & mask)
			}
			dst[i] = v
		}
	}
	return need, nil
}

// packCore is the mirror encoder: it packs n values (already masked to
// bits width by the caller's data, any excess high bits are truncated) into
// a newly allocated byte slice. It exists so that the quantified invariant
// unpack(pack(v)) == v (spec.md §8 property 1) can be tested without a
// separate, divergent reference packer.
func packCore(values []uint64, bits uint) []byte {
	if bits == 0 {
		return nil
	}
	n := len(values)
	out := make([]byte, byteLen(n, bits))
	mask := maskFor(bits)

	for i, v := range values {
		v &= mask
		bitPos := uint64(i) * uint64(bits)
		byteIdx := int(bitPos / 8)
		bitOff := uint(bitPos % 8)
		orWord64(out, byteIdx, v<<bitOff)
		if bitOff+bits > 64 {
			orWord64(out, byteIdx+8, v>>(64-bitOff))
		}
	}
	return out
}
