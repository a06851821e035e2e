// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitpack

import (
	"testing"

	"github.com/open-meteo/open-meteo-sub000/internal/testutil"
)

// TestUnpackPackRoundTrip8 is the quantified invariant from spec.md §8
// property 1: for every b in [0, 8] and randomized input, Unpack8(Pack8(v,
// b), b) == v.
func TestUnpackPackRoundTrip8(t *testing.T) {
	r := testutil.NewRand(1)
	const n = 200
	for bits := uint(0); bits <= 8; bits++ {
		values := make([]uint8, n)
		for i := range values {
			values[i] = uint8(r.Uint64n(bits))
		}
		packed, err := Pack8(values, bits)
		if err != nil {
			t.Fatalf("bits=%d: Pack8: %v", bits, err)
		}
		got := make([]uint8, n)
		consumed, err := Unpack8(got, packed, n, bits)
		if err != nil {
			t.Fatalf("bits=%d: Unpack8: %v", bits, err)
		}
		if bits == 0 && consumed != 0 {
			t.Errorf("bits=0: consumed = %d, want 0", consumed)
		}
		for i := range values {
			if got[i] != values[i] {
				t.Fatalf("bits=%d: value %d: got %d, want %d", bits, i, got[i], values[i])
			}
		}
	}
}

func TestUnpackPackRoundTrip16(t *testing.T) {
	r := testutil.NewRand(2)
	const n = 173
	for bits := uint(0); bits <= 16; bits++ {
		values := make([]uint16, n)
		for i := range values {
			values[i] = uint16(r.Uint64n(bits))
		}
		packed, err := Pack16(values, bits)
		if err != nil {
			t.Fatalf("bits=%d: Pack16: %v", bits, err)
		}
		for _, layout := range []Layout{LayoutScalar, Layout128, Layout256} {
			got := make([]uint16, n)
			if _, err := Unpack16(got, packed, n, bits, layout); err != nil {
				t.Fatalf("bits=%d layout=%v: Unpack16: %v", bits, layout, err)
			}
			for i := range values {
				if got[i] != values[i] {
					t.Fatalf("bits=%d layout=%v: value %d: got %d, want %d", bits, layout, i, got[i], values[i])
				}
			}
		}
	}
}

func TestUnpackPackRoundTrip32(t *testing.T) {
	r := testutil.NewRand(3)
	const n = 97
	for _, bits := range []uint{0, 1, 7, 8, 9, 17, 31, 32} {
		values := make([]uint32, n)
		for i := range values {
			values[i] = uint32(r.Uint64n(bits))
		}
		packed, err := Pack32(values, bits)
		if err != nil {
			t.Fatalf("bits=%d: Pack32: %v", bits, err)
		}
		for _, layout := range []Layout{LayoutScalar, Layout128, Layout256} {
			got := make([]uint32, n)
			if _, err := Unpack32(got, packed, n, bits, layout); err != nil {
				t.Fatalf("bits=%d layout=%v: Unpack32: %v", bits, layout, err)
			}
			for i := range values {
				if got[i] != values[i] {
					t.Fatalf("bits=%d layout=%v: value %d: got %d, want %d", bits, layout, i, got[i], values[i])
				}
			}
		}
	}
}

func TestUnpackPackRoundTrip64(t *testing.T) {
	r := testutil.NewRand(4)
	const n = 61
	for _, bits := range []uint{0, 1, 3, 31, 32, 33, 63, 64} {
		values := make([]uint64, n)
		for i := range values {
			values[i] = r.Uint64n(bits)
		}
		packed, err := Pack64(values, bits)
		if err != nil {
			t.Fatalf("bits=%d: Pack64: %v", bits, err)
		}
		got := make([]uint64, n)
		if _, err := Unpack64(got, packed, n, bits); err != nil {
			t.Fatalf("bits=%d: Unpack64: %v", bits, err)
		}
		for i := range values {
			if got[i] != values[i] {
				t.Fatalf("bits=%d: value %d: got %d, want %d", bits, i, got[i], values[i])
			}
		}
	}
}

// TestZeroBitsConsumesNothing covers the b==0 edge case explicitly: every
// decoded value is 0 and no input bytes are read.
func TestZeroBitsConsumesNothing(t *testing.T) {
	dst := make([]uint32, 10)
	for i := range dst {
		dst[i] = 0xdeadbeef
	}
	consumed, err := Unpack32(dst, nil, 10, 0, LayoutScalar)
	if err != nil {
		t.Fatalf("Unpack32: %v", err)
	}
	if consumed != 0 {
		t.Errorf("consumed = %d, want 0", consumed)
	}
	for i, v := range dst {
		if v != 0 {
			t.Errorf("dst[%d] = %d, want 0", i, v)
		}
	}
}

// TestFullWidthIsPlainCopy covers the b==W edge case: Unpack16 at bits==16
// must reproduce a plain little-endian decode, independent of layout.
func TestFullWidthIsPlainCopy(t *testing.T) {
	values := []uint16{0, 1, 0xffff, 0x8000, 0x1234}
	packed, err := Pack16(values, 16)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]uint16, len(values))
	if _, err := Unpack16(got, packed, len(values), 16, LayoutScalar); err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("value %d: got %d, want %d", i, got[i], values[i])
		}
	}
}

func TestBitsExceedWidthRejected(t *testing.T) {
	if _, err := Pack8(make([]uint8, 1), 9); err != ErrBitsExceedWidth {
		t.Errorf("Pack8 bits=9: err = %v, want ErrBitsExceedWidth", err)
	}
	dst := make([]uint16, 1)
	if _, err := Unpack16(dst, []byte{0, 0}, 1, 17, LayoutScalar); err != ErrBitsExceedWidth {
		t.Errorf("Unpack16 bits=17: err = %v, want ErrBitsExceedWidth", err)
	}
}

func TestTruncatedSourceRejected(t *testing.T) {
	dst := make([]uint32, 100)
	_, err := Unpack32(dst, []byte{1, 2, 3}, 100, 9, LayoutScalar)
	if err != ErrTruncated {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

// TestDeltaRoundTrip exercises the LUT's monotone delta coding: a
// non-decreasing sequence of chunk byte offsets packs to small deltas and
// decodes back exactly, regardless of how large the absolute offsets are.
func TestDeltaRoundTrip(t *testing.T) {
	start := uint64(1 << 20)
	values := []uint64{start, start + 4096, start + 4096, start + 9000, start + 9000 + 70000}
	packed, bits := PackDelta64(values, start)
	got := make([]uint64, len(values))
	if _, err := UnpackDelta64(got, packed, len(values), bits, start); err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("value %d: got %d, want %d", i, got[i], values[i])
		}
	}
}

func TestBitsNeeded(t *testing.T) {
	cases := []struct {
		v    uint64
		want uint
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {255, 8}, {256, 9},
	}
	for _, c := range cases {
		if got := bitsNeeded(c.v); got != c.want {
			t.Errorf("bitsNeeded(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}
