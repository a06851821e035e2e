// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package filter

import (
	"math"
	"testing"

	"github.com/open-meteo/open-meteo-sub000/internal/omshape"
	"github.com/open-meteo/open-meteo-sub000/internal/testutil"
)

// TestDelta2DDecodeScenario reproduces the worked row-delta scenario: a
// 3x3 chunk of residuals [1,2,3, 1,1,1, 2,2,2] decodes to
// [1,2,3, 2,3,4, 4,5,6], each row after the first summing with the row
// above it.
func TestDelta2DDecodeScenario(t *testing.T) {
	buf := []int16{1, 2, 3, 1, 1, 1, 2, 2, 2}
	want := []int16{1, 2, 3, 2, 3, 4, 4, 5, 6}
	Delta2DDecode16(3, 3, buf)
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("index %d: got %d, want %d", i, buf[i], want[i])
		}
	}
}

func TestDelta2DRoundTrip16(t *testing.T) {
	r := testutil.NewRand(10)
	length0, length1 := 7, 5
	orig := make([]int16, length0*length1)
	for i := range orig {
		orig[i] = int16(r.Intn(1 << 15))
	}
	buf := append([]int16(nil), orig...)
	Delta2DEncode16(length0, length1, buf)
	Delta2DDecode16(length0, length1, buf)
	for i := range orig {
		if buf[i] != orig[i] {
			t.Fatalf("index %d: got %d, want %d", i, buf[i], orig[i])
		}
	}
}

func TestDelta2DRoundTrip32(t *testing.T) {
	r := testutil.NewRand(11)
	length0, length1 := 4, 9
	orig := make([]int32, length0*length1)
	for i := range orig {
		orig[i] = int32(r.Int())
	}
	buf := append([]int32(nil), orig...)
	Delta2DEncode32(length0, length1, buf)
	Delta2DDecode32(length0, length1, buf)
	for i := range orig {
		if buf[i] != orig[i] {
			t.Fatalf("index %d: got %d, want %d", i, buf[i], orig[i])
		}
	}
}

// TestDeltaNDRoundTripEdgeChunk exercises the n-dimensional traversal on an
// edge chunk (one whose extent is truncated by the array boundary), which
// is where an off-by-one in the ported index arithmetic would first show
// up.
func TestDeltaNDRoundTripEdgeChunk(t *testing.T) {
	g, err := omshape.NewGrid([]uint64{7, 10, 10}, []uint64{3, 4, 4})
	if err != nil {
		t.Fatal(err)
	}
	r := testutil.NewRand(12)
	for chunkIndex := uint64(0); chunkIndex < g.TotalChunks(); chunkIndex++ {
		n := g.ChunkElementCount(chunkIndex)
		orig := make([]int16, n)
		for i := range orig {
			orig[i] = int16(r.Intn(1 << 14))
		}
		buf := append([]int16(nil), orig...)
		DeltaNDEncode16(g, chunkIndex, buf)
		DeltaNDDecode16(g, chunkIndex, buf)
		for i := range orig {
			if buf[i] != orig[i] {
				t.Fatalf("chunk %d, index %d: got %d, want %d", chunkIndex, i, buf[i], orig[i])
			}
		}
	}
}

func TestXOR2DRoundTripFloat32NaNExact(t *testing.T) {
	length0, length1 := 3, 3
	orig := []float32{1.5, float32(math.NaN()), 3.0, -0.0, 5.5, float32(math.Inf(1)), 7, 8, 9}
	buf := append([]float32(nil), orig...)
	XOR2DEncodeFloat32(length0, length1, buf)
	XOR2DDecodeFloat32(length0, length1, buf)
	for i := range orig {
		if !testutil.NaNBitsEqual32(buf[i], orig[i]) {
			t.Fatalf("index %d: got bits %x, want bits %x", i, math.Float32bits(buf[i]), math.Float32bits(orig[i]))
		}
	}
}

func TestXOR2DRoundTripFloat64(t *testing.T) {
	length0, length1 := 4, 2
	orig := []float64{1.5, math.NaN(), 3.0, -0.0, 5.5, math.Inf(-1), 7, 8}
	buf := append([]float64(nil), orig...)
	XOR2DEncodeFloat64(length0, length1, buf)
	XOR2DDecodeFloat64(length0, length1, buf)
	for i := range orig {
		if !testutil.NaNBitsEqual64(buf[i], orig[i]) {
			t.Fatalf("index %d: got bits %x, want bits %x", i, math.Float64bits(buf[i]), math.Float64bits(orig[i]))
		}
	}
}

func TestXORNDRoundTripFloat32EdgeChunk(t *testing.T) {
	g, err := omshape.NewGrid([]uint64{5, 9}, []uint64{2, 4})
	if err != nil {
		t.Fatal(err)
	}
	for chunkIndex := uint64(0); chunkIndex < g.TotalChunks(); chunkIndex++ {
		n := g.ChunkElementCount(chunkIndex)
		orig := make([]float32, n)
		for i := range orig {
			orig[i] = float32(i) - 1.25
		}
		orig[0] = float32(math.NaN())
		buf := append([]float32(nil), orig...)
		XORNDEncodeFloat32(g, chunkIndex, buf)
		XORNDDecodeFloat32(g, chunkIndex, buf)
		for i := range orig {
			if !testutil.NaNBitsEqual32(buf[i], orig[i]) {
				t.Fatalf("chunk %d, index %d: got bits %x, want bits %x", chunkIndex, i, math.Float32bits(buf[i]), math.Float32bits(orig[i]))
			}
		}
	}
}

func TestSingleDimensionIsNoOp(t *testing.T) {
	g, err := omshape.NewGrid([]uint64{100}, []uint64{10})
	if err != nil {
		t.Fatal(err)
	}
	buf := []int16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	orig := append([]int16(nil), buf...)
	DeltaNDDecode16(g, 0, buf)
	for i := range orig {
		if buf[i] != orig[i] {
			t.Fatalf("1-D chunk must be untouched: index %d changed from %d to %d", i, orig[i], buf[i])
		}
	}
}
