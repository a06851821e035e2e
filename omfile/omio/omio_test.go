// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package omio

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/open-meteo/open-meteo-sub000/bitpack"
	"github.com/open-meteo/open-meteo-sub000/omfile"
)

// packChunkBlob builds one on-disk chunk blob (header byte + bit-packed
// payload) for a single-element 16-bit chunk, mirroring how package omfile's
// own scenario tests build fixtures.
func packChunkBlob(t *testing.T, v uint16) []byte {
	t.Helper()
	bits := uint(0)
	for x := v; x > 0; x >>= 1 {
		bits++
	}
	payload, err := bitpack.Pack16([]uint16{v}, bits)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	return append([]byte{byte(bits)}, payload...)
}

// TestDecodeEndToEnd exercises the whole Sections-driven pipeline against a
// 4-chunk, 1-D array split across two independent io.ReaderAt sections,
// verifying the decoded values land in output and that the LUT/data planner
// round trip through a real byte buffer rather than an in-process blob.
func TestDecodeEndToEnd(t *testing.T) {
	const n = 4
	want := []float64{10, 20, 30, 40}

	var dataBuf bytes.Buffer
	offsets := make([]uint64, 0, n+1)
	for _, v := range []uint16{10, 20, 30, 40} {
		offsets = append(offsets, uint64(dataBuf.Len()))
		dataBuf.Write(packChunkBlob(t, v))
	}
	offsets = append(offsets, uint64(dataBuf.Len())) // sentinel

	const elementsPerBlock = 8
	for len(offsets) < elementsPerBlock {
		offsets = append(offsets, offsets[len(offsets)-1])
	}
	payload, bits := bitpack.PackDelta64(offsets, 0)
	const lutChunkLength = 64
	lutBlock := make([]byte, 1+1+8, lutChunkLength)
	lutBlock[0] = 0 // lutcodec.TagNone
	lutBlock[1] = byte(bits)
	lutBlock = append(lutBlock, payload...)
	if len(lutBlock) < lutChunkLength {
		lutBlock = append(lutBlock, make([]byte, lutChunkLength-len(lutBlock))...)
	}

	cfg := omfile.Config{
		Scalefactor:          1,
		Compression:          omfile.LinearQuantized16,
		Datatype:             omfile.I16,
		Dims:                 []uint64{n},
		Chunks:               []uint64{1},
		ReadOffset:           []uint64{0},
		ReadCount:            []uint64{n},
		CubeOffset:           []uint64{0},
		CubeDimensions:       []uint64{n},
		LUTChunkLength:       lutChunkLength,
		LUTChunkElementCount: elementsPerBlock,
		IOSizeMerge:          1 << 20,
		IOSizeMax:            1 << 30,
	}
	d, err := omfile.NewDecoder(cfg)
	if err != nil {
		t.Fatal(err)
	}

	sections := Sections{
		LUT:  bytes.NewReader(lutBlock),
		Data: bytes.NewReader(dataBuf.Bytes()),
	}
	output := make([]float64, n)
	if err := Decode(d, sections, output); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
