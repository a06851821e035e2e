// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package omio is the optional convenience layer omitted from the core
// decode engine's scope (spec.md §1 Non-goals: "concrete I/O transports").
// It drives package omfile's iterator planners against two io.ReaderAt
// sections — the LUT region and the compressed-data region — issuing
// exactly the coalesced reads the planners compute and feeding the bytes
// back in. Unlike package omfile, this layer logs: it is ambient I/O glue,
// not the pure decode core, so it uses log/slog the way
// elliotnunn/BeHierarchic's prefetch and cache layers do.
package omio

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/open-meteo/open-meteo-sub000/omfile"
)

// Sections bundles the two io.ReaderAt views a Decode call reads from: the
// LUT region (spec.md §3, addressed by Decoder.Config's lut_start) and the
// compressed-data region (addressed independently, by byte offsets the LUT
// itself resolves). Most callers pass the same underlying *os.File wrapped
// at two different base offsets, or two io.SectionReaders.
type Sections struct {
	LUT  io.ReaderAt
	Data io.ReaderAt
}

// Decode runs the whole read-execute-decode pipeline for d against
// sections, writing every requested element into output (already sized and
// laid out per d's cube_dimensions, as DecodeChunks expects). It issues one
// ReadAt per coalesced index-read instruction and one ReadAt per coalesced
// data-read instruction nested inside it — the same two-level iteration
// spec.md §4.6 describes — logging each at slog.Info, and any ReadAt
// failure at slog.Error before returning it wrapped.
//
// Decode always produces the scale-converted float64 representation,
// regardless of d's configured Datatype; callers that configured a Decoder
// with Datatype == I16 and want the stored-type passthrough instead should
// call DecodeInt16.
func Decode(d *omfile.Decoder, sections Sections, output []float64) error {
	return run(d, sections, func(dataState omfile.DataReadState, dataBuf []byte, scratch []uint32) (int, error) {
		return d.DecodeChunks(dataState.ChunkRange, dataBuf, output, scratch)
	})
}

// DecodeInt16 is Decode's stored-type counterpart (spec.md §4.3: "the user
// sees... integers, if the request type matches the stored type"): it
// writes the raw stored int16 for every requested element instead of the
// scale-converted float. d must have been constructed with Datatype == I16.
func DecodeInt16(d *omfile.Decoder, sections Sections, output []int16) error {
	return run(d, sections, func(dataState omfile.DataReadState, dataBuf []byte, scratch []uint32) (int, error) {
		return d.DecodeChunksInt16(dataState.ChunkRange, dataBuf, output, scratch)
	})
}

// run drives the two-level index/data-read iteration shared by Decode and
// DecodeInt16, deferring only the final per-chunk decode call to decode.
func run(d *omfile.Decoder, sections Sections, decode func(dataState omfile.DataReadState, dataBuf []byte, scratch []uint32) (int, error)) error {
	scratch := make([]uint32, d.ReadBufferSize())

	indexState := d.InitIndexRead()
	for d.NextIndexRead(&indexState) {
		lutBuf := make([]byte, indexState.ByteRange.Len())
		if _, err := sections.LUT.ReadAt(lutBuf, int64(indexState.ByteRange.Lower)); err != nil {
			slog.Error("omio: LUT read failed", "range", indexState.ByteRange, "err", err)
			return fmt.Errorf("omio: read LUT range [%d,%d): %w", indexState.ByteRange.Lower, indexState.ByteRange.Upper, err)
		}
		slog.Info("omio: LUT read", "chunks", indexState.ChunkRange, "bytes", indexState.ByteRange.Len())

		dataState := d.InitDataRead(indexState.ChunkRange)
		for {
			ok, err := d.NextDataRead(&dataState, lutBuf)
			if err != nil {
				return fmt.Errorf("omio: resolve data range for chunks [%d,%d): %w", indexState.ChunkRange.Lower, indexState.ChunkRange.Upper, err)
			}
			if !ok {
				break
			}

			dataBuf := make([]byte, dataState.ByteRange.Len())
			if _, err := sections.Data.ReadAt(dataBuf, int64(dataState.ByteRange.Lower)); err != nil {
				slog.Error("omio: data read failed", "range", dataState.ByteRange, "err", err)
				return fmt.Errorf("omio: read data range [%d,%d): %w", dataState.ByteRange.Lower, dataState.ByteRange.Upper, err)
			}
			slog.Info("omio: data read", "chunks", dataState.ChunkRange, "bytes", dataState.ByteRange.Len())

			if _, err := decode(dataState, dataBuf, scratch); err != nil {
				return fmt.Errorf("omio: decode chunks [%d,%d): %w", dataState.ChunkRange.Lower, dataState.ChunkRange.Upper, err)
			}
		}
	}
	return nil
}
