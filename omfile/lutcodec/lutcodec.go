// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lutcodec implements the two pluggable, optional compressors a LUT
// block may be stored under (spec.md §3: "each block independently
// bit-packed and optionally compressed"). A one-byte Tag prefixed to each
// on-disk block selects which codec, if any, decompresses the remainder of
// the block before it is handed to the bit-unpack/delta decode in
// package omfile.
package lutcodec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Tag identifies the compressor, if any, a LUT block is stored under.
type Tag uint8

const (
	// TagNone means the block's payload is the raw bit-packed, delta-coded
	// offset sequence with no further compression.
	TagNone Tag = iota
	// TagZstd means the payload is zstd-compressed (github.com/klauspost/compress/zstd).
	TagZstd
	// TagXZ means the payload is xz-compressed (github.com/ulikunitz/xz).
	TagXZ
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "lutcodec: " + string(e) }

// Decompress returns the decompressed block payload for the given tag.
// rawLen is the caller's estimate of the decompressed size and is used only
// to presize the output buffer.
func Decompress(tag Tag, compressed []byte, rawLen int) ([]byte, error) {
	switch tag {
	case TagNone:
		return compressed, nil
	case TagZstd:
		dec, err := zstd.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, Error("zstd: " + err.Error())
		}
		defer dec.Close()
		out := make([]byte, 0, rawLen)
		buf := bytes.NewBuffer(out)
		if _, err := io.Copy(buf, dec); err != nil {
			return nil, Error("zstd: " + err.Error())
		}
		return buf.Bytes(), nil
	case TagXZ:
		r, err := xz.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, Error("xz: " + err.Error())
		}
		out := make([]byte, 0, rawLen)
		buf := bytes.NewBuffer(out)
		if _, err := io.Copy(buf, r); err != nil {
			return nil, Error("xz: " + err.Error())
		}
		return buf.Bytes(), nil
	default:
		return nil, Error("unknown LUT block compression tag")
	}
}

// Compress returns raw compressed under the given tag, the mirror of
// Decompress, used by tests to build fixtures for each codec.
func Compress(tag Tag, raw []byte) ([]byte, error) {
	switch tag {
	case TagNone:
		return raw, nil
	case TagZstd:
		var buf bytes.Buffer
		w, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, Error("zstd: " + err.Error())
		}
		if _, err := w.Write(raw); err != nil {
			w.Close()
			return nil, Error("zstd: " + err.Error())
		}
		if err := w.Close(); err != nil {
			return nil, Error("zstd: " + err.Error())
		}
		return buf.Bytes(), nil
	case TagXZ:
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, Error("xz: " + err.Error())
		}
		if _, err := w.Write(raw); err != nil {
			w.Close()
			return nil, Error("xz: " + err.Error())
		}
		if err := w.Close(); err != nil {
			return nil, Error("xz: " + err.Error())
		}
		return buf.Bytes(), nil
	default:
		return nil, Error("unknown LUT block compression tag")
	}
}
