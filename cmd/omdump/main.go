// Copyright 2024, The open-meteo-sub000 Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command omdump decodes a hyper-rectangular slice out of an om-file and
// prints it as space-separated values: the raw stored integers when
// -datatype is i16 (the default), floats otherwise. It is a thin driver over
// package omfile/omio: all the coalescing and decode logic lives there,
// this command only parses flags, opens the file, and prints the result.
//
// Example usage:
//
//	$ omdump -file temperature.om -dims 721,1440 -chunks 8,8 \
//		-offset 100,200 -count 4,4 -scalefactor 20
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"

	"github.com/open-meteo/open-meteo-sub000/omfile"
	"github.com/open-meteo/open-meteo-sub000/omfile/omio"
)

var sep = regexp.MustCompile(`[,:]`)

func main() {
	file := flag.String("file", "", "path to the om-file to read")
	dims := flag.String("dims", "", "comma-separated array dimensions")
	chunks := flag.String("chunks", "", "comma-separated chunk dimensions")
	offset := flag.String("offset", "", "comma-separated read offset (default: all zero)")
	count := flag.String("count", "", "comma-separated read count (default: dims)")
	scalefactor := flag.Float64("scalefactor", 1, "linear/logarithmic scale factor")
	compression := flag.String("compression", "linear16", "linear16, log16, or xor32")
	datatype := flag.String("datatype", "i16", "output element datatype")
	lutStart := flag.Uint64("lut-start", 0, "file byte offset where the LUT region begins")
	lutBlockLen := flag.Uint64("lut-block-length", 4096, "bytes per LUT block")
	lutBlockElems := flag.Uint64("lut-block-elements", 256, "chunk entries per LUT block")
	ioMerge := flag.Uint64("io-merge", 1<<16, "max wasted bytes to accept when coalescing reads")
	ioMax := flag.Uint64("io-max", 1<<24, "max bytes per coalesced read")
	flag.Parse()

	if *file == "" || *dims == "" || *chunks == "" {
		fmt.Fprintln(os.Stderr, "usage: omdump -file f.om -dims d1,d2,... -chunks c1,c2,... [flags]")
		os.Exit(2)
	}

	if err := run(*file, *dims, *chunks, *offset, *count, *scalefactor, *compression, *datatype, *lutStart, *lutBlockLen, *lutBlockElems, *ioMerge, *ioMax); err != nil {
		slog.Error("omdump: failed", "err", err)
		os.Exit(1)
	}
}

func run(path, dims, chunks, offset, count string, scalefactor float64, compression, datatype string, lutStart, lutBlockLen, lutBlockElems, ioMerge, ioMax uint64) error {
	dimsV, err := parseUints(dims)
	if err != nil {
		return fmt.Errorf("dims: %w", err)
	}
	chunksV, err := parseUints(chunks)
	if err != nil {
		return fmt.Errorf("chunks: %w", err)
	}

	offsetV := make([]uint64, len(dimsV))
	if offset != "" {
		if offsetV, err = parseUints(offset); err != nil {
			return fmt.Errorf("offset: %w", err)
		}
	}
	countV := dimsV
	if count != "" {
		if countV, err = parseUints(count); err != nil {
			return fmt.Errorf("count: %w", err)
		}
	}

	compressionV, err := parseCompression(compression)
	if err != nil {
		return err
	}
	datatypeV, err := parseDataType(datatype)
	if err != nil {
		return err
	}

	cfg := omfile.Config{
		Scalefactor:          float32(scalefactor),
		Compression:          compressionV,
		Datatype:             datatypeV,
		Dims:                 dimsV,
		Chunks:               chunksV,
		ReadOffset:           offsetV,
		ReadCount:            countV,
		CubeOffset:           make([]uint64, len(dimsV)),
		CubeDimensions:       countV,
		LUTChunkLength:       lutBlockLen,
		LUTChunkElementCount: lutBlockElems,
		LUTStart:             lutStart,
		IOSizeMerge:          ioMerge,
		IOSizeMax:            ioMax,
	}
	d, err := omfile.NewDecoder(cfg)
	if err != nil {
		return fmt.Errorf("construct decoder: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	n := 1
	for _, c := range countV {
		n *= int(c)
	}

	slog.Info("omdump: decoding", "file", path, "dims", dimsV, "offset", offsetV, "count", countV, "datatype", datatype)

	// spec.md §4.3: the request sees floats unless datatype matches the
	// stream's stored type, in which case the raw stored integers are
	// printed untouched by the scale conversion.
	if datatypeV == omfile.I16 {
		output := make([]int16, n)
		if err := omio.DecodeInt16(d, omio.Sections{LUT: f, Data: f}, output); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		for i, v := range output {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(v)
		}
		fmt.Println()
		return nil
	}

	output := make([]float64, n)
	if err := omio.Decode(d, omio.Sections{LUT: f, Data: f}, output); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	for i, v := range output {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(v)
	}
	fmt.Println()
	return nil
}

func parseUints(s string) ([]uint64, error) {
	var out []uint64
	for _, p := range sep.Split(s, -1) {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseCompression(s string) (omfile.CompressionType, error) {
	switch s {
	case "linear16":
		return omfile.LinearQuantized16, nil
	case "log16":
		return omfile.LogQuantized16, nil
	case "xor32":
		return omfile.XorFloat32, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

func parseDataType(s string) (omfile.DataType, error) {
	switch s {
	case "i8":
		return omfile.I8, nil
	case "u8":
		return omfile.U8, nil
	case "i16":
		return omfile.I16, nil
	case "u16":
		return omfile.U16, nil
	case "i32":
		return omfile.I32, nil
	case "u32":
		return omfile.U32, nil
	case "i64":
		return omfile.I64, nil
	case "u64":
		return omfile.U64, nil
	case "f32":
		return omfile.F32, nil
	case "f64":
		return omfile.F64, nil
	default:
		return 0, fmt.Errorf("unknown datatype %q", s)
	}
}
