// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package png

import (
	"encoding/binary"
	"fmt"
	"slices"
)

// headerLength is the fixed IHDR payload size.
const headerLength = 13

// ColorType is the IHDR colour type byte.
type ColorType uint8

// Colour types defined by the PNG specification.
const (
	ColorGrayscale      ColorType = 0
	ColorTruecolor      ColorType = 2
	ColorIndexed        ColorType = 3
	ColorGrayscaleAlpha ColorType = 4
	ColorTruecolorAlpha ColorType = 6
)

// allowedBitDepths lists the bit depths each colour type permits.
var allowedBitDepths = map[ColorType][]uint8{
	ColorGrayscale:      {1, 2, 4, 8, 16},
	ColorTruecolor:      {8, 16},
	ColorIndexed:        {1, 2, 4, 8},
	ColorGrayscaleAlpha: {8, 16},
	ColorTruecolorAlpha: {8, 16},
}

func (c ColorType) String() string {
	switch c {
	case ColorGrayscale:
		return "grayscale"
	case ColorTruecolor:
		return "truecolor"
	case ColorIndexed:
		return "indexed"
	case ColorGrayscaleAlpha:
		return "grayscale+alpha"
	case ColorTruecolorAlpha:
		return "truecolor+alpha"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Header is the decoded IHDR chunk. Only the header fields are read;
// pixel data is never decoded.
type Header struct {
	Width       uint32    `json:"width" yaml:"width"`
	Height      uint32    `json:"height" yaml:"height"`
	BitDepth    uint8     `json:"bit_depth" yaml:"bit_depth"`
	ColorType   ColorType `json:"color_type" yaml:"color_type"`
	Compression uint8     `json:"compression" yaml:"compression"`
	Filter      uint8     `json:"filter" yaml:"filter"`
	Interlace   uint8     `json:"interlace" yaml:"interlace"`
}

// ParseHeader decodes and validates an IHDR chunk.
func ParseHeader(chunk Chunk) (Header, error) {
	if chunk.chunkType != TypeIHDR {
		return Header{}, fmt.Errorf("expected IHDR, got %s", chunk.chunkType)
	}
	data := chunk.data
	if len(data) != headerLength {
		return Header{}, fmt.Errorf("IHDR is %d bytes, want %d", len(data), headerLength)
	}

	header := Header{
		Width:       binary.BigEndian.Uint32(data[0:4]),
		Height:      binary.BigEndian.Uint32(data[4:8]),
		BitDepth:    data[8],
		ColorType:   ColorType(data[9]),
		Compression: data[10],
		Filter:      data[11],
		Interlace:   data[12],
	}

	// Dimensions are PNG four-byte unsigned integers: 1 to 2^31-1.
	if header.Width == 0 || header.Width > 1<<31-1 {
		return Header{}, fmt.Errorf("IHDR width %d out of range", header.Width)
	}
	if header.Height == 0 || header.Height > 1<<31-1 {
		return Header{}, fmt.Errorf("IHDR height %d out of range", header.Height)
	}
	depths, ok := allowedBitDepths[header.ColorType]
	if !ok {
		return Header{}, fmt.Errorf("IHDR colour type %d is not defined", uint8(header.ColorType))
	}
	if !slices.Contains(depths, header.BitDepth) {
		return Header{}, fmt.Errorf("IHDR bit depth %d not allowed for %s (allowed %v)", header.BitDepth, header.ColorType, depths)
	}
	if header.Compression != 0 {
		return Header{}, fmt.Errorf("IHDR compression method %d is not defined", header.Compression)
	}
	if header.Filter != 0 {
		return Header{}, fmt.Errorf("IHDR filter method %d is not defined", header.Filter)
	}
	if header.Interlace > 1 {
		return Header{}, fmt.Errorf("IHDR interlace method %d is not defined", header.Interlace)
	}

	return header, nil
}

// Bytes encodes the header as an IHDR payload.
func (h Header) Bytes() []byte {
	data := make([]byte, 0, headerLength)
	data = binary.BigEndian.AppendUint32(data, h.Width)
	data = binary.BigEndian.AppendUint32(data, h.Height)
	return append(data, h.BitDepth, byte(h.ColorType), h.Compression, h.Filter, h.Interlace)
}

// Header returns the decoded IHDR chunk. It fails if the first chunk is
// not a valid IHDR.
func (p *PNG) Header() (Header, error) {
	if len(p.chunks) == 0 {
		return Header{}, fmt.Errorf("PNG has no chunks")
	}
	return ParseHeader(p.chunks[0])
}
