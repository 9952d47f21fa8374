// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package png

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Chunk record layout constants.
const (
	// chunkHeaderSize is the length field plus the type field.
	chunkHeaderSize = 8

	// chunkTrailerSize is the CRC field.
	chunkTrailerSize = 4

	// ChunkOverhead is the number of bytes a chunk occupies beyond its
	// data: 4-byte length, 4-byte type, 4-byte CRC.
	ChunkOverhead = chunkHeaderSize + chunkTrailerSize
)

// Chunk is one record of a PNG stream. Chunks are immutable; a [PNG]
// replaces or removes whole chunks rather than editing one in place.
//
// The zero Chunk is not meaningful. Build chunks with [NewChunk] or
// [ParseChunk].
type Chunk struct {
	length    uint32
	chunkType ChunkType
	data      []byte
	crc       uint32
}

// NewChunk builds a chunk from a type and payload, computing the length
// field and the CRC. The payload is copied. Zero-length payloads are
// allowed.
func NewChunk(chunkType ChunkType, data []byte) Chunk {
	owned := make([]byte, len(data))
	copy(owned, data)
	return Chunk{
		length:    uint32(len(owned)),
		chunkType: chunkType,
		data:      owned,
		crc:       checksum(chunkType, owned),
	}
}

// ParseChunk decodes exactly one chunk record occupying the whole of
// raw: length, type, data, CRC. The data span is everything between the
// type field and the trailing CRC.
//
// The stored CRC is verified first; a mismatch returns a
// [*ChecksumMismatchError]. The length field is then checked against
// the data span and a disagreement returns a [*LengthMismatchError].
// The type code is not validated, so malformed but correctly
// checksummed chunks still round-trip.
func ParseChunk(raw []byte) (Chunk, error) {
	if len(raw) < ChunkOverhead {
		return Chunk{}, &TruncatedError{Offset: 0, Need: ChunkOverhead, Have: len(raw)}
	}

	length := binary.BigEndian.Uint32(raw[0:4])
	chunkType := ChunkTypeFromBytes([4]byte(raw[4:8]))
	dataEnd := len(raw) - chunkTrailerSize
	stored := binary.BigEndian.Uint32(raw[dataEnd:])

	data := make([]byte, dataEnd-chunkHeaderSize)
	copy(data, raw[chunkHeaderSize:dataEnd])

	computed := checksum(chunkType, data)
	if computed != stored {
		return Chunk{}, &ChecksumMismatchError{Type: chunkType, Expected: computed, Actual: stored}
	}

	if uint64(length) != uint64(len(data)) {
		return Chunk{}, &LengthMismatchError{Type: chunkType, Declared: length, Actual: len(data)}
	}

	return Chunk{
		length:    length,
		chunkType: chunkType,
		data:      data,
		crc:       stored,
	}, nil
}

// Length returns the length field: the number of data bytes.
func (c Chunk) Length() uint32 {
	return c.length
}

// Type returns the chunk type code.
func (c Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns a copy of the payload.
func (c Chunk) Data() []byte {
	data := make([]byte, len(c.data))
	copy(data, c.data)
	return data
}

// CRC returns the CRC-32 over type and data.
func (c Chunk) CRC() uint32 {
	return c.crc
}

// Size returns the number of bytes the chunk occupies when serialized.
func (c Chunk) Size() int {
	return ChunkOverhead + len(c.data)
}

// DataLatin1 interprets each payload byte as one character (ISO 8859-1).
// This is a lossy display conversion, not a text decode: it never
// fails and performs no UTF-8 validation.
func (c Chunk) DataLatin1() string {
	return latin1(c.data)
}

// Bytes serializes the chunk: big-endian length, type, data,
// big-endian CRC. It is the exact inverse of [ParseChunk].
func (c Chunk) Bytes() []byte {
	return c.appendTo(make([]byte, 0, c.Size()))
}

// appendTo appends the serialized chunk to buffer.
func (c Chunk) appendTo(buffer []byte) []byte {
	buffer = binary.BigEndian.AppendUint32(buffer, c.length)
	buffer = append(buffer, c.chunkType[:]...)
	buffer = append(buffer, c.data...)
	return binary.BigEndian.AppendUint32(buffer, c.crc)
}

// String summarizes the chunk for listings and log lines.
func (c Chunk) String() string {
	return fmt.Sprintf("%s (%d bytes, crc %08x)", c.chunkType, c.length, c.crc)
}

// checksum is the CRC-32 (IEEE polynomial, as used by zlib and PNG) of
// the type bytes followed by the data.
func checksum(chunkType ChunkType, data []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, chunkType[:])
	return crc32.Update(crc, crc32.IEEETable, data)
}
