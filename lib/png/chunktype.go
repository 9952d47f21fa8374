// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package png

import (
	"strings"
)

// ChunkType is the 4-byte type code of a chunk. Bit 5 (0x20, the ASCII
// lowercase bit) of each byte carries one property:
//
//	byte 0: ancillary (set) or critical (clear)
//	byte 1: private (set) or public (clear)
//	byte 2: reserved, must be clear
//	byte 3: safe to copy (set) or unsafe to copy (clear)
//
// ChunkType is a comparable value; two codes are equal when their bytes
// are equal.
type ChunkType [4]byte

// propertyBit is the bit each property flag lives in.
const propertyBit = 0x20

// Standard chunk types this package names explicitly.
var (
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	TypePLTE = ChunkType{'P', 'L', 'T', 'E'}
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'}
	TypeTEXT = ChunkType{'t', 'E', 'X', 't'}
	TypeZTXT = ChunkType{'z', 'T', 'X', 't'}
	TypeITXT = ChunkType{'i', 'T', 'X', 't'}
	TypeEXIF = ChunkType{'e', 'X', 'I', 'f'}
	TypeTIME = ChunkType{'t', 'I', 'M', 'E'}
)

// ChunkTypeFromBytes stores raw bytes verbatim. It accepts anything,
// including codes that fail [ChunkType.IsValid], because a parser has
// to represent whatever a file actually contains.
func ChunkTypeFromBytes(raw [4]byte) ChunkType {
	return ChunkType(raw)
}

// ParseChunkType converts a user-supplied string into a chunk type. The
// string must be exactly four ASCII letters. It may still fail
// [ChunkType.IsValid] if the third letter is lowercase.
func ParseChunkType(text string) (ChunkType, error) {
	if len(text) != 4 {
		return ChunkType{}, ErrInvalidFormat
	}
	var code ChunkType
	for index := range 4 {
		value := text[index]
		if !isASCIILetter(value) {
			return ChunkType{}, &InvalidCharacterError{Input: text, Index: index, Byte: value}
		}
		code[index] = value
	}
	return code, nil
}

// MustParseChunkType is ParseChunkType for constants. Panics on error.
func MustParseChunkType(text string) ChunkType {
	code, err := ParseChunkType(text)
	if err != nil {
		panic("png: " + err.Error())
	}
	return code
}

// Bytes returns the raw type bytes.
func (t ChunkType) Bytes() [4]byte {
	return t
}

// String widens each byte to a rune. For the normal ASCII case this is
// the four letters; for malformed codes it never produces invalid UTF-8.
func (t ChunkType) String() string {
	var builder strings.Builder
	builder.Grow(4)
	for _, value := range t {
		builder.WriteRune(rune(value))
	}
	return builder.String()
}

// IsCritical reports whether a decoder must understand this chunk to
// display the image.
func (t ChunkType) IsCritical() bool {
	return t[0]&propertyBit == 0
}

// IsPublic reports whether the type is registered in the PNG
// specification rather than privately defined.
func (t ChunkType) IsPublic() bool {
	return t[1]&propertyBit == 0
}

// IsReservedBitValid reports whether the reserved bit is clear, i.e.
// the third letter is uppercase.
func (t ChunkType) IsReservedBitValid() bool {
	return t[2]&propertyBit == 0
}

// IsSafeToCopy reports whether editors that do not recognise the chunk
// may copy it into a modified image.
func (t ChunkType) IsSafeToCopy() bool {
	return t[3]&propertyBit != 0
}

// IsValid reports whether all four bytes are ASCII letters and the
// reserved bit is clear.
func (t ChunkType) IsValid() bool {
	for _, value := range t {
		if !isASCIILetter(value) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

// MarshalText implements [encoding.TextMarshaler] so type codes appear
// as strings in JSON, CBOR and YAML output.
func (t ChunkType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] with the same
// rules as [ParseChunkType].
func (t *ChunkType) UnmarshalText(text []byte) error {
	parsed, err := ParseChunkType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func isASCIILetter(value byte) bool {
	return (value >= 'A' && value <= 'Z') || (value >= 'a' && value <= 'z')
}
