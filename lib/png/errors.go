// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package png

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one
// of these under [errors.Is].
var (
	// ErrInvalidFormat reports a chunk type string that is not exactly
	// four bytes long.
	ErrInvalidFormat = errors.New("chunk type must be exactly 4 bytes")

	// ErrInvalidCharacter reports a chunk type string containing a byte
	// outside A-Z and a-z.
	ErrInvalidCharacter = errors.New("chunk type must contain only ASCII letters")

	// ErrBadSignature reports input that does not start with the PNG
	// signature.
	ErrBadSignature = errors.New("not a PNG file (bad signature)")

	// ErrChecksumMismatch reports a chunk whose stored CRC does not
	// match the CRC computed over its type and data.
	ErrChecksumMismatch = errors.New("chunk checksum mismatch")

	// ErrChunkNotFound reports a lookup or removal of a type that is
	// not present.
	ErrChunkNotFound = errors.New("chunk not found")

	// ErrTruncatedBuffer reports input that ends in the middle of a
	// chunk record.
	ErrTruncatedBuffer = errors.New("truncated chunk record")

	// ErrLengthMismatch reports a chunk whose length field disagrees
	// with the number of data bytes actually present.
	ErrLengthMismatch = errors.New("chunk length field does not match data")
)

// InvalidCharacterError is returned by [ParseChunkType] for the first
// byte that is not an ASCII letter.
type InvalidCharacterError struct {
	Input string
	Index int
	Byte  byte
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("chunk type %q: byte %d (0x%02x) is not an ASCII letter", e.Input, e.Index, e.Byte)
}

func (e *InvalidCharacterError) Is(target error) bool { return target == ErrInvalidCharacter }

// ChecksumMismatchError carries both checksums for diagnostics.
// Expected is the value computed from the chunk contents, Actual the
// value stored in the file.
type ChecksumMismatchError struct {
	Type     ChunkType
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("chunk %s: checksum mismatch: computed %08x, stored %08x", e.Type, e.Expected, e.Actual)
}

func (e *ChecksumMismatchError) Is(target error) bool { return target == ErrChecksumMismatch }

// LengthMismatchError is returned when the declared length of a chunk
// differs from the data span found between its header and trailer.
type LengthMismatchError struct {
	Type     ChunkType
	Declared uint32
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("chunk %s: length field says %d bytes, record holds %d", e.Type, e.Declared, e.Actual)
}

func (e *LengthMismatchError) Is(target error) bool { return target == ErrLengthMismatch }

// TruncatedError describes where the input ran out. Offset is relative
// to the start of the buffer being parsed. Need counts the whole
// record, so it can exceed what an int32 length field holds.
type TruncatedError struct {
	Offset int
	Need   int64
	Have   int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated chunk record at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

func (e *TruncatedError) Is(target error) bool { return target == ErrTruncatedBuffer }

// ChunkNotFoundError names the type that was searched for.
type ChunkNotFoundError struct {
	Type string
}

func (e *ChunkNotFoundError) Error() string {
	return fmt.Sprintf("chunk %q not found", e.Type)
}

func (e *ChunkNotFoundError) Is(target error) bool { return target == ErrChunkNotFound }
