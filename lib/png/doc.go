// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package png reads and writes PNG files at the chunk level. It never
// touches pixel data: a PNG here is the 8-byte signature followed by an
// ordered list of [Chunk] records, each carrying a 4-byte [ChunkType],
// an opaque payload, and a CRC-32 over type and payload.
//
// The package is built around three value types:
//
//   - [ChunkType]: the 4-byte type code. The case of each letter encodes
//     a property flag (critical, public, reserved, safe-to-copy).
//
//   - [Chunk]: one length-prefixed, checksummed record. Chunks are
//     immutable. [NewChunk] computes the length and CRC; [ParseChunk]
//     reads them from a buffer and rejects a record whose stored CRC
//     does not match its contents.
//
//   - [PNG]: the container. [Parse] checks the signature and parses
//     every chunk, failing on the first bad record (there is no
//     best-effort mode). [PNG.Append] inserts before the final chunk,
//     which by convention is IEND. [PNG.Bytes] reproduces the input
//     byte-for-byte when nothing was changed.
//
// Everything operates on byte slices in memory. File access, locking,
// and user-facing output live in lib/pngfile and cmd/pngstash.
//
// Errors carry a kind that callers can test with [errors.Is] against
// the Err* sentinels, and structured detail reachable through
// [errors.As] (for example [*ChecksumMismatchError] exposes both the
// computed and the stored checksum).
//
// Beyond the framing, text.go decodes the tEXt, zTXt and iTXt metadata
// chunks and header.go decodes IHDR, so tools can display them.
package png
