// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Signature is the fixed 8-byte prefix of every PNG stream:
// 0x89 "PNG" CR LF 0x1A LF.
var Signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// PNG is an ordered sequence of chunks. Order is significant and is
// preserved through [Parse] and [PNG.Bytes]. By convention the last
// chunk is IEND, and [PNG.Append] keeps it last.
//
// A PNG is owned by one caller. It is not safe for concurrent use.
type PNG struct {
	chunks []Chunk
}

// Parse decodes a complete PNG stream. It checks the signature, then
// parses chunk records back to back until the input is exhausted.
// Every chunk's CRC is verified. The first bad record aborts the parse;
// the returned error wraps the record's error with its index and byte
// offset, so [errors.Is] and [errors.As] still see the kind.
func Parse(data []byte) (*PNG, error) {
	if len(data) < len(Signature) || !bytes.Equal(data[:len(Signature)], Signature[:]) {
		return nil, ErrBadSignature
	}

	var chunks []Chunk
	offset := len(Signature)
	for offset < len(data) {
		remaining := len(data) - offset
		if remaining < ChunkOverhead {
			return nil, fmt.Errorf("chunk %d: %w", len(chunks),
				&TruncatedError{Offset: offset, Need: ChunkOverhead, Have: remaining})
		}

		length := binary.BigEndian.Uint32(data[offset : offset+4])
		need := uint64(ChunkOverhead) + uint64(length)
		if need > uint64(remaining) {
			return nil, fmt.Errorf("chunk %d (%s): %w", len(chunks),
				ChunkTypeFromBytes([4]byte(data[offset+4:offset+8])),
				&TruncatedError{Offset: offset, Need: int64(need), Have: remaining})
		}

		chunk, err := ParseChunk(data[offset : offset+int(need)])
		if err != nil {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", len(chunks), offset, err)
		}
		chunks = append(chunks, chunk)
		offset += chunk.Size()
	}

	return &PNG{chunks: chunks}, nil
}

// FromChunks builds a container from an existing chunk list. The list
// is copied; later changes to the argument do not affect the PNG.
func FromChunks(chunks []Chunk) *PNG {
	owned := make([]Chunk, len(chunks))
	copy(owned, chunks)
	return &PNG{chunks: owned}
}

// Chunks returns the chunks in order. The returned slice is a copy.
func (p *PNG) Chunks() []Chunk {
	chunks := make([]Chunk, len(p.chunks))
	copy(chunks, p.chunks)
	return chunks
}

// Len returns the number of chunks.
func (p *PNG) Len() int {
	return len(p.chunks)
}

// Append inserts chunk immediately before the last chunk (normally
// IEND). An empty container simply gains the chunk. Duplicate types are
// allowed.
func (p *PNG) Append(chunk Chunk) {
	if len(p.chunks) == 0 {
		p.chunks = append(p.chunks, chunk)
		return
	}
	last := len(p.chunks) - 1
	p.chunks = append(p.chunks, Chunk{})
	copy(p.chunks[last+1:], p.chunks[last:])
	p.chunks[last] = chunk
}

// ChunkByType returns the first chunk whose type renders as name.
// Later chunks of the same type are reachable through [PNG.ChunksByType].
func (p *PNG) ChunkByType(name string) (Chunk, bool) {
	index := p.indexOf(name)
	if index < 0 {
		return Chunk{}, false
	}
	return p.chunks[index], true
}

// ChunksByType returns every chunk whose type renders as name, in
// stream order.
func (p *PNG) ChunksByType(name string) []Chunk {
	var matches []Chunk
	for _, chunk := range p.chunks {
		if chunk.chunkType.String() == name {
			matches = append(matches, chunk)
		}
	}
	return matches
}

// RemoveChunk removes the first chunk whose type renders as name and
// returns it so the caller can inspect the payload. At most one chunk
// is removed per call. If nothing matches, the container is unchanged
// and the error matches [ErrChunkNotFound].
func (p *PNG) RemoveChunk(name string) (Chunk, error) {
	index := p.indexOf(name)
	if index < 0 {
		return Chunk{}, &ChunkNotFoundError{Type: name}
	}
	removed := p.chunks[index]
	p.chunks = append(p.chunks[:index], p.chunks[index+1:]...)
	return removed, nil
}

// RemoveWhere removes every chunk for which match returns true and
// returns the removed chunks in stream order.
func (p *PNG) RemoveWhere(match func(Chunk) bool) []Chunk {
	var removed []Chunk
	kept := p.chunks[:0]
	for _, chunk := range p.chunks {
		if match(chunk) {
			removed = append(removed, chunk)
			continue
		}
		kept = append(kept, chunk)
	}
	// Clear the tail so dropped payloads are not pinned by the array.
	for index := len(kept); index < len(p.chunks); index++ {
		p.chunks[index] = Chunk{}
	}
	p.chunks = kept
	return removed
}

// Size returns the serialized length in bytes.
func (p *PNG) Size() int {
	size := len(Signature)
	for _, chunk := range p.chunks {
		size += chunk.Size()
	}
	return size
}

// Bytes serializes the container: signature followed by every chunk in
// order. For a container returned by [Parse] and not modified since,
// the result equals the parsed input.
func (p *PNG) Bytes() []byte {
	buffer := make([]byte, 0, p.Size())
	buffer = append(buffer, Signature[:]...)
	for _, chunk := range p.chunks {
		buffer = chunk.appendTo(buffer)
	}
	return buffer
}

// WriteTo streams the serialized container to w. It implements
// [io.WriterTo].
func (p *PNG) WriteTo(w io.Writer) (int64, error) {
	var total int64
	written, err := w.Write(Signature[:])
	total += int64(written)
	if err != nil {
		return total, fmt.Errorf("writing signature: %w", err)
	}
	var scratch []byte
	for index, chunk := range p.chunks {
		scratch = chunk.appendTo(scratch[:0])
		written, err := w.Write(scratch)
		total += int64(written)
		if err != nil {
			return total, fmt.Errorf("writing chunk %d (%s): %w", index, chunk.chunkType, err)
		}
	}
	return total, nil
}

func (p *PNG) indexOf(name string) int {
	for index, chunk := range p.chunks {
		if chunk.chunkType.String() == name {
			return index
		}
	}
	return -1
}
