// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/pngstash/lib/envelope"
	"github.com/bureau-foundation/pngstash/lib/png"
)

// digestLength is the number of BLAKE3 output bytes kept per chunk.
const digestLength = 16

// digestKey is the BLAKE3 key for chunk digests, the ASCII domain name
// zero-padded to 32 bytes.
var digestKey = [32]byte{
	'p', 'n', 'g', 's', 't', 'a', 's', 'h', '.', 'm', 'a', 'n', 'i', 'f', 'e', 's',
	't', '.', 'c', 'h', 'u', 'n', 'k',
}

// Manifest is the chunk-level description of one PNG stream.
type Manifest struct {
	// Size is the serialized length of the whole file.
	Size int `json:"size" yaml:"size"`

	// Header is present when the first chunk is a valid IHDR.
	Header *png.Header `json:"header,omitempty" yaml:"header,omitempty"`

	Chunks []Entry `json:"chunks" yaml:"chunks"`
}

// Entry describes one chunk.
type Entry struct {
	Index  int           `json:"index" yaml:"index"`
	Offset int           `json:"offset" yaml:"offset"`
	Type   png.ChunkType `json:"type" yaml:"type"`

	Critical      bool `json:"critical" yaml:"critical"`
	Public        bool `json:"public" yaml:"public"`
	ReservedValid bool `json:"reserved_valid" yaml:"reserved_valid"`
	SafeToCopy    bool `json:"safe_to_copy" yaml:"safe_to_copy"`

	Length uint32 `json:"length" yaml:"length"`
	CRC    string `json:"crc" yaml:"crc"`
	Digest string `json:"digest" yaml:"digest"`

	// Text is the decoded keyword and value for tEXt, zTXt and iTXt.
	Text *png.TextEntry `json:"text,omitempty" yaml:"text,omitempty"`

	// Envelope describes a pngstash envelope payload without opening it.
	Envelope *envelope.Info `json:"envelope,omitempty" yaml:"envelope,omitempty"`
}

// Build describes every chunk of p in order.
func Build(p *png.PNG) Manifest {
	manifest := Manifest{
		Size:   p.Size(),
		Chunks: make([]Entry, 0, p.Len()),
	}
	if header, err := p.Header(); err == nil {
		manifest.Header = &header
	}

	offset := len(png.Signature)
	for index, chunk := range p.Chunks() {
		manifest.Chunks = append(manifest.Chunks, describe(index, offset, chunk))
		offset += chunk.Size()
	}
	return manifest
}

func describe(index, offset int, chunk png.Chunk) Entry {
	chunkType := chunk.Type()
	data := chunk.Data()
	entry := Entry{
		Index:         index,
		Offset:        offset,
		Type:          chunkType,
		Critical:      chunkType.IsCritical(),
		Public:        chunkType.IsPublic(),
		ReservedValid: chunkType.IsReservedBitValid(),
		SafeToCopy:    chunkType.IsSafeToCopy(),
		Length:        chunk.Length(),
		CRC:           fmt.Sprintf("%08x", chunk.CRC()),
		Digest:        Digest(data),
	}
	if png.IsTextType(chunkType) {
		if text, err := png.ParseText(chunk); err == nil {
			entry.Text = &text
		}
	}
	if envelope.IsEnvelope(data) {
		if info, err := envelope.Describe(data); err == nil {
			entry.Envelope = &info
		}
	}
	return entry
}

// Digest returns the short hex BLAKE3 digest used in manifests.
func Digest(data []byte) string {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("manifest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var sum [digestLength]byte
	// The BLAKE3 XOF lets the output be read at any length.
	hasher.Digest().Read(sum[:])
	return hex.EncodeToString(sum[:])
}

// Flags renders the four property bits as a compact string, one letter
// per byte position: C/a (critical, ancillary), P/p (public, private),
// R/r (reserved bit valid, set), S/u (safe, unsafe to copy).
func (e Entry) Flags() string {
	flags := []byte("apru")
	if e.Critical {
		flags[0] = 'C'
	}
	if e.Public {
		flags[1] = 'P'
	}
	if e.ReservedValid {
		flags[2] = 'R'
	}
	if e.SafeToCopy {
		flags[3] = 'S'
	}
	return string(flags)
}
