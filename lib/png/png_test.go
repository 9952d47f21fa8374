// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package png

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

// onePixelHex is a complete 1x1 truecolor PNG: IHDR, IDAT, IEND.
const onePixelHex = "89504e470d0a1a0a" +
	"0000000d49484452000000010000000108020000009077" + "53de" +
	"0000000c49444154789c63f8cfc0000003010100c9fe92ef" +
	"0000000049454e44ae426082"

func onePixel(t *testing.T) []byte {
	t.Helper()
	data, err := hex.DecodeString(onePixelHex)
	if err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return data
}

func testChunks() []Chunk {
	return []Chunk{
		NewChunk(MustParseChunkType("FrSt"), []byte("I am the first chunk")),
		NewChunk(MustParseChunkType("miDl"), []byte("I am another chunk")),
		NewChunk(MustParseChunkType("LASt"), []byte("I am the last chunk")),
	}
}

func TestParseRoundTrip(t *testing.T) {
	data := onePixel(t)

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", parsed.Len())
	}
	wantTypes := []string{"IHDR", "IDAT", "IEND"}
	for index, chunk := range parsed.Chunks() {
		if chunk.Type().String() != wantTypes[index] {
			t.Errorf("chunk %d type = %s, want %s", index, chunk.Type(), wantTypes[index])
		}
	}
	if !bytes.Equal(parsed.Bytes(), data) {
		t.Errorf("Bytes() = %x, want %x", parsed.Bytes(), data)
	}
	if parsed.Size() != len(data) {
		t.Errorf("Size() = %d, want %d", parsed.Size(), len(data))
	}
}

func TestParseSignatureOnly(t *testing.T) {
	parsed, err := Parse(Signature[:])
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Len() != 0 {
		t.Errorf("Len() = %d, want 0", parsed.Len())
	}
	if !bytes.Equal(parsed.Bytes(), Signature[:]) {
		t.Errorf("Bytes() = %x, want the bare signature", parsed.Bytes())
	}
}

func TestParseBadSignature(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "zeros", input: make([]byte, 8)},
		{name: "empty", input: nil},
		{name: "short prefix", input: Signature[:5]},
		{name: "one byte off", input: append([]byte{0x88}, Signature[1:]...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); !errors.Is(err, ErrBadSignature) {
				t.Errorf("Parse error = %v, want ErrBadSignature", err)
			}
		})
	}
}

func TestParseChecksumFailure(t *testing.T) {
	data := onePixel(t)
	// Last byte of the IDAT CRC.
	data[8+25+23] ^= 0xff

	_, err := Parse(data)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("Parse error = %v, want ErrChecksumMismatch", err)
	}
	var mismatch *ChecksumMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error %v does not carry *ChecksumMismatchError", err)
	}
	if mismatch.Type != TypeIDAT {
		t.Errorf("mismatch type = %s, want IDAT", mismatch.Type)
	}
}

func TestParseTruncated(t *testing.T) {
	data := onePixel(t)

	for _, cut := range []int{1, 4, 11, 13, 20} {
		truncated := data[:len(data)-cut]
		if _, err := Parse(truncated); !errors.Is(err, ErrTruncatedBuffer) {
			t.Errorf("Parse with %d bytes cut: error = %v, want ErrTruncatedBuffer", cut, err)
		}
	}
}

func TestParseHugeLengthField(t *testing.T) {
	data := append([]byte(nil), Signature[:]...)
	data = append(data, 0xff, 0xff, 0xff, 0xff, 'r', 'u', 'S', 't', 0, 0, 0, 0)

	_, err := Parse(data)
	var truncated *TruncatedError
	if !errors.As(err, &truncated) {
		t.Fatalf("Parse error = %v, want a TruncatedError", err)
	}
	if want := int64(ChunkOverhead) + 0xffffffff; truncated.Need != want {
		t.Errorf("Need = %d, want %d", truncated.Need, want)
	}
	if truncated.Offset != len(Signature) || truncated.Have != 12 {
		t.Errorf("truncation at offset %d with %d bytes, want %d and 12", truncated.Offset, truncated.Have, len(Signature))
	}
}

func TestFromChunksBytes(t *testing.T) {
	chunks := testChunks()
	container := FromChunks(chunks)

	var want []byte
	want = append(want, Signature[:]...)
	for _, chunk := range chunks {
		want = append(want, chunk.Bytes()...)
	}
	if !bytes.Equal(container.Bytes(), want) {
		t.Error("Bytes() is not the signature followed by each chunk")
	}

	parsed, err := Parse(want)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !bytes.Equal(parsed.Bytes(), want) {
		t.Error("reparsed container does not round-trip")
	}
}

func TestFromChunksCopies(t *testing.T) {
	chunks := testChunks()
	container := FromChunks(chunks)
	chunks[0] = NewChunk(MustParseChunkType("XxXx"), nil)

	if first := container.Chunks()[0]; first.Type().String() != "FrSt" {
		t.Errorf("container changed with caller's slice: first = %s", first.Type())
	}
}

func TestAppendBeforeLast(t *testing.T) {
	data := onePixel(t)
	container, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	secret := NewChunk(MustParseChunkType("RuSt"), []byte(testMessage))
	container.Append(secret)

	chunks := container.Chunks()
	if len(chunks) != 4 {
		t.Fatalf("Len() = %d, want 4", len(chunks))
	}
	if chunks[2].Type().String() != "RuSt" {
		t.Errorf("appended chunk at index 2 is %s, want RuSt", chunks[2].Type())
	}
	if chunks[3].Type() != TypeIEND {
		t.Errorf("last chunk is %s, want IEND", chunks[3].Type())
	}
	if container.Size() != len(data)+secret.Size() {
		t.Errorf("Size() = %d, want %d", container.Size(), len(data)+secret.Size())
	}

	found, ok := container.ChunkByType("RuSt")
	if !ok {
		t.Fatal("ChunkByType(RuSt) found nothing")
	}
	if found.DataLatin1() != testMessage {
		t.Errorf("found data = %q, want %q", found.DataLatin1(), testMessage)
	}
}

func TestAppendEmpty(t *testing.T) {
	container := FromChunks(nil)
	container.Append(NewChunk(TypeIEND, nil))
	if container.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", container.Len())
	}
	container.Append(NewChunk(MustParseChunkType("ruSt"), []byte("x")))
	chunks := container.Chunks()
	if chunks[0].Type().String() != "ruSt" || chunks[1].Type() != TypeIEND {
		t.Errorf("order = %s, %s; want ruSt, IEND", chunks[0].Type(), chunks[1].Type())
	}
}

func TestChunkByTypeFirstMatch(t *testing.T) {
	container := FromChunks(testChunks())
	container.Append(NewChunk(MustParseChunkType("miDl"), []byte("second middle")))

	found, ok := container.ChunkByType("miDl")
	if !ok {
		t.Fatal("ChunkByType(miDl) found nothing")
	}
	if found.DataLatin1() != "I am another chunk" {
		t.Errorf("ChunkByType returned %q, want the first miDl", found.DataLatin1())
	}
	if got := len(container.ChunksByType("miDl")); got != 2 {
		t.Errorf("ChunksByType(miDl) returned %d chunks, want 2", got)
	}

	if _, ok := container.ChunkByType("miDL"); ok {
		t.Error("ChunkByType matched a differently cased type")
	}
	if _, ok := container.ChunkByType("nope"); ok {
		t.Error("ChunkByType found an absent type")
	}
}

func TestRemoveChunk(t *testing.T) {
	container := FromChunks(testChunks())
	container.Append(NewChunk(MustParseChunkType("TeSt"), []byte("one")))
	container.Append(NewChunk(MustParseChunkType("TeSt"), []byte("two")))

	removed, err := container.RemoveChunk("TeSt")
	if err != nil {
		t.Fatalf("RemoveChunk: %v", err)
	}
	if removed.DataLatin1() != "one" {
		t.Errorf("removed %q, want the first TeSt", removed.DataLatin1())
	}
	if container.Len() != 4 {
		t.Errorf("Len() = %d, want 4", container.Len())
	}
	remaining, ok := container.ChunkByType("TeSt")
	if !ok || remaining.DataLatin1() != "two" {
		t.Errorf("remaining TeSt = %q (found %v), want %q", remaining.DataLatin1(), ok, "two")
	}
}

func TestRemoveChunkAbsent(t *testing.T) {
	container := FromChunks(testChunks())
	before := container.Bytes()

	_, err := container.RemoveChunk("NoPe")
	if !errors.Is(err, ErrChunkNotFound) {
		t.Fatalf("RemoveChunk error = %v, want ErrChunkNotFound", err)
	}
	var notFound *ChunkNotFoundError
	if !errors.As(err, &notFound) || notFound.Type != "NoPe" {
		t.Errorf("error detail = %v, want type NoPe", err)
	}
	if !bytes.Equal(container.Bytes(), before) {
		t.Error("failed removal modified the container")
	}
}

func TestRemoveWhere(t *testing.T) {
	container := FromChunks(testChunks())
	removed := container.RemoveWhere(func(chunk Chunk) bool {
		return !chunk.Type().IsCritical()
	})

	if len(removed) != 1 || removed[0].Type().String() != "miDl" {
		t.Fatalf("removed = %v, want [miDl]", removed)
	}
	chunks := container.Chunks()
	if len(chunks) != 2 || chunks[0].Type().String() != "FrSt" || chunks[1].Type().String() != "LASt" {
		t.Errorf("remaining = %v, want [FrSt LASt]", chunks)
	}
}

func TestWriteTo(t *testing.T) {
	container, err := Parse(onePixel(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buffer bytes.Buffer
	written, err := container.WriteTo(&buffer)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if written != int64(container.Size()) {
		t.Errorf("WriteTo wrote %d bytes, want %d", written, container.Size())
	}
	if !bytes.Equal(buffer.Bytes(), container.Bytes()) {
		t.Error("WriteTo output differs from Bytes()")
	}
}

func TestChunksReturnsCopy(t *testing.T) {
	container := FromChunks(testChunks())
	chunks := container.Chunks()
	chunks[0] = Chunk{}
	if container.Chunks()[0].Type().String() != "FrSt" {
		t.Error("modifying Chunks() result changed the container")
	}
}
