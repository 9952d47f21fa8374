// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/pngstash/lib/codec"
	"github.com/bureau-foundation/pngstash/lib/envelope"
	"github.com/bureau-foundation/pngstash/lib/png"
	"github.com/bureau-foundation/pngstash/lib/testutil"
)

func buildFixture(t *testing.T) *png.PNG {
	t.Helper()
	text, err := png.NewTextChunk("Comment", "hello", false)
	if err != nil {
		t.Fatalf("NewTextChunk: %v", err)
	}
	wrapped, err := envelope.Seal([]byte("hidden"), envelope.Options{})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	data := testutil.BuildPNG(t,
		text,
		png.NewChunk(png.MustParseChunkType("RuSt"), []byte("This is where your secret message will be!")),
		png.NewChunk(png.MustParseChunkType("stSh"), wrapped),
	)
	container, err := png.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return container
}

func TestBuild(t *testing.T) {
	container := buildFixture(t)
	manifest := Build(container)

	if manifest.Size != container.Size() {
		t.Errorf("Size = %d, want %d", manifest.Size, container.Size())
	}
	if manifest.Header == nil || manifest.Header.Width != 1 || manifest.Header.ColorType != png.ColorTruecolor {
		t.Errorf("Header = %+v", manifest.Header)
	}

	wantTypes := []string{"IHDR", "IDAT", "tEXt", "RuSt", "stSh", "IEND"}
	if len(manifest.Chunks) != len(wantTypes) {
		t.Fatalf("%d entries, want %d", len(manifest.Chunks), len(wantTypes))
	}
	offset := len(png.Signature)
	for index, entry := range manifest.Chunks {
		if entry.Index != index {
			t.Errorf("entry %d has Index %d", index, entry.Index)
		}
		if entry.Type.String() != wantTypes[index] {
			t.Errorf("entry %d type = %s, want %s", index, entry.Type, wantTypes[index])
		}
		if entry.Offset != offset {
			t.Errorf("entry %d offset = %d, want %d", index, entry.Offset, offset)
		}
		offset += int(entry.Length) + png.ChunkOverhead
	}
	if offset != manifest.Size {
		t.Errorf("offsets end at %d, file is %d bytes", offset, manifest.Size)
	}

	secret := manifest.Chunks[3]
	if secret.Length != 42 || secret.CRC != "abd1d84e" {
		t.Errorf("RuSt entry = length %d crc %s, want 42 abd1d84e", secret.Length, secret.CRC)
	}
	if !secret.Critical || secret.Public || !secret.ReservedValid || !secret.SafeToCopy {
		t.Errorf("RuSt flags = %s", secret.Flags())
	}
	if secret.Flags() != "CpRS" {
		t.Errorf("Flags() = %q, want CpRS", secret.Flags())
	}

	text := manifest.Chunks[2]
	if text.Text == nil || text.Text.Keyword != "Comment" || text.Text.Text != "hello" {
		t.Errorf("tEXt entry text = %+v", text.Text)
	}

	stash := manifest.Chunks[4]
	if stash.Envelope == nil || stash.Envelope.Size != len("hidden") || stash.Envelope.Seal != envelope.SealNone {
		t.Errorf("stSh entry envelope = %+v", stash.Envelope)
	}
	if manifest.Chunks[3].Envelope != nil {
		t.Error("plain message reported as an envelope")
	}
}

func TestBuildWithoutHeader(t *testing.T) {
	container := png.FromChunks([]png.Chunk{png.NewChunk(png.TypeIEND, nil)})
	manifest := Build(container)
	if manifest.Header != nil {
		t.Errorf("Header = %+v, want nil", manifest.Header)
	}
	if manifest.Chunks[0].Flags() != "CPRu" {
		t.Errorf("IEND flags = %q, want CPRu", manifest.Chunks[0].Flags())
	}
}

func TestDigest(t *testing.T) {
	first := Digest([]byte("a"))
	if len(first) != 2*digestLength {
		t.Errorf("digest length = %d, want %d", len(first), 2*digestLength)
	}
	if first == Digest([]byte("b")) {
		t.Error("different data, same digest")
	}
	if first != Digest([]byte("a")) {
		t.Error("Digest is not deterministic")
	}
}

func TestEncodeJSON(t *testing.T) {
	manifest := Build(buildFixture(t))
	var buffer bytes.Buffer
	if err := Encode(&buffer, manifest, FormatJSON); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded Manifest
	if err := json.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v\n%s", err, buffer.String())
	}
	if decoded.Chunks[3].Type.String() != "RuSt" {
		t.Errorf("decoded type = %s", decoded.Chunks[3].Type)
	}
	if !strings.Contains(buffer.String(), `"type": "RuSt"`) {
		t.Errorf("JSON does not render the type as a string:\n%s", buffer.String())
	}
}

func TestEncodeCBOR(t *testing.T) {
	manifest := Build(buildFixture(t))
	var first, second bytes.Buffer
	if err := Encode(&first, manifest, FormatCBOR); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := Encode(&second, manifest, FormatCBOR); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("CBOR encoding is not deterministic")
	}

	var decoded Manifest
	if err := codec.Unmarshal(first.Bytes(), &decoded); err != nil {
		t.Fatalf("codec.Unmarshal: %v", err)
	}
	if len(decoded.Chunks) != len(manifest.Chunks) || decoded.Chunks[3].Digest != manifest.Chunks[3].Digest {
		t.Errorf("CBOR round trip lost data: %+v", decoded.Chunks)
	}
}

func TestEncodeYAML(t *testing.T) {
	manifest := Build(buildFixture(t))
	var buffer bytes.Buffer
	if err := Encode(&buffer, manifest, FormatYAML); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded struct {
		Header struct {
			BitDepth int `yaml:"bit_depth"`
		} `yaml:"header"`
		Chunks []struct {
			Type string `yaml:"type"`
			CRC  string `yaml:"crc"`
		} `yaml:"chunks"`
	}
	if err := yaml.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal: %v\n%s", err, buffer.String())
	}
	if decoded.Header.BitDepth != 8 {
		t.Errorf("bit_depth = %d, want 8", decoded.Header.BitDepth)
	}
	if decoded.Chunks[3].Type != "RuSt" || decoded.Chunks[3].CRC != "abd1d84e" {
		t.Errorf("chunk 3 = %+v", decoded.Chunks[3])
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "cbor", "yaml"} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q): %v", name, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) succeeded")
	}
	if err := Encode(&bytes.Buffer{}, Manifest{}, Format("xml")); err == nil {
		t.Error("Encode(xml) succeeded")
	}
}
