// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/pngstash/lib/png"
)

// onePixelHex is a 1x1 8-bit truecolor image.
const onePixelHex = "89504e470d0a1a0a" +
	"0000000d4948445200000001000000010802000000907753de" +
	"0000000c49444154789c63f8cfc0000003010100c9fe92ef" +
	"0000000049454e44ae426082"

// OnePixelPNG returns a fresh copy of a minimal valid PNG file.
func OnePixelPNG() []byte {
	data, err := hex.DecodeString(onePixelHex)
	if err != nil {
		panic("testutil: fixture hex is malformed: " + err.Error())
	}
	return data
}

// BuildPNG returns the one-pixel PNG with extra inserted before IEND,
// in order.
func BuildPNG(t testing.TB, extra ...png.Chunk) []byte {
	t.Helper()
	container, err := png.Parse(OnePixelPNG())
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	for _, chunk := range extra {
		container.Append(chunk)
	}
	return container.Bytes()
}

// WritePNG writes data to name inside a fresh temporary directory and
// returns the path.
func WritePNG(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// ReadPNG reads and parses the file at path.
func ReadPNG(t testing.TB, path string) *png.PNG {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	container, err := png.Parse(data)
	if err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return container
}
