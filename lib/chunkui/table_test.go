// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunkui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/pngstash/lib/envelope"
	"github.com/bureau-foundation/pngstash/lib/manifest"
	"github.com/bureau-foundation/pngstash/lib/png"
	"github.com/bureau-foundation/pngstash/lib/testutil"
)

// testContainer is the one-pixel image plus a tEXt comment and an
// unsealed envelope.
func testContainer(t *testing.T) *png.PNG {
	t.Helper()
	comment, err := png.NewTextChunk("Comment", "a long comment that will not fit in a narrow terminal", false)
	if err != nil {
		t.Fatalf("NewTextChunk: %v", err)
	}
	sealedMessage, err := envelope.Seal([]byte("hidden"), envelope.Options{Compression: envelope.CompressionNone})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	stash := png.NewChunk(png.MustParseChunkType("stSh"), sealedMessage)

	container, err := png.Parse(testutil.BuildPNG(t, comment, stash))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return container
}

func TestRenderTable(t *testing.T) {
	m := manifest.Build(testContainer(t))

	var output bytes.Buffer
	if err := RenderTable(&output, m, DefaultTheme, termenv.Ascii, 0); err != nil {
		t.Fatalf("RenderTable: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(output.String(), "\n"), "\n")
	if len(lines) != 2+len(m.Chunks) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), 2+len(m.Chunks), output.String())
	}
	if !strings.Contains(lines[0], "1x1 8-bit truecolor, 5 chunks") {
		t.Errorf("summary line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "OFFSET") || !strings.Contains(lines[1], "DETAIL") {
		t.Errorf("header line = %q", lines[1])
	}

	wants := []struct {
		line     int
		contains []string
	}{
		{2, []string{"IHDR", "CPRu", "907753de"}},
		{3, []string{"IDAT", "c9fe92ef"}},
		{4, []string{"tEXt", "aPRS", "Comment: a long comment"}},
		{5, []string{"stSh", "apRS", "envelope v1 seal=none compression=none size=6"}},
		{6, []string{"IEND", "ae426082"}},
	}
	for _, want := range wants {
		for _, fragment := range want.contains {
			if !strings.Contains(lines[want.line], fragment) {
				t.Errorf("line %d = %q, want it to contain %q", want.line, lines[want.line], fragment)
			}
		}
	}
}

func TestRenderTableWidth(t *testing.T) {
	m := manifest.Build(testContainer(t))

	const width = 60
	var output bytes.Buffer
	if err := RenderTable(&output, m, DefaultTheme, termenv.ANSI256, width); err != nil {
		t.Fatalf("RenderTable: %v", err)
	}
	// The summary line is not cut; every other line is.
	lines := strings.Split(strings.TrimSuffix(output.String(), "\n"), "\n")
	for index, line := range lines[1:] {
		if got := ansi.StringWidth(line); got > width {
			t.Errorf("line %d is %d cells wide, limit %d: %q", index+1, got, width, ansi.Strip(line))
		}
	}
	if !strings.Contains(output.String(), "…") {
		t.Error("expected the long comment to be truncated with an ellipsis")
	}
}

func TestSummary(t *testing.T) {
	container, err := png.Parse(testutil.OnePixelPNG())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := Summary(manifest.Build(container)), "1x1 8-bit truecolor, 3 chunks, 69 bytes"; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}

	headerless := png.FromChunks([]png.Chunk{png.NewChunk(png.TypeIEND, nil)})
	if got, want := Summary(manifest.Build(headerless)), "no image header, 1 chunk, 20 bytes"; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestDetailFlattensNewlines(t *testing.T) {
	chunk, err := png.NewTextChunk("Title", "first\nsecond", false)
	if err != nil {
		t.Fatal(err)
	}
	m := manifest.Build(png.FromChunks([]png.Chunk{chunk}))
	if got, want := Detail(m.Chunks[0]), "Title: first second"; got != want {
		t.Errorf("Detail = %q, want %q", got, want)
	}
}

func TestTypeColor(t *testing.T) {
	theme := DefaultTheme
	tests := []struct {
		name                            string
		critical, public, reservedValid bool
		want                            string
	}{
		{"critical", true, true, true, string(theme.Critical)},
		{"ancillary", false, true, true, string(theme.Ancillary)},
		{"private", false, false, true, string(theme.Private)},
		{"invalid wins", true, true, false, string(theme.Invalid)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := string(theme.TypeColor(test.critical, test.public, test.reservedValid)); got != test.want {
				t.Errorf("TypeColor = %s, want %s", got, test.want)
			}
		})
	}
}

func TestHighlightJSON(t *testing.T) {
	input := []byte(`{"type": "RuSt", "length": 42}`)
	var output bytes.Buffer
	if err := HighlightJSON(&output, input); err != nil {
		t.Fatalf("HighlightJSON: %v", err)
	}
	if !strings.Contains(output.String(), "\x1b[") {
		t.Error("expected ANSI escape sequences in highlighted output")
	}
	// The lexer may add a final newline.
	if got := strings.TrimSuffix(ansi.Strip(output.String()), "\n"); got != string(input) {
		t.Errorf("stripped output = %q, want %q", got, input)
	}
}
