// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunkui

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/pngstash/lib/manifest"
	"github.com/bureau-foundation/pngstash/lib/png"
)

// maxHexDump caps how much chunk data the detail view dumps. IDAT
// chunks can be megabytes.
const maxHexDump = 64 << 10

// renderDetail builds the detail view body for one chunk. With hexView
// set, or when the chunk has no decoded form, the data is hex dumped.
func renderDetail(entry manifest.Entry, chunk png.Chunk, hexView bool, width int) string {
	var builder strings.Builder
	field := func(name string, value any) {
		fmt.Fprintf(&builder, "%-10s %v\n", name, value)
	}

	field("Type", entry.Type)
	field("Index", entry.Index)
	field("Offset", entry.Offset)
	field("Length", entry.Length)
	field("CRC", entry.CRC)
	field("Digest", entry.Digest)
	field("Flags", entry.Flags()+" ("+describeFlags(entry)+")")
	builder.WriteByte('\n')

	decoded := ""
	if !hexView {
		decoded = decodedView(entry, chunk)
	}
	if decoded != "" {
		if width > 0 {
			decoded = ansi.Wrap(decoded, width, "")
		}
		builder.WriteString(decoded)
		return builder.String()
	}

	data := chunk.Data()
	if len(data) == 0 {
		builder.WriteString("(no data)\n")
		return builder.String()
	}
	shown := data[:min(len(data), maxHexDump)]
	builder.WriteString(hex.Dump(shown))
	if len(shown) < len(data) {
		fmt.Fprintf(&builder, "… %d more bytes\n", len(data)-len(shown))
	}
	return builder.String()
}

// decodedView returns the human-readable form of chunks this package
// understands, or "" for everything else.
func decodedView(entry manifest.Entry, chunk png.Chunk) string {
	switch {
	case entry.Envelope != nil:
		info := entry.Envelope
		return fmt.Sprintf("pngstash envelope\n\n%-12s %d\n%-12s %s\n%-12s %s\n%-12s %d bytes\n%-12s %d bytes\n",
			"Version", info.Version,
			"Seal", info.Seal,
			"Compression", info.Compression,
			"Message", info.Size,
			"Stored", info.Stored)

	case entry.Text != nil:
		text := entry.Text
		var builder strings.Builder
		fmt.Fprintf(&builder, "%-12s %s\n", "Keyword", text.Keyword)
		if text.Language != "" {
			fmt.Fprintf(&builder, "%-12s %s\n", "Language", text.Language)
		}
		if text.TranslatedKeyword != "" {
			fmt.Fprintf(&builder, "%-12s %s\n", "Translated", text.TranslatedKeyword)
		}
		if text.Compressed {
			fmt.Fprintf(&builder, "%-12s %s\n", "Stored", "deflate")
		}
		builder.WriteByte('\n')
		builder.WriteString(text.Text)
		builder.WriteByte('\n')
		return builder.String()

	case entry.Type == png.TypeIHDR:
		header, err := png.ParseHeader(chunk)
		if err != nil {
			return "invalid image header: " + err.Error() + "\n"
		}
		return fmt.Sprintf("%-12s %d\n%-12s %d\n%-12s %d\n%-12s %s\n%-12s %d\n",
			"Width", header.Width,
			"Height", header.Height,
			"Bit depth", header.BitDepth,
			"Color type", header.ColorType,
			"Interlace", header.Interlace)

	default:
		return ""
	}
}

func describeFlags(entry manifest.Entry) string {
	parts := make([]string, 0, 4)
	if entry.Critical {
		parts = append(parts, "critical")
	} else {
		parts = append(parts, "ancillary")
	}
	if entry.Public {
		parts = append(parts, "public")
	} else {
		parts = append(parts, "private")
	}
	if !entry.ReservedValid {
		parts = append(parts, "reserved bit set")
	}
	if entry.SafeToCopy {
		parts = append(parts, "safe to copy")
	} else {
		parts = append(parts, "unsafe to copy")
	}
	return strings.Join(parts, ", ")
}
