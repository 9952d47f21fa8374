// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunkui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/pngstash/lib/manifest"
)

// tableHeader labels the fixed columns. Column widths are fixed so the
// detail column starts at prefixWidth.
const (
	tableHeader = "  # OFFSET   TYPE FLAG   LENGTH CRC      DETAIL"
	prefixWidth = 41
)

// RenderTable writes a summary line, a column header and one line per
// chunk. Lines are cut to width display cells when width is positive.
// profile selects the color depth; termenv.Ascii produces plain text.
func RenderTable(w io.Writer, m manifest.Manifest, theme Theme, profile termenv.Profile, width int) error {
	renderer := newRenderer(w, profile)
	faint := renderer.NewStyle().Foreground(theme.FaintText)
	normal := renderer.NewStyle().Foreground(theme.NormalText)
	heading := renderer.NewStyle().Foreground(theme.HeaderForeground).Bold(true)

	var output strings.Builder
	output.WriteString(heading.Render(Summary(m)))
	output.WriteByte('\n')
	output.WriteString(faint.Render(cut(tableHeader, width)))
	output.WriteByte('\n')

	for _, entry := range m.Chunks {
		typeStyle := renderer.NewStyle().Foreground(theme.TypeColor(entry.Critical, entry.Public, entry.ReservedValid))
		output.WriteString(faint.Render(fmt.Sprintf("%3d %8d ", entry.Index, entry.Offset)))
		output.WriteString(typeStyle.Render(entry.Type.String()))
		output.WriteByte(' ')
		output.WriteString(faint.Render(entry.Flags()))
		output.WriteString(normal.Render(fmt.Sprintf(" %8d %s ", entry.Length, entry.CRC)))

		detail := Detail(entry)
		if width > 0 {
			detail = ansi.Truncate(detail, max(width-prefixWidth, 0), "…")
		}
		switch {
		case entry.Envelope != nil:
			output.WriteString(renderer.NewStyle().Foreground(theme.EnvelopeChunk).Render(detail))
		case entry.Text != nil:
			output.WriteString(renderer.NewStyle().Foreground(theme.TextChunk).Render(detail))
		default:
			output.WriteString(faint.Render(detail))
		}
		output.WriteByte('\n')
	}

	_, err := io.WriteString(w, output.String())
	return err
}

// Summary describes the whole file in one line.
func Summary(m manifest.Manifest) string {
	chunks := "chunks"
	if len(m.Chunks) == 1 {
		chunks = "chunk"
	}
	if m.Header == nil {
		return fmt.Sprintf("no image header, %d %s, %d bytes", len(m.Chunks), chunks, m.Size)
	}
	header := m.Header
	interlace := ""
	if header.Interlace == 1 {
		interlace = " interlaced"
	}
	return fmt.Sprintf("%dx%d %d-bit %s%s, %d %s, %d bytes",
		header.Width, header.Height, header.BitDepth, header.ColorType, interlace,
		len(m.Chunks), chunks, m.Size)
}

// Detail is the free-form last column: the text value of text chunks
// and the header of envelopes. Other chunks have no detail.
func Detail(entry manifest.Entry) string {
	switch {
	case entry.Envelope != nil:
		info := entry.Envelope
		return fmt.Sprintf("envelope v%d seal=%s compression=%s size=%d",
			info.Version, info.Seal, info.Compression, info.Size)
	case entry.Text != nil:
		// Newlines would break the one-line-per-chunk layout.
		return entry.Text.Keyword + ": " + strings.ReplaceAll(entry.Text.Text, "\n", " ")
	default:
		return ""
	}
}

// newRenderer forces the given profile. SetColorProfile is needed as
// well because lipgloss otherwise re-detects from the environment.
func newRenderer(w io.Writer, profile termenv.Profile) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	return renderer
}

func cut(line string, width int) string {
	if width <= 0 {
		return line
	}
	return ansi.Truncate(line, width, "")
}
