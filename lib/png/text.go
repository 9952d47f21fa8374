// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package png

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
)

// Text chunk limits from the PNG specification, plus a cap on inflated
// text so a hostile zTXt cannot expand without bound.
const (
	maxKeywordLength = 79

	// MaxInflatedText is the largest decompressed zTXt/iTXt payload
	// [ParseText] will produce.
	MaxInflatedText = 16 << 20

	compressionMethodDeflate = 0
)

// ErrNotText is returned by [ParseText] for chunks that are not tEXt,
// zTXt or iTXt.
var ErrNotText = errors.New("not a text chunk")

// TextEntry is the decoded content of a tEXt, zTXt or iTXt chunk.
type TextEntry struct {
	// Type is the chunk type the entry came from.
	Type ChunkType `json:"type" yaml:"type"`

	// Keyword names the entry ("Title", "Author", "Comment", ...).
	Keyword string `json:"keyword" yaml:"keyword"`

	// Text is the entry value, decompressed. tEXt and zTXt values are
	// Latin-1 and are widened to runes; iTXt values are UTF-8.
	Text string `json:"text" yaml:"text"`

	// Compressed reports whether the value was stored deflated.
	Compressed bool `json:"compressed" yaml:"compressed"`

	// Language and TranslatedKeyword are only present in iTXt.
	Language          string `json:"language,omitempty" yaml:"language,omitempty"`
	TranslatedKeyword string `json:"translated_keyword,omitempty" yaml:"translated_keyword,omitempty"`
}

// IsTextType reports whether t is one of the three text chunk types.
func IsTextType(t ChunkType) bool {
	return t == TypeTEXT || t == TypeZTXT || t == TypeITXT
}

// ParseText decodes a tEXt, zTXt or iTXt chunk.
func ParseText(chunk Chunk) (TextEntry, error) {
	if !IsTextType(chunk.chunkType) {
		return TextEntry{}, fmt.Errorf("%s: %w", chunk.chunkType, ErrNotText)
	}

	data := chunk.data
	entry := TextEntry{Type: chunk.chunkType}

	separator := bytes.IndexByte(data, 0)
	if separator < 0 {
		return TextEntry{}, fmt.Errorf("%s: missing keyword terminator", chunk.chunkType)
	}
	if separator == 0 || separator > maxKeywordLength {
		return TextEntry{}, fmt.Errorf("%s: keyword length %d outside 1-%d", chunk.chunkType, separator, maxKeywordLength)
	}
	entry.Keyword = latin1(data[:separator])
	rest := data[separator+1:]

	switch chunk.chunkType {
	case TypeTEXT:
		entry.Text = latin1(rest)

	case TypeZTXT:
		if len(rest) < 1 {
			return TextEntry{}, fmt.Errorf("zTXt %q: missing compression method", entry.Keyword)
		}
		if rest[0] != compressionMethodDeflate {
			return TextEntry{}, fmt.Errorf("zTXt %q: unsupported compression method %d", entry.Keyword, rest[0])
		}
		inflated, err := inflate(rest[1:])
		if err != nil {
			return TextEntry{}, fmt.Errorf("zTXt %q: %w", entry.Keyword, err)
		}
		entry.Text = latin1(inflated)
		entry.Compressed = true

	case TypeITXT:
		if len(rest) < 2 {
			return TextEntry{}, fmt.Errorf("iTXt %q: missing compression fields", entry.Keyword)
		}
		compressed := rest[0] == 1
		if compressed && rest[1] != compressionMethodDeflate {
			return TextEntry{}, fmt.Errorf("iTXt %q: unsupported compression method %d", entry.Keyword, rest[1])
		}
		rest = rest[2:]

		language, rest, ok := bytes.Cut(rest, []byte{0})
		if !ok {
			return TextEntry{}, fmt.Errorf("iTXt %q: missing language tag terminator", entry.Keyword)
		}
		translated, rest, ok := bytes.Cut(rest, []byte{0})
		if !ok {
			return TextEntry{}, fmt.Errorf("iTXt %q: missing translated keyword terminator", entry.Keyword)
		}

		text := rest
		if compressed {
			inflated, err := inflate(rest)
			if err != nil {
				return TextEntry{}, fmt.Errorf("iTXt %q: %w", entry.Keyword, err)
			}
			text = inflated
		}
		if !utf8.Valid(text) || !utf8.Valid(translated) {
			return TextEntry{}, fmt.Errorf("iTXt %q: text is not valid UTF-8", entry.Keyword)
		}

		entry.Language = string(language)
		entry.TranslatedKeyword = string(translated)
		entry.Text = string(text)
		entry.Compressed = compressed
	}

	return entry, nil
}

// NewTextChunk builds a tEXt chunk, or a zTXt chunk when compressed is
// true. Keyword and text must be representable in Latin-1 and the
// keyword must be 1-79 bytes without NUL.
func NewTextChunk(keyword, text string, compressed bool) (Chunk, error) {
	encodedKeyword, err := encodeLatin1(keyword)
	if err != nil {
		return Chunk{}, fmt.Errorf("keyword: %w", err)
	}
	if len(encodedKeyword) == 0 || len(encodedKeyword) > maxKeywordLength {
		return Chunk{}, fmt.Errorf("keyword length %d outside 1-%d", len(encodedKeyword), maxKeywordLength)
	}
	if bytes.IndexByte(encodedKeyword, 0) >= 0 {
		return Chunk{}, fmt.Errorf("keyword contains a NUL byte")
	}
	encodedText, err := encodeLatin1(text)
	if err != nil {
		return Chunk{}, fmt.Errorf("text: %w", err)
	}

	payload := append(encodedKeyword, 0)
	if !compressed {
		return NewChunk(TypeTEXT, append(payload, encodedText...)), nil
	}

	payload = append(payload, compressionMethodDeflate)
	var deflated bytes.Buffer
	writer := zlib.NewWriter(&deflated)
	if _, err := writer.Write(encodedText); err != nil {
		return Chunk{}, fmt.Errorf("compressing text: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Chunk{}, fmt.Errorf("finishing compressed text: %w", err)
	}
	return NewChunk(TypeZTXT, append(payload, deflated.Bytes()...)), nil
}

// inflate decompresses a zlib stream, refusing output larger than
// MaxInflatedText.
func inflate(compressed []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("opening zlib stream: %w", err)
	}
	defer reader.Close()

	inflated, err := io.ReadAll(io.LimitReader(reader, MaxInflatedText+1))
	if err != nil {
		return nil, fmt.Errorf("inflating: %w", err)
	}
	if len(inflated) > MaxInflatedText {
		return nil, fmt.Errorf("inflated text exceeds %d bytes", MaxInflatedText)
	}
	return inflated, nil
}

func latin1(data []byte) string {
	runes := make([]rune, len(data))
	for index, value := range data {
		runes[index] = rune(value)
	}
	return string(runes)
}

func encodeLatin1(text string) ([]byte, error) {
	encoded := make([]byte, 0, len(text))
	for _, r := range text {
		if r > 0xFF {
			return nil, fmt.Errorf("character %q is not representable in Latin-1", r)
		}
		encoded = append(encoded, byte(r))
	}
	return encoded, nil
}
