// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package png

import (
	"errors"
	"testing"
)

func TestChunkTypeFromBytes(t *testing.T) {
	raw := [4]byte{82, 117, 83, 116}
	chunkType := ChunkTypeFromBytes(raw)
	if chunkType.Bytes() != raw {
		t.Errorf("Bytes() = %v, want %v", chunkType.Bytes(), raw)
	}

	// Non-letter bytes are stored verbatim.
	odd := ChunkTypeFromBytes([4]byte{0x00, '1', 0xff, 'a'})
	if odd.Bytes() != [4]byte{0x00, '1', 0xff, 'a'} {
		t.Errorf("raw bytes not preserved: %v", odd.Bytes())
	}
	if odd.IsValid() {
		t.Error("non-letter chunk type reported valid")
	}
}

func TestParseChunkType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ChunkType
		wantErr error
	}{
		{name: "mixed case", input: "RuSt", want: ChunkType{82, 117, 83, 116}},
		{name: "standard", input: "IEND", want: TypeIEND},
		{name: "too short", input: "Rst", wantErr: ErrInvalidFormat},
		{name: "too long", input: "RuStY", wantErr: ErrInvalidFormat},
		{name: "empty", input: "", wantErr: ErrInvalidFormat},
		{name: "digit", input: "Ru1t", wantErr: ErrInvalidCharacter},
		{name: "space", input: "Ru t", wantErr: ErrInvalidCharacter},
		{name: "bracket between cases", input: "Ru[t", wantErr: ErrInvalidCharacter},
		{name: "multibyte", input: "Rüs", wantErr: ErrInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChunkType(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseChunkType(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChunkType(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseChunkType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseChunkTypeInvalidCharacterDetail(t *testing.T) {
	_, err := ParseChunkType("ab9d")
	var characterError *InvalidCharacterError
	if !errors.As(err, &characterError) {
		t.Fatalf("error %v is not an *InvalidCharacterError", err)
	}
	if characterError.Index != 2 || characterError.Byte != '9' {
		t.Errorf("detail = index %d byte %q, want index 2 byte '9'", characterError.Index, characterError.Byte)
	}
}

func TestChunkTypeStringRoundTrip(t *testing.T) {
	for _, text := range []string{"RuSt", "IHDR", "tEXt", "abcd", "ZZZZ", "zTXt", "Rust"} {
		chunkType, err := ParseChunkType(text)
		if err != nil {
			t.Fatalf("ParseChunkType(%q): %v", text, err)
		}
		if got := chunkType.String(); got != text {
			t.Errorf("String() = %q, want %q", got, text)
		}
	}
}

func TestChunkTypeStringWidensBytes(t *testing.T) {
	chunkType := ChunkTypeFromBytes([4]byte{'a', 0xe9, 'c', 'd'})
	if got := chunkType.String(); got != "aécd" {
		t.Errorf("String() = %q, want %q", got, "aécd")
	}
}

func TestChunkTypeProperties(t *testing.T) {
	tests := []struct {
		input         string
		critical      bool
		public        bool
		reservedValid bool
		safeToCopy    bool
		valid         bool
	}{
		{input: "RuSt", critical: true, public: false, reservedValid: true, safeToCopy: true, valid: true},
		{input: "Rust", critical: true, public: false, reservedValid: false, safeToCopy: true, valid: false},
		{input: "IHDR", critical: true, public: true, reservedValid: true, safeToCopy: false, valid: true},
		{input: "tEXt", critical: false, public: true, reservedValid: true, safeToCopy: true, valid: true},
		{input: "ruSt", critical: false, public: false, reservedValid: true, safeToCopy: true, valid: true},
		{input: "RUST", critical: true, public: true, reservedValid: true, safeToCopy: false, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			chunkType := MustParseChunkType(tt.input)
			if got := chunkType.IsCritical(); got != tt.critical {
				t.Errorf("IsCritical() = %v, want %v", got, tt.critical)
			}
			if got := chunkType.IsPublic(); got != tt.public {
				t.Errorf("IsPublic() = %v, want %v", got, tt.public)
			}
			if got := chunkType.IsReservedBitValid(); got != tt.reservedValid {
				t.Errorf("IsReservedBitValid() = %v, want %v", got, tt.reservedValid)
			}
			if got := chunkType.IsSafeToCopy(); got != tt.safeToCopy {
				t.Errorf("IsSafeToCopy() = %v, want %v", got, tt.safeToCopy)
			}
			if got := chunkType.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestChunkTypeEquality(t *testing.T) {
	first := MustParseChunkType("RuSt")
	second := ChunkTypeFromBytes([4]byte{82, 117, 83, 116})
	if first != second {
		t.Error("equal byte sequences compare unequal")
	}
	if first == MustParseChunkType("Rust") {
		t.Error("different byte sequences compare equal")
	}
}

func TestChunkTypeText(t *testing.T) {
	var chunkType ChunkType
	if err := chunkType.UnmarshalText([]byte("prVt")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	text, err := chunkType.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(text) != "prVt" {
		t.Errorf("MarshalText = %q, want %q", text, "prVt")
	}

	if err := chunkType.UnmarshalText([]byte("pr-t")); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("UnmarshalText(pr-t) error = %v, want ErrInvalidCharacter", err)
	}
}
