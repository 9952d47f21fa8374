// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/pngstash/lib/codec"
)

// Format selects a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name from the command line.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatJSON, FormatCBOR, FormatYAML:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown manifest format %q (want json, cbor or yaml)", name)
	}
}

// Encode writes manifest to w in the given format. JSON is indented
// and newline-terminated; CBOR uses Core Deterministic Encoding.
func Encode(w io.Writer, manifest Manifest, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(manifest)

	case FormatCBOR:
		return codec.NewEncoder(w).Encode(manifest)

	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(manifest); err != nil {
			return err
		}
		return encoder.Close()

	default:
		return fmt.Errorf("unknown manifest format %q", format)
	}
}
