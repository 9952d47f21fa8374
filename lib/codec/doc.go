// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds pngstash's single CBOR configuration.
//
// CBOR is used in two places: the header of a sealed payload envelope
// (lib/envelope) and the binary form of a chunk manifest
// (lib/manifest, `pngstash inspect --format cbor`). Both go through
// this package so the same logical value always produces the same
// bytes. The encoder uses Core Deterministic Encoding (RFC 8949 §4.2).
//
//	data, err := codec.Marshal(value)
//	rest, err := codec.UnmarshalFirst(data, &value)
//
// Types that implement encoding.TextMarshaler, such as png.ChunkType,
// are written as CBOR text strings.
//
// Struct tags follow one rule: `cbor` tags mark types that are only
// ever CBOR (the envelope header), `json` tags mark types that are
// written as JSON, YAML and CBOR alike (the manifest). fxamacker/cbor
// reads `json` tags when no `cbor` tag is present.
package codec
