// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest describes the chunk layout of a PNG: where each
// chunk sits, what its type code's property bits say, and a short
// BLAKE3 digest of its data so two files can be compared chunk by
// chunk without dumping payloads.
//
// A [Manifest] is plain data. It encodes to JSON, deterministic CBOR
// (lib/codec) or YAML with [Encode].
package manifest
