// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package envelope wraps a hidden message before it is stored as a
// chunk payload, and unwraps it on the way out.
//
// An envelope is the 4-byte [Magic] followed by one CBOR map:
//
//	v           format version (1)
//	compression "none", "lz4" or "zstd"
//	seal        "none", "age" or "key"
//	size        plaintext length in bytes
//	digest      32-byte BLAKE3 keyed hash of the plaintext
//	payload     compressed, then sealed, message bytes
//
// [Seal] compresses first and encrypts second, so compression sees
// plaintext. "age" seals to X25519 recipients through lib/sealed.
// "key" seals with XChaCha20-Poly1305 under a key derived by
// HKDF-SHA256 from a 32-byte shared key; the 24-byte nonce leads the
// payload and the header fields are bound in as associated data.
//
// [Open] reverses the steps and then checks the plaintext length and
// digest, so a tampered or mis-keyed envelope never yields silently
// wrong bytes. Payloads that do not start with the magic are plain
// messages; callers test with [IsEnvelope] and use the bytes as-is.
package envelope
