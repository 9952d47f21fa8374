// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed is the age layer under lib/envelope. It generates
// x25519 identities, encrypts a payload to one or more age1...
// recipients and decrypts it with an identity file's contents.
//
// Ciphertext is the binary age format; it goes into an envelope's
// CBOR payload field as a byte string, so no armoring is applied.
// Identities are read from and returned in [secret.Buffer] values.
package sealed
