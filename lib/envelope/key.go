// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package envelope

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/bureau-foundation/pngstash/lib/secret"
)

// KeySize is the length of a shared envelope key.
const KeySize = 32

// hkdfInfo separates envelope keys from any other use of the same
// shared key. Changing it invalidates every "key"-sealed envelope.
var hkdfInfo = []byte("pngstash.envelope.key.v1")

// GenerateKey returns a new random shared key.
func GenerateKey() (*secret.Buffer, error) {
	raw := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	return secret.NewFromBytes(raw)
}

// EncodeKey renders a shared key as the 64 hex digits stored in key
// files. The result is a heap copy.
func EncodeKey(key *secret.Buffer) []byte {
	encoded := make([]byte, hex.EncodedLen(key.Len()))
	hex.Encode(encoded, key.Bytes())
	return encoded
}

// DecodeKey parses the hex contents of a key file (as returned by
// secret.ReadKeyFile) into a KeySize-byte key.
func DecodeKey(encoded *secret.Buffer) (*secret.Buffer, error) {
	if hex.DecodedLen(encoded.Len()) != KeySize {
		return nil, fmt.Errorf("key file must hold %d hex digits, found %d characters", 2*KeySize, encoded.Len())
	}
	raw := make([]byte, KeySize)
	if _, err := hex.Decode(raw, encoded.Bytes()); err != nil {
		secret.Zero(raw)
		return nil, fmt.Errorf("decoding key: %w", err)
	}
	return secret.NewFromBytes(raw)
}

func deriveKey(shared *secret.Buffer) (*secret.Buffer, error) {
	if shared.Len() != KeySize {
		return nil, fmt.Errorf("shared key must be %d bytes, got %d", KeySize, shared.Len())
	}
	reader := hkdf.New(sha256.New, shared.Bytes(), nil, hkdfInfo)
	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, derived); err != nil {
		secret.Zero(derived)
		return nil, fmt.Errorf("deriving envelope key: %w", err)
	}
	return secret.NewFromBytes(derived)
}

// associatedData binds the header fields that shape the plaintext into
// the AEAD tag.
func associatedData(version int, compression Compression, size int) []byte {
	aad := make([]byte, 0, len(Magic)+16+len(compression))
	aad = append(aad, Magic...)
	aad = binary.BigEndian.AppendUint32(aad, uint32(version))
	aad = binary.BigEndian.AppendUint64(aad, uint64(size))
	return append(aad, compression...)
}

// sealWithKey encrypts plaintext as nonce ++ ciphertext ++ tag.
func sealWithKey(plaintext []byte, shared *secret.Buffer, aad []byte) ([]byte, error) {
	key, err := deriveKey(shared)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	aead, err := chacha20poly1305.NewX(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("creating XChaCha20-Poly1305 cipher: %w", err)
	}

	output := make([]byte, chacha20poly1305.NonceSizeX, chacha20poly1305.NonceSizeX+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, output); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return aead.Seal(output, output[:chacha20poly1305.NonceSizeX], plaintext, aad), nil
}

func openWithKey(sealed []byte, shared *secret.Buffer, aad []byte) ([]byte, error) {
	if len(sealed) < chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("sealed payload is %d bytes, shorter than nonce and tag", len(sealed))
	}
	key, err := deriveKey(shared)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	aead, err := chacha20poly1305.NewX(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("creating XChaCha20-Poly1305 cipher: %w", err)
	}
	nonce := sealed[:chacha20poly1305.NonceSizeX]
	plaintext, err := aead.Open(nil, nonce, sealed[chacha20poly1305.NonceSizeX:], aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return plaintext, nil
}
