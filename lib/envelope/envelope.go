// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package envelope

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/pngstash/lib/codec"
	"github.com/bureau-foundation/pngstash/lib/sealed"
	"github.com/bureau-foundation/pngstash/lib/secret"
)

// Magic opens every envelope.
const Magic = "pSe\x01"

// Version is the header format version written by Seal.
const Version = 1

// MaxPayloadSize bounds the plaintext size Open will allocate.
const MaxPayloadSize = 64 << 20

// SealMethod names how the payload is encrypted.
type SealMethod string

const (
	SealNone SealMethod = "none"
	SealAge  SealMethod = "age"
	SealKey  SealMethod = "key"
)

var (
	// ErrNotEnvelope is returned by Open and Describe for data that
	// does not start with Magic or whose header does not decode.
	ErrNotEnvelope = errors.New("not a pngstash envelope")

	// ErrNoKey is returned by Open when the envelope is sealed and the
	// matching kind of key was not supplied.
	ErrNoKey = errors.New("envelope is sealed and no key was supplied")

	// ErrDigestMismatch is returned by Open when the recovered
	// plaintext does not hash to the recorded digest.
	ErrDigestMismatch = errors.New("envelope digest mismatch")

	// ErrAuthentication is returned by Open when a "key" envelope
	// fails AEAD authentication: wrong key or modified bytes.
	ErrAuthentication = errors.New("envelope authentication failed")
)

// digestKey is the BLAKE3 key for plaintext digests: the ASCII domain
// name, zero-padded to 32 bytes.
var digestKey = [32]byte{
	'p', 'n', 'g', 's', 't', 'a', 's', 'h', '.', 'e', 'n', 'v', 'e', 'l', 'o', 'p',
	'e', '.', 'd', 'i', 'g', 'e', 's', 't',
}

// header is the CBOR map following Magic.
type header struct {
	Version     int         `cbor:"v"`
	Compression Compression `cbor:"compression"`
	Seal        SealMethod  `cbor:"seal"`
	Size        int         `cbor:"size"`
	Digest      []byte      `cbor:"digest"`
	Payload     []byte      `cbor:"payload"`
}

// Options controls Seal. At most one of Recipients and Key may be set;
// with neither, the payload is only compressed.
type Options struct {
	Compression Compression

	// Recipients are age1... public keys.
	Recipients []string

	// Key is a KeySize-byte shared key. It is borrowed, not closed.
	Key *secret.Buffer
}

// Keys holds whatever key material the caller has for Open. Both
// buffers are borrowed and may be nil.
type Keys struct {
	// Identities is the contents of an age identity file.
	Identities *secret.Buffer

	// Key is a KeySize-byte shared key.
	Key *secret.Buffer
}

// Info describes an envelope without opening it.
type Info struct {
	Version     int         `json:"version" yaml:"version"`
	Compression Compression `json:"compression" yaml:"compression"`
	Seal        SealMethod  `json:"seal" yaml:"seal"`
	Size        int         `json:"size" yaml:"size"`
	Stored      int         `json:"stored" yaml:"stored"`
}

// IsEnvelope reports whether data starts with Magic.
func IsEnvelope(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

// Seal wraps plaintext according to options.
func Seal(plaintext []byte, options Options) ([]byte, error) {
	if len(plaintext) > MaxPayloadSize {
		return nil, fmt.Errorf("message is %d bytes, limit is %d", len(plaintext), MaxPayloadSize)
	}
	if len(options.Recipients) > 0 && options.Key != nil {
		return nil, fmt.Errorf("recipients and a shared key are mutually exclusive")
	}

	algorithm := options.Compression
	if algorithm == "" {
		algorithm = CompressionNone
	}
	payload, err := compress(plaintext, algorithm)
	if errors.Is(err, errIncompressible) {
		payload, algorithm = plaintext, CompressionNone
	} else if err != nil {
		return nil, err
	}

	digest := Digest(plaintext)
	envelope := header{
		Version:     Version,
		Compression: algorithm,
		Seal:        SealNone,
		Size:        len(plaintext),
		Digest:      digest[:],
	}

	switch {
	case len(options.Recipients) > 0:
		envelope.Seal = SealAge
		payload, err = sealed.Encrypt(payload, options.Recipients)
		if err != nil {
			return nil, fmt.Errorf("sealing to recipients: %w", err)
		}
	case options.Key != nil:
		envelope.Seal = SealKey
		payload, err = sealWithKey(payload, options.Key, associatedData(Version, algorithm, len(plaintext)))
		if err != nil {
			return nil, fmt.Errorf("sealing with shared key: %w", err)
		}
	}
	envelope.Payload = payload

	encoded, err := codec.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encoding envelope header: %w", err)
	}
	return append([]byte(Magic), encoded...), nil
}

// Open unwraps an envelope produced by Seal.
func Open(data []byte, keys Keys) ([]byte, error) {
	envelope, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	payload := envelope.Payload
	switch envelope.Seal {
	case SealNone:
	case SealAge:
		if keys.Identities == nil {
			return nil, fmt.Errorf("age: %w", ErrNoKey)
		}
		payload, err = sealed.Decrypt(payload, keys.Identities, MaxPayloadSize)
		if err != nil {
			return nil, err
		}
	case SealKey:
		if keys.Key == nil {
			return nil, fmt.Errorf("shared key: %w", ErrNoKey)
		}
		payload, err = openWithKey(payload, keys.Key, associatedData(envelope.Version, envelope.Compression, envelope.Size))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported seal method %q", envelope.Seal)
	}

	plaintext, err := decompress(payload, envelope.Compression, envelope.Size)
	if err != nil {
		return nil, err
	}
	digest := Digest(plaintext)
	if !bytes.Equal(digest[:], envelope.Digest) {
		return nil, ErrDigestMismatch
	}
	return plaintext, nil
}

// Describe reads the header of an envelope.
func Describe(data []byte) (Info, error) {
	envelope, err := decodeHeader(data)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Version:     envelope.Version,
		Compression: envelope.Compression,
		Seal:        envelope.Seal,
		Size:        envelope.Size,
		Stored:      len(data),
	}, nil
}

// Digest is the BLAKE3 keyed hash recorded in envelope headers.
func Digest(plaintext []byte) [32]byte {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("envelope: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(plaintext)
	var digest [32]byte
	copy(digest[:], hasher.Sum(nil))
	return digest
}

func decodeHeader(data []byte) (header, error) {
	if !IsEnvelope(data) {
		return header{}, ErrNotEnvelope
	}
	var envelope header
	rest, err := codec.UnmarshalFirst(data[len(Magic):], &envelope)
	if err != nil {
		return header{}, fmt.Errorf("%w: %w", ErrNotEnvelope, err)
	}
	if len(rest) != 0 {
		return header{}, fmt.Errorf("%w: %d trailing bytes after header", ErrNotEnvelope, len(rest))
	}
	if envelope.Version != Version {
		return header{}, fmt.Errorf("envelope version %d is not supported", envelope.Version)
	}
	if envelope.Size < 0 || envelope.Size > MaxPayloadSize {
		return header{}, fmt.Errorf("envelope size %d outside 0-%d", envelope.Size, MaxPayloadSize)
	}
	if len(envelope.Digest) != 32 {
		return header{}, fmt.Errorf("envelope digest is %d bytes, want 32", len(envelope.Digest))
	}
	return envelope, nil
}
