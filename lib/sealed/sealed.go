// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"filippo.io/age"

	"github.com/bureau-foundation/pngstash/lib/secret"
)

// ErrNoMatchingIdentity is returned by [Decrypt] when none of the
// supplied identities is a recipient of the ciphertext.
var ErrNoMatchingIdentity = errors.New("no identity matches any recipient")

// Keypair is a freshly generated x25519 identity. Close releases the
// private key.
type Keypair struct {
	// PrivateKey holds the AGE-SECRET-KEY-1... line.
	PrivateKey *secret.Buffer

	// PublicKey is the age1... recipient string.
	PublicKey string
}

// Close releases the private key. Safe to call more than once.
func (k *Keypair) Close() error {
	if k.PrivateKey != nil {
		return k.PrivateKey.Close()
	}
	return nil
}

// IdentityFile renders the keypair in the layout age-keygen writes:
// two comment lines followed by the secret key. The result is a heap
// copy and should be written out and discarded promptly.
func (k *Keypair) IdentityFile(created time.Time) []byte {
	var buffer bytes.Buffer
	fmt.Fprintf(&buffer, "# created: %s\n", created.UTC().Format(time.RFC3339))
	fmt.Fprintf(&buffer, "# public key: %s\n", k.PublicKey)
	buffer.Write(k.PrivateKey.Bytes())
	buffer.WriteByte('\n')
	return buffer.Bytes()
}

// GenerateKeypair creates a new x25519 identity.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age keypair: %w", err)
	}
	privateKey, err := secret.NewFromBytes([]byte(identity.String()))
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	return &Keypair{
		PrivateKey: privateKey,
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// Encrypt encrypts plaintext to every recipient in recipientKeys
// (age1... strings). At least one recipient is required.
func Encrypt(plaintext []byte, recipientKeys []string) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// Decrypt opens ciphertext with any of the identities in identities,
// which holds one AGE-SECRET-KEY-1... line per identity (the output of
// secret.ReadKeyFile). maxSize bounds the plaintext.
func Decrypt(ciphertext []byte, identities *secret.Buffer, maxSize int64) ([]byte, error) {
	parsed, err := age.ParseIdentities(strings.NewReader(identities.String()))
	if err != nil {
		return nil, fmt.Errorf("parsing identities: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(ciphertext), parsed...)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, fmt.Errorf("decrypting: %w", ErrNoMatchingIdentity)
		}
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	plaintext, err := io.ReadAll(io.LimitReader(reader, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading decrypted payload: %w", err)
	}
	if int64(len(plaintext)) > maxSize {
		return nil, fmt.Errorf("decrypted payload exceeds %d bytes", maxSize)
	}
	return plaintext, nil
}

// ParsePublicKey validates an age1... recipient string.
func ParsePublicKey(publicKey string) error {
	if _, err := age.ParseX25519Recipient(publicKey); err != nil {
		return fmt.Errorf("invalid age public key: %w", err)
	}
	return nil
}

// PublicKeys returns the recipient string for every x25519 identity in
// identities, in file order.
func PublicKeys(identities *secret.Buffer) ([]string, error) {
	parsed, err := age.ParseIdentities(strings.NewReader(identities.String()))
	if err != nil {
		return nil, fmt.Errorf("parsing identities: %w", err)
	}
	var keys []string
	for _, identity := range parsed {
		if x25519, ok := identity.(*age.X25519Identity); ok {
			keys = append(keys, x25519.Recipient().String())
		}
	}
	return keys, nil
}
