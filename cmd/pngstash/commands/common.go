// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/config"
	"github.com/bureau-foundation/pngstash/lib/envelope"
	"github.com/bureau-foundation/pngstash/lib/png"
	"github.com/bureau-foundation/pngstash/lib/pngfile"
	"github.com/bureau-foundation/pngstash/lib/secret"
)

// Streams are the standard streams commands read and write. Tests
// substitute buffers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StandardStreams returns the process's stdin, stdout and stderr.
func StandardStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// globalParams are embedded in every command's params.
type globalParams struct {
	Config  string `flag:"config" desc:"configuration file (default: $PNGSTASH_CONFIG)"`
	Verbose bool   `flag:"verbose,v" desc:"log debug detail to stderr"`
}

// loadConfig reads --config, else $PNGSTASH_CONFIG, else returns the
// defaults.
func (g globalParams) loadConfig() (*config.Config, error) {
	path := g.Config
	if path == "" {
		path = os.Getenv(config.EnvironmentVariable)
	}
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, cli.Validation("loading configuration: %w", err)
	}
	return cfg, nil
}

// lockParams are embedded by commands that rewrite the image.
type lockParams struct {
	Wait time.Duration `flag:"wait" default:"10s" desc:"how long to wait for another pngstash writing the same file"`
}

func (l lockParams) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.Wait <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, l.Wait)
}

// keyParams name the key material for opening sealed messages.
type keyParams struct {
	IdentityFile string `flag:"identity,i" desc:"age identity file for sealed messages (\"-\" for stdin)"`
	KeyFile      string `flag:"key-file" desc:"shared key file for sealed messages"`
}

// readImage loads and parses path, classifying the failure.
func readImage(path string) (*png.PNG, error) {
	container, err := pngfile.Read(path)
	if err != nil {
		return nil, classifyFileError(path, err)
	}
	return container, nil
}

// editImage is pngfile.Edit with the lock wait applied and errors
// classified. Errors returned by modify pass through unchanged.
func editImage(ctx context.Context, lock lockParams, source, destination string, modify func(*png.PNG) error) error {
	ctx, cancel := lock.context(ctx)
	defer cancel()

	var modifyErr error
	err := pngfile.Edit(ctx, source, destination, func(container *png.PNG) error {
		modifyErr = modify(container)
		return modifyErr
	})
	if err == nil || (modifyErr != nil && errors.Is(err, modifyErr)) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return cli.Internal("%s is locked by another writer: %w", source, err).
			WithHint("Another pngstash is editing this file. Retry, or raise --wait.")
	}
	return classifyFileError(source, err)
}

func classifyFileError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cli.NotFound("%s: no such file", path)
	case errors.Is(err, png.ErrBadSignature):
		return cli.Validation("%s: %w", path, png.ErrBadSignature).
			WithHint("pngstash only reads PNG files.")
	default:
		return err
	}
}

// parseLookupType parses a chunk type named on the command line. Codes
// with the reserved bit set are accepted because they may already be
// in a file.
func parseLookupType(name string) (png.ChunkType, error) {
	chunkType, err := png.ParseChunkType(name)
	if err != nil {
		return png.ChunkType{}, cli.Validation("chunk type %q: %w", name, err)
	}
	return chunkType, nil
}

// keyring loads decode key material on first use, so commands only read
// key files when they meet a sealed envelope.
type keyring struct {
	identityFile string
	keyFile      string
	keys         envelope.Keys
}

func newKeyring(params keyParams, cfg *config.Config) *keyring {
	ring := &keyring{identityFile: params.IdentityFile, keyFile: params.KeyFile}
	if ring.identityFile == "" {
		ring.identityFile = cfg.Decode.IdentityFile
	}
	if ring.keyFile == "" {
		ring.keyFile = cfg.Decode.KeyFile
	}
	return ring
}

// open returns the message held in a chunk payload: the plaintext of
// an envelope, or the payload itself. A raw message that merely starts
// with the envelope magic has no decodable header and is returned
// as is.
func (ring *keyring) open(payload []byte) ([]byte, error) {
	if !envelope.IsEnvelope(payload) {
		return payload, nil
	}
	info, err := envelope.Describe(payload)
	if err != nil {
		return payload, nil
	}
	if err := ring.load(info.Seal); err != nil {
		return nil, err
	}
	plaintext, err := envelope.Open(payload, ring.keys)
	if errors.Is(err, envelope.ErrNoKey) {
		return nil, cli.Validation("message is sealed (%s): %w", info.Seal, err).
			WithHint("Pass --identity or --key-file, or set decode.identity_file or decode.key_file in the config.")
	}
	return plaintext, err
}

func (ring *keyring) load(seal envelope.SealMethod) error {
	switch seal {
	case envelope.SealAge:
		if ring.keys.Identities != nil || ring.identityFile == "" {
			return nil
		}
		identities, err := secret.ReadKeyFile(ring.identityFile)
		if err != nil {
			return cli.Validation("reading identity file: %w", err)
		}
		ring.keys.Identities = identities
	case envelope.SealKey:
		if ring.keys.Key != nil || ring.keyFile == "" {
			return nil
		}
		encoded, err := secret.ReadKeyFile(ring.keyFile)
		if err != nil {
			return cli.Validation("reading key file: %w", err)
		}
		defer encoded.Close()
		key, err := envelope.DecodeKey(encoded)
		if err != nil {
			return cli.Validation("%s: %w", ring.keyFile, err)
		}
		ring.keys.Key = key
	}
	return nil
}

// Close releases any key material loaded.
func (ring *keyring) Close() {
	if ring.keys.Identities != nil {
		ring.keys.Identities.Close()
	}
	if ring.keys.Key != nil {
		ring.keys.Key.Close()
	}
}

// messageText renders the message held in chunk for one-line display.
// Raw payloads that are not UTF-8 are shown byte for byte as Latin-1.
func messageText(chunk png.Chunk, message []byte) string {
	if utf8.Valid(message) {
		return string(message)
	}
	if !envelope.IsEnvelope(chunk.Data()) {
		return chunk.DataLatin1()
	}
	return fmt.Sprintf("(%s of binary data)", describeSize(len(message)))
}

func argumentCount(args []string, minimum, maximum int, usage string) error {
	if len(args) < minimum || len(args) > maximum {
		return cli.Validation("expected %s, got %d argument(s)", usage, len(args))
	}
	return nil
}

// errUnchanged is returned from an edit callback that has nothing to
// write.
var errUnchanged = errors.New("unchanged")

func describeSize(n int) string {
	if n == 1 {
		return "1 byte"
	}
	return fmt.Sprintf("%d bytes", n)
}

func openInput(path string) (*os.File, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cli.NotFound("%s: no such file", path)
	}
	return file, err
}
