// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/envelope"
	"github.com/bureau-foundation/pngstash/lib/pngfile"
	"github.com/bureau-foundation/pngstash/lib/sealed"
	"github.com/bureau-foundation/pngstash/lib/secret"
)

type keygenParams struct {
	globalParams

	Symmetric bool   `flag:"symmetric" desc:"generate a 32-byte shared key instead of an age identity"`
	Output    string `flag:"output,o" desc:"write the key to this file (mode 0600) instead of stdout"`
	PublicOf  string `flag:"public,y" desc:"print the public keys of an existing identity file instead of generating one"`
}

func keygenCommand(streams Streams) *cli.Command {
	var params keygenParams
	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate a key for sealing messages",
		Description: `Generate an age x25519 identity, or with --symmetric a random 32-byte
shared key. Give the identity file to "decode --identity" and the
printed public key to "encode --recipient". A shared key file works
for both "encode --key-file" and "decode --key-file".

An existing output file is never overwritten. With -y, nothing is
generated: the recipients of an existing identity file are printed.`,
		Usage: "pngstash keygen [--symmetric] [-o file]",
		Examples: []cli.Example{
			{
				Description: "Create an identity",
				Command:     "pngstash keygen -o ~/.config/pngstash/identity.txt",
			},
			{
				Description: "Recover the public key to hand to senders",
				Command:     "pngstash keygen -y ~/.config/pngstash/identity.txt",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("keygen", &params)
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := argumentCount(args, 0, 0, "no arguments"); err != nil {
				return err
			}
			if params.PublicOf != "" {
				if params.Symmetric || params.Output != "" {
					return cli.Validation("-y cannot be combined with --symmetric or --output")
				}
				return printPublicKeys(streams, params.PublicOf)
			}
			if params.Output != "" {
				if _, err := os.Stat(params.Output); err == nil {
					return cli.Validation("%s already exists", params.Output)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			now := time.Now()
			var contents []byte
			publicKey := ""
			if params.Symmetric {
				key, err := envelope.GenerateKey()
				if err != nil {
					return err
				}
				defer key.Close()
				var buffer bytes.Buffer
				fmt.Fprintf(&buffer, "# created: %s\n", now.UTC().Format(time.RFC3339))
				buffer.WriteString("# pngstash shared key\n")
				buffer.Write(envelope.EncodeKey(key))
				buffer.WriteByte('\n')
				contents = buffer.Bytes()
			} else {
				keypair, err := sealed.GenerateKeypair()
				if err != nil {
					return err
				}
				defer keypair.Close()
				contents = keypair.IdentityFile(now)
				publicKey = keypair.PublicKey
			}
			defer secret.Zero(contents)

			if params.Output == "" {
				_, err := streams.Out.Write(contents)
				return err
			}
			if err := pngfile.WriteAtomicMode(params.Output, contents, 0o600); err != nil {
				return cli.Internal("writing %s: %w", params.Output, err)
			}
			if publicKey != "" {
				fmt.Fprintf(streams.Out, "public key: %s\n", publicKey)
			}
			logger.Debug("key written", "file", params.Output, "symmetric", params.Symmetric)
			return nil
		},
	}
}

func printPublicKeys(streams Streams, identityFile string) error {
	identities, err := secret.ReadKeyFile(identityFile)
	if errors.Is(err, fs.ErrNotExist) {
		return cli.NotFound("%s: no such file", identityFile)
	}
	if err != nil {
		return cli.Validation("reading identity file: %w", err)
	}
	defer identities.Close()

	publicKeys, err := sealed.PublicKeys(identities)
	if err != nil {
		return cli.Validation("%s: %w", identityFile, err)
	}
	for _, publicKey := range publicKeys {
		fmt.Fprintln(streams.Out, publicKey)
	}
	return nil
}
