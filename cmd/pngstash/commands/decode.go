// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/png"
)

type decodeParams struct {
	globalParams
	keyParams

	All bool `flag:"all,a" desc:"print every chunk of the type, not just the first"`
	Raw bool `flag:"raw" desc:"write the message bytes exactly, without a trailing newline"`
}

func decodeCommand(streams Streams) *cli.Command {
	var params decodeParams
	return &cli.Command{
		Name:    "decode",
		Summary: "Print the message hidden in a chunk",
		Description: `Print the data of the first chunk of the given type. pngstash
envelopes are opened automatically: sealed messages need an age
identity (--identity) or a shared key file (--key-file), either of
which may also come from the configuration.

Prints "chunk not found" and exits 1 when the file has no chunk of
that type.`,
		Usage: "pngstash decode <file> [type] [flags]",
		Examples: []cli.Example{
			{
				Description: "Read the message from a RuSt chunk",
				Command:     "pngstash decode dice.png RuSt",
			},
			{
				Description: "Extract a sealed binary payload",
				Command:     "pngstash decode dice.png stSh -i key.txt --raw > payload.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("decode", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := argumentCount(args, 1, 2, "<file> [type]"); err != nil {
				return err
			}
			cfg, err := params.loadConfig()
			if err != nil {
				return err
			}
			path, typeName := args[0], cfg.Encode.ChunkType
			if len(args) == 2 {
				typeName = args[1]
			}
			chunkType, err := parseLookupType(typeName)
			if err != nil {
				return err
			}

			container, err := readImage(path)
			if err != nil {
				return err
			}

			var chunks []png.Chunk
			if params.All {
				chunks = container.ChunksByType(chunkType.String())
			} else if chunk, ok := container.ChunkByType(chunkType.String()); ok {
				chunks = []png.Chunk{chunk}
			}
			if len(chunks) == 0 {
				fmt.Fprintln(streams.Out, "chunk not found")
				return &cli.ExitError{Code: cli.ExitFailure}
			}

			ring := newKeyring(params.keyParams, cfg)
			defer ring.Close()

			for _, chunk := range chunks {
				message, err := ring.open(chunk.Data())
				if err != nil {
					return fmt.Errorf("%s chunk: %w", chunk.Type(), err)
				}
				if _, err := streams.Out.Write(message); err != nil {
					return err
				}
				if !params.Raw {
					fmt.Fprintln(streams.Out)
				}
			}
			logger.Debug("decoded", "file", path, "type", chunkType.String(), "chunks", len(chunks))
			return nil
		},
	}
}
