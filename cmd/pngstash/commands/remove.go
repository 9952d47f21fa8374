// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/envelope"
	"github.com/bureau-foundation/pngstash/lib/png"
)

type removeParams struct {
	globalParams
	lockParams
	keyParams

	Output string `flag:"output,o" desc:"write the result here instead of modifying the file in place"`
}

func removeCommand(streams Streams) *cli.Command {
	var params removeParams
	return &cli.Command{
		Name:    "remove",
		Summary: "Remove a chunk and print its message",
		Description: `Remove the first chunk of the given type, write the file back and
print "<type> <message>". Later chunks of the same type are left in
place; run remove again to take the next one.

Sealed envelopes are opened for display when key material is
available. Without it the chunk is still removed and a description of
the envelope is printed instead of the message.`,
		Usage: "pngstash remove <file> [type] [flags]",
		Examples: []cli.Example{
			{
				Description: "Remove a RuSt chunk",
				Command:     "pngstash remove dice.png RuSt",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("remove", &params)
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

			var removed png.Chunk
			err = editImage(ctx, params.lockParams, path, params.Output, func(container *png.PNG) error {
				var removeErr error
				removed, removeErr = container.RemoveChunk(chunkType.String())
				return removeErr
			})
			if errors.Is(err, png.ErrChunkNotFound) {
				return cli.NotFound("%s: no %s chunk", path, chunkType)
			}
			if err != nil {
				return err
			}
			logger.Debug("chunk removed", "file", path, "type", chunkType.String(), "bytes", removed.Length())

			ring := newKeyring(params.keyParams, cfg)
			defer ring.Close()
			fmt.Fprintf(streams.Out, "%s %s\n", removed.Type(), displayRemoved(ring, removed, logger))
			return nil
		},
	}
}

// displayRemoved opens the removed chunk's message if it can. The chunk
// is already gone from the file, so failing to open it is not an error.
func displayRemoved(ring *keyring, chunk png.Chunk, logger *slog.Logger) string {
	data := chunk.Data()
	message, err := ring.open(data)
	if err == nil {
		return messageText(chunk, message)
	}
	logger.Debug("could not open removed envelope", "error", err)
	info, describeErr := envelope.Describe(data)
	if describeErr != nil {
		return chunk.DataLatin1()
	}
	return fmt.Sprintf("(envelope sealed with %s, %s)", info.Seal, describeSize(info.Size))
}
