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
	"github.com/bureau-foundation/pngstash/lib/png"
)

type stripParams struct {
	globalParams
	lockParams

	Output   string `flag:"output,o" desc:"write the result here instead of modifying the file in place"`
	KeepText bool   `flag:"keep-text" desc:"keep tEXt, zTXt and iTXt chunks"`
	Private  bool   `flag:"private" desc:"also remove every ancillary private chunk (including pngstash messages)"`
}

// metadataTypes are removed by strip.
var metadataTypes = []png.ChunkType{png.TypeTEXT, png.TypeZTXT, png.TypeITXT, png.TypeEXIF, png.TypeTIME}

func stripCommand(streams Streams) *cli.Command {
	var params stripParams
	return &cli.Command{
		Name:    "strip",
		Summary: "Remove metadata chunks",
		Description: `Remove text (tEXt, zTXt, iTXt), EXIF (eXIf) and timestamp (tIME)
chunks. With --private, every ancillary private chunk is removed too,
which includes pngstash messages stored under ancillary types such as
the default stSh. Critical chunks are never removed, so messages hidden
under critical private types (uppercase first letter, like RuSt) stay
and strip --private warns about each one. Use "pngstash remove" for
those. Each removed chunk is listed; when nothing matches the file is
not rewritten.`,
		Usage: "pngstash strip <file> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("strip", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := argumentCount(args, 1, 1, "<file>"); err != nil {
				return err
			}
			if _, err := params.loadConfig(); err != nil {
				return err
			}
			path := args[0]

			var removed, keptPrivate []png.Chunk
			err := editImage(ctx, params.lockParams, path, params.Output, func(container *png.PNG) error {
				removed = container.RemoveWhere(func(chunk png.Chunk) bool {
					return shouldStrip(chunk.Type(), params)
				})
				keptPrivate = nil
				for _, chunk := range container.Chunks() {
					if chunk.Type().IsCritical() && !chunk.Type().IsPublic() {
						keptPrivate = append(keptPrivate, chunk)
					}
				}
				if len(removed) == 0 && params.Output == "" {
					return errUnchanged
				}
				return nil
			})
			if err != nil && !errors.Is(err, errUnchanged) {
				return err
			}

			for _, chunk := range removed {
				fmt.Fprintf(streams.Out, "removed %s (%s)\n", chunk.Type(), describeSize(int(chunk.Length())))
			}
			if params.Private {
				for _, chunk := range keptPrivate {
					logger.Warn("critical private chunk kept, use remove to delete it",
						"type", chunk.Type().String(), "bytes", chunk.Length())
				}
			}
			logger.Debug("stripped", "file", path, "removed", len(removed))
			return nil
		},
	}
}

func shouldStrip(chunkType png.ChunkType, params stripParams) bool {
	if chunkType.IsCritical() {
		return false
	}
	if params.Private && !chunkType.IsPublic() {
		return true
	}
	if params.KeepText && png.IsTextType(chunkType) {
		return false
	}
	for _, metadata := range metadataTypes {
		if chunkType == metadata {
			return true
		}
	}
	return false
}
