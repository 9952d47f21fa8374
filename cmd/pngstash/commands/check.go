// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/png"
)

type checkParams struct {
	globalParams
}

func checkCommand(streams Streams) *cli.Command {
	var params checkParams
	return &cli.Command{
		Name:    "check",
		Summary: "Verify a PNG file's framing and checksums",
		Description: `Parse the file and verify the signature, the framing of every chunk
and every CRC. Prints "valid" and exits 0, or prints the first problem
and exits 1. Pixel data is not decoded and chunk order is not checked.`,
		Usage: "pngstash check <file>",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("check", &params)
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := argumentCount(args, 1, 1, "<file>"); err != nil {
				return err
			}
			path := args[0]
			file, err := openInput(path)
			if err != nil {
				return err
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return cli.Internal("reading %s: %w", path, err)
			}

			container, err := png.Parse(data)
			if err != nil {
				fmt.Fprintf(streams.Out, "invalid: %v\n", err)
				return &cli.ExitError{Code: cli.ExitFailure}
			}
			fmt.Fprintln(streams.Out, "valid")
			logger.Debug("checked", "file", path, "chunks", container.Len(), "bytes", len(data))
			return nil
		},
	}
}
