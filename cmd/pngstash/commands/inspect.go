// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/chunkui"
	"github.com/bureau-foundation/pngstash/lib/manifest"
)

type inspectParams struct {
	globalParams

	Format string `flag:"format" default:"json" desc:"output format: json, cbor or yaml"`
}

func inspectCommand(streams Streams) *cli.Command {
	var params inspectParams
	return &cli.Command{
		Name:    "inspect",
		Summary: "Write the chunk manifest as JSON, CBOR or YAML",
		Description: `Write a manifest describing every chunk: index, offset, type and
property bits, length, CRC and a short BLAKE3 digest of the data, plus
the decoded image header, text chunks and envelope headers. CBOR output
is deterministic, so manifests of identical files are byte-identical.
JSON and YAML are syntax-colored when written to a terminal.`,
		Usage: "pngstash inspect <file> [--format json|cbor|yaml]",
		Examples: []cli.Example{
			{
				Description: "Compare two files chunk by chunk",
				Command:     "diff <(pngstash inspect a.png --format yaml) <(pngstash inspect b.png --format yaml)",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("inspect", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := argumentCount(args, 1, 1, "<file>"); err != nil {
				return err
			}
			format, err := manifest.ParseFormat(params.Format)
			if err != nil {
				return cli.Validation("--format: %w", err)
			}
			container, err := readImage(args[0])
			if err != nil {
				return err
			}
			m := manifest.Build(container)
			if !cli.IsTerminal(streams.Out) || format == manifest.FormatCBOR {
				return manifest.Encode(streams.Out, m, format)
			}

			var encoded bytes.Buffer
			if err := manifest.Encode(&encoded, m, format); err != nil {
				return err
			}
			if format == manifest.FormatYAML {
				return chunkui.HighlightYAML(streams.Out, encoded.Bytes())
			}
			return chunkui.HighlightJSON(streams.Out, encoded.Bytes())
		},
	}
}
