// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/chunkui"
)

type browseParams struct {
	globalParams
}

func browseCommand(streams Streams) *cli.Command {
	var params browseParams
	return &cli.Command{
		Name:    "browse",
		Summary: "Browse chunks interactively",
		Description: `Open a terminal UI listing the chunks of a PNG file, with a
scrollable detail pane for the selected chunk. Tab or Enter switches
panes and x toggles a hex dump. / starts a fuzzy filter over chunk
types and text; Esc clears it. q quits.`,
		Usage: "pngstash browse <file>",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("browse", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := argumentCount(args, 1, 1, "<file>"); err != nil {
				return err
			}
			if !cli.IsTerminal(streams.Out) {
				return cli.Validation("browse needs a terminal").
					WithHint("Use \"pngstash print\" or \"pngstash inspect\" for non-interactive output.")
			}
			container, err := readImage(args[0])
			if err != nil {
				return err
			}
			return chunkui.Browse(container, args[0])
		},
	}
}
