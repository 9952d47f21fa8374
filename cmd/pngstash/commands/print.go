// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"slices"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/chunkui"
	"github.com/bureau-foundation/pngstash/lib/config"
	"github.com/bureau-foundation/pngstash/lib/manifest"
)

type printParams struct {
	globalParams
	cli.JSONOutput

	Open  bool   `flag:"open" desc:"open the image with the configured viewer instead of listing chunks"`
	Color string `flag:"color" desc:"color output: auto, always or never (default from config)"`
}

func printCommand(streams Streams) *cli.Command {
	var params printParams
	return &cli.Command{
		Name:    "print",
		Summary: "List the chunks of a PNG file",
		Description: `List every chunk with its offset, type, property flags, length and
CRC, followed by the decoded value of text chunks and the header of
pngstash envelopes. The first line summarizes the image header.

Flags are one letter per type byte: C/a critical or ancillary, P/p
public or private, R/r reserved bit clear or set, S/u safe or unsafe
to copy.

With --open the image is shown with print.viewer from the
configuration (feh by default). If the viewer cannot run, the chunk
listing is printed instead.`,
		Usage: "pngstash print <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "List chunks",
				Command:     "pngstash print dice.png",
			},
			{
				Description: "Machine-readable listing",
				Command:     "pngstash print dice.png --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("print", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := argumentCount(args, 1, 1, "<file>"); err != nil {
				return err
			}
			cfg, err := params.loadConfig()
			if err != nil {
				return err
			}
			colorMode := params.Color
			if colorMode == "" {
				colorMode = cfg.Print.Color
			}
			if !slices.Contains([]string{config.ColorAuto, config.ColorAlways, config.ColorNever}, colorMode) {
				return cli.Validation("--color must be auto, always or never, got %q", colorMode)
			}

			path := args[0]
			container, err := readImage(path)
			if err != nil {
				return err
			}

			if params.Open {
				viewer := cfg.ViewerCommand(path)
				if viewer == nil {
					logger.Warn("no viewer configured, listing chunks instead")
				} else {
					command := exec.CommandContext(ctx, viewer[0], viewer[1:]...)
					command.Stdout = streams.Out
					command.Stderr = streams.Err
					err := command.Run()
					if err == nil {
						return nil
					}
					logger.Warn("viewer failed, listing chunks instead", "viewer", viewer[0], "error", err)
				}
			}

			m := manifest.Build(container)
			profile := colorProfile(colorMode, streams.Out)

			if params.OutputJSON {
				if profile == termenv.Ascii {
					_, err := params.EmitJSON(streams.Out, m)
					return err
				}
				var encoded bytes.Buffer
				if err := cli.WriteJSON(&encoded, m); err != nil {
					return err
				}
				return chunkui.HighlightJSON(streams.Out, encoded.Bytes())
			}

			return chunkui.RenderTable(streams.Out, m, chunkui.DefaultTheme, profile, cli.TerminalWidth(streams.Out))
		},
	}
}

// colorProfile resolves a color mode for output written to w. "auto"
// colors only terminals and honors NO_COLOR and CLICOLOR_FORCE.
func colorProfile(mode string, w io.Writer) termenv.Profile {
	switch mode {
	case config.ColorNever:
		return termenv.Ascii
	case config.ColorAlways:
		return termenv.ANSI256
	default:
		if !cli.IsTerminal(w) {
			return termenv.Ascii
		}
		return termenv.EnvColorProfile()
	}
}
