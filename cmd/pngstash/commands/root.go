// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the pngstash command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/version"
)

// Root builds the complete command tree writing to streams.
func Root(streams Streams) *cli.Command {
	return &cli.Command{
		Name: "pngstash",
		Description: `pngstash: hide messages in PNG chunks.

Messages are stored in ancillary chunks that image viewers skip, so
the picture is unchanged. Messages can be compressed and sealed to age
recipients or with a shared key.`,
		Output: streams.Err,
		Subcommands: []*cli.Command{
			encodeCommand(streams),
			decodeCommand(streams),
			removeCommand(streams),
			printCommand(streams),
			stripCommand(streams),
			checkCommand(streams),
			inspectCommand(streams),
			browseCommand(streams),
			keygenCommand(streams),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Fprintf(streams.Out, "pngstash %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Hide a message",
				Command:     `pngstash encode dice.png RuSt "This is where your secret message will be!"`,
			},
			{
				Description: "Read it back",
				Command:     "pngstash decode dice.png RuSt",
			},
			{
				Description: "See what is in a file",
				Command:     "pngstash print dice.png",
			},
		},
	}
}
