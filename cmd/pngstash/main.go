// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// pngstash hides, reads and removes messages in PNG chunks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/cmd/pngstash/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError;
		// don't print a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if hint := cli.ErrorHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(cli.ErrorExitCode(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root(commands.StandardStreams()).Execute(ctx, os.Args[1:])
}
