// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name:   "pngstash",
		Output: &bytes.Buffer{},
		Subcommands: []*Command{
			{
				Name: "encode",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "encode"
					receivedArgs = args
					return nil
				},
			},
			{
				Name: "decode",
				Run: func(context.Context, []string, *slog.Logger) error {
					called = "decode"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"encode", "image.png", "RuSt", "hello"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "encode" {
		t.Errorf("dispatched to %q, want %q", called, "encode")
	}
	if strings.Join(receivedArgs, " ") != "image.png RuSt hello" {
		t.Errorf("args = %v", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var params struct {
		Output  string `flag:"output,o" desc:"output path"`
		Verbose bool   `flag:"verbose,v" desc:"debug logging"`
	}
	var debugEnabled bool
	var receivedArgs []string

	command := &Command{
		Name:   "encode",
		Output: &bytes.Buffer{},
		Flags: func() *pflag.FlagSet {
			return FlagsFromParams("encode", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			receivedArgs = args
			debugEnabled = logger.Enabled(ctx, slog.LevelDebug)
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"-o", "out.png", "image.png", "--verbose", "RuSt"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if params.Output != "out.png" {
		t.Errorf("output = %q, want out.png", params.Output)
	}
	if !debugEnabled {
		t.Error("--verbose did not enable debug logging")
	}
	if strings.Join(receivedArgs, " ") != "image.png RuSt" {
		t.Errorf("args = %v, want [image.png RuSt]", receivedArgs)
	}
}

func TestCommand_Execute_UnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name:   "pngstash",
		Output: &bytes.Buffer{},
		Subcommands: []*Command{
			{Name: "encode", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
			{Name: "remove", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"encdoe"})
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "encode"`) {
		t.Errorf("error = %q, want a suggestion for encode", err)
	}
	if ErrorExitCode(err) != ExitUsage {
		t.Errorf("exit code = %d, want %d", ErrorExitCode(err), ExitUsage)
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	var params struct {
		Output string `flag:"output" desc:"output path"`
	}
	command := &Command{
		Name:   "encode",
		Output: &bytes.Buffer{},
		Flags: func() *pflag.FlagSet {
			return FlagsFromParams("encode", &params)
		},
		Run: func(context.Context, []string, *slog.Logger) error {
			t.Error("Run called despite a flag error")
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"--outptu", "x.png"})
	if err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --output?") {
		t.Errorf("error = %q, want a suggestion for --output", err)
	}
}

func TestCommand_Execute_Help(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:    "pngstash",
		Summary: "Hide messages in PNG chunks",
		Output:  &output,
		Subcommands: []*Command{
			{Name: "encode", Summary: "Add a chunk"},
			{Name: "decode", Summary: "Read a chunk"},
		},
	}

	if err := root.Execute(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("Execute(--help) error: %v", err)
	}
	help := output.String()
	for _, want := range []string{"Hide messages in PNG chunks", "encode", "Read a chunk", "pngstash <command> --help"} {
		if !strings.Contains(help, want) {
			t.Errorf("help does not contain %q:\n%s", want, help)
		}
	}
}

func TestCommand_Execute_SubcommandHelpShowsFlagsAndExamples(t *testing.T) {
	var output bytes.Buffer
	var params struct {
		All bool `flag:"all" desc:"print every matching chunk"`
	}
	root := &Command{
		Name:   "pngstash",
		Output: &output,
		Subcommands: []*Command{
			{
				Name:        "decode",
				Description: "Print a hidden message.",
				Usage:       "pngstash decode <file> [type]",
				Examples: []Example{
					{Description: "Read the default chunk", Command: "pngstash decode image.png"},
				},
				Flags: func() *pflag.FlagSet { return FlagsFromParams("decode", &params) },
				Run:   func(context.Context, []string, *slog.Logger) error { return nil },
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"decode", "-h"}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	help := output.String()
	for _, want := range []string{"Print a hidden message.", "pngstash decode <file> [type]", "--all", "# Read the default chunk"} {
		if !strings.Contains(help, want) {
			t.Errorf("help does not contain %q:\n%s", want, help)
		}
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name:        "pngstash",
		Output:      &bytes.Buffer{},
		Subcommands: []*Command{{Name: "encode"}},
	}
	err := root.Execute(context.Background(), nil)
	var commandError *CommandError
	if !errors.As(err, &commandError) || commandError.Category != CategoryValidation {
		t.Errorf("error = %v, want a validation error", err)
	}
}

func TestCommand_Execute_ReturnsRunError(t *testing.T) {
	failure := errors.New("disk on fire")
	command := &Command{
		Name:   "check",
		Output: &bytes.Buffer{},
		Run: func(context.Context, []string, *slog.Logger) error {
			return failure
		},
	}
	if err := command.Execute(context.Background(), nil); !errors.Is(err, failure) {
		t.Errorf("error = %v, want %v", err, failure)
	}
}

func TestCommand_LoggerWritesToOutput(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:   "pngstash",
		Output: &output,
		Subcommands: []*Command{
			{
				Name: "strip",
				Run: func(_ context.Context, _ []string, logger *slog.Logger) error {
					logger.Info("removed chunks", "count", 2)
					return nil
				},
			},
		},
	}
	if err := root.Execute(context.Background(), []string{"strip"}); err != nil {
		t.Fatal(err)
	}
	// A bytes.Buffer is not a terminal, so records are JSON.
	for _, want := range []string{`"msg":"removed chunks"`, `"command":"strip"`, `"count":2`} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("log output %q does not contain %s", output.String(), want)
		}
	}
}
