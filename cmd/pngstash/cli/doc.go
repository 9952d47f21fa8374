// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command-line framework for pngstash.
//
// The central type is [Command]: a named command with optional nested
// [Command.Subcommands], a [pflag.FlagSet] factory, and a Run function.
// The tree is assembled in cmd/pngstash/commands and dispatched with
// [Command.Execute], which handles flag parsing, subcommand routing,
// help output, and the per-command [slog.Logger].
//
// Flags are usually declared as tagged struct fields and bound with
// [FlagsFromParams]. Unknown commands and flags get a "did you mean"
// suggestion by Levenshtein distance (suggest.go).
//
// Errors returned from Run are classified with [Validation], [NotFound]
// and [Internal]; [ErrorExitCode] maps them to process exit codes and
// [ExitError] carries an exit code for commands that already printed
// their own output.
package cli
