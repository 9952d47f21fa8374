// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build version information for pngstash.
//
// Three variables are injected at build time via -ldflags -X:
//
//   - [GitCommit]: short git SHA of the build
//   - [GitDirty]: "true" if there were uncommitted changes
//   - [BuildTime]: UTC timestamp of the build
//
// When they are not injected (go install, go run, tests) the commit
// and dirty flag fall back to the VCS stamp the go command records in
// the binary's build info.
package version
