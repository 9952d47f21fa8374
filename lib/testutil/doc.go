// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for pngstash packages.
//
// [OnePixelPNG] returns a real, minimal PNG file (IHDR, IDAT, IEND).
// [BuildPNG] inserts extra chunks into it, and [WritePNG] puts the
// result in a per-test temporary directory for command tests that
// operate on paths.
//
// [RequireReceive] wraps the select-with-timeout pattern so tests that
// wait on a goroutine holding a file lock never hang.
//
// [UniqueID] produces distinct message bodies so a test can tell which
// of several encodes a decode returned.
//
// All helpers call t.Fatalf on failure. Tests inside lib/png cannot
// use this package, which imports it.
package testutil
