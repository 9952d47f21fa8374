// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pngfile reads and rewrites PNG files on disk.
//
// Writes are atomic: the new bytes go to a temporary file in the same
// directory, which is fsynced, renamed over the target, and followed
// by an fsync of the directory. A reader never sees a half-written
// image, and a crash leaves either the old file or the new one.
//
// [Edit] wraps a read-modify-write cycle in an advisory exclusive
// flock on the source file, so two pngstash processes editing the
// same image serialize instead of losing each other's chunks. The
// lock is advisory: other programs are not stopped.
package pngfile
