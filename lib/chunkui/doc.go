// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package chunkui renders chunk manifests for terminals. [RenderTable]
// writes a colored one-line-per-chunk listing, [HighlightJSON]
// syntax-colors machine-readable output, and [Model] is the
// bubbletea program behind "pngstash browse": a chunk list on the
// left and a scrollable detail view of the selected chunk on the
// right. The list can be narrowed with an fzf-style fuzzy query.
//
// Nothing here opens envelopes or modifies files. The browser works
// on a parsed [png.PNG] and its [manifest.Manifest] only.
package chunkui
