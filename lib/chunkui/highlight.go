// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunkui

import (
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

// HighlightJSON writes data to w with terminal syntax coloring. If
// highlighting fails the data is written unchanged.
func HighlightJSON(w io.Writer, data []byte) error {
	return highlight(w, data, "json")
}

// HighlightYAML is HighlightJSON for YAML output.
func HighlightYAML(w io.Writer, data []byte) error {
	return highlight(w, data, "yaml")
}

func highlight(w io.Writer, data []byte, language string) error {
	if err := quick.Highlight(w, string(data), language, "terminal256", "monokai"); err != nil {
		_, err = w.Write(data)
		return err
	}
	return nil
}
