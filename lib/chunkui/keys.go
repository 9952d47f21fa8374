// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunkui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the browser's key bindings.
type KeyMap struct {
	// Up and Down move the selection when the list has focus and
	// scroll the detail view when it does.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	FocusToggle key.Binding

	// HexToggle switches the detail view between the decoded view and
	// a hex dump of the chunk data.
	HexToggle key.Binding

	// Filter starts typing a fuzzy query; ClearFilter drops it.
	Filter      key.Binding
	ClearFilter key.Binding

	Quit key.Binding
}

// DefaultKeyMap uses vim-style movement alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab", "enter"),
		key.WithHelp("Tab", "switch pane"),
	),
	HexToggle: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "hex"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	ClearFilter: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpLine renders the bindings shown in the status bar.
func (keys KeyMap) helpLine() string {
	bindings := []key.Binding{keys.Up, keys.Down, keys.FocusToggle, keys.HexToggle, keys.Filter, keys.Quit}
	line := ""
	for index, binding := range bindings {
		if index > 0 {
			line += "  "
		}
		help := binding.Help()
		line += help.Key + " " + help.Desc
	}
	return line
}
