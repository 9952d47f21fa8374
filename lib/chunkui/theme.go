// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunkui

import "github.com/charmbracelet/lipgloss"

// Theme is the palette for the table and the browser. Colors are ANSI
// 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Chunk type colors by class.
	Critical  lipgloss.Color
	Ancillary lipgloss.Color
	Private   lipgloss.Color

	// Text and envelope chunks in the detail column.
	TextChunk     lipgloss.Color
	EnvelopeChunk lipgloss.Color

	// Reserved bit set: the type is not valid PNG.
	Invalid lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
}

// TypeColor picks the color for a chunk type code given its property
// bits. Invalid codes win over everything else.
func (theme Theme) TypeColor(critical, public, reservedValid bool) lipgloss.Color {
	switch {
	case !reservedValid:
		return theme.Invalid
	case critical:
		return theme.Critical
	case !public:
		return theme.Private
	default:
		return theme.Ancillary
	}
}

// DefaultTheme suits dark 256-color terminals.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Critical:  lipgloss.Color("75"),  // blue
	Ancillary: lipgloss.Color("114"), // green
	Private:   lipgloss.Color("220"), // amber

	TextChunk:     lipgloss.Color("141"), // light purple
	EnvelopeChunk: lipgloss.Color("208"), // orange

	Invalid: lipgloss.Color("196"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
}
