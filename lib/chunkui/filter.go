// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunkui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/pngstash/lib/manifest"
)

// filterModel narrows the chunk list with fzf's fuzzy matcher. Each
// chunk is matched on its type code followed by its one-line detail,
// so "/com" finds a tEXt Comment and "/rust" finds RuSt chunks.
type filterModel struct {
	// input is the query text.
	input string

	// active is true while the query has keyboard focus.
	active bool

	slab *util.Slab
}

// The matcher's bonus and character-class tables are empty until a
// scoring scheme is chosen.
func init() {
	algo.Init("default")
}

func newFilter() filterModel {
	return filterModel{slab: util.MakeSlab(100*1024, 2048)}
}

// apply returns the indices of the entries matching the query, in file
// order. An empty query matches everything.
func (filter filterModel) apply(entries []manifest.Entry) []int {
	visible := make([]int, 0, len(entries))
	pattern := []rune(strings.ToLower(filter.input))
	for index, entry := range entries {
		if len(pattern) == 0 || filter.matches(entry.Type.String()+" "+Detail(entry), pattern) {
			visible = append(visible, index)
		}
	}
	return visible
}

// matches runs a case-insensitive fuzzy match. pattern must already be
// lowercase.
func (filter filterModel) matches(text string, pattern []rune) bool {
	chars := util.ToChars([]byte(text))
	result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, filter.slab)
	return result.Start >= 0
}

func (filter *filterModel) backspace() {
	runes := []rune(filter.input)
	if len(runes) > 0 {
		filter.input = string(runes[:len(runes)-1])
	}
}

func (filter *filterModel) clear() {
	filter.input = ""
	filter.active = false
}

// view renders the filter bar, or "" when there is no query.
func (filter filterModel) view(theme Theme) string {
	if !filter.active && filter.input == "" {
		return ""
	}
	if filter.active {
		cursor := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render("▎")
		return lipgloss.NewStyle().Foreground(theme.NormalText).Render("/ "+filter.input) + cursor
	}
	return lipgloss.NewStyle().Foreground(theme.FaintText).Render("filter: " + filter.input)
}
