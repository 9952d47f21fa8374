// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunkui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/pngstash/lib/manifest"
	"github.com/bureau-foundation/pngstash/lib/png"
)

// listWidth is the width of the chunk list column, excluding the
// separator.
const listWidth = 24

type focusPane int

const (
	focusList focusPane = iota
	focusDetail
)

// Model is the bubbletea model for the chunk browser.
type Model struct {
	theme    Theme
	keys     KeyMap
	name     string
	chunks   []png.Chunk
	manifest manifest.Manifest

	// visible holds indices into chunks of the entries passing the
	// filter. selected indexes visible.
	visible    []int
	filter     filterModel
	selected   int
	listOffset int
	focus      focusPane
	hexView    bool

	detail viewport.Model
	width  int
	height int
	ready  bool
}

// NewModel creates a browser for container. name is shown in the title
// bar, normally the file path.
func NewModel(container *png.PNG, name string) Model {
	model := Model{
		theme:    DefaultTheme,
		keys:     DefaultKeyMap,
		name:     name,
		chunks:   container.Chunks(),
		manifest: manifest.Build(container),
		filter:   newFilter(),
	}
	model.visible = model.filter.apply(model.manifest.Chunks)
	return model
}

// Browse runs the browser in the alternate screen until the user quits.
func Browse(container *png.PNG, name string) error {
	program := tea.NewProgram(NewModel(container, name), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Selected returns the index in the file of the highlighted chunk, or
// -1 when the filter leaves nothing to highlight.
func (model Model) Selected() int {
	if len(model.visible) == 0 {
		return -1
	}
	return model.visible[model.selected]
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.detail.Width = model.detailWidth()
		model.detail.Height = model.bodyHeight()
		model.ready = true
		model.refreshDetail()
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.filter.active {
		return model.handleFilterKey(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Filter):
		model.filter.active = true
		model.focus = focusList
		return model, nil

	case key.Matches(message, model.keys.ClearFilter):
		if model.filter.input != "" {
			model.filter.clear()
			model.applyFilter()
		}
		return model, nil

	case key.Matches(message, model.keys.FocusToggle):
		if model.focus == focusList {
			model.focus = focusDetail
		} else {
			model.focus = focusList
		}
		return model, nil

	case key.Matches(message, model.keys.HexToggle):
		model.hexView = !model.hexView
		model.refreshDetail()
		return model, nil
	}

	if model.focus == focusDetail {
		switch {
		case key.Matches(message, model.keys.Up):
			model.detail.LineUp(1)
		case key.Matches(message, model.keys.Down):
			model.detail.LineDown(1)
		case key.Matches(message, model.keys.PageUp):
			model.detail.HalfViewUp()
		case key.Matches(message, model.keys.PageDown):
			model.detail.HalfViewDown()
		case key.Matches(message, model.keys.Home):
			model.detail.GotoTop()
		case key.Matches(message, model.keys.End):
			model.detail.GotoBottom()
		}
		return model, nil
	}

	previous := model.selected
	page := max(model.bodyHeight()/2, 1)
	switch {
	case key.Matches(message, model.keys.Up):
		model.selected--
	case key.Matches(message, model.keys.Down):
		model.selected++
	case key.Matches(message, model.keys.PageUp):
		model.selected -= page
	case key.Matches(message, model.keys.PageDown):
		model.selected += page
	case key.Matches(message, model.keys.Home):
		model.selected = 0
	case key.Matches(message, model.keys.End):
		model.selected = len(model.visible) - 1
	}
	model.selected = max(min(model.selected, len(model.visible)-1), 0)
	if model.selected != previous {
		model.scrollListToSelection()
		model.refreshDetail()
	}
	return model, nil
}

// handleFilterKey edits the query while the filter has focus. Enter
// keeps the query and returns to the list; Esc drops it.
func (model Model) handleFilterKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyCtrlC:
		return model, tea.Quit
	case tea.KeyEnter:
		model.filter.active = false
		return model, nil
	case tea.KeyEsc:
		model.filter.clear()
	case tea.KeyBackspace:
		model.filter.backspace()
	case tea.KeyRunes, tea.KeySpace:
		model.filter.input += string(message.Runes)
	default:
		return model, nil
	}
	model.applyFilter()
	return model, nil
}

// applyFilter recomputes the visible chunks and resets the selection to
// the first of them.
func (model *Model) applyFilter() {
	model.visible = model.filter.apply(model.manifest.Chunks)
	model.selected = 0
	model.listOffset = 0
	model.refreshDetail()
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "loading…"
	}

	title := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Render(ansi.Truncate(model.name+"  "+Summary(model.manifest), model.width, "…"))

	var body string
	switch {
	case len(model.chunks) == 0:
		body = lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("No chunks")
	case len(model.visible) == 0:
		body = lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("No matching chunks")
	default:
		separator := lipgloss.NewStyle().
			Foreground(model.theme.BorderColor).
			Render(strings.TrimSuffix(strings.Repeat("│\n", model.bodyHeight()), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, model.renderList(), separator, model.detail.View())
	}

	// The filter bar replaces the help line while there is a query.
	status := model.filter.view(model.theme)
	if status == "" {
		status = lipgloss.NewStyle().
			Foreground(model.theme.HelpText).
			Render(model.keys.helpLine())
	}
	status = ansi.Truncate(status, model.width, "")

	return lipgloss.JoinVertical(lipgloss.Left, title, body, status)
}

func (model Model) renderList() string {
	height := model.bodyHeight()
	lines := make([]string, 0, height)
	end := min(model.listOffset+height, len(model.visible))
	for index := model.listOffset; index < end; index++ {
		entry := model.manifest.Chunks[model.visible[index]]
		line := fmt.Sprintf("%3d %s %9d ", entry.Index, entry.Type, entry.Length)
		line = ansi.Truncate(line, listWidth, "")
		line += strings.Repeat(" ", max(listWidth-ansi.StringWidth(line), 0))

		style := lipgloss.NewStyle().Foreground(model.theme.TypeColor(entry.Critical, entry.Public, entry.ReservedValid))
		if index == model.selected {
			style = style.Background(model.theme.SelectedBackground)
			if model.focus == focusList {
				style = style.Bold(true)
			}
		}
		lines = append(lines, style.Render(line))
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", listWidth))
	}
	return strings.Join(lines, "\n")
}

func (model *Model) refreshDetail() {
	if len(model.visible) == 0 {
		model.detail.SetContent("")
		return
	}
	chunk := model.visible[model.selected]
	model.detail.SetContent(renderDetail(model.manifest.Chunks[chunk], model.chunks[chunk], model.hexView, model.detailWidth()))
	model.detail.GotoTop()
}

func (model *Model) scrollListToSelection() {
	height := model.bodyHeight()
	if model.selected < model.listOffset {
		model.listOffset = model.selected
	}
	if model.selected >= model.listOffset+height {
		model.listOffset = model.selected - height + 1
	}
}

// bodyHeight is the terminal height minus the title and help lines.
func (model Model) bodyHeight() int {
	return max(model.height-2, 1)
}

func (model Model) detailWidth() int {
	return max(model.width-listWidth-1, 1)
}
