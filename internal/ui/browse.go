package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/imfreedom/urlmap/internal/urlmap"
)

// browseKeyMap defines key bindings for the browser
type browseKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select, k.Quit}}
}

// BrowseModel is a filterable namespace browser.
// Typing narrows the list; enter selects the highlighted namespace.
type BrowseModel struct {
	table    *urlmap.Table
	filter   textinput.Model
	visible  []urlmap.Entry
	cursor   int
	keys     browseKeyMap
	help     help.Model
	width    int
	quitting bool

	// Selected is set when the user picks an entry
	Selected *urlmap.Entry
}

// NewBrowseModel creates a browser over table
func NewBrowseModel(table *urlmap.Table) BrowseModel {
	filter := textinput.New()
	filter.Placeholder = "filter namespaces"
	filter.Prompt = "/ "
	filter.Focus()

	m := BrowseModel{
		table:  table,
		filter: filter,
		help:   help.New(),
		width:  GetTerminalWidth(),
		keys: browseKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "ctrl+p"),
				key.WithHelp("↑", "up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "ctrl+n"),
				key.WithHelp("↓", "down"),
			),
			Select: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "select"),
			),
			Quit: key.NewBinding(
				key.WithKeys("esc", "ctrl+c"),
				key.WithHelp("esc", "quit"),
			),
		},
	}
	m.applyFilter()
	return m
}

// Init implements tea.Model
func (m BrowseModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = clampWidth(msg.Width, nil)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if len(m.visible) > 0 {
				selected := m.visible[m.cursor]
				m.Selected = &selected
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter()
	}
	return m, cmd
}

// applyFilter narrows the visible entries to those containing the filter
// text in their namespace or base URL, ignoring case
func (m *BrowseModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	// Fresh slice: tea copies the model, so copies must not share storage
	visible := make([]urlmap.Entry, 0, m.table.Len())
	for _, e := range m.table.Entries() {
		if query == "" ||
			strings.Contains(strings.ToLower(e.Namespace), query) ||
			strings.Contains(strings.ToLower(e.BaseURL), query) {
			visible = append(visible, e)
		}
	}
	m.visible = visible

	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Visible returns the entries currently shown
func (m BrowseModel) Visible() []urlmap.Entry {
	return m.visible
}

// View implements tea.Model
func (m BrowseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Documentation namespaces (%d/%d)", len(m.visible), m.table.Len())))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(MutedStyle.Render("  no matching namespaces"))
		b.WriteString("\n")
	}
	for i, e := range m.visible {
		if i == m.cursor {
			b.WriteString(SelectedStyle.Render(CursorMarker+" "+e.Namespace) + "  " + URLStyle.Render(e.BaseURL))
		} else {
			b.WriteString("  " + NamespaceStyle.Render(e.Namespace) + "  " + MutedStyle.Render(e.BaseURL))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Browse runs the interactive browser and returns the selected entry,
// or nil if the user quit without choosing
func Browse(table *urlmap.Table) (*urlmap.Entry, error) {
	final, err := tea.NewProgram(NewBrowseModel(table)).Run()
	if err != nil {
		return nil, fmt.Errorf("browser failed: %w", err)
	}
	if m, ok := final.(BrowseModel); ok {
		return m.Selected, nil
	}
	return nil, nil
}
