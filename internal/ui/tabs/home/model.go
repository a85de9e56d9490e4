// Package home provides the current conditions tab.
package home

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/skycast/internal/app"
	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/ui/components"
	"github.com/j-veylop/skycast/internal/ui/styles"
)

// keyMap defines the key bindings specific to the home tab.
type keyMap struct {
	Search  key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search city"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// hourlyCells is the most samples the hourly strip shows.
const hourlyCells = 8

// Model represents the home tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	search   textinput.Model
	viewport viewport.Model
	keys     keyMap
	width    int
	height   int

	searching bool
}

// New creates a new home model.
func New(state *app.State) *Model {
	ti := textinput.New()
	ti.Placeholder = "City name"
	ti.Prompt = "🔍 "
	ti.CharLimit = 80
	ti.PromptStyle = styles.InfoTextStyle

	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Fetching weather..."),
		search:   ti,
		viewport: viewport.New(0, 0),
		keys:     defaultKeyMap(),
	}
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the home tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m, m.handleSearchKey(msg)
		}
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Reset()
		return m.search.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return app.Refresh(app.TargetHome)

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		query := m.search.Value()
		m.closeSearch()
		return app.Search(query, models.SourceSearch, app.TargetHome)

	case key.Matches(msg, m.keys.Cancel):
		m.closeSearch()
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *Model) closeSearch() {
	m.searching = false
	m.search.Blur()
	m.search.Reset()
}

// Capturing reports whether the search box has focus.
func (m *Model) Capturing() bool {
	return m.searching
}

// SetSize sets the available size for the home tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.search.Width = max(width-12, 20)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.searching {
		return []key.Binding{m.keys.Submit, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Search, m.keys.Refresh}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Search, m.keys.Refresh},
		{m.keys.Submit, m.keys.Cancel},
		{m.keys.Up, m.keys.Down},
	}
}
