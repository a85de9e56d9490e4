// Package places provides the saved places tab.
package places

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/skycast/internal/app"
	"github.com/j-veylop/skycast/internal/config"
	"github.com/j-veylop/skycast/internal/models"
)

// keyMap defines the key bindings specific to the places tab.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Add    key.Binding
	Delete key.Binding
	Yes    key.Binding
	No     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show weather"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "save current city"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete place"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// Model represents the places tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int

	selected      int
	confirmDelete bool
	deleteTarget  models.Place
}

// New creates a new places model. cfg may be nil.
func New(state *app.State, cfg *config.Config) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the places tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the places tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDelete {
			return m, m.handleConfirmKey(msg)
		}
		return m, m.handleKeyMsg(msg)

	case app.PlacesChangedMsg:
		m.clampSelection(len(msg.Places))
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	places := m.state.Places()

	switch {
	case key.Matches(msg, m.keys.Up):
		if len(places) > 0 {
			m.selected = (m.selected - 1 + len(places)) % len(places)
		}

	case key.Matches(msg, m.keys.Down):
		if len(places) > 0 {
			m.selected = (m.selected + 1) % len(places)
		}

	case key.Matches(msg, m.keys.Open):
		if p, ok := m.selectedPlace(places); ok {
			return app.Search(p.Name, models.SourceSaved, app.TargetAll)
		}

	case key.Matches(msg, m.keys.Add):
		return m.saveCurrent()

	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.selectedPlace(places); ok {
			m.confirmDelete = true
			m.deleteTarget = p
		}

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Yes):
		id := m.deleteTarget.ID
		m.confirmDelete = false
		m.deleteTarget = models.Place{}
		return app.DeletePlace(id)

	case key.Matches(msg, m.keys.No):
		m.confirmDelete = false
		m.deleteTarget = models.Place{}
	}
	return nil
}

// saveCurrent saves the city shown on the Home tab.
func (m *Model) saveCurrent() tea.Cmd {
	home := m.state.Home()

	switch {
	case home.Current != nil && home.Current.Location != "":
		return app.SavePlace(home.Current.Location, home.Current.Country)
	case home.City != "":
		return app.SavePlace(home.City, "")
	}

	return func() tea.Msg {
		return app.AddNotificationMsg{
			Type:     app.NotificationInfo,
			Message:  "No city to save yet",
			Duration: app.QuickNotificationDuration,
		}
	}
}

func (m *Model) selectedPlace(places []models.Place) (models.Place, bool) {
	if m.selected < 0 || m.selected >= len(places) {
		return models.Place{}, false
	}
	return places[m.selected], true
}

func (m *Model) clampSelection(n int) {
	if m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

// Capturing reports whether a delete confirmation is pending.
func (m *Model) Capturing() bool {
	return m.confirmDelete
}

// SetSize sets the available size for the places tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.confirmDelete {
		return []key.Binding{m.keys.Yes, m.keys.No}
	}
	return []key.Binding{m.keys.Open, m.keys.Add, m.keys.Delete}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Open, m.keys.Add, m.keys.Delete},
		{m.keys.Up, m.keys.Down},
		{m.keys.Yes, m.keys.No},
	}
}
