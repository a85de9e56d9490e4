// Package forecast provides the multi-day forecast tab.
package forecast

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/skycast/internal/app"
	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/ui/components"
	"github.com/j-veylop/skycast/internal/ui/styles"
)

// keyMap defines the key bindings specific to the forecast tab.
type keyMap struct {
	Filter  key.Binding
	Search  key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle day filter"),
		),
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
			key.WithHelp("↑/k", "previous day"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next day"),
		),
	}
}

// dayFilters are the row limits cycled by the filter key. Zero shows every day.
var dayFilters = []int{0, 3, 5, 7}

// Model represents the forecast tab state.
type Model struct {
	state    *app.State
	table    table.Model
	rangeBar components.RangeBar
	spinner  components.LoadingSpinner
	search   textinput.Model
	keys     keyMap
	width    int
	height   int

	filter    int
	searching bool
}

// New creates a new forecast model.
func New(state *app.State) *Model {
	t := table.New(
		table.WithColumns(columns(12)),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = styles.TableHeaderStyle
	s.Cell = styles.TableCellStyle
	s.Selected = styles.TableSelectedStyle
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "City name"
	ti.Prompt = "🔍 "
	ti.CharLimit = 80
	ti.PromptStyle = styles.InfoTextStyle

	return &Model{
		state:    state,
		table:    t,
		rangeBar: components.NewRangeBar(24),
		spinner:  components.NewSpinner("Fetching forecast..."),
		search:   ti,
		keys:     defaultKeyMap(),
	}
}

func columns(barWidth int) []table.Column {
	return []table.Column{
		{Title: "Day", Width: 10},
		{Title: "", Width: 3},
		{Title: "Condition", Width: 18},
		{Title: "Low/High", Width: 9},
		{Title: "Range", Width: barWidth},
	}
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the forecast tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m, m.handleSearchKey(msg)
		}
		return m, m.handleKeyMsg(msg)

	case app.ForecastLoadedMsg:
		m.updateTableData()
		m.table.GotoTop()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Filter):
		m.filter = (m.filter + 1) % len(dayFilters)
		m.updateTableData()
		return nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Reset()
		return m.search.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return app.Refresh(app.TargetForecast)

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		query := m.search.Value()
		m.closeSearch()
		return app.Search(query, models.SourceSearch, app.TargetForecast)

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

// Filter returns the active row limit. Zero means every day.
func (m *Model) Filter() int {
	return dayFilters[m.filter]
}

// SetSize sets the available size for the forecast tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	barWidth := min(max(width-64, 8), 30)
	cols := columns(barWidth)
	total := 0
	for _, c := range cols {
		total += c.Width + 2
	}
	m.table.SetColumns(cols)
	m.table.SetWidth(total)
	m.table.SetHeight(min(max(height-24, 4), 10))
	m.rangeBar.SetWidth(max(width-30, 10))
	m.search.Width = max(width-12, 20)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.searching {
		return []key.Binding{m.keys.Submit, m.keys.Cancel}
	}
	return []key.Binding{m.keys.Filter, m.keys.Search, m.keys.Refresh}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Filter, m.keys.Search, m.keys.Refresh},
		{m.keys.Submit, m.keys.Cancel},
		{m.keys.Up, m.keys.Down},
	}
}
