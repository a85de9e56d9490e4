// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/services"
	"github.com/j-veylop/skycast/internal/services/alerts"
	"github.com/j-veylop/skycast/internal/services/location"
	"github.com/j-veylop/skycast/internal/services/places"
	"github.com/j-veylop/skycast/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabHome is the ID for the current conditions tab.
	TabHome TabID = iota
	// TabForecast is the ID for the multi-day forecast tab.
	TabForecast
	// TabPlaces is the ID for the saved places tab.
	TabPlaces
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabHome:
		return "Home"
	case TabForecast:
		return "Forecast"
	case TabPlaces:
		return "Places"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// Capturer is implemented by tabs that can hold keyboard focus, such as a
// search box. While Capturing reports true only ctrl+c is handled globally.
type Capturer interface {
	Capturing() bool
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1      key.Binding
	Tab2      key.Binding
	Tab3      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "home")),
		Tab2:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "forecast")),
		Tab3:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "places")),
		NextTab:   key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab/→", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab/←", "prev tab")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3},
		{k.NextTab, k.PrevTab},
		{k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	Content lipgloss.Style
	Toast   lipgloss.Style

	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)

	return s
}

// Model is the main application model.
type Model struct {
	// Tab management
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	// Shared state
	state    *State
	services *services.Manager
	keymap   KeyMap
	styles   Styles

	spinner spinner.Model

	width  int
	height int

	showHelp bool
	ready    bool

	// forecastStarted is set once the Forecast tab had its first fetch
	// cycle. Activating the tab again does not resolve the location again.
	forecastStarted bool

	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model. mgr may be nil in tests.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		activeTab: TabHome,
		tabNames:  []string{TabHome.String(), TabForecast.String(), TabPlaces.String()},
		tabs:      make([]Tab, 3),
		state:     NewState(),
		services:  mgr,
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init starts the Home fetch cycle. The Forecast cycle starts the first
// time its tab is shown.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds,
			subscribeToServicesCmd(m.services),
			loadPlacesCmd(m.services),
			loadFetchLogCmd(m.services),
			m.startResolve(TargetHome),
		)
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		cmds = append(cmds, m.updateAllTabs(msg)...)

	case tea.KeyMsg:
		if cmd, handled := m.handleKeyMsg(msg); handled {
			return m, cmd
		}
		if cmd := m.updateActiveTab(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, m.updateAllTabs(msg)...)

	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
		cmds = append(cmds, m.updateAllTabs(msg)...)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event))
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case LocationResolvedMsg:
		cmds = append(cmds, m.handleLocationResolved(msg)...)
	case SearchCityMsg:
		cmds = append(cmds, m.handleSearch(msg)...)
	case RefreshMsg:
		cmds = append(cmds, m.handleRefresh(msg)...)
	case ForecastLoadedMsg:
		cmds = append(cmds, m.handleForecastLoaded(msg)...)
	case CurrentLoadedMsg:
		cmds = append(cmds, m.handleCurrentLoaded(msg)...)
	case SavePlaceMsg:
		if m.services != nil {
			cmds = append(cmds, savePlaceCmd(m.services, msg.Name, msg.Country))
		}
	case DeletePlaceMsg:
		if m.services != nil {
			cmds = append(cmds, deletePlaceCmd(m.services, msg.ID))
		}
	case PlaceSavedMsg:
		cmds = append(cmds, m.handlePlaceSaved(msg))
	case PlaceDeletedMsg:
		cmds = append(cmds, m.handlePlaceDeleted(msg))
	case PlacesChangedMsg:
		m.state.SetPlaces(msg.Places)
	case FetchLogLoadedMsg:
		m.state.SetFetchLog(msg.Log)
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ErrorMsg:
		cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("%s: %v", msg.Context, msg.Error)))
	case TabSwitchMsg:
		cmds = append(cmds, m.activateTab(msg.Tab))
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

// startResolve begins a fetch cycle whose city comes from the resolver.
func (m *Model) startResolve(target Target) tea.Cmd {
	if m.services == nil {
		return nil
	}

	var cmds []tea.Cmd
	if target.Has(TargetHome) {
		gen := m.state.BeginHome("")
		cmds = append(cmds, resolveLocationCmd(m.services, TargetHome, gen))
	}
	if target.Has(TargetForecast) {
		m.forecastStarted = true
		gen := m.state.BeginForecast("")
		cmds = append(cmds, resolveLocationCmd(m.services, TargetForecast, gen))
	}
	m.state.SetLoadingNotification("Locating...")
	return tea.Batch(cmds...)
}

// startFetch begins a fetch cycle for a known city.
func (m *Model) startFetch(target Target, city string) []tea.Cmd {
	if m.services == nil {
		return nil
	}

	var cmds []tea.Cmd
	if target.Has(TargetHome) {
		gen := m.state.BeginHome(city)
		cmds = append(cmds, fetchCurrentCmd(m.services, gen, city))
	}
	if target.Has(TargetForecast) {
		m.forecastStarted = true
		gen := m.state.BeginForecast(city)
		cmds = append(cmds, fetchForecastCmd(m.services, gen, city))
	}
	m.state.SetLoadingNotification(fmt.Sprintf("Fetching weather for %s...", city))
	return cmds
}

func (m *Model) handleLocationResolved(msg LocationResolvedMsg) []tea.Cmd {
	res := msg.Resolution
	var cmds []tea.Cmd

	switch msg.Target {
	case TargetHome:
		notice := ""
		if res.Fallback() {
			notice = location.HomeNotice(res.Reason)
		}
		if !m.state.SetHomeCity(msg.Gen, res.City, notice, res.Reason) {
			return nil
		}
		if m.services != nil {
			cmds = append(cmds, fetchCurrentCmd(m.services, msg.Gen, res.City))
		}
		if notice != "" {
			cmds = append(cmds, notifyWarningCmd(notice))
		}

	case TargetForecast:
		if !m.state.SetForecastCity(msg.Gen, res.City, res.Notice) {
			return nil
		}
		if m.services != nil {
			cmds = append(cmds, fetchForecastCmd(m.services, msg.Gen, res.City))
		}
		if res.Notice != "" {
			cmds = append(cmds, notifyWarningCmd(res.Notice))
		}
	}

	m.state.SetLoadingNotification(fmt.Sprintf("Fetching weather for %s...", res.City))
	return cmds
}

func (m *Model) handleSearch(msg SearchCityMsg) []tea.Cmd {
	city, ok := location.NormalizeQuery(msg.City)
	if !ok || m.services == nil {
		return nil
	}

	source := msg.Source
	if source == "" {
		source = models.SourceSearch
	}

	cmds := m.startFetch(msg.Target, city)
	cmds = append(cmds, recordSearchCmd(m.services, city, source))
	return cmds
}

func (m *Model) handleRefresh(msg RefreshMsg) []tea.Cmd {
	var cmds []tea.Cmd

	if msg.Target.Has(TargetHome) {
		if city := m.state.Home().City; city != "" {
			cmds = append(cmds, m.startFetch(TargetHome, city)...)
		} else {
			cmds = append(cmds, m.startResolve(TargetHome))
		}
	}
	if msg.Target.Has(TargetForecast) {
		if city := m.state.Forecast().City; city != "" {
			cmds = append(cmds, m.startFetch(TargetForecast, city)...)
		} else {
			cmds = append(cmds, m.startResolve(TargetForecast))
		}
	}
	return cmds
}

func (m *Model) handleForecastLoaded(msg ForecastLoadedMsg) []tea.Cmd {
	var cmds []tea.Cmd

	if msg.Err != nil {
		if m.state.FailForecast(msg.Gen, msg.Err) {
			cmds = append(cmds, notifyErrorCmd(msg.Err.Error()))
		}
	} else if m.state.ApplyForecast(msg.Gen, msg.Result) && msg.Result != nil && msg.Result.DayCount == 0 {
		cmds = append(cmds, notifyInfoCmd(fmt.Sprintf("No forecast data for %s", msg.Result.City)))
	}

	return append(cmds, m.afterFetch()...)
}

func (m *Model) handleCurrentLoaded(msg CurrentLoadedMsg) []tea.Cmd {
	var cmds []tea.Cmd

	if msg.Err != nil {
		if m.state.FailHome(msg.Gen, msg.Err) {
			cmds = append(cmds, notifyErrorCmd(msg.Err.Error()))
		}
	} else {
		m.state.ApplyHome(msg.Gen, msg.Report)
	}

	return append(cmds, m.afterFetch()...)
}

func (m *Model) afterFetch() []tea.Cmd {
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
	if m.services == nil {
		return nil
	}
	return []tea.Cmd{loadFetchLogCmd(m.services)}
}

func (m *Model) handlePlaceSaved(msg PlaceSavedMsg) tea.Cmd {
	switch {
	case errors.Is(msg.Error, places.ErrDuplicate):
		return notifyWarningCmd(msg.Error.Error())
	case msg.Error != nil:
		return notifyErrorCmd(fmt.Sprintf("Failed to save place: %v", msg.Error))
	case msg.Place != nil:
		return notifySuccessCmd(fmt.Sprintf("Saved %s", msg.Place.Label()))
	}
	return nil
}

func (m *Model) handlePlaceDeleted(msg PlaceDeletedMsg) tea.Cmd {
	if msg.Error != nil {
		return notifyErrorCmd(fmt.Sprintf("Failed to delete place: %v", msg.Error))
	}
	return notifySuccessCmd("Place removed")
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.PlacesChangedEvent:
		return func() tea.Msg { return PlacesChangedMsg{Places: e.Places} }

	case services.AlertEvent:
		title, _ := alerts.Message(e.City, e.Days)
		return notifyWarningCmd(title)

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	return nil
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

// activateTab shows a tab. The Forecast tab resolves the location the first
// time it is shown.
func (m *Model) activateTab(id TabID) tea.Cmd {
	if id < 0 || int(id) >= len(m.tabs) {
		return nil
	}
	m.activeTab = id
	m.updateTabSizes()

	if id == TabForecast && !m.forecastStarted {
		return m.startResolve(TargetForecast)
	}
	return nil
}

func (m *Model) capturing() bool {
	if int(m.activeTab) >= len(m.tabs) || m.tabs[m.activeTab] == nil {
		return false
	}
	c, ok := m.tabs[m.activeTab].(Capturer)
	return ok && c.Capturing()
}

// handleKeyMsg handles global keys. It reports false when the key should be
// passed on to the active tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return tea.Quit, true
	}
	if m.capturing() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, m.keymap.Escape):
		if m.showHelp {
			m.showHelp = false
			return nil, true
		}

	case key.Matches(msg, m.keymap.Tab1):
		return m.activateTab(TabHome), true

	case key.Matches(msg, m.keymap.Tab2):
		return m.activateTab(TabForecast), true

	case key.Matches(msg, m.keymap.Tab3):
		return m.activateTab(TabPlaces), true

	case key.Matches(msg, m.keymap.NextTab):
		if m.showHelp || len(m.tabs) == 0 {
			return nil, true
		}
		return m.activateTab(TabID((int(m.activeTab) + 1) % len(m.tabs))), true

	case key.Matches(msg, m.keymap.PrevTab):
		if m.showHelp || len(m.tabs) == 0 {
			return nil, true
		}
		return m.activateTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs))), true
	}

	return nil, false
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

// updateAllTabs forwards data messages to every tab so hidden tabs stay in sync.
func (m *Model) updateAllTabs(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab == nil {
			continue
		}
		var cmd tea.Cmd
		m.tabs[i], cmd = tab.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-5)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		return m.overlayToasts(mainView, toasts)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := padLines(strings.Split(mainView, "\n"), m.height)
	overlayLines := strings.Split(overlay, "\n")

	y := max(0, (m.height-len(overlayLines))/2)
	x := max(0, (m.width-lipgloss.Width(overlay))/2)
	overlayWidth := lipgloss.Width(overlay)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

// padLines appends empty lines so overlays can be drawn below short content.
func padLines(lines []string, n int) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model) renderNavbar() string {
	tabs := make([]string, 0, len(m.tabNames))

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")

	startX := max(m.width-lipgloss.Width(toastStack)-2, 0)
	startY := 2
	mainLines := padLines(strings.Split(mainView, "\n"), min(m.height, startY+len(toastLines)))

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-mainLineWidth) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	lines := []string{
		m.styles.Title.Render("Keyboard Shortcuts"),
		"",
		m.styles.Highlight.Render("Navigation"),
		"  1-3        Switch tabs",
		"  Tab        Next tab",
		"  Shift+Tab  Previous tab",
		"",
		m.styles.Highlight.Render("General"),
		"  ?          Toggle help",
		"  q/Ctrl+C   Quit",
		"",
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		if tabHelp := m.tabs[m.activeTab].ShortHelp(); len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.tabNames[m.activeTab])))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.tabNames[m.activeTab],
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}
