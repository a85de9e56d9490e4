package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/services"
	"github.com/j-veylop/skycast/internal/services/location"
	"github.com/j-veylop/skycast/internal/services/places"
	"github.com/j-veylop/skycast/internal/services/weather"
)

type stubTab struct {
	name      string
	width     int
	height    int
	capturing bool
	received  []tea.Msg
}

func (s *stubTab) Init() tea.Cmd { return nil }

func (s *stubTab) Update(msg tea.Msg) (Tab, tea.Cmd) {
	s.received = append(s.received, msg)
	return s, nil
}

func (s *stubTab) View() string { return "content of " + s.name }

func (s *stubTab) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *stubTab) ShortHelp() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))}
}

func (s *stubTab) FullHelp() [][]key.Binding { return [][]key.Binding{s.ShortHelp()} }

func (s *stubTab) Capturing() bool { return s.capturing }

func (s *stubTab) got(match func(tea.Msg) bool) bool {
	for _, m := range s.received {
		if match(m) {
			return true
		}
	}
	return false
}

func newStubModel(mgr *services.Manager) (*Model, []*stubTab) {
	m := NewModel(mgr)
	stubs := []*stubTab{{name: "home"}, {name: "forecast"}, {name: "places"}}
	m.SetTabs([]Tab{stubs[0], stubs[1], stubs[2]})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, stubs
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestTabID_String(t *testing.T) {
	tests := []struct {
		id   TabID
		want string
	}{
		{TabHome, "Home"},
		{TabForecast, "Forecast"},
		{TabPlaces, "Places"},
		{TabID(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel(nil)

	if m.GetActiveTab() != TabHome {
		t.Errorf("active tab = %v, want Home", m.GetActiveTab())
	}
	if m.IsReady() {
		t.Error("model should not be ready before a window size")
	}
	if m.GetState() == nil {
		t.Error("state should be initialized")
	}
	if !strings.Contains(m.View(), "Loading...") {
		t.Error("view should show loading before the first window size")
	}
}

func TestModel_WindowSize(t *testing.T) {
	m, stubs := newStubModel(nil)

	if !m.IsReady() {
		t.Fatal("model should be ready")
	}
	for _, s := range stubs {
		if s.width != 100 || s.height != 35 {
			t.Errorf("%s size = %dx%d, want 100x35", s.name, s.width, s.height)
		}
	}
}

func TestModel_TabSwitching(t *testing.T) {
	m, _ := newStubModel(nil)

	tests := []struct {
		key  string
		want TabID
	}{
		{"2", TabForecast},
		{"3", TabPlaces},
		{"tab", TabHome},
		{"shift+tab", TabPlaces},
		{"1", TabHome},
	}

	for _, tt := range tests {
		m.Update(keyMsg(tt.key))
		if m.GetActiveTab() != tt.want {
			t.Errorf("after %q active = %v, want %v", tt.key, m.GetActiveTab(), tt.want)
		}
	}

	m.Update(TabSwitchMsg{Tab: TabForecast})
	if m.GetActiveTab() != TabForecast {
		t.Errorf("TabSwitchMsg: active = %v", m.GetActiveTab())
	}
	if !strings.Contains(m.View(), "content of forecast") {
		t.Error("view should render the active tab")
	}
}

func TestModel_Placeholder(t *testing.T) {
	m := NewModel(nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	if !strings.Contains(view, "Home") || !strings.Contains(view, "This tab is not available.") {
		t.Errorf("placeholder view = %q", view)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m, _ := newStubModel(nil)

	if _, cmd := m.Update(keyMsg("q")); !isQuit(cmd) {
		t.Error("q should quit")
	}
	if _, cmd := m.Update(keyMsg("ctrl+c")); !isQuit(cmd) {
		t.Error("ctrl+c should quit")
	}
}

func TestModel_CapturingTab(t *testing.T) {
	m, stubs := newStubModel(nil)
	stubs[0].capturing = true

	_, cmd := m.Update(keyMsg("q"))
	if isQuit(cmd) {
		t.Error("q must reach the tab while it captures input")
	}
	m.Update(keyMsg("2"))
	if m.GetActiveTab() != TabHome {
		t.Error("tab keys must reach the tab while it captures input")
	}
	if !stubs[0].got(func(msg tea.Msg) bool {
		k, ok := msg.(tea.KeyMsg)
		return ok && k.String() == "q"
	}) {
		t.Error("capturing tab should receive q")
	}

	if _, cmd := m.Update(keyMsg("ctrl+c")); !isQuit(cmd) {
		t.Error("ctrl+c should always quit")
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newStubModel(nil)

	m.Update(keyMsg("?"))
	view := m.View()
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("help overlay should be shown")
	}
	if !strings.Contains(view, "refresh") {
		t.Error("help should list the active tab bindings")
	}

	m.Update(keyMsg("esc"))
	if strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("esc should close help")
	}

	m.Update(ToggleHelpMsg{})
	if !m.showHelp {
		t.Error("ToggleHelpMsg should open help")
	}
}

func TestModel_KeysGoToActiveTabOnly(t *testing.T) {
	m, stubs := newStubModel(nil)

	m.Update(keyMsg("r"))

	isR := func(msg tea.Msg) bool {
		k, ok := msg.(tea.KeyMsg)
		return ok && k.String() == "r"
	}
	if !stubs[0].got(isR) {
		t.Error("active tab should receive the key")
	}
	if stubs[1].got(isR) || stubs[2].got(isR) {
		t.Error("inactive tabs must not receive keys")
	}
}

func TestModel_DataMessagesReachAllTabs(t *testing.T) {
	m, stubs := newStubModel(nil)

	m.Update(PlacesChangedMsg{Places: []models.Place{{Name: "Accra"}}})

	for _, s := range stubs {
		if !s.got(func(msg tea.Msg) bool { _, ok := msg.(PlacesChangedMsg); return ok }) {
			t.Errorf("%s did not receive PlacesChangedMsg", s.name)
		}
	}
	if got := m.GetState().Places(); len(got) != 1 || got[0].Name != "Accra" {
		t.Errorf("places = %+v", got)
	}
}

func TestModel_LocationResolvedHome(t *testing.T) {
	m, _ := newStubModel(nil)
	gen := m.state.BeginHome("")

	m.Update(LocationResolvedMsg{
		Target: TargetHome,
		Gen:    gen,
		Resolution: models.Resolution{
			City:   "Lagos",
			Source: models.SourceFallback,
			Reason: models.ReasonDenied,
			Notice: location.ForecastNotice(models.ReasonDenied, "Lagos"),
		},
	})

	h := m.state.Home()
	if h.City != "Lagos" {
		t.Errorf("City = %q", h.City)
	}
	if h.Notice != location.HomeNotice(models.ReasonDenied) {
		t.Errorf("home should use its own wording, got %q", h.Notice)
	}
}

func TestModel_LocationResolvedForecast(t *testing.T) {
	m, _ := newStubModel(nil)
	gen := m.state.BeginForecast("")
	notice := location.ForecastNotice(models.ReasonUnknownCity, "Lagos")

	m.Update(LocationResolvedMsg{
		Target: TargetForecast,
		Gen:    gen,
		Resolution: models.Resolution{
			City: "Lagos", Source: models.SourceFallback, Reason: models.ReasonUnknownCity, Notice: notice,
		},
	})

	f := m.state.Forecast()
	if f.City != "Lagos" || f.Notice != notice {
		t.Errorf("forecast state = %+v", f)
	}
	if !f.Loading {
		t.Error("the cycle is still loading until the forecast arrives")
	}
}

func TestModel_StaleForecastIgnored(t *testing.T) {
	m, _ := newStubModel(nil)

	old := m.state.BeginForecast("Lagos")
	current := m.state.BeginForecast("Accra")

	m.Update(ForecastLoadedMsg{Gen: old, Result: sampleResult("Lagos", 5)})
	if f := m.state.Forecast(); f.DayCount != 0 || !f.Loading || f.City != "Accra" {
		t.Errorf("stale result applied: %+v", f)
	}

	m.Update(ForecastLoadedMsg{Gen: current, Result: sampleResult("Accra", 3)})
	if f := m.state.Forecast(); f.DayCount != 3 || f.Loading {
		t.Errorf("current result not applied: %+v", f)
	}
}

func TestModel_ForecastError(t *testing.T) {
	m, _ := newStubModel(nil)
	gen := m.state.BeginForecast("Lagos")
	m.state.SetLoadingNotification("Fetching weather for Lagos...")

	m.Update(ForecastLoadedMsg{Gen: gen, Err: weather.ErrForecastFetch})

	f := m.state.Forecast()
	if f.Days != nil || f.DayCount != 0 || f.Loading {
		t.Errorf("failed forecast state = %+v", f)
	}
	if f.Error != "Failed to fetch forecast data." {
		t.Errorf("Error = %q", f.Error)
	}
	for _, n := range m.state.GetNotifications() {
		if n.ID == LoadingNotificationID {
			t.Error("loading notification should be cleared when nothing is in flight")
		}
	}
}

func TestModel_CurrentLoaded(t *testing.T) {
	m, _ := newStubModel(nil)
	gen := m.state.BeginHome("Lagos")

	m.Update(CurrentLoadedMsg{Gen: gen, Report: &models.CurrentReport{
		Current: &models.CurrentConditions{Location: "Lagos", Temperature: 28},
	}})
	if h := m.state.Home(); h.Current == nil || h.Loading {
		t.Errorf("home state = %+v", h)
	}

	gen = m.state.BeginHome("Lagos")
	m.Update(CurrentLoadedMsg{Gen: gen, Err: errors.New("Weather data not found.")})
	if h := m.state.Home(); h.Current != nil || h.Error != "Weather data not found." {
		t.Errorf("home state = %+v", h)
	}
}

func TestModel_ServerErrorEndToEnd(t *testing.T) {
	mgr := newTestManager(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	m, _ := newStubModel(mgr)

	m.Update(SearchCityMsg{City: " Lagos ", Target: TargetForecast})
	f := m.state.Forecast()
	if !f.Loading || f.City != "Lagos" {
		t.Fatalf("search should start a cycle: %+v", f)
	}

	m.Update(fetchForecastCmd(mgr, f.Generation, f.City)())

	f = m.state.Forecast()
	if f.Loading || f.Days != nil || f.DayCount != 0 {
		t.Errorf("state after 500 = %+v", f)
	}
	if f.Error != "Failed to fetch forecast data." {
		t.Errorf("Error = %q", f.Error)
	}
}

func TestModel_BlankSearchIgnored(t *testing.T) {
	mgr := newTestManager(t, nil)
	m, _ := newStubModel(mgr)
	before := m.state.Forecast()

	m.Update(SearchCityMsg{City: "   ", Target: TargetForecast})

	after := m.state.Forecast()
	if after.Generation != before.Generation || after.Loading != before.Loading {
		t.Errorf("blank search changed state: %+v", after)
	}
}

func TestModel_ForecastResolvesOnce(t *testing.T) {
	mgr := newTestManager(t, nil)
	m, _ := newStubModel(mgr)

	m.Update(keyMsg("2"))
	first := m.state.Forecast()
	if !first.Loading || first.Generation == 0 {
		t.Fatalf("first activation should start a cycle: %+v", first)
	}

	m.Update(keyMsg("1"))
	m.Update(keyMsg("2"))
	if got := m.state.Forecast().Generation; got != first.Generation {
		t.Errorf("second activation started a new cycle: %d != %d", got, first.Generation)
	}
}

func TestModel_RefreshUsesCurrentCity(t *testing.T) {
	mgr := newTestManager(t, nil)
	m, _ := newStubModel(mgr)

	gen := m.state.BeginForecast("Accra")
	m.state.ApplyForecast(gen, sampleResult("Accra", 2))

	m.Update(RefreshMsg{Target: TargetForecast})
	f := m.state.Forecast()
	if f.Generation == gen || !f.Loading || f.City != "Accra" {
		t.Errorf("refresh should start a new cycle for Accra: %+v", f)
	}
}

func TestModel_Notifications(t *testing.T) {
	m, _ := newStubModel(nil)

	m.Update(AddNotificationMsg{Type: NotificationSuccess, Message: "Saved Accra", Duration: DefaultNotificationDuration})
	notes := m.state.GetNotifications()
	if len(notes) != 1 {
		t.Fatalf("notifications = %+v", notes)
	}
	if !strings.Contains(m.View(), "Saved Accra") {
		t.Error("toast should be rendered")
	}

	m.Update(RemoveNotificationMsg{ID: notes[0].ID})
	if len(m.state.GetNotifications()) != 0 {
		t.Error("notification should be removed")
	}

	m.Update(ErrorMsg{Context: "places", Error: errors.New("disk full")})
}

func TestModel_HandlePlaceSaved(t *testing.T) {
	m := NewModel(nil)

	tests := []struct {
		name string
		msg  PlaceSavedMsg
		want NotificationType
	}{
		{"saved", PlaceSavedMsg{Place: &models.Place{Name: "Accra", Country: "GH"}}, NotificationSuccess},
		{"duplicate", PlaceSavedMsg{Error: fmt.Errorf("%w: Accra", places.ErrDuplicate)}, NotificationWarning},
		{"failed", PlaceSavedMsg{Error: errors.New("disk full")}, NotificationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := m.handlePlaceSaved(tt.msg)().(AddNotificationMsg)
			if msg.Type != tt.want {
				t.Errorf("type = %v, want %v", msg.Type, tt.want)
			}
		})
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	m := NewModel(nil)

	cmd := m.handleServiceEvent(services.PlacesChangedEvent{Places: []models.Place{{Name: "Accra"}}})
	if msg, ok := cmd().(PlacesChangedMsg); !ok || len(msg.Places) != 1 {
		t.Errorf("PlacesChangedEvent produced %+v", msg)
	}

	cmd = m.handleServiceEvent(services.AlertEvent{City: "Lagos", Days: []models.DailySummary{{IconCode: "11d"}}})
	if msg := cmd().(AddNotificationMsg); msg.Type != NotificationWarning || !strings.Contains(msg.Message, "Lagos") {
		t.Errorf("AlertEvent produced %+v", msg)
	}

	cmd = m.handleServiceEvent(services.ErrorEvent{Service: "places", Error: errors.New("bad json")})
	if msg := cmd().(AddNotificationMsg); msg.Type != NotificationError {
		t.Errorf("ErrorEvent produced %+v", msg)
	}
}
