package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/j-veylop/skycast/internal/models"
)

func sampleResult(city string, n int) *models.ForecastResult {
	days := make([]models.DailySummary, n)
	for i := range days {
		days[i] = models.DailySummary{CalendarDate: fmt.Sprintf("2024-05-%02d", i+1), HighTemp: 26, LowTemp: 20}
	}
	return &models.ForecastResult{City: city, Days: days, DayCount: n}
}

func TestNewState(t *testing.T) {
	s := NewState()
	if s.places == nil || s.notifications == nil {
		t.Error("NewState should initialize slices")
	}
	if s.AnyLoading() {
		t.Error("new state should not be loading")
	}
}

func TestState_ForecastCycle(t *testing.T) {
	s := NewState()

	gen := s.BeginForecast("Lagos")
	f := s.Forecast()
	if !f.Loading || f.City != "Lagos" || f.Generation != gen {
		t.Fatalf("after BeginForecast: %+v", f)
	}

	if !s.ApplyForecast(gen, sampleResult("Lagos", 3)) {
		t.Fatal("ApplyForecast should accept the current generation")
	}
	f = s.Forecast()
	if f.Loading || f.Error != "" || f.DayCount != 3 || len(f.Days) != 3 {
		t.Errorf("after ApplyForecast: %+v", f)
	}
	if f.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
}

func TestState_FailForecast(t *testing.T) {
	s := NewState()

	gen := s.BeginForecast("Lagos")
	s.ApplyForecast(gen, sampleResult("Lagos", 5))

	gen = s.BeginForecast("Lagos")
	if !s.FailForecast(gen, errors.New("Failed to fetch forecast data.")) {
		t.Fatal("FailForecast should accept the current generation")
	}

	f := s.Forecast()
	if f.Loading {
		t.Error("Loading should be false after failure")
	}
	if f.Days != nil || f.DayCount != 0 {
		t.Errorf("failure should clear days, got %d days, count %d", len(f.Days), f.DayCount)
	}
	if f.Error != "Failed to fetch forecast data." {
		t.Errorf("Error = %q", f.Error)
	}
}

func TestState_StaleGenerationDropped(t *testing.T) {
	s := NewState()

	first := s.BeginForecast("Lagos")
	second := s.BeginForecast("Abuja")

	if s.ApplyForecast(first, sampleResult("Lagos", 5)) {
		t.Error("stale ApplyForecast should be rejected")
	}
	if s.FailForecast(first, errors.New("late")) {
		t.Error("stale FailForecast should be rejected")
	}
	if s.SetForecastCity(first, "Lagos", "notice") {
		t.Error("stale SetForecastCity should be rejected")
	}

	f := s.Forecast()
	if !f.Loading || f.City != "Abuja" || f.Error != "" {
		t.Errorf("stale results must not touch state: %+v", f)
	}

	if !s.ApplyForecast(second, sampleResult("Abuja", 2)) {
		t.Fatal("latest generation should be applied")
	}
	if got := s.Forecast(); got.City != "Abuja" || got.DayCount != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestState_GenerationsAreShared(t *testing.T) {
	s := NewState()

	home := s.BeginHome("Lagos")
	fc := s.BeginForecast("Lagos")
	if home == fc {
		t.Error("home and forecast cycles should get distinct generations")
	}
	if s.ApplyForecast(home, sampleResult("Lagos", 1)) {
		t.Error("a home generation must not apply to the forecast")
	}
}

func TestState_BeginClearsErrorAndNotice(t *testing.T) {
	s := NewState()

	gen := s.BeginForecast("")
	s.SetForecastCity(gen, "Lagos", "Could not determine city. Showing default forecast for Lagos.")
	s.FailForecast(gen, errors.New("boom"))

	s.BeginForecast("Accra")
	f := s.Forecast()
	if f.Error != "" || f.Notice != "" {
		t.Errorf("BeginForecast should clear error and notice: %+v", f)
	}
	if f.City != "Accra" {
		t.Errorf("City = %q, want Accra", f.City)
	}
}

func TestState_ApplyForecastNil(t *testing.T) {
	s := NewState()
	gen := s.BeginForecast("Lagos")
	s.ApplyForecast(gen, sampleResult("Lagos", 2))

	gen = s.BeginForecast("Lagos")
	if !s.ApplyForecast(gen, nil) {
		t.Fatal("ApplyForecast(nil) should be accepted")
	}
	if f := s.Forecast(); f.DayCount != 0 || f.Days != nil {
		t.Errorf("nil result should clear days: %+v", f)
	}
}

func TestState_ForecastReturnsCopy(t *testing.T) {
	s := NewState()
	gen := s.BeginForecast("Lagos")
	s.ApplyForecast(gen, sampleResult("Lagos", 2))

	f := s.Forecast()
	f.Days[0].HighTemp = 99

	if s.Forecast().Days[0].HighTemp == 99 {
		t.Error("Forecast() should return a copy of the days")
	}
}

func TestState_HomeCycle(t *testing.T) {
	s := NewState()

	gen := s.BeginHome("")
	if !s.SetHomeCity(gen, "Lagos", "Permission to access location was denied.", models.ReasonDenied) {
		t.Fatal("SetHomeCity should accept the current generation")
	}

	report := &models.CurrentReport{
		Current: &models.CurrentConditions{Location: "Lagos", Temperature: 28.4},
		Hourly:  []models.HourlySample{{Timestamp: "2024-05-01 12:00:00"}},
	}
	if !s.ApplyHome(gen, report) {
		t.Fatal("ApplyHome should accept the current generation")
	}

	h := s.Home()
	if h.Loading || h.Current == nil || len(h.Hourly) != 1 {
		t.Errorf("after ApplyHome: %+v", h)
	}
	if h.Reason != models.ReasonDenied || h.Notice == "" {
		t.Errorf("notice should survive the fetch: %+v", h)
	}

	gen = s.BeginHome("Lagos")
	if h := s.Home(); h.Reason != models.ReasonNone || h.Notice != "" {
		t.Errorf("BeginHome should reset the notice: %+v", h)
	}

	if !s.FailHome(gen, errors.New("Weather data not found.")) {
		t.Fatal("FailHome should accept the current generation")
	}
	h = s.Home()
	if h.Current != nil || h.Hourly != nil || h.Error != "Weather data not found." || h.Loading {
		t.Errorf("after FailHome: %+v", h)
	}
}

func TestState_HomeStale(t *testing.T) {
	s := NewState()
	old := s.BeginHome("Lagos")
	s.BeginHome("Accra")

	if s.ApplyHome(old, &models.CurrentReport{}) || s.FailHome(old, errors.New("x")) {
		t.Error("stale home results should be rejected")
	}
	if s.SetHomeCity(old, "Lagos", "", models.ReasonNone) {
		t.Error("stale SetHomeCity should be rejected")
	}
}

func TestState_PlacesAndFetchLog(t *testing.T) {
	s := NewState()

	s.SetPlaces([]models.Place{{Name: "Accra"}})
	places := s.Places()
	places[0].Name = "changed"
	if s.Places()[0].Name != "Accra" {
		t.Error("Places() should return a copy")
	}

	s.SetFetchLog(FetchLog{Records: []models.FetchRecord{{City: "Lagos"}}})
	if len(s.FetchLog().Records) != 1 {
		t.Error("FetchLog not stored")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		n    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.n.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNotification_IsExpired(t *testing.T) {
	n := Notification{CreatedAt: time.Now().Add(-time.Minute), Duration: time.Second}
	if !n.IsExpired() {
		t.Error("notification should be expired")
	}

	n.Duration = 0
	if n.IsExpired() {
		t.Error("zero duration never expires")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "hello", time.Minute)
	if id == "" {
		t.Fatal("AddNotification returned empty id")
	}
	other := s.AddNotification(NotificationInfo, "world", time.Minute)
	if other == id {
		t.Error("notification ids should be unique")
	}

	s.RemoveNotification(id)
	if got := s.GetNotifications(); len(got) != 1 || got[0].Message != "world" {
		t.Errorf("notifications = %+v", got)
	}

	for i := 0; i < 15; i++ {
		s.AddNotification(NotificationInfo, "spam", time.Minute)
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("notifications capped at %d, got %d", maxNotifications, got)
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()
	s.AddNotification(NotificationInfo, "gone", time.Nanosecond)
	s.AddNotification(NotificationInfo, "stays", 0)

	time.Sleep(time.Millisecond)
	s.ClearExpiredNotifications()

	got := s.GetNotifications()
	if len(got) != 1 || got[0].Message != "stays" {
		t.Errorf("notifications = %+v", got)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Locating...")
	s.SetLoadingNotification("Fetching weather for Lagos...")

	got := s.GetNotifications()
	if len(got) != 1 || got[0].ID != LoadingNotificationID || got[0].Message != "Fetching weather for Lagos..." {
		t.Errorf("loading notification = %+v", got)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification should be removed")
	}
}
