// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/skycast/internal/db"
	"github.com/j-veylop/skycast/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// ForecastState is what the Forecast tab renders for the latest fetch cycle.
type ForecastState struct {
	UpdatedAt  time.Time
	City       string
	Error      string
	Notice     string
	Days       []models.DailySummary
	DayCount   int
	Generation uint64
	Loading    bool
}

// HomeState is what the Home tab renders for the latest fetch cycle.
type HomeState struct {
	UpdatedAt  time.Time
	Current    *models.CurrentConditions
	City       string
	Error      string
	Notice     string
	Hourly     []models.HourlySample
	Reason     models.FallbackReason
	Generation uint64
	Loading    bool
}

// FetchLog is the recent API activity shown on the Places tab.
type FetchLog struct {
	Stats    *db.FetchStats
	Records  []models.FetchRecord
	Searches []models.SearchRecord
}

// State is shared between the root model and the tabs. Every fetch cycle
// gets a generation number; results carrying an older generation are
// dropped so only the most recent request can change what is shown.
type State struct {
	mu sync.RWMutex

	forecast ForecastState
	home     HomeState
	places   []models.Place
	fetchLog FetchLog

	lastGen uint64

	notifications []Notification
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		places:        make([]models.Place, 0),
		notifications: make([]Notification, 0),
	}
}

func (s *State) nextGen() uint64 {
	s.lastGen++
	return s.lastGen
}

// BeginForecast starts a new forecast cycle and returns its generation.
// city may be empty while the location is still being resolved.
func (s *State) BeginForecast(city string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := s.nextGen()
	s.forecast.Generation = gen
	s.forecast.Loading = true
	s.forecast.Error = ""
	s.forecast.Notice = ""
	if city != "" {
		s.forecast.City = city
	}
	return gen
}

// SetForecastCity records the resolved city of a forecast cycle.
func (s *State) SetForecastCity(gen uint64, city, notice string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.forecast.Generation {
		return false
	}
	s.forecast.City = city
	s.forecast.Notice = notice
	return true
}

// ApplyForecast replaces the forecast days with the result of cycle gen.
// It reports false when gen is stale.
func (s *State) ApplyForecast(gen uint64, result *models.ForecastResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.forecast.Generation {
		return false
	}

	s.forecast.Loading = false
	s.forecast.Error = ""
	s.forecast.UpdatedAt = time.Now()
	if result == nil {
		s.forecast.Days = nil
		s.forecast.DayCount = 0
		return true
	}

	s.forecast.City = result.City
	s.forecast.Days = result.Days
	s.forecast.DayCount = result.DayCount
	return true
}

// FailForecast clears the forecast and records the error of cycle gen.
func (s *State) FailForecast(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.forecast.Generation {
		return false
	}

	s.forecast.Loading = false
	s.forecast.Days = nil
	s.forecast.DayCount = 0
	if err != nil {
		s.forecast.Error = err.Error()
	}
	return true
}

// Forecast returns a copy of the forecast state.
func (s *State) Forecast() ForecastState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := s.forecast
	if f.Days != nil {
		f.Days = append([]models.DailySummary(nil), f.Days...)
	}
	return f
}

// BeginHome starts a new home cycle and returns its generation.
func (s *State) BeginHome(city string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := s.nextGen()
	s.home.Generation = gen
	s.home.Loading = true
	s.home.Error = ""
	s.home.Notice = ""
	s.home.Reason = models.ReasonNone
	if city != "" {
		s.home.City = city
	}
	return gen
}

// SetHomeCity records the resolved city of a home cycle.
func (s *State) SetHomeCity(gen uint64, city, notice string, reason models.FallbackReason) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.home.Generation {
		return false
	}
	s.home.City = city
	s.home.Notice = notice
	s.home.Reason = reason
	return true
}

// ApplyHome replaces the current conditions with the result of cycle gen.
func (s *State) ApplyHome(gen uint64, report *models.CurrentReport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.home.Generation {
		return false
	}

	s.home.Loading = false
	s.home.Error = ""
	s.home.UpdatedAt = time.Now()
	if report == nil {
		s.home.Current = nil
		s.home.Hourly = nil
		return true
	}

	s.home.Current = report.Current
	s.home.Hourly = report.Hourly
	return true
}

// FailHome clears the current conditions and records the error of cycle gen.
func (s *State) FailHome(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.home.Generation {
		return false
	}

	s.home.Loading = false
	s.home.Current = nil
	s.home.Hourly = nil
	if err != nil {
		s.home.Error = err.Error()
	}
	return true
}

// Home returns a copy of the home state.
func (s *State) Home() HomeState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.home
	if h.Hourly != nil {
		h.Hourly = append([]models.HourlySample(nil), h.Hourly...)
	}
	return h
}

// AnyLoading returns true if either screen has a fetch in flight.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forecast.Loading || s.home.Loading
}

// SetPlaces replaces the saved places list.
func (s *State) SetPlaces(places []models.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.places = places
}

// Places returns a copy of the saved places.
func (s *State) Places() []models.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()

	places := make([]models.Place, len(s.places))
	copy(places, s.places)
	return places
}

// SetFetchLog updates the recent API activity.
func (s *State) SetFetchLog(log FetchLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchLog = log
}

// FetchLog returns the recent API activity.
func (s *State) FetchLog() FetchLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchLog
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification := Notification{
		ID:        uuid.NewString(),
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return notification.ID
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}
