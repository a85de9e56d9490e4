package app

import (
	"time"

	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/services"
)

// Target selects which screens a fetch cycle feeds.
type Target uint8

// Fetch targets
const (
	TargetHome Target = 1 << iota
	TargetForecast

	TargetAll = TargetHome | TargetForecast
)

// Has reports whether t includes other.
func (t Target) Has(other Target) bool {
	return t&other != 0
}

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// LocationResolvedMsg carries the resolver outcome for one fetch cycle.
type LocationResolvedMsg struct {
	Resolution models.Resolution
	Target     Target
	Gen        uint64
}

// ForecastLoadedMsg carries the result of a forecast fetch.
type ForecastLoadedMsg struct {
	Err    error
	Result *models.ForecastResult
	Gen    uint64
}

// CurrentLoadedMsg carries the result of a current conditions fetch.
type CurrentLoadedMsg struct {
	Err    error
	Report *models.CurrentReport
	Gen    uint64
}

// SearchCityMsg starts a fetch cycle for an explicit city, skipping the resolver.
type SearchCityMsg struct {
	City   string
	Source models.ResolutionSource
	Target Target
}

// RefreshMsg re-runs the fetch for the current city of the targeted screens.
type RefreshMsg struct {
	Target Target
}

// SavePlaceMsg asks to save a city to the places file.
type SavePlaceMsg struct {
	Name    string
	Country string
}

// DeletePlaceMsg asks to remove a saved place by ID or name.
type DeletePlaceMsg struct {
	ID string
}

// PlaceSavedMsg contains the result of a save.
type PlaceSavedMsg struct {
	Error error
	Place *models.Place
}

// PlaceDeletedMsg contains the result of a delete.
type PlaceDeletedMsg struct {
	Error error
	ID    string
}

// PlacesChangedMsg is sent when the saved places list was reloaded.
type PlacesChangedMsg struct {
	Places []models.Place
}

// FetchLogLoadedMsg contains the recent API activity.
type FetchLogLoadedMsg struct {
	Log FetchLog
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
