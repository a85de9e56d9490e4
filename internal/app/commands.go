package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// fetchTimeout bounds one fetch cycle including time spent waiting on
	// the request limiter.
	fetchTimeout = 45 * time.Second

	resolveTimeout = 10 * time.Second

	fetchLogLimit = 8
	searchLimit   = 5
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// resolveLocationCmd asks the resolver for a city exactly once.
func resolveLocationCmd(mgr *services.Manager, target Target, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()

		res := mgr.Resolver().Resolve(ctx)
		mgr.RecordSearch(res.City, res.Source)
		return LocationResolvedMsg{Resolution: res, Target: target, Gen: gen}
	}
}

// fetchForecastCmd fetches and aggregates the forecast for city.
func fetchForecastCmd(mgr *services.Manager, gen uint64, city string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		result, err := mgr.Weather().Forecast(ctx, city)
		if err != nil {
			logger.Error("forecast fetch failed", "city", city, "gen", gen, "error", err)
			return ForecastLoadedMsg{Gen: gen, Err: err}
		}

		mgr.CheckAlerts(result.City, result.Days)
		return ForecastLoadedMsg{Gen: gen, Result: result}
	}
}

// fetchCurrentCmd fetches current conditions and hourly samples for city.
func fetchCurrentCmd(mgr *services.Manager, gen uint64, city string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		report, err := mgr.Weather().Current(ctx, city)
		if err != nil {
			logger.Error("current weather fetch failed", "city", city, "gen", gen, "error", err)
		}
		return CurrentLoadedMsg{Gen: gen, Report: report, Err: err}
	}
}

// recordSearchCmd stores a searched city off the update loop.
func recordSearchCmd(mgr *services.Manager, city string, source models.ResolutionSource) tea.Cmd {
	return func() tea.Msg {
		mgr.RecordSearch(city, source)
		return nil
	}
}

// loadPlacesCmd reads the saved places.
func loadPlacesCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return PlacesChangedMsg{Places: mgr.Places().List()}
	}
}

// loadFetchLogCmd reads the recent API activity from the database.
func loadFetchLogCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		database := mgr.Database()
		var log FetchLog

		records, err := database.RecentFetches(fetchLogLimit)
		if err != nil {
			logger.Error("failed to load fetch log", "error", err)
		}
		log.Records = records

		stats, err := database.GetFetchStats()
		if err != nil {
			logger.Error("failed to load fetch stats", "error", err)
		}
		log.Stats = stats

		searches, err := database.RecentSearches(searchLimit)
		if err != nil {
			logger.Error("failed to load recent searches", "error", err)
		}
		log.Searches = searches

		return FetchLogLoadedMsg{Log: log}
	}
}

// savePlaceCmd adds a city to the places file.
func savePlaceCmd(mgr *services.Manager, name, country string) tea.Cmd {
	return func() tea.Msg {
		place, err := mgr.Places().Add(name, country)
		return PlaceSavedMsg{Place: place, Error: err}
	}
}

// deletePlaceCmd removes a saved place.
func deletePlaceCmd(mgr *services.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		return PlaceDeletedMsg{ID: id, Error: mgr.Places().Remove(id)}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Search returns a command that starts a fetch cycle for city on target.
// Tabs use it so they do not need the service manager.
func Search(city string, source models.ResolutionSource, target Target) tea.Cmd {
	return func() tea.Msg {
		return SearchCityMsg{City: city, Source: source, Target: target}
	}
}

// Refresh returns a command that re-fetches the current city of target.
func Refresh(target Target) tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{Target: target}
	}
}

// SavePlace returns a command that requests saving a place.
func SavePlace(name, country string) tea.Cmd {
	return func() tea.Msg {
		return SavePlaceMsg{Name: name, Country: country}
	}
}

// DeletePlace returns a command that requests deleting a place.
func DeletePlace(id string) tea.Cmd {
	return func() tea.Msg {
		return DeletePlaceMsg{ID: id}
	}
}
