// Package services provides service orchestration for the TUI.
package services

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/skycast/internal/config"
	"github.com/j-veylop/skycast/internal/db"
	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/services/alerts"
	"github.com/j-veylop/skycast/internal/services/location"
	"github.com/j-veylop/skycast/internal/services/places"
	"github.com/j-veylop/skycast/internal/services/weather"
)

type (
	// PlacesChangedEvent is emitted when the saved places list changes.
	PlacesChangedEvent struct {
		Places []models.Place
	}

	// AlertEvent is emitted when a severe weather notification was sent.
	AlertEvent struct {
		City string
		Days []models.DailySummary
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (PlacesChangedEvent) isServiceEvent() {}
func (AlertEvent) isServiceEvent()         {}
func (ErrorEvent) isServiceEvent()         {}

// logRetentionDays is how long fetch log and search history rows are kept.
const logRetentionDays = 30

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	places      *places.Service
	weather     *weather.Service
	resolver    *location.Resolver
	alerts      *alerts.Service
	database    *db.DB
	stopChan    chan struct{}
	subscribers []chan ServiceEvent
	closeOnce   sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		stopChan: make(chan struct{}),
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if n, err := m.database.Prune(logRetentionDays); err != nil {
		logger.Warn("failed to prune fetch log", "error", err)
	} else if n > 0 {
		logger.Debug("pruned fetch log", "rows", n)
	}

	m.places, err = places.New(cfg.PlacesPath)
	if err != nil {
		_ = m.database.Close()
		return nil, err
	}

	m.weather = weather.New(weather.Config{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	}, m.database)

	m.resolver = location.NewResolver(location.NewFileDevice(cfg.LocationPath), m.database, cfg.DefaultCity)
	m.alerts = alerts.New(m.database, cfg.SevereAlerts)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.places.Events():
			m.handlePlacesEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handlePlacesEvent converts and broadcasts places events.
func (m *Manager) handlePlacesEvent(event places.Event) {
	switch event.Type {
	case places.EventPlacesLoaded, places.EventPlacesChanged,
		places.EventPlaceAdded, places.EventPlaceDeleted:

		m.broadcast(PlacesChangedEvent{Places: m.places.List()})

	case places.EventError:
		m.broadcast(ErrorEvent{
			Service: "places",
			Error:   event.Error,
		})
	}
}

// CheckAlerts sends severe weather notifications for a fetched forecast.
func (m *Manager) CheckAlerts(city string, days []models.DailySummary) {
	if fresh := m.alerts.Check(city, days); len(fresh) > 0 {
		m.broadcast(AlertEvent{City: city, Days: fresh})
	}
}

// RecordSearch stores a city in the search history. Failures are logged only.
func (m *Manager) RecordSearch(city string, source models.ResolutionSource) {
	if err := m.database.RecordSearch(city, source); err != nil {
		logger.Error("failed to record search", "city", city, "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Places returns the saved places service.
func (m *Manager) Places() *places.Service {
	return m.places
}

// Weather returns the weather service.
func (m *Manager) Weather() *weather.Service {
	return m.weather
}

// Resolver returns the location resolver.
func (m *Manager) Resolver() *location.Resolver {
	return m.resolver
}

// Alerts returns the severe weather alerts service.
func (m *Manager) Alerts() *alerts.Service {
	return m.alerts
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		if m.stopChan != nil {
			close(m.stopChan)
		}

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.places != nil {
			if err := m.places.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
