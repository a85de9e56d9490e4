// Package alerts sends desktop notifications for severe weather days.
package alerts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/skycast/internal/forecast"
	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/models"
)

// NotifyFunc delivers a desktop notification.
type NotifyFunc func(title, message string, icon any) error

// Store remembers which alerts were already sent. MarkAlerted reports false
// for a city and date that was marked before.
type Store interface {
	MarkAlerted(city, date, icon string) (bool, error)
}

// Service notifies once per city and date when a forecast contains a
// thunderstorm or snow day.
type Service struct {
	mu      sync.Mutex
	store   Store
	notify  NotifyFunc
	sent    map[string]bool
	enabled bool
}

// New creates an alerts service. store may be nil, in which case
// deduplication only lasts for the lifetime of the process.
func New(store Store, enabled bool) *Service {
	return &Service{
		store:   store,
		notify:  beeep.Notify,
		sent:    make(map[string]bool),
		enabled: enabled,
	}
}

// SetNotifier replaces the notification sink.
func (s *Service) SetNotifier(fn NotifyFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// Enabled reports whether alerts are sent at all.
func (s *Service) Enabled() bool {
	return s.enabled
}

// Check notifies for every severe day not alerted before and returns those days.
func (s *Service) Check(city string, days []models.DailySummary) []models.DailySummary {
	if !s.enabled || strings.TrimSpace(city) == "" {
		return nil
	}

	var fresh []models.DailySummary
	for _, d := range days {
		if !d.IsSevere() {
			continue
		}
		if !s.mark(city, d) {
			continue
		}
		fresh = append(fresh, d)
	}

	if len(fresh) == 0 {
		return nil
	}

	title, body := Message(city, fresh)
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()
	if err := notify(title, body, ""); err != nil {
		logger.Warn("failed to send severe weather notification", "city", city, "error", err)
	}
	return fresh
}

func (s *Service) mark(city string, d models.DailySummary) bool {
	key := strings.ToLower(strings.TrimSpace(city)) + "|" + d.CalendarDate

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sent[key] {
		return false
	}
	s.sent[key] = true

	if s.store == nil {
		return true
	}
	isNew, err := s.store.MarkAlerted(city, d.CalendarDate, d.IconCode)
	if err != nil {
		logger.Error("failed to persist alert", "city", city, "date", d.CalendarDate, "error", err)
		return true
	}
	return isNew
}

// Message builds the notification title and body for severe days.
func Message(city string, days []models.DailySummary) (string, string) {
	title := fmt.Sprintf("Severe weather: %s", city)

	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, fmt.Sprintf("%s %s %s (%d°/%d°)",
			d.WeekdayLabel, forecast.Glyph(d.IconCode), d.Condition, d.LowTemp, d.HighTemp))
	}
	return title, strings.Join(parts, "\n")
}
