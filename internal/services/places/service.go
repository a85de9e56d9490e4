// Package places manages the saved places file with file watching and persistence.
package places

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/models"
)

// Errors returned by the places service.
var (
	ErrDuplicate = errors.New("place already saved")
	ErrNotFound  = errors.New("place not found")
	ErrEmptyName = errors.New("place name must not be empty")
)

// File represents the JSON file structure for places storage.
type File struct {
	Places  []models.Place `json:"places"`
	Version int            `json:"version,omitempty"`
}

// Event represents a places service event.
type Event struct {
	Error error
	Place *models.Place
	Type  EventType
}

// EventType defines the type of places event.
type EventType int

const (
	EventPlacesLoaded EventType = iota
	EventPlacesChanged
	EventPlaceAdded
	EventPlaceDeleted
	EventError
)

// Service manages saved places with file watching and change notifications.
type Service struct {
	mu            sync.RWMutex
	places        []models.Place
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New creates a places service and starts file watching. A missing file is
// created empty.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		return nil, errors.New("places file path must not be empty")
	}

	s := &Service{
		places:    make([]models.Place, 0),
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load places: %w", err)
		}
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("failed to create places file: %w", err)
		}
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventPlacesLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to place changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// List returns a copy of all saved places in insertion order.
func (s *Service) List() []models.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Place, len(s.places))
	copy(out, s.places)
	return out
}

// Count returns the number of saved places.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.places)
}

// Contains reports whether a city is already saved.
func (s *Service) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(name) >= 0
}

// Add saves a new place.
func (s *Service) Add(name, country string) (*models.Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(name) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, name)
	}

	place := models.Place{
		ID:      uuid.NewString(),
		Name:    name,
		Country: strings.TrimSpace(country),
		AddedAt: time.Now(),
	}
	next := append(slices.Clone(s.places), place)
	if err := s.saveLocked(next); err != nil {
		return nil, fmt.Errorf("failed to save places: %w", err)
	}
	s.places = next

	s.sendEvent(Event{Type: EventPlaceAdded, Place: &place})
	return &place, nil
}

// Remove deletes a place by ID or name.
func (s *Service) Remove(idOrName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.places {
		if p.ID == idOrName {
			idx = i
			break
		}
	}
	if idx == -1 {
		idx = s.indexLocked(idOrName)
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrNotFound, idOrName)
	}

	deleted := s.places[idx]
	next := slices.Delete(slices.Clone(s.places), idx, idx+1)
	if err := s.saveLocked(next); err != nil {
		return fmt.Errorf("failed to save places: %w", err)
	}
	s.places = next

	s.sendEvent(Event{Type: EventPlaceDeleted, Place: &deleted})
	return nil
}

func (s *Service) indexLocked(name string) int {
	for i, p := range s.places {
		if models.SameCity(p.Name, name) {
			return i
		}
	}
	return -1
}

// parse accepts the versioned file format and a bare array of places.
func parse(data []byte) ([]models.Place, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.Place{}, nil
	}

	var file File
	if err := json.Unmarshal(data, &file); err == nil {
		return normalize(file.Places), nil
	}

	var list []models.Place
	if err := json.Unmarshal(data, &list); err == nil {
		return normalize(list), nil
	}

	return nil, fmt.Errorf("failed to parse places file: invalid format")
}

// normalize drops nameless entries and fills in missing IDs.
func normalize(in []models.Place) []models.Place {
	out := make([]models.Place, 0, len(in))
	for _, p := range in {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		out = append(out, p)
	}
	return out
}

func (s *Service) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	places, err := parse(data)
	if err != nil {
		return err
	}

	s.places = places
	return nil
}

func (s *Service) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(s.places)
}

// saveLocked writes places to the file atomically (must hold lock).
func (s *Service) saveLocked(places []models.Place) error {
	data, err := json.MarshalIndent(File{Places: places, Version: 1}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal places: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher watches the directory so that atomic replacements are seen.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads places after an external change. Our own writes
// also land here; reloading them is harmless.
func (s *Service) handleFileChange() {
	select {
	case <-s.stopChan:
		return
	default:
	}

	if err := s.load(); err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	s.sendEvent(Event{Type: EventPlacesChanged})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
