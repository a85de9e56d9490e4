package places

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	placesPath := filepath.Join(t.TempDir(), "places.json")

	svc, err := New(placesPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})

	return svc, placesPath
}

func TestNew(t *testing.T) {
	svc, placesPath := newTestService(t)

	if _, err := os.Stat(placesPath); err != nil {
		t.Errorf("places file was not created: %v", err)
	}
	if svc.Count() != 0 {
		t.Errorf("Count() = %d, want 0", svc.Count())
	}

	select {
	case ev := <-svc.Events():
		if ev.Type != EventPlacesLoaded {
			t.Errorf("first event = %v, want EventPlacesLoaded", ev.Type)
		}
	default:
		t.Error("expected a loaded event")
	}
}

func TestNew_EmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("New(\"\") should fail")
	}
}

func TestAdd(t *testing.T) {
	svc, _ := newTestService(t)

	place, err := svc.Add("  Lagos ", "NG")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if place.ID == "" {
		t.Error("Add() should assign an ID")
	}
	if place.Name != "Lagos" {
		t.Errorf("Name = %q, want trimmed", place.Name)
	}
	if place.AddedAt.IsZero() {
		t.Error("AddedAt should be set")
	}
	if !svc.Contains("lagos") {
		t.Error("Contains() should match case-insensitively")
	}
}

func TestAdd_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Add("   ", ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Add(blank) error = %v, want ErrEmptyName", err)
	}

	if _, err := svc.Add("Accra", "GH"); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if _, err := svc.Add("ACCRA", ""); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Add(duplicate) error = %v, want ErrDuplicate", err)
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want 1", svc.Count())
	}
}

func TestRemove(t *testing.T) {
	svc, _ := newTestService(t)

	lagos, _ := svc.Add("Lagos", "NG")
	_, _ = svc.Add("Accra", "GH")
	_, _ = svc.Add("Nairobi", "KE")

	if err := svc.Remove(lagos.ID); err != nil {
		t.Fatalf("Remove(id) failed: %v", err)
	}
	if err := svc.Remove("nairobi"); err != nil {
		t.Fatalf("Remove(name) failed: %v", err)
	}
	if err := svc.Remove("Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(missing) error = %v, want ErrNotFound", err)
	}

	list := svc.List()
	if len(list) != 1 || list[0].Name != "Accra" {
		t.Errorf("List() = %+v, want only Accra", list)
	}
}

func TestSaveFailure_KeepsList(t *testing.T) {
	svc, placesPath := newTestService(t)

	_, _ = svc.Add("Lagos", "NG")
	_, _ = svc.Add("Accra", "GH")
	_, _ = svc.Add("Nairobi", "KE")

	// A directory where the temp file goes makes every save fail.
	if err := os.Mkdir(placesPath+".tmp", 0o750); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	if err := svc.Remove("Lagos"); err == nil {
		t.Fatal("Remove() should fail when the file cannot be written")
	}
	if _, err := svc.Add("Abuja", "NG"); err == nil {
		t.Fatal("Add() should fail when the file cannot be written")
	}

	want := []string{"Lagos", "Accra", "Nairobi"}
	list := svc.List()
	if len(list) != len(want) {
		t.Fatalf("List() = %+v, want %v", list, want)
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("List()[%d] = %s, want %s", i, list[i].Name, name)
		}
	}
}

func TestList_IsCopy(t *testing.T) {
	svc, _ := newTestService(t)
	_, _ = svc.Add("Lagos", "NG")

	list := svc.List()
	list[0].Name = "Mutated"

	if svc.List()[0].Name != "Lagos" {
		t.Error("List() must return a copy")
	}
}

func TestPersistence(t *testing.T) {
	placesPath := filepath.Join(t.TempDir(), "places.json")

	svc, err := New(placesPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	_, _ = svc.Add("Lagos", "NG")
	_, _ = svc.Add("Accra", "GH")
	_ = svc.Close()

	reopened, err := New(placesPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	list := reopened.List()
	if len(list) != 2 || list[0].Name != "Lagos" || list[1].Name != "Accra" {
		t.Errorf("reloaded places = %+v", list)
	}
}

func TestFileFormat(t *testing.T) {
	svc, placesPath := newTestService(t)
	_, _ = svc.Add("Lagos", "NG")

	data, err := os.ReadFile(placesPath)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("file is not valid JSON: %v", err)
	}
	if f.Version != 1 || len(f.Places) != 1 {
		t.Errorf("file = %+v", f)
	}
	if _, err := os.Stat(placesPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not remain")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{"Versioned", `{"places":[{"id":"1","name":"Lagos"}],"version":1}`, 1, false},
		{"BareArray", `[{"name":"Lagos"},{"name":"Accra"}]`, 2, false},
		{"DropsNameless", `[{"name":"Lagos"},{"name":"  "}]`, 1, false},
		{"Empty", ``, 0, false},
		{"Invalid", `not json`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parse([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("parse() len = %d, want %d", len(got), tt.want)
			}
			for _, p := range got {
				if p.ID == "" {
					t.Error("parse() should fill missing IDs")
				}
			}
		})
	}
}

func TestWatchFileChange(t *testing.T) {
	svc, placesPath := newTestService(t)

	// Drain the initial load event
	<-svc.Events()

	content := []byte(`{"places":[{"id":"w-1","name":"Kigali","country":"RW"}],"version":1}`)
	if err := os.WriteFile(placesPath, content, 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-svc.Events():
			if event.Type != EventPlacesChanged {
				continue
			}
			list := svc.List()
			if len(list) != 1 || list[0].Name != "Kigali" {
				t.Errorf("places after reload = %+v", list)
			}
			return
		case <-timeout:
			t.Fatal("timeout waiting for EventPlacesChanged")
		}
	}
}

func TestHandleFileChange_Error(t *testing.T) {
	svc, placesPath := newTestService(t)
	<-svc.Events()

	if err := os.WriteFile(placesPath, []byte("{{{"), 0o600); err != nil {
		t.Fatal(err)
	}
	svc.handleFileChange()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-svc.Events():
			if event.Type == EventError {
				if event.Error == nil {
					t.Error("error event without error")
				}
				return
			}
		case <-timeout:
			t.Fatal("timeout waiting for EventError")
		}
	}
}

func TestSendEvent_Full(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 150; i++ {
		svc.sendEvent(Event{Type: EventPlacesChanged})
	}
	if len(svc.eventChan) != cap(svc.eventChan) {
		t.Errorf("channel len = %d, want full", len(svc.eventChan))
	}
}

func TestClose_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}
