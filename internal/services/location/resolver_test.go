package location

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/j-veylop/skycast/internal/models"
)

type stubGeocoder struct {
	addrs []models.Address
	err   error
	calls int
}

func (g *stubGeocoder) ReverseGeocode(_ context.Context, _ models.Coordinates) ([]models.Address, error) {
	g.calls++
	return g.addrs, g.err
}

func TestResolver_Resolve(t *testing.T) {
	granted := StaticDevice{Status: models.PermissionGranted, Position: models.Coordinates{Lat: 6.6, Lon: 3.35}}

	tests := []struct {
		name       string
		device     Device
		geocoder   *stubGeocoder
		wantCity   string
		wantSource models.ResolutionSource
		wantReason models.FallbackReason
		wantNotice string
	}{
		{
			name:       "Granted",
			device:     granted,
			geocoder:   &stubGeocoder{addrs: []models.Address{{City: "Ikeja"}, {City: "Lagos"}}},
			wantCity:   "Ikeja",
			wantSource: models.SourceDevice,
		},
		{
			name:       "Denied",
			device:     StaticDevice{Status: models.PermissionDenied},
			geocoder:   &stubGeocoder{},
			wantCity:   "Lagos",
			wantSource: models.SourceFallback,
			wantReason: models.ReasonDenied,
			wantNotice: "Permission to access location was denied. Showing default forecast for Lagos.",
		},
		{
			name:       "PermissionError",
			device:     StaticDevice{PermissionErr: errors.New("no provider")},
			geocoder:   &stubGeocoder{},
			wantCity:   "Lagos",
			wantSource: models.SourceFallback,
			wantReason: models.ReasonDenied,
			wantNotice: "Permission to access location was denied. Showing default forecast for Lagos.",
		},
		{
			name:       "EmptyAddressList",
			device:     granted,
			geocoder:   &stubGeocoder{addrs: []models.Address{}},
			wantCity:   "Lagos",
			wantSource: models.SourceFallback,
			wantReason: models.ReasonUnknownCity,
			wantNotice: "Could not determine city. Showing default forecast for Lagos.",
		},
		{
			name:       "AddressWithoutCity",
			device:     granted,
			geocoder:   &stubGeocoder{addrs: []models.Address{{Country: "NG"}}},
			wantCity:   "Lagos",
			wantSource: models.SourceFallback,
			wantReason: models.ReasonUnknownCity,
			wantNotice: "Could not determine city. Showing default forecast for Lagos.",
		},
		{
			name:       "GeocodeError",
			device:     granted,
			geocoder:   &stubGeocoder{err: errors.New("offline")},
			wantCity:   "Lagos",
			wantSource: models.SourceFallback,
			wantReason: models.ReasonUnknownCity,
			wantNotice: "Could not determine city. Showing default forecast for Lagos.",
		},
		{
			name:       "PositionError",
			device:     StaticDevice{Status: models.PermissionGranted, PositionErr: ErrNoPosition},
			geocoder:   &stubGeocoder{},
			wantCity:   "Lagos",
			wantSource: models.SourceFallback,
			wantReason: models.ReasonUnknownCity,
			wantNotice: "Could not determine city. Showing default forecast for Lagos.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.device, tt.geocoder, "")
			got := r.Resolve(context.Background())

			if got.City != tt.wantCity {
				t.Errorf("City = %q, want %q", got.City, tt.wantCity)
			}
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %v, want %v", got.Reason, tt.wantReason)
			}
			if got.Notice != tt.wantNotice {
				t.Errorf("Notice = %q, want %q", got.Notice, tt.wantNotice)
			}
			if got.Fallback() != (tt.wantReason != models.ReasonNone) {
				t.Error("Fallback() disagrees with Reason")
			}
			if tt.geocoder.calls > 1 {
				t.Errorf("geocoder called %d times, want at most once", tt.geocoder.calls)
			}
		})
	}
}

func TestResolver_DeniedSkipsGeocoder(t *testing.T) {
	g := &stubGeocoder{addrs: []models.Address{{City: "Ikeja"}}}
	r := NewResolver(StaticDevice{Status: models.PermissionDenied}, g, "Accra")

	got := r.Resolve(context.Background())
	if g.calls != 0 {
		t.Errorf("geocoder called %d times after denial", g.calls)
	}
	if got.City != "Accra" || r.Fallback() != "Accra" {
		t.Errorf("City = %q, want configured fallback Accra", got.City)
	}
	if got.Notice != "Permission to access location was denied. Showing default forecast for Accra." {
		t.Errorf("Notice = %q", got.Notice)
	}
}

func TestResolver_NilCollaborators(t *testing.T) {
	if got := NewResolver(nil, nil, "").Resolve(context.Background()); got.City != DefaultCity {
		t.Errorf("nil device City = %q", got.City)
	}

	r := NewResolver(StaticDevice{Status: models.PermissionGranted}, nil, "")
	if got := r.Resolve(context.Background()); got.Reason != models.ReasonUnknownCity {
		t.Errorf("nil geocoder Reason = %v", got.Reason)
	}
}

func TestHomeNotice(t *testing.T) {
	if HomeNotice(models.ReasonNone) != "" {
		t.Error("no reason should have no notice")
	}
	if got := HomeNotice(models.ReasonDenied); got != "Permission to access location was denied. Please enable it in settings or search for a city." {
		t.Errorf("denied notice = %q", got)
	}
	if got := HomeNotice(models.ReasonUnknownCity); got != "Could not determine city from your location. Please search." {
		t.Errorf("unknown city notice = %q", got)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"  Abuja ", "Abuja", true},
		{"New York", "New York", true},
		{"", "", false},
		{"   \t\n", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeQuery(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeQuery(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFileDevice(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name       string
		path       string
		wantStatus models.PermissionStatus
		wantErr    bool
		wantPosErr bool
		wantPos    models.Coordinates
	}{
		{"Missing", filepath.Join(dir, "missing.json"), models.PermissionDenied, false, true, models.Coordinates{}},
		{"Granted", write("granted.json", `{"permission":"granted","latitude":6.45,"longitude":3.38}`), models.PermissionGranted, false, false, models.Coordinates{Lat: 6.45, Lon: 3.38}},
		{"Implicit", write("implicit.json", `{"latitude":1,"longitude":2}`), models.PermissionGranted, false, false, models.Coordinates{Lat: 1, Lon: 2}},
		{"Denied", write("denied.json", `{"permission":"DENIED"}`), models.PermissionDenied, false, true, models.Coordinates{}},
		{"NoCoords", write("nocoords.json", `{"permission":"granted"}`), models.PermissionGranted, false, true, models.Coordinates{}},
		{"Garbage", write("garbage.json", `{{`), models.PermissionUndetermined, true, true, models.Coordinates{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewFileDevice(tt.path)

			status, err := d.RequestPermission(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequestPermission() error = %v, wantErr %v", err, tt.wantErr)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}

			pos, err := d.CurrentPosition(context.Background())
			if (err != nil) != tt.wantPosErr {
				t.Fatalf("CurrentPosition() error = %v, wantErr %v", err, tt.wantPosErr)
			}
			if err != nil && !errors.Is(err, ErrNoPosition) {
				t.Errorf("position error %v should match ErrNoPosition", err)
			}
			if pos != tt.wantPos {
				t.Errorf("pos = %+v, want %+v", pos, tt.wantPos)
			}
		})
	}
}

func TestFileDevice_EmptyPath(t *testing.T) {
	status, err := NewFileDevice("").RequestPermission(context.Background())
	if err != nil || status != models.PermissionDenied {
		t.Errorf("empty path = %q, %v; want denied", status, err)
	}
}
