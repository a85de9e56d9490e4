// Package location turns the device position into a city name, falling back
// to a default city when that is not possible.
package location

import (
	"context"
	"fmt"
	"strings"

	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/models"
)

// DefaultCity is used when no fallback is configured.
const DefaultCity = "Lagos"

// Device is the source of location permission and position.
type Device interface {
	RequestPermission(ctx context.Context) (models.PermissionStatus, error)
	CurrentPosition(ctx context.Context) (models.Coordinates, error)
}

// Geocoder maps coordinates to candidate addresses, best match first.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, c models.Coordinates) ([]models.Address, error)
}

// Resolver produces the city the app starts with.
type Resolver struct {
	device   Device
	geocoder Geocoder
	fallback string
}

// NewResolver creates a resolver. An empty fallback means DefaultCity.
func NewResolver(device Device, geocoder Geocoder, fallback string) *Resolver {
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		fallback = DefaultCity
	}
	return &Resolver{device: device, geocoder: geocoder, fallback: fallback}
}

// Fallback returns the default city.
func (r *Resolver) Fallback() string {
	return r.fallback
}

// Resolve makes exactly one attempt: permission, then position, then
// reverse geocoding. Any failure along the way yields the fallback city and
// an explanatory notice; it never returns an error.
func (r *Resolver) Resolve(ctx context.Context) models.Resolution {
	if r.device == nil {
		return r.fallbackResolution(models.ReasonDenied)
	}

	status, err := r.device.RequestPermission(ctx)
	if err != nil {
		logger.Warn("location permission request failed", "error", err)
		return r.fallbackResolution(models.ReasonDenied)
	}
	if status != models.PermissionGranted {
		logger.Info("location permission not granted", "status", status)
		return r.fallbackResolution(models.ReasonDenied)
	}

	pos, err := r.device.CurrentPosition(ctx)
	if err != nil {
		logger.Warn("could not read device position", "error", err)
		return r.fallbackResolution(models.ReasonUnknownCity)
	}

	if r.geocoder == nil {
		return r.fallbackResolution(models.ReasonUnknownCity)
	}

	addrs, err := r.geocoder.ReverseGeocode(ctx, pos)
	if err != nil {
		logger.Warn("reverse geocoding failed", "lat", pos.Lat, "lon", pos.Lon, "error", err)
		return r.fallbackResolution(models.ReasonUnknownCity)
	}
	if len(addrs) == 0 || strings.TrimSpace(addrs[0].City) == "" {
		return r.fallbackResolution(models.ReasonUnknownCity)
	}

	return models.Resolution{
		City:   strings.TrimSpace(addrs[0].City),
		Source: models.SourceDevice,
	}
}

func (r *Resolver) fallbackResolution(reason models.FallbackReason) models.Resolution {
	return models.Resolution{
		City:   r.fallback,
		Notice: ForecastNotice(reason, r.fallback),
		Source: models.SourceFallback,
		Reason: reason,
	}
}

// ForecastNotice is the wording used on the forecast screen.
func ForecastNotice(reason models.FallbackReason, city string) string {
	switch reason {
	case models.ReasonDenied:
		return fmt.Sprintf("Permission to access location was denied. Showing default forecast for %s.", city)
	case models.ReasonUnknownCity:
		return fmt.Sprintf("Could not determine city. Showing default forecast for %s.", city)
	default:
		return ""
	}
}

// HomeNotice is the wording used on the home screen.
func HomeNotice(reason models.FallbackReason) string {
	switch reason {
	case models.ReasonDenied:
		return "Permission to access location was denied. Please enable it in settings or search for a city."
	case models.ReasonUnknownCity:
		return "Could not determine city from your location. Please search."
	default:
		return ""
	}
}

// NormalizeQuery trims a search query. ok is false when nothing is left, in
// which case the search must be ignored.
func NormalizeQuery(q string) (city string, ok bool) {
	city = strings.TrimSpace(q)
	return city, city != ""
}
