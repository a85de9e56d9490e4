package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/j-veylop/skycast/internal/models"
)

// ErrNoPosition is returned when the device has no usable position.
var ErrNoPosition = errors.New("device position unavailable")

// FileDevice reads the permission and position from a JSON file such as
//
//	{"permission": "granted", "latitude": 6.45, "longitude": 3.38}
//
// A missing file means permission was never granted.
type FileDevice struct {
	path string
}

type deviceFile struct {
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Permission string   `json:"permission"`
}

// NewFileDevice creates a device backed by path.
func NewFileDevice(path string) *FileDevice {
	return &FileDevice{path: path}
}

func (d *FileDevice) read() (*deviceFile, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, err
	}
	var f deviceFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse location file: %w", err)
	}
	return &f, nil
}

// RequestPermission reports the permission recorded in the file. An omitted
// permission field counts as granted.
func (d *FileDevice) RequestPermission(_ context.Context) (models.PermissionStatus, error) {
	if d.path == "" {
		return models.PermissionDenied, nil
	}

	f, err := d.read()
	if errors.Is(err, os.ErrNotExist) {
		return models.PermissionDenied, nil
	}
	if err != nil {
		return models.PermissionUndetermined, err
	}

	switch models.PermissionStatus(strings.ToLower(strings.TrimSpace(f.Permission))) {
	case "", models.PermissionGranted:
		return models.PermissionGranted, nil
	case models.PermissionUndetermined:
		return models.PermissionUndetermined, nil
	default:
		return models.PermissionDenied, nil
	}
}

// CurrentPosition returns the coordinates stored in the file.
func (d *FileDevice) CurrentPosition(_ context.Context) (models.Coordinates, error) {
	f, err := d.read()
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %w", ErrNoPosition, err)
	}
	if f.Latitude == nil || f.Longitude == nil {
		return models.Coordinates{}, ErrNoPosition
	}
	return models.Coordinates{Lat: *f.Latitude, Lon: *f.Longitude}, nil
}

// StaticDevice is a Device with fixed answers.
type StaticDevice struct {
	PermissionErr error
	PositionErr   error
	Status        models.PermissionStatus
	Position      models.Coordinates
}

// RequestPermission returns the configured status.
func (d StaticDevice) RequestPermission(_ context.Context) (models.PermissionStatus, error) {
	return d.Status, d.PermissionErr
}

// CurrentPosition returns the configured position.
func (d StaticDevice) CurrentPosition(_ context.Context) (models.Coordinates, error) {
	return d.Position, d.PositionErr
}
