package db

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/j-veylop/skycast/internal/models"
)

// InsertPlaces upserts geocoding rows in a single transaction and returns
// the number of rows written.
func (db *DB) InsertPlaces(places []models.GeoPlace) (int, error) {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(context.Background(), `
		INSERT INTO places (name, country, region, lat, lon)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name, country, region) DO UPDATE SET lat = excluded.lat, lon = excluded.lon
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare place insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	n := 0
	for _, p := range places {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		if _, err := stmt.ExecContext(context.Background(),
			name, strings.TrimSpace(p.Country), strings.TrimSpace(p.Region), p.Lat, p.Lon,
		); err != nil {
			return 0, fmt.Errorf("failed to insert place %q: %w", name, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit places: %w", err)
	}
	return n, nil
}

// CountPlaces returns the size of the geocoding table.
func (db *DB) CountPlaces() (int, error) {
	var n int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM places").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count places: %w", err)
	}
	return n, nil
}

// ReverseGeocode returns the place nearest to the coordinates, if one lies
// within MaxGeocodeDistanceKm. No match yields an empty list.
func (db *DB) ReverseGeocode(ctx context.Context, c models.Coordinates) ([]models.Address, error) {
	dLat := MaxGeocodeDistanceKm / kmPerDegree
	dLon := 180.0
	if cosLat := math.Cos(c.Lat * math.Pi / 180); cosLat > 0.01 {
		dLon = dLat / cosLat
	}

	// Two lon windows so a box crossing ±180° also matches the far side.
	lo1, hi1, lo2, hi2 := lonWindows(c.Lon, dLon)
	rows, err := db.QueryContext(ctx, `
		SELECT name, country, region, lat, lon
		FROM places
		WHERE lat BETWEEN ? AND ?
		  AND (lon BETWEEN ? AND ? OR lon BETWEEN ? AND ?)
	`, c.Lat-dLat, c.Lat+dLat, lo1, hi1, lo2, hi2)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var best *models.GeoPlace
	bestDist := math.Inf(1)
	for rows.Next() {
		var p models.GeoPlace
		if err := rows.Scan(&p.Name, &p.Country, &p.Region, &p.Lat, &p.Lon); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		d := Haversine(c, models.Coordinates{Lat: p.Lat, Lon: p.Lon})
		if d <= MaxGeocodeDistanceKm && d < bestDist {
			best, bestDist = &p, d
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if best == nil {
		return []models.Address{}, nil
	}
	return []models.Address{{City: best.Name, Region: best.Region, Country: best.Country}}, nil
}

// lonWindows returns the lon ranges within d degrees of lon. When the box
// does not cross the antimeridian both ranges are the same.
func lonWindows(lon, d float64) (lo1, hi1, lo2, hi2 float64) {
	lo, hi := lon-d, lon+d
	switch {
	case d >= 180:
		return -180, 180, -180, 180
	case lo < -180:
		return -180, hi, lo + 360, 180
	case hi > 180:
		return lo, 180, -180, hi - 360
	default:
		return lo, hi, lo, hi
	}
}

// Haversine returns the great circle distance between two points in km.
func Haversine(a, b models.Coordinates) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
