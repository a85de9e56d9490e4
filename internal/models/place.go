package models

import (
	"strings"
	"time"
)

// Place is a city the user saved for quick access.
type Place struct {
	AddedAt time.Time `json:"addedAt"`
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country,omitempty"`
}

// Label returns "Name, Country" or just the name.
func (p Place) Label() string {
	if p.Country == "" {
		return p.Name
	}
	return p.Name + ", " + p.Country
}

// SameCity reports whether two place names refer to the same city.
func SameCity(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// GeoPlace is a row of the offline reverse geocoding table.
type GeoPlace struct {
	Name    string
	Country string
	Region  string
	Lat     float64
	Lon     float64
}
