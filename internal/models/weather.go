// Package models defines data structures and domain types.
package models

import "strings"

// HourlySample is one forecast observation as delivered by the weather API.
type HourlySample struct {
	// Timestamp is "YYYY-MM-DD HH:MM:SS" in the city's local time.
	Timestamp   string  `json:"date"`
	Description string  `json:"description"`
	Icon        string  `json:"icon,omitempty"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like,omitempty"`
	Humidity    int     `json:"humidity,omitempty"`
	WindSpeed   float64 `json:"wind_speed,omitempty"`
}

// DatePrefix returns the calendar date portion of the timestamp.
func (s HourlySample) DatePrefix() string {
	date, _, _ := strings.Cut(s.Timestamp, " ")
	return date
}

// DailySummary is the reduction of every sample sharing a calendar date.
type DailySummary struct {
	CalendarDate string `json:"calendarDate"`
	WeekdayLabel string `json:"weekdayLabel"`
	Condition    string `json:"condition"`
	IconCode     string `json:"iconCode"`
	HighTemp     int    `json:"highTemp"`
	LowTemp      int    `json:"lowTemp"`
}

// IsSevere reports whether the day is a thunderstorm or snow day.
func (d DailySummary) IsSevere() bool {
	return strings.HasPrefix(d.IconCode, "11") || strings.HasPrefix(d.IconCode, "13")
}

// ForecastResult is the outcome of one forecast fetch.
// DayCount always equals len(Days).
type ForecastResult struct {
	City     string         `json:"city"`
	Days     []DailySummary `json:"days"`
	DayCount int            `json:"dayCount"`
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CurrentConditions is the payload of the current weather endpoint.
type CurrentConditions struct {
	Location    string      `json:"location"`
	Country     string      `json:"country"`
	Description string      `json:"description"`
	Icon        string      `json:"icon,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	Temperature float64     `json:"temperature"`
	FeelsLike   float64     `json:"feels_like"`
	WindSpeed   float64     `json:"wind_speed"`
	Humidity    int         `json:"humidity"`
}

// WindKmh converts the reported wind speed from m/s to km/h.
func (c CurrentConditions) WindKmh() float64 {
	return c.WindSpeed * 3.6
}

// CurrentReport bundles the home screen data for one city.
type CurrentReport struct {
	Current *CurrentConditions `json:"current"`
	Hourly  []HourlySample     `json:"hourly"`
}
