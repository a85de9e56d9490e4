package models

import "time"

// Endpoint names used in the fetch log.
const (
	EndpointForecast = "forecast"
	EndpointCurrent  = "current"
)

// FetchRecord is one logged weather API call.
type FetchRecord struct {
	Timestamp  time.Time
	Endpoint   string
	City       string
	Error      string
	ID         int64
	DurationMs int64
	StatusCode int
}

// Failed reports whether the call did not produce a usable response.
func (r FetchRecord) Failed() bool {
	return r.Error != "" || r.StatusCode >= 400 || r.StatusCode == 0
}

// SearchRecord is one resolved or searched city.
type SearchRecord struct {
	Timestamp time.Time
	City      string
	Source    ResolutionSource
	ID        int64
}
