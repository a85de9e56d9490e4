package weather

import "errors"

// Errors returned by the weather service. Their text is shown to the user as is.
var (
	ErrEmptyCity     = errors.New("city must not be empty")
	ErrForecastFetch = errors.New("Failed to fetch forecast data.")
	ErrCurrentFetch  = errors.New("An error occurred while fetching weather data.")
	ErrNotFound      = errors.New("Weather data not found.")
)

// APIError describes a failed call to the weather API. Error returns the
// user facing message; Unwrap exposes the sentinel and the underlying cause.
type APIError struct {
	Err        error
	Endpoint   string
	City       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}
