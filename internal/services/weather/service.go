// Package weather talks to the remote weather API and turns its hourly
// samples into daily forecasts.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/j-veylop/skycast/internal/forecast"
	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/models"
)

const (
	forecastPath = "/api/weather/forecast/{city}"
	currentPath  = "/api/weather/current/{city}"

	userAgent = "skycast/1.0"
)

// Recorder persists one entry per API call.
type Recorder interface {
	InsertFetch(rec *models.FetchRecord) error
}

// Config holds configuration for the weather service.
type Config struct {
	Transport http.RoundTripper
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://weather-api-7pzt.onrender.com",
		Timeout:   15 * time.Second,
		RateLimit: 2,
		RateBurst: 4,
	}
}

// Service fetches current conditions and forecasts. Requests are paced by a
// token bucket and never retried.
type Service struct {
	client   *resty.Client
	limiter  *rate.Limiter
	recorder Recorder
	now      func() time.Time
}

// New creates a weather service. recorder may be nil.
func New(cfg Config, recorder Recorder) *Service {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = def.RateLimit
	}
	if cfg.RateBurst < 1 {
		cfg.RateBurst = def.RateBurst
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)
	if cfg.Transport != nil {
		client.SetTransport(cfg.Transport)
	}

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("weather api response",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time().String(),
			"bytes", len(resp.Body()),
		)
		return nil
	})

	return &Service{
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		recorder: recorder,
		now:      time.Now,
	}
}

// SetClock replaces the clock used to label "Today".
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Forecast fetches the hourly samples for city and reduces them to one
// summary per calendar day. An empty forecast is not an error.
func (s *Service) Forecast(ctx context.Context, city string) (*models.ForecastResult, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	samples, err := s.fetchSamples(ctx, city)
	if err != nil {
		return nil, err
	}

	days := forecast.Aggregate(samples, s.now())
	return &models.ForecastResult{
		City:     city,
		Days:     days,
		DayCount: len(days),
	}, nil
}

// Current fetches the current conditions and the hourly samples for city
// concurrently. A failed hourly fetch leaves Hourly empty and is not an error.
func (s *Service) Current(ctx context.Context, city string) (*models.CurrentReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	report := &models.CurrentReport{Hourly: []models.HourlySample{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		current, err := s.fetchCurrent(gctx, city)
		if err != nil {
			return err
		}
		report.Current = current
		return nil
	})

	var hourly []models.HourlySample
	g.Go(func() error {
		samples, err := s.fetchSamples(gctx, city)
		if err != nil {
			logger.Warn("could not fetch hourly forecast", "city", city, "error", err)
			return nil
		}
		hourly = samples
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if hourly != nil {
		report.Hourly = hourly
	}
	return report, nil
}

type forecastPayload struct {
	Forecast []models.HourlySample `json:"forecast"`
}

func (s *Service) fetchSamples(ctx context.Context, city string) ([]models.HourlySample, error) {
	resp, err := s.get(ctx, models.EndpointForecast, forecastPath, city)
	if err != nil {
		return nil, &APIError{
			Endpoint: models.EndpointForecast,
			City:     city,
			Message:  ErrForecastFetch.Error(),
			Err:      fmt.Errorf("%w: %w", ErrForecastFetch, err),
		}
	}

	if !resp.IsSuccess() {
		return nil, &APIError{
			Endpoint:   models.EndpointForecast,
			City:       city,
			StatusCode: resp.StatusCode(),
			Message:    ErrForecastFetch.Error(),
			Err:        ErrForecastFetch,
		}
	}

	var payload forecastPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &APIError{
			Endpoint:   models.EndpointForecast,
			City:       city,
			StatusCode: resp.StatusCode(),
			Message:    ErrForecastFetch.Error(),
			Err:        fmt.Errorf("%w: malformed body: %w", ErrForecastFetch, err),
		}
	}

	if payload.Forecast == nil {
		return []models.HourlySample{}, nil
	}
	return payload.Forecast, nil
}

type errorPayload struct {
	Message string `json:"message"`
}

func (s *Service) fetchCurrent(ctx context.Context, city string) (*models.CurrentConditions, error) {
	resp, err := s.get(ctx, models.EndpointCurrent, currentPath, city)
	if err != nil {
		return nil, &APIError{
			Endpoint: models.EndpointCurrent,
			City:     city,
			Message:  ErrCurrentFetch.Error(),
			Err:      fmt.Errorf("%w: %w", ErrCurrentFetch, err),
		}
	}

	if !resp.IsSuccess() {
		return nil, currentError(city, resp)
	}

	var current models.CurrentConditions
	if err := json.Unmarshal(resp.Body(), &current); err != nil {
		return nil, &APIError{
			Endpoint:   models.EndpointCurrent,
			City:       city,
			StatusCode: resp.StatusCode(),
			Message:    ErrCurrentFetch.Error(),
			Err:        fmt.Errorf("%w: malformed body: %w", ErrCurrentFetch, err),
		}
	}
	return &current, nil
}

// currentError prefers the server supplied message. A JSON body without one
// means the city is unknown; anything else is a generic failure.
func currentError(city string, resp *resty.Response) error {
	apiErr := &APIError{
		Endpoint:   models.EndpointCurrent,
		City:       city,
		StatusCode: resp.StatusCode(),
	}

	var payload errorPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		logger.Error("non-JSON error response from weather api",
			"city", city, "status", resp.StatusCode(), "body", truncate(resp.String(), 200))
		apiErr.Message = ErrCurrentFetch.Error()
		apiErr.Err = ErrCurrentFetch
		return apiErr
	}

	if payload.Message != "" {
		apiErr.Message = payload.Message
		apiErr.Err = ErrCurrentFetch
		return apiErr
	}

	apiErr.Message = ErrNotFound.Error()
	apiErr.Err = ErrNotFound
	return apiErr
}

func (s *Service) get(ctx context.Context, endpoint, path, city string) (*resty.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("city", city).
		Get(path)

	rec := &models.FetchRecord{
		Timestamp:  start,
		Endpoint:   endpoint,
		City:       city,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
	} else {
		rec.StatusCode = resp.StatusCode()
		if !resp.IsSuccess() {
			rec.Error = resp.Status()
		}
	}
	s.record(rec)

	return resp, err
}

func (s *Service) record(rec *models.FetchRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.InsertFetch(rec); err != nil {
		logger.Error("failed to record fetch", "endpoint", rec.Endpoint, "city", rec.City, "error", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
