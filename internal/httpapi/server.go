// Package httpapi exposes the weather services as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/models"
	"github.com/j-veylop/skycast/internal/services/weather"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Weather is the part of the weather service the API needs.
type Weather interface {
	Forecast(ctx context.Context, city string) (*models.ForecastResult, error)
	Current(ctx context.Context, city string) (*models.CurrentReport, error)
}

// SearchRecorder stores looked up cities. It may be nil.
type SearchRecorder interface {
	RecordSearch(city string, source models.ResolutionSource)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	addr     string
	weather  Weather
	searches SearchRecorder
	engine   *gin.Engine
}

// New constructs a server with routes and middleware.
func New(addr string, w Weather, searches SearchRecorder) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())

	s := &Server{addr: addr, weather: w, searches: searches, engine: engine}
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http api listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1")
	v1.GET("/forecast/:city", s.handleForecast)
	v1.GET("/current/:city", s.handleCurrent)
}

// handleForecast returns the daily summaries for a city
// GET /api/v1/forecast/:city
func (s *Server) handleForecast(c *gin.Context) {
	city, ok := cityParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := s.weather.Forecast(ctx, city)
	if err != nil {
		writeError(c, err)
		return
	}
	s.record(city)

	c.JSON(http.StatusOK, gin.H{
		"data": result.Days,
		"meta": gin.H{
			"city":  result.City,
			"count": result.DayCount,
		},
	})
}

// handleCurrent returns current conditions and hourly samples for a city
// GET /api/v1/current/:city
func (s *Server) handleCurrent(c *gin.Context) {
	city, ok := cityParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	report, err := s.weather.Current(ctx, city)
	if err != nil {
		writeError(c, err)
		return
	}
	s.record(city)

	c.JSON(http.StatusOK, gin.H{
		"data": report,
	})
}

func (s *Server) record(city string) {
	if s.searches != nil {
		s.searches.RecordSearch(city, models.SourceSearch)
	}
}

func cityParam(c *gin.Context) (string, bool) {
	city := strings.TrimSpace(c.Param("city"))
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return "", false
	}
	return city, true
}

// writeError maps service errors to status codes. The message is the one
// the TUI shows for the same failure.
func writeError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, weather.ErrEmptyCity):
		status = http.StatusBadRequest
	case errors.Is(err, weather.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
