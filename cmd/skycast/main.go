// Package main is the entry point for skycast. Without arguments it runs the
// terminal client; the serve and import-places subcommands run headless.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/skycast/internal/app"
	"github.com/j-veylop/skycast/internal/config"
	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/services"
	"github.com/j-veylop/skycast/internal/ui/tabs/forecast"
	"github.com/j-veylop/skycast/internal/ui/tabs/home"
	"github.com/j-veylop/skycast/internal/ui/tabs/places"
	"github.com/j-veylop/skycast/internal/version"
)

func main() {
	var err error

	switch arg := firstArg(); arg {
	case "-v", "--version":
		fmt.Println(version.Info())
		return
	case "-h", "--help":
		printUsage()
		return
	case "serve":
		err = runServe()
	case "import-places":
		err = runImport(os.Args[2:])
	case "":
		err = run()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", arg)
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func firstArg() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return ""
}

// run starts the terminal client.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Log to a file so output does not tear the alternate screen
	logFile, err := logger.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		home.New(state),
		forecast.New(state),
		places.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	logger.Info("skycast started", "version", version.GetVersion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`skycast - weather in your terminal

Usage:
  skycast [flags]
  skycast serve
  skycast import-places <file.csv>

Commands:
  serve           Serve forecasts as JSON on SERVE_ADDR
  import-places   Load offline geocoding rows (name,country,lat,lon[,region])

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Home, Forecast, Places)
  Tab/Shift+Tab   Navigate between tabs
  /               Search a city
  j/k, Up/Down    Navigate lists
  f               Cycle forecast day filter
  a / d           Save / delete a place
  r               Refresh
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  API_BASE_URL      Weather API base URL
  DEFAULT_CITY      City used when the location is unavailable (default: Lagos)
  DATABASE_PATH     SQLite database path
  PLACES_PATH       Saved places JSON file
  LOCATION_PATH     Device location JSON file
  LOG_PATH          Log file path
  LOG_LEVEL         debug, info, warn or error (default: info)
  SERVE_ADDR        Listen address for serve (default: :8080)
  HTTP_TIMEOUT      Request timeout (default: 15s)
  API_RATE_LIMIT    Requests per second (default: 2)
  API_RATE_BURST    Request burst (default: 4)
  SEVERE_ALERTS     Desktop alerts for severe days (default: true)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/skycast/.env
  - ~/.skycast/.env`)
}
