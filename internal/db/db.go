// Package db manages the database connection
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
	// sqlite driver
)

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open database connection
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	// Configure database
	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	// Create schema
	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	// Fix legacy time formats
	if err := db.FixLegacyTimeFormats(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to fix legacy time formats: %w", err)
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// configure sets up database pragmas for optimal performance.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-64000", // 64MB cache
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema() error {
	if err := db.createPlacesTable(); err != nil {
		return err
	}
	if err := db.createFetchLogTable(); err != nil {
		return err
	}
	if err := db.createSearchHistoryTable(); err != nil {
		return err
	}
	return db.createAlertsSentTable()
}

func (db *DB) createPlacesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS places (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		UNIQUE(name, country, region)
	);
	CREATE INDEX IF NOT EXISTS idx_places_lat_lon ON places(lat, lon);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createFetchLogTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS fetch_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		endpoint TEXT NOT NULL,
		city TEXT NOT NULL,
		status_code INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_fetch_log_timestamp ON fetch_log(timestamp);
	CREATE INDEX IF NOT EXISTS idx_fetch_log_city ON fetch_log(city);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createSearchHistoryTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS search_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		city TEXT NOT NULL,
		source TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_search_history_timestamp ON search_history(timestamp);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createAlertsSentTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS alerts_sent (
		city TEXT NOT NULL COLLATE NOCASE,
		calendar_date TEXT NOT NULL,
		icon TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (city, calendar_date)
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	// Checkpoint WAL before closing
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}
