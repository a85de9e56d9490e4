package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/j-veylop/skycast/internal/logger"
	"github.com/j-veylop/skycast/internal/models"
)

// InsertFetch logs a weather API call to the database.
func (db *DB) InsertFetch(rec *models.FetchRecord) error {
	query := `
		INSERT INTO fetch_log (
			timestamp, endpoint, city, status_code, duration_ms, error
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	timestamp := rec.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	result, err := db.ExecContext(context.Background(), query,
		timestamp.UTC().Format(sqlTimestampLayout),
		rec.Endpoint,
		rec.City,
		rec.StatusCode,
		rec.DurationMs,
		nullString(rec.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fetch record: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		rec.ID = id
	}

	return nil
}

// RecentFetches returns the most recent API calls, newest first.
func (db *DB) RecentFetches(limit int) ([]models.FetchRecord, error) {
	query := `
		SELECT id, timestamp, endpoint, city, status_code, duration_ms, error
		FROM fetch_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent fetches: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var records []models.FetchRecord
	for rows.Next() {
		var rec models.FetchRecord
		var ts string
		var errStr sql.NullString

		err := rows.Scan(
			&rec.ID,
			&ts,
			&rec.Endpoint,
			&rec.City,
			&rec.StatusCode,
			&rec.DurationMs,
			&errStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fetch record: %w", err)
		}

		rec.Timestamp = parseTimestamp(ts)
		rec.Error = errStr.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// FetchStats summarizes the whole fetch log.
type FetchStats struct {
	TotalCalls    int
	FailedCalls   int
	AvgDurationMs float64
}

// GetFetchStats returns overall fetch log statistics.
func (db *DB) GetFetchStats() (*FetchStats, error) {
	query := `
		SELECT
			COUNT(*) as total_calls,
			COALESCE(SUM(CASE WHEN status_code >= 400 OR status_code = 0 OR error IS NOT NULL THEN 1 ELSE 0 END), 0) as failed_calls,
			COALESCE(AVG(duration_ms), 0) as avg_duration
		FROM fetch_log
	`

	var stats FetchStats
	err := db.QueryRowContext(context.Background(), query).Scan(
		&stats.TotalCalls,
		&stats.FailedCalls,
		&stats.AvgDurationMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch stats: %w", err)
	}

	return &stats, nil
}

// RecordSearch stores a resolved or searched city.
func (db *DB) RecordSearch(city string, source models.ResolutionSource) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}

	_, err := db.ExecContext(context.Background(),
		"INSERT INTO search_history (timestamp, city, source) VALUES (?, ?, ?)",
		time.Now().UTC().Format(sqlTimestampLayout), city, string(source),
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// RecentSearches returns the last distinct cities, newest first.
func (db *DB) RecentSearches(limit int) ([]models.SearchRecord, error) {
	query := `
		SELECT id, timestamp, city, source
		FROM search_history
		WHERE id IN (
			SELECT MAX(id) FROM search_history GROUP BY city COLLATE NOCASE
		)
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent searches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []models.SearchRecord
	for rows.Next() {
		var rec models.SearchRecord
		var ts, source string
		if err := rows.Scan(&rec.ID, &ts, &rec.City, &source); err != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", err)
		}
		rec.Timestamp = parseTimestamp(ts)
		rec.Source = models.ResolutionSource(source)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// MarkAlerted remembers that a severe weather alert was sent for a city and
// date. It reports false when the alert had already been sent.
func (db *DB) MarkAlerted(city, date, icon string) (bool, error) {
	res, err := db.ExecContext(context.Background(),
		"INSERT OR IGNORE INTO alerts_sent (city, calendar_date, icon) VALUES (?, ?, ?)",
		strings.TrimSpace(city), date, icon,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark alert: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to mark alert: %w", err)
	}
	return n == 1, nil
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{sqlTimestampLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
