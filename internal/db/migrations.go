package db

import (
	"context"
	"fmt"
)

// FixLegacyTimeFormats truncates timestamps written as time.Time values.
// modernc.org/sqlite stores those with a " +0000 UTC" suffix that SQLite's
// date functions cannot read.
func (db *DB) FixLegacyTimeFormats() error {
	queries := []string{
		`UPDATE fetch_log
		 SET timestamp = SUBSTR(timestamp, 1, 19)
		 WHERE length(timestamp) > 19 AND timestamp LIKE '% UTC'`,

		`UPDATE search_history
		 SET timestamp = SUBSTR(timestamp, 1, 19)
		 WHERE length(timestamp) > 19 AND timestamp LIKE '% UTC'`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(context.Background(), query); err != nil {
			return fmt.Errorf("failed to fix legacy time formats: %w", err)
		}
	}

	return nil
}

// Prune deletes log and history rows older than the given number of days.
func (db *DB) Prune(days int) (int64, error) {
	window := fmt.Sprintf("-%d days", days)
	var total int64

	for _, table := range []string{"fetch_log", "search_history"} {
		res, err := db.ExecContext(context.Background(),
			"DELETE FROM "+table+" "+sqlOlderThanClause, window)
		if err != nil {
			return total, fmt.Errorf("failed to prune %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	return total, nil
}
