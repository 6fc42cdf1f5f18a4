// Package runlog writes refinement_log rows (kind, symbol, time, p-value,
// AIC before/after, decision, reason) into the same database a
// solutionstore.Store migrates. cmd/rti writes one "solution" row per
// accepted solution; individual point or split candidates are not logged.
package runlog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/adaptive-rti/rti-go/internal/solutionstore"
)

// #region log-refinement
// LogRefinement writes one refinement_log row.
func LogRefinement(db *sql.DB, entry solutionstore.RefinementEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO refinement_log (version_id, kind, symbol, time_value, p_value, aic_before, aic_after, decision, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.VersionID,
		entry.Kind,
		entry.Symbol,
		entry.Time,
		nullIfZero(entry.PValue),
		nullIfZero(entry.AICBefore),
		nullIfZero(entry.AICAfter),
		entry.Decision,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log refinement: %w", err)
	}
	return nil
}

// #endregion log-refinement

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(f float64) interface{} {
	if f == 0 {
		return nil
	}
	return f
}

// #endregion helpers
