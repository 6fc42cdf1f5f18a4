package solutionstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS solution_versions (
	version_id    TEXT PRIMARY KEY,
	parent_id     TEXT,
	run_id        TEXT NOT NULL,
	automaton     TEXT NOT NULL,
	num_states    INTEGER NOT NULL,
	aic           REAL NOT NULL,
	test_type     TEXT NOT NULL,
	significance  REAL NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES solution_versions(version_id)
);

CREATE TABLE IF NOT EXISTS refinement_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	version_id    TEXT NOT NULL,
	kind          TEXT NOT NULL,
	symbol        INTEGER NOT NULL,
	time_value    INTEGER NOT NULL,
	p_value       REAL,
	aic_before    REAL,
	aic_after     REAL,
	decision      TEXT NOT NULL,
	reason        TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES solution_versions(version_id)
);

CREATE TABLE IF NOT EXISTS best_solution (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES solution_versions(version_id)
);
`

// #endregion schema

// #region store
// Store persists the lineage of candidate automata produced by a search
// run, plus the refinement decisions that produced each one.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already-open database connection, skipping the
// pragma and migration steps NewStore performs. Tests use this to seed a
// schema directly and then exercise Store against it.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by the runlog package, which
// writes into the same refinement_log table this store migrates.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region record
// RecordSolution inserts rec, assigning it a fresh version id if it has
// none, and marks it as the current best solution.
func (s *Store) RecordSolution(rec SolutionRecord) (SolutionRecord, error) {
	if rec.VersionID == "" {
		rec.VersionID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return SolutionRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var parentPtr interface{}
	if rec.ParentID != "" {
		parentPtr = rec.ParentID
	}

	_, err = tx.Exec(
		`INSERT INTO solution_versions (version_id, parent_id, run_id, automaton, num_states, aic, test_type, significance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.VersionID, parentPtr, rec.RunID, rec.Automaton, rec.NumStates, rec.AIC,
		rec.TestType, rec.Significance, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return SolutionRecord{}, fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO best_solution (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`,
		rec.VersionID,
	)
	if err != nil {
		return SolutionRecord{}, fmt.Errorf("set best: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return SolutionRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion record

// #region read
// GetBest reads the current best solution version.
func (s *Store) GetBest() (SolutionRecord, error) {
	var versionID string
	err := s.db.QueryRow(`SELECT version_id FROM best_solution WHERE id = 1`).Scan(&versionID)
	if err != nil {
		return SolutionRecord{}, fmt.Errorf("get best: %w", err)
	}
	return s.GetVersion(versionID)
}

// GetVersion retrieves a specific solution version by id.
func (s *Store) GetVersion(id string) (SolutionRecord, error) {
	var rec SolutionRecord
	var parentID sql.NullString
	var createdStr string

	err := s.db.QueryRow(
		`SELECT version_id, parent_id, run_id, automaton, num_states, aic, test_type, significance, created_at
		 FROM solution_versions WHERE version_id = ?`, id,
	).Scan(&rec.VersionID, &parentID, &rec.RunID, &rec.Automaton, &rec.NumStates, &rec.AIC,
		&rec.TestType, &rec.Significance, &createdStr)
	if err != nil {
		return SolutionRecord{}, fmt.Errorf("get version %s: %w", id, err)
	}
	if parentID.Valid {
		rec.ParentID = parentID.String
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

// ListSolutions returns the most recent solution versions for a run, most
// recent first.
func (s *Store) ListSolutions(runID string, limit int) ([]SolutionRecord, error) {
	rows, err := s.db.Query(
		`SELECT version_id, parent_id, run_id, automaton, num_states, aic, test_type, significance, created_at
		 FROM solution_versions WHERE run_id = ? ORDER BY created_at DESC LIMIT ?`, runID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list solutions: %w", err)
	}
	defer rows.Close()

	var records []SolutionRecord
	for rows.Next() {
		var rec SolutionRecord
		var parentID sql.NullString
		var createdStr string
		if err := rows.Scan(&rec.VersionID, &parentID, &rec.RunID, &rec.Automaton, &rec.NumStates,
			&rec.AIC, &rec.TestType, &rec.Significance, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if parentID.Valid {
			rec.ParentID = parentID.String
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LatestRunID returns the run_id of the most recently recorded solution,
// for callers (cmd/rti-inspect) that want to default to "whatever run was
// last written" when none is specified.
func (s *Store) LatestRunID() (string, error) {
	var runID string
	err := s.db.QueryRow(`SELECT run_id FROM solution_versions ORDER BY created_at DESC LIMIT 1`).Scan(&runID)
	if err != nil {
		return "", fmt.Errorf("latest run id: %w", err)
	}
	return runID, nil
}

// #endregion read
