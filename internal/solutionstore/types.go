package solutionstore

import "time"

// #region solution-record
// SolutionRecord is a versioned snapshot of one candidate automaton
// produced during a search run.
type SolutionRecord struct {
	VersionID    string
	ParentID     string
	RunID        string
	Automaton    string // the serialized automaton text (see rtimodel's ToStr)
	NumStates    int
	AIC          float64
	TestType     string
	Significance float64
	CreatedAt    time.Time
}

// #endregion solution-record

// #region refinement-entry
// RefinementEntry is a single row in the refinement_log table: the record
// of one accepted or rejected point/split decision made while walking
// toward a SolutionRecord.
type RefinementEntry struct {
	VersionID string
	Kind      string // "point" | "split" | "solution" (cmd/rti writes "solution")
	Symbol    int
	Time      int
	PValue    float64
	AICBefore float64
	AICAfter  float64
	Decision  string // "applied" | "rejected"
	Reason    string
	CreatedAt time.Time
}

// #endregion refinement-entry
