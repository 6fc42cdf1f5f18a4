// Command rti-inspect reads a history database written by rti (via
// RTI_HISTORY_DB) and prints the AIC trajectory of a search run: one row
// per accepted solution, most recent last, with the AIC delta from each
// solution's parent.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/adaptive-rti/rti-go/internal/solutionstore"
	_ "modernc.org/sqlite"
)

// #region main
func main() {
	dbPath := flag.String("db", "", "path to the history database written by rti")
	runID := flag.String("run", "", "run id to inspect (defaults to the most recently written run)")
	last := flag.Int("last", 20, "show N most recent solutions")
	jsonOut := flag.Bool("json", false, "output as JSON instead of a table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: rti-inspect --db path/to/history.db [--run RUN_ID] [--last N] [--json]")
		os.Exit(2)
	}

	store, err := solutionstore.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	resolvedRun := *runID
	if resolvedRun == "" {
		resolvedRun, err = store.LatestRunID()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := run(store, resolvedRun, *last, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region trajectory
type trajectoryRow struct {
	VersionID string   `json:"version_id"`
	ParentID  string   `json:"parent_id,omitempty"`
	NumStates int      `json:"num_states"`
	AIC       float64  `json:"aic"`
	Delta     *float64 `json:"delta,omitempty"`
	TestType  string   `json:"test_type"`
	CreatedAt string   `json:"created_at"`
}

func run(store *solutionstore.Store, runID string, last int, jsonOut bool) error {
	solutions, err := store.ListSolutions(runID, last)
	if err != nil {
		return err
	}
	if len(solutions) == 0 {
		fmt.Fprintf(os.Stderr, "no solutions found for run %s\n", runID)
		return nil
	}

	// ListSolutions returns most-recent-first; walk oldest to newest so each
	// row's delta is against the solution that preceded it.
	rows := make([]trajectoryRow, len(solutions))
	for i := len(solutions) - 1; i >= 0; i-- {
		sol := solutions[i]
		row := trajectoryRow{
			VersionID: sol.VersionID,
			ParentID:  sol.ParentID,
			NumStates: sol.NumStates,
			AIC:       sol.AIC,
			TestType:  sol.TestType,
			CreatedAt: sol.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if sol.ParentID != "" {
			if parent, err := store.GetVersion(sol.ParentID); err == nil {
				delta := sol.AIC - parent.AIC
				row.Delta = &delta
			}
		}
		rows[len(solutions)-1-i] = row
	}

	if jsonOut {
		return printJSON(rows)
	}
	return printTable(runID, rows)
}

func printTable(runID string, rows []trajectoryRow) error {
	fmt.Printf("Run: %s\n\n", runID)
	fmt.Printf("%-12s  %6s  %12s  %10s  %-10s  %s\n",
		"Version", "States", "AIC", "Delta", "Test", "Time")
	fmt.Printf("%-12s  %6s  %12s  %10s  %-10s  %s\n",
		"------------", "------", "------------", "----------", "----------", "--------------------")

	for _, r := range rows {
		delta := "—"
		if r.Delta != nil {
			delta = fmt.Sprintf("%.4f", *r.Delta)
		}
		fmt.Printf("%-12s  %6d  %12.4f  %10s  %-10s  %s\n",
			shortID(r.VersionID), r.NumStates, r.AIC, delta, r.TestType, r.CreatedAt)
	}
	return nil
}

// #endregion trajectory

// #region output
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
