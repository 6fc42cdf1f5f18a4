// Command rti learns a real-time automaton from a corpus of timed strings
// by best-first search over point, split, and color refinements, printing
// every automaton along the way whose AIC strictly improves on the best
// found so far.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/adaptive-rti/rti-go/internal/rtimodel"
	"github.com/adaptive-rti/rti-go/internal/runlog"
	"github.com/adaptive-rti/rti-go/internal/search"
	"github.com/adaptive-rti/rti-go/internal/solutionstore"
	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region usage
func usage() {
	fmt.Fprintln(os.Stderr, "Usage: rti TEST_TYPE SIGNIFICANCE file")
	fmt.Fprintln(os.Stderr, "  TEST_TYPE is 1 for likelihood ratio, 2 for chi squared")
	fmt.Fprintln(os.Stderr, "  SIGNIFICANCE is a decision (float) value between 0.0 and 1.0, default is 0.05 (5% significance)")
	fmt.Fprintln(os.Stderr, "  file is an input file conaining unlabeled timed strings")
}

// #endregion usage

// #region sink
// printSink prints every reported solution to stdout in the original's
// exact format and, when a history store is open, also records it under
// runID and makes it the store's current best solution (a single row
// shared by every run in the database).
type printSink struct {
	store *solutionstore.Store
	runID string

	parentID string
	testType string
	sig      float64
	numSt    func() int
}

func (s *printSink) Solution(text string, aic float64) {
	fmt.Printf("SOLUTION:\n%sSCORE = %v\n", text, aic)

	if s.store == nil {
		return
	}
	rec, err := s.store.RecordSolution(solutionstore.SolutionRecord{
		ParentID:     s.parentID,
		RunID:        s.runID,
		Automaton:    text,
		NumStates:    s.numSt(),
		AIC:          aic,
		TestType:     s.testType,
		Significance: s.sig,
	})
	if err != nil {
		log.Printf("history store: record solution: %v", err)
		return
	}
	s.parentID = rec.VersionID

	err = runlog.LogRefinement(s.store.DB(), solutionstore.RefinementEntry{
		VersionID: rec.VersionID,
		Kind:      "solution",
		AICAfter:  aic,
		Decision:  "applied",
		Reason:    "AIC improved on the best solution found so far",
	})
	if err != nil {
		log.Printf("history store: log refinement: %v", err)
	}
}

// #endregion sink

// #region main
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) != 3 {
		usage()
		return 0
	}

	testTypeArg, _ := strconv.Atoi(args[0])
	significance, _ := strconv.ParseFloat(args[1], 64)

	f, err := os.Open(args[2])
	if err != nil {
		usage()
		return 0
	}
	defer f.Close()

	corpus, err := timedcorpus.Parse(f)
	if err != nil {
		return 0
	}
	log.Printf("loaded %s words, %s symbols",
		humanize.Comma(int64(corpus.NumWords())), humanize.Comma(int64(corpus.TotalSymbols())))

	testType := rtimodel.ChiSquared
	if testTypeArg == 1 {
		testType = rtimodel.Likelihood
	}

	ta := rtimodel.NewAutomaton(corpus, testType, significance)
	ctx := ta.Context()

	sink := &printSink{testType: testTypeLabel(testTypeArg), sig: significance, numSt: ta.NumStates}
	if dbPath := os.Getenv("RTI_HISTORY_DB"); dbPath != "" {
		store, err := solutionstore.NewStore(dbPath)
		if err != nil {
			log.Printf("history store: open %s: %v", dbPath, err)
		} else {
			defer store.Close()
			sink.store = store
			sink.runID = uuid.New().String()
		}
	}

	search.BestFirst(ta, ctx, search.DefaultBestFirstConfig(), sink)

	return 1
}

func testTypeLabel(testTypeArg int) string {
	if testTypeArg == 1 {
		return "likelihood"
	}
	return "chi-squared"
}

// #endregion main
