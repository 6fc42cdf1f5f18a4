package search

import (
	"strings"
	"testing"

	"github.com/adaptive-rti/rti-go/internal/rtimodel"
	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region helpers
func buildTestAutomaton(t *testing.T, input string, minData int) (*rtimodel.Automaton, *rtimodel.LearningContext) {
	t.Helper()
	c, err := timedcorpus.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ta := rtimodel.NewAutomaton(c, rtimodel.ChiSquared, 0.05)
	ctx := ta.Context()
	ctx.MinData = minData
	return ta, ctx
}

type collectingSink struct {
	solutions []string
	aics      []float64
}

func (s *collectingSink) Solution(text string, aic float64) {
	s.solutions = append(s.solutions, text)
	s.aics = append(s.aics, aic)
}

// #endregion helpers

// #region refinement-tests
func TestRefinementColorRoundTrip(t *testing.T) {
	ta, _ := buildTestAutomaton(t, "2 1\n2 a 1 a 2\n1 a 3\n", 1)
	root := ta.Root()
	before := ta.NumStates()

	r := Refinement{Kind: Color, StateIdx: 0, Symbol: 0, Time: root.GetInterval(0, 0).End}
	r.Refine(ta)
	if ta.NumStates() != before+1 {
		t.Fatalf("expected colored count to grow by one, got before=%d after=%d", before, ta.NumStates())
	}

	r.UndoRefine(ta)
	if ta.NumStates() != before {
		t.Fatalf("expected colored count restored, got %d want %d", ta.NumStates(), before)
	}
}

// #endregion refinement-tests

// #region candidate-tests
func TestGetBestRefinementsRequiresMinimumTails(t *testing.T) {
	ta, ctx := buildTestAutomaton(t, "1 1\n1 a 1\n", 10)
	merges, splits := GetBestRefinements(ta, ctx)
	if merges != nil || splits != nil {
		t.Fatalf("expected no candidates below 2*MinData tails, got %d merges, %d splits", len(merges), len(splits))
	}
}

func TestGetBestRefinementsIncludesColorFallback(t *testing.T) {
	var b strings.Builder
	b.WriteString("3 1\n")
	for i := 0; i < 3; i++ {
		b.WriteString("1 a 1\n")
	}
	ta, ctx := buildTestAutomaton(t, b.String(), 1)

	merges, _ := GetBestRefinements(ta, ctx)
	if len(merges) == 0 {
		t.Fatal("expected at least the synthetic color candidate")
	}
	found := false
	for _, m := range merges {
		if m.Refinement.Kind == Color {
			found = true
			if m.Score != ctx.Significance {
				t.Fatalf("expected color candidate scored at significance, got %f", m.Score)
			}
		}
	}
	if !found {
		t.Fatal("expected a Color candidate among the merges")
	}
}

func TestGetBestRefinementsSortedDescending(t *testing.T) {
	var b strings.Builder
	b.WriteString("4 1\n")
	for i := 0; i < 4; i++ {
		b.WriteString("1 a 1\n")
	}
	ta, ctx := buildTestAutomaton(t, b.String(), 1)

	merges, splits := GetBestRefinements(ta, ctx)
	for i := 1; i < len(merges); i++ {
		if merges[i-1].Score < merges[i].Score {
			t.Fatalf("merges not sorted descending at index %d", i)
		}
	}
	for i := 1; i < len(splits); i++ {
		if splits[i-1].Score < splits[i].Score {
			t.Fatalf("splits not sorted descending at index %d", i)
		}
	}
}

// #endregion candidate-tests

// #region aic-tests
func TestCalculateParametersMatchesFormula(t *testing.T) {
	ta, ctx := buildTestAutomaton(t, "1 1\n1 a 1\n", 1)
	want := (ctx.NumHistogramBars-1)*ta.NumStates() + ta.GetSize()
	if got := CalculateParameters(ta, ctx); got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestCalculateAICWithoutDefaultIsFinite(t *testing.T) {
	ta, ctx := buildTestAutomaton(t, "2 1\n1 a 1\n1 a 2\n", 1)
	aic := CalculateAICWithoutDefault(ta, ctx)
	if aic != aic { // NaN check
		t.Fatal("expected a finite AIC, got NaN")
	}
}

func TestCalculateAICIncludesOffTreeDefault(t *testing.T) {
	ta, ctx := buildTestAutomaton(t, "1 1\n2 a 1 a 2\n", 1)
	withDefault := CalculateAIC(ta, ctx)
	withoutDefault := CalculateAICWithoutDefault(ta, ctx)
	if withDefault == withoutDefault {
		t.Fatal("expected the off-tree default term to change the score for a word with a next tail")
	}
}

// #endregion aic-tests

// #region greedy-tests
func TestGreedyReportsAnImprovingSolution(t *testing.T) {
	var b strings.Builder
	b.WriteString("6 1\n")
	for i := 0; i < 6; i++ {
		b.WriteString("1 a 1\n")
	}
	ta, ctx := buildTestAutomaton(t, b.String(), 1)

	sink := &collectingSink{}
	Greedy(ta, ctx, sink)

	if len(sink.solutions) == 0 {
		t.Fatal("expected at least one reported solution")
	}
	for i := 1; i < len(sink.aics); i++ {
		if sink.aics[i] >= sink.aics[i-1] {
			t.Fatalf("expected strictly improving AIC sequence, got %v", sink.aics)
		}
	}
}

func TestGreedyLeavesAutomatonUnchanged(t *testing.T) {
	var b strings.Builder
	b.WriteString("6 1\n")
	for i := 0; i < 6; i++ {
		b.WriteString("1 a 1\n")
	}
	ta, ctx := buildTestAutomaton(t, b.String(), 1)
	before := ta.NumStates()

	Greedy(ta, ctx, &collectingSink{})

	if ta.NumStates() != before {
		t.Fatalf("expected Greedy to leave the colored state count as it found it, got before=%d after=%d", before, ta.NumStates())
	}
}

// #endregion greedy-tests

// #region bestfirst-tests
func TestBestFirstTerminatesAndRestoresAutomaton(t *testing.T) {
	var b strings.Builder
	b.WriteString("6 1\n")
	for i := 0; i < 6; i++ {
		b.WriteString("1 a 1\n")
	}
	ta, ctx := buildTestAutomaton(t, b.String(), 1)
	before := ta.NumStates()

	sink := &collectingSink{}
	BestFirst(ta, ctx, BestFirstConfig{MaxPointsToSearch: 2, MaxSplitsToSearch: 2}, sink)

	if ta.NumStates() != before {
		t.Fatalf("expected BestFirst to restore the colored state count, got before=%d after=%d", before, ta.NumStates())
	}
	if len(sink.solutions) == 0 {
		t.Fatal("expected BestFirst to report at least one solution")
	}
}

func TestDefaultBestFirstConfig(t *testing.T) {
	cfg := DefaultBestFirstConfig()
	if cfg.MaxPointsToSearch != 10 || cfg.MaxSplitsToSearch != 10 {
		t.Fatalf("expected default bounds of 10/10, got %+v", cfg)
	}
}

// #endregion bestfirst-tests

// #region choose-frontier-tests
func TestChoosePrefersSignificantSplitOverMerge(t *testing.T) {
	ctx := &rtimodel.LearningContext{Significance: 0.05}
	merges := []ScoredRefinement{{Score: 0.9, Refinement: Refinement{Kind: Point}}}
	splits := []ScoredRefinement{{Score: 0.9}, {Score: 0.01, Refinement: Refinement{Kind: Split}}}

	got := choose(ctx, merges, splits)
	if got.Kind != Split {
		t.Fatalf("expected the low-scoring split to be chosen, got %v", got.Kind)
	}
}

func TestChooseFallsBackToBestMerge(t *testing.T) {
	ctx := &rtimodel.LearningContext{Significance: 0.05}
	merges := []ScoredRefinement{{Score: 0.9, Refinement: Refinement{Kind: Point}}}
	splits := []ScoredRefinement{{Score: 0.9, Refinement: Refinement{Kind: Split}}}

	got := choose(ctx, merges, splits)
	if got.Kind != Point {
		t.Fatalf("expected the best merge to be chosen, got %v", got.Kind)
	}
}

func TestSelectFrontierRespectsCaps(t *testing.T) {
	ctx := &rtimodel.LearningContext{Significance: 0.5}
	splits := []ScoredRefinement{
		{Score: 0.9, Refinement: Refinement{Time: 3}},
		{Score: 0.6, Refinement: Refinement{Time: 2}},
		{Score: 0.1, Refinement: Refinement{Time: 1}},
	}
	cfg := BestFirstConfig{MaxSplitsToSearch: 1, MaxPointsToSearch: 10}

	// selectFrontier scans splits from the smallest score upward, capped at
	// MaxSplitsToSearch candidates inspected: with a cap of 1, only the
	// smallest (0.1, below significance) is ever looked at.
	frontier := selectFrontier(ctx, cfg, nil, splits)
	if len(frontier) != 1 || frontier[0].Refinement.Time != 1 {
		t.Fatalf("expected exactly the smallest-scoring split in the frontier, got %+v", frontier)
	}
}

// #endregion choose-frontier-tests
