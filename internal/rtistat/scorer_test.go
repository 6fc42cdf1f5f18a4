package rtistat

import (
	"math"
	"testing"
)

type fakeScorable struct {
	symbolCounts, timeCounts, symbolMarks, timeMarks []int
	totalCounts, totalMarks                          int
}

func (f *fakeScorable) SymbolCounts() []int { return f.symbolCounts }
func (f *fakeScorable) TimeCounts() []int   { return f.timeCounts }
func (f *fakeScorable) TotalCounts() int    { return f.totalCounts }
func (f *fakeScorable) SymbolMarks() []int  { return f.symbolMarks }
func (f *fakeScorable) TimeMarks() []int    { return f.timeMarks }
func (f *fakeScorable) TotalMarks() int     { return f.totalMarks }

func testParams() Params {
	return Params{MaxSymbol: 2, NumHistogramBars: 4, MinData: 10, MaxPValue: 1 - 0.1e-100, MinPValue: 0.1e-100}
}

func TestChiSquaredUpperTailKnownValues(t *testing.T) {
	// chi2(1 dof) at x=3.841 is roughly the 0.05 critical value.
	p := ChiSquaredUpperTail(3.841, 1)
	if p < 0.04 || p > 0.06 {
		t.Fatalf("expected p near 0.05, got %f", p)
	}
}

func TestChiSquaredUpperTailZeroX(t *testing.T) {
	if p := ChiSquaredUpperTail(0, 5); p != 1 {
		t.Fatalf("expected p=1 at x=0, got %f", p)
	}
}

func TestChi2SymbolsBelowMinData(t *testing.T) {
	old := &fakeScorable{symbolCounts: []int{5, 5}, totalCounts: 10}
	new := &fakeScorable{symbolCounts: []int{5, 5}, totalCounts: 5}
	acc := NewAccumulator(testParams())
	_, ok := Chi2Symbols(acc, old, new, testParams())
	if ok {
		t.Fatal("expected failure when a sample total is below minData")
	}
}

func TestChi2SymbolsIdenticalDistributionsHighP(t *testing.T) {
	old := &fakeScorable{symbolCounts: []int{50, 50}, totalCounts: 100}
	new := &fakeScorable{symbolCounts: []int{50, 50}, totalCounts: 100}
	acc := NewAccumulator(testParams())
	p, ok := Chi2Symbols(acc, old, new, testParams())
	if !ok {
		t.Fatal("expected a valid score for identical distributions")
	}
	if p < 0.9 {
		t.Fatalf("expected high p-value for identical distributions, got %f", p)
	}
}

func TestChi2SymbolsDivergentDistributionsLowP(t *testing.T) {
	old := &fakeScorable{symbolCounts: []int{90, 10}, totalCounts: 100}
	new := &fakeScorable{symbolCounts: []int{10, 90}, totalCounts: 100}
	acc := NewAccumulator(testParams())
	p, ok := Chi2Symbols(acc, old, new, testParams())
	if !ok {
		t.Fatal("expected a valid score for divergent distributions")
	}
	if p > 0.01 {
		t.Fatalf("expected low p-value for divergent distributions, got %f", p)
	}
}

func TestLikelihoodSymbolsIdenticalDistributions(t *testing.T) {
	old := &fakeScorable{symbolCounts: []int{50, 50}, totalCounts: 100}
	new := &fakeScorable{symbolCounts: []int{50, 50}, totalCounts: 100}
	acc := NewAccumulator(testParams())
	parameters, ratio := LikelihoodSymbols(acc, old, new, testParams())
	if parameters == 0 {
		t.Fatal("expected nonzero parameter count")
	}
	if ratio > 1e-6 {
		t.Fatalf("expected ~0 log-likelihood ratio for identical distributions, got %f", ratio)
	}
}

func TestChi2ScorePoolsDiscardedCategoryOutOfTotals(t *testing.T) {
	first := []int{40, 10, 9}
	second := []int{10, 40, 1}

	chi2, dof, ok := chi2Score(first, second, 59, 51, 10)
	if !ok {
		t.Fatal("expected a valid score")
	}
	if dof != 1 {
		t.Fatalf("expected 1 degree of freedom once the third category pools and is discarded, got %v", dof)
	}
	// With the pool (9, 1) subtracted out of the totals before scoring,
	// the two surviving categories both compare against totals of 50/50,
	// giving an exact chi2 of 18+18. Scoring against the unreduced totals
	// (59, 51) instead yields roughly 36.72, so this also guards against
	// losing the total-reduction step.
	if math.Abs(chi2-36.0) > 1e-9 {
		t.Fatalf("expected chi2 of 36, got %v", chi2)
	}
}

func TestLikelihoodRatioPoolsDiscardedCategoryOutOfTotals(t *testing.T) {
	first := []int{30, 10, 4, 2}
	second := []int{10, 30, 6, 8}

	ratio, parameters, ok := likelihoodRatio(first, second, 46, 54, 10)
	if !ok {
		t.Fatal("expected a valid score")
	}
	if parameters != 2 {
		t.Fatalf("expected 2 surviving categories, got %d", parameters)
	}
	// The pooled categories sum to (6, 14); only the old side is below
	// minData, so this exercises the OR guard specifically. Subtracting
	// the pool out of the totals before scoring leaves both surviving
	// categories comparing against totals of 40/40, giving an exact
	// ratio of -10.46496287529096. Scoring against the unreduced totals
	// (46, 54) instead yields roughly -10.72.
	const want = -10.46496287529096
	if math.Abs(ratio-want) > 1e-6 {
		t.Fatalf("expected ratio %v, got %v", want, ratio)
	}
}

func TestAccumulatorConsensusEmpty(t *testing.T) {
	acc := NewAccumulator(testParams())
	if acc.Consensus() != -1 {
		t.Fatal("expected -1 consensus with no sub-tests added")
	}
}

func TestAccumulatorConsensusAccumulates(t *testing.T) {
	acc := NewAccumulator(testParams())
	acc.AddConsensus(0.5)
	acc.AddConsensus(0.5)
	p := acc.Consensus()
	if p <= 0 || p >= 1 {
		t.Fatalf("expected a valid combined p-value, got %f", p)
	}
}
