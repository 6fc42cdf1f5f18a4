package rtimodel

import (
	"github.com/adaptive-rti/rti-go/internal/rtistat"
	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region params
func (ctx *LearningContext) scorerParams() rtistat.Params {
	return rtistat.Params{
		MaxSymbol:        ctx.MaxSymbol,
		NumHistogramBars: ctx.NumHistogramBars,
		MinData:          ctx.MinData,
		MaxPValue:        ctx.MaxPValue,
		MinPValue:        ctx.MinPValue,
	}
}

func resultFor(acc *rtistat.Accumulator, testType TestType) float64 {
	if testType == ChiSquared {
		return acc.Consensus()
	}
	return acc.Likelihood()
}

// #endregion params

// #region recurse-test
// recurseTestMerge scores old against new at every boundary-aligned
// interval pair they share, recursing into any pair where both sides meet
// the minimum-data floor.
func recurseTestMerge(acc *rtistat.Accumulator, old, new *State, params rtistat.Params, testType TestType) {
	if old == nil || new == nil {
		return
	}
	if testType == ChiSquared {
		rtistat.Chi2Symbols(acc, old.stats, new.stats, params)
		rtistat.Chi2Time(acc, old.stats, new.stats, params)
	} else {
		rtistat.LikelihoodSymbols(acc, old.stats, new.stats, params)
		rtistat.LikelihoodTime(acc, old.stats, new.stats, params)
	}

	for symbol := 0; symbol < old.ctx.MaxSymbol; symbol++ {
		oldInts := old.targets[symbol].Intervals()
		newInts := new.targets[symbol].Intervals()
		n := len(oldInts)
		if len(newInts) < n {
			n = len(newInts)
		}
		for i := 0; i < n; i++ {
			oi, ni := oldInts[i], newInts[i]
			if oi.Tails.Len() < params.MinData || ni.Tails.Len() < params.MinData {
				continue
			}
			recurseTestMerge(acc, oi.Target, ni.Target, params, testType)
		}
	}
}

// recurseTestSplit scores state's settled counts against its marked
// counts, recursing into any interval whose settled and marked sides both
// meet the minimum-data floor.
func recurseTestSplit(acc *rtistat.Accumulator, state *State, params rtistat.Params, testType TestType) {
	if state == nil {
		return
	}
	if testType == ChiSquared {
		rtistat.Chi2SymbolsSplit(acc, state.stats, params)
		rtistat.Chi2TimeSplit(acc, state.stats, params)
	} else {
		rtistat.LikelihoodSymbolsSplit(acc, state.stats, params)
		rtistat.LikelihoodTimeSplit(acc, state.stats, params)
	}

	for symbol := 0; symbol < state.ctx.MaxSymbol; symbol++ {
		for _, in := range state.targets[symbol].Intervals() {
			total, marked := in.Tails.Len(), in.NumMarked
			if total-marked < params.MinData || marked < params.MinData {
				continue
			}
			recurseTestSplit(acc, in.Target, params, testType)
		}
	}
}

// #endregion recurse-test

// #region entry-points
// TestPoint scores the candidate of repointing s's (symbol, time) interval
// onto newTarget without actually committing the change: it temporarily
// splits the current target's boundaries to align with newTarget's
// (no tails are merged), scores every aligned interval pair, then undoes
// the alignment before returning.
// Returns 0 if the interval has no current target to compare against.
func (s *State) TestPoint(symbol, time int, newTarget *State) float64 {
	in := s.GetInterval(symbol, time)
	oldTarget := in.Target
	if oldTarget == nil {
		return 0
	}
	if oldTarget == newTarget {
		panic("rtimodel: TestPoint candidate target equals current target")
	}

	params := s.ctx.scorerParams()
	acc := rtistat.NewAccumulator(params)

	in.Target = newTarget
	preSplit(oldTarget, newTarget)
	recurseTestMerge(acc, oldTarget, newTarget, params, s.ctx.TestType)
	unPreSplit(oldTarget)
	in.Target = oldTarget

	return resultFor(acc, s.ctx.TestType)
}

// TestSplit scores the candidate of splitting s's (symbol, time) interval
// at time: every tail with a time value at most time is marked as
// belonging to the provisional left side, the target's settled-vs-marked
// counts are scored recursively, and the marks are left in place for the
// caller to clear once every candidate split point for this interval has
// been scored. Returns 0 if the interval has no target.
func (s *State) TestSplit(symbol, time int) float64 {
	in := s.GetInterval(symbol, time)
	target := in.Target
	if target == nil {
		return 0
	}

	var tails []*timedcorpus.Tail
	in.Tails.Each(func(_ int, tail *timedcorpus.Tail) { tails = append(tails, tail) })
	for _, tail := range tails {
		if tail.TimeValue() <= time {
			Mark(s, in, tail)
		} else if tail.IsMarked() {
			panic("rtimodel: tail marked beyond its split point")
		}
	}

	params := s.ctx.scorerParams()
	acc := rtistat.NewAccumulator(params)
	recurseTestSplit(acc, target, params, s.ctx.TestType)

	return resultFor(acc, s.ctx.TestType)
}

// #endregion entry-points
