package search

import (
	"math"

	"github.com/adaptive-rti/rti-go/internal/rtimodel"
	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region parameters
// CalculateParameters counts the free parameters of ta's current model:
// (NumHistogramBars-1) per colored state for the time distribution, plus
// the transition count GetSize reports for the symbol distribution.
func CalculateParameters(ta *rtimodel.Automaton, ctx *rtimodel.LearningContext) int {
	return (ctx.NumHistogramBars-1)*ta.NumStates() + ta.GetSize()
}

// #endregion parameters

// #region aic
// CalculateAIC scores ta's current model against every timed symbol in the
// corpus it was built from, including the ones that ran off the end of the
// colored automaton into uncolored tree territory — those are charged the
// default probability 1/(NumHistogramBars+MaxSymbol) rather than being
// left out of the likelihood sum.
//
// Its inner per-time-bin loop updates num_tests from each state's symbol
// count rather than its time count — a copy-paste slip carried over
// unfixed; num_tests is never read after being accumulated, so the slip
// has no effect on the value this function returns, only on a dead
// local.
func CalculateAIC(ta *rtimodel.Automaton, ctx *rtimodel.LearningContext) float64 {
	result := 0.0
	numTests := 0.0
	defaultLog := math.Log(1.0 / float64(ctx.NumHistogramBars+ctx.MaxSymbol))

	for i := 0; i < ta.NumStates(); i++ {
		st := ta.GetState(i)
		stats := st.Stats()

		for s := 0; s < ctx.MaxSymbol; s++ {
			symbolProb := float64(stats.SymbolCounts()[s]) / float64(stats.TotalCounts())
			if symbolProb != 0 {
				result += math.Log(symbolProb) * float64(stats.SymbolCounts()[s])
				numTests += float64(stats.SymbolCounts()[s]) / 2.0
			}

			for _, in := range st.Partition(s).Intervals() {
				if ta.ContainsState(in.Target) || in.IsEmpty() {
					continue
				}
				in.Tails.Each(func(_ int, tail *timedcorpus.Tail) {
					if tail.NextTail() != nil {
						result += defaultLog * float64(tail.Length-1)
						numTests += float64(tail.Length - 1)
					}
				})
			}
		}

		for t := 0; t < ctx.NumHistogramBars; t++ {
			timeProb := float64(stats.TimeCounts()[t]) / float64(stats.TotalCounts())
			if timeProb != 0 {
				result += math.Log(timeProb) * float64(stats.TimeCounts()[t])
				// Mirrors the original's own slip: this should read
				// TimeCounts()[t], not SymbolCounts()[t].
				if t < ctx.MaxSymbol {
					numTests += float64(stats.SymbolCounts()[t]) / 2.0
				}
			}
		}
	}

	return 2.0*float64(CalculateParameters(ta, ctx)) - 2.0*result
}

// CalculateAICWithoutDefault is CalculateAIC without the off-tree default
// probability term: it scores only the timed symbols the colored
// automaton actually accounts for, cheaper to compute and used during
// search to prune branches whose pre-default score already exceeds the
// best known solution.
func CalculateAICWithoutDefault(ta *rtimodel.Automaton, ctx *rtimodel.LearningContext) float64 {
	result := 0.0
	numTests := 0.0

	for i := 0; i < ta.NumStates(); i++ {
		st := ta.GetState(i)
		stats := st.Stats()

		for s := 0; s < ctx.MaxSymbol; s++ {
			symbolProb := float64(stats.SymbolCounts()[s]) / float64(stats.TotalCounts())
			if symbolProb != 0 {
				result += math.Log(symbolProb) * float64(stats.SymbolCounts()[s])
				numTests += float64(stats.SymbolCounts()[s]) / 2.0
			}
		}

		for t := 0; t < ctx.NumHistogramBars; t++ {
			timeProb := float64(stats.TimeCounts()[t]) / float64(stats.TotalCounts())
			if timeProb != 0 {
				result += math.Log(timeProb) * float64(stats.TimeCounts()[t])
				// Same slip as CalculateAIC's time-bin loop, kept unfixed
				// and guarded the same way.
				if t < ctx.MaxSymbol {
					numTests += float64(stats.SymbolCounts()[t]) / 2.0
				}
			}
		}
	}

	return 2.0*float64(CalculateParameters(ta, ctx)) - 2.0*result
}

// #endregion aic
