package search

import "github.com/adaptive-rti/rti-go/internal/rtimodel"

// #region sink
// SolutionSink receives every automaton Greedy or BestFirst judges to be
// an improvement over the best one seen so far in its run.
type SolutionSink interface {
	Solution(text string, aic float64)
}

// #endregion sink

// #region greedy
// Greedy recursively refines ta one step at a time: at each node it asks
// GetBestRefinements for the candidates reachable from the current
// state, applies the lowest-scoring split if one scores below
// ctx.Significance, otherwise applies the best-scoring merge (which may
// be the synthetic color candidate), recurses, then undoes the
// refinement before returning so ta is left exactly as it was found.
// Every strictly AIC-improving leaf is reported to sink.Solution; the
// running best-AIC this call compares against is local to this
// invocation, not shared across separate top-level calls.
func Greedy(ta *rtimodel.Automaton, ctx *rtimodel.LearningContext, sink SolutionSink) float64 {
	bestSolution := -1.0
	return greedyStep(ta, ctx, sink, &bestSolution)
}

func greedyStep(ta *rtimodel.Automaton, ctx *rtimodel.LearningContext, sink SolutionSink, bestSolution *float64) float64 {
	merges, splits := GetBestRefinements(ta, ctx)

	if len(merges) == 0 && len(splits) == 0 {
		aic := CalculateAIC(ta, ctx)
		if *bestSolution == -1.0 || aic < *bestSolution {
			sink.Solution(ta.ToStr(), aic)
			*bestSolution = aic
		}
		return aic
	}

	chosen := choose(ctx, merges, splits)

	chosen.Refine(ta)
	result := greedyStep(ta, ctx, sink, bestSolution)
	chosen.UndoRefine(ta)

	return result
}

// choose picks the refinement greedy() and add_merges_to_q() agree on: the
// lowest-scoring split if one scores below significance, else the
// highest-scoring merge. Both merges and splits arrive sorted descending
// by score, so "best merge" is merges[0] and "lowest-scoring split" is
// the last element of splits.
func choose(ctx *rtimodel.LearningContext, merges, splits []ScoredRefinement) Refinement {
	if len(splits) > 0 && splits[len(splits)-1].Score < ctx.Significance {
		return splits[len(splits)-1].Refinement
	}
	return merges[0].Refinement
}

// #endregion greedy
