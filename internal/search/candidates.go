package search

import (
	"sort"

	"github.com/adaptive-rti/rti-go/internal/rtimodel"
	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region candidate-interval
// pickCandidateInterval selects the single (state, symbol) interval that
// GetBestRefinements evaluates this round: among every uncolored,
// non-empty interval reachable from a colored state, the one holding the
// most tails. Ties keep whichever was found first, matching a strict
// greater-than comparison against the running maximum.
func pickCandidateInterval(ta *rtimodel.Automaton) (stateIdx, symbol, time, size int) {
	stateIdx, symbol, time, size = -1, -1, -1, -1
	for i := 0; i < ta.NumStates(); i++ {
		st := ta.GetState(i)
		for s := 0; s < ta.Context().MaxSymbol; s++ {
			for _, in := range st.Partition(s).Intervals() {
				if ta.ContainsState(in.Target) || in.IsEmpty() {
					continue
				}
				if n := in.Tails.Len(); size == -1 || n > size {
					stateIdx, symbol, time, size = i, s, in.End, n
				}
			}
		}
	}
	return stateIdx, symbol, time, size
}

// #endregion candidate-interval

// #region best-refinements
// GetBestRefinements scores every merge and split candidate reachable from
// the single interval pickCandidateInterval selects: a TestPoint against
// every colored state but the root, plus a synthetic color candidate
// pinned at the run's own significance level, for merges; one TestSplit
// per distinct sub-timestamp inside the interval, for splits. Both sets
// come back sorted by descending score, mirroring a
// greater-than-ordered multimap. Returns two empty sets if there is no
// eligible candidate interval, or if the one found holds fewer than
// 2*MinData tails.
//
// TestPoint and TestSplit return 0 rather than a sentinel "no score"
// value when an interval has no existing target to compare against, so
// every candidate this function builds is scored and kept — it never
// filters a point or split out by its score.
func GetBestRefinements(ta *rtimodel.Automaton, ctx *rtimodel.LearningContext) (merges, splits []ScoredRefinement) {
	ta.CheckConsistency()

	stateIdx, symbol, time, _ := pickCandidateInterval(ta)
	if stateIdx == -1 {
		return nil, nil
	}

	state := ta.GetState(stateIdx)
	in := state.GetInterval(symbol, time)

	if in.Tails.Len() < 2*ctx.MinData {
		return nil, nil
	}

	ta.CheckConsistency()

	for i := 0; i < ta.NumStates(); i++ {
		target := ta.GetState(i)
		if target == ta.Root() {
			continue
		}
		score := state.TestPoint(symbol, in.End, target)
		merges = append(merges, ScoredRefinement{
			Score:      score,
			Refinement: Refinement{Kind: Point, StateIdx: stateIdx, TargetIdx: i, Symbol: symbol, Time: in.End},
		})
	}

	ta.CheckConsistency()

	merges = append(merges, ScoredRefinement{
		Score:      ctx.Significance,
		Refinement: Refinement{Kind: Color, StateIdx: stateIdx, TargetIdx: -1, Symbol: symbol, Time: in.End},
	})

	prev, have := 0, false
	in.Tails.Each(func(t int, _ *timedcorpus.Tail) {
		if !have {
			prev, have = t, true
			return
		}
		if prev < t {
			score := state.TestSplit(symbol, prev)
			splits = append(splits, ScoredRefinement{
				Score:      score,
				Refinement: Refinement{Kind: Split, StateIdx: stateIdx, TargetIdx: -1, Symbol: symbol, Time: prev},
			})
			prev = t
		}
	})
	rtimodel.ClearMarked(state, in)

	sort.SliceStable(merges, func(i, j int) bool { return merges[i].Score > merges[j].Score })
	sort.SliceStable(splits, func(i, j int) bool { return splits[i].Score > splits[j].Score })
	return merges, splits
}

// #endregion best-refinements
