package search

import (
	"container/heap"

	"github.com/adaptive-rti/rti-go/internal/rtimodel"
)

// #region config
// BestFirstConfig bounds how many split and point candidates a single
// expansion step considers before giving up on deepening that branch,
// the same two knobs the original search hardcodes as
// max_splits_to_search / max_points_to_search.
type BestFirstConfig struct {
	MaxPointsToSearch int
	MaxSplitsToSearch int
}

// DefaultBestFirstConfig returns the original search's hardcoded bounds.
func DefaultBestFirstConfig() BestFirstConfig {
	return BestFirstConfig{MaxPointsToSearch: 10, MaxSplitsToSearch: 10}
}

// #endregion config

// #region queue
// queueItem is one frontier node: the refinement path (applied in order,
// from ta's state when BestFirst started) that reaches it, and the
// greedy-search score that path led to.
type queueItem struct {
	score float64
	path  []Refinement
}

// refinementQueue is a max-heap by score, mirroring the original's
// priority_queue<pair<double, refinement_list*>> ordered by its own
// less-than comparator (which, despite the name, ranks larger scores
// first).
type refinementQueue []*queueItem

func (q refinementQueue) Len() int            { return len(q) }
func (q refinementQueue) Less(i, j int) bool  { return q[i].score > q[j].score }
func (q refinementQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *refinementQueue) Push(x interface{}) { *q = append(*q, x.(*queueItem)) }
func (q *refinementQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// #endregion queue

// #region frontier
// selectFrontier picks the candidates a newly expanded node should be
// pushed to the queue for: the lowest-scoring splits under significance,
// capped at cfg.MaxSplitsToSearch, or — if none qualify — the
// highest-scoring merges at or above significance, capped at
// cfg.MaxPointsToSearch. The scan count advances on every candidate
// inspected, matching or not, so a skipped candidate still counts
// against the cap.
func selectFrontier(ctx *rtimodel.LearningContext, cfg BestFirstConfig, merges, splits []ScoredRefinement) []ScoredRefinement {
	var frontier []ScoredRefinement
	for i, n := len(splits)-1, 0; i >= 0 && n < cfg.MaxSplitsToSearch; i, n = i-1, n+1 {
		if splits[i].Score < ctx.Significance {
			frontier = append(frontier, splits[i])
		}
	}
	if len(frontier) > 0 {
		return frontier
	}
	for i, n := 0, 0; i < len(merges) && n < cfg.MaxPointsToSearch; i, n = i+1, n+1 {
		if merges[i].Score >= ctx.Significance {
			frontier = append(frontier, merges[i])
		}
	}
	return frontier
}

// #endregion frontier

// #region bestfirst
// addToQueue scores each frontier candidate by running the full greedy
// recursion from the node it leads to — reporting every strictly
// AIC-improving leaf found along the way, exactly as Greedy would,
// sharing BestFirst's own running best score — then pushes (score,
// currentPath+candidate) onto pq. ta is left exactly as it was found:
// each candidate is refined, scored, and undone before the next is
// tried.
func addToQueue(ta *rtimodel.Automaton, ctx *rtimodel.LearningContext, sink SolutionSink, bestSolution *float64, currentPath []Refinement, frontier []ScoredRefinement, pq *refinementQueue) {
	for _, candidate := range frontier {
		candidate.Refinement.Refine(ta)
		score := greedyStep(ta, ctx, sink, bestSolution)
		candidate.Refinement.UndoRefine(ta)

		path := make([]Refinement, len(currentPath)+1)
		copy(path, currentPath)
		path[len(currentPath)] = candidate.Refinement
		heap.Push(pq, &queueItem{score: score, path: path})
	}
}

// changeRefinementList moves ta from whatever *currentPath currently has
// applied to newPath: currentPath is undone in reverse, newPath is
// applied in order, and *currentPath is updated to match — there is no
// attempt to reuse a common prefix between the two paths.
func changeRefinementList(ta *rtimodel.Automaton, currentPath *[]Refinement, newPath []Refinement) {
	for i := len(*currentPath) - 1; i >= 0; i-- {
		(*currentPath)[i].UndoRefine(ta)
	}
	for _, r := range newPath {
		r.Refine(ta)
	}
	*currentPath = newPath
}

// BestFirst explores the refinement search space breadth-first by score:
// starting from ta's current state, it repeatedly pops the
// highest-scoring queued path, moves ta onto it, and — unless its
// AIC-without-default already exceeds the best solution found so far —
// expands its frontier and queues each candidate's own greedy score.
// Every strictly AIC-improving automaton Greedy would have reported
// along the way is reported to sink exactly as it would be from Greedy
// itself. ta is restored to its starting state before BestFirst returns.
func BestFirst(ta *rtimodel.Automaton, ctx *rtimodel.LearningContext, cfg BestFirstConfig, sink SolutionSink) {
	bestSolution := -1.0
	var currentPath []Refinement
	pq := &refinementQueue{}
	heap.Init(pq)

	merges, splits := GetBestRefinements(ta, ctx)
	addToQueue(ta, ctx, sink, &bestSolution, currentPath, selectFrontier(ctx, cfg, merges, splits), pq)

	for pq.Len() > 0 {
		top := heap.Pop(pq).(*queueItem)
		changeRefinementList(ta, &currentPath, top.path)

		aic := CalculateAICWithoutDefault(ta, ctx)
		if bestSolution != -1.0 && aic > bestSolution {
			continue
		}

		merges, splits = GetBestRefinements(ta, ctx)
		frontier := selectFrontier(ctx, cfg, merges, splits)
		if len(frontier) == 0 {
			continue
		}
		addToQueue(ta, ctx, sink, &bestSolution, currentPath, frontier, pq)
	}

	for i := len(currentPath) - 1; i >= 0; i-- {
		currentPath[i].UndoRefine(ta)
	}
}

// #endregion bestfirst
