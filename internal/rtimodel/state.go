package rtimodel

import (
	"github.com/adaptive-rti/rti-go/internal/interval"
	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region state
// State is one node of the automaton-under-construction: either a colored
// (promoted, part of the automaton's explicit state list) state or a tree
// state still owned by exactly one interval. Every State carries one
// interval partition per symbol (targets) and a running set of counters
// (stats) over the tails it currently owns.
type State struct {
	ctx     *LearningContext
	targets []*interval.Partition[*State]
	stats   *stateStats
}

func newState(ctx *LearningContext) *State {
	s := &State{ctx: ctx, stats: newStateStats(ctx)}
	s.targets = make([]*interval.Partition[*State], ctx.MaxSymbol)
	for i := range s.targets {
		s.targets[i] = interval.New[*State](ctx.MinTime, ctx.MaxTime)
	}
	return s
}

// Stats exposes this state's counters. *stateStats satisfies
// rtistat.Scorable structurally; the search package reads these counters
// directly when computing AIC.
func (s *State) Stats() *stateStats { return s.stats }

// GetInterval returns the interval of symbol's partition containing time.
func (s *State) GetInterval(symbol, time int) *interval.Interval[*State] {
	return s.targets[symbol].Lookup(time)
}

// GetTarget returns the state reached from s on (symbol, time), or nil if
// unassigned.
func (s *State) GetTarget(symbol, time int) *State {
	return s.GetInterval(symbol, time).Target
}

// Partition returns symbol's interval partition.
func (s *State) Partition(symbol int) *interval.Partition[*State] {
	return s.targets[symbol]
}

// AddTail places tail into the interval of its own symbol/time and updates
// this state's counters.
func (s *State) AddTail(tail *timedcorpus.Tail) {
	in := s.GetInterval(tail.Symbol(), tail.TimeValue())
	in.AddTail(tail)
	s.stats.AddCount(tail)
}

// DelTail removes tail from the interval of its own symbol/time and
// updates this state's counters.
func (s *State) DelTail(tail *timedcorpus.Tail) {
	in := s.GetInterval(tail.Symbol(), tail.TimeValue())
	in.DelTail(tail)
	s.stats.DelCount(tail)
}

// CreateStates recursively builds the initial, fully unsplit prefix tree
// rooted at s: for every symbol whose single interval holds tails, a fresh
// child tree state is allocated, every tail's NextTail (if any) is added
// to it, and the recursion continues into that child.
func (s *State) CreateStates() {
	for symbol := 0; symbol < s.ctx.MaxSymbol; symbol++ {
		in := s.targets[symbol].First()
		if in.IsEmpty() {
			continue
		}
		child := newState(s.ctx)
		in.Target = child
		in.Tails.Each(func(_ int, tail *timedcorpus.Tail) {
			if next := tail.NextTail(); next != nil {
				child.AddTail(next)
			}
		})
		child.CreateStates()
	}
}

// #endregion state

// #region marking
// Mark marks tail within in, owned by s, as belonging to the provisional
// "new" side of a candidate split, recursing into the next state's
// corresponding interval along the tail chain. The stats updated are
// always the owning state's own — s's, then in.Target's for the
// recursive step — never the target's stats at the step that moved into
// it.
func Mark(s *State, in *interval.Interval[*State], tail *timedcorpus.Tail) {
	if tail.IsMarked() {
		return
	}
	s.stats.Mark(tail)
	in.NumMarked++
	tail.Mark()
	if next := tail.NextTail(); next != nil {
		nextIn := in.Target.GetInterval(next.Symbol(), next.TimeValue())
		Mark(in.Target, nextIn, next)
	}
}

// UnMark reverses a prior Mark.
func UnMark(s *State, in *interval.Interval[*State], tail *timedcorpus.Tail) {
	if !tail.IsMarked() {
		return
	}
	s.stats.UnMark(tail)
	in.NumMarked--
	tail.UnMark()
	if next := tail.NextTail(); next != nil {
		nextIn := in.Target.GetInterval(next.Symbol(), next.TimeValue())
		UnMark(in.Target, nextIn, next)
	}
}

// ClearMarked un-marks every tail currently held in in, owned by s.
func ClearMarked(s *State, in *interval.Interval[*State]) {
	var tails []*timedcorpus.Tail
	in.Tails.Each(func(_ int, tail *timedcorpus.Tail) { tails = append(tails, tail) })
	for _, tail := range tails {
		UnMark(s, in, tail)
	}
}

// #endregion marking
