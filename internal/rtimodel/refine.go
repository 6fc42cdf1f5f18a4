package rtimodel

import (
	"github.com/adaptive-rti/rti-go/internal/interval"
	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region pre-split
// preSplit aligns old's interval boundaries to new's, symbol by symbol, so
// that later per-interval walks over the two states can assume the i-th
// interval of each partition covers the same [begin,end] span. old must be
// a still-unsplit tree state for every symbol — old is the tree state a
// point operation displaces, and tree states keep a single interval per
// symbol; preSplit panics if that does not hold.
func preSplit(old, new *State) {
	for symbol := 0; symbol < old.ctx.MaxSymbol; symbol++ {
		if !old.targets[symbol].IsUnsplit() {
			panic("rtimodel: preSplit requires an unsplit target")
		}
		newInts := new.targets[symbol].Intervals()
		for i := 0; i < len(newInts)-1; i++ {
			old.targets[symbol].Split(newInts[i].End)
		}
	}

	for symbol := 0; symbol < old.ctx.MaxSymbol; symbol++ {
		oldInts := old.targets[symbol].Intervals()
		newInts := new.targets[symbol].Intervals()
		for i := range oldInts {
			oi, ni := oldInts[i], newInts[i]
			if oi.Begin != ni.Begin || oi.End != ni.End {
				panic("rtimodel: preSplit produced misaligned intervals")
			}
			if oi.Target != nil && ni.Target != nil {
				preSplit(oi.Target, ni.Target)
			}
		}
	}
}

// unPreSplit reverses preSplit: first every symbol's descendants are
// unwound (one full pass over all symbols), then every symbol's boundary
// splits are collapsed back to a single interval (a second, separate pass
// over all symbols). These are not interleaved per symbol.
func unPreSplit(old *State) {
	for symbol := 0; symbol < old.ctx.MaxSymbol; symbol++ {
		for _, oi := range old.targets[symbol].Intervals() {
			if oi.Target != nil {
				unPreSplit(oi.Target)
			}
		}
	}

	for symbol := 0; symbol < old.ctx.MaxSymbol; symbol++ {
		for !old.targets[symbol].IsUnsplit() {
			first := old.targets[symbol].First()
			old.targets[symbol].UndoSplit(first.End)
		}
		if !old.targets[symbol].IsUnsplit() {
			panic("rtimodel: unPreSplit failed to collapse partition")
		}
	}
}

// #endregion pre-split

// #region split
// recurseSplit reassigns ownership of the next-tails reachable from newIn
// into the fresh state newIn.Target, and descends into the corresponding
// child slot of oldTarget for every symbol with tails on the new side.
func recurseSplit(newIn *interval.Interval[*State], oldTarget *State) {
	newTarget := newIn.Target

	var movers []*timedcorpus.Tail
	newIn.Tails.Each(func(_ int, tail *timedcorpus.Tail) { movers = append(movers, tail) })
	for _, tail := range movers {
		if next := tail.NextTail(); next != nil {
			oldTarget.DelTail(next)
			newTarget.AddTail(next)
		}
	}

	for symbol := 0; symbol < oldTarget.ctx.MaxSymbol; symbol++ {
		nextNewIn := newTarget.targets[symbol].Lookup(oldTarget.ctx.MaxTime)
		if nextNewIn.IsEmpty() {
			continue
		}
		nextOldIn := oldTarget.targets[symbol].Lookup(oldTarget.ctx.MaxTime)
		if !nextOldIn.IsEmpty() {
			nextNewIn.Target = newState(oldTarget.ctx)
			recurseSplit(nextNewIn, nextOldIn.Target)
		} else {
			nextNewIn.Target = nextOldIn.Target
			nextOldIn.Target = nil
		}
	}
}

// recurseUnSplit reverses recurseSplit: every symbol's child slot is
// unwound or its pointer handed back first (reverse symbol order), then a
// second reverse pass splices whatever tails remain in newTarget's single
// interval per symbol back into oldTarget's, updating both states' counts
// directly.
func recurseUnSplit(newIn *interval.Interval[*State], oldTarget *State) {
	newTarget := newIn.Target

	for symbol := oldTarget.ctx.MaxSymbol - 1; symbol >= 0; symbol-- {
		nextNewIn := newTarget.targets[symbol].Lookup(oldTarget.ctx.MaxTime)
		if nextNewIn.IsEmpty() {
			continue
		}
		nextOldIn := oldTarget.targets[symbol].Lookup(oldTarget.ctx.MaxTime)
		if !nextOldIn.IsEmpty() {
			recurseUnSplit(nextNewIn, nextOldIn.Target)
			nextNewIn.Target = nil
		} else {
			nextOldIn.Target = nextNewIn.Target
			nextNewIn.Target = nil
		}
	}

	for symbol := oldTarget.ctx.MaxSymbol - 1; symbol >= 0; symbol-- {
		nextNewIn := newTarget.targets[symbol].Lookup(oldTarget.ctx.MaxTime)
		nextOldIn := oldTarget.targets[symbol].Lookup(oldTarget.ctx.MaxTime)
		var movers []*timedcorpus.Tail
		nextNewIn.Tails.Each(func(_ int, tail *timedcorpus.Tail) { movers = append(movers, tail) })
		for _, tail := range movers {
			nextOldIn.Tails.Add(tail)
			oldTarget.stats.AddCount(tail)
			newTarget.stats.DelCount(tail)
		}
	}
}

// #endregion split

// #region merge
// recurseMerge folds old into new, interval by interval, for boundary-
// aligned partitions (the alignment preSplit established). A non-empty old
// interval either recurses into an already-occupied new slot or hands its
// target pointer straight to new; either way, its tails are copied (not
// moved — old keeps its own copy, which undoing a merge needs to see)
// into the new interval and counted against new's state.
func recurseMerge(old, new *State) {
	for symbol := 0; symbol < old.ctx.MaxSymbol; symbol++ {
		oldInts := old.targets[symbol].Intervals()
		newInts := new.targets[symbol].Intervals()
		for i := range oldInts {
			oi, ni := oldInts[i], newInts[i]
			if oi.IsEmpty() {
				continue
			}
			if !ni.IsEmpty() {
				recurseMerge(oi.Target, ni.Target)
			} else {
				ni.Target = oi.Target
				oi.Target = nil
			}

			var copied []*timedcorpus.Tail
			oi.Tails.Each(func(_ int, tail *timedcorpus.Tail) { copied = append(copied, tail) })
			for _, tail := range copied {
				ni.Tails.Add(tail)
				new.stats.AddCount(tail)
			}
		}
	}
}

// recurseUnMerge reverses recurseMerge: walking symbols and intervals in
// reverse, every tail old still holds in a non-empty interval is removed
// from new's corresponding interval and uncounted from new's state, then
// the target pointer is either handed back (new's slot is now empty) or
// the recursion continues.
func recurseUnMerge(old, new *State) {
	for symbol := old.ctx.MaxSymbol - 1; symbol >= 0; symbol-- {
		oldInts := old.targets[symbol].Intervals()
		newInts := new.targets[symbol].Intervals()
		for i := len(oldInts) - 1; i >= 0; i-- {
			oi, ni := oldInts[i], newInts[i]
			if oi.IsEmpty() {
				continue
			}

			var removed []*timedcorpus.Tail
			oi.Tails.Each(func(_ int, tail *timedcorpus.Tail) { removed = append(removed, tail) })
			for _, tail := range removed {
				ni.Tails.Remove(tail)
				new.stats.DelCount(tail)
			}

			if !ni.IsEmpty() {
				recurseUnMerge(oi.Target, ni.Target)
			} else {
				oi.Target = ni.Target
				ni.Target = nil
			}
		}
	}
}

// #endregion merge

// #region entry-points
// Split divides s's (symbol, time) interval at time, allocating a fresh
// child state for the newly carved-off left interval unless the
// counterpart interval on the right is itself empty, in which case the
// right interval's existing target is simply handed to the left one.
func (s *State) Split(symbol, time int) {
	newIn, orig := s.targets[symbol].Split(time)
	if newIn.IsEmpty() {
		return
	}
	if !orig.IsEmpty() {
		newIn.Target = newState(s.ctx)
		recurseSplit(newIn, orig.Target)
	} else {
		newIn.Target = orig.Target
		orig.Target = nil
	}
}

// UndoSplit reverses a prior Split(symbol, time).
func (s *State) UndoSplit(symbol, time int) {
	shrunk := s.GetInterval(symbol, time+1)
	newIn := s.GetInterval(symbol, time)
	if !newIn.IsEmpty() {
		if !shrunk.IsEmpty() {
			recurseUnSplit(newIn, shrunk.Target)
			newIn.Target = nil
		} else {
			shrunk.Target = newIn.Target
			newIn.Target = nil
		}
	}
	s.targets[symbol].UndoSplit(time)
}

// Point repoints s's (symbol, time) interval onto newTarget, merging
// whatever tree state previously occupied that interval into newTarget so
// every tail that used to route through the old target keeps being
// counted. The displaced target is saved on the interval for UndoPoint.
func (s *State) Point(symbol, time int, newTarget *State) {
	in := s.GetInterval(symbol, time)
	in.UndoTails = in.Tails.Clone()
	oldTarget := in.Target
	in.Target = newTarget
	if oldTarget != nil {
		preSplit(oldTarget, newTarget)
		recurseMerge(oldTarget, newTarget)
		in.UndoTo = oldTarget
	}
}

// UndoPoint reverses a prior Point(symbol, time, newTarget).
func (s *State) UndoPoint(symbol, time int, newTarget *State) {
	in := s.GetInterval(symbol, time)
	oldTarget := in.UndoTo
	in.UndoTo = nil
	if oldTarget != nil {
		recurseUnMerge(oldTarget, newTarget)
		unPreSplit(oldTarget)
		in.Target = oldTarget
	}
}

// #endregion entry-points
