package interval

// #region split
// Split divides the interval containing t into [begin,t] and [t+1,end],
// moving every tail with time <= t into the new left interval. Requires
// begin <= t < end of the interval found — violating that is an invariant
// failure, not a recoverable condition.
func (p *Partition[T]) Split(t int) (newLeft, shrunkOriginal *Interval[T]) {
	i := p.findContaining(t)
	if i < 0 {
		panic("interval: split at time with no containing interval")
	}
	orig := p.intervals[i]
	if !(orig.Begin <= t && t < orig.End) {
		panic("interval: split time out of bounds for containing interval")
	}

	left, right := orig.Tails.SplitAt(t)
	newIn := newInterval[T](orig.Begin, t)
	newIn.Tails = left

	orig.Begin = t + 1
	orig.Tails = right

	out := make([]*Interval[T], 0, len(p.intervals)+1)
	out = append(out, p.intervals[:i]...)
	out = append(out, newIn, orig)
	out = append(out, p.intervals[i+1:]...)
	p.intervals = out

	return newIn, orig
}

// findContaining returns the index of the interval whose [Begin,End]
// contains t, or -1, by a linear scan. Unlike Lookup it has no
// rbegin() fallback: Split requires an exact containing interval, not
// "the last one".
func (p *Partition[T]) findContaining(t int) int {
	for i, in := range p.intervals {
		if in.Begin <= t && t <= in.End {
			return i
		}
	}
	return -1
}

// UndoSplit reverses a prior Split(t): the interval ending exactly at t is
// removed, its tails merged into its right neighbor (which must start at
// t+1), and the neighbor's Begin restored to the removed interval's Begin.
// The neighbor's Target survives; the removed interval's does not.
func (p *Partition[T]) UndoSplit(t int) {
	i := p.indexOfEnd(t)
	if i < 0 || i+1 >= len(p.intervals) {
		panic("interval: undo split at time with no following interval")
	}
	removed := p.intervals[i]
	next := p.intervals[i+1]

	next.Tails.Merge(removed.Tails)
	next.Begin = removed.Begin

	p.intervals = append(p.intervals[:i], p.intervals[i+1:]...)
}

// #endregion split
