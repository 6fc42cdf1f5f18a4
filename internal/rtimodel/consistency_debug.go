//go:build rtidebug

package rtimodel

import (
	"github.com/adaptive-rti/rti-go/internal/interval"
	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region consistency
// checkNextTail walks forward from one tail's next link, panicking if the
// containing interval and the tail disagree about where the tail belongs,
// or if a tail that should have been cleared after scoring is still
// marked. The walk only continues into states the colored list doesn't
// already own — a colored state's own invariants are checked once, from
// its own entry in CheckConsistency's outer loop, not re-derived from
// every tail that happens to pass through it.
func (a *Automaton) checkNextTail(in *interval.Interval[*State], tail *timedcorpus.Tail) {
	if tail.TimeValue() < in.Begin || tail.TimeValue() > in.End || !in.Tails.Contains(tail) {
		panic("rtimodel: tail does not belong to its own interval")
	}
	if tail.IsMarked() {
		panic("rtimodel: tail left marked outside a scoring pass")
	}
	next := tail.NextTail()
	if next == nil {
		return
	}
	if in.Target == nil {
		panic("rtimodel: tail has a successor but its interval has no target")
	}
	nextIn := in.Target.GetInterval(next.Symbol(), next.TimeValue())
	if !nextIn.Tails.Contains(next) {
		panic("rtimodel: successor tail not found in its expected interval")
	}
	if !a.ContainsState(in.Target) {
		a.checkNextTail(nextIn, next)
	}
}

// CheckConsistency walks every colored state's tails and panics on the
// first invariant violation: a mismarked tail, a tail outside the bounds
// of the interval holding it, or a forward link into an interval the tail
// doesn't actually belong to. Built only with the rtidebug tag, mirroring
// the original's #ifdef NDEBUG guard around its own assertion walk —
// release builds of the search loop never pay for it.
func (a *Automaton) CheckConsistency() {
	for _, st := range a.states {
		if st.stats.TotalMarks() != 0 {
			panic("rtimodel: colored state has outstanding marks")
		}
		for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
			for _, in := range st.targets[symbol].Intervals() {
				if in.NumMarked != 0 {
					panic("rtimodel: interval has outstanding marks")
				}
				in.Tails.Each(func(_ int, tail *timedcorpus.Tail) {
					if tail.TimeValue() < in.Begin || tail.TimeValue() > in.End {
						panic("rtimodel: tail time value outside its own interval's bounds")
					}
					if tail.IsMarked() {
						panic("rtimodel: tail left marked outside a scoring pass")
					}
					if next := tail.NextTail(); next != nil {
						if in.Target == nil {
							panic("rtimodel: tail has a successor but its interval has no target")
						}
						a.checkNextTail(in.Target.GetInterval(next.Symbol(), next.TimeValue()), next)
					}
				})
			}
		}
	}
}

// #endregion consistency
