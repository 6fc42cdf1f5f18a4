// Package interval implements the ordered interval partition each
// (state, symbol) pair owns over the time domain [MinTime, MaxTime]. It is
// generic over the target-pointer type so it carries no dependency on the
// package that defines states — the state-owning package instantiates
// Partition[*State] itself.
package interval

import (
	"sort"

	"github.com/adaptive-rti/rti-go/internal/tailset"
	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region interval
// Interval is one contiguous [Begin, End] span of an interval partition.
// Target is the state this interval transitions to; the zero value of T
// (nil, for pointer types) means "unassigned".
type Interval[T comparable] struct {
	Begin, End int
	Tails      *tailset.Set
	Target     T

	NumMarked int

	// UndoTo holds the pre-Point target: Point saves the interval's prior
	// target here before repointing, UndoPoint consumes and clears it.
	UndoTo T

	// UndoTails holds a snapshot of Tails taken by Point just before the
	// merge into the new target. UndoPoint does not consume it; the
	// original engine this mirrors populates the equivalent slot on every
	// Point and never reads it back outside of disabled code, so the
	// snapshot stays write-only here too.
	UndoTails *tailset.Set
}

func newInterval[T comparable](begin, end int) *Interval[T] {
	return &Interval[T]{Begin: begin, End: end, Tails: tailset.New()}
}

// AddTail inserts tail into this interval's tail set.
func (in *Interval[T]) AddTail(tail *timedcorpus.Tail) {
	in.Tails.Add(tail)
}

// DelTail removes tail from this interval's tail set.
func (in *Interval[T]) DelTail(tail *timedcorpus.Tail) {
	in.Tails.Remove(tail)
}

// IsEmpty reports whether the interval currently holds no tails.
func (in *Interval[T]) IsEmpty() bool {
	return in.Tails.Len() == 0
}

// #endregion interval

// #region partition
// Partition is the ordered, non-overlapping sequence of Intervals covering
// [MinTime, MaxTime] for one (state, symbol) pair.
type Partition[T comparable] struct {
	intervals []*Interval[T]
}

// New returns a partition with a single interval spanning [minTime,maxTime].
func New[T comparable](minTime, maxTime int) *Partition[T] {
	return &Partition[T]{intervals: []*Interval[T]{newInterval[T](minTime, maxTime)}}
}

// IsUnsplit reports whether the partition is still the single,
// un-refined [min,max] interval.
func (p *Partition[T]) IsUnsplit() bool {
	return len(p.intervals) == 1
}

// Intervals returns the partition's intervals in ascending order. The
// caller must not mutate the returned slice.
func (p *Partition[T]) Intervals() []*Interval[T] {
	return p.intervals
}

// First returns the earliest interval.
func (p *Partition[T]) First() *Interval[T] {
	return p.intervals[0]
}

// Lookup returns the interval containing t, or the rightmost interval if t
// exceeds every interval's end (a query past the covered range falls back
// to the last interval rather than failing).
func (p *Partition[T]) Lookup(t int) *Interval[T] {
	i := sort.Search(len(p.intervals), func(i int) bool { return p.intervals[i].End >= t })
	if i == len(p.intervals) {
		return p.intervals[len(p.intervals)-1]
	}
	return p.intervals[i]
}

// indexOfEnd returns the index of the interval whose End equals end, or -1.
func (p *Partition[T]) indexOfEnd(end int) int {
	for i, in := range p.intervals {
		if in.End == end {
			return i
		}
	}
	return -1
}

// #endregion partition
