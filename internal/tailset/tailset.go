package tailset

import (
	"sort"

	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region entry
type entry struct {
	time int
	tail *timedcorpus.Tail
}

// #endregion entry

// #region set
// Set is an ordered multiset of tails keyed by time value. Ordering is
// ascending by time, with insertion order preserved among equal times.
type Set struct {
	entries []entry
}

// New returns an empty tail set.
func New() *Set {
	return &Set{}
}

// Len returns the number of tails currently in the set.
func (s *Set) Len() int {
	return len(s.entries)
}

// Add inserts tail, keyed by its own time value.
func (s *Set) Add(tail *timedcorpus.Tail) {
	s.add(tail.TimeValue(), tail)
}

func (s *Set) add(time int, tail *timedcorpus.Tail) {
	i := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].time > time })
	s.entries = append(s.entries, entry{})
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = entry{time: time, tail: tail}
}

// Remove deletes the first occurrence (by pointer identity) of tail. It
// panics if tail is not present — removal of an untracked tail is an
// engine invariant violation, not a recoverable error.
func (s *Set) Remove(tail *timedcorpus.Tail) {
	for i, e := range s.entries {
		if e.tail == tail {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
	panic("tailset: remove of tail not present in set")
}

// Contains reports whether tail is currently a member of the set.
func (s *Set) Contains(tail *timedcorpus.Tail) bool {
	for _, e := range s.entries {
		if e.tail == tail {
			return true
		}
	}
	return false
}

// First returns the earliest-time tail in the set.
func (s *Set) First() (time int, tail *timedcorpus.Tail, ok bool) {
	if len(s.entries) == 0 {
		return 0, nil, false
	}
	return s.entries[0].time, s.entries[0].tail, true
}

// Last returns the latest-time tail in the set.
func (s *Set) Last() (time int, tail *timedcorpus.Tail, ok bool) {
	if len(s.entries) == 0 {
		return 0, nil, false
	}
	last := s.entries[len(s.entries)-1]
	return last.time, last.tail, true
}

// Each calls fn for every tail in ascending time order.
func (s *Set) Each(fn func(time int, tail *timedcorpus.Tail)) {
	for _, e := range s.entries {
		fn(e.time, e.tail)
	}
}

// SplitAt partitions the set at time t: left receives every tail with
// time <= t, right keeps the rest.
func (s *Set) SplitAt(t int) (left, right *Set) {
	idx := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].time > t })
	left = &Set{entries: append([]entry(nil), s.entries[:idx]...)}
	right = &Set{entries: append([]entry(nil), s.entries[idx:]...)}
	return left, right
}

// Merge moves every entry of other into s, leaving other empty.
func (s *Set) Merge(other *Set) {
	if other == nil || len(other.entries) == 0 {
		return
	}
	for _, e := range other.entries {
		s.add(e.time, e.tail)
	}
	other.entries = nil
}

// Clone returns a shallow copy of s (same tail pointers, independent slice).
// rtimodel's Point uses it to snapshot an interval's tail set into
// UndoTails; UndoPoint does not read that snapshot back.
func (s *Set) Clone() *Set {
	return &Set{entries: append([]entry(nil), s.entries...)}
}

// Replace discards s's current contents and takes on other's.
func (s *Set) Replace(other *Set) {
	if other == nil {
		s.entries = nil
		return
	}
	s.entries = other.entries
}
